package model

import (
	"database/sql"
	"time"

	aperrors "leadfilter/errors"
	apsql "leadfilter/sql"
)

// SeenASIN records when a product last passed through a guild's filter,
// backing the dedupe window.
type SeenASIN struct {
	ID         int64     `json:"id"`
	GuildID    string    `json:"guild_id" db:"guild_id"`
	ASIN       string    `json:"asin" db:"asin"`
	LastSeenAt time.Time `json:"last_seen_at" db:"last_seen_at"`
}

// Validate validates the model.
func (s *SeenASIN) Validate() aperrors.Errors {
	errors := make(aperrors.Errors)
	if s.GuildID == "" {
		errors.Add("guild_id", "must not be blank")
	}
	if s.ASIN == "" {
		errors.Add("asin", "must not be blank")
	}
	return errors
}

// FindSeenASIN returns the dedupe row for the guild and ASIN specified.
func FindSeenASIN(db *apsql.DB, guildID, asin string) (*SeenASIN, error) {
	seen := SeenASIN{}
	err := db.Get(&seen,
		`SELECT id, guild_id, asin, last_seen_at FROM seen_asins
		 WHERE guild_id = ? AND asin = ?`, guildID, asin)
	return &seen, err
}

// FilterRecentASINs returns the subset of asins the guild has not seen
// within the window and marks that subset as seen at now. Dropped ASINs
// keep their original timestamp, so a lead reposted every few hours still
// resurfaces once the window from its first sighting elapses. A window of
// zero hours disables deduping and marks nothing.
func FilterRecentASINs(tx *apsql.Tx, guildID string, asins []string,
	windowHours float64, now time.Time) ([]string, error) {
	if windowHours <= 0 {
		return asins, nil
	}

	cutoff := now.Add(-time.Duration(windowHours * float64(time.Hour)))
	fresh := []string{}
	for _, asin := range asins {
		seen := SeenASIN{}
		err := tx.Get(&seen,
			`SELECT id, guild_id, asin, last_seen_at FROM seen_asins
			 WHERE guild_id = ? AND asin = ?`, guildID, asin)
		switch {
		case err == sql.ErrNoRows:
			fresh = append(fresh, asin)
			record := SeenASIN{GuildID: guildID, ASIN: asin, LastSeenAt: now}
			if err := record.Insert(tx); err != nil {
				return nil, err
			}
		case err != nil:
			return nil, err
		default:
			if !seen.LastSeenAt.Before(cutoff) {
				continue
			}
			fresh = append(fresh, asin)
			seen.LastSeenAt = now
			if err := seen.touch(tx); err != nil {
				return nil, err
			}
		}
	}
	return fresh, nil
}

// PurgeSeenASINsBefore removes dedupe rows older than the cutoff, returning
// the number removed. Old rows only cost space, so this runs as periodic
// maintenance rather than inline.
func PurgeSeenASINsBefore(tx *apsql.Tx, cutoff time.Time) (int64, error) {
	result, err := tx.Exec(`DELETE FROM seen_asins WHERE last_seen_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	purged, err := result.RowsAffected()
	if err != nil || purged == 0 {
		return purged, err
	}
	return purged, tx.Notify("seen_asins", "", 0, apsql.Delete)
}

// Insert inserts the dedupe row into the database as a new row.
func (s *SeenASIN) Insert(tx *apsql.Tx) (err error) {
	s.ID, err = tx.InsertOne(
		`INSERT INTO seen_asins (guild_id, asin, last_seen_at) VALUES (?, ?, ?)`,
		s.GuildID, s.ASIN, s.LastSeenAt)
	return err
}

func (s *SeenASIN) touch(tx *apsql.Tx) error {
	return tx.UpdateOne(
		`UPDATE seen_asins SET last_seen_at = ? WHERE id = ?`,
		s.LastSeenAt, s.ID)
}
