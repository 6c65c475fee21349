package model

import (
	"time"

	aperrors "leadfilter/errors"
	apsql "leadfilter/sql"
)

// Lead is the audit record of a post that passed the filter.
type Lead struct {
	ID        int64     `json:"id"`
	GuildID   string    `json:"guild_id" db:"guild_id"`
	ChannelID string    `json:"channel_id" db:"channel_id"`
	MessageID string    `json:"message_id" db:"message_id"`
	ROI       float64   `json:"roi" db:"roi"`
	ASINs     string    `json:"asins" db:"asins"`
	Summary   string    `json:"summary" db:"summary"`
	JumpURL   string    `json:"jump_url" db:"jump_url"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Validate validates the model.
func (l *Lead) Validate() aperrors.Errors {
	errors := make(aperrors.Errors)
	if l.GuildID == "" {
		errors.Add("guild_id", "must not be blank")
	}
	if l.ChannelID == "" {
		errors.Add("channel_id", "must not be blank")
	}
	if l.MessageID == "" {
		errors.Add("message_id", "must not be blank")
	}
	return errors
}

// RecentLeadsForGuildID returns up to limit of the guild's newest leads,
// newest first.
func RecentLeadsForGuildID(db *apsql.DB, guildID string, limit int64) ([]*Lead, error) {
	leads := []*Lead{}
	err := db.Select(&leads,
		`SELECT id, guild_id, channel_id, message_id, roi, asins, summary,
			jump_url, created_at
		 FROM leads WHERE guild_id = ?
		 ORDER BY created_at DESC, id DESC LIMIT ?`, guildID, limit)
	return leads, err
}

// CountLeads returns how many leads have been recorded across all guilds.
func CountLeads(db *apsql.DB) (int64, error) {
	var count int64
	err := db.Get(&count, `SELECT COUNT(*) FROM leads`)
	return count, err
}

// CountLeadsForGuildID returns how many leads the guild has accumulated.
func CountLeadsForGuildID(db *apsql.DB, guildID string) (int64, error) {
	var count int64
	err := db.Get(&count, `SELECT COUNT(*) FROM leads WHERE guild_id = ?`, guildID)
	return count, err
}

// Insert inserts the lead into the database as a new row.
func (l *Lead) Insert(tx *apsql.Tx) (err error) {
	l.ID, err = tx.InsertOne(
		`INSERT INTO leads
			(guild_id, channel_id, message_id, roi, asins, summary, jump_url, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		l.GuildID, l.ChannelID, l.MessageID, l.ROI, l.ASINs, l.Summary,
		l.JumpURL, l.CreatedAt)
	if err != nil {
		return err
	}
	return tx.Notify("leads", l.GuildID, l.ID, apsql.Insert)
}
