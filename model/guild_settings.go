package model

import (
	"database/sql"

	"leadfilter/config"
	aperrors "leadfilter/errors"
	apsql "leadfilter/sql"
)

// GuildSettings holds the per-guild filtering knobs. Every guild the bot
// serves gets exactly one row; guilds without a row run on the configured
// defaults until an operator changes something.
type GuildSettings struct {
	ID      int64  `json:"id"`
	GuildID string `json:"guild_id" db:"guild_id"`

	MinROI                  float64        `json:"min_roi" db:"min_roi"`
	DMEnabled               bool           `json:"dm_enabled" db:"dm_enabled"`
	AllowMissingEligibility bool           `json:"allow_missing_eligibility" db:"allow_missing_eligibility"`
	DedupeHours             float64        `json:"dedupe_hours" db:"dedupe_hours"`
	LogChannelID            sql.NullString `json:"log_channel_id" db:"log_channel_id"`
}

// DefaultGuildSettings returns the settings a guild runs on before any
// operator has customized it.
func DefaultGuildSettings(conf config.Discord, guildID string) *GuildSettings {
	return &GuildSettings{
		GuildID:     guildID,
		MinROI:      conf.MinROI,
		DMEnabled:   true,
		DedupeHours: conf.DedupeHours,
	}
}

// Validate validates the model.
func (s *GuildSettings) Validate() aperrors.Errors {
	errors := make(aperrors.Errors)
	if s.GuildID == "" {
		errors.Add("guild_id", "must not be blank")
	}
	if s.MinROI < 0 || s.MinROI > 100 {
		errors.Add("min_roi", "must be between 0 and 100")
	}
	if s.DedupeHours < 0 || s.DedupeHours > 168 {
		errors.Add("dedupe_hours", "must be between 0 and 168")
	}
	return errors
}

// ValidateFromDatabaseError translates possible database constraint errors
// into validation errors.
func (s *GuildSettings) ValidateFromDatabaseError(err error) aperrors.Errors {
	errors := make(aperrors.Errors)
	if apsql.IsUniqueConstraint(err, "guild_settings", "guild_id") {
		errors.Add("guild_id", "is already taken")
	}
	return errors
}

// AllGuildSettings returns the settings of every guild in an unspecified order.
func AllGuildSettings(db *apsql.DB) ([]*GuildSettings, error) {
	settings := []*GuildSettings{}
	err := db.Select(&settings,
		`SELECT id, guild_id, min_roi, dm_enabled, allow_missing_eligibility,
			dedupe_hours, log_channel_id
		 FROM guild_settings`)
	return settings, err
}

// CountGuildSettings returns how many guilds have customized settings.
func CountGuildSettings(db *apsql.DB) (int64, error) {
	var count int64
	err := db.Get(&count, `SELECT COUNT(*) FROM guild_settings`)
	return count, err
}

// FindGuildSettings returns the settings row for the guild specified.
func FindGuildSettings(db *apsql.DB, guildID string) (*GuildSettings, error) {
	settings := GuildSettings{}
	err := db.Get(&settings,
		`SELECT id, guild_id, min_roi, dm_enabled, allow_missing_eligibility,
			dedupe_hours, log_channel_id
		 FROM guild_settings
		 WHERE guild_id = ?`, guildID)
	return &settings, err
}

// FindOrDefaultGuildSettings returns the guild's stored settings, or the
// configured defaults if the guild has never been customized.
func FindOrDefaultGuildSettings(db *apsql.DB, conf config.Discord,
	guildID string) (*GuildSettings, error) {
	settings, err := FindGuildSettings(db, guildID)
	if err == sql.ErrNoRows {
		return DefaultGuildSettings(conf, guildID), nil
	}
	return settings, err
}

// DeleteGuildSettings deletes the settings row for the guild specified,
// returning it to the configured defaults.
func DeleteGuildSettings(tx *apsql.Tx, guildID string) error {
	var id int64
	err := tx.Get(&id, `SELECT id FROM guild_settings WHERE guild_id = ?`, guildID)
	if err != nil {
		return err
	}
	err = tx.DeleteOne(`DELETE FROM guild_settings WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return tx.Notify("guild_settings", guildID, id, apsql.Delete)
}

// Insert inserts the settings into the database as a new row.
func (s *GuildSettings) Insert(tx *apsql.Tx) (err error) {
	s.ID, err = tx.InsertOne(
		`INSERT INTO guild_settings
			(guild_id, min_roi, dm_enabled, allow_missing_eligibility,
			 dedupe_hours, log_channel_id)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		s.GuildID, s.MinROI, s.DMEnabled, s.AllowMissingEligibility,
		s.DedupeHours, s.LogChannelID)
	if err != nil {
		return err
	}
	return tx.Notify("guild_settings", s.GuildID, s.ID, apsql.Insert)
}

// Update updates the settings in the database.
func (s *GuildSettings) Update(tx *apsql.Tx) error {
	err := tx.UpdateOne(
		`UPDATE guild_settings
		 SET min_roi = ?, dm_enabled = ?, allow_missing_eligibility = ?,
			 dedupe_hours = ?, log_channel_id = ?
		 WHERE id = ?`,
		s.MinROI, s.DMEnabled, s.AllowMissingEligibility,
		s.DedupeHours, s.LogChannelID, s.ID)
	if err != nil {
		return err
	}
	return tx.Notify("guild_settings", s.GuildID, s.ID, apsql.Update)
}

// Upsert writes the settings whether or not the guild already has a row.
func (s *GuildSettings) Upsert(tx *apsql.Tx) error {
	existing := GuildSettings{}
	err := tx.Get(&existing,
		`SELECT id FROM guild_settings WHERE guild_id = ?`, s.GuildID)
	if err == sql.ErrNoRows {
		return s.Insert(tx)
	}
	if err != nil {
		return err
	}
	s.ID = existing.ID
	return s.Update(tx)
}
