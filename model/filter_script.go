package model

import (
	"database/sql"

	aperrors "leadfilter/errors"
	apsql "leadfilter/sql"
)

// FilterScript is a guild's custom JavaScript hook, run after the built-in
// decision to let operators veto or rescue a lead.
type FilterScript struct {
	ID      int64  `json:"id"`
	GuildID string `json:"guild_id" db:"guild_id"`
	Script  string `json:"script" db:"script"`
	Enabled bool   `json:"enabled" db:"enabled"`
}

// Validate validates the model.
func (f *FilterScript) Validate() aperrors.Errors {
	errors := make(aperrors.Errors)
	if f.GuildID == "" {
		errors.Add("guild_id", "must not be blank")
	}
	if f.Enabled && f.Script == "" {
		errors.Add("script", "must not be blank when enabled")
	}
	return errors
}

// ValidateFromDatabaseError translates possible database constraint errors
// into validation errors.
func (f *FilterScript) ValidateFromDatabaseError(err error) aperrors.Errors {
	errors := make(aperrors.Errors)
	if apsql.IsUniqueConstraint(err, "filter_scripts", "guild_id") {
		errors.Add("guild_id", "already has a script")
	}
	return errors
}

// FindFilterScript returns the guild's script row.
func FindFilterScript(db *apsql.DB, guildID string) (*FilterScript, error) {
	script := FilterScript{}
	err := db.Get(&script,
		`SELECT id, guild_id, script, enabled FROM filter_scripts
		 WHERE guild_id = ?`, guildID)
	return &script, err
}

// DeleteFilterScript removes the guild's script row.
func DeleteFilterScript(tx *apsql.Tx, guildID string) error {
	var id int64
	err := tx.Get(&id, `SELECT id FROM filter_scripts WHERE guild_id = ?`, guildID)
	if err != nil {
		return err
	}
	err = tx.DeleteOne(`DELETE FROM filter_scripts WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return tx.Notify("filter_scripts", guildID, id, apsql.Delete)
}

// Insert inserts the script into the database as a new row.
func (f *FilterScript) Insert(tx *apsql.Tx) (err error) {
	f.ID, err = tx.InsertOne(
		`INSERT INTO filter_scripts (guild_id, script, enabled) VALUES (?, ?, ?)`,
		f.GuildID, f.Script, f.Enabled)
	if err != nil {
		return err
	}
	return tx.Notify("filter_scripts", f.GuildID, f.ID, apsql.Insert)
}

// Update updates the script in the database.
func (f *FilterScript) Update(tx *apsql.Tx) error {
	err := tx.UpdateOne(
		`UPDATE filter_scripts SET script = ?, enabled = ? WHERE id = ?`,
		f.Script, f.Enabled, f.ID)
	if err != nil {
		return err
	}
	return tx.Notify("filter_scripts", f.GuildID, f.ID, apsql.Update)
}

// Upsert writes the script whether or not the guild already has one.
func (f *FilterScript) Upsert(tx *apsql.Tx) error {
	existing := FilterScript{}
	err := tx.Get(&existing,
		`SELECT id FROM filter_scripts WHERE guild_id = ?`, f.GuildID)
	if err == sql.ErrNoRows {
		return f.Insert(tx)
	}
	if err != nil {
		return err
	}
	f.ID = existing.ID
	return f.Update(tx)
}
