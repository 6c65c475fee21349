package model

import (
	aperrors "leadfilter/errors"
	apsql "leadfilter/sql"
)

// ChannelLink relays approved leads seen in a source channel to a
// destination channel, possibly in another guild.
type ChannelLink struct {
	ID                   int64  `json:"id"`
	GuildID              string `json:"guild_id" db:"guild_id"`
	SourceChannelID      string `json:"source_channel_id" db:"source_channel_id"`
	DestinationChannelID string `json:"destination_channel_id" db:"destination_channel_id"`
}

// Validate validates the model.
func (l *ChannelLink) Validate() aperrors.Errors {
	errors := make(aperrors.Errors)
	if l.GuildID == "" {
		errors.Add("guild_id", "must not be blank")
	}
	if l.SourceChannelID == "" {
		errors.Add("source_channel_id", "must not be blank")
	}
	if l.DestinationChannelID == "" {
		errors.Add("destination_channel_id", "must not be blank")
	}
	if l.SourceChannelID != "" && l.SourceChannelID == l.DestinationChannelID {
		errors.Add("destination_channel_id", "must differ from source")
	}
	return errors
}

// ValidateFromDatabaseError translates possible database constraint errors
// into validation errors.
func (l *ChannelLink) ValidateFromDatabaseError(err error) aperrors.Errors {
	errors := make(aperrors.Errors)
	if apsql.IsUniqueConstraint(err, "channel_links", "source_channel_id") {
		errors.Add("source_channel_id", "is already linked")
	}
	return errors
}

// CountChannelLinks returns how many relay links exist across all guilds.
func CountChannelLinks(db *apsql.DB) (int64, error) {
	var count int64
	err := db.Get(&count, `SELECT COUNT(*) FROM channel_links`)
	return count, err
}

// AllChannelLinksForGuildID returns the guild's links in insertion order.
func AllChannelLinksForGuildID(db *apsql.DB, guildID string) ([]*ChannelLink, error) {
	links := []*ChannelLink{}
	err := db.Select(&links,
		`SELECT id, guild_id, source_channel_id, destination_channel_id
		 FROM channel_links WHERE guild_id = ? ORDER BY id ASC`, guildID)
	return links, err
}

// FindChannelLinkForSource returns the link whose source is the channel
// specified.
func FindChannelLinkForSource(db *apsql.DB, sourceChannelID string) (*ChannelLink, error) {
	link := ChannelLink{}
	err := db.Get(&link,
		`SELECT id, guild_id, source_channel_id, destination_channel_id
		 FROM channel_links WHERE source_channel_id = ?`, sourceChannelID)
	return &link, err
}

// DeleteChannelLinkForSource removes the link whose source is the channel
// specified.
func DeleteChannelLinkForSource(tx *apsql.Tx, guildID, sourceChannelID string) error {
	var id int64
	err := tx.Get(&id,
		`SELECT id FROM channel_links WHERE guild_id = ? AND source_channel_id = ?`,
		guildID, sourceChannelID)
	if err != nil {
		return err
	}
	err = tx.DeleteOne(`DELETE FROM channel_links WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return tx.Notify("channel_links", guildID, id, apsql.Delete)
}

// Insert inserts the link into the database as a new row.
func (l *ChannelLink) Insert(tx *apsql.Tx) (err error) {
	l.ID, err = tx.InsertOne(
		`INSERT INTO channel_links (guild_id, source_channel_id, destination_channel_id)
		 VALUES (?, ?, ?)`,
		l.GuildID, l.SourceChannelID, l.DestinationChannelID)
	if err != nil {
		return err
	}
	return tx.Notify("channel_links", l.GuildID, l.ID, apsql.Insert)
}

// Update updates the link in the database.
func (l *ChannelLink) Update(tx *apsql.Tx) error {
	err := tx.UpdateOne(
		`UPDATE channel_links SET destination_channel_id = ? WHERE id = ?`,
		l.DestinationChannelID, l.ID)
	if err != nil {
		return err
	}
	return tx.Notify("channel_links", l.GuildID, l.ID, apsql.Update)
}
