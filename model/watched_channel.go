package model

import (
	aperrors "leadfilter/errors"
	apsql "leadfilter/sql"
)

// WatchedChannel represents a channel the bot filters lead posts in.
type WatchedChannel struct {
	ID        int64  `json:"id"`
	GuildID   string `json:"guild_id" db:"guild_id"`
	ChannelID string `json:"channel_id" db:"channel_id"`
}

// Validate validates the model.
func (w *WatchedChannel) Validate() aperrors.Errors {
	errors := make(aperrors.Errors)
	if w.GuildID == "" {
		errors.Add("guild_id", "must not be blank")
	}
	if w.ChannelID == "" {
		errors.Add("channel_id", "must not be blank")
	}
	return errors
}

// ValidateFromDatabaseError translates possible database constraint errors
// into validation errors.
func (w *WatchedChannel) ValidateFromDatabaseError(err error) aperrors.Errors {
	errors := make(aperrors.Errors)
	if apsql.IsUniqueConstraint(err, "watched_channels", "channel_id") {
		errors.Add("channel_id", "is already watched")
	}
	return errors
}

// CountWatchedChannels returns how many channels are watched across all
// guilds.
func CountWatchedChannels(db *apsql.DB) (int64, error) {
	var count int64
	err := db.Get(&count, `SELECT COUNT(*) FROM watched_channels`)
	return count, err
}

// AllWatchedChannelsForGuildID returns the guild's watched channels in
// insertion order.
func AllWatchedChannelsForGuildID(db *apsql.DB, guildID string) ([]*WatchedChannel, error) {
	channels := []*WatchedChannel{}
	err := db.Select(&channels,
		`SELECT id, guild_id, channel_id FROM watched_channels
		 WHERE guild_id = ? ORDER BY id ASC`, guildID)
	return channels, err
}

// FindWatchedChannel returns the watched channel with the channel id specified.
func FindWatchedChannel(db *apsql.DB, channelID string) (*WatchedChannel, error) {
	channel := WatchedChannel{}
	err := db.Get(&channel,
		`SELECT id, guild_id, channel_id FROM watched_channels
		 WHERE channel_id = ?`, channelID)
	return &channel, err
}

// DeleteWatchedChannel stops watching the channel specified.
func DeleteWatchedChannel(tx *apsql.Tx, guildID, channelID string) error {
	var id int64
	err := tx.Get(&id,
		`SELECT id FROM watched_channels WHERE guild_id = ? AND channel_id = ?`,
		guildID, channelID)
	if err != nil {
		return err
	}
	err = tx.DeleteOne(`DELETE FROM watched_channels WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return tx.Notify("watched_channels", guildID, id, apsql.Delete)
}

// Insert inserts the watched channel into the database as a new row.
func (w *WatchedChannel) Insert(tx *apsql.Tx) (err error) {
	w.ID, err = tx.InsertOne(
		`INSERT INTO watched_channels (guild_id, channel_id) VALUES (?, ?)`,
		w.GuildID, w.ChannelID)
	if err != nil {
		return err
	}
	return tx.Notify("watched_channels", w.GuildID, w.ID, apsql.Insert)
}
