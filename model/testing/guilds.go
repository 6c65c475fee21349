package testing

import (
	aperrors "leadfilter/errors"
	"leadfilter/model"
	apsql "leadfilter/sql"

	gc "gopkg.in/check.v1"
)

// Guild settings fixtures.
const (
	StrictGuild = "strict"
	LooseGuild  = "loose"
)

// PrepareGuildSettings adds the given guild settings fixture to the given
// database.
func PrepareGuildSettings(c *gc.C, db *apsql.DB, which string) *model.GuildSettings {
	tx, err := db.Begin()
	c.Assert(err, gc.IsNil)

	s, ok := guildSettings[which]
	c.Assert(ok, gc.Equals, true)
	settings := &s

	c.Assert(settings.Validate(), gc.DeepEquals, make(aperrors.Errors))
	c.Assert(settings.Insert(tx), gc.IsNil)
	c.Assert(tx.Commit(), gc.IsNil)
	return settings
}

var guildSettings = map[string]model.GuildSettings{
	StrictGuild: {
		GuildID:     "100200300400500601",
		MinROI:      35,
		DMEnabled:   true,
		DedupeHours: 12,
	},
	LooseGuild: {
		GuildID:                 "100200300400500602",
		MinROI:                  10,
		DMEnabled:               false,
		AllowMissingEligibility: true,
		DedupeHours:             1,
	},
}

// PrepareWatchedChannel adds a watched channel fixture for the guild to the
// given database.
func PrepareWatchedChannel(c *gc.C, db *apsql.DB, guildID, channelID string) *model.WatchedChannel {
	tx, err := db.Begin()
	c.Assert(err, gc.IsNil)

	channel := &model.WatchedChannel{GuildID: guildID, ChannelID: channelID}

	c.Assert(channel.Validate(), gc.DeepEquals, make(aperrors.Errors))
	c.Assert(channel.Insert(tx), gc.IsNil)
	c.Assert(tx.Commit(), gc.IsNil)
	return channel
}

// PrepareChannelLink adds a channel link fixture for the guild to the given
// database.
func PrepareChannelLink(c *gc.C, db *apsql.DB, guildID, source, destination string) *model.ChannelLink {
	tx, err := db.Begin()
	c.Assert(err, gc.IsNil)

	link := &model.ChannelLink{
		GuildID:              guildID,
		SourceChannelID:      source,
		DestinationChannelID: destination,
	}

	c.Assert(link.Validate(), gc.DeepEquals, make(aperrors.Errors))
	c.Assert(link.Insert(tx), gc.IsNil)
	c.Assert(tx.Commit(), gc.IsNil)
	return link
}
