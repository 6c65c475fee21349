package model_test

import (
	"database/sql"

	aperrors "leadfilter/errors"
	"leadfilter/model"
	modelt "leadfilter/model/testing"

	gc "gopkg.in/check.v1"
)

func (m *ModelSuite) TestWatchedChannelValidate(c *gc.C) {
	channel := model.WatchedChannel{}
	c.Check(channel.Validate(), gc.DeepEquals, aperrors.Errors{
		"guild_id":   {"must not be blank"},
		"channel_id": {"must not be blank"},
	})

	channel = model.WatchedChannel{GuildID: "1", ChannelID: "2"}
	c.Check(channel.Validate(), gc.DeepEquals, aperrors.Errors{})
}

func (m *ModelSuite) TestWatchedChannelRoundTrip(c *gc.C) {
	guild := modelt.PrepareGuildSettings(c, m.db, modelt.StrictGuild)
	modelt.PrepareWatchedChannel(c, m.db, guild.GuildID, "111")
	modelt.PrepareWatchedChannel(c, m.db, guild.GuildID, "222")

	channels, err := model.AllWatchedChannelsForGuildID(m.db, guild.GuildID)
	c.Assert(err, gc.IsNil)
	c.Assert(channels, gc.HasLen, 2)
	c.Check(channels[0].ChannelID, gc.Equals, "111")
	c.Check(channels[1].ChannelID, gc.Equals, "222")

	found, err := model.FindWatchedChannel(m.db, "222")
	c.Assert(err, gc.IsNil)
	c.Check(found.GuildID, gc.Equals, guild.GuildID)
}

func (m *ModelSuite) TestWatchedChannelUnique(c *gc.C) {
	guild := modelt.PrepareGuildSettings(c, m.db, modelt.StrictGuild)
	modelt.PrepareWatchedChannel(c, m.db, guild.GuildID, "111")

	tx, err := m.db.Begin()
	c.Assert(err, gc.IsNil)
	defer tx.Rollback()

	dupe := &model.WatchedChannel{GuildID: guild.GuildID, ChannelID: "111"}
	err = dupe.Insert(tx)
	c.Assert(err, gc.NotNil)
	c.Check(dupe.ValidateFromDatabaseError(err), gc.DeepEquals, aperrors.Errors{
		"channel_id": {"is already watched"},
	})
}

func (m *ModelSuite) TestWatchedChannelDelete(c *gc.C) {
	guild := modelt.PrepareGuildSettings(c, m.db, modelt.StrictGuild)
	modelt.PrepareWatchedChannel(c, m.db, guild.GuildID, "111")

	tx, err := m.db.Begin()
	c.Assert(err, gc.IsNil)
	c.Assert(model.DeleteWatchedChannel(tx, guild.GuildID, "111"), gc.IsNil)
	c.Assert(tx.Commit(), gc.IsNil)

	_, err = model.FindWatchedChannel(m.db, "111")
	c.Check(err, gc.Equals, sql.ErrNoRows)

	tx, err = m.db.Begin()
	c.Assert(err, gc.IsNil)
	defer tx.Rollback()
	c.Check(model.DeleteWatchedChannel(tx, guild.GuildID, "111"), gc.NotNil)
}
