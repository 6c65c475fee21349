package model_test

import (
	"database/sql"

	aperrors "leadfilter/errors"
	"leadfilter/model"
	modelt "leadfilter/model/testing"

	gc "gopkg.in/check.v1"
)

func (m *ModelSuite) TestChannelLinkValidate(c *gc.C) {
	link := model.ChannelLink{GuildID: "1", SourceChannelID: "2", DestinationChannelID: "2"}
	c.Check(link.Validate(), gc.DeepEquals, aperrors.Errors{
		"destination_channel_id": {"must differ from source"},
	})

	link = model.ChannelLink{GuildID: "1", SourceChannelID: "2", DestinationChannelID: "3"}
	c.Check(link.Validate(), gc.DeepEquals, aperrors.Errors{})
}

func (m *ModelSuite) TestChannelLinkRoundTrip(c *gc.C) {
	guild := modelt.PrepareGuildSettings(c, m.db, modelt.StrictGuild)
	modelt.PrepareChannelLink(c, m.db, guild.GuildID, "111", "999")

	link, err := model.FindChannelLinkForSource(m.db, "111")
	c.Assert(err, gc.IsNil)
	c.Check(link.DestinationChannelID, gc.Equals, "999")

	link.DestinationChannelID = "888"
	tx, err := m.db.Begin()
	c.Assert(err, gc.IsNil)
	c.Assert(link.Update(tx), gc.IsNil)
	c.Assert(tx.Commit(), gc.IsNil)

	link, err = model.FindChannelLinkForSource(m.db, "111")
	c.Assert(err, gc.IsNil)
	c.Check(link.DestinationChannelID, gc.Equals, "888")
}

func (m *ModelSuite) TestChannelLinkUniqueSource(c *gc.C) {
	guild := modelt.PrepareGuildSettings(c, m.db, modelt.StrictGuild)
	modelt.PrepareChannelLink(c, m.db, guild.GuildID, "111", "999")

	tx, err := m.db.Begin()
	c.Assert(err, gc.IsNil)
	defer tx.Rollback()

	dupe := &model.ChannelLink{
		GuildID:              guild.GuildID,
		SourceChannelID:      "111",
		DestinationChannelID: "777",
	}
	err = dupe.Insert(tx)
	c.Assert(err, gc.NotNil)
	c.Check(dupe.ValidateFromDatabaseError(err), gc.DeepEquals, aperrors.Errors{
		"source_channel_id": {"is already linked"},
	})
}

func (m *ModelSuite) TestChannelLinkDelete(c *gc.C) {
	guild := modelt.PrepareGuildSettings(c, m.db, modelt.StrictGuild)
	modelt.PrepareChannelLink(c, m.db, guild.GuildID, "111", "999")

	tx, err := m.db.Begin()
	c.Assert(err, gc.IsNil)
	c.Assert(model.DeleteChannelLinkForSource(tx, guild.GuildID, "111"), gc.IsNil)
	c.Assert(tx.Commit(), gc.IsNil)

	_, err = model.FindChannelLinkForSource(m.db, "111")
	c.Check(err, gc.Equals, sql.ErrNoRows)
}
