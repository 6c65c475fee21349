package model_test

import (
	"database/sql"

	"leadfilter/config"
	aperrors "leadfilter/errors"
	"leadfilter/model"
	modelt "leadfilter/model/testing"

	gc "gopkg.in/check.v1"
)

func (m *ModelSuite) TestGuildSettingsValidate(c *gc.C) {
	for i, t := range []struct {
		should       string
		settings     model.GuildSettings
		expectErrors aperrors.Errors
	}{{
		should: "accept sane settings",
		settings: model.GuildSettings{
			GuildID: "1", MinROI: 20, DedupeHours: 6,
		},
		expectErrors: aperrors.Errors{},
	}, {
		should:   "reject a blank guild id",
		settings: model.GuildSettings{MinROI: 20},
		expectErrors: aperrors.Errors{
			"guild_id": {"must not be blank"},
		},
	}, {
		should: "reject an out of range roi",
		settings: model.GuildSettings{
			GuildID: "1", MinROI: 101,
		},
		expectErrors: aperrors.Errors{
			"min_roi": {"must be between 0 and 100"},
		},
	}, {
		should: "reject an out of range dedupe window",
		settings: model.GuildSettings{
			GuildID: "1", MinROI: 20, DedupeHours: 169,
		},
		expectErrors: aperrors.Errors{
			"dedupe_hours": {"must be between 0 and 168"},
		},
	}} {
		c.Logf("test %d: should %s", i, t.should)
		errors := t.settings.Validate()
		c.Check(errors, gc.DeepEquals, t.expectErrors)
	}
}

func (m *ModelSuite) TestGuildSettingsFind(c *gc.C) {
	settings := modelt.PrepareGuildSettings(c, m.db, modelt.StrictGuild)

	found, err := model.FindGuildSettings(m.db, settings.GuildID)
	c.Assert(err, gc.IsNil)
	c.Check(found.MinROI, gc.Equals, settings.MinROI)
	c.Check(found.DMEnabled, gc.Equals, settings.DMEnabled)
	c.Check(found.DedupeHours, gc.Equals, settings.DedupeHours)

	_, err = model.FindGuildSettings(m.db, "no-such-guild")
	c.Check(err, gc.Equals, sql.ErrNoRows)
}

func (m *ModelSuite) TestGuildSettingsFindOrDefault(c *gc.C) {
	conf := config.Discord{MinROI: 20, DedupeHours: 6}

	settings, err := model.FindOrDefaultGuildSettings(m.db, conf, "fresh-guild")
	c.Assert(err, gc.IsNil)
	c.Check(settings.ID, gc.Equals, int64(0))
	c.Check(settings.MinROI, gc.Equals, 20.0)
	c.Check(settings.DMEnabled, gc.Equals, true)
	c.Check(settings.DedupeHours, gc.Equals, 6.0)

	stored := modelt.PrepareGuildSettings(c, m.db, modelt.LooseGuild)
	settings, err = model.FindOrDefaultGuildSettings(m.db, conf, stored.GuildID)
	c.Assert(err, gc.IsNil)
	c.Check(settings.ID, gc.Equals, stored.ID)
	c.Check(settings.MinROI, gc.Equals, stored.MinROI)
}

func (m *ModelSuite) TestGuildSettingsUniqueGuild(c *gc.C) {
	settings := modelt.PrepareGuildSettings(c, m.db, modelt.StrictGuild)

	tx, err := m.db.Begin()
	c.Assert(err, gc.IsNil)
	defer tx.Rollback()

	dupe := &model.GuildSettings{GuildID: settings.GuildID, MinROI: 5}
	err = dupe.Insert(tx)
	c.Assert(err, gc.NotNil)
	c.Check(dupe.ValidateFromDatabaseError(err), gc.DeepEquals, aperrors.Errors{
		"guild_id": {"is already taken"},
	})
}

func (m *ModelSuite) TestGuildSettingsUpsert(c *gc.C) {
	conf := config.Discord{MinROI: 20, DedupeHours: 6}
	settings := model.DefaultGuildSettings(conf, "upsert-guild")
	settings.MinROI = 25

	tx, err := m.db.Begin()
	c.Assert(err, gc.IsNil)
	c.Assert(settings.Upsert(tx), gc.IsNil)
	c.Assert(tx.Commit(), gc.IsNil)
	firstID := settings.ID
	c.Check(firstID > 0, gc.Equals, true)

	settings.MinROI = 40
	tx, err = m.db.Begin()
	c.Assert(err, gc.IsNil)
	c.Assert(settings.Upsert(tx), gc.IsNil)
	c.Assert(tx.Commit(), gc.IsNil)
	c.Check(settings.ID, gc.Equals, firstID)

	found, err := model.FindGuildSettings(m.db, "upsert-guild")
	c.Assert(err, gc.IsNil)
	c.Check(found.MinROI, gc.Equals, 40.0)
}

func (m *ModelSuite) TestGuildSettingsDelete(c *gc.C) {
	settings := modelt.PrepareGuildSettings(c, m.db, modelt.StrictGuild)

	tx, err := m.db.Begin()
	c.Assert(err, gc.IsNil)
	c.Assert(model.DeleteGuildSettings(tx, settings.GuildID), gc.IsNil)
	c.Assert(tx.Commit(), gc.IsNil)

	_, err = model.FindGuildSettings(m.db, settings.GuildID)
	c.Check(err, gc.Equals, sql.ErrNoRows)
}
