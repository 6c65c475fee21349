package model_test

import (
	"database/sql"

	aperrors "leadfilter/errors"
	"leadfilter/model"
	modelt "leadfilter/model/testing"

	gc "gopkg.in/check.v1"
)

func (m *ModelSuite) TestFilterScriptValidate(c *gc.C) {
	script := model.FilterScript{GuildID: "1", Enabled: true}
	c.Check(script.Validate(), gc.DeepEquals, aperrors.Errors{
		"script": {"must not be blank when enabled"},
	})

	script = model.FilterScript{GuildID: "1", Script: "decision.pass = false;"}
	c.Check(script.Validate(), gc.DeepEquals, aperrors.Errors{})
}

func (m *ModelSuite) TestFilterScriptUpsert(c *gc.C) {
	guild := modelt.PrepareGuildSettings(c, m.db, modelt.StrictGuild)

	script := &model.FilterScript{
		GuildID: guild.GuildID,
		Script:  "decision.pass = false;",
		Enabled: true,
	}
	tx, err := m.db.Begin()
	c.Assert(err, gc.IsNil)
	c.Assert(script.Upsert(tx), gc.IsNil)
	c.Assert(tx.Commit(), gc.IsNil)
	firstID := script.ID

	script.Enabled = false
	tx, err = m.db.Begin()
	c.Assert(err, gc.IsNil)
	c.Assert(script.Upsert(tx), gc.IsNil)
	c.Assert(tx.Commit(), gc.IsNil)
	c.Check(script.ID, gc.Equals, firstID)

	found, err := model.FindFilterScript(m.db, guild.GuildID)
	c.Assert(err, gc.IsNil)
	c.Check(found.Enabled, gc.Equals, false)
	c.Check(found.Script, gc.Equals, "decision.pass = false;")
}

func (m *ModelSuite) TestFilterScriptDelete(c *gc.C) {
	guild := modelt.PrepareGuildSettings(c, m.db, modelt.StrictGuild)

	script := &model.FilterScript{GuildID: guild.GuildID, Script: "1;", Enabled: true}
	tx, err := m.db.Begin()
	c.Assert(err, gc.IsNil)
	c.Assert(script.Insert(tx), gc.IsNil)
	c.Assert(tx.Commit(), gc.IsNil)

	tx, err = m.db.Begin()
	c.Assert(err, gc.IsNil)
	c.Assert(model.DeleteFilterScript(tx, guild.GuildID), gc.IsNil)
	c.Assert(tx.Commit(), gc.IsNil)

	_, err = model.FindFilterScript(m.db, guild.GuildID)
	c.Check(err, gc.Equals, sql.ErrNoRows)
}
