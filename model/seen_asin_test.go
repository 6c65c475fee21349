package model_test

import (
	"time"

	"leadfilter/model"
	modelt "leadfilter/model/testing"

	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"
)

func (m *ModelSuite) filterRecent(c *gc.C, guildID string, asins []string,
	window float64, now time.Time) []string {
	tx, err := m.db.Begin()
	c.Assert(err, gc.IsNil)
	fresh, err := model.FilterRecentASINs(tx, guildID, asins, window, now)
	c.Assert(err, gc.IsNil)
	c.Assert(tx.Commit(), gc.IsNil)
	return fresh
}

func (m *ModelSuite) TestFilterRecentASINs(c *gc.C) {
	guild := modelt.PrepareGuildSettings(c, m.db, modelt.StrictGuild)
	now := time.Now().UTC()

	fresh := m.filterRecent(c, guild.GuildID, []string{"B0AAAAAAA1", "B0AAAAAAA2"}, 6, now)
	c.Check(fresh, jc.DeepEquals, []string{"B0AAAAAAA1", "B0AAAAAAA2"})

	fresh = m.filterRecent(c, guild.GuildID, []string{"B0AAAAAAA1", "B0AAAAAAA3"},
		6, now.Add(time.Hour))
	c.Check(fresh, jc.DeepEquals, []string{"B0AAAAAAA3"})

	fresh = m.filterRecent(c, guild.GuildID, []string{"B0AAAAAAA1"},
		6, now.Add(8*time.Hour))
	c.Check(fresh, jc.DeepEquals, []string{"B0AAAAAAA1"})
}

func (m *ModelSuite) TestFilterRecentASINsRepostKeepsOriginalWindow(c *gc.C) {
	guild := modelt.PrepareGuildSettings(c, m.db, modelt.StrictGuild)
	now := time.Now().UTC()

	fresh := m.filterRecent(c, guild.GuildID, []string{"B0AAAAAAA1"}, 6, now)
	c.Check(fresh, jc.DeepEquals, []string{"B0AAAAAAA1"})

	// A repost inside the window is dropped without refreshing the row.
	fresh = m.filterRecent(c, guild.GuildID, []string{"B0AAAAAAA1"},
		6, now.Add(5*time.Hour))
	c.Check(fresh, jc.DeepEquals, []string{})

	fresh = m.filterRecent(c, guild.GuildID, []string{"B0AAAAAAA1"},
		6, now.Add(7*time.Hour))
	c.Check(fresh, jc.DeepEquals, []string{"B0AAAAAAA1"})
}

func (m *ModelSuite) TestFilterRecentASINsZeroWindow(c *gc.C) {
	guild := modelt.PrepareGuildSettings(c, m.db, modelt.StrictGuild)
	now := time.Now().UTC()

	fresh := m.filterRecent(c, guild.GuildID, []string{"B0AAAAAAA1"}, 0, now)
	c.Check(fresh, jc.DeepEquals, []string{"B0AAAAAAA1"})

	fresh = m.filterRecent(c, guild.GuildID, []string{"B0AAAAAAA1"}, 0, now)
	c.Check(fresh, jc.DeepEquals, []string{"B0AAAAAAA1"})
}

func (m *ModelSuite) TestFilterRecentASINsPerGuild(c *gc.C) {
	strict := modelt.PrepareGuildSettings(c, m.db, modelt.StrictGuild)
	loose := modelt.PrepareGuildSettings(c, m.db, modelt.LooseGuild)
	now := time.Now().UTC()

	m.filterRecent(c, strict.GuildID, []string{"B0AAAAAAA1"}, 6, now)

	fresh := m.filterRecent(c, loose.GuildID, []string{"B0AAAAAAA1"}, 6, now)
	c.Check(fresh, jc.DeepEquals, []string{"B0AAAAAAA1"})
}

func (m *ModelSuite) TestPurgeSeenASINs(c *gc.C) {
	guild := modelt.PrepareGuildSettings(c, m.db, modelt.StrictGuild)
	now := time.Now().UTC()

	m.filterRecent(c, guild.GuildID, []string{"B0AAAAAAA1", "B0AAAAAAA2"}, 6, now)

	tx, err := m.db.Begin()
	c.Assert(err, gc.IsNil)
	purged, err := model.PurgeSeenASINsBefore(tx, now.Add(time.Minute))
	c.Assert(err, gc.IsNil)
	c.Assert(tx.Commit(), gc.IsNil)
	c.Check(purged, gc.Equals, int64(2))
}
