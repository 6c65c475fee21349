package model_test

import (
	"time"

	"leadfilter/model"
	modelt "leadfilter/model/testing"

	gc "gopkg.in/check.v1"
)

func (m *ModelSuite) insertLead(c *gc.C, lead *model.Lead) {
	tx, err := m.db.Begin()
	c.Assert(err, gc.IsNil)
	c.Assert(lead.Insert(tx), gc.IsNil)
	c.Assert(tx.Commit(), gc.IsNil)
}

func (m *ModelSuite) TestLeadRecent(c *gc.C) {
	guild := modelt.PrepareGuildSettings(c, m.db, modelt.StrictGuild)
	now := time.Now().UTC()

	for i, msg := range []string{"msg1", "msg2", "msg3"} {
		m.insertLead(c, &model.Lead{
			GuildID:   guild.GuildID,
			ChannelID: "111",
			MessageID: msg,
			ROI:       float64(20 + i),
			ASINs:     "B0AAAAAAA1",
			Summary:   "ROI 20%",
			JumpURL:   "https://discord.com/channels/1/111/" + msg,
			CreatedAt: now.Add(time.Duration(i) * time.Minute),
		})
	}

	leads, err := model.RecentLeadsForGuildID(m.db, guild.GuildID, 2)
	c.Assert(err, gc.IsNil)
	c.Assert(leads, gc.HasLen, 2)
	c.Check(leads[0].MessageID, gc.Equals, "msg3")
	c.Check(leads[1].MessageID, gc.Equals, "msg2")

	count, err := model.CountLeadsForGuildID(m.db, guild.GuildID)
	c.Assert(err, gc.IsNil)
	c.Check(count, gc.Equals, int64(3))

	count, err = model.CountLeadsForGuildID(m.db, "no-such-guild")
	c.Assert(err, gc.IsNil)
	c.Check(count, gc.Equals, int64(0))
}
