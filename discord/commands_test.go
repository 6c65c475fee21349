package discord

import (
	"fmt"
	"strings"

	"leadfilter/model"

	"github.com/bwmarrin/discordgo"
	gc "gopkg.in/check.v1"
)

func (s *DiscordSuite) TestWatchCommands(c *gc.C) {
	c.Check(s.server.cmdWatchList("g1"), gc.Equals,
		"No channels are being watched.")

	c.Check(s.server.cmdWatchAdd("g1", "c1"), gc.Equals, "Now watching <#c1>.")
	c.Check(s.server.cmdWatchAdd("g1", "c2"), gc.Equals, "Now watching <#c2>.")
	// Re-adding is a no-op.
	c.Check(s.server.cmdWatchAdd("g1", "c1"), gc.Equals, "Now watching <#c1>.")

	c.Check(s.server.cmdWatchList("g1"), gc.Equals, "Watching: <#c1>, <#c2>")

	c.Check(s.server.cmdWatchRemove("g1", "c1"), gc.Equals,
		"Stopped watching <#c1>.")
	c.Check(s.server.cmdWatchRemove("g1", "never-watched"), gc.Equals,
		"Stopped watching <#never-watched>.")
	c.Check(s.server.cmdWatchList("g1"), gc.Equals, "Watching: <#c2>")
}

func (s *DiscordSuite) TestSetMinROICommand(c *gc.C) {
	c.Check(s.server.cmdSetMinROI("g1", 35), gc.Equals,
		"Set MIN_ROI for this server to 35%.")

	settings, err := model.FindGuildSettings(s.db, "g1")
	c.Assert(err, gc.IsNil)
	c.Check(settings.MinROI, gc.Equals, 35.0)

	c.Check(s.server.cmdSetMinROI("g1", 250), gc.Equals,
		"MIN_ROI must be between 0 and 100.")
}

func (s *DiscordSuite) TestToggleCommands(c *gc.C) {
	c.Check(s.server.cmdToggleDM("g1", false), gc.Equals,
		"DM notifications set to: false")
	c.Check(s.server.cmdToggleAllowMissingEligibility("g1", true), gc.Equals,
		"Allow missing Eligibility set to: true")
	c.Check(s.server.cmdSetDedupeHours("g1", 12), gc.Equals,
		"Dedupe window set to 12 hours.")
	c.Check(s.server.cmdSetLogChannel("g1", "log-1"), gc.Equals,
		"Log channel set to <#log-1>.")

	settings, err := model.FindGuildSettings(s.db, "g1")
	c.Assert(err, gc.IsNil)
	c.Check(settings.DMEnabled, gc.Equals, false)
	c.Check(settings.AllowMissingEligibility, gc.Equals, true)
	c.Check(settings.DedupeHours, gc.Equals, 12.0)
	c.Check(settings.LogChannelID.String, gc.Equals, "log-1")
}

func (s *DiscordSuite) TestSettingsCommand(c *gc.C) {
	out := s.server.cmdSettings("g1", "c1")
	c.Check(strings.Contains(out, "MIN_ROI (guild): 20%"), gc.Equals, true)
	c.Check(strings.Contains(out, "DM enabled: true"), gc.Equals, true)
	c.Check(strings.Contains(out, "Log channel: None"), gc.Equals, true)
	c.Check(strings.Contains(out, "Relay link (this channel): None"),
		gc.Equals, true)
}

func (s *DiscordSuite) TestLinkCommands(c *gc.C) {
	c.Check(s.server.cmdLinkChannels("g1", "c1", "dest-1"), gc.Equals,
		"Linked <#c1> → <#dest-1> for approved-lead relay.")

	link, err := model.FindChannelLinkForSource(s.db, "c1")
	c.Assert(err, gc.IsNil)
	c.Check(link.DestinationChannelID, gc.Equals, "dest-1")

	// Relinking updates the destination.
	c.Check(s.server.cmdLinkChannels("g1", "c1", "dest-2"), gc.Equals,
		"Linked <#c1> → <#dest-2> for approved-lead relay.")
	link, err = model.FindChannelLinkForSource(s.db, "c1")
	c.Assert(err, gc.IsNil)
	c.Check(link.DestinationChannelID, gc.Equals, "dest-2")

	c.Check(s.server.cmdLinkChannels("g1", "c1", "c1"), gc.Equals,
		"Invalid link: map[destination_channel_id:[must differ from source]]")

	c.Check(s.server.cmdLinkClear("g1", "c1"), gc.Equals,
		"Cleared relay link for <#c1>.")
	c.Check(s.server.cmdLinkClear("g1", "c1"), gc.Equals,
		"Cleared relay link for <#c1>.")
}

func (s *DiscordSuite) TestScriptCommands(c *gc.C) {
	c.Check(s.server.cmdScriptClear("g1"), gc.Equals,
		"No filter hook is configured for this server.")

	c.Check(s.server.cmdScriptSet("g1", "decision.pass = false;"), gc.Equals,
		"Filter hook installed for this server.")

	script, err := model.FindFilterScript(s.db, "g1")
	c.Assert(err, gc.IsNil)
	c.Check(script.Enabled, gc.Equals, true)

	c.Check(s.server.cmdScriptClear("g1"), gc.Equals, "Filter hook removed.")
}

func (s *DiscordSuite) TestTestDMCommand(c *gc.C) {
	c.Check(s.server.cmdTestDM("user-1"), gc.Equals,
		"Sent you a DM. Check your inbox!")
	c.Assert(s.send.sent, gc.HasLen, 1)
	c.Check(s.send.sent[0].channelID, gc.Equals, "dm-user-1")
}

func (s *DiscordSuite) TestSASLinkCommand(c *gc.C) {
	c.Check(s.server.cmdSASLink(" b0abcdefgh "), gc.Equals,
		"**SAS:** https://sas.selleramp.com/sas/lookup?asin=B0ABCDEFGH")
	c.Check(s.server.cmdSASLink("nope"), gc.Equals,
		"Please provide a valid 10-character ASIN.")
}

func (s *DiscordSuite) TestASINLinksCommand(c *gc.C) {
	out := s.server.cmdASINLinks("B0ABCDEFGH", "mytag-20")
	lines := strings.Split(out, "\n")
	c.Assert(lines, gc.HasLen, 10)
	c.Check(lines[0], gc.Equals,
		"US: https://www.amazon.com/dp/B0ABCDEFGH?tag=mytag-20")
	c.Check(lines[1], gc.Equals,
		"UK: https://www.amazon.co.uk/dp/B0ABCDEFGH?tag=mytag-20")

	c.Check(s.server.cmdASINLinks("bad", ""), gc.Equals,
		"Please provide a valid 10-character ASIN.")
}

func (s *DiscordSuite) TestStatusCommand(c *gc.C) {
	c.Check(s.server.cmdWatchAdd("g1", "c1"), gc.Equals, "Now watching <#c1>.")
	c.Check(s.server.cmdLinkChannels("g1", "c1", "dest-1"), gc.Equals,
		"Linked <#c1> → <#dest-1> for approved-lead relay.")

	out := s.server.cmdStatus("g1")
	c.Check(strings.Contains(out, "Watching: <#c1>"), gc.Equals, true)
	c.Check(strings.Contains(out, "Guild MIN_ROI: 20%"), gc.Equals, true)
	c.Check(strings.Contains(out, "OCR: provider=disabled lang=eng"),
		gc.Equals, true)
	c.Check(strings.Contains(out, "Relay links mapped: 1"), gc.Equals, true)
	c.Check(strings.Contains(out, "• <#c1> → <#dest-1>"), gc.Equals, true)
}

func (s *DiscordSuite) TestDiagLastCommand(c *gc.C) {
	s.send.history = []*discordgo.Message{
		{
			ID:      "bot-msg",
			Author:  &discordgo.User{ID: "bot-2", Bot: true},
			Content: "ignored",
		},
		{
			ID:      "m-diag",
			Author:  &discordgo.User{ID: "u1"},
			Content: approvedText,
		},
	}

	out := s.server.cmdDiagLast("g1", "c1")
	c.Check(strings.Contains(out, "**Diagnostics**"), gc.Equals, true)
	c.Check(strings.Contains(out, "Eligible parsed: true"), gc.Equals, true)
	c.Check(strings.Contains(out, "ROI parsed: 45"), gc.Equals, true)
	c.Check(strings.Contains(out, "OK to send: true"), gc.Equals, true)
	c.Check(strings.Contains(out, "Reason: Pass"), gc.Equals, true)
	c.Check(strings.Contains(out, "ASINs: B0ABCDEFGH"), gc.Equals, true)
	c.Check(strings.Contains(out,
		"Message link: https://discord.com/channels/g1/c1/m-diag"),
		gc.Equals, true)
}

func (s *DiscordSuite) TestDiagLastTruncatesLongReports(c *gc.C) {
	asins := make([]string, 60)
	for i := range asins {
		asins[i] = fmt.Sprintf("B0AAAAA%03d", i)
	}
	s.send.history = []*discordgo.Message{{
		ID:      "m-long",
		Author:  &discordgo.User{ID: "u1"},
		Content: approvedText + "\n" + strings.Join(asins, " "),
	}}

	out := s.server.cmdDiagLast("g1", "c1")
	c.Check(len(out) <= sendLimit, gc.Equals, true)
	c.Check(strings.HasSuffix(out, "...(truncated)"), gc.Equals, true)
}

func (s *DiscordSuite) TestDiagLastNoHistory(c *gc.C) {
	c.Check(s.server.cmdDiagLast("g1", "c1"), gc.Equals,
		"No recent user message found to diagnose.")
}
