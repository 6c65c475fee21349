package discord

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"leadfilter/config"
	aperrors "leadfilter/errors"
	"leadfilter/lead"
	"leadfilter/logreport"
	"leadfilter/model"
	"leadfilter/script"
	apsql "leadfilter/sql"
	"leadfilter/stats"
)

// sendLimit is Discord's safe message length; everything sent to a channel
// gets cut to it.
const sendLimit = 1900

// HandleMessage runs one message through the filter pipeline.
func (s *Server) HandleMessage(msg *Message) error {
	if msg.GuildID == "" || msg.AuthorID == s.selfID {
		return nil
	}

	watched, err := model.AllWatchedChannelsForGuildID(s.db, msg.GuildID)
	if err != nil {
		return aperrors.NewWrapped("loading watched channels", err)
	}
	if len(watched) > 0 && !channelWatched(watched, msg.ChannelID) {
		return nil
	}

	counters := map[string]int64{stats.MessagesSeen: 1}
	defer s.logStats(counters)

	blob := msg.Blob()
	if strings.TrimSpace(blob) == "" {
		blob = s.ocrBlob(msg, blob, counters)
	}

	settings, err := model.FindOrDefaultGuildSettings(s.db, s.conf.Discord,
		msg.GuildID)
	if err != nil {
		return aperrors.NewWrapped("loading guild settings", err)
	}

	urls := lead.AmazonURLs(blob)
	asins := collectASINs(blob, urls, msg)
	prices := lead.ApproximateROI(blob)

	sourceURL := ""
	if len(urls) > 0 {
		sourceURL = urls[0]
	}
	asinLines := make([]string, len(asins))
	for i, asin := range asins {
		line := fmt.Sprintf("- **%s**", asin)
		if sourceURL != "" {
			line += "\n  Amazon: " + sourceURL
		}
		line += "\n  SAS: " + lead.SASURL(asin, prices.Buy, prices.Sell, sourceURL)
		asinLines[i] = line
	}

	decision := lead.Evaluate(blob, settings.MinROI, settings.AllowMissingEligibility)
	decision = s.applyHook(decision, msg, blob, asins)

	newASINs, err := s.filterRecentASINs(msg.GuildID, asins, settings.DedupeHours)
	if err != nil {
		return aperrors.NewWrapped("deduping ASINs", err)
	}

	if !decision.OK || decision.ROI == nil {
		counters[stats.LeadsRejected]++
		return nil
	}

	if len(asins) > 0 && len(newASINs) == 0 {
		counters[stats.DedupeSkips]++
		s.sendLog(settings, fmt.Sprintf(
			"🟨 Dedupe skip in <#%s> — ASINs within %sh: %s",
			msg.ChannelID, lead.FormatFloat(settings.DedupeHours),
			strings.Join(asins, ", ")))
		return nil
	}

	// Only link the ASINs that survived dedupe.
	var filtered []string
	for i, asin := range asins {
		if containsString(newASINs, asin) {
			filtered = append(filtered, asinLines[i])
		}
	}
	extra := ""
	if len(filtered) > 0 {
		extra = "**Links**:\n" + strings.Join(filtered, "\n")
	}

	counters[stats.LeadsApproved]++
	return s.forward(msg, settings, decision, asins, extra, counters)
}

// ocrBlob extracts text from image attachments when the post itself had
// none. OCR failures leave the blob as is.
func (s *Server) ocrBlob(msg *Message, blob string, counters map[string]int64) string {
	urls := msg.ImageURLs()
	if len(urls) == 0 {
		return blob
	}
	provider := s.ocrPool.Connection(s.conf.OCR)
	if provider == nil {
		return blob
	}

	for _, u := range urls {
		counters[stats.OCRCalls]++
		text, err := provider.Text(u)
		if err != nil {
			logreport.Printf("%s OCR failed for %s: %v", config.OCRPrefix, u, err)
			continue
		}
		if text != "" {
			blob += "\n" + text
		}
	}
	return blob
}

// applyHook runs the guild's filter script, if one is enabled, over the
// built-in decision.
func (s *Server) applyHook(decision lead.Decision, msg *Message, blob string,
	asins []string) lead.Decision {
	fs, err := model.FindFilterScript(s.db, msg.GuildID)
	if err == sql.ErrNoRows {
		return decision
	}
	if err != nil {
		logreport.Printf("%s Error loading filter script for guild %s: %v",
			config.Filter, msg.GuildID, err)
		return decision
	}
	if !fs.Enabled {
		return decision
	}

	hook := script.NewHook(fs.Script, logreport.Printf, config.Filter)
	return hook.Apply(decision, script.Input{
		Text:      blob,
		ASINs:     asins,
		GuildID:   msg.GuildID,
		ChannelID: msg.ChannelID,
	})
}

// filterRecentASINs returns the subset of asins the guild has not seen
// within the window and marks that subset seen now; dropped ASINs keep
// their original timestamp so reposts cannot slide the window forward.
// A recency cache fronts the seen_asins table so repeat offers usually
// skip the database.
func (s *Server) filterRecentASINs(guildID string, asins []string,
	windowHours float64) ([]string, error) {
	if len(asins) == 0 || windowHours <= 0 {
		return asins, nil
	}

	now := time.Now().UTC()
	window := time.Duration(windowHours * float64(time.Hour))

	var candidates []string
	for _, asin := range asins {
		key := guildID + ":" + asin
		if v, ok := s.dedupe.Get(key); ok {
			if seen, ok := v.(time.Time); ok && now.Sub(seen) < window {
				continue
			}
		}
		candidates = append(candidates, asin)
	}

	fresh := []string{}
	if len(candidates) > 0 {
		err := s.db.DoInTransaction(func(tx *apsql.Tx) error {
			var err error
			fresh, err = model.FilterRecentASINs(tx, guildID, candidates,
				windowHours, now)
			return err
		})
		if err != nil {
			return nil, err
		}
	}

	for _, asin := range fresh {
		s.dedupe.Add(guildID+":"+asin, now)
	}
	return fresh, nil
}

// logStats flushes the message's counters.
func (s *Server) logStats(counters map[string]int64) {
	if s.statsLogger == nil || len(counters) == 0 {
		return
	}
	err := s.statsLogger.Log(stats.Point{
		Timestamp: time.Now().UTC(),
		Values:    counters,
	})
	if err != nil {
		logreport.Printf("%s Error logging stats: %v", config.Filter, err)
	}
}

// collectASINs gathers ASIN candidates the way the rest of the message is
// read: URLs first, then embed links, then plain tokens.
func collectASINs(blob string, urls []string, msg *Message) []string {
	var candidates []string
	candidates = append(candidates, lead.ASINsFromURLs(urls)...)
	for _, e := range msg.Embeds {
		if e == nil {
			continue
		}
		if e.URL != "" {
			if asin := lead.ASINFromURL(e.URL); asin != "" {
				candidates = append(candidates, asin)
			}
		}
		candidates = append(candidates, lead.ASINsFromText(embedText(e))...)
	}
	candidates = append(candidates, lead.ASINsFromText(blob)...)
	return lead.DedupeOrdered(candidates)
}

func channelWatched(watched []*model.WatchedChannel, channelID string) bool {
	for _, w := range watched {
		if w.ChannelID == channelID {
			return true
		}
	}
	return false
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
