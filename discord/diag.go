package discord

import (
	"fmt"
	"strings"

	"leadfilter/lead"
	"leadfilter/model"
)

// cmdDiagLast re-runs the parser over the channel's most recent user
// message and reports every intermediate value.
func (s *Server) cmdDiagLast(guildID, channelID string) string {
	history, err := s.send.ChannelMessages(channelID, 25, "", "", "")
	if err != nil {
		return s.commandError("diag_last", err)
	}

	var msg *Message
	for _, m := range history {
		if m.Author == nil || m.Author.Bot {
			continue
		}
		msg = &Message{
			GuildID:     guildID,
			ChannelID:   channelID,
			MessageID:   m.ID,
			AuthorID:    m.Author.ID,
			Content:     m.Content,
			Embeds:      m.Embeds,
			Attachments: m.Attachments,
		}
		break
	}
	if msg == nil {
		return "No recent user message found to diagnose."
	}

	settings, err := model.FindOrDefaultGuildSettings(s.db, s.conf.Discord, guildID)
	if err != nil {
		return s.commandError("diag_last", err)
	}

	blob := msg.Blob()
	decision := lead.Evaluate(blob, settings.MinROI, settings.AllowMissingEligibility)
	urls := lead.AmazonURLs(blob)
	asins := collectASINs(blob, urls, msg)
	prices := lead.ApproximateROI(blob)

	sourceURL := ""
	if len(urls) > 0 {
		sourceURL = urls[0]
	}
	asinLines := make([]string, len(asins))
	for i, asin := range asins {
		asinLines[i] = fmt.Sprintf("- %s\n  SAS: %s", asin,
			lead.SASURL(asin, prices.Buy, prices.Sell, sourceURL))
	}

	ocrProvider := s.conf.OCR.Provider
	if ocrProvider == "" {
		ocrProvider = "disabled"
	}
	asinSummary := "(none)"
	if len(asins) > 0 {
		asinSummary = strings.Join(asins, ", ")
	}

	report := []string{
		"**Diagnostics**",
		"Eligible parsed: " + optionalBool(decision.Eligible),
		"ROI parsed: " + optionalFloat(decision.ROI),
		fmt.Sprintf("Blocked alert: %t", decision.HasBlockAlert),
		fmt.Sprintf("OK to send: %t", decision.OK),
		"Reason: " + decision.Reason,
		"",
		fmt.Sprintf("Guild MIN_ROI: %s%% | DM: %t | AllowMissingEligibility: %t | Dedupe: %sh",
			lead.FormatFloat(settings.MinROI), settings.DMEnabled,
			settings.AllowMissingEligibility,
			lead.FormatFloat(settings.DedupeHours)),
		fmt.Sprintf("OCR: provider=%s lang=%s", ocrProvider, s.conf.OCR.Language),
		"Approx ROI (Buy/Sell or Was/Now): " + optionalFloat(prices.ROI),
		"",
		"ASINs: " + asinSummary,
	}
	if len(asinLines) > 0 {
		report = append(report, asinLines...)
	} else {
		report = append(report, "(No SAS links)")
	}
	report = append(report, "", "Message link: "+msg.JumpURL())

	out := strings.Join(report, "\n")
	if len(out) > sendLimit {
		const marker = "\n...(truncated)"
		out = out[:sendLimit-len(marker)] + marker
	}
	return out
}

func optionalBool(b *bool) string {
	if b == nil {
		return "none"
	}
	return fmt.Sprintf("%t", *b)
}

func optionalFloat(f *float64) string {
	if f == nil {
		return "none"
	}
	return lead.FormatFloat(*f)
}
