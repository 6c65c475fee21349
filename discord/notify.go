package discord

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"leadfilter/config"
	"leadfilter/lead"
	"leadfilter/logreport"
	"leadfilter/model"
	apsql "leadfilter/sql"
	"leadfilter/stats"

	"github.com/bwmarrin/discordgo"
)

const relayEmbedColor = 0x00AAFF

// RelayedLead is the JSON payload published to the relay queue for each
// approved lead.
type RelayedLead struct {
	GuildID   string   `json:"guild_id"`
	ChannelID string   `json:"channel_id"`
	MessageID string   `json:"message_id"`
	ROI       float64  `json:"roi"`
	ASINs     []string `json:"asins"`
	Summary   string   `json:"summary"`
	JumpURL   string   `json:"jump_url"`
}

// forward delivers an approved lead: DM (with optional channel fallback),
// log channel notice, linked-channel relay, audit row, and queue publish.
func (s *Server) forward(msg *Message, settings *model.GuildSettings,
	decision lead.Decision, asins []string, extra string,
	counters map[string]int64) error {
	roi := *decision.ROI
	summary := fmt.Sprintf("Eligibility: Yes | ROI: %s%% | Channel: #%s",
		lead.FormatFloat(roi), msg.ChannelLabel())
	if extra != "" {
		summary += "\n" + extra
	}

	delivered := false
	if settings.DMEnabled && s.conf.Discord.ForwardUserID != "" {
		err := s.sendDM(s.conf.Discord.ForwardUserID,
			"**Approved Lead**\n"+summary+"\nJump: "+msg.JumpURL())
		switch {
		case err == nil:
			delivered = true
		case isForbidden(err) && s.conf.Discord.FallbackToChannel:
			if err := s.reply(msg, "Approved lead →\n"+summary); err == nil {
				delivered = true
			}
		default:
			logreport.Printf("%s DM forward failed: %v", config.DiscordPrefix, err)
		}
	}
	if !delivered && !settings.DMEnabled {
		if err := s.reply(msg, "Approved lead →\n"+summary); err != nil {
			logreport.Printf("%s Channel forward failed: %v",
				config.DiscordPrefix, err)
		}
	}

	s.sendLog(settings, fmt.Sprintf("✅ Approved in <#%s> (ROI %s%%). %s",
		msg.ChannelID, lead.FormatFloat(roi), msg.JumpURL()))

	s.relayToLink(msg, summary, counters)

	if err := s.recordLead(msg, roi, asins, summary); err != nil {
		logreport.Printf("%s Error recording lead: %v", config.Filter, err)
	}
	return nil
}

func (s *Server) sendDM(userID, content string) error {
	channel, err := s.send.UserChannelCreate(userID)
	if err != nil {
		return err
	}
	_, err = s.send.ChannelMessageSend(channel.ID, truncate(content, sendLimit))
	return err
}

func (s *Server) reply(msg *Message, content string) error {
	_, err := s.send.ChannelMessageSendReply(msg.ChannelID,
		truncate(content, sendLimit), &discordgo.MessageReference{
			MessageID: msg.MessageID,
			ChannelID: msg.ChannelID,
			GuildID:   msg.GuildID,
		})
	return err
}

// sendLog posts to the guild's log channel, if one is configured.
func (s *Server) sendLog(settings *model.GuildSettings, message string) {
	if !settings.LogChannelID.Valid || settings.LogChannelID.String == "" {
		return
	}
	_, err := s.send.ChannelMessageSend(settings.LogChannelID.String,
		truncate(message, sendLimit))
	if err != nil {
		logreport.Printf("%s Log send failed: %v", config.DiscordPrefix, err)
	}
}

// relayToLink mirrors the lead into the channel linked to the source, if
// the guild has mapped one.
func (s *Server) relayToLink(msg *Message, summary string,
	counters map[string]int64) {
	link, err := model.FindChannelLinkForSource(s.db, msg.ChannelID)
	if err == sql.ErrNoRows {
		return
	}
	if err != nil {
		logreport.Printf("%s Error loading channel link: %v",
			config.RelayPrefix, err)
		return
	}

	embed := &discordgo.MessageEmbed{
		Title: "Approved Lead (Relayed)",
		Description: fmt.Sprintf("From **%s** #%s", msg.GuildName,
			msg.ChannelLabel()),
		Color: relayEmbedColor,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Summary", Value: truncate(summary, 1024)},
			{Name: "Jump to Source", Value: msg.JumpURL()},
		},
	}
	_, err = s.send.ChannelMessageSendEmbed(link.DestinationChannelID, embed)
	if err != nil {
		logreport.Printf("%s Relay failed: %v", config.RelayPrefix, err)
		return
	}
	counters[stats.RelayForwards]++
}

// recordLead writes the audit row for an approved lead and queues the
// relay publish for after the row commits.
func (s *Server) recordLead(msg *Message, roi float64, asins []string,
	summary string) error {
	row := &model.Lead{
		GuildID:   msg.GuildID,
		ChannelID: msg.ChannelID,
		MessageID: msg.MessageID,
		ROI:       roi,
		ASINs:     strings.Join(asins, ","),
		Summary:   summary,
		JumpURL:   msg.JumpURL(),
		CreatedAt: time.Now().UTC(),
	}
	return s.db.DoInTransaction(func(tx *apsql.Tx) error {
		if err := row.Insert(tx); err != nil {
			return err
		}
		tx.AddPostCommitHook(func(*apsql.Tx) {
			s.publishRelay(msg, roi, asins, summary)
		})
		return nil
	})
}

// publishRelay pushes the lead onto the relay queue for out-of-process
// consumers.
func (s *Server) publishRelay(msg *Message, roi float64, asins []string,
	summary string) {
	if s.relay == nil {
		return
	}
	payload, err := json.Marshal(&RelayedLead{
		GuildID:   msg.GuildID,
		ChannelID: msg.ChannelID,
		MessageID: msg.MessageID,
		ROI:       roi,
		ASINs:     asins,
		Summary:   summary,
		JumpURL:   msg.JumpURL(),
	})
	if err != nil {
		logreport.Printf("%s Error encoding relay payload: %v",
			config.RelayPrefix, err)
		return
	}
	s.relay.C <- payload
}

func isForbidden(err error) bool {
	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) {
		return restErr.Response != nil &&
			restErr.Response.StatusCode == http.StatusForbidden
	}
	return false
}
