package discord

import (
	"database/sql"
	"fmt"
	"strings"

	"leadfilter/config"
	"leadfilter/lead"
	"leadfilter/logreport"
	"leadfilter/model"
	apsql "leadfilter/sql"

	"github.com/bwmarrin/discordgo"
)

var commandDefinitions = []*discordgo.ApplicationCommand{
	{
		Name:        "watch_add",
		Description: "Add a channel to the watch list (current if omitted)",
		Options: []*discordgo.ApplicationCommandOption{
			channelOption("channel", "Channel to watch; defaults to current", false),
		},
	},
	{
		Name:        "watch_remove",
		Description: "Remove a channel from the watch list",
		Options: []*discordgo.ApplicationCommandOption{
			channelOption("channel", "Channel to stop watching", true),
		},
	},
	{
		Name:        "watch_list",
		Description: "List watched channels",
	},
	{
		Name:        "settings",
		Description: "Show current filter & relay settings",
	},
	{
		Name:        "set_min_roi",
		Description: "Set the minimum ROI for this server",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionNumber,
				Name:        "value",
				Description: "Minimum ROI percentage (e.g., 20 for 20%)",
				Required:    true,
			},
		},
	},
	{
		Name:        "toggle_dm",
		Description: "Turn DM notifications on or off for this server",
		Options: []*discordgo.ApplicationCommandOption{
			boolOption("enabled", "True to DM you; False for channel-only notifications"),
		},
	},
	{
		Name:        "toggle_allow_missing_eligibility",
		Description: "Allow pass when Eligibility is missing (uses ROI + Alerts only)",
		Options: []*discordgo.ApplicationCommandOption{
			boolOption("enabled", "true or false"),
		},
	},
	{
		Name:        "set_dedupe_hours",
		Description: "Skip re-sending same ASIN within N hours (per guild)",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionNumber,
				Name:        "hours",
				Description: "Number of hours to dedupe (e.g., 6)",
				Required:    true,
			},
		},
	},
	{
		Name:        "set_log_channel",
		Description: "Set a log channel for approvals and dedupe notices",
		Options: []*discordgo.ApplicationCommandOption{
			channelOption("channel", "Channel to log into", true),
		},
	},
	{
		Name:        "link_channels",
		Description: "Link this channel to a destination channel for relay",
		Options: []*discordgo.ApplicationCommandOption{
			channelOption("destination",
				"Destination channel to forward approved leads into", true),
			channelOption("source", "Source (defaults to current)", false),
		},
	},
	{
		Name:        "link_clear",
		Description: "Clear relay link for this channel",
		Options: []*discordgo.ApplicationCommandOption{
			channelOption("channel", "Channel to unlink; defaults to current", false),
		},
	},
	{
		Name:        "script_set",
		Description: "Install a JavaScript filter hook for this server",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "script",
				Description: "Script body; sees 'post' and may amend 'decision'",
				Required:    true,
			},
		},
	},
	{
		Name:        "script_clear",
		Description: "Remove this server's filter hook",
	},
	{
		Name:        "test_dm",
		Description: "Send me a test DM to verify DM delivery",
	},
	{
		Name:        "sas_link",
		Description: "Build a SellerAmp link for a given ASIN",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "asin",
				Description: "The 10-character ASIN",
				Required:    true,
			},
		},
	},
	{
		Name:        "asin_links",
		Description: "Build Amazon product links for multiple regions",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "asin",
				Description: "10-character ASIN",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "tag",
				Description: "Optional affiliate tag (e.g., mytag-20)",
				Required:    false,
			},
		},
	},
	{
		Name:        "ping",
		Description: "Latency check",
	},
	{
		Name:        "diag_last",
		Description: "Diagnose parsing of the most recent message in this channel",
	},
	{
		Name:        "status",
		Description: "Bot status & configuration overview",
	},
}

func channelOption(name, description string, required bool) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:         discordgo.ApplicationCommandOptionChannel,
		Name:         name,
		Description:  description,
		Required:     required,
		ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildText},
	}
}

func boolOption(name, description string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionBoolean,
		Name:        name,
		Description: description,
		Required:    true,
	}
}

func (s *Server) registerCommands() error {
	for _, cmd := range commandDefinitions {
		_, err := s.session.ApplicationCommandCreate(s.selfID, "", cmd)
		if err != nil {
			return fmt.Errorf("registering /%s: %v", cmd.Name, err)
		}
	}
	logreport.Printf("%s Registered %d commands", config.DiscordPrefix,
		len(commandDefinitions))
	return nil
}

func (s *Server) onInteractionCreate(session *discordgo.Session,
	event *discordgo.InteractionCreate) {
	if event.Type != discordgo.InteractionApplicationCommand {
		return
	}

	data := event.ApplicationCommandData()
	options := make(map[string]*discordgo.ApplicationCommandInteractionDataOption)
	for _, opt := range data.Options {
		options[opt.Name] = opt
	}

	guildID := event.GuildID
	channelID := event.ChannelID
	userID := ""
	if event.Member != nil && event.Member.User != nil {
		userID = event.Member.User.ID
	}

	channelOpt := func(name, fallback string) string {
		if opt, ok := options[name]; ok {
			if id, ok := opt.Value.(string); ok {
				return id
			}
		}
		return fallback
	}

	var content string
	switch data.Name {
	case "watch_add":
		content = s.cmdWatchAdd(guildID, channelOpt("channel", channelID))
	case "watch_remove":
		content = s.cmdWatchRemove(guildID, channelOpt("channel", ""))
	case "watch_list":
		content = s.cmdWatchList(guildID)
	case "settings":
		content = s.cmdSettings(guildID, channelID)
	case "set_min_roi":
		content = s.cmdSetMinROI(guildID, options["value"].FloatValue())
	case "toggle_dm":
		content = s.cmdToggleDM(guildID, options["enabled"].BoolValue())
	case "toggle_allow_missing_eligibility":
		content = s.cmdToggleAllowMissingEligibility(guildID,
			options["enabled"].BoolValue())
	case "set_dedupe_hours":
		content = s.cmdSetDedupeHours(guildID, options["hours"].FloatValue())
	case "set_log_channel":
		content = s.cmdSetLogChannel(guildID, channelOpt("channel", ""))
	case "link_channels":
		content = s.cmdLinkChannels(guildID,
			channelOpt("source", channelID), channelOpt("destination", ""))
	case "link_clear":
		content = s.cmdLinkClear(guildID, channelOpt("channel", channelID))
	case "script_set":
		content = s.cmdScriptSet(guildID, options["script"].StringValue())
	case "script_clear":
		content = s.cmdScriptClear(guildID)
	case "test_dm":
		content = s.cmdTestDM(userID)
	case "sas_link":
		content = s.cmdSASLink(options["asin"].StringValue())
	case "asin_links":
		tag := ""
		if opt, ok := options["tag"]; ok {
			tag = opt.StringValue()
		}
		content = s.cmdASINLinks(options["asin"].StringValue(), tag)
	case "ping":
		content = fmt.Sprintf("Pong! %d ms",
			session.HeartbeatLatency().Milliseconds())
	case "diag_last":
		content = s.cmdDiagLast(guildID, channelID)
	case "status":
		content = s.cmdStatus(guildID)
	default:
		return
	}

	err := session.InteractionRespond(event.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: truncate(content, sendLimit),
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		logreport.Printf("%s Error responding to /%s: %v",
			config.DiscordPrefix, data.Name, err)
	}
}

func (s *Server) cmdWatchAdd(guildID, channelID string) string {
	w := &model.WatchedChannel{GuildID: guildID, ChannelID: channelID}
	err := s.db.DoInTransaction(func(tx *apsql.Tx) error {
		return w.Insert(tx)
	})
	// Watching an already watched channel is a no-op.
	if err != nil && w.ValidateFromDatabaseError(err).Empty() {
		return s.commandError("watch_add", err)
	}
	return fmt.Sprintf("Now watching <#%s>.", channelID)
}

func (s *Server) cmdWatchRemove(guildID, channelID string) string {
	err := s.db.DoInTransaction(func(tx *apsql.Tx) error {
		return model.DeleteWatchedChannel(tx, guildID, channelID)
	})
	if err != nil && !strings.Contains(err.Error(), sql.ErrNoRows.Error()) {
		return s.commandError("watch_remove", err)
	}
	return fmt.Sprintf("Stopped watching <#%s>.", channelID)
}

func (s *Server) cmdWatchList(guildID string) string {
	watched, err := model.AllWatchedChannelsForGuildID(s.db, guildID)
	if err != nil {
		return s.commandError("watch_list", err)
	}
	if len(watched) == 0 {
		return "No channels are being watched."
	}
	mentions := make([]string, len(watched))
	for i, w := range watched {
		mentions[i] = "<#" + w.ChannelID + ">"
	}
	return "Watching: " + strings.Join(mentions, ", ")
}

func (s *Server) cmdSettings(guildID, channelID string) string {
	settings, err := model.FindOrDefaultGuildSettings(s.db, s.conf.Discord, guildID)
	if err != nil {
		return s.commandError("settings", err)
	}

	logChannel := "None"
	if settings.LogChannelID.Valid && settings.LogChannelID.String != "" {
		logChannel = "<#" + settings.LogChannelID.String + ">"
	}
	relayLink := "None"
	if link, err := model.FindChannelLinkForSource(s.db, channelID); err == nil {
		relayLink = "<#" + link.DestinationChannelID + ">"
	}

	return fmt.Sprintf(
		"MIN_ROI (guild): %s%%\n"+
			"DM enabled: %t\n"+
			"Allow missing Eligibility: %t\n"+
			"Dedupe hours: %s\n"+
			"Log channel: %s\n"+
			"Fallback to channel on DM fail: %t\n"+
			"Relay link (this channel): %s",
		lead.FormatFloat(settings.MinROI), settings.DMEnabled,
		settings.AllowMissingEligibility,
		lead.FormatFloat(settings.DedupeHours), logChannel,
		s.conf.Discord.FallbackToChannel, relayLink)
}

// updateSettings loads the guild's settings, applies change, and upserts.
func (s *Server) updateSettings(guildID string,
	change func(*model.GuildSettings)) error {
	settings, err := model.FindOrDefaultGuildSettings(s.db, s.conf.Discord, guildID)
	if err != nil {
		return err
	}
	change(settings)
	if errs := settings.Validate(); !errs.Empty() {
		return fmt.Errorf("invalid settings: %v", errs)
	}
	return s.db.DoInTransaction(func(tx *apsql.Tx) error {
		return settings.Upsert(tx)
	})
}

func (s *Server) cmdSetMinROI(guildID string, value float64) string {
	if value < 0 || value > 100 {
		return "MIN_ROI must be between 0 and 100."
	}
	err := s.updateSettings(guildID, func(gs *model.GuildSettings) {
		gs.MinROI = value
	})
	if err != nil {
		return s.commandError("set_min_roi", err)
	}
	return fmt.Sprintf("Set MIN_ROI for this server to %s%%.",
		lead.FormatFloat(value))
}

func (s *Server) cmdToggleDM(guildID string, enabled bool) string {
	err := s.updateSettings(guildID, func(gs *model.GuildSettings) {
		gs.DMEnabled = enabled
	})
	if err != nil {
		return s.commandError("toggle_dm", err)
	}
	return fmt.Sprintf("DM notifications set to: %t", enabled)
}

func (s *Server) cmdToggleAllowMissingEligibility(guildID string, enabled bool) string {
	err := s.updateSettings(guildID, func(gs *model.GuildSettings) {
		gs.AllowMissingEligibility = enabled
	})
	if err != nil {
		return s.commandError("toggle_allow_missing_eligibility", err)
	}
	return fmt.Sprintf("Allow missing Eligibility set to: %t", enabled)
}

func (s *Server) cmdSetDedupeHours(guildID string, hours float64) string {
	if hours < 0 || hours > 168 {
		return "Dedupe hours must be between 0 and 168."
	}
	err := s.updateSettings(guildID, func(gs *model.GuildSettings) {
		gs.DedupeHours = hours
	})
	if err != nil {
		return s.commandError("set_dedupe_hours", err)
	}
	return fmt.Sprintf("Dedupe window set to %s hours.", lead.FormatFloat(hours))
}

func (s *Server) cmdSetLogChannel(guildID, channelID string) string {
	err := s.updateSettings(guildID, func(gs *model.GuildSettings) {
		gs.LogChannelID = sql.NullString{String: channelID, Valid: true}
	})
	if err != nil {
		return s.commandError("set_log_channel", err)
	}
	return fmt.Sprintf("Log channel set to <#%s>.", channelID)
}

func (s *Server) cmdLinkChannels(guildID, sourceID, destinationID string) string {
	link := &model.ChannelLink{
		GuildID:              guildID,
		SourceChannelID:      sourceID,
		DestinationChannelID: destinationID,
	}
	if errs := link.Validate(); !errs.Empty() {
		return fmt.Sprintf("Invalid link: %v", errs)
	}
	err := s.db.DoInTransaction(func(tx *apsql.Tx) error {
		existing, err := model.FindChannelLinkForSource(s.db, sourceID)
		if err == sql.ErrNoRows {
			return link.Insert(tx)
		}
		if err != nil {
			return err
		}
		existing.DestinationChannelID = destinationID
		return existing.Update(tx)
	})
	if err != nil {
		return s.commandError("link_channels", err)
	}
	return fmt.Sprintf("Linked <#%s> → <#%s> for approved-lead relay.",
		sourceID, destinationID)
}

func (s *Server) cmdLinkClear(guildID, channelID string) string {
	err := s.db.DoInTransaction(func(tx *apsql.Tx) error {
		return model.DeleteChannelLinkForSource(tx, guildID, channelID)
	})
	if err != nil && !strings.Contains(err.Error(), sql.ErrNoRows.Error()) {
		return s.commandError("link_clear", err)
	}
	return fmt.Sprintf("Cleared relay link for <#%s>.", channelID)
}

func (s *Server) cmdScriptSet(guildID, source string) string {
	fs := &model.FilterScript{GuildID: guildID, Script: source, Enabled: true}
	if errs := fs.Validate(); !errs.Empty() {
		return fmt.Sprintf("Invalid script: %v", errs)
	}
	err := s.db.DoInTransaction(func(tx *apsql.Tx) error {
		return fs.Upsert(tx)
	})
	if err != nil {
		return s.commandError("script_set", err)
	}
	return "Filter hook installed for this server."
}

func (s *Server) cmdScriptClear(guildID string) string {
	err := s.db.DoInTransaction(func(tx *apsql.Tx) error {
		return model.DeleteFilterScript(tx, guildID)
	})
	if err != nil {
		if strings.Contains(err.Error(), sql.ErrNoRows.Error()) {
			return "No filter hook is configured for this server."
		}
		return s.commandError("script_clear", err)
	}
	return "Filter hook removed."
}

func (s *Server) cmdTestDM(userID string) string {
	err := s.sendDM(userID, "✅ DM test from your Amazon Lead Filter Bot worked!")
	if err != nil {
		if isForbidden(err) {
			return "I couldn't DM you. Enable 'Allow DMs from server members' and try again."
		}
		return s.commandError("test_dm", err)
	}
	return "Sent you a DM. Check your inbox!"
}

func (s *Server) cmdSASLink(asin string) string {
	asin = strings.ToUpper(strings.TrimSpace(asin))
	if !lead.ValidASIN(asin) {
		return "Please provide a valid 10-character ASIN."
	}
	return "**SAS:** " + lead.SASURL(asin, nil, nil, "")
}

func (s *Server) cmdASINLinks(asin, tag string) string {
	asin = strings.ToUpper(strings.TrimSpace(asin))
	if !lead.ValidASIN(asin) {
		return "Please provide a valid 10-character ASIN."
	}
	return strings.Join(lead.MarketplaceLinks(asin, tag), "\n")
}

func (s *Server) cmdStatus(guildID string) string {
	settings, err := model.FindOrDefaultGuildSettings(s.db, s.conf.Discord, guildID)
	if err != nil {
		return s.commandError("status", err)
	}
	watched, err := model.AllWatchedChannelsForGuildID(s.db, guildID)
	if err != nil {
		return s.commandError("status", err)
	}
	links, err := model.AllChannelLinksForGuildID(s.db, guildID)
	if err != nil {
		return s.commandError("status", err)
	}
	leadCount, err := model.CountLeadsForGuildID(s.db, guildID)
	if err != nil {
		return s.commandError("status", err)
	}

	watching := "none"
	if len(watched) > 0 {
		mentions := make([]string, len(watched))
		for i, w := range watched {
			mentions[i] = "<#" + w.ChannelID + ">"
		}
		watching = strings.Join(mentions, ", ")
	}
	ocrProvider := s.conf.OCR.Provider
	if ocrProvider == "" {
		ocrProvider = "disabled"
	}
	logChannel := "None"
	if settings.LogChannelID.Valid && settings.LogChannelID.String != "" {
		logChannel = "<#" + settings.LogChannelID.String + ">"
	}

	lines := []string{
		"**Amazon Lead Filter Bot**",
		fmt.Sprintf("Watching: %s", watching),
		fmt.Sprintf("Guild MIN_ROI: %s%% | DM: %t | AllowMissingEligibility: %t | Dedupe: %sh",
			lead.FormatFloat(settings.MinROI), settings.DMEnabled,
			settings.AllowMissingEligibility,
			lead.FormatFloat(settings.DedupeHours)),
		fmt.Sprintf("OCR: provider=%s lang=%s", ocrProvider, s.conf.OCR.Language),
		fmt.Sprintf("Log channel: %s", logChannel),
		fmt.Sprintf("Approved leads recorded: %d", leadCount),
		fmt.Sprintf("Relay links mapped: %d", len(links)),
	}
	for i, link := range links {
		if i >= 5 {
			break
		}
		lines = append(lines, fmt.Sprintf("• <#%s> → <#%s>",
			link.SourceChannelID, link.DestinationChannelID))
	}
	return strings.Join(lines, "\n")
}

func (s *Server) commandError(command string, err error) string {
	logreport.Printf("%s Error in /%s: %v", config.DiscordPrefix, command, err)
	return "Something went wrong; check the bot logs."
}
