// Package discord runs the bot: it watches configured channels, filters
// each post for eligibility and ROI, and forwards approved leads.
package discord

import (
	"errors"
	"time"

	"leadfilter/cache"
	"leadfilter/config"
	"leadfilter/logreport"
	"leadfilter/model"
	"leadfilter/ocr"
	"leadfilter/queue"
	apsql "leadfilter/sql"
	"leadfilter/stats"

	"github.com/bwmarrin/discordgo"
)

// dedupeCacheSize bounds the in-memory recency cache in front of the
// seen_asins table.
const dedupeCacheSize = 4096

const (
	purgeInterval = time.Hour
	// maxDedupeWindow matches the largest dedupe_hours a guild may set;
	// rows older than it can never match again.
	maxDedupeWindow = 168 * time.Hour
)

// sender is the slice of the Discord session the pipeline sends through.
// Tests substitute their own.
type sender interface {
	ChannelMessageSend(channelID string, content string,
		options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageSendReply(channelID string, content string,
		reference *discordgo.MessageReference,
		options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed,
		options ...discordgo.RequestOption) (*discordgo.Message, error)
	UserChannelCreate(recipientID string,
		options ...discordgo.RequestOption) (*discordgo.Channel, error)
	ChannelMessages(channelID string, limit int, beforeID, afterID, aroundID string,
		options ...discordgo.RequestOption) ([]*discordgo.Message, error)
}

// Server listens to Discord and drives the filter pipeline.
type Server struct {
	conf config.Configuration
	db   *apsql.DB

	ocrPool *ocr.Pool
	dedupe  *cache.LRUCache

	statsLogger stats.Logger
	relay       *queue.PubChannel

	session *discordgo.Session
	send    sender
	selfID  string
	quit    chan struct{}
}

// NewServer builds a server for the given configuration. The stats logger
// and relay channel may be nil when those features are off.
func NewServer(conf config.Configuration, db *apsql.DB,
	statsLogger stats.Logger, relay *queue.PubChannel) *Server {
	server := &Server{
		conf:        conf,
		db:          db,
		ocrPool:     ocr.NewPool(),
		dedupe:      cache.NewLRUCache(dedupeCacheSize),
		statsLogger: statsLogger,
		relay:       relay,
		quit:        make(chan struct{}),
	}
	db.RegisterListener(server)
	return server
}

// Notify implements apsql.Listener. Configuration edits that land through
// the admin API surface here; dedupe deletions reset the recency cache.
func (s *Server) Notify(n *apsql.Notification) {
	switch n.Table {
	case "seen_asins":
		if n.Event == apsql.Delete {
			s.dedupe.Purge()
		}
	case "guild_settings", "watched_channels", "channel_links", "filter_scripts":
		if n.Tag == apsql.NotificationTagDefault {
			logreport.Printf("%s %s %s for guild %s", config.DiscordPrefix,
				n.Table, eventName(n.Event), n.GuildID)
		}
	}
}

// Reconnect implements apsql.Listener. The cache may have diverged from
// the database while disconnected, so it starts over.
func (s *Server) Reconnect() {
	s.dedupe.Purge()
	logreport.Printf("%s Database reconnected; dedupe cache reset",
		config.DiscordPrefix)
}

func eventName(event apsql.NotificationEventType) string {
	switch event {
	case apsql.Insert:
		return "inserted"
	case apsql.Update:
		return "updated"
	case apsql.Delete:
		return "deleted"
	}
	return "changed"
}

// Run opens the Discord session and registers the slash commands. It
// returns once the session is live; events arrive on discordgo's internal
// goroutines.
func (s *Server) Run() error {
	if s.conf.Discord.Token == "" {
		return errors.New("no Discord token configured")
	}

	session, err := discordgo.New("Bot " + s.conf.Discord.Token)
	if err != nil {
		return err
	}
	session.Identify.Intents = discordgo.IntentGuilds |
		discordgo.IntentGuildMessages | discordgo.IntentMessageContent

	session.AddHandler(s.onReady)
	session.AddHandler(s.onMessageCreate)
	session.AddHandler(s.onInteractionCreate)

	if err := session.Open(); err != nil {
		return err
	}

	s.session = session
	s.send = session
	s.selfID = session.State.User.ID

	if err := s.registerCommands(); err != nil {
		session.Close()
		return err
	}

	go s.purgeLoop()

	logreport.Printf("%s Connected as %s", config.DiscordPrefix,
		session.State.User.Username)
	return nil
}

// Close shuts the Discord session down.
func (s *Server) Close() error {
	close(s.quit)
	if s.session == nil {
		return nil
	}
	return s.session.Close()
}

// purgeLoop periodically deletes dedupe rows too old for any window to
// still match.
func (s *Server) purgeLoop() {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()
	for {
		select {
		case <-s.quit:
			return
		case <-ticker.C:
			s.purgeExpired(time.Now().UTC().Add(-maxDedupeWindow))
		}
	}
}

func (s *Server) purgeExpired(cutoff time.Time) {
	var purged int64
	err := s.db.DoInTransaction(func(tx *apsql.Tx) error {
		tx.PushTag(apsql.NotificationTagAuto)
		defer tx.PopTag()
		var err error
		purged, err = model.PurgeSeenASINsBefore(tx, cutoff)
		return err
	})
	if err != nil {
		logreport.Printf("%s Error purging dedupe rows: %v", config.Filter, err)
	} else if purged > 0 {
		logreport.Printf("%s Purged %d stale dedupe rows", config.Filter, purged)
	}
}

func (s *Server) onReady(session *discordgo.Session, event *discordgo.Ready) {
	logreport.Printf("%s Ready; serving %d guilds", config.DiscordPrefix,
		len(event.Guilds))
}

func (s *Server) onMessageCreate(session *discordgo.Session,
	event *discordgo.MessageCreate) {
	if event.Author != nil && event.Author.ID == s.selfID {
		return
	}

	msg := &Message{
		GuildID:     event.GuildID,
		ChannelID:   event.ChannelID,
		MessageID:   event.ID,
		Content:     event.Content,
		Embeds:      event.Embeds,
		Attachments: event.Attachments,
	}
	if event.Author != nil {
		msg.AuthorID = event.Author.ID
		msg.AuthorBot = event.Author.Bot
	}
	if guild, err := session.State.Guild(event.GuildID); err == nil {
		msg.GuildName = guild.Name
	}
	if channel, err := session.State.Channel(event.ChannelID); err == nil {
		msg.ChannelName = channel.Name
	}

	if err := s.HandleMessage(msg); err != nil {
		logreport.Printf("%s Error handling message %s: %v",
			config.DiscordPrefix, event.ID, err)
	}
}
