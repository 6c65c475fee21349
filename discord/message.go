package discord

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// Message is the subset of an incoming Discord message the pipeline works
// on, with names already resolved.
type Message struct {
	GuildID     string
	GuildName   string
	ChannelID   string
	ChannelName string
	MessageID   string
	AuthorID    string
	AuthorBot   bool

	Content     string
	Embeds      []*discordgo.MessageEmbed
	Attachments []*discordgo.MessageAttachment
}

// JumpURL returns the message's deep link.
func (m *Message) JumpURL() string {
	return fmt.Sprintf("https://discord.com/channels/%s/%s/%s",
		m.GuildID, m.ChannelID, m.MessageID)
}

// ChannelLabel is how the message's channel reads in a summary line. Falls
// back to the ID when the name could not be resolved.
func (m *Message) ChannelLabel() string {
	if m.ChannelName != "" {
		return m.ChannelName
	}
	return m.ChannelID
}

// embedText flattens one embed into filterable text.
func embedText(e *discordgo.MessageEmbed) string {
	var parts []string
	if e.Title != "" {
		parts = append(parts, e.Title)
	}
	if e.Description != "" {
		parts = append(parts, e.Description)
	}
	for _, f := range e.Fields {
		if f != nil {
			parts = append(parts, fmt.Sprintf("%s: %s", f.Name, f.Value))
		}
	}
	if e.Footer != nil && e.Footer.Text != "" {
		parts = append(parts, e.Footer.Text)
	}
	return strings.Join(parts, "\n")
}

// Blob joins the message content and all embed text into the single text
// block the filter evaluates.
func (m *Message) Blob() string {
	parts := []string{m.Content}
	for _, e := range m.Embeds {
		if e != nil {
			parts = append(parts, embedText(e))
		}
	}

	var nonEmpty []string
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, "\n")
}

// ImageURLs returns the URLs of image attachments.
func (m *Message) ImageURLs() []string {
	var urls []string
	for _, att := range m.Attachments {
		if att == nil {
			continue
		}
		if strings.HasPrefix(att.ContentType, "image") {
			urls = append(urls, att.URL)
		}
	}
	return urls
}

// truncate trims a message body to Discord's safe sending length.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
