package messenger

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/kazu/uniquest/internal/bot"
)

// Discord is an optional second front end over the same interpreter,
// handy when testing commands without a LINE channel.
type Discord struct {
	session *discordgo.Session
	bot     *bot.Bot
}

func NewDiscord(token string, b *bot.Bot) (*Discord, error) {
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("creating Discord session: %w", err)
	}

	d := &Discord{session: s, bot: b}
	s.AddHandler(d.onMessage)
	s.Identify.Intents = discordgo.IntentsDirectMessages | discordgo.IntentsGuildMessages

	if err := s.Open(); err != nil {
		return nil, fmt.Errorf("opening Discord connection: %w", err)
	}

	log.Printf("Discord bot connected as %s", s.State.User.Username)
	return d, nil
}

func (d *Discord) Close() {
	d.session.Close()
}

func (d *Discord) onMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author.ID == s.State.User.ID {
		return
	}
	// DMs only. The commands are single-user; guild channels would let
	// anyone append to the logs.
	if m.GuildID != "" {
		return
	}

	content := strings.TrimSpace(m.Content)
	if content == "" {
		return
	}

	s.ChannelTyping(m.ChannelID)
	reply := d.bot.Handle(context.Background(), content)

	// Discord has a 2000 char limit; split if needed
	for _, chunk := range splitMessage(reply, 2000) {
		s.ChannelMessageSend(m.ChannelID, chunk)
	}
}

// Push DMs the configured user.
func (d *Discord) Push(_ context.Context, userID, text string) error {
	ch, err := d.session.UserChannelCreate(userID)
	if err != nil {
		return fmt.Errorf("opening DM channel: %w", err)
	}
	for _, chunk := range splitMessage(text, 2000) {
		if _, err := d.session.ChannelMessageSend(ch.ID, chunk); err != nil {
			return fmt.Errorf("sending DM: %w", err)
		}
	}
	return nil
}

func splitMessage(s string, maxLen int) []string {
	if len(s) <= maxLen {
		return []string{s}
	}
	var chunks []string
	for len(s) > 0 {
		end := maxLen
		if end > len(s) {
			end = len(s)
		}
		// Try to split at a newline
		if idx := strings.LastIndex(s[:end], "\n"); idx > 0 && end < len(s) {
			end = idx + 1
		}
		chunks = append(chunks, s[:end])
		s = s[end:]
	}
	return chunks
}
