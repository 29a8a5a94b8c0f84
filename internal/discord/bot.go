package discord

import (
	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"
)

// Bot answers operator commands in a Discord channel.
type Bot struct {
	session   *discordgo.Session
	channelID string
	commands  *CommandHandler
}

// NewBot returns nil when no token is configured. With a channelID set,
// commands from other channels are ignored; without one, !announce is
// refused.
func NewBot(token, channelID string, ops Operations) (*Bot, error) {
	if token == "" {
		log.Info().Msg("discord: no bot token configured, operator bot disabled")
		return nil, nil
	}

	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, err
	}
	s.Identify.Intents = discordgo.IntentsGuildMessages |
		discordgo.IntentsMessageContent

	bot := &Bot{
		session:   s,
		channelID: channelID,
		commands:  NewCommandHandler(ops, channelID != ""),
	}
	s.AddHandler(bot.onMessageCreate)
	return bot, nil
}

// Start opens the Discord gateway connection.
func (b *Bot) Start() error {
	if b == nil || b.session == nil {
		return nil
	}
	if err := b.session.Open(); err != nil {
		return err
	}
	log.Info().Msg("discord: operator bot connected")
	return nil
}

func (b *Bot) Stop() {
	if b == nil || b.session == nil {
		return
	}
	_ = b.session.Close()
	log.Info().Msg("discord: operator bot disconnected")
}

func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}
	if s.State != nil && s.State.User != nil && m.Author.ID == s.State.User.ID {
		return
	}
	if !b.accepts(m.ChannelID, m.Content) {
		return
	}
	b.commands.Handle(s, m.ChannelID, m.Author.Username, m.Content)
}

func (b *Bot) accepts(channelID, content string) bool {
	if b.channelID != "" && channelID != b.channelID {
		return false
	}
	return len(content) > 0 && content[0] == '!'
}
