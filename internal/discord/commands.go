package discord

import (
	"context"
	"fmt"
	"strings"
	"time"

	"portfolio-backend/internal/model"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"
)

const botColor = 0x00C8FF

// Operations is what the operator commands act on.
type Operations interface {
	Stats(ctx context.Context) model.RelayStats
	Announce(text string) int
}

type messageSender interface {
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// CommandHandler processes bot prefix commands. !announce reaches every
// visitor, so it only runs when the bot is bound to an operator channel.
type CommandHandler struct {
	ops           Operations
	allowAnnounce bool
}

func NewCommandHandler(ops Operations, allowAnnounce bool) *CommandHandler {
	return &CommandHandler{ops: ops, allowAnnounce: allowAnnounce}
}

// Handle dispatches a prefix command.
func (h *CommandHandler) Handle(s messageSender, channelID, author, content string) {
	parts := strings.Fields(content)
	if len(parts) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var err error
	switch strings.ToLower(parts[0]) {
	case "!status":
		_, err = s.ChannelMessageSendEmbed(channelID, statusEmbed(h.ops.Stats(ctx), time.Now()))
	case "!announce":
		if !h.allowAnnounce {
			_, err = s.ChannelMessageSend(channelID, "Announcements are disabled until an operator channel is configured.")
			break
		}
		text := strings.TrimSpace(strings.TrimPrefix(content, parts[0]))
		if text == "" {
			_, err = s.ChannelMessageSend(channelID, "Usage: `!announce <message>`")
			break
		}
		online := h.ops.Announce(text)
		log.Info().Str("author", author).Int("online", online).Msg("discord: announcement sent")
		_, err = s.ChannelMessageSend(channelID, fmt.Sprintf("Announced to %d visitor(s).", online))
	case "!help":
		_, err = s.ChannelMessageSendEmbed(channelID, helpEmbed())
	}
	if err != nil {
		log.Warn().Err(err).Str("command", parts[0]).Msg("discord: reply failed")
	}
}

func statusEmbed(st model.RelayStats, at time.Time) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: "Portfolio chat",
		Color: botColor,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Online", Value: fmt.Sprintf("%d", st.Online), Inline: true},
			{Name: "Relayed", Value: fmt.Sprintf("%d", st.Relayed), Inline: true},
			{Name: "Dropped", Value: fmt.Sprintf("%d", st.Dropped), Inline: true},
			{Name: "Bot replies", Value: fmt.Sprintf("%d", st.BotReplies), Inline: true},
			{Name: "Contact messages", Value: fmt.Sprintf("%d", st.ContactTotal), Inline: true},
		},
		Timestamp: at.UTC().Format(time.RFC3339),
	}
}

func helpEmbed() *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: "Commands",
		Color: botColor,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "`!status`", Value: "Visitors online and relay counters"},
			{Name: "`!announce <message>`", Value: "Send a system line to every open chat"},
			{Name: "`!help`", Value: "Show this help"},
		},
	}
}
