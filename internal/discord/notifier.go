package discord

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"portfolio-backend/internal/model"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"
)

var ErrBadWebhookURL = errors.New("invalid discord webhook url")

const (
	notifierUsername = "Portfolio Contact"
	contactColor     = 0xE2C044 // Gold
	maxFieldLen      = 1024
)

type webhookExecutor interface {
	WebhookExecute(webhookID, token string, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Notifier posts contact submissions to a Discord channel webhook.
type Notifier struct {
	exec      webhookExecutor
	webhookID string
	token     string
}

// NewNotifier returns nil when webhookURL is empty.
func NewNotifier(webhookURL string) (*Notifier, error) {
	if webhookURL == "" {
		log.Info().Msg("discord: no webhook configured, contact notifications disabled")
		return nil, nil
	}

	id, token, err := ParseWebhookURL(webhookURL)
	if err != nil {
		return nil, err
	}

	s, err := discordgo.New("")
	if err != nil {
		return nil, err
	}
	s.Client.Timeout = 10 * time.Second

	return &Notifier{exec: s, webhookID: id, token: token}, nil
}

// ParseWebhookURL extracts id and token from
// https://discord.com/api/webhooks/{id}/{token}.
func ParseWebhookURL(raw string) (id, token string, err error) {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "", "", ErrBadWebhookURL
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i := 0; i+2 < len(parts); i++ {
		if parts[i] == "webhooks" && parts[i+1] != "" && parts[i+2] != "" {
			return parts[i+1], parts[i+2], nil
		}
	}
	return "", "", fmt.Errorf("%w: %s", ErrBadWebhookURL, u.Path)
}

// NotifyContact sends in the background; failures are only logged.
func (n *Notifier) NotifyContact(req model.ContactRequest) {
	go func() {
		if err := n.send(req); err != nil {
			log.Warn().Err(err).Msg("discord: contact notification failed")
		}
	}()
}

func (n *Notifier) send(req model.ContactRequest) error {
	_, err := n.exec.WebhookExecute(n.webhookID, n.token, false, &discordgo.WebhookParams{
		Username: notifierUsername,
		Embeds:   []*discordgo.MessageEmbed{contactEmbed(req, time.Now())},
	})
	return err
}

func contactEmbed(req model.ContactRequest, at time.Time) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "📬 " + truncate(req.Subject, 256),
		Description: truncate(req.Message, 4096),
		Color:       contactColor,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Name", Value: truncate(req.Name, maxFieldLen), Inline: true},
			{Name: "Email", Value: truncate(req.Email, maxFieldLen), Inline: true},
		},
		Timestamp: at.UTC().Format(time.RFC3339),
		Footer:    &discordgo.MessageEmbedFooter{Text: notifierUsername},
	}
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
