package service

import (
	"context"
	"time"

	"portfolio-backend/internal/model"

	"github.com/rs/zerolog/log"
)

// Operator backs the admin surfaces (HTTP and Discord) with relay stats
// and announcements.
type Operator struct {
	hub      *Hub
	bot      *BotResponder
	contacts *ContactService
}

func NewOperator(hub *Hub, bot *BotResponder, contacts *ContactService) *Operator {
	return &Operator{hub: hub, bot: bot, contacts: contacts}
}

// Stats never fails; a contact count error is logged and reported as zero.
func (o *Operator) Stats(ctx context.Context) model.RelayStats {
	relayed, dropped := o.hub.Counters()
	total, err := o.contacts.Total(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("operator: count contacts")
	}
	return model.RelayStats{
		Online:       o.hub.OnlineCount(),
		Relayed:      relayed,
		Dropped:      dropped,
		BotReplies:   o.bot.RepliesSent(),
		ContactTotal: total,
	}
}

// Announce broadcasts a system line and returns how many sockets were online.
func (o *Operator) Announce(text string) int {
	o.hub.Broadcast(model.NewChatMessage(model.MessageSystem, model.SystemSender, text, time.Now()))
	return o.hub.OnlineCount()
}
