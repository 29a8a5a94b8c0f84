package handler

import (
	"time"

	"portfolio-backend/internal/model"
	"portfolio-backend/internal/service"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

type WSHandler struct {
	hub     *service.Hub
	bot     *service.BotResponder
	upgrade fiber.Handler
}

func NewWSHandler(hub *service.Hub, bot *service.BotResponder, origins []string) *WSHandler {
	h := &WSHandler{hub: hub, bot: bot}
	h.upgrade = websocket.New(h.handleConnection, websocket.Config{
		Origins:         origins,
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	})
	return h
}

func (h *WSHandler) Upgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		c.Locals("remote", c.IP())
		return h.upgrade(c)
	}
	return fiber.ErrUpgradeRequired
}

func (h *WSHandler) handleConnection(c *websocket.Conn) {
	defer h.hub.Track()()

	remote, _ := c.Locals("remote").(string)
	client := service.NewClient(remote)
	logger := log.With().Str("conn_id", client.ID()).Str("remote", remote).Logger()

	h.hub.Register(client)

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		h.writePump(c, client, logger)
	}()

	h.readPump(c, logger)

	client.Close()
	h.hub.Unregister(client)
	<-writerDone
}

// readPump relays every decodable frame verbatim and hands it to the bot.
// Frames that do not decode are dropped; the socket stays open.
func (h *WSHandler) readPump(c *websocket.Conn, logger zerolog.Logger) {
	c.SetReadLimit(maxMessageSize)
	_ = c.SetReadDeadline(time.Now().Add(pongWait))
	c.SetPongHandler(func(string) error {
		return c.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Warn().Err(err).Msg("ws: read error")
			}
			return
		}
		_ = c.SetReadDeadline(time.Now().Add(pongWait))

		msg, err := model.DecodeChatMessage(data)
		if err != nil {
			logger.Warn().Err(err).Msg("ws: dropped malformed message")
			continue
		}

		logger.Debug().Str("type", string(msg.Type)).Str("sender", msg.Sender).Msg("ws: relay")
		h.hub.Relay(data)
		h.bot.Observe(msg)
	}
}

// writePump writes one frame per websocket message until the client is
// closed, pinging so idle sockets are detected.
func (h *WSHandler) writePump(c *websocket.Conn, client *service.Client, logger zerolog.Logger) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case frame, ok := <-client.Outbound():
			_ = c.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.WriteMessage(websocket.TextMessage, frame); err != nil {
				logger.Debug().Err(err).Msg("ws: write failed")
				client.Close()
				_ = c.Close()
				return
			}

		case <-ticker.C:
			_ = c.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.WriteMessage(websocket.PingMessage, nil); err != nil {
				client.Close()
				_ = c.Close()
				return
			}
		}
	}
}
