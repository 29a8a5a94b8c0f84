package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

type MessageType string

const (
	MessageChat   MessageType = "chat"
	MessageSystem MessageType = "system"
	MessageTyping MessageType = "typing"
)

// SystemSender is the sender name used for server-originated notices.
const SystemSender = "System"

var (
	ErrUnknownType  = errors.New("unknown message type")
	ErrEmptyContent = errors.New("content is required")
)

// ChatMessage is the single payload carried by every websocket frame.
// Values are built once and passed by value.
type ChatMessage struct {
	Type      MessageType `json:"type"`
	Sender    string      `json:"sender"`
	Content   string      `json:"content"`
	Timestamp int64       `json:"timestamp"`
}

// NewChatMessage stamps a message with the given send time.
func NewChatMessage(typ MessageType, sender, content string, at time.Time) ChatMessage {
	return ChatMessage{
		Type:      typ,
		Sender:    sender,
		Content:   content,
		Timestamp: at.UnixMilli(),
	}
}

func (m ChatMessage) Validate() error {
	switch m.Type {
	case MessageChat, MessageSystem:
		if m.Content == "" {
			return ErrEmptyContent
		}
	case MessageTyping:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownType, m.Type)
	}
	return nil
}

// IsUserChat reports whether m is a chat line written by someone other
// than the bot.
func (m ChatMessage) IsUserChat(botName string) bool {
	return m.Type == MessageChat && m.Sender != botName
}

// DecodeChatMessage parses and validates one inbound frame.
func DecodeChatMessage(data []byte) (ChatMessage, error) {
	var m ChatMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return ChatMessage{}, fmt.Errorf("decode chat message: %w", err)
	}
	if err := m.Validate(); err != nil {
		return ChatMessage{}, fmt.Errorf("decode chat message: %w", err)
	}
	return m, nil
}
