package chatclient

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"portfolio-backend/internal/model"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// PlaceholderText is shown until the first real message arrives.
const PlaceholderText = "Connecting to chat..."

const defaultSender = "You"

var (
	ErrNotConnected = errors.New("chat is not connected")
	ErrEmptyMessage = errors.New("message is empty")
	ErrNoURL        = errors.New("chat url is required")
)

type timer interface {
	Stop() bool
}

func afterFunc(d time.Duration, f func()) timer {
	return time.AfterFunc(d, f)
}

type Options struct {
	URL      string
	Sender   string
	Dialer   Dialer
	OnChange func(State)
	Logger   *zerolog.Logger
}

// State is a snapshot of the manager, safe to keep.
type State struct {
	Status            Status
	ReconnectAttempts int
	Messages          []model.ChatMessage
	PeerTyping        bool
	ReconnectPending  bool
}

// Manager keeps one chat socket alive for the lifetime of a view.
// All transitions happen under mu. Dial and read callbacks carry the
// generation they were started for and are ignored once it changes.
type Manager struct {
	url      string
	sender   string
	dialer   Dialer
	onChange func(State)
	logger   zerolog.Logger

	afterFunc func(time.Duration, func()) timer
	now       func() time.Time

	mu           sync.Mutex
	status       Status
	attempts     int
	conn         Conn
	gen          uint64
	dialCancel   context.CancelFunc
	reconnect    timer
	reconnectSeq uint64
	messages     []model.ChatMessage
	typing       bool
	started      bool
	closed       bool
}

func New(opts Options) (*Manager, error) {
	if opts.URL == "" {
		return nil, ErrNoURL
	}
	m := &Manager{
		url:       opts.URL,
		sender:    opts.Sender,
		dialer:    opts.Dialer,
		onChange:  opts.OnChange,
		afterFunc: afterFunc,
		now:       time.Now,
		status:    StatusConnecting,
	}
	if m.sender == "" {
		m.sender = defaultSender
	}
	if m.dialer == nil {
		m.dialer = NewWebsocketDialer()
	}
	if opts.Logger != nil {
		m.logger = *opts.Logger
	} else {
		m.logger = log.With().Str("component", "chatclient").Logger()
	}
	return m, nil
}

// Start opens the first connection. Later calls do nothing.
func (m *Manager) Start() {
	m.mu.Lock()
	if m.started || m.closed {
		m.mu.Unlock()
		return
	}
	m.started = true
	m.connectLocked()
	st := m.stateLocked()
	m.mu.Unlock()
	m.emit(st)
}

func (m *Manager) connectLocked() {
	if m.attempts > MaxReconnectAttempts {
		m.status = StatusError
		m.logger.Error().Int("attempts", m.attempts).Msg("Giving up reconnecting")
		return
	}
	m.status = StatusConnecting
	m.gen++
	ctx, cancel := context.WithCancel(context.Background())
	m.dialCancel = cancel
	go m.dial(ctx, m.gen)
}

func (m *Manager) dial(ctx context.Context, gen uint64) {
	conn, err := m.dialer.Dial(ctx, m.url)

	m.mu.Lock()
	if m.closed || gen != m.gen {
		m.mu.Unlock()
		if conn != nil {
			_ = conn.Close()
		}
		return
	}
	if m.dialCancel != nil {
		m.dialCancel()
		m.dialCancel = nil
	}
	if err != nil {
		m.logger.Warn().Err(err).Str("url", m.url).Msg("Chat connection failed")
		m.scheduleReconnectLocked()
		st := m.stateLocked()
		m.mu.Unlock()
		m.emit(st)
		return
	}

	m.conn = conn
	m.status = StatusConnected
	m.attempts = 0
	if len(m.messages) == 0 {
		m.messages = append(m.messages, model.NewChatMessage(model.MessageSystem, model.SystemSender, PlaceholderText, m.now()))
	}
	m.logger.Info().Str("url", m.url).Msg("Chat connected")
	st := m.stateLocked()
	m.mu.Unlock()
	m.emit(st)

	go m.readLoop(conn, gen)
}

func (m *Manager) readLoop(conn Conn, gen uint64) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			m.onClosed(conn, gen, err)
			return
		}
		msg, err := model.DecodeChatMessage(data)
		if err != nil {
			m.logger.Warn().Err(err).Msg("Dropping malformed frame")
			continue
		}
		m.onMessage(gen, msg)
	}
}

func (m *Manager) onMessage(gen uint64, msg model.ChatMessage) {
	m.mu.Lock()
	if m.closed || gen != m.gen {
		m.mu.Unlock()
		return
	}
	if msg.Type == model.MessageTyping {
		m.typing = true
	} else {
		m.messages = append(m.messages, msg)
		m.typing = false
	}
	st := m.stateLocked()
	m.mu.Unlock()
	m.emit(st)
}

func (m *Manager) onClosed(conn Conn, gen uint64, err error) {
	_ = conn.Close()

	m.mu.Lock()
	if m.closed || gen != m.gen {
		m.mu.Unlock()
		return
	}
	m.conn = nil
	m.logger.Info().Err(err).Msg("Chat disconnected")
	m.scheduleReconnectLocked()
	st := m.stateLocked()
	m.mu.Unlock()
	m.emit(st)
}

// scheduleReconnectLocked replaces any pending retry with a new one.
func (m *Manager) scheduleReconnectLocked() {
	m.status = StatusDisconnected
	if m.reconnect != nil {
		m.reconnect.Stop()
	}
	m.reconnectSeq++
	seq := m.reconnectSeq
	m.reconnect = m.afterFunc(Backoff(m.attempts), func() { m.retry(seq) })
}

func (m *Manager) retry(seq uint64) {
	m.mu.Lock()
	if m.closed || m.reconnect == nil || seq != m.reconnectSeq {
		m.mu.Unlock()
		return
	}
	m.reconnect = nil
	m.attempts++
	m.connectLocked()
	st := m.stateLocked()
	m.mu.Unlock()
	m.emit(st)
}

// Send writes a chat line. It only works while connected; the line shows
// up locally when the relay echoes it back.
func (m *Manager) Send(content string) error {
	if strings.TrimSpace(content) == "" {
		return ErrEmptyMessage
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.status != StatusConnected || m.conn == nil {
		return ErrNotConnected
	}
	data, err := json.Marshal(model.NewChatMessage(model.MessageChat, m.sender, content, m.now()))
	if err != nil {
		return err
	}
	return m.conn.WriteMessage(websocket.TextMessage, data)
}

// Close cancels any pending retry, aborts an in-flight dial and closes
// the open socket. The manager cannot be restarted.
func (m *Manager) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	if m.reconnect != nil {
		m.reconnect.Stop()
		m.reconnect = nil
	}
	if m.dialCancel != nil {
		m.dialCancel()
		m.dialCancel = nil
	}
	conn := m.conn
	m.conn = nil
	m.mu.Unlock()

	if conn != nil {
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		_ = conn.Close()
	}
}

func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stateLocked()
}

func (m *Manager) stateLocked() State {
	msgs := make([]model.ChatMessage, len(m.messages))
	copy(msgs, m.messages)
	return State{
		Status:            m.status,
		ReconnectAttempts: m.attempts,
		Messages:          msgs,
		PeerTyping:        m.typing,
		ReconnectPending:  m.reconnect != nil,
	}
}

func (m *Manager) emit(st State) {
	if m.onChange != nil {
		m.onChange(st)
	}
}
