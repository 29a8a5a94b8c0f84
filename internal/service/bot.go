package service

import (
	"context"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"portfolio-backend/internal/model"

	"github.com/rs/zerolog/log"
)

// CannedReplies is the fixed set the bot picks from.
var CannedReplies = []string{
	"Thanks for reaching out! I'm a chat bot representing the portfolio owner. Would you like to know more about my skills or projects?",
	"I'd be happy to connect you with the portfolio owner. Please use the contact form for direct inquiries.",
	"This portfolio showcases a variety of projects using React, Three.js, and Framer Motion. Any particular area you'd like to know more about?",
	"The One Piece-inspired theme represents creativity and the journey of becoming a developer. It's all about the voyage!",
	"Feel free to explore the various sections. The 3D elements are built with Three.js and React Three Fiber.",
}

type Broadcaster interface {
	Broadcast(msg model.ChatMessage)
}

// BotResponder answers every user chat line with a typing hint and a canned
// reply. Each trigger gets its own pair of timers, both measured from the
// trigger; nothing is coalesced. Timers live as long as the responder, not
// the socket that triggered them.
type BotResponder struct {
	out         Broadcaster
	name        string
	typingDelay time.Duration
	replyDelay  time.Duration
	replies     []string
	pick        func(n int) int
	now         func() time.Time

	ctx    context.Context
	cancel context.CancelFunc
	mu     sync.Mutex
	wg     sync.WaitGroup
	stop   bool

	sent atomic.Uint64
}

func NewBotResponder(out Broadcaster, name string, typingDelay, replyDelay time.Duration) *BotResponder {
	ctx, cancel := context.WithCancel(context.Background())
	return &BotResponder{
		out:         out,
		name:        name,
		typingDelay: typingDelay,
		replyDelay:  replyDelay,
		replies:     CannedReplies,
		pick:        rand.IntN,
		now:         time.Now,
		ctx:         ctx,
		cancel:      cancel,
	}
}

func (b *BotResponder) Name() string { return b.name }

// Observe schedules the typing and reply broadcasts for msg when it is a
// user chat line. It reports whether anything was scheduled.
func (b *BotResponder) Observe(msg model.ChatMessage) bool {
	if !msg.IsUserChat(b.name) {
		return false
	}

	b.mu.Lock()
	if b.stop {
		b.mu.Unlock()
		return false
	}
	b.wg.Add(2)
	b.mu.Unlock()

	go b.after(b.typingDelay, func() {
		b.out.Broadcast(model.NewChatMessage(model.MessageTyping, b.name, "", b.now()))
	})
	go b.after(b.replyDelay, func() {
		reply := b.replies[b.pick(len(b.replies))]
		b.out.Broadcast(model.NewChatMessage(model.MessageChat, b.name, reply, b.now()))
		b.sent.Add(1)
	})

	log.Debug().Str("sender", msg.Sender).Msg("bot: reply scheduled")
	return true
}

func (b *BotResponder) after(d time.Duration, fn func()) {
	defer b.wg.Done()
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		fn()
	case <-b.ctx.Done():
	}
}

// Shutdown cancels pending timers and waits for in-flight callbacks.
func (b *BotResponder) Shutdown() {
	b.mu.Lock()
	b.stop = true
	b.mu.Unlock()
	b.cancel()
	b.wg.Wait()
}

// RepliesSent counts canned replies broadcast so far.
func (b *BotResponder) RepliesSent() uint64 {
	return b.sent.Load()
}
