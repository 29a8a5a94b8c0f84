package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"portfolio-backend/internal/chatclient"
	"portfolio-backend/internal/model"

	"github.com/jroimartin/gocui"
)

const (
	msgView    = "messages"
	statusView = "status"
	inputView  = "input"
)

// chatSession is the part of chatclient.Manager the UI drives.
type chatSession interface {
	State() chatclient.State
	Send(content string) error
}

type ChatUI struct {
	gui    *gocui.Gui
	chat   chatSession
	notice string
}

func NewChatUI() (*ChatUI, error) {
	g, err := gocui.NewGui(gocui.OutputNormal)
	if err != nil {
		return nil, err
	}
	ui := &ChatUI{gui: g}
	g.SetManagerFunc(ui.layout)
	return ui, nil
}

// Attach binds the manager whose state the UI renders and sends through.
func (ui *ChatUI) Attach(m chatSession) {
	ui.chat = m
}

func (ui *ChatUI) layout(g *gocui.Gui) error {
	maxX, maxY := g.Size()
	msgHeight := maxY - 7

	if v, err := g.SetView(msgView, 0, 0, maxX-1, msgHeight); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Title = "Chat"
		v.Wrap = true
		v.Autoscroll = true
	}

	if v, err := g.SetView(statusView, 0, msgHeight+1, maxX-1, msgHeight+3); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Title = "Status"
		ui.Render(chatclient.State{})
	}

	if v, err := g.SetView(inputView, 0, msgHeight+4, maxX-1, maxY-1); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Title = "Message (Enter to send, Ctrl-C to quit)"
		v.Editable = true
		v.Wrap = true
		if _, err := g.SetCurrentView(inputView); err != nil {
			return err
		}
	}
	return nil
}

// Render is the manager's change callback. It runs on the manager's
// goroutines and only schedules a redraw. Queued updates may run in any
// order, so each one draws the session's current state, never st.
func (ui *ChatUI) Render(chatclient.State) {
	ui.gui.Update(func(g *gocui.Gui) error {
		if ui.chat == nil {
			return nil
		}
		messages, status := ui.currentFrame()
		return draw(g, messages, status)
	})
}

// currentFrame renders the message log and status line from the latest
// session state.
func (ui *ChatUI) currentFrame() (messages, status string) {
	st := ui.chat.State()
	var b strings.Builder
	for _, m := range st.Messages {
		b.WriteString(formatMessage(m))
		b.WriteByte('\n')
	}
	return b.String(), statusLine(st, ui.notice)
}

func draw(g *gocui.Gui, messages, status string) error {
	for name, text := range map[string]string{msgView: messages, statusView: status} {
		v, err := g.View(name)
		if err == gocui.ErrUnknownView {
			// Layout has not run yet; it schedules a redraw once it has.
			return nil
		}
		if err != nil {
			return err
		}
		v.Clear()
		fmt.Fprint(v, text)
	}
	return nil
}

func formatMessage(m model.ChatMessage) string {
	at := time.UnixMilli(m.Timestamp).Format("15:04")
	if m.Type == model.MessageSystem {
		return fmt.Sprintf("%s  * %s", at, m.Content)
	}
	return fmt.Sprintf("%s  %s: %s", at, m.Sender, m.Content)
}

func statusLine(st chatclient.State, notice string) string {
	parts := []string{st.Status.Label()}
	if st.Status == chatclient.StatusDisconnected {
		parts = append(parts, fmt.Sprintf("attempt %d", st.ReconnectAttempts+1))
	}
	if st.PeerTyping {
		parts = append(parts, "typing...")
	}
	if notice != "" {
		parts = append(parts, notice)
	}
	return strings.Join(parts, " | ")
}

func (ui *ChatUI) keybindings() error {
	if err := ui.gui.SetKeybinding("", gocui.KeyCtrlC, gocui.ModNone,
		func(_ *gocui.Gui, _ *gocui.View) error {
			return gocui.ErrQuit
		}); err != nil {
		return err
	}
	return ui.gui.SetKeybinding(inputView, gocui.KeyEnter, gocui.ModNone, ui.handleInput)
}

func (ui *ChatUI) handleInput(_ *gocui.Gui, v *gocui.View) error {
	input := strings.TrimSpace(v.Buffer())
	if input == "" {
		v.Clear()
		_ = v.SetCursor(0, 0)
		return nil
	}

	err := ui.chat.Send(input)
	switch {
	case errors.Is(err, chatclient.ErrNotConnected):
		// Keep the draft until the connection is back.
		ui.notice = "not connected"
	case err != nil:
		ui.notice = err.Error()
	default:
		ui.notice = ""
		v.Clear()
		_ = v.SetCursor(0, 0)
	}
	ui.Render(chatclient.State{})
	return nil
}

func (ui *ChatUI) Run() error {
	if err := ui.keybindings(); err != nil {
		return err
	}
	if err := ui.gui.MainLoop(); err != nil && err != gocui.ErrQuit {
		return err
	}
	return nil
}

func (ui *ChatUI) Close() {
	ui.gui.Close()
}
