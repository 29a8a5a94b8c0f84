package discord

import (
	"errors"
	"strings"
	"testing"
	"time"

	"portfolio-backend/internal/model"

	"github.com/bwmarrin/discordgo"
)

type fakeExecutor struct {
	id, token string
	params    *discordgo.WebhookParams
	err       error
}

func (f *fakeExecutor) WebhookExecute(id, token string, _ bool, data *discordgo.WebhookParams, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.id, f.token, f.params = id, token, data
	return nil, f.err
}

func TestParseWebhookURL(t *testing.T) {
	tests := []struct {
		raw       string
		id, token string
		wantErr   bool
	}{
		{"https://discord.com/api/webhooks/123/abc", "123", "abc", false},
		{"https://discordapp.com/api/v10/webhooks/9/tok-en/", "9", "tok-en", false},
		{"https://discord.com/api/webhooks/123", "", "", true},
		{"not a url", "", "", true},
	}
	for _, tt := range tests {
		id, token, err := ParseWebhookURL(tt.raw)
		if tt.wantErr {
			if !errors.Is(err, ErrBadWebhookURL) {
				t.Errorf("ParseWebhookURL(%q) err = %v, want ErrBadWebhookURL", tt.raw, err)
			}
			continue
		}
		if err != nil || id != tt.id || token != tt.token {
			t.Errorf("ParseWebhookURL(%q) = %q, %q, %v", tt.raw, id, token, err)
		}
	}
}

func TestNewNotifierDisabledWithoutURL(t *testing.T) {
	n, err := NewNotifier("")
	if err != nil || n != nil {
		t.Fatalf("NewNotifier(\"\") = %v, %v; want nil, nil", n, err)
	}
}

func TestSendBuildsContactEmbed(t *testing.T) {
	exec := &fakeExecutor{}
	n := &Notifier{exec: exec, webhookID: "123", token: "abc"}

	req := model.ContactRequest{Name: "Ann", Email: "a@b.com", Subject: "Hiring", Message: "Let's talk"}
	if err := n.send(req); err != nil {
		t.Fatalf("send: %v", err)
	}
	if exec.id != "123" || exec.token != "abc" {
		t.Errorf("executed against %s/%s", exec.id, exec.token)
	}
	if len(exec.params.Embeds) != 1 {
		t.Fatalf("embeds = %d, want 1", len(exec.params.Embeds))
	}
	e := exec.params.Embeds[0]
	if !strings.Contains(e.Title, "Hiring") || e.Description != "Let's talk" {
		t.Errorf("embed = %+v", e)
	}
	if e.Fields[0].Value != "Ann" || e.Fields[1].Value != "a@b.com" {
		t.Errorf("fields = %+v, %+v", e.Fields[0], e.Fields[1])
	}
}

func TestContactEmbedTruncates(t *testing.T) {
	long := strings.Repeat("é", 5000)
	e := contactEmbed(model.ContactRequest{Name: "n", Email: "e", Subject: long, Message: long}, time.Unix(0, 0))
	if got := len([]rune(e.Description)); got != 4096 {
		t.Errorf("description runes = %d, want 4096", got)
	}
	if e.Timestamp != "1970-01-01T00:00:00Z" {
		t.Errorf("timestamp = %s", e.Timestamp)
	}
}
