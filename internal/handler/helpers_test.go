package handler

import (
	"context"
	"net"
	"testing"
	"time"

	"portfolio-backend/internal/config"
	"portfolio-backend/internal/model"
	"portfolio-backend/internal/service"

	"github.com/gofiber/fiber/v2"
)

const testAdminKey = "test-admin-key"

type testServer struct {
	app      *fiber.App
	hub      *service.Hub
	bot      *service.BotResponder
	auth     *service.AuthService
	contacts *service.ContactService
	addr     string
}

type stubStore struct {
	inserted []model.ContactRequest
	err      error
}

func (s *stubStore) Insert(_ context.Context, req model.ContactRequest) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	s.inserted = append(s.inserted, req)
	return int64(len(s.inserted)), nil
}

func (s *stubStore) CountTotal(context.Context) (int64, error) {
	return int64(len(s.inserted)), s.err
}

func (s *stubStore) ListRecent(context.Context, int) ([]model.ContactMessage, error) {
	out := make([]model.ContactMessage, 0, len(s.inserted))
	for i := len(s.inserted) - 1; i >= 0; i-- {
		out = append(out, model.ContactMessage{ID: int64(i + 1), Subject: s.inserted[i].Subject})
	}
	return out, s.err
}

func (s *stubStore) DeleteOlderThan(context.Context, int) (int64, error) { return 0, s.err }

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

func testConfig() *config.Config {
	return &config.Config{
		Env:              "test",
		AllowedOrigins:   []string{"*"},
		BotName:          "Bot",
		BotTypingDelay:   50 * time.Millisecond,
		BotReplyDelay:    200 * time.Millisecond,
		ContactRateLimit: 100,
		SlowRequest:      time.Second,
	}
}

// newTestServer builds the full app. store and db may be nil.
func newTestServer(t *testing.T, store service.ContactStore, db Pinger) *testServer {
	t.Helper()
	cfg := testConfig()

	hub := service.NewHub(service.NewRegistry())
	go hub.Run()
	bot := service.NewBotResponder(hub, cfg.BotName, cfg.BotTypingDelay, cfg.BotReplyDelay)

	auth, err := service.NewAuthService("test-jwt-secret", testAdminKey)
	if err != nil {
		t.Fatalf("NewAuthService: %v", err)
	}

	contacts := service.NewContactService(store, nil)
	deps := Deps{Config: cfg, Hub: hub, Bot: bot, Auth: auth, Contacts: contacts, DB: db}

	ts := &testServer{app: NewApp(deps), hub: hub, bot: bot, auth: auth, contacts: contacts}
	t.Cleanup(func() {
		bot.Shutdown()
		hub.Shutdown()
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		_ = hub.Wait(ctx)
		cancel()
		_ = ts.app.ShutdownWithTimeout(time.Second)
	})
	return ts
}

// listen serves the app on a loopback port for websocket tests.
func (ts *testServer) listen(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	go func() { _ = ts.app.Listener(ln) }()
	ts.addr = ln.Addr().String()
	return ts.addr
}

func waitFor(t *testing.T, timeout time.Duration, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}
