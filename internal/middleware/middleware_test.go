package middleware

import (
	"bytes"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
)

func TestFilteredWriter(t *testing.T) {
	tests := []struct {
		line string
		keep bool
	}{
		{"200 | 1.2ms | GET /health\n", false},
		{"200 |   750ms | POST /api/contact\n", true},
		{"404 | 90µs | GET /nope\n", true},
		{"500 | 1ms | POST /api/contact\n", true},
		{"garbage\n", true},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		w := &filteredWriter{dest: &buf, slowThreshold: 500 * time.Millisecond, errorStatusFloor: 400}
		n, err := w.Write([]byte(tt.line))
		if err != nil || n != len(tt.line) {
			t.Errorf("Write(%q) = %d, %v", tt.line, n, err)
		}
		if got := buf.Len() > 0; got != tt.keep {
			t.Errorf("Write(%q) kept = %v, want %v", tt.line, got, tt.keep)
		}
	}
}

type stubAuth struct{}

func (stubAuth) ValidateAccessToken(token string) (string, error) {
	if token == "good" {
		return "admin", nil
	}
	return "", errors.New("bad token")
}

func (stubAuth) CheckAdminKey(key string) error {
	if key == "secret" {
		return nil
	}
	return errors.New("bad key")
}

func TestAuthMiddleware(t *testing.T) {
	app := fiber.New()
	app.Get("/private", Auth(stubAuth{}), func(c *fiber.Ctx) error {
		return c.SendString(c.Locals("subject").(string))
	})

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", 401},
		{"not bearer", "Basic abc", 401},
		{"bad token", "Bearer nope", 401},
		{"good token", "Bearer good", 200},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/private", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("app.Test: %v", err)
			}
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.want)
			}
		})
	}
}

func TestAdminKeyMiddleware(t *testing.T) {
	app := fiber.New()
	app.Post("/token", AdminKey(stubAuth{}), func(c *fiber.Ctx) error { return c.SendStatus(204) })

	for key, want := range map[string]int{"": 403, "wrong": 403, "secret": 204} {
		req := httptest.NewRequest("POST", "/token", nil)
		req.Header.Set("X-Admin-Key", key)
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("app.Test: %v", err)
		}
		if resp.StatusCode != want {
			t.Errorf("key %q: status = %d, want %d", key, resp.StatusCode, want)
		}
	}
}

func TestRateLimit(t *testing.T) {
	app := fiber.New()
	app.Post("/limited", RateLimit(2, time.Minute), func(c *fiber.Ctx) error { return c.SendStatus(200) })
	app.Post("/open", RateLimit(0, time.Minute), func(c *fiber.Ctx) error { return c.SendStatus(200) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		resp, err := app.Test(httptest.NewRequest("POST", "/limited", nil))
		if err != nil {
			t.Fatalf("app.Test: %v", err)
		}
		codes = append(codes, resp.StatusCode)
	}
	if codes[0] != 200 || codes[1] != 200 || codes[2] != 429 {
		t.Errorf("limited codes = %v, want [200 200 429]", codes)
	}

	for i := 0; i < 5; i++ {
		resp, _ := app.Test(httptest.NewRequest("POST", "/open", nil))
		if resp.StatusCode != 200 {
			t.Fatalf("disabled limiter rejected request %d", i)
		}
	}
}
