package middleware

import (
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

// Logger returns an access log that only records slow or failed requests.
// Websocket upgrades stay open for the life of the chat session, so /ws is
// never considered slow.
func Logger(dest io.Writer, slow time.Duration) fiber.Handler {
	return logger.New(logger.Config{
		Format:     "${status} | ${latency} | ${method} ${path}\n",
		TimeFormat: "15:04:05",
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/ws"
		},
		Output: &filteredWriter{
			dest:             dest,
			slowThreshold:    slow,
			errorStatusFloor: 400,
		},
	})
}

// filteredWriter drops lines for fast successful requests. Lines look like
//
//	"200 | 1.23ms | GET /path\n"
type filteredWriter struct {
	dest             io.Writer
	slowThreshold    time.Duration
	errorStatusFloor int
}

func (w *filteredWriter) Write(p []byte) (int, error) {
	parts := strings.Split(string(p), " | ")
	if len(parts) < 3 {
		return w.dest.Write(p)
	}

	status, _ := strconv.Atoi(strings.TrimSpace(parts[0]))
	if status >= w.errorStatusFloor {
		return w.dest.Write(p)
	}

	latency, err := time.ParseDuration(strings.TrimSpace(parts[1]))
	if err == nil && latency >= w.slowThreshold {
		return w.dest.Write(p)
	}

	return len(p), nil
}
