package chatclient

import (
	"fmt"
	"net/url"
	"time"
)

// Status is the connection state shown to the user.
type Status int

const (
	StatusConnecting Status = iota
	StatusConnected
	StatusDisconnected
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusConnecting:
		return "connecting"
	case StatusConnected:
		return "connected"
	case StatusDisconnected:
		return "disconnected"
	case StatusError:
		return "error"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Label is the indicator text for the status.
func (s Status) Label() string {
	switch s {
	case StatusConnecting:
		return "Connecting..."
	case StatusConnected:
		return "Online"
	case StatusDisconnected:
		return "Reconnecting..."
	case StatusError:
		return "Connection Error"
	}
	return s.String()
}

const (
	baseDelay = time.Second
	maxDelay  = 10 * time.Second

	// MaxReconnectAttempts is the last attempt count a retry may start with.
	MaxReconnectAttempts = 5
)

// Backoff is min(1s * 2^attempts, 10s).
func Backoff(attempts int) time.Duration {
	d := baseDelay
	for i := 0; i < attempts && d < maxDelay; i++ {
		d *= 2
	}
	if d > maxDelay {
		d = maxDelay
	}
	return d
}

// EndpointURL turns the page (or server) URL into the chat socket URL.
// Secure pages get wss, everything else ws.
func EndpointURL(base string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}
	switch u.Scheme {
	case "https", "wss":
		u.Scheme = "wss"
	case "http", "ws":
		u.Scheme = "ws"
	default:
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("missing host in %q", base)
	}
	u.Path = "/ws"
	u.RawQuery = ""
	u.Fragment = ""
	return u.String(), nil
}
