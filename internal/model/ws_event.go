package model

// Announce is the admin payload broadcast to every socket as a system line.
type Announce struct {
	Message string `json:"message"`
}

// TokenResponse is returned when an admin key is exchanged for a bearer token.
type TokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"`
}

// RelayStats is a point-in-time view of the relay counters.
type RelayStats struct {
	Online       int    `json:"online"`
	Relayed      uint64 `json:"relayed"`
	Dropped      uint64 `json:"dropped"`
	BotReplies   uint64 `json:"bot_replies"`
	ContactTotal int64  `json:"contact_total"`
}
