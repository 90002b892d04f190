package activity

import "time"

// Message — one entry in a guild's short-term buffer.
type Message struct {
	Role      string    `json:"role"` // "user" | "assistant"
	UserID    string    `json:"user_id,omitempty"`
	Username  string    `json:"username,omitempty"`
	Content   string    `json:"content"`
	ChannelID string    `json:"channel_id"`
	At        time.Time `json:"at"`
	Mentioned bool      `json:"mentioned"` // bot was mentioned
}

// guildMeter — per-guild activity state. Score decays over time and is
// bumped per message; Level readers see the decayed value.
type guildMeter struct {
	score       float64
	lastMsgAt   time.Time
	lastDecayAt time.Time
	lastChannel string
	multiplier  float64
	buffer      []Message
}
