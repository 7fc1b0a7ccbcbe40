package entity

import "time"

// PresenceInfo is the visitor's announced state on the shared presence
// channel. Best-effort; consumers must tolerate stale entries.
type PresenceInfo struct {
	Name        string    `json:"name"`
	Role        string    `json:"role"` // "visitor" | "agent"
	CurrentPage string    `json:"current_page"`
	IsTyping    bool      `json:"is_typing"`
	UpdatedAt   time.Time `json:"updated_at"`
}
