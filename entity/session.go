package entity

import "time"

// SessionStatus is the lifecycle state of a chat session.
type SessionStatus string

const (
	// SessionActive is a conversation in progress, AI may answer.
	SessionActive SessionStatus = "active"
	// SessionUnassigned means the visitor requested a human agent and is
	// waiting for pickup.
	SessionUnassigned SessionStatus = "unassigned"
	// SessionResolved is closed by an agent or the visitor.
	SessionResolved SessionStatus = "resolved"
	// SessionExpired is closed by the platform after inactivity.
	SessionExpired SessionStatus = "expired"
)

// Concluded reports whether the status terminates the session.
func (s SessionStatus) Concluded() bool {
	return s == SessionResolved || s == SessionExpired
}

// ChatSession is one continuous conversation between a visitor and a tenant.
type ChatSession struct {
	ID           string        `json:"id" bson:"_id"`
	TenantID     string        `json:"tenant_id" bson:"tenant_id"`
	VisitorID    string        `json:"visitor_id" bson:"visitor_id"`
	VisitorName  string        `json:"visitor_name" bson:"visitor_name"`
	VisitorEmail string        `json:"visitor_email" bson:"visitor_email"`
	Status       SessionStatus `json:"status" bson:"status"`
	AgentID      string        `json:"agent_id,omitempty" bson:"agent_id,omitempty"`
	AgentName    string        `json:"agent_name,omitempty" bson:"agent_name,omitempty"`
	CreatedAt    time.Time     `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at" bson:"updated_at"`
	EndedAt      *time.Time    `json:"ended_at,omitempty" bson:"ended_at,omitempty"`
}

// HasAgent reports whether a human agent is assigned to the session.
func (s *ChatSession) HasAgent() bool {
	return s.AgentID != ""
}

// SessionPatch is a partial session update. Nil fields are left untouched.
type SessionPatch struct {
	Status    *SessionStatus `json:"status,omitempty" bson:"status,omitempty"`
	AgentID   *string        `json:"agent_id,omitempty" bson:"agent_id,omitempty"`
	AgentName *string        `json:"agent_name,omitempty" bson:"agent_name,omitempty"`
}

// VisitorMetadata is page-engagement data reported by the widget.
type VisitorMetadata struct {
	ScrollDepth int `json:"scroll_depth" bson:"scroll_depth"`
	ClickCount  int `json:"click_count" bson:"click_count"`
}
