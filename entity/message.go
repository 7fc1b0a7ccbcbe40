package entity

import "time"

// SenderType identifies who authored a chat message.
type SenderType string

const (
	SenderVisitor SenderType = "visitor"
	SenderAgent   SenderType = "agent"
	SenderSystem  SenderType = "system"
	SenderAI      SenderType = "ai"
)

// DeliveryState tracks an outbound message through the optimistic-send cycle.
// Inbound messages are always confirmed.
type DeliveryState string

const (
	DeliveryPending   DeliveryState = "pending"
	DeliveryConfirmed DeliveryState = "confirmed"
	DeliveryFailed    DeliveryState = "failed"
)

// ChatMessage is a single message in a session conversation.
type ChatMessage struct {
	ID         string        `json:"id" bson:"_id"`
	SessionID  string        `json:"session_id" bson:"session_id"`
	Content    string        `json:"content" bson:"content"`
	Sender     SenderType    `json:"sender" bson:"sender"`
	SenderName string        `json:"sender_name,omitempty" bson:"sender_name,omitempty"`
	Delivery   DeliveryState `json:"delivery,omitempty" bson:"-"`
	CreatedAt  time.Time     `json:"created_at" bson:"created_at"`
}
