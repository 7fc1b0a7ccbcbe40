package session

import (
	"context"

	"NovaChat/entity"
)

type Core interface {
	FindOrCreateSession(ctx context.Context, visitorName, visitorEmail, visitorID, tenantID string) (*entity.ChatSession, error)
	GetMessages(ctx context.Context, sessionID string) ([]entity.ChatMessage, error)
	SendMessage(ctx context.Context, msg entity.ChatMessage) error
	UpdateSession(ctx context.Context, sessionID string, patch entity.SessionPatch) (*entity.ChatSession, error)
	EndSession(ctx context.Context, sessionID string) error
	UpdateVisitorMetadata(ctx context.Context, sessionID string, meta entity.VisitorMetadata) error
}

// ConfigSource resolves tenant configuration for pre-chat validation.
type ConfigSource interface {
	GetConfig(ctx context.Context, tenantID string) (*entity.WidgetConfig, error)
}

// Notifier alerts the support team; optional.
type Notifier interface {
	NotifyHandoff(sess entity.ChatSession)
	NotifySessionStarted(sess entity.ChatSession)
}
