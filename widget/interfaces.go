package widget

import (
	"context"

	"NovaChat/ai"
	"NovaChat/entity"
)

// Realtime is the messaging collaborator: session lifecycle, message storage
// and the scoped event subscription. Implemented by the realtime service
// in-process and by the API client in remote embeds.
type Realtime interface {
	FindOrCreateSession(ctx context.Context, visitorName, visitorEmail, visitorID, tenantID string) (*entity.ChatSession, error)
	GetMessages(ctx context.Context, sessionID string) ([]entity.ChatMessage, error)
	SendMessage(ctx context.Context, msg entity.ChatMessage) error
	SubscribeToSession(sessionID string, onMessage func(entity.ChatMessage), onSessionUpdate func(entity.ChatSession)) (string, error)
	Unsubscribe(channelKey string)
	UpdateSession(ctx context.Context, sessionID string, patch entity.SessionPatch) (*entity.ChatSession, error)
	EndSession(ctx context.Context, sessionID string) error
	UpdateVisitorMetadata(ctx context.Context, sessionID string, meta entity.VisitorMetadata) error
}

// ConfigStore resolves widget configuration snapshots.
type ConfigStore interface {
	GetGlobalConfig(ctx context.Context) (*entity.WidgetConfig, error)
	GetConfig(ctx context.Context, tenantID string) (*entity.WidgetConfig, error)
	GetConfigByOrigin(ctx context.Context, origin string) (*entity.WidgetConfig, error)
}

// Responder produces AI completions.
type Responder interface {
	GetAIResponse(ctx context.Context, req ai.Request) (string, error)
}

// Presence is the shared presence channel. All calls are best-effort.
type Presence interface {
	Join(ctx context.Context, visitorID string, info entity.PresenceInfo) error
	Update(ctx context.Context, visitorID string, isTyping bool) error
	Leave(ctx context.Context, visitorID string) error
}

// Notifier alerts the support team about visitor actions.
type Notifier interface {
	NotifyHandoff(sess entity.ChatSession)
}

// IdentityStore persists the visitor identifier across mounts. Load returns
// an empty string when no identity has been stored yet.
type IdentityStore interface {
	Load() (string, error)
	Store(id string) error
}
