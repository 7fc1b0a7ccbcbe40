package entity

import "time"

// Default appearance and behavior used when no configuration can be loaded.
const (
	DefaultPrimaryColor  = "#2563EB"
	DefaultLauncherText  = "Chat with us"
	DefaultThrottleSec   = 2
	DefaultAssistantName = "AI Assistant"
)

// AISettings controls automated replies for a tenant.
type AISettings struct {
	Enabled       bool   `json:"enabled" bson:"enabled"`
	Provider      string `json:"provider" bson:"provider"` // "openai" | "anthropic"
	Model         string `json:"model" bson:"model"`
	KnowledgeBase string `json:"knowledge_base" bson:"knowledge_base"`
	AssistantName string `json:"assistant_name" bson:"assistant_name"`
}

// WidgetConfig is the read-only display/behavior snapshot served to a widget
// mount. Server-controlled; the widget never mutates it.
type WidgetConfig struct {
	TenantID       string     `json:"tenant_id" bson:"tenant_id"`
	Global         bool       `json:"global" bson:"global"`
	PrimaryColor   string     `json:"primary_color" bson:"primary_color"`
	LauncherText   string     `json:"launcher_text" bson:"launcher_text"`
	SeasonalTheme  string     `json:"seasonal_theme,omitempty" bson:"seasonal_theme,omitempty"`
	AutoOpen       bool       `json:"auto_open" bson:"auto_open"`
	AutoOpenDelay  int        `json:"auto_open_delay" bson:"auto_open_delay"` // seconds
	RequireName    bool       `json:"require_name" bson:"require_name"`
	RequireEmail   bool       `json:"require_email" bson:"require_email"`
	ConsentText    string     `json:"consent_text,omitempty" bson:"consent_text,omitempty"`
	AI             AISettings `json:"ai" bson:"ai"`
	ThrottleSec    int        `json:"throttle_sec" bson:"throttle_sec"`
	AllowedOrigins []string   `json:"allowed_origins,omitempty" bson:"allowed_origins,omitempty"`
	UpdatedAt      time.Time  `json:"updated_at" bson:"updated_at"`
}

// DefaultWidgetConfig returns the built-in fallback used when the
// configuration store is unreachable or the tenant is unknown.
func DefaultWidgetConfig() *WidgetConfig {
	return &WidgetConfig{
		PrimaryColor: DefaultPrimaryColor,
		LauncherText: DefaultLauncherText,
		ThrottleSec:  DefaultThrottleSec,
		AI: AISettings{
			AssistantName: DefaultAssistantName,
		},
	}
}

// Throttle returns the configured minimum send interval, falling back to the
// default for unset or invalid values.
func (c *WidgetConfig) Throttle() time.Duration {
	if c == nil || c.ThrottleSec <= 0 {
		return DefaultThrottleSec * time.Second
	}
	return time.Duration(c.ThrottleSec) * time.Second
}

// AssistantName returns the display name for AI messages.
func (c *WidgetConfig) AssistantName() string {
	if c == nil || c.AI.AssistantName == "" {
		return DefaultAssistantName
	}
	return c.AI.AssistantName
}
