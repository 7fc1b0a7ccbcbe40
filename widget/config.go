package widget

import (
	"context"
	"log/slog"
	"time"

	"NovaChat/entity"
	"NovaChat/internal/lib/sl"
)

// ConfigMode selects how the configuration snapshot is resolved on mount.
// The three modes are mutually exclusive.
type ConfigMode string

const (
	// ConfigGlobal forces the platform-wide default configuration.
	ConfigGlobal ConfigMode = "global"
	// ConfigTenant loads an explicit tenant's configuration.
	ConfigTenant ConfigMode = "tenant"
	// ConfigInferred resolves the tenant from the embedding page origin.
	ConfigInferred ConfigMode = "inferred"
)

// MountOptions describes the embedding context of a widget instance.
type MountOptions struct {
	Mode     ConfigMode
	TenantID string
	Origin   string
	Page     string
}

// Mount initializes the instance: resolves the visitor identity, loads the
// configuration (degrading to built-in defaults), joins presence and
// announces readiness to the host page. Never fails; a dark collaborator
// only degrades the mount.
func (w *Widget) Mount(ctx context.Context, opts MountOptions) {
	visitorID := w.resolveIdentity()
	conf := w.loadConfig(ctx, opts)

	w.mu.Lock()
	w.visitorID = visitorID
	w.currentPage = opts.Page
	w.config = conf
	w.view = ViewPreChat
	if conf.AutoOpen {
		delay := time.Duration(conf.AutoOpenDelay) * time.Second
		w.autoOpenTimer = time.AfterFunc(delay, w.Open)
	}
	w.mu.Unlock()

	if w.presence != nil {
		go func() {
			err := w.presence.Join(ctx, visitorID, entity.PresenceInfo{
				Name:        "",
				Role:        "visitor",
				CurrentPage: opts.Page,
			})
			if err != nil {
				w.log.Debug("presence join", sl.Err(err))
			}
		}()
	}

	w.announce(FrameWidgetReady)

	w.log.With(
		slog.String("visitor_id", visitorID),
		slog.String("tenant_id", conf.TenantID),
	).Debug("widget mounted")
}

// Unmount releases the subscription, stops timers and leaves presence.
// Safe to call more than once.
func (w *Widget) Unmount(ctx context.Context) {
	w.mu.Lock()
	if w.channelKey != "" {
		w.realtime.Unsubscribe(w.channelKey)
		w.channelKey = ""
	}
	w.connStatus = StatusDisconnected
	if w.autoOpenTimer != nil {
		w.autoOpenTimer.Stop()
		w.autoOpenTimer = nil
	}
	w.clearNoticeLocked()
	visitorID := w.visitorID
	w.mu.Unlock()

	if w.presence != nil && visitorID != "" {
		if err := w.presence.Leave(ctx, visitorID); err != nil {
			w.log.Debug("presence leave", sl.Err(err))
		}
	}
}

// SetTyping reports the visitor's typing state to the presence channel,
// fire-and-forget.
func (w *Widget) SetTyping(ctx context.Context, isTyping bool) {
	if w.presence == nil {
		return
	}

	w.mu.Lock()
	visitorID := w.visitorID
	w.mu.Unlock()
	if visitorID == "" {
		return
	}

	go func() {
		if err := w.presence.Update(ctx, visitorID, isTyping); err != nil {
			w.log.Debug("presence update", sl.Err(err))
		}
	}()
}

// ReportEngagement forwards page-engagement metrics for the active session,
// fire-and-forget.
func (w *Widget) ReportEngagement(ctx context.Context, scrollDepth, clickCount int) {
	w.mu.Lock()
	sessionID := ""
	if w.session != nil {
		sessionID = w.session.ID
	}
	w.mu.Unlock()
	if sessionID == "" {
		return
	}

	go func() {
		err := w.realtime.UpdateVisitorMetadata(ctx, sessionID, entity.VisitorMetadata{
			ScrollDepth: scrollDepth,
			ClickCount:  clickCount,
		})
		if err != nil {
			w.log.Debug("update visitor metadata", sl.Err(err))
		}
	}()
}

// loadConfig resolves the snapshot for the mount mode. A nil or failed
// lookup falls back to built-in defaults so the widget always renders.
func (w *Widget) loadConfig(ctx context.Context, opts MountOptions) *entity.WidgetConfig {
	var (
		conf *entity.WidgetConfig
		err  error
	)

	switch opts.Mode {
	case ConfigGlobal:
		conf, err = w.configs.GetGlobalConfig(ctx)
	case ConfigTenant:
		conf, err = w.configs.GetConfig(ctx, opts.TenantID)
	default:
		conf, err = w.configs.GetConfigByOrigin(ctx, opts.Origin)
	}

	if err != nil {
		w.log.Warn("config load failed, using defaults", sl.Err(err))
		return entity.DefaultWidgetConfig()
	}
	if conf == nil {
		w.log.Debug("no config found, using defaults", slog.String("tenant_id", opts.TenantID))
		return entity.DefaultWidgetConfig()
	}

	return conf
}
