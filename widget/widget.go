package widget

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"NovaChat/entity"
	"NovaChat/internal/lib/sl"
)

// ConnectionStatus tracks the realtime subscription's readiness. Sends are
// only permitted while connected.
type ConnectionStatus string

const (
	StatusDisconnected ConnectionStatus = "disconnected"
	StatusConnecting   ConnectionStatus = "connecting"
	StatusConnected    ConnectionStatus = "connected"
)

// View is the widget's visible surface.
type View string

const (
	ViewPreChat      View = "prechat"
	ViewConversation View = "conversation"
)

var (
	// ErrThrottled means the visitor sent again before the throttle
	// interval elapsed; a transient notice is shown alongside.
	ErrThrottled = errors.New("message throttled")
	// ErrConfirmationRequired rejects an unconfirmed session end.
	ErrConfirmationRequired = errors.New("confirmation required")
	// ErrSessionStart wraps find-or-create failures; the visitor may retry.
	ErrSessionStart = errors.New("could not start session")
)

const defaultNoticeTTL = 3 * time.Second

// Widget is one mounted chat widget instance. It owns all of its session,
// message and configuration state; nothing is shared between instances.
type Widget struct {
	realtime Realtime
	configs  ConfigStore

	responder Responder
	presence  Presence
	notifier  Notifier
	identity  IdentityStore
	frame     FrameSink

	log *slog.Logger

	// now and noticeTTL are swapped in tests to drive the throttle window
	// and the notice auto-clear.
	now       func() time.Time
	noticeTTL time.Duration

	mu            sync.Mutex
	visitorID     string
	currentPage   string
	config        *entity.WidgetConfig
	session       *entity.ChatSession
	messages      []entity.ChatMessage
	connStatus    ConnectionStatus
	channelKey    string
	lastSentAt    time.Time
	view          View
	open          bool
	starting      bool
	ending        bool
	notice        string
	noticeTimer   *time.Timer
	autoOpenTimer *time.Timer
}

// New creates an unmounted widget instance.
func New(realtime Realtime, configs ConfigStore, log *slog.Logger) *Widget {
	return &Widget{
		realtime:   realtime,
		configs:    configs,
		log:        log.With(sl.Module("widget")),
		now:        time.Now,
		noticeTTL:  defaultNoticeTTL,
		connStatus: StatusDisconnected,
		view:       ViewPreChat,
	}
}

// SetResponder enables AI auto-response.
func (w *Widget) SetResponder(r Responder) {
	w.responder = r
}

// SetPresence enables presence reporting.
func (w *Widget) SetPresence(p Presence) {
	w.presence = p
}

// SetNotifier enables support-team alerts.
func (w *Widget) SetNotifier(n Notifier) {
	w.notifier = n
}

// SetIdentityStore sets the visitor identity persistence.
func (w *Widget) SetIdentityStore(s IdentityStore) {
	w.identity = s
}

// SetFrameSink sets the host-page announcement channel.
func (w *Widget) SetFrameSink(f FrameSink) {
	w.frame = f
}

// VisitorID returns the resolved visitor identifier.
func (w *Widget) VisitorID() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.visitorID
}

// Config returns the loaded configuration snapshot.
func (w *Widget) Config() *entity.WidgetConfig {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.config
}

// Session returns a copy of the active session, or nil.
func (w *Widget) Session() *entity.ChatSession {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.session == nil {
		return nil
	}
	sess := *w.session
	return &sess
}

// Messages returns a copy of the displayed message list.
func (w *Widget) Messages() []entity.ChatMessage {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]entity.ChatMessage, len(w.messages))
	copy(out, w.messages)
	return out
}

// ConnectionStatus returns the subscription readiness.
func (w *Widget) ConnectionStatus() ConnectionStatus {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.connStatus
}

// View returns the visible surface (pre-chat form or conversation).
func (w *Widget) View() View {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.view
}

// Notice returns the current inline notice, empty when none is shown.
func (w *Widget) Notice() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.notice
}

// IsOpen reports whether the chat panel is expanded.
func (w *Widget) IsOpen() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.open
}

// Open expands the chat panel and announces it to the host page.
func (w *Widget) Open() {
	w.mu.Lock()
	if w.open {
		w.mu.Unlock()
		return
	}
	w.open = true
	w.mu.Unlock()

	w.announce(FrameWidgetOpen)
}

// Close collapses the chat panel and announces it to the host page.
func (w *Widget) Close() {
	w.mu.Lock()
	if !w.open {
		w.mu.Unlock()
		return
	}
	w.open = false
	w.mu.Unlock()

	w.announce(FrameWidgetClose)
}

// setNoticeLocked shows an inline notice; transient notices clear themselves
// after the TTL. Caller must hold w.mu.
func (w *Widget) setNoticeLocked(text string, transient bool) {
	if w.noticeTimer != nil {
		w.noticeTimer.Stop()
		w.noticeTimer = nil
	}
	w.notice = text
	if transient {
		w.noticeTimer = time.AfterFunc(w.noticeTTL, func() {
			w.mu.Lock()
			defer w.mu.Unlock()
			if w.notice == text {
				w.notice = ""
			}
		})
	}
}

// clearNoticeLocked drops the notice and any pending auto-clear.
func (w *Widget) clearNoticeLocked() {
	if w.noticeTimer != nil {
		w.noticeTimer.Stop()
		w.noticeTimer = nil
	}
	w.notice = ""
}
