package realtime

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"NovaChat/entity"
	"NovaChat/internal/events"
	"NovaChat/internal/lib/sl"
	"NovaChat/internal/metrics"
	"NovaChat/internal/ws"
)

// Store is the persistence surface the service needs. Implemented by the
// Mongo repository.
type Store interface {
	FindActiveSession(ctx context.Context, visitorID, tenantID string) (*entity.ChatSession, error)
	CreateSession(ctx context.Context, sess entity.ChatSession) error
	GetSession(ctx context.Context, sessionID string) (*entity.ChatSession, error)
	UpdateSession(ctx context.Context, sessionID string, patch entity.SessionPatch) (*entity.ChatSession, error)
	ExpireStaleSessions(ctx context.Context, cutoff time.Time) ([]string, error)
	SaveMessage(ctx context.Context, msg entity.ChatMessage) error
	GetMessages(ctx context.Context, sessionID string) ([]entity.ChatMessage, error)
	UpsertVisitorMetadata(ctx context.Context, sessionID string, meta entity.VisitorMetadata) error
}

// subscription is one in-process listener on a session's event stream.
type subscription struct {
	sessionID       string
	onMessage       func(entity.ChatMessage)
	onSessionUpdate func(entity.ChatSession)
}

// Service implements the realtime messaging contract consumed by widget
// engines: session find-or-create, message storage and fanout, scoped
// subscriptions. Fanout goes to in-process subscribers and, when a hub is
// attached, to WebSocket watchers (browser widgets and agent consoles).
type Service struct {
	store    Store
	hub      *ws.Hub
	producer *events.Producer
	log      *slog.Logger

	mu   sync.RWMutex
	subs map[string]*subscription
}

func NewService(store Store, logger *slog.Logger) *Service {
	return &Service{
		store: store,
		log:   logger.With(sl.Module("realtime")),
		subs:  make(map[string]*subscription),
	}
}

// SetHub attaches the WebSocket hub for browser fanout.
func (s *Service) SetHub(hub *ws.Hub) {
	s.hub = hub
	if hub != nil {
		hub.SetHandler(s)
	}
}

// SetProducer attaches the analytics event producer.
func (s *Service) SetProducer(producer *events.Producer) {
	s.producer = producer
}

// FindOrCreateSession resumes the visitor's open session for the tenant or
// creates a new one. Calling it twice for the same pair resumes.
func (s *Service) FindOrCreateSession(ctx context.Context, visitorName, visitorEmail, visitorID, tenantID string) (*entity.ChatSession, error) {
	existing, err := s.store.FindActiveSession(ctx, visitorID, tenantID)
	if err != nil {
		return nil, fmt.Errorf("find session: %w", err)
	}
	if existing != nil {
		return existing, nil
	}

	now := time.Now()
	sess := entity.ChatSession{
		ID:           uuid.NewString(),
		TenantID:     tenantID,
		VisitorID:    visitorID,
		VisitorName:  visitorName,
		VisitorEmail: visitorEmail,
		Status:       entity.SessionActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.CreateSession(ctx, sess); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	metrics.SessionsStarted.Inc()
	s.producer.PublishSessionEvent("session_started", sess)

	s.log.With(
		slog.String("session_id", sess.ID),
		slog.String("tenant_id", tenantID),
	).Info("session created")

	return &sess, nil
}

// GetMessages returns the session history, oldest first.
func (s *Service) GetMessages(ctx context.Context, sessionID string) ([]entity.ChatMessage, error) {
	return s.store.GetMessages(ctx, sessionID)
}

// SendMessage stores a message and fans it out to all subscribers of its
// session. The message keeps the caller-assigned id when present so that an
// optimistic sender can correlate its own echo.
func (s *Service) SendMessage(ctx context.Context, msg entity.ChatMessage) error {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}
	msg.Delivery = entity.DeliveryConfirmed

	if err := s.store.SaveMessage(ctx, msg); err != nil {
		return fmt.Errorf("save message: %w", err)
	}

	metrics.MessagesStored.WithLabelValues(string(msg.Sender)).Inc()

	sess, err := s.store.GetSession(ctx, msg.SessionID)
	if err == nil && sess != nil {
		s.producer.PublishMessage(sess.TenantID, msg)
	}

	if s.hub != nil {
		s.hub.BroadcastMessage(msg)
	}
	s.notifyMessage(msg)

	return nil
}

// SubscribeToSession registers callbacks for a session's message and update
// events and returns the channel key used to unsubscribe.
func (s *Service) SubscribeToSession(sessionID string, onMessage func(entity.ChatMessage), onSessionUpdate func(entity.ChatSession)) (string, error) {
	if sessionID == "" {
		return "", fmt.Errorf("subscribe: empty session id")
	}

	key := fmt.Sprintf("session:%s:%s", sessionID, uuid.NewString())

	s.mu.Lock()
	s.subs[key] = &subscription{
		sessionID:       sessionID,
		onMessage:       onMessage,
		onSessionUpdate: onSessionUpdate,
	}
	s.mu.Unlock()

	metrics.ActiveSubscriptions.Inc()

	return key, nil
}

// Unsubscribe releases a subscription. Unknown keys are ignored.
func (s *Service) Unsubscribe(channelKey string) {
	s.mu.Lock()
	_, ok := s.subs[channelKey]
	delete(s.subs, channelKey)
	s.mu.Unlock()

	if ok {
		metrics.ActiveSubscriptions.Dec()
	}
}

// UpdateSession applies a partial update and broadcasts the fresh document.
func (s *Service) UpdateSession(ctx context.Context, sessionID string, patch entity.SessionPatch) (*entity.ChatSession, error) {
	sess, err := s.store.UpdateSession(ctx, sessionID, patch)
	if err != nil {
		return nil, fmt.Errorf("update session: %w", err)
	}

	if s.hub != nil {
		s.hub.BroadcastSessionUpdate(*sess)
	}
	s.notifySessionUpdate(*sess)

	return sess, nil
}

// EndSession resolves a session and broadcasts the conclusion to its
// subscribers so every attached widget tears down.
func (s *Service) EndSession(ctx context.Context, sessionID string) error {
	status := entity.SessionResolved
	sess, err := s.store.UpdateSession(ctx, sessionID, entity.SessionPatch{Status: &status})
	if err != nil {
		return fmt.Errorf("end session: %w", err)
	}

	metrics.SessionsEnded.WithLabelValues(string(entity.SessionResolved)).Inc()
	s.producer.PublishSessionEvent("session_ended", *sess)

	if s.hub != nil {
		s.hub.BroadcastSessionUpdate(*sess)
	}
	s.notifySessionUpdate(*sess)

	return nil
}

// UpdateVisitorMetadata stores page-engagement data. Best-effort from the
// widget's point of view; errors only matter to the caller's logs.
func (s *Service) UpdateVisitorMetadata(ctx context.Context, sessionID string, meta entity.VisitorMetadata) error {
	return s.store.UpsertVisitorMetadata(ctx, sessionID, meta)
}

// HandleTyping implements ws.ClientMessageHandler: typing indicators from one
// socket are reflected to the session's other watchers.
func (s *Service) HandleTyping(sessionID, role string, isTyping bool) {
	if s.hub != nil {
		s.hub.BroadcastTyping(sessionID, role, isTyping)
	}
}

// RunJanitor periodically expires open sessions with no activity past the
// cutoff and notifies their subscribers. Blocks until ctx is done.
func (s *Service) RunJanitor(ctx context.Context, interval time.Duration, maxAge time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			ids, err := s.store.ExpireStaleSessions(ctx, time.Now().Add(-maxAge))
			if err != nil {
				s.log.Error("expire stale sessions", sl.Err(err))
				continue
			}
			for _, id := range ids {
				metrics.SessionsEnded.WithLabelValues(string(entity.SessionExpired)).Inc()
				sess, err := s.store.GetSession(ctx, id)
				if err != nil || sess == nil {
					continue
				}
				s.producer.PublishSessionEvent("session_ended", *sess)
				if s.hub != nil {
					s.hub.BroadcastSessionUpdate(*sess)
				}
				s.notifySessionUpdate(*sess)
			}
			if len(ids) > 0 {
				s.log.Info("expired stale sessions", slog.Int("count", len(ids)))
			}
		}
	}
}

// Callbacks run outside s.mu: a subscriber reacting to a concluded session
// unsubscribes from inside its callback, which needs the write lock.
func (s *Service) notifyMessage(msg entity.ChatMessage) {
	s.mu.RLock()
	callbacks := make([]func(entity.ChatMessage), 0, len(s.subs))
	for _, sub := range s.subs {
		if sub.sessionID == msg.SessionID && sub.onMessage != nil {
			callbacks = append(callbacks, sub.onMessage)
		}
	}
	s.mu.RUnlock()

	for _, cb := range callbacks {
		cb(msg)
	}
}

func (s *Service) notifySessionUpdate(sess entity.ChatSession) {
	s.mu.RLock()
	callbacks := make([]func(entity.ChatSession), 0, len(s.subs))
	for _, sub := range s.subs {
		if sub.sessionID == sess.ID && sub.onSessionUpdate != nil {
			callbacks = append(callbacks, sub.onSessionUpdate)
		}
	}
	s.mu.RUnlock()

	for _, cb := range callbacks {
		cb(sess)
	}
}
