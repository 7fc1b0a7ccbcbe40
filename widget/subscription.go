package widget

import (
	"log/slog"

	"NovaChat/entity"
	"NovaChat/internal/lib/sl"
)

// switchSubscription opens the subscription for a session, tearing down the
// previous one first so exactly one is ever live per instance.
func (w *Widget) switchSubscription(sessionID string) {
	w.mu.Lock()
	if w.channelKey != "" {
		w.realtime.Unsubscribe(w.channelKey)
		w.channelKey = ""
	}
	w.connStatus = StatusConnecting
	w.mu.Unlock()

	key, err := w.realtime.SubscribeToSession(sessionID, w.handleInbound, w.handleSessionUpdate)

	w.mu.Lock()
	defer w.mu.Unlock()
	if err != nil {
		w.connStatus = StatusDisconnected
		w.log.Error("subscribe to session", slog.String("session_id", sessionID), sl.Err(err))
		return
	}
	// The session may already be gone if a conclusion raced the subscribe
	if w.session == nil || w.session.ID != sessionID {
		w.realtime.Unsubscribe(key)
		w.connStatus = StatusDisconnected
		return
	}
	w.channelKey = key
	w.connStatus = StatusConnected
}

// handleInbound appends a delivered message to the displayed list. The
// visitor's own messages are already reflected optimistically and are
// skipped; so is anything for a session this instance no longer shows.
func (w *Widget) handleInbound(msg entity.ChatMessage) {
	if msg.Sender == entity.SenderVisitor {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.session == nil || w.session.ID != msg.SessionID {
		return
	}
	msg.Delivery = entity.DeliveryConfirmed
	w.messages = append(w.messages, msg)
}

// handleSessionUpdate merges a server-side session change, or tears the
// local state down entirely when the session concluded. Teardown is
// idempotent: a duplicate conclusion event is a no-op.
func (w *Widget) handleSessionUpdate(sess entity.ChatSession) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.session == nil || w.session.ID != sess.ID {
		return
	}

	if sess.Status.Concluded() {
		w.log.With(
			slog.String("session_id", sess.ID),
			slog.String("status", string(sess.Status)),
		).Info("session concluded")
		w.teardownLocked()
		return
	}

	w.session = &sess
}
