package widget

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"NovaChat/entity"
	"NovaChat/internal/lib/sl"
	"NovaChat/internal/metrics"
)

var validate = validator.New()

// ValidatePreChat checks the pre-chat form against the configuration's
// required-field flags. Email format is verified whenever a value is given.
func (w *Widget) ValidatePreChat(name, email string) error {
	w.mu.Lock()
	conf := w.config
	w.mu.Unlock()

	if conf != nil && conf.RequireName {
		if err := validate.Var(name, "required"); err != nil {
			return fmt.Errorf("name is required")
		}
	}
	if conf != nil && conf.RequireEmail {
		if err := validate.Var(email, "required,email"); err != nil {
			return fmt.Errorf("a valid email is required")
		}
	}
	if email != "" {
		if err := validate.Var(email, "email"); err != nil {
			return fmt.Errorf("a valid email is required")
		}
	}

	return nil
}

// StartSession finds or creates the visitor's session, loads its history and
// switches the view to the conversation. Input must already be validated via
// ValidatePreChat. On failure the pre-chat form stays up and the error is
// retryable.
func (w *Widget) StartSession(ctx context.Context, visitorName, visitorEmail string) error {
	w.mu.Lock()
	if w.starting {
		w.mu.Unlock()
		return nil
	}
	if w.session != nil {
		w.mu.Unlock()
		return nil
	}
	w.starting = true
	visitorID := w.visitorID
	tenantID := ""
	if w.config != nil {
		tenantID = w.config.TenantID
	}
	w.mu.Unlock()

	sess, err := w.realtime.FindOrCreateSession(ctx, visitorName, visitorEmail, visitorID, tenantID)

	w.mu.Lock()
	w.starting = false
	if err != nil {
		w.setNoticeLocked("Could not start the chat. Please try again.", false)
		w.mu.Unlock()
		w.log.Error("start session", sl.Err(err))
		return fmt.Errorf("%w: %v", ErrSessionStart, err)
	}
	w.mu.Unlock()

	// History is loaded before the conversation view is shown
	history, err := w.realtime.GetMessages(ctx, sess.ID)
	if err != nil {
		w.log.Warn("load message history", sl.Err(err))
		history = nil
	}
	for i := range history {
		history[i].Delivery = entity.DeliveryConfirmed
	}

	w.mu.Lock()
	w.session = sess
	w.messages = history
	w.view = ViewConversation
	w.clearNoticeLocked()
	w.mu.Unlock()

	w.switchSubscription(sess.ID)

	w.log.With(
		slog.String("session_id", sess.ID),
		slog.String("status", string(sess.Status)),
	).Info("session started")

	return nil
}

// EndSession concludes the conversation. Irreversible from the visitor's
// side, so the caller must pass an explicit confirmation.
func (w *Widget) EndSession(ctx context.Context, confirmed bool) error {
	if !confirmed {
		return ErrConfirmationRequired
	}

	w.mu.Lock()
	if w.session == nil || w.ending {
		w.mu.Unlock()
		return nil
	}
	w.ending = true
	sessionID := w.session.ID
	w.mu.Unlock()

	err := w.realtime.EndSession(ctx, sessionID)

	w.mu.Lock()
	w.ending = false
	if err != nil {
		w.setNoticeLocked("Could not end the chat. Please try again.", false)
		w.mu.Unlock()
		w.log.Error("end session", sl.Err(err))
		return fmt.Errorf("end session: %w", err)
	}
	w.teardownLocked()
	w.mu.Unlock()

	return nil
}

// RequestHumanAgent marks the session unassigned, asking for human pickup.
// Available only while AI is answering and no agent is assigned; the
// transition is one-way and assignment arrives later through the subscription.
func (w *Widget) RequestHumanAgent(ctx context.Context) error {
	w.mu.Lock()
	if w.session == nil || !w.aiEligibleLocked() {
		w.mu.Unlock()
		return nil
	}
	sessionID := w.session.ID
	w.mu.Unlock()

	status := entity.SessionUnassigned
	sess, err := w.realtime.UpdateSession(ctx, sessionID, entity.SessionPatch{Status: &status})
	if err != nil {
		w.log.Error("request human agent", sl.Err(err))
		return fmt.Errorf("request human agent: %w", err)
	}

	w.mu.Lock()
	if w.session != nil && w.session.ID == sessionID {
		w.session = sess
		w.messages = append(w.messages, entity.ChatMessage{
			ID:        uuid.NewString(),
			SessionID: sessionID,
			Content:   "You asked to speak with a human agent. Someone from the team will join shortly.",
			Sender:    entity.SenderSystem,
			Delivery:  entity.DeliveryConfirmed,
			CreatedAt: w.now(),
		})
	}
	w.mu.Unlock()

	if w.notifier != nil && sess != nil {
		go w.notifier.NotifyHandoff(*sess)
	}

	metrics.HandoffsRequested.Inc()
	w.log.With(slog.String("session_id", sessionID)).Info("human handoff requested")

	return nil
}

// teardownLocked clears the session, message list and subscription and
// returns the UI to pre-chat. Idempotent. Caller must hold w.mu.
func (w *Widget) teardownLocked() {
	if w.channelKey != "" {
		w.realtime.Unsubscribe(w.channelKey)
		w.channelKey = ""
	}
	w.session = nil
	w.messages = nil
	w.connStatus = StatusDisconnected
	w.lastSentAt = time.Time{}
	w.view = ViewPreChat
	w.clearNoticeLocked()
}

// aiEligibleLocked reports whether an automated reply may be generated:
// AI enabled by config, no human assigned, and no pending handoff request.
// Caller must hold w.mu.
func (w *Widget) aiEligibleLocked() bool {
	if w.responder == nil || w.config == nil || !w.config.AI.Enabled {
		return false
	}
	if w.session == nil {
		return false
	}
	if w.session.HasAgent() {
		return false
	}
	if w.session.Status == entity.SessionUnassigned {
		return false
	}
	return true
}
