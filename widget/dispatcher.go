package widget

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"NovaChat/entity"
	"NovaChat/internal/lib/sl"
)

// Send dispatches a visitor message: the entry appears in the list
// immediately as pending and is rolled back if the network call fails.
// Empty input, a missing session or a broken connection block the send
// silently; only throttling and delivery failures surface to the visitor.
func (w *Widget) Send(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)

	w.mu.Lock()
	if text == "" || w.session == nil || w.connStatus != StatusConnected {
		w.mu.Unlock()
		return nil
	}

	now := w.now()
	if !w.lastSentAt.IsZero() && now.Sub(w.lastSentAt) < w.config.Throttle() {
		w.setNoticeLocked("You're sending messages too quickly. Give it a moment.", true)
		w.mu.Unlock()
		return ErrThrottled
	}

	msg := entity.ChatMessage{
		ID:         uuid.NewString(),
		SessionID:  w.session.ID,
		Content:    text,
		Sender:     entity.SenderVisitor,
		SenderName: w.session.VisitorName,
		Delivery:   entity.DeliveryPending,
		CreatedAt:  now,
	}
	w.messages = append(w.messages, msg)
	sessionID := w.session.ID
	w.mu.Unlock()

	err := w.realtime.SendMessage(ctx, msg)

	w.mu.Lock()
	if err != nil {
		// Roll back exactly the optimistic entry; the list may have grown
		// since the send started
		kept := w.messages[:0]
		for _, m := range w.messages {
			if m.ID != msg.ID {
				kept = append(kept, m)
			}
		}
		w.messages = kept
		w.setNoticeLocked("Your message could not be sent.", false)
		w.mu.Unlock()
		w.log.Error("send message", sl.Err(err))
		return fmt.Errorf("send message: %w", err)
	}

	for i := range w.messages {
		if w.messages[i].ID == msg.ID {
			w.messages[i].Delivery = entity.DeliveryConfirmed
			break
		}
	}
	w.lastSentAt = now
	eligible := w.aiEligibleLocked()
	var history []entity.ChatMessage
	if eligible {
		history = make([]entity.ChatMessage, 0, len(w.messages))
		for _, m := range w.messages {
			if m.ID != msg.ID {
				history = append(history, m)
			}
		}
	}
	w.mu.Unlock()

	if eligible {
		// Fire-and-forget continuation: its outcome never touches the
		// already-confirmed send, and it outlives the caller's context
		go w.generateAIReply(context.WithoutCancel(ctx), sessionID, text, history)
	}

	return nil
}
