package widget

import (
	"context"
	"log/slog"
	"strings"

	"NovaChat/ai"
	"NovaChat/entity"
	"NovaChat/internal/lib/sl"
	"NovaChat/internal/metrics"
)

// generateAIReply asks the responder for a completion and forwards a valid
// one into the session as the AI sender. Anything else is discarded: the
// visitor sees either a proper reply or nothing. The originating session id
// is re-checked before the reply is applied so a late response can't land in
// a different conversation.
func (w *Widget) generateAIReply(ctx context.Context, sessionID, visitorText string, prior []entity.ChatMessage) {
	w.mu.Lock()
	conf := w.config
	w.mu.Unlock()
	if conf == nil {
		return
	}

	req := ai.Request{
		Message:      visitorText,
		History:      mapHistory(prior),
		Instructions: conf.AI.KnowledgeBase,
		Provider:     conf.AI.Provider,
		Model:        conf.AI.Model,
		TenantID:     conf.TenantID,
	}

	text, err := w.responder.GetAIResponse(ctx, req)
	if err != nil {
		metrics.AIRepliesDiscarded.WithLabelValues("error").Inc()
		w.log.Error("ai response", slog.String("session_id", sessionID), sl.Err(err))
		return
	}

	text = strings.TrimSpace(text)
	if text == "" {
		metrics.AIRepliesDiscarded.WithLabelValues("empty").Inc()
		return
	}
	if strings.Contains(text, ai.MissingCredentialMarker) {
		metrics.AIRepliesDiscarded.WithLabelValues("missing_credential").Inc()
		w.log.Warn("ai provider credential missing", slog.String("tenant_id", conf.TenantID))
		return
	}

	w.mu.Lock()
	stale := w.session == nil || w.session.ID != sessionID || !w.aiEligibleLocked()
	assistantName := conf.AssistantName()
	w.mu.Unlock()
	if stale {
		metrics.AIRepliesDiscarded.WithLabelValues("stale_session").Inc()
		w.log.Debug("dropping late ai response", slog.String("session_id", sessionID))
		return
	}

	msg := entity.ChatMessage{
		SessionID:  sessionID,
		Content:    text,
		Sender:     entity.SenderAI,
		SenderName: assistantName,
	}
	if err := w.realtime.SendMessage(ctx, msg); err != nil {
		w.log.Error("send ai reply", slog.String("session_id", sessionID), sl.Err(err))
		return
	}

	metrics.AIRepliesSent.Inc()
}

// mapHistory projects prior messages onto the responder's two-role schema:
// visitor turns stay visitor, everything else counts as the assistant side.
func mapHistory(prior []entity.ChatMessage) []ai.Turn {
	turns := make([]ai.Turn, 0, len(prior))
	for _, m := range prior {
		role := ai.RoleAssistant
		if m.Sender == entity.SenderVisitor {
			role = ai.RoleVisitor
		}
		turns = append(turns, ai.Turn{Role: role, Content: m.Content})
	}
	return turns
}
