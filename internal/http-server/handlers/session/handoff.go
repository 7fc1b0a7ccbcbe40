package session

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"NovaChat/entity"
	"NovaChat/internal/lib/api/response"
	"NovaChat/internal/lib/sl"
	"NovaChat/internal/metrics"
)

type HandoffRequest struct {
	SessionID string `json:"session_id" validate:"required"`
}

// Handoff marks a session unassigned, asking for human pickup, and alerts
// the support team. One-way: assignment comes back through the realtime
// channel when an agent picks the conversation up.
func Handoff(log *slog.Logger, handler Core, notifier Notifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(
			sl.Module("http.handlers.session"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req HandoffRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("failed to decode request body", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("Invalid request body"))
			return
		}
		if err := validate.Struct(req); err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("Invalid request fields"))
			return
		}

		status := entity.SessionUnassigned
		sess, err := handler.UpdateSession(r.Context(), req.SessionID, entity.SessionPatch{Status: &status})
		if err != nil {
			logger.Error("request handoff", slog.String("session_id", req.SessionID), sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("Could not request a human agent"))
			return
		}

		if notifier != nil {
			go notifier.NotifyHandoff(*sess)
		}
		metrics.HandoffsRequested.Inc()

		render.JSON(w, r, response.Ok(sess))
	}
}
