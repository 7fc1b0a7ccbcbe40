package session

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"NovaChat/entity"
	"NovaChat/internal/lib/api/response"
	"NovaChat/internal/lib/sl"
)

type MetadataRequest struct {
	ScrollDepth int `json:"scroll_depth"`
	ClickCount  int `json:"click_count"`
}

// Metadata stores the visitor's page-engagement snapshot. Best-effort from
// the widget's side; it retries on the next beacon anyway.
func Metadata(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(
			sl.Module("http.handlers.session"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		sessionID := chi.URLParam(r, "id")
		if sessionID == "" {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("Session id required"))
			return
		}

		var req MetadataRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("failed to decode request body", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("Invalid request body"))
			return
		}

		err := handler.UpdateVisitorMetadata(r.Context(), sessionID, entity.VisitorMetadata{
			ScrollDepth: req.ScrollDepth,
			ClickCount:  req.ClickCount,
		})
		if err != nil {
			logger.Error("update visitor metadata", slog.String("session_id", sessionID), sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("Could not store metadata"))
			return
		}

		render.JSON(w, r, response.Ok(nil))
	}
}
