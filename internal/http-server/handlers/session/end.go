package session

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"NovaChat/internal/lib/api/response"
	"NovaChat/internal/lib/sl"
)

type EndRequest struct {
	SessionID string `json:"session_id" validate:"required"`
	Confirmed bool   `json:"confirmed"`
}

// End resolves a session. Irreversible for the visitor, so the request must
// carry an explicit confirmation flag.
func End(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(
			sl.Module("http.handlers.session"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req EndRequest
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

		if !req.Confirmed {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("Ending a chat requires confirmation"))
			return
		}

		if err := handler.EndSession(r.Context(), req.SessionID); err != nil {
			logger.Error("end session", slog.String("session_id", req.SessionID), sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("Could not end session"))
			return
		}

		render.JSON(w, r, response.Ok(nil))
	}
}
