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

// Messages returns a session's history, oldest first.
func Messages(log *slog.Logger, handler Core) http.HandlerFunc {
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

		messages, err := handler.GetMessages(r.Context(), sessionID)
		if err != nil {
			logger.Error("get messages", slog.String("session_id", sessionID), sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("Could not load messages"))
			return
		}

		render.JSON(w, r, response.Ok(messages))
	}
}

type SendRequest struct {
	Content    string `json:"content" validate:"required"`
	Sender     string `json:"sender" validate:"required,oneof=visitor agent system"`
	SenderName string `json:"sender_name"`

	// Client-assigned id lets an optimistic sender correlate its echo
	ID string `json:"id"`
}

// SendMsg stores a message and fans it out to the session's subscribers.
// AI replies are not accepted here; they originate in the widget engine.
func SendMsg(log *slog.Logger, handler Core) http.HandlerFunc {
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

		var req SendRequest
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

		msg := entity.ChatMessage{
			ID:         req.ID,
			SessionID:  sessionID,
			Content:    req.Content,
			Sender:     entity.SenderType(req.Sender),
			SenderName: req.SenderName,
		}
		if err := handler.SendMessage(r.Context(), msg); err != nil {
			logger.Error("send message", slog.String("session_id", sessionID), sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("Could not send message"))
			return
		}

		render.JSON(w, r, response.Ok(nil))
	}
}
