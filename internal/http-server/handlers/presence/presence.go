package presence

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"NovaChat/entity"
	"NovaChat/internal/lib/api/response"
	"NovaChat/internal/lib/sl"
)

type Core interface {
	Join(ctx context.Context, visitorID string, info entity.PresenceInfo) error
	Update(ctx context.Context, visitorID string, isTyping bool) error
	Leave(ctx context.Context, visitorID string) error
	ListOnline(ctx context.Context) ([]string, error)
}

type JoinRequest struct {
	VisitorID   string `json:"visitor_id" validate:"required"`
	Name        string `json:"name"`
	Role        string `json:"role"`
	CurrentPage string `json:"current_page"`
}

type UpdateRequest struct {
	VisitorID string `json:"visitor_id" validate:"required"`
	IsTyping  bool   `json:"is_typing"`
}

type LeaveRequest struct {
	VisitorID string `json:"visitor_id" validate:"required"`
}

// Join announces a visitor on the presence channel. Presence is best-effort
// end to end: when the service is not configured the call is a silent no-op.
func Join(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := requestLogger(log, r)

		var req JoinRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.VisitorID == "" {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("Invalid request body"))
			return
		}

		role := req.Role
		if role == "" {
			role = "visitor"
		}
		err := handler.Join(r.Context(), req.VisitorID, entity.PresenceInfo{
			Name:        req.Name,
			Role:        role,
			CurrentPage: req.CurrentPage,
		})
		if err != nil {
			logger.Warn("presence join", sl.Err(err))
		}

		render.JSON(w, r, response.Ok(nil))
	}
}

// Update refreshes the typing flag.
func Update(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := requestLogger(log, r)

		var req UpdateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.VisitorID == "" {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("Invalid request body"))
			return
		}

		if err := handler.Update(r.Context(), req.VisitorID, req.IsTyping); err != nil {
			logger.Warn("presence update", sl.Err(err))
		}

		render.JSON(w, r, response.Ok(nil))
	}
}

// Leave drops the visitor from the presence channel.
func Leave(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := requestLogger(log, r)

		var req LeaveRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.VisitorID == "" {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("Invalid request body"))
			return
		}

		if err := handler.Leave(r.Context(), req.VisitorID); err != nil {
			logger.Warn("presence leave", sl.Err(err))
		}

		render.JSON(w, r, response.Ok(nil))
	}
}

// Online lists the visitor ids currently on the presence channel. Consumed
// by the agent console.
func Online(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := requestLogger(log, r)

		ids, err := handler.ListOnline(r.Context())
		if err != nil {
			logger.Error("list online", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("Could not list presence"))
			return
		}

		render.JSON(w, r, response.Ok(ids))
	}
}

func requestLogger(log *slog.Logger, r *http.Request) *slog.Logger {
	return log.With(
		sl.Module("http.handlers.presence"),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
}
