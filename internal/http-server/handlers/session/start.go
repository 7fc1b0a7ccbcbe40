package session

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"NovaChat/internal/lib/api/response"
	"NovaChat/internal/lib/sl"
)

var validate = validator.New()

type StartRequest struct {
	VisitorID string `json:"visitor_id" validate:"required"`
	TenantID  string `json:"tenant_id"`
	Name      string `json:"name"`
	Email     string `json:"email" validate:"omitempty,email"`
}

// Start finds or creates the visitor's session. Required pre-chat fields are
// enforced against the tenant's configuration before the session is touched.
func Start(log *slog.Logger, handler Core, configs ConfigSource, notifier Notifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(
			sl.Module("http.handlers.session"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req StartRequest
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

		if configs != nil && req.TenantID != "" {
			conf, err := configs.GetConfig(r.Context(), req.TenantID)
			if err != nil {
				logger.Warn("config lookup for validation", sl.Err(err))
			}
			if conf != nil {
				if conf.RequireName && req.Name == "" {
					render.Status(r, http.StatusBadRequest)
					render.JSON(w, r, response.Error("Name is required"))
					return
				}
				if conf.RequireEmail && req.Email == "" {
					render.Status(r, http.StatusBadRequest)
					render.JSON(w, r, response.Error("Email is required"))
					return
				}
			}
		}

		sess, err := handler.FindOrCreateSession(r.Context(), req.Name, req.Email, req.VisitorID, req.TenantID)
		if err != nil {
			logger.Error("find or create session", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("Could not start session"))
			return
		}

		if notifier != nil {
			go notifier.NotifySessionStarted(*sess)
		}

		render.JSON(w, r, response.Ok(sess))
	}
}
