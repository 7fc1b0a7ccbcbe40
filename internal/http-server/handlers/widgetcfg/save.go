package widgetcfg

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"NovaChat/entity"
	"NovaChat/internal/lib/api/response"
	"NovaChat/internal/lib/sl"
)

var validate = validator.New()

type SaveRequest struct {
	TenantID       string            `json:"tenant_id" validate:"required_without=Global"`
	Global         bool              `json:"global"`
	PrimaryColor   string            `json:"primary_color"`
	LauncherText   string            `json:"launcher_text"`
	SeasonalTheme  string            `json:"seasonal_theme"`
	AutoOpen       bool              `json:"auto_open"`
	AutoOpenDelay  int               `json:"auto_open_delay"`
	RequireName    bool              `json:"require_name"`
	RequireEmail   bool              `json:"require_email"`
	ConsentText    string            `json:"consent_text"`
	AI             entity.AISettings `json:"ai"`
	ThrottleSec    int               `json:"throttle_sec"`
	AllowedOrigins []string          `json:"allowed_origins"`
}

// Save upserts a tenant's widget configuration. Admin surface, not called by
// widgets themselves.
func Save(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(
			sl.Module("http.handlers.widgetcfg"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req SaveRequest
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

		conf := entity.WidgetConfig{
			TenantID:       req.TenantID,
			Global:         req.Global,
			PrimaryColor:   req.PrimaryColor,
			LauncherText:   req.LauncherText,
			SeasonalTheme:  req.SeasonalTheme,
			AutoOpen:       req.AutoOpen,
			AutoOpenDelay:  req.AutoOpenDelay,
			RequireName:    req.RequireName,
			RequireEmail:   req.RequireEmail,
			ConsentText:    req.ConsentText,
			AI:             req.AI,
			ThrottleSec:    req.ThrottleSec,
			AllowedOrigins: req.AllowedOrigins,
			UpdatedAt:      time.Now(),
		}
		if err := handler.SaveConfig(r.Context(), conf); err != nil {
			logger.Error("save widget config", slog.String("tenant_id", req.TenantID), sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("Could not save configuration"))
			return
		}

		render.JSON(w, r, response.Ok(conf))
	}
}
