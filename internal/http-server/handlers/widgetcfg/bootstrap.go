package widgetcfg

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"NovaChat/entity"
	"NovaChat/internal/lib/api/response"
	"NovaChat/internal/lib/sl"
)

// Bootstrap resolves the configuration snapshot a mounting widget needs.
// Resolution mode: "global" forces the platform default, an explicit
// tenant_id loads that tenant, otherwise the embedding origin is used.
// A failed or empty lookup degrades to built-in defaults so the widget
// can always render.
func Bootstrap(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(
			sl.Module("http.handlers.widgetcfg"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		if handler == nil {
			render.JSON(w, r, response.Ok(entity.DefaultWidgetConfig()))
			return
		}

		mode := r.URL.Query().Get("mode")
		tenantID := r.URL.Query().Get("tenant_id")
		origin := r.Header.Get("Origin")

		var (
			conf *entity.WidgetConfig
			err  error
		)
		switch {
		case mode == "global":
			conf, err = handler.GetGlobalConfig(r.Context())
		case tenantID != "":
			conf, err = handler.GetConfig(r.Context(), tenantID)
		default:
			conf, err = handler.GetConfigByOrigin(r.Context(), origin)
		}

		if err != nil {
			logger.Error("resolve widget config", sl.Err(err))
			conf = nil
		}
		if conf == nil {
			conf = entity.DefaultWidgetConfig()
		}

		render.JSON(w, r, response.Ok(conf))
	}
}
