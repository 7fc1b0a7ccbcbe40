package api

import (
	"NovaChat/internal/config"
	"NovaChat/internal/http-server/handlers/errors"
	"NovaChat/internal/http-server/handlers/presence"
	"NovaChat/internal/http-server/handlers/session"
	"NovaChat/internal/http-server/handlers/widgetcfg"
	mw "NovaChat/internal/http-server/middleware/metrics"
	"NovaChat/internal/http-server/middleware/ratelimit"
	"NovaChat/internal/http-server/middleware/timeout"
	"NovaChat/internal/lib/sl"
	"NovaChat/internal/ws"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

type Server struct {
	conf       *config.Config
	httpServer *http.Server
	log        *slog.Logger
}

type Handler interface {
	session.Core
}

func New(conf *config.Config, log *slog.Logger, handler Handler, configs widgetcfg.Core, pres presence.Core, notifier session.Notifier, hub *ws.Hub, rdb *redis.Client) error {

	server := Server{
		conf: conf,
		log:  log.With(sl.Module("api.server")),
	}

	router := chi.NewRouter()
	router.Use(timeout.Timeout(15))
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(mw.Collect)
	router.Use(render.SetContentType(render.ContentTypeJSON))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Origin"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	router.Use(ratelimit.New(rdb, conf.Widget.RatePerMinute, log).Handler)

	router.NotFound(errors.NotFound(log))
	router.MethodNotAllowed(errors.NotAllowed(log))

	router.Route("/api/v1", func(v1 chi.Router) {
		v1.Route("/widget", func(r chi.Router) {
			r.Get("/bootstrap", widgetcfg.Bootstrap(log, configs))
			r.Post("/config", widgetcfg.Save(log, configs))
		})
		v1.Route("/session", func(r chi.Router) {
			r.Post("/start", session.Start(log, handler, configs, notifier))
			r.Post("/end", session.End(log, handler))
			r.Post("/handoff", session.Handoff(log, handler, notifier))
			r.Get("/{id}/messages", session.Messages(log, handler))
			r.Post("/{id}/messages", session.SendMsg(log, handler))
			r.Post("/{id}/metadata", session.Metadata(log, handler))
		})
		v1.Route("/presence", func(r chi.Router) {
			r.Post("/join", presence.Join(log, pres))
			r.Post("/update", presence.Update(log, pres))
			r.Post("/leave", presence.Leave(log, pres))
			r.Get("/online", presence.Online(log, pres))
		})
	})

	router.Get("/ws", func(w http.ResponseWriter, r *http.Request) {
		ws.ServeWs(hub, log, w, r)
	})
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.Handle("/metrics", promhttp.Handler())

	httpLog := slog.NewLogLogger(log.Handler(), slog.LevelError)
	server.httpServer = &http.Server{
		Handler:  router,
		ErrorLog: httpLog,
	}

	serverAddress := fmt.Sprintf("%s:%s", conf.Listen.BindIP, conf.Listen.Port)
	listener, err := net.Listen("tcp", serverAddress)
	if err != nil {
		return err
	}

	server.log.Info("starting api server", slog.String("address", serverAddress))

	return server.httpServer.Serve(listener)
}
