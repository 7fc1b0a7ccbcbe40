package main

import (
	"NovaChat/internal/config"
	repository "NovaChat/internal/database"
	"NovaChat/internal/events"
	"NovaChat/internal/http-server/api"
	"NovaChat/internal/lib/logger"
	"NovaChat/internal/lib/sl"
	"NovaChat/internal/realtime"
	"NovaChat/internal/service/notify"
	"NovaChat/internal/service/presence"
	"NovaChat/internal/ws"
	"context"
	"flag"
	"log/slog"
	"strings"
	"time"
)

func main() {

	configPath := flag.String("conf", "config.yml", "path to config file")
	logPath := flag.String("log", "/var/log/", "path to log file directory")
	flag.Parse()

	conf := config.MustLoad(*configPath)
	lg := logger.SetupLogger(conf.Env, *logPath)

	lg.Info("starting novachat", slog.String("config", *configPath), slog.String("env", conf.Env))
	lg.Debug("debug messages enabled")

	notifier, err := notify.NewNotifier(conf, lg)
	if err != nil {
		lg.With(
			sl.Err(err),
		).Error("telegram notifier")
	}
	if notifier != nil {
		lg.With(
			slog.String("bot_name", conf.Telegram.BotName),
			sl.Secret("api_key", conf.Telegram.ApiKey),
		).Info("telegram notifier initialized")
	}

	db, err := repository.NewMongoClient(conf, lg)
	if err != nil {
		lg.With(
			sl.Err(err),
		).Error("mongo client")
	}
	if db == nil {
		lg.Error("storage is required, enable mongo in config")
		return
	}
	lg.With(
		slog.String("host", conf.Mongo.Host),
		slog.String("port", conf.Mongo.Port),
		slog.String("user", conf.Mongo.User),
		slog.String("database", conf.Mongo.Database),
	).Info("mongo client initialized")

	presenceService, err := presence.NewService(conf, lg)
	if err != nil {
		lg.With(
			sl.Err(err),
		).Error("presence service")
	}
	if presenceService != nil {
		lg.With(
			slog.String("addr", conf.Redis.Addr),
		).Info("presence service initialized")
	}

	producer, err := events.NewProducer(conf, lg)
	if err != nil {
		lg.With(
			sl.Err(err),
		).Error("event producer")
	}
	if producer != nil {
		lg.With(
			slog.String("brokers", strings.Join(conf.Kafka.Brokers, ",")),
			slog.String("topic", conf.Kafka.Topic),
		).Info("event producer initialized")
	}

	hub := ws.NewHub(lg)
	go hub.Run()

	svc := realtime.NewService(db, lg)
	svc.SetHub(hub)
	svc.SetProducer(producer)

	janitorInterval := time.Duration(conf.Widget.JanitorMinutes) * time.Minute
	sessionMaxAge := time.Duration(conf.Mongo.ExpiredDays) * 24 * time.Hour
	go svc.RunJanitor(context.Background(), janitorInterval, sessionMaxAge)

	// *** blocking start with http server ***
	err = api.New(conf, lg, svc, db, presenceService, notifier, hub, presenceService.Client())
	if err != nil {
		lg.Error("server start", sl.Err(err))
		return
	}
	lg.Error("service stopped")
}
