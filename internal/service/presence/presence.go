package presence

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"NovaChat/entity"
	"NovaChat/internal/config"
	"NovaChat/internal/lib/sl"
)

const keyPrefix = "presence:"

// Service announces visitor and agent presence on a shared Redis-backed
// channel. Entries expire on their own; every operation is best-effort.
type Service struct {
	rdb *redis.Client
	ttl time.Duration
	log *slog.Logger
}

// NewService connects to Redis, or returns nil when presence is disabled.
func NewService(conf *config.Config, logger *slog.Logger) (*Service, error) {
	if !conf.Redis.Enabled {
		return nil, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         conf.Redis.Addr,
		Password:     conf.Redis.Password,
		DB:           conf.Redis.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	ttl := time.Duration(conf.Widget.PresenceTTLSec) * time.Second
	if ttl <= 0 {
		ttl = 90 * time.Second
	}

	return &Service{
		rdb: rdb,
		ttl: ttl,
		log: logger.With(sl.Module("presence")),
	}, nil
}

// Client exposes the underlying Redis client for subsystems sharing the
// connection (the edge rate limiter).
func (s *Service) Client() *redis.Client {
	if s == nil {
		return nil
	}
	return s.rdb
}

// Join announces a participant on the presence channel.
func (s *Service) Join(ctx context.Context, visitorID string, info entity.PresenceInfo) error {
	if s == nil {
		return nil
	}

	key := keyPrefix + visitorID
	fields := map[string]any{
		"name":         info.Name,
		"role":         info.Role,
		"current_page": info.CurrentPage,
		"is_typing":    info.IsTyping,
		"updated_at":   time.Now().Format(time.RFC3339),
	}

	pipe := s.rdb.TxPipeline()
	pipe.HSet(ctx, key, fields)
	pipe.Expire(ctx, key, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("presence join: %w", err)
	}

	return nil
}

// Update refreshes the typing flag and the entry's TTL.
func (s *Service) Update(ctx context.Context, visitorID string, isTyping bool) error {
	if s == nil {
		return nil
	}

	key := keyPrefix + visitorID
	pipe := s.rdb.TxPipeline()
	pipe.HSet(ctx, key, "is_typing", isTyping, "updated_at", time.Now().Format(time.RFC3339))
	pipe.Expire(ctx, key, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("presence update: %w", err)
	}

	return nil
}

// Leave removes the participant's entry immediately.
func (s *Service) Leave(ctx context.Context, visitorID string) error {
	if s == nil {
		return nil
	}

	if err := s.rdb.Del(ctx, keyPrefix+visitorID).Err(); err != nil {
		return fmt.Errorf("presence leave: %w", err)
	}

	return nil
}

// ListOnline returns the visitor ids currently present. Used by the agent
// console, not by widgets.
func (s *Service) ListOnline(ctx context.Context) ([]string, error) {
	if s == nil {
		return nil, nil
	}

	var (
		ids    []string
		cursor uint64
	)
	for {
		keys, next, err := s.rdb.Scan(ctx, cursor, keyPrefix+"*", 100).Result()
		if err != nil {
			return nil, fmt.Errorf("presence scan: %w", err)
		}
		for _, key := range keys {
			ids = append(ids, key[len(keyPrefix):])
		}
		if next == 0 {
			break
		}
		cursor = next
	}

	return ids, nil
}
