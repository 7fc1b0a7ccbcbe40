package ratelimit

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"NovaChat/internal/lib/api/response"
	"NovaChat/internal/lib/sl"
	"NovaChat/internal/metrics"

	"github.com/go-chi/render"
	"github.com/redis/go-redis/v9"
)

// Limiter enforces a fixed-window per-IP request cap backed by redis.
// With no redis client it passes every request through.
type Limiter struct {
	rdb       *redis.Client
	perMinute int
	log       *slog.Logger
}

func New(rdb *redis.Client, perMinute int, log *slog.Logger) *Limiter {
	return &Limiter{
		rdb:       rdb,
		perMinute: perMinute,
		log:       log,
	}
}

func (l *Limiter) Handler(next http.Handler) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		if l == nil || l.rdb == nil || l.perMinute <= 0 {
			next.ServeHTTP(w, r)
			return
		}

		key := fmt.Sprintf("ratelimit:%s:%d", clientIP(r), time.Now().Unix()/60)

		count, err := l.rdb.Incr(r.Context(), key).Result()
		if err != nil {
			l.log.Warn("rate limiter unavailable", sl.Err(err))
			next.ServeHTTP(w, r)
			return
		}
		if count == 1 {
			l.rdb.Expire(r.Context(), key, time.Minute)
		}

		if count > int64(l.perMinute) {
			metrics.RateLimitHits.Inc()
			w.Header().Set("Retry-After", "60")
			w.WriteHeader(http.StatusTooManyRequests)
			render.JSON(w, r, response.Error("too many requests"))
			return
		}

		next.ServeHTTP(w, r)
	}
	return http.HandlerFunc(fn)
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return fwd
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
