package middleware

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/yahyaabohashemstu/yukleme/internal/config"
)

// cachedResponse is the envelope stored in Redis for one cacheable
// response.  Body round-trips through JSON as base64.
type cachedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// recordingWriter tees the response body into a buffer, up to limit
// bytes, while still streaming it to the client.  Oversized responses
// are marked and never cached.
type recordingWriter struct {
	http.ResponseWriter
	status   int
	buf      bytes.Buffer
	limit    int64
	overflow bool
}

func (w *recordingWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *recordingWriter) Write(b []byte) (int, error) {
	if !w.overflow {
		if w.limit > 0 && int64(w.buf.Len()+len(b)) > w.limit {
			w.overflow = true
		} else {
			w.buf.Write(b)
		}
	}
	return w.ResponseWriter.Write(b)
}

// cacheKey derives a stable Redis key for the request.  The version
// history is the same for every authorized caller, so the identity of
// the requester deliberately does not participate in the key.
func cacheKey(cfg config.CacheConfig, c echo.Context) string {
	var tail string
	switch strings.ToLower(cfg.KeyStrategy) {
	case "route":
		tail = c.Path()
	case "method_route":
		tail = c.Request().Method + " " + c.Path()
	default: // route_query
		tail = c.Path() + "?" + c.Request().URL.RawQuery
	}
	// Path parameters live in the request URL, not c.Path(), so include
	// the concrete URI as well.
	tail += "|" + c.Request().RequestURI
	return fmt.Sprintf("%s:%x", cfg.Prefix, sha1.Sum([]byte(tail)))
}

// NewRedisCache caches successful responses of the configured methods in
// Redis for a short TTL.  Built for the version-history listing, which
// is append-only: a stale entry can only lack the newest snapshot, never
// show a wrong one.  With caching disabled or no Redis client the
// middleware is a pass-through.
func NewRedisCache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 15 * time.Second
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !cfg.Methods[strings.ToUpper(c.Request().Method)] {
				return next(c)
			}

			key := cacheKey(cfg, c)
			ctx := c.Request().Context()

			if raw, err := rdb.Get(ctx, key).Bytes(); err == nil {
				var hit cachedResponse
				if json.Unmarshal(raw, &hit) == nil && hit.Status != 0 {
					h := c.Response().Header()
					if hit.ContentType != "" {
						h.Set(echo.HeaderContentType, hit.ContentType)
					}
					h.Set("X-Cache", "HIT")
					c.Response().WriteHeader(hit.Status)
					_, werr := c.Response().Write(hit.Body)
					return werr
				}
			}

			rw := &recordingWriter{
				ResponseWriter: c.Response().Writer,
				status:         http.StatusOK,
				limit:          int64(cfg.MaxBodyBytes),
			}
			c.Response().Writer = rw
			c.Response().Header().Set("X-Cache", "MISS")

			if err := next(c); err != nil {
				return err
			}

			if rw.status == http.StatusOK && !rw.overflow {
				entry := cachedResponse{
					Status:      rw.status,
					ContentType: c.Response().Header().Get(echo.HeaderContentType),
					Body:        rw.buf.Bytes(),
				}
				if raw, err := json.Marshal(entry); err == nil {
					// The request context may already be done once the
					// response is written.
					_ = rdb.SetEx(context.Background(), key, raw, ttl).Err()
				}
			}
			return nil
		}
	}
}
