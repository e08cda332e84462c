package middleware

import (
	"bytes"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/gearguard/maintenance-api/internal/config"
)

// cachedResponse is the envelope stored in Redis: enough to replay a
// successful JSON response without re-running the handler.
type cachedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// bodyCapture duplicates the response body into a buffer while
// forwarding it to the client, up to a size limit.
type bodyCapture struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
	limit  int
}

func (w *bodyCapture) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *bodyCapture) Write(b []byte) (int, error) {
	if w.buf.Len()+len(b) <= w.limit {
		w.buf.Write(b)
	}
	return w.ResponseWriter.Write(b)
}

// CacheGET returns a response cache for GET routes. Keys are derived
// from route and query only, so this middleware must be mounted ONLY on
// routes whose response is identical for every viewer; request listings
// are visibility-scoped and must never go through it. Only 200
// responses within the size limit are stored. Redis errors fall back to
// executing the handler.
func CacheGET(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error { return next(c) }
		}
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Method != http.MethodGet {
				return next(c)
			}
			ctx := c.Request().Context()
			sum := sha1.Sum([]byte(c.Request().URL.Path + "?" + c.Request().URL.RawQuery))
			key := fmt.Sprintf("%s:%x", cfg.Prefix, sum)

			if raw, err := rdb.Get(ctx, key).Bytes(); err == nil {
				var cached cachedResponse
				if json.Unmarshal(raw, &cached) == nil {
					return c.Blob(cached.Status, cached.ContentType, cached.Body)
				}
			}

			capture := &bodyCapture{
				ResponseWriter: c.Response().Writer,
				status:         http.StatusOK,
				limit:          cfg.MaxBodyBytes,
			}
			c.Response().Writer = capture
			if err := next(c); err != nil {
				return err
			}
			if capture.status == http.StatusOK && capture.buf.Len() > 0 {
				envelope, err := json.Marshal(cachedResponse{
					Status:      capture.status,
					ContentType: c.Response().Header().Get(echo.HeaderContentType),
					Body:        capture.buf.Bytes(),
				})
				if err == nil {
					rdb.Set(ctx, key, envelope, cfg.TTL)
				}
			}
			return nil
		}
	}
}
