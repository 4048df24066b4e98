package middleware

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"dog-breed-social/internal/platform/logger"
)

// ResponseCache guarda respuestas serializadas (adapters/cache/redis).
type ResponseCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	DeletePrefix(ctx context.Context, prefix string) error
}

const (
	DefaultCacheTTL = 30 * time.Second
	maxCachedBody   = 1 << 20
)

type cachedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

type captureWriter struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
}

func (cw *captureWriter) WriteHeader(code int) {
	cw.status = code
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *captureWriter) Write(b []byte) (int, error) {
	if cw.buf.Len() <= maxCachedBody {
		cw.buf.Write(b)
	}
	return cw.ResponseWriter.Write(b)
}

// Cache cachea GET anónimos con status 200 bajo prefix; un request mutante con 2xx
// invalida todo el prefix. cache == nil => passthrough.
func Cache(cache ResponseCache, prefix string, ttl time.Duration, log logger.Logger) func(http.Handler) http.Handler {
	if cache == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if log == nil {
		log = logger.NewNop()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if r.Method != http.MethodGet && r.Method != http.MethodHead {
				cw := &captureWriter{ResponseWriter: w, status: http.StatusOK}
				next.ServeHTTP(cw, r)
				if cw.status >= 200 && cw.status < 300 {
					if err := cache.DeletePrefix(context.WithoutCancel(ctx), prefix); err != nil {
						log.Warn("cache invalidation failed", map[string]any{"prefix": prefix, "err": err})
					}
				}
				return
			}

			// Las respuestas con auth pueden depender del caller.
			if BearerToken(r) != "" {
				next.ServeHTTP(w, r)
				return
			}

			key := cacheKey(prefix, r)
			if raw, ok, err := cache.Get(ctx, key); err == nil && ok {
				var cr cachedResponse
				if json.Unmarshal(raw, &cr) == nil {
					if cr.ContentType != "" {
						w.Header().Set("Content-Type", cr.ContentType)
					}
					w.Header().Set("X-Cache", "HIT")
					w.WriteHeader(cr.Status)
					_, _ = w.Write(cr.Body)
					return
				}
			} else if err != nil {
				log.Warn("cache read failed", map[string]any{"key": key, "err": err})
			}

			w.Header().Set("X-Cache", "MISS")
			cw := &captureWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(cw, r)

			if cw.status != http.StatusOK || cw.buf.Len() > maxCachedBody {
				return
			}
			raw, err := json.Marshal(cachedResponse{
				Status:      cw.status,
				ContentType: w.Header().Get("Content-Type"),
				Body:        cw.buf.Bytes(),
			})
			if err != nil {
				return
			}
			if err := cache.Set(context.WithoutCancel(ctx), key, raw, ttl); err != nil {
				log.Warn("cache write failed", map[string]any{"key": key, "err": err})
			}
		})
	}
}

func cacheKey(prefix string, r *http.Request) string {
	sum := sha1.Sum([]byte(r.URL.Path + "?" + r.URL.Query().Encode()))
	return fmt.Sprintf("%s:%x", prefix, sum[:])
}
