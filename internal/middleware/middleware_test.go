package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"dog-breed-social/internal/ports/auth"
)

type memCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	deletes int
}

func newMemCache() *memCache { return &memCache{entries: map[string][]byte{}} }

func (m *memCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.entries[key]
	return v, ok, nil
}

func (m *memCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = value
	return nil
}

func (m *memCache) DeletePrefix(ctx context.Context, prefix string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k := range m.entries {
		if strings.HasPrefix(k, prefix+":") {
			delete(m.entries, k)
		}
	}
	m.deletes++
	return nil
}

// ----- Tests -----

func TestCache_HitMissAndInvalidate(t *testing.T) {
	calls := 0
	h := Cache(newMemCache(), "breeds", time.Minute, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":1}]`))
	}))

	get := func(target string) *httptest.ResponseRecorder {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, target, nil))
		return rr
	}

	if rr := get("/api/breeds?category=small"); rr.Header().Get("X-Cache") != "MISS" {
		t.Fatalf("expected MISS, got %q", rr.Header().Get("X-Cache"))
	}
	rr := get("/api/breeds?category=small")
	if rr.Header().Get("X-Cache") != "HIT" || rr.Body.String() != `[{"id":1}]` || rr.Header().Get("Content-Type") != "application/json" {
		t.Fatalf("expected HIT with same body, got %q %q", rr.Header().Get("X-Cache"), rr.Body.String())
	}
	if calls != 1 {
		t.Fatalf("expected 1 upstream call, got %d", calls)
	}

	patch := httptest.NewRecorder()
	h.ServeHTTP(patch, httptest.NewRequest(http.MethodPatch, "/api/breeds/1/stats", nil))
	if rr := get("/api/breeds?category=small"); rr.Header().Get("X-Cache") != "MISS" {
		t.Fatalf("expected MISS after invalidation")
	}
}

func TestCache_SkipsAuthenticatedAndErrors(t *testing.T) {
	c := newMemCache()
	h := Cache(c, "breeds", time.Minute, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer tok")
	h.ServeHTTP(httptest.NewRecorder(), req)
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/missing", nil))

	if len(c.entries) != 0 {
		t.Fatalf("expected nothing cached, got %d entries", len(c.entries))
	}
}

func TestRateLimiter_PerIP(t *testing.T) {
	rl := NewRateLimiter(2)
	base := time.Date(2025, 12, 22, 10, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return base }

	h := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	do := func(addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.RemoteAddr = addr
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		return rr.Code
	}

	if do("1.1.1.1:1000") != 200 || do("1.1.1.1:1001") != 200 {
		t.Fatalf("burst should pass")
	}
	if code := do("1.1.1.1:1002"); code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", code)
	}
	if do("2.2.2.2:1000") != 200 {
		t.Fatalf("other IPs have their own bucket")
	}

	rl.now = func() time.Time { return base.Add(time.Minute) }
	if do("1.1.1.1:1003") != 200 {
		t.Fatalf("tokens should refill")
	}
}

type tokenVerifier map[string]string

func (v tokenVerifier) Verify(ctx context.Context, token string) (auth.Claims, error) {
	uid, ok := v[token]
	if !ok {
		return auth.Claims{}, errors.New("invalid token")
	}
	return auth.Claims{UserID: uid}, nil
}

func TestAuthContext_OptionalAuth(t *testing.T) {
	var (
		seen  string
		token string
	)
	serve := func(h http.Handler, header map[string]string) {
		t.Helper()
		seen, token = "", ""
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		for k, v := range header {
			req.Header.Set(k, v)
		}
		h.ServeHTTP(httptest.NewRecorder(), req)
	}
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = UserID(r.Context())
		if c, ok := GetClaims(r.Context()); ok {
			token = c.Token
		}
	})
	h := AuthContext(tokenVerifier{"tok-1": "u-1"})(next)

	serve(h, map[string]string{"Authorization": "Bearer tok-1"})
	if seen != "u-1" || token != "tok-1" {
		t.Fatalf("expected u-1 with its token, got %q %q", seen, token)
	}

	serve(h, map[string]string{"Authorization": "Bearer expired"})
	if seen != "" {
		t.Fatalf("invalid token must continue anonymous, got %q", seen)
	}

	serve(h, nil)
	if seen != "" {
		t.Fatalf("expected anonymous, got %q", seen)
	}

	// sin verifier no hay forma de autenticarse, ni por headers.
	serve(AuthContext(nil)(next), map[string]string{"Authorization": "Bearer tok-1", "X-Debug-User-ID": "u-1"})
	if seen != "" {
		t.Fatalf("nil verifier must be anonymous, got %q", seen)
	}
}
