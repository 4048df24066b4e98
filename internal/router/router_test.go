package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"dog-breed-social/internal/adapters/auth/local"
	"dog-breed-social/internal/client/api"
	"dog-breed-social/internal/client/localcache"
	"dog-breed-social/internal/client/store"
	"dog-breed-social/internal/config"
	"dog-breed-social/internal/router"
)

// pngBytes arranca con la firma PNG para que el sniffing lo reconozca.
var pngBytes = append([]byte("\x89PNG\r\n\x1a\n"), []byte("fake image payload")...)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg, err := config.FromLookup(func(string) (string, bool) { return "", false })
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	provider, err := local.NewProvider(local.Options{Secret: "test", Cost: bcrypt.MinCost})
	if err != nil {
		t.Fatalf("provider: %v", err)
	}

	h, err := router.NewRouter(router.Options{Config: cfg, Auth: provider})
	if err != nil {
		t.Fatalf("NewRouter: %v", err)
	}
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	return ts
}

func TestHTTP_EndToEnd_IdentifyFeedAndLikes(t *testing.T) {
	ts := newTestServer(t)

	// 1) Registro + login
	{
		st, body := doReq(t, ts.URL, "POST", "/api/auth/register", "", map[string]any{
			"email":    "ana@example.com",
			"password": "secret1",
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 register, got %d body=%s", st, string(body))
		}
	}
	token := login(t, ts.URL, "ana@example.com", "secret1")
	other := registerAndLogin(t, ts.URL, "bob@example.com")

	// 2) Perfil: el nombre por defecto es la parte local del email
	{
		st, body := doReq(t, ts.URL, "GET", "/api/auth/me", token, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 me, got %d body=%s", st, string(body))
		}
		var me struct {
			Name string `json:"name"`
		}
		mustJSON(t, body, &me)
		if me.Name != "ana" {
			t.Fatalf("expected default name ana, got %q", me.Name)
		}
	}

	// 3) Analyze autenticado => record + post publicado
	st, body := analyze(t, ts.URL, token, "public")
	if st != http.StatusOK {
		t.Fatalf("expected 200 analyze, got %d body=%s", st, string(body))
	}
	var analyzed struct {
		Success bool `json:"success"`
		Data    struct {
			ID      string `json:"id"`
			PostID  string `json:"postId"`
			Results []struct {
				Breed      string  `json:"breed"`
				Percentage float64 `json:"percentage"`
			} `json:"results"`
		} `json:"data"`
	}
	mustJSON(t, body, &analyzed)
	if !analyzed.Success || analyzed.Data.PostID == "" || len(analyzed.Data.Results) == 0 {
		t.Fatalf("unexpected analyze response: %s", string(body))
	}
	sum := 0.0
	for _, r := range analyzed.Data.Results {
		sum += r.Percentage
	}
	if sum < 99.5 || sum > 100.5 {
		t.Fatalf("percentages must sum to 100, got %v", sum)
	}
	postID := analyzed.Data.PostID

	// 4) El feed anónimo lo muestra
	{
		st, body := doReq(t, ts.URL, "GET", "/api/posts?limit=5", "", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 feed, got %d body=%s", st, string(body))
		}
		var feed struct {
			Posts []struct {
				ID string `json:"id"`
			} `json:"posts"`
			HasMore bool `json:"hasMore"`
			Page    int  `json:"page"`
		}
		mustJSON(t, body, &feed)
		if len(feed.Posts) != 1 || feed.Posts[0].ID != postID || feed.HasMore || feed.Page != 1 {
			t.Fatalf("unexpected feed: %s", string(body))
		}
	}

	// 5) Like requiere auth; desired state es idempotente
	{
		st, _ := doReq(t, ts.URL, "POST", "/api/posts/"+postID+"/like", "", map[string]any{"liked": true})
		if st != http.StatusUnauthorized {
			t.Fatalf("expected 401 like without token, got %d", st)
		}
	}
	for i := 0; i < 2; i++ {
		st, body := doReq(t, ts.URL, "POST", "/api/posts/"+postID+"/like", other, map[string]any{"liked": true})
		if st != http.StatusOK {
			t.Fatalf("expected 200 like, got %d body=%s", st, string(body))
		}
		var out struct {
			Data struct {
				Liked      bool `json:"liked"`
				LikesCount int  `json:"likes_count"`
			} `json:"data"`
		}
		mustJSON(t, body, &out)
		if !out.Data.Liked || out.Data.LikesCount != 1 {
			t.Fatalf("expected liked with 1 like, got %s", string(body))
		}
	}

	// 6) Comentario + detalle con is_liked del caller
	{
		st, body := doReq(t, ts.URL, "POST", "/api/posts/"+postID+"/comments", other, map[string]any{"content": "<b>so cute</b>"})
		if st != http.StatusCreated {
			t.Fatalf("expected 201 comment, got %d body=%s", st, string(body))
		}
		var out struct {
			Data struct {
				Content string `json:"content"`
			} `json:"data"`
		}
		mustJSON(t, body, &out)
		if out.Data.Content != "so cute" {
			t.Fatalf("expected sanitized content, got %q", out.Data.Content)
		}
	}
	{
		st, body := doReq(t, ts.URL, "GET", "/api/posts/"+postID, other, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 post detail, got %d body=%s", st, string(body))
		}
		var p struct {
			LikesCount    int   `json:"likes_count"`
			CommentsCount int   `json:"comments_count"`
			IsLiked       *bool `json:"is_liked"`
		}
		mustJSON(t, body, &p)
		if p.LikesCount != 1 || p.CommentsCount != 1 || p.IsLiked == nil || !*p.IsLiked {
			t.Fatalf("unexpected post detail: %s", string(body))
		}
	}

	// 7) Historial del dueño
	{
		st, body := doReq(t, ts.URL, "GET", "/api/identify/history", token, nil)
		if st != http.StatusOK || !strings.Contains(string(body), analyzed.Data.ID) {
			t.Fatalf("expected history with record, got %d body=%s", st, string(body))
		}
		st, _ = doReq(t, ts.URL, "GET", "/api/identify/history", "", nil)
		if st != http.StatusUnauthorized {
			t.Fatalf("expected 401 history without token, got %d", st)
		}
	}
}

// El feed de un usuario con sesión trae su is_liked: recargar y alternar debe deshacer el like.
func TestHTTP_FeedCarriesCallerLikes_UnlikeAfterReload(t *testing.T) {
	ts := newTestServer(t)
	owner := registerAndLogin(t, ts.URL, "owner@example.com")
	if st, body := analyze(t, ts.URL, owner, "public"); st != http.StatusOK {
		t.Fatalf("analyze: %d body=%s", st, string(body))
	}
	if st, body := doReq(t, ts.URL, "POST", "/api/auth/register", "", map[string]any{"email": "fan@example.com", "password": "secret1"}); st != http.StatusOK {
		t.Fatalf("register: %d body=%s", st, string(body))
	}

	cache := localcache.New(localcache.NewMemoryBackend())
	client, err := api.New(ts.URL, 5*time.Second, cache)
	if err != nil {
		t.Fatalf("api.New: %v", err)
	}
	auth := store.NewAuth(client, cache)
	feed := store.NewPosts(client)
	ctx := context.Background()

	if !auth.Login(ctx, "fan@example.com", "secret1") {
		t.Fatalf("login: %s", auth.Snapshot().Error)
	}
	likeOf := func() (bool, int) {
		t.Helper()
		st := feed.Snapshot()
		if len(st.Posts) != 1 {
			t.Fatalf("expected 1 post in feed, got %d", len(st.Posts))
		}
		return st.Posts[0].IsLiked, st.Posts[0].LikesCount
	}

	if !feed.LoadFeed(ctx, api.PostQuery{}) {
		t.Fatalf("LoadFeed: %s", feed.Snapshot().Error)
	}
	postID := feed.Snapshot().Posts[0].ID

	if !feed.ToggleLike(ctx, postID) {
		t.Fatalf("like: %s", feed.Snapshot().Error)
	}
	if liked, n := likeOf(); !liked || n != 1 {
		t.Fatalf("after like: liked=%v count=%d", liked, n)
	}

	if !feed.LoadFeed(ctx, api.PostQuery{}) {
		t.Fatalf("reload: %s", feed.Snapshot().Error)
	}
	if liked, n := likeOf(); !liked || n != 1 {
		t.Fatalf("after reload: liked=%v count=%d", liked, n)
	}

	if !feed.ToggleLike(ctx, postID) {
		t.Fatalf("unlike: %s", feed.Snapshot().Error)
	}
	if liked, n := likeOf(); liked || n != 0 {
		t.Fatalf("after unlike: liked=%v count=%d", liked, n)
	}

	// anónimo: sin is_liked
	st, body := doReq(t, ts.URL, "GET", "/api/posts", "", nil)
	if st != http.StatusOK || strings.Contains(string(body), "is_liked") {
		t.Fatalf("anonymous feed must omit is_liked: %d %s", st, string(body))
	}
}

func TestHTTP_PrivateRecordsStayPrivate(t *testing.T) {
	ts := newTestServer(t)
	owner := registerAndLogin(t, ts.URL, "owner@example.com")
	stranger := registerAndLogin(t, ts.URL, "stranger@example.com")

	st, body := analyze(t, ts.URL, owner, "private")
	if st != http.StatusOK {
		t.Fatalf("expected 200 analyze, got %d body=%s", st, string(body))
	}
	var out struct {
		Data struct {
			ID     string  `json:"id"`
			PostID *string `json:"postId"`
		} `json:"data"`
	}
	mustJSON(t, body, &out)
	if out.Data.PostID != nil {
		t.Fatalf("private analysis must not create a post")
	}

	if st, _ := doReq(t, ts.URL, "GET", "/api/identify/"+out.Data.ID, owner, nil); st != http.StatusOK {
		t.Fatalf("owner should see private record, got %d", st)
	}
	if st, _ := doReq(t, ts.URL, "GET", "/api/identify/"+out.Data.ID, stranger, nil); st != http.StatusNotFound {
		t.Fatalf("stranger should get 404, got %d", st)
	}
}

func TestHTTP_ValidationNeverReachesBackend(t *testing.T) {
	ts := newTestServer(t)

	cases := []map[string]any{
		{"email": "", "password": ""},
		{"email": "not-an-email", "password": "secret1"},
		{"email": "a@example.com", "password": "123"},
	}
	for _, c := range cases {
		st, body := doReq(t, ts.URL, "POST", "/api/auth/register", "", c)
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400 for %v, got %d body=%s", c, st, string(body))
		}
	}

	// Email duplicado => 400 con mensaje
	registerAndLogin(t, ts.URL, "dup@example.com")
	st, body := doReq(t, ts.URL, "POST", "/api/auth/register", "", map[string]any{"email": "dup@example.com", "password": "secret1"})
	if st != http.StatusBadRequest || !strings.Contains(string(body), "already registered") {
		t.Fatalf("expected 400 duplicate, got %d body=%s", st, string(body))
	}

	if st, _ := doReq(t, ts.URL, "POST", "/api/auth/login", "", map[string]any{"email": "dup@example.com", "password": "wrong1"}); st != http.StatusUnauthorized {
		t.Fatalf("expected 401 bad credentials, got %d", st)
	}
}

func TestHTTP_BreedsCatalogue(t *testing.T) {
	ts := newTestServer(t)

	st, body := doReq(t, ts.URL, "GET", "/api/breeds?category=small&sort=name", "", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 breeds, got %d body=%s", st, string(body))
	}
	var list []struct {
		ID       int    `json:"id"`
		Name     string `json:"name"`
		Category string `json:"category"`
	}
	mustJSON(t, body, &list)
	if len(list) == 0 {
		t.Fatalf("expected small breeds")
	}
	for i, b := range list {
		if b.Category != "small" {
			t.Fatalf("unexpected category in %#v", b)
		}
		if i > 0 && list[i-1].Name > b.Name {
			t.Fatalf("expected name order, got %q before %q", list[i-1].Name, b.Name)
		}
	}

	if st, _ := doReq(t, ts.URL, "GET", "/api/breeds/999", "", nil); st != http.StatusNotFound {
		t.Fatalf("expected 404 unknown breed, got %d", st)
	}

	token := registerAndLogin(t, ts.URL, "editor@example.com")
	if st, _ := doReq(t, ts.URL, "PATCH", "/api/breeds/1/stats", token, map[string]any{"friendliness": 9}); st != http.StatusBadRequest {
		t.Fatalf("expected 400 out of range stat, got %d", st)
	}
	if st, body := doReq(t, ts.URL, "PATCH", "/api/breeds/1/stats", token, map[string]any{"friendliness": 4}); st != http.StatusOK {
		t.Fatalf("expected 200 stats update, got %d body=%s", st, string(body))
	}
}

func TestHTTP_HealthMetricsAndSwagger(t *testing.T) {
	ts := newTestServer(t)

	if st, body := doReq(t, ts.URL, "GET", "/health", "", nil); st != http.StatusOK || string(body) != "ok" {
		t.Fatalf("unexpected health: %d %s", st, string(body))
	}
	doReq(t, ts.URL, "GET", "/api/breeds", "", nil)
	if st, body := doReq(t, ts.URL, "GET", "/metrics", "", nil); st != http.StatusOK || !strings.Contains(string(body), "dogbreed_http_requests_total") {
		t.Fatalf("unexpected metrics: %d", st)
	}
	if st, _ := doReq(t, ts.URL, "GET", "/swagger/doc.json", "", nil); st != http.StatusOK {
		t.Fatalf("expected swagger doc, got %d", st)
	}
}

// ------------------------
// Helpers
// ------------------------

func registerAndLogin(t *testing.T, baseURL, email string) string {
	t.Helper()
	st, body := doReq(t, baseURL, "POST", "/api/auth/register", "", map[string]any{"email": email, "password": "secret1"})
	if st != http.StatusOK {
		t.Fatalf("register %s: %d body=%s", email, st, string(body))
	}
	return login(t, baseURL, email, "secret1")
}

func login(t *testing.T, baseURL, email, password string) string {
	t.Helper()
	st, body := doReq(t, baseURL, "POST", "/api/auth/login", "", map[string]any{"email": email, "password": password})
	if st != http.StatusOK {
		t.Fatalf("login %s: %d body=%s", email, st, string(body))
	}
	var out struct {
		Session struct {
			AccessToken string `json:"access_token"`
		} `json:"session"`
	}
	mustJSON(t, body, &out)
	if out.Session.AccessToken == "" {
		t.Fatalf("login without token: %s", string(body))
	}
	return out.Session.AccessToken
}

func analyze(t *testing.T, baseURL, token, visibility string) (int, []byte) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="image"; filename="dog.png"`)
	h.Set("Content-Type", "image/png")
	part, err := mw.CreatePart(h)
	if err != nil {
		t.Fatalf("multipart: %v", err)
	}
	_, _ = part.Write(pngBytes)
	_ = mw.WriteField("visibility", visibility)
	_ = mw.Close()

	req, err := http.NewRequest("POST", baseURL+"/api/identify/analyze", &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return send(t, req)
}

func doReq(t *testing.T, baseURL, method, path, token string, body any) (int, []byte) {
	t.Helper()

	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		r = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, r)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return send(t, req)
}

func send(t *testing.T, req *http.Request) (int, []byte) {
	t.Helper()
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	b, _ := io.ReadAll(res.Body)
	return res.StatusCode, b
}

func mustJSON(t *testing.T, b []byte, out any) {
	t.Helper()
	if err := json.Unmarshal(b, out); err != nil {
		t.Fatalf("invalid json: %v body=%s", err, string(b))
	}
}
