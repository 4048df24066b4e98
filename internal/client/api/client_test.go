package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

func newTestClient(t *testing.T, token string, h http.HandlerFunc) *Client {
	t.Helper()
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	c, err := New(ts.URL, time.Second, staticToken(token))
	require.NoError(t, err)
	return c
}

func TestBearerAttachedOnlyWhenPresent(t *testing.T) {
	var got []string
	h := func(w http.ResponseWriter, r *http.Request) {
		got = append(got, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"id":"u-1","email":"a@example.com","name":"a"}`))
	}

	_, err := newTestClient(t, "tok", h).Me(context.Background())
	require.NoError(t, err)
	_, err = newTestClient(t, "", h).Me(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"Bearer tok", ""}, got)
}

func TestErrorCarriesServerMessage(t *testing.T) {
	c := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"invalid email or password"}`))
	})

	_, err := c.Login(context.Background(), "a@example.com", "nope")
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
	assert.Equal(t, "invalid email or password", MessageOf(err))
}

func TestErrorWithoutBodyFallsBack(t *testing.T) {
	c := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	_, err := c.ListBreeds(context.Background(), BreedQuery{})

	var ae *Error
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, http.StatusInternalServerError, ae.Status)
	assert.Equal(t, fallbackMessage, MessageOf(err))
}

func TestNoContentIsExplicit(t *testing.T) {
	c := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	_, err := c.GetPost(context.Background(), "p-1")
	assert.ErrorIs(t, err, ErrNoContent)
	assert.NoError(t, c.Logout(context.Background()))
}

func TestListBreeds_QueryOmitsEmptyValues(t *testing.T) {
	var raw string
	c := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		raw = r.URL.RawQuery
		_, _ = w.Write([]byte(`[{"id":2,"name":"Pembroke Welsh Corgi","category":"small"}]`))
	})

	list, err := c.ListBreeds(context.Background(), BreedQuery{Category: "small", Personality: []string{"playful", "smart"}})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "category=small&personality=playful%2Csmart", raw)
}

func TestLikePost_DesiredStateOrToggle(t *testing.T) {
	var bodies []string
	c := newTestClient(t, "tok", func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		bodies = append(bodies, string(b))
		_, _ = w.Write([]byte(`{"message":"liked","data":{"liked":true,"likes_count":3}}`))
	})

	yes := true
	res, err := c.LikePost(context.Background(), "p-1", &yes)
	require.NoError(t, err)
	assert.Equal(t, LikeResult{Liked: true, LikesCount: 3}, res)

	_, err = c.LikePost(context.Background(), "p-1", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{`{"liked":true}`, ""}, bodies)
}

func TestIDsAreEscapedInPaths(t *testing.T) {
	var paths []string
	c := newTestClient(t, "tok", func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.EscapedPath())
		_, _ = w.Write([]byte(`{"message":"ok","data":[]}`))
	})

	_, err := c.ListComments(context.Background(), "a/b?c")
	require.NoError(t, err)
	assert.Equal(t, []string{"/api/posts/a%2Fb%3Fc/comments"}, paths)
}

func TestAnalyze_SendsMultipart(t *testing.T) {
	c := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		f, _, err := r.FormFile("image")
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer f.Close()
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data": map[string]any{
				"id":        "r-1",
				"results":   []map[string]any{{"breed": "Beagle", "percentage": 100, "confidence": 0.9}},
				"isPublic":  r.FormValue("visibility") != "private",
				"imageUrl":  "memory://dog-images/anonymous/1.png",
				"createdAt": "2025-12-22T10:00:00Z",
				"userId":    nil,
			},
		})
	})

	rec, err := c.Analyze(context.Background(), Image{Name: "dog.png", ContentType: "image/png", Data: strings.NewReader("png")}, "private")
	require.NoError(t, err)
	assert.Equal(t, "r-1", rec.ID)
	assert.False(t, rec.IsPublic)
	assert.Nil(t, rec.UserID)
}

func TestNetworkErrorIsTyped(t *testing.T) {
	c, err := New("http://127.0.0.1:1", 200*time.Millisecond, nil)
	require.NoError(t, err)

	_, err = c.Me(context.Background())
	var ae *Error
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, 0, ae.Status)
	assert.Contains(t, MessageOf(err), "network")
}
