package hosted

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"dog-breed-social/internal/ports/backend"
)

func TestUpload_HeadersAndPublicURL(t *testing.T) {
	var gotPath, gotUpsert, gotCache, gotType, gotBody string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUpsert = r.Header.Get("x-upsert")
		gotCache = r.Header.Get("Cache-Control")
		gotType = r.Header.Get("Content-Type")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		_, _ = w.Write([]byte(`{"Key":"dog-images/u-1/1-a.png"}`))
	}))
	defer ts.Close()

	s, err := NewStorage(Config{BaseURL: ts.URL, APIKey: "k"})
	if err != nil {
		t.Fatalf("NewStorage: %v", err)
	}

	url, err := s.Upload(context.Background(), "dog-images", "u-1/1-a.png", "image/png", strings.NewReader("png"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if gotPath != "/storage/v1/object/dog-images/u-1/1-a.png" || gotUpsert != "false" || gotCache != "max-age=3600" || gotType != "image/png" || gotBody != "png" {
		t.Fatalf("unexpected request: path=%q upsert=%q cache=%q type=%q body=%q", gotPath, gotUpsert, gotCache, gotType, gotBody)
	}
	if url != ts.URL+"/storage/v1/object/public/dog-images/u-1/1-a.png" {
		t.Fatalf("unexpected public url %q", url)
	}
}

func TestUpload_MapsStatuses(t *testing.T) {
	cases := map[int]*backend.Error{
		http.StatusConflict:            backend.ErrConflict,
		http.StatusBadRequest:          backend.ErrInvalid,
		http.StatusForbidden:           backend.ErrUnauthorized,
		http.StatusInternalServerError: backend.ErrUnavailable,
	}
	for status, want := range cases {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))
		s, _ := NewStorage(Config{BaseURL: ts.URL, APIKey: "k"})
		_, err := s.Upload(context.Background(), "b", "p.png", "image/png", strings.NewReader("x"))
		ts.Close()
		if !errors.Is(err, want) {
			t.Fatalf("status %d: expected %v, got %v", status, want.Kind, err)
		}
	}
}
