// Package hosted sube imágenes al storage del backend hosted (/storage/v1).
package hosted

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"dog-breed-social/internal/platform/httpclient"
	"dog-breed-social/internal/ports/backend"
)

const cacheControl = "3600"

type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

type Storage struct {
	baseURL string
	apiKey  string
	http    *httpclient.Client
}

func NewStorage(cfg Config) (*Storage, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" || strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("hosted storage not configured")
	}
	c, err := httpclient.NewWithBaseURL(base, cfg.Timeout)
	if err != nil {
		return nil, err
	}
	return &Storage{baseURL: base, apiKey: strings.TrimSpace(cfg.APIKey), http: c}, nil
}

// Upload manda el binario crudo; sin upsert un path repetido es Conflict.
func (s *Storage) Upload(ctx context.Context, bucket, path, contentType string, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", backend.Wrap(backend.KindInvalid, "image could not be read", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.objectURL("/storage/v1/object/", bucket, path), bytes.NewReader(data))
	if err != nil {
		return "", backend.Wrap(backend.KindInternal, "image upload failed", err)
	}
	req.Header.Set("apikey", s.apiKey)
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Cache-Control", "max-age="+cacheControl)
	req.Header.Set("x-upsert", "false")

	resp, err := s.http.HTTP.Do(req)
	if err != nil {
		return "", backend.Wrap(backend.KindUnavailable, "image upload failed", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		he := &httpclient.HTTPError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
		switch resp.StatusCode {
		case http.StatusConflict:
			return "", backend.Wrap(backend.KindConflict, "object already exists", he)
		case http.StatusBadRequest, http.StatusRequestEntityTooLarge, http.StatusUnsupportedMediaType:
			msg := he.Message()
			if msg == "" {
				msg = "image rejected by storage"
			}
			return "", backend.Wrap(backend.KindInvalid, msg, he)
		case http.StatusUnauthorized, http.StatusForbidden:
			return "", backend.Wrap(backend.KindUnauthorized, "not allowed to upload", he)
		default:
			return "", backend.Wrap(backend.KindUnavailable, "image upload failed", he)
		}
	}
	return s.PublicURL(bucket, path), nil
}

func (s *Storage) PublicURL(bucket, path string) string {
	return s.objectURL("/storage/v1/object/public/", bucket, path)
}

func (s *Storage) objectURL(prefix, bucket, path string) string {
	segs := strings.Split(strings.Trim(path, "/"), "/")
	for i, seg := range segs {
		segs[i] = url.PathEscape(seg)
	}
	return s.baseURL + prefix + url.PathEscape(strings.Trim(bucket, "/")) + "/" + strings.Join(segs, "/")
}
