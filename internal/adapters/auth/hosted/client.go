// Package hosted habla con el servicio de auth hosted (API compatible con GoTrue).
package hosted

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"dog-breed-social/internal/domain/accounts"
	"dog-breed-social/internal/platform/httpclient"
	"dog-breed-social/internal/ports/backend"
)

var ErrNotConfigured = errors.New("hosted auth not configured")

// Config del cliente. BaseURL y APIKey vienen de BACKEND_URL / BACKEND_API_KEY.
type Config struct {
	BaseURL string
	APIKey  string

	// Opcional: header de la API key. Vacío => "apikey".
	APIKeyHeader string

	Timeout time.Duration
}

// Provider implementa accounts.AuthProvider contra /auth/v1.
type Provider struct {
	http         *httpclient.Client
	apiKey       string
	apiKeyHeader string

	now func() time.Time
}

func NewProvider(cfg Config) (*Provider, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" || strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrNotConfigured
	}
	h := strings.TrimSpace(cfg.APIKeyHeader)
	if h == "" {
		h = "apikey"
	}
	c, err := httpclient.NewWithBaseURL(strings.TrimSpace(cfg.BaseURL), cfg.Timeout)
	if err != nil {
		return nil, err
	}
	return &Provider{
		http:         c,
		apiKey:       strings.TrimSpace(cfg.APIKey),
		apiKeyHeader: h,
		now:          time.Now,
	}, nil
}

type userDTO struct {
	ID           string         `json:"id"`
	Email        string         `json:"email"`
	CreatedAt    time.Time      `json:"created_at"`
	UserMetadata map[string]any `json:"user_metadata"`
}

func (u userDTO) identity() accounts.Identity {
	name, _ := u.UserMetadata["name"].(string)
	return accounts.Identity{
		ID:        strings.TrimSpace(u.ID),
		Email:     strings.TrimSpace(u.Email),
		Name:      strings.TrimSpace(name),
		CreatedAt: u.CreatedAt,
	}
}

type sessionDTO struct {
	AccessToken  string  `json:"access_token"`
	RefreshToken string  `json:"refresh_token"`
	TokenType    string  `json:"token_type"`
	ExpiresIn    int     `json:"expires_in"`
	ExpiresAt    int64   `json:"expires_at"`
	User         userDTO `json:"user"`
}

func (p *Provider) SignUp(ctx context.Context, in accounts.SignUpInput) (accounts.Identity, error) {
	body := map[string]any{
		"email":    in.Email,
		"password": in.Password,
		"data":     map[string]string{"name": in.Name},
	}
	resp, err := p.http.Do(ctx, httpclient.Request{
		Method:  http.MethodPost,
		Path:    "/auth/v1/signup",
		Headers: p.headers(""),
		JSON:    body,
	})
	if err != nil {
		return accounts.Identity{}, mapErr(err, "sign up failed")
	}

	// Con confirmación de email activa la respuesta es el user; sin ella, una sesión con user.
	var out struct {
		userDTO
		User *userDTO `json:"user"`
	}
	if err := resp.Decode(&out); err != nil {
		return accounts.Identity{}, backend.Wrap(backend.KindUnavailable, "sign up failed", err)
	}
	u := out.userDTO
	if out.User != nil && out.User.ID != "" {
		u = *out.User
	}
	id := u.identity()
	if id.ID == "" {
		return accounts.Identity{}, backend.New(backend.KindUnavailable, "sign up failed")
	}
	if id.Name == "" {
		id.Name = in.Name
	}
	return id, nil
}

func (p *Provider) SignIn(ctx context.Context, email, password string) (accounts.Identity, accounts.Session, error) {
	resp, err := p.http.Do(ctx, httpclient.Request{
		Method:  http.MethodPost,
		Path:    "/auth/v1/token",
		Query:   map[string]string{"grant_type": "password"},
		Headers: p.headers(""),
		JSON:    map[string]string{"email": email, "password": password},
	})
	if err != nil {
		return accounts.Identity{}, accounts.Session{}, mapErr(err, "sign in failed")
	}

	var out sessionDTO
	if err := resp.Decode(&out); err != nil {
		return accounts.Identity{}, accounts.Session{}, backend.Wrap(backend.KindUnavailable, "sign in failed", err)
	}
	if out.AccessToken == "" {
		return accounts.Identity{}, accounts.Session{}, backend.New(backend.KindUnavailable, "sign in failed")
	}

	s := accounts.Session{
		AccessToken:  out.AccessToken,
		RefreshToken: out.RefreshToken,
		TokenType:    out.TokenType,
		ExpiresIn:    out.ExpiresIn,
	}
	switch {
	case out.ExpiresAt > 0:
		s.ExpiresAt = time.Unix(out.ExpiresAt, 0).UTC()
	case out.ExpiresIn > 0:
		s.ExpiresAt = p.now().UTC().Add(time.Duration(out.ExpiresIn) * time.Second)
	}
	return out.User.identity(), s, nil
}

func (p *Provider) SignOut(ctx context.Context, token string) error {
	_, err := p.http.Do(ctx, httpclient.Request{
		Method:  http.MethodPost,
		Path:    "/auth/v1/logout",
		Headers: p.headers(token),
	})
	if err != nil {
		return mapErr(err, "sign out failed")
	}
	return nil
}

func (p *Provider) GetUser(ctx context.Context, token string) (accounts.Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return accounts.Identity{}, backend.Unauthorized("missing token")
	}
	resp, err := p.http.Do(ctx, httpclient.Request{
		Path:    "/auth/v1/user",
		Headers: p.headers(token),
	})
	if err != nil {
		return accounts.Identity{}, mapErr(err, "get user failed")
	}
	var out userDTO
	if err := resp.Decode(&out); err != nil {
		return accounts.Identity{}, backend.Wrap(backend.KindUnavailable, "get user failed", err)
	}
	id := out.identity()
	if id.ID == "" {
		return accounts.Identity{}, backend.Unauthorized("invalid token")
	}
	return id, nil
}

func (p *Provider) headers(token string) map[string]string {
	h := map[string]string{p.apiKeyHeader: p.apiKey}
	if token != "" {
		h["Authorization"] = "Bearer " + token
	}
	return h
}

// mapErr traduce la respuesta del servicio a *backend.Error.
func mapErr(err error, fallback string) error {
	var he *httpclient.HTTPError
	if !errors.As(err, &he) {
		return backend.Wrap(backend.KindUnavailable, fallback, err)
	}
	msg := he.Message()
	if msg == "" {
		msg = fallback
	}
	switch he.StatusCode {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		if strings.Contains(strings.ToLower(msg), "registered") {
			return backend.Wrap(backend.KindConflict, msg, err)
		}
		return backend.Wrap(backend.KindInvalid, msg, err)
	case http.StatusUnauthorized, http.StatusForbidden:
		return backend.Wrap(backend.KindUnauthorized, msg, err)
	case http.StatusNotFound:
		return backend.Wrap(backend.KindNotFound, msg, err)
	default:
		return backend.Wrap(backend.KindUnavailable, fallback, err)
	}
}
