package auth

import (
	"context"
	"errors"
	"testing"

	"dog-breed-social/internal/domain/accounts"
	"dog-breed-social/internal/ports/backend"
)

type stubProvider struct {
	accounts.AuthProvider
	users map[string]accounts.Identity
}

func (s stubProvider) GetUser(ctx context.Context, token string) (accounts.Identity, error) {
	id, ok := s.users[token]
	if !ok {
		return accounts.Identity{}, backend.Unauthorized("invalid token")
	}
	return id, nil
}

func TestVerifier(t *testing.T) {
	v := NewVerifier(stubProvider{users: map[string]accounts.Identity{
		"tok": {ID: "u-1", Email: "a@example.com"},
	}})

	c, err := v.Verify(context.Background(), " tok ")
	if err != nil || c.UserID != "u-1" || c.Email != "a@example.com" || c.Token != "tok" {
		t.Fatalf("unexpected claims: %#v err=%v", c, err)
	}
	if _, err := v.Verify(context.Background(), ""); !errors.Is(err, ErrTokenEmpty) {
		t.Fatalf("expected ErrTokenEmpty, got %v", err)
	}
	if _, err := v.Verify(context.Background(), "nope"); !errors.Is(err, backend.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}
