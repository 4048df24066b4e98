// Package auth adapta cualquier AuthProvider al verificador que usa el middleware.
package auth

import (
	"context"
	"errors"
	"strings"

	"dog-breed-social/internal/domain/accounts"
	portauth "dog-breed-social/internal/ports/auth"
)

var ErrTokenEmpty = errors.New("token is empty")

// Verifier implementa portauth.AuthVerifier con AuthProvider.GetUser.
type Verifier struct {
	provider accounts.AuthProvider
}

func NewVerifier(p accounts.AuthProvider) *Verifier {
	return &Verifier{provider: p}
}

func (v *Verifier) Verify(ctx context.Context, token string) (portauth.Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return portauth.Claims{}, ErrTokenEmpty
	}

	id, err := v.provider.GetUser(ctx, token)
	if err != nil {
		return portauth.Claims{}, err
	}
	if strings.TrimSpace(id.ID) == "" {
		return portauth.Claims{}, errors.New("auth: identity missing user id")
	}

	return portauth.Claims{
		UserID: strings.TrimSpace(id.ID),
		Email:  strings.TrimSpace(id.Email),
		Token:  token,
	}, nil
}
