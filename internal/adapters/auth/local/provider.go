// Package local es un AuthProvider en proceso para cuando no hay backend hosted:
// hashes bcrypt en memoria y access tokens JWT HS256.
package local

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"dog-breed-social/internal/domain/accounts"
	"dog-breed-social/internal/ports/backend"
)

const DefaultTTL = time.Hour

type Options struct {
	Secret string
	TTL    time.Duration

	// Cost de bcrypt; 0 => bcrypt.DefaultCost.
	Cost int
}

type credential struct {
	identity accounts.Identity
	hash     []byte
}

type tokenClaims struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// Provider implementa accounts.AuthProvider.
type Provider struct {
	secret []byte
	ttl    time.Duration
	cost   int

	mu      sync.RWMutex
	byEmail map[string]credential
	revoked map[string]time.Time // jti -> exp

	now func() time.Time
}

func NewProvider(opts Options) (*Provider, error) {
	if strings.TrimSpace(opts.Secret) == "" {
		return nil, errors.New("local auth: empty secret")
	}
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	cost := opts.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &Provider{
		secret:  []byte(opts.Secret),
		ttl:     ttl,
		cost:    cost,
		byEmail: map[string]credential{},
		revoked: map[string]time.Time{},
		now:     time.Now,
	}, nil
}

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (p *Provider) SignUp(ctx context.Context, in accounts.SignUpInput) (accounts.Identity, error) {
	key := emailKey(in.Email)
	if key == "" || in.Password == "" {
		return accounts.Identity{}, backend.Invalid("email and password are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), p.cost)
	if err != nil {
		return accounts.Identity{}, backend.Wrap(backend.KindInvalid, "password cannot be used", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, exists := p.byEmail[key]; exists {
		return accounts.Identity{}, backend.Conflict("email already registered")
	}
	id := accounts.Identity{
		ID:        uuid.NewString(),
		Email:     strings.TrimSpace(in.Email),
		Name:      in.Name,
		CreatedAt: p.now().UTC(),
	}
	p.byEmail[key] = credential{identity: id, hash: hash}
	return id, nil
}

func (p *Provider) SignIn(ctx context.Context, email, password string) (accounts.Identity, accounts.Session, error) {
	p.mu.RLock()
	cred, ok := p.byEmail[emailKey(email)]
	p.mu.RUnlock()
	if !ok {
		return accounts.Identity{}, accounts.Session{}, backend.Unauthorized("invalid login credentials")
	}
	if bcrypt.CompareHashAndPassword(cred.hash, []byte(password)) != nil {
		return accounts.Identity{}, accounts.Session{}, backend.Unauthorized("invalid login credentials")
	}

	now := p.now().UTC()
	exp := now.Add(p.ttl)
	claims := tokenClaims{
		Email: cred.identity.Email,
		Name:  cred.identity.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   cred.identity.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
	if err != nil {
		return accounts.Identity{}, accounts.Session{}, backend.Wrap(backend.KindInternal, "sign in failed", err)
	}

	return cred.identity, accounts.Session{
		AccessToken: signed,
		TokenType:   "bearer",
		ExpiresIn:   int(p.ttl / time.Second),
		ExpiresAt:   exp.Truncate(time.Second),
	}, nil
}

// SignOut revoca el token hasta su expiración.
func (p *Provider) SignOut(ctx context.Context, token string) error {
	c, err := p.parse(token)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.revoked[c.ID] = c.ExpiresAt.Time
	p.pruneLocked()
	return nil
}

func (p *Provider) GetUser(ctx context.Context, token string) (accounts.Identity, error) {
	c, err := p.parse(token)
	if err != nil {
		return accounts.Identity{}, err
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if _, gone := p.revoked[c.ID]; gone {
		return accounts.Identity{}, backend.Unauthorized("session has been revoked")
	}
	cred, ok := p.byEmail[emailKey(c.Email)]
	if !ok || cred.identity.ID != c.Subject {
		return accounts.Identity{}, backend.Unauthorized("invalid token")
	}
	return cred.identity, nil
}

func (p *Provider) parse(token string) (tokenClaims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return tokenClaims{}, backend.Unauthorized("missing token")
	}

	var c tokenClaims
	_, err := jwt.ParseWithClaims(token, &c, func(t *jwt.Token) (any, error) {
		return p.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(p.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return tokenClaims{}, backend.Wrap(backend.KindUnauthorized, "session expired", err)
		}
		return tokenClaims{}, backend.Wrap(backend.KindUnauthorized, "invalid token", err)
	}
	if c.ID == "" || c.Subject == "" {
		return tokenClaims{}, backend.Unauthorized("invalid token")
	}
	return c, nil
}

// pruneLocked descarta revocaciones ya vencidas. Requiere p.mu tomado.
func (p *Provider) pruneLocked() {
	now := p.now()
	for jti, exp := range p.revoked {
		if exp.Before(now) {
			delete(p.revoked, jti)
		}
	}
}
