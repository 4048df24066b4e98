package memory

import (
	"context"
	"strings"

	"dog-breed-social/internal/domain/accounts"
	"dog-breed-social/internal/ports/backend"
)

type profileRepo struct {
	s *Store
}

func (r *profileRepo) Create(ctx context.Context, p accounts.Profile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if strings.TrimSpace(p.ID) == "" {
		return backend.Invalid("profile id required")
	}
	if _, exists := r.s.profiles[p.ID]; exists {
		return backend.Conflict("profile already exists")
	}
	for _, other := range r.s.profiles {
		if strings.EqualFold(other.Email, p.Email) {
			return backend.Conflict("email already registered")
		}
	}
	r.s.profiles[p.ID] = p
	return nil
}

func (r *profileRepo) Update(ctx context.Context, p accounts.Profile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.profiles[p.ID]; !exists {
		return backend.NotFound("profile not found")
	}
	r.s.profiles[p.ID] = p
	return nil
}

func (r *profileRepo) GetByID(ctx context.Context, id string) (accounts.Profile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.profiles[id]
	if !ok {
		return accounts.Profile{}, backend.NotFound("profile not found")
	}
	return p, nil
}

func (r *profileRepo) GetByEmail(ctx context.Context, email string) (accounts.Profile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, p := range r.s.profiles {
		if strings.EqualFold(p.Email, strings.TrimSpace(email)) {
			return p, nil
		}
	}
	return accounts.Profile{}, backend.NotFound("profile not found")
}
