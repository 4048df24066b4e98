package memory

import (
	"context"
	"strings"
	"time"

	"dog-breed-social/internal/domain/breeds"
	"dog-breed-social/internal/ports/backend"
)

type breedRepo struct {
	s *Store
}

func cloneBreed(b breeds.Breed) breeds.Breed {
	b.Personality = cloneStrings(b.Personality)
	b.FunFacts = cloneStrings(b.FunFacts)
	return b
}

// List devuelve el catálogo en orden de id.
func (r *breedRepo) List(ctx context.Context) ([]breeds.Breed, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]breeds.Breed, 0, len(r.s.breeds))
	for _, b := range r.s.breeds {
		out = append(out, cloneBreed(b))
	}
	return out, nil
}

func (r *breedRepo) GetByID(ctx context.Context, id int) (breeds.Breed, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, b := range r.s.breeds {
		if b.ID == id {
			return cloneBreed(b), nil
		}
	}
	return breeds.Breed{}, backend.NotFound("breed not found")
}

func (r *breedRepo) GetByName(ctx context.Context, name string) (breeds.Breed, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, b := range r.s.breeds {
		if strings.EqualFold(b.Name, strings.TrimSpace(name)) {
			return cloneBreed(b), nil
		}
	}
	return breeds.Breed{}, backend.NotFound("breed not found")
}

func (r *breedRepo) UpdateStats(ctx context.Context, id int, stats breeds.Stats, updatedAt time.Time) (breeds.Breed, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for i := range r.s.breeds {
		if r.s.breeds[i].ID == id {
			r.s.breeds[i].Stats = stats
			r.s.breeds[i].UpdatedAt = updatedAt
			return cloneBreed(r.s.breeds[i]), nil
		}
	}
	return breeds.Breed{}, backend.NotFound("breed not found")
}
