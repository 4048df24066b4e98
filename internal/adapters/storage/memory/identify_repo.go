package memory

import (
	"context"
	"sort"
	"strings"

	"dog-breed-social/internal/domain/identify"
	"dog-breed-social/internal/domain/posts"
	"dog-breed-social/internal/ports/backend"
)

type identifyRepo struct {
	s *Store
}

func cloneRecord(rec identify.Record) identify.Record {
	rec.Results = append([]identify.Result(nil), rec.Results...)
	return rec
}

func (r *identifyRepo) Create(ctx context.Context, rec identify.Record) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	return r.insertLocked(rec)
}

func (r *identifyRepo) CreateWithPost(ctx context.Context, rec identify.Record, p posts.Post) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	// Validar ambos antes de escribir: o se guardan los dos o ninguno.
	if _, exists := r.s.posts[p.ID]; exists || strings.TrimSpace(p.ID) == "" {
		return backend.Conflict("post already exists")
	}
	if err := r.insertLocked(rec); err != nil {
		return err
	}
	r.s.posts[p.ID] = clonePost(p)
	return nil
}

func (r *identifyRepo) insertLocked(rec identify.Record) error {
	if strings.TrimSpace(rec.ID) == "" {
		return backend.Invalid("record id required")
	}
	if _, exists := r.s.records[rec.ID]; exists {
		return backend.Conflict("identify record already exists")
	}
	r.s.records[rec.ID] = cloneRecord(rec)
	return nil
}

func (r *identifyRepo) GetByID(ctx context.Context, id string) (identify.Record, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rec, ok := r.s.records[id]
	if !ok {
		return identify.Record{}, backend.NotFound("identify record not found")
	}
	return cloneRecord(rec), nil
}

func (r *identifyRepo) ListByUser(ctx context.Context, userID string, limit int) ([]identify.Record, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]identify.Record, 0)
	for _, rec := range r.s.records {
		if rec.UserID == userID {
			out = append(out, cloneRecord(rec))
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
