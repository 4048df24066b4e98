package breeds

import (
	"context"
	"time"
)

// Repository: el catálogo vive en el backend. GetByID/GetByName devuelven backend.ErrNotFound.
type Repository interface {
	List(ctx context.Context) ([]Breed, error)
	GetByID(ctx context.Context, id int) (Breed, error)
	GetByName(ctx context.Context, name string) (Breed, error)
	UpdateStats(ctx context.Context, id int, stats Stats, updatedAt time.Time) (Breed, error)
}
