package identify

import (
	"context"

	"dog-breed-social/internal/domain/posts"
)

type Repository interface {
	Create(ctx context.Context, rec Record) error

	// CreateWithPost guarda record y post en una sola transacción: o ambos o ninguno.
	CreateWithPost(ctx context.Context, rec Record, post posts.Post) error

	GetByID(ctx context.Context, id string) (Record, error)

	// ListByUser ordena por created_at desc.
	ListByUser(ctx context.Context, userID string, limit int) ([]Record, error)
}
