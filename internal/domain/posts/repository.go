package posts

import "context"

// ListQuery: Offset/Limit ya resueltos por el service. Status vacío = published.
type ListQuery struct {
	Offset int
	Limit  int
	Search string
	Tag    string
	Status Status
}

type Repository interface {
	// List ordena por created_at desc.
	List(ctx context.Context, q ListQuery) ([]Post, error)
	Create(ctx context.Context, p Post) error
	GetByID(ctx context.Context, id string) (Post, error)

	// SetLike es idempotente y devuelve el likes_count resultante.
	SetLike(ctx context.Context, postID, userID string, liked bool) (int, error)
	IsLiked(ctx context.Context, postID, userID string) (bool, error)
	// LikedBy devuelve los ids de postIDs que userID likeó.
	LikedBy(ctx context.Context, postIDs []string, userID string) (map[string]bool, error)

	// CreateComment incrementa comments_count del post.
	CreateComment(ctx context.Context, c Comment) error
	GetComment(ctx context.Context, id string) (Comment, error)
	ListComments(ctx context.Context, postID string) ([]Comment, error)
}

// RecordOwners resuelve el dueño de un identify record (lo implementa identify).
type RecordOwners interface {
	RecordOwner(ctx context.Context, recordID string) (string, error)
}
