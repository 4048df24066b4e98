package memory

import (
	"sync"

	"dog-breed-social/internal/adapters/storage/seed"
	"dog-breed-social/internal/domain/accounts"
	"dog-breed-social/internal/domain/breeds"
	"dog-breed-social/internal/domain/identify"
	"dog-breed-social/internal/domain/posts"
)

// Store es el backend en memoria para dev y tests. Un único mutex para todas las tablas:
// así CreateWithPost es atómico igual que la transacción de postgres.
type Store struct {
	mu sync.RWMutex

	profiles map[string]accounts.Profile
	breeds   []breeds.Breed
	records  map[string]identify.Record
	posts    map[string]posts.Post
	likes    map[string]map[string]struct{} // post -> users
	comments map[string]posts.Comment
}

// NewStore arranca con el catálogo sembrado.
func NewStore() *Store {
	return NewStoreWithBreeds(seed.Breeds())
}

func NewStoreWithBreeds(catalog []breeds.Breed) *Store {
	return &Store{
		profiles: make(map[string]accounts.Profile),
		breeds:   append([]breeds.Breed(nil), catalog...),
		records:  make(map[string]identify.Record),
		posts:    make(map[string]posts.Post),
		likes:    make(map[string]map[string]struct{}),
		comments: make(map[string]posts.Comment),
	}
}

func (s *Store) Profiles() accounts.ProfileRepository { return &profileRepo{s: s} }
func (s *Store) Breeds() breeds.Repository            { return &breedRepo{s: s} }
func (s *Store) Identify() identify.Repository        { return &identifyRepo{s: s} }
func (s *Store) Posts() posts.Repository              { return &postRepo{s: s} }

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append([]string(nil), in...)
}
