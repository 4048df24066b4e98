package memory

import (
	"context"
	"sort"
	"strings"

	"dog-breed-social/internal/domain/posts"
	"dog-breed-social/internal/platform/query"
	"dog-breed-social/internal/ports/backend"
)

type postRepo struct {
	s *Store
}

func clonePost(p posts.Post) posts.Post {
	p.BreedTags = cloneStrings(p.BreedTags)
	p.TopicTags = cloneStrings(p.TopicTags)
	p.Media = cloneStrings(p.Media)
	return p
}

func (r *postRepo) List(ctx context.Context, q posts.ListQuery) ([]posts.Post, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	status := q.Status
	if status == "" {
		status = posts.StatusPublished
	}
	crit := query.Criteria{Search: q.Search}
	if q.Tag != "" {
		crit.Tags = []string{q.Tag}
	}

	out := make([]posts.Post, 0)
	for _, p := range r.s.posts {
		if p.Status != status {
			continue
		}
		if !crit.Match(query.Item{Text: []string{p.Description}, Tags: p.Tags()}) {
			continue
		}
		out = append(out, r.withCountsLocked(p))
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	if q.Offset >= len(out) {
		return []posts.Post{}, nil
	}
	out = out[q.Offset:]
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (r *postRepo) Create(ctx context.Context, p posts.Post) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if strings.TrimSpace(p.ID) == "" {
		return backend.Invalid("post id required")
	}
	if _, exists := r.s.posts[p.ID]; exists {
		return backend.Conflict("post already exists")
	}
	r.s.posts[p.ID] = clonePost(p)
	return nil
}

func (r *postRepo) GetByID(ctx context.Context, id string) (posts.Post, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.posts[id]
	if !ok {
		return posts.Post{}, backend.NotFound("post not found")
	}
	return r.withCountsLocked(p), nil
}

func (r *postRepo) SetLike(ctx context.Context, postID, userID string, liked bool) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.posts[postID]; !ok {
		return 0, backend.NotFound("post not found")
	}
	set := r.s.likes[postID]
	if set == nil {
		set = make(map[string]struct{})
		r.s.likes[postID] = set
	}
	if liked {
		set[userID] = struct{}{}
	} else {
		delete(set, userID)
	}
	return len(set), nil
}

func (r *postRepo) IsLiked(ctx context.Context, postID, userID string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	_, ok := r.s.likes[postID][userID]
	return ok, nil
}

func (r *postRepo) LikedBy(ctx context.Context, postIDs []string, userID string) (map[string]bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make(map[string]bool, len(postIDs))
	for _, id := range postIDs {
		if _, ok := r.s.likes[id][userID]; ok {
			out[id] = true
		}
	}
	return out, nil
}

func (r *postRepo) CreateComment(ctx context.Context, c posts.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.posts[c.PostID]
	if !ok {
		return backend.NotFound("post not found")
	}
	if _, exists := r.s.comments[c.ID]; exists {
		return backend.Conflict("comment already exists")
	}
	r.s.comments[c.ID] = c
	p.CommentsCount++
	r.s.posts[c.PostID] = p
	return nil
}

func (r *postRepo) GetComment(ctx context.Context, id string) (posts.Comment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.comments[id]
	if !ok {
		return posts.Comment{}, backend.NotFound("comment not found")
	}
	return c, nil
}

// ListComments en orden cronológico.
func (r *postRepo) ListComments(ctx context.Context, postID string) ([]posts.Comment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]posts.Comment, 0)
	for _, c := range r.s.comments {
		if c.PostID == postID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// likes_count se deriva del set; comments_count se mantiene en el post.
func (r *postRepo) withCountsLocked(p posts.Post) posts.Post {
	p = clonePost(p)
	p.LikesCount = len(r.s.likes[p.ID])
	return p
}
