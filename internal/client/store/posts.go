package store

import (
	"context"
	"slices"

	"golang.org/x/sync/errgroup"

	"dog-breed-social/internal/client/api"
	"dog-breed-social/internal/client/model"
	"dog-breed-social/internal/platform/query"
)

const keyFeed = "feed"

type PostsState struct {
	Posts    []model.Post
	Current  *model.Post
	Comments []model.Comment
	Page     int
	HasMore  bool
	Loading  bool
	Error    string
}

// likeState es lo que un toggle optimista cambia y, si falla, restaura.
type likeState struct {
	liked bool
	count int
}

type Posts struct {
	base
	api      PostsAPI
	posts    []model.Post
	current  *model.Post
	comments []model.Comment
	page     int
	hasMore  bool
	lastQ    api.PostQuery

	// confirmed es el último estado de like que devolvió el servidor, por post.
	confirmed map[string]likeState
	pending   map[string]int
}

func NewPosts(a PostsAPI) *Posts {
	s := &Posts{
		api:       a,
		posts:     []model.Post{},
		comments:  []model.Comment{},
		confirmed: map[string]likeState{},
		pending:   map[string]int{},
	}
	s.init()
	return s
}

func (s *Posts) Snapshot() PostsState {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := PostsState{
		Posts:    slices.Clone(s.posts),
		Comments: slices.Clone(s.comments),
		Page:     s.page,
		HasMore:  s.hasMore,
		Loading:  s.inflight > 0,
		Error:    s.errMsg,
	}
	if s.current != nil {
		p := *s.current
		st.Current = &p
	}
	return st
}

// LoadFeed reemplaza el feed con la página pedida (1 si no se indica).
func (s *Posts) LoadFeed(ctx context.Context, q api.PostQuery) bool {
	if q.Page < 1 {
		q.Page = 1
	}
	var seq uint64
	s.mutate(func() { seq = s.begin(keyFeed) })

	page, err := s.api.ListPosts(ctx, q)

	s.mutate(func() {
		current := s.latest(keyFeed, seq)
		s.finish(err, current)
		if err != nil || !current {
			return
		}
		s.posts = page.Posts
		s.page = page.Page
		s.hasMore = page.HasMore
		s.lastQ = q
		s.confirm(page.Posts...)
	})
	return err == nil
}

// LoadMore agrega la página siguiente del último LoadFeed. Sin más páginas devuelve false.
func (s *Posts) LoadMore(ctx context.Context) bool {
	var (
		seq  uint64
		q    api.PostQuery
		done bool
	)
	s.mutate(func() {
		if !s.hasMore {
			done = true
			return
		}
		q = s.lastQ
		q.Page = s.page + 1
		seq = s.begin(keyFeed)
	})
	if done {
		return false
	}

	page, err := s.api.ListPosts(ctx, q)

	s.mutate(func() {
		current := s.latest(keyFeed, seq)
		s.finish(err, current)
		if err != nil || !current {
			return
		}
		for _, p := range page.Posts {
			if !s.replace(p) {
				s.posts = append(s.posts, p)
			}
		}
		s.page = page.Page
		s.hasMore = page.HasMore
		s.confirm(page.Posts...)
	})
	return err == nil
}

// LoadPost trae el post y sus comentarios en paralelo; si cualquiera falla no cambia nada.
func (s *Posts) LoadPost(ctx context.Context, id string) bool {
	key := postKey(id)
	var seq uint64
	s.mutate(func() { seq = s.begin(key) })

	var (
		post     model.Post
		comments []model.Comment
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		post, err = s.api.GetPost(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		comments, err = s.api.ListComments(gctx, id)
		return err
	})
	err := g.Wait()

	s.mutate(func() {
		current := s.latest(key, seq)
		s.finish(err, current)
		if err != nil || !current {
			return
		}
		s.replace(post)
		s.current = &post
		if comments == nil {
			comments = []model.Comment{}
		}
		s.comments = comments
		s.confirm(post)
	})
	return err == nil
}

// ToggleLike invierte el like al instante y manda el estado deseado.
// Si la llamada falla vuelve al último estado confirmado por el servidor.
func (s *Posts) ToggleLike(ctx context.Context, id string) bool {
	key := "like:" + id
	var (
		seq     uint64
		desired bool
		found   bool
	)
	s.mutate(func() {
		prev, ok := s.likeOf(id)
		if !ok {
			s.errMsg = "post not loaded"
			return
		}
		found = true
		if _, ok := s.confirmed[id]; !ok {
			s.confirmed[id] = prev
		}
		desired = !prev.liked
		next := prev
		next.liked = desired
		if desired {
			next.count++
		} else if next.count > 0 {
			next.count--
		}
		s.setLike(id, next)
		s.pending[id]++
		seq = s.begin(key)
	})
	if !found {
		return false
	}

	res, err := s.api.LikePost(ctx, id, &desired)

	s.mutate(func() {
		current := s.latest(key, seq)
		s.finish(err, current)
		s.pending[id]--
		// una respuesta vieja solo cuenta si el toggle más nuevo sigue en vuelo.
		if err == nil && (current || s.pending[id] > 0) {
			s.confirmed[id] = likeState{liked: res.Liked, count: res.LikesCount}
		}
		if current {
			s.setLike(id, s.confirmed[id])
		}
	})
	return err == nil
}

// AddComment agrega el comentario al post enfocado y suma uno al contador.
func (s *Posts) AddComment(ctx context.Context, postID, content, parentID string) bool {
	key := "comment:" + postID
	var seq uint64
	s.mutate(func() { seq = s.begin(key) })

	c, err := s.api.AddComment(ctx, postID, content, parentID)

	s.mutate(func() {
		s.finish(err, s.latest(key, seq))
		if err != nil {
			return
		}
		if s.current != nil && s.current.ID == postID {
			s.comments = append(s.comments, c)
			s.current.CommentsCount++
		}
		for i := range s.posts {
			if s.posts[i].ID == postID {
				s.posts[i].CommentsCount++
			}
		}
	})
	return err == nil
}

// CreatePost publica y deja el post al frente del feed.
func (s *Posts) CreatePost(ctx context.Context, in api.NewPost) (model.Post, bool) {
	key := "create"
	var seq uint64
	s.mutate(func() { seq = s.begin(key) })

	p, err := s.api.CreatePost(ctx, in)

	s.mutate(func() {
		s.finish(err, s.latest(key, seq))
		if err != nil {
			return
		}
		if !s.replace(p) {
			s.posts = append([]model.Post{p}, s.posts...)
		}
		s.confirm(p)
	})
	return p, err == nil
}

// Filter es puro sobre el feed cargado: texto en la descripción y tag de raza o tema.
func (s *Posts) Filter(search string, tags ...string) []model.Post {
	s.mu.Lock()
	defer s.mu.Unlock()
	return FilterPosts(s.posts, search, tags...)
}

func FilterPosts(posts []model.Post, search string, tags ...string) []model.Post {
	c := query.Criteria{Search: search, Tags: tags}
	return query.Filter(posts, c, func(p model.Post) query.Item {
		return query.Item{Text: []string{p.Description}, Tags: p.Tags()}
	})
}

// ----- helpers (con lock) -----

func (s *Posts) replace(p model.Post) bool {
	found := false
	for i := range s.posts {
		if s.posts[i].ID == p.ID {
			s.posts[i] = p
			found = true
		}
	}
	if s.current != nil && s.current.ID == p.ID {
		cp := p
		s.current = &cp
	}
	return found
}

// confirm registra el like que trajo el servidor, salvo que haya un toggle en vuelo.
func (s *Posts) confirm(posts ...model.Post) {
	for _, p := range posts {
		if s.pending[p.ID] > 0 {
			continue
		}
		s.confirmed[p.ID] = likeState{liked: p.IsLiked, count: p.LikesCount}
	}
}

func (s *Posts) likeOf(id string) (likeState, bool) {
	if s.current != nil && s.current.ID == id {
		return likeState{liked: s.current.IsLiked, count: s.current.LikesCount}, true
	}
	for _, p := range s.posts {
		if p.ID == id {
			return likeState{liked: p.IsLiked, count: p.LikesCount}, true
		}
	}
	return likeState{}, false
}

func (s *Posts) setLike(id string, st likeState) {
	for i := range s.posts {
		if s.posts[i].ID == id {
			s.posts[i].IsLiked = st.liked
			s.posts[i].LikesCount = st.count
		}
	}
	if s.current != nil && s.current.ID == id {
		s.current.IsLiked = st.liked
		s.current.LikesCount = st.count
	}
}
