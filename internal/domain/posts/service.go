package posts

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"dog-breed-social/internal/platform/logger"
	"dog-breed-social/internal/platform/sanitize"
	"dog-breed-social/internal/platform/validate"
	"dog-breed-social/internal/ports/backend"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 50

	MaxDescriptionLen = 2000
	MaxCommentLen     = 1000
	MaxMedia          = 9
)

var ErrPostNotFound = backend.NotFound("post not found")

type Service struct {
	repo    Repository
	records RecordOwners // opcional
	text    *sanitize.Text
	log     logger.Logger
	now     func() time.Time
}

func NewService(repo Repository, records RecordOwners, log logger.Logger) *Service {
	if log == nil {
		log = logger.NewNop()
	}
	return &Service{
		repo:    repo,
		records: records,
		text:    sanitize.NewText(),
		log:     log.With(map[string]any{"module": "posts"}),
		now:     time.Now,
	}
}

type ListInput struct {
	Page   int
	Limit  int
	Search string
	Tag    string
	// CallerID vacío = anónimo, sin estado de like.
	CallerID string
}

// List pide limit+1 para saber si hay más.
func (s *Service) List(ctx context.Context, in ListInput) (Page, error) {
	page := in.Page
	if page < 1 {
		page = 1
	}
	limit := in.Limit
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	items, err := s.repo.List(ctx, ListQuery{
		Offset: (page - 1) * limit,
		Limit:  limit + 1,
		Search: strings.TrimSpace(in.Search),
		Tag:    strings.TrimSpace(in.Tag),
		Status: StatusPublished,
	})
	if err != nil {
		return Page{}, err
	}

	hasMore := len(items) > limit
	if hasMore {
		items = items[:limit]
	}
	res := Page{Posts: items, Page: page, HasMore: hasMore}
	if in.CallerID == "" || len(items) == 0 {
		return res, nil
	}
	ids := make([]string, len(items))
	for i, p := range items {
		ids[i] = p.ID
	}
	if res.Liked, err = s.repo.LikedBy(ctx, ids, in.CallerID); err != nil {
		return Page{}, err
	}
	return res, nil
}

type CreateInput struct {
	Description      string
	BreedTags        []string
	TopicTags        []string
	IdentifyRecordID string
	Media            []string
	Status           Status
}

func (s *Service) Create(ctx context.Context, userID string, in CreateInput) (Post, error) {
	if strings.TrimSpace(userID) == "" {
		return Post{}, backend.Unauthorized("unauthorized")
	}

	desc := s.text.Clean(in.Description)
	if desc == "" {
		return Post{}, validate.Field("description", "description is required")
	}
	if utf8.RuneCountInString(desc) > MaxDescriptionLen {
		return Post{}, validate.Field("description", "description must be at most %d characters", MaxDescriptionLen)
	}

	status := in.Status
	if status == "" {
		status = StatusPublished
	}
	if !status.Valid() {
		return Post{}, validate.Field("status", "status must be published, draft or archived")
	}

	media := make([]string, 0, len(in.Media))
	for _, m := range in.Media {
		if m = strings.TrimSpace(m); m != "" {
			media = append(media, m)
		}
	}
	if len(media) > MaxMedia {
		return Post{}, validate.Field("media", "at most %d media items", MaxMedia)
	}

	var recordID *string
	if rid := strings.TrimSpace(in.IdentifyRecordID); rid != "" {
		if err := s.checkRecordOwner(ctx, rid, userID); err != nil {
			return Post{}, err
		}
		recordID = &rid
	}

	now := s.now().UTC()
	p := Post{
		ID:               uuid.NewString(),
		UserID:           userID,
		IdentifyRecordID: recordID,
		Description:      desc,
		BreedTags:        s.text.Tags(in.BreedTags),
		TopicTags:        s.text.Tags(in.TopicTags),
		Media:            media,
		Status:           status,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		s.log.Error("create post failed", map[string]any{"op": "posts.create", "user_id": userID, "err": err})
		return Post{}, err
	}
	return p, nil
}

func (s *Service) checkRecordOwner(ctx context.Context, recordID, userID string) error {
	if s.records == nil {
		return nil
	}
	owner, err := s.records.RecordOwner(ctx, recordID)
	if err != nil {
		if errors.Is(err, backend.ErrNotFound) {
			return validate.Field("identify_record_id", "identify record not found")
		}
		return err
	}
	if owner != userID {
		return validate.Field("identify_record_id", "identify record does not belong to you")
	}
	return nil
}

// Get: drafts/archived solo para el dueño. Devuelve además si el caller dio like.
func (s *Service) Get(ctx context.Context, id, callerID string) (Post, bool, error) {
	p, err := s.visible(ctx, id, callerID)
	if err != nil {
		return Post{}, false, err
	}
	if callerID == "" {
		return p, false, nil
	}
	liked, err := s.repo.IsLiked(ctx, id, callerID)
	if err != nil {
		return Post{}, false, err
	}
	return p, liked, nil
}

// Like fija el estado deseado. desired nil => toggle sobre el estado actual del server.
func (s *Service) Like(ctx context.Context, postID, userID string, desired *bool) (bool, int, error) {
	if _, err := s.visible(ctx, postID, userID); err != nil {
		return false, 0, err
	}

	liked := false
	if desired != nil {
		liked = *desired
	} else {
		current, err := s.repo.IsLiked(ctx, postID, userID)
		if err != nil {
			return false, 0, err
		}
		liked = !current
	}

	count, err := s.repo.SetLike(ctx, postID, userID, liked)
	if err != nil {
		s.log.Error("set like failed", map[string]any{"op": "posts.like", "post_id": postID, "user_id": userID, "err": err})
		return false, 0, err
	}
	return liked, count, nil
}

type CommentInput struct {
	Content  string
	ParentID string
}

func (s *Service) AddComment(ctx context.Context, postID, userID string, in CommentInput) (Comment, error) {
	content := s.text.Clean(in.Content)
	if content == "" {
		return Comment{}, validate.Field("content", "content is required")
	}
	if utf8.RuneCountInString(content) > MaxCommentLen {
		return Comment{}, validate.Field("content", "content must be at most %d characters", MaxCommentLen)
	}

	p, err := s.visible(ctx, postID, userID)
	if err != nil {
		return Comment{}, err
	}
	if p.Status != StatusPublished {
		return Comment{}, validate.New("comments are only allowed on published posts")
	}

	var parent *string
	if pid := strings.TrimSpace(in.ParentID); pid != "" {
		pc, err := s.repo.GetComment(ctx, pid)
		if err != nil || pc.PostID != postID {
			return Comment{}, validate.Field("parent_id", "parent comment not found on this post")
		}
		parent = &pid
	}

	c := Comment{
		ID:        uuid.NewString(),
		PostID:    postID,
		UserID:    userID,
		ParentID:  parent,
		Content:   content,
		CreatedAt: s.now().UTC(),
	}
	if err := s.repo.CreateComment(ctx, c); err != nil {
		s.log.Error("create comment failed", map[string]any{"op": "posts.comment", "post_id": postID, "user_id": userID, "err": err})
		return Comment{}, err
	}
	return c, nil
}

func (s *Service) Comments(ctx context.Context, postID, callerID string) ([]Comment, error) {
	if _, err := s.visible(ctx, postID, callerID); err != nil {
		return nil, err
	}
	return s.repo.ListComments(ctx, postID)
}

func (s *Service) visible(ctx context.Context, id, callerID string) (Post, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, backend.ErrNotFound) {
			return Post{}, ErrPostNotFound
		}
		return Post{}, err
	}
	if p.Status != StatusPublished && p.UserID != callerID {
		return Post{}, ErrPostNotFound
	}
	return p, nil
}
