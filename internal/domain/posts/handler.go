package posts

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"dog-breed-social/internal/middleware"
	"dog-breed-social/internal/platform/logger"
	"dog-breed-social/internal/platform/respond"
	"dog-breed-social/internal/ports/backend"
)

func RegisterRoutes(r chi.Router, svc *Service, log logger.Logger) {
	if log == nil {
		log = logger.NewNop()
	}
	r.Route("/posts", func(pr chi.Router) {
		pr.Get("/", listPostsHandler(svc, log))
		pr.Post("/", createPostHandler(svc))
		pr.Get("/{postID}", getPostHandler(svc, log))
		pr.Post("/{postID}/like", likePostHandler(svc))
		pr.Get("/{postID}/comments", listCommentsHandler(svc, log))
		pr.Post("/{postID}/comments", createCommentHandler(svc))
	})
}

type PostResponse struct {
	ID               string    `json:"id"`
	UserID           string    `json:"user_id"`
	IdentifyRecordID *string   `json:"identify_record_id"`
	Description      string    `json:"description"`
	BreedTags        []string  `json:"breed_tags"`
	TopicTags        []string  `json:"topic_tags"`
	Media            []string  `json:"media"`
	LikesCount       int       `json:"likes_count"`
	CommentsCount    int       `json:"comments_count"`
	Status           Status    `json:"status"`
	CreatedAt        time.Time `json:"created_at"`
	IsLiked          *bool     `json:"is_liked,omitempty"`
}

type CommentResponse struct {
	ID         string    `json:"id"`
	PostID     string    `json:"post_id"`
	UserID     string    `json:"user_id"`
	ParentID   *string   `json:"parent_id"`
	Content    string    `json:"content"`
	LikesCount int       `json:"likes_count"`
	CreatedAt  time.Time `json:"created_at"`
}

type listPostsResponse struct {
	Posts   []PostResponse `json:"posts"`
	HasMore bool           `json:"hasMore"`
	Page    int            `json:"page"`
}

type createPostRequest struct {
	Description      string   `json:"description"`
	BreedTags        []string `json:"breed_tags"`
	TopicTags        []string `json:"topic_tags"`
	IdentifyRecordID string   `json:"identify_record_id"`
	Media            []string `json:"media"`
	Status           Status   `json:"status"`
}

type likeRequest struct {
	Liked *bool `json:"liked"`
}

type likeResponse struct {
	Liked      bool `json:"liked"`
	LikesCount int  `json:"likes_count"`
}

type createCommentRequest struct {
	Content  string `json:"content"`
	ParentID string `json:"parent_id"`
}

// @Summary  List feed posts
// @Tags     posts
// @Produce  json
// @Param    page   query int    false "página, desde 1"
// @Param    limit  query int    false "tamaño de página (max 50)"
// @Param    search query string false "texto en la descripción"
// @Param    tag    query string false "breed o topic tag"
// @Success  200 {object} listPostsResponse
// @Router   /api/posts [get]
func listPostsHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		callerID := middleware.UserID(r.Context())
		page, _ := strconv.Atoi(q.Get("page"))
		limit, _ := strconv.Atoi(q.Get("limit"))

		res, err := svc.List(r.Context(), ListInput{
			Page:     page,
			Limit:    limit,
			Search:   q.Get("search"),
			Tag:      q.Get("tag"),
			CallerID: callerID,
		})
		if err != nil {
			log.Error("list posts failed", map[string]any{"op": "posts.list", "err": err})
			respond.Error(w, http.StatusInternalServerError, "failed to load posts")
			return
		}

		out := make([]PostResponse, 0, len(res.Posts))
		for _, p := range res.Posts {
			var isLiked *bool
			if callerID != "" {
				liked := res.Liked[p.ID]
				isLiked = &liked
			}
			out = append(out, ToPostResponse(p, isLiked))
		}
		respond.JSON(w, http.StatusOK, listPostsResponse{Posts: out, HasMore: res.HasMore, Page: res.Page})
	}
}

// @Summary  Create post
// @Tags     posts
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    body body createPostRequest true "post"
// @Success  201 {object} respond.Envelope{data=PostResponse}
// @Failure  400 {object} respond.ErrorBody
// @Failure  401 {object} respond.ErrorBody
// @Router   /api/posts [post]
func createPostHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			respond.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		var req createPostRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respond.Error(w, http.StatusBadRequest, "invalid json")
			return
		}

		p, err := svc.Create(r.Context(), claims.UserID, CreateInput{
			Description:      req.Description,
			BreedTags:        req.BreedTags,
			TopicTags:        req.TopicTags,
			IdentifyRecordID: req.IdentifyRecordID,
			Media:            req.Media,
			Status:           req.Status,
		})
		if err != nil {
			respond.Fail(w, err, "failed to create post")
			return
		}
		respond.Data(w, http.StatusCreated, "post created", ToPostResponse(p, nil))
	}
}

// @Summary  Post detail
// @Tags     posts
// @Produce  json
// @Param    postID path string true "post id"
// @Success  200 {object} PostResponse
// @Failure  404 {object} respond.ErrorBody
// @Router   /api/posts/{postID} [get]
func getPostHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "postID")
		callerID := middleware.UserID(r.Context())

		p, liked, err := svc.Get(r.Context(), id, callerID)
		if err != nil {
			if backend.KindOf(err) != backend.KindNotFound {
				log.Error("get post failed", map[string]any{"op": "posts.get", "post_id": id, "err": err})
			}
			respond.Fail(w, err, "failed to load post")
			return
		}

		var isLiked *bool
		if callerID != "" {
			isLiked = &liked
		}
		respond.JSON(w, http.StatusOK, ToPostResponse(p, isLiked))
	}
}

// @Summary  Like / unlike a post
// @Description Body {"liked": true|false} fija el estado; sin body alterna.
// @Tags     posts
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    postID path string true "post id"
// @Success  200 {object} respond.Envelope{data=likeResponse}
// @Failure  401 {object} respond.ErrorBody
// @Failure  404 {object} respond.ErrorBody
// @Router   /api/posts/{postID}/like [post]
func likePostHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			respond.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		// Body vacío = toggle.
		var req likeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			respond.Error(w, http.StatusBadRequest, "invalid json")
			return
		}

		liked, count, err := svc.Like(r.Context(), chi.URLParam(r, "postID"), claims.UserID, req.Liked)
		if err != nil {
			respond.Fail(w, err, "failed to update like")
			return
		}

		msg := "post liked"
		if !liked {
			msg = "post unliked"
		}
		respond.Data(w, http.StatusOK, msg, likeResponse{Liked: liked, LikesCount: count})
	}
}

// @Summary  List comments
// @Tags     posts
// @Produce  json
// @Param    postID path string true "post id"
// @Success  200 {object} respond.Envelope{data=[]CommentResponse}
// @Failure  404 {object} respond.ErrorBody
// @Router   /api/posts/{postID}/comments [get]
func listCommentsHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "postID")
		items, err := svc.Comments(r.Context(), id, middleware.UserID(r.Context()))
		if err != nil {
			if backend.KindOf(err) != backend.KindNotFound {
				log.Error("list comments failed", map[string]any{"op": "posts.comments", "post_id": id, "err": err})
			}
			respond.Fail(w, err, "failed to load comments")
			return
		}

		out := make([]CommentResponse, 0, len(items))
		for _, c := range items {
			out = append(out, ToCommentResponse(c))
		}
		respond.Data(w, http.StatusOK, "ok", out)
	}
}

// @Summary  Add comment
// @Tags     posts
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    postID path string true "post id"
// @Param    body body createCommentRequest true "comment"
// @Success  201 {object} respond.Envelope{data=CommentResponse}
// @Failure  400 {object} respond.ErrorBody
// @Failure  401 {object} respond.ErrorBody
// @Failure  404 {object} respond.ErrorBody
// @Router   /api/posts/{postID}/comments [post]
func createCommentHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			respond.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		var req createCommentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respond.Error(w, http.StatusBadRequest, "invalid json")
			return
		}

		c, err := svc.AddComment(r.Context(), chi.URLParam(r, "postID"), claims.UserID, CommentInput{
			Content:  req.Content,
			ParentID: req.ParentID,
		})
		if err != nil {
			respond.Fail(w, err, "failed to add comment")
			return
		}
		respond.Data(w, http.StatusCreated, "comment added", ToCommentResponse(c))
	}
}

func ToPostResponse(p Post, isLiked *bool) PostResponse {
	return PostResponse{
		ID:               p.ID,
		UserID:           p.UserID,
		IdentifyRecordID: p.IdentifyRecordID,
		Description:      p.Description,
		BreedTags:        nonNil(p.BreedTags),
		TopicTags:        nonNil(p.TopicTags),
		Media:            nonNil(p.Media),
		LikesCount:       p.LikesCount,
		CommentsCount:    p.CommentsCount,
		Status:           p.Status,
		CreatedAt:        p.CreatedAt,
		IsLiked:          isLiked,
	}
}

func ToCommentResponse(c Comment) CommentResponse {
	return CommentResponse{
		ID:         c.ID,
		PostID:     c.PostID,
		UserID:     c.UserID,
		ParentID:   c.ParentID,
		Content:    c.Content,
		LikesCount: c.LikesCount,
		CreatedAt:  c.CreatedAt,
	}
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
