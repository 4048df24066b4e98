// Package api es el cliente tipado de la API HTTP. No toca stores: quien llama reconcilia.
package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"dog-breed-social/internal/client/model"
	"dog-breed-social/internal/platform/httpclient"
)

// ErrNoContent: la respuesta fue 2xx sin body donde se esperaba una entidad.
var ErrNoContent = errors.New("api: no content")

const fallbackMessage = "request failed, please try again"

// Error es la falla tipada con el mensaje del servidor.
type Error struct {
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("api: %s", e.Message)
	}
	return fmt.Sprintf("api: status=%d: %s", e.Status, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// IsUnauthorized: sesión ausente o vencida.
func IsUnauthorized(err error) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Status == http.StatusUnauthorized
}

// MessageOf devuelve el texto apto para mostrar.
func MessageOf(err error) string {
	if err == nil {
		return ""
	}
	var ae *Error
	if errors.As(err, &ae) && ae.Message != "" {
		return ae.Message
	}
	return fallbackMessage
}

// TokenSource da el bearer actual ("" = anónimo). localcache.Cache lo implementa.
type TokenSource interface {
	Token() string
}

type Client struct {
	http   *httpclient.Client
	tokens TokenSource
}

func New(baseURL string, timeout time.Duration, tokens TokenSource) (*Client, error) {
	c, err := httpclient.NewWithBaseURL(baseURL, timeout)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(c.BaseURL) == "" {
		return nil, errors.New("api: base url required")
	}
	return &Client{http: c, tokens: tokens}, nil
}

// NewWithHTTP permite inyectar un httpclient (tests).
func NewWithHTTP(c *httpclient.Client, tokens TokenSource) *Client {
	return &Client{http: c, tokens: tokens}
}

func (c *Client) do(ctx context.Context, req httpclient.Request, out any) error {
	if c.tokens != nil {
		if tok := strings.TrimSpace(c.tokens.Token()); tok != "" {
			if req.Headers == nil {
				req.Headers = map[string]string{}
			}
			req.Headers["Authorization"] = "Bearer " + tok
		}
	}

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		var he *httpclient.HTTPError
		if errors.As(err, &he) {
			msg := he.Message()
			if msg == "" {
				msg = fallbackMessage
			}
			return &Error{Status: he.StatusCode, Message: msg, Err: err}
		}
		return &Error{Message: "network error, please check your connection", Err: err}
	}
	if out == nil {
		return nil
	}
	if resp.NoContent() {
		return ErrNoContent
	}
	if err := resp.Decode(out); err != nil {
		return &Error{Status: resp.StatusCode, Message: "unexpected response from server", Err: err}
	}
	return nil
}

type envelope[T any] struct {
	Message string `json:"message"`
	Data    T      `json:"data"`
}

// ----- auth -----

type LoginResult struct {
	Message string        `json:"message"`
	User    model.User    `json:"user"`
	Session model.Session `json:"session"`
}

func (c *Client) Login(ctx context.Context, email, password string) (LoginResult, error) {
	var out LoginResult
	err := c.do(ctx, httpclient.Request{
		Method: http.MethodPost,
		Path:   "/api/auth/login",
		JSON:   map[string]string{"email": email, "password": password},
	}, &out)
	return out, err
}

type RegisterResult struct {
	Message string `json:"message"`
	User    struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

func (c *Client) Register(ctx context.Context, email, password, name string) (RegisterResult, error) {
	body := map[string]string{"email": email, "password": password}
	if strings.TrimSpace(name) != "" {
		body["name"] = name
	}
	var out RegisterResult
	err := c.do(ctx, httpclient.Request{Method: http.MethodPost, Path: "/api/auth/register", JSON: body}, &out)
	return out, err
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, httpclient.Request{Method: http.MethodPost, Path: "/api/auth/logout"}, nil)
}

func (c *Client) Me(ctx context.Context) (model.User, error) {
	var out model.User
	err := c.do(ctx, httpclient.Request{Path: "/api/auth/me"}, &out)
	return out, err
}

// ProfileUpdate: nil = no tocar; ClearAvatar manda avatar_url null.
type ProfileUpdate struct {
	Name        *string
	AvatarURL   *string
	ClearAvatar bool
}

func (c *Client) UpdateProfile(ctx context.Context, in ProfileUpdate) (model.User, error) {
	body := map[string]any{}
	if in.Name != nil {
		body["name"] = *in.Name
	}
	switch {
	case in.ClearAvatar:
		body["avatar_url"] = nil
	case in.AvatarURL != nil:
		body["avatar_url"] = *in.AvatarURL
	}
	var out envelope[model.User]
	err := c.do(ctx, httpclient.Request{Method: http.MethodPatch, Path: "/api/auth/me", JSON: body}, &out)
	return out.Data, err
}

// ----- breeds -----

type BreedQuery struct {
	Category    string
	Personality []string
	Search      string
	Sort        string // name|popularity
	Order       string // asc|desc
}

func (c *Client) ListBreeds(ctx context.Context, q BreedQuery) ([]model.Breed, error) {
	var out []model.Breed
	err := c.do(ctx, httpclient.Request{
		Path: "/api/breeds",
		Query: map[string]string{
			"category":    q.Category,
			"personality": strings.Join(q.Personality, ","),
			"search":      q.Search,
			"sort":        q.Sort,
			"order":       q.Order,
		},
	}, &out)
	return out, err
}

func (c *Client) SearchBreeds(ctx context.Context, text string) ([]model.Breed, error) {
	return c.ListBreeds(ctx, BreedQuery{Search: text})
}

func (c *Client) GetBreed(ctx context.Context, id int) (model.Breed, error) {
	var out model.Breed
	err := c.do(ctx, httpclient.Request{Path: "/api/breeds/" + strconv.Itoa(id)}, &out)
	return out, err
}

// StatsUpdate: nil = no tocar.
type StatsUpdate struct {
	Friendliness  *int `json:"friendliness,omitempty"`
	EnergyLevel   *int `json:"energyLevel,omitempty"`
	Trainability  *int `json:"trainability,omitempty"`
	GroomingNeeds *int `json:"groomingNeeds,omitempty"`
	Adaptability  *int `json:"adaptability,omitempty"`
}

func (c *Client) UpdateBreedStats(ctx context.Context, id int, in StatsUpdate) (model.Breed, error) {
	var out envelope[model.Breed]
	err := c.do(ctx, httpclient.Request{
		Method: http.MethodPatch,
		Path:   "/api/breeds/" + strconv.Itoa(id) + "/stats",
		JSON:   in,
	}, &out)
	return out.Data, err
}

// ----- identify -----

type Image struct {
	Name        string
	ContentType string
	Data        io.Reader
}

func (c *Client) Analyze(ctx context.Context, img Image, visibility string) (model.Record, error) {
	var out struct {
		Success bool         `json:"success"`
		Data    model.Record `json:"data"`
	}
	req := httpclient.Request{
		Method: http.MethodPost,
		Path:   "/api/identify/analyze",
		File:   &httpclient.File{Field: "image", Name: img.Name, ContentType: img.ContentType, Data: img.Data},
	}
	if visibility != "" {
		req.Query = map[string]string{"visibility": visibility}
	}
	if err := c.do(ctx, req, &out); err != nil {
		return model.Record{}, err
	}
	return out.Data, nil
}

func (c *Client) History(ctx context.Context, limit int) ([]model.Record, error) {
	q := map[string]string{}
	if limit > 0 {
		q["limit"] = strconv.Itoa(limit)
	}
	var out envelope[[]model.Record]
	err := c.do(ctx, httpclient.Request{Path: "/api/identify/history", Query: q}, &out)
	return out.Data, err
}

func (c *Client) GetRecord(ctx context.Context, id string) (model.Record, error) {
	var out model.Record
	err := c.do(ctx, httpclient.Request{Path: "/api/identify/" + url.PathEscape(id)}, &out)
	return out, err
}

// ----- posts -----

type PostQuery struct {
	Page   int
	Limit  int
	Search string
	Tag    string
}

func (c *Client) ListPosts(ctx context.Context, q PostQuery) (model.PostPage, error) {
	query := map[string]string{"search": q.Search, "tag": q.Tag}
	if q.Page > 0 {
		query["page"] = strconv.Itoa(q.Page)
	}
	if q.Limit > 0 {
		query["limit"] = strconv.Itoa(q.Limit)
	}
	var out model.PostPage
	err := c.do(ctx, httpclient.Request{Path: "/api/posts", Query: query}, &out)
	return out, err
}

type NewPost struct {
	Description      string   `json:"description"`
	BreedTags        []string `json:"breed_tags,omitempty"`
	TopicTags        []string `json:"topic_tags,omitempty"`
	IdentifyRecordID string   `json:"identify_record_id,omitempty"`
	Media            []string `json:"media,omitempty"`
	Status           string   `json:"status,omitempty"`
}

func (c *Client) CreatePost(ctx context.Context, in NewPost) (model.Post, error) {
	var out envelope[model.Post]
	err := c.do(ctx, httpclient.Request{Method: http.MethodPost, Path: "/api/posts", JSON: in}, &out)
	return out.Data, err
}

func (c *Client) GetPost(ctx context.Context, id string) (model.Post, error) {
	var out model.Post
	err := c.do(ctx, httpclient.Request{Path: "/api/posts/" + url.PathEscape(id)}, &out)
	return out, err
}

type LikeResult struct {
	Liked      bool `json:"liked"`
	LikesCount int  `json:"likes_count"`
}

// LikePost manda el estado deseado; nil => toggle en el servidor.
func (c *Client) LikePost(ctx context.Context, id string, liked *bool) (LikeResult, error) {
	req := httpclient.Request{Method: http.MethodPost, Path: "/api/posts/" + url.PathEscape(id) + "/like"}
	if liked != nil {
		req.JSON = map[string]bool{"liked": *liked}
	}
	var out envelope[LikeResult]
	err := c.do(ctx, req, &out)
	return out.Data, err
}

func (c *Client) ListComments(ctx context.Context, postID string) ([]model.Comment, error) {
	var out envelope[[]model.Comment]
	err := c.do(ctx, httpclient.Request{Path: "/api/posts/" + url.PathEscape(postID) + "/comments"}, &out)
	return out.Data, err
}

func (c *Client) AddComment(ctx context.Context, postID, content, parentID string) (model.Comment, error) {
	body := map[string]string{"content": content}
	if parentID != "" {
		body["parent_id"] = parentID
	}
	var out envelope[model.Comment]
	err := c.do(ctx, httpclient.Request{Method: http.MethodPost, Path: "/api/posts/" + url.PathEscape(postID) + "/comments", JSON: body}, &out)
	return out.Data, err
}
