// Package store tiene los contenedores de estado del cliente (auth, breeds, identify, posts).
//
// Cada acción sigue el mismo protocolo: loading=true y error vacío, llamada a la API,
// merge del resultado (reemplazo por id o reemplazo completo de la lista) o, si falla,
// el mensaje en el slot de error sin tocar la colección. Las acciones nunca devuelven
// el error crudo: devuelven ok y el detalle queda en Snapshot().Error.
//
// Las respuestas se aplican solo si siguen siendo las últimas emitidas para esa entidad
// (número de secuencia por clave); una respuesta vieja se descarta.
package store

import (
	"context"
	"strconv"
	"sync"

	"dog-breed-social/internal/client/api"
	"dog-breed-social/internal/client/model"
)

// ----- dependencias -----

// AuthAPI, BreedsAPI, IdentifyAPI y PostsAPI son la parte de *api.Client que usa cada store.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (api.LoginResult, error)
	Register(ctx context.Context, email, password, name string) (api.RegisterResult, error)
	Logout(ctx context.Context) error
	Me(ctx context.Context) (model.User, error)
	UpdateProfile(ctx context.Context, in api.ProfileUpdate) (model.User, error)
}

type BreedsAPI interface {
	ListBreeds(ctx context.Context, q api.BreedQuery) ([]model.Breed, error)
	GetBreed(ctx context.Context, id int) (model.Breed, error)
	UpdateBreedStats(ctx context.Context, id int, in api.StatsUpdate) (model.Breed, error)
}

type IdentifyAPI interface {
	Analyze(ctx context.Context, img api.Image, visibility string) (model.Record, error)
	History(ctx context.Context, limit int) ([]model.Record, error)
	GetRecord(ctx context.Context, id string) (model.Record, error)
}

type PostsAPI interface {
	ListPosts(ctx context.Context, q api.PostQuery) (model.PostPage, error)
	GetPost(ctx context.Context, id string) (model.Post, error)
	ListComments(ctx context.Context, postID string) ([]model.Comment, error)
	LikePost(ctx context.Context, id string, liked *bool) (api.LikeResult, error)
	AddComment(ctx context.Context, postID, content, parentID string) (model.Comment, error)
	CreatePost(ctx context.Context, in api.NewPost) (model.Post, error)
}

// SessionCache, HistoryCache y FavoritesCache los implementa *localcache.Cache.
type SessionCache interface {
	Token() string
	SetToken(token string) error
	User() (model.User, bool)
	SetUser(u model.User) error
	ClearSession() error
}

type HistoryCache interface {
	History() []model.Record
	AddHistory(rec model.Record) error
}

type FavoritesCache interface {
	Favorites() []int
	SetFavorite(id int, fav bool) error
}

// ----- base -----

// base lleva el bookkeeping común: loading, error, secuencias y suscriptores.
type base struct {
	mu       sync.Mutex
	inflight int
	errMsg   string
	seq      map[string]uint64

	subMu   sync.Mutex
	subs    map[int]func()
	nextSub int
}

func (b *base) init() {
	b.seq = map[string]uint64{}
	b.subs = map[int]func(){}
}

// Subscribe registra fn, que corre después de cada cambio de estado.
// Devuelve la función para desuscribirse.
func (b *base) Subscribe(fn func()) func() {
	b.subMu.Lock()
	defer b.subMu.Unlock()
	id := b.nextSub
	b.nextSub++
	b.subs[id] = fn
	return func() {
		b.subMu.Lock()
		delete(b.subs, id)
		b.subMu.Unlock()
	}
}

func (b *base) notify() {
	b.subMu.Lock()
	fns := make([]func(), 0, len(b.subs))
	for _, fn := range b.subs {
		fns = append(fns, fn)
	}
	b.subMu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// mutate corre fn con el lock tomado y notifica fuera del lock.
func (b *base) mutate(fn func()) {
	b.mu.Lock()
	fn()
	b.mu.Unlock()
	b.notify()
}

// begin marca el inicio de una acción sobre key y devuelve su secuencia. Con lock.
func (b *base) begin(key string) uint64 {
	b.inflight++
	b.errMsg = ""
	b.seq[key]++
	return b.seq[key]
}

// latest: la respuesta de seq sigue siendo la última emitida para key. Con lock.
func (b *base) latest(key string, seq uint64) bool {
	return b.seq[key] == seq
}

// finish cierra la acción; err solo se publica si la respuesta no quedó vieja. Con lock.
func (b *base) finish(err error, current bool) {
	if b.inflight > 0 {
		b.inflight--
	}
	if err != nil && current {
		b.errMsg = api.MessageOf(err)
	}
}

func (b *base) fail(msg string) {
	b.mutate(func() { b.errMsg = msg })
}

// ClearError vacía el slot de error.
func (b *base) ClearError() {
	b.mutate(func() { b.errMsg = "" })
}

func breedKey(id int) string   { return "breed:" + strconv.Itoa(id) }
func postKey(id string) string { return "post:" + id }
