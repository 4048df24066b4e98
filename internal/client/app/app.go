// Package app arma el cliente una vez por proceso: cache local, cliente HTTP y stores.
package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"dog-breed-social/internal/client/api"
	"dog-breed-social/internal/client/localcache"
	"dog-breed-social/internal/client/store"
)

const DefaultTimeout = 15 * time.Second

type Options struct {
	BaseURL string
	Timeout time.Duration
	// CachePath es el archivo sqlite del cache local; vacío = en memoria.
	CachePath string
}

type App struct {
	Cache *localcache.Cache
	API   *api.Client

	Auth     *store.Auth
	Breeds   *store.Breeds
	Identify *store.Identify
	Posts    *store.Posts

	close func() error
}

func New(opts Options) (*App, error) {
	if strings.TrimSpace(opts.BaseURL) == "" {
		return nil, errors.New("app: base url required")
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}

	var (
		backend localcache.Backend = localcache.NewMemoryBackend()
		closeFn                    = func() error { return nil }
	)
	if p := strings.TrimSpace(opts.CachePath); p != "" {
		if err := os.MkdirAll(filepath.Dir(p), 0o700); err != nil {
			return nil, fmt.Errorf("app: cache dir: %w", err)
		}
		sq, err := localcache.OpenSQLite(p)
		if err != nil {
			return nil, fmt.Errorf("app: open cache: %w", err)
		}
		backend, closeFn = sq, sq.Close
	}
	cache := localcache.New(backend)

	client, err := api.New(opts.BaseURL, opts.Timeout, cache)
	if err != nil {
		_ = closeFn()
		return nil, err
	}

	a := &App{
		Cache:    cache,
		API:      client,
		Auth:     store.NewAuth(client, cache),
		Breeds:   store.NewBreeds(client, cache),
		Identify: store.NewIdentify(client, cache),
		Posts:    store.NewPosts(client),
		close:    closeFn,
	}
	a.Auth.Restore()
	a.Identify.Restore()
	return a, nil
}

func (a *App) Close() error {
	if a == nil || a.close == nil {
		return nil
	}
	return a.close()
}
