package router

import (
	"database/sql"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "dog-breed-social/docs"
	authadapter "dog-breed-social/internal/adapters/auth"
	"dog-breed-social/internal/adapters/auth/hosted"
	"dog-breed-social/internal/adapters/auth/local"
	"dog-breed-social/internal/adapters/classifier/mock"
	hostedobjects "dog-breed-social/internal/adapters/objects/hosted"
	memobjects "dog-breed-social/internal/adapters/objects/memory"
	mem "dog-breed-social/internal/adapters/storage/memory"
	pg "dog-breed-social/internal/adapters/storage/postgres"
	"dog-breed-social/internal/config"
	"dog-breed-social/internal/domain/accounts"
	"dog-breed-social/internal/domain/breeds"
	"dog-breed-social/internal/domain/identify"
	"dog-breed-social/internal/domain/posts"
	"dog-breed-social/internal/metrics"
	"dog-breed-social/internal/middleware"
	"dog-breed-social/internal/platform/logger"
	"dog-breed-social/internal/ports/classifier"
	"dog-breed-social/internal/ports/objects"
)

type Options struct {
	Config config.Config
	Logger logger.Logger

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	// Opcionales; nil => según Config (hosted si hay BACKEND_URL, si no local/memoria).
	Auth       accounts.AuthProvider
	Objects    objects.Storage
	Classifier classifier.Classifier

	// Opcional: cache de respuestas del catálogo (redis).
	Cache middleware.ResponseCache

	// Opcional: registry de métricas; nil => uno nuevo con collectors de proceso y Go.
	Registry *prometheus.Registry
}

type repos struct {
	profiles accounts.ProfileRepository
	breeds   breeds.Repository
	identify identify.Repository
	posts    posts.Repository
}

func NewRouter(opts Options) (http.Handler, error) {
	cfg := opts.Config
	log := opts.Logger
	if log == nil {
		log = logger.NewNop()
	}

	var rp repos
	if opts.DB != nil {
		rp = repos{
			profiles: pg.NewProfilesRepo(opts.DB),
			breeds:   pg.NewBreedsRepo(opts.DB),
			identify: pg.NewIdentifyRepo(opts.DB),
			posts:    pg.NewPostsRepo(opts.DB),
		}
	} else {
		store := mem.NewStore()
		rp = repos{
			profiles: store.Profiles(),
			breeds:   store.Breeds(),
			identify: store.Identify(),
			posts:    store.Posts(),
		}
	}

	provider, err := authProvider(opts)
	if err != nil {
		return nil, err
	}
	storage, err := objectStorage(opts)
	if err != nil {
		return nil, err
	}
	model := opts.Classifier
	if model == nil {
		model = mock.New(rp.breeds)
	}

	reg := opts.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}
	collector := metrics.NewCollector(reg)

	// Services por módulo
	accountsSvc := accounts.NewService(provider, rp.profiles, accounts.PasswordPolicy{
		MinLength:      cfg.PasswordMinLength,
		RequireClasses: cfg.PasswordRequireClasses,
	}, log)
	breedsSvc := breeds.NewService(rp.breeds)
	identifySvc := identify.NewService(rp.identify, storage, model, breedsSvc, identify.Options{
		Bucket:   cfg.ImageBucket,
		MaxBytes: cfg.ImageMaxBytes,
	}, log).WithRecorder(collector)
	postsSvc := posts.NewService(rp.posts, identifySvc, log)

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.AccessLog(log))
	r.Use(middleware.Recover(log))
	r.Use(collector.Middleware)

	r.Use(middleware.AuthContext(authadapter.NewVerifier(provider)))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", metrics.Handler(reg))
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	limiter := middleware.NewRateLimiter(cfg.RateLimitAuth)

	// Rutas por módulo
	r.Route("/api", func(api chi.Router) {
		accounts.RegisterRoutes(api, accountsSvc, limiter.Middleware)
		breeds.RegisterRoutes(api, breedsSvc, log, middleware.Cache(opts.Cache, "breeds", cfg.CacheTTL, log))
		identify.RegisterRoutes(api, identifySvc)
		posts.RegisterRoutes(api, postsSvc, log)
	})

	return r, nil
}

func authProvider(opts Options) (accounts.AuthProvider, error) {
	if opts.Auth != nil {
		return opts.Auth, nil
	}
	cfg := opts.Config
	if cfg.HostedBackend() {
		p, err := hosted.NewProvider(hosted.Config{BaseURL: cfg.BackendURL, APIKey: cfg.BackendAPIKey, Timeout: config.DefaultHTTPTimeout})
		if err != nil {
			return nil, fmt.Errorf("router: hosted auth: %w", err)
		}
		return p, nil
	}
	p, err := local.NewProvider(local.Options{Secret: cfg.JWTSecret, TTL: cfg.SessionTTL})
	if err != nil {
		return nil, fmt.Errorf("router: local auth: %w", err)
	}
	return p, nil
}

func objectStorage(opts Options) (objects.Storage, error) {
	if opts.Objects != nil {
		return opts.Objects, nil
	}
	cfg := opts.Config
	if cfg.HostedBackend() {
		s, err := hostedobjects.NewStorage(hostedobjects.Config{BaseURL: cfg.BackendURL, APIKey: cfg.BackendAPIKey, Timeout: config.DefaultHTTPTimeout})
		if err != nil {
			return nil, fmt.Errorf("router: hosted storage: %w", err)
		}
		return s, nil
	}
	return memobjects.NewStore(), nil
}

// OpenDB abre Postgres y corre migraciones si se pidió. dsn vacío => nil, nil.
func OpenDB(cfg config.Config, log logger.Logger) (*sql.DB, error) {
	if cfg.DBDSN == "" {
		return nil, nil
	}
	if cfg.DBMigrate {
		if err := pg.RunMigrations(cfg.DBDSN); err != nil {
			return nil, fmt.Errorf("router: migrations: %w", err)
		}
		if log != nil {
			log.Info("migrations applied", nil)
		}
	}
	db, err := pg.Open(cfg.DBDSN)
	if err != nil {
		return nil, fmt.Errorf("router: open db: %w", err)
	}
	return db, nil
}
