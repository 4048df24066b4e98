// Package config lee la configuración del proceso desde env (y .env si existe).
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultPort         = "8080"
	DefaultAppName      = "dog-breed-social"
	DefaultSessionTTL   = time.Hour
	DefaultMinPassword  = 6
	DefaultImageMax     = 10 << 20
	DefaultImageBucket  = "dog-images"
	DefaultCacheTTL     = 30 * time.Second
	DefaultAuthRateMin  = 20
	DefaultHTTPTimeout  = 10 * time.Second
	generatedSecretSize = 32
)

type Config struct {
	Port      string
	AppName   string
	LogLevel  string
	LogFormat string

	// Postgres; vacío => in-memory.
	DBDSN     string
	DBMigrate bool

	// Backend hosted (auth + storage); ambos o ninguno.
	BackendURL    string
	BackendAPIKey string

	// Auth local cuando no hay backend.
	JWTSecret          string
	JWTSecretGenerated bool
	SessionTTL         time.Duration

	PasswordMinLength      int
	PasswordRequireClasses bool

	ImageMaxBytes int64
	ImageBucket   string

	RedisAddr string
	CacheTTL  time.Duration

	RateLimitAuth int
}

func (c Config) HostedBackend() bool { return c.BackendURL != "" }

// Load lee .env (sin pisar variables ya seteadas) y luego el entorno.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("config: load %s: %w", f, err)
		}
	}
	return FromLookup(os.LookupEnv)
}

// FromLookup arma la config con una función tipo os.LookupEnv (tests).
func FromLookup(lookup func(string) (string, bool)) (Config, error) {
	get := func(key string) string {
		v, _ := lookup(key)
		return strings.TrimSpace(v)
	}

	c := Config{
		Port:      orDefault(get("PORT"), DefaultPort),
		AppName:   orDefault(get("APP_NAME"), DefaultAppName),
		LogLevel:  get("LOG_LEVEL"),
		LogFormat: get("LOG_FORMAT"),

		DBDSN:     get("DB_DSN"),
		DBMigrate: parseBool(get("DB_MIGRATE"), false),

		BackendURL:    strings.TrimRight(get("BACKEND_URL"), "/"),
		BackendAPIKey: get("BACKEND_API_KEY"),

		JWTSecret:  get("JWT_SECRET"),
		SessionTTL: parseDuration(get("SESSION_TTL"), DefaultSessionTTL),

		PasswordMinLength:      parseInt(get("PASSWORD_MIN_LENGTH"), DefaultMinPassword),
		PasswordRequireClasses: parseBool(get("PASSWORD_REQUIRE_CLASSES"), false),

		ImageMaxBytes: int64(parseInt(get("IMAGE_MAX_BYTES"), DefaultImageMax)),
		ImageBucket:   orDefault(get("IMAGE_BUCKET"), DefaultImageBucket),

		RedisAddr: get("REDIS_ADDR"),
		CacheTTL:  parseDuration(get("CACHE_TTL"), DefaultCacheTTL),

		RateLimitAuth: parseInt(get("RATE_LIMIT_AUTH"), DefaultAuthRateMin),
	}

	if (c.BackendURL == "") != (c.BackendAPIKey == "") {
		return Config{}, errors.New("config: BACKEND_URL and BACKEND_API_KEY must be set together")
	}

	if c.JWTSecret == "" && !c.HostedBackend() {
		secret, err := randomSecret()
		if err != nil {
			return Config{}, fmt.Errorf("config: generate jwt secret: %w", err)
		}
		c.JWTSecret = secret
		c.JWTSecretGenerated = true
	}
	return c, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// Valores inválidos o no positivos caen al default.
func parseInt(v string, def int) int {
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func parseBool(v string, def bool) bool {
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func parseDuration(v string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func randomSecret() (string, error) {
	buf := make([]byte, generatedSecretSize)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
