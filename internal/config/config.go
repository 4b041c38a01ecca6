package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration shared by the portal binaries.
type Config struct {
	ServerPort string
	GinMode    string
	LogLevel   string
	LogFormat  string

	// APIBaseURL is the root of the college REST API every gateway call targets.
	APIBaseURL string
	APITimeout time.Duration

	SessionSecret string
	SessionMaxAge time.Duration
	CookieSecure  bool

	// RedisURL enables the identity cache and the shared login limiter.
	// Empty disables Redis entirely and the in-memory fallbacks are used.
	RedisURL         string
	IdentityCacheTTL time.Duration
	LoginRateLimit   int

	// AllowedOrigins controls CORS on the development API.
	// Empty slice means all origins are permitted (dev default).
	AllowedOrigins []string

	DevAPIPort   string
	JWTSecret    string
	JWTExpiry    time.Duration
	BcryptCost   int
	SeedPassword string

	// TokenFile is where portalctl keeps the bearer token between runs.
	TokenFile string
}

// Load reads configuration from environment variables with sensible defaults.
// It loads .env file if present but does not fail if missing.
func Load() *Config {
	_ = godotenv.Load() // .env is optional

	return &Config{
		ServerPort:       getEnv("SERVER_PORT", "3000"),
		GinMode:          getEnv("GIN_MODE", "debug"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogFormat:        getEnv("LOG_FORMAT", "pretty"),
		APIBaseURL:       strings.TrimRight(getEnv("API_BASE_URL", "http://127.0.0.1:8000"), "/"),
		APITimeout:       getEnvDuration("API_TIMEOUT", 30*time.Second),
		SessionSecret:    getEnv("SESSION_SECRET", "change-this-to-a-secure-random-string"),
		SessionMaxAge:    time.Duration(getEnvInt("SESSION_MAX_AGE_HOURS", 24)) * time.Hour,
		CookieSecure:     getEnvBool("COOKIE_SECURE", false),
		RedisURL:         getEnv("REDIS_URL", ""),
		IdentityCacheTTL: getEnvDuration("IDENTITY_CACHE_TTL", time.Minute),
		LoginRateLimit:   getEnvInt("LOGIN_RATE_LIMIT", 10),
		AllowedOrigins:   parseOrigins(getEnv("ALLOWED_ORIGINS", "")),
		DevAPIPort:       getEnv("DEVAPI_PORT", "8000"),
		JWTSecret:        getEnv("JWT_SECRET", "change-this-to-a-secure-random-string"),
		JWTExpiry:        time.Duration(getEnvInt("JWT_EXPIRY_MINUTES", 60)) * time.Minute,
		BcryptCost:       getEnvInt("BCRYPT_COST", 6),
		SeedPassword:     getEnv("SEED_PASSWORD", "password123"),
		TokenFile:        getEnv("PORTAL_TOKEN_FILE", defaultTokenFile()),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

// getEnvDuration accepts Go duration strings ("45s", "2m").
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// parseOrigins splits a comma-separated origins string into a trimmed slice.
// Returns nil (allow-all) if the input is empty.
func parseOrigins(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

func defaultTokenFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".campus-portal-token"
	}
	return filepath.Join(dir, "campus-portal", "token")
}
