package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName    string
	HTTPPort       string
	PostgresDSN    string
	JWTSecret      string
	SessionCookie  string
	RequestTimeout time.Duration

	EnableEventPublisher bool
}

func Load() (Config, error) {
	// A local .env is optional; real environments set variables directly.
	_ = godotenv.Load()

	service := os.Getenv("SERVICE_NAME")
	if service == "" {
		service = "clubsync"
	}

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}

	cookie := os.Getenv("SESSION_COOKIE")
	if cookie == "" {
		cookie = "clubsync_session"
	}

	timeout := 10 * time.Second
	if raw := strings.TrimSpace(os.Getenv("REQUEST_TIMEOUT_MS")); raw != "" {
		if ms, err := strconv.Atoi(raw); err == nil && ms > 0 {
			timeout = time.Duration(ms) * time.Millisecond
		}
	}

	return Config{
		ServiceName:    service,
		HTTPPort:       port,
		PostgresDSN:    os.Getenv("POSTGRES_DSN"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		SessionCookie:  cookie,
		RequestTimeout: timeout,

		EnableEventPublisher: envBool("ENABLE_EVENT_PUBLISHER", true),
	}, nil
}

func envBool(name string, fallback bool) bool {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return fallback
	}
	switch raw {
	case "1", "true", "t", "yes", "y", "on":
		return true
	case "0", "false", "f", "no", "n", "off":
		return false
	default:
		return fallback
	}
}
