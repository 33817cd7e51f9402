package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	RemoteHTTP   = "http"
	RemoteMemory = "memory"
)

type WebConfig struct {
	RemoteMode    string
	RemoteBaseURL string
	RemoteRPS     float64

	RedisURL     string
	DatabaseURL  string
	OfflineTTL   time.Duration
	RenderTarget string

	NATSURL   string
	JWTSecret []byte

	PageSize      int
	ProbeInterval time.Duration
	SessionIdle   time.Duration

	RateLimitRPS   float64
	RateLimitBurst int
}

func LoadWeb() (WebConfig, error) {
	cfg := WebConfig{
		RemoteMode:    strings.ToLower(strings.TrimSpace(os.Getenv("REMOTE_MODE"))),
		RemoteBaseURL: strings.TrimRight(strings.TrimSpace(os.Getenv("REMOTE_BASE_URL")), "/"),
		RedisURL:      strings.TrimSpace(os.Getenv("OFFLINE_REDIS_URL")),
		DatabaseURL:   strings.TrimSpace(os.Getenv("DATABASE_URL")),
		RenderTarget:  strings.ToLower(strings.TrimSpace(os.Getenv("RENDER_TARGET"))),
		NATSURL:       strings.TrimSpace(os.Getenv("NATS_URL")),
		JWTSecret:     []byte(strings.TrimSpace(os.Getenv("JWT_SECRET"))),
	}
	if cfg.RemoteMode == "" {
		cfg.RemoteMode = RemoteHTTP
	}
	switch cfg.RemoteMode {
	case RemoteHTTP:
		if cfg.RemoteBaseURL == "" {
			return WebConfig{}, errors.New("REMOTE_BASE_URL is required")
		}
	case RemoteMemory:
	default:
		return WebConfig{}, fmt.Errorf("REMOTE_MODE must be %q or %q, got %q", RemoteHTTP, RemoteMemory, cfg.RemoteMode)
	}
	if cfg.RenderTarget == "" {
		cfg.RenderTarget = "client"
	}
	if cfg.RenderTarget != "client" && cfg.RenderTarget != "server" {
		return WebConfig{}, fmt.Errorf("RENDER_TARGET must be client or server, got %q", cfg.RenderTarget)
	}

	var err error
	if cfg.RemoteRPS, err = envFloat("REMOTE_RPS", 5); err != nil {
		return WebConfig{}, err
	}
	if cfg.PageSize, err = envInt("PAGE_SIZE", 50); err != nil {
		return WebConfig{}, err
	}
	if cfg.RateLimitBurst, err = envInt("RATE_LIMIT_BURST", 40); err != nil {
		return WebConfig{}, err
	}
	if cfg.RateLimitRPS, err = envFloat("RATE_LIMIT_RPS", 20); err != nil {
		return WebConfig{}, err
	}
	if cfg.OfflineTTL, err = envDuration("OFFLINE_TTL", 0); err != nil {
		return WebConfig{}, err
	}
	if cfg.ProbeInterval, err = envDuration("PROBE_INTERVAL", 30*time.Second); err != nil {
		return WebConfig{}, err
	}
	if cfg.SessionIdle, err = envDuration("SESSION_IDLE", 2*time.Hour); err != nil {
		return WebConfig{}, err
	}
	return cfg, nil
}

func envInt(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", key, v)
	}
	return n, nil
}

func envFloat(key string, fallback float64) (float64, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 {
		return 0, fmt.Errorf("%s must be a positive number, got %q", key, v)
	}
	return f, nil
}

// envDuration accepts zero so OFFLINE_TTL=0s can mean "keep forever".
func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("%s must be a duration, got %q", key, v)
	}
	return d, nil
}
