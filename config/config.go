// Package config loads application settings from the environment.
// File: config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go-gym-classes/logger"
)

// Config holds every setting the server reads at start-up.
type Config struct {
	ListenAddr     string
	ApplicationURL string
	WebsocketURL   string

	// APIURL points at the upstream class API. Empty selects the in-memory store.
	APIURL     string
	APITimeout time.Duration
	SeedFile   string

	SessionSecret string
	Environment   string
	Location      *time.Location

	// SignupCutoffOffset moves the signup cutoff earlier than the class start.
	SignupCutoffOffset time.Duration

	BusinessBeginsHour int
	BusinessEndsHour   int
	DayViewMaxWidth    int

	MetricsEnabled   bool
	MetricsNamespace string
	TracingEnabled   bool
}

// IsProduction reports whether the server runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Load reads `.env` (if present) and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug.Println("[config.Load] No .env file found, using process environment")
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from the given lookup function.
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		ListenAddr:       withDefault(getenv("LISTEN_ADDR"), ":8080"),
		ApplicationURL:   strings.TrimRight(withDefault(getenv("APPLICATION_URL"), "http://localhost:8080"), "/"),
		WebsocketURL:     withDefault(getenv("WEBSOCKET_URL"), "ws://localhost:8080/timetable/updates"),
		APIURL:           strings.TrimRight(getenv("API_URL"), "/"),
		SeedFile:         withDefault(getenv("SEED_FILE"), "./data/classes.yaml"),
		SessionSecret:    withDefault(getenv("SESSION_SECRET"), "change-me"),
		Environment:      withDefault(getenv("ENVIRONMENT"), "development"),
		MetricsNamespace: withDefault(getenv("METRICS_NAMESPACE"), "GymClasses"),
	}

	var err error
	if cfg.Location, err = parseLocation(getenv("TIMEZONE")); err != nil {
		return nil, err
	}
	if cfg.SignupCutoffOffset, err = parseDuration("SIGNUP_CUTOFF_OFFSET", getenv("SIGNUP_CUTOFF_OFFSET"), 0); err != nil {
		return nil, err
	}
	if cfg.APITimeout, err = parseDuration("API_TIMEOUT", getenv("API_TIMEOUT"), 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.BusinessBeginsHour, err = parseInt("BUSINESS_BEGINS_HOUR", getenv("BUSINESS_BEGINS_HOUR"), 7); err != nil {
		return nil, err
	}
	if cfg.BusinessEndsHour, err = parseInt("BUSINESS_ENDS_HOUR", getenv("BUSINESS_ENDS_HOUR"), 22); err != nil {
		return nil, err
	}
	if cfg.DayViewMaxWidth, err = parseInt("DAY_VIEW_MAX_WIDTH", getenv("DAY_VIEW_MAX_WIDTH"), 768); err != nil {
		return nil, err
	}
	if cfg.MetricsEnabled, err = parseBool("METRICS_ENABLED", getenv("METRICS_ENABLED")); err != nil {
		return nil, err
	}
	if cfg.TracingEnabled, err = parseBool("TRACING_ENABLED", getenv("TRACING_ENABLED")); err != nil {
		return nil, err
	}

	if cfg.BusinessBeginsHour < 0 || cfg.BusinessEndsHour > 24 || cfg.BusinessBeginsHour >= cfg.BusinessEndsHour {
		return nil, fmt.Errorf("invalid business hours %d-%d", cfg.BusinessBeginsHour, cfg.BusinessEndsHour)
	}
	if cfg.SignupCutoffOffset < 0 {
		return nil, fmt.Errorf("SIGNUP_CUTOFF_OFFSET must not be negative, got %s", cfg.SignupCutoffOffset)
	}

	logger.Info.Printf("[config.FromEnv] Loaded config: listen=%s api=%q tz=%s cutoffOffset=%s env=%s",
		cfg.ListenAddr, cfg.APIURL, cfg.Location, cfg.SignupCutoffOffset, cfg.Environment)
	return cfg, nil
}

func withDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return strings.TrimSpace(v)
}

func parseLocation(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" || name == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", name, err)
	}
	return loc, nil
}

func parseDuration(key, v string, def time.Duration) (time.Duration, error) {
	if strings.TrimSpace(v) == "" {
		return def, nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return d, nil
}

func parseInt(key, v string, def int) (int, error) {
	if strings.TrimSpace(v) == "" {
		return def, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return n, nil
}

func parseBool(key, v string) (bool, error) {
	if strings.TrimSpace(v) == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return b, nil
}
