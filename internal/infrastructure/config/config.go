package config

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/example/icecheck/internal/internaltypes"
	"github.com/spf13/viper"
)

const (
	DefaultSearchURL   = "https://anc.ca.apm.activecommunities.com/ottawa/reservation/search"
	DefaultResourceURL = "https://anc.ca.apm.activecommunities.com/ottawa/rest/reservation/resource"
)

type Config struct {
	Env      string
	LogLevel string

	// facility directory: either a Postgres DSN or a PostgREST endpoint
	DatabaseURL string
	SupabaseURL string
	SupabaseKey string

	// mail
	EmailFrom        string
	EmailTo          []string
	EmailAppPassword string
	SMTPHost         string
	SMTPPort         int

	// probing
	ProbeStrategy    string
	ProbeConcurrency int
	ProbeTimeout     time.Duration
	ChromePath       string
	SearchURL        string
	ResourceURL      string

	Timezone    string
	Location    *time.Location
	HorizonDays int
	PresetsFile string
	CheckCron   string

	// dashboard
	HTTPAddr              string
	SessionHashKey        []byte // base64
	SessionBlockKey       []byte // base64
	DashboardPasswordHash string
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("SMTP_HOST", "smtp.gmail.com")
	v.SetDefault("SMTP_PORT", 465)
	v.SetDefault("PROBE_STRATEGY", "api")
	v.SetDefault("PROBE_TIMEOUT_SECONDS", 10)
	v.SetDefault("ACTIVENET_SEARCH_URL", DefaultSearchURL)
	v.SetDefault("ACTIVENET_RESOURCE_URL", DefaultResourceURL)
	v.SetDefault("TIMEZONE", "America/Toronto")
	v.SetDefault("HORIZON_DAYS", 16)
	v.SetDefault("CHECK_CRON", "0 */2 * * *")
	v.SetDefault("HTTP_ADDR", ":8080")
	return v
}

// FromEnv reads everything that can be read without failing. Credentials a
// command needs are checked with the Require* methods.
func FromEnv() (Config, error) {
	v := newViper()
	cfg := Config{
		Env:                   envString(v, "ENV"),
		LogLevel:              envString(v, "LOG_LEVEL"),
		DatabaseURL:           envString(v, "DATABASE_URL"),
		SupabaseURL:           strings.TrimRight(envString(v, "SUPABASE_URL"), "/"),
		SupabaseKey:           envString(v, "SUPABASE_KEY"),
		EmailFrom:             envString(v, "EMAIL_FROM"),
		EmailTo:               splitCSV(envString(v, "EMAIL_TO")),
		EmailAppPassword:      envString(v, "EMAIL_APP_PASSWORD"),
		SMTPHost:              envString(v, "SMTP_HOST"),
		SMTPPort:              v.GetInt("SMTP_PORT"),
		ProbeStrategy:         strings.ToLower(envString(v, "PROBE_STRATEGY")),
		ProbeConcurrency:      v.GetInt("PROBE_CONCURRENCY"),
		ProbeTimeout:          time.Duration(v.GetInt("PROBE_TIMEOUT_SECONDS")) * time.Second,
		ChromePath:            envString(v, "CHROME_PATH"),
		SearchURL:             envString(v, "ACTIVENET_SEARCH_URL"),
		ResourceURL:           envString(v, "ACTIVENET_RESOURCE_URL"),
		Timezone:              envString(v, "TIMEZONE"),
		HorizonDays:           v.GetInt("HORIZON_DAYS"),
		PresetsFile:           envString(v, "PRESETS_FILE"),
		CheckCron:             envString(v, "CHECK_CRON"),
		HTTPAddr:              envString(v, "HTTP_ADDR"),
		DashboardPasswordHash: envString(v, "DASHBOARD_PASSWORD_HASH"),
	}
	if len(cfg.EmailTo) == 0 && cfg.EmailFrom != "" {
		cfg.EmailTo = []string{cfg.EmailFrom}
	}

	switch cfg.ProbeStrategy {
	case "api", "html", "browser":
	default:
		return cfg, fmt.Errorf("PROBE_STRATEGY must be one of api, html, browser (got %q)", cfg.ProbeStrategy)
	}
	if cfg.ProbeConcurrency <= 0 {
		cfg.ProbeConcurrency = 5
		if cfg.ProbeStrategy == "browser" {
			cfg.ProbeConcurrency = 3
		}
	}
	if cfg.ProbeTimeout <= 0 {
		return cfg, fmt.Errorf("PROBE_TIMEOUT_SECONDS must be >= 1")
	}
	if cfg.HorizonDays < 1 {
		return cfg, fmt.Errorf("HORIZON_DAYS must be >= 1")
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return cfg, fmt.Errorf("invalid TIMEZONE: %w", err)
	}
	cfg.Location = loc

	if s := envString(v, "SESSION_HASH_KEY"); s != "" {
		if cfg.SessionHashKey, err = decodeB64(s); err != nil {
			return cfg, fmt.Errorf("SESSION_HASH_KEY: %w", err)
		}
	}
	if s := envString(v, "SESSION_BLOCK_KEY"); s != "" {
		if cfg.SessionBlockKey, err = decodeB64(s); err != nil {
			return cfg, fmt.Errorf("SESSION_BLOCK_KEY: %w", err)
		}
	}
	return cfg, nil
}

func (c Config) Production() bool { return strings.EqualFold(c.Env, "production") }

func (c Config) RequireDirectory() error {
	if c.DatabaseURL != "" {
		return nil
	}
	if c.SupabaseURL == "" || c.SupabaseKey == "" {
		return fmt.Errorf("%w: DATABASE_URL, or SUPABASE_URL and SUPABASE_KEY, is required", internaltypes.ErrMissingConfig)
	}
	return nil
}

func (c Config) RequireMail() error {
	if c.EmailFrom == "" {
		return fmt.Errorf("%w: EMAIL_FROM is required", internaltypes.ErrMissingConfig)
	}
	if c.EmailAppPassword == "" {
		return fmt.Errorf("%w: EMAIL_APP_PASSWORD is required", internaltypes.ErrMissingConfig)
	}
	return nil
}

func (c Config) RequireSessionKeys() error {
	if len(c.SessionHashKey) == 0 || len(c.SessionBlockKey) == 0 {
		return fmt.Errorf("%w: SESSION_HASH_KEY and SESSION_BLOCK_KEY are required (base64, run `icecheck keys`)", internaltypes.ErrMissingConfig)
	}
	switch len(c.SessionBlockKey) {
	case 16, 24, 32:
	default:
		return fmt.Errorf("SESSION_BLOCK_KEY must decode to 16, 24 or 32 bytes (got %d)", len(c.SessionBlockKey))
	}
	return nil
}

func envString(v *viper.Viper, k string) string {
	return strings.TrimSpace(v.GetString(k))
}

func decodeB64(s string) ([]byte, error) {
	if b, err := base64.StdEncoding.DecodeString(s); err == nil {
		return b, nil
	}
	return base64.RawStdEncoding.DecodeString(s)
}

func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
