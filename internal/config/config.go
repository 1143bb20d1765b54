package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	Environment string
	LogLevel    string
	LogFormat   string
	CORSOrigins []string

	// TrustProxy lets forwarding headers set the client address.
	TrustProxy bool

	DatabaseURL string
	RabbitMQURL string

	MailHost string
	MailPort int
	MailUser string
	MailPass string
	MailFrom string

	KommoAPIToken string
	KommoBaseURL  string

	WhatsAppAccessToken string
	WhatsAppPhoneID     string

	ScoreDelay         time.Duration
	DetailsDelay       time.Duration
	OutreachStaleAfter time.Duration

	// SeedFile replaces the embedded catalog when set.
	SeedFile string
}

// Load reads a .env file when present, then the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

func FromEnv() (*Config, error) {
	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", "text"),
		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "http://localhost:5173")),

		DatabaseURL: getEnv("DATABASE_URL", ""),
		RabbitMQURL: getEnv("RABBITMQ_URL", ""),

		MailHost: getEnv("MAIL_HOST", ""),
		MailUser: getEnv("MAIL_USER", ""),
		MailPass: getEnv("MAIL_PASS", ""),
		MailFrom: getEnv("MAIL_FROM", ""),

		KommoAPIToken: getEnv("KOMMO_API_TOKEN", ""),
		KommoBaseURL:  getEnv("KOMMO_BASE_URL", ""),

		WhatsAppAccessToken: getEnv("WHATSAPP_ACCESS_TOKEN", ""),
		WhatsAppPhoneID:     getEnv("WHATSAPP_PHONE_ID", ""),

		SeedFile: getEnv("SEED_FILE", ""),
	}

	var err error
	if cfg.TrustProxy, err = getEnvAsBool("TRUST_PROXY", false); err != nil {
		return nil, err
	}
	if cfg.MailPort, err = getEnvAsInt("MAIL_PORT", 587); err != nil {
		return nil, err
	}
	if cfg.ScoreDelay, err = getEnvAsDuration("SCORE_DELAY", 2*time.Second); err != nil {
		return nil, err
	}
	if cfg.DetailsDelay, err = getEnvAsDuration("DETAILS_DELAY", time.Second); err != nil {
		return nil, err
	}
	if cfg.OutreachStaleAfter, err = getEnvAsDuration("OUTREACH_STALE_AFTER", 30*time.Minute); err != nil {
		return nil, err
	}
	if cfg.OutreachStaleAfter <= 0 {
		return nil, fmt.Errorf("OUTREACH_STALE_AFTER must be positive")
	}
	if cfg.KommoAPIToken != "" && cfg.KommoBaseURL == "" {
		return nil, fmt.Errorf("KOMMO_BASE_URL is required when KOMMO_API_TOKEN is set")
	}
	if cfg.MailFrom == "" {
		cfg.MailFrom = cfg.MailUser
	}

	return cfg, nil
}

// OutreachEnabled reports whether both the database and the broker are set.
func (c *Config) OutreachEnabled() bool {
	return c.DatabaseURL != "" && c.RabbitMQURL != ""
}

func (c *Config) KommoConfigured() bool {
	return c.KommoAPIToken != "" && c.KommoBaseURL != ""
}

func (c *Config) WhatsAppConfigured() bool {
	return c.WhatsAppAccessToken != "" && c.WhatsAppPhoneID != ""
}

// getEnv treats an empty variable as unset.
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) (int, error) {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return value, nil
}

func getEnvAsBool(key string, fallback bool) (bool, error) {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback, nil
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return value, nil
}

// getEnvAsDuration accepts Go durations ("2s") or bare milliseconds ("2000").
// Negative values are rejected; zero disables whatever the delay drives.
func getEnvAsDuration(key string, fallback time.Duration) (time.Duration, error) {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback, nil
	}

	var d time.Duration
	if ms, err := strconv.Atoi(valueStr); err == nil {
		d = time.Duration(ms) * time.Millisecond
	} else {
		d, err = time.ParseDuration(valueStr)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", key, err)
		}
	}
	if d < 0 {
		return 0, fmt.Errorf("%s must not be negative", key)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// MaskURL hides the password of a connection URL for logging.
func MaskURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	if _, ok := u.User.Password(); ok {
		u.User = url.UserPassword(u.User.Username(), "xxxxx")
	}
	return u.String()
}
