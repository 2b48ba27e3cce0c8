package config

import (
	"fmt"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/corporate-inc/contact-api/privacy"
)

type Config struct {
	HTTP      HTTPConfig      `koanf:"http"`
	Database  DatabaseConfig  `koanf:"database"`
	RateLimit RateLimitConfig `koanf:"rate_limit"`
	Privacy   PrivacyConfig   `koanf:"privacy"`
	Retention RetentionConfig `koanf:"retention"`
	Auth      AuthConfig      `koanf:"auth"`
	Logging   LoggingConfig   `koanf:"logging"`
	Tracing   TracingConfig   `koanf:"tracing"`
}

type HTTPConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	SecureCookies   bool          `koanf:"secure_cookies"`
}

type DatabaseConfig struct {
	Path string `koanf:"path"`
}

type RateLimitConfig struct {
	// Strict budget for contact form submissions, keyed by IP hash.
	SubmissionMax    int           `koanf:"submission_max"`
	SubmissionWindow time.Duration `koanf:"submission_window"`
	// Coarse budget for the whole API surface, keyed by client IP.
	GlobalMax    int           `koanf:"global_max"`
	GlobalWindow time.Duration `koanf:"global_window"`

	CleanupInterval time.Duration `koanf:"cleanup_interval"`
}

type PrivacyConfig struct {
	IPSalt string `koanf:"ip_salt"`
}

type RetentionConfig struct {
	// CleanupInterval of zero disables the background retention job.
	CleanupInterval time.Duration `koanf:"cleanup_interval"`
}

type AuthConfig struct {
	Provider     string `koanf:"provider"` // "openid" or "azuread"
	Domain       string `koanf:"domain"`
	TenantID     string `koanf:"tenant_id"`
	ClientID     string `koanf:"client_id"`
	ClientSecret string `koanf:"client_secret"`
	CallbackURL  string `koanf:"callback_url"`
}

type LoggingConfig struct {
	Level   string `koanf:"level"`
	Backend string `koanf:"backend"` // "zap" or "zerolog"
	File    string `koanf:"file"`    // optional rotated log file
}

type TracingConfig struct {
	Enabled     bool    `koanf:"enabled"`
	Endpoint    string  `koanf:"endpoint"`
	Environment string  `koanf:"environment"`
	SampleRatio float64 `koanf:"sample_ratio"`
}

// Load reads configuration from an optional YAML file, then applies defaults
// and environment variable overrides.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Load from YAML file if it exists
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			// Only return error if file was explicitly provided but failed to load
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	applyDefaults(k)
	applyEnvOverrides(k)

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate rejects configurations the server cannot safely run with.
func (c *Config) Validate() error {
	if c.HTTP.Port < 1 || c.HTTP.Port > 65535 {
		return fmt.Errorf("invalid http port: %d", c.HTTP.Port)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database path must not be empty")
	}
	if c.Privacy.IPSalt == "" {
		return fmt.Errorf("privacy ip_salt must not be empty")
	}
	if c.RateLimit.SubmissionMax < 1 || c.RateLimit.SubmissionWindow <= 0 {
		return fmt.Errorf("invalid submission rate limit: %d per %v",
			c.RateLimit.SubmissionMax, c.RateLimit.SubmissionWindow)
	}
	if c.RateLimit.GlobalMax < 1 || c.RateLimit.GlobalWindow <= 0 {
		return fmt.Errorf("invalid global rate limit: %d per %v",
			c.RateLimit.GlobalMax, c.RateLimit.GlobalWindow)
	}
	switch c.Logging.Backend {
	case "zap", "zerolog":
	default:
		return fmt.Errorf("unknown logging backend: %q", c.Logging.Backend)
	}
	switch c.Auth.Provider {
	case "openid", "azuread":
	default:
		return fmt.Errorf("unknown auth provider: %q", c.Auth.Provider)
	}
	return nil
}

// Addr returns the host:port the HTTP server binds to.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.HTTP.Host, c.HTTP.Port)
}

func applyDefaults(k *koanf.Koanf) {
	// HTTP defaults
	setDefault(k, "http.host", "0.0.0.0")
	setDefault(k, "http.port", 8080)
	setDefault(k, "http.read_timeout", 10*time.Second)
	setDefault(k, "http.write_timeout", 30*time.Second)
	setDefault(k, "http.shutdown_timeout", 10*time.Second)
	setDefault(k, "http.secure_cookies", false)

	// Database defaults
	setDefault(k, "database.path", "contact.db")

	// Rate limit defaults: 5 submissions per 5 minutes per client,
	// 60 API requests per minute per client
	setDefault(k, "rate_limit.submission_max", 5)
	setDefault(k, "rate_limit.submission_window", 5*time.Minute)
	setDefault(k, "rate_limit.global_max", 60)
	setDefault(k, "rate_limit.global_window", time.Minute)
	setDefault(k, "rate_limit.cleanup_interval", 5*time.Minute)

	// Privacy defaults
	setDefault(k, "privacy.ip_salt", privacy.DefaultSalt)

	// Retention defaults
	setDefault(k, "retention.cleanup_interval", 24*time.Hour)

	// Auth defaults
	setDefault(k, "auth.provider", "openid")

	// Logging defaults
	setDefault(k, "logging.level", "info")
	setDefault(k, "logging.backend", "zap")

	// Tracing defaults
	setDefault(k, "tracing.enabled", false)
	setDefault(k, "tracing.endpoint", "localhost:4318")
	setDefault(k, "tracing.environment", "production")
	setDefault(k, "tracing.sample_ratio", 1.0)
}

func applyEnvOverrides(k *koanf.Koanf) {
	// HTTP config from env
	if host := getEnvString("HTTP_HOST", ""); host != "" {
		k.Set("http.host", host)
	}
	if port := getEnvInt("PORT", 0); port > 0 {
		k.Set("http.port", port)
	}
	if secure, ok := getEnvBool("SECURE_COOKIES"); ok {
		k.Set("http.secure_cookies", secure)
	}

	// Database config from env
	if path := getEnvString("DB_PATH", ""); path != "" {
		k.Set("database.path", path)
	}

	// Rate limit config from env
	if max := getEnvInt("RATE_LIMIT_MAX", 0); max > 0 {
		k.Set("rate_limit.submission_max", max)
	}
	if window := getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 0); window > 0 {
		k.Set("rate_limit.submission_window", time.Duration(window)*time.Second)
	}

	// Privacy config from env
	if salt := getEnvString("IP_SALT", ""); salt != "" {
		k.Set("privacy.ip_salt", salt)
	}

	// Retention config from env
	if hours := getEnvInt("RETENTION_CLEANUP_HOURS", -1); hours >= 0 {
		k.Set("retention.cleanup_interval", time.Duration(hours)*time.Hour)
	}

	// Auth config from env
	if provider := getEnvString("AUTH_PROVIDER", ""); provider != "" {
		k.Set("auth.provider", provider)
	}
	if domain := getEnvString("AUTH_DOMAIN", ""); domain != "" {
		k.Set("auth.domain", domain)
	}
	if tenant := getEnvString("AUTH_TENANT_ID", ""); tenant != "" {
		k.Set("auth.tenant_id", tenant)
	}
	if clientID := getEnvString("AUTH_CLIENT_ID", ""); clientID != "" {
		k.Set("auth.client_id", clientID)
	}
	if clientSecret := getEnvString("AUTH_CLIENT_SECRET", ""); clientSecret != "" {
		k.Set("auth.client_secret", clientSecret)
	}
	if callback := getEnvString("AUTH_CALLBACK_URL", ""); callback != "" {
		k.Set("auth.callback_url", callback)
	}

	// Logging config from env
	if level := getEnvString("LOG_LEVEL", ""); level != "" {
		k.Set("logging.level", level)
	}
	if backend := getEnvString("LOG_BACKEND", ""); backend != "" {
		k.Set("logging.backend", backend)
	}
	if logFile := getEnvString("LOG_FILE", ""); logFile != "" {
		k.Set("logging.file", logFile)
	}

	// Tracing config from env
	if enabled, ok := getEnvBool("TRACING_ENABLED"); ok {
		k.Set("tracing.enabled", enabled)
	}
	if endpoint := getEnvString("TRACING_ENDPOINT", ""); endpoint != "" {
		k.Set("tracing.endpoint", endpoint)
	}
	if environment := getEnvString("TRACING_ENVIRONMENT", ""); environment != "" {
		k.Set("tracing.environment", environment)
	}
}

// setDefault only sets the value if the key doesn't already exist
func setDefault(k *koanf.Koanf, key string, value any) {
	if !k.Exists(key) {
		k.Set(key, value)
	}
}
