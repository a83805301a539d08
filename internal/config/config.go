package config

import (
	"net"
	"strconv"
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Duplicate DuplicateConfig `yaml:"duplicate"`
	Email     EmailConfig     `yaml:"email"`
	Outbox    OutboxConfig    `yaml:"outbox"`
	Notify    NotifyConfig    `yaml:"notify"`
	Gender    GenderConfig    `yaml:"gender"`
	Security  SecurityConfig  `yaml:"security"`
	CORS      CORSConfig      `yaml:"cors"`
	Log       LogConfig       `yaml:"log"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"3000"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
	SlowRequest     time.Duration `yaml:"slow_request"     env:"SERVER_SLOW_REQUEST"     env-default:"200ms"`
}

// DatabaseConfig holds SQLite settings.
type DatabaseConfig struct {
	Path         string        `yaml:"path"           env:"DATABASE_PATH"           env-default:"admissions.db"`
	MaxOpenConns int           `yaml:"max_open_conns" env:"DATABASE_MAX_OPEN_CONNS" env-default:"8"`
	SlowQuery    time.Duration `yaml:"slow_query"     env:"DATABASE_SLOW_QUERY"     env-default:"50ms"`
}

// DuplicateConfig tunes the duplicate-submission filter.
type DuplicateConfig struct {
	// WindowMonths is how long a registration blocks re-registration; 0 blocks forever.
	WindowMonths   int    `yaml:"window_months"   env:"DUPLICATE_WINDOW_MONTHS"   env-default:"3"`
	FoldEmailCase  bool   `yaml:"fold_email_case" env:"DUPLICATE_FOLD_EMAIL_CASE" env-default:"false"`
	Timezone       string `yaml:"timezone"        env:"DUPLICATE_TIMEZONE"        env-default:"Asia/Ho_Chi_Minh"`
	CandidateLimit int    `yaml:"candidate_limit" env:"DUPLICATE_CANDIDATE_LIMIT" env-default:"200"`

	// Location is resolved from Timezone during validation.
	Location *time.Location `yaml:"-" env:"-"`
}

// EmailConfig holds outbound email settings. An empty ResendAPIKey selects the noop sender.
type EmailConfig struct {
	ResendAPIKey string `yaml:"resend_api_key" env:"EMAIL_RESEND_API_KEY"`
	From         string `yaml:"from"           env:"EMAIL_FROM"           env-default:"Tư vấn tuyển sinh <tuvan@example.edu.vn>"`
	ReplyTo      string `yaml:"reply_to"       env:"EMAIL_REPLY_TO"`
}

// OutboxConfig holds retry settings for deferred emails.
type OutboxConfig struct {
	PollInterval time.Duration `yaml:"poll_interval" env:"OUTBOX_POLL_INTERVAL" env-default:"1m"`
	BaseDelay    time.Duration `yaml:"base_delay"    env:"OUTBOX_BASE_DELAY"    env-default:"30s"`
	MaxDelay     time.Duration `yaml:"max_delay"     env:"OUTBOX_MAX_DELAY"     env-default:"1h"`
	BatchSize    int           `yaml:"batch_size"    env:"OUTBOX_BATCH_SIZE"    env-default:"20"`
}

// NotifyConfig holds counselor broadcast channels as Shoutrrr URLs, comma or newline separated.
type NotifyConfig struct {
	URLs string `yaml:"urls" env:"NOTIFY_URLS"`
}

// GenderConfig points at the name-based gender prediction service.
type GenderConfig struct {
	URL     string        `yaml:"url"     env:"GENDER_URL"     env-default:"http://localhost:5000"`
	Timeout time.Duration `yaml:"timeout" env:"GENDER_TIMEOUT" env-default:"5s"`
}

// SecurityConfig holds request-protection settings.
type SecurityConfig struct {
	// CSRFKey is a hex-encoded 32-byte key; empty generates a random key per process.
	CSRFKey        string `yaml:"csrf_key"        env:"SECURITY_CSRF_KEY"`
	SecureCookies  bool   `yaml:"secure_cookies"  env:"SECURITY_SECURE_COOKIES"  env-default:"false"`
	TrustedOrigins string `yaml:"trusted_origins" env:"SECURITY_TRUSTED_ORIGINS" env-default:"localhost:3000,127.0.0.1:3000"`
	RateLimit      int    `yaml:"rate_limit"      env:"SECURITY_RATE_LIMIT"      env-default:"30"`
}

// CORSConfig holds CORS settings for the browser form.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,PATCH,DELETE,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Content-Type,X-CSRF-Token,X-Request-Id"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"false"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}
