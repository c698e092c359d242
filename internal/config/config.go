// Package config provides centralized configuration management for the application.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import "time"

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server   ServerConfig
	Source   SourceConfig
	Invoice  InvoiceConfig
	Export   ExportConfig
	Admin    AdminConfig
	Database DatabaseConfig
	Rate     RateLimitConfig
	Security SecurityConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading request body (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing response (default: 0, exports stream zips)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"0s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for page requests (default: 60s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s"`
}

// SourceConfig identifies the ledger spreadsheet.
type SourceConfig struct {
	// Kind selects the source implementation: sheets or xlsx (default: sheets)
	Kind string `env:"SOURCE_KIND" default:"sheets"`

	// SpreadsheetID is the Google sheet ID, or the workbook path/URL for xlsx
	SpreadsheetID string `env:"SHEET_ID" envAlt:"XLSX_PATH"`

	// APIKey is the Sheets API key (required for sheets)
	APIKey string `env:"SHEET_API_KEY" envAlt:"API_KEY"`

	// DashboardRange is the range shown on the public dashboard (default: Dashboard)
	DashboardRange string `env:"DASHBOARD_RANGE" default:"Dashboard"`

	// AdminRange is the range used by the admin view and invoices (default: Admin)
	AdminRange string `env:"ADMIN_RANGE" default:"Admin"`

	// SkipRows drops leading title rows of xlsx sheets (default: 0)
	SkipRows int `env:"XLSX_SKIP_ROWS" default:"0"`

	// Timeout bounds a single fetch (default: 15s)
	Timeout time.Duration `env:"SOURCE_TIMEOUT" default:"15s"`
}

// InvoiceConfig holds invoice rendering settings.
type InvoiceConfig struct {
	// AssetDir holds background images referenced by templates (default: assets)
	AssetDir string `env:"INVOICE_ASSET_DIR" default:"assets"`

	// TemplateFile overrides the built-in template table (optional YAML file)
	TemplateFile string `env:"INVOICE_TEMPLATE_FILE"`

	// Format is the default invoice format: png or pdf (default: png)
	Format string `env:"INVOICE_FORMAT" default:"png"`
}

// ExportConfig holds batch export settings.
type ExportConfig struct {
	// MaxParallel is the number of invoices rendered at once per export (default: 4)
	MaxParallel int `env:"EXPORT_MAX_PARALLEL" default:"4"`

	// MaxConcurrent is the maximum number of exports running at once (default: 2)
	MaxConcurrent int `env:"EXPORT_MAX_CONCURRENT" default:"2"`

	// MaxWaitTime is how long to wait for an export slot (default: 30s)
	MaxWaitTime time.Duration `env:"EXPORT_MAX_WAIT_TIME" default:"30s"`

	// Timeout abandons an export and releases its render surfaces (default: 2m)
	Timeout time.Duration `env:"EXPORT_TIMEOUT" default:"2m"`
}

// AdminConfig holds the admin login credentials.
type AdminConfig struct {
	// Username is the admin login name (default: admin)
	Username string `env:"ADMIN_USERNAME" default:"admin"`

	// Password is the admin password (required by the server)
	Password string `env:"ADMIN_PASSWORD"`

	// SessionTTL is how long an admin session stays valid (default: 12h)
	SessionTTL time.Duration `env:"ADMIN_SESSION_TTL" default:"12h"`
}

// DatabaseConfig holds the optional export-history database settings.
type DatabaseConfig struct {
	// URL is the PostgreSQL connection string; export history is disabled when empty
	// Supports both DATABASE_URL and DB_URL env vars for compatibility
	URL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	// MaxConns is the maximum number of connections in the pool (default: 5)
	MaxConns int `env:"DB_MAX_CONNS" default:"5"`

	// MinConns is the minimum number of connections to keep open (default: 0)
	MinConns int `env:"DB_MIN_CONNS" default:"0"`

	// MaxConnLifetime is the maximum lifetime of a connection (default: 1h)
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" default:"1h"`

	// MaxConnIdleTime is the maximum idle time before a connection is closed (default: 30m)
	MaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" default:"30m"`
}

// RateLimitConfig holds rate limiting settings per time window.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the default rate limit per IP (default: 100)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"100"`

	// ExportLimit is requests per minute for batch export endpoints (default: 10)
	ExportLimit int `env:"RATE_LIMIT_EXPORT" default:"10"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// EnableCSP enables Content-Security-Policy headers (default: true)
	EnableCSP bool `env:"SECURITY_ENABLE_CSP" default:"true"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	if c.Host == "" {
		return ":" + itoa(c.Port)
	}
	return c.Host + ":" + itoa(c.Port)
}

// HistoryEnabled reports whether export runs are recorded in Postgres.
func (c *DatabaseConfig) HistoryEnabled() bool {
	return c.URL != ""
}

// itoa converts an int to string without importing strconv in this file.
func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	var b [20]byte
	n := len(b)
	neg := i < 0
	if neg {
		i = -i
	}
	for i > 0 {
		n--
		b[n] = byte('0' + i%10)
		i /= 10
	}
	if neg {
		n--
		b[n] = '-'
	}
	return string(b[n:])
}
