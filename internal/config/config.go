package config

import (
	"context"
	"crypto/tls"
	"fmt"
	"log"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"time"

	"github.com/designcomputer/mysql-mcp/internal/auth"
	"github.com/designcomputer/mysql-mcp/internal/logger"
)

type TransportMode string

const (
	// DefaultConnectTimeoutSeconds is the dial timeout used when MYSQL_CONNECTION_TIMEOUT is unset
	DefaultConnectTimeoutSeconds int           = 5
	DefaultMySQLPort             int           = 3306
	TransportModeStdio           TransportMode = "stdio"
	TransportModeHTTP            TransportMode = "http"
)

// ValidTransportModes lists the accepted transport mode values.
var ValidTransportModes = []TransportMode{TransportModeStdio, TransportModeHTTP}

// Config holds the server-level application configuration. Database
// credentials are intentionally absent: they are loaded fresh per call via
// LoadDBConfig so the process can start (and stay up) without them.
type Config struct {
	ReadOnly           bool // hides tools that can modify the database
	LogLevel           string
	LogFormat          string
	TransportMode      TransportMode // "stdio" (default) or "http"
	HTTPPort           string        // listener port, defaults to 443 with TLS and 80 without
	HTTPHost           string        // bind address, default "127.0.0.1"
	HTTPPath           string        // endpoint path the MCP handler is mounted on, default "/mcp"
	HTTPAllowedOrigins string        // comma-separated CORS origins, "*" allows all
	HTTPTLSEnabled     bool          // serve HTTPS instead of plain HTTP
	HTTPTLSCertFile    string        // certificate path, required with HTTPTLSEnabled
	HTTPTLSKeyFile     string        // key path, required with HTTPTLSEnabled
}

// Validate validates the configuration and returns an error if invalid.
// MySQL credentials are deliberately not checked here: startup must succeed
// in a degraded mode so diagnostic tools remain reachable without them.
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("configuration is required but was nil")
	}

	// An empty mode means stdio, so a zero Config still validates.
	if c.TransportMode == "" {
		c.TransportMode = TransportModeStdio
	}

	if !slices.Contains(ValidTransportModes, c.TransportMode) {
		return fmt.Errorf("invalid transport mode '%s', must be one of %v", c.TransportMode, ValidTransportModes)
	}

	if c.TransportMode == TransportModeHTTP && c.HTTPTLSEnabled {
		if c.HTTPTLSCertFile == "" {
			return fmt.Errorf("TLS certificate file is required when TLS is enabled (set MYSQL_MCP_HTTP_TLS_CERT_FILE)")
		}
		if c.HTTPTLSKeyFile == "" {
			return fmt.Errorf("TLS key file is required when TLS is enabled (set MYSQL_MCP_HTTP_TLS_KEY_FILE)")
		}

		// Load the pair up front so a bad path fails at startup, not at
		// listen time.
		if _, err := tls.LoadX509KeyPair(c.HTTPTLSCertFile, c.HTTPTLSKeyFile); err != nil {
			return fmt.Errorf("failed to load TLS certificate and key: %w", err)
		}
	}

	return nil
}

// CLIOverrides carries the flag values from main. An empty string means the
// flag was not set.
type CLIOverrides struct {
	MySQLHost      string
	MySQLPort      string
	MySQLUser      string
	MySQLPassword  string
	MySQLDatabase  string
	ReadOnly       string
	TransportMode  string
	Port           string
	Host           string
	Path           string
	AllowedOrigins string
	TLSEnabled     string
	TLSCertFile    string
	TLSKeyFile     string
}

// LoadConfig reads the server configuration from the environment, applies the
// CLI overrides and validates the result. The MySQL connection flags are
// re-exported into the process environment so that the per-call database
// configuration (LoadDBConfig) observes them exactly like real env vars.
func LoadConfig(cliOverrides *CLIOverrides) (*Config, error) {
	logLevel := GetEnvWithDefault("MYSQL_LOG_LEVEL", "info")
	logFormat := GetEnvWithDefault("MYSQL_LOG_FORMAT", "text")

	// Bad log settings fall back to the defaults with a warning instead of
	// refusing to start.
	if !slices.Contains(logger.ValidLogLevels, logLevel) {
		fmt.Fprintf(os.Stderr, "Warning: invalid MYSQL_LOG_LEVEL '%s', using default 'info'. Valid values: %v\n", logLevel, logger.ValidLogLevels)
		logLevel = "info"
	}

	if !slices.Contains(logger.ValidLogFormats, logFormat) {
		fmt.Fprintf(os.Stderr, "Warning: invalid MYSQL_LOG_FORMAT '%s', using default 'text'. Valid values: %v\n", logFormat, logger.ValidLogFormats)
		logFormat = "text"
	}

	cfg := &Config{
		ReadOnly:           ParseBool(GetEnv("MYSQL_READ_ONLY"), false),
		LogLevel:           logLevel,
		LogFormat:          logFormat,
		TransportMode:      GetTransportModeWithDefault("MYSQL_MCP_TRANSPORT", TransportModeStdio),
		HTTPPort:           GetEnv("MYSQL_MCP_HTTP_PORT"), // Default set after TLS determination
		HTTPHost:           GetEnvWithDefault("MYSQL_MCP_HTTP_HOST", "127.0.0.1"),
		HTTPPath:           GetEnvWithDefault("MYSQL_MCP_HTTP_PATH", "/mcp"),
		HTTPAllowedOrigins: GetEnv("MYSQL_MCP_HTTP_ALLOWED_ORIGINS"),
		HTTPTLSEnabled:     ParseBool(GetEnv("MYSQL_MCP_HTTP_TLS_ENABLED"), false),
		HTTPTLSCertFile:    GetEnv("MYSQL_MCP_HTTP_TLS_CERT_FILE"),
		HTTPTLSKeyFile:     GetEnv("MYSQL_MCP_HTTP_TLS_KEY_FILE"),
	}

	// Flags win over environment variables.
	if cliOverrides != nil {
		override := func(target *string, value string) {
			if value != "" {
				*target = value
			}
		}
		if cliOverrides.ReadOnly != "" {
			cfg.ReadOnly = ParseBool(cliOverrides.ReadOnly, false)
		}
		if cliOverrides.TransportMode != "" {
			cfg.TransportMode = TransportMode(cliOverrides.TransportMode)
		}
		if cliOverrides.TLSEnabled != "" {
			cfg.HTTPTLSEnabled = ParseBool(cliOverrides.TLSEnabled, false)
		}
		override(&cfg.HTTPPort, cliOverrides.Port)
		override(&cfg.HTTPHost, cliOverrides.Host)
		override(&cfg.HTTPPath, cliOverrides.Path)
		override(&cfg.HTTPAllowedOrigins, cliOverrides.AllowedOrigins)
		override(&cfg.HTTPTLSCertFile, cliOverrides.TLSCertFile)
		override(&cfg.HTTPTLSKeyFile, cliOverrides.TLSKeyFile)

		// MySQL flags become environment variables so every per-call
		// LoadDBConfig sees them without a second override channel.
		mysqlEnv := map[string]string{
			"MYSQL_HOST":     cliOverrides.MySQLHost,
			"MYSQL_PORT":     cliOverrides.MySQLPort,
			"MYSQL_USER":     cliOverrides.MySQLUser,
			"MYSQL_PASSWORD": cliOverrides.MySQLPassword,
			"MYSQL_DATABASE": cliOverrides.MySQLDatabase,
		}
		for key, value := range mysqlEnv {
			if value == "" {
				continue
			}
			if err := os.Setenv(key, value); err != nil {
				return nil, fmt.Errorf("failed to export %s from CLI flag: %w", key, err)
			}
		}
	}

	// The port default depends on TLS: 443 with it, 80 without.
	if cfg.HTTPPort == "" {
		if cfg.HTTPTLSEnabled {
			cfg.HTTPPort = "443"
		} else {
			cfg.HTTPPort = "80"
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Loader produces a per-call database configuration. Handlers depend on
// this instead of LoadDBConfig directly so tests can substitute fixed
// configurations.
type Loader func(ctx context.Context) (*DBConfig, error)

// DBLoader binds LoadDBConfig to a logger.
func DBLoader(log *slog.Logger) Loader {
	return func(ctx context.Context) (*DBConfig, error) {
		return LoadDBConfig(ctx, log)
	}
}

// DBConfig is the per-call MySQL connection configuration. It is rebuilt from
// the environment on every operation, so credential or host changes take
// effect without a server restart.
type DBConfig struct {
	Host           string
	Port           int
	User           string
	Password       string
	Database       string
	Charset        string
	ConnectTimeout time.Duration
}

// Overrides carries the optional connection fields a caller may supply on a
// single connect call. Zero-valued fields leave the corresponding
// configuration field untouched.
type Overrides struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
}

// Apply overlays the non-zero override fields onto the configuration.
func (c *DBConfig) Apply(o Overrides) {
	if o.Host != "" {
		c.Host = o.Host
	}
	if o.Port != 0 {
		c.Port = o.Port
	}
	if o.User != "" {
		c.User = o.User
	}
	if o.Password != "" {
		c.Password = o.Password
	}
	if o.Database != "" {
		c.Database = o.Database
	}
}

// MissingConfigError reports that required MySQL environment variables are
// absent. It is a startup-degrading condition, not a fatal one: the server
// keeps running and every operation that needs the database reports it anew.
type MissingConfigError struct {
	Missing []string
}

func (e *MissingConfigError) Error() string {
	return "Missing required database configuration"
}

// LoadDBConfig builds a fresh MySQL connection configuration from the
// environment. In HTTP transport mode the per-request Basic Auth credentials
// stored on the context override MYSQL_USER and MYSQL_PASSWORD as a pair.
// Returns a *MissingConfigError if user, password, or database ends up empty;
// host and port are not format-validated.
func LoadDBConfig(ctx context.Context, log *slog.Logger) (*DBConfig, error) {
	cfg := &DBConfig{
		Host:           GetEnvWithDefault("MYSQL_HOST", "localhost"),
		Port:           ParseInt(GetEnv("MYSQL_PORT"), DefaultMySQLPort),
		User:           GetEnv("MYSQL_USER"),
		Password:       GetEnv("MYSQL_PASSWORD"),
		Database:       GetEnv("MYSQL_DATABASE"),
		Charset:        GetEnvWithDefault("MYSQL_CHARSET", "utf8"),
		ConnectTimeout: time.Duration(ParseInt(GetEnv("MYSQL_CONNECTION_TIMEOUT"), DefaultConnectTimeoutSeconds)) * time.Second,
	}

	// Both values travel in a single Authorization header, so they replace
	// the environment pair together rather than field by field.
	if username, password, ok := auth.GetBasicAuthCredentials(ctx); ok {
		cfg.User = username
		cfg.Password = password
	}

	var missing []string
	if cfg.User == "" {
		missing = append(missing, "MYSQL_USER")
	}
	if cfg.Password == "" {
		missing = append(missing, "MYSQL_PASSWORD")
	}
	if cfg.Database == "" {
		missing = append(missing, "MYSQL_DATABASE")
	}
	if len(missing) > 0 {
		log.Error("Missing required database configuration. Please check environment variables:")
		log.Error("MYSQL_USER, MYSQL_PASSWORD, and MYSQL_DATABASE are required")
		return nil, &MissingConfigError{Missing: missing}
	}

	return cfg, nil
}

// GetEnv returns the environment value for key, or "" when unset.
func GetEnv(key string) string {
	return os.Getenv(key)
}

// GetEnvWithDefault returns the environment value for key, falling back to
// defaultValue when the variable is unset or empty.
func GetEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// GetTransportModeWithDefault reads a transport mode from the environment,
// falling back to defaultValue when the variable is unset or empty.
func GetTransportModeWithDefault(key string, defaultValue TransportMode) TransportMode {
	if value := os.Getenv(key); value != "" {
		return TransportMode(value)
	}
	return defaultValue
}

// ParseBool parses value with strconv.ParseBool. Empty input yields
// defaultValue silently, invalid input yields it with a warning.
func ParseBool(value string, defaultValue bool) bool {
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		log.Printf("Warning: Invalid boolean value %q, using default: %v", value, defaultValue)
		return defaultValue
	}
	return parsed
}

// ParseInt parses value as an int. Empty input yields defaultValue silently,
// invalid input yields it with a warning.
func ParseInt(value string, defaultValue int) int {
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Warning: Invalid integer value %q, using default: %v", value, defaultValue)
		return defaultValue
	}
	return parsed
}
