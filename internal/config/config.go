package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"

	"github.com/spf13/viper"
)

// ErrMissingSecret is returned by Validate when SECRET_KEY is not set.
var ErrMissingSecret = errors.New("SECRET_KEY is required")

// DefaultEnvFile is read (when present) before the process environment.
const DefaultEnvFile = ".env"

type Config struct {
	Port string

	DBHost string
	DBPort string
	DBName string
	DBUser string
	DBPass string

	// DBMaxOpenConns is the maximum number of open connections to the database (default 25).
	DBMaxOpenConns int
	// DBMaxIdleConns is the maximum number of idle connections (default 5).
	DBMaxIdleConns int

	// JWTSecret signs and verifies bearer tokens. Set via SECRET_KEY; there is no default.
	JWTSecret string

	// JWTExpireHours is the token lifetime in hours (default 24). Set via JWT_EXPIRE_HOURS.
	JWTExpireHours int

	// TLSCertFile and TLSKeyFile enable HTTPS when both are set.
	// When empty, the API listens with plain HTTP.
	TLSCertFile string
	TLSKeyFile  string

	// LogFormat is "text" (default) or "json" for structured logging.
	LogFormat string

	// CORSAllowedOrigins is a list of origins allowed for CORS. "*" allows any origin.
	// Set via CORS_ALLOWED_ORIGINS (comma-separated).
	CORSAllowedOrigins []string

	// MaxBodyBytes caps request bodies (default 1 MiB).
	MaxBodyBytes int64
}

// Load reads configuration from DefaultEnvFile and the process environment.
func Load() (Config, error) {
	return LoadFrom(DefaultEnvFile)
}

// LoadFrom reads configuration from envFile (optional, dotenv format) and the
// process environment. Environment variables win over the file.
func LoadFrom(envFile string) (Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("port", "4000")
	v.SetDefault("db_host", "localhost")
	v.SetDefault("db_port", "5432")
	v.SetDefault("db_name", "quotes")
	v.SetDefault("db_user", "quotes")
	v.SetDefault("db_pass", "quotes")
	v.SetDefault("db_max_open_conns", 25)
	v.SetDefault("db_max_idle_conns", 5)
	v.SetDefault("secret_key", "")
	v.SetDefault("jwt_expire_hours", 24)
	v.SetDefault("tls_cert_file", "")
	v.SetDefault("tls_key_file", "")
	v.SetDefault("log_format", "text")
	v.SetDefault("cors_allowed_origins", "*")
	v.SetDefault("max_body_bytes", 1<<20)

	if envFile != "" {
		v.SetConfigFile(envFile)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
				return Config{}, fmt.Errorf("read %s: %w", envFile, err)
			}
		}
	}

	return Config{
		Port: v.GetString("port"),

		DBHost: v.GetString("db_host"),
		DBPort: v.GetString("db_port"),
		DBName: v.GetString("db_name"),
		DBUser: v.GetString("db_user"),
		DBPass: v.GetString("db_pass"),

		DBMaxOpenConns: positiveOr(v.GetInt("db_max_open_conns"), 25),
		DBMaxIdleConns: positiveOr(v.GetInt("db_max_idle_conns"), 5),

		JWTSecret:      strings.TrimSpace(v.GetString("secret_key")),
		JWTExpireHours: positiveOr(v.GetInt("jwt_expire_hours"), 24),

		TLSCertFile: v.GetString("tls_cert_file"),
		TLSKeyFile:  v.GetString("tls_key_file"),

		LogFormat: v.GetString("log_format"),

		CORSAllowedOrigins: parseCORSOrigins(v.GetString("cors_allowed_origins")),

		MaxBodyBytes: v.GetInt64("max_body_bytes"),
	}, nil
}

// Validate reports configuration that must stop the process at startup.
func (c Config) Validate() error {
	if c.JWTSecret == "" {
		return ErrMissingSecret
	}
	return nil
}

// TLSEnabled is true when both certificate and key are configured.
func (c Config) TLSEnabled() bool {
	return c.TLSCertFile != "" && c.TLSKeyFile != ""
}

// DatabaseURL builds a postgres DSN usable by both lib/pq and golang-migrate.
func (c Config) DatabaseURL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPass),
		Host:     c.DBHost + ":" + c.DBPort,
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

// parseCORSOrigins splits a comma-separated list of origins and trims spaces. Empty strings are omitted.
func parseCORSOrigins(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if o := strings.TrimSpace(p); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func positiveOr(n, fallback int) int {
	if n > 0 {
		return n
	}
	return fallback
}
