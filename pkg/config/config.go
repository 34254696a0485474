package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// ErrMissingStoreConfig is returned when the record store endpoint or key is absent.
var ErrMissingStoreConfig = errors.New("STORE_URL and STORE_ACCESS_KEY are required")

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Store   StoreConfig
	Redis   RedisConfig
	Auth    AuthConfig
	CORS    CORSConfig
	Log     LogConfig
	Grades  GradesConfig
	Reports ReportsConfig
	Audit   AuditConfig
}

// StoreConfig points at the hosted PostgreSQL record store.
type StoreConfig struct {
	URL             string
	AccessKey       string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// AuthConfig controls how caller access tokens are verified.
type AuthConfig struct {
	Issuer   string
	Audience string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// GradesConfig holds the accepted score bound. Both ends are inclusive.
//
// The legacy grade form accepted 1-10 while the reports assumed 0-10, so
// the bound is configuration rather than a constant.
type GradesConfig struct {
	ScoreMin float64
	ScoreMax float64
}

// ReportsConfig governs report card caching and reconciliation.
type ReportsConfig struct {
	CacheEnabled     bool
	CacheTTL         time.Duration
	CompareStoreView bool
}

// AuditConfig sizes the asynchronous audit queue.
type AuditConfig struct {
	Enabled    bool
	Workers    int
	BufferSize int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !isMissingFile(err) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Store = StoreConfig{
		URL:             strings.TrimSpace(v.GetString("STORE_URL")),
		AccessKey:       strings.TrimSpace(v.GetString("STORE_ACCESS_KEY")),
		MaxOpenConns:    v.GetInt("STORE_MAX_OPEN_CONNS"),
		MaxIdleConns:    v.GetInt("STORE_MAX_IDLE_CONNS"),
		ConnMaxLifetime: parseDuration(v.GetString("STORE_CONN_MAX_LIFETIME"), time.Hour),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.Auth = AuthConfig{
		Issuer:   v.GetString("AUTH_ISSUER"),
		Audience: v.GetString("AUTH_AUDIENCE"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Grades = GradesConfig{
		ScoreMin: v.GetFloat64("GRADE_SCORE_MIN"),
		ScoreMax: v.GetFloat64("GRADE_SCORE_MAX"),
	}

	cfg.Reports = ReportsConfig{
		CacheEnabled:     v.GetBool("ENABLE_REPORT_CACHE"),
		CacheTTL:         parseDuration(v.GetString("REPORT_CACHE_TTL"), 5*time.Minute),
		CompareStoreView: v.GetBool("REPORT_COMPARE_STORE_VIEW"),
	}

	cfg.Audit = AuditConfig{
		Enabled:    v.GetBool("ENABLE_AUDIT"),
		Workers:    v.GetInt("AUDIT_WORKERS"),
		BufferSize: v.GetInt("AUDIT_BUFFER_SIZE"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the settings the process cannot start without.
func (c *Config) Validate() error {
	if c.Store.URL == "" || c.Store.AccessKey == "" {
		return ErrMissingStoreConfig
	}
	if c.Grades.ScoreMin > c.Grades.ScoreMax {
		return fmt.Errorf("GRADE_SCORE_MIN (%v) exceeds GRADE_SCORE_MAX (%v)", c.Grades.ScoreMin, c.Grades.ScoreMax)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("STORE_URL", "")
	v.SetDefault("STORE_ACCESS_KEY", "")
	v.SetDefault("STORE_MAX_OPEN_CONNS", 10)
	v.SetDefault("STORE_MAX_IDLE_CONNS", 5)
	v.SetDefault("STORE_CONN_MAX_LIFETIME", "1h")

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("AUTH_ISSUER", "")
	v.SetDefault("AUTH_AUDIENCE", "authenticated")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("GRADE_SCORE_MIN", 0)
	v.SetDefault("GRADE_SCORE_MAX", 10)

	v.SetDefault("ENABLE_REPORT_CACHE", false)
	v.SetDefault("REPORT_CACHE_TTL", "5m")
	v.SetDefault("REPORT_COMPARE_STORE_VIEW", true)

	v.SetDefault("ENABLE_AUDIT", true)
	v.SetDefault("AUDIT_WORKERS", 1)
	v.SetDefault("AUDIT_BUFFER_SIZE", 64)
}

// viper reports a missing explicit config file as a path error rather than ConfigFileNotFoundError.
func isMissingFile(err error) bool {
	return strings.Contains(err.Error(), "no such file or directory")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
