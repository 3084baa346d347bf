package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	// DevJWTSecret is the local-development signing key; production rejects it.
	DevJWTSecret = "dev_secret"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string
	Timezone  string

	Database   DatabaseConfig
	Redis      RedisConfig
	JWT        JWTConfig
	Cron       CronConfig
	Demand     DemandConfig
	Catalog    CatalogConfig
	AI         AIConfig
	Timetables TimetableConfig
	CORS       CORSConfig
	Log        LogConfig
}

type DatabaseConfig struct {
	URL          string
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	AutoMigrate  bool
}

type RedisConfig struct {
	Enabled  bool
	URL      string
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret     string
	Expiration time.Duration
	Issuer     string
}

// CronConfig holds the shared secret presented by the scheduler that triggers aggregation.
type CronConfig struct {
	Secret string
	Header string
}

// DemandConfig controls the in-process aggregation schedule. A zero interval disables it.
type DemandConfig struct {
	AggregateInterval time.Duration
	WorkerRetries     int
}

// CatalogConfig tunes caching of catalog listings.
type CatalogConfig struct {
	CacheTTL    time.Duration
	CachePrefix string
}

// AIConfig points at the external recommendation/optimizer service.
type AIConfig struct {
	BaseURL string
	Timeout time.Duration
}

// TimetableConfig configures timetable exports.
type TimetableConfig struct {
	ExportWeeks int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
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

	cfg := fromViper(v)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the server cannot start with. Production
// additionally refuses to sign tokens with an empty or development secret.
func (c *Config) Validate() error {
	var problems []string
	if c.Port <= 0 || c.Port > 65535 {
		problems = append(problems, fmt.Sprintf("PORT %d out of range", c.Port))
	}
	if !strings.HasPrefix(c.APIPrefix, "/") {
		problems = append(problems, fmt.Sprintf("API_PREFIX %q must start with /", c.APIPrefix))
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		problems = append(problems, fmt.Sprintf("TIMEZONE %q: %v", c.Timezone, err))
	}
	if c.Cron.Header == "" {
		problems = append(problems, "CRON_HEADER must not be empty")
	}
	if c.Env == EnvProduction && (c.JWT.Secret == "" || c.JWT.Secret == DevJWTSecret) {
		problems = append(problems, "JWT_SECRET must be set to a non-default value in production")
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")
	cfg.Timezone = v.GetString("TIMEZONE")

	cfg.Database = DatabaseConfig{
		URL:          v.GetString("DATABASE_URL"),
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
		AutoMigrate:  v.GetBool("DB_AUTO_MIGRATE"),
	}

	cfg.Redis = RedisConfig{
		Enabled:  v.GetBool("REDIS_ENABLED"),
		URL:      v.GetString("REDIS_URL"),
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		Secret:     v.GetString("JWT_SECRET"),
		Expiration: parseDuration(v.GetString("JWT_EXPIRATION"), time.Hour),
		Issuer:     v.GetString("JWT_ISSUER"),
	}

	cfg.Cron = CronConfig{
		Secret: v.GetString("CRON_SECRET"),
		Header: v.GetString("CRON_HEADER"),
	}

	cfg.Demand = DemandConfig{
		AggregateInterval: parseDuration(v.GetString("DEMAND_AGGREGATE_INTERVAL"), 0),
		WorkerRetries:     v.GetInt("DEMAND_WORKER_RETRIES"),
	}

	cfg.Catalog = CatalogConfig{
		CacheTTL:    parseDuration(v.GetString("CATALOG_CACHE_TTL"), 5*time.Minute),
		CachePrefix: v.GetString("CATALOG_CACHE_PREFIX"),
	}

	cfg.AI = AIConfig{
		BaseURL: strings.TrimRight(v.GetString("AI_SERVER_URL"), "/"),
		Timeout: parseDuration(v.GetString("AI_TIMEOUT"), 30*time.Second),
	}

	cfg.Timetables = TimetableConfig{
		ExportWeeks: v.GetInt("TIMETABLE_EXPORT_WEEKS"),
	}
	if cfg.Timetables.ExportWeeks <= 0 {
		cfg.Timetables.ExportWeeks = 16
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8000)
	v.SetDefault("API_PREFIX", "/api")
	v.SetDefault("TIMEZONE", "Asia/Seoul")

	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "course_registration")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_AUTO_MIGRATE", false)

	v.SetDefault("REDIS_ENABLED", false)
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", DevJWTSecret)
	v.SetDefault("JWT_EXPIRATION", "1h")
	v.SetDefault("JWT_ISSUER", "course-registration-api")

	v.SetDefault("CRON_SECRET", "")
	v.SetDefault("CRON_HEADER", "X-Cron-Secret")

	v.SetDefault("DEMAND_AGGREGATE_INTERVAL", "0")
	v.SetDefault("DEMAND_WORKER_RETRIES", 1)
	v.SetDefault("CATALOG_CACHE_TTL", "5m")
	v.SetDefault("CATALOG_CACHE_PREFIX", "course-registration")

	v.SetDefault("AI_SERVER_URL", "http://localhost:5000")
	v.SetDefault("AI_TIMEOUT", "30s")

	v.SetDefault("TIMETABLE_EXPORT_WEEKS", 16)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
}

// SetConfigFile surfaces a missing .env as an fs error, not ConfigFileNotFoundError.
func isMissingFile(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
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
