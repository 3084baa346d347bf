package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestFromViperDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	cfg := fromViper(v)
	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, "/api", cfg.APIPrefix)
	assert.Equal(t, time.Hour, cfg.JWT.Expiration)
	assert.Equal(t, "X-Cron-Secret", cfg.Cron.Header)
	assert.Zero(t, cfg.Demand.AggregateInterval)
	assert.Equal(t, 5*time.Minute, cfg.Catalog.CacheTTL)
	assert.Equal(t, "http://localhost:5000", cfg.AI.BaseURL)
	assert.Equal(t, 16, cfg.Timetables.ExportWeeks)
	assert.Nil(t, cfg.CORS.AllowedOrigins)
}

func TestFromViperOverrides(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("AI_SERVER_URL", "http://ai-server:5000/")
	v.Set("DEMAND_AGGREGATE_INTERVAL", "15m")
	v.Set("ALLOWED_ORIGINS", "http://localhost:3000, https://example.edu ,")
	v.Set("JWT_EXPIRATION", "not-a-duration")

	cfg := fromViper(v)
	assert.Equal(t, "http://ai-server:5000", cfg.AI.BaseURL)
	assert.Equal(t, 15*time.Minute, cfg.Demand.AggregateInterval)
	assert.Equal(t, []string{"http://localhost:3000", "https://example.edu"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, time.Hour, cfg.JWT.Expiration)
}

func TestValidate(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	cfg := fromViper(v)
	assert.NoError(t, cfg.Validate())

	cfg.Env = EnvProduction
	assert.ErrorContains(t, cfg.Validate(), "JWT_SECRET")
	cfg.JWT.Secret = "s3cret"
	assert.NoError(t, cfg.Validate())

	cfg.Timezone = "Mars/Olympus"
	cfg.APIPrefix = "api"
	err := cfg.Validate()
	assert.ErrorContains(t, err, "TIMEZONE")
	assert.ErrorContains(t, err, "API_PREFIX")
}

func TestFromViperConnectionURLs(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("DATABASE_URL", "postgres://u:p@db:5432/app")
	v.Set("REDIS_URL", "redis://cache:6379/1")

	cfg := fromViper(v)
	assert.Equal(t, "postgres://u:p@db:5432/app", cfg.Database.URL)
	assert.Equal(t, "redis://cache:6379/1", cfg.Redis.URL)
	assert.Equal(t, "course-registration", cfg.Catalog.CachePrefix)
}

func TestValidateRejectsDefaultSecretInProduction(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("ENV", EnvProduction)

	cfg := fromViper(v)
	assert.Equal(t, DevJWTSecret, cfg.JWT.Secret)
	assert.ErrorContains(t, cfg.Validate(), "JWT_SECRET")

	cfg.JWT.Secret = ""
	assert.ErrorContains(t, cfg.Validate(), "JWT_SECRET")

	v.Set("JWT_SECRET", "rotated-in-vault")
	assert.NoError(t, fromViper(v).Validate())
}
