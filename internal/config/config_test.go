package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	vars := map[string]string{
		"PETCLINIC_PRIMARY__ENV":                     "local",
		"PETCLINIC_SERVER__PORT":                     "8080",
		"PETCLINIC_SERVER__READ_TIMEOUT":             "30",
		"PETCLINIC_SERVER__WRITE_TIMEOUT":            "30",
		"PETCLINIC_SERVER__IDLE_TIMEOUT":             "60",
		"PETCLINIC_SERVER__CORS_ALLOWED_ORIGINS":     "http://localhost:3000,http://localhost:5173",
		"PETCLINIC_DATABASE__HOST":                   "localhost",
		"PETCLINIC_DATABASE__PORT":                   "5432",
		"PETCLINIC_DATABASE__USER":                   "petclinic",
		"PETCLINIC_DATABASE__PASSWORD":               "p@ss:word",
		"PETCLINIC_DATABASE__NAME":                   "petclinic",
		"PETCLINIC_DATABASE__SSL_MODE":               "disable",
		"PETCLINIC_DATABASE__MAX_OPEN_CONNS":         "25",
		"PETCLINIC_DATABASE__MAX_IDLE_CONNS":         "25",
		"PETCLINIC_DATABASE__CONN_MAX_LIFETIME":      "300",
		"PETCLINIC_DATABASE__CONN_MAX_IDLE_TIME":     "300",
		"PETCLINIC_REDIS__ADDRESS":                   "localhost:6379",
		"PETCLINIC_AUTH__SECRET_KEY":                 "sk_test",
		"PETCLINIC_INTEGRATION__CLINIC_INBOX":        "front-desk@petclinic.test",
		"PETCLINIC_CACHE__VETS_TTL":                  "90s",
		"PETCLINIC_OBSERVABILITY__LOGGING__LEVEL":    "debug",
		"PETCLINIC_OBSERVABILITY__LOGGING__FORMAT":   "console",
		"PETCLINIC_OBSERVABILITY__HEALTH_CHECKS__INTERVAL": "10s",
		"PETCLINIC_OBSERVABILITY__HEALTH_CHECKS__TIMEOUT":  "2s",
		"PETCLINIC_OBSERVABILITY__SERVICE_NAME":             "ignored",
		"PETCLINIC_OBSERVABILITY__ENVIRONMENT":              "ignored",
	}
	for k, v := range vars {
		t.Setenv(k, v)
	}
}

func TestLoadConfig(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.Primary.Env)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:5173"}, cfg.Server.CORSAllowedOrigins)
	assert.Equal(t, float64(defaultRateLimitPerSecond), cfg.Server.RateLimitPerSecond)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, 90*time.Second, cfg.Cache.VetsTTL)
	assert.Equal(t, "front-desk@petclinic.test", cfg.Integration.ClinicInbox)
	assert.Equal(t, defaultEmailFrom, cfg.Integration.EmailFrom)

	require.NotNil(t, cfg.Observability)
	assert.Equal(t, serviceName, cfg.Observability.ServiceName)
	assert.Equal(t, "local", cfg.Observability.Environment)
	assert.Equal(t, "console", cfg.Observability.Logging.Format)
}

func TestLoadConfigMissingRequired(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PETCLINIC_DATABASE__HOST", "")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestDatabaseDSN(t *testing.T) {
	c := DatabaseConfig{Host: "db", Port: 5432, User: "vet", Password: "p@ss:word", Name: "clinic", SSLMode: "disable"}
	assert.Equal(t, "postgres://vet:p%40ss%3Aword@db:5432/clinic?sslmode=disable", c.DSN())
}

func TestObservabilityValidate(t *testing.T) {
	c := DefaultObservabilityConfig()
	assert.NoError(t, c.Validate())

	c.Logging.Level = "verbose"
	assert.Error(t, c.Validate())

	c = DefaultObservabilityConfig()
	c.Logging.SlowQueryThreshold = -time.Second
	assert.Error(t, c.Validate())
}

func TestGetLogLevel(t *testing.T) {
	c := DefaultObservabilityConfig()
	c.Logging.Level = ""

	c.Environment = "production"
	assert.Equal(t, "info", c.GetLogLevel())

	c.Environment = "development"
	assert.Equal(t, "debug", c.GetLogLevel())
	assert.False(t, c.IsProduction())
}
