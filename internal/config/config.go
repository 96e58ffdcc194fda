// Package config loads the application configuration from the environment.
//
// Variables are read with the PETCLINIC_ prefix; a double underscore marks
// nesting, so PETCLINIC_DATABASE__HOST ends up in Config.Database.Host and
// PETCLINIC_OBSERVABILITY__NEW_RELIC__LICENSE_KEY in
// Config.Observability.NewRelic.LicenseKey. A .env file in the working
// directory is loaded first when present.
package config

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix   = "PETCLINIC_"
	serviceName = "petclinic"
)

// Config is the full application configuration.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Database      DatabaseConfig       `koanf:"database" validate:"required"`
	Redis         RedisConfig          `koanf:"redis" validate:"required"`
	Auth          AuthConfig           `koanf:"auth" validate:"required"`
	Integration   IntegrationConfig    `koanf:"integration"`
	Cache         CacheConfig          `koanf:"cache"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds settings that apply to the whole process.
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig timeouts are in seconds.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"required"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"required"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"required"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" validate:"required"`
	RateLimitPerSecond float64  `koanf:"rate_limit_per_second" validate:"gte=0"`
}

// DatabaseConfig configures the PostgreSQL pool. Lifetimes are in seconds.
type DatabaseConfig struct {
	Host            string `koanf:"host" validate:"required"`
	Port            int    `koanf:"port" validate:"required"`
	User            string `koanf:"user" validate:"required"`
	Password        string `koanf:"password" validate:"required"`
	Name            string `koanf:"name" validate:"required"`
	SSLMode         string `koanf:"ssl_mode" validate:"required"`
	MaxOpenConns    int    `koanf:"max_open_conns" validate:"required"`
	MaxIdleConns    int    `koanf:"max_idle_conns" validate:"required"`
	ConnMaxLifetime int    `koanf:"conn_max_lifetime" validate:"required"`
	ConnMaxIdleTime int    `koanf:"conn_max_idle_time" validate:"required"`
}

// DSN renders the connection settings as a postgres:// URL. The password
// is escaped so characters like '@' or ':' survive.
func (c DatabaseConfig) DSN() string {
	hostPort := net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
	return fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=%s",
		c.User,
		url.QueryEscape(c.Password),
		hostPort,
		c.Name,
		c.SSLMode,
	)
}

// RedisConfig points at the Redis used by the vet cache and asynq.
type RedisConfig struct {
	Address string `koanf:"address" validate:"required"`
}

// AuthConfig holds the Clerk secret key.
type AuthConfig struct {
	SecretKey string `koanf:"secret_key" validate:"required"`
}

// IntegrationConfig holds third-party credentials. Without a Resend key the
// visit notifications are logged instead of sent.
type IntegrationConfig struct {
	ResendAPIKey string `koanf:"resend_api_key"`
	EmailFrom    string `koanf:"email_from" validate:"omitempty,email"`
	ClinicInbox  string `koanf:"clinic_inbox" validate:"omitempty,email"`
}

// CacheConfig controls the read-through caches. A zero TTL selects the default.
type CacheConfig struct {
	VetsTTL time.Duration `koanf:"vets_ttl" validate:"gte=0"`
}

const (
	defaultVetsTTL            = 10 * time.Minute
	defaultRateLimitPerSecond = 20
	defaultEmailFrom          = "petclinic@example.com"
)

// envKey maps PETCLINIC_SERVER__CORS_ALLOWED_ORIGINS to
// server.cors_allowed_origins.
func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "__", ".")
}

// LoadConfig reads, defaults and validates the configuration.
func LoadConfig() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("could not load env variables: %w", err)
	}

	mainConfig := &Config{}
	if err := k.Unmarshal("", mainConfig); err != nil {
		return nil, fmt.Errorf("could not unmarshal main config: %w", err)
	}

	// comma separated list in a single variable
	if origins := mainConfig.Server.CORSAllowedOrigins; len(origins) == 1 && strings.Contains(origins[0], ",") {
		mainConfig.Server.CORSAllowedOrigins = strings.Split(origins[0], ",")
	}

	if err := validator.New().Struct(mainConfig); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if mainConfig.Cache.VetsTTL == 0 {
		mainConfig.Cache.VetsTTL = defaultVetsTTL
	}
	if mainConfig.Server.RateLimitPerSecond == 0 {
		mainConfig.Server.RateLimitPerSecond = defaultRateLimitPerSecond
	}
	if mainConfig.Integration.EmailFrom == "" {
		mainConfig.Integration.EmailFrom = defaultEmailFrom
	}

	if mainConfig.Observability == nil {
		mainConfig.Observability = DefaultObservabilityConfig()
	}
	mainConfig.Observability.ServiceName = serviceName
	mainConfig.Observability.Environment = mainConfig.Primary.Env

	if err := mainConfig.Observability.Validate(); err != nil {
		return nil, fmt.Errorf("invalid observability config: %w", err)
	}

	return mainConfig, nil
}
