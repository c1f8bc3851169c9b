package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "DERMALINK"

	AppEnvDev  = "development"
	AppEnvProd = "production"
)

// Development-only fallback secrets. Production deployments must override both;
// cmd/api warns loudly when either fallback is still active.
const (
	DevAccessTokenSecret  = "default-secret"
	DevRefreshTokenSecret = "default-refresh-secret"
)

type Config struct {
	App      AppConfig
	JWT      JWTConfig
	Password PasswordConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"DERMALINK_APP_ENV" default:"development"`
	Port         string `envconfig:"DERMALINK_APP_PORT" default:"3001"`
	LogLevel     string `envconfig:"DERMALINK_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"DERMALINK_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type JWTConfig struct {
	AccessSecret    string `envconfig:"DERMALINK_JWT_SECRET" default:"default-secret"`
	RefreshSecret   string `envconfig:"DERMALINK_REFRESH_TOKEN_SECRET" default:"default-refresh-secret"`
	AccessTTLHours  int    `envconfig:"DERMALINK_JWT_ACCESS_TTL_HOURS" default:"24"`
	RefreshTTLHours int    `envconfig:"DERMALINK_JWT_REFRESH_TTL_HOURS" default:"720"`
}

// AccessTokenTTL returns the access token lifetime (1 day unless overridden).
func (j JWTConfig) AccessTokenTTL() time.Duration {
	if j.AccessTTLHours <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(j.AccessTTLHours) * time.Hour
}

// RefreshTokenTTL returns the refresh token lifetime (30 days unless overridden).
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTTLHours <= 0 {
		return 720 * time.Hour
	}
	return time.Duration(j.RefreshTTLHours) * time.Hour
}

// UsesDevSecrets reports whether either signing secret is still the built-in fallback.
func (j JWTConfig) UsesDevSecrets() bool {
	return j.AccessSecret == DevAccessTokenSecret || j.RefreshSecret == DevRefreshTokenSecret
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"DERMALINK_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"DERMALINK_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"DERMALINK_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"DERMALINK_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"DERMALINK_ARGON_KEY_LEN" default:"32"`
}
