package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix namespaces every environment variable read by Load.
const EnvPrefix = "VELOMAX"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

// Hard-coded API hosts per environment; API.BaseURL overrides both.
var apiBaseURLs = map[string]string{
	AppEnvDev:  "https://api.dev.velomax.in",
	AppEnvProd: "https://api.velomax.in",
}

type Config struct {
	App       AppConfig
	API       APIConfig
	Retry     RetryConfig
	Store     StoreConfig
	Redis     RedisConfig
	Heartbeat HeartbeatConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.API.ensureBaseURL(cfg.App.Env); err != nil {
		return nil, err
	}
	if err := cfg.Store.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"VELOMAX_APP_ENV" default:"production"`
	LogLevel     string `envconfig:"VELOMAX_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"VELOMAX_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type APIConfig struct {
	BaseURL       string        `envconfig:"VELOMAX_API_BASE_URL"`
	Timeout       time.Duration `envconfig:"VELOMAX_API_TIMEOUT" default:"15s"`
	UploadTimeout time.Duration `envconfig:"VELOMAX_API_UPLOAD_TIMEOUT" default:"2m"`
	DefaultRegion string        `envconfig:"VELOMAX_API_DEFAULT_REGION" default:"IN"`
}

func (a *APIConfig) ensureBaseURL(appEnv string) error {
	if strings.TrimSpace(a.BaseURL) != "" {
		return nil
	}
	key := strings.ToLower(strings.TrimSpace(appEnv))
	base, ok := apiBaseURLs[key]
	if !ok {
		return fmt.Errorf("no API base URL known for environment %q", appEnv)
	}
	a.BaseURL = base
	return nil
}

type RetryConfig struct {
	MaxAttempts int           `envconfig:"VELOMAX_RETRY_MAX_ATTEMPTS" default:"3"`
	BaseDelay   time.Duration `envconfig:"VELOMAX_RETRY_BASE_DELAY" default:"1s"`
}

// Store backends.
const (
	StoreBackendFile   = "file"
	StoreBackendRedis  = "redis"
	StoreBackendMemory = "memory"
)

type StoreConfig struct {
	Backend string `envconfig:"VELOMAX_STORE_BACKEND" default:"file"`
	Path    string `envconfig:"VELOMAX_STORE_PATH"`
}

func (s StoreConfig) validate() error {
	switch strings.ToLower(strings.TrimSpace(s.Backend)) {
	case StoreBackendFile, StoreBackendRedis, StoreBackendMemory:
		return nil
	default:
		return fmt.Errorf("unknown store backend %q", s.Backend)
	}
}

type RedisConfig struct {
	URL          string        `envconfig:"VELOMAX_REDIS_URL"`
	Address      string        `envconfig:"VELOMAX_REDIS_ADDR"`
	Password     string        `envconfig:"VELOMAX_REDIS_PASSWORD"`
	DB           int           `envconfig:"VELOMAX_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"VELOMAX_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"VELOMAX_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"VELOMAX_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"VELOMAX_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"VELOMAX_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type HeartbeatConfig struct {
	Interval   time.Duration `envconfig:"VELOMAX_HEARTBEAT_INTERVAL" default:"30s"`
	ListenAddr string        `envconfig:"VELOMAX_HEARTBEAT_LISTEN_ADDR" default:":9180"`
	Status     string        `envconfig:"VELOMAX_HEARTBEAT_STATUS" default:"available"`
}
