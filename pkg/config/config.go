package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	OTP          OTPConfig
	FeatureFlags FeatureFlagsConfig
	Uploads      UploadsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"EVADMIN_APP_ENV" required:"true"`
	Port         string `envconfig:"EVADMIN_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"EVADMIN_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"EVADMIN_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"EVADMIN_DB_DSN"`
	Driver string `envconfig:"EVADMIN_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"EVADMIN_DB_HOST"`
	LegacyPort     int    `envconfig:"EVADMIN_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"EVADMIN_DB_USER"`
	LegacyPassword string `envconfig:"EVADMIN_DB_PASSWORD"`
	LegacyName     string `envconfig:"EVADMIN_DB_NAME"`
	LegacySSLMode  string `envconfig:"EVADMIN_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"EVADMIN_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"EVADMIN_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"EVADMIN_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"EVADMIN_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (d *DBConfig) ensureDSN() error {
	if d.DSN != "" {
		return nil
	}
	if d.LegacyHost == "" || d.LegacyUser == "" || d.LegacyName == "" {
		return fmt.Errorf("either EVADMIN_DB_DSN or host/user/name settings are required")
	}
	d.DSN = fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		url.QueryEscape(d.LegacyUser),
		url.QueryEscape(d.LegacyPassword),
		d.LegacyHost,
		d.LegacyPort,
		d.LegacyName,
		d.LegacySSLMode,
	)
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"EVADMIN_REDIS_URL" required:"true"`
	Address      string        `envconfig:"EVADMIN_REDIS_ADDR"`
	Password     string        `envconfig:"EVADMIN_REDIS_PASSWORD"`
	DB           int           `envconfig:"EVADMIN_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"EVADMIN_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"EVADMIN_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"EVADMIN_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"EVADMIN_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"EVADMIN_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"EVADMIN_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"EVADMIN_JWT_ISSUER" default:"evjoints-admin"`
	ExpirationMinutes int    `envconfig:"EVADMIN_JWT_EXPIRATION_MINUTES" default:"720"`
}

// AccessTokenTTL returns the access token lifetime.
func (j JWTConfig) AccessTokenTTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type OTPConfig struct {
	TTL    time.Duration `envconfig:"EVADMIN_OTP_TTL" default:"5m"`
	Digits int           `envconfig:"EVADMIN_OTP_DIGITS" default:"6"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"EVADMIN_AUTO_MIGRATE" default:"false"`
}

type UploadsConfig struct {
	// BaseDir anchors relative attachment paths stored in the database.
	BaseDir string `envconfig:"EVADMIN_UPLOADS_BASE_DIR" default:"."`
	// MaxBytes caps mass-upload file size.
	MaxBytes int64 `envconfig:"EVADMIN_UPLOADS_MAX_BYTES" default:"10485760"`
}
