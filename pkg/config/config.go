package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	CORS         CORSConfig
	FeatureFlags FeatureFlagsConfig
	Orders       OrdersConfig
	Demand       DemandConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Orders.SequenceBackend {
	case SequenceBackendDB:
	case SequenceBackendRedis:
		if !c.Redis.Enabled() {
			return fmt.Errorf("%s=%s requires %s or %s", EnvOrderSequenceBackend, SequenceBackendRedis, EnvRedisURL, EnvRedisAddr)
		}
	default:
		return fmt.Errorf("unsupported %s %q", EnvOrderSequenceBackend, c.Orders.SequenceBackend)
	}
	if c.FeatureFlags.Idempotency && !c.Redis.Enabled() {
		return fmt.Errorf("%s requires %s or %s", EnvFeatureIdempotency, EnvRedisURL, EnvRedisAddr)
	}
	return nil
}

// NeedsRedis reports whether any enabled feature depends on Redis.
func (c *Config) NeedsRedis() bool {
	return c.Orders.SequenceBackend == SequenceBackendRedis || c.FeatureFlags.Idempotency
}

type AppConfig struct {
	Env             string        `envconfig:"GROCER_APP_ENV" required:"true"`
	Port            string        `envconfig:"GROCER_APP_PORT" default:"4000"`
	LogLevel        string        `envconfig:"GROCER_LOG_LEVEL" default:"info"`
	LogWarnStack    bool          `envconfig:"GROCER_LOG_WARN_STACK" default:"false"`
	ReadTimeout     time.Duration `envconfig:"GROCER_HTTP_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"GROCER_HTTP_WRITE_TIMEOUT" default:"15s"`
	ShutdownTimeout time.Duration `envconfig:"GROCER_HTTP_SHUTDOWN_TIMEOUT" default:"10s"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd) || strings.EqualFold(a.Env, "production")
}

type DBConfig struct {
	DSN    string `envconfig:"GROCER_DB_DSN"`
	Driver string `envconfig:"GROCER_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"GROCER_DB_HOST"`
	LegacyPort     int    `envconfig:"GROCER_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"GROCER_DB_USER"`
	LegacyPassword string `envconfig:"GROCER_DB_PASSWORD"`
	LegacyName     string `envconfig:"GROCER_DB_NAME"`
	LegacySSLMode  string `envconfig:"GROCER_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"GROCER_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"GROCER_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"GROCER_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"GROCER_DB_CONN_MAX_IDLE_TIME" default:"10m"`

	SlowQueryThreshold time.Duration `envconfig:"GROCER_DB_SLOW_QUERY_THRESHOLD" default:"200ms"`
}

type RedisConfig struct {
	URL          string        `envconfig:"GROCER_REDIS_URL"`
	Address      string        `envconfig:"GROCER_REDIS_ADDR"`
	Password     string        `envconfig:"GROCER_REDIS_PASSWORD"`
	DB           int           `envconfig:"GROCER_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"GROCER_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"GROCER_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"GROCER_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"GROCER_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"GROCER_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a Redis endpoint was configured.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

type JWTConfig struct {
	Secret            string `envconfig:"GROCER_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"GROCER_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"GROCER_JWT_EXPIRATION_MINUTES" default:"1440"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"GROCER_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"GROCER_AUTO_MIGRATE" default:"false"`
	Idempotency bool `envconfig:"GROCER_FEATURE_IDEMPOTENCY" default:"false"`
}

type OrdersConfig struct {
	SequenceBackend string `envconfig:"GROCER_ORDER_SEQUENCE_BACKEND" default:"db"`
	SequenceName    string `envconfig:"GROCER_ORDER_SEQUENCE_NAME" default:"order_number"`
}

type DemandConfig struct {
	MinHistoryDays int `envconfig:"GROCER_DEMAND_MIN_HISTORY_DAYS" default:"14"`
	SyntheticDays  int `envconfig:"GROCER_DEMAND_SYNTHETIC_DAYS" default:"30"`
	DefaultHorizon int `envconfig:"GROCER_DEMAND_DEFAULT_HORIZON" default:"7"`
	MaxHorizon     int `envconfig:"GROCER_DEMAND_MAX_HORIZON" default:"30"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
