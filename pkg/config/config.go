package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "SHOPKEEPER"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv    = "SHOPKEEPER_APP_ENV"
	EnvPort      = "SHOPKEEPER_APP_PORT"
	EnvDBDSN     = "SHOPKEEPER_DB_DSN"
	EnvDBHost    = "SHOPKEEPER_DB_HOST"
	EnvDBUser    = "SHOPKEEPER_DB_USER"
	EnvDBName    = "SHOPKEEPER_DB_NAME"
	EnvRedisURL  = "SHOPKEEPER_REDIS_URL"
	EnvJWTSecret = "SHOPKEEPER_JWT_SECRET"
	EnvJWTIssuer = "SHOPKEEPER_JWT_ISSUER"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	FeatureFlags FeatureFlagsConfig
	Outbox       OutboxConfig
	Sheets       SheetsConfig
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
	Env          string `envconfig:"SHOPKEEPER_APP_ENV" required:"true"`
	Port         string `envconfig:"SHOPKEEPER_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"SHOPKEEPER_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SHOPKEEPER_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"SHOPKEEPER_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"SHOPKEEPER_DB_DSN"`
	Driver string `envconfig:"SHOPKEEPER_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"SHOPKEEPER_DB_HOST"`
	LegacyPort     int    `envconfig:"SHOPKEEPER_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SHOPKEEPER_DB_USER"`
	LegacyPassword string `envconfig:"SHOPKEEPER_DB_PASSWORD"`
	LegacyName     string `envconfig:"SHOPKEEPER_DB_NAME"`
	LegacySSLMode  string `envconfig:"SHOPKEEPER_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SHOPKEEPER_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SHOPKEEPER_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SHOPKEEPER_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SHOPKEEPER_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SHOPKEEPER_REDIS_URL" required:"true"`
	Address      string        `envconfig:"SHOPKEEPER_REDIS_ADDR"`
	Password     string        `envconfig:"SHOPKEEPER_REDIS_PASSWORD"`
	DB           int           `envconfig:"SHOPKEEPER_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SHOPKEEPER_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SHOPKEEPER_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SHOPKEEPER_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SHOPKEEPER_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SHOPKEEPER_REDIS_WRITE_TIMEOUT" default:"5s"`

	IdempotencyTTL time.Duration `envconfig:"SHOPKEEPER_REDIS_IDEMPOTENCY_TTL" default:"24h"`
}

type JWTConfig struct {
	Secret string `envconfig:"SHOPKEEPER_JWT_SECRET" required:"true"`
	Issuer string `envconfig:"SHOPKEEPER_JWT_ISSUER" required:"true"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"SHOPKEEPER_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"SHOPKEEPER_AUTO_MIGRATE" default:"false"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"SHOPKEEPER_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"SHOPKEEPER_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"SHOPKEEPER_OUTBOX_MAX_ATTEMPTS" default:"10"`
}

type SheetsConfig struct {
	CredentialsJSON string `envconfig:"SHOPKEEPER_SHEETS_CREDENTIALS_JSON"`
	CredentialsFile string `envconfig:"SHOPKEEPER_SHEETS_CREDENTIALS_FILE"`
	AppendRange     string `envconfig:"SHOPKEEPER_SHEETS_APPEND_RANGE" default:"Sheet1!A:G"`
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
