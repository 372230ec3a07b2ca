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
	Billing      BillingConfig
	FeatureFlags FeatureFlagsConfig
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
	Env          string `envconfig:"FSE_APP_ENV" required:"true"`
	Port         string `envconfig:"FSE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"FSE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"FSE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"FSE_DB_DSN"`
	Driver string `envconfig:"FSE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"FSE_DB_HOST"`
	LegacyPort     int    `envconfig:"FSE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"FSE_DB_USER"`
	LegacyPassword string `envconfig:"FSE_DB_PASSWORD"`
	LegacyName     string `envconfig:"FSE_DB_NAME"`
	LegacySSLMode  string `envconfig:"FSE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"FSE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"FSE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"FSE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"FSE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"FSE_REDIS_URL"`
	Address      string        `envconfig:"FSE_REDIS_ADDR"`
	Password     string        `envconfig:"FSE_REDIS_PASSWORD"`
	DB           int           `envconfig:"FSE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"FSE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"FSE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"FSE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"FSE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"FSE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type BillingConfig struct {
	// RestockOnDelete controls whether deleting a bill returns the deducted
	// quantities to the stock ledger. Off by default: a voided bill usually
	// covers goods that already left the shop.
	RestockOnDelete bool `envconfig:"FSE_BILLING_RESTOCK_ON_DELETE" default:"false"`

	RecentCustomerLimit int `envconfig:"FSE_BILLING_RECENT_CUSTOMER_LIMIT" default:"25"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"FSE_AUTO_MIGRATE" default:"false"`
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
