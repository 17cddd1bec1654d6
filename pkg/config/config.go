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
	Kiosk        KioskConfig
	LoginCode    LoginCodeConfig
	Mapbox       MapboxConfig
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
	Env          string `envconfig:"KIOSK_APP_ENV" required:"true"`
	Port         string `envconfig:"KIOSK_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"KIOSK_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"KIOSK_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"KIOSK_DB_DSN"`
	Driver string `envconfig:"KIOSK_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"KIOSK_DB_HOST"`
	Port     int    `envconfig:"KIOSK_DB_PORT" default:"5432"`
	User     string `envconfig:"KIOSK_DB_USER"`
	Password string `envconfig:"KIOSK_DB_PASSWORD"`
	Name     string `envconfig:"KIOSK_DB_NAME"`
	SSLMode  string `envconfig:"KIOSK_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"KIOSK_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"KIOSK_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"KIOSK_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"KIOSK_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"KIOSK_REDIS_URL"`
	Address      string        `envconfig:"KIOSK_REDIS_ADDR"`
	Password     string        `envconfig:"KIOSK_REDIS_PASSWORD"`
	DB           int           `envconfig:"KIOSK_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"KIOSK_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"KIOSK_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"KIOSK_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"KIOSK_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"KIOSK_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"KIOSK_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"KIOSK_JWT_ISSUER" default:"kiosk-backend"`
	ExpirationMinutes int    `envconfig:"KIOSK_JWT_EXPIRATION_MINUTES" default:"240"`
}

// KioskConfig groups the kiosk flow tunables. Tax rate and countdown have
// per-store overrides; these are the platform defaults.
type KioskConfig struct {
	DefaultTaxRate         string        `envconfig:"KIOSK_DEFAULT_TAX_RATE" default:"0.13"`
	CountdownSeconds       int           `envconfig:"KIOSK_CONFIRMATION_COUNTDOWN_SECONDS" default:"30"`
	SessionTTL             time.Duration `envconfig:"KIOSK_SESSION_TTL" default:"2h"`
	RecommendationCount    int           `envconfig:"KIOSK_RECOMMENDATION_COUNT" default:"6"`
	FilterUniverseLimit    int           `envconfig:"KIOSK_FILTER_UNIVERSE_LIMIT" default:"1000"`
	CheckoutIdempotencyTTL time.Duration `envconfig:"KIOSK_CHECKOUT_IDEMPOTENCY_TTL" default:"168h"`
}

type LoginCodeConfig struct {
	ArgonMemoryKB    int `envconfig:"KIOSK_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"KIOSK_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"KIOSK_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"KIOSK_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"KIOSK_ARGON_KEY_LEN" default:"32"`
}

type MapboxConfig struct {
	AccessToken string `envconfig:"KIOSK_MAPBOX_ACCESS_TOKEN"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"KIOSK_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	values := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range requiredDBEnvVars {
		if values[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
