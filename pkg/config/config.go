package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/guiamercado/guiamercado-backend/pkg/pagination"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	Session       SessionConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	RateLimit     RateLimitConfig
	CORS          CORSConfig
	Pagination    PaginationConfig
	FeatureFlags  FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Pagination.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"GM_APP_ENV" required:"true"`
	Port         string `envconfig:"GM_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"GM_LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"GM_LOG_FORMAT" default:"json"`
	LogWarnStack bool   `envconfig:"GM_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev) || strings.EqualFold(a.Env, "development")
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd) || strings.EqualFold(a.Env, "production")
}

type DBConfig struct {
	DSN    string `envconfig:"GM_DB_DSN"`
	Driver string `envconfig:"GM_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"GM_DB_HOST"`
	LegacyPort     int    `envconfig:"GM_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"GM_DB_USER"`
	LegacyPassword string `envconfig:"GM_DB_PASSWORD"`
	LegacyName     string `envconfig:"GM_DB_NAME"`
	LegacySSLMode  string `envconfig:"GM_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"GM_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"GM_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"GM_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"GM_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// IsSQLite reports whether the configured driver is the embedded SQLite one.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(strings.TrimSpace(db.Driver), DriverSQLite)
}

type RedisConfig struct {
	URL          string        `envconfig:"GM_REDIS_URL" required:"true"`
	Address      string        `envconfig:"GM_REDIS_ADDR"`
	Password     string        `envconfig:"GM_REDIS_PASSWORD"`
	DB           int           `envconfig:"GM_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"GM_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"GM_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"GM_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"GM_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"GM_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// SessionConfig drives the signed session token carried in the session cookie.
type SessionConfig struct {
	Secret     string        `envconfig:"GM_SESSION_SECRET" required:"true"`
	Issuer     string        `envconfig:"GM_SESSION_ISSUER" default:"guiamercado"`
	TTL        time.Duration `envconfig:"GM_SESSION_TTL" default:"720h"`
	CookieName string        `envconfig:"GM_SESSION_COOKIE" default:"gm_session"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"GM_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"GM_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"GM_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"GM_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"GM_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow      time.Duration `envconfig:"GM_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit  int           `envconfig:"GM_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit     int           `envconfig:"GM_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	SignupWindow     time.Duration `envconfig:"GM_AUTH_RATE_LIMIT_SIGNUP_WINDOW" default:"5m"`
	SignupEmailLimit int           `envconfig:"GM_AUTH_RATE_LIMIT_SIGNUP_EMAIL_LIMIT" default:"3"`
	SignupIPLimit    int           `envconfig:"GM_AUTH_RATE_LIMIT_SIGNUP_IP_LIMIT" default:"20"`
}

// RateLimitConfig is the global per-client token bucket applied to every route.
type RateLimitConfig struct {
	Enabled           bool    `envconfig:"GM_RATE_LIMIT_ENABLED" default:"true"`
	RequestsPerSecond float64 `envconfig:"GM_RATE_LIMIT_RPS" default:"10"`
	Burst             int     `envconfig:"GM_RATE_LIMIT_BURST" default:"30"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"GM_CORS_ORIGINS" default:"http://localhost:3000"`
}

type PaginationConfig struct {
	PageSize    int `envconfig:"GM_PAGE_SIZE" default:"20"`
	MaxPageSize int `envconfig:"GM_MAX_PAGE_SIZE" default:"100"`
}

func (p PaginationConfig) validate() error {
	if p.PageSize <= 0 || p.MaxPageSize <= 0 {
		return fmt.Errorf("%s and %s must be positive", EnvPageSize, EnvMaxPageSize)
	}
	if p.PageSize > p.MaxPageSize {
		return fmt.Errorf("%s (%d) exceeds %s (%d)", EnvPageSize, p.PageSize, EnvMaxPageSize, p.MaxPageSize)
	}
	return nil
}

// Limits is the page size policy shared by the list endpoints.
func (p PaginationConfig) Limits() pagination.Limits {
	return pagination.Limits{Default: p.PageSize, Max: p.MaxPageSize}
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"GM_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if db.IsSQLite() {
		db.DSN = "file:guiamercado.db?_foreign_keys=1"
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
