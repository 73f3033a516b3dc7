package config

// EnvPrefix is passed to envconfig; every field also declares its full
// variable name so lookups fall back to the explicit name.
const EnvPrefix = "GM"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

const (
	EnvAppEnv        = "GM_APP_ENV"
	EnvPort          = "GM_APP_PORT"
	EnvDBDSN         = "GM_DB_DSN"
	EnvDBDriver      = "GM_DB_DRIVER"
	EnvDBHost        = "GM_DB_HOST"
	EnvDBUser        = "GM_DB_USER"
	EnvDBName        = "GM_DB_NAME"
	EnvRedisURL      = "GM_REDIS_URL"
	EnvSessionSecret = "GM_SESSION_SECRET"
	EnvSessionTTL    = "GM_SESSION_TTL"
	EnvPageSize      = "GM_PAGE_SIZE"
	EnvMaxPageSize   = "GM_MAX_PAGE_SIZE"
	EnvCORSOrigins   = "GM_CORS_ORIGINS"

	EnvAPIURL          = "GM_API_URL"
	EnvStateDir        = "GM_STATE_DIR"
	EnvLatitude        = "GM_LATITUDE"
	EnvLongitude       = "GM_LONGITUDE"
	EnvHTTPTimeout     = "GM_HTTP_TIMEOUT"
	EnvLocationTimeout = "GM_LOCATION_TIMEOUT"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
