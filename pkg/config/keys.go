package config

// EnvPrefix is the envconfig prefix shared by every variable below.
const EnvPrefix = "marketcart"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv   = "MARKETCART_APP_ENV"
	EnvPort     = "MARKETCART_APP_PORT"
	EnvLogLevel = "MARKETCART_LOG_LEVEL"

	EnvDBDSN      = "MARKETCART_DB_DSN"
	EnvDBHost     = "MARKETCART_DB_HOST"
	EnvDBPort     = "MARKETCART_DB_PORT"
	EnvDBUser     = "MARKETCART_DB_USER"
	EnvDBPassword = "MARKETCART_DB_PASSWORD"
	EnvDBName     = "MARKETCART_DB_NAME"
	EnvDBSSLMode  = "MARKETCART_DB_SSLMODE"

	EnvRedisURL = "MARKETCART_REDIS_URL"

	EnvJWTSecret              = "MARKETCART_JWT_SECRET"
	EnvJWTIssuer              = "MARKETCART_JWT_ISSUER"
	EnvJWTExpMins             = "MARKETCART_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "MARKETCART_REFRESH_TOKEN_TTL_MINUTES"
)

// legacyDBEnvVars are the discrete connection variables that must all be
// present when MARKETCART_DB_DSN is not set.
var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
