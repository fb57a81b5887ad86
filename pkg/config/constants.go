package config

const (
	EnvPrefix = "INVENTORY"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv     = "INVENTORY_APP_ENV"
	EnvPort       = "INVENTORY_APP_PORT"
	EnvDBDSN      = "INVENTORY_DB_DSN"
	EnvDBHost     = "INVENTORY_DB_HOST"
	EnvDBUser     = "INVENTORY_DB_USER"
	EnvDBName     = "INVENTORY_DB_NAME"
	EnvRedisURL   = "INVENTORY_REDIS_URL"
	EnvJWTSecret  = "INVENTORY_JWT_SECRET"
	EnvJWTIssuer  = "INVENTORY_JWT_ISSUER"
	EnvJWTExpMins = "INVENTORY_JWT_EXPIRATION_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
