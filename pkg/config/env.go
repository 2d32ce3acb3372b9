package config

const EnvPrefix = "GROCER"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv               = "GROCER_APP_ENV"
	EnvPort                 = "GROCER_APP_PORT"
	EnvDBDSN                = "GROCER_DB_DSN"
	EnvDBHost               = "GROCER_DB_HOST"
	EnvDBUser               = "GROCER_DB_USER"
	EnvDBName               = "GROCER_DB_NAME"
	EnvRedisURL             = "GROCER_REDIS_URL"
	EnvRedisAddr            = "GROCER_REDIS_ADDR"
	EnvJWTSecret            = "GROCER_JWT_SECRET"
	EnvJWTIssuer            = "GROCER_JWT_ISSUER"
	EnvJWTExpMins           = "GROCER_JWT_EXPIRATION_MINUTES"
	EnvFeatureIdempotency   = "GROCER_FEATURE_IDEMPOTENCY"
	EnvOrderSequenceBackend = "GROCER_ORDER_SEQUENCE_BACKEND"
)

const (
	SequenceBackendDB    = "db"
	SequenceBackendRedis = "redis"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
