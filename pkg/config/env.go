package config

// EnvPrefix is passed to envconfig.Process; individual fields spell out
// the full variable names so the prefix stays informational.
const EnvPrefix = "srisawat"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "SRISAWAT_DB_DSN"
	EnvDBHost = "SRISAWAT_DB_HOST"
	EnvDBUser = "SRISAWAT_DB_USER"
	EnvDBName = "SRISAWAT_DB_NAME"
)

var requiredDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
