package config

// EnvPrefix is the envconfig prefix shared by every FSE_* variable.
const EnvPrefix = "FSE"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "FSE_DB_DSN"
	EnvDBHost = "FSE_DB_HOST"
	EnvDBUser = "FSE_DB_USER"
	EnvDBName = "FSE_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
