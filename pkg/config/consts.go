package config

// EnvPrefix scopes every environment variable read by envconfig.
const EnvPrefix = "KIOSK"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "KIOSK_DB_DSN"
	EnvDBHost = "KIOSK_DB_HOST"
	EnvDBUser = "KIOSK_DB_USER"
	EnvDBName = "KIOSK_DB_NAME"
)

var requiredDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
