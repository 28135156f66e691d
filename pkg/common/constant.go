package common

const (
	EnvKeyGoEnv string = "GO_ENV"

	EnvKeyRunIntegrationTests string = "RUN_INTEGRATION_TESTS"

	EnvKeyHubDBType string = "HUB_DB_TYPE"
	EnvKeyHubDbPath string = "HUB_DB_PATH"

	EnvKeyHubHttpHostPort string = "HUB_HTTP_HOST_PORT"

	EnvKeyHubJwtSecret   string = "HUB_JWT_SECRET"
	EnvKeyHubJwtIssuer   string = "HUB_JWT_ISSUER"
	EnvKeyHubJwtAudience string = "HUB_JWT_AUDIENCE"
	EnvKeyHubJwtTTLHours string = "HUB_JWT_TTL_HOURS"

	EnvKeyHubDefaultRate  string = "HUB_DEFAULT_RATE"
	EnvKeyHubDefaultBurst string = "HUB_DEFAULT_BURST"

	LoggerNameHubCore       string = "hub_core"
	LoggerNameRestfulServer string = "restful_server"
	LoggerFieldHubCategory  string = "category"
	LoggerCategoryDevice    string = "device"
	LoggerCategoryReading   string = "reading"
	LoggerCategoryRule      string = "rule"
	LoggerCategoryAlert     string = "alert"
	LoggerCategoryUser      string = "user"
	LoggerCategoryAuth      string = "auth"
)
