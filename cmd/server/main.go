package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"sensorhub/pkg/auth"
	"sensorhub/pkg/common"
	"sensorhub/pkg/db"
	hubHttp "sensorhub/pkg/http"
	"sensorhub/pkg/hub"
)

func main() {
	var err error

	err = godotenv.Load()
	if err != nil {
		log.Fatal("Error loading .env file, copy .env.example to .env first if in development")
	}

	var dbInstance *db.DB
	hubDbType := os.Getenv(common.EnvKeyHubDBType)
	switch hubDbType {
	case "file":
		dbInstance = db.GetInstance(db.UseSqliteDialector())
	case "memory":
		dbInstance = db.GetInstance(db.UseMemorySqliteDialector())
	default:
		log.Fatal("Unknown HUB_DB_TYPE: " + hubDbType)
	}

	httpHostPort := strings.TrimSpace(os.Getenv(common.EnvKeyHubHttpHostPort))

	jwtSecret := os.Getenv(common.EnvKeyHubJwtSecret)
	if jwtSecret == "" {
		log.Fatal("HUB_JWT_SECRET not set, refusing to issue unsigned tokens")
	}
	jwtIssuer := os.Getenv(common.EnvKeyHubJwtIssuer)
	if jwtIssuer == "" {
		jwtIssuer = "sensorhub"
	}
	jwtAudience := os.Getenv(common.EnvKeyHubJwtAudience)
	if jwtAudience == "" {
		jwtAudience = "sensorhub"
	}

	tokenTTL := auth.DefaultTokenTTL
	if raw := os.Getenv(common.EnvKeyHubJwtTTLHours); raw != "" {
		hours, err := strconv.Atoi(raw)
		if err != nil {
			log.Fatal("Invalid HUB_JWT_TTL_HOURS, should be an int value")
		}
		tokenTTL = time.Duration(hours) * time.Hour
	}

	var defaultRate float64
	var defaultBurst int64

	if defaultRate, err = strconv.ParseFloat(os.Getenv(common.EnvKeyHubDefaultRate), 64); err != nil {
		log.Fatal("Invalid HUB_DEFAULT_RATE, or not set in .env, should be a float64 value")
	}

	if defaultBurst, err = strconv.ParseInt(os.Getenv(common.EnvKeyHubDefaultBurst), 10, 64); err != nil {
		log.Fatal("Invalid HUB_DEFAULT_BURST, or not set in .env, should be an int value")
	}

	logger := common.GetLogger()

	hubCore := hub.Hub{
		Db: *dbInstance,
	}
	hubCore.WithServices(hub.ServiceOpts{
		Device:  hubCore.GetIDevice(),
		Reading: hubCore.GetIReading(),
		Rule:    hubCore.GetIRule(),
		Alert:   hubCore.GetIAlert(),
		User:    hubCore.GetIUser(),
	})

	if httpHostPort == "" {
		// fallback to default http port
		httpHostPort = ":1080"
	}

	rs := &hubHttp.RestfulServer{
		Server:           gin.Default(),
		Hub:              &hubCore,
		Tokens:           auth.NewTokenAuthenticator([]byte(jwtSecret), jwtIssuer, jwtAudience, tokenTTL),
		RateLimiterStore: hub.NewRateLimiterStore(rate.Limit(defaultRate), int(defaultBurst)),
	}
	rs.Setup()

	logger.Info("http server created with:",
		zap.String("default_limiter",
			fmt.Sprintf("{\"default_rate\": %v, \"default_burst\": %v}", defaultRate, defaultBurst)),
		zap.String("jwt_issuer", jwtIssuer),
		zap.Duration("token_ttl", tokenTTL))

	logger.Info("Starting HTTP server on: " + httpHostPort)
	if err := rs.Server.Run(httpHostPort); err != nil {
		log.Fatalf("http server failed to serve: %v", err)
	}
}
