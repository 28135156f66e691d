package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
	"sensorhub/pkg/auth"
	"sensorhub/pkg/hub"
)

type RestfulServer struct {
	Server           *gin.Engine
	Hub              *hub.Hub
	Tokens           *auth.TokenAuthenticator
	RateLimiterStore *hub.RateLimiterStore
}

func (rs *RestfulServer) GetLimiter(deviceID string) *rate.Limiter {
	if rs.RateLimiterStore == nil {
		return nil
	} else {
		return rs.RateLimiterStore.GetLimiter(deviceID)
	}
}

func (rs *RestfulServer) CheckDeviceLimiter(deviceID string) bool {
	limiter := rs.GetLimiter(deviceID)
	if limiter == nil {
		return true
	}
	return limiter.Allow()
}

func (rs *RestfulServer) SetLimiter(deviceID string, deviceRate float64, deviceBurst int) {
	if rs.RateLimiterStore == nil {
		return
	}
	rs.RateLimiterStore.SetLimiter(deviceID, rate.Limit(deviceRate), deviceBurst)
}

func (rs *RestfulServer) Setup() {
	rs.Server.Use(rs.ObserveRequests())

	rs.Server.GET("/healthz", rs.HealthCheck)
	rs.Server.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authGroup := rs.Server.Group("/auth")
	{
		authGroup.POST("/register", rs.Register)
		authGroup.POST("/login", rs.Login)
		authGroup.POST("/assign-role", rs.RequireUser((*auth.Principal).CanAssignRoles), rs.AssignRole)
	}

	devices := rs.Server.Group("/devices", rs.RequireUser((*auth.Principal).CanManageDevices))
	{
		devices.POST("", rs.CreateDevice)
		devices.GET("", rs.GetDevices)
		devices.POST("/:device_id/api-key", rs.GenerateApiKey)
		devices.POST("/:device_id/limiter", rs.PostLimiter)
		devices.GET("/:device_id/readings/export", rs.ExportReadings)
	}

	rs.Server.GET("/devices/:device_id/readings",
		rs.RequireUser((*auth.Principal).CanViewReadings), rs.GetReadings)

	rs.Server.POST("/readings/ingest", rs.RequireDeviceKey(), rs.IngestReading)

	rules := rs.Server.Group("/alert-rules", rs.RequireUser((*auth.Principal).CanManageRules))
	{
		rules.POST("", rs.CreateAlertRule)
		rules.GET("", rs.GetAlertRules)
	}

	rs.Server.GET("/alerts", rs.RequireUser((*auth.Principal).CanViewAlerts), rs.GetAlerts)
}

func (rs *RestfulServer) HealthCheck(c *gin.Context) {
	c.JSON(200, gin.H{"status": "ok"})
}
