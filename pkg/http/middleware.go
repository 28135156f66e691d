package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"sensorhub/pkg/auth"
	"sensorhub/pkg/common"
	"sensorhub/pkg/hub"
	"sensorhub/pkg/metrics"
)

const DeviceKeyHeader = "X-Device-Key"

const (
	ctxKeyPrincipal = "principal"
	ctxKeyDevice    = "device"
)

func PrincipalFrom(c *gin.Context) *auth.Principal {
	if v, ok := c.Get(ctxKeyPrincipal); ok {
		if p, ok := v.(*auth.Principal); ok {
			return p
		}
	}
	return nil
}

func DeviceFrom(c *gin.Context) *auth.DevicePrincipal {
	if v, ok := c.Get(ctxKeyDevice); ok {
		if d, ok := v.(*auth.DevicePrincipal); ok {
			return d
		}
	}
	return nil
}

func (rs *RestfulServer) ObserveRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())

		metrics.HTTPRequestsTotal.WithLabelValues(c.Request.Method, endpoint, status).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(c.Request.Method, endpoint, status).
			Observe(time.Since(start).Seconds())
	}
}

// RequireUser authenticates the bearer token and checks the given
// capability predicate against the resulting principal. Every token
// rejection is a uniform 401; an authenticated principal lacking the
// capability is a 403.
func (rs *RestfulServer) RequireUser(allowed func(*auth.Principal) bool) gin.HandlerFunc {
	logger := common.GetLoggerWith(
		common.LoggerNameRestfulServer,
		zap.String(common.LoggerFieldHubCategory, common.LoggerCategoryAuth),
	)

	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			metrics.AuthFailuresTotal.WithLabelValues("bearer").Inc()
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
			return
		}

		principal, err := rs.Tokens.Validate(token)
		if err != nil {
			// the cause stays in the log; the client only ever sees 401
			logger.Warn("Bearer token rejected", zap.Error(err))
			metrics.AuthFailuresTotal.WithLabelValues("bearer").Inc()
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
			return
		}

		if !allowed(principal) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}

		c.Set(ctxKeyPrincipal, principal)
		c.Next()
	}
}

// RequireDeviceKey authenticates the X-Device-Key header. A missing header
// means no credential was offered at all; since this route accepts only
// device keys, that still ends in the same uniform 401 as a bad key.
func (rs *RestfulServer) RequireDeviceKey() gin.HandlerFunc {
	logger := common.GetLoggerWith(
		common.LoggerNameRestfulServer,
		zap.String(common.LoggerFieldHubCategory, common.LoggerCategoryAuth),
	)

	return func(c *gin.Context) {
		values, present := c.Request.Header[DeviceKeyHeader]
		if !present || len(values) == 0 {
			logger.Warn("Device key absent", zap.Error(hub.ErrNoCredential))
			metrics.AuthFailuresTotal.WithLabelValues("device_key").Inc()
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
			return
		}

		device, err := rs.Hub.Device.AuthenticateKey(values[0])
		if err != nil {
			if errors.Is(err, hub.ErrUnauthenticated) {
				metrics.AuthFailuresTotal.WithLabelValues("device_key").Inc()
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
				return
			}
			logger.Error("Device key lookup failed", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.Set(ctxKeyDevice, device)
		c.Next()
	}
}
