package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	z "github.com/Oudwins/zog"
	"github.com/Oudwins/zog/zhttp"

	"sensorhub/pkg/common"
	"sensorhub/pkg/hub"
	"sensorhub/pkg/metrics"
	"sensorhub/pkg/models"
)

type DeviceResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Location  *string   `json:"location"`
	HasApiKey bool      `json:"hasApiKey"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

// the hash itself never leaves the server, only the fact that one exists
func toDeviceResponse(d models.Device) DeviceResponse {
	return DeviceResponse{
		ID:        d.ID,
		Name:      d.Name,
		Location:  d.Location,
		HasApiKey: d.APIKeyHash != nil && *d.APIKeyHash != "",
		IsActive:  d.IsActive,
		CreatedAt: d.CreatedAt,
	}
}

type CreateDeviceRequest struct {
	Name     string `json:"name"`
	Location string `json:"location"`
}

var createDeviceRequestSchema = z.Struct(z.Shape{
	"Name":     z.String().Min(1).Max(100).Required(),
	"Location": z.String().Max(200),
})

func (rs *RestfulServer) CreateDevice(c *gin.Context) {
	var req CreateDeviceRequest
	if err := createDeviceRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	var location *string
	if req.Location != "" {
		location = &req.Location
	}

	device, err := rs.Hub.Device.CreateDevice(req.Name, location)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusCreated, toDeviceResponse(*device))
}

func (rs *RestfulServer) GetDevices(c *gin.Context) {
	devices, err := rs.Hub.Device.ListDevices()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, common.Mapper(devices, toDeviceResponse))
}

type ApiKeyResponse struct {
	ApiKey  string `json:"apiKey"`
	Warning string `json:"warning"`
}

func (rs *RestfulServer) GenerateApiKey(c *gin.Context) {
	deviceID := c.Param("device_id")

	rawKey, err := rs.Hub.Device.ProvisionAPIKey(deviceID)
	if err != nil {
		if errors.Is(err, hub.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "device not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, ApiKeyResponse{
		ApiKey:  rawKey,
		Warning: "Store this key securely. It won't be shown again.",
	})
}

type LimiterRequest struct {
	Rate  float64 `json:"rate"`
	Burst int     `json:"burst"`
}

var limiterRequestSchema = z.Struct(z.Shape{
	"Rate":  z.Float64().Required(),
	"Burst": z.Int().Required(),
})

func (rs *RestfulServer) PostLimiter(c *gin.Context) {
	deviceID := c.Param("device_id")

	var req LimiterRequest
	if err := limiterRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	rs.SetLimiter(deviceID, req.Rate, req.Burst)

	c.Status(http.StatusOK)
}

type ReadingResponse struct {
	ID          string    `json:"id"`
	DeviceID    string    `json:"deviceId"`
	Temperature float64   `json:"temperature"`
	Humidity    float64   `json:"humidity"`
	Timestamp   time.Time `json:"timestamp"`
}

func toReadingResponse(r models.Reading) ReadingResponse {
	return ReadingResponse{
		ID:          r.ID,
		DeviceID:    r.DeviceID,
		Temperature: r.Temperature,
		Humidity:    r.Humidity,
		Timestamp:   r.Timestamp,
	}
}

type IngestReadingRequest struct {
	Temperature float64   `json:"temperature"`
	Humidity    float64   `json:"humidity"`
	Timestamp   time.Time `json:"timestamp"`
}

var ingestReadingRequestSchema = z.Struct(z.Shape{
	"Temperature": z.Float64().GTE(-100).LTE(100).Required(),
	"Humidity":    z.Float64().GTE(0).LTE(100).Required(),
	"Timestamp":   z.Time(),
})

func (rs *RestfulServer) IngestReading(c *gin.Context) {
	device := DeviceFrom(c)
	if device == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}

	if !rs.CheckDeviceLimiter(device.DeviceID) {
		c.Status(http.StatusTooManyRequests)
		return
	}

	var req IngestReadingRequest
	if err := ingestReadingRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		metrics.ReadingsIngestedTotal.WithLabelValues("rejected").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	reading, err := rs.Hub.Reading.IngestReading(device.DeviceID, &models.Reading{
		Temperature: req.Temperature,
		Humidity:    req.Humidity,
		Timestamp:   req.Timestamp,
	})
	if err != nil {
		metrics.ReadingsIngestedTotal.WithLabelValues("failed").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	metrics.ReadingsIngestedTotal.WithLabelValues("accepted").Inc()
	c.JSON(http.StatusOK, toReadingResponse(*reading))
}

func parseReadingQuery(c *gin.Context) (*hub.ReadingQuery, error) {
	query := &hub.ReadingQuery{Limit: hub.DefaultQueryLimit}

	if raw, ok := c.GetQuery("limit"); ok {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid limit %q", raw)
		}
		query.Limit = limit
	}
	if raw, ok := c.GetQuery("from"); ok {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, fmt.Errorf("invalid 'from' timestamp %q", raw)
		}
		query.From = &t
	}
	if raw, ok := c.GetQuery("to"); ok {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, fmt.Errorf("invalid 'to' timestamp %q", raw)
		}
		query.To = &t
	}

	return query, nil
}

func (rs *RestfulServer) GetReadings(c *gin.Context) {
	deviceID := c.Param("device_id")

	query, err := parseReadingQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := rs.Hub.Device.GetDevice(deviceID); err != nil {
		if errors.Is(err, hub.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "device not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	readings, err := rs.Hub.Reading.GetReadings(deviceID, query)
	if err != nil {
		if errors.Is(err, hub.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, common.Mapper(readings, toReadingResponse))
}

type AlertRuleResponse struct {
	ID         string                    `json:"id"`
	DeviceID   string                    `json:"deviceId"`
	MetricType models.MetricType         `json:"metricType"`
	Operator   models.ComparisonOperator `json:"operator"`
	Threshold  float64                   `json:"threshold"`
	IsActive   bool                      `json:"isActive"`
}

func toAlertRuleResponse(r models.AlertRule) AlertRuleResponse {
	return AlertRuleResponse{
		ID:         r.ID,
		DeviceID:   r.DeviceID,
		MetricType: r.MetricType,
		Operator:   r.Operator,
		Threshold:  r.Threshold,
		IsActive:   r.IsActive,
	}
}

type CreateAlertRuleRequest struct {
	DeviceID   string  `json:"deviceId"`
	MetricType string  `json:"metricType"`
	Operator   string  `json:"operator"`
	Threshold  float64 `json:"threshold"`
}

var createAlertRuleRequestSchema = z.Struct(z.Shape{
	"DeviceID": z.String().Required(),
	"MetricType": z.String().OneOf([]string{
		string(models.MetricTypeTemperature),
		string(models.MetricTypeHumidity),
	}).Required(),
	"Operator": z.String().OneOf([]string{
		string(models.OperatorGreaterThan),
		string(models.OperatorLessThan),
		string(models.OperatorGreaterThanOrEqual),
		string(models.OperatorLessThanOrEqual),
		string(models.OperatorEqual),
	}).Required(),
	"Threshold": z.Float64().Required(),
})

func (rs *RestfulServer) CreateAlertRule(c *gin.Context) {
	var req CreateAlertRuleRequest
	if err := createAlertRuleRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	rule, err := rs.Hub.Rule.CreateRule(
		req.DeviceID,
		models.MetricType(req.MetricType),
		models.ComparisonOperator(req.Operator),
		req.Threshold,
	)
	if err != nil {
		if errors.Is(err, hub.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "device not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusCreated, toAlertRuleResponse(*rule))
}

func (rs *RestfulServer) GetAlertRules(c *gin.Context) {
	rules, err := rs.Hub.Rule.ListRules()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, common.Mapper(rules, toAlertRuleResponse))
}

type AlertResponse struct {
	ID             string    `json:"id"`
	AlertRuleID    string    `json:"alertRuleId"`
	DeviceID       string    `json:"deviceId"`
	Value          float64   `json:"value"`
	Message        string    `json:"message"`
	CreatedAt      time.Time `json:"createdAt"`
	IsAcknowledged bool      `json:"isAcknowledged"`
}

func toAlertResponse(a models.Alert) AlertResponse {
	return AlertResponse{
		ID:             a.ID,
		AlertRuleID:    a.AlertRuleID,
		DeviceID:       a.DeviceID,
		Value:          a.Value,
		Message:        a.Message,
		CreatedAt:      a.CreatedAt,
		IsAcknowledged: a.IsAcknowledged,
	}
}

func (rs *RestfulServer) GetAlerts(c *gin.Context) {
	filter := &hub.AlertFilter{Limit: hub.DefaultQueryLimit}

	if raw, ok := c.GetQuery("deviceId"); ok {
		filter.DeviceID = &raw
	}
	if raw, ok := c.GetQuery("acknowledged"); ok {
		acknowledged, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid acknowledged flag"})
			return
		}
		filter.Acknowledged = &acknowledged
	}
	if raw, ok := c.GetQuery("limit"); ok {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		filter.Limit = limit
	}

	alerts, err := rs.Hub.Alert.GetAlerts(filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, common.Mapper(alerts, toAlertResponse))
}
