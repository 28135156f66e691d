package hub

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"sensorhub/pkg/common"
	"sensorhub/pkg/metrics"
	"sensorhub/pkg/models"
)

type AlertFilter struct {
	DeviceID     *string
	Acknowledged *bool
	Limit        int
}

func (h *Hub) evaluateAndCreateAlerts(reading *models.Reading) ([]models.Alert, error) {
	logger := common.GetLoggerWith(
		common.LoggerNameHubCore,
		zap.String(common.LoggerFieldHubCategory, common.LoggerCategoryAlert),
	)

	var rules []models.AlertRule
	err := h.Db.Conn.
		Where("device_id = ? AND is_active = ?", reading.DeviceID, true).
		Find(&rules).Error
	if err != nil {
		return nil, err
	}

	now := time.Now()

	var alerts []models.Alert
	for _, rule := range rules {
		value := MetricValue(reading, rule.MetricType)
		if !EvaluateRule(&rule, value) {
			continue
		}

		alert := models.Alert{
			ID:          uuid.NewString(),
			AlertRuleID: rule.ID,
			DeviceID:    reading.DeviceID,
			Value:       value,
			Message: fmt.Sprintf("%s value %v %s %v",
				rule.MetricType, value, OperatorSymbol(rule.Operator), rule.Threshold),
			CreatedAt: now,
		}

		logger.Info("Alert found", zap.Reflect("alert", alert))

		alerts = append(alerts, alert)
	}

	if len(alerts) == 0 {
		return nil, nil
	}

	// single batch write: either every alert for this reading lands or none
	if err := h.Db.Conn.Create(&alerts).Error; err != nil {
		return nil, err
	}

	metrics.AlertsFiredTotal.Add(float64(len(alerts)))

	logger.Info("Alerts saved", zap.String("device_id", reading.DeviceID), zap.Int("count", len(alerts)))

	return alerts, nil
}

func (h *Hub) getAlerts(filter *AlertFilter) ([]models.Alert, error) {
	q := h.Db.Conn.Model(&models.Alert{})
	if filter != nil {
		if filter.DeviceID != nil {
			q = q.Where("device_id = ?", *filter.DeviceID)
		}
		if filter.Acknowledged != nil {
			q = q.Where("is_acknowledged = ?", *filter.Acknowledged)
		}
	}

	limit := DefaultQueryLimit
	if filter != nil && filter.Limit > 0 {
		limit = filter.Limit
	}

	var alerts []models.Alert
	err := q.Order("created_at desc").Limit(limit).Find(&alerts).Error
	return alerts, err
}

type IAlertImpl struct {
	hub *Hub
}

func (ia *IAlertImpl) EvaluateAndCreateAlerts(reading *models.Reading) ([]models.Alert, error) {
	return ia.hub.evaluateAndCreateAlerts(reading)
}

func (ia *IAlertImpl) GetAlerts(filter *AlertFilter) ([]models.Alert, error) {
	return ia.hub.getAlerts(filter)
}

func (h *Hub) GetIAlert() IAlert {
	return &IAlertImpl{hub: h}
}
