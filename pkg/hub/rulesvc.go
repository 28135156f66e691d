package hub

import (
	"github.com/google/uuid"
	"go.uber.org/zap"
	"sensorhub/pkg/common"
	"sensorhub/pkg/models"
)

func (h *Hub) createRule(deviceID string, metric models.MetricType, op models.ComparisonOperator, threshold float64) (*models.AlertRule, error) {
	logger := common.GetLoggerWith(
		common.LoggerNameHubCore,
		zap.String(common.LoggerFieldHubCategory, common.LoggerCategoryRule),
	)

	if _, err := h.getDevice(deviceID); err != nil {
		return nil, err
	}

	rule := models.AlertRule{
		ID:         uuid.NewString(),
		DeviceID:   deviceID,
		MetricType: metric,
		Operator:   op,
		Threshold:  threshold,
		IsActive:   true,
	}

	if err := h.Db.Conn.Create(&rule).Error; err != nil {
		return nil, err
	}

	logger.Info("Alert rule created", zap.Reflect("rule", rule))

	return &rule, nil
}

func (h *Hub) listRules() ([]models.AlertRule, error) {
	var rules []models.AlertRule
	err := h.Db.Conn.Find(&rules).Error
	return rules, err
}

type IRuleImpl struct {
	hub *Hub
}

func (ir *IRuleImpl) CreateRule(deviceID string, metric models.MetricType, op models.ComparisonOperator, threshold float64) (*models.AlertRule, error) {
	return ir.hub.createRule(deviceID, metric, op, threshold)
}

func (ir *IRuleImpl) ListRules() ([]models.AlertRule, error) {
	return ir.hub.listRules()
}

func (h *Hub) GetIRule() IRule {
	return &IRuleImpl{hub: h}
}
