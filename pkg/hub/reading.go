package hub

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"sensorhub/pkg/common"
	"sensorhub/pkg/models"
)

// ingestReading is the ingestion pipeline after device authentication:
// persist the reading, then evaluate alert rules synchronously. The reading
// write and the alert batch write are separate transactions on purpose: an
// alert failure surfaces to the caller but never rolls back the already
// durable reading.
func (h *Hub) ingestReading(deviceID string, input *models.Reading) (*models.Reading, error) {
	logger := common.GetLoggerWith(
		common.LoggerNameHubCore,
		zap.String(common.LoggerFieldHubCategory, common.LoggerCategoryReading),
	)

	reading := models.Reading{
		ID:          uuid.NewString(),
		DeviceID:    deviceID,
		Temperature: input.Temperature,
		Humidity:    input.Humidity,
		Timestamp:   input.Timestamp,
	}
	if reading.Timestamp.IsZero() {
		reading.Timestamp = time.Now()
	}

	logger.Info("Received reading for device", zap.Reflect("reading", reading))

	if err := h.Db.Conn.Create(&reading).Error; err != nil {
		return nil, err
	}

	logger.Info("Reading stored", zap.String("reading_id", reading.ID), zap.String("device_id", deviceID))

	if h.Alert == nil {
		return &reading, fmt.Errorf("alert service not available")
	}

	if _, err := h.Alert.EvaluateAndCreateAlerts(&reading); err != nil {
		return &reading, err
	}

	return &reading, nil
}

func (h *Hub) getReadings(deviceID string, query *ReadingQuery) ([]models.Reading, error) {
	if query == nil {
		query = &ReadingQuery{Limit: DefaultQueryLimit}
	}
	if err := query.Validate(); err != nil {
		return nil, err
	}

	q := h.Db.Conn.Where("device_id = ?", deviceID)
	if query.From != nil {
		q = q.Where("timestamp >= ?", *query.From)
	}
	if query.To != nil {
		q = q.Where("timestamp <= ?", *query.To)
	}

	var readings []models.Reading
	err := q.Order("timestamp desc").Limit(query.Limit).Find(&readings).Error
	return readings, err
}

type IReadingImpl struct {
	hub *Hub
}

func (ir *IReadingImpl) IngestReading(deviceID string, input *models.Reading) (*models.Reading, error) {
	return ir.hub.ingestReading(deviceID, input)
}

func (ir *IReadingImpl) GetReadings(deviceID string, query *ReadingQuery) ([]models.Reading, error) {
	return ir.hub.getReadings(deviceID, query)
}

func (h *Hub) GetIReading() IReading {
	return &IReadingImpl{hub: h}
}
