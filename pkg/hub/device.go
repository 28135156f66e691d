package hub

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"sensorhub/pkg/auth"
	"sensorhub/pkg/common"
	"sensorhub/pkg/models"
)

func (h *Hub) createDevice(name string, location *string) (*models.Device, error) {
	logger := common.GetLoggerWith(
		common.LoggerNameHubCore,
		zap.String(common.LoggerFieldHubCategory, common.LoggerCategoryDevice),
	)

	device := models.Device{
		ID:        uuid.NewString(),
		Name:      name,
		Location:  location,
		IsActive:  true,
		CreatedAt: time.Now(),
	}

	if err := h.Db.Conn.Create(&device).Error; err != nil {
		return nil, err
	}

	logger.Info("Device created", zap.String("device_id", device.ID), zap.String("name", device.Name))

	return &device, nil
}

func (h *Hub) listDevices() ([]models.Device, error) {
	var devices []models.Device
	err := h.Db.Conn.Order("created_at desc").Find(&devices).Error
	return devices, err
}

func (h *Hub) getDevice(deviceID string) (*models.Device, error) {
	var device models.Device
	if err := h.Db.Conn.First(&device, "id = ?", deviceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &device, nil
}

// provisionAPIKey generates a fresh key for the device and persists only
// its digest. The raw key is returned exactly once; regenerating replaces
// the stored digest and invalidates the previous key.
func (h *Hub) provisionAPIKey(deviceID string) (string, error) {
	logger := common.GetLoggerWith(
		common.LoggerNameHubCore,
		zap.String(common.LoggerFieldHubCategory, common.LoggerCategoryDevice),
	)

	device, err := h.getDevice(deviceID)
	if err != nil {
		return "", err
	}

	rawKey, err := auth.GenerateAPIKey()
	if err != nil {
		return "", err
	}
	hash := auth.HashAPIKey(rawKey)

	err = h.Db.Conn.Model(&models.Device{}).
		Where("id = ?", device.ID).
		Update("api_key_hash", hash).Error
	if err != nil {
		return "", err
	}

	logger.Info("API key provisioned", zap.String("device_id", device.ID))

	return rawKey, nil
}

// authenticateKey resolves a raw device key to a device principal. A blank
// key and an unknown key both collapse to ErrUnauthenticated so the
// response can never become a key-guessing oracle.
func (h *Hub) authenticateKey(rawKey string) (*auth.DevicePrincipal, error) {
	if strings.TrimSpace(rawKey) == "" {
		return nil, ErrUnauthenticated
	}

	hash := auth.HashAPIKey(rawKey)

	var device models.Device
	err := h.Db.Conn.
		Where("api_key_hash = ? AND is_active = ?", hash, true).
		First(&device).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, err
	}

	return &auth.DevicePrincipal{DeviceID: device.ID, Name: device.Name}, nil
}

type IDeviceImpl struct {
	hub *Hub
}

func (id *IDeviceImpl) CreateDevice(name string, location *string) (*models.Device, error) {
	return id.hub.createDevice(name, location)
}

func (id *IDeviceImpl) ListDevices() ([]models.Device, error) {
	return id.hub.listDevices()
}

func (id *IDeviceImpl) GetDevice(deviceID string) (*models.Device, error) {
	return id.hub.getDevice(deviceID)
}

func (id *IDeviceImpl) ProvisionAPIKey(deviceID string) (string, error) {
	return id.hub.provisionAPIKey(deviceID)
}

func (id *IDeviceImpl) AuthenticateKey(rawKey string) (*auth.DevicePrincipal, error) {
	return id.hub.authenticateKey(rawKey)
}

func (h *Hub) GetIDevice() IDevice {
	return &IDeviceImpl{hub: h}
}
