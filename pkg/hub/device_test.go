package hub_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sensorhub/pkg/auth"
	"sensorhub/pkg/hub"
	"sensorhub/pkg/models"
)

func TestCreateAndGetDevice(t *testing.T) {
	h := newTestHub(t)

	location := "greenhouse-3"
	device, err := h.Device.CreateDevice("soil probe", &location)
	require.NoError(t, err)
	assert.NotEmpty(t, device.ID)
	assert.True(t, device.IsActive)
	assert.Nil(t, device.APIKeyHash)

	fetched, err := h.Device.GetDevice(device.ID)
	require.NoError(t, err)
	assert.Equal(t, device.ID, fetched.ID)
	assert.Equal(t, "soil probe", fetched.Name)
	require.NotNil(t, fetched.Location)
	assert.Equal(t, "greenhouse-3", *fetched.Location)

	devices, err := h.Device.ListDevices()
	require.NoError(t, err)
	assert.NotEmpty(t, devices)
}

func TestGetDevice_NotFound(t *testing.T) {
	h := newTestHub(t)

	_, err := h.Device.GetDevice("no-such-device")
	assert.ErrorIs(t, err, hub.ErrNotFound)
}

func TestProvisionAPIKey(t *testing.T) {
	h := newTestHub(t)

	device, err := h.Device.CreateDevice("gateway", nil)
	require.NoError(t, err)

	rawKey, err := h.Device.ProvisionAPIKey(device.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, rawKey)

	// only the digest lands in the database
	fetched, err := h.Device.GetDevice(device.ID)
	require.NoError(t, err)
	require.NotNil(t, fetched.APIKeyHash)
	assert.NotEqual(t, rawKey, *fetched.APIKeyHash)
	assert.True(t, auth.ValidateAPIKey(rawKey, *fetched.APIKeyHash))
}

func TestProvisionAPIKey_UnknownDevice(t *testing.T) {
	h := newTestHub(t)

	_, err := h.Device.ProvisionAPIKey("no-such-device")
	assert.ErrorIs(t, err, hub.ErrNotFound)
}

func TestAuthenticateKey(t *testing.T) {
	h := newTestHub(t)

	device, err := h.Device.CreateDevice("weather station", nil)
	require.NoError(t, err)
	rawKey, err := h.Device.ProvisionAPIKey(device.ID)
	require.NoError(t, err)

	principal, err := h.Device.AuthenticateKey(rawKey)
	require.NoError(t, err)
	assert.Equal(t, device.ID, principal.DeviceID)
	assert.Equal(t, "weather station", principal.Name)
}

func TestAuthenticateKey_Rejections(t *testing.T) {
	h := newTestHub(t)

	_, err := h.Device.AuthenticateKey("")
	assert.ErrorIs(t, err, hub.ErrUnauthenticated)

	_, err = h.Device.AuthenticateKey("   ")
	assert.ErrorIs(t, err, hub.ErrUnauthenticated)

	fabricated, err := auth.GenerateAPIKey()
	require.NoError(t, err)
	_, err = h.Device.AuthenticateKey(fabricated)
	assert.ErrorIs(t, err, hub.ErrUnauthenticated)
}

func TestAuthenticateKey_InactiveDevice(t *testing.T) {
	h := newTestHub(t)

	device, err := h.Device.CreateDevice("retired sensor", nil)
	require.NoError(t, err)
	rawKey, err := h.Device.ProvisionAPIKey(device.ID)
	require.NoError(t, err)

	err = h.Db.Conn.Model(&models.Device{}).
		Where("id = ?", device.ID).
		Update("is_active", false).Error
	require.NoError(t, err)

	_, err = h.Device.AuthenticateKey(rawKey)
	assert.ErrorIs(t, err, hub.ErrUnauthenticated)
}

func TestProvisionAPIKey_RegenerateInvalidatesOldKey(t *testing.T) {
	h := newTestHub(t)

	device, err := h.Device.CreateDevice("relay", nil)
	require.NoError(t, err)

	oldKey, err := h.Device.ProvisionAPIKey(device.ID)
	require.NoError(t, err)
	newKey, err := h.Device.ProvisionAPIKey(device.ID)
	require.NoError(t, err)
	assert.NotEqual(t, oldKey, newKey)

	_, err = h.Device.AuthenticateKey(oldKey)
	assert.ErrorIs(t, err, hub.ErrUnauthenticated)

	principal, err := h.Device.AuthenticateKey(newKey)
	require.NoError(t, err)
	assert.Equal(t, device.ID, principal.DeviceID)
}
