package hub

import (
	"sensorhub/pkg/auth"
	"sensorhub/pkg/db"
	"sensorhub/pkg/models"
)

//go:generate mockgen -source=hub.go -destination=mocks/hub_mocks.go -package=mocks

type IDevice interface {
	CreateDevice(name string, location *string) (*models.Device, error)
	ListDevices() ([]models.Device, error)
	GetDevice(deviceID string) (*models.Device, error)
	ProvisionAPIKey(deviceID string) (string, error)
	AuthenticateKey(rawKey string) (*auth.DevicePrincipal, error)
}

type IReading interface {
	IngestReading(deviceID string, input *models.Reading) (*models.Reading, error)
	GetReadings(deviceID string, query *ReadingQuery) ([]models.Reading, error)
}

type IRule interface {
	CreateRule(deviceID string, metric models.MetricType, op models.ComparisonOperator, threshold float64) (*models.AlertRule, error)
	ListRules() ([]models.AlertRule, error)
}

type IAlert interface {
	EvaluateAndCreateAlerts(reading *models.Reading) ([]models.Alert, error)
	GetAlerts(filter *AlertFilter) ([]models.Alert, error)
}

type IUser interface {
	Register(email, password string) (*models.User, error)
	Authenticate(email, password string) (*models.User, error)
	AssignRole(userID string, role auth.Role) error
}

type Hub struct {
	Db      db.DB
	Device  IDevice
	Reading IReading
	Rule    IRule
	Alert   IAlert
	User    IUser
}

type ServiceOpts struct {
	Device  IDevice
	Reading IReading
	Rule    IRule
	Alert   IAlert
	User    IUser
}

func (h *Hub) WithServices(opts ServiceOpts) *Hub {
	if opts.Device != nil {
		h.Device = opts.Device
	}
	if opts.Reading != nil {
		h.Reading = opts.Reading
	}
	if opts.Rule != nil {
		h.Rule = opts.Rule
	}
	if opts.Alert != nil {
		h.Alert = opts.Alert
	}
	if opts.User != nil {
		h.User = opts.User
	}
	return h
}
