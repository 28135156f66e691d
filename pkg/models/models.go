package models

import "time"

type MetricType string

const (
	MetricTypeTemperature MetricType = "Temperature"
	MetricTypeHumidity    MetricType = "Humidity"
)

type ComparisonOperator string

const (
	OperatorGreaterThan        ComparisonOperator = "GreaterThan"
	OperatorLessThan           ComparisonOperator = "LessThan"
	OperatorGreaterThanOrEqual ComparisonOperator = "GreaterThanOrEqual"
	OperatorLessThanOrEqual    ComparisonOperator = "LessThanOrEqual"
	OperatorEqual              ComparisonOperator = "Equal"
)

type Device struct {
	ID   string `gorm:"primaryKey"`
	Name string
	// optional, so pointers keep NULL distinguishable from empty
	Location   *string
	APIKeyHash *string `gorm:"uniqueIndex"`
	IsActive   bool
	CreatedAt  time.Time

	Readings   []Reading   `gorm:"foreignKey:DeviceID;constraint:OnDelete:CASCADE"`
	AlertRules []AlertRule `gorm:"foreignKey:DeviceID;constraint:OnDelete:CASCADE"`
}

type Reading struct {
	ID          string `gorm:"primaryKey"`
	DeviceID    string `gorm:"index"`
	Temperature float64
	Humidity    float64
	Timestamp   time.Time
}

type AlertRule struct {
	ID         string     `gorm:"primaryKey"`
	DeviceID   string     `gorm:"index"`
	MetricType MetricType `gorm:"type:varchar(20);check:metric_type IN ('Temperature','Humidity')"`
	Operator   ComparisonOperator `gorm:"type:varchar(30)"`
	Threshold  float64
	IsActive   bool

	Alerts []Alert `gorm:"foreignKey:AlertRuleID;constraint:OnDelete:CASCADE"`
}

type Alert struct {
	ID             string `gorm:"primaryKey"`
	AlertRuleID    string `gorm:"index"`
	DeviceID       string `gorm:"index"`
	Value          float64
	Message        string
	CreatedAt      time.Time
	IsAcknowledged bool
}

type User struct {
	ID           string `gorm:"primaryKey"`
	Email        string `gorm:"uniqueIndex"`
	PasswordHash string
	Role         string
	CreatedAt    time.Time
}
