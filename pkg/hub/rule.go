package hub

import (
	"math"

	"sensorhub/pkg/models"
)

// Tolerance for Equal comparisons; exact float equality is never used.
const equalityEpsilon = 1e-4

// EvaluateRule reports whether value breaches the rule's threshold. Unknown
// operators evaluate to false so a bad row can never fail open into
// spurious alerts.
func EvaluateRule(rule *models.AlertRule, value float64) bool {
	switch rule.Operator {
	case models.OperatorGreaterThan:
		return value > rule.Threshold
	case models.OperatorLessThan:
		return value < rule.Threshold
	case models.OperatorGreaterThanOrEqual:
		return value >= rule.Threshold
	case models.OperatorLessThanOrEqual:
		return value <= rule.Threshold
	case models.OperatorEqual:
		return math.Abs(value-rule.Threshold) < equalityEpsilon
	default:
		return false
	}
}

func OperatorSymbol(op models.ComparisonOperator) string {
	switch op {
	case models.OperatorGreaterThan:
		return ">"
	case models.OperatorLessThan:
		return "<"
	case models.OperatorGreaterThanOrEqual:
		return ">="
	case models.OperatorLessThanOrEqual:
		return "<="
	case models.OperatorEqual:
		return "=="
	default:
		return "?"
	}
}

// MetricValue selects the reading field a rule targets.
func MetricValue(reading *models.Reading, metric models.MetricType) float64 {
	if metric == models.MetricTypeTemperature {
		return reading.Temperature
	}
	return reading.Humidity
}
