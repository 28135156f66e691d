package hub

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sensorhub/pkg/models"
)

func mustTime(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, value)
	require.NoError(t, err)
	return parsed
}

func TestEvaluateRule(t *testing.T) {
	cases := []struct {
		name      string
		op        models.ComparisonOperator
		threshold float64
		value     float64
		want      bool
	}{
		{"gt above", models.OperatorGreaterThan, 30, 35, true},
		{"gt equal", models.OperatorGreaterThan, 30, 30, false},
		{"gt below", models.OperatorGreaterThan, 30, 25, false},

		{"lt below", models.OperatorLessThan, 30, 25, true},
		{"lt equal", models.OperatorLessThan, 30, 30, false},
		{"lt above", models.OperatorLessThan, 30, 35, false},

		{"gte above", models.OperatorGreaterThanOrEqual, 30, 30.1, true},
		{"gte equal", models.OperatorGreaterThanOrEqual, 30, 30, true},
		{"gte below", models.OperatorGreaterThanOrEqual, 30, 29.9, false},

		{"lte below", models.OperatorLessThanOrEqual, 30, 29.9, true},
		{"lte equal", models.OperatorLessThanOrEqual, 30, 30, true},
		{"lte above", models.OperatorLessThanOrEqual, 30, 30.1, false},

		{"eq exact", models.OperatorEqual, 30, 30, true},
		{"eq within epsilon above", models.OperatorEqual, 30, 30.00005, true},
		{"eq within epsilon below", models.OperatorEqual, 30, 29.99995, true},
		{"eq outside epsilon", models.OperatorEqual, 30, 30.001, false},
		{"eq far off", models.OperatorEqual, 30, 25, false},

		{"unknown operator never fires", models.ComparisonOperator("Approximately"), 30, 30, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rule := &models.AlertRule{Operator: tc.op, Threshold: tc.threshold}
			assert.Equal(t, tc.want, EvaluateRule(rule, tc.value))
		})
	}
}

func TestOperatorSymbol(t *testing.T) {
	assert.Equal(t, ">", OperatorSymbol(models.OperatorGreaterThan))
	assert.Equal(t, "<", OperatorSymbol(models.OperatorLessThan))
	assert.Equal(t, ">=", OperatorSymbol(models.OperatorGreaterThanOrEqual))
	assert.Equal(t, "<=", OperatorSymbol(models.OperatorLessThanOrEqual))
	assert.Equal(t, "==", OperatorSymbol(models.OperatorEqual))
	assert.Equal(t, "?", OperatorSymbol(models.ComparisonOperator("Approximately")))
}

func TestMetricValue(t *testing.T) {
	reading := &models.Reading{Temperature: 21.5, Humidity: 55}

	assert.Equal(t, 21.5, MetricValue(reading, models.MetricTypeTemperature))
	assert.Equal(t, 55.0, MetricValue(reading, models.MetricTypeHumidity))
}

func TestReadingQueryValidate(t *testing.T) {
	cases := []struct {
		name    string
		query   ReadingQuery
		wantErr bool
	}{
		{"default limit", ReadingQuery{Limit: DefaultQueryLimit}, false},
		{"limit one", ReadingQuery{Limit: 1}, false},
		{"limit at max", ReadingQuery{Limit: MaxQueryLimit}, false},
		{"limit zero", ReadingQuery{Limit: 0}, true},
		{"limit negative", ReadingQuery{Limit: -5}, true},
		{"limit above max", ReadingQuery{Limit: MaxQueryLimit + 1}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.query.Validate()
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrValidation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestReadingQueryValidate_Window(t *testing.T) {
	earlier := mustTime(t, "2026-01-01T00:00:00Z")
	later := mustTime(t, "2026-01-02T00:00:00Z")

	ok := ReadingQuery{Limit: 10, From: &earlier, To: &later}
	assert.NoError(t, ok.Validate())

	same := ReadingQuery{Limit: 10, From: &earlier, To: &earlier}
	assert.NoError(t, same.Validate())

	inverted := ReadingQuery{Limit: 10, From: &later, To: &earlier}
	assert.ErrorIs(t, inverted.Validate(), ErrValidation)
}
