package vitals

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"vitalwatch-service/internal/app/models"
	"vitalwatch-service/internal/pkg/constvars"
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }
func bpPtr(s, d int) *models.BloodPressure {
	return &models.BloodPressure{Systolic: s, Diastolic: d}
}

func TestClassify_HeartRateBoundaries(t *testing.T) {
	testCases := []struct {
		name             string
		heartRate        int
		expectedStatus   string
		expectedSeverity string
	}{
		{"39 bpm is critical", 39, constvars.StatusCritical, constvars.SeverityCritical},
		{"40 bpm is warning", 40, constvars.StatusWarning, constvars.SeverityMedium},
		{"59 bpm is warning", 59, constvars.StatusWarning, constvars.SeverityMedium},
		{"60 bpm is normal", 60, constvars.StatusNormal, ""},
		{"100 bpm is normal", 100, constvars.StatusNormal, ""},
		{"101 bpm is warning", 101, constvars.StatusWarning, constvars.SeverityMedium},
		{"120 bpm is warning", 120, constvars.StatusWarning, constvars.SeverityMedium},
		{"121 bpm is critical", 121, constvars.StatusCritical, constvars.SeverityCritical},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := Classify(models.Vitals{HeartRate: intPtr(tc.heartRate)})

			assert.Equal(t, tc.expectedStatus, result.Status)
			if tc.expectedSeverity == "" {
				assert.Empty(t, result.Alerts)
				return
			}
			assert.Len(t, result.Alerts, 1)
			assert.Equal(t, constvars.AlertTypeHeartRate, result.Alerts[0].Type)
			assert.Equal(t, tc.expectedSeverity, result.Alerts[0].Severity)
		})
	}
}

func TestClassify_BloodPressure(t *testing.T) {
	testCases := []struct {
		name             string
		systolic         int
		diastolic        int
		expectedStatus   string
		expectedSeverity string
	}{
		{"systolic over 180 is hypertensive crisis", 181, 70, constvars.StatusCritical, constvars.SeverityCritical},
		{"diastolic over 120 is hypertensive crisis", 150, 125, constvars.StatusCritical, constvars.SeverityCritical},
		{"systolic over 140 is high", 150, 85, constvars.StatusWarning, constvars.SeverityHigh},
		{"low pressure is high severity warning", 85, 55, constvars.StatusWarning, constvars.SeverityHigh},
		{"110 over 75 is normal", 110, 75, constvars.StatusNormal, ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := Classify(models.Vitals{BloodPressure: bpPtr(tc.systolic, tc.diastolic)})

			assert.Equal(t, tc.expectedStatus, result.Status)
			if tc.expectedSeverity == "" {
				assert.Empty(t, result.Alerts)
				return
			}
			assert.Len(t, result.Alerts, 1)
			assert.Equal(t, constvars.AlertTypeBloodPressure, result.Alerts[0].Type)
			assert.Equal(t, tc.expectedSeverity, result.Alerts[0].Severity)
		})
	}
}

func TestClassify_OxygenSaturation(t *testing.T) {
	t.Run("below 90 is critical", func(t *testing.T) {
		result := Classify(models.Vitals{OxygenSaturation: intPtr(89)})
		assert.Equal(t, constvars.StatusCritical, result.Status)
		assert.Equal(t, constvars.SeverityCritical, result.Alerts[0].Severity)
	})

	t.Run("below 95 is high severity warning", func(t *testing.T) {
		result := Classify(models.Vitals{OxygenSaturation: intPtr(92)})
		assert.Equal(t, constvars.StatusWarning, result.Status)
		assert.Equal(t, constvars.SeverityHigh, result.Alerts[0].Severity)
	})

	t.Run("96 percent is normal", func(t *testing.T) {
		result := Classify(models.Vitals{OxygenSaturation: intPtr(96)})
		assert.Equal(t, constvars.StatusNormal, result.Status)
		assert.Empty(t, result.Alerts)
	})
}

func TestClassify_Temperature(t *testing.T) {
	t.Run("celsius above 39 is critical", func(t *testing.T) {
		result := Classify(models.Vitals{Temperature: floatPtr(39.5)})

		assert.Equal(t, constvars.StatusCritical, result.Status)
		assert.Len(t, result.Alerts, 1)
		assert.Contains(t, result.Alerts[0].Message, "39.5")
	})

	t.Run("fahrenheit reading is converted before thresholds", func(t *testing.T) {
		// 101F is roughly 38.3C, a fever but not a high fever
		result := Classify(models.Vitals{Temperature: floatPtr(101)})

		assert.Equal(t, constvars.StatusWarning, result.Status)
		assert.Len(t, result.Alerts, 1)
		assert.Equal(t, constvars.SeverityMedium, result.Alerts[0].Severity)
		assert.Contains(t, result.Alerts[0].Message, "38.3")
	})

	t.Run("hypothermia is critical", func(t *testing.T) {
		result := Classify(models.Vitals{Temperature: floatPtr(34.2)})

		assert.Equal(t, constvars.StatusCritical, result.Status)
		assert.Contains(t, result.Alerts[0].Message, "Hypothermia")
	})
}

func TestClassify_RespiratoryRate(t *testing.T) {
	testCases := []struct {
		name           string
		rate           int
		expectedStatus string
	}{
		{"7 per minute is critical", 7, constvars.StatusCritical},
		{"10 per minute is warning", 10, constvars.StatusWarning},
		{"16 per minute is normal", 16, constvars.StatusNormal},
		{"22 per minute is warning", 22, constvars.StatusWarning},
		{"26 per minute is critical", 26, constvars.StatusCritical},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := Classify(models.Vitals{RespiratoryRate: intPtr(tc.rate)})
			assert.Equal(t, tc.expectedStatus, result.Status)
		})
	}
}

func TestClassify_EmptyVitalsIsNormal(t *testing.T) {
	result := Classify(models.Vitals{})

	assert.Equal(t, constvars.StatusNormal, result.Status)
	assert.Empty(t, result.Alerts)
}

func TestClassify_CriticalOutweighsWarnings(t *testing.T) {
	result := Classify(models.Vitals{
		HeartRate:        intPtr(110),
		OxygenSaturation: intPtr(88),
		Temperature:      floatPtr(38.5),
	})

	assert.Equal(t, constvars.StatusCritical, result.Status)
	assert.Len(t, result.Alerts, 3)
}

func TestClassify_AlertOrderFollowsFieldOrder(t *testing.T) {
	result := Classify(models.Vitals{
		HeartRate:       intPtr(130),
		BloodPressure:   bpPtr(190, 100),
		RespiratoryRate: intPtr(30),
	})

	assert.Len(t, result.Alerts, 3)
	assert.Equal(t, constvars.AlertTypeHeartRate, result.Alerts[0].Type)
	assert.Equal(t, constvars.AlertTypeBloodPressure, result.Alerts[1].Type)
	assert.Equal(t, constvars.AlertTypeRespiratoryRate, result.Alerts[2].Type)
}

func TestClassify_EachFieldContributesOneAlert(t *testing.T) {
	// 39 bpm is below both the warning and critical thresholds, only the
	// most severe band applies
	result := Classify(models.Vitals{HeartRate: intPtr(39)})

	assert.Len(t, result.Alerts, 1)
	assert.Equal(t, constvars.SeverityCritical, result.Alerts[0].Severity)
}
