package vitals

import (
	"fmt"
	"time"

	"vitalwatch-service/internal/app/models"
	"vitalwatch-service/internal/pkg/constvars"
)

// Classification is the outcome of evaluating one set of vitals: the overall
// record status plus one alert per out-of-range field.
type Classification struct {
	Status string
	Alerts []models.Alert
}

// Classify evaluates each present field against its clinical thresholds.
// Absent fields are skipped, each field contributes at most one alert, and
// the overall status is critical if any field is critical, warning if any
// field warns, normal otherwise.
func Classify(vitals models.Vitals) Classification {
	now := time.Now().UTC()
	var alerts []models.Alert

	if vitals.HeartRate != nil {
		if alert := classifyHeartRate(*vitals.HeartRate, now); alert != nil {
			alerts = append(alerts, *alert)
		}
	}
	if vitals.BloodPressure != nil {
		if alert := classifyBloodPressure(*vitals.BloodPressure, now); alert != nil {
			alerts = append(alerts, *alert)
		}
	}
	if vitals.OxygenSaturation != nil {
		if alert := classifyOxygenSaturation(*vitals.OxygenSaturation, now); alert != nil {
			alerts = append(alerts, *alert)
		}
	}
	if vitals.Temperature != nil {
		if alert := classifyTemperature(*vitals.Temperature, now); alert != nil {
			alerts = append(alerts, *alert)
		}
	}
	if vitals.RespiratoryRate != nil {
		if alert := classifyRespiratoryRate(*vitals.RespiratoryRate, now); alert != nil {
			alerts = append(alerts, *alert)
		}
	}

	return Classification{Status: overallStatus(alerts), Alerts: alerts}
}

func overallStatus(alerts []models.Alert) string {
	status := constvars.StatusNormal
	for _, alert := range alerts {
		if alert.Severity == constvars.SeverityCritical {
			return constvars.StatusCritical
		}
		status = constvars.StatusWarning
	}
	return status
}

func classifyHeartRate(bpm int, at time.Time) *models.Alert {
	switch {
	case bpm < 40:
		return newAlert(constvars.AlertTypeHeartRate, constvars.SeverityCritical,
			fmt.Sprintf("Critically low heart rate: %d bpm", bpm), at)
	case bpm > 120:
		return newAlert(constvars.AlertTypeHeartRate, constvars.SeverityCritical,
			fmt.Sprintf("Critically high heart rate: %d bpm", bpm), at)
	case bpm < 60:
		return newAlert(constvars.AlertTypeHeartRate, constvars.SeverityMedium,
			fmt.Sprintf("Low heart rate: %d bpm", bpm), at)
	case bpm > 100:
		return newAlert(constvars.AlertTypeHeartRate, constvars.SeverityMedium,
			fmt.Sprintf("Elevated heart rate: %d bpm", bpm), at)
	}
	return nil
}

func classifyBloodPressure(bp models.BloodPressure, at time.Time) *models.Alert {
	switch {
	case bp.Systolic > 180 || bp.Diastolic > 120:
		return newAlert(constvars.AlertTypeBloodPressure, constvars.SeverityCritical,
			fmt.Sprintf("Hypertensive crisis: %d/%d mmHg", bp.Systolic, bp.Diastolic), at)
	case bp.Systolic > 140 || bp.Diastolic > 90:
		return newAlert(constvars.AlertTypeBloodPressure, constvars.SeverityHigh,
			fmt.Sprintf("High blood pressure: %d/%d mmHg", bp.Systolic, bp.Diastolic), at)
	case bp.Systolic < 90 || bp.Diastolic < 60:
		return newAlert(constvars.AlertTypeBloodPressure, constvars.SeverityHigh,
			fmt.Sprintf("Low blood pressure: %d/%d mmHg", bp.Systolic, bp.Diastolic), at)
	}
	return nil
}

func classifyOxygenSaturation(percent int, at time.Time) *models.Alert {
	switch {
	case percent < 90:
		return newAlert(constvars.AlertTypeOxygenSaturation, constvars.SeverityCritical,
			fmt.Sprintf("Critically low oxygen saturation: %d%%", percent), at)
	case percent < 95:
		return newAlert(constvars.AlertTypeOxygenSaturation, constvars.SeverityHigh,
			fmt.Sprintf("Low oxygen saturation: %d%%", percent), at)
	}
	return nil
}

// classifyTemperature treats readings of 50 and above as Fahrenheit and
// converts them to Celsius before applying thresholds.
func classifyTemperature(reading float64, at time.Time) *models.Alert {
	celsius := reading
	if reading >= 50 {
		celsius = (reading - 32) * 5 / 9
	}
	switch {
	case celsius > 39:
		return newAlert(constvars.AlertTypeTemperature, constvars.SeverityCritical,
			fmt.Sprintf("High fever: %.1f°C", celsius), at)
	case celsius < 35:
		return newAlert(constvars.AlertTypeTemperature, constvars.SeverityCritical,
			fmt.Sprintf("Hypothermia: %.1f°C", celsius), at)
	case celsius > 38:
		return newAlert(constvars.AlertTypeTemperature, constvars.SeverityMedium,
			fmt.Sprintf("Fever: %.1f°C", celsius), at)
	}
	return nil
}

func classifyRespiratoryRate(perMinute int, at time.Time) *models.Alert {
	switch {
	case perMinute < 8:
		return newAlert(constvars.AlertTypeRespiratoryRate, constvars.SeverityCritical,
			fmt.Sprintf("Critically low respiratory rate: %d/min", perMinute), at)
	case perMinute > 25:
		return newAlert(constvars.AlertTypeRespiratoryRate, constvars.SeverityCritical,
			fmt.Sprintf("Critically high respiratory rate: %d/min", perMinute), at)
	case perMinute < 12:
		return newAlert(constvars.AlertTypeRespiratoryRate, constvars.SeverityMedium,
			fmt.Sprintf("Low respiratory rate: %d/min", perMinute), at)
	case perMinute > 20:
		return newAlert(constvars.AlertTypeRespiratoryRate, constvars.SeverityMedium,
			fmt.Sprintf("Elevated respiratory rate: %d/min", perMinute), at)
	}
	return nil
}

func newAlert(alertType, severity, message string, at time.Time) *models.Alert {
	return &models.Alert{
		Type:      alertType,
		Message:   message,
		Severity:  severity,
		Timestamp: at,
	}
}
