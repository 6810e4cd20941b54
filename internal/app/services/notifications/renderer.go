package notifications

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"vitalwatch-service/internal/app/models"
	"vitalwatch-service/internal/pkg/constvars"
	"vitalwatch-service/internal/pkg/dto/events"
)

var severityColors = map[string]string{
	constvars.SeverityCritical: "#dc3545",
	constvars.SeverityHigh:     "#fd7e14",
	constvars.SeverityMedium:   "#ffc107",
	constvars.SeverityLow:      "#28a745",
}

const defaultSeverityColor = "#6c757d"

type alertLine struct {
	Color   string
	Message string
}

type alertEmailData struct {
	BannerColor   string
	StatusLabel   string
	Greeting      string
	Message       string
	Alerts        []alertLine
	Vitals        []string
	CorrelationID string
	Timestamp     string
}

type errorEmailData struct {
	Service       string
	DataID        string
	UserID        string
	Error         string
	Message       string
	CorrelationID string
	Timestamp     string
}

var alertEmailTemplate = template.Must(template.New("alert").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; margin: 0; padding: 20px; background-color: #f4f4f4;">
  <div style="max-width: 600px; margin: 0 auto; background-color: #ffffff; border-radius: 8px; overflow: hidden;">
    <div style="background-color: {{.BannerColor}}; color: #ffffff; padding: 16px 24px;">
      <h2 style="margin: 0;">{{.StatusLabel}} Patient Alert</h2>
    </div>
    <div style="padding: 24px;">
      <p>Hello {{.Greeting}},</p>
      <p>{{.Message}}</p>
      <ul style="list-style: none; padding: 0;">
        {{range .Alerts}}<li style="padding: 8px 12px; margin: 4px 0; border-left: 4px solid {{.Color}}; background-color: #f8f9fa;">{{.Message}}</li>
        {{end}}
      </ul>
      {{if .Vitals}}<h4 style="margin-bottom: 4px;">Recorded vitals</h4>
      <ul>
        {{range .Vitals}}<li>{{.}}</li>
        {{end}}
      </ul>{{end}}
      <p style="color: #6c757d; font-size: 12px; margin-top: 24px;">
        Recorded at {{.Timestamp}}{{if .CorrelationID}} · ref {{.CorrelationID}}{{end}}
      </p>
    </div>
  </div>
</body>
</html>`))

var errorEmailTemplate = template.Must(template.New("error").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; margin: 0; padding: 20px; background-color: #f4f4f4;">
  <div style="max-width: 600px; margin: 0 auto; background-color: #ffffff; border-radius: 8px; overflow: hidden;">
    <div style="background-color: #fd7e14; color: #ffffff; padding: 16px 24px;">
      <h2 style="margin: 0;">Processing Error</h2>
    </div>
    <div style="padding: 24px;">
      <p>The <strong>{{.Service}}</strong> failed to process a submission.</p>
      {{if .Message}}<p>{{.Message}}</p>{{end}}
      <table style="border-collapse: collapse;">
        {{if .DataID}}<tr><td style="padding: 4px 12px 4px 0; color: #6c757d;">Submission</td><td>{{.DataID}}</td></tr>{{end}}
        {{if .UserID}}<tr><td style="padding: 4px 12px 4px 0; color: #6c757d;">User</td><td>{{.UserID}}</td></tr>{{end}}
        <tr><td style="padding: 4px 12px 4px 0; color: #6c757d;">Error</td><td>{{.Error}}</td></tr>
      </table>
      <p style="color: #6c757d; font-size: 12px; margin-top: 24px;">
        Reported at {{.Timestamp}}{{if .CorrelationID}} · ref {{.CorrelationID}}{{end}}
      </p>
    </div>
  </div>
</body>
</html>`))

func alertSubject(event events.AlertEvent) string {
	name := event.UserName
	if name == "" {
		name = "Patient"
	}
	return fmt.Sprintf("🚨 %s Health Alert - %s", strings.ToUpper(event.Status), name)
}

func errorSubject(event events.ErrorEvent) string {
	service := event.Service
	if service == "" {
		service = "System"
	}
	return fmt.Sprintf("🚨 Error Alert: %s", service)
}

func severityColor(severity string) string {
	if color, ok := severityColors[severity]; ok {
		return color
	}
	return defaultSeverityColor
}

func renderAlertEmail(event events.AlertEvent) (subject string, htmlBody string) {
	bannerColor := severityColor(constvars.SeverityHigh)
	statusLabel := "WARNING"
	if event.Status == constvars.StatusCritical {
		bannerColor = severityColor(constvars.SeverityCritical)
		statusLabel = "CRITICAL"
	}

	greeting := event.UserName
	if greeting == "" {
		greeting = "there"
	}

	alertLines := make([]alertLine, 0, len(event.Alerts))
	for _, alert := range event.Alerts {
		alertLines = append(alertLines, alertLine{
			Color:   severityColor(alert.Severity),
			Message: alert.Message,
		})
	}

	timestamp := event.Timestamp
	if timestamp.IsZero() {
		timestamp = time.Now().UTC()
	}

	data := alertEmailData{
		BannerColor:   bannerColor,
		StatusLabel:   statusLabel,
		Greeting:      greeting,
		Message:       event.Message,
		Alerts:        alertLines,
		Vitals:        formatVitals(event.Vitals),
		CorrelationID: event.CorrelationID,
		Timestamp:     timestamp.Format(time.RFC1123),
	}

	var body bytes.Buffer
	if err := alertEmailTemplate.Execute(&body, data); err != nil {
		return alertSubject(event), fmt.Sprintf("<p>%s</p>", template.HTMLEscapeString(event.Message))
	}
	return alertSubject(event), body.String()
}

func renderErrorEmail(event events.ErrorEvent) (subject string, htmlBody string) {
	timestamp := event.Timestamp
	if timestamp.IsZero() {
		timestamp = time.Now().UTC()
	}

	data := errorEmailData{
		Service:       event.Service,
		DataID:        event.DataID,
		UserID:        event.UserID,
		Error:         event.Error,
		Message:       event.Message,
		CorrelationID: event.CorrelationID,
		Timestamp:     timestamp.Format(time.RFC1123),
	}

	var body bytes.Buffer
	if err := errorEmailTemplate.Execute(&body, data); err != nil {
		return errorSubject(event), fmt.Sprintf("<p>%s</p>", template.HTMLEscapeString(event.Error))
	}
	return errorSubject(event), body.String()
}

func formatVitals(vitals models.Vitals) []string {
	lines := make([]string, 0, 5)
	if vitals.HeartRate != nil {
		lines = append(lines, fmt.Sprintf("Heart rate: %d bpm", *vitals.HeartRate))
	}
	if vitals.BloodPressure != nil {
		lines = append(lines, fmt.Sprintf("Blood pressure: %d/%d mmHg",
			vitals.BloodPressure.Systolic, vitals.BloodPressure.Diastolic))
	}
	if vitals.OxygenSaturation != nil {
		lines = append(lines, fmt.Sprintf("Oxygen saturation: %d%%", *vitals.OxygenSaturation))
	}
	if vitals.Temperature != nil {
		lines = append(lines, fmt.Sprintf("Temperature: %.1f", *vitals.Temperature))
	}
	if vitals.RespiratoryRate != nil {
		lines = append(lines, fmt.Sprintf("Respiratory rate: %d/min", *vitals.RespiratoryRate))
	}
	return lines
}
