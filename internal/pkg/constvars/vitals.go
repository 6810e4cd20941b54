package constvars

// Clinical status of a single reading. StatusError is reserved for processing
// failure and is never produced by classification itself.
const (
	StatusNormal   = "normal"
	StatusWarning  = "warning"
	StatusCritical = "critical"
	StatusError    = "error"
)

const (
	SeverityLow      = "low"
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

const (
	AlertTypeHeartRate        = "heartRate"
	AlertTypeBloodPressure    = "bloodPressure"
	AlertTypeOxygenSaturation = "oxygenSaturation"
	AlertTypeTemperature      = "temperature"
	AlertTypeRespiratoryRate  = "respiratoryRate"
)

const (
	NotificationTypeError = "error"
	NotificationTypeAlert = "alert"
	NotificationTypeInfo  = "info"
)

const (
	SubmissionTypeImage  = "image"
	SubmissionTypeDirect = "direct"
)

// RawTextDirectSubmission marks vitals-extracted events that were published
// directly by the ingestion gateway, bypassing OCR.
const RawTextDirectSubmission = "direct digital submission"
