package constvars

// Queue names shared by every pipeline stage. All queues are durable and
// consumed with manual acknowledgment.
const (
	QueueImageSubmission = "image-submission"
	QueueVitalsExtracted = "vitals-extracted"
	QueueAlert           = "alert"
	QueueError           = "error"
)

const (
	ServiceOCR          = "ocr-service"
	ServiceICU          = "icu-service"
	ServiceNotification = "notification-service"
)
