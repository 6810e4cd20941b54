package constvars

const (
	LoggingCorrelationIDKey  = "correlation_id"
	LoggingDataIDKey         = "data_id"
	LoggingUserIDKey         = "user_id"
	LoggingWorkerIDKey       = "worker_id"
	LoggingQueueKey          = "queue"
	LoggingStatusKey         = "status"
	LoggingNotificationIDKey = "notification_id"
	LoggingRecipientKey      = "recipient"
)
