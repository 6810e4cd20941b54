package constvars

// Validation messages mapper
var CustomValidationErrorMessages = map[string]string{
	"required": "is required",
	"email":    "must be a valid email",
	"gte":      "must be greater than or equal to %s",
	"lte":      "must be less than or equal to %s",
	"oneof":    "must be one of [%s]",
}

// Tags that require parameter substitution
var TagsWithParams = map[string]bool{
	"gte":   true,
	"lte":   true,
	"oneof": true,
}

// Error messages for clients
const (
	ErrClientSomethingWrongWithApplication = "Something went wrong with the application, please try again later"
	ErrClientCannotProcessRequest          = "Cannot process request"
	ErrClientResourceNotFound              = "Resource not found"
)

// Error messages for developers
const (
	ErrDevCannotMarshalJSON  = "Failed to marshal JSON"
	ErrDevCannotParseJSON    = "Failed to parse JSON"
	ErrDevValidationFailed   = "Validation failed"
	ErrDevResourceNotFound   = "Requested resource does not exist"
	ErrDevServerDeadlineExceeded = "Server took too long to respond"

	ErrDevDBFailedToFindDocument     = "Failed to find document in database"
	ErrDevDBFailedToInsertDocument   = "Failed to insert document to database"
	ErrDevDBFailedToUpdateDocument   = "Failed to update document in database"
	ErrDevDBFailedToIterateDocuments = "Failed to iterate documents from database"

	ErrDevRedisGetData = "Failed to get data from redis"
	ErrDevRedisSetData = "Failed to set data to redis"

	ErrDevRabbitMQPublishMessage = "Failed to publish message to queue: %s"
	ErrDevRabbitMQConsumeQueue   = "Failed to consume messages from queue: %s"

	ErrDevMinioFailedToGetObject = "Failed to get object from bucket: %s"

	ErrDevOCREngineRequestFailed = "OCR engine request failed"
	ErrDevOCREngineTimeout       = "OCR engine did not respond before the deadline"

	ErrDevSMTPFailedToSendEmail = "Failed to send email via host: %s"
)
