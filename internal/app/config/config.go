package config

import (
	"vitalwatch-service/internal/pkg/utils"

	"github.com/joho/godotenv"
)

func init() {
	godotenv.Load()
}

func NewDriverConfig() *DriverConfig {
	return &DriverConfig{
		MongoDB: MongoDB{
			Port:     utils.GetEnvString("MONGODB_PORT", "27017"),
			Host:     utils.GetEnvString("MONGODB_HOST", "localhost"),
			DbName:   utils.GetEnvString("MONGODB_DB_NAME", "vitalwatch"),
			Username: utils.GetEnvString("MONGODB_USERNAME", "defaultUsername"),
			Password: utils.GetEnvString("MONGODB_PASSWORD", "defaultPassword"),
		},
		Redis: Redis{
			Host:     utils.GetEnvString("REDIS_HOST", "localhost"),
			Port:     utils.GetEnvString("REDIS_PORT", "6379"),
			Password: utils.GetEnvString("REDIS_PASSWORD", ""),
		},
		Logger: Logger{
			Level:               utils.GetEnvString("LOGGER_LEVEL", "debug"),
			OutputFileName:      utils.GetEnvString("LOGGER_OUTPUT_FILENAME", "logger.log"),
			OutputErrorFileName: utils.GetEnvString("LOGGER_OUTPUT_ERROR_FILENAME", "logger_error.log"),
		},
		RabbitMQ: RabbitMQ{
			Port:     utils.GetEnvString("RABBITMQ_PORT", "5672"),
			Host:     utils.GetEnvString("RABBITMQ_HOST", "localhost"),
			Username: utils.GetEnvString("RABBITMQ_USERNAME", "defaultUsername"),
			Password: utils.GetEnvString("RABBITMQ_PASSWORD", "defaultPassword"),
		},
		Minio: Minio{
			Port:       utils.GetEnvString("MINIO_PORT", "9000"),
			Host:       utils.GetEnvString("MINIO_HOST", "localhost"),
			Username:   utils.GetEnvString("MINIO_USERNAME", "defaultUsername"),
			Password:   utils.GetEnvString("MINIO_PASSWORD", "defaultPassword"),
			BucketName: utils.GetEnvString("MINIO_BUCKET_NAME", "patient-images"),
			UseSSL:     utils.GetEnvBool("MINIO_USE_SSL", false),
		},
		SMTP: SMTP{
			Host:        utils.GetEnvString("SMTP_HOST", "smtp.gmail.com"),
			Port:        utils.GetEnvInt("SMTP_PORT", 587),
			Username:    utils.GetEnvString("SMTP_USERNAME", ""),
			Password:    utils.GetEnvString("SMTP_PASSWORD", ""),
			EmailSender: utils.GetEnvString("SMTP_EMAIL_SENDER", "noreply@hospital.com"),
		},
	}
}

func NewInternalConfig() *InternalConfig {
	return &InternalConfig{
		App: App{
			Env:                      utils.GetEnvString("APP_ENV", "development"),
			Timezone:                 utils.GetEnvString("APP_TIMEZONE", "UTC"),
			ShutdownTimeoutInSeconds: utils.GetEnvInt("APP_SHUTDOWN_TIMEOUT_IN_SECONDS", 10),
		},
		OCR: OCR{
			ServicePort:             utils.GetEnvString("OCR_SERVICE_PORT", ":3002"),
			WorkerCount:             utils.GetEnvInt("OCR_WORKER_COUNT", 3),
			PrefetchCount:           utils.GetEnvInt("OCR_PREFETCH_COUNT", 1),
			EngineBaseURL:           utils.GetEnvString("OCR_ENGINE_BASE_URL", "http://localhost:8884"),
			EngineTimeoutInSeconds:  utils.GetEnvInt("OCR_ENGINE_TIMEOUT_IN_SECONDS", 30),
			EngineRequestsPerSecond: utils.GetEnvFloat("OCR_ENGINE_REQUESTS_PER_SECOND", 2),
		},
		ICU: ICU{
			ServicePort: utils.GetEnvString("ICU_SERVICE_PORT", ":3003"),
		},
		Notification: Notification{
			ServicePort:            utils.GetEnvString("NOTIFICATION_SERVICE_PORT", ":3004"),
			DefaultRecipientEmail:  utils.GetEnvString("NOTIFICATION_DEFAULT_RECIPIENT_EMAIL", "admin@hospital.com"),
			RetryBatchSize:         utils.GetEnvInt("NOTIFICATION_RETRY_BATCH_SIZE", 10),
			RetryIntervalInMinutes: utils.GetEnvInt("NOTIFICATION_RETRY_INTERVAL_IN_MINUTES", 5),
		},
	}
}
