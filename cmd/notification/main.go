package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vitalwatch-service/internal/app/config"
	"vitalwatch-service/internal/app/drivers/database"
	"vitalwatch-service/internal/app/drivers/logger"
	"vitalwatch-service/internal/app/drivers/mailer"
	"vitalwatch-service/internal/app/drivers/messaging"
	"vitalwatch-service/internal/app/services/notifications"
	"vitalwatch-service/internal/app/services/shared/broker"
	"vitalwatch-service/internal/pkg/constvars"
	"vitalwatch-service/internal/pkg/dto/responses"
	"vitalwatch-service/internal/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
)

func main() {
	driverConfig := config.NewDriverConfig()
	internalConfig := config.NewInternalConfig()

	log := logger.NewLogrusLogger(internalConfig)
	zapLogger := logger.NewZapLogger(driverConfig, internalConfig)

	location, err := time.LoadLocation(internalConfig.App.Timezone)
	if err != nil {
		log.Fatalf("Error loading location: %v", err)
	}
	time.Local = location

	mongoDB := database.NewMongoDB(driverConfig)
	rabbitConn := messaging.NewRabbitMQ(driverConfig)
	smtpClient := mailer.NewSMTPClient(driverConfig)

	// the alert and error consumers each own a channel
	alertClient, err := broker.NewClient(rabbitConn, zapLogger, 1, constvars.QueueAlert)
	if err != nil {
		log.Fatalf("Failed to initialize alert broker client: %v", err)
	}
	errorClient, err := broker.NewClient(rabbitConn, zapLogger, 1, constvars.QueueError)
	if err != nil {
		log.Fatalf("Failed to initialize error broker client: %v", err)
	}

	notificationRepository := notifications.NewNotificationMongoRepository(mongoDB, driverConfig.MongoDB.DbName)
	emailSender := notifications.NewSMTPEmailSender(smtpClient)
	notificationUsecase := notifications.NewNotificationUsecase(
		notificationRepository,
		emailSender,
		internalConfig.Notification.DefaultRecipientEmail,
		internalConfig.Notification.RetryBatchSize,
		zapLogger,
	)
	notificationController := notifications.NewNotificationController(zapLogger, notificationUsecase)

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	go func() {
		if err := notifications.RunAlertConsumer(workerCtx, alertClient, notificationUsecase, zapLogger); err != nil && workerCtx.Err() == nil {
			log.Fatalf("Alert consumer stopped unexpectedly: %v", err)
		}
	}()
	go func() {
		if err := notifications.RunErrorConsumer(workerCtx, errorClient, notificationUsecase, zapLogger); err != nil && workerCtx.Err() == nil {
			log.Fatalf("Error consumer stopped unexpectedly: %v", err)
		}
	}()

	retryInterval := time.Duration(internalConfig.Notification.RetryIntervalInMinutes) * time.Minute
	go func() {
		ticker := time.NewTicker(retryInterval)
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				processed, err := notificationUsecase.RetryFailedNotifications(workerCtx)
				if err != nil {
					zapLogger.Error("retry sweep failed", zap.Error(err))
					continue
				}
				if processed > 0 {
					zapLogger.Info("retry sweep finished", zap.Int("processed", processed))
				}
			}
		}
	}()

	chiRouter := chi.NewRouter()
	chiRouter.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		utils.BuildSuccessResponse(w, constvars.StatusOK, "OK", responses.HealthCheck{
			Status:  "ok",
			Service: constvars.ServiceNotification,
		})
	})
	chiRouter.Get("/statistics", notificationController.GetDeliveryStatistics)
	chiRouter.Get("/users/{userId}/notifications", notificationController.GetUserNotifications)

	server := &http.Server{
		Addr:    internalConfig.Notification.ServicePort,
		Handler: chiRouter,
	}

	go func() {
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()
	log.Printf("Notification service listening on %s", internalConfig.Notification.ServicePort)

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	logrus.Println("Waiting for in-flight deliveries to finish..")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(internalConfig.App.ShutdownTimeoutInSeconds)*time.Second,
	)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	bootstrap := config.Bootstrap{
		MongoDB:        mongoDB,
		Logger:         zapLogger,
		RabbitMQ:       rabbitConn,
		InternalConfig: internalConfig,
		DriverConfig:   driverConfig,
		WorkerStop:     stopWorkers,
	}
	if err := bootstrap.Shutdown(shutdownCtx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}
