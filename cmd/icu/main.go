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
	"vitalwatch-service/internal/app/drivers/messaging"
	"vitalwatch-service/internal/app/services/icu"
	"vitalwatch-service/internal/app/services/shared/broker"
	"vitalwatch-service/internal/pkg/constvars"
	"vitalwatch-service/internal/pkg/dto/responses"
	"vitalwatch-service/internal/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
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
	redisClient := database.NewRedisClient(driverConfig)
	rabbitConn := messaging.NewRabbitMQ(driverConfig)

	brokerClient, err := broker.NewClient(rabbitConn, zapLogger, 1,
		constvars.QueueVitalsExtracted,
		constvars.QueueAlert,
		constvars.QueueError,
	)
	if err != nil {
		log.Fatalf("Failed to initialize broker client: %v", err)
	}

	recordRepository := icu.NewPatientMongoRepository(mongoDB, driverConfig.MongoDB.DbName)
	cacheRepository := icu.NewPatientCacheRedisRepository(redisClient)
	icuUsecase := icu.NewICUUsecase(recordRepository, cacheRepository, brokerClient, zapLogger)
	icuController := icu.NewICUController(zapLogger, icuUsecase)

	consumerCtx, stopConsumer := context.WithCancel(context.Background())
	go func() {
		if err := icu.RunConsumer(consumerCtx, brokerClient, icuUsecase, zapLogger); err != nil && consumerCtx.Err() == nil {
			log.Fatalf("Consumer stopped unexpectedly: %v", err)
		}
	}()

	chiRouter := chi.NewRouter()
	chiRouter.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		utils.BuildSuccessResponse(w, constvars.StatusOK, "OK", responses.HealthCheck{
			Status:  "ok",
			Service: constvars.ServiceICU,
		})
	})
	chiRouter.Get("/records/critical", icuController.ListCriticalRecords)
	chiRouter.Get("/records/{dataId}", icuController.GetRecordByDataID)
	chiRouter.Get("/users/{userId}/history", icuController.GetUserHistory)
	chiRouter.Get("/users/{userId}/statistics", icuController.GetUserStatistics)

	server := &http.Server{
		Addr:    internalConfig.ICU.ServicePort,
		Handler: chiRouter,
	}

	go func() {
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()
	log.Printf("ICU service listening on %s", internalConfig.ICU.ServicePort)

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	logrus.Println("Waiting for in-flight events to finish..")

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
		Redis:          redisClient,
		Logger:         zapLogger,
		RabbitMQ:       rabbitConn,
		InternalConfig: internalConfig,
		DriverConfig:   driverConfig,
		WorkerStop:     stopConsumer,
	}
	if err := bootstrap.Shutdown(shutdownCtx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}
