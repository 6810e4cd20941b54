package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vitalwatch-service/internal/app/config"
	"vitalwatch-service/internal/app/drivers/logger"
	"vitalwatch-service/internal/app/drivers/messaging"
	"vitalwatch-service/internal/app/drivers/storage"
	"vitalwatch-service/internal/app/services/ocr"
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

	rabbitConn := messaging.NewRabbitMQ(driverConfig)
	minioClient := storage.NewMinio(driverConfig)

	imageStore := ocr.NewMinioImageStore(minioClient, driverConfig.Minio.BucketName)
	normalizer := ocr.NewGrayscaleNormalizer()
	engineClient := ocr.NewEngineClient(internalConfig.OCR, zapLogger)

	// each worker gets its own channel so one dead channel cannot stall the
	// whole pool
	factory := func(id string) (ocr.Runner, error) {
		client, err := broker.NewClient(rabbitConn, zapLogger, internalConfig.OCR.PrefetchCount,
			constvars.QueueImageSubmission,
			constvars.QueueVitalsExtracted,
			constvars.QueueError,
		)
		if err != nil {
			return nil, err
		}
		return ocr.NewWorker(id, client, imageStore, normalizer, engineClient, zapLogger), nil
	}

	pool := ocr.NewPool(internalConfig.OCR.WorkerCount, 5*time.Second, factory, zapLogger)
	pool.Start(context.Background())

	chiRouter := chi.NewRouter()
	chiRouter.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		utils.BuildSuccessResponse(w, constvars.StatusOK, "OK", responses.HealthCheck{
			Status:  "ok",
			Service: constvars.ServiceOCR,
		})
	})
	chiRouter.Get("/worker-status", func(w http.ResponseWriter, r *http.Request) {
		utils.BuildSuccessResponse(w, constvars.StatusOK, "OK", responses.WorkerStatus{
			Size: pool.Size(),
			Live: pool.Live(),
		})
	})

	server := &http.Server{
		Addr:    internalConfig.OCR.ServicePort,
		Handler: chiRouter,
	}

	go func() {
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()
	log.Printf("OCR worker service listening on %s with %d workers", internalConfig.OCR.ServicePort, pool.Size())

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	logrus.Println("Waiting for in-flight submissions to finish..")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(internalConfig.App.ShutdownTimeoutInSeconds)*time.Second,
	)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	bootstrap := config.Bootstrap{
		Logger:         zapLogger,
		RabbitMQ:       rabbitConn,
		InternalConfig: internalConfig,
		DriverConfig:   driverConfig,
		WorkerStop:     pool.Stop,
	}
	if err := bootstrap.Shutdown(shutdownCtx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}
