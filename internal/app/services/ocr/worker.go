package ocr

import (
	"context"
	"fmt"
	"time"

	"vitalwatch-service/internal/app/contracts"
	"vitalwatch-service/internal/pkg/constvars"
	"vitalwatch-service/internal/pkg/dto/events"
	"vitalwatch-service/internal/pkg/utils"

	"vitalwatch-service/internal/app/services/vitals"

	"github.com/goccy/go-json"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Transport is the slice of the broker client a worker needs. Each worker owns
// its own transport so a dead channel takes down only that worker.
type Transport interface {
	Publish(ctx context.Context, queue string, payload interface{}) error
	Consume(queue, consumerTag string) (<-chan amqp.Delivery, error)
	Close() error
}

// Worker consumes image submissions one at a time and publishes exactly one
// terminal event per delivery: vitals-extracted on success, error otherwise.
// Every delivery is acked regardless of outcome; a submission never requeues.
type Worker struct {
	id         string
	transport  Transport
	store      contracts.ImageStore
	normalizer contracts.ImageNormalizer
	recognizer contracts.TextRecognizer
	log        *zap.Logger
}

func NewWorker(
	id string,
	transport Transport,
	store contracts.ImageStore,
	normalizer contracts.ImageNormalizer,
	recognizer contracts.TextRecognizer,
	log *zap.Logger,
) *Worker {
	return &Worker{
		id:         id,
		transport:  transport,
		store:      store,
		normalizer: normalizer,
		recognizer: recognizer,
		log:        log.With(zap.String(constvars.LoggingWorkerIDKey, id)),
	}
}

func (w *Worker) ID() string {
	return w.id
}

// Run blocks consuming the image submission queue until ctx is canceled or
// the delivery channel closes.
func (w *Worker) Run(ctx context.Context) error {
	defer w.transport.Close()

	deliveries, err := w.transport.Consume(constvars.QueueImageSubmission, w.id)
	if err != nil {
		return err
	}
	w.log.Info("worker consuming", zap.String(constvars.LoggingQueueKey, constvars.QueueImageSubmission))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case delivery, ok := <-deliveries:
			if !ok {
				return fmt.Errorf("delivery channel closed for worker %s", w.id)
			}
			w.handle(ctx, delivery)
		}
	}
}

func (w *Worker) handle(ctx context.Context, delivery amqp.Delivery) {
	defer func() {
		if err := delivery.Ack(false); err != nil {
			w.log.Error("failed to ack delivery", zap.Error(err))
		}
	}()

	var submission events.ImageSubmission
	if err := json.Unmarshal(delivery.Body, &submission); err != nil {
		// without an envelope there is no one to attribute the failure to
		w.log.Error("discarding unparseable submission", zap.Error(err))
		return
	}

	logger := w.log.With(
		zap.String(constvars.LoggingDataIDKey, submission.DataID),
		zap.String(constvars.LoggingCorrelationIDKey, submission.CorrelationID),
	)

	if err := utils.ValidateStruct(submission); err != nil {
		logger.Error("submission failed validation", zap.Error(err))
		w.publishError(ctx, submission, err, "image submission failed validation")
		return
	}

	start := time.Now()
	extracted, err := w.process(ctx, submission)
	if err != nil {
		logger.Error("submission processing failed", zap.Error(err))
		w.publishError(ctx, submission, err, "failed to extract vitals from image")
		return
	}
	extracted.ProcessingTime = time.Since(start).Milliseconds()

	if err := w.transport.Publish(ctx, constvars.QueueVitalsExtracted, extracted); err != nil {
		logger.Error("failed to publish extracted vitals", zap.Error(err))
		w.publishError(ctx, submission, err, "failed to publish extracted vitals")
		return
	}
	logger.Info("vitals extracted",
		zap.Float64("ocr_confidence", extracted.OCRConfidence),
		zap.Int64("processing_time_ms", extracted.ProcessingTime),
	)
}

func (w *Worker) process(ctx context.Context, submission events.ImageSubmission) (*events.VitalsExtracted, error) {
	raw, err := w.store.FetchImage(ctx, submission.ImagePath)
	if err != nil {
		return nil, err
	}

	normalized, err := w.normalizer.Normalize(ctx, raw)
	if err != nil {
		// recognition still has a chance on the raw bytes
		w.log.Warn("image normalization failed, using raw image", zap.Error(err))
		normalized = raw
	}

	recognized, err := w.recognizer.Recognize(ctx, normalized)
	if err != nil {
		return nil, err
	}

	parsed := vitals.Parse(recognized.Text)

	return &events.VitalsExtracted{
		DataID:    submission.DataID,
		UserID:    submission.UserID,
		UserEmail: submission.UserEmail,
		UserName:  submission.UserName,
		ExtractedData: events.ExtractedData{
			Vitals:  parsed,
			RawText: recognized.Text,
		},
		OCRConfidence: recognized.Confidence,
		ProcessedAt:   time.Now().UTC(),
		WorkerID:      w.id,
		Metadata: events.ExtractionMetadata{
			DeviceType:    submission.Metadata.DeviceType,
			WordsDetected: recognized.Words,
			LinesDetected: recognized.Lines,
		},
		CorrelationID: submission.CorrelationID,
		Timestamp:     time.Now().UTC(),
	}, nil
}

func (w *Worker) publishError(ctx context.Context, submission events.ImageSubmission, cause error, message string) {
	errorEvent := events.ErrorEvent{
		Service:       constvars.ServiceOCR,
		DataID:        submission.DataID,
		UserID:        submission.UserID,
		UserEmail:     submission.UserEmail,
		Error:         cause.Error(),
		Message:       message,
		Timestamp:     time.Now().UTC(),
		CorrelationID: submission.CorrelationID,
	}
	if err := w.transport.Publish(ctx, constvars.QueueError, errorEvent); err != nil {
		w.log.Error("failed to publish error event",
			zap.String(constvars.LoggingDataIDKey, submission.DataID),
			zap.Error(err),
		)
	}
}
