package icu

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"vitalwatch-service/internal/app/contracts"
	"vitalwatch-service/internal/app/models"
	"vitalwatch-service/internal/app/services/vitals"
	"vitalwatch-service/internal/pkg/constvars"
	"vitalwatch-service/internal/pkg/dto/events"
	"vitalwatch-service/internal/pkg/utils"

	"go.uber.org/zap"
)

const defaultHistoryLimit = 50

type icuUsecase struct {
	PatientRecordRepository PatientRecordRepository
	PatientCacheRepository  PatientCacheRepository
	Publisher               contracts.EventPublisher
	log                     *zap.Logger
}

func NewICUUsecase(
	patientRecordRepository PatientRecordRepository,
	patientCacheRepository PatientCacheRepository,
	publisher contracts.EventPublisher,
	log *zap.Logger,
) ICUUsecase {
	return &icuUsecase{
		PatientRecordRepository: patientRecordRepository,
		PatientCacheRepository:  patientCacheRepository,
		Publisher:               publisher,
		log:                     log,
	}
}

// HandleVitalsExtracted classifies one extracted reading, persists it as a
// patient record, refreshes the per-user caches, and publishes an alert when
// the reading is out of range. A redelivered event whose record already
// exists is a no-op.
func (uc *icuUsecase) HandleVitalsExtracted(ctx context.Context, event events.VitalsExtracted) error {
	logger := uc.log.With(
		zap.String(constvars.LoggingDataIDKey, event.DataID),
		zap.String(constvars.LoggingUserIDKey, event.UserID),
		zap.String(constvars.LoggingCorrelationIDKey, event.CorrelationID),
	)

	if err := utils.ValidateStruct(event); err != nil {
		logger.Error("vitals-extracted event failed validation", zap.Error(err))
		uc.publishError(ctx, event, err, "vitals-extracted event failed validation")
		return err
	}

	classification := vitals.Classify(event.ExtractedData.Vitals)
	record := buildPatientRecord(event, classification)

	if err := uc.PatientRecordRepository.CreateRecord(ctx, record); err != nil {
		if errors.Is(err, ErrDuplicateRecord) {
			logger.Info("duplicate delivery, record already stored")
			return nil
		}
		logger.Error("failed to persist patient record", zap.Error(err))
		uc.publishError(ctx, event, err, "failed to persist patient record")
		// the classification must still reach the dispatcher even though
		// the record was lost
		uc.publishAlertIfNeeded(ctx, event, record, logger)
		return err
	}

	uc.refreshCaches(ctx, record, logger)
	uc.publishAlertIfNeeded(ctx, event, record, logger)

	logger.Info("patient record stored", zap.String(constvars.LoggingStatusKey, record.Status))
	return nil
}

func (uc *icuUsecase) GetRecordByDataID(ctx context.Context, dataID string) (*models.PatientRecord, error) {
	return uc.PatientRecordRepository.FindByDataID(ctx, dataID)
}

func (uc *icuUsecase) GetUserHistory(ctx context.Context, userID string, limit int64) ([]models.PatientRecord, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	return uc.PatientRecordRepository.FindByUserID(ctx, userID, limit)
}

// GetUserStatistics serves from cache and rebuilds from patient records on a
// miss. The rebuilt value is cached best effort.
func (uc *icuUsecase) GetUserStatistics(ctx context.Context, userID string) (*models.UserStatistics, error) {
	statistics, err := uc.PatientCacheRepository.GetStatistics(ctx, userID)
	if err != nil {
		uc.log.Warn("statistics cache read failed, rebuilding",
			zap.String(constvars.LoggingUserIDKey, userID), zap.Error(err))
	}
	if statistics != nil {
		return statistics, nil
	}

	statistics, err = uc.rebuildStatistics(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := uc.PatientCacheRepository.SetStatistics(ctx, userID, statistics); err != nil {
		uc.log.Warn("failed to cache rebuilt statistics",
			zap.String(constvars.LoggingUserIDKey, userID), zap.Error(err))
	}
	return statistics, nil
}

func (uc *icuUsecase) ListCriticalRecords(ctx context.Context, limit int64) ([]models.PatientRecord, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	return uc.PatientRecordRepository.FindByStatus(ctx, constvars.StatusCritical, limit)
}

func buildPatientRecord(event events.VitalsExtracted, classification vitals.Classification) *models.PatientRecord {
	submissionType := constvars.SubmissionTypeImage
	if event.ExtractedData.RawText == constvars.RawTextDirectSubmission {
		submissionType = constvars.SubmissionTypeDirect
	}

	now := time.Now().UTC()
	processedAt := event.ProcessedAt
	if processedAt.IsZero() {
		processedAt = now
	}

	return &models.PatientRecord{
		DataID:        event.DataID,
		UserID:        event.UserID,
		UserEmail:     event.UserEmail,
		UserName:      event.UserName,
		Vitals:        event.ExtractedData.Vitals,
		RawData:       event.ExtractedData.RawText,
		Status:        classification.Status,
		Alerts:        classification.Alerts,
		OCRConfidence: event.OCRConfidence,
		Metadata: models.PatientRecordMetadata{
			DeviceType:     event.Metadata.DeviceType,
			SubmissionType: submissionType,
			WordsDetected:  event.Metadata.WordsDetected,
			LinesDetected:  event.Metadata.LinesDetected,
		},
		CorrelationID: event.CorrelationID,
		ProcessedAt:   processedAt,
		CreatedAt:     now,
	}
}

func (uc *icuUsecase) publishAlertIfNeeded(ctx context.Context, event events.VitalsExtracted, record *models.PatientRecord, logger *zap.Logger) {
	if record.Status != constvars.StatusWarning && record.Status != constvars.StatusCritical {
		return
	}

	messages := make([]string, 0, len(record.Alerts))
	for _, alert := range record.Alerts {
		messages = append(messages, alert.Message)
	}

	alertEvent := events.AlertEvent{
		DataID:        event.DataID,
		UserID:        event.UserID,
		UserEmail:     event.UserEmail,
		UserName:      event.UserName,
		Status:        record.Status,
		Alerts:        record.Alerts,
		Vitals:        record.Vitals,
		Message:       fmt.Sprintf("Patient vitals %s: %s", record.Status, strings.Join(messages, "; ")),
		Timestamp:     time.Now().UTC(),
		CorrelationID: event.CorrelationID,
	}

	if err := uc.Publisher.Publish(ctx, constvars.QueueAlert, alertEvent); err != nil {
		logger.Error("failed to publish alert event", zap.Error(err))
		uc.publishError(ctx, event, err, "failed to publish alert event")
		return
	}
	logger.Info("alert published", zap.String(constvars.LoggingStatusKey, record.Status))
}

// refreshCaches is best effort; cache failures never fail record handling.
func (uc *icuUsecase) refreshCaches(ctx context.Context, record *models.PatientRecord, logger *zap.Logger) {
	if err := uc.PatientCacheRepository.SetLatestRecord(ctx, record); err != nil {
		logger.Warn("failed to cache latest record", zap.Error(err))
	}

	statistics, err := uc.PatientCacheRepository.GetStatistics(ctx, record.UserID)
	if err != nil {
		logger.Warn("statistics cache read failed", zap.Error(err))
		return
	}
	if statistics == nil {
		// the rebuilt counts already include the record persisted above
		statistics, err = uc.rebuildStatistics(ctx, record.UserID)
		if err != nil {
			logger.Warn("failed to rebuild statistics", zap.Error(err))
			return
		}
	} else {
		statistics.Increment(record.Status)
		statistics.LastUpdated = time.Now().UTC()
	}

	if err := uc.PatientCacheRepository.SetStatistics(ctx, record.UserID, statistics); err != nil {
		logger.Warn("failed to cache statistics", zap.Error(err))
	}
}

func (uc *icuUsecase) rebuildStatistics(ctx context.Context, userID string) (*models.UserStatistics, error) {
	counts, err := uc.PatientRecordRepository.CountByStatusForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	statistics := &models.UserStatistics{
		Normal:      counts[constvars.StatusNormal],
		Warning:     counts[constvars.StatusWarning],
		Critical:    counts[constvars.StatusCritical],
		Error:       counts[constvars.StatusError],
		LastUpdated: time.Now().UTC(),
	}
	statistics.TotalReadings = statistics.Normal + statistics.Warning + statistics.Critical + statistics.Error
	return statistics, nil
}

func (uc *icuUsecase) publishError(ctx context.Context, event events.VitalsExtracted, cause error, message string) {
	errorEvent := events.ErrorEvent{
		Service:       constvars.ServiceICU,
		DataID:        event.DataID,
		UserID:        event.UserID,
		UserEmail:     event.UserEmail,
		Error:         cause.Error(),
		Message:       message,
		Timestamp:     time.Now().UTC(),
		CorrelationID: event.CorrelationID,
	}
	if err := uc.Publisher.Publish(ctx, constvars.QueueError, errorEvent); err != nil {
		uc.log.Error("failed to publish error event",
			zap.String(constvars.LoggingDataIDKey, event.DataID),
			zap.Error(err),
		)
	}
}
