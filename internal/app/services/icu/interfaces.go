package icu

import (
	"context"
	"errors"

	"vitalwatch-service/internal/app/models"
	"vitalwatch-service/internal/pkg/dto/events"
)

// ErrDuplicateRecord is returned by CreateRecord when a record with the same
// dataId already exists. Redelivered events hit this path and must not be
// treated as failures.
var ErrDuplicateRecord = errors.New("patient record already exists for dataId")

type PatientRecordRepository interface {
	CreateRecord(ctx context.Context, record *models.PatientRecord) error
	FindByDataID(ctx context.Context, dataID string) (*models.PatientRecord, error)
	FindByUserID(ctx context.Context, userID string, limit int64) ([]models.PatientRecord, error)
	FindByStatus(ctx context.Context, status string, limit int64) ([]models.PatientRecord, error)
	CountByStatusForUser(ctx context.Context, userID string) (map[string]int64, error)
}

// PatientCacheRepository holds the derived read models: the latest record per
// user and the per-user statistics. Both are rebuildable from patient records.
type PatientCacheRepository interface {
	GetLatestRecord(ctx context.Context, userID string) (*models.PatientRecord, error)
	SetLatestRecord(ctx context.Context, record *models.PatientRecord) error
	GetStatistics(ctx context.Context, userID string) (*models.UserStatistics, error)
	SetStatistics(ctx context.Context, userID string, statistics *models.UserStatistics) error
}

type ICUUsecase interface {
	HandleVitalsExtracted(ctx context.Context, event events.VitalsExtracted) error
	GetRecordByDataID(ctx context.Context, dataID string) (*models.PatientRecord, error)
	GetUserHistory(ctx context.Context, userID string, limit int64) ([]models.PatientRecord, error)
	GetUserStatistics(ctx context.Context, userID string) (*models.UserStatistics, error)
	ListCriticalRecords(ctx context.Context, limit int64) ([]models.PatientRecord, error)
}
