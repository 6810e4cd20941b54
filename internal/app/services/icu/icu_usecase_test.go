package icu

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"vitalwatch-service/internal/app/models"
	"vitalwatch-service/internal/pkg/constvars"
	"vitalwatch-service/internal/pkg/dto/events"
)

type fakeRecordRepository struct {
	records   map[string]*models.PatientRecord
	createErr error
	counts    map[string]int64
	countsErr error
}

func newFakeRecordRepository() *fakeRecordRepository {
	return &fakeRecordRepository{records: make(map[string]*models.PatientRecord)}
}

func (f *fakeRecordRepository) CreateRecord(_ context.Context, record *models.PatientRecord) error {
	if f.createErr != nil {
		return f.createErr
	}
	if _, exists := f.records[record.DataID]; exists {
		return ErrDuplicateRecord
	}
	f.records[record.DataID] = record
	return nil
}

func (f *fakeRecordRepository) FindByDataID(_ context.Context, dataID string) (*models.PatientRecord, error) {
	return f.records[dataID], nil
}

func (f *fakeRecordRepository) FindByUserID(_ context.Context, userID string, _ int64) ([]models.PatientRecord, error) {
	out := make([]models.PatientRecord, 0)
	for _, record := range f.records {
		if record.UserID == userID {
			out = append(out, *record)
		}
	}
	return out, nil
}

func (f *fakeRecordRepository) FindByStatus(_ context.Context, status string, _ int64) ([]models.PatientRecord, error) {
	out := make([]models.PatientRecord, 0)
	for _, record := range f.records {
		if record.Status == status {
			out = append(out, *record)
		}
	}
	return out, nil
}

func (f *fakeRecordRepository) CountByStatusForUser(_ context.Context, _ string) (map[string]int64, error) {
	if f.countsErr != nil {
		return nil, f.countsErr
	}
	if f.counts != nil {
		return f.counts, nil
	}
	return map[string]int64{}, nil
}

type fakeCacheRepository struct {
	latest     map[string]*models.PatientRecord
	statistics map[string]*models.UserStatistics
	getErr     error
	setErr     error
}

func newFakeCacheRepository() *fakeCacheRepository {
	return &fakeCacheRepository{
		latest:     make(map[string]*models.PatientRecord),
		statistics: make(map[string]*models.UserStatistics),
	}
}

func (f *fakeCacheRepository) GetLatestRecord(_ context.Context, userID string) (*models.PatientRecord, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.latest[userID], nil
}

func (f *fakeCacheRepository) SetLatestRecord(_ context.Context, record *models.PatientRecord) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.latest[record.UserID] = record
	return nil
}

func (f *fakeCacheRepository) GetStatistics(_ context.Context, userID string) (*models.UserStatistics, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.statistics[userID], nil
}

func (f *fakeCacheRepository) SetStatistics(_ context.Context, userID string, statistics *models.UserStatistics) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.statistics[userID] = statistics
	return nil
}

type recordedPublish struct {
	queue   string
	payload interface{}
}

type fakePublisher struct {
	published  []recordedPublish
	publishErr map[string]error
}

func newFakePublisher() *fakePublisher {
	return &fakePublisher{publishErr: make(map[string]error)}
}

func (f *fakePublisher) Publish(_ context.Context, queue string, payload interface{}) error {
	if err := f.publishErr[queue]; err != nil {
		return err
	}
	f.published = append(f.published, recordedPublish{queue: queue, payload: payload})
	return nil
}

func (f *fakePublisher) onQueue(queue string) []recordedPublish {
	out := make([]recordedPublish, 0)
	for _, p := range f.published {
		if p.queue == queue {
			out = append(out, p)
		}
	}
	return out
}

func intPtr(v int) *int { return &v }

func extractedEvent(dataID string, heartRate int) events.VitalsExtracted {
	return events.VitalsExtracted{
		DataID:    dataID,
		UserID:    "user-1",
		UserEmail: "patient@example.com",
		ExtractedData: events.ExtractedData{
			Vitals:  models.Vitals{HeartRate: intPtr(heartRate)},
			RawText: "HR: 72",
		},
		OCRConfidence: 90,
		ProcessedAt:   time.Now().UTC(),
		CorrelationID: "corr-1",
		Timestamp:     time.Now().UTC(),
	}
}

func newTestUsecase() (ICUUsecase, *fakeRecordRepository, *fakeCacheRepository, *fakePublisher) {
	records := newFakeRecordRepository()
	cache := newFakeCacheRepository()
	publisher := newFakePublisher()
	usecase := NewICUUsecase(records, cache, publisher, zap.NewNop())
	return usecase, records, cache, publisher
}

func TestHandleVitalsExtracted_NormalReadingStoredWithoutAlert(t *testing.T) {
	usecase, records, cache, publisher := newTestUsecase()

	err := usecase.HandleVitalsExtracted(context.Background(), extractedEvent("data-1", 72))

	assert.NoError(t, err)
	record := records.records["data-1"]
	assert.NotNil(t, record)
	assert.Equal(t, constvars.StatusNormal, record.Status)
	assert.Empty(t, record.Alerts)
	assert.Equal(t, constvars.SubmissionTypeImage, record.Metadata.SubmissionType)

	assert.Empty(t, publisher.onQueue(constvars.QueueAlert))
	assert.Equal(t, record, cache.latest["user-1"])
}

func TestHandleVitalsExtracted_CriticalReadingPublishesAlert(t *testing.T) {
	usecase, records, _, publisher := newTestUsecase()

	err := usecase.HandleVitalsExtracted(context.Background(), extractedEvent("data-1", 130))

	assert.NoError(t, err)
	assert.Equal(t, constvars.StatusCritical, records.records["data-1"].Status)

	alerts := publisher.onQueue(constvars.QueueAlert)
	assert.Len(t, alerts, 1)
	alertEvent, ok := alerts[0].payload.(events.AlertEvent)
	assert.True(t, ok)
	assert.Equal(t, constvars.StatusCritical, alertEvent.Status)
	assert.Equal(t, "data-1", alertEvent.DataID)
	assert.Contains(t, alertEvent.Message, "Critically high heart rate")
	assert.Len(t, alertEvent.Alerts, 1)
}

func TestHandleVitalsExtracted_DuplicateDeliveryIsNoOp(t *testing.T) {
	usecase, records, _, publisher := newTestUsecase()
	event := extractedEvent("data-1", 130)

	assert.NoError(t, usecase.HandleVitalsExtracted(context.Background(), event))
	assert.NoError(t, usecase.HandleVitalsExtracted(context.Background(), event))

	assert.Len(t, records.records, 1)
	assert.Len(t, publisher.onQueue(constvars.QueueAlert), 1)
	assert.Empty(t, publisher.onQueue(constvars.QueueError))
}

func TestHandleVitalsExtracted_PersistFailureStillAlerts(t *testing.T) {
	usecase, records, _, publisher := newTestUsecase()
	records.createErr = errors.New("connection refused")

	err := usecase.HandleVitalsExtracted(context.Background(), extractedEvent("data-1", 130))

	assert.Error(t, err)

	errorEvents := publisher.onQueue(constvars.QueueError)
	assert.Len(t, errorEvents, 1)
	errorEvent, ok := errorEvents[0].payload.(events.ErrorEvent)
	assert.True(t, ok)
	assert.Equal(t, constvars.ServiceICU, errorEvent.Service)
	assert.Contains(t, errorEvent.Error, "connection refused")

	assert.Len(t, publisher.onQueue(constvars.QueueAlert), 1)
}

func TestHandleVitalsExtracted_CacheFailureIsSwallowed(t *testing.T) {
	usecase, records, cache, publisher := newTestUsecase()
	cache.setErr = errors.New("redis down")

	err := usecase.HandleVitalsExtracted(context.Background(), extractedEvent("data-1", 72))

	assert.NoError(t, err)
	assert.NotNil(t, records.records["data-1"])
	assert.Empty(t, publisher.onQueue(constvars.QueueError))
}

func TestHandleVitalsExtracted_InvalidEventPublishesError(t *testing.T) {
	usecase, records, _, publisher := newTestUsecase()
	event := extractedEvent("data-1", 72)
	event.UserID = ""

	err := usecase.HandleVitalsExtracted(context.Background(), event)

	assert.Error(t, err)
	assert.Empty(t, records.records)
	assert.Len(t, publisher.onQueue(constvars.QueueError), 1)
}

func TestHandleVitalsExtracted_StatisticsIncrementOnCacheHit(t *testing.T) {
	usecase, _, cache, _ := newTestUsecase()
	cache.statistics["user-1"] = &models.UserStatistics{TotalReadings: 4, Normal: 4}

	assert.NoError(t, usecase.HandleVitalsExtracted(context.Background(), extractedEvent("data-1", 130)))

	statistics := cache.statistics["user-1"]
	assert.Equal(t, int64(5), statistics.TotalReadings)
	assert.Equal(t, int64(4), statistics.Normal)
	assert.Equal(t, int64(1), statistics.Critical)
}

func TestHandleVitalsExtracted_StatisticsRebuiltOnCacheMiss(t *testing.T) {
	usecase, records, cache, _ := newTestUsecase()
	records.counts = map[string]int64{
		constvars.StatusNormal:   3,
		constvars.StatusCritical: 1,
	}

	assert.NoError(t, usecase.HandleVitalsExtracted(context.Background(), extractedEvent("data-1", 72)))

	statistics := cache.statistics["user-1"]
	assert.NotNil(t, statistics)
	assert.Equal(t, int64(4), statistics.TotalReadings)
	assert.Equal(t, int64(3), statistics.Normal)
	assert.Equal(t, int64(1), statistics.Critical)
}

func TestHandleVitalsExtracted_DirectSubmissionMetadata(t *testing.T) {
	usecase, records, _, _ := newTestUsecase()
	event := extractedEvent("data-1", 72)
	event.ExtractedData.RawText = constvars.RawTextDirectSubmission
	event.OCRConfidence = 100

	assert.NoError(t, usecase.HandleVitalsExtracted(context.Background(), event))

	assert.Equal(t, constvars.SubmissionTypeDirect, records.records["data-1"].Metadata.SubmissionType)
}

func TestHandleVitalsExtracted_RoundTripReclassification(t *testing.T) {
	// a warning reading produces a record whose stored vitals classify to
	// the same status when read back
	usecase, records, _, _ := newTestUsecase()

	assert.NoError(t, usecase.HandleVitalsExtracted(context.Background(), extractedEvent("data-1", 110)))

	record := records.records["data-1"]
	assert.Equal(t, constvars.StatusWarning, record.Status)
	assert.NotNil(t, record.Vitals.HeartRate)
	assert.Equal(t, 110, *record.Vitals.HeartRate)
}

func TestGetUserStatistics_RebuildsOnMiss(t *testing.T) {
	usecase, records, cache, _ := newTestUsecase()
	records.counts = map[string]int64{constvars.StatusWarning: 2}

	statistics, err := usecase.GetUserStatistics(context.Background(), "user-1")

	assert.NoError(t, err)
	assert.Equal(t, int64(2), statistics.TotalReadings)
	assert.Equal(t, int64(2), statistics.Warning)
	assert.NotNil(t, cache.statistics["user-1"])
}

func TestGetUserStatistics_ServesFromCache(t *testing.T) {
	usecase, records, cache, _ := newTestUsecase()
	cache.statistics["user-1"] = &models.UserStatistics{TotalReadings: 9}
	records.countsErr = errors.New("mongo should not be queried")

	statistics, err := usecase.GetUserStatistics(context.Background(), "user-1")

	assert.NoError(t, err)
	assert.Equal(t, int64(9), statistics.TotalReadings)
}
