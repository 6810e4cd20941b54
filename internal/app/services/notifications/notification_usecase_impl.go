package notifications

import (
	"context"
	"time"

	"vitalwatch-service/internal/app/contracts"
	"vitalwatch-service/internal/app/models"
	"vitalwatch-service/internal/pkg/constvars"
	"vitalwatch-service/internal/pkg/dto/events"
	"vitalwatch-service/internal/pkg/utils"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultNotificationLimit = 50

var severityOrder = map[string]int{
	constvars.SeverityLow:      1,
	constvars.SeverityMedium:   2,
	constvars.SeverityHigh:     3,
	constvars.SeverityCritical: 4,
}

type notificationUsecase struct {
	NotificationRepository NotificationRepository
	EmailSender            contracts.EmailSender
	DefaultRecipient       string
	RetryBatchSize         int
	log                    *zap.Logger
}

func NewNotificationUsecase(
	notificationRepository NotificationRepository,
	emailSender contracts.EmailSender,
	defaultRecipient string,
	retryBatchSize int,
	log *zap.Logger,
) NotificationUsecase {
	if retryBatchSize <= 0 {
		retryBatchSize = 10
	}
	return &notificationUsecase{
		NotificationRepository: notificationRepository,
		EmailSender:            emailSender,
		DefaultRecipient:       defaultRecipient,
		RetryBatchSize:         retryBatchSize,
		log:                    log,
	}
}

// HandleAlertEvent renders and sends the alert email, then records the
// delivery outcome. A failed send is not an error here; the record captures
// the failure and the retry sweep picks it up later.
func (uc *notificationUsecase) HandleAlertEvent(ctx context.Context, event events.AlertEvent) error {
	logger := uc.log.With(
		zap.String(constvars.LoggingDataIDKey, event.DataID),
		zap.String(constvars.LoggingCorrelationIDKey, event.CorrelationID),
	)

	if err := utils.ValidateStruct(event); err != nil {
		logger.Error("alert event failed validation", zap.Error(err))
		return err
	}

	subject, htmlBody := renderAlertEmail(event)
	recipient := event.UserEmail
	if recipient == "" {
		recipient = uc.DefaultRecipient
	}

	notification := &models.Notification{
		NotificationID: uuid.NewString(),
		Type:           constvars.NotificationTypeAlert,
		Severity:       alertEventSeverity(event),
		UserID:         event.UserID,
		DataID:         event.DataID,
		Subject:        subject,
		Message:        event.Message,
		EmailTo:        recipient,
		Payload:        marshalPayload(event),
		CorrelationID:  event.CorrelationID,
		CreatedAt:      time.Now().UTC(),
	}

	uc.deliver(notification, subject, htmlBody, event.Status == constvars.StatusCritical, logger)
	return uc.record(ctx, notification, logger)
}

// HandleErrorEvent notifies the operations recipient about a pipeline
// failure. These never go to the patient.
func (uc *notificationUsecase) HandleErrorEvent(ctx context.Context, event events.ErrorEvent) error {
	logger := uc.log.With(
		zap.String(constvars.LoggingDataIDKey, event.DataID),
		zap.String(constvars.LoggingCorrelationIDKey, event.CorrelationID),
	)

	if err := utils.ValidateStruct(event); err != nil {
		logger.Error("error event failed validation", zap.Error(err))
		return err
	}

	subject, htmlBody := renderErrorEmail(event)

	notification := &models.Notification{
		NotificationID: uuid.NewString(),
		Type:           constvars.NotificationTypeError,
		Severity:       constvars.SeverityHigh,
		UserID:         event.UserID,
		DataID:         event.DataID,
		Service:        event.Service,
		Subject:        subject,
		Message:        event.Message,
		EmailTo:        uc.DefaultRecipient,
		Payload:        marshalPayload(event),
		CorrelationID:  event.CorrelationID,
		CreatedAt:      time.Now().UTC(),
	}

	uc.deliver(notification, subject, htmlBody, false, logger)
	return uc.record(ctx, notification, logger)
}

// RetryFailedNotifications re-sends up to RetryBatchSize failed deliveries,
// oldest first, and flips each record's outcome in place. It returns the
// number of records processed. One notification failing again does not stop
// the rest of the batch.
func (uc *notificationUsecase) RetryFailedNotifications(ctx context.Context) (int, error) {
	failed, err := uc.NotificationRepository.FindFailed(ctx, int64(uc.RetryBatchSize))
	if err != nil {
		return 0, err
	}

	processed := 0
	for _, notification := range failed {
		logger := uc.log.With(
			zap.String(constvars.LoggingNotificationIDKey, notification.NotificationID),
			zap.String(constvars.LoggingRecipientKey, notification.EmailTo),
		)

		subject, htmlBody, highPriority := uc.renderStored(notification)
		sendErr := uc.EmailSender.SendHTMLEmail(notification.EmailTo, subject, htmlBody, highPriority)

		var outcomeErr error
		if sendErr != nil {
			logger.Warn("retry delivery failed", zap.Error(sendErr))
			outcomeErr = uc.NotificationRepository.MarkDeliveryOutcome(ctx, notification.NotificationID, false, nil, sendErr.Error())
		} else {
			logger.Info("retry delivery succeeded")
			sentAt := time.Now().UTC()
			outcomeErr = uc.NotificationRepository.MarkDeliveryOutcome(ctx, notification.NotificationID, true, &sentAt, "")
		}
		if outcomeErr != nil {
			logger.Error("failed to record retry outcome", zap.Error(outcomeErr))
		}
		processed++
	}
	return processed, nil
}

func (uc *notificationUsecase) GetUserNotifications(ctx context.Context, userID string, limit int64) ([]models.Notification, error) {
	if limit <= 0 {
		limit = defaultNotificationLimit
	}
	return uc.NotificationRepository.FindByUserID(ctx, userID, limit)
}

func (uc *notificationUsecase) GetDeliveryStatistics(ctx context.Context) (*models.NotificationStatistics, error) {
	sent, failed, err := uc.NotificationRepository.CountByOutcome(ctx)
	if err != nil {
		return nil, err
	}
	byType, err := uc.NotificationRepository.CountByType(ctx)
	if err != nil {
		return nil, err
	}
	return &models.NotificationStatistics{
		Total:  sent + failed,
		Sent:   sent,
		Failed: failed,
		ByType: byType,
	}, nil
}

func (uc *notificationUsecase) deliver(notification *models.Notification, subject, htmlBody string, highPriority bool, logger *zap.Logger) {
	err := uc.EmailSender.SendHTMLEmail(notification.EmailTo, subject, htmlBody, highPriority)
	if err != nil {
		logger.Warn("email delivery failed",
			zap.String(constvars.LoggingRecipientKey, notification.EmailTo),
			zap.Error(err),
		)
		notification.EmailSent = false
		notification.EmailError = err.Error()
		return
	}

	sentAt := time.Now().UTC()
	notification.EmailSent = true
	notification.EmailSentAt = &sentAt
	logger.Info("email delivered", zap.String(constvars.LoggingRecipientKey, notification.EmailTo))
}

func (uc *notificationUsecase) record(ctx context.Context, notification *models.Notification, logger *zap.Logger) error {
	if err := uc.NotificationRepository.CreateNotification(ctx, notification); err != nil {
		logger.Error("failed to persist notification record", zap.Error(err))
		return err
	}
	return nil
}

// renderStored re-renders the email from the stored event payload; a record
// whose payload cannot be parsed falls back to its stored subject and message.
func (uc *notificationUsecase) renderStored(notification models.Notification) (subject, htmlBody string, highPriority bool) {
	switch notification.Type {
	case constvars.NotificationTypeAlert:
		var event events.AlertEvent
		if err := json.Unmarshal([]byte(notification.Payload), &event); err == nil && event.DataID != "" {
			subject, htmlBody = renderAlertEmail(event)
			return subject, htmlBody, event.Status == constvars.StatusCritical
		}
	case constvars.NotificationTypeError:
		var event events.ErrorEvent
		if err := json.Unmarshal([]byte(notification.Payload), &event); err == nil && event.Service != "" {
			subject, htmlBody = renderErrorEmail(event)
			return subject, htmlBody, false
		}
	}
	return notification.Subject, "<p>" + notification.Message + "</p>", false
}

func alertEventSeverity(event events.AlertEvent) string {
	severity := constvars.SeverityHigh
	if event.Status == constvars.StatusCritical {
		severity = constvars.SeverityCritical
	}
	for _, alert := range event.Alerts {
		if severityOrder[alert.Severity] > severityOrder[severity] {
			severity = alert.Severity
		}
	}
	return severity
}

func marshalPayload(event interface{}) string {
	payload, err := json.Marshal(event)
	if err != nil {
		return ""
	}
	return string(payload)
}
