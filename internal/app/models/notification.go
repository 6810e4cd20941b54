package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification records one delivery attempt's outcome. Payload holds the
// original event JSON so a failed delivery can be replayed by the retry sweep.
type Notification struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	NotificationID string             `bson:"notificationId" json:"notificationId"`
	Type           string             `bson:"type" json:"type"`
	Severity       string             `bson:"severity" json:"severity"`
	UserID         string             `bson:"userId" json:"userId"`
	DataID         string             `bson:"dataId,omitempty" json:"dataId,omitempty"`
	Service        string             `bson:"service,omitempty" json:"service,omitempty"`
	Subject        string             `bson:"subject" json:"subject"`
	Message        string             `bson:"message" json:"message"`
	EmailTo        string             `bson:"emailTo,omitempty" json:"emailTo,omitempty"`
	EmailSent      bool               `bson:"emailSent" json:"emailSent"`
	EmailSentAt    *time.Time         `bson:"emailSentAt,omitempty" json:"emailSentAt,omitempty"`
	EmailError     string             `bson:"emailError,omitempty" json:"emailError,omitempty"`
	Payload        string             `bson:"payload,omitempty" json:"payload,omitempty"`
	CorrelationID  string             `bson:"correlationId,omitempty" json:"correlationId,omitempty"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
}

type NotificationStatistics struct {
	Total  int64            `json:"total"`
	Sent   int64            `json:"sent"`
	Failed int64            `json:"failed"`
	ByType map[string]int64 `json:"byType"`
}
