package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PatientRecordMetadata struct {
	DeviceType     string `bson:"deviceType,omitempty" json:"deviceType,omitempty"`
	SubmissionType string `bson:"submissionType,omitempty" json:"submissionType,omitempty"`
	WordsDetected  int    `bson:"wordsDetected,omitempty" json:"wordsDetected,omitempty"`
	LinesDetected  int    `bson:"linesDetected,omitempty" json:"linesDetected,omitempty"`
}

// PatientRecord is the terminal, append-only outcome of one submission,
// keyed by DataID (unique index).
type PatientRecord struct {
	ID            primitive.ObjectID    `bson:"_id,omitempty" json:"-"`
	DataID        string                `bson:"dataId" json:"dataId"`
	UserID        string                `bson:"userId" json:"userId"`
	UserEmail     string                `bson:"userEmail" json:"userEmail"`
	UserName      string                `bson:"userName,omitempty" json:"userName,omitempty"`
	Vitals        Vitals                `bson:"vitals" json:"vitals"`
	RawData       string                `bson:"rawData,omitempty" json:"rawData,omitempty"`
	Status        string                `bson:"status" json:"status"`
	Alerts        []Alert               `bson:"alerts" json:"alerts"`
	OCRConfidence float64               `bson:"ocrConfidence" json:"ocrConfidence"`
	Metadata      PatientRecordMetadata `bson:"metadata" json:"metadata"`
	CorrelationID string                `bson:"correlationId,omitempty" json:"correlationId,omitempty"`
	ProcessedAt   time.Time             `bson:"processedAt" json:"processedAt"`
	CreatedAt     time.Time             `bson:"createdAt" json:"createdAt"`
}
