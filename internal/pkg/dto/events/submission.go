package events

import "time"

type SubmissionMetadata struct {
	DeviceType string `json:"deviceType,omitempty"`
}

// ImageSubmission is published by the ingestion gateway for every photographed
// readout. The identity fields form the submission envelope and are carried
// unmodified through every downstream event.
type ImageSubmission struct {
	DataID        string             `json:"dataId" validate:"required"`
	UserID        string             `json:"userId" validate:"required"`
	UserEmail     string             `json:"userEmail" validate:"omitempty,email"`
	UserName      string             `json:"userName,omitempty"`
	ImagePath     string             `json:"imagePath" validate:"required"`
	FileName      string             `json:"fileName,omitempty"`
	Metadata      SubmissionMetadata `json:"metadata"`
	CorrelationID string             `json:"correlationId"`
	Timestamp     time.Time          `json:"timestamp"`
}
