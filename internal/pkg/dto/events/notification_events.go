package events

import (
	"time"

	"vitalwatch-service/internal/app/models"
)

// AlertEvent is published by the orchestrator whenever a reading classifies
// as warning or critical. The payload is self-contained: the dispatcher must
// not depend on the patient record being readable.
type AlertEvent struct {
	DataID        string         `json:"dataId" validate:"required"`
	UserID        string         `json:"userId" validate:"required"`
	UserEmail     string         `json:"userEmail,omitempty"`
	UserName      string         `json:"userName,omitempty"`
	Status        string         `json:"status" validate:"required,oneof=warning critical"`
	Alerts        []models.Alert `json:"alerts"`
	Vitals        models.Vitals  `json:"vitals"`
	Message       string         `json:"message"`
	Timestamp     time.Time      `json:"timestamp"`
	CorrelationID string         `json:"correlationId"`
}

// ErrorEvent reports a processing failure at any pipeline stage.
type ErrorEvent struct {
	Service       string    `json:"service" validate:"required"`
	DataID        string    `json:"dataId,omitempty"`
	UserID        string    `json:"userId,omitempty"`
	UserEmail     string    `json:"userEmail,omitempty"`
	Error         string    `json:"error"`
	Message       string    `json:"message"`
	Timestamp     time.Time `json:"timestamp"`
	CorrelationID string    `json:"correlationId"`
}
