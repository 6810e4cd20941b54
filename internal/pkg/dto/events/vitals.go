package events

import (
	"time"

	"vitalwatch-service/internal/app/models"
)

type ExtractedData struct {
	models.Vitals
	RawText string `json:"rawText,omitempty"`
}

type ExtractionMetadata struct {
	DeviceType    string `json:"deviceType,omitempty"`
	WordsDetected int    `json:"wordsDetected,omitempty"`
	LinesDetected int    `json:"linesDetected,omitempty"`
}

// VitalsExtracted carries one submission's best-effort vitals from the OCR
// stage (or directly from the ingestion gateway with OCRConfidence=100) to
// the orchestrator. ProcessingTime is in milliseconds.
type VitalsExtracted struct {
	DataID         string             `json:"dataId" validate:"required"`
	UserID         string             `json:"userId" validate:"required"`
	UserEmail      string             `json:"userEmail" validate:"omitempty,email"`
	UserName       string             `json:"userName,omitempty"`
	ExtractedData  ExtractedData      `json:"extractedData"`
	OCRConfidence  float64            `json:"ocrConfidence" validate:"gte=0,lte=100"`
	ProcessedAt    time.Time          `json:"processedAt"`
	ProcessingTime int64              `json:"processingTime"`
	WorkerID       string             `json:"workerId,omitempty"`
	Metadata       ExtractionMetadata `json:"metadata"`
	CorrelationID  string             `json:"correlationId"`
	Timestamp      time.Time          `json:"timestamp"`
}
