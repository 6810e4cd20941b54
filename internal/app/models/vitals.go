package models

import "time"

type BloodPressure struct {
	Systolic  int `bson:"systolic" json:"systolic"`
	Diastolic int `bson:"diastolic" json:"diastolic"`
}

// Vitals holds one reading's physiological values. Every field is optional:
// a nil field means the value could not be recovered from the submission.
type Vitals struct {
	HeartRate        *int           `bson:"heartRate,omitempty" json:"heartRate,omitempty"`
	BloodPressure    *BloodPressure `bson:"bloodPressure,omitempty" json:"bloodPressure,omitempty"`
	OxygenSaturation *int           `bson:"oxygenSaturation,omitempty" json:"oxygenSaturation,omitempty"`
	Temperature      *float64       `bson:"temperature,omitempty" json:"temperature,omitempty"`
	RespiratoryRate  *int           `bson:"respiratoryRate,omitempty" json:"respiratoryRate,omitempty"`
}

type Alert struct {
	Type      string    `bson:"type" json:"type"`
	Message   string    `bson:"message" json:"message"`
	Severity  string    `bson:"severity" json:"severity"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
}
