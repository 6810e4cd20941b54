package models

import (
	"time"

	"vitalwatch-service/internal/pkg/constvars"
)

// UserStatistics is a cached rolling count of a user's readings by status.
// It is derivable from patient records at any time and may be rebuilt on a
// cache miss.
type UserStatistics struct {
	TotalReadings int64     `json:"totalReadings"`
	Normal        int64     `json:"normal"`
	Warning       int64     `json:"warning"`
	Critical      int64     `json:"critical"`
	Error         int64     `json:"error"`
	LastUpdated   time.Time `json:"lastUpdated"`
}

func (s *UserStatistics) Increment(status string) {
	s.TotalReadings++
	switch status {
	case constvars.StatusNormal:
		s.Normal++
	case constvars.StatusWarning:
		s.Warning++
	case constvars.StatusCritical:
		s.Critical++
	case constvars.StatusError:
		s.Error++
	}
}
