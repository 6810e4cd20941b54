package vitals

import (
	"regexp"
	"strconv"

	"vitalwatch-service/internal/app/models"
)

// Monitor photos come back from OCR with stray currency signs, brackets and
// pipes around the digits; strip those before matching.
var noisePattern = regexp.MustCompile(`[£€$@#&*()\[\]{}|\\<>]`)

var (
	intToken      = regexp.MustCompile(`\b(\d{2,3})\b`)
	smallIntToken = regexp.MustCompile(`\b(\d{1,2})\b`)
	decimalToken  = regexp.MustCompile(`\b(\d{2,3}\.\d{1,2})\b`)
)

// intFieldRules recovers one integer vital: labeled and unit-suffixed
// patterns are tried in priority order, then bare numbers within the
// plausible range, skipping values already claimed by an earlier field.
type intFieldRules struct {
	patterns      []*regexp.Regexp
	min, max      int
	validateMatch bool
	fallback      *regexp.Regexp
}

var heartRateRules = intFieldRules{
	patterns: []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:HR|Heart\s*Rate)[:\s]*(\d{2,3})`),
		regexp.MustCompile(`(?i)(\d{2,3})\s*bpm`),
	},
	min:      40,
	max:      220,
	fallback: intToken,
}

var oxygenSaturationRules = intFieldRules{
	patterns: []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:SpO2|O2|Oxygen|Sat)[:\s]*(\d{2,3})%?`),
		regexp.MustCompile(`(\d{2,3})%`),
	},
	min:           70,
	max:           100,
	validateMatch: true,
	fallback:      intToken,
}

var respiratoryRateRules = intFieldRules{
	patterns: []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:RR|Resp|Respiratory\s*Rate)[:\s]*(\d{1,2})`),
		regexp.MustCompile(`(?i)(\d{1,2})\s*(?:/\s*min|breaths)`),
	},
	min:      8,
	max:      60,
	fallback: smallIntToken,
}

var bloodPressurePattern = regexp.MustCompile(`(?i)(?:BP|Blood\s*Pressure)?[:\s]*(\d{2,3})\s*[/\\|]\s*(\d{2,3})`)

var temperaturePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:Temp|Temperature)[:\s]*([\d.]+)[\s°]?[CF]?`),
	regexp.MustCompile(`([\d.]+)\s*[°º][CF]?`),
}

// Parse recovers structured vitals from raw recognized text. It never fails:
// a field without a confident match stays nil. Identical input always yields
// identical output.
func Parse(rawText string) models.Vitals {
	text := noisePattern.ReplaceAllString(rawText, " ")

	var parsed models.Vitals
	claimed := make(map[int]bool)

	if hr := heartRateRules.extract(text, claimed); hr != nil {
		parsed.HeartRate = hr
		claimed[*hr] = true
	}

	parsed.BloodPressure = extractBloodPressure(text)

	if o2 := oxygenSaturationRules.extract(text, claimed); o2 != nil {
		parsed.OxygenSaturation = o2
		claimed[*o2] = true
	}

	parsed.Temperature = extractTemperature(text)

	if rr := respiratoryRateRules.extract(text, claimed); rr != nil {
		parsed.RespiratoryRate = rr
	}

	return parsed
}

func (r intFieldRules) extract(text string, claimed map[int]bool) *int {
	for _, pattern := range r.patterns {
		m := pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		value, err := strconv.Atoi(m[1])
		if err != nil {
			return nil
		}
		if r.validateMatch && (value < r.min || value > r.max) {
			return nil
		}
		return &value
	}

	if r.fallback == nil {
		return nil
	}
	for _, m := range r.fallback.FindAllStringSubmatch(text, -1) {
		value, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if value >= r.min && value <= r.max && !claimed[value] {
			return &value
		}
	}
	return nil
}

// extractBloodPressure requires both numbers of a slash-separated pair within
// plausible ranges; a partial or implausible reading is discarded entirely.
func extractBloodPressure(text string) *models.BloodPressure {
	m := bloodPressurePattern.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	systolic, err := strconv.Atoi(m[1])
	if err != nil {
		return nil
	}
	diastolic, err := strconv.Atoi(m[2])
	if err != nil {
		return nil
	}
	if systolic < 60 || systolic > 250 || diastolic < 40 || diastolic > 150 {
		return nil
	}
	return &models.BloodPressure{Systolic: systolic, Diastolic: diastolic}
}

func extractTemperature(text string) *float64 {
	for _, pattern := range temperaturePatterns {
		m := pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		value, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return nil
		}
		return &value
	}

	for _, m := range decimalToken.FindAllStringSubmatch(text, -1) {
		value, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		// readings are plausible in either Celsius or Fahrenheit ranges
		if (value >= 32 && value <= 45) || (value >= 90 && value <= 110) {
			return &value
		}
	}
	return nil
}
