package vitals

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse_LabeledMonitorReadout(t *testing.T) {
	parsed := Parse("HR: 72 BP: 120/80 SpO2: 98% Temp: 36.6 RR: 16")

	assert.NotNil(t, parsed.HeartRate)
	assert.Equal(t, 72, *parsed.HeartRate)
	assert.NotNil(t, parsed.BloodPressure)
	assert.Equal(t, 120, parsed.BloodPressure.Systolic)
	assert.Equal(t, 80, parsed.BloodPressure.Diastolic)
	assert.NotNil(t, parsed.OxygenSaturation)
	assert.Equal(t, 98, *parsed.OxygenSaturation)
	assert.NotNil(t, parsed.Temperature)
	assert.Equal(t, 36.6, *parsed.Temperature)
	assert.NotNil(t, parsed.RespiratoryRate)
	assert.Equal(t, 16, *parsed.RespiratoryRate)
}

func TestParse_UnitSuffixes(t *testing.T) {
	parsed := Parse("reading 72 bpm, sat 95%, 18 /min")

	assert.NotNil(t, parsed.HeartRate)
	assert.Equal(t, 72, *parsed.HeartRate)
	assert.NotNil(t, parsed.OxygenSaturation)
	assert.Equal(t, 95, *parsed.OxygenSaturation)
	assert.NotNil(t, parsed.RespiratoryRate)
	assert.Equal(t, 18, *parsed.RespiratoryRate)
}

func TestParse_FallbackDoesNotReuseClaimedNumbers(t *testing.T) {
	// both bare numbers fit the heart rate range; the first is claimed by
	// heart rate, so oxygen saturation takes the second
	parsed := Parse("88 92")

	assert.NotNil(t, parsed.HeartRate)
	assert.Equal(t, 88, *parsed.HeartRate)
	assert.NotNil(t, parsed.OxygenSaturation)
	assert.Equal(t, 92, *parsed.OxygenSaturation)
}

func TestParse_ImplausibleBloodPressureDiscarded(t *testing.T) {
	parsed := Parse("BP: 300/80")
	assert.Nil(t, parsed.BloodPressure)

	parsed = Parse("BP: 120/20")
	assert.Nil(t, parsed.BloodPressure)
}

func TestParse_OutOfRangeSaturationIsDropped(t *testing.T) {
	// a labeled saturation outside 70-100 means the digits are garbage,
	// not a reading to rescue from elsewhere in the text
	parsed := Parse("SpO2: 198")
	assert.Nil(t, parsed.OxygenSaturation)
}

func TestParse_NoiseCharactersStripped(t *testing.T) {
	parsed := Parse("HR[72] BP{118/76} $SpO2: 97%")

	assert.NotNil(t, parsed.HeartRate)
	assert.Equal(t, 72, *parsed.HeartRate)
	assert.NotNil(t, parsed.BloodPressure)
	assert.Equal(t, 118, parsed.BloodPressure.Systolic)
	assert.NotNil(t, parsed.OxygenSaturation)
	assert.Equal(t, 97, *parsed.OxygenSaturation)
}

func TestParse_FahrenheitWithDegreeSymbol(t *testing.T) {
	parsed := Parse("temperature reads 98.6°F today")

	assert.NotNil(t, parsed.Temperature)
	assert.Equal(t, 98.6, *parsed.Temperature)
}

func TestParse_EmptyAndUnusableText(t *testing.T) {
	parsed := Parse("")
	assert.Nil(t, parsed.HeartRate)
	assert.Nil(t, parsed.BloodPressure)
	assert.Nil(t, parsed.OxygenSaturation)
	assert.Nil(t, parsed.Temperature)
	assert.Nil(t, parsed.RespiratoryRate)

	parsed = Parse("no numbers here at all")
	assert.Nil(t, parsed.HeartRate)
}

func TestParse_IsDeterministic(t *testing.T) {
	raw := "HR: 55 BP: 145/95 SpO2: 93% Temp: 38.4 RR: 22"

	first := Parse(raw)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Parse(raw))
	}
}
