package attendance

import (
	"testing"
	"time"

	"github.com/hadirin/hadirin-backend-go/internal/domain/attendance"
	"github.com/stretchr/testify/assert"
)

func testFraudPolicy() attendance.AntiFakeGPSPolicy {
	return attendance.AntiFakeGPSPolicy{
		EnablePrecisionCheck:         true,
		EnableAccuracyValidation:     true,
		EnableTeleportationDetection: true,
		MinGPSAccuracyMeters:         50,
		SuspiciousPrecisionDecimals:  8,
		MaxTravelSpeedKmh:            200,
		Mode:                         attendance.FraudModeReport,
	}
}

func TestFraudDetector_PrecisionCheck(t *testing.T) {
	t.Parallel()

	d := NewFraudDetector(testFraudPolicy())

	tests := []struct {
		name    string
		lat     float64
		lon     float64
		flagged bool
	}{
		{"six decimals is normal", -6.270075, 106.819858, false},
		{"eight decimals is at the limit", -6.27007512, 106.81985834, false},
		{"ten decimals is suspicious", -6.2700751234, 106.8198583412, true},
		{"whole degrees", -6, 106, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			flagged, reason := d.PrecisionCheck(tt.lat, tt.lon)
			assert.Equal(t, tt.flagged, flagged)
			if tt.flagged {
				assert.NotEmpty(t, reason)
			}
		})
	}
}

func TestFraudDetector_AccuracyCheck(t *testing.T) {
	t.Parallel()

	d := NewFraudDetector(testFraudPolicy())

	flagged, reason := d.AccuracyCheck(nil)
	assert.True(t, flagged)
	assert.Contains(t, reason, "did not report")

	coarse := 80.0
	flagged, _ = d.AccuracyCheck(&coarse)
	assert.True(t, flagged)

	fine := 12.0
	flagged, _ = d.AccuracyCheck(&fine)
	assert.False(t, flagged)

	atLimit := 50.0
	flagged, _ = d.AccuracyCheck(&atLimit)
	assert.False(t, flagged)
}

func TestFraudDetector_TeleportationCheck(t *testing.T) {
	t.Parallel()

	d := NewFraudDetector(testFraudPolicy())

	now := time.Date(2025, 3, 10, 2, 0, 0, 0, time.UTC)
	earlier := now.Add(-60 * time.Second)
	prevLat, prevLon := -6.270075, 106.819858

	prev := &attendance.Attendance{
		ClockIn:          &earlier,
		ClockInLatitude:  &prevLat,
		ClockInLongitude: &prevLon,
	}

	// About 50km north of the previous position, one minute later.
	flagged, reason := d.TeleportationCheck(prev, -5.820075, 106.819858, now)
	assert.True(t, flagged)
	assert.Contains(t, reason, "travel speed")

	// A few hundred meters in a minute is fine.
	flagged, _ = d.TeleportationCheck(prev, -6.272075, 106.819858, now)
	assert.False(t, flagged)

	// No previous positioned event means the check never flags.
	flagged, _ = d.TeleportationCheck(nil, -5.820075, 106.819858, now)
	assert.False(t, flagged)
}

func TestFraudDetector_EvaluateRespectsToggles(t *testing.T) {
	t.Parallel()

	policy := testFraudPolicy()
	policy.EnablePrecisionCheck = false
	policy.EnableAccuracyValidation = false
	policy.EnableTeleportationDetection = false
	d := NewFraudDetector(policy)

	reasons := d.Evaluate(-6.2700751234, 106.8198583412, nil, nil, time.Now().UTC())
	assert.Empty(t, reasons)
}

func TestFraudDetector_EvaluateAggregatesReasons(t *testing.T) {
	t.Parallel()

	d := NewFraudDetector(testFraudPolicy())

	// Suspicious precision and missing accuracy at once.
	reasons := d.Evaluate(-6.2700751234, 106.8198583412, nil, nil, time.Now().UTC())
	assert.Len(t, reasons, 2)
}
