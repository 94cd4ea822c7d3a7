package attendance

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/hadirin/hadirin-backend-go/internal/domain/attendance"
	"github.com/hadirin/hadirin-backend-go/internal/pkg/geo"
)

// FraudDetector runs the anti-fake-GPS heuristics. Each check returns a flag
// plus a human-readable reason; the validator decides between reporting and
// enforcing based on the policy mode.
type FraudDetector struct {
	policy attendance.AntiFakeGPSPolicy
}

func NewFraudDetector(policy attendance.AntiFakeGPSPolicy) *FraudDetector {
	return &FraudDetector{policy: policy}
}

// PrecisionCheck flags coordinates carrying more decimal digits than real GPS
// sensors produce.
func (d *FraudDetector) PrecisionCheck(lat, lon float64) (bool, string) {
	limit := d.policy.SuspiciousPrecisionDecimals
	latDigits := decimalDigits(lat)
	lonDigits := decimalDigits(lon)

	if latDigits > limit || lonDigits > limit {
		return true, fmt.Sprintf("coordinates carry %d decimal digits, above the %d digit limit",
			max(latDigits, lonDigits), limit)
	}
	return false, ""
}

// AccuracyCheck flags a reported device accuracy coarser than the policy
// allows, or a missing accuracy value.
func (d *FraudDetector) AccuracyCheck(accuracyMeters *float64) (bool, string) {
	if accuracyMeters == nil {
		return true, "device did not report GPS accuracy"
	}
	if *accuracyMeters > d.policy.MinGPSAccuracyMeters {
		return true, fmt.Sprintf("reported GPS accuracy %.0fm is coarser than the %.0fm limit",
			*accuracyMeters, d.policy.MinGPSAccuracyMeters)
	}
	return false, ""
}

// TeleportationCheck flags physically implausible movement since the
// employee's last positioned event. Without a previous event the check never
// flags.
func (d *FraudDetector) TeleportationCheck(prev *attendance.Attendance, lat, lon float64, when time.Time) (bool, string) {
	if prev == nil || prev.ClockIn == nil || prev.ClockInLatitude == nil || prev.ClockInLongitude == nil {
		return false, ""
	}

	distance, err := geo.DistanceMeters(*prev.ClockInLatitude, *prev.ClockInLongitude, lat, lon)
	if err != nil {
		return false, ""
	}

	elapsedSeconds := when.Sub(*prev.ClockIn).Seconds()
	if elapsedSeconds <= 0 {
		return false, ""
	}

	maxDistance := (d.policy.MaxTravelSpeedKmh * 1000 / 3600) * elapsedSeconds
	if distance > maxDistance {
		return true, fmt.Sprintf("moved %.1fkm in %.0fs, beyond the %.0fkm/h travel speed limit",
			distance/1000, elapsedSeconds, d.policy.MaxTravelSpeedKmh)
	}
	return false, ""
}

// Evaluate runs the enabled heuristics and collects the triggered reasons.
func (d *FraudDetector) Evaluate(lat, lon float64, accuracyMeters *float64, prev *attendance.Attendance, when time.Time) []string {
	var reasons []string

	if d.policy.EnablePrecisionCheck {
		if flagged, reason := d.PrecisionCheck(lat, lon); flagged {
			reasons = append(reasons, reason)
		}
	}
	if d.policy.EnableAccuracyValidation {
		if flagged, reason := d.AccuracyCheck(accuracyMeters); flagged {
			reasons = append(reasons, reason)
		}
	}
	if d.policy.EnableTeleportationDetection {
		if flagged, reason := d.TeleportationCheck(prev, lat, lon, when); flagged {
			reasons = append(reasons, reason)
		}
	}

	return reasons
}

// decimalDigits counts the decimal digits of the shortest representation that
// round-trips the value, mirroring how a device would have serialized it.
func decimalDigits(v float64) int {
	s := strconv.FormatFloat(math.Abs(v), 'f', -1, 64)
	dot := strings.IndexByte(s, '.')
	if dot < 0 {
		return 0
	}
	return len(s) - dot - 1
}
