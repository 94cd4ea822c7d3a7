package attendance

// FraudMode selects how triggered anti-fake-GPS heuristics are handled.
// In report mode the reasons are attached to the record; in enforce mode any
// triggered heuristic rejects the clock event.
type FraudMode string

const (
	FraudModeReport  FraudMode = "report"
	FraudModeEnforce FraudMode = "enforce"
)

// OfficePolicy describes the office geofence.
type OfficePolicy struct {
	Latitude     float64
	Longitude    float64
	RadiusMeters float64
	Name         string
	Address      string
}

// FieldWorkPolicy describes evidence requirements for clock-ins outside the
// geofence. EnableGeofence=false means field work is not allowed at all and
// out-of-fence clock-ins are rejected.
type FieldWorkPolicy struct {
	EnableGeofence       bool
	MandatoryPhoto       bool
	MandatoryDescription bool
	MandatoryClientName  bool
	MinDescriptionLength int
}

// AntiFakeGPSPolicy holds the thresholds for the GPS spoofing heuristics.
type AntiFakeGPSPolicy struct {
	EnablePrecisionCheck         bool
	EnableAccuracyValidation     bool
	EnableTeleportationDetection bool
	MinGPSAccuracyMeters         float64
	SuspiciousPrecisionDecimals  int
	MaxTravelSpeedKmh            float64
	Mode                         FraudMode
}

// Policy is the immutable attendance configuration injected into the service
// at construction time.
type Policy struct {
	Office      OfficePolicy
	FieldWork   FieldWorkPolicy
	AntiFakeGPS AntiFakeGPSPolicy

	// WorkStartTime is the lateness cutoff as "HH:MM" wall-clock time in the
	// reference timezone.
	WorkStartTime string

	// Timezone is the canonical reference timezone all stored instants are
	// normalized to for day and duration arithmetic.
	Timezone string
}

// DefaultPolicy returns the policy used when configuration is partially or
// entirely absent.
func DefaultPolicy() Policy {
	return Policy{
		Office: OfficePolicy{
			Latitude:     -6.270075,
			Longitude:    106.819858,
			RadiusMeters: 200,
			Name:         "Kantor Pusat",
			Address:      "Jakarta, Indonesia",
		},
		FieldWork: FieldWorkPolicy{
			EnableGeofence:       true,
			MandatoryPhoto:       true,
			MandatoryDescription: true,
			MandatoryClientName:  true,
			MinDescriptionLength: 10,
		},
		AntiFakeGPS: AntiFakeGPSPolicy{
			EnablePrecisionCheck:         true,
			EnableAccuracyValidation:     true,
			EnableTeleportationDetection: true,
			MinGPSAccuracyMeters:         50,
			SuspiciousPrecisionDecimals:  8,
			MaxTravelSpeedKmh:            200,
			Mode:                         FraudModeReport,
		},
		WorkStartTime: "08:30",
		Timezone:      "Asia/Jakarta",
	}
}

// Normalize fills unset numeric thresholds and strings with their defaults so
// a partially populated policy never breaks validation.
func (p Policy) Normalize() Policy {
	def := DefaultPolicy()

	if p.Office.RadiusMeters <= 0 {
		p.Office.RadiusMeters = def.Office.RadiusMeters
	}
	if p.Office.Latitude == 0 && p.Office.Longitude == 0 {
		p.Office.Latitude = def.Office.Latitude
		p.Office.Longitude = def.Office.Longitude
	}
	if p.FieldWork.MinDescriptionLength <= 0 {
		p.FieldWork.MinDescriptionLength = def.FieldWork.MinDescriptionLength
	}
	if p.AntiFakeGPS.MinGPSAccuracyMeters <= 0 {
		p.AntiFakeGPS.MinGPSAccuracyMeters = def.AntiFakeGPS.MinGPSAccuracyMeters
	}
	if p.AntiFakeGPS.SuspiciousPrecisionDecimals <= 0 {
		p.AntiFakeGPS.SuspiciousPrecisionDecimals = def.AntiFakeGPS.SuspiciousPrecisionDecimals
	}
	if p.AntiFakeGPS.MaxTravelSpeedKmh <= 0 {
		p.AntiFakeGPS.MaxTravelSpeedKmh = def.AntiFakeGPS.MaxTravelSpeedKmh
	}
	if p.AntiFakeGPS.Mode != FraudModeEnforce {
		p.AntiFakeGPS.Mode = FraudModeReport
	}
	if p.WorkStartTime == "" {
		p.WorkStartTime = def.WorkStartTime
	}
	if p.Timezone == "" {
		p.Timezone = def.Timezone
	}

	return p
}
