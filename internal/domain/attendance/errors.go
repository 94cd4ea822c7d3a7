package attendance

import (
	"errors"
	"fmt"
	"strings"
)

// Attendance domain errors
var (
	// Clock event state conflicts
	ErrAlreadyClockedIn  = errors.New("you have already clocked in today")
	ErrNotClockedIn      = errors.New("you must clock in first")
	ErrAlreadyClockedOut = errors.New("you have already clocked out today")

	// General errors
	ErrAttendanceNotFound = errors.New("attendance record not found")

	// ErrCorruptDuration signals stored clock instants that produce a negative
	// working duration. Never surfaced as a user validation failure.
	ErrCorruptDuration = errors.New("stored clock events produce a negative duration")
)

// GeofenceError rejects a clock-in outside the office radius when field work
// is disallowed. Distance and radius are kept so the caller can explain the
// rejection to the employee.
type GeofenceError struct {
	DistanceMeters float64
	RadiusMeters   float64
}

func (e *GeofenceError) Error() string {
	return fmt.Sprintf("you are %.0fm from the office; attendance is only allowed within a %.0fm radius",
		e.DistanceMeters, e.RadiusMeters)
}

// FraudError rejects a clock-in whose anti-fake-GPS heuristics triggered
// while the policy runs in enforce mode.
type FraudError struct {
	Reasons []string
}

func (e *FraudError) Error() string {
	return "suspicious location data: " + strings.Join(e.Reasons, "; ")
}
