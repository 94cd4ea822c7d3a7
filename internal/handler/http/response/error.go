package response

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/hadirin/hadirin-backend-go/internal/domain/attendance"
	"github.com/hadirin/hadirin-backend-go/internal/domain/auth"
	"github.com/hadirin/hadirin-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	var geofenceErr *attendance.GeofenceError
	if errors.As(err, &geofenceErr) {
		UnprocessableEntity(w, "OUTSIDE_GEOFENCE", geofenceErr.Error(), map[string]string{
			"distance_m":       fmt.Sprintf("%.0f", geofenceErr.DistanceMeters),
			"allowed_radius_m": fmt.Sprintf("%.0f", geofenceErr.RadiusMeters),
		})
		return
	}

	var fraudErr *attendance.FraudError
	if errors.As(err, &fraudErr) {
		details := make(map[string]string, len(fraudErr.Reasons))
		for i, reason := range fraudErr.Reasons {
			details[fmt.Sprintf("reason_%d", i+1)] = reason
		}
		UnprocessableEntity(w, "SUSPICIOUS_LOCATION", "Suspicious location data detected", details)
		return
	}

	switch {
	// Clock event state conflicts
	case errors.Is(err, attendance.ErrAlreadyClockedIn):
		Conflict(w, "You have already clocked in today")
	case errors.Is(err, attendance.ErrNotClockedIn):
		Conflict(w, "You must clock in before clocking out")
	case errors.Is(err, attendance.ErrAlreadyClockedOut):
		Conflict(w, "You have already clocked out today")

	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")

	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid token")
	case errors.Is(err, auth.ErrTokenExpired):
		Unauthorized(w, "Token expired")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
