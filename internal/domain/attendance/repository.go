package attendance

import (
	"context"
	"time"
)

// AttendanceRepository is the record store contract: one row per
// (employee_id, date) with atomic create-if-absent and guarded clock-out.
type AttendanceRepository interface {
	// CreateIfAbsent inserts the day record. It returns ErrAlreadyClockedIn
	// when a record for (employee_id, date) already exists, relying on the
	// store's unique key so concurrent clock-ins cannot both succeed.
	CreateIfAbsent(ctx context.Context, att Attendance) (Attendance, error)

	// GetByEmployeeAndDate returns the day record, or nil when absent.
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*Attendance, error)

	// SetClockOut persists the clock-out fields and working hours. It only
	// touches rows whose clock_out is still empty and returns
	// ErrAlreadyClockedOut otherwise.
	SetClockOut(ctx context.Context, att Attendance) error

	// UpdateWorkingHours overwrites the derived working_hours value.
	// Used by the administrative recalculation, which is idempotent.
	UpdateWorkingHours(ctx context.Context, id string, hours float64) error

	// GetLastPositioned returns the most recent record before the given
	// instant that carries clock-in coordinates, or nil when the employee has
	// no positioned history. Feeds the teleportation heuristic. Only clock-in
	// positions are considered: a clock-out on the same day record would pair
	// its coordinates with a later instant, and the heuristic compares one
	// position and one instant per prior event.
	GetLastPositioned(ctx context.Context, employeeID string, before time.Time) (*Attendance, error)

	// ListByEmployee retrieves the employee's records with filters and
	// pagination.
	ListByEmployee(ctx context.Context, employeeID string, filter HistoryFilter) ([]Attendance, int64, error)

	// ListByEmployeeMonth retrieves all records for one calendar month.
	ListByEmployeeMonth(ctx context.Context, employeeID string, year int, month time.Month) ([]Attendance, error)
}
