package attendance

import (
	"context"
)

// AttendanceService defines business logic for clock event handling
type AttendanceService interface {
	// ClockIn validates and records the employee's clock-in for today
	ClockIn(ctx context.Context, req ClockInRequest) (AttendanceResponse, error)

	// ClockOut records the clock-out and computes working hours
	ClockOut(ctx context.Context, req ClockOutRequest) (AttendanceResponse, error)

	// GetTodayAttendance returns today's record, or nil when none exists
	GetTodayAttendance(ctx context.Context) (*AttendanceResponse, error)

	// GetHistory retrieves the authenticated employee's attendance history
	GetHistory(ctx context.Context, filter HistoryFilter) (ListAttendanceResponse, error)

	// GetStats aggregates one month of attendance for the employee
	GetStats(ctx context.Context, req StatsRequest) (StatsResponse, error)

	// RecalculateWorkingHours recomputes working_hours for a completed day
	// record. Idempotent: the same stored instants yield the same value.
	RecalculateWorkingHours(ctx context.Context, date string) (AttendanceResponse, error)
}
