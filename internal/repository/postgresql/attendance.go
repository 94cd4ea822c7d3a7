package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hadirin/hadirin-backend-go/internal/domain/attendance"
	"github.com/hadirin/hadirin-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type attendanceRepository struct {
	db *database.DB
}

const attendanceColumns = `
	id, employee_id, date,
	clock_in, clock_in_latitude, clock_in_longitude, clock_in_address,
	clock_in_photo, clock_in_accuracy, clock_in_provider,
	clock_out, clock_out_latitude, clock_out_longitude, clock_out_address, clock_out_photo,
	work_type, activity_description, client_name, notes,
	distance_from_office, fraud_flags, working_hours, status,
	created_at, updated_at`

func scanAttendance(row pgx.Row) (attendance.Attendance, error) {
	var att attendance.Attendance
	err := row.Scan(
		&att.ID, &att.EmployeeID, &att.Date,
		&att.ClockIn, &att.ClockInLatitude, &att.ClockInLongitude, &att.ClockInAddress,
		&att.ClockInPhotoRef, &att.ClockInAccuracy, &att.ClockInProvider,
		&att.ClockOut, &att.ClockOutLatitude, &att.ClockOutLongitude, &att.ClockOutAddress, &att.ClockOutPhotoRef,
		&att.WorkType, &att.ActivityDescription, &att.ClientName, &att.Notes,
		&att.DistanceFromOffice, &att.FraudFlags, &att.WorkingHours, &att.Status,
		&att.CreatedAt, &att.UpdatedAt,
	)
	return att, err
}

// CreateIfAbsent implements attendance.AttendanceRepository.
// The attendances table carries a unique index on (employee_id, date); the
// ON CONFLICT clause turns a concurrent duplicate clock-in into
// ErrAlreadyClockedIn instead of a second row.
func (a *attendanceRepository) CreateIfAbsent(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO attendances (
			employee_id, date,
			clock_in, clock_in_latitude, clock_in_longitude, clock_in_address,
			clock_in_photo, clock_in_accuracy, clock_in_provider,
			work_type, activity_description, client_name, notes,
			distance_from_office, fraud_flags, status
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16
		)
		ON CONFLICT (employee_id, date) DO NOTHING
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		att.EmployeeID,
		att.Date,
		att.ClockIn,
		att.ClockInLatitude,
		att.ClockInLongitude,
		att.ClockInAddress,
		att.ClockInPhotoRef,
		att.ClockInAccuracy,
		att.ClockInProvider,
		att.WorkType,
		att.ActivityDescription,
		att.ClientName,
		att.Notes,
		att.DistanceFromOffice,
		att.FraudFlags,
		att.Status,
	).Scan(&att.ID, &att.CreatedAt, &att.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Conflict on the (employee_id, date) key: another clock-in won.
			return attendance.Attendance{}, attendance.ErrAlreadyClockedIn
		}
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	return att, nil
}

// GetByEmployeeAndDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT` + attendanceColumns + `
		FROM attendances
		WHERE employee_id = $1 AND date = $2
		LIMIT 1
	`

	att, err := scanAttendance(q.QueryRow(ctx, query, employeeID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // no record for this day
		}
		return nil, fmt.Errorf("failed to get attendance by employee and date: %w", err)
	}

	return &att, nil
}

// SetClockOut implements attendance.AttendanceRepository.
// Only rows without a clock-out are touched; a lost race surfaces as
// ErrAlreadyClockedOut.
func (a *attendanceRepository) SetClockOut(ctx context.Context, att attendance.Attendance) error {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendances
		SET clock_out = $1,
			clock_out_latitude = $2,
			clock_out_longitude = $3,
			clock_out_address = $4,
			clock_out_photo = $5,
			working_hours = $6,
			updated_at = $7
		WHERE id = $8 AND clock_out IS NULL
		RETURNING id
	`

	var updatedID string
	err := q.QueryRow(ctx, query,
		att.ClockOut,
		att.ClockOutLatitude,
		att.ClockOutLongitude,
		att.ClockOutAddress,
		att.ClockOutPhotoRef,
		att.WorkingHours,
		time.Now().UTC(),
		att.ID,
	).Scan(&updatedID)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.ErrAlreadyClockedOut
		}
		return fmt.Errorf("failed to set clock out: %w", err)
	}

	return nil
}

// UpdateWorkingHours implements attendance.AttendanceRepository.
func (a *attendanceRepository) UpdateWorkingHours(ctx context.Context, id string, hours float64) error {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendances
		SET working_hours = $1, updated_at = $2
		WHERE id = $3
		RETURNING id
	`

	var updatedID string
	if err := q.QueryRow(ctx, query, hours, time.Now().UTC(), id).Scan(&updatedID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.ErrAttendanceNotFound
		}
		return fmt.Errorf("failed to update working hours: %w", err)
	}

	return nil
}

// GetLastPositioned implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetLastPositioned(ctx context.Context, employeeID string, before time.Time) (*attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT` + attendanceColumns + `
		FROM attendances
		WHERE employee_id = $1
		  AND clock_in IS NOT NULL
		  AND clock_in < $2
		  AND clock_in_latitude IS NOT NULL
		  AND clock_in_longitude IS NOT NULL
		ORDER BY clock_in DESC
		LIMIT 1
	`

	att, err := scanAttendance(q.QueryRow(ctx, query, employeeID, before))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // no positioned history
		}
		return nil, fmt.Errorf("failed to get last positioned attendance: %w", err)
	}

	return &att, nil
}

// ListByEmployee implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListByEmployee(ctx context.Context, employeeID string, filter attendance.HistoryFilter) ([]attendance.Attendance, int64, error) {
	q := GetQuerier(ctx, a.db)

	// Build WHERE clause
	baseWhere := "employee_id = $1"
	args := []interface{}{employeeID}
	argIdx := 2

	if filter.StartDate != nil && *filter.StartDate != "" {
		baseWhere += fmt.Sprintf(" AND date >= $%d", argIdx)
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		baseWhere += fmt.Sprintf(" AND date <= $%d", argIdx)
		args = append(args, *filter.EndDate)
		argIdx++
	}
	if filter.Status != nil && *filter.Status != "" {
		baseWhere += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}

	// Count total
	countQuery := "SELECT COUNT(*) FROM attendances WHERE " + baseWhere
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendances: %w", err)
	}

	// Build ORDER BY
	orderByField := "date"
	switch filter.SortBy {
	case "clock_in_time":
		orderByField = "clock_in"
	case "clock_out_time":
		orderByField = "clock_out"
	case "status":
		orderByField = "status"
	}
	sortOrder := "DESC"
	if strings.ToLower(filter.SortOrder) == "asc" {
		sortOrder = "ASC"
	}

	selectQuery := fmt.Sprintf(`SELECT`+attendanceColumns+`
		FROM attendances
		WHERE %s
		ORDER BY %s %s
		LIMIT $%d OFFSET $%d
	`, baseWhere, orderByField, sortOrder, argIdx, argIdx+1)

	limit := filter.Limit
	if limit == 0 {
		limit = 20
	}
	offset := (filter.Page - 1) * limit
	args = append(args, limit, offset)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query attendances: %w", err)
	}
	defer rows.Close()

	var attendances []attendance.Attendance
	for rows.Next() {
		att, err := scanAttendance(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan attendance: %w", err)
		}
		attendances = append(attendances, att)
	}

	return attendances, total, nil
}

// ListByEmployeeMonth implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListByEmployeeMonth(ctx context.Context, employeeID string, year int, month time.Month) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT` + attendanceColumns + `
		FROM attendances
		WHERE employee_id = $1
		  AND EXTRACT(YEAR FROM date) = $2
		  AND EXTRACT(MONTH FROM date) = $3
		ORDER BY date ASC
	`

	rows, err := q.Query(ctx, query, employeeID, year, int(month))
	if err != nil {
		return nil, fmt.Errorf("failed to query monthly attendances: %w", err)
	}
	defer rows.Close()

	var attendances []attendance.Attendance
	for rows.Next() {
		att, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		attendances = append(attendances, att)
	}

	return attendances, nil
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}
