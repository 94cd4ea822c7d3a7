// Package memory provides an in-memory attendance record store implementing
// the same (employee_id, date) uniqueness contract as the PostgreSQL
// repository. It backs service tests and small single-node deployments.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hadirin/hadirin-backend-go/internal/domain/attendance"
)

type attendanceRepository struct {
	mu      sync.Mutex
	records map[string]attendance.Attendance // keyed by employee_id|date
}

func NewAttendanceRepository() attendance.AttendanceRepository {
	return &attendanceRepository{
		records: make(map[string]attendance.Attendance),
	}
}

func dayKey(employeeID string, date time.Time) string {
	return employeeID + "|" + date.Format("2006-01-02")
}

// CreateIfAbsent implements attendance.AttendanceRepository.
// The mutex serializes the check-then-insert so concurrent clock-ins for the
// same (employee_id, date) cannot both succeed.
func (r *attendanceRepository) CreateIfAbsent(_ context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := dayKey(att.EmployeeID, att.Date)
	if _, exists := r.records[key]; exists {
		return attendance.Attendance{}, attendance.ErrAlreadyClockedIn
	}

	now := time.Now().UTC()
	att.ID = uuid.New().String()
	att.CreatedAt = now
	att.UpdatedAt = now
	r.records[key] = att

	return att, nil
}

// GetByEmployeeAndDate implements attendance.AttendanceRepository.
func (r *attendanceRepository) GetByEmployeeAndDate(_ context.Context, employeeID string, date time.Time) (*attendance.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	att, exists := r.records[dayKey(employeeID, date)]
	if !exists {
		return nil, nil
	}
	return &att, nil
}

// SetClockOut implements attendance.AttendanceRepository.
func (r *attendanceRepository) SetClockOut(_ context.Context, att attendance.Attendance) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key, stored := range r.records {
		if stored.ID != att.ID {
			continue
		}
		if stored.ClockOut != nil {
			return attendance.ErrAlreadyClockedOut
		}
		stored.ClockOut = att.ClockOut
		stored.ClockOutLatitude = att.ClockOutLatitude
		stored.ClockOutLongitude = att.ClockOutLongitude
		stored.ClockOutAddress = att.ClockOutAddress
		stored.ClockOutPhotoRef = att.ClockOutPhotoRef
		stored.WorkingHours = att.WorkingHours
		stored.UpdatedAt = time.Now().UTC()
		r.records[key] = stored
		return nil
	}

	return attendance.ErrAlreadyClockedOut
}

// UpdateWorkingHours implements attendance.AttendanceRepository.
func (r *attendanceRepository) UpdateWorkingHours(_ context.Context, id string, hours float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key, stored := range r.records {
		if stored.ID != id {
			continue
		}
		stored.WorkingHours = &hours
		stored.UpdatedAt = time.Now().UTC()
		r.records[key] = stored
		return nil
	}

	return attendance.ErrAttendanceNotFound
}

// GetLastPositioned implements attendance.AttendanceRepository.
func (r *attendanceRepository) GetLastPositioned(_ context.Context, employeeID string, before time.Time) (*attendance.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var latest *attendance.Attendance
	for _, stored := range r.records {
		if stored.EmployeeID != employeeID {
			continue
		}
		if stored.ClockIn == nil || stored.ClockInLatitude == nil || stored.ClockInLongitude == nil {
			continue
		}
		if !stored.ClockIn.Before(before) {
			continue
		}
		if latest == nil || stored.ClockIn.After(*latest.ClockIn) {
			s := stored
			latest = &s
		}
	}

	return latest, nil
}

// ListByEmployee implements attendance.AttendanceRepository.
func (r *attendanceRepository) ListByEmployee(_ context.Context, employeeID string, filter attendance.HistoryFilter) ([]attendance.Attendance, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []attendance.Attendance
	for _, stored := range r.records {
		if stored.EmployeeID != employeeID {
			continue
		}
		day := stored.Date.Format("2006-01-02")
		if filter.StartDate != nil && *filter.StartDate != "" && day < *filter.StartDate {
			continue
		}
		if filter.EndDate != nil && *filter.EndDate != "" && day > *filter.EndDate {
			continue
		}
		if filter.Status != nil && *filter.Status != "" && stored.Status != *filter.Status {
			continue
		}
		matched = append(matched, stored)
	}

	asc := strings.EqualFold(filter.SortOrder, "asc")
	sort.Slice(matched, func(i, j int) bool {
		less := matched[i].Date.Before(matched[j].Date)
		if asc {
			return less
		}
		return !less
	})

	total := int64(len(matched))

	limit := filter.Limit
	if limit == 0 {
		limit = 20
	}
	start := (filter.Page - 1) * limit
	if start >= len(matched) {
		return nil, total, nil
	}
	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}

	return matched[start:end], total, nil
}

// ListByEmployeeMonth implements attendance.AttendanceRepository.
func (r *attendanceRepository) ListByEmployeeMonth(_ context.Context, employeeID string, year int, month time.Month) ([]attendance.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []attendance.Attendance
	for _, stored := range r.records {
		if stored.EmployeeID != employeeID {
			continue
		}
		if stored.Date.Year() != year || stored.Date.Month() != month {
			continue
		}
		matched = append(matched, stored)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].Date.Before(matched[j].Date)
	})

	return matched, nil
}
