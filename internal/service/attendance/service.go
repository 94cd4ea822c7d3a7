package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/hadirin/hadirin-backend-go/internal/domain/attendance"
	"github.com/hadirin/hadirin-backend-go/internal/pkg/geo"
	"github.com/hadirin/hadirin-backend-go/internal/pkg/validator"
	"github.com/hadirin/hadirin-backend-go/internal/service/file"
	"github.com/shopspring/decimal"
)

type AttendanceServiceImpl struct {
	policy      attendance.Policy
	loc         *time.Location
	workStart   time.Time // wall-clock lateness cutoff, only hour/minute used
	repo        attendance.AttendanceRepository
	fraud       *FraudDetector
	hours       *WorkingHoursCalculator
	fileService file.FileService

	now func() time.Time
}

func NewAttendanceService(
	policy attendance.Policy,
	repo attendance.AttendanceRepository,
	fileService file.FileService,
) attendance.AttendanceService {
	policy = policy.Normalize()

	loc, err := time.LoadLocation(policy.Timezone)
	if err != nil {
		slog.Warn("unknown timezone, falling back to UTC", "timezone", policy.Timezone)
		loc = time.UTC
	}

	workStart, ok := validator.IsValidClockTime(policy.WorkStartTime)
	if !ok {
		workStart, _ = validator.IsValidClockTime(attendance.DefaultPolicy().WorkStartTime)
	}

	return &AttendanceServiceImpl{
		policy:      policy,
		loc:         loc,
		workStart:   workStart,
		repo:        repo,
		fraud:       NewFraudDetector(policy.AntiFakeGPS),
		hours:       NewWorkingHoursCalculator(loc),
		fileService: fileService,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// ClockIn implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ClockIn(ctx context.Context, req attendance.ClockInRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	employeeID, err := employeeIDFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	nowUTC := a.now()
	nowLocal := nowUTC.In(a.loc)
	day := dateOnly(nowLocal)

	existing, err := a.repo.GetByEmployeeAndDate(ctx, employeeID, day)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to check today's attendance: %w", err)
	}
	if existing.HasClockedIn() {
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyClockedIn
	}

	distance, err := geo.DistanceMeters(req.Latitude, req.Longitude,
		a.policy.Office.Latitude, a.policy.Office.Longitude)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to compute office distance: %w", err)
	}

	inOffice := distance <= a.policy.Office.RadiusMeters

	workType := attendance.WorkTypeOffice
	if !inOffice {
		workType = attendance.WorkTypeFieldWork
	}
	if req.WorkType != nil {
		workType = *req.WorkType
	}

	// An explicit office work type skips the geofence and evidence rules even
	// outside the fence; the recorded distance still exposes the mismatch.
	if !inOffice && workType != attendance.WorkTypeOffice {
		if !a.policy.FieldWork.EnableGeofence {
			// Field work is disabled; outside the fence means rejection.
			return attendance.AttendanceResponse{}, &attendance.GeofenceError{
				DistanceMeters: distance,
				RadiusMeters:   a.policy.Office.RadiusMeters,
			}
		}
		if err := a.validateFieldWorkEvidence(req); err != nil {
			return attendance.AttendanceResponse{}, err
		}
	}

	prev, err := a.repo.GetLastPositioned(ctx, employeeID, nowUTC)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to load last positioned attendance: %w", err)
	}

	flags := a.fraud.Evaluate(req.Latitude, req.Longitude, req.Accuracy, prev, nowUTC)
	if len(flags) > 0 {
		if a.policy.AntiFakeGPS.Mode == attendance.FraudModeEnforce {
			return attendance.AttendanceResponse{}, &attendance.FraudError{Reasons: flags}
		}
		slog.Warn("clock-in triggered fraud heuristics",
			"employee_id", employeeID,
			"reasons", flags,
		)
	}

	status := attendance.StatusPresent
	if a.isLate(nowLocal) {
		status = attendance.StatusLate
	}

	if req.File != nil && req.FileHeader != nil {
		photoRef, err := a.fileService.UploadAttendanceProof(ctx, employeeID, day,
			req.File, req.FileHeader.Filename, "clock_in")
		if err != nil {
			return attendance.AttendanceResponse{}, fmt.Errorf("failed to upload attendance proof: %w", err)
		}
		req.PhotoRef = &photoRef
	}

	created, err := a.repo.CreateIfAbsent(ctx, attendance.Attendance{
		EmployeeID:          employeeID,
		Date:                day,
		ClockIn:             &nowUTC,
		ClockInLatitude:     &req.Latitude,
		ClockInLongitude:    &req.Longitude,
		ClockInAddress:      req.Address,
		ClockInPhotoRef:     req.PhotoRef,
		ClockInAccuracy:     req.Accuracy,
		ClockInProvider:     req.Provider,
		WorkType:            workType,
		ActivityDescription: req.ActivityDescription,
		ClientName:          req.ClientName,
		Notes:               req.Notes,
		DistanceFromOffice:  &distance,
		FraudFlags:          flags,
		Status:              status,
	})
	if err != nil {
		if errors.Is(err, attendance.ErrAlreadyClockedIn) {
			return attendance.AttendanceResponse{}, err
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to create attendance record: %w", err)
	}

	return mapAttendanceToResponse(created), nil
}

// ClockOut implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ClockOut(ctx context.Context, req attendance.ClockOutRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	employeeID, err := employeeIDFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	nowUTC := a.now()
	day := dateOnly(nowUTC.In(a.loc))

	record, err := a.repo.GetByEmployeeAndDate(ctx, employeeID, day)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to check today's attendance: %w", err)
	}
	if !record.HasClockedIn() {
		return attendance.AttendanceResponse{}, attendance.ErrNotClockedIn
	}
	if record.HasClockedOut() {
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyClockedOut
	}

	workingHours, err := a.hours.Hours(*record.ClockIn, nowUTC)
	if err != nil {
		slog.Error("stored clock-in is after the clock-out instant",
			"attendance_id", record.ID,
			"employee_id", employeeID,
		)
		return attendance.AttendanceResponse{}, err
	}

	if req.File != nil && req.FileHeader != nil {
		photoRef, err := a.fileService.UploadAttendanceProof(ctx, employeeID, day,
			req.File, req.FileHeader.Filename, "clock_out")
		if err != nil {
			return attendance.AttendanceResponse{}, fmt.Errorf("failed to upload attendance proof: %w", err)
		}
		req.PhotoRef = &photoRef
	}

	record.ClockOut = &nowUTC
	record.ClockOutLatitude = &req.Latitude
	record.ClockOutLongitude = &req.Longitude
	record.ClockOutAddress = req.Address
	record.ClockOutPhotoRef = req.PhotoRef
	record.WorkingHours = &workingHours

	if err := a.repo.SetClockOut(ctx, *record); err != nil {
		if errors.Is(err, attendance.ErrAlreadyClockedOut) {
			return attendance.AttendanceResponse{}, err
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to set clock out: %w", err)
	}

	return mapAttendanceToResponse(*record), nil
}

// GetTodayAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetTodayAttendance(ctx context.Context) (*attendance.AttendanceResponse, error) {
	employeeID, err := employeeIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	day := dateOnly(a.now().In(a.loc))

	record, err := a.repo.GetByEmployeeAndDate(ctx, employeeID, day)
	if err != nil {
		return nil, fmt.Errorf("failed to get today's attendance: %w", err)
	}
	if record == nil {
		return nil, nil
	}

	resp := mapAttendanceToResponse(*record)
	return &resp, nil
}

// GetHistory implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetHistory(ctx context.Context, filter attendance.HistoryFilter) (attendance.ListAttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	employeeID, err := employeeIDFromContext(ctx)
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	records, total, err := a.repo.ListByEmployee(ctx, employeeID, filter)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to list attendances: %w", err)
	}

	responses := make([]attendance.AttendanceResponse, 0, len(records))
	for _, record := range records {
		responses = append(responses, mapAttendanceToResponse(record))
	}

	totalPages := int((total + int64(filter.Limit) - 1) / int64(filter.Limit))

	return attendance.ListAttendanceResponse{
		TotalCount:  total,
		Page:        filter.Page,
		Limit:       filter.Limit,
		TotalPages:  totalPages,
		Attendances: responses,
	}, nil
}

// GetStats implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetStats(ctx context.Context, req attendance.StatsRequest) (attendance.StatsResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.StatsResponse{}, err
	}

	employeeID, err := employeeIDFromContext(ctx)
	if err != nil {
		return attendance.StatsResponse{}, err
	}

	records, err := a.repo.ListByEmployeeMonth(ctx, employeeID, req.Year, time.Month(req.Month))
	if err != nil {
		return attendance.StatsResponse{}, fmt.Errorf("failed to list monthly attendances: %w", err)
	}

	stats := attendance.StatsResponse{TotalDays: len(records)}

	hoursSum := decimal.Zero
	hoursCount := 0
	for _, record := range records {
		switch record.Status {
		case attendance.StatusPresent:
			stats.PresentDays++
		case attendance.StatusLate:
			stats.LateDays++
		case attendance.StatusAbsent:
			stats.AbsentDays++
		}
		if record.WorkingHours != nil && *record.WorkingHours > 0 {
			hoursSum = hoursSum.Add(decimal.NewFromFloat(*record.WorkingHours))
			hoursCount++
		}
	}

	if hoursCount > 0 {
		stats.AverageWorkingHours, _ = hoursSum.
			Div(decimal.NewFromInt(int64(hoursCount))).
			Round(2).
			Float64()
	}

	if stats.TotalDays > 0 {
		attended := stats.PresentDays + stats.LateDays
		stats.AttendanceRate, _ = decimal.NewFromInt(int64(attended)).
			Div(decimal.NewFromInt(int64(stats.TotalDays))).
			Mul(decimal.NewFromInt(100)).
			Round(2).
			Float64()
	}

	return stats, nil
}

// RecalculateWorkingHours implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) RecalculateWorkingHours(ctx context.Context, date string) (attendance.AttendanceResponse, error) {
	employeeID, err := employeeIDFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	day, ok := validator.IsValidDate(date)
	if !ok {
		return attendance.AttendanceResponse{}, validator.ValidationErrors{{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		}}
	}

	record, err := a.repo.GetByEmployeeAndDate(ctx, employeeID, day)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get attendance: %w", err)
	}
	if !record.HasClockedIn() || !record.HasClockedOut() {
		return attendance.AttendanceResponse{}, attendance.ErrAttendanceNotFound
	}

	workingHours, err := a.hours.Hours(*record.ClockIn, *record.ClockOut)
	if err != nil {
		slog.Error("stored clock instants yield a negative duration",
			"attendance_id", record.ID,
			"employee_id", employeeID,
		)
		return attendance.AttendanceResponse{}, err
	}

	if err := a.repo.UpdateWorkingHours(ctx, record.ID, workingHours); err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to update working hours: %w", err)
	}

	record.WorkingHours = &workingHours
	return mapAttendanceToResponse(*record), nil
}

// validateFieldWorkEvidence enforces the evidence rules for clock-ins outside
// the office fence.
func (a *AttendanceServiceImpl) validateFieldWorkEvidence(req attendance.ClockInRequest) error {
	fw := a.policy.FieldWork
	var errs validator.ValidationErrors

	if fw.MandatoryPhoto && req.FileHeader == nil && req.PhotoRef == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "photo",
			Message: "proof photo is required when clocking in outside the office",
		})
	}

	if fw.MandatoryDescription {
		if req.ActivityDescription == nil ||
			len(strings.TrimSpace(*req.ActivityDescription)) < fw.MinDescriptionLength {
			errs = append(errs, validator.ValidationError{
				Field: "activity_description",
				Message: fmt.Sprintf("activity description of at least %d characters is required when clocking in outside the office",
					fw.MinDescriptionLength),
			})
		}
	}

	if fw.MandatoryClientName && (req.ClientName == nil || validator.IsEmpty(*req.ClientName)) {
		errs = append(errs, validator.ValidationError{
			Field:   "client_name",
			Message: "client name is required when clocking in outside the office",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// isLate reports whether a local clock-in instant falls after the configured
// work start wall-clock time on its own day.
func (a *AttendanceServiceImpl) isLate(nowLocal time.Time) bool {
	cutoff := time.Date(nowLocal.Year(), nowLocal.Month(), nowLocal.Day(),
		a.workStart.Hour(), a.workStart.Minute(), 0, 0, a.loc)
	return nowLocal.After(cutoff)
}

// dateOnly maps a local instant to its calendar day key. The key is stored at
// UTC midnight so day comparison never shifts with DST or offsets.
func dateOnly(local time.Time) time.Time {
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

func employeeIDFromContext(ctx context.Context) (string, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	employeeID, ok := claims["employee_id"].(string)
	if !ok || employeeID == "" {
		return "", fmt.Errorf("employee_id claim is missing or invalid")
	}

	return employeeID, nil
}

func mapAttendanceToResponse(att attendance.Attendance) attendance.AttendanceResponse {
	return attendance.AttendanceResponse{
		ID:                  att.ID,
		EmployeeID:          att.EmployeeID,
		Date:                att.Date.Format("2006-01-02"),
		ClockInTime:         timePtrToString(att.ClockIn),
		ClockOutTime:        timePtrToString(att.ClockOut),
		ClockInLatitude:     att.ClockInLatitude,
		ClockInLongitude:    att.ClockInLongitude,
		ClockInAddress:      att.ClockInAddress,
		ClockInPhotoRef:     att.ClockInPhotoRef,
		ClockOutLatitude:    att.ClockOutLatitude,
		ClockOutLongitude:   att.ClockOutLongitude,
		ClockOutAddress:     att.ClockOutAddress,
		ClockOutPhotoRef:    att.ClockOutPhotoRef,
		WorkType:            att.WorkType,
		ActivityDescription: att.ActivityDescription,
		ClientName:          att.ClientName,
		Notes:               att.Notes,
		DistanceFromOffice:  att.DistanceFromOffice,
		FraudFlags:          att.FraudFlags,
		WorkingHours:        att.WorkingHours,
		Status:              att.Status,
		CreatedAt:           att.CreatedAt.Format(time.RFC3339),
		UpdatedAt:           att.UpdatedAt.Format(time.RFC3339),
	}
}

func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}
