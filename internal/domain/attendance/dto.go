package attendance

import (
	"math"
	"mime/multipart"
	"strings"

	"github.com/hadirin/hadirin-backend-go/internal/pkg/validator"
)

// ========================================
// CLOCK EVENT DTOs
// ========================================

type ClockInRequest struct {
	Latitude            float64  `json:"latitude"`
	Longitude           float64  `json:"longitude"`
	Address             *string  `json:"address,omitempty"`
	WorkType            *string  `json:"work_type,omitempty"`
	ActivityDescription *string  `json:"activity_description,omitempty"`
	ClientName          *string  `json:"client_name,omitempty"`
	Notes               *string  `json:"notes,omitempty"`
	Accuracy            *float64 `json:"accuracy,omitempty"`
	Provider            *string  `json:"provider,omitempty"`

	// Evidence photo; uploaded by the file service, only the reference is
	// persisted.
	PhotoRef   *string               `json:"-"`
	File       multipart.File        `json:"-"`
	FileHeader *multipart.FileHeader `json:"-"`
}

func (r *ClockInRequest) Validate() error {
	var errs validator.ValidationErrors

	errs = append(errs, validateCoordinatePair(r.Latitude, r.Longitude)...)

	if r.WorkType != nil && !validator.IsInSlice(*r.WorkType, ValidWorkTypes) {
		errs = append(errs, validator.ValidationError{
			Field:   "work_type",
			Message: "work_type must be one of: " + strings.Join(ValidWorkTypes, ", "),
		})
	}

	if r.ClientName != nil && len(*r.ClientName) > 255 {
		errs = append(errs, validator.ValidationError{
			Field:   "client_name",
			Message: "client_name must not exceed 255 characters",
		})
	}

	if r.Notes != nil && len(*r.Notes) > 500 {
		errs = append(errs, validator.ValidationError{
			Field:   "notes",
			Message: "notes must not exceed 500 characters",
		})
	}

	if r.Accuracy != nil && (*r.Accuracy < 0 || math.IsNaN(*r.Accuracy)) {
		errs = append(errs, validator.ValidationError{
			Field:   "accuracy",
			Message: "accuracy must be a non-negative number of meters",
		})
	}

	if err := validateProofPhoto(r.FileHeader); err != nil {
		errs = append(errs, *err)
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ClockOutRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   *string `json:"address,omitempty"`

	PhotoRef   *string               `json:"-"`
	File       multipart.File        `json:"-"`
	FileHeader *multipart.FileHeader `json:"-"`
}

func (r *ClockOutRequest) Validate() error {
	var errs validator.ValidationErrors

	errs = append(errs, validateCoordinatePair(r.Latitude, r.Longitude)...)

	if err := validateProofPhoto(r.FileHeader); err != nil {
		errs = append(errs, *err)
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

func validateCoordinatePair(lat, lon float64) validator.ValidationErrors {
	var errs validator.ValidationErrors

	if math.IsNaN(lat) || lat < -90 || lat > 90 {
		errs = append(errs, validator.ValidationError{
			Field:   "latitude",
			Message: "latitude must be between -90 and 90",
		})
	}

	if math.IsNaN(lon) || lon < -180 || lon > 180 {
		errs = append(errs, validator.ValidationError{
			Field:   "longitude",
			Message: "longitude must be between -180 and 180",
		})
	}

	return errs
}

func validateProofPhoto(fh *multipart.FileHeader) *validator.ValidationError {
	if fh == nil {
		return nil // photo is optional at transport level; policy decides later
	}

	dot := strings.LastIndex(fh.Filename, ".")
	if dot < 0 {
		return &validator.ValidationError{
			Field:   "photo",
			Message: "invalid file type: only jpg, jpeg, png allowed",
		}
	}

	ext := strings.ToLower(fh.Filename[dot:])
	if ext != ".jpg" && ext != ".jpeg" && ext != ".png" {
		return &validator.ValidationError{
			Field:   "photo",
			Message: "invalid file type: only jpg, jpeg, png allowed",
		}
	}

	if fh.Size > 10<<20 { // 10MB
		return &validator.ValidationError{
			Field:   "photo",
			Message: "proof photo size must not exceed 10MB",
		}
	}

	return nil
}

// ========================================
// RESPONSE DTOs
// ========================================

type AttendanceResponse struct {
	ID                  string   `json:"id"`
	EmployeeID          string   `json:"employee_id"`
	Date                string   `json:"date"`
	ClockInTime         *string  `json:"clock_in_time,omitempty"`
	ClockOutTime        *string  `json:"clock_out_time,omitempty"`
	ClockInLatitude     *float64 `json:"clock_in_latitude,omitempty"`
	ClockInLongitude    *float64 `json:"clock_in_longitude,omitempty"`
	ClockInAddress      *string  `json:"clock_in_address,omitempty"`
	ClockInPhotoRef     *string  `json:"clock_in_photo,omitempty"`
	ClockOutLatitude    *float64 `json:"clock_out_latitude,omitempty"`
	ClockOutLongitude   *float64 `json:"clock_out_longitude,omitempty"`
	ClockOutAddress     *string  `json:"clock_out_address,omitempty"`
	ClockOutPhotoRef    *string  `json:"clock_out_photo,omitempty"`
	WorkType            string   `json:"work_type"`
	ActivityDescription *string  `json:"activity_description,omitempty"`
	ClientName          *string  `json:"client_name,omitempty"`
	Notes               *string  `json:"notes,omitempty"`
	DistanceFromOffice  *float64 `json:"distance_from_office_m,omitempty"`
	FraudFlags          []string `json:"fraud_flags,omitempty"`
	WorkingHours        *float64 `json:"working_hours,omitempty"`
	Status              string   `json:"status"`
	CreatedAt           string   `json:"created_at"`
	UpdatedAt           string   `json:"updated_at"`
}

type ListAttendanceResponse struct {
	TotalCount  int64                `json:"total_count"`
	Page        int                  `json:"page"`
	Limit       int                  `json:"limit"`
	TotalPages  int                  `json:"total_pages"`
	Attendances []AttendanceResponse `json:"attendances"`
}

// ========================================
// HISTORY / STATS DTOs
// ========================================

type HistoryFilter struct {
	StartDate *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate   *string `json:"end_date,omitempty"`   // YYYY-MM-DD
	Status    *string `json:"status,omitempty"`

	Page  int `json:"page"`
	Limit int `json:"limit"`

	SortBy    string `json:"sort_by"`    // date, clock_in_time, clock_out_time, status
	SortOrder string `json:"sort_order"` // asc, desc
}

func (f *HistoryFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "page",
			Message: "page must be a positive number",
		})
	}
	if f.Page == 0 {
		f.Page = 1 // Default page
	}

	if f.Limit < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be a positive number",
		})
	}
	if f.Limit == 0 {
		f.Limit = 20 // Default limit
	}
	if f.Limit > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must not exceed 100",
		})
	}

	if f.Status != nil && !validator.IsInSlice(*f.Status, ValidStatuses) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: " + strings.Join(ValidStatuses, ", "),
		})
	}

	if f.StartDate != nil && *f.StartDate != "" {
		if _, valid := validator.IsValidDate(*f.StartDate); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		}
	}

	if f.EndDate != nil && *f.EndDate != "" {
		if _, valid := validator.IsValidDate(*f.EndDate); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}
	}

	if f.SortBy != "" {
		validSortFields := []string{"date", "clock_in_time", "clock_out_time", "status"}
		if !validator.IsInSlice(f.SortBy, validSortFields) {
			errs = append(errs, validator.ValidationError{
				Field:   "sort_by",
				Message: "sort_by must be one of: date, clock_in_time, clock_out_time, status",
			})
		}
	} else {
		f.SortBy = "date" // Default sort
	}

	if f.SortOrder != "" {
		validSortOrders := []string{"asc", "desc"}
		if !validator.IsInSlice(strings.ToLower(f.SortOrder), validSortOrders) {
			errs = append(errs, validator.ValidationError{
				Field:   "sort_order",
				Message: "sort_order must be one of: asc, desc",
			})
		}
	} else {
		f.SortOrder = "desc" // Default descending (newest first)
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type StatsRequest struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

func (r *StatsRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Month < 1 || r.Month > 12 {
		errs = append(errs, validator.ValidationError{
			Field:   "month",
			Message: "month must be between 1 and 12",
		})
	}

	if r.Year < 2000 || r.Year > 2100 {
		errs = append(errs, validator.ValidationError{
			Field:   "year",
			Message: "year must be between 2000 and 2100",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type StatsResponse struct {
	TotalDays           int     `json:"total_days"`
	PresentDays         int     `json:"present_days"`
	LateDays            int     `json:"late_days"`
	AbsentDays          int     `json:"absent_days"`
	AverageWorkingHours float64 `json:"average_working_hours"`
	AttendanceRate      float64 `json:"attendance_rate"`
}
