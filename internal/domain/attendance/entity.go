package attendance

import (
	"time"
)

// Attendance statuses. Set once at clock-in; sick/leave/absent come from
// administrative tooling, not from the clock event flow.
const (
	StatusPresent = "present"
	StatusLate    = "late"
	StatusAbsent  = "absent"
	StatusSick    = "sick"
	StatusLeave   = "leave"
)

// Work types accepted on clock-in.
const (
	WorkTypeOffice      = "office"
	WorkTypeFieldWork   = "field_work"
	WorkTypeMeeting     = "meeting"
	WorkTypeSurvey      = "survey"
	WorkTypeClientVisit = "client_visit"
)

var ValidWorkTypes = []string{
	WorkTypeOffice,
	WorkTypeFieldWork,
	WorkTypeMeeting,
	WorkTypeSurvey,
	WorkTypeClientVisit,
}

var ValidStatuses = []string{
	StatusPresent,
	StatusLate,
	StatusAbsent,
	StatusSick,
	StatusLeave,
}

// Attendance is one day record per (employee_id, date). Clock instants are
// stored in UTC; Date is the calendar day in the reference timezone.
type Attendance struct {
	ID         string
	EmployeeID string
	Date       time.Time

	ClockIn          *time.Time
	ClockInLatitude  *float64
	ClockInLongitude *float64
	ClockInAddress   *string
	ClockInPhotoRef  *string
	ClockInAccuracy  *float64
	ClockInProvider  *string

	ClockOut          *time.Time
	ClockOutLatitude  *float64
	ClockOutLongitude *float64
	ClockOutAddress   *string
	ClockOutPhotoRef  *string

	WorkType            string
	ActivityDescription *string
	ClientName          *string
	Notes               *string

	DistanceFromOffice *float64
	FraudFlags         []string

	WorkingHours *float64
	Status       string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasClockedIn reports whether the day record holds a clock-in event.
func (a *Attendance) HasClockedIn() bool {
	return a != nil && a.ClockIn != nil
}

// HasClockedOut reports whether the day record holds a clock-out event.
func (a *Attendance) HasClockedOut() bool {
	return a != nil && a.ClockOut != nil
}
