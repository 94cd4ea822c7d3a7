package attendance

import (
	"time"

	"github.com/hadirin/hadirin-backend-go/internal/domain/attendance"
	"github.com/shopspring/decimal"
)

// WorkingHoursCalculator converts stored clock-in/clock-out instants into a
// decimal hour duration. Both instants are normalized to the reference
// timezone before subtraction; wall-clock strings and absolute instants are
// never mixed, so recomputation from the same stored values is idempotent.
type WorkingHoursCalculator struct {
	loc *time.Location
}

func NewWorkingHoursCalculator(loc *time.Location) *WorkingHoursCalculator {
	return &WorkingHoursCalculator{loc: loc}
}

// Hours returns the duration between clockIn and clockOut in hours, rounded
// to two decimal places. A negative duration cannot be produced by the clock
// event flow; if stored data ever yields one, ErrCorruptDuration is returned.
func (c *WorkingHoursCalculator) Hours(clockIn, clockOut time.Time) (float64, error) {
	in := clockIn.In(c.loc)
	out := clockOut.In(c.loc)

	minutes := out.Sub(in).Minutes()
	if minutes < 0 {
		return 0, attendance.ErrCorruptDuration
	}

	hours, _ := decimal.NewFromFloat(minutes).
		Div(decimal.NewFromInt(60)).
		Round(2).
		Float64()

	return hours, nil
}
