package attendance

import (
	"testing"
	"time"

	"github.com/hadirin/hadirin-backend-go/internal/domain/attendance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jakartaLocation(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Jakarta")
	require.NoError(t, err)
	return loc
}

func TestWorkingHoursCalculator_FullDay(t *testing.T) {
	t.Parallel()

	loc := jakartaLocation(t)
	calc := NewWorkingHoursCalculator(loc)

	clockIn := time.Date(2025, 3, 10, 8, 15, 0, 0, loc)
	clockOut := time.Date(2025, 3, 10, 17, 10, 0, 0, loc)

	hours, err := calc.Hours(clockIn, clockOut)
	require.NoError(t, err)
	assert.Equal(t, 8.92, hours)
}

func TestWorkingHoursCalculator_MixedZoneInputs(t *testing.T) {
	t.Parallel()

	loc := jakartaLocation(t)
	calc := NewWorkingHoursCalculator(loc)

	// Same instants as the full day case, expressed in UTC.
	clockIn := time.Date(2025, 3, 10, 1, 15, 0, 0, time.UTC)
	clockOut := time.Date(2025, 3, 10, 10, 10, 0, 0, time.UTC)

	hours, err := calc.Hours(clockIn, clockOut)
	require.NoError(t, err)
	assert.Equal(t, 8.92, hours)
}

func TestWorkingHoursCalculator_Idempotent(t *testing.T) {
	t.Parallel()

	loc := jakartaLocation(t)
	calc := NewWorkingHoursCalculator(loc)

	clockIn := time.Date(2025, 3, 10, 1, 15, 0, 0, time.UTC)
	clockOut := time.Date(2025, 3, 10, 10, 10, 0, 0, time.UTC)

	first, err := calc.Hours(clockIn, clockOut)
	require.NoError(t, err)

	second, err := calc.Hours(clockIn, clockOut)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestWorkingHoursCalculator_ZeroDuration(t *testing.T) {
	t.Parallel()

	calc := NewWorkingHoursCalculator(jakartaLocation(t))

	instant := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	hours, err := calc.Hours(instant, instant)
	require.NoError(t, err)
	assert.Equal(t, 0.0, hours)
}

func TestWorkingHoursCalculator_NegativeDuration(t *testing.T) {
	t.Parallel()

	calc := NewWorkingHoursCalculator(jakartaLocation(t))

	clockIn := time.Date(2025, 3, 10, 17, 0, 0, 0, time.UTC)
	clockOut := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

	_, err := calc.Hours(clockIn, clockOut)
	assert.ErrorIs(t, err, attendance.ErrCorruptDuration)
}
