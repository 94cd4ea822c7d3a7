package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsEmpty(t *testing.T) {
	t.Parallel()

	assert.True(t, IsEmpty(""))
	assert.True(t, IsEmpty("   "))
	assert.True(t, IsEmpty("\t\n"))
	assert.False(t, IsEmpty("field work"))
	assert.False(t, IsEmpty(" x "))
}

func TestIsInSlice(t *testing.T) {
	t.Parallel()

	workTypes := []string{"office", "field_work", "meeting", "survey", "client_visit"}

	assert.True(t, IsInSlice("office", workTypes))
	assert.True(t, IsInSlice("client_visit", workTypes))
	assert.False(t, IsInSlice("remote", workTypes))
	assert.False(t, IsInSlice("", workTypes))
}

func TestIsValidDate(t *testing.T) {
	t.Parallel()

	date, ok := IsValidDate("2025-09-02")
	assert.True(t, ok)
	assert.Equal(t, 2025, date.Year())

	_, ok = IsValidDate("02-09-2025")
	assert.False(t, ok)

	_, ok = IsValidDate("2025-13-01")
	assert.False(t, ok)

	_, ok = IsValidDate("")
	assert.False(t, ok)
}

func TestIsValidClockTime(t *testing.T) {
	t.Parallel()

	cutoff, ok := IsValidClockTime("08:30")
	assert.True(t, ok)
	assert.Equal(t, 8, cutoff.Hour())
	assert.Equal(t, 30, cutoff.Minute())

	_, ok = IsValidClockTime("8.30")
	assert.False(t, ok)

	_, ok = IsValidClockTime("25:00")
	assert.False(t, ok)
}

func TestValidationErrors(t *testing.T) {
	t.Parallel()

	errs := ValidationErrors{
		{Field: "latitude", Message: "latitude must be between -90 and 90"},
		{Field: "photo", Message: "proof photo is required for field work"},
	}

	assert.Contains(t, errs.Error(), "latitude:")
	assert.Contains(t, errs.Error(), "photo:")

	m := errs.ToMap()
	assert.Len(t, m, 2)
	assert.Equal(t, "proof photo is required for field work", m["photo"])
}
