package attendance

import (
	"testing"

	"github.com/hadirin/hadirin-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClockInRequest_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		req       ClockInRequest
		wantField string
	}{
		{
			name: "valid minimal request",
			req:  ClockInRequest{Latitude: -6.2, Longitude: 106.8},
		},
		{
			name:      "latitude out of range",
			req:       ClockInRequest{Latitude: 91, Longitude: 106.8},
			wantField: "latitude",
		},
		{
			name:      "longitude out of range",
			req:       ClockInRequest{Latitude: -6.2, Longitude: 181},
			wantField: "longitude",
		},
		{
			name: "unknown work type",
			req: func() ClockInRequest {
				wt := "remote"
				return ClockInRequest{Latitude: -6.2, Longitude: 106.8, WorkType: &wt}
			}(),
			wantField: "work_type",
		},
		{
			name: "negative accuracy",
			req: func() ClockInRequest {
				acc := -1.0
				return ClockInRequest{Latitude: -6.2, Longitude: 106.8, Accuracy: &acc}
			}(),
			wantField: "accuracy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.req.Validate()
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}

			var verrs validator.ValidationErrors
			require.ErrorAs(t, err, &verrs)
			assert.Contains(t, verrs.ToMap(), tt.wantField)
		})
	}
}

func TestHistoryFilter_ValidateDefaults(t *testing.T) {
	t.Parallel()

	filter := HistoryFilter{}
	require.NoError(t, filter.Validate())

	assert.Equal(t, 1, filter.Page)
	assert.Equal(t, 20, filter.Limit)
	assert.Equal(t, "date", filter.SortBy)
	assert.Equal(t, "desc", filter.SortOrder)
}

func TestHistoryFilter_ValidateRejectsBadInput(t *testing.T) {
	t.Parallel()

	badDate := "03/10/2025"
	filter := HistoryFilter{Limit: 500, StartDate: &badDate, SortBy: "clock_speed"}

	err := filter.Validate()
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)

	fields := verrs.ToMap()
	assert.Contains(t, fields, "limit")
	assert.Contains(t, fields, "start_date")
	assert.Contains(t, fields, "sort_by")
}

func TestPolicy_NormalizeFillsDefaults(t *testing.T) {
	t.Parallel()

	normalized := Policy{}.Normalize()
	def := DefaultPolicy()

	assert.Equal(t, def.Office.Latitude, normalized.Office.Latitude)
	assert.Equal(t, def.Office.RadiusMeters, normalized.Office.RadiusMeters)
	assert.Equal(t, def.FieldWork.MinDescriptionLength, normalized.FieldWork.MinDescriptionLength)
	assert.Equal(t, def.AntiFakeGPS.SuspiciousPrecisionDecimals, normalized.AntiFakeGPS.SuspiciousPrecisionDecimals)
	assert.Equal(t, FraudModeReport, normalized.AntiFakeGPS.Mode)
	assert.Equal(t, def.WorkStartTime, normalized.WorkStartTime)
	assert.Equal(t, def.Timezone, normalized.Timezone)
}

func TestAttendance_ClockStateHelpers(t *testing.T) {
	t.Parallel()

	var nilRecord *Attendance
	assert.False(t, nilRecord.HasClockedIn())
	assert.False(t, nilRecord.HasClockedOut())

	record := &Attendance{}
	assert.False(t, record.HasClockedIn())
}
