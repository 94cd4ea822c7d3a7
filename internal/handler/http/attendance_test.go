package http

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hadirin/hadirin-backend-go/internal/domain/attendance"
	"github.com/hadirin/hadirin-backend-go/internal/pkg/jwt"
	"github.com/hadirin/hadirin-backend-go/internal/pkg/storage"
	"github.com/hadirin/hadirin-backend-go/internal/repository/memory"
	attendanceService "github.com/hadirin/hadirin-backend-go/internal/service/attendance"
	"github.com/hadirin/hadirin-backend-go/internal/service/file"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const handlerTestSecret = "test-secret-key-for-jwt"

func newTestRouter(t *testing.T) (http.Handler, string) {
	t.Helper()

	jwtSvc := jwt.NewJWTService(handlerTestSecret, "1h")

	fileStorage, err := storage.NewLocalStorage(t.TempDir(), "http://localhost:8080/uploads")
	require.NoError(t, err)

	repo := memory.NewAttendanceRepository()
	svc := attendanceService.NewAttendanceService(
		attendance.DefaultPolicy(),
		repo,
		file.NewFileService(fileStorage),
	)

	router := NewRouter(jwtSvc, NewAttendanceHandler(svc))

	employeeID := "emp-handler-test"
	token, _, err := jwtSvc.GenerateAccessToken("user-1", "user@example.com", &employeeID, "employee")
	require.NoError(t, err)

	return router, token
}

// clockEventBody builds the multipart body the clock endpoints expect: a JSON
// payload in the 'data' field, photo omitted.
func clockEventBody(t *testing.T, payload interface{}) (*bytes.Buffer, string) {
	t.Helper()

	data, err := json.Marshal(payload)
	require.NoError(t, err)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	require.NoError(t, writer.WriteField("data", string(data)))
	require.NoError(t, writer.Close())

	return body, writer.FormDataContentType()
}

func TestAttendanceRoutes_RequireAuth(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/attendance/today", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAttendanceHandler_ClockIn(t *testing.T) {
	router, token := newTestRouter(t)

	accuracy := 10.0
	body, contentType := clockEventBody(t, attendance.ClockInRequest{
		Latitude:  -6.270075,
		Longitude: 106.819858,
		Accuracy:  &accuracy,
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/attendance/clock-in", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		Success bool                          `json:"success"`
		Data    attendance.AttendanceResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "emp-handler-test", resp.Data.EmployeeID)
	assert.Equal(t, attendance.WorkTypeOffice, resp.Data.WorkType)
}

func TestAttendanceHandler_ClockInTwiceConflicts(t *testing.T) {
	router, token := newTestRouter(t)

	accuracy := 10.0
	payload := attendance.ClockInRequest{
		Latitude:  -6.270075,
		Longitude: 106.819858,
		Accuracy:  &accuracy,
	}

	for i, wantStatus := range []int{http.StatusCreated, http.StatusConflict} {
		body, contentType := clockEventBody(t, payload)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/attendance/clock-in", body)
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, wantStatus, rec.Code, "attempt %d: %s", i+1, rec.Body.String())
	}
}

func TestAttendanceHandler_ClockInMissingData(t *testing.T) {
	router, token := newTestRouter(t)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/attendance/clock-in", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAttendanceHandler_ClockOutBeforeClockIn(t *testing.T) {
	router, token := newTestRouter(t)

	body, contentType := clockEventBody(t, attendance.ClockOutRequest{
		Latitude:  -6.270075,
		Longitude: 106.819858,
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/attendance/clock-out", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAttendanceHandler_TodayEmpty(t *testing.T) {
	router, token := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/attendance/today", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "No attendance recorded today")
}

func TestAttendanceHandler_StatsRejectsBadMonth(t *testing.T) {
	router, token := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/attendance/stats?month=13&year=2025", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestAttendanceHandler_RecalculateRequiresDate(t *testing.T) {
	router, token := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/attendance/recalculate", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
