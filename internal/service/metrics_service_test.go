package service

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsSnapshotTotals(t *testing.T) {
	m := NewMetricsService()
	m.ObserveHTTPRequest(http.MethodPost, "/api/v1/attendance", http.StatusOK, 4*time.Millisecond)
	m.ObserveHTTPRequest(http.MethodPost, "/api/v1/grades", http.StatusConflict, 2*time.Millisecond)
	m.RecordCacheOperation(true, time.Millisecond)
	m.RecordCacheOperation(false, time.Millisecond)
	m.RecordCacheOperation(false, time.Millisecond)
	m.AddAttendanceMarks(25)
	m.AddAttendanceMarks(0)
	m.IncGradesRecorded()
	m.IncValidationRejection("grade")
	m.ObserveDBQuery("report_grades", 10*time.Millisecond)

	snap := m.Snapshot()
	assert.Equal(t, uint64(2), snap.RequestsTotal)
	assert.InDelta(t, 3.0, snap.AverageRequestDurationMs, 0.001)
	assert.Equal(t, uint64(1), snap.CacheHits)
	assert.Equal(t, uint64(2), snap.CacheMisses)
	assert.InDelta(t, 1.0/3.0, snap.CacheHitRatio, 0.0001)
	assert.Equal(t, uint64(25), snap.AttendanceMarksWritten)
	assert.Equal(t, uint64(1), snap.GradesRecorded)
	assert.Equal(t, uint64(1), snap.ValidationRejections)
	assert.Equal(t, uint64(1), snap.DBQueryCount)
	assert.InDelta(t, 10.0, snap.AverageDBQueryDurationMs, 0.001)
}

func TestMetricsHandlerExposesDomainCounters(t *testing.T) {
	m := NewMetricsService()
	m.AddAttendanceMarks(3)

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "school_records_attendance_marks_written_total 3")
}

func TestNilMetricsServiceIsSafe(t *testing.T) {
	var m *MetricsService
	m.AddAttendanceMarks(1)
	m.IncAuditDropped()
	assert.Zero(t, m.Snapshot().AttendanceMarksWritten)

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
