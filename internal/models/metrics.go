package models

import "time"

// MetricsSnapshot summarises process counters for the staff metrics endpoint.
type MetricsSnapshot struct {
	RequestsTotal            uint64    `json:"requests_total"`
	AverageRequestDurationMs float64   `json:"average_request_duration_ms"`
	CacheHits                uint64    `json:"cache_hits"`
	CacheMisses              uint64    `json:"cache_misses"`
	CacheHitRatio            float64   `json:"cache_hit_ratio"`
	AttendanceMarksWritten   uint64    `json:"attendance_marks_written"`
	GradesRecorded           uint64    `json:"grades_recorded"`
	ValidationRejections     uint64    `json:"validation_rejections"`
	ReportDivergences        uint64    `json:"report_divergences"`
	DBQueryCount             uint64    `json:"db_query_count"`
	AverageDBQueryDurationMs float64   `json:"average_db_query_duration_ms"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generated_at"`
}
