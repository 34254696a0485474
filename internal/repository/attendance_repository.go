package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/school-records-api/internal/models"
)

const attendanceDateLayout = "2006-01-02"

// AttendanceRepository persists attendance marks.
type AttendanceRepository struct {
	db *sqlx.DB
}

// NewAttendanceRepository constructs the repository.
func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// UpsertBatch writes all marks in a single statement inside a transaction.
// Rows colliding on (student_id, course_id, date) take the new status and recorder.
// Either every mark is stored or none is.
func (r *AttendanceRepository) UpsertBatch(ctx context.Context, marks []models.AttendanceMark) (int, error) {
	if len(marks) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin attendance upsert: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	now := time.Now().UTC()
	values := make([]string, 0, len(marks))
	args := make([]interface{}, 0, len(marks)*7)
	for i := range marks {
		mark := &marks[i]
		if mark.ID == "" {
			mark.ID = uuid.NewString()
		}
		if mark.CreatedAt.IsZero() {
			mark.CreatedAt = now
		}
		base := len(args)
		values = append(values, fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7))
		args = append(args, mark.ID, mark.CourseID, mark.StudentID, mark.Date.Format(attendanceDateLayout),
			string(mark.Status), mark.RecordedBy, mark.CreatedAt)
	}

	query := `INSERT INTO attendance (id, course_id, student_id, date, status, recorded_by, created_at) VALUES ` +
		strings.Join(values, ", ") +
		` ON CONFLICT (student_id, course_id, date) DO UPDATE SET status = EXCLUDED.status, recorded_by = EXCLUDED.recorded_by
        RETURNING id`

	var ids []string
	if err = tx.SelectContext(ctx, &ids, query, args...); err != nil {
		return 0, fmt.Errorf("upsert attendance: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit attendance upsert: %w", err)
	}
	return len(ids), nil
}

// ListByCourseAndDate returns the stored marks for one course on one day ordered by student name.
func (r *AttendanceRepository) ListByCourseAndDate(ctx context.Context, courseID string, date time.Time) ([]models.AttendanceSheetRow, error) {
	const query = `SELECT a.id, a.course_id, a.student_id, a.date, a.status, a.recorded_by, a.created_at,
        p.first_name, p.last_name
        FROM attendance a
        JOIN profiles p ON p.id = a.student_id
        WHERE a.course_id = $1 AND a.date = $2
        ORDER BY p.last_name ASC, p.first_name ASC`
	var rows []models.AttendanceSheetRow
	if err := r.db.SelectContext(ctx, &rows, query, courseID, date.Format(attendanceDateLayout)); err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}
	return rows, nil
}
