package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/school-records-api/internal/models"
)

// ErrGradeExists is returned when the student already has a grade for the evaluation.
var ErrGradeExists = errors.New("grade already recorded for evaluation and student")

// GradeRepository persists grades and reads them back for report cards.
type GradeRepository struct {
	db *sqlx.DB
}

// NewGradeRepository constructs the repository.
func NewGradeRepository(db *sqlx.DB) *GradeRepository {
	return &GradeRepository{db: db}
}

// InsertUnique stores the grade unless one already exists for the same evaluation and student.
// A transaction-scoped advisory lock on the pair serialises concurrent submissions, so the
// existence check of a later writer runs after the earlier one has committed.
func (r *GradeRepository) InsertUnique(ctx context.Context, grade *models.Grade) (_ *models.Grade, err error) {
	if grade.ID == "" {
		grade.ID = uuid.NewString()
	}
	if grade.CreatedAt.IsZero() {
		grade.CreatedAt = time.Now().UTC()
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin grade insert: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const lock = `SELECT pg_advisory_xact_lock(hashtext($1::text || ':' || $2::text))`
	if _, err = tx.ExecContext(ctx, lock, grade.EvaluationID, grade.StudentID); err != nil {
		return nil, fmt.Errorf("lock grade key: %w", err)
	}

	const query = `INSERT INTO grades (id, evaluation_id, student_id, score, feedback, created_at)
        SELECT $1::uuid, $2::uuid, $3::uuid, $4::numeric, $5::text, $6::timestamptz
        WHERE NOT EXISTS (SELECT 1 FROM grades WHERE evaluation_id = $2::uuid AND student_id = $3::uuid)
        RETURNING id, evaluation_id, student_id, score, feedback, created_at`

	var row models.Grade
	err = tx.GetContext(ctx, &row, query, grade.ID, grade.EvaluationID, grade.StudentID, grade.Score, grade.Feedback, grade.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrGradeExists
	}
	if err != nil {
		return nil, fmt.Errorf("insert grade: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit grade insert: %w", err)
	}
	return &row, nil
}

// ListForReport returns every grade of a student with evaluation and subject names, newest first.
func (r *GradeRepository) ListForReport(ctx context.Context, studentID string) ([]models.StudentGradeRow, error) {
	const query = `SELECT g.id, g.evaluation_id, g.student_id, g.score, g.feedback, g.created_at,
        e.title AS evaluation_title, e.course_subject_id, cs.subject_id, s.name AS subject_name
        FROM grades g
        JOIN evaluations e ON e.id = g.evaluation_id
        LEFT JOIN course_subjects cs ON cs.id = e.course_subject_id
        LEFT JOIN subjects s ON s.id = cs.subject_id
        WHERE g.student_id = $1
        ORDER BY g.created_at DESC, g.id ASC`
	var rows []models.StudentGradeRow
	if err := r.db.SelectContext(ctx, &rows, query, studentID); err != nil {
		return nil, fmt.Errorf("list student grades: %w", err)
	}
	return rows, nil
}

// SubjectAverages reads the store-computed per-subject averages for a student.
func (r *GradeRepository) SubjectAverages(ctx context.Context, studentID string) ([]models.StoreSubjectAverage, error) {
	const query = `SELECT student_id, course_subject_id, average_score
        FROM student_subject_averages WHERE student_id = $1`
	var rows []models.StoreSubjectAverage
	if err := r.db.SelectContext(ctx, &rows, query, studentID); err != nil {
		return nil, fmt.Errorf("list subject averages: %w", err)
	}
	return rows, nil
}
