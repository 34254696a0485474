package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/school-records-api/internal/models"
)

const evaluationColumns = "id, course_subject_id, title, description, date, weight, created_at"

// EvaluationRepository persists evaluations.
type EvaluationRepository struct {
	db *sqlx.DB
}

// NewEvaluationRepository constructs the repository.
func NewEvaluationRepository(db *sqlx.DB) *EvaluationRepository {
	return &EvaluationRepository{db: db}
}

// Create inserts a new evaluation.
func (r *EvaluationRepository) Create(ctx context.Context, evaluation *models.Evaluation) error {
	if evaluation.ID == "" {
		evaluation.ID = uuid.NewString()
	}
	if evaluation.CreatedAt.IsZero() {
		evaluation.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO evaluations (id, course_subject_id, title, description, date, weight, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if _, err := r.db.ExecContext(ctx, query, evaluation.ID, evaluation.CourseSubjectID, evaluation.Title,
		evaluation.Description, evaluation.Date.Format(attendanceDateLayout), evaluation.Weight, evaluation.CreatedAt); err != nil {
		return fmt.Errorf("create evaluation: %w", err)
	}
	return nil
}

// FindByID returns an evaluation.
func (r *EvaluationRepository) FindByID(ctx context.Context, id string) (*models.Evaluation, error) {
	var evaluation models.Evaluation
	if err := r.db.GetContext(ctx, &evaluation, "SELECT "+evaluationColumns+" FROM evaluations WHERE id = $1", id); err != nil {
		return nil, err
	}
	return &evaluation, nil
}

// ListByCourseSubject returns the evaluations of a course subject, most recent first.
func (r *EvaluationRepository) ListByCourseSubject(ctx context.Context, courseSubjectID string) ([]models.Evaluation, error) {
	query := "SELECT " + evaluationColumns + " FROM evaluations WHERE course_subject_id = $1 ORDER BY date DESC, created_at DESC"
	var evaluations []models.Evaluation
	if err := r.db.SelectContext(ctx, &evaluations, query, courseSubjectID); err != nil {
		return nil, fmt.Errorf("list evaluations: %w", err)
	}
	return evaluations, nil
}
