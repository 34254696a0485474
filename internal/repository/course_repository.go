package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/school-records-api/internal/models"
)

// CourseRepository reads courses and their subject assignments.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository constructs the repository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

const courseDetailSelect = `SELECT c.id, c.academic_cycle_id, c.year_id, c.division_id, c.name, c.created_at,
        ac.name AS cycle_name, y.name AS year_name, d.name AS division_name
        FROM courses c
        JOIN academic_cycles ac ON ac.id = c.academic_cycle_id
        JOIN years y ON y.id = c.year_id
        JOIN divisions d ON d.id = c.division_id`

// List returns courses with their cycle, year and division names.
func (r *CourseRepository) List(ctx context.Context, filter models.CourseFilter) ([]models.CourseDetail, error) {
	var conditions []string
	var args []interface{}
	if filter.AcademicCycleID != "" {
		conditions = append(conditions, fmt.Sprintf("c.academic_cycle_id = $%d", len(args)+1))
		args = append(args, filter.AcademicCycleID)
	}
	if filter.ActiveOnly {
		conditions = append(conditions, "ac.is_active = TRUE")
	}
	query := courseDetailSelect
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY c.name ASC NULLS LAST, y.name ASC, d.name ASC"

	var courses []models.CourseDetail
	if err := r.db.SelectContext(ctx, &courses, query, args...); err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return courses, nil
}

// FindByID returns a course with display names.
func (r *CourseRepository) FindByID(ctx context.Context, id string) (*models.CourseDetail, error) {
	var course models.CourseDetail
	if err := r.db.GetContext(ctx, &course, courseDetailSelect+" WHERE c.id = $1", id); err != nil {
		return nil, err
	}
	return &course, nil
}

// FindCourseSubject returns a course-subject link by id.
func (r *CourseRepository) FindCourseSubject(ctx context.Context, id string) (*models.CourseSubject, error) {
	const query = `SELECT id, course_id, subject_id, teacher_id, created_at FROM course_subjects WHERE id = $1`
	var cs models.CourseSubject
	if err := r.db.GetContext(ctx, &cs, query, id); err != nil {
		return nil, err
	}
	return &cs, nil
}

// ListCourseSubjectsByTeacher returns the subjects a teacher is assigned to, with course names.
func (r *CourseRepository) ListCourseSubjectsByTeacher(ctx context.Context, teacherID string) ([]models.CourseSubjectDetail, error) {
	const query = `SELECT cs.id, cs.course_id, cs.subject_id, cs.teacher_id, cs.created_at,
        s.name AS subject_name, c.name AS course_name
        FROM course_subjects cs
        JOIN subjects s ON s.id = cs.subject_id
        JOIN courses c ON c.id = cs.course_id
        WHERE cs.teacher_id = $1
        ORDER BY c.name ASC NULLS LAST, s.name ASC`
	var rows []models.CourseSubjectDetail
	if err := r.db.SelectContext(ctx, &rows, query, teacherID); err != nil {
		return nil, fmt.Errorf("list teacher course subjects: %w", err)
	}
	return rows, nil
}

// TeachesCourse reports whether the teacher is assigned to any subject of the course.
func (r *CourseRepository) TeachesCourse(ctx context.Context, teacherID, courseID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM course_subjects WHERE course_id = $1 AND teacher_id = $2)`
	var ok bool
	if err := r.db.GetContext(ctx, &ok, query, courseID, teacherID); err != nil {
		return false, fmt.Errorf("check course assignment: %w", err)
	}
	return ok, nil
}

// TeachesCourseSubject reports whether the teacher owns the course-subject.
func (r *CourseRepository) TeachesCourseSubject(ctx context.Context, teacherID, courseSubjectID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM course_subjects WHERE id = $1 AND teacher_id = $2)`
	var ok bool
	if err := r.db.GetContext(ctx, &ok, query, courseSubjectID, teacherID); err != nil {
		return false, fmt.Errorf("check course subject assignment: %w", err)
	}
	return ok, nil
}

// TeachesEvaluation reports whether the teacher owns the course-subject of the evaluation.
func (r *CourseRepository) TeachesEvaluation(ctx context.Context, teacherID, evaluationID string) (bool, error) {
	const query = `SELECT EXISTS (
        SELECT 1 FROM evaluations e
        JOIN course_subjects cs ON cs.id = e.course_subject_id
        WHERE e.id = $1 AND cs.teacher_id = $2)`
	var ok bool
	if err := r.db.GetContext(ctx, &ok, query, evaluationID, teacherID); err != nil {
		return false, fmt.Errorf("check evaluation assignment: %w", err)
	}
	return ok, nil
}
