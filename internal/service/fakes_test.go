package service

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/noah-isme/school-records-api/internal/models"
	appErrors "github.com/noah-isme/school-records-api/pkg/errors"
)

type allowAll struct {
	calls int
}

func (a *allowAll) Authorize(ctx context.Context, actor models.Actor, capability models.Capability, resourceID string) error {
	a.calls++
	return nil
}

type denyAll struct{}

func (denyAll) Authorize(ctx context.Context, actor models.Actor, capability models.Capability, resourceID string) error {
	return appErrors.Clone(appErrors.ErrForbidden, "not allowed")
}

type attendanceKey struct {
	studentID string
	courseID  string
	date      string
}

// fakeAttendanceRepo mimics the upsert conflict target with a map.
type fakeAttendanceRepo struct {
	mu      sync.Mutex
	rows    map[attendanceKey]models.AttendanceMark
	calls   int
	err     error
	lastRun []models.AttendanceMark
}

func newFakeAttendanceRepo() *fakeAttendanceRepo {
	return &fakeAttendanceRepo{rows: make(map[attendanceKey]models.AttendanceMark)}
}

func (f *fakeAttendanceRepo) UpsertBatch(ctx context.Context, marks []models.AttendanceMark) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastRun = marks
	if f.err != nil {
		return 0, f.err
	}
	for _, m := range marks {
		f.rows[attendanceKey{m.StudentID, m.CourseID, m.Date.Format("2006-01-02")}] = m
	}
	return len(marks), nil
}

func (f *fakeAttendanceRepo) ListByCourseAndDate(ctx context.Context, courseID string, date time.Time) ([]models.AttendanceSheetRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.AttendanceSheetRow
	for k, m := range f.rows {
		if k.courseID == courseID && k.date == date.Format("2006-01-02") {
			out = append(out, models.AttendanceSheetRow{AttendanceMark: m})
		}
	}
	return out, nil
}

type fakeGradeRepo struct {
	calls  int
	stored []models.Grade
	err    error
	rows   []models.StudentGradeRow
	avgs   []models.StoreSubjectAverage
	avgErr error
	lists  int
}

func (f *fakeGradeRepo) InsertUnique(ctx context.Context, grade *models.Grade) (*models.Grade, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := *grade
	out.ID = "grade-1"
	out.CreatedAt = time.Date(2024, 5, 2, 10, 0, 0, 0, time.UTC)
	f.stored = append(f.stored, out)
	return &out, nil
}

func (f *fakeGradeRepo) ListForReport(ctx context.Context, studentID string) ([]models.StudentGradeRow, error) {
	f.lists++
	return f.rows, f.err
}

func (f *fakeGradeRepo) SubjectAverages(ctx context.Context, studentID string) ([]models.StoreSubjectAverage, error) {
	return f.avgs, f.avgErr
}

type fakeCacheRepo struct {
	mu      sync.Mutex
	entries map[string]interface{}
	deleted []string
}

func newFakeCacheRepo() *fakeCacheRepo {
	return &fakeCacheRepo{entries: make(map[string]interface{})}
}

func (f *fakeCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	if card, ok := v.(*models.ReportCard); ok {
		*(dest.(*models.ReportCard)) = *card
	}
	return nil
}

func (f *fakeCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[key] = value
	return nil
}

func (f *fakeCacheRepo) Delete(ctx context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, k := range keys {
		delete(f.entries, k)
		f.deleted = append(f.deleted, k)
	}
	return nil
}

type fakeProfileRepo struct {
	profiles map[string]*models.Profile
	created  []*models.Profile
	filter   models.ProfileFilter
	err      error
}

func (f *fakeProfileRepo) FindByID(ctx context.Context, id string) (*models.Profile, error) {
	if p, ok := f.profiles[id]; ok {
		return p, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeProfileRepo) List(ctx context.Context, filter models.ProfileFilter) ([]models.Profile, int, error) {
	f.filter = filter
	var out []models.Profile
	for _, p := range f.profiles {
		out = append(out, *p)
	}
	return out, len(out), f.err
}

func (f *fakeProfileRepo) Create(ctx context.Context, profile *models.Profile) error {
	if f.err != nil {
		return f.err
	}
	if profile.ID == "" {
		profile.ID = "profile-new"
	}
	f.created = append(f.created, profile)
	return nil
}

type fakeTeaching struct {
	courses        map[string]bool
	courseSubjects map[string]bool
	evaluations    map[string]bool
	err            error
}

func (f fakeTeaching) TeachesCourse(ctx context.Context, teacherID, courseID string) (bool, error) {
	return f.courses[teacherID+"/"+courseID], f.err
}

func (f fakeTeaching) TeachesCourseSubject(ctx context.Context, teacherID, courseSubjectID string) (bool, error) {
	return f.courseSubjects[teacherID+"/"+courseSubjectID], f.err
}

func (f fakeTeaching) TeachesEvaluation(ctx context.Context, teacherID, evaluationID string) (bool, error) {
	return f.evaluations[teacherID+"/"+evaluationID], f.err
}

func strPtr(s string) *string { return &s }

var (
	teacherActor  = models.Actor{UserID: "teacher-1", Role: models.RoleTeacher}
	directorActor = models.Actor{UserID: "director-1", Role: models.RoleDirector}
	studentActor  = models.Actor{UserID: "stu-1", Role: models.RoleStudent}
)
