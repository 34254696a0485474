package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-records-api/internal/models"
	appErrors "github.com/noah-isme/school-records-api/pkg/errors"
)

type fakeEnrollmentRepo struct {
	existing map[string]bool
	created  []*models.Enrollment
}

func (f *fakeEnrollmentRepo) Exists(ctx context.Context, courseID, studentID string) (bool, error) {
	return f.existing[courseID+"/"+studentID], nil
}

func (f *fakeEnrollmentRepo) Create(ctx context.Context, enrollment *models.Enrollment) error {
	enrollment.ID = "enr-new"
	f.created = append(f.created, enrollment)
	return nil
}

func newEnrollmentServiceForTest(repo *fakeEnrollmentRepo) *EnrollmentService {
	profiles := &fakeProfileRepo{profiles: map[string]*models.Profile{
		"stu-1":     {ID: "stu-1", Role: models.RoleStudent},
		"teacher-1": {ID: "teacher-1", Role: models.RoleTeacher},
	}}
	return NewEnrollmentService(repo, profiles, &allowAll{}, nil, nil)
}

func TestEnrollmentServiceEnroll(t *testing.T) {
	repo := &fakeEnrollmentRepo{}
	enrollment, err := newEnrollmentServiceForTest(repo).Enroll(context.Background(), directorActor, EnrollStudentRequest{CourseID: "course-1", StudentID: "stu-1"})
	require.NoError(t, err)
	assert.Equal(t, "enr-new", enrollment.ID)
}

func TestEnrollmentServiceRejections(t *testing.T) {
	repo := &fakeEnrollmentRepo{existing: map[string]bool{"course-1/stu-1": true}}
	svc := newEnrollmentServiceForTest(repo)
	ctx := context.Background()

	_, err := svc.Enroll(ctx, directorActor, EnrollStudentRequest{CourseID: "course-1", StudentID: "stu-1"})
	assert.True(t, errors.Is(err, appErrors.ErrConflict))

	_, err = svc.Enroll(ctx, directorActor, EnrollStudentRequest{CourseID: "course-1", StudentID: "teacher-1"})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	_, err = svc.Enroll(ctx, directorActor, EnrollStudentRequest{CourseID: "course-1", StudentID: "missing"})
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))

	_, err = svc.Enroll(ctx, directorActor, EnrollStudentRequest{StudentID: "stu-1"})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
	assert.Empty(t, repo.created)
}
