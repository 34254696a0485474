package service

import (
	"context"
	"errors"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-records-api/internal/models"
	appErrors "github.com/noah-isme/school-records-api/pkg/errors"
)

func newAttendanceServiceForTest(repo *fakeAttendanceRepo, authz Authorizer) *AttendanceService {
	return NewAttendanceService(repo, authz, NewMetricsService(), nil, nil)
}

func sampleAttendance() RecordAttendanceRequest {
	return RecordAttendanceRequest{
		CourseID: "course-1",
		Date:     "2024-03-11",
		Records: []AttendanceRecordInput{
			{StudentID: "stu-1", Status: "presente"},
			{StudentID: "stu-2", Status: "late"},
			{StudentID: "stu-3", Status: "ausente_justificado"},
		},
	}
}

func TestAttendanceServiceRecord(t *testing.T) {
	repo := newFakeAttendanceRepo()
	svc := newAttendanceServiceForTest(repo, &allowAll{})

	result, err := svc.Record(context.Background(), teacherActor, sampleAttendance())
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 3, result.Count)

	require.Len(t, repo.lastRun, 3)
	assert.Equal(t, models.AttendanceLate, repo.lastRun[1].Status)
	require.NotNil(t, repo.lastRun[0].RecordedBy)
	assert.Equal(t, teacherActor.UserID, *repo.lastRun[0].RecordedBy)
	assert.Equal(t, "2024-03-11", repo.lastRun[0].Date.Format("2006-01-02"))
}

func TestAttendanceServiceResubmissionIsIdempotent(t *testing.T) {
	repo := newFakeAttendanceRepo()
	svc := newAttendanceServiceForTest(repo, &allowAll{})
	ctx := context.Background()

	_, err := svc.Record(ctx, teacherActor, sampleAttendance())
	require.NoError(t, err)
	first := make(map[attendanceKey]models.AttendanceStatus)
	for k, v := range repo.rows {
		first[k] = v.Status
	}

	_, err = svc.Record(ctx, teacherActor, sampleAttendance())
	require.NoError(t, err)
	second := make(map[attendanceKey]models.AttendanceStatus)
	for k, v := range repo.rows {
		second[k] = v.Status
	}
	assert.Equal(t, first, second)
	assert.Len(t, repo.rows, 3)
}

func TestAttendanceServiceResubmissionOverwritesStatus(t *testing.T) {
	repo := newFakeAttendanceRepo()
	svc := newAttendanceServiceForTest(repo, &allowAll{})
	ctx := context.Background()

	_, err := svc.Record(ctx, teacherActor, sampleAttendance())
	require.NoError(t, err)

	update := sampleAttendance()
	update.Records = []AttendanceRecordInput{{StudentID: "stu-1", Status: "ausente_injustificado"}}
	_, err = svc.Record(ctx, teacherActor, update)
	require.NoError(t, err)

	assert.Len(t, repo.rows, 3)
	assert.Equal(t, models.AttendanceUnjustifiedAbsence, repo.rows[attendanceKey{"stu-1", "course-1", "2024-03-11"}].Status)
}

func TestAttendanceServiceEmptyBatchSkipsStore(t *testing.T) {
	repo := newFakeAttendanceRepo()
	authz := &allowAll{}
	svc := newAttendanceServiceForTest(repo, authz)

	req := sampleAttendance()
	req.Records = []AttendanceRecordInput{}
	result, err := svc.Record(context.Background(), teacherActor, req)
	require.NoError(t, err)
	assert.Equal(t, &AttendanceResult{Success: true, Count: 0}, result)
	assert.Zero(t, repo.calls)
	assert.Zero(t, authz.calls)
}

func TestAttendanceServiceRejectsInvalidInput(t *testing.T) {
	cases := map[string]func(r *RecordAttendanceRequest){
		"missing student id": func(r *RecordAttendanceRequest) { r.Records[1].StudentID = "" },
		"unknown status":     func(r *RecordAttendanceRequest) { r.Records[0].Status = "sick" },
		"missing course":     func(r *RecordAttendanceRequest) { r.CourseID = "" },
		"missing records":    func(r *RecordAttendanceRequest) { r.Records = nil },
		"bad date":           func(r *RecordAttendanceRequest) { r.Date = "11/03/2024" },
		"duplicate student":  func(r *RecordAttendanceRequest) { r.Records[2].StudentID = "stu-1" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			repo := newFakeAttendanceRepo()
			svc := newAttendanceServiceForTest(repo, &allowAll{})
			req := sampleAttendance()
			mutate(&req)

			_, err := svc.Record(context.Background(), teacherActor, req)
			require.Error(t, err)
			assert.True(t, errors.Is(err, appErrors.ErrValidation))
			assert.Zero(t, repo.calls)
		})
	}
}

func TestAttendanceServiceMissingStudentMessage(t *testing.T) {
	svc := newAttendanceServiceForTest(newFakeAttendanceRepo(), &allowAll{})
	req := sampleAttendance()
	req.Records[1].StudentID = ""

	_, err := svc.Record(context.Background(), teacherActor, req)
	appErr := appErrors.FromError(err)
	assert.Equal(t, "records[1].student_id is required", appErr.Message)
}

func TestAttendanceServiceForbiddenSkipsStore(t *testing.T) {
	repo := newFakeAttendanceRepo()
	svc := newAttendanceServiceForTest(repo, denyAll{})

	_, err := svc.Record(context.Background(), studentActor, sampleAttendance())
	assert.True(t, errors.Is(err, appErrors.ErrForbidden))
	assert.Zero(t, repo.calls)
}

func TestAttendanceServiceStoreRejection(t *testing.T) {
	repo := newFakeAttendanceRepo()
	repo.err = &pq.Error{Code: "23503", Message: `insert or update on table "attendance" violates foreign key constraint "attendance_student_id_fkey"`}
	svc := newAttendanceServiceForTest(repo, &allowAll{})

	_, err := svc.Record(context.Background(), teacherActor, sampleAttendance())
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrStoreRejected.Code, appErr.Code)
	assert.Contains(t, appErr.Message, "attendance_student_id_fkey")
}

func TestAttendanceServiceList(t *testing.T) {
	repo := newFakeAttendanceRepo()
	svc := newAttendanceServiceForTest(repo, &allowAll{})
	ctx := context.Background()
	_, err := svc.Record(ctx, teacherActor, sampleAttendance())
	require.NoError(t, err)

	rows, err := svc.List(ctx, teacherActor, "course-1", "2024-03-11")
	require.NoError(t, err)
	assert.Len(t, rows, 3)

	empty, err := svc.List(ctx, teacherActor, "course-1", "2024-03-12")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	_, err = svc.List(ctx, teacherActor, "course-1", "yesterday")
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}
