package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-records-api/internal/models"
	"github.com/noah-isme/school-records-api/internal/repository"
	appErrors "github.com/noah-isme/school-records-api/pkg/errors"
)

var defaultBounds = ScoreBounds{Min: 0, Max: 10}

func newGradeServiceForTest(repo *fakeGradeRepo, cacheRepo CacheRepository) *GradeService {
	cache := NewCacheService(cacheRepo, nil, 0, nil, cacheRepo != nil)
	return NewGradeService(repo, &allowAll{}, cache, NewMetricsService(), defaultBounds, nil, nil)
}

func TestGradeServiceRecord(t *testing.T) {
	repo := &fakeGradeRepo{}
	svc := newGradeServiceForTest(repo, nil)

	grade, err := svc.Record(context.Background(), teacherActor, RecordGradeRequest{
		EvaluationID: "eval-1",
		StudentID:    "stu-1",
		Score:        NewScore(8.5),
		Feedback:     strPtr("  "),
	})
	require.NoError(t, err)
	assert.Equal(t, "grade-1", grade.ID)
	assert.Equal(t, 8.5, grade.Score)
	assert.Nil(t, grade.Feedback)
	assert.False(t, grade.CreatedAt.IsZero())
}

func TestGradeServiceDecodesNumericString(t *testing.T) {
	var req RecordGradeRequest
	require.NoError(t, json.Unmarshal([]byte(`{"evaluation_id":"eval-1","student_id":"stu-1","score":"7.25","feedback":"ok"}`), &req))

	repo := &fakeGradeRepo{}
	grade, err := newGradeServiceForTest(repo, nil).Record(context.Background(), teacherActor, req)
	require.NoError(t, err)
	assert.Equal(t, 7.25, grade.Score)
	require.NotNil(t, grade.Feedback)
	assert.Equal(t, "ok", *grade.Feedback)
}

func TestGradeServiceRejectsInvalidSubmissions(t *testing.T) {
	cases := map[string]string{
		"missing student":  `{"evaluation_id":"eval-1","score":8}`,
		"missing score":    `{"evaluation_id":"eval-1","student_id":"stu-1"}`,
		"above range":      `{"evaluation_id":"eval-1","student_id":"stu-1","score":11}`,
		"below range":      `{"evaluation_id":"eval-1","student_id":"stu-1","score":-0.5}`,
		"not a number":     `{"evaluation_id":"eval-1","student_id":"stu-1","score":"eight"}`,
		"boolean score":    `{"evaluation_id":"eval-1","student_id":"stu-1","score":true}`,
		"empty string":     `{"evaluation_id":"eval-1","student_id":"stu-1","score":""}`,
		"missing eval":     `{"student_id":"stu-1","score":5}`,
		"hex float score":  `{"evaluation_id":"eval-1","student_id":"stu-1","score":"0x1p3"}`,
		"separated digits": `{"evaluation_id":"eval-1","student_id":"stu-1","score":"0x_Ap0"}`,
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			var req RecordGradeRequest
			require.NoError(t, json.Unmarshal([]byte(payload), &req))
			repo := &fakeGradeRepo{}

			_, err := newGradeServiceForTest(repo, nil).Record(context.Background(), teacherActor, req)
			require.Error(t, err)
			assert.True(t, errors.Is(err, appErrors.ErrValidation))
			assert.Zero(t, repo.calls)
		})
	}
}

func TestGradeServiceBoundsAreInclusive(t *testing.T) {
	for _, score := range []float64{0, 10} {
		repo := &fakeGradeRepo{}
		_, err := newGradeServiceForTest(repo, nil).Record(context.Background(), teacherActor, RecordGradeRequest{
			EvaluationID: "eval-1", StudentID: "stu-1", Score: NewScore(score),
		})
		require.NoError(t, err)
	}
}

func TestGradeServiceStrictBound(t *testing.T) {
	repo := &fakeGradeRepo{}
	svc := NewGradeService(repo, &allowAll{}, nil, nil, ScoreBounds{Min: 1, Max: 10}, nil, nil)

	_, err := svc.Record(context.Background(), teacherActor, RecordGradeRequest{EvaluationID: "eval-1", StudentID: "stu-1", Score: NewScore(0)})
	assert.Equal(t, "score must be between 1 and 10", appErrors.FromError(err).Message)
	assert.Zero(t, repo.calls)
}

func TestGradeServiceDuplicateIsConflict(t *testing.T) {
	repo := &fakeGradeRepo{err: repository.ErrGradeExists}
	_, err := newGradeServiceForTest(repo, nil).Record(context.Background(), teacherActor, RecordGradeRequest{
		EvaluationID: "eval-1", StudentID: "stu-1", Score: NewScore(6),
	})
	assert.True(t, errors.Is(err, appErrors.ErrConflict))
}

func TestGradeServicePassesStoreMessage(t *testing.T) {
	repo := &fakeGradeRepo{err: &pq.Error{Code: "23503", Message: `insert or update on table "grades" violates foreign key constraint "grades_evaluation_id_fkey"`}}
	_, err := newGradeServiceForTest(repo, nil).Record(context.Background(), teacherActor, RecordGradeRequest{
		EvaluationID: "missing", StudentID: "stu-1", Score: NewScore(6),
	})
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrStoreRejected.Code, appErr.Code)
	assert.Equal(t, 500, appErr.Status)
	assert.Contains(t, appErr.Message, "grades_evaluation_id_fkey")
}

func TestGradeServiceInvalidatesReportCard(t *testing.T) {
	cacheRepo := newFakeCacheRepo()
	cacheRepo.entries[reportCardCacheKey("stu-1")] = &models.ReportCard{StudentID: "stu-1"}
	repo := &fakeGradeRepo{}

	_, err := newGradeServiceForTest(repo, cacheRepo).Record(context.Background(), teacherActor, RecordGradeRequest{
		EvaluationID: "eval-1", StudentID: "stu-1", Score: NewScore(9),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{reportCardCacheKey("stu-1")}, cacheRepo.deleted)
}

func TestGradeServiceForbidden(t *testing.T) {
	repo := &fakeGradeRepo{}
	svc := NewGradeService(repo, denyAll{}, nil, nil, defaultBounds, nil, nil)
	_, err := svc.Record(context.Background(), studentActor, RecordGradeRequest{EvaluationID: "eval-1", StudentID: "stu-1", Score: NewScore(9)})
	assert.True(t, errors.Is(err, appErrors.ErrForbidden))
	assert.Zero(t, repo.calls)
}
