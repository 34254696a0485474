package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-records-api/internal/models"
)

var baseTime = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func gradeRow(id, courseSubject string, subject *string, score float64, age time.Duration) models.StudentGradeRow {
	return models.StudentGradeRow{
		Grade: models.Grade{
			ID:           id,
			EvaluationID: "eval-" + id,
			StudentID:    "stu-1",
			Score:        score,
			CreatedAt:    baseTime.Add(-age),
		},
		EvaluationTitle: "Evaluation " + id,
		CourseSubjectID: courseSubject,
		SubjectName:     subject,
	}
}

func TestBuildReportCardMeanOfMeans(t *testing.T) {
	rows := []models.StudentGradeRow{
		gradeRow("a1", "cs-a", strPtr("Math"), 10, time.Hour),
		gradeRow("b1", "cs-b", strPtr("History"), 2, 2*time.Hour),
		gradeRow("a2", "cs-a", strPtr("Math"), 8, 3*time.Hour),
	}

	card := BuildReportCard("stu-1", rows, baseTime)

	require.Len(t, card.Subjects, 2)
	assert.Equal(t, "Math", card.Subjects[0].SubjectName)
	assert.InDelta(t, 9.0, card.Subjects[0].Average, 1e-9)
	assert.Equal(t, models.BandGood, card.Subjects[0].Band)
	assert.InDelta(t, 2.0, card.Subjects[1].Average, 1e-9)
	assert.Equal(t, models.BandFailing, card.Subjects[1].Band)

	require.NotNil(t, card.OverallAverage)
	assert.InDelta(t, 5.5, *card.OverallAverage, 1e-9)
	assert.Equal(t, models.BandWarning, *card.OverallBand)
}

func TestBuildReportCardOrdersLatestFirst(t *testing.T) {
	rows := []models.StudentGradeRow{
		gradeRow("old", "cs-a", strPtr("Math"), 5, 48*time.Hour),
		gradeRow("new", "cs-a", strPtr("Math"), 7, time.Hour),
		gradeRow("mid", "cs-b", strPtr("Art"), 6, 24*time.Hour),
	}

	card := BuildReportCard("stu-1", rows, baseTime)

	require.Len(t, card.Subjects, 2)
	assert.Equal(t, "Math", card.Subjects[0].SubjectName)
	assert.Equal(t, "new", card.Subjects[0].Grades[0].ID)
	assert.Equal(t, "old", card.Subjects[0].Grades[1].ID)
	assert.Equal(t, "Art", card.Subjects[1].SubjectName)
}

func TestBuildReportCardUnknownSubject(t *testing.T) {
	rows := []models.StudentGradeRow{
		gradeRow("x", "cs-x", nil, 6, time.Hour),
		gradeRow("y", "cs-y", strPtr(""), 4, 2*time.Hour),
	}

	card := BuildReportCard("stu-1", rows, baseTime)

	require.Len(t, card.Subjects, 1)
	assert.Equal(t, UnknownSubject, card.Subjects[0].SubjectName)
	assert.Len(t, card.Subjects[0].Grades, 2)
	assert.InDelta(t, 5.0, card.Subjects[0].Average, 1e-9)
}

func TestBuildReportCardNoGrades(t *testing.T) {
	card := BuildReportCard("stu-1", nil, baseTime)
	assert.NotNil(t, card.Subjects)
	assert.Empty(t, card.Subjects)
	assert.Nil(t, card.OverallAverage)
	assert.Nil(t, card.OverallBand)
}

func TestClassifyAverage(t *testing.T) {
	cases := []struct {
		avg  float64
		band models.PerformanceBand
	}{
		{10, models.BandGood},
		{7.0, models.BandGood},
		{6.99, models.BandWarning},
		{4.0, models.BandWarning},
		{3.99, models.BandFailing},
		{0, models.BandFailing},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.band, ClassifyAverage(tc.avg), "average %v", tc.avg)
	}
}

func TestCompareSubjectAverages(t *testing.T) {
	rows := []models.StudentGradeRow{
		gradeRow("a1", "cs-a", strPtr("Math"), 10, time.Hour),
		gradeRow("a2", "cs-a", strPtr("Math"), 7, 2*time.Hour),
		gradeRow("b1", "cs-b", strPtr("Art"), 6, 3*time.Hour),
	}
	store := []models.StoreSubjectAverage{
		{StudentID: "stu-1", CourseSubjectID: "cs-a", AverageScore: 8.5},
		{StudentID: "stu-1", CourseSubjectID: "cs-b", AverageScore: 5},
		{StudentID: "stu-1", CourseSubjectID: "cs-c", AverageScore: 9},
	}

	divergences := CompareSubjectAverages(rows, store)

	require.Len(t, divergences, 2)
	assert.Equal(t, "cs-b", divergences[0].CourseSubjectID)
	assert.InDelta(t, 6.0, *divergences[0].Computed, 1e-9)
	assert.Equal(t, "cs-c", divergences[1].CourseSubjectID)
	assert.Nil(t, divergences[1].Computed)
}
