package service

import (
	"math"
	"sort"
	"time"

	"github.com/noah-isme/school-records-api/internal/models"
)

// UnknownSubject labels grades whose subject could not be resolved.
const UnknownSubject = "Unknown"

const (
	goodThreshold    = 7.0
	warningThreshold = 4.0
)

// ClassifyAverage maps an average to its band: >= 7 good, >= 4 warning, otherwise failing.
func ClassifyAverage(avg float64) models.PerformanceBand {
	switch {
	case avg >= goodThreshold:
		return models.BandGood
	case avg >= warningThreshold:
		return models.BandWarning
	default:
		return models.BandFailing
	}
}

// BuildReportCard groups a student's grades by subject name. Subjects are listed in
// the order their latest grade appears and keep their grades latest first. Each
// subject average is the plain mean of its scores; the overall average is the mean
// of the subject averages and is absent when there are no grades.
func BuildReportCard(studentID string, rows []models.StudentGradeRow, generatedAt time.Time) *models.ReportCard {
	ordered := make([]models.StudentGradeRow, len(rows))
	copy(ordered, rows)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].CreatedAt.After(ordered[j].CreatedAt)
	})

	card := &models.ReportCard{StudentID: studentID, Subjects: []models.SubjectSummary{}, GeneratedAt: generatedAt}
	index := make(map[string]int)
	for _, row := range ordered {
		name := subjectName(row)
		pos, ok := index[name]
		if !ok {
			pos = len(card.Subjects)
			index[name] = pos
			card.Subjects = append(card.Subjects, models.SubjectSummary{SubjectName: name})
		}
		card.Subjects[pos].Grades = append(card.Subjects[pos].Grades, models.ReportGrade{
			ID:              row.ID,
			EvaluationID:    row.EvaluationID,
			EvaluationTitle: row.EvaluationTitle,
			Score:           row.Score,
			Feedback:        row.Feedback,
			CreatedAt:       row.CreatedAt,
		})
	}

	if len(card.Subjects) == 0 {
		return card
	}

	var sum float64
	for i := range card.Subjects {
		subject := &card.Subjects[i]
		subject.Average = meanScore(subject.Grades)
		subject.Band = ClassifyAverage(subject.Average)
		sum += subject.Average
	}
	overall := sum / float64(len(card.Subjects))
	band := ClassifyAverage(overall)
	card.OverallAverage = &overall
	card.OverallBand = &band
	return card
}

func subjectName(row models.StudentGradeRow) string {
	if row.SubjectName == nil || *row.SubjectName == "" {
		return UnknownSubject
	}
	return *row.SubjectName
}

func meanScore(grades []models.ReportGrade) float64 {
	var sum float64
	for _, g := range grades {
		sum += g.Score
	}
	return sum / float64(len(grades))
}

// AverageDivergence is a course subject whose store-view average differs from the computed mean.
type AverageDivergence struct {
	CourseSubjectID string
	Computed        *float64
	Store           *float64
}

// averageTolerance absorbs rounding in the store view.
const averageTolerance = 0.005

// CompareSubjectAverages reports every course subject where the store's averages
// disagree with the plain mean of the student's grades, including subjects known to only one side.
func CompareSubjectAverages(rows []models.StudentGradeRow, store []models.StoreSubjectAverage) []AverageDivergence {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	var order []string
	for _, row := range rows {
		if _, ok := counts[row.CourseSubjectID]; !ok {
			order = append(order, row.CourseSubjectID)
		}
		sums[row.CourseSubjectID] += row.Score
		counts[row.CourseSubjectID]++
	}
	storeByID := make(map[string]float64, len(store))
	for _, avg := range store {
		storeByID[avg.CourseSubjectID] = avg.AverageScore
		if _, ok := counts[avg.CourseSubjectID]; !ok {
			order = append(order, avg.CourseSubjectID)
		}
	}

	var out []AverageDivergence
	for _, id := range order {
		var computed, stored *float64
		if n := counts[id]; n > 0 {
			v := sums[id] / float64(n)
			computed = &v
		}
		if v, ok := storeByID[id]; ok {
			stored = &v
		}
		if computed != nil && stored != nil && math.Abs(*computed-*stored) <= averageTolerance {
			continue
		}
		out = append(out, AverageDivergence{CourseSubjectID: id, Computed: computed, Store: stored})
	}
	return out
}
