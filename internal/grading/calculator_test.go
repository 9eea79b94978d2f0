package grading

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shulehub/matokeo-api/internal/models"
)

func selectedSubject(points, composite float64) SubjectResult {
	return SubjectResult{Composite: composite, Points: points, Selected: true}
}

func TestCalculateWorkedExample(t *testing.T) {
	points := []float64{12, 12, 11, 10, 9, 8, 7}
	composites := []float64{80, 75, 70, 72, 68, 65, 60}

	subjects := make([]SubjectResult, len(points))
	for i := range points {
		subjects[i] = selectedSubject(points[i], composites[i])
	}

	agg := Calculate(subjects, 7, NewResolver(standardRules()))
	require.InDelta(t, 69, agg.TotalPoints, 1e-9)
	require.InDelta(t, 490, agg.TotalMarks, 1e-9)
	require.InDelta(t, 69.0/7.0, agg.MeanPoints, 1e-9)
	require.InDelta(t, 70.0, agg.AverageMarks, 1e-9)
}

func TestCalculateIgnoresUnselected(t *testing.T) {
	subjects := []SubjectResult{
		selectedSubject(9, 70),
		{Composite: 95, Points: 12, Selected: false},
	}

	agg := Calculate(subjects, 1, nil)
	require.InDelta(t, 9, agg.TotalPoints, 1e-9)
	require.InDelta(t, 70, agg.TotalMarks, 1e-9)
}

func TestCalculateFixedDenominatorPenalizesShortfall(t *testing.T) {
	// Two qualifying subjects against a minimum of five: the denominator
	// does not shrink to match.
	subjects := []SubjectResult{selectedSubject(10, 60), selectedSubject(10, 60)}

	agg := Calculate(subjects, 5, nil)
	require.InDelta(t, 4, agg.MeanPoints, 1e-9)
	require.InDelta(t, 24, agg.AverageMarks, 1e-9)
}

func TestCalculateZeroMinSubjectsGuard(t *testing.T) {
	agg := Calculate([]SubjectResult{selectedSubject(10, 60)}, 0, nil)
	require.Zero(t, agg.AverageMarks)
	require.Zero(t, agg.MeanPoints)
	require.InDelta(t, 10, agg.TotalPoints, 1e-9)
}

func TestCalculateOverallGradeFromMeanPoints(t *testing.T) {
	subjects := []SubjectResult{selectedSubject(9, 70), selectedSubject(9, 72)}

	agg := Calculate(subjects, 2, NewResolver(standardRules()))
	require.Equal(t, "B", agg.Grade)
}

func TestCalculateDoesNotMutateInput(t *testing.T) {
	subjects := []SubjectResult{selectedSubject(9, 70)}
	before := make([]SubjectResult, len(subjects))
	copy(before, subjects)

	_ = Calculate(subjects, 3, NewResolver([]models.GradingRule{}))
	require.Equal(t, before, subjects)
}
