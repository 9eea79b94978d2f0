package grading

import "sort"

// Period names one slot in a school's academic progression. Labeling is the
// caller's concern ("Form 1 Term 2", "Grade 10 Semester 1"); the engine only
// relies on the order periods are supplied in.
type Period struct {
	Label string
	Term  int
	Year  int
}

// PeriodBatch pairs a period with the exam-scope input recorded for it.
type PeriodBatch struct {
	Period Period
	Input  Input
}

// HistoricalPoint is one period's outcome for a student: the mean points and
// class position recomputed from that period's raw results.
type HistoricalPoint struct {
	Period        Period
	MeanPoints    float64
	ClassPosition int
	CohortSize    int
}

// Trend is a student's ordered series across their enrollment. Deviation is
// the current period's mean minus the immediately preceding period's mean;
// it stays nil when no preceding period exists.
type Trend struct {
	Series    []HistoricalPoint
	Deviation *float64
}

// BuildTrend re-runs the aggregation pipeline once per period batch and
// assembles the student's time series. Batches are consumed in the order
// given; periods where the student has no countable result are skipped, so
// the series covers exactly the periods the student sat. The series is a
// cache of a recomputation, derivable again at any time from raw results.
func BuildTrend(studentID uint, batches []PeriodBatch) Trend {
	series := make([]HistoricalPoint, 0, len(batches))

	for _, batch := range batches {
		results := ProcessExam(batch.Input)
		for _, result := range results {
			if result.Student.ID != studentID {
				continue
			}
			series = append(series, HistoricalPoint{
				Period:        batch.Period,
				MeanPoints:    result.Aggregate.MeanPoints,
				ClassPosition: result.ClassRank,
				CohortSize:    len(results),
			})
			break
		}
	}

	trend := Trend{Series: series}
	if len(series) >= 2 {
		deviation := series[len(series)-1].MeanPoints - series[len(series)-2].MeanPoints
		trend.Deviation = &deviation
	}

	return trend
}

// SortBatches orders period batches chronologically by year then term, for
// callers without a curriculum-specific period ordering.
func SortBatches(batches []PeriodBatch) []PeriodBatch {
	out := make([]PeriodBatch, len(batches))
	copy(out, batches)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Period.Year != out[j].Period.Year {
			return out[i].Period.Year < out[j].Period.Year
		}
		return out[i].Period.Term < out[j].Period.Term
	})
	return out
}
