package dto

import (
	"math"

	"github.com/shulehub/matokeo-api/internal/grading"
)

// SubjectResultResponse is one subject row on a report card or broadsheet.
type SubjectResultResponse struct {
	SubjectID uint    `json:"subject_id"`
	Name      string  `json:"name"`
	Type      string  `json:"type"`
	Score     float64 `json:"composite_score"`
	Grade     string  `json:"grade"`
	Points    float64 `json:"points"`
	Selected  bool    `json:"selected"`
}

// StudentAggregateResponse is one student's overall outcome for an exam.
type StudentAggregateResponse struct {
	StudentID    uint    `json:"student_id"`
	Name         string  `json:"name"`
	AdmissionNo  string  `json:"admission_no"`
	Stream       string  `json:"stream"`
	TotalMarks   float64 `json:"total_marks"`
	TotalPoints  float64 `json:"total_points"`
	AverageMarks float64 `json:"average_marks"`
	MeanPoints   float64 `json:"mean_points"`
	Grade        string  `json:"grade"`
	ClassRank    int     `json:"class_rank"`
	StreamRank   int     `json:"stream_rank"`
}

// BroadsheetResponse is the ranked aggregate list for one exam scope.
type BroadsheetResponse struct {
	ExamID   uint                       `json:"exam_id"`
	ExamName string                     `json:"exam_name"`
	Term     int                        `json:"term"`
	Year     int                        `json:"year"`
	Stream   string                     `json:"stream,omitempty"`
	Students []StudentAggregateResponse `json:"students"`
}

// ReportCardResponse is one student's full result for an exam, with the
// deviation against their immediately preceding term when one exists.
type ReportCardResponse struct {
	Aggregate StudentAggregateResponse `json:"aggregate"`
	Subjects  []SubjectResultResponse  `json:"subjects"`
	Deviation *float64                 `json:"deviation"`
}

// TrendPointResponse is one period in a student's historical series.
type TrendPointResponse struct {
	Label         string  `json:"label"`
	Term          int     `json:"term"`
	Year          int     `json:"year"`
	MeanPoints    float64 `json:"mean_points"`
	ClassPosition int     `json:"class_position"`
	CohortSize    int     `json:"cohort_size"`
}

// TrendResponse is a student's ordered per-term series plus the deviation
// for the most recent period.
type TrendResponse struct {
	StudentID   uint                 `json:"student_id"`
	Name        string               `json:"name"`
	AdmissionNo string               `json:"admission_no"`
	Series      []TrendPointResponse `json:"series"`
	Deviation   *float64             `json:"deviation"`
}

// NewSubjectResultResponse maps an engine subject result for rendering.
func NewSubjectResultResponse(subject grading.SubjectResult) SubjectResultResponse {
	return SubjectResultResponse{
		SubjectID: subject.SubjectID,
		Name:      subject.Name,
		Type:      string(subject.Type),
		Score:     round2(subject.Composite),
		Grade:     subject.Grade,
		Points:    subject.Points,
		Selected:  subject.Selected,
	}
}

// NewStudentAggregateResponse maps an engine result for rendering. Rounding
// to two decimals happens here and nowhere earlier, so stored intermediates
// never accumulate rounding error.
func NewStudentAggregateResponse(result grading.Result) StudentAggregateResponse {
	return StudentAggregateResponse{
		StudentID:    result.Student.ID,
		Name:         result.Student.Name,
		AdmissionNo:  result.Student.AdmissionNo,
		Stream:       result.Student.Stream,
		TotalMarks:   round2(result.Aggregate.TotalMarks),
		TotalPoints:  round2(result.Aggregate.TotalPoints),
		AverageMarks: round2(result.Aggregate.AverageMarks),
		MeanPoints:   round2(result.Aggregate.MeanPoints),
		Grade:        result.Aggregate.Grade,
		ClassRank:    result.ClassRank,
		StreamRank:   result.StreamRank,
	}
}

// NewTrendResponse maps an engine trend for rendering.
func NewTrendResponse(studentID uint, name, admissionNo string, trend grading.Trend) TrendResponse {
	series := make([]TrendPointResponse, 0, len(trend.Series))
	for _, point := range trend.Series {
		series = append(series, TrendPointResponse{
			Label:         point.Period.Label,
			Term:          point.Period.Term,
			Year:          point.Period.Year,
			MeanPoints:    round2(point.MeanPoints),
			ClassPosition: point.ClassPosition,
			CohortSize:    point.CohortSize,
		})
	}

	return TrendResponse{
		StudentID:   studentID,
		Name:        name,
		AdmissionNo: admissionNo,
		Series:      series,
		Deviation:   roundDeviation(trend.Deviation),
	}
}

func roundDeviation(deviation *float64) *float64 {
	if deviation == nil {
		return nil
	}
	rounded := round2(*deviation)
	return &rounded
}

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}
