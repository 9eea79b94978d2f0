package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shulehub/matokeo-api/internal/models"
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

type fakeExamRepo struct {
	exams   map[uint]models.Exam
	history []models.Exam
}

func (f *fakeExamRepo) GetByID(_ context.Context, id uint) (models.Exam, error) {
	exam, ok := f.exams[id]
	if !ok {
		return models.Exam{}, gorm.ErrRecordNotFound
	}
	return exam, nil
}

func (f *fakeExamRepo) ListHistoryByClassIDs(_ context.Context, classIDs []uint) ([]models.Exam, error) {
	wanted := make(map[uint]bool, len(classIDs))
	for _, id := range classIDs {
		wanted[id] = true
	}

	out := make([]models.Exam, 0, len(f.history))
	for _, exam := range f.history {
		if wanted[exam.ClassID] {
			out = append(out, exam)
		}
	}
	return out, nil
}

type fakeStudentRepo struct {
	students []models.Student
}

func (f *fakeStudentRepo) GetByID(_ context.Context, id uint) (models.Student, error) {
	for _, s := range f.students {
		if s.ID == id {
			return s, nil
		}
	}
	return models.Student{}, gorm.ErrRecordNotFound
}

func (f *fakeStudentRepo) ListByClass(_ context.Context, classID uint) ([]models.Student, error) {
	out := make([]models.Student, 0, len(f.students))
	for _, s := range f.students {
		if s.ClassID == classID {
			out = append(out, s)
		}
	}
	return out, nil
}

type fakeSubjectRepo struct {
	subjects []models.Subject
}

func (f *fakeSubjectRepo) ListActive(_ context.Context) ([]models.Subject, error) {
	return f.subjects, nil
}

type fakeResultRepo struct {
	byExam    map[uint][]models.RawResult
	examClass map[uint]uint
	calls     int
}

func (f *fakeResultRepo) ListConfirmedByExam(_ context.Context, examID uint) ([]models.RawResult, error) {
	f.calls++
	return f.byExam[examID], nil
}

func (f *fakeResultRepo) ListClassIDsByStudent(_ context.Context, studentID uint) ([]uint, error) {
	seen := make(map[uint]bool)
	classIDs := make([]uint, 0, len(f.examClass))
	for examID, results := range f.byExam {
		for _, result := range results {
			if result.StudentID != studentID || !result.Confirmed {
				continue
			}
			classID := f.examClass[examID]
			if classID != 0 && !seen[classID] {
				seen[classID] = true
				classIDs = append(classIDs, classID)
			}
		}
	}
	return classIDs, nil
}

type fakeGradingRepo struct {
	rules []models.GradingRule
}

func (f *fakeGradingRepo) ListRules(_ context.Context, _ uint) ([]models.GradingRule, error) {
	return f.rules, nil
}

func testRules() []models.GradingRule {
	return []models.GradingRule{
		{GradingSystemID: 1, MinScore: 80, MaxScore: 100, Grade: "A", Points: 12},
		{GradingSystemID: 1, MinScore: 70, MaxScore: 79.99, Grade: "B+", Points: 10},
		{GradingSystemID: 1, MinScore: 60, MaxScore: 69.99, Grade: "B-", Points: 8},
		{GradingSystemID: 1, MinScore: 40, MaxScore: 59.99, Grade: "C", Points: 6},
		{GradingSystemID: 1, MinScore: 1, MaxScore: 39.99, Grade: "E", Points: 1},
	}
}

func score(v float64) *float64 { return &v }

type reportFixture struct {
	exams    *fakeExamRepo
	students *fakeStudentRepo
	subjects *fakeSubjectRepo
	results  *fakeResultRepo
	grading  *fakeGradingRepo
}

// newReportFixture wires one class of two students sitting a single-subject
// exam (exam 100, term 2), preceded by a closed term 1 exam (exam 90).
func newReportFixture() reportFixture {
	current := models.Exam{ID: 100, Name: "Term 2 Endterm", ClassID: 4, Term: 2, Year: 2025, GradingSystemID: 1, MinSubjects: 1, Confirmed: true, Closed: true}
	previous := models.Exam{ID: 90, Name: "Term 1 Endterm", ClassID: 4, Term: 1, Year: 2025, GradingSystemID: 1, MinSubjects: 1, Confirmed: true, Closed: true}

	return reportFixture{
		exams: &fakeExamRepo{
			exams:   map[uint]models.Exam{100: current, 90: previous},
			history: []models.Exam{previous, current},
		},
		students: &fakeStudentRepo{students: []models.Student{
			{ID: 21, Name: "Achieng", AdmissionNo: "2105", ClassID: 4, Stream: "North"},
			{ID: 22, Name: "Baraka", AdmissionNo: "2201", ClassID: 4, Stream: "South"},
		}},
		subjects: &fakeSubjectRepo{subjects: []models.Subject{
			{ID: 2, Name: "English", Type: models.SubjectTypeCompulsory},
		}},
		results: &fakeResultRepo{
			byExam: map[uint][]models.RawResult{
				100: {
					{StudentID: 21, ExamID: 100, SubjectID: 2, Score: score(85), Confirmed: true},
					{StudentID: 22, ExamID: 100, SubjectID: 2, Score: score(62), Confirmed: true},
				},
				90: {
					{StudentID: 21, ExamID: 90, SubjectID: 2, Score: score(72), Confirmed: true},
				},
			},
			examClass: map[uint]uint{100: 4, 90: 4},
		},
		grading: &fakeGradingRepo{rules: testRules()},
	}
}

// promoted rewires the fixture so the current exam sits in class 5 while the
// term 1 exam stays with class 4, as after a class promotion.
func (f reportFixture) promoted() reportFixture {
	current := f.exams.exams[100]
	current.ClassID = 5
	f.exams.exams[100] = current
	f.exams.history = []models.Exam{f.exams.exams[90], current}
	for i := range f.students.students {
		f.students.students[i].ClassID = 5
	}
	f.results.examClass[100] = 5
	return f
}

func (f reportFixture) service(cache *redis.Client) ReportService {
	return NewReportService(f.exams, f.students, f.subjects, f.results, f.grading, cache, time.Minute, testLogger())
}

func TestReportServiceBroadsheet(t *testing.T) {
	svc := newReportFixture().service(nil)

	sheet, err := svc.Broadsheet(context.Background(), 100, "")
	require.NoError(t, err)
	require.Equal(t, uint(100), sheet.ExamID)
	require.Len(t, sheet.Students, 2)

	require.Equal(t, uint(21), sheet.Students[0].StudentID)
	require.Equal(t, 1, sheet.Students[0].ClassRank)
	require.Equal(t, 12.0, sheet.Students[0].MeanPoints)
	require.Equal(t, "A", sheet.Students[0].Grade)

	require.Equal(t, uint(22), sheet.Students[1].StudentID)
	require.Equal(t, 2, sheet.Students[1].ClassRank)
	require.Equal(t, 1, sheet.Students[1].StreamRank)
}

func TestReportServiceBroadsheetStreamFilterKeepsClassRanks(t *testing.T) {
	svc := newReportFixture().service(nil)

	sheet, err := svc.Broadsheet(context.Background(), 100, "South")
	require.NoError(t, err)
	require.Len(t, sheet.Students, 1)
	require.Equal(t, uint(22), sheet.Students[0].StudentID)
	require.Equal(t, 2, sheet.Students[0].ClassRank)
	require.Equal(t, 1, sheet.Students[0].StreamRank)
}

func TestReportServiceBroadsheetExamNotFound(t *testing.T) {
	svc := newReportFixture().service(nil)

	_, err := svc.Broadsheet(context.Background(), 404, "")
	require.ErrorIs(t, err, ErrExamNotFound)
}

func TestReportServiceBroadsheetEmptyCohort(t *testing.T) {
	fixture := newReportFixture()
	fixture.results.byExam = map[uint][]models.RawResult{}
	svc := fixture.service(nil)

	sheet, err := svc.Broadsheet(context.Background(), 100, "")
	require.NoError(t, err)
	require.Empty(t, sheet.Students)
}

func TestReportServiceBroadsheetCache(t *testing.T) {
	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	fixture := newReportFixture()
	svc := fixture.service(cache)

	first, err := svc.Broadsheet(context.Background(), 100, "")
	require.NoError(t, err)
	fetchesAfterFirst := fixture.results.calls

	second, err := svc.Broadsheet(context.Background(), 100, "")
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Equal(t, fetchesAfterFirst, fixture.results.calls, "second call must be served from cache")
}

func TestReportServiceReportCard(t *testing.T) {
	svc := newReportFixture().service(nil)

	card, err := svc.ReportCard(context.Background(), 100, 21)
	require.NoError(t, err)

	require.Equal(t, uint(21), card.Aggregate.StudentID)
	require.Equal(t, 1, card.Aggregate.ClassRank)
	require.Len(t, card.Subjects, 1)
	require.Equal(t, "A", card.Subjects[0].Grade)
	require.True(t, card.Subjects[0].Selected)

	// Term 1: 72 -> B+ / 10 points; term 2 mean is 12.
	require.NotNil(t, card.Deviation)
	require.InDelta(t, 2, *card.Deviation, 1e-9)
}

func TestReportServiceReportCardNoPriorTerm(t *testing.T) {
	fixture := newReportFixture()
	fixture.exams.history = []models.Exam{fixture.exams.exams[100]}
	svc := fixture.service(nil)

	card, err := svc.ReportCard(context.Background(), 100, 21)
	require.NoError(t, err)
	require.Nil(t, card.Deviation, "first recorded term reports no deviation")
}

func TestReportServiceReportCardDeviationSpansPriorClass(t *testing.T) {
	svc := newReportFixture().promoted().service(nil)

	card, err := svc.ReportCard(context.Background(), 100, 21)
	require.NoError(t, err)
	require.Equal(t, 1, card.Aggregate.ClassRank)

	// The preceding term was sat in the old class; it still anchors the deviation.
	require.NotNil(t, card.Deviation)
	require.InDelta(t, 2, *card.Deviation, 1e-9)
}

func TestReportServiceReportCardStudentNotInExam(t *testing.T) {
	svc := newReportFixture().service(nil)

	_, err := svc.ReportCard(context.Background(), 100, 999)
	require.ErrorIs(t, err, ErrStudentNotInExam)
}
