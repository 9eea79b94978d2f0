package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/gorm"

	"github.com/shulehub/matokeo-api/internal/dto"
	"github.com/shulehub/matokeo-api/internal/grading"
	"github.com/shulehub/matokeo-api/internal/models"
	"github.com/shulehub/matokeo-api/internal/repository"
)

// TrendService reconstructs a student's historical per-term series.
type TrendService interface {
	StudentTrend(ctx context.Context, studentID uint) (dto.TrendResponse, error)
}

type trendService struct {
	exams    repository.ExamRepository
	students repository.StudentRepository
	subjects repository.SubjectRepository
	results  repository.ResultRepository
	grading  repository.GradingRepository
	logger   zerolog.Logger
}

// NewTrendService constructs the trend service.
func NewTrendService(
	exams repository.ExamRepository,
	students repository.StudentRepository,
	subjects repository.SubjectRepository,
	results repository.ResultRepository,
	gradingRepo repository.GradingRepository,
	logger zerolog.Logger,
) TrendService {
	return &trendService{
		exams:    exams,
		students: students,
		subjects: subjects,
		results:  results,
		grading:  gradingRepo,
		logger:   logger.With().Str("component", "trend_service").Logger(),
	}
}

// StudentTrend re-runs the aggregation pipeline for each closed term in the
// student's history. The series is recomputed from raw results on every call;
// nothing here is a source of truth.
func (s *trendService) StudentTrend(ctx context.Context, studentID uint) (dto.TrendResponse, error) {
	tracer := otel.Tracer("github.com/shulehub/matokeo-api/internal/service/trend")
	ctx, span := tracer.Start(ctx, "report.trend")
	span.SetAttributes(attribute.Int64("report.student_id", int64(studentID)))
	defer span.End()

	student, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			span.SetStatus(codes.Error, "student_not_found")
			return dto.TrendResponse{}, ErrStudentNotFound
		}
		span.RecordError(err)
		return dto.TrendResponse{}, err
	}

	classIDs, err := enrollmentClassIDs(ctx, s.results, student)
	if err != nil {
		span.RecordError(err)
		return dto.TrendResponse{}, err
	}

	history, err := s.exams.ListHistoryByClassIDs(ctx, classIDs)
	if err != nil {
		span.RecordError(err)
		return dto.TrendResponse{}, err
	}

	batches := make([]grading.PeriodBatch, 0, len(history))
	for _, exam := range termEndExams(history) {
		input, err := buildExamInput(ctx, exam, s.students, s.subjects, s.results, s.grading)
		if err != nil {
			// One broken period must not sink the whole series.
			s.logger.Warn().Err(err).Uint("exam_id", exam.ID).Msg("skipping period in trend")
			continue
		}
		// A class roster lookup misses students promoted out since the exam.
		input.Students = ensureStudent(input.Students, student)
		batches = append(batches, grading.PeriodBatch{
			Period: grading.Period{
				Label: fmt.Sprintf("%d Term %d", exam.Year, exam.Term),
				Term:  exam.Term,
				Year:  exam.Year,
			},
			Input: input,
		})
	}

	trend := grading.BuildTrend(studentID, grading.SortBatches(batches))
	span.SetAttributes(attribute.Int("report.periods", len(trend.Series)))

	return dto.NewTrendResponse(student.ID, student.Name, student.AdmissionNo, trend), nil
}

// enrollmentClassIDs resolves the classes whose exams the student has sat,
// with the current class always included. Trend and deviation lookups use
// this instead of the current class alone so promotion does not truncate the
// student's history.
func enrollmentClassIDs(ctx context.Context, results repository.ResultRepository, student models.Student) ([]uint, error) {
	classIDs, err := results.ListClassIDsByStudent(ctx, student.ID)
	if err != nil {
		return nil, err
	}

	for _, id := range classIDs {
		if id == student.ClassID {
			return classIDs, nil
		}
	}
	return append(classIDs, student.ClassID), nil
}

// ensureStudent adds the student to a cohort fetched by class when their
// current class no longer matches the exam's class.
func ensureStudent(cohort []models.Student, student models.Student) []models.Student {
	for _, s := range cohort {
		if s.ID == student.ID {
			return cohort
		}
	}
	return append(cohort, student)
}

// termEndExams keeps one exam per (year, term): the last recorded, which is
// the end-of-term sitting. History arrives in chronological order.
func termEndExams(history []models.Exam) []models.Exam {
	type key struct{ year, term int }

	latest := make(map[key]models.Exam, len(history))
	order := make([]key, 0, len(history))
	for _, exam := range history {
		k := key{exam.Year, exam.Term}
		if _, seen := latest[k]; !seen {
			order = append(order, k)
		}
		latest[k] = exam
	}

	out := make([]models.Exam, 0, len(order))
	for _, k := range order {
		out = append(out, latest[k])
	}
	return out
}
