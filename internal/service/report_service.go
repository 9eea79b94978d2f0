package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
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

// ErrExamNotFound indicates the requested exam does not exist.
var ErrExamNotFound = errors.New("exam not found")

// ErrStudentNotFound indicates the requested student does not exist.
var ErrStudentNotFound = errors.New("student not found")

// ErrStudentNotInExam indicates the student has no countable result in the exam.
var ErrStudentNotInExam = errors.New("student has no results in this exam")

// ReportService computes ranked exam reports from confirmed raw results.
type ReportService interface {
	Broadsheet(ctx context.Context, examID uint, stream string) (dto.BroadsheetResponse, error)
	ReportCard(ctx context.Context, examID, studentID uint) (dto.ReportCardResponse, error)
}

type reportService struct {
	exams    repository.ExamRepository
	students repository.StudentRepository
	subjects repository.SubjectRepository
	results  repository.ResultRepository
	grading  repository.GradingRepository
	cache    *redis.Client
	cacheTTL time.Duration
	logger   zerolog.Logger
}

// NewReportService constructs the report service.
func NewReportService(
	exams repository.ExamRepository,
	students repository.StudentRepository,
	subjects repository.SubjectRepository,
	results repository.ResultRepository,
	gradingRepo repository.GradingRepository,
	cache *redis.Client,
	cacheTTL time.Duration,
	logger zerolog.Logger,
) ReportService {
	return &reportService{
		exams:    exams,
		students: students,
		subjects: subjects,
		results:  results,
		grading:  gradingRepo,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger.With().Str("component", "report_service").Logger(),
	}
}

func (s *reportService) Broadsheet(ctx context.Context, examID uint, stream string) (dto.BroadsheetResponse, error) {
	tracer := otel.Tracer("github.com/shulehub/matokeo-api/internal/service/report")
	ctx, span := tracer.Start(ctx, "report.broadsheet")
	span.SetAttributes(
		attribute.Int64("report.exam_id", int64(examID)),
		attribute.String("report.stream", stream),
	)
	defer span.End()

	cacheKey := fmt.Sprintf("report:broadsheet:%d:%s", examID, stream)
	var cached dto.BroadsheetResponse
	if s.readCache(ctx, cacheKey, &cached) {
		span.SetAttributes(attribute.Bool("report.cache_hit", true))
		return cached, nil
	}

	exam, err := s.exams.GetByID(ctx, examID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			span.SetStatus(codes.Error, "exam_not_found")
			return dto.BroadsheetResponse{}, ErrExamNotFound
		}
		span.RecordError(err)
		return dto.BroadsheetResponse{}, err
	}

	ranked, err := s.computeExam(ctx, exam)
	if err != nil {
		span.RecordError(err)
		return dto.BroadsheetResponse{}, err
	}

	response := dto.BroadsheetResponse{
		ExamID:   exam.ID,
		ExamName: exam.Name,
		Term:     exam.Term,
		Year:     exam.Year,
		Stream:   stream,
		Students: make([]dto.StudentAggregateResponse, 0, len(ranked)),
	}
	for _, result := range ranked {
		if stream != "" && result.Student.Stream != stream {
			continue
		}
		response.Students = append(response.Students, dto.NewStudentAggregateResponse(result))
	}

	s.writeCache(ctx, cacheKey, response)
	span.SetAttributes(attribute.Int("report.cohort_size", len(response.Students)))

	return response, nil
}

func (s *reportService) ReportCard(ctx context.Context, examID, studentID uint) (dto.ReportCardResponse, error) {
	tracer := otel.Tracer("github.com/shulehub/matokeo-api/internal/service/report")
	ctx, span := tracer.Start(ctx, "report.card")
	span.SetAttributes(
		attribute.Int64("report.exam_id", int64(examID)),
		attribute.Int64("report.student_id", int64(studentID)),
	)
	defer span.End()

	cacheKey := fmt.Sprintf("report:card:%d:%d", examID, studentID)
	var cached dto.ReportCardResponse
	if s.readCache(ctx, cacheKey, &cached) {
		span.SetAttributes(attribute.Bool("report.cache_hit", true))
		return cached, nil
	}

	exam, err := s.exams.GetByID(ctx, examID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			span.SetStatus(codes.Error, "exam_not_found")
			return dto.ReportCardResponse{}, ErrExamNotFound
		}
		span.RecordError(err)
		return dto.ReportCardResponse{}, err
	}

	ranked, err := s.computeExam(ctx, exam)
	if err != nil {
		span.RecordError(err)
		return dto.ReportCardResponse{}, err
	}

	var result *grading.Result
	for i := range ranked {
		if ranked[i].Student.ID == studentID {
			result = &ranked[i]
			break
		}
	}
	if result == nil {
		span.SetStatus(codes.Error, "student_not_in_exam")
		return dto.ReportCardResponse{}, ErrStudentNotInExam
	}

	subjects := make([]dto.SubjectResultResponse, 0, len(result.Subjects))
	for _, subject := range result.Subjects {
		subjects = append(subjects, dto.NewSubjectResultResponse(subject))
	}

	response := dto.ReportCardResponse{
		Aggregate: dto.NewStudentAggregateResponse(*result),
		Subjects:  subjects,
		Deviation: s.deviationFor(ctx, exam, result.Student, result.Aggregate.MeanPoints),
	}

	s.writeCache(ctx, cacheKey, response)

	return response, nil
}

// computeExam assembles the engine input for one exam and runs the pipeline.
func (s *reportService) computeExam(ctx context.Context, exam models.Exam) ([]grading.Result, error) {
	input, err := buildExamInput(ctx, exam, s.students, s.subjects, s.results, s.grading)
	if err != nil {
		return nil, err
	}

	return grading.ProcessExam(input), nil
}

// deviationFor recomputes the immediately preceding closed exam across the
// student's enrollment history and reports the mean-points movement. The
// preceding exam may belong to a class the student has since left. A failure
// here degrades to no deviation; it never fails the report.
func (s *reportService) deviationFor(ctx context.Context, exam models.Exam, student models.Student, currentMean float64) *float64 {
	classIDs, err := enrollmentClassIDs(ctx, s.results, student)
	if err != nil {
		s.logger.Warn().Err(err).Uint("student_id", student.ID).Msg("failed to resolve enrollment classes for deviation")
		classIDs = []uint{exam.ClassID}
	}

	history, err := s.exams.ListHistoryByClassIDs(ctx, classIDs)
	if err != nil {
		s.logger.Warn().Err(err).Uint("exam_id", exam.ID).Msg("failed to load exam history for deviation")
		return nil
	}

	previous := precedingExam(history, exam)
	if previous == nil {
		return nil
	}

	input, err := buildExamInput(ctx, *previous, s.students, s.subjects, s.results, s.grading)
	if err != nil {
		s.logger.Warn().Err(err).Uint("exam_id", previous.ID).Msg("failed to recompute preceding exam")
		return nil
	}
	input.Students = ensureStudent(input.Students, student)

	for _, result := range grading.ProcessExam(input) {
		if result.Student.ID == student.ID {
			deviation := currentMean - result.Aggregate.MeanPoints
			return &deviation
		}
	}

	return nil
}

// precedingExam picks the latest exam strictly before the current one in
// chronological term order. History is already sorted ascending.
func precedingExam(history []models.Exam, current models.Exam) *models.Exam {
	var previous *models.Exam
	for i := range history {
		exam := history[i]
		if exam.ID == current.ID {
			continue
		}
		if exam.Year > current.Year || (exam.Year == current.Year && exam.Term >= current.Term) {
			continue
		}
		previous = &history[i]
	}
	return previous
}

func (s *reportService) readCache(ctx context.Context, key string, target interface{}) bool {
	if s.cache == nil {
		return false
	}

	cached, err := s.cache.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			s.logger.Warn().Err(err).Str("key", key).Msg("failed to read report cache")
		}
		return false
	}

	if err := json.Unmarshal([]byte(cached), target); err != nil {
		return false
	}

	s.logger.Debug().Str("key", key).Msg("report cache hit")
	return true
}

func (s *reportService) writeCache(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}

	payload, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, payload, s.cacheTTL).Err(); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("failed to store report cache")
	}
}

// buildExamInput fetches the read-only rows the engine consumes for one exam.
func buildExamInput(
	ctx context.Context,
	exam models.Exam,
	students repository.StudentRepository,
	subjects repository.SubjectRepository,
	results repository.ResultRepository,
	gradingRepo repository.GradingRepository,
) (grading.Input, error) {
	cohort, err := students.ListByClass(ctx, exam.ClassID)
	if err != nil {
		return grading.Input{}, fmt.Errorf("load students: %w", err)
	}

	subjectList, err := subjects.ListActive(ctx)
	if err != nil {
		return grading.Input{}, fmt.Errorf("load subjects: %w", err)
	}

	rawResults, err := results.ListConfirmedByExam(ctx, exam.ID)
	if err != nil {
		return grading.Input{}, fmt.Errorf("load results: %w", err)
	}

	rules, err := gradingRepo.ListRules(ctx, exam.GradingSystemID)
	if err != nil {
		return grading.Input{}, fmt.Errorf("load grading rules: %w", err)
	}

	return grading.Input{
		Exam:     exam,
		Students: cohort,
		Subjects: subjectList,
		Results:  rawResults,
		Rules:    rules,
	}, nil
}
