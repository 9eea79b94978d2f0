package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/shulehub/matokeo-api/internal/service"
	"github.com/shulehub/matokeo-api/internal/utils"
)

// BroadsheetQuery carries the optional filters for the broadsheet endpoint.
type BroadsheetQuery struct {
	Stream string `query:"stream" validate:"omitempty,max=64"`
}

// ReportHandler exposes the exam reporting endpoints.
type ReportHandler struct {
	reports  service.ReportService
	trends   service.TrendService
	validate *validator.Validate
	logger   zerolog.Logger
}

// NewReportHandler creates a new handler instance.
func NewReportHandler(reports service.ReportService, trends service.TrendService, validate *validator.Validate, logger zerolog.Logger) *ReportHandler {
	return &ReportHandler{
		reports:  reports,
		trends:   trends,
		validate: validate,
		logger:   logger.With().Str("component", "report_handler").Logger(),
	}
}

// Register attaches the reporting endpoints.
func (h *ReportHandler) Register(router fiber.Router) {
	router.Get("/exams/:examID/broadsheet", h.getBroadsheet)
	router.Get("/exams/:examID/students/:studentID", h.getReportCard)
	router.Get("/students/:studentID/trend", h.getTrend)
}

func (h *ReportHandler) getBroadsheet(c *fiber.Ctx) error {
	examID, err := parseIDParam(c, "examID")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid exam id")
	}

	var query BroadsheetQuery
	if err := c.QueryParser(&query); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid query parameters")
	}
	if err := h.validate.Struct(query); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid query parameters")
	}

	sheet, err := h.reports.Broadsheet(c.Context(), examID, query.Stream)
	if err != nil {
		if errors.Is(err, service.ErrExamNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "exam not found")
		}
		h.logger.Error().Err(err).Uint("exam_id", examID).Msg("failed to compute broadsheet")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to compute broadsheet")
	}

	return utils.SendSuccess(c, "broadsheet computed", sheet)
}

func (h *ReportHandler) getReportCard(c *fiber.Ctx) error {
	examID, err := parseIDParam(c, "examID")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid exam id")
	}
	studentID, err := parseIDParam(c, "studentID")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid student id")
	}

	card, err := h.reports.ReportCard(c.Context(), examID, studentID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrExamNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "exam not found")
		case errors.Is(err, service.ErrStudentNotInExam):
			return utils.SendError(c, fiber.StatusNotFound, "student has no results in this exam")
		default:
			h.logger.Error().Err(err).Uint("exam_id", examID).Uint("student_id", studentID).Msg("failed to compute report card")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to compute report card")
		}
	}

	return utils.SendSuccess(c, "report card computed", card)
}

func (h *ReportHandler) getTrend(c *fiber.Ctx) error {
	studentID, err := parseIDParam(c, "studentID")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid student id")
	}

	trend, err := h.trends.StudentTrend(c.Context(), studentID)
	if err != nil {
		if errors.Is(err, service.ErrStudentNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "student not found")
		}
		h.logger.Error().Err(err).Uint("student_id", studentID).Msg("failed to build trend")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to build trend")
	}

	return utils.SendSuccess(c, "trend computed", trend)
}
