package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/AIFMgroup/AIFM-sub010/internal/apperrors"
	portssvc "github.com/AIFMgroup/AIFM-sub010/internal/core/ports/services"
	"github.com/AIFMgroup/AIFM-sub010/internal/dto"
	"github.com/AIFMgroup/AIFM-sub010/internal/middleware"
	"github.com/gin-gonic/gin"
)

// periodizationHandler handles HTTP requests related to periodization.
type periodizationHandler struct {
	periodizationService portssvc.PeriodizationSvcFacade
}

// newPeriodizationHandler creates a new periodizationHandler.
func newPeriodizationHandler(ps portssvc.PeriodizationSvcFacade) *periodizationHandler {
	return &periodizationHandler{periodizationService: ps}
}

// registerPeriodizationRoutes registers routes related to periodization.
func registerPeriodizationRoutes(rg *gin.RouterGroup, periodizationService portssvc.PeriodizationSvcFacade) {
	h := newPeriodizationHandler(periodizationService)

	periodization := rg.Group("/periodization")
	{
		periodization.POST("/detect", h.detectPeriodization)
		periodization.POST("/schedules", h.createSchedule)
		periodization.GET("/schedules", h.listSchedules)
		periodization.GET("/schedules/:id", h.getSchedule)
		periodization.GET("/entries/due", h.listDueEntries)
		periodization.POST("/entries/:id/process", h.markEntryProcessed)
	}
}

// detectPeriodization godoc
// @Summary Detect whether a cost should be periodized
// @Description Applies the keyword and period-extraction heuristics to a classified document and returns an advisory detection
// @Tags periodization
// @Accept  json
// @Produce  json
// @Param   document body dto.DetectPeriodizationRequest true "Document fields"
// @Success 200 {object} domain.PeriodizationDetection
// @Failure 400 {object} map[string]string "Invalid input format"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /periodization/detect [post]
func (h *periodizationHandler) detectPeriodization(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.DetectPeriodizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for DetectPeriodization", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	detection := h.periodizationService.DetectPeriodizationNeed(req)
	c.JSON(http.StatusOK, detection)
}

// createSchedule godoc
// @Summary Create a periodization schedule
// @Description Spreads an amount evenly across the months between start and end date; the final month absorbs the rounding remainder
// @Tags periodization
// @Accept  json
// @Produce  json
// @Param   schedule body dto.CreateScheduleRequest true "Schedule details"
// @Success 201 {object} domain.PeriodizationSchedule
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to create schedule"
// @Security BearerAuth
// @Router /periodization/schedules [post]
func (h *periodizationHandler) createSchedule(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateSchedule", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	companyID, ok := middleware.GetCompanyIDFromContext(c)
	if !ok {
		logger.Error("Company ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Creator user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	schedule, err := h.periodizationService.CreateSchedule(c.Request.Context(), companyID, req, creatorUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error creating schedule", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to create schedule in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create schedule"})
		}
		return
	}

	c.JSON(http.StatusCreated, schedule)
}

// getSchedule godoc
// @Summary Get a periodization schedule by ID
// @Description Retrieves a schedule with all of its monthly entries
// @Tags periodization
// @Produce  json
// @Param   id path string true "Schedule ID"
// @Success 200 {object} domain.PeriodizationSchedule
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Schedule not found"
// @Security BearerAuth
// @Router /periodization/schedules/{id} [get]
func (h *periodizationHandler) getSchedule(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID, ok := middleware.GetCompanyIDFromContext(c)
	if !ok {
		logger.Error("Company ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	schedule, err := h.periodizationService.GetSchedule(c.Request.Context(), companyID, c.Param("id"))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Schedule not found"})
		} else {
			logger.Error("Failed to get schedule from service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve schedule"})
		}
		return
	}
	c.JSON(http.StatusOK, schedule)
}

// listSchedules godoc
// @Summary List the company's periodization schedules
// @Tags periodization
// @Produce  json
// @Success 200 {array} domain.PeriodizationSchedule
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /periodization/schedules [get]
func (h *periodizationHandler) listSchedules(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID, ok := middleware.GetCompanyIDFromContext(c)
	if !ok {
		logger.Error("Company ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	schedules, err := h.periodizationService.ListSchedules(c.Request.Context(), companyID)
	if err != nil {
		logger.Error("Failed to list schedules", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list schedules"})
		return
	}
	c.JSON(http.StatusOK, schedules)
}

// listDueEntries godoc
// @Summary List entries due in a month
// @Description Retrieves the unprocessed entries due in the given month (YYYY-MM) across all schedules; the monthly close query
// @Tags periodization
// @Produce  json
// @Param   month query string true "Target month, YYYY-MM"
// @Success 200 {array} domain.PeriodizationEntry
// @Failure 400 {object} map[string]string "Missing or malformed month"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /periodization/entries/due [get]
func (h *periodizationHandler) listDueEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID, ok := middleware.GetCompanyIDFromContext(c)
	if !ok {
		logger.Error("Company ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	targetMonth := c.Query("month")
	if targetMonth == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "month query parameter is required"})
		return
	}

	entries, err := h.periodizationService.ListDueEntries(c.Request.Context(), companyID, targetMonth)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to list due entries", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list due entries"})
		}
		return
	}
	c.JSON(http.StatusOK, entries)
}

// markEntryProcessed godoc
// @Summary Mark a schedule entry as processed
// @Description Flips one monthly entry to processed after its voucher has been posted
// @Tags periodization
// @Produce  json
// @Param   id path string true "Entry ID"
// @Success 204 "Entry marked processed"
// @Failure 400 {object} map[string]string "Entry already processed"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Entry not found"
// @Security BearerAuth
// @Router /periodization/entries/{id}/process [post]
func (h *periodizationHandler) markEntryProcessed(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID, ok := middleware.GetCompanyIDFromContext(c)
	if !ok {
		logger.Error("Company ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	err := h.periodizationService.MarkEntryProcessed(c.Request.Context(), companyID, c.Param("id"))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Entry not found"})
		} else if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to mark entry processed", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark entry processed"})
		}
		return
	}
	c.Status(http.StatusNoContent)
}
