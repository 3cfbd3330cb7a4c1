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

// ruleHandler handles HTTP requests related to approval rules.
type ruleHandler struct {
	approvalService portssvc.ApprovalSvcFacade
}

// newRuleHandler creates a new ruleHandler.
func newRuleHandler(as portssvc.ApprovalSvcFacade) *ruleHandler {
	return &ruleHandler{approvalService: as}
}

// registerRuleRoutes registers routes related to the approval rule engine.
func registerRuleRoutes(rg *gin.RouterGroup, approvalService portssvc.ApprovalSvcFacade) {
	h := newRuleHandler(approvalService)

	rules := rg.Group("/rules")
	{
		rules.POST("", h.createRule)
		rules.GET("", h.listRules)
		rules.PUT("/:id", h.updateRule)
		rules.DELETE("/:id", h.deleteRule)
		rules.POST("/seed", h.seedDefaultRules)
		rules.POST("/evaluate", h.evaluateRules)
	}
}

// createRule godoc
// @Summary Create an approval rule
// @Description Creates a tenant-scoped auto-approval rule
// @Tags rules
// @Accept  json
// @Produce  json
// @Param   rule body dto.CreateRuleRequest true "Rule details"
// @Success 201 {object} domain.ApprovalRule
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to create rule"
// @Security BearerAuth
// @Router /rules [post]
func (h *ruleHandler) createRule(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateRule", slog.String("error", err.Error()))
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

	rule, err := h.approvalService.CreateRule(c.Request.Context(), companyID, req, creatorUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error creating rule", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to create rule in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create rule"})
		}
		return
	}

	c.JSON(http.StatusCreated, rule)
}

// listRules godoc
// @Summary List the company's approval rules
// @Description Retrieves all rules sorted ascending by priority
// @Tags rules
// @Produce  json
// @Success 200 {array} domain.ApprovalRule
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /rules [get]
func (h *ruleHandler) listRules(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID, ok := middleware.GetCompanyIDFromContext(c)
	if !ok {
		logger.Error("Company ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	rules, err := h.approvalService.ListRules(c.Request.Context(), companyID)
	if err != nil {
		logger.Error("Failed to list rules", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list rules"})
		return
	}
	c.JSON(http.StatusOK, rules)
}

// updateRule godoc
// @Summary Update an approval rule
// @Description Applies a partial update to an existing rule; omitted fields are left unchanged
// @Tags rules
// @Accept  json
// @Produce  json
// @Param   id path string true "Rule ID"
// @Param   rule body dto.UpdateRuleRequest true "Fields to update"
// @Success 200 {object} domain.ApprovalRule
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Rule not found"
// @Security BearerAuth
// @Router /rules/{id} [put]
func (h *ruleHandler) updateRule(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpdateRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateRule", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	companyID, ok := middleware.GetCompanyIDFromContext(c)
	if !ok {
		logger.Error("Company ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	updaterUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Updater user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	rule, err := h.approvalService.UpdateRule(c.Request.Context(), companyID, c.Param("id"), req, updaterUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Rule not found"})
		} else if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to update rule in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update rule"})
		}
		return
	}
	c.JSON(http.StatusOK, rule)
}

// deleteRule godoc
// @Summary Delete an approval rule
// @Tags rules
// @Produce  json
// @Param   id path string true "Rule ID"
// @Success 204 "Rule deleted"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Rule not found"
// @Security BearerAuth
// @Router /rules/{id} [delete]
func (h *ruleHandler) deleteRule(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID, ok := middleware.GetCompanyIDFromContext(c)
	if !ok {
		logger.Error("Company ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.approvalService.DeleteRule(c.Request.Context(), companyID, c.Param("id")); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Rule not found"})
		} else {
			logger.Error("Failed to delete rule", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete rule"})
		}
		return
	}
	c.Status(http.StatusNoContent)
}

// seedDefaultRules godoc
// @Summary Seed the default rule set
// @Description Installs the standard starter rules for a company with none yet; idempotent
// @Tags rules
// @Produce  json
// @Success 200 {array} domain.ApprovalRule
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /rules/seed [post]
func (h *ruleHandler) seedDefaultRules(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
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

	rules, err := h.approvalService.SeedDefaultRules(c.Request.Context(), companyID, creatorUserID)
	if err != nil {
		logger.Error("Failed to seed default rules", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to seed default rules"})
		return
	}
	c.JSON(http.StatusOK, rules)
}

// evaluateRules godoc
// @Summary Evaluate the rule engine against a document
// @Description Runs every enabled rule against a classified document and returns the final disposition with the full per-rule audit trail
// @Tags rules
// @Accept  json
// @Produce  json
// @Param   request body dto.EvaluateRulesRequest true "Classification and confidence"
// @Success 200 {object} domain.EvaluationResult
// @Failure 400 {object} map[string]string "Invalid input format"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /rules/evaluate [post]
func (h *ruleHandler) evaluateRules(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.EvaluateRulesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for EvaluateRules", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	companyID, ok := middleware.GetCompanyIDFromContext(c)
	if !ok {
		logger.Error("Company ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	result, err := h.approvalService.EvaluateRules(c.Request.Context(), companyID, req.Classification, req.Confidence)
	if err != nil {
		logger.Error("Failed to evaluate rules", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to evaluate rules"})
		return
	}
	c.JSON(http.StatusOK, result)
}
