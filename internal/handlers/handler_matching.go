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

// matchingHandler handles HTTP requests related to bank matching.
type matchingHandler struct {
	matchingService portssvc.MatchingSvcFacade
}

// newMatchingHandler creates a new matchingHandler.
func newMatchingHandler(ms portssvc.MatchingSvcFacade) *matchingHandler {
	return &matchingHandler{matchingService: ms}
}

// registerMatchingRoutes registers routes related to the bank matching engine.
func registerMatchingRoutes(rg *gin.RouterGroup, matchingService portssvc.MatchingSvcFacade) {
	h := newMatchingHandler(matchingService)

	bank := rg.Group("/bank")
	{
		bank.POST("/transactions", h.ingestTransaction)
		bank.GET("/transactions/unmatched", h.listUnmatched)
		bank.POST("/match", h.matchInvoice)
		bank.POST("/match/manual", h.manualMatch)
		bank.DELETE("/match", h.unmatch)
	}
}

// ingestTransaction godoc
// @Summary Ingest a bank transaction
// @Description Persists one row from the external bank feed
// @Tags bank
// @Accept  json
// @Produce  json
// @Param   transaction body dto.IngestTransactionRequest true "Transaction details"
// @Success 201 {object} domain.BankTransaction
// @Failure 400 {object} map[string]string "Invalid input format"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} map[string]string "Transaction already ingested"
// @Security BearerAuth
// @Router /bank/transactions [post]
func (h *matchingHandler) ingestTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.IngestTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for IngestTransaction", slog.String("error", err.Error()))
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

	txn, err := h.matchingService.IngestTransaction(c.Request.Context(), companyID, req, creatorUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to ingest transaction", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to ingest transaction"})
		}
		return
	}
	c.JSON(http.StatusCreated, txn)
}

// listUnmatched godoc
// @Summary List unmatched bank transactions
// @Description Pages through transactions with no recorded invoice match, newest first
// @Tags bank
// @Produce  json
// @Param   limit query int false "Page size" default(50)
// @Param   nextToken query string false "Pagination token from the previous page"
// @Success 200 {object} dto.ListUnmatchedResponse
// @Failure 400 {object} map[string]string "Invalid pagination parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /bank/transactions/unmatched [get]
func (h *matchingHandler) listUnmatched(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListUnmatchedParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	companyID, ok := middleware.GetCompanyIDFromContext(c)
	if !ok {
		logger.Error("Company ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	page, err := h.matchingService.ListUnmatchedTransactions(c.Request.Context(), companyID, params)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to list unmatched transactions", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list unmatched transactions"})
		}
		return
	}
	c.JSON(http.StatusOK, page)
}

// matchInvoice godoc
// @Summary Match an invoice against the bank feed
// @Description Scores every candidate transaction in the date window and returns the best match; medium confidence or better is recorded durably
// @Tags bank
// @Accept  json
// @Produce  json
// @Param   request body dto.MatchInvoiceRequest true "Job ID and classification"
// @Success 200 {object} domain.MatchResult
// @Failure 400 {object} map[string]string "Invalid input format"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /bank/match [post]
func (h *matchingHandler) matchInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.MatchInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for MatchInvoice", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	companyID, ok := middleware.GetCompanyIDFromContext(c)
	if !ok {
		logger.Error("Company ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	result, err := h.matchingService.MatchInvoiceToTransaction(c.Request.Context(), companyID, req.Classification, req.JobID)
	if err != nil {
		logger.Error("Failed to match invoice", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to match invoice"})
		return
	}
	c.JSON(http.StatusOK, result)
}

// manualMatch godoc
// @Summary Register a manual match
// @Description Bypasses scoring and force-registers a human-chosen invoice/transaction match
// @Tags bank
// @Accept  json
// @Produce  json
// @Param   request body dto.ManualMatchRequest true "Job and transaction IDs"
// @Success 200 {object} domain.MatchResult
// @Failure 400 {object} map[string]string "Invalid input format"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 409 {object} map[string]string "Transaction already matched"
// @Security BearerAuth
// @Router /bank/match/manual [post]
func (h *matchingHandler) manualMatch(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ManualMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ManualMatch", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	companyID, ok := middleware.GetCompanyIDFromContext(c)
	if !ok {
		logger.Error("Company ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	result, err := h.matchingService.ManualMatch(c.Request.Context(), companyID, req.JobID, req.TransactionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Transaction not found"})
		} else if errors.Is(err, apperrors.ErrDuplicate) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to register manual match", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register manual match"})
		}
		return
	}
	c.JSON(http.StatusOK, result)
}

// unmatch godoc
// @Summary Remove a recorded match
// @Description Clears the cross-reference between a job and a transaction so the pair can be rematched
// @Tags bank
// @Accept  json
// @Produce  json
// @Param   request body dto.UnmatchRequest true "Job and transaction IDs"
// @Success 204 "Match cleared"
// @Failure 400 {object} map[string]string "Invalid input format"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "No such match"
// @Security BearerAuth
// @Router /bank/match [delete]
func (h *matchingHandler) unmatch(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UnmatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Unmatch", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	companyID, ok := middleware.GetCompanyIDFromContext(c)
	if !ok {
		logger.Error("Company ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.matchingService.Unmatch(c.Request.Context(), companyID, req.JobID, req.TransactionID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No match recorded for that job and transaction"})
		} else {
			logger.Error("Failed to clear match", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear match"})
		}
		return
	}
	c.Status(http.StatusNoContent)
}
