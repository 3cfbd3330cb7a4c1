package handlers

import (
	"log/slog"
	"net/http"

	"github.com/AIFMgroup/AIFM-sub010/internal/core/domain"
	portssvc "github.com/AIFMgroup/AIFM-sub010/internal/core/ports/services"
	"github.com/AIFMgroup/AIFM-sub010/internal/dto"
	"github.com/AIFMgroup/AIFM-sub010/internal/middleware"
	"github.com/AIFMgroup/AIFM-sub010/internal/utils/accounting"
	"github.com/gin-gonic/gin"
)

// vatHandler handles HTTP requests related to VAT calculation.
type vatHandler struct {
	vatService portssvc.VatSvcFacade
}

// newVatHandler creates a new vatHandler.
func newVatHandler(vs portssvc.VatSvcFacade) *vatHandler {
	return &vatHandler{vatService: vs}
}

// registerVatRoutes registers routes related to VAT calculation.
func registerVatRoutes(rg *gin.RouterGroup, vatService portssvc.VatSvcFacade) {
	h := newVatHandler(vatService)

	vat := rg.Group("/vat")
	{
		vat.POST("/calculate", h.calculateVat)
		vat.POST("/voucher-lines", h.generateVoucherLines)
		vat.POST("/validate", h.validateVat)
	}
}

// calculateVat godoc
// @Summary Calculate VAT for a document amount
// @Description Detects the applicable Swedish VAT rate and reverse-charge regime from the document text and returns the full net/VAT/gross split
// @Tags vat
// @Accept  json
// @Produce  json
// @Param   calculation body dto.CalculateVatRequest true "Amount and document signals"
// @Success 200 {object} domain.VatCalculation
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /vat/calculate [post]
func (h *vatHandler) calculateVat(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CalculateVatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CalculateVat", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	calc := h.vatService.CalculateCompleteVat(req)
	logger.Info("VAT calculated",
		slog.String("rate", calc.VatRate.String()),
		slog.Bool("reverse_charge", calc.IsReverseCharge))
	c.JSON(http.StatusOK, calc)
}

// generateVoucherLines godoc
// @Summary Generate voucher lines for a VAT calculation
// @Description Runs the VAT calculation and emits the balanced debit/credit voucher lines against the given cost account
// @Tags vat
// @Accept  json
// @Produce  json
// @Param   request body dto.VoucherLinesRequest true "Amount, document signals and cost account"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string "Invalid input or unbalanced result"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /vat/voucher-lines [post]
func (h *vatHandler) generateVoucherLines(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.VoucherLinesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for GenerateVoucherLines", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	calc := h.vatService.CalculateCompleteVat(req.CalculateVatRequest)
	lines := h.vatService.GenerateVatVoucherLines(calc, req.CostAccount, req.Description)
	lines = append(lines, domain.NewCreditLine(domain.AccountTradePayables, calc.GrossAmount, "Leverantörsskuld"))

	if err := accounting.ValidateVoucherBalance(lines); err != nil {
		logger.Error("Generated voucher lines do not balance", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Generated voucher lines do not balance"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"calculation": calc, "lines": lines})
}

// validateVat godoc
// @Summary Validate a stated VAT amount
// @Description Checks the stated VAT amount against the closest canonical Swedish rate within tolerance
// @Tags vat
// @Accept  json
// @Produce  json
// @Param   request body dto.ValidateVatRequest true "Net, VAT and gross amounts"
// @Success 200 {object} domain.VatValidation
// @Failure 400 {object} map[string]string "Invalid input format"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /vat/validate [post]
func (h *vatHandler) validateVat(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ValidateVatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ValidateVat", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	validation := h.vatService.ValidateVatAmount(req.NetAmount, req.VatAmount, req.GrossAmount, req.Tolerance)
	c.JSON(http.StatusOK, validation)
}
