package services

import (
	"github.com/AIFMgroup/AIFM-sub010/internal/core/domain"
	"github.com/AIFMgroup/AIFM-sub010/internal/dto"
	"github.com/shopspring/decimal"
)

// VatCalculatorSvc defines the pure VAT computation operations. None of these
// take a context: they touch no storage and never fail — unrecognized input
// degrades to the standard rate with reverse charge off.
type VatCalculatorSvc interface {
	// CalculateCompleteVat detects rate and regime for a document amount and
	// returns the full net/VAT/gross split.
	CalculateCompleteVat(req dto.CalculateVatRequest) domain.VatCalculation

	// CalculateVatFromGross splits a gross amount at the given rate.
	CalculateVatFromGross(gross, rate decimal.Decimal) (net, vat decimal.Decimal)

	// CalculateVatFromNet computes VAT and gross from a net amount.
	CalculateVatFromNet(net, rate decimal.Decimal) (vat, gross decimal.Decimal)

	// DetectVatRate returns the rate category detected from free text.
	DetectVatRate(description, supplierName string) domain.VatRateCategory

	// DetectReverseCharge returns the reverse-charge regime detected from the
	// document text and supplier country, if any.
	DetectReverseCharge(description, supplierName, supplierCountry string) domain.ReverseChargeType

	// GenerateVatVoucherLines emits the debit/credit lines for a calculation
	// against a cost account. The caller validates balance before posting.
	GenerateVatVoucherLines(calc domain.VatCalculation, costAccount, description string) []domain.VoucherLine

	// ValidateVatAmount checks a stated VAT amount against the closest
	// canonical rate within tolerance (0.01 when nil).
	ValidateVatAmount(net, vat, gross decimal.Decimal, tolerance *decimal.Decimal) domain.VatValidation
}

// VatSvcFacade is the full VAT calculator surface.
type VatSvcFacade interface {
	VatCalculatorSvc
}
