package dto

import (
	"github.com/shopspring/decimal"
)

// CalculateVatRequest carries a single amount plus the free-text signals the
// rate and reverse-charge detection heuristics consume.
type CalculateVatRequest struct {
	Amount          decimal.Decimal  `json:"amount" binding:"required"`
	AmountIsGross   bool             `json:"amountIsGross"`
	Description     string           `json:"description"`
	SupplierName    string           `json:"supplierName"`
	SupplierCountry string           `json:"supplierCountry"`
	ExplicitVatRate *decimal.Decimal `json:"explicitVatRate,omitempty" binding:"omitempty,vatrate"`
}

// VoucherLinesRequest asks for the balanced voucher lines of a VAT calculation
// applied to a cost account.
type VoucherLinesRequest struct {
	CalculateVatRequest
	CostAccount string `json:"costAccount" binding:"required"`
}

// ValidateVatRequest checks a stated VAT amount against the canonical rates.
type ValidateVatRequest struct {
	NetAmount   decimal.Decimal  `json:"netAmount" binding:"required"`
	VatAmount   decimal.Decimal  `json:"vatAmount"`
	GrossAmount decimal.Decimal  `json:"grossAmount" binding:"required"`
	Tolerance   *decimal.Decimal `json:"tolerance,omitempty"`
}
