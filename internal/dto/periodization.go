package dto

import (
	"time"

	"github.com/AIFMgroup/AIFM-sub010/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DetectPeriodizationRequest carries the document fields the periodization
// heuristics consume.
type DetectPeriodizationRequest struct {
	Description  string          `json:"description" binding:"required"`
	Amount       decimal.Decimal `json:"amount" binding:"required"`
	InvoiceDate  time.Time       `json:"invoiceDate" binding:"required"`
	DueDate      *time.Time      `json:"dueDate,omitempty"`
	SupplierName string          `json:"supplierName"`
}

// CreateScheduleRequest creates an amortization schedule once a detection has
// been accepted by an operator. When PeriodizationAccount is empty the
// default interim account for Type is used.
type CreateScheduleRequest struct {
	Amount               decimal.Decimal          `json:"amount" binding:"required"`
	CostAccount          string                   `json:"costAccount" binding:"required"`
	Type                 domain.PeriodizationType `json:"type" binding:"omitempty,oneof=prepaid_expense accrued_expense prepaid_income accrued_income"`
	PeriodizationAccount string                   `json:"periodizationAccount"`
	StartDate            time.Time                `json:"startDate" binding:"required"`
	EndDate              time.Time                `json:"endDate" binding:"required"`
}
