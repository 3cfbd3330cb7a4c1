package dto

import (
	"time"

	"github.com/AIFMgroup/AIFM-sub010/internal/core/domain"
	"github.com/shopspring/decimal"
)

// MatchInvoiceRequest scores a classified invoice against the bank feed.
type MatchInvoiceRequest struct {
	JobID          string                `json:"jobID" binding:"required"`
	Classification domain.Classification `json:"classification" binding:"required"`
}

// ManualMatchRequest force-registers a match chosen by a human.
type ManualMatchRequest struct {
	JobID         string `json:"jobID" binding:"required"`
	TransactionID string `json:"transactionID" binding:"required"`
}

// UnmatchRequest removes a recorded match so the pair can be rematched.
type UnmatchRequest struct {
	JobID         string `json:"jobID" binding:"required"`
	TransactionID string `json:"transactionID" binding:"required"`
}

// IngestTransactionRequest persists one row from the external bank feed.
type IngestTransactionRequest struct {
	TransactionID string          `json:"transactionID" binding:"required"`
	BankAccountID string          `json:"bankAccountID" binding:"required"`
	BookingDate   time.Time       `json:"bookingDate" binding:"required"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	CurrencyCode  string          `json:"currencyCode" binding:"required,len=3"`
	Description   string          `json:"description"`
	Counterparty  string          `json:"counterparty"`
	Reference     string          `json:"reference"`
	Status        string          `json:"status" binding:"omitempty,oneof=BOOKED PENDING"`
	RawPayload    string          `json:"rawPayload"`
}

// ListUnmatchedParams paginates the unmatched-transactions listing.
type ListUnmatchedParams struct {
	Limit     int     `form:"limit,default=50" binding:"min=1,max=200"`
	NextToken *string `form:"nextToken"`
}

// ListUnmatchedResponse is one page of unmatched transactions.
type ListUnmatchedResponse struct {
	Transactions []domain.BankTransaction `json:"transactions"`
	NextToken    *string                  `json:"nextToken,omitempty"`
}
