package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionStatus is the state of a bank feed row.
type TransactionStatus string

const (
	TransactionBooked  TransactionStatus = "BOOKED"
	TransactionPending TransactionStatus = "PENDING"
)

// BankTransaction is an immutable fact from the external bank feed. A match is
// recorded as a cross-reference (MatchedJobID), never by editing the row itself.
type BankTransaction struct {
	TransactionID string            `json:"transactionID"`
	CompanyID     string            `json:"companyID"`
	BankAccountID string            `json:"bankAccountID"`
	BookingDate   time.Time         `json:"bookingDate"`
	Amount        decimal.Decimal   `json:"amount"` // Signed; payments out are negative
	CurrencyCode  string            `json:"currencyCode"`
	Description   string            `json:"description"`
	Counterparty  string            `json:"counterparty,omitempty"`
	Reference     string            `json:"reference,omitempty"` // OCR/payment reference
	Status        TransactionStatus `json:"status"`
	RawPayload    string            `json:"rawPayload,omitempty"`
	MatchedJobID  *string           `json:"matchedJobID,omitempty"`
	AuditFields
}

// MatchConfidence bands a match score.
type MatchConfidence string

const (
	MatchExact  MatchConfidence = "exact"
	MatchHigh   MatchConfidence = "high"
	MatchMedium MatchConfidence = "medium"
	MatchLow    MatchConfidence = "low"
	MatchNone   MatchConfidence = "none"
)

// MatchType tells which signal family produced a match.
type MatchType string

const (
	MatchByReference      MatchType = "ocr_reference"
	MatchByAmountDate     MatchType = "amount_date"
	MatchBySupplierAmount MatchType = "supplier_amount"
	MatchManual           MatchType = "manual"
)

// MatchResult is the outcome of scoring one invoice against the transaction pool.
type MatchResult struct {
	Matched     bool             `json:"matched"`
	Confidence  MatchConfidence  `json:"confidence"`
	MatchType   MatchType        `json:"matchType,omitempty"`
	Transaction *BankTransaction `json:"transaction,omitempty"`
	Score       int              `json:"score"`
	Details     []string         `json:"details"`
}

// MatchingConfig holds the scoring weights and window sizes of the bank
// matching engine. Scores are additive and deliberately not normalized; only
// the threshold bands are consulted.
type MatchingConfig struct {
	WindowDaysBefore int // Candidate window start, days before the invoice date
	WindowDaysAfter  int // Candidate window end, days after the due date
	GraceDays        int // Grace band around [invoice date, due date] for partial date score

	ReferenceScore   int
	AmountExactScore int // Relative difference within 0.1%
	AmountCloseScore int // Within 1%
	AmountNearScore  int // Within 5%
	DateInRangeScore int
	DateGraceScore   int
	SupplierToken    int // Per matched supplier-name token
	SupplierTokenCap int

	ExactThreshold  int
	HighThreshold   int
	MediumThreshold int
	LowThreshold    int
}

// DefaultMatchingConfig returns the production scoring configuration.
func DefaultMatchingConfig() MatchingConfig {
	return MatchingConfig{
		WindowDaysBefore: 7,
		WindowDaysAfter:  14,
		GraceDays:        7,
		ReferenceScore:   50,
		AmountExactScore: 30,
		AmountCloseScore: 20,
		AmountNearScore:  10,
		DateInRangeScore: 15,
		DateGraceScore:   10,
		SupplierToken:    5,
		SupplierTokenCap: 15,
		ExactThreshold:   80,
		HighThreshold:    60,
		MediumThreshold:  40,
		LowThreshold:     20,
	}
}

// BandScore maps a total score to its confidence band. Bands at or above
// MediumThreshold count as matched; the low band is surfaced for human review
// only.
func (c MatchingConfig) BandScore(score int) (MatchConfidence, bool) {
	switch {
	case score >= c.ExactThreshold:
		return MatchExact, true
	case score >= c.HighThreshold:
		return MatchHigh, true
	case score >= c.MediumThreshold:
		return MatchMedium, true
	case score >= c.LowThreshold:
		return MatchLow, false
	default:
		return MatchNone, false
	}
}
