package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BankTransaction represents a persisted bank feed row. The row itself is
// immutable after ingestion; only the match cross-reference columns change.
type BankTransaction struct {
	TransactionID string          `db:"transaction_id"`
	CompanyID     string          `db:"company_id"`
	BankAccountID string          `db:"bank_account_id"`
	BookingDate   time.Time       `db:"booking_date"`
	Amount        decimal.Decimal `db:"amount"`
	CurrencyCode  string          `db:"currency_code"`
	Description   string          `db:"description"`
	Counterparty  string          `db:"counterparty"`
	Reference     string          `db:"reference"`
	Status        string          `db:"status"`
	RawPayload    string          `db:"raw_payload"`
	MatchedJobID  string          `db:"matched_job_id"` // Nullable
	AuditFields
}
