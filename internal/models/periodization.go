package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PeriodizationSchedule represents a persisted amortization schedule header.
type PeriodizationSchedule struct {
	ScheduleID           string          `db:"schedule_id"`
	CompanyID            string          `db:"company_id"`
	OriginalAmount       decimal.Decimal `db:"original_amount"`
	CostAccount          string          `db:"cost_account"`
	PeriodizationAccount string          `db:"periodization_account"`
	StartDate            time.Time       `db:"start_date"`
	EndDate              time.Time       `db:"end_date"`
	TotalMonths          int             `db:"total_months"`
	MonthlyAmount        decimal.Decimal `db:"monthly_amount"`
	AuditFields
}

// PeriodizationEntry represents one month's slice of a schedule.
type PeriodizationEntry struct {
	EntryID       string          `db:"entry_id"`
	ScheduleID    string          `db:"schedule_id"`
	CompanyID     string          `db:"company_id"`
	PeriodLabel   string          `db:"period_label"` // YYYY-MM
	DebitAccount  string          `db:"debit_account"`
	CreditAccount string          `db:"credit_account"`
	Amount        decimal.Decimal `db:"amount"`
	IsProcessed   bool            `db:"is_processed"`
	ProcessedAt   *time.Time      `db:"processed_at"` // Nullable
}
