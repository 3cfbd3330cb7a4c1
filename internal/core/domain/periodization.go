package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PeriodizationType tells which suspense-account direction a periodization takes.
type PeriodizationType string

const (
	PrepaidExpense PeriodizationType = "prepaid_expense"
	AccruedExpense PeriodizationType = "accrued_expense"
	PrepaidIncome  PeriodizationType = "prepaid_income"
	AccruedIncome  PeriodizationType = "accrued_income"
)

// SuspenseAccountForType returns the default BAS interim account for a
// periodization direction. PrepaidExpense and AccruedIncome share 1790
// (interimsfordringar).
func SuspenseAccountForType(t PeriodizationType) string {
	switch t {
	case AccruedExpense:
		return AccountAccruedExpenses
	case PrepaidIncome:
		return AccountPrepaidIncome
	case AccruedIncome:
		return AccountAccruedIncome
	default:
		return AccountPrepaidExpenses
	}
}

// Period is an inclusive month span.
type Period struct {
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	Months int       `json:"months"`
}

// PeriodizationDetection is the advisory decision record for one document.
// It never creates a schedule by itself.
type PeriodizationDetection struct {
	ShouldPeriodize  bool              `json:"shouldPeriodize"`
	Type             PeriodizationType `json:"type,omitempty"`
	SuggestedAccount string            `json:"suggestedAccount,omitempty"`
	Period           *Period           `json:"period,omitempty"`
	Confidence       float64           `json:"confidence"`
	Reason           string            `json:"reason"`
}

// PeriodizationEntry is one calendar month of a schedule. Entries flip
// IsProcessed exactly once when the month's voucher is posted; nothing else on
// a schedule is ever mutated after creation.
type PeriodizationEntry struct {
	EntryID       string          `json:"entryID"`
	ScheduleID    string          `json:"scheduleID"`
	PeriodLabel   string          `json:"periodLabel"` // YYYY-MM
	DebitAccount  string          `json:"debitAccount"`
	CreditAccount string          `json:"creditAccount"`
	Amount        decimal.Decimal `json:"amount"`
	IsProcessed   bool            `json:"isProcessed"`
	ProcessedAt   *time.Time      `json:"processedAt,omitempty"`
}

// PeriodizationSchedule spreads one cost over its covered months.
//
// Invariant: the entry amounts sum to OriginalAmount exactly; the final entry
// absorbs any rounding remainder.
type PeriodizationSchedule struct {
	ScheduleID           string               `json:"scheduleID"`
	CompanyID            string               `json:"companyID"`
	OriginalAmount       decimal.Decimal      `json:"originalAmount"`
	CostAccount          string               `json:"costAccount"`
	PeriodizationAccount string               `json:"periodizationAccount"`
	StartDate            time.Time            `json:"startDate"`
	EndDate              time.Time            `json:"endDate"`
	TotalMonths          int                  `json:"totalMonths"`
	MonthlyAmount        decimal.Decimal      `json:"monthlyAmount"`
	Entries              []PeriodizationEntry `json:"entries"`
	AuditFields
}
