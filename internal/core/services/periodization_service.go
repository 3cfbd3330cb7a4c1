package services

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/AIFMgroup/AIFM-sub010/internal/apperrors"
	"github.com/AIFMgroup/AIFM-sub010/internal/core/domain"
	portsrepo "github.com/AIFMgroup/AIFM-sub010/internal/core/ports/repositories"
	portssvc "github.com/AIFMgroup/AIFM-sub010/internal/core/ports/services"
	"github.com/AIFMgroup/AIFM-sub010/internal/dto"
	"github.com/AIFMgroup/AIFM-sub010/internal/middleware"
	"github.com/shopspring/decimal"
)

// periodizationKeywordGroup maps document keywords to a periodization type,
// suspense account and, where meaningful, a typical monthly cost used to
// estimate a month count when the text states no explicit period.
type periodizationKeywordGroup struct {
	name               string
	keywords           []string
	ptype              domain.PeriodizationType
	account            string
	typicalMonthlyCost decimal.Decimal // Zero disables estimation for the group
}

var periodizationKeywordGroups = []periodizationKeywordGroup{
	{
		name:               "rent",
		keywords:           []string{"hyra", "lokalhyra", "kontorshyra", "hyreskostnad", "rent"},
		ptype:              domain.PrepaidExpense,
		account:            domain.AccountPrepaidRent,
		typicalMonthlyCost: decimal.NewFromInt(15000),
	},
	{
		name:               "insurance",
		keywords:           []string{"försäkring", "försäkringspremie", "premie", "insurance"},
		ptype:              domain.PrepaidExpense,
		account:            domain.AccountPrepaidInsurance,
		typicalMonthlyCost: decimal.NewFromInt(5000),
	},
	{
		name:     "leasing",
		keywords: []string{"leasing", "leasingavgift", "billeasing", "lease"},
		ptype:    domain.PrepaidExpense,
		account:  domain.AccountPrepaidLeasing,
	},
	{
		name:               "license",
		keywords:           []string{"licens", "license", "årslicens", "prenumeration", "subscription", "årsavgift", "annual fee"},
		ptype:              domain.PrepaidExpense,
		account:            domain.AccountPrepaidExpenses,
		typicalMonthlyCost: decimal.NewFromInt(1000),
	},
	{
		name:     "support",
		keywords: []string{"supportavtal", "serviceavtal", "underhållsavtal", "support contract", "maintenance agreement"},
		ptype:    domain.PrepaidExpense,
		account:  domain.AccountPrepaidExpenses,
	},
}

// Exact cost-account to periodization-account pairs, consulted before the
// two-digit class prefix fallback.
var periodizationAccountTable = map[string]string{
	"5010": domain.AccountPrepaidRent,      // Lokalhyra
	"5011": domain.AccountPrepaidRent,      // Hyra för kontorslokaler
	"5220": domain.AccountPrepaidLeasing,   // Hyra av inventarier
	"5615": domain.AccountPrepaidLeasing,   // Leasing av personbilar
	"6310": domain.AccountPrepaidInsurance, // Företagsförsäkringar
	"6320": domain.AccountPrepaidInsurance,
}

var periodizationPrefixTable = map[string]string{
	"50": domain.AccountPrepaidRent,
	"52": domain.AccountPrepaidLeasing,
	"63": domain.AccountPrepaidInsurance,
}

var (
	isoRangeRe = regexp.MustCompile(`(\d{4}-\d{2}-\d{2})\s*(?:-|–|till|to)\s*(\d{4}-\d{2}-\d{2})`)
	// jan-dec 2025, "januari till december 2025" and the like
	monthRangeRe = regexp.MustCompile(`(?i)\b(jan|feb|mar|apr|maj|may|jun|jul|aug|sep|okt|oct|nov|dec)[a-zåäö]*\s*(?:-|–|till|to)\s*(jan|feb|mar|apr|maj|may|jun|jul|aug|sep|okt|oct|nov|dec)[a-zåäö]*\s*(\d{4})`)
	quarterRe    = regexp.MustCompile(`(?i)\bq([1-4])[\s\-/]*(\d{4})?`)
	yearRe       = regexp.MustCompile(`\b(20\d{2})\b`)
)

var monthNumbers = map[string]int{
	"jan": 1, "feb": 2, "mar": 3, "apr": 4, "maj": 5, "may": 5, "jun": 6,
	"jul": 7, "aug": 8, "sep": 9, "okt": 10, "oct": 10, "nov": 11, "dec": 12,
}

// periodizationService implements periodization detection and the schedule
// lifecycle. Detection is pure; schedules go through the injected repository.
type periodizationService struct {
	periodizationRepo portsrepo.PeriodizationRepositoryFacade
}

// NewPeriodizationService creates a new periodization service.
func NewPeriodizationService(periodizationRepo portsrepo.PeriodizationRepositoryFacade) portssvc.PeriodizationSvcFacade {
	return &periodizationService{periodizationRepo: periodizationRepo}
}

var _ portssvc.PeriodizationSvcFacade = (*periodizationService)(nil)

// monthsInclusive counts calendar months from the month of a through the month
// of b, inclusive.
func monthsInclusive(a, b time.Time) int {
	return (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month()) + 1
}

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func endOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, time.UTC)
}

// extractPeriod pulls an explicit period out of free text: ISO date range,
// month-name range, quarter notation or a bare year, tried in that order.
// defaultYear anchors quarter notation without a year.
func extractPeriod(text string, defaultYear int) *domain.Period {
	if m := isoRangeRe.FindStringSubmatch(text); m != nil {
		start, err1 := time.Parse("2006-01-02", m[1])
		end, err2 := time.Parse("2006-01-02", m[2])
		if err1 == nil && err2 == nil && !end.Before(start) {
			return &domain.Period{Start: start, End: end, Months: monthsInclusive(start, end)}
		}
	}

	if m := monthRangeRe.FindStringSubmatch(text); m != nil {
		fromMonth := monthNumbers[strings.ToLower(m[1])]
		toMonth := monthNumbers[strings.ToLower(m[2])]
		year, _ := strconv.Atoi(m[3])
		if fromMonth > 0 && toMonth >= fromMonth {
			start := time.Date(year, time.Month(fromMonth), 1, 0, 0, 0, 0, time.UTC)
			end := endOfMonth(time.Date(year, time.Month(toMonth), 1, 0, 0, 0, 0, time.UTC))
			return &domain.Period{Start: start, End: end, Months: toMonth - fromMonth + 1}
		}
	}

	if m := quarterRe.FindStringSubmatch(text); m != nil {
		quarter, _ := strconv.Atoi(m[1])
		year := defaultYear
		if m[2] != "" {
			year, _ = strconv.Atoi(m[2])
		}
		start := time.Date(year, time.Month((quarter-1)*3+1), 1, 0, 0, 0, 0, time.UTC)
		return &domain.Period{Start: start, End: endOfMonth(start.AddDate(0, 2, 0)), Months: 3}
	}

	if m := yearRe.FindStringSubmatch(text); m != nil {
		year, _ := strconv.Atoi(m[1])
		start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
		return &domain.Period{Start: start, End: time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC), Months: 12}
	}

	return nil
}

// DetectPeriodizationNeed applies the detection heuristics in fixed order:
// keyword hit with an explicit period (0.85), keyword hit with an estimated
// month count from typical monthly costs (0.6), an invoice-to-due-date gap
// over three months (0.5), and a bare extractable multi-month period (0.75).
// The result is advisory; it never creates a schedule.
func (s *periodizationService) DetectPeriodizationNeed(req dto.DetectPeriodizationRequest) domain.PeriodizationDetection {
	text := strings.ToLower(req.Description + " " + req.SupplierName)
	defaultYear := req.InvoiceDate.Year()

	for _, group := range periodizationKeywordGroups {
		if !containsAny(text, group.keywords) {
			continue
		}

		if period := extractPeriod(text, defaultYear); period != nil && period.Months > 1 {
			return domain.PeriodizationDetection{
				ShouldPeriodize:  true,
				Type:             group.ptype,
				SuggestedAccount: group.account,
				Period:           period,
				Confidence:       0.85,
				Reason:           fmt.Sprintf("%s keyword with explicit period covering %d months", group.name, period.Months),
			}
		}

		if group.typicalMonthlyCost.IsPositive() {
			months := int(req.Amount.Div(group.typicalMonthlyCost).Round(0).IntPart())
			if months > 12 {
				months = 12
			}
			if months > 1 {
				start := startOfMonth(req.InvoiceDate)
				end := endOfMonth(start.AddDate(0, months-1, 0))
				return domain.PeriodizationDetection{
					ShouldPeriodize:  true,
					Type:             group.ptype,
					SuggestedAccount: group.account,
					Period:           &domain.Period{Start: start, End: end, Months: months},
					Confidence:       0.6,
					Reason:           fmt.Sprintf("%s keyword, amount suggests roughly %d months at typical monthly cost", group.name, months),
				}
			}
		}
		// A matched keyword without period evidence is not enough on its own.
		break
	}

	if req.DueDate != nil && req.DueDate.After(req.InvoiceDate.AddDate(0, 3, 0)) {
		start := startOfMonth(req.InvoiceDate)
		end := endOfMonth(*req.DueDate)
		return domain.PeriodizationDetection{
			ShouldPeriodize:  true,
			Type:             domain.PrepaidExpense,
			SuggestedAccount: domain.AccountPrepaidExpenses,
			Period:           &domain.Period{Start: start, End: end, Months: monthsInclusive(start, end)},
			Confidence:       0.5,
			Reason:           "due date more than three months after invoice date",
		}
	}

	if period := extractPeriod(text, defaultYear); period != nil && period.Months > 1 {
		return domain.PeriodizationDetection{
			ShouldPeriodize:  true,
			Type:             domain.PrepaidExpense,
			SuggestedAccount: domain.AccountPrepaidExpenses,
			Period:           period,
			Confidence:       0.75,
			Reason:           fmt.Sprintf("explicit period covering %d months found in document text", period.Months),
		}
	}

	return domain.PeriodizationDetection{ShouldPeriodize: false, Confidence: 0, Reason: "no periodization signal"}
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// SuggestPeriodizationAccount maps a cost account to its paired suspense
// account: exact table first, then the two-digit account class prefix,
// then the generic prepaid-expenses account.
func (s *periodizationService) SuggestPeriodizationAccount(costAccount string) string {
	if account, ok := periodizationAccountTable[costAccount]; ok {
		return account
	}
	if len(costAccount) >= 2 {
		if account, ok := periodizationPrefixTable[costAccount[:2]]; ok {
			return account
		}
	}
	return domain.AccountPrepaidExpenses
}

// CreateSchedule divides the amount evenly across the inclusive month span.
// Per-month amounts are rounded to two decimals and the final month absorbs
// the remainder, so the entries always sum to the original amount exactly.
func (s *periodizationService) CreateSchedule(ctx context.Context, companyID string, req dto.CreateScheduleRequest, creatorUserID string) (*domain.PeriodizationSchedule, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: schedule amount must be positive", apperrors.ErrValidation)
	}
	if req.EndDate.Before(req.StartDate) {
		return nil, fmt.Errorf("%w: end date %s before start date %s", apperrors.ErrValidation,
			req.EndDate.Format("2006-01-02"), req.StartDate.Format("2006-01-02"))
	}

	periodizationAccount := req.PeriodizationAccount
	if periodizationAccount == "" {
		periodizationAccount = domain.SuspenseAccountForType(req.Type)
	}

	totalMonths := monthsInclusive(req.StartDate, req.EndDate)
	monthly := req.Amount.Div(decimal.NewFromInt(int64(totalMonths))).Round(2)
	now := time.Now().UTC()
	scheduleID := uuid.NewString()

	schedule := domain.PeriodizationSchedule{
		ScheduleID:           scheduleID,
		CompanyID:            companyID,
		OriginalAmount:       req.Amount,
		CostAccount:          req.CostAccount,
		PeriodizationAccount: periodizationAccount,
		StartDate:            req.StartDate,
		EndDate:              req.EndDate,
		TotalMonths:          totalMonths,
		MonthlyAmount:        monthly,
		Entries:              make([]domain.PeriodizationEntry, 0, totalMonths),
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	remaining := req.Amount
	for i := 0; i < totalMonths; i++ {
		entryAmount := monthly
		if i == totalMonths-1 {
			entryAmount = remaining
		}
		remaining = remaining.Sub(entryAmount)

		month := startOfMonth(req.StartDate).AddDate(0, i, 0)
		schedule.Entries = append(schedule.Entries, domain.PeriodizationEntry{
			EntryID:       uuid.NewString(),
			ScheduleID:    scheduleID,
			PeriodLabel:   month.Format("2006-01"),
			DebitAccount:  req.CostAccount,
			CreditAccount: periodizationAccount,
			Amount:        entryAmount,
			IsProcessed:   false,
		})
	}

	if err := s.periodizationRepo.SaveSchedule(ctx, schedule); err != nil {
		logger.Error("Failed to save periodization schedule",
			slog.String("schedule_id", scheduleID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save schedule: %w", err)
	}

	logger.Info("Periodization schedule created",
		slog.String("schedule_id", scheduleID),
		slog.Int("months", totalMonths),
		slog.String("amount", req.Amount.String()))
	return &schedule, nil
}

// GetSchedule retrieves a schedule with its entries.
func (s *periodizationService) GetSchedule(ctx context.Context, companyID, scheduleID string) (*domain.PeriodizationSchedule, error) {
	return s.periodizationRepo.FindScheduleByID(ctx, companyID, scheduleID)
}

// ListSchedules retrieves all schedules for the company.
func (s *periodizationService) ListSchedules(ctx context.Context, companyID string) ([]domain.PeriodizationSchedule, error) {
	return s.periodizationRepo.ListSchedulesByCompany(ctx, companyID)
}

// ListDueEntries returns all unprocessed entries due in the target month.
func (s *periodizationService) ListDueEntries(ctx context.Context, companyID, targetMonth string) ([]domain.PeriodizationEntry, error) {
	if _, err := time.Parse("2006-01", targetMonth); err != nil {
		return nil, fmt.Errorf("%w: target month must be YYYY-MM", apperrors.ErrValidation)
	}
	return s.periodizationRepo.ListDueEntries(ctx, companyID, targetMonth)
}

// MarkEntryProcessed flips one entry after its monthly voucher has posted.
func (s *periodizationService) MarkEntryProcessed(ctx context.Context, companyID, entryID string) error {
	return s.periodizationRepo.MarkEntryProcessed(ctx, companyID, entryID, time.Now().UTC())
}
