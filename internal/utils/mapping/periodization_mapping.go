package mapping

import (
	"github.com/AIFMgroup/AIFM-sub010/internal/core/domain"
	"github.com/AIFMgroup/AIFM-sub010/internal/models"
)

// ToModelPeriodizationSchedule converts the schedule header; entries are
// mapped separately since they live in their own table.
func ToModelPeriodizationSchedule(d domain.PeriodizationSchedule) models.PeriodizationSchedule {
	return models.PeriodizationSchedule{
		ScheduleID:           d.ScheduleID,
		CompanyID:            d.CompanyID,
		OriginalAmount:       d.OriginalAmount,
		CostAccount:          d.CostAccount,
		PeriodizationAccount: d.PeriodizationAccount,
		StartDate:            d.StartDate,
		EndDate:              d.EndDate,
		TotalMonths:          d.TotalMonths,
		MonthlyAmount:        d.MonthlyAmount,
		AuditFields:          ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainPeriodizationSchedule converts a schedule header row; the caller
// attaches the entries.
func ToDomainPeriodizationSchedule(m models.PeriodizationSchedule) domain.PeriodizationSchedule {
	return domain.PeriodizationSchedule{
		ScheduleID:           m.ScheduleID,
		CompanyID:            m.CompanyID,
		OriginalAmount:       m.OriginalAmount,
		CostAccount:          m.CostAccount,
		PeriodizationAccount: m.PeriodizationAccount,
		StartDate:            m.StartDate,
		EndDate:              m.EndDate,
		TotalMonths:          m.TotalMonths,
		MonthlyAmount:        m.MonthlyAmount,
		AuditFields:          ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelPeriodizationEntry converts one schedule entry for storage. The
// company id is denormalized onto the entry row to keep due-entry queries
// tenant-scoped without a join.
func ToModelPeriodizationEntry(d domain.PeriodizationEntry, companyID string) models.PeriodizationEntry {
	return models.PeriodizationEntry{
		EntryID:       d.EntryID,
		ScheduleID:    d.ScheduleID,
		CompanyID:     companyID,
		PeriodLabel:   d.PeriodLabel,
		DebitAccount:  d.DebitAccount,
		CreditAccount: d.CreditAccount,
		Amount:        d.Amount,
		IsProcessed:   d.IsProcessed,
		ProcessedAt:   d.ProcessedAt,
	}
}

// ToDomainPeriodizationEntry converts an entry row back to the domain type.
func ToDomainPeriodizationEntry(m models.PeriodizationEntry) domain.PeriodizationEntry {
	return domain.PeriodizationEntry{
		EntryID:       m.EntryID,
		ScheduleID:    m.ScheduleID,
		PeriodLabel:   m.PeriodLabel,
		DebitAccount:  m.DebitAccount,
		CreditAccount: m.CreditAccount,
		Amount:        m.Amount,
		IsProcessed:   m.IsProcessed,
		ProcessedAt:   m.ProcessedAt,
	}
}
