package repositories

import (
	"context"
	"time"

	"github.com/AIFMgroup/AIFM-sub010/internal/core/domain"
)

// PeriodizationReader defines read operations for periodization schedules.
type PeriodizationReader interface {
	// FindScheduleByID retrieves a schedule with its entries.
	FindScheduleByID(ctx context.Context, companyID, scheduleID string) (*domain.PeriodizationSchedule, error)

	// ListSchedulesByCompany retrieves all schedules for a company, entries included.
	ListSchedulesByCompany(ctx context.Context, companyID string) ([]domain.PeriodizationSchedule, error)

	// ListDueEntries retrieves unprocessed entries across all of the company's
	// schedules whose period label equals targetMonth (YYYY-MM).
	ListDueEntries(ctx context.Context, companyID, targetMonth string) ([]domain.PeriodizationEntry, error)
}

// PeriodizationWriter defines write operations for periodization schedules.
type PeriodizationWriter interface {
	// SaveSchedule persists a schedule and all of its entries atomically.
	SaveSchedule(ctx context.Context, schedule domain.PeriodizationSchedule) error

	// MarkEntryProcessed flips a single entry to processed. Returns
	// apperrors.ErrNotFound when the entry does not exist.
	MarkEntryProcessed(ctx context.Context, companyID, entryID string, processedAt time.Time) error
}

// PeriodizationRepositoryFacade combines all periodization repository interfaces.
type PeriodizationRepositoryFacade interface {
	PeriodizationReader
	PeriodizationWriter
}
