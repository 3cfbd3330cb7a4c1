package services

import (
	"context"

	"github.com/AIFMgroup/AIFM-sub010/internal/core/domain"
	"github.com/AIFMgroup/AIFM-sub010/internal/dto"
)

// PeriodizationDetectorSvc defines the pure detection operations.
type PeriodizationDetectorSvc interface {
	// DetectPeriodizationNeed decides whether a document's cost should be
	// spread over multiple accounting periods. Advisory only.
	DetectPeriodizationNeed(req dto.DetectPeriodizationRequest) domain.PeriodizationDetection

	// SuggestPeriodizationAccount maps a cost account to its paired
	// periodization suspense account.
	SuggestPeriodizationAccount(costAccount string) string
}

// PeriodizationScheduleSvc defines the schedule lifecycle operations.
type PeriodizationScheduleSvc interface {
	// CreateSchedule builds and persists a month-by-month schedule. The final
	// entry absorbs the rounding remainder so the entries sum to the original
	// amount exactly.
	CreateSchedule(ctx context.Context, companyID string, req dto.CreateScheduleRequest, creatorUserID string) (*domain.PeriodizationSchedule, error)

	// GetSchedule retrieves a schedule with its entries.
	GetSchedule(ctx context.Context, companyID, scheduleID string) (*domain.PeriodizationSchedule, error)

	// ListSchedules retrieves all of the company's schedules.
	ListSchedules(ctx context.Context, companyID string) ([]domain.PeriodizationSchedule, error)

	// ListDueEntries retrieves the unprocessed entries due in targetMonth
	// (YYYY-MM) across all schedules. This is the monthly close query.
	ListDueEntries(ctx context.Context, companyID, targetMonth string) ([]domain.PeriodizationEntry, error)

	// MarkEntryProcessed flips one entry to processed after its voucher posts.
	MarkEntryProcessed(ctx context.Context, companyID, entryID string) error
}

// PeriodizationSvcFacade combines detection and schedule operations.
type PeriodizationSvcFacade interface {
	PeriodizationDetectorSvc
	PeriodizationScheduleSvc
}
