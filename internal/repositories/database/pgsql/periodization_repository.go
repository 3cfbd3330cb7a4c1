package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/AIFMgroup/AIFM-sub010/internal/apperrors"
	"github.com/AIFMgroup/AIFM-sub010/internal/core/domain"
	portsrepo "github.com/AIFMgroup/AIFM-sub010/internal/core/ports/repositories"
	"github.com/AIFMgroup/AIFM-sub010/internal/models"
	"github.com/AIFMgroup/AIFM-sub010/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxPeriodizationRepository struct {
	BaseRepository
}

// newPgxPeriodizationRepository creates a new repository for periodization data.
func newPgxPeriodizationRepository(pool *pgxpool.Pool) portsrepo.PeriodizationRepositoryFacade {
	return &PgxPeriodizationRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.PeriodizationRepositoryFacade = (*PgxPeriodizationRepository)(nil)

const scheduleColumns = `schedule_id, company_id, original_amount, cost_account, periodization_account, start_date, end_date, total_months, monthly_amount, created_at, created_by, last_updated_at, last_updated_by`

const entryColumns = `entry_id, schedule_id, company_id, period_label, debit_account, credit_account, amount, is_processed, processed_at`

// SaveSchedule persists the schedule header and every entry in one database
// transaction; a schedule is never visible half-written.
func (r *PgxPeriodizationRepository) SaveSchedule(ctx context.Context, schedule domain.PeriodizationSchedule) error {
	m := mapping.ToModelPeriodizationSchedule(schedule)

	tx, err := r.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin schedule transaction: %w", err)
	}
	defer r.Rollback(ctx, tx) //nolint:errcheck // rollback after commit is a no-op

	insertSchedule := `
		INSERT INTO periodization_schedules (` + scheduleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err = tx.Exec(ctx, insertSchedule,
		m.ScheduleID,
		m.CompanyID,
		m.OriginalAmount,
		m.CostAccount,
		m.PeriodizationAccount,
		m.StartDate,
		m.EndDate,
		m.TotalMonths,
		m.MonthlyAmount,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: schedule %s already exists", apperrors.ErrDuplicate, m.ScheduleID)
		}
		return fmt.Errorf("failed to save schedule %s: %w", m.ScheduleID, err)
	}

	insertEntry := `
		INSERT INTO periodization_entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	batch := &pgx.Batch{}
	for _, entry := range schedule.Entries {
		em := mapping.ToModelPeriodizationEntry(entry, schedule.CompanyID)
		batch.Queue(insertEntry,
			em.EntryID,
			em.ScheduleID,
			em.CompanyID,
			em.PeriodLabel,
			em.DebitAccount,
			em.CreditAccount,
			em.Amount,
			em.IsProcessed,
			em.ProcessedAt,
		)
	}
	br := tx.SendBatch(ctx, batch)
	for range schedule.Entries {
		if _, err := br.Exec(); err != nil {
			br.Close() //nolint:errcheck
			return fmt.Errorf("failed to save schedule entries for %s: %w", m.ScheduleID, err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to close entry batch for %s: %w", m.ScheduleID, err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return fmt.Errorf("failed to commit schedule %s: %w", m.ScheduleID, err)
	}
	return nil
}

// FindScheduleByID retrieves a schedule with its entries.
func (r *PgxPeriodizationRepository) FindScheduleByID(ctx context.Context, companyID, scheduleID string) (*domain.PeriodizationSchedule, error) {
	query := `
		SELECT ` + scheduleColumns + `
		FROM periodization_schedules
		WHERE company_id = $1 AND schedule_id = $2;
	`
	var m models.PeriodizationSchedule
	err := r.Pool.QueryRow(ctx, query, companyID, scheduleID).Scan(
		&m.ScheduleID,
		&m.CompanyID,
		&m.OriginalAmount,
		&m.CostAccount,
		&m.PeriodizationAccount,
		&m.StartDate,
		&m.EndDate,
		&m.TotalMonths,
		&m.MonthlyAmount,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find schedule %s: %w", scheduleID, err)
	}

	schedule := mapping.ToDomainPeriodizationSchedule(m)
	entries, err := r.listEntriesForSchedules(ctx, companyID, []string{scheduleID})
	if err != nil {
		return nil, err
	}
	schedule.Entries = entries[scheduleID]
	return &schedule, nil
}

// ListSchedulesByCompany retrieves all schedules for a company, entries included.
func (r *PgxPeriodizationRepository) ListSchedulesByCompany(ctx context.Context, companyID string) ([]domain.PeriodizationSchedule, error) {
	query := `
		SELECT ` + scheduleColumns + `
		FROM periodization_schedules
		WHERE company_id = $1
		ORDER BY start_date ASC, schedule_id ASC;
	`
	rows, err := r.Pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query schedules for company %s: %w", companyID, err)
	}
	defer rows.Close()

	schedules := []domain.PeriodizationSchedule{}
	scheduleIDs := []string{}
	for rows.Next() {
		var m models.PeriodizationSchedule
		err := rows.Scan(
			&m.ScheduleID,
			&m.CompanyID,
			&m.OriginalAmount,
			&m.CostAccount,
			&m.PeriodizationAccount,
			&m.StartDate,
			&m.EndDate,
			&m.TotalMonths,
			&m.MonthlyAmount,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan schedule row: %w", err)
		}
		schedules = append(schedules, mapping.ToDomainPeriodizationSchedule(m))
		scheduleIDs = append(scheduleIDs, m.ScheduleID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating schedule rows: %w", err)
	}

	entriesBySchedule, err := r.listEntriesForSchedules(ctx, companyID, scheduleIDs)
	if err != nil {
		return nil, err
	}
	for i := range schedules {
		schedules[i].Entries = entriesBySchedule[schedules[i].ScheduleID]
	}
	return schedules, nil
}

func (r *PgxPeriodizationRepository) listEntriesForSchedules(ctx context.Context, companyID string, scheduleIDs []string) (map[string][]domain.PeriodizationEntry, error) {
	result := make(map[string][]domain.PeriodizationEntry, len(scheduleIDs))
	if len(scheduleIDs) == 0 {
		return result, nil
	}

	query := `
		SELECT ` + entryColumns + `
		FROM periodization_entries
		WHERE company_id = $1 AND schedule_id = ANY($2)
		ORDER BY period_label ASC;
	`
	rows, err := r.Pool.Query(ctx, query, companyID, scheduleIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query schedule entries: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var m models.PeriodizationEntry
		err := rows.Scan(
			&m.EntryID,
			&m.ScheduleID,
			&m.CompanyID,
			&m.PeriodLabel,
			&m.DebitAccount,
			&m.CreditAccount,
			&m.Amount,
			&m.IsProcessed,
			&m.ProcessedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan schedule entry row: %w", err)
		}
		result[m.ScheduleID] = append(result[m.ScheduleID], mapping.ToDomainPeriodizationEntry(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating schedule entry rows: %w", err)
	}
	return result, nil
}

// ListDueEntries retrieves unprocessed entries due in the target month across
// all of the company's schedules.
func (r *PgxPeriodizationRepository) ListDueEntries(ctx context.Context, companyID, targetMonth string) ([]domain.PeriodizationEntry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM periodization_entries
		WHERE company_id = $1 AND period_label = $2 AND is_processed = FALSE
		ORDER BY schedule_id ASC;
	`
	rows, err := r.Pool.Query(ctx, query, companyID, targetMonth)
	if err != nil {
		return nil, fmt.Errorf("failed to query due entries for %s: %w", targetMonth, err)
	}
	defer rows.Close()

	entries := []domain.PeriodizationEntry{}
	for rows.Next() {
		var m models.PeriodizationEntry
		err := rows.Scan(
			&m.EntryID,
			&m.ScheduleID,
			&m.CompanyID,
			&m.PeriodLabel,
			&m.DebitAccount,
			&m.CreditAccount,
			&m.Amount,
			&m.IsProcessed,
			&m.ProcessedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan due entry row: %w", err)
		}
		entries = append(entries, mapping.ToDomainPeriodizationEntry(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating due entry rows: %w", err)
	}
	return entries, nil
}

// MarkEntryProcessed flips one entry to processed. Already-processed entries
// come back as a validation error so a double posting is visible to the caller.
func (r *PgxPeriodizationRepository) MarkEntryProcessed(ctx context.Context, companyID, entryID string, processedAt time.Time) error {
	query := `
		UPDATE periodization_entries
		SET is_processed = TRUE, processed_at = $3
		WHERE company_id = $1 AND entry_id = $2 AND is_processed = FALSE;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, companyID, entryID, processedAt)
	if err != nil {
		return fmt.Errorf("failed to mark entry %s processed: %w", entryID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		existsQuery := `SELECT 1 FROM periodization_entries WHERE company_id = $1 AND entry_id = $2;`
		var one int
		if err := r.Pool.QueryRow(ctx, existsQuery, companyID, entryID).Scan(&one); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.ErrNotFound
			}
			return fmt.Errorf("failed to check entry %s after update: %w", entryID, err)
		}
		return fmt.Errorf("%w: entry %s already processed", apperrors.ErrValidation, entryID)
	}
	return nil
}
