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

type PgxRuleRepository struct {
	pool *pgxpool.Pool
}

// newPgxRuleRepository creates a new repository for approval rule data.
func newPgxRuleRepository(pool *pgxpool.Pool) portsrepo.RuleRepositoryFacade {
	return &PgxRuleRepository{pool: pool}
}

var _ portsrepo.RuleRepositoryFacade = (*PgxRuleRepository)(nil)

const ruleColumns = `rule_id, company_id, name, description, rule_type, is_enabled, priority, conditions, action, trigger_count, last_triggered_at, created_at, created_by, last_updated_at, last_updated_by`

func scanRule(row pgx.Row) (domain.ApprovalRule, error) {
	var m models.ApprovalRule
	err := row.Scan(
		&m.RuleID,
		&m.CompanyID,
		&m.Name,
		&m.Description,
		&m.RuleType,
		&m.IsEnabled,
		&m.Priority,
		&m.Conditions,
		&m.Action,
		&m.TriggerCount,
		&m.LastTriggeredAt,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return domain.ApprovalRule{}, err
	}
	return mapping.ToDomainApprovalRule(m)
}

// SaveRule inserts a new rule.
func (r *PgxRuleRepository) SaveRule(ctx context.Context, rule domain.ApprovalRule) error {
	m, err := mapping.ToModelApprovalRule(rule)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO approval_rules (` + ruleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	_, err = r.pool.Exec(ctx, query,
		m.RuleID,
		m.CompanyID,
		m.Name,
		m.Description,
		m.RuleType,
		m.IsEnabled,
		m.Priority,
		m.Conditions,
		m.Action,
		m.TriggerCount,
		m.LastTriggeredAt,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: rule with ID %s already exists", apperrors.ErrDuplicate, m.RuleID)
		}
		return fmt.Errorf("failed to save rule %s: %w", m.RuleID, err)
	}
	return nil
}

// FindRuleByID retrieves a single rule scoped to a company.
func (r *PgxRuleRepository) FindRuleByID(ctx context.Context, companyID, ruleID string) (*domain.ApprovalRule, error) {
	query := `
		SELECT ` + ruleColumns + `
		FROM approval_rules
		WHERE company_id = $1 AND rule_id = $2;
	`
	rule, err := scanRule(r.pool.QueryRow(ctx, query, companyID, ruleID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find rule %s: %w", ruleID, err)
	}
	return &rule, nil
}

// ListRulesByCompany retrieves all rules for a company sorted ascending by
// priority, creation time as the tiebreak.
func (r *PgxRuleRepository) ListRulesByCompany(ctx context.Context, companyID string) ([]domain.ApprovalRule, error) {
	query := `
		SELECT ` + ruleColumns + `
		FROM approval_rules
		WHERE company_id = $1
		ORDER BY priority ASC, created_at ASC;
	`
	rows, err := r.pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query rules for company %s: %w", companyID, err)
	}
	defer rows.Close()

	rules := []domain.ApprovalRule{}
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan rule row: %w", err)
		}
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rule rows: %w", err)
	}
	return rules, nil
}

// UpdateRule replaces the mutable fields of an existing rule.
func (r *PgxRuleRepository) UpdateRule(ctx context.Context, rule domain.ApprovalRule) error {
	m, err := mapping.ToModelApprovalRule(rule)
	if err != nil {
		return err
	}

	query := `
		UPDATE approval_rules
		SET name = $3, description = $4, rule_type = $5, is_enabled = $6, priority = $7, conditions = $8, action = $9, last_updated_at = $10, last_updated_by = $11
		WHERE company_id = $1 AND rule_id = $2;
	`
	cmdTag, err := r.pool.Exec(ctx, query,
		m.CompanyID,
		m.RuleID,
		m.Name,
		m.Description,
		m.RuleType,
		m.IsEnabled,
		m.Priority,
		m.Conditions,
		m.Action,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update rule %s: %w", m.RuleID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteRule removes a rule.
func (r *PgxRuleRepository) DeleteRule(ctx context.Context, companyID, ruleID string) error {
	query := `DELETE FROM approval_rules WHERE company_id = $1 AND rule_id = $2;`
	cmdTag, err := r.pool.Exec(ctx, query, companyID, ruleID)
	if err != nil {
		return fmt.Errorf("failed to delete rule %s: %w", ruleID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// IncrementTriggerCount bumps the trigger counter atomically in a single
// statement, so concurrent evaluations never lose an increment to a
// read-modify-write race.
func (r *PgxRuleRepository) IncrementTriggerCount(ctx context.Context, companyID, ruleID string, triggeredAt time.Time) error {
	query := `
		UPDATE approval_rules
		SET trigger_count = trigger_count + 1, last_triggered_at = $3
		WHERE company_id = $1 AND rule_id = $2;
	`
	cmdTag, err := r.pool.Exec(ctx, query, companyID, ruleID, triggeredAt)
	if err != nil {
		return fmt.Errorf("failed to increment trigger count for rule %s: %w", ruleID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
