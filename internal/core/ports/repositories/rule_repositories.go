package repositories

import (
	"context"
	"time"

	"github.com/AIFMgroup/AIFM-sub010/internal/core/domain"
)

// RuleReader defines read operations for approval rules.
type RuleReader interface {
	// FindRuleByID retrieves a single rule scoped to a company.
	FindRuleByID(ctx context.Context, companyID, ruleID string) (*domain.ApprovalRule, error)

	// ListRulesByCompany retrieves all rules for a company sorted ascending by
	// priority (creation time breaks ties).
	ListRulesByCompany(ctx context.Context, companyID string) ([]domain.ApprovalRule, error)
}

// RuleWriter defines write operations for approval rules.
type RuleWriter interface {
	// SaveRule persists a new rule.
	SaveRule(ctx context.Context, rule domain.ApprovalRule) error

	// UpdateRule replaces the mutable fields of an existing rule.
	UpdateRule(ctx context.Context, rule domain.ApprovalRule) error

	// DeleteRule removes a rule. Returns apperrors.ErrNotFound when absent.
	DeleteRule(ctx context.Context, companyID, ruleID string) error

	// IncrementTriggerCount bumps the rule's trigger counter and stamps the
	// trigger time. Callers treat this as best-effort; a lost update must not
	// affect any approval decision.
	IncrementTriggerCount(ctx context.Context, companyID, ruleID string, triggeredAt time.Time) error
}

// RuleRepositoryFacade combines all rule repository interfaces.
type RuleRepositoryFacade interface {
	RuleReader
	RuleWriter
}
