package services

import (
	"context"

	"github.com/AIFMgroup/AIFM-sub010/internal/core/domain"
	"github.com/AIFMgroup/AIFM-sub010/internal/dto"
)

// RuleEvaluatorSvc runs the approval rule engine.
type RuleEvaluatorSvc interface {
	// EvaluateRules evaluates the company's rule set against a classified
	// document and produces the final disposition. Every rule's outcome is
	// recorded; the lowest priority number among matches wins; confidence
	// below domain.ConfidenceFloor always forces flag_for_review.
	EvaluateRules(ctx context.Context, companyID string, classification domain.Classification, confidence float64) (*domain.EvaluationResult, error)
}

// RuleConfigSvc defines the tenant rule configuration operations.
type RuleConfigSvc interface {
	// CreateRule persists a new rule for the company.
	CreateRule(ctx context.Context, companyID string, req dto.CreateRuleRequest, creatorUserID string) (*domain.ApprovalRule, error)

	// ListRules retrieves the company's rules, ascending by priority.
	ListRules(ctx context.Context, companyID string) ([]domain.ApprovalRule, error)

	// UpdateRule applies a partial update to an existing rule.
	UpdateRule(ctx context.Context, companyID, ruleID string, req dto.UpdateRuleRequest, updaterUserID string) (*domain.ApprovalRule, error)

	// DeleteRule removes a rule.
	DeleteRule(ctx context.Context, companyID, ruleID string) error

	// SeedDefaultRules installs the default rule set for a company that has
	// none yet. Idempotent.
	SeedDefaultRules(ctx context.Context, companyID, creatorUserID string) ([]domain.ApprovalRule, error)
}

// ApprovalSvcFacade combines evaluation and configuration.
type ApprovalSvcFacade interface {
	RuleEvaluatorSvc
	RuleConfigSvc
}
