package services

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/AIFMgroup/AIFM-sub010/internal/apperrors"
	"github.com/AIFMgroup/AIFM-sub010/internal/core/domain"
	portsrepo "github.com/AIFMgroup/AIFM-sub010/internal/core/ports/repositories"
	portssvc "github.com/AIFMgroup/AIFM-sub010/internal/core/ports/services"
	"github.com/AIFMgroup/AIFM-sub010/internal/dto"
	"github.com/AIFMgroup/AIFM-sub010/internal/middleware"
)

// approvalService implements the auto-approval rule engine and its
// configuration surface.
type approvalService struct {
	ruleRepo     portsrepo.RuleRepositoryFacade
	supplierRepo portsrepo.SupplierMemoryRepositoryFacade
}

// NewApprovalService creates a new approval rule engine service.
func NewApprovalService(ruleRepo portsrepo.RuleRepositoryFacade, supplierRepo portsrepo.SupplierMemoryRepositoryFacade) portssvc.ApprovalSvcFacade {
	return &approvalService{ruleRepo: ruleRepo, supplierRepo: supplierRepo}
}

var _ portssvc.ApprovalSvcFacade = (*approvalService)(nil)

// EvaluateRules runs the company's rule set against a classified document.
// Pass one evaluates every enabled rule and records its outcome; pass two
// picks the matching rule with the lowest priority number. No matching rule
// means flag_for_review, and any other outcome is overridden to
// flag_for_review whenever confidence sits below domain.ConfidenceFloor.
func (s *approvalService) EvaluateRules(ctx context.Context, companyID string, classification domain.Classification, confidence float64) (*domain.EvaluationResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	rules, err := s.ruleRepo.ListRulesByCompany(ctx, companyID)
	if err != nil {
		// A broken rule store must never block the document pipeline; the
		// default disposition below is the safe one.
		logger.Error("Failed to load approval rules, evaluating with empty rule set",
			slog.String("company_id", companyID), slog.String("error", err.Error()))
		rules = nil
	}

	isKnownSupplier := false
	if classification.SupplierName != "" && s.needsSupplierLookup(rules) {
		known, err := s.supplierRepo.IsKnownSupplier(ctx, companyID, classification.SupplierName)
		if err != nil {
			logger.Warn("Supplier memory lookup failed, treating supplier as unknown",
				slog.String("supplier", classification.SupplierName), slog.String("error", err.Error()))
		} else {
			isKnownSupplier = known
		}
	}

	result := domain.EvaluationResult{
		FinalAction:     domain.ActionFlagForReview,
		Evaluations:     make([]domain.RuleEvaluation, 0, len(rules)),
		IsKnownSupplier: isKnownSupplier,
		Confidence:      confidence,
		Summary:         "no rule matched, defaulting to manual review",
	}

	var winner *domain.ApprovalRule
	for i := range rules {
		rule := rules[i]
		if !rule.IsEnabled {
			result.Evaluations = append(result.Evaluations, domain.RuleEvaluation{
				RuleID:   rule.RuleID,
				RuleName: rule.Name,
				Priority: rule.Priority,
				Action:   rule.Action,
				Matched:  false,
				Reason:   "rule disabled",
			})
			continue
		}

		matched, reason := evaluateConditions(rule, classification, confidence, isKnownSupplier)
		result.Evaluations = append(result.Evaluations, domain.RuleEvaluation{
			RuleID:   rule.RuleID,
			RuleName: rule.Name,
			Priority: rule.Priority,
			Action:   rule.Action,
			Matched:  matched,
			Reason:   reason,
		})
		if matched && winner == nil {
			winner = &rules[i]
		}
	}

	if winner != nil {
		result.FinalAction = winner.Action
		result.WinningRuleID = winner.RuleID
		result.Summary = fmt.Sprintf("rule %q (priority %d) matched with action %s", winner.Name, winner.Priority, winner.Action)
		s.recordTrigger(ctx, companyID, winner.RuleID)
	}

	if result.FinalAction != domain.ActionFlagForReview && confidence < domain.ConfidenceFloor {
		result.FinalAction = domain.ActionFlagForReview
		result.Summary = fmt.Sprintf("%s; overridden to flag_for_review: confidence %.2f below floor %.2f",
			result.Summary, confidence, domain.ConfidenceFloor)
	}

	if classification.SupplierName != "" {
		s.recordSupplierSeen(ctx, companyID, classification.SupplierName, result.FinalAction == domain.ActionAutoApprove)
	}

	logger.Info("Rule evaluation completed",
		slog.String("company_id", companyID),
		slog.String("final_action", string(result.FinalAction)),
		slog.String("winning_rule_id", result.WinningRuleID),
		slog.Int("rules_evaluated", len(result.Evaluations)))
	return &result, nil
}

// needsSupplierLookup reports whether any rule can consult supplier memory, so
// the lookup only runs when a rule will read it.
func (s *approvalService) needsSupplierLookup(rules []domain.ApprovalRule) bool {
	for _, rule := range rules {
		if rule.RuleType == domain.RuleKnownSupplier || rule.RuleType == domain.RuleCombined {
			return true
		}
	}
	return false
}

// recordTrigger bumps the winning rule's counter without blocking or failing
// the evaluation. The write runs on a detached context so an in-flight HTTP
// cancellation does not drop it.
func (s *approvalService) recordTrigger(ctx context.Context, companyID, ruleID string) {
	logger := middleware.GetLoggerFromCtx(ctx)
	detached := context.WithoutCancel(ctx)
	go func() {
		writeCtx, cancel := context.WithTimeout(detached, 5*time.Second)
		defer cancel()
		if err := s.ruleRepo.IncrementTriggerCount(writeCtx, companyID, ruleID, time.Now().UTC()); err != nil {
			logger.Warn("Failed to increment rule trigger count",
				slog.String("rule_id", ruleID), slog.String("error", err.Error()))
		}
	}()
}

// recordSupplierSeen feeds supplier memory after each evaluation so the
// known-supplier conditions have history to read. Same fire-and-forget
// contract as recordTrigger.
func (s *approvalService) recordSupplierSeen(ctx context.Context, companyID, supplierName string, approved bool) {
	logger := middleware.GetLoggerFromCtx(ctx)
	detached := context.WithoutCancel(ctx)
	go func() {
		writeCtx, cancel := context.WithTimeout(detached, 5*time.Second)
		defer cancel()
		if err := s.supplierRepo.RecordSupplierSeen(writeCtx, companyID, supplierName, approved, time.Now().UTC()); err != nil {
			logger.Warn("Failed to record supplier sighting",
				slog.String("supplier", supplierName), slog.String("error", err.Error()))
		}
	}()
}

// evaluateConditions checks one rule against the document. Each configured
// condition yields pass/fail; the rule's combinator (AND unless stated) joins
// them. The returned reason lists every condition checked.
func evaluateConditions(rule domain.ApprovalRule, classification domain.Classification, confidence float64, isKnownSupplier bool) (bool, string) {
	cond := rule.Conditions
	if cond.IsEmpty() && !requiresKnownSupplier(rule) {
		return true, "no conditions configured, rule always matches"
	}

	type check struct {
		passed bool
		desc   string
	}
	var checks []check

	if cond.SupplierPattern != "" {
		re, err := regexp.Compile("(?i)" + cond.SupplierPattern)
		if err != nil {
			checks = append(checks, check{false, fmt.Sprintf("supplier pattern %q invalid: %v", cond.SupplierPattern, err)})
		} else if re.MatchString(classification.SupplierName) {
			checks = append(checks, check{true, fmt.Sprintf("supplier %q matches pattern %q", classification.SupplierName, cond.SupplierPattern)})
		} else {
			checks = append(checks, check{false, fmt.Sprintf("supplier %q does not match pattern %q", classification.SupplierName, cond.SupplierPattern)})
		}
	}

	if len(cond.Suppliers) > 0 {
		passed := false
		supplier := strings.ToLower(classification.SupplierName)
		for _, want := range cond.Suppliers {
			if want != "" && strings.Contains(supplier, strings.ToLower(want)) {
				passed = true
				break
			}
		}
		checks = append(checks, check{passed, fmt.Sprintf("supplier %q in list: %t", classification.SupplierName, passed)})
	}

	if cond.MinAmount != nil || cond.MaxAmount != nil {
		amount := classification.TotalAmount
		passed := true
		if cond.MinAmount != nil && amount.LessThan(*cond.MinAmount) {
			passed = false
		}
		if cond.MaxAmount != nil && amount.GreaterThan(*cond.MaxAmount) {
			passed = false
		}
		checks = append(checks, check{passed, fmt.Sprintf("amount %s within [%s, %s]: %t",
			amount, decimalOr(cond.MinAmount, "-inf"), decimalOr(cond.MaxAmount, "+inf"), passed)})
	}

	if len(cond.AllowedAccounts) > 0 {
		allowed := make(map[string]bool, len(cond.AllowedAccounts))
		for _, a := range cond.AllowedAccounts {
			allowed[a] = true
		}
		suggested := classification.SuggestedAccounts()
		passed := len(suggested) > 0
		for _, a := range suggested {
			if !allowed[a] {
				passed = false
				break
			}
		}
		checks = append(checks, check{passed, fmt.Sprintf("suggested accounts %v all allowed: %t", suggested, passed)})
	}

	if cond.MinConfidence != nil {
		if *cond.MinConfidence == 0 && rule.Action == domain.ActionFlagForReview {
			// A zero threshold on a review rule is the low-confidence catch:
			// it fires when confidence sits below the approval floor.
			passed := confidence < domain.ConfidenceFloor
			checks = append(checks, check{passed, fmt.Sprintf("confidence %.2f below review floor %.2f: %t", confidence, domain.ConfidenceFloor, passed)})
		} else {
			passed := confidence >= *cond.MinConfidence
			checks = append(checks, check{passed, fmt.Sprintf("confidence %.2f >= %.2f: %t", confidence, *cond.MinConfidence, passed)})
		}
	}

	if len(cond.DocumentTypes) > 0 {
		passed := false
		for _, dt := range cond.DocumentTypes {
			if dt == classification.DocumentType {
				passed = true
				break
			}
		}
		checks = append(checks, check{passed, fmt.Sprintf("document type %q in %v: %t", classification.DocumentType, cond.DocumentTypes, passed)})
	}

	if requiresKnownSupplier(rule) {
		checks = append(checks, check{isKnownSupplier, fmt.Sprintf("supplier known to company: %t", isKnownSupplier)})
	}

	combinator := cond.Combinator
	if combinator == "" {
		combinator = domain.CombinatorAnd
	}

	matched := combinator == domain.CombinatorAnd
	reasons := make([]string, 0, len(checks))
	for _, c := range checks {
		reasons = append(reasons, c.desc)
		if combinator == domain.CombinatorAnd && !c.passed {
			matched = false
		}
		if combinator == domain.CombinatorOr && c.passed {
			matched = true
		}
	}
	return matched, strings.Join(reasons, "; ")
}

// requiresKnownSupplier reports whether the rule carries an implicit
// known-supplier condition: explicit known_supplier rules always do, and a
// combined rule with a high confidence bar does too, since blanket
// auto-approval at that level is only safe for suppliers with history.
func requiresKnownSupplier(rule domain.ApprovalRule) bool {
	if rule.RuleType == domain.RuleKnownSupplier {
		return true
	}
	return rule.RuleType == domain.RuleCombined &&
		rule.Conditions.MinConfidence != nil && *rule.Conditions.MinConfidence >= 0.9
}

func decimalOr(d *decimal.Decimal, fallback string) string {
	if d == nil {
		return fallback
	}
	return d.String()
}

// CreateRule persists a new approval rule for the company.
func (s *approvalService) CreateRule(ctx context.Context, companyID string, req dto.CreateRuleRequest, creatorUserID string) (*domain.ApprovalRule, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Conditions.SupplierPattern != "" {
		if _, err := regexp.Compile("(?i)" + req.Conditions.SupplierPattern); err != nil {
			return nil, fmt.Errorf("%w: invalid supplier pattern: %v", apperrors.ErrValidation, err)
		}
	}

	enabled := true
	if req.IsEnabled != nil {
		enabled = *req.IsEnabled
	}
	now := time.Now().UTC()
	rule := domain.ApprovalRule{
		RuleID:      uuid.NewString(),
		CompanyID:   companyID,
		Name:        req.Name,
		Description: req.Description,
		RuleType:    req.RuleType,
		IsEnabled:   enabled,
		Priority:    req.Priority,
		Conditions:  req.Conditions,
		Action:      req.Action,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.ruleRepo.SaveRule(ctx, rule); err != nil {
		logger.Error("Failed to save approval rule", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save rule: %w", err)
	}

	logger.Info("Approval rule created", slog.String("rule_id", rule.RuleID), slog.String("name", rule.Name))
	return &rule, nil
}

// ListRules retrieves the company's rules, ascending by priority.
func (s *approvalService) ListRules(ctx context.Context, companyID string) ([]domain.ApprovalRule, error) {
	return s.ruleRepo.ListRulesByCompany(ctx, companyID)
}

// UpdateRule applies a partial update to an existing rule.
func (s *approvalService) UpdateRule(ctx context.Context, companyID, ruleID string, req dto.UpdateRuleRequest, updaterUserID string) (*domain.ApprovalRule, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	rule, err := s.ruleRepo.FindRuleByID(ctx, companyID, ruleID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		rule.Name = *req.Name
	}
	if req.Description != nil {
		rule.Description = *req.Description
	}
	if req.Priority != nil {
		rule.Priority = *req.Priority
	}
	if req.IsEnabled != nil {
		rule.IsEnabled = *req.IsEnabled
	}
	if req.Conditions != nil {
		if req.Conditions.SupplierPattern != "" {
			if _, err := regexp.Compile("(?i)" + req.Conditions.SupplierPattern); err != nil {
				return nil, fmt.Errorf("%w: invalid supplier pattern: %v", apperrors.ErrValidation, err)
			}
		}
		rule.Conditions = *req.Conditions
	}
	if req.Action != nil {
		rule.Action = *req.Action
	}
	rule.LastUpdatedAt = time.Now().UTC()
	rule.LastUpdatedBy = updaterUserID

	if err := s.ruleRepo.UpdateRule(ctx, *rule); err != nil {
		logger.Error("Failed to update approval rule", slog.String("rule_id", ruleID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to update rule: %w", err)
	}
	return rule, nil
}

// DeleteRule removes a rule from the company's set.
func (s *approvalService) DeleteRule(ctx context.Context, companyID, ruleID string) error {
	return s.ruleRepo.DeleteRule(ctx, companyID, ruleID)
}

// SeedDefaultRules installs the standard starter rule set for a company with
// no rules yet. Companies that already have rules get their existing set back
// untouched.
func (s *approvalService) SeedDefaultRules(ctx context.Context, companyID, creatorUserID string) ([]domain.ApprovalRule, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	existing, err := s.ruleRepo.ListRulesByCompany(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing rules: %w", err)
	}
	if len(existing) > 0 {
		return existing, nil
	}

	minConfZero := 0.0
	minConfHigh := 0.95
	minConfReceipt := 0.8
	largeAmount := decimal.NewFromInt(50000)
	smallReceipt := decimal.NewFromInt(500)

	defaults := []domain.ApprovalRule{
		{
			Name:        "Flag large amounts",
			Description: "Documents at or above 50 000 SEK always go to manual review",
			RuleType:    domain.RuleAmountThreshold,
			Priority:    0,
			Conditions:  domain.RuleConditions{MinAmount: &largeAmount},
			Action:      domain.ActionFlagForReview,
		},
		{
			Name:        "Flag low confidence",
			Description: "Classifications below the approval confidence floor go to manual review",
			RuleType:    domain.RuleConfidenceThreshold,
			Priority:    0,
			Conditions:  domain.RuleConditions{MinConfidence: &minConfZero},
			Action:      domain.ActionFlagForReview,
		},
		{
			Name:        "Auto-approve trusted high confidence",
			Description: "Very high confidence documents from suppliers with history",
			RuleType:    domain.RuleCombined,
			Priority:    1,
			Conditions:  domain.RuleConditions{MinConfidence: &minConfHigh},
			Action:      domain.ActionAutoApprove,
		},
		{
			Name:        "Auto-approve small receipts",
			Description: "Receipts under 500 SEK with decent confidence",
			RuleType:    domain.RuleCombined,
			Priority:    2,
			Conditions: domain.RuleConditions{
				MaxAmount:     &smallReceipt,
				MinConfidence: &minConfReceipt,
				DocumentTypes: []domain.DocumentType{domain.DocumentReceipt},
			},
			Action: domain.ActionAutoApprove,
		},
		{
			Name:        "Auto-approve cloud subscriptions",
			Description: "Recurring cloud vendors booked to software expense accounts",
			RuleType:    domain.RuleSupplierWhitelist,
			Priority:    3,
			Conditions: domain.RuleConditions{
				Suppliers:       []string{"Amazon Web Services", "Google Cloud", "Microsoft Azure", "GitHub", "Slack"},
				AllowedAccounts: []string{"5420", "6540"},
			},
			Action: domain.ActionAutoApprove,
		},
	}

	now := time.Now().UTC()
	seeded := make([]domain.ApprovalRule, 0, len(defaults))
	for _, rule := range defaults {
		rule.RuleID = uuid.NewString()
		rule.CompanyID = companyID
		rule.IsEnabled = true
		rule.AuditFields = domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		}
		if err := s.ruleRepo.SaveRule(ctx, rule); err != nil {
			logger.Error("Failed to seed default rule", slog.String("name", rule.Name), slog.String("error", err.Error()))
			return seeded, fmt.Errorf("failed to seed rule %q: %w", rule.Name, err)
		}
		seeded = append(seeded, rule)
	}

	logger.Info("Default approval rules seeded", slog.String("company_id", companyID), slog.Int("count", len(seeded)))
	return seeded, nil
}
