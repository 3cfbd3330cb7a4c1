package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RuleType identifies what an approval rule primarily keys on.
type RuleType string

const (
	RuleSupplierWhitelist   RuleType = "supplier_whitelist"
	RuleAmountThreshold     RuleType = "amount_threshold"
	RuleAccountAuto         RuleType = "account_auto"
	RuleConfidenceThreshold RuleType = "confidence_threshold"
	RuleKnownSupplier       RuleType = "known_supplier"
	RuleCombined            RuleType = "combined"
)

// RuleAction is the workflow disposition a matching rule produces.
type RuleAction string

const (
	ActionAutoApprove   RuleAction = "auto_approve"
	ActionFlagForReview RuleAction = "flag_for_review"
	ActionReject        RuleAction = "reject"
)

// ConditionCombinator joins a rule's individual conditions.
type ConditionCombinator string

const (
	CombinatorAnd ConditionCombinator = "AND"
	CombinatorOr  ConditionCombinator = "OR"
)

// ConfidenceFloor is the classification confidence below which no document may
// be auto-approved, regardless of what any rule says. This is the one
// non-negotiable invariant of the engine.
const ConfidenceFloor = 0.7

// RuleConditions holds the configurable predicates of an approval rule.
// A nil/empty field means the condition is not set. A rule with no conditions
// set always matches (blanket catch-all).
type RuleConditions struct {
	SupplierPattern string              `json:"supplierPattern,omitempty"` // Regex over the supplier name
	Suppliers       []string            `json:"suppliers,omitempty"`       // Exact substring list
	MinAmount       *decimal.Decimal    `json:"minAmount,omitempty"`
	MaxAmount       *decimal.Decimal    `json:"maxAmount,omitempty"`
	AllowedAccounts []string            `json:"allowedAccounts,omitempty"`
	MinConfidence   *float64            `json:"minConfidence,omitempty"`
	DocumentTypes   []DocumentType      `json:"documentTypes,omitempty"`
	Combinator      ConditionCombinator `json:"combinator,omitempty"` // Defaults to AND
}

// IsEmpty reports whether no condition is configured.
func (c RuleConditions) IsEmpty() bool {
	return c.SupplierPattern == "" &&
		len(c.Suppliers) == 0 &&
		c.MinAmount == nil &&
		c.MaxAmount == nil &&
		len(c.AllowedAccounts) == 0 &&
		c.MinConfidence == nil &&
		len(c.DocumentTypes) == 0
}

// ApprovalRule is a persisted, tenant-scoped auto-approval rule. Evaluation
// order is ascending Priority; the lowest priority number among matching rules
// wins. TriggerCount and LastTriggeredAt are best-effort counters.
type ApprovalRule struct {
	RuleID          string         `json:"ruleID"`
	CompanyID       string         `json:"companyID"`
	Name            string         `json:"name"`
	Description     string         `json:"description"`
	RuleType        RuleType       `json:"ruleType"`
	IsEnabled       bool           `json:"isEnabled"`
	Priority        int            `json:"priority"`
	Conditions      RuleConditions `json:"conditions"`
	Action          RuleAction     `json:"action"`
	TriggerCount    int            `json:"triggerCount"`
	LastTriggeredAt *time.Time     `json:"lastTriggeredAt,omitempty"`
	AuditFields
}

// RuleEvaluation records one rule's outcome in an evaluation run. Every rule
// gets an entry, matched or not, so the decision is fully auditable.
type RuleEvaluation struct {
	RuleID   string     `json:"ruleID"`
	RuleName string     `json:"ruleName"`
	Priority int        `json:"priority"`
	Action   RuleAction `json:"action"`
	Matched  bool       `json:"matched"`
	Reason   string     `json:"reason"`
}

// EvaluationResult is the final disposition for one classified document.
type EvaluationResult struct {
	FinalAction     RuleAction       `json:"finalAction"`
	WinningRuleID   string           `json:"winningRuleID,omitempty"`
	Evaluations     []RuleEvaluation `json:"evaluations"`
	IsKnownSupplier bool             `json:"isKnownSupplier"`
	Confidence      float64          `json:"confidence"`
	Summary         string           `json:"summary"`
}
