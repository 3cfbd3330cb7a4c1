package dto

import (
	"github.com/AIFMgroup/AIFM-sub010/internal/core/domain"
)

// CreateRuleRequest creates a tenant-scoped approval rule.
type CreateRuleRequest struct {
	Name        string                `json:"name" binding:"required"`
	Description string                `json:"description"`
	RuleType    domain.RuleType       `json:"ruleType" binding:"required,oneof=supplier_whitelist amount_threshold account_auto confidence_threshold known_supplier combined"`
	Priority    int                   `json:"priority" binding:"min=0"`
	IsEnabled   *bool                 `json:"isEnabled,omitempty"` // Defaults to true
	Conditions  domain.RuleConditions `json:"conditions"`
	Action      domain.RuleAction     `json:"action" binding:"required,oneof=auto_approve flag_for_review reject"`
}

// UpdateRuleRequest updates the mutable configuration of a rule. Nil fields
// are left unchanged.
type UpdateRuleRequest struct {
	Name        *string                `json:"name,omitempty"`
	Description *string                `json:"description,omitempty"`
	Priority    *int                   `json:"priority,omitempty"`
	IsEnabled   *bool                  `json:"isEnabled,omitempty"`
	Conditions  *domain.RuleConditions `json:"conditions,omitempty"`
	Action      *domain.RuleAction     `json:"action,omitempty" binding:"omitempty,oneof=auto_approve flag_for_review reject"`
}

// EvaluateRulesRequest runs the rule engine over a classified document.
type EvaluateRulesRequest struct {
	Classification domain.Classification `json:"classification" binding:"required"`
	Confidence     float64               `json:"confidence" binding:"min=0,max=1"`
}
