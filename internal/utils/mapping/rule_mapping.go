package mapping

import (
	"encoding/json"
	"fmt"

	"github.com/AIFMgroup/AIFM-sub010/internal/core/domain"
	"github.com/AIFMgroup/AIFM-sub010/internal/models"
)

// ToModelApprovalRule converts a domain ApprovalRule to its DB model,
// serializing the conditions into the JSONB column.
func ToModelApprovalRule(d domain.ApprovalRule) (models.ApprovalRule, error) {
	conditions, err := json.Marshal(d.Conditions)
	if err != nil {
		return models.ApprovalRule{}, fmt.Errorf("failed to marshal rule conditions: %w", err)
	}
	return models.ApprovalRule{
		RuleID:          d.RuleID,
		CompanyID:       d.CompanyID,
		Name:            d.Name,
		Description:     d.Description,
		RuleType:        string(d.RuleType),
		IsEnabled:       d.IsEnabled,
		Priority:        d.Priority,
		Conditions:      conditions,
		Action:          string(d.Action),
		TriggerCount:    d.TriggerCount,
		LastTriggeredAt: d.LastTriggeredAt,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}, nil
}

// ToDomainApprovalRule converts a DB model rule back to the domain type.
func ToDomainApprovalRule(m models.ApprovalRule) (domain.ApprovalRule, error) {
	var conditions domain.RuleConditions
	if len(m.Conditions) > 0 {
		if err := json.Unmarshal(m.Conditions, &conditions); err != nil {
			return domain.ApprovalRule{}, fmt.Errorf("failed to unmarshal conditions for rule %s: %w", m.RuleID, err)
		}
	}
	return domain.ApprovalRule{
		RuleID:          m.RuleID,
		CompanyID:       m.CompanyID,
		Name:            m.Name,
		Description:     m.Description,
		RuleType:        domain.RuleType(m.RuleType),
		IsEnabled:       m.IsEnabled,
		Priority:        m.Priority,
		Conditions:      conditions,
		Action:          domain.RuleAction(m.Action),
		TriggerCount:    m.TriggerCount,
		LastTriggeredAt: m.LastTriggeredAt,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}, nil
}
