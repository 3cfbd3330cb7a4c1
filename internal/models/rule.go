package models

import (
	"time"
)

// ApprovalRule represents a persisted auto-approval rule row.
// Conditions is stored as a JSONB document since its shape varies by rule type.
type ApprovalRule struct {
	RuleID          string `db:"rule_id"`
	CompanyID       string `db:"company_id"`
	Name            string `db:"name"`
	Description     string `db:"description"`
	RuleType        string `db:"rule_type"`
	IsEnabled       bool   `db:"is_enabled"`
	Priority        int    `db:"priority"`
	Conditions      []byte `db:"conditions"` // JSONB
	Action          string `db:"action"`
	TriggerCount    int    `db:"trigger_count"`
	LastTriggeredAt *time.Time `db:"last_triggered_at"` // Nullable
	AuditFields
}
