package models

import "time"

// SupplierProfile represents the per-company memory of a supplier: how many
// documents it has produced and how many of those were approved. A supplier
// counts as known after three documents with at least one approval.
type SupplierProfile struct {
	CompanyID     string    `db:"company_id"`
	SupplierKey   string    `db:"supplier_key"` // Normalized supplier name
	SupplierName  string    `db:"supplier_name"`
	DocumentCount int       `db:"document_count"`
	ApprovedCount int       `db:"approved_count"`
	FirstSeenAt   time.Time `db:"first_seen_at"`
	LastSeenAt    time.Time `db:"last_seen_at"`
}
