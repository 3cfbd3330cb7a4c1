package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	portsrepo "github.com/AIFMgroup/AIFM-sub010/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Thresholds for trusting a supplier: this many documents seen, at least one
// of them approved by a human.
const (
	knownSupplierMinDocuments = 3
	knownSupplierMinApprovals = 1
)

type PgxSupplierRepository struct {
	pool *pgxpool.Pool
}

// newPgxSupplierRepository creates a new repository for supplier memory.
func newPgxSupplierRepository(pool *pgxpool.Pool) portsrepo.SupplierMemoryRepositoryFacade {
	return &PgxSupplierRepository{pool: pool}
}

var _ portsrepo.SupplierMemoryRepositoryFacade = (*PgxSupplierRepository)(nil)

// supplierKey normalizes a supplier name for keying: lowercased, whitespace
// collapsed. "ACME  AB" and "acme ab" are the same supplier.
func supplierKey(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

// IsKnownSupplier reports whether the supplier has crossed the document and
// approval thresholds for this company.
func (r *PgxSupplierRepository) IsKnownSupplier(ctx context.Context, companyID, supplierName string) (bool, error) {
	key := supplierKey(supplierName)
	if key == "" {
		return false, nil
	}

	query := `
		SELECT document_count, approved_count
		FROM supplier_memory
		WHERE company_id = $1 AND supplier_key = $2;
	`
	var documentCount, approvedCount int
	err := r.pool.QueryRow(ctx, query, companyID, key).Scan(&documentCount, &approvedCount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to look up supplier %q: %w", supplierName, err)
	}
	return documentCount >= knownSupplierMinDocuments && approvedCount >= knownSupplierMinApprovals, nil
}

// RecordSupplierSeen upserts the supplier profile, bumping its document count
// and, when approved, its approval count.
func (r *PgxSupplierRepository) RecordSupplierSeen(ctx context.Context, companyID, supplierName string, approved bool, seenAt time.Time) error {
	key := supplierKey(supplierName)
	if key == "" {
		return nil
	}

	approvedIncrement := 0
	if approved {
		approvedIncrement = 1
	}
	query := `
		INSERT INTO supplier_memory (company_id, supplier_key, supplier_name, document_count, approved_count, first_seen_at, last_seen_at)
		VALUES ($1, $2, $3, 1, $4, $5, $5)
		ON CONFLICT (company_id, supplier_key) DO UPDATE
		SET document_count = supplier_memory.document_count + 1,
		    approved_count = supplier_memory.approved_count + $4,
		    last_seen_at = $5;
	`
	if _, err := r.pool.Exec(ctx, query, companyID, key, supplierName, approvedIncrement, seenAt); err != nil {
		return fmt.Errorf("failed to record supplier %q: %w", supplierName, err)
	}
	return nil
}
