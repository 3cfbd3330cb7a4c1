package repositories

import (
	"context"
	"time"
)

// SupplierMemoryReader answers "is this supplier known to this tenant?".
type SupplierMemoryReader interface {
	// IsKnownSupplier reports whether the supplier has enough history with the
	// company to be trusted by known-supplier rule conditions.
	IsKnownSupplier(ctx context.Context, companyID, supplierName string) (bool, error)
}

// SupplierMemoryWriter records supplier sightings.
type SupplierMemoryWriter interface {
	// RecordSupplierSeen upserts the supplier profile, bumping its document
	// count and, when approved, its approval count.
	RecordSupplierSeen(ctx context.Context, companyID, supplierName string, approved bool, seenAt time.Time) error
}

// SupplierMemoryRepositoryFacade combines the supplier memory interfaces.
type SupplierMemoryRepositoryFacade interface {
	SupplierMemoryReader
	SupplierMemoryWriter
}
