package services

import (
	"context"

	"github.com/AIFMgroup/AIFM-sub010/internal/core/domain"
	"github.com/AIFMgroup/AIFM-sub010/internal/dto"
)

// MatcherSvc scores invoices against the bank feed.
type MatcherSvc interface {
	// MatchInvoiceToTransaction scores every candidate transaction in the
	// window independently and keeps the single best. Matches at medium
	// confidence or better are cross-referenced durably. "No match" is a
	// normal result, not an error.
	MatchInvoiceToTransaction(ctx context.Context, companyID string, classification domain.Classification, jobID string) (*domain.MatchResult, error)

	// ManualMatch bypasses scoring and force-registers an exact/manual match.
	ManualMatch(ctx context.Context, companyID, jobID, transactionID string) (*domain.MatchResult, error)

	// Unmatch removes a recorded match from both sides.
	Unmatch(ctx context.Context, companyID, jobID, transactionID string) error
}

// BankFeedSvc manages the persisted transaction pool.
type BankFeedSvc interface {
	// IngestTransaction persists one row from the external bank feed.
	IngestTransaction(ctx context.Context, companyID string, req dto.IngestTransactionRequest, creatorUserID string) (*domain.BankTransaction, error)

	// ListUnmatchedTransactions pages through transactions with no match.
	ListUnmatchedTransactions(ctx context.Context, companyID string, params dto.ListUnmatchedParams) (*dto.ListUnmatchedResponse, error)
}

// MatchingSvcFacade combines matching and feed management.
type MatchingSvcFacade interface {
	MatcherSvc
	BankFeedSvc
}
