package repositories

import (
	"context"
	"time"

	"github.com/AIFMgroup/AIFM-sub010/internal/core/domain"
)

// BankTransactionReader defines read operations for bank feed rows.
type BankTransactionReader interface {
	// FindTransactionByID retrieves a single transaction scoped to a company.
	FindTransactionByID(ctx context.Context, companyID, transactionID string) (*domain.BankTransaction, error)

	// ListTransactionsInWindow retrieves all transactions for a company dated
	// within [from, to] inclusive.
	ListTransactionsInWindow(ctx context.Context, companyID string, from, to time.Time) ([]domain.BankTransaction, error)

	// ListUnmatchedTransactions retrieves transactions with no matched job,
	// newest first, using token-based pagination.
	ListUnmatchedTransactions(ctx context.Context, companyID string, limit int, nextToken *string) ([]domain.BankTransaction, *string, error)
}

// BankTransactionWriter defines write operations for bank feed rows and match
// cross-references.
type BankTransactionWriter interface {
	// SaveTransaction persists a transaction ingested from the external feed.
	SaveTransaction(ctx context.Context, txn domain.BankTransaction) error

	// RecordMatch durably cross-references a job and a transaction: the
	// transaction records the job id, the job record (kept here alongside the
	// transactions partition) records the transaction id and confidence.
	RecordMatch(ctx context.Context, companyID, jobID, transactionID string, confidence domain.MatchConfidence, matchType domain.MatchType, matchedAt time.Time) error

	// ClearMatch removes the cross-reference from both sides.
	ClearMatch(ctx context.Context, companyID, jobID, transactionID string) error
}

// BankTransactionRepositoryFacade combines all bank transaction repository
// interfaces.
type BankTransactionRepositoryFacade interface {
	BankTransactionReader
	BankTransactionWriter
}
