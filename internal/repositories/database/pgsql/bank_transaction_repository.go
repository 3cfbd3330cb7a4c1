package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/AIFMgroup/AIFM-sub010/internal/apperrors"
	"github.com/AIFMgroup/AIFM-sub010/internal/core/domain"
	portsrepo "github.com/AIFMgroup/AIFM-sub010/internal/core/ports/repositories"
	"github.com/AIFMgroup/AIFM-sub010/internal/models"
	"github.com/AIFMgroup/AIFM-sub010/internal/utils/mapping"
	"github.com/AIFMgroup/AIFM-sub010/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxBankTransactionRepository struct {
	BaseRepository
}

// newPgxBankTransactionRepository creates a new repository for bank feed data.
func newPgxBankTransactionRepository(pool *pgxpool.Pool) portsrepo.BankTransactionRepositoryFacade {
	return &PgxBankTransactionRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.BankTransactionRepositoryFacade = (*PgxBankTransactionRepository)(nil)

const bankTxnColumns = `transaction_id, company_id, bank_account_id, booking_date, amount, currency_code, description, counterparty, reference, status, raw_payload, matched_job_id, created_at, created_by, last_updated_at, last_updated_by`

func scanBankTransaction(row pgx.Row) (domain.BankTransaction, error) {
	var m models.BankTransaction
	var matchedJobID sql.NullString
	err := row.Scan(
		&m.TransactionID,
		&m.CompanyID,
		&m.BankAccountID,
		&m.BookingDate,
		&m.Amount,
		&m.CurrencyCode,
		&m.Description,
		&m.Counterparty,
		&m.Reference,
		&m.Status,
		&m.RawPayload,
		&matchedJobID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return domain.BankTransaction{}, err
	}
	if matchedJobID.Valid {
		m.MatchedJobID = matchedJobID.String
	}
	return mapping.ToDomainBankTransaction(m), nil
}

// SaveTransaction inserts a transaction ingested from the external feed.
func (r *PgxBankTransactionRepository) SaveTransaction(ctx context.Context, txn domain.BankTransaction) error {
	m := mapping.ToModelBankTransaction(txn)

	var matchedJobID sql.NullString
	if m.MatchedJobID != "" {
		matchedJobID = sql.NullString{String: m.MatchedJobID, Valid: true}
	}

	query := `
		INSERT INTO bank_transactions (` + bankTxnColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.TransactionID,
		m.CompanyID,
		m.BankAccountID,
		m.BookingDate,
		m.Amount,
		m.CurrencyCode,
		m.Description,
		m.Counterparty,
		m.Reference,
		m.Status,
		m.RawPayload,
		matchedJobID,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: transaction %s already ingested", apperrors.ErrDuplicate, m.TransactionID)
		}
		return fmt.Errorf("failed to save bank transaction %s: %w", m.TransactionID, err)
	}
	return nil
}

// FindTransactionByID retrieves a single transaction scoped to a company.
func (r *PgxBankTransactionRepository) FindTransactionByID(ctx context.Context, companyID, transactionID string) (*domain.BankTransaction, error) {
	query := `
		SELECT ` + bankTxnColumns + `
		FROM bank_transactions
		WHERE company_id = $1 AND transaction_id = $2;
	`
	txn, err := scanBankTransaction(r.Pool.QueryRow(ctx, query, companyID, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find bank transaction %s: %w", transactionID, err)
	}
	return &txn, nil
}

// ListTransactionsInWindow retrieves all transactions booked within [from, to].
func (r *PgxBankTransactionRepository) ListTransactionsInWindow(ctx context.Context, companyID string, from, to time.Time) ([]domain.BankTransaction, error) {
	query := `
		SELECT ` + bankTxnColumns + `
		FROM bank_transactions
		WHERE company_id = $1 AND booking_date >= $2 AND booking_date <= $3
		ORDER BY booking_date ASC;
	`
	rows, err := r.Pool.Query(ctx, query, companyID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query bank transactions for company %s: %w", companyID, err)
	}
	defer rows.Close()

	txns := []domain.BankTransaction{}
	for rows.Next() {
		txn, err := scanBankTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bank transaction row: %w", err)
		}
		txns = append(txns, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bank transaction rows: %w", err)
	}
	return txns, nil
}

// ListUnmatchedTransactions pages through transactions with no matched job,
// newest booking first. The pagination token is the previous page's last
// (booking_date, transaction_id) pair, base64 encoded.
func (r *PgxBankTransactionRepository) ListUnmatchedTransactions(ctx context.Context, companyID string, limit int, nextToken *string) ([]domain.BankTransaction, *string, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT ` + bankTxnColumns + `
		FROM bank_transactions
		WHERE company_id = $1 AND matched_job_id IS NULL
	`
	args := []any{companyID}
	if nextToken != nil && *nextToken != "" {
		bookingDate, transactionID, err := pagination.DecodeKeysetToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: invalid pagination token", apperrors.ErrValidation)
		}
		query += ` AND (booking_date, transaction_id) < ($2, $3)`
		args = append(args, bookingDate, transactionID)
	}
	query += fmt.Sprintf(` ORDER BY booking_date DESC, transaction_id DESC LIMIT $%d;`, len(args)+1)
	args = append(args, limit+1)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query unmatched transactions for company %s: %w", companyID, err)
	}
	defer rows.Close()

	txns := []domain.BankTransaction{}
	for rows.Next() {
		txn, err := scanBankTransaction(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan unmatched transaction row: %w", err)
		}
		txns = append(txns, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating unmatched transaction rows: %w", err)
	}

	var token *string
	if len(txns) > limit {
		txns = txns[:limit]
		last := txns[len(txns)-1]
		t := pagination.EncodeKeysetToken(last.BookingDate, last.TransactionID)
		token = &t
	}
	return txns, token, nil
}

// RecordMatch cross-references a job and a transaction in both directions
// inside one database transaction.
func (r *PgxBankTransactionRepository) RecordMatch(ctx context.Context, companyID, jobID, transactionID string, confidence domain.MatchConfidence, matchType domain.MatchType, matchedAt time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin match transaction: %w", err)
	}
	defer r.Rollback(ctx, tx) //nolint:errcheck // rollback after commit is a no-op

	updateTxn := `
		UPDATE bank_transactions
		SET matched_job_id = $3, last_updated_at = $4
		WHERE company_id = $1 AND transaction_id = $2 AND (matched_job_id IS NULL OR matched_job_id = $3);
	`
	cmdTag, err := tx.Exec(ctx, updateTxn, companyID, transactionID, jobID, matchedAt)
	if err != nil {
		return fmt.Errorf("failed to mark transaction %s matched: %w", transactionID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: transaction %s missing or already matched", apperrors.ErrDuplicate, transactionID)
	}

	upsertMatch := `
		INSERT INTO job_matches (company_id, job_id, transaction_id, confidence, match_type, matched_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (company_id, job_id) DO UPDATE
		SET transaction_id = EXCLUDED.transaction_id, confidence = EXCLUDED.confidence, match_type = EXCLUDED.match_type, matched_at = EXCLUDED.matched_at;
	`
	if _, err := tx.Exec(ctx, upsertMatch, companyID, jobID, transactionID, string(confidence), string(matchType), matchedAt); err != nil {
		return fmt.Errorf("failed to record job match %s: %w", jobID, err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return fmt.Errorf("failed to commit match for job %s: %w", jobID, err)
	}
	return nil
}

// ClearMatch removes the cross-reference from both sides.
func (r *PgxBankTransactionRepository) ClearMatch(ctx context.Context, companyID, jobID, transactionID string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin unmatch transaction: %w", err)
	}
	defer r.Rollback(ctx, tx) //nolint:errcheck

	clearTxn := `
		UPDATE bank_transactions
		SET matched_job_id = NULL
		WHERE company_id = $1 AND transaction_id = $2 AND matched_job_id = $3;
	`
	cmdTag, err := tx.Exec(ctx, clearTxn, companyID, transactionID, jobID)
	if err != nil {
		return fmt.Errorf("failed to clear match on transaction %s: %w", transactionID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	if _, err := tx.Exec(ctx, `DELETE FROM job_matches WHERE company_id = $1 AND job_id = $2;`, companyID, jobID); err != nil {
		return fmt.Errorf("failed to delete job match %s: %w", jobID, err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return fmt.Errorf("failed to commit unmatch for job %s: %w", jobID, err)
	}
	return nil
}
