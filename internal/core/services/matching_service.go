package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/AIFMgroup/AIFM-sub010/internal/apperrors"
	"github.com/AIFMgroup/AIFM-sub010/internal/core/domain"
	portsrepo "github.com/AIFMgroup/AIFM-sub010/internal/core/ports/repositories"
	portssvc "github.com/AIFMgroup/AIFM-sub010/internal/core/ports/services"
	"github.com/AIFMgroup/AIFM-sub010/internal/dto"
	"github.com/AIFMgroup/AIFM-sub010/internal/middleware"
)

// matchingService scores classified invoices against the bank transaction
// pool using the additive weights in domain.MatchingConfig.
type matchingService struct {
	txnRepo portsrepo.BankTransactionRepositoryFacade
	cfg     domain.MatchingConfig
}

// NewMatchingService creates a new bank matching service with the given
// scoring configuration.
func NewMatchingService(txnRepo portsrepo.BankTransactionRepositoryFacade, cfg domain.MatchingConfig) portssvc.MatchingSvcFacade {
	return &matchingService{txnRepo: txnRepo, cfg: cfg}
}

var _ portssvc.MatchingSvcFacade = (*matchingService)(nil)

// MatchInvoiceToTransaction loads the candidate window around the invoice's
// dates, scores each transaction independently, and keeps the best. Matches at
// medium confidence or better are cross-referenced through the repository.
// Each invoice is matched on its own; two invoices scored concurrently can
// claim the same transaction, which a later reconciliation run surfaces.
func (s *matchingService) MatchInvoiceToTransaction(ctx context.Context, companyID string, classification domain.Classification, jobID string) (*domain.MatchResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	from := classification.InvoiceDate.AddDate(0, 0, -s.cfg.WindowDaysBefore)
	to := classification.EffectiveDueDate().AddDate(0, 0, s.cfg.WindowDaysAfter)
	candidates, err := s.txnRepo.ListTransactionsInWindow(ctx, companyID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load candidate transactions: %w", err)
	}

	best := domain.MatchResult{Matched: false, Confidence: domain.MatchNone, Details: []string{}}
	for i := range candidates {
		txn := &candidates[i]
		if txn.MatchedJobID != nil {
			continue
		}
		score, matchType, details := s.scoreCandidate(classification, txn)
		if score > best.Score {
			confidence, matched := s.cfg.BandScore(score)
			best = domain.MatchResult{
				Matched:     matched,
				Confidence:  confidence,
				MatchType:   matchType,
				Transaction: txn,
				Score:       score,
				Details:     details,
			}
		}
	}

	if best.Transaction == nil {
		best.Details = append(best.Details,
			fmt.Sprintf("no match among %d candidate transactions in window %s to %s",
				len(candidates), from.Format("2006-01-02"), to.Format("2006-01-02")))
		logger.Info("No candidate transactions for invoice",
			slog.String("job_id", jobID), slog.Int("pool_size", len(candidates)))
		return &best, nil
	}

	if best.Matched {
		if err := s.txnRepo.RecordMatch(ctx, companyID, jobID, best.Transaction.TransactionID,
			best.Confidence, best.MatchType, time.Now().UTC()); err != nil {
			return nil, fmt.Errorf("failed to record match: %w", err)
		}
	}

	logger.Info("Invoice matching completed",
		slog.String("job_id", jobID),
		slog.Int("score", best.Score),
		slog.String("confidence", string(best.Confidence)),
		slog.Bool("matched", best.Matched))
	return &best, nil
}

// scoreCandidate applies the additive scoring model to one transaction:
// reference containment, amount proximity, booking date vs the invoice/due
// window, and supplier name token overlap.
func (s *matchingService) scoreCandidate(classification domain.Classification, txn *domain.BankTransaction) (int, domain.MatchType, []string) {
	score := 0
	details := make([]string, 0, 4)
	refHit := false
	amountHit := false
	dateHit := false

	if ref := normalizeReference(classification.InvoiceNumber); ref != "" {
		txnRef := normalizeReference(txn.Reference)
		if txnRef == "" {
			txnRef = normalizeReference(txn.Description)
		}
		if txnRef != "" && (strings.Contains(txnRef, ref) || strings.Contains(ref, txnRef)) {
			score += s.cfg.ReferenceScore
			refHit = true
			details = append(details, fmt.Sprintf("reference %q found in transaction (+%d)", classification.InvoiceNumber, s.cfg.ReferenceScore))
		}
	}

	invoiceAmount := classification.TotalAmount.Abs()
	txnAmount := txn.Amount.Abs()
	if invoiceAmount.IsPositive() {
		diff := txnAmount.Sub(invoiceAmount).Abs().Div(invoiceAmount)
		switch {
		case diff.LessThanOrEqual(decimal.NewFromFloat(0.001)):
			score += s.cfg.AmountExactScore
			amountHit = true
			details = append(details, fmt.Sprintf("amount %s matches exactly (+%d)", txnAmount, s.cfg.AmountExactScore))
		case diff.LessThanOrEqual(decimal.NewFromFloat(0.01)):
			score += s.cfg.AmountCloseScore
			amountHit = true
			details = append(details, fmt.Sprintf("amount %s within 1%% (+%d)", txnAmount, s.cfg.AmountCloseScore))
		case diff.LessThanOrEqual(decimal.NewFromFloat(0.05)):
			score += s.cfg.AmountNearScore
			amountHit = true
			details = append(details, fmt.Sprintf("amount %s within 5%% (+%d)", txnAmount, s.cfg.AmountNearScore))
		}
	}

	rangeStart := classification.InvoiceDate
	rangeEnd := classification.EffectiveDueDate()
	booking := txn.BookingDate
	grace := time.Duration(s.cfg.GraceDays) * 24 * time.Hour
	switch {
	case !booking.Before(rangeStart) && !booking.After(rangeEnd):
		score += s.cfg.DateInRangeScore
		dateHit = true
		details = append(details, fmt.Sprintf("booking date within invoice-due range (+%d)", s.cfg.DateInRangeScore))
	case !booking.Before(rangeStart.Add(-grace)) && !booking.After(rangeEnd.Add(grace)):
		score += s.cfg.DateGraceScore
		dateHit = true
		details = append(details, fmt.Sprintf("booking date within grace band (+%d)", s.cfg.DateGraceScore))
	}

	if tokenScore := s.supplierTokenScore(classification.SupplierName, txn); tokenScore > 0 {
		score += tokenScore
		details = append(details, fmt.Sprintf("supplier name token overlap (+%d)", tokenScore))
	}

	matchType := domain.MatchBySupplierAmount
	if refHit {
		matchType = domain.MatchByReference
	} else if amountHit && dateHit {
		matchType = domain.MatchByAmountDate
	}
	return score, matchType, details
}

// supplierTokenScore awards per-token points for supplier name words found in
// the transaction's counterparty or description, capped so a long vendor name
// cannot dominate the stronger signals.
func (s *matchingService) supplierTokenScore(supplierName string, txn *domain.BankTransaction) int {
	haystack := strings.ToLower(txn.Counterparty + " " + txn.Description)
	total := 0
	for _, token := range strings.Fields(strings.ToLower(supplierName)) {
		if len(token) < 3 {
			continue
		}
		if strings.Contains(haystack, token) {
			total += s.cfg.SupplierToken
		}
	}
	if total > s.cfg.SupplierTokenCap {
		total = s.cfg.SupplierTokenCap
	}
	return total
}

// normalizeReference strips everything but digits, so "OCR: 1234-5678" and
// "12345678" compare equal. Returns "" for references with no digits at all.
func normalizeReference(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ManualMatch registers a human-chosen match without scoring.
func (s *matchingService) ManualMatch(ctx context.Context, companyID, jobID, transactionID string) (*domain.MatchResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	txn, err := s.txnRepo.FindTransactionByID(ctx, companyID, transactionID)
	if err != nil {
		return nil, err
	}
	if txn.MatchedJobID != nil && *txn.MatchedJobID != jobID {
		return nil, fmt.Errorf("%w: transaction %s already matched to another job", apperrors.ErrDuplicate, transactionID)
	}

	if err := s.txnRepo.RecordMatch(ctx, companyID, jobID, transactionID,
		domain.MatchExact, domain.MatchManual, time.Now().UTC()); err != nil {
		return nil, fmt.Errorf("failed to record manual match: %w", err)
	}
	txn.MatchedJobID = &jobID

	logger.Info("Manual match recorded",
		slog.String("job_id", jobID), slog.String("transaction_id", transactionID))
	return &domain.MatchResult{
		Matched:     true,
		Confidence:  domain.MatchExact,
		MatchType:   domain.MatchManual,
		Transaction: txn,
		Details:     []string{"match chosen manually"},
	}, nil
}

// Unmatch removes a recorded match from both sides so the pair can be
// rescored or rematched.
func (s *matchingService) Unmatch(ctx context.Context, companyID, jobID, transactionID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.txnRepo.ClearMatch(ctx, companyID, jobID, transactionID); err != nil {
		return err
	}

	logger.Info("Match cleared",
		slog.String("job_id", jobID), slog.String("transaction_id", transactionID))
	return nil
}

// IngestTransaction persists one row from the external bank feed.
func (s *matchingService) IngestTransaction(ctx context.Context, companyID string, req dto.IngestTransactionRequest, creatorUserID string) (*domain.BankTransaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	status := domain.TransactionStatus(req.Status)
	if status == "" {
		status = domain.TransactionBooked
	}
	now := time.Now().UTC()
	txn := domain.BankTransaction{
		TransactionID: req.TransactionID,
		CompanyID:     companyID,
		BankAccountID: req.BankAccountID,
		BookingDate:   req.BookingDate,
		Amount:        req.Amount,
		CurrencyCode:  strings.ToUpper(req.CurrencyCode),
		Description:   req.Description,
		Counterparty:  req.Counterparty,
		Reference:     req.Reference,
		Status:        status,
		RawPayload:    req.RawPayload,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.txnRepo.SaveTransaction(ctx, txn); err != nil {
		logger.Error("Failed to save bank transaction",
			slog.String("transaction_id", req.TransactionID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save transaction: %w", err)
	}
	return &txn, nil
}

// ListUnmatchedTransactions pages through transactions with no recorded match.
func (s *matchingService) ListUnmatchedTransactions(ctx context.Context, companyID string, params dto.ListUnmatchedParams) (*dto.ListUnmatchedResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 50
	}
	txns, nextToken, err := s.txnRepo.ListUnmatchedTransactions(ctx, companyID, limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list unmatched transactions: %w", err)
	}
	return &dto.ListUnmatchedResponse{Transactions: txns, NextToken: nextToken}, nil
}
