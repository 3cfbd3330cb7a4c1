package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/AIFMgroup/AIFM-sub010/internal/apperrors"
	"github.com/AIFMgroup/AIFM-sub010/internal/core/domain"
	portssvc "github.com/AIFMgroup/AIFM-sub010/internal/core/ports/services"
	"github.com/AIFMgroup/AIFM-sub010/internal/core/services"
	"github.com/AIFMgroup/AIFM-sub010/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockBankTransactionRepository is a mock type for the BankTransactionRepositoryFacade interface
type MockBankTransactionRepository struct {
	mock.Mock
}

func (m *MockBankTransactionRepository) FindTransactionByID(ctx context.Context, companyID, transactionID string) (*domain.BankTransaction, error) {
	args := m.Called(ctx, companyID, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BankTransaction), args.Error(1)
}

func (m *MockBankTransactionRepository) ListTransactionsInWindow(ctx context.Context, companyID string, from, to time.Time) ([]domain.BankTransaction, error) {
	args := m.Called(ctx, companyID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BankTransaction), args.Error(1)
}

func (m *MockBankTransactionRepository) ListUnmatchedTransactions(ctx context.Context, companyID string, limit int, nextToken *string) ([]domain.BankTransaction, *string, error) {
	args := m.Called(ctx, companyID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return args.Get(0).([]domain.BankTransaction), token, args.Error(2)
}

func (m *MockBankTransactionRepository) SaveTransaction(ctx context.Context, txn domain.BankTransaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockBankTransactionRepository) RecordMatch(ctx context.Context, companyID, jobID, transactionID string, confidence domain.MatchConfidence, matchType domain.MatchType, matchedAt time.Time) error {
	args := m.Called(ctx, companyID, jobID, transactionID, confidence, matchType, matchedAt)
	return args.Error(0)
}

func (m *MockBankTransactionRepository) ClearMatch(ctx context.Context, companyID, jobID, transactionID string) error {
	args := m.Called(ctx, companyID, jobID, transactionID)
	return args.Error(0)
}

// --- Test Suite Setup ---

type MatchingServiceTestSuite struct {
	suite.Suite
	mockRepo  *MockBankTransactionRepository
	service   portssvc.MatchingSvcFacade
	companyID string
}

func (suite *MatchingServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockBankTransactionRepository)
	suite.service = services.NewMatchingService(suite.mockRepo, domain.DefaultMatchingConfig())
	suite.companyID = uuid.NewString()
}

func matchableInvoice(amount string) domain.Classification {
	due := time.Date(2025, 4, 14, 0, 0, 0, 0, time.UTC)
	return domain.Classification{
		SupplierName:  "Telia Sverige AB",
		DocumentType:  domain.DocumentInvoice,
		InvoiceNumber: "INV-78901",
		InvoiceDate:   time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC),
		DueDate:       &due,
		TotalAmount:   decimal.RequireFromString(amount),
	}
}

func bankTxn(id, amount string, booking time.Time) domain.BankTransaction {
	return domain.BankTransaction{
		TransactionID: id,
		BookingDate:   booking,
		Amount:        decimal.RequireFromString(amount),
		CurrencyCode:  "SEK",
		Status:        domain.TransactionBooked,
	}
}

// --- Matching ---

func (suite *MatchingServiceTestSuite) TestMatch_ReferenceAmountAndDate() {
	ctx := context.Background()
	jobID := uuid.NewString()
	classification := matchableInvoice("1890.00")

	txn := bankTxn("txn-1", "-1890.00", time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC))
	txn.Reference = "OCR 78901"
	txn.Counterparty = "TELIA SVERIGE"

	suite.mockRepo.On("ListTransactionsInWindow", ctx, suite.companyID, mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time")).
		Return([]domain.BankTransaction{txn}, nil).Once()
	suite.mockRepo.On("RecordMatch", ctx, suite.companyID, jobID, "txn-1", domain.MatchExact, domain.MatchByReference, mock.AnythingOfType("time.Time")).
		Return(nil).Once()

	result, err := suite.service.MatchInvoiceToTransaction(ctx, suite.companyID, classification, jobID)

	suite.Require().NoError(err)
	suite.True(result.Matched)
	suite.Equal(domain.MatchExact, result.Confidence)
	suite.Equal(domain.MatchByReference, result.MatchType)
	// reference 50 + exact amount 30 + date in range 15 + supplier tokens
	suite.GreaterOrEqual(result.Score, 95)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *MatchingServiceTestSuite) TestMatch_AmountAndDateOnlyIsMedium() {
	ctx := context.Background()
	jobID := uuid.NewString()
	classification := matchableInvoice("1890.00")
	classification.InvoiceNumber = ""
	classification.SupplierName = ""

	txn := bankTxn("txn-2", "-1890.00", time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC))

	suite.mockRepo.On("ListTransactionsInWindow", ctx, suite.companyID, mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time")).
		Return([]domain.BankTransaction{txn}, nil).Once()
	suite.mockRepo.On("RecordMatch", ctx, suite.companyID, jobID, "txn-2", domain.MatchMedium, domain.MatchByAmountDate, mock.AnythingOfType("time.Time")).
		Return(nil).Once()

	result, err := suite.service.MatchInvoiceToTransaction(ctx, suite.companyID, classification, jobID)

	// 30 + 15 = 45: medium band, still a recorded match, typed amount_date.
	suite.Require().NoError(err)
	suite.Equal(45, result.Score)
	suite.Equal(domain.MatchMedium, result.Confidence)
	suite.Equal(domain.MatchByAmountDate, result.MatchType)
	suite.True(result.Matched)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *MatchingServiceTestSuite) TestMatch_LowBandIsNotAMatch() {
	ctx := context.Background()
	classification := matchableInvoice("1890.00")
	classification.InvoiceNumber = ""
	classification.SupplierName = ""

	// Amount within 5% only, date outside even the grace band.
	txn := bankTxn("txn-3", "-1950.00", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))

	suite.mockRepo.On("ListTransactionsInWindow", ctx, suite.companyID, mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time")).
		Return([]domain.BankTransaction{txn}, nil).Once()

	result, err := suite.service.MatchInvoiceToTransaction(ctx, suite.companyID, classification, uuid.NewString())

	suite.Require().NoError(err)
	suite.False(result.Matched)
	suite.Equal(domain.MatchNone, result.Confidence)
	suite.mockRepo.AssertNotCalled(suite.T(), "RecordMatch", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *MatchingServiceTestSuite) TestMatch_AlreadyMatchedTransactionsSkipped() {
	ctx := context.Background()
	otherJob := uuid.NewString()
	classification := matchableInvoice("1890.00")

	txn := bankTxn("txn-4", "-1890.00", time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC))
	txn.Reference = "78901"
	txn.MatchedJobID = &otherJob

	suite.mockRepo.On("ListTransactionsInWindow", ctx, suite.companyID, mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time")).
		Return([]domain.BankTransaction{txn}, nil).Once()

	result, err := suite.service.MatchInvoiceToTransaction(ctx, suite.companyID, classification, uuid.NewString())

	suite.Require().NoError(err)
	suite.False(result.Matched)
	suite.Nil(result.Transaction)
}

func (suite *MatchingServiceTestSuite) TestMatch_BestOfSeveralCandidates() {
	ctx := context.Background()
	jobID := uuid.NewString()
	classification := matchableInvoice("1890.00")

	weak := bankTxn("txn-weak", "-1850.00", time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC))
	strong := bankTxn("txn-strong", "-1890.00", time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC))
	strong.Reference = "INV 78901"

	suite.mockRepo.On("ListTransactionsInWindow", ctx, suite.companyID, mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time")).
		Return([]domain.BankTransaction{weak, strong}, nil).Once()
	suite.mockRepo.On("RecordMatch", ctx, suite.companyID, jobID, "txn-strong", domain.MatchExact, domain.MatchByReference, mock.AnythingOfType("time.Time")).
		Return(nil).Once()

	result, err := suite.service.MatchInvoiceToTransaction(ctx, suite.companyID, classification, jobID)

	suite.Require().NoError(err)
	suite.Require().NotNil(result.Transaction)
	suite.Equal("txn-strong", result.Transaction.TransactionID)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *MatchingServiceTestSuite) TestMatch_NoCandidates() {
	ctx := context.Background()
	suite.mockRepo.On("ListTransactionsInWindow", ctx, suite.companyID, mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time")).
		Return([]domain.BankTransaction{}, nil).Once()

	result, err := suite.service.MatchInvoiceToTransaction(ctx, suite.companyID, matchableInvoice("500"), uuid.NewString())

	suite.Require().NoError(err, "an empty pool is a normal no-match, not an error")
	suite.False(result.Matched)
	suite.Nil(result.Transaction)
	suite.Zero(result.Score)
	suite.Require().Len(result.Details, 1, "a no-match result still explains itself")
	suite.Contains(result.Details[0], "no match among 0 candidate transactions")
}

func (suite *MatchingServiceTestSuite) TestManualMatch_Success() {
	ctx := context.Background()
	jobID := uuid.NewString()
	txn := bankTxn("txn-5", "-100.00", time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC))

	suite.mockRepo.On("FindTransactionByID", ctx, suite.companyID, "txn-5").Return(&txn, nil).Once()
	suite.mockRepo.On("RecordMatch", ctx, suite.companyID, jobID, "txn-5", domain.MatchExact, domain.MatchManual, mock.AnythingOfType("time.Time")).
		Return(nil).Once()

	result, err := suite.service.ManualMatch(ctx, suite.companyID, jobID, "txn-5")

	suite.Require().NoError(err)
	suite.True(result.Matched)
	suite.Equal(domain.MatchManual, result.MatchType)
	suite.Require().NotNil(result.Transaction.MatchedJobID)
	suite.Equal(jobID, *result.Transaction.MatchedJobID)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *MatchingServiceTestSuite) TestManualMatch_AlreadyMatchedToOtherJob() {
	ctx := context.Background()
	otherJob := uuid.NewString()
	txn := bankTxn("txn-6", "-100.00", time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC))
	txn.MatchedJobID = &otherJob

	suite.mockRepo.On("FindTransactionByID", ctx, suite.companyID, "txn-6").Return(&txn, nil).Once()

	result, err := suite.service.ManualMatch(ctx, suite.companyID, uuid.NewString(), "txn-6")

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.mockRepo.AssertNotCalled(suite.T(), "RecordMatch", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *MatchingServiceTestSuite) TestManualMatch_TransactionNotFound() {
	ctx := context.Background()
	suite.mockRepo.On("FindTransactionByID", ctx, suite.companyID, "missing").Return(nil, apperrors.ErrNotFound).Once()

	result, err := suite.service.ManualMatch(ctx, suite.companyID, uuid.NewString(), "missing")

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *MatchingServiceTestSuite) TestUnmatch_Success() {
	ctx := context.Background()
	jobID := uuid.NewString()

	suite.mockRepo.On("ClearMatch", ctx, suite.companyID, jobID, "txn-7").Return(nil).Once()

	err := suite.service.Unmatch(ctx, suite.companyID, jobID, "txn-7")

	suite.Require().NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *MatchingServiceTestSuite) TestUnmatch_NoSuchMatch() {
	ctx := context.Background()
	jobID := uuid.NewString()

	suite.mockRepo.On("ClearMatch", ctx, suite.companyID, jobID, "txn-8").Return(apperrors.ErrNotFound).Once()

	err := suite.service.Unmatch(ctx, suite.companyID, jobID, "txn-8")

	suite.ErrorIs(err, apperrors.ErrNotFound)
}

// --- Feed management ---

func (suite *MatchingServiceTestSuite) TestIngestTransaction_DefaultsAndAudit() {
	ctx := context.Background()
	userID := uuid.NewString()

	suite.mockRepo.On("SaveTransaction", ctx, mock.AnythingOfType("domain.BankTransaction")).Return(nil).Once()

	txn, err := suite.service.IngestTransaction(ctx, suite.companyID, dto.IngestTransactionRequest{
		TransactionID: "txn-7",
		BankAccountID: "acct-1",
		BookingDate:   time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC),
		Amount:        d("-1890.00"),
		CurrencyCode:  "sek",
	}, userID)

	suite.Require().NoError(err)
	suite.Equal(domain.TransactionBooked, txn.Status, "status defaults to BOOKED")
	suite.Equal("SEK", txn.CurrencyCode, "currency codes are normalized to upper case")
	suite.Equal(suite.companyID, txn.CompanyID)
	suite.Equal(userID, txn.CreatedBy)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *MatchingServiceTestSuite) TestIngestTransaction_Duplicate() {
	ctx := context.Background()
	suite.mockRepo.On("SaveTransaction", ctx, mock.AnythingOfType("domain.BankTransaction")).Return(apperrors.ErrDuplicate).Once()

	txn, err := suite.service.IngestTransaction(ctx, suite.companyID, dto.IngestTransactionRequest{
		TransactionID: "txn-7",
		BankAccountID: "acct-1",
		BookingDate:   time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC),
		Amount:        d("-1890.00"),
		CurrencyCode:  "SEK",
	}, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(txn)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
}

func (suite *MatchingServiceTestSuite) TestListUnmatchedTransactions() {
	ctx := context.Background()
	token := "next-page"
	txns := []domain.BankTransaction{bankTxn("txn-8", "-50.00", time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC))}

	suite.mockRepo.On("ListUnmatchedTransactions", ctx, suite.companyID, 50, (*string)(nil)).Return(txns, &token, nil).Once()

	resp, err := suite.service.ListUnmatchedTransactions(ctx, suite.companyID, dto.ListUnmatchedParams{})

	suite.Require().NoError(err)
	suite.Equal(txns, resp.Transactions)
	suite.Require().NotNil(resp.NextToken)
	suite.Equal("next-page", *resp.NextToken)
	suite.mockRepo.AssertExpectations(suite.T())
}

func TestMatchingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(MatchingServiceTestSuite))
}
