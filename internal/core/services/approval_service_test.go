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
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockRuleRepository is a mock type for the RuleRepositoryFacade interface
type MockRuleRepository struct {
	mock.Mock
}

func (m *MockRuleRepository) FindRuleByID(ctx context.Context, companyID, ruleID string) (*domain.ApprovalRule, error) {
	args := m.Called(ctx, companyID, ruleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ApprovalRule), args.Error(1)
}

func (m *MockRuleRepository) ListRulesByCompany(ctx context.Context, companyID string) ([]domain.ApprovalRule, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ApprovalRule), args.Error(1)
}

func (m *MockRuleRepository) SaveRule(ctx context.Context, rule domain.ApprovalRule) error {
	args := m.Called(ctx, rule)
	return args.Error(0)
}

func (m *MockRuleRepository) UpdateRule(ctx context.Context, rule domain.ApprovalRule) error {
	args := m.Called(ctx, rule)
	return args.Error(0)
}

func (m *MockRuleRepository) DeleteRule(ctx context.Context, companyID, ruleID string) error {
	args := m.Called(ctx, companyID, ruleID)
	return args.Error(0)
}

func (m *MockRuleRepository) IncrementTriggerCount(ctx context.Context, companyID, ruleID string, triggeredAt time.Time) error {
	args := m.Called(ctx, companyID, ruleID, triggeredAt)
	return args.Error(0)
}

// MockSupplierMemoryRepository is a mock type for the SupplierMemoryRepositoryFacade interface
type MockSupplierMemoryRepository struct {
	mock.Mock
}

func (m *MockSupplierMemoryRepository) IsKnownSupplier(ctx context.Context, companyID, supplierName string) (bool, error) {
	args := m.Called(ctx, companyID, supplierName)
	return args.Bool(0), args.Error(1)
}

func (m *MockSupplierMemoryRepository) RecordSupplierSeen(ctx context.Context, companyID, supplierName string, approved bool, seenAt time.Time) error {
	args := m.Called(ctx, companyID, supplierName, approved, seenAt)
	return args.Error(0)
}

// --- Test Suite Setup ---

type ApprovalServiceTestSuite struct {
	suite.Suite
	mockRules    *MockRuleRepository
	mockSupplier *MockSupplierMemoryRepository
	service      portssvc.ApprovalSvcFacade
	companyID    string
}

func (suite *ApprovalServiceTestSuite) SetupTest() {
	suite.mockRules = new(MockRuleRepository)
	suite.mockSupplier = new(MockSupplierMemoryRepository)
	suite.service = services.NewApprovalService(suite.mockRules, suite.mockSupplier)
	suite.companyID = uuid.NewString()
}

// allowTriggerRecording tolerates the asynchronous trigger-count bump a
// winning rule produces.
func (suite *ApprovalServiceTestSuite) allowTriggerRecording() {
	suite.mockRules.On("IncrementTriggerCount", mock.Anything, suite.companyID, mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).Return(nil).Maybe()
}

// supplierUnknown stubs the supplier-memory lookup rules of type combined or
// known_supplier perform.
func (suite *ApprovalServiceTestSuite) supplierUnknown() {
	suite.mockSupplier.On("IsKnownSupplier", mock.Anything, suite.companyID, mock.AnythingOfType("string")).Return(false, nil).Maybe()
}

// allowSupplierRecording tolerates the asynchronous supplier-memory upsert
// every evaluation with a supplier name produces.
func (suite *ApprovalServiceTestSuite) allowSupplierRecording() {
	suite.mockSupplier.On("RecordSupplierSeen", mock.Anything, suite.companyID, mock.AnythingOfType("string"), mock.AnythingOfType("bool"), mock.AnythingOfType("time.Time")).Return(nil).Maybe()
}

func invoiceClassification(supplier string, amount string) domain.Classification {
	return domain.Classification{
		SupplierName: supplier,
		DocumentType: domain.DocumentInvoice,
		InvoiceDate:  time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		TotalAmount:  decimal.RequireFromString(amount),
		LineItems: []domain.LineItem{
			{Description: "line", Amount: decimal.RequireFromString(amount), SuggestedAccount: "6540"},
		},
	}
}

// --- Evaluation ---

func (suite *ApprovalServiceTestSuite) TestEvaluateRules_NoRulesDefaultsToReview() {
	ctx := context.Background()
	suite.mockRules.On("ListRulesByCompany", ctx, suite.companyID).Return([]domain.ApprovalRule{}, nil).Once()
	suite.allowSupplierRecording()

	result, err := suite.service.EvaluateRules(ctx, suite.companyID, invoiceClassification("Acme AB", "1000"), 0.9)

	suite.Require().NoError(err)
	suite.Equal(domain.ActionFlagForReview, result.FinalAction)
	suite.Empty(result.WinningRuleID)
	suite.Empty(result.Evaluations)
	suite.Contains(result.Summary, "no rule matched")
	suite.mockRules.AssertExpectations(suite.T())
}

func (suite *ApprovalServiceTestSuite) TestEvaluateRules_LowestPriorityWins() {
	ctx := context.Background()
	maxAmount := d("500")
	rules := []domain.ApprovalRule{
		{
			RuleID:     "rule-approve",
			Name:       "Auto-approve small invoices",
			RuleType:   domain.RuleAmountThreshold,
			IsEnabled:  true,
			Priority:   1,
			Conditions: domain.RuleConditions{MaxAmount: &maxAmount},
			Action:     domain.ActionAutoApprove,
		},
		{
			RuleID:    "rule-catchall",
			Name:      "Review everything",
			RuleType:  domain.RuleCombined,
			IsEnabled: true,
			Priority:  9,
			Action:    domain.ActionFlagForReview,
		},
	}
	suite.mockRules.On("ListRulesByCompany", ctx, suite.companyID).Return(rules, nil).Once()
	suite.allowTriggerRecording()
	suite.allowSupplierRecording()
	suite.supplierUnknown()

	result, err := suite.service.EvaluateRules(ctx, suite.companyID, invoiceClassification("Acme AB", "300"), 0.96)

	suite.Require().NoError(err)
	suite.Equal(domain.ActionAutoApprove, result.FinalAction)
	suite.Equal("rule-approve", result.WinningRuleID)

	// Both rules appear in the audit trail, matched or not.
	suite.Require().Len(result.Evaluations, 2)
	suite.True(result.Evaluations[0].Matched)
	suite.True(result.Evaluations[1].Matched, "the catch-all also matched, it just did not win")
	suite.mockRules.AssertExpectations(suite.T())
}

func (suite *ApprovalServiceTestSuite) TestEvaluateRules_ConfidenceFloorOverridesApproval() {
	ctx := context.Background()
	rules := []domain.ApprovalRule{
		{
			RuleID:    "rule-blanket",
			Name:      "Approve everything",
			RuleType:  domain.RuleAmountThreshold,
			IsEnabled: true,
			Priority:  0,
			Action:    domain.ActionAutoApprove,
		},
	}
	suite.mockRules.On("ListRulesByCompany", ctx, suite.companyID).Return(rules, nil).Once()
	suite.allowTriggerRecording()
	suite.allowSupplierRecording()

	result, err := suite.service.EvaluateRules(ctx, suite.companyID, invoiceClassification("Acme AB", "100"), 0.5)

	suite.Require().NoError(err)
	suite.Equal(domain.ActionFlagForReview, result.FinalAction, "confidence below the floor can never auto-approve")
	suite.Equal("rule-blanket", result.WinningRuleID, "the winning rule is still recorded")
	suite.Contains(result.Summary, "overridden to flag_for_review")
}

func (suite *ApprovalServiceTestSuite) TestEvaluateRules_ConfidenceFloorOverridesReject() {
	ctx := context.Background()
	rules := []domain.ApprovalRule{
		{
			RuleID:    "rule-reject-all",
			Name:      "Reject everything",
			RuleType:  domain.RuleAmountThreshold,
			IsEnabled: true,
			Priority:  0,
			Action:    domain.ActionReject,
		},
	}
	suite.mockRules.On("ListRulesByCompany", ctx, suite.companyID).Return(rules, nil).Once()
	suite.allowTriggerRecording()
	suite.allowSupplierRecording()

	result, err := suite.service.EvaluateRules(ctx, suite.companyID, invoiceClassification("Acme AB", "100"), 0.5)

	suite.Require().NoError(err)
	suite.Equal(domain.ActionFlagForReview, result.FinalAction, "the floor applies to every final action, not just approvals")
	suite.Equal("rule-reject-all", result.WinningRuleID)
	suite.Contains(result.Summary, "overridden to flag_for_review")
}

func (suite *ApprovalServiceTestSuite) TestEvaluateRules_RecordsSupplierSighting() {
	ctx := context.Background()
	rules := []domain.ApprovalRule{
		{
			RuleID:    "rule-blanket",
			Name:      "Approve everything",
			RuleType:  domain.RuleAmountThreshold,
			IsEnabled: true,
			Priority:  0,
			Action:    domain.ActionAutoApprove,
		},
	}
	suite.mockRules.On("ListRulesByCompany", ctx, suite.companyID).Return(rules, nil).Once()
	suite.allowTriggerRecording()

	recorded := make(chan struct{})
	suite.mockSupplier.On("RecordSupplierSeen", mock.Anything, suite.companyID, "Acme AB", true, mock.AnythingOfType("time.Time")).
		Run(func(args mock.Arguments) { close(recorded) }).
		Return(nil).Once()

	result, err := suite.service.EvaluateRules(ctx, suite.companyID, invoiceClassification("Acme AB", "100"), 0.95)
	suite.Require().NoError(err)
	suite.Equal(domain.ActionAutoApprove, result.FinalAction)

	select {
	case <-recorded:
	case <-time.After(2 * time.Second):
		suite.Fail("supplier sighting was never recorded")
	}
	suite.mockSupplier.AssertExpectations(suite.T())
}

func (suite *ApprovalServiceTestSuite) TestEvaluateRules_DisabledRuleSkipped() {
	ctx := context.Background()
	rules := []domain.ApprovalRule{
		{
			RuleID:    "rule-off",
			Name:      "Disabled approver",
			RuleType:  domain.RuleAmountThreshold,
			IsEnabled: false,
			Priority:  0,
			Action:    domain.ActionAutoApprove,
		},
	}
	suite.mockRules.On("ListRulesByCompany", ctx, suite.companyID).Return(rules, nil).Once()
	suite.allowSupplierRecording()

	result, err := suite.service.EvaluateRules(ctx, suite.companyID, invoiceClassification("Acme AB", "100"), 0.95)

	suite.Require().NoError(err)
	suite.Equal(domain.ActionFlagForReview, result.FinalAction)
	suite.Require().Len(result.Evaluations, 1)
	suite.False(result.Evaluations[0].Matched)
	suite.Equal("rule disabled", result.Evaluations[0].Reason)
}

func (suite *ApprovalServiceTestSuite) TestEvaluateRules_SupplierWhitelistAndAccounts() {
	ctx := context.Background()
	rules := []domain.ApprovalRule{
		{
			RuleID:    "rule-cloud",
			Name:      "Cloud vendors",
			RuleType:  domain.RuleSupplierWhitelist,
			IsEnabled: true,
			Priority:  3,
			Conditions: domain.RuleConditions{
				Suppliers:       []string{"Amazon Web Services", "GitHub"},
				AllowedAccounts: []string{"5420", "6540"},
			},
			Action: domain.ActionAutoApprove,
		},
	}
	suite.mockRules.On("ListRulesByCompany", ctx, suite.companyID).Return(rules, nil).Twice()
	suite.allowTriggerRecording()
	suite.allowSupplierRecording()

	// Supplier on the list, account allowed.
	result, err := suite.service.EvaluateRules(ctx, suite.companyID, invoiceClassification("Amazon Web Services EMEA SARL", "890"), 0.9)
	suite.Require().NoError(err)
	suite.Equal(domain.ActionAutoApprove, result.FinalAction)

	// Supplier not on the list.
	result, err = suite.service.EvaluateRules(ctx, suite.companyID, invoiceClassification("Unknown Vendor AB", "890"), 0.9)
	suite.Require().NoError(err)
	suite.Equal(domain.ActionFlagForReview, result.FinalAction)
}

func (suite *ApprovalServiceTestSuite) TestEvaluateRules_SupplierPatternRegex() {
	ctx := context.Background()
	rules := []domain.ApprovalRule{
		{
			RuleID:     "rule-pattern",
			Name:       "Telia invoices",
			RuleType:   domain.RuleSupplierWhitelist,
			IsEnabled:  true,
			Priority:   1,
			Conditions: domain.RuleConditions{SupplierPattern: `^telia\b`},
			Action:     domain.ActionAutoApprove,
		},
	}
	suite.mockRules.On("ListRulesByCompany", ctx, suite.companyID).Return(rules, nil).Once()
	suite.allowTriggerRecording()
	suite.allowSupplierRecording()

	// Pattern matching is case-insensitive.
	result, err := suite.service.EvaluateRules(ctx, suite.companyID, invoiceClassification("Telia Sverige AB", "450"), 0.92)
	suite.Require().NoError(err)
	suite.Equal(domain.ActionAutoApprove, result.FinalAction)
}

func (suite *ApprovalServiceTestSuite) TestEvaluateRules_LowConfidenceCatchRule() {
	ctx := context.Background()
	minConfZero := 0.0
	rules := []domain.ApprovalRule{
		{
			RuleID:     "rule-low-conf",
			Name:       "Flag low confidence",
			RuleType:   domain.RuleConfidenceThreshold,
			IsEnabled:  true,
			Priority:   0,
			Conditions: domain.RuleConditions{MinConfidence: &minConfZero},
			Action:     domain.ActionFlagForReview,
		},
	}
	suite.mockRules.On("ListRulesByCompany", ctx, suite.companyID).Return(rules, nil).Twice()
	suite.allowTriggerRecording()
	suite.allowSupplierRecording()

	// Below the floor: the catch rule fires.
	result, err := suite.service.EvaluateRules(ctx, suite.companyID, invoiceClassification("Acme AB", "100"), 0.4)
	suite.Require().NoError(err)
	suite.Equal("rule-low-conf", result.WinningRuleID)

	// Above the floor: the catch rule stays quiet.
	result, err = suite.service.EvaluateRules(ctx, suite.companyID, invoiceClassification("Acme AB", "100"), 0.85)
	suite.Require().NoError(err)
	suite.Empty(result.WinningRuleID)
	suite.False(result.Evaluations[0].Matched)
}

func (suite *ApprovalServiceTestSuite) TestEvaluateRules_KnownSupplierCondition() {
	ctx := context.Background()
	rules := []domain.ApprovalRule{
		{
			RuleID:    "rule-known",
			Name:      "Known supplier approvals",
			RuleType:  domain.RuleKnownSupplier,
			IsEnabled: true,
			Priority:  2,
			Action:    domain.ActionAutoApprove,
		},
	}
	suite.mockRules.On("ListRulesByCompany", ctx, suite.companyID).Return(rules, nil).Twice()
	suite.mockSupplier.On("IsKnownSupplier", ctx, suite.companyID, "Trusted AB").Return(true, nil).Once()
	suite.mockSupplier.On("IsKnownSupplier", ctx, suite.companyID, "Stranger AB").Return(false, nil).Once()
	suite.allowTriggerRecording()
	suite.allowSupplierRecording()

	result, err := suite.service.EvaluateRules(ctx, suite.companyID, invoiceClassification("Trusted AB", "900"), 0.9)
	suite.Require().NoError(err)
	suite.Equal(domain.ActionAutoApprove, result.FinalAction)
	suite.True(result.IsKnownSupplier)

	result, err = suite.service.EvaluateRules(ctx, suite.companyID, invoiceClassification("Stranger AB", "900"), 0.9)
	suite.Require().NoError(err)
	suite.Equal(domain.ActionFlagForReview, result.FinalAction)
	suite.False(result.IsKnownSupplier)
	suite.mockSupplier.AssertExpectations(suite.T())
}

func (suite *ApprovalServiceTestSuite) TestEvaluateRules_SupplierLookupFailureTreatedAsUnknown() {
	ctx := context.Background()
	rules := []domain.ApprovalRule{
		{
			RuleID:    "rule-known",
			Name:      "Known supplier approvals",
			RuleType:  domain.RuleKnownSupplier,
			IsEnabled: true,
			Priority:  2,
			Action:    domain.ActionAutoApprove,
		},
	}
	suite.mockRules.On("ListRulesByCompany", ctx, suite.companyID).Return(rules, nil).Once()
	suite.mockSupplier.On("IsKnownSupplier", ctx, suite.companyID, "Acme AB").Return(false, assert.AnError).Once()
	suite.allowSupplierRecording()

	result, err := suite.service.EvaluateRules(ctx, suite.companyID, invoiceClassification("Acme AB", "100"), 0.95)

	suite.Require().NoError(err, "a broken supplier lookup must not fail the evaluation")
	suite.Equal(domain.ActionFlagForReview, result.FinalAction)
	suite.False(result.IsKnownSupplier)
}

func (suite *ApprovalServiceTestSuite) TestEvaluateRules_RepositoryFailureIsSafe() {
	ctx := context.Background()
	suite.mockRules.On("ListRulesByCompany", ctx, suite.companyID).Return(nil, assert.AnError).Once()
	suite.allowSupplierRecording()

	result, err := suite.service.EvaluateRules(ctx, suite.companyID, invoiceClassification("Acme AB", "100"), 0.95)

	suite.Require().NoError(err, "a broken rule store must not block the pipeline")
	suite.Equal(domain.ActionFlagForReview, result.FinalAction)
}

func (suite *ApprovalServiceTestSuite) TestEvaluateRules_OrCombinator() {
	ctx := context.Background()
	maxAmount := d("100")
	rules := []domain.ApprovalRule{
		{
			RuleID:    "rule-or",
			Name:      "Small or whitelisted",
			RuleType:  domain.RuleCombined,
			IsEnabled: true,
			Priority:  1,
			Conditions: domain.RuleConditions{
				MaxAmount:  &maxAmount,
				Suppliers:  []string{"GitHub"},
				Combinator: domain.CombinatorOr,
			},
			Action: domain.ActionAutoApprove,
		},
	}
	suite.mockRules.On("ListRulesByCompany", ctx, suite.companyID).Return(rules, nil).Once()
	suite.allowTriggerRecording()
	suite.allowSupplierRecording()
	suite.supplierUnknown()

	// Amount fails but the supplier check passes; OR matches.
	result, err := suite.service.EvaluateRules(ctx, suite.companyID, invoiceClassification("GitHub Inc", "5000"), 0.9)
	suite.Require().NoError(err)
	suite.Equal(domain.ActionAutoApprove, result.FinalAction)
}

func (suite *ApprovalServiceTestSuite) TestEvaluateRules_RecordsTrigger() {
	ctx := context.Background()
	rules := []domain.ApprovalRule{
		{
			RuleID:    "rule-win",
			Name:      "Catch-all review",
			RuleType:  domain.RuleCombined,
			IsEnabled: true,
			Priority:  0,
			Action:    domain.ActionFlagForReview,
		},
	}
	suite.mockRules.On("ListRulesByCompany", ctx, suite.companyID).Return(rules, nil).Once()
	suite.supplierUnknown()
	suite.allowSupplierRecording()

	triggered := make(chan struct{})
	suite.mockRules.On("IncrementTriggerCount", mock.Anything, suite.companyID, "rule-win", mock.AnythingOfType("time.Time")).
		Run(func(args mock.Arguments) { close(triggered) }).
		Return(nil).Once()

	_, err := suite.service.EvaluateRules(ctx, suite.companyID, invoiceClassification("Acme AB", "100"), 0.9)
	suite.Require().NoError(err)

	select {
	case <-triggered:
	case <-time.After(2 * time.Second):
		suite.Fail("trigger count was never recorded")
	}
	suite.mockRules.AssertExpectations(suite.T())
}

// --- Configuration ---

func (suite *ApprovalServiceTestSuite) TestCreateRule_Success() {
	ctx := context.Background()
	userID := uuid.NewString()

	suite.mockRules.On("SaveRule", ctx, mock.AnythingOfType("domain.ApprovalRule")).Return(nil).Once()

	rule, err := suite.service.CreateRule(ctx, suite.companyID, dto.CreateRuleRequest{
		Name:     "My rule",
		RuleType: domain.RuleAmountThreshold,
		Priority: 5,
		Action:   domain.ActionFlagForReview,
	}, userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(rule)
	suite.NotEmpty(rule.RuleID)
	suite.Equal(suite.companyID, rule.CompanyID)
	suite.True(rule.IsEnabled, "rules default to enabled")
	suite.Equal(userID, rule.CreatedBy)
	suite.mockRules.AssertExpectations(suite.T())
}

func (suite *ApprovalServiceTestSuite) TestCreateRule_RejectsBadPattern() {
	ctx := context.Background()

	rule, err := suite.service.CreateRule(ctx, suite.companyID, dto.CreateRuleRequest{
		Name:       "Broken",
		RuleType:   domain.RuleSupplierWhitelist,
		Conditions: domain.RuleConditions{SupplierPattern: "("},
		Action:     domain.ActionAutoApprove,
	}, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(rule)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRules.AssertNotCalled(suite.T(), "SaveRule", mock.Anything, mock.Anything)
}

func (suite *ApprovalServiceTestSuite) TestUpdateRule_PartialUpdate() {
	ctx := context.Background()
	existing := &domain.ApprovalRule{
		RuleID:    "rule-1",
		CompanyID: suite.companyID,
		Name:      "Old name",
		RuleType:  domain.RuleAmountThreshold,
		IsEnabled: true,
		Priority:  5,
		Action:    domain.ActionFlagForReview,
	}
	suite.mockRules.On("FindRuleByID", ctx, suite.companyID, "rule-1").Return(existing, nil).Once()
	suite.mockRules.On("UpdateRule", ctx, mock.AnythingOfType("domain.ApprovalRule")).Return(nil).Once()

	newName := "New name"
	disabled := false
	updated, err := suite.service.UpdateRule(ctx, suite.companyID, "rule-1", dto.UpdateRuleRequest{
		Name:      &newName,
		IsEnabled: &disabled,
	}, uuid.NewString())

	suite.Require().NoError(err)
	suite.Equal("New name", updated.Name)
	suite.False(updated.IsEnabled)
	suite.Equal(5, updated.Priority, "untouched fields stay as they were")
	suite.mockRules.AssertExpectations(suite.T())
}

func (suite *ApprovalServiceTestSuite) TestUpdateRule_NotFound() {
	ctx := context.Background()
	suite.mockRules.On("FindRuleByID", ctx, suite.companyID, "missing").Return(nil, apperrors.ErrNotFound).Once()

	updated, err := suite.service.UpdateRule(ctx, suite.companyID, "missing", dto.UpdateRuleRequest{}, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(updated)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *ApprovalServiceTestSuite) TestSeedDefaultRules_Idempotent() {
	ctx := context.Background()
	existing := []domain.ApprovalRule{{RuleID: "already-here"}}
	suite.mockRules.On("ListRulesByCompany", ctx, suite.companyID).Return(existing, nil).Once()

	seeded, err := suite.service.SeedDefaultRules(ctx, suite.companyID, uuid.NewString())

	suite.Require().NoError(err)
	suite.Equal(existing, seeded, "seeding a company with rules returns the existing set")
	suite.mockRules.AssertNotCalled(suite.T(), "SaveRule", mock.Anything, mock.Anything)
}

func (suite *ApprovalServiceTestSuite) TestSeedDefaultRules_InstallsDefaults() {
	ctx := context.Background()
	userID := uuid.NewString()
	suite.mockRules.On("ListRulesByCompany", ctx, suite.companyID).Return([]domain.ApprovalRule{}, nil).Once()
	suite.mockRules.On("SaveRule", ctx, mock.AnythingOfType("domain.ApprovalRule")).Return(nil).Times(5)

	seeded, err := suite.service.SeedDefaultRules(ctx, suite.companyID, userID)

	suite.Require().NoError(err)
	suite.Require().Len(seeded, 5)
	for _, rule := range seeded {
		suite.NotEmpty(rule.RuleID)
		suite.Equal(suite.companyID, rule.CompanyID)
		suite.True(rule.IsEnabled)
		suite.Equal(userID, rule.CreatedBy)
	}
	// The safety rules sit at priority 0, ahead of every approval rule.
	suite.Equal(0, seeded[0].Priority)
	suite.Equal(domain.ActionFlagForReview, seeded[0].Action)
	suite.mockRules.AssertExpectations(suite.T())
}

func TestApprovalServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ApprovalServiceTestSuite))
}
