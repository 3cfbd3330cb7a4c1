package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/AIFMgroup/AIFM-sub010/internal/core/domain"
	portssvc "github.com/AIFMgroup/AIFM-sub010/internal/core/ports/services"
	"github.com/AIFMgroup/AIFM-sub010/internal/dto"
	"github.com/AIFMgroup/AIFM-sub010/internal/handlers"
	"github.com/AIFMgroup/AIFM-sub010/internal/middleware"
	"github.com/AIFMgroup/AIFM-sub010/pkg/config"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock VatService ---
type MockVatService struct {
	mock.Mock
}

func (m *MockVatService) CalculateCompleteVat(req dto.CalculateVatRequest) domain.VatCalculation {
	args := m.Called(req)
	return args.Get(0).(domain.VatCalculation)
}

func (m *MockVatService) CalculateVatFromGross(gross, rate decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	args := m.Called(gross, rate)
	return args.Get(0).(decimal.Decimal), args.Get(1).(decimal.Decimal)
}

func (m *MockVatService) CalculateVatFromNet(net, rate decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	args := m.Called(net, rate)
	return args.Get(0).(decimal.Decimal), args.Get(1).(decimal.Decimal)
}

func (m *MockVatService) DetectVatRate(description, supplierName string) domain.VatRateCategory {
	args := m.Called(description, supplierName)
	return args.Get(0).(domain.VatRateCategory)
}

func (m *MockVatService) DetectReverseCharge(description, supplierName, supplierCountry string) domain.ReverseChargeType {
	args := m.Called(description, supplierName, supplierCountry)
	return args.Get(0).(domain.ReverseChargeType)
}

func (m *MockVatService) GenerateVatVoucherLines(calc domain.VatCalculation, costAccount, description string) []domain.VoucherLine {
	args := m.Called(calc, costAccount, description)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]domain.VoucherLine)
}

func (m *MockVatService) ValidateVatAmount(net, vat, gross decimal.Decimal, tolerance *decimal.Decimal) domain.VatValidation {
	args := m.Called(net, vat, gross, tolerance)
	return args.Get(0).(domain.VatValidation)
}

// Ensure mock implements the interface
var _ portssvc.VatSvcFacade = (*MockVatService)(nil)

// --- Test Suite ---
type VatHandlerTestSuite struct {
	suite.Suite
	router         *gin.Engine
	mockVatService *MockVatService
	jwtSecret      string
}

// generateTestToken creates a dummy JWT for testing.
func (suite *VatHandlerTestSuite) generateTestToken(userID, companyID string) string {
	claims := middleware.AuthClaims{
		CompanyID: companyID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "aifm-test",
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

func (suite *VatHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"

	suite.mockVatService = new(MockVatService)

	cfg := &config.Config{JWTSecret: suite.jwtSecret, IsProduction: true}
	handlers.RegisterRoutes(suite.router, cfg, &portssvc.ServiceContainer{
		Vat: suite.mockVatService,
	})
}

func (suite *VatHandlerTestSuite) authorizedRequest(method, url string, body any) *http.Request {
	payload, err := json.Marshal(body)
	suite.Require().NoError(err)
	req, _ := http.NewRequest(method, url, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(uuid.NewString(), uuid.NewString()))
	return req
}

// --- Test Cases ---

func (suite *VatHandlerTestSuite) TestCalculateVat_Success() {
	reqBody := dto.CalculateVatRequest{
		Amount:        decimal.NewFromInt(1250),
		AmountIsGross: true,
		Description:   "Kontorshyra november",
	}
	expected := domain.VatCalculation{
		NetAmount:         decimal.NewFromInt(1000),
		VatAmount:         decimal.NewFromInt(250),
		GrossAmount:       decimal.NewFromInt(1250),
		VatRate:           domain.VatRateStandard,
		RateCategory:      domain.VatStandard,
		VatAccount:        domain.AccountInputVat,
		ReverseChargeType: domain.ReverseChargeNone,
	}

	suite.mockVatService.On("CalculateCompleteVat", mock.MatchedBy(func(r dto.CalculateVatRequest) bool {
		return r.Amount.Equal(reqBody.Amount) && r.AmountIsGross && r.Description == reqBody.Description
	})).Return(expected, nil).Once()

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, suite.authorizedRequest(http.MethodPost, "/api/v1/vat/calculate", reqBody))

	suite.Equal(http.StatusOK, w.Code)

	var got domain.VatCalculation
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &got))
	suite.True(expected.NetAmount.Equal(got.NetAmount))
	suite.True(expected.VatAmount.Equal(got.VatAmount))
	suite.Equal(domain.VatStandard, got.RateCategory)
	suite.Equal(domain.AccountInputVat, got.VatAccount)

	suite.mockVatService.AssertExpectations(suite.T())
}

func (suite *VatHandlerTestSuite) TestCalculateVat_MissingAmount() {
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, suite.authorizedRequest(http.MethodPost, "/api/v1/vat/calculate", gin.H{
		"description": "Kontorshyra november",
	}))

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockVatService.AssertNotCalled(suite.T(), "CalculateCompleteVat")
}

func (suite *VatHandlerTestSuite) TestCalculateVat_Unauthorized() {
	payload, _ := json.Marshal(dto.CalculateVatRequest{Amount: decimal.NewFromInt(100)})
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/vat/calculate", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockVatService.AssertNotCalled(suite.T(), "CalculateCompleteVat")
}

func (suite *VatHandlerTestSuite) TestCalculateVat_BadToken() {
	payload, _ := json.Marshal(dto.CalculateVatRequest{Amount: decimal.NewFromInt(100)})
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/vat/calculate", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer not-a-token")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockVatService.AssertNotCalled(suite.T(), "CalculateCompleteVat")
}

func (suite *VatHandlerTestSuite) TestGenerateVoucherLines_Balanced() {
	reqBody := dto.VoucherLinesRequest{
		CalculateVatRequest: dto.CalculateVatRequest{
			Amount:        decimal.NewFromInt(1250),
			AmountIsGross: true,
			Description:   "Kontorsmaterial",
		},
		CostAccount: "6110",
	}
	calc := domain.VatCalculation{
		NetAmount:         decimal.NewFromInt(1000),
		VatAmount:         decimal.NewFromInt(250),
		GrossAmount:       decimal.NewFromInt(1250),
		VatRate:           domain.VatRateStandard,
		RateCategory:      domain.VatStandard,
		VatAccount:        domain.AccountInputVat,
		ReverseChargeType: domain.ReverseChargeNone,
	}
	lines := []domain.VoucherLine{
		domain.NewDebitLine("6110", decimal.NewFromInt(1000), "Kontorsmaterial"),
		domain.NewDebitLine(domain.AccountInputVat, decimal.NewFromInt(250), "Ingående moms"),
	}

	suite.mockVatService.On("CalculateCompleteVat", mock.AnythingOfType("dto.CalculateVatRequest")).Return(calc, nil).Once()
	suite.mockVatService.On("GenerateVatVoucherLines", calc, "6110", "Kontorsmaterial").Return(lines, nil).Once()

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, suite.authorizedRequest(http.MethodPost, "/api/v1/vat/voucher-lines", reqBody))

	suite.Equal(http.StatusOK, w.Code)

	var resp struct {
		Calculation domain.VatCalculation `json:"calculation"`
		Lines       []domain.VoucherLine  `json:"lines"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	// The handler appends the trade payables credit for the gross amount.
	suite.Require().Len(resp.Lines, 3)
	suite.Equal(domain.AccountTradePayables, resp.Lines[2].Account)
	suite.True(resp.Lines[2].Credit.Equal(decimal.NewFromInt(1250)))

	suite.mockVatService.AssertExpectations(suite.T())
}

func (suite *VatHandlerTestSuite) TestGenerateVoucherLines_UnbalancedIsRejected() {
	reqBody := dto.VoucherLinesRequest{
		CalculateVatRequest: dto.CalculateVatRequest{
			Amount:        decimal.NewFromInt(1250),
			AmountIsGross: true,
		},
		CostAccount: "6110",
	}
	calc := domain.VatCalculation{
		NetAmount:   decimal.NewFromInt(1000),
		VatAmount:   decimal.NewFromInt(250),
		GrossAmount: decimal.NewFromInt(1250),
	}
	// Net debit missing, so lines cannot balance against the gross credit.
	lines := []domain.VoucherLine{
		domain.NewDebitLine(domain.AccountInputVat, decimal.NewFromInt(250), "Ingående moms"),
	}

	suite.mockVatService.On("CalculateCompleteVat", mock.AnythingOfType("dto.CalculateVatRequest")).Return(calc, nil).Once()
	suite.mockVatService.On("GenerateVatVoucherLines", calc, "6110", "").Return(lines, nil).Once()

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, suite.authorizedRequest(http.MethodPost, "/api/v1/vat/voucher-lines", reqBody))

	suite.Equal(http.StatusInternalServerError, w.Code)
	suite.mockVatService.AssertExpectations(suite.T())
}

func (suite *VatHandlerTestSuite) TestGenerateVoucherLines_MissingCostAccount() {
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, suite.authorizedRequest(http.MethodPost, "/api/v1/vat/voucher-lines", gin.H{
		"amount": "1250",
	}))

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockVatService.AssertNotCalled(suite.T(), "GenerateVatVoucherLines")
}

func (suite *VatHandlerTestSuite) TestValidateVat_Success() {
	reqBody := dto.ValidateVatRequest{
		NetAmount:   decimal.NewFromInt(1000),
		VatAmount:   decimal.NewFromInt(250),
		GrossAmount: decimal.NewFromInt(1250),
	}
	expected := domain.VatValidation{
		IsValid:      true,
		ImpliedRate:  domain.VatRateStandard,
		ClosestRate:  domain.VatRateStandard,
		RateCategory: domain.VatStandard,
		ExpectedVat:  decimal.NewFromInt(250),
		Difference:   decimal.Zero,
	}

	suite.mockVatService.On("ValidateVatAmount",
		mock.AnythingOfType("decimal.Decimal"),
		mock.AnythingOfType("decimal.Decimal"),
		mock.AnythingOfType("decimal.Decimal"),
		(*decimal.Decimal)(nil),
	).Return(expected, nil).Once()

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, suite.authorizedRequest(http.MethodPost, "/api/v1/vat/validate", reqBody))

	suite.Equal(http.StatusOK, w.Code)

	var got domain.VatValidation
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &got))
	suite.True(got.IsValid)
	suite.Equal(domain.VatStandard, got.RateCategory)

	suite.mockVatService.AssertExpectations(suite.T())
}

func TestVatHandlerSuite(t *testing.T) {
	suite.Run(t, new(VatHandlerTestSuite))
}
