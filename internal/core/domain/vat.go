package domain

import "github.com/shopspring/decimal"

// VatRateCategory classifies a Swedish VAT rate bracket.
type VatRateCategory string

const (
	VatStandard VatRateCategory = "standard" // 25%
	VatReduced  VatRateCategory = "reduced"  // 12% - restaurant, hotel, food
	VatLow      VatRateCategory = "low"      // 6% - books, culture, passenger transit
	VatZero     VatRateCategory = "zero"     // 0% - export, healthcare, education, insurance
)

// ReverseChargeType identifies why the buyer, not the seller, reports the VAT.
type ReverseChargeType string

const (
	ReverseChargeNone         ReverseChargeType = "none"
	ReverseChargeConstruction ReverseChargeType = "construction"
	ReverseChargeEUGoods      ReverseChargeType = "eu_goods"
	ReverseChargeEUService    ReverseChargeType = "eu_service"
)

// Canonical Swedish VAT rates. All rate detection snaps to one of these four.
var (
	VatRateStandard = decimal.NewFromFloat(0.25)
	VatRateReduced  = decimal.NewFromFloat(0.12)
	VatRateLow      = decimal.NewFromFloat(0.06)
	VatRateZero     = decimal.Zero
)

// BAS chart-of-accounts codes used by the VAT calculator.
const (
	AccountInputVat          = "2641" // Ingående moms
	AccountInputVatReverse   = "2645" // Ingående moms, omvänd skattskyldighet
	AccountOutputVatReverse  = "2614" // Utgående moms, omvänd skattskyldighet 25%
	AccountPrepaidExpenses   = "1790" // Övriga förutbetalda kostnader
	AccountPrepaidRent       = "1710" // Förutbetald hyra
	AccountPrepaidLeasing    = "1720" // Förutbetalda leasingavgifter
	AccountPrepaidInsurance  = "1730" // Förutbetalda försäkringspremier
	AccountAccruedExpenses   = "2990" // Upplupna kostnader
	AccountAccruedIncome     = "1790"
	AccountPrepaidIncome     = "2970" // Förutbetalda intäkter
	AccountTradePayables     = "2440" // Leverantörsskulder
)

// RateForCategory returns the canonical rate for a category.
func RateForCategory(category VatRateCategory) decimal.Decimal {
	switch category {
	case VatReduced:
		return VatRateReduced
	case VatLow:
		return VatRateLow
	case VatZero:
		return VatRateZero
	default:
		return VatRateStandard
	}
}

// CategoryForRate returns the category whose canonical rate is closest to the
// given rate.
func CategoryForRate(rate decimal.Decimal) VatRateCategory {
	categories := []VatRateCategory{VatStandard, VatReduced, VatLow, VatZero}
	closest := VatStandard
	closestDiff := rate.Sub(VatRateStandard).Abs()
	for _, cat := range categories[1:] {
		diff := rate.Sub(RateForCategory(cat)).Abs()
		if diff.LessThan(closestDiff) {
			closest = cat
			closestDiff = diff
		}
	}
	return closest
}

// VatCalculation is the enriched VAT result for one classified document.
//
// Invariant: GrossAmount = NetAmount + VatAmount. For reverse-charge documents
// VatAmount is zero on the face of the invoice and AdditionalLines carries the
// mirrored input/output legs at the standard rate.
type VatCalculation struct {
	NetAmount         decimal.Decimal   `json:"netAmount"`
	VatAmount         decimal.Decimal   `json:"vatAmount"`
	GrossAmount       decimal.Decimal   `json:"grossAmount"`
	VatRate           decimal.Decimal   `json:"vatRate"`
	RateCategory      VatRateCategory   `json:"rateCategory"`
	VatAccount        string            `json:"vatAccount,omitempty"`
	IsReverseCharge   bool              `json:"isReverseCharge"`
	ReverseChargeType ReverseChargeType `json:"reverseChargeType"`
	IsEUPurchase      bool              `json:"isEUPurchase"`
	IsConstruction    bool              `json:"isConstruction"`
	AdditionalLines   []VoucherLine     `json:"additionalLines,omitempty"`
}

// VatValidation is the outcome of checking a stated VAT amount against the
// closest canonical rate.
type VatValidation struct {
	IsValid      bool            `json:"isValid"`
	ImpliedRate  decimal.Decimal `json:"impliedRate"`
	ClosestRate  decimal.Decimal `json:"closestRate"`
	RateCategory VatRateCategory `json:"rateCategory"`
	ExpectedVat  decimal.Decimal `json:"expectedVat"`
	Difference   decimal.Decimal `json:"difference"`
}
