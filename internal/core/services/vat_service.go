package services

import (
	"strings"

	"github.com/AIFMgroup/AIFM-sub010/internal/core/domain"
	portssvc "github.com/AIFMgroup/AIFM-sub010/internal/core/ports/services"
	"github.com/AIFMgroup/AIFM-sub010/internal/dto"
	"github.com/shopspring/decimal"
)

// rateKeywordGroup pairs a keyword list with the VAT category it implies.
// Groups are evaluated in order; the first hit wins, so more specific groups
// must come before more generic ones.
type rateKeywordGroup struct {
	keywords []string
	category domain.VatRateCategory
}

// Ordered rate detection table. Reverse-charge detection runs before this
// table is ever consulted, so construction/EU hints do not appear here.
var rateKeywordGroups = []rateKeywordGroup{
	{
		// 12% - restaurant, hotel, foodstuffs
		keywords: []string{
			"restaurang", "restaurant", "hotell", "hotel", "catering",
			"livsmedel", "matvaror", "lunch", "middag", "frukost",
			"konferens", "fika",
		},
		category: domain.VatReduced,
	},
	{
		// 6% - books, culture, passenger transit
		keywords: []string{
			"böcker", "litteratur", "tidskrift", "tidning", "dagstidning",
			"bokförlag", "kultur", "konsert", "teater", "bio", "museum",
			"persontransport", "kollektivtrafik", "taxi", "tågbiljett",
			"tågresa", "bussbiljett", "flygbiljett", "sl-kort",
		},
		category: domain.VatLow,
	},
	{
		// 0% - export and VAT-exempt supplies
		keywords: []string{
			"export", "sjukvård", "tandvård", "healthcare", "hälsovård",
			"utbildning", "education", "kurs", "skola", "försäkring",
			"insurance", "försäkringspremie", "bankavgift", "räntekostnad",
			"finansiell tjänst",
		},
		category: domain.VatZero,
	},
}

// Construction-service keywords triggering domestic reverse charge
// (omvänd byggmoms). Checked before any EU-country heuristics.
var constructionKeywords = []string{
	"byggtjänst", "byggarbete", "byggnadsarbete", "markarbete", "rivning",
	"vvs-arbete", "elinstallation", "omvänd byggmoms", "byggstädning",
	"construction service", "byggentreprenad",
}

// Explicit reverse-charge phrasing on the invoice face.
var reverseChargePhrases = []string{
	"reverse charge", "omvänd skattskyldighet", "omvänd betalningsskyldighet",
	"omvänd moms", "vat reverse",
}

// Keywords suggesting the supply is a service rather than goods. Used to pick
// between eu_service and eu_goods once an EU supplier is detected.
var serviceKeywords = []string{
	"subscription", "prenumeration", "license", "licens", "saas", "cloud",
	"software", "mjukvara", "hosting", "support", "consulting", "konsult",
	"tjänst", "service", "advertising", "annonsering", "marketing",
}

// EU member states (Sweden excluded - a Swedish supplier is domestic), by
// English name, native name and ISO 3166-1 alpha-2 code.
var euCountries = map[string]bool{
	"austria": true, "österreich": true, "at": true,
	"belgium": true, "belgien": true, "be": true,
	"bulgaria": true, "bulgarien": true, "bg": true,
	"croatia": true, "kroatien": true, "hr": true,
	"cyprus": true, "cypern": true, "cy": true,
	"czech republic": true, "czechia": true, "tjeckien": true, "cz": true,
	"denmark": true, "danmark": true, "dk": true,
	"estonia": true, "estland": true, "ee": true,
	"finland": true, "fi": true,
	"france": true, "frankrike": true, "fr": true,
	"germany": true, "tyskland": true, "deutschland": true, "de": true,
	"greece": true, "grekland": true, "gr": true, "el": true,
	"hungary": true, "ungern": true, "hu": true,
	"ireland": true, "irland": true, "ie": true,
	"italy": true, "italien": true, "it": true,
	"latvia": true, "lettland": true, "lv": true,
	"lithuania": true, "litauen": true, "lt": true,
	"luxembourg": true, "luxemburg": true, "lu": true,
	"malta": true, "mt": true,
	"netherlands": true, "nederländerna": true, "holland": true, "nl": true,
	"poland": true, "polen": true, "pl": true,
	"portugal": true, "pt": true,
	"romania": true, "rumänien": true, "ro": true,
	"slovakia": true, "slovakien": true, "sk": true,
	"slovenia": true, "slovenien": true, "si": true,
	"spain": true, "spanien": true, "es": true,
}

// rateSnapTolerance is how far an explicit rate may sit from a canonical rate
// and still snap to it.
var rateSnapTolerance = decimal.NewFromFloat(0.005)

var one = decimal.NewFromInt(1)

// vatService implements the Swedish VAT calculator. It is stateless and never
// returns an error: unrecognized input degrades to the standard 25% rate with
// reverse charge off, leaving uncertainty signaling to the caller's confidence
// score.
type vatService struct{}

// NewVatService creates the VAT calculator service.
func NewVatService() portssvc.VatSvcFacade {
	return &vatService{}
}

var _ portssvc.VatSvcFacade = (*vatService)(nil)

// DetectReverseCharge checks, in order: construction keywords, explicit
// reverse-charge phrasing, then EU supplier country combined with a
// service/goods heuristic. The order is load-bearing: a German construction
// invoice is construction reverse charge, not eu_service.
func (s *vatService) DetectReverseCharge(description, supplierName, supplierCountry string) domain.ReverseChargeType {
	text := strings.ToLower(description + " " + supplierName)

	for _, kw := range constructionKeywords {
		if strings.Contains(text, kw) {
			return domain.ReverseChargeConstruction
		}
	}

	for _, phrase := range reverseChargePhrases {
		if strings.Contains(text, phrase) {
			return domain.ReverseChargeEUService
		}
	}

	if euCountries[strings.ToLower(strings.TrimSpace(supplierCountry))] {
		for _, kw := range serviceKeywords {
			if strings.Contains(text, kw) {
				return domain.ReverseChargeEUService
			}
		}
		return domain.ReverseChargeEUGoods
	}

	return domain.ReverseChargeNone
}

// DetectVatRate scans the document text against the ordered keyword table and
// returns the first matching category, defaulting to standard 25%.
func (s *vatService) DetectVatRate(description, supplierName string) domain.VatRateCategory {
	text := strings.ToLower(description + " " + supplierName)

	for _, group := range rateKeywordGroups {
		for _, kw := range group.keywords {
			if strings.Contains(text, kw) {
				return group.category
			}
		}
	}
	return domain.VatStandard
}

// snapExplicitRate snaps a caller-supplied rate to the nearest canonical rate
// within tolerance. Rates above 1 are read as percentages. Returns standard
// when nothing is close enough.
func snapExplicitRate(rate decimal.Decimal) domain.VatRateCategory {
	if rate.GreaterThan(one) {
		rate = rate.Div(decimal.NewFromInt(100))
	}
	for _, cat := range []domain.VatRateCategory{domain.VatStandard, domain.VatReduced, domain.VatLow, domain.VatZero} {
		if rate.Sub(domain.RateForCategory(cat)).Abs().LessThanOrEqual(rateSnapTolerance) {
			return cat
		}
	}
	return domain.VatStandard
}

// CalculateVatFromGross splits a gross amount: vat = gross * r/(1+r), rounded
// per line to two decimals so every amount is postable as-is.
func (s *vatService) CalculateVatFromGross(gross, rate decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	if rate.IsZero() {
		return gross, decimal.Zero
	}
	vat := gross.Mul(rate).Div(one.Add(rate)).Round(2)
	net := gross.Sub(vat)
	return net, vat
}

// CalculateVatFromNet computes vat = net * r rounded to two decimals and the
// resulting gross.
func (s *vatService) CalculateVatFromNet(net, rate decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	vat := net.Mul(rate).Round(2)
	gross := net.Add(vat)
	return vat, gross
}

// CalculateCompleteVat runs reverse-charge detection first, then rate
// detection and the amount split. For reverse-charge documents no input VAT is
// charged on the face of the invoice: net equals the input amount and the
// mirrored 25% input/output legs go into AdditionalLines (Swedish convention:
// always the standard rate, regardless of the goods' natural rate).
func (s *vatService) CalculateCompleteVat(req dto.CalculateVatRequest) domain.VatCalculation {
	rcType := s.DetectReverseCharge(req.Description, req.SupplierName, req.SupplierCountry)
	if rcType != domain.ReverseChargeNone {
		net := req.Amount.Round(2)
		mirrored := net.Mul(domain.VatRateStandard).Round(2)
		return domain.VatCalculation{
			NetAmount:         net,
			VatAmount:         decimal.Zero,
			GrossAmount:       net,
			VatRate:           decimal.Zero,
			RateCategory:      domain.VatZero,
			IsReverseCharge:   true,
			ReverseChargeType: rcType,
			IsEUPurchase:      rcType == domain.ReverseChargeEUGoods || rcType == domain.ReverseChargeEUService,
			IsConstruction:    rcType == domain.ReverseChargeConstruction,
			AdditionalLines: []domain.VoucherLine{
				domain.NewDebitLine(domain.AccountInputVatReverse, mirrored, "Ingående moms omvänd skattskyldighet"),
				domain.NewCreditLine(domain.AccountOutputVatReverse, mirrored, "Utgående moms omvänd skattskyldighet"),
			},
		}
	}

	var category domain.VatRateCategory
	if req.ExplicitVatRate != nil {
		category = snapExplicitRate(*req.ExplicitVatRate)
	} else {
		category = s.DetectVatRate(req.Description, req.SupplierName)
	}
	rate := domain.RateForCategory(category)

	var net, vat, gross decimal.Decimal
	if req.AmountIsGross {
		gross = req.Amount.Round(2)
		net, vat = s.CalculateVatFromGross(gross, rate)
	} else {
		net = req.Amount.Round(2)
		vat, gross = s.CalculateVatFromNet(net, rate)
	}

	calc := domain.VatCalculation{
		NetAmount:         net,
		VatAmount:         vat,
		GrossAmount:       gross,
		VatRate:           rate,
		RateCategory:      category,
		ReverseChargeType: domain.ReverseChargeNone,
	}
	if vat.IsPositive() {
		calc.VatAccount = domain.AccountInputVat
	}
	return calc
}

// GenerateVatVoucherLines emits the debit leg for the cost account at net, the
// input-VAT debit when there is one, then any additional (reverse charge)
// lines. Balance against the payable credit is the caller's responsibility.
func (s *vatService) GenerateVatVoucherLines(calc domain.VatCalculation, costAccount, description string) []domain.VoucherLine {
	lines := make([]domain.VoucherLine, 0, 2+len(calc.AdditionalLines))
	lines = append(lines, domain.NewDebitLine(costAccount, calc.NetAmount, description))
	if !calc.IsReverseCharge && calc.VatAmount.IsPositive() {
		lines = append(lines, domain.NewDebitLine(calc.VatAccount, calc.VatAmount, "Ingående moms"))
	}
	lines = append(lines, calc.AdditionalLines...)
	return lines
}

// ValidateVatAmount derives the implied rate from a stated net/VAT pair, finds
// the closest canonical rate and flags the amount invalid when it is further
// than tolerance (default 0.01) from the expected VAT at that rate.
func (s *vatService) ValidateVatAmount(net, vat, gross decimal.Decimal, tolerance *decimal.Decimal) domain.VatValidation {
	tol := decimal.NewFromFloat(0.01)
	if tolerance != nil {
		tol = *tolerance
	}

	var implied decimal.Decimal
	if net.IsPositive() {
		implied = vat.Div(net)
	}
	category := domain.CategoryForRate(implied)
	closest := domain.RateForCategory(category)
	expected := net.Mul(closest).Round(2)
	diff := vat.Sub(expected).Abs()

	return domain.VatValidation{
		IsValid:      diff.LessThanOrEqual(tol) && gross.Equal(net.Add(vat)),
		ImpliedRate:  implied.Round(4),
		ClosestRate:  closest,
		RateCategory: category,
		ExpectedVat:  expected,
		Difference:   diff,
	}
}
