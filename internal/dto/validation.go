package dto

import (
	"fmt"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var maxVatRatePercent = decimal.NewFromInt(100)

// RegisterCustomValidations installs this package's custom binding rules on
// gin's validator engine. Call once at startup.
func RegisterCustomValidations() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine type %T", binding.Validator.Engine())
	}
	return v.RegisterValidation("vatrate", validVatRate)
}

// validVatRate accepts a VAT rate given either as a fraction (0..1) or as a
// percentage (0..100). Snapping to a canonical rate happens in the service.
func validVatRate(fl validator.FieldLevel) bool {
	rate, ok := fl.Field().Interface().(decimal.Decimal)
	if !ok {
		return false
	}
	return !rate.IsNegative() && rate.LessThanOrEqual(maxVatRatePercent)
}
