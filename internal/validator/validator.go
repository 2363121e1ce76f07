// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"mithqal/internal/metals"
)

// validCurrencies contains the ISO 4217 currency codes the app can value
// portfolios in.
var validCurrencies = map[string]bool{
	"AED": true, "USD": true, "EUR": true, "GBP": true, "SAR": true,
	"KWD": true, "BHD": true, "OMR": true, "QAR": true, "INR": true,
	"PKR": true, "CHF": true, "JPY": true, "CNY": true, "TRY": true,
	"EGP": true, "JOD": true, "LKR": true, "PHP": true, "BDT": true,
}

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("iso4217", validateISO4217)
		_ = v.RegisterValidation("metal_symbol", validateMetalSymbol)
		_ = v.RegisterValidation("trade_side", validateTradeSide)
		_ = v.RegisterValidation("quantity_unit", validateQuantityUnit)
		_ = v.RegisterValidation("price_unit", validatePriceUnit)
	}
}

func validateISO4217(fl validator.FieldLevel) bool {
	return validCurrencies[fl.Field().String()]
}

func validateMetalSymbol(fl validator.FieldLevel) bool {
	return metals.Symbol(fl.Field().String()).Valid()
}

func validateTradeSide(fl validator.FieldLevel) bool {
	return metals.Side(fl.Field().String()).Valid()
}

func validateQuantityUnit(fl validator.FieldLevel) bool {
	return metals.QuantityUnit(fl.Field().String()).Valid()
}

func validatePriceUnit(fl validator.FieldLevel) bool {
	return metals.PriceUnit(fl.Field().String()).Valid()
}
