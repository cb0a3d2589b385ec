package handlers

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/kazehost/pricing-backend/internal/core/domain"
)

// registerCustomValidators wires domain-level validation rules into gin's
// binding engine so request DTOs can use them as struct tags.
func registerCustomValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("currencycode", func(fl validator.FieldLevel) bool {
		return domain.IsValidCurrencyCode(fl.Field().String())
	})
}
