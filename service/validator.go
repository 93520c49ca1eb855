package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"lease-engine/domain"
)

var leaseValidator = newLeaseValidator()

func newLeaseValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	// Los montos decimales se comparan como float64 en las reglas gt/gte/lte
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	return v
}

var fieldCodes = map[string]string{
	"payment_amount": "INVALID_PAYMENT_AMOUNT",
	"discount_rate":  "INVALID_DISCOUNT_RATE",
	"term_months":    "INVALID_TERM",
	"currency":       "INVALID_CURRENCY",
	"payment_timing": "INVALID_PAYMENT_TIMING",
	"probability":    "INVALID_RENEWAL_PROBABILITY",
}

var fieldMessages = map[string]string{
	"payment_amount": "monto de pago inválido: debe ser mayor que cero",
	"discount_rate":  "tasa de descuento inválida: debe estar entre 0 y 100",
	"term_months":    "plazo inválido: debe ser de al menos 1 mes",
	"currency":       "moneda inválida: se esperan 3 letras mayúsculas (ISO 4217)",
	"payment_timing": "momento de pago inválido: debe ser 'start' o 'end'",
	"probability":    "probabilidad de renovación inválida: debe estar entre 0 y 100",
}

// fieldPath drops the root struct name from a validator namespace.
func fieldPath(namespace string) string {
	if i := strings.Index(namespace, "."); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

func toValidationError(fe validator.FieldError) domain.ValidationError {
	field := fe.Field()
	code, ok := fieldCodes[field]
	if !ok {
		code = "INVALID_" + strings.ToUpper(field)
	}
	msg, ok := fieldMessages[field]
	if !ok {
		msg = fmt.Sprintf("valor inválido para %s (regla %s)", fieldPath(fe.Namespace()), fe.Tag())
	}
	return domain.ValidationError{Field: fieldPath(fe.Namespace()), Code: code, Message: msg}
}

// ValidateLease checks the contract for values the engine can compute with.
// It reports every violation found instead of stopping at the first one.
func ValidateLease(input domain.LeaseContractInput) domain.ValidationResult {
	errs := []domain.ValidationError{}

	if err := leaseValidator.Struct(input); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			for _, fe := range fieldErrs {
				errs = append(errs, toValidationError(fe))
			}
		} else {
			errs = append(errs, domain.ValidationError{
				Field:   "",
				Code:    "INVALID_INPUT",
				Message: err.Error(),
			})
		}
	}

	if input.TermMonths > MaxTermMonths {
		errs = append(errs, domain.ValidationError{
			Field:   "term_months",
			Code:    "INVALID_TERM",
			Message: fmt.Sprintf("plazo excede el máximo permitido de %d meses", MaxTermMonths),
		})
	}

	if input.StartDate.IsZero() {
		errs = append(errs, domain.ValidationError{
			Field: "start_date", Code: "MISSING_START_DATE", Message: "fecha de inicio requerida",
		})
	}
	if input.EndDate.IsZero() {
		errs = append(errs, domain.ValidationError{
			Field: "end_date", Code: "MISSING_END_DATE", Message: "fecha de término requerida",
		})
	}
	if !input.StartDate.IsZero() && !input.EndDate.IsZero() && !input.EndDate.After(input.StartDate.Time) {
		errs = append(errs, domain.ValidationError{
			Field:   "end_date",
			Code:    "INVALID_DATE_RANGE",
			Message: "la fecha de término debe ser posterior a la fecha de inicio",
		})
	}

	return domain.ValidationResult{IsValid: len(errs) == 0, Errors: errs}
}
