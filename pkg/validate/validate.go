// Package validate runs go-playground/validator struct-tag validation and
// flattens the result into a field → message map keyed by JSON names.
//
//	type Input struct {
//	    Username string          `json:"username" validate:"required,min=3,max=150"`
//	    Email    string          `json:"email"    validate:"required,email"`
//	    Price    decimal.Decimal `json:"price"    validate:"money"`
//	    Status   string          `json:"status"   validate:"omitempty,oneof=simple gold silver bronze"`
//	}
//
// decimal.Decimal and decimal.NullDecimal fields are validated as float64,
// so numeric rules such as gte/lte work on prices directly.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var (
	once     sync.Once
	instance *validator.Validate
)

func engine() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())

		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			if name == "" {
				return f.Name
			}
			return name
		})

		v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
			switch d := field.Interface().(type) {
			case decimal.Decimal:
				f, _ := d.Float64()
				return f
			case decimal.NullDecimal:
				if !d.Valid {
					return nil
				}
				f, _ := d.Decimal.Float64()
				return f
			}
			return nil
		}, decimal.Decimal{}, decimal.NullDecimal{})

		_ = v.RegisterValidation("money", validateMoney)

		instance = v
	})
	return instance
}

// money: non-negative with at most two fractional digits.
func validateMoney(fl validator.FieldLevel) bool {
	var d decimal.Decimal
	switch v := fl.Field().Interface().(type) {
	case float64:
		d = decimal.NewFromFloat(v)
	case decimal.Decimal:
		d = v
	default:
		return true
	}
	if d.IsNegative() {
		return false
	}
	return d.Equal(d.Truncate(2))
}

// Struct validates v and returns a map of json field name → message.
// The map is empty when v is valid.
func Struct(v interface{}) map[string]string {
	errs := make(map[string]string)

	err := engine().Struct(v)
	if err == nil {
		return errs
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		// InvalidValidationError: v is not a struct; nothing to report per field.
		return errs
	}

	for _, fe := range fieldErrs {
		name := fieldPath(fe)
		if _, exists := errs[name]; exists {
			continue
		}
		errs[name] = message(name, fe)
	}
	return errs
}

// Var validates a single value against a tag, e.g. Var(email, "required,email").
func Var(field string, value interface{}, tag string) map[string]string {
	errs := make(map[string]string)
	err := engine().Var(value, tag)
	if err == nil {
		return errs
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		errs[field] = message(field, fieldErrs[0])
	}
	return errs
}

// HasErrors returns true when the errs map is non-empty.
func HasErrors(errs map[string]string) bool { return len(errs) > 0 }

// fieldPath drops the root struct name from the namespace:
// "Input.items[0].quantity" → "items[0].quantity".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return fe.Field()
}

func message(field string, fe validator.FieldError) string {
	param := fe.Param()

	switch fe.Tag() {
	case "required", "required_without", "required_with":
		return fmt.Sprintf("The %s field is required.", field)
	case "email":
		return fmt.Sprintf("The %s must be a valid email address.", field)
	case "url", "http_url":
		return fmt.Sprintf("The %s must be a valid URL.", field)
	case "uuid", "uuid4":
		return fmt.Sprintf("The %s must be a valid UUID.", field)
	case "alphanum":
		return fmt.Sprintf("The %s may only contain letters and numbers.", field)
	case "e164":
		return fmt.Sprintf("The %s must be a phone number in international format.", field)
	case "money":
		return fmt.Sprintf("The %s must be a non-negative amount with at most 2 decimal places.", field)
	case "oneof":
		return fmt.Sprintf("The selected %s is invalid (allowed: %s).", field, strings.ReplaceAll(param, " ", ", "))
	case "eqfield":
		return fmt.Sprintf("The %s confirmation does not match.", field)
	case "min":
		if isNumeric(fe.Kind()) {
			return fmt.Sprintf("The %s must be at least %s.", field, param)
		}
		return fmt.Sprintf("The %s must be at least %s characters.", field, param)
	case "max":
		if isNumeric(fe.Kind()) {
			return fmt.Sprintf("The %s may not be greater than %s.", field, param)
		}
		return fmt.Sprintf("The %s may not be greater than %s characters.", field, param)
	case "len":
		return fmt.Sprintf("The %s must be exactly %s characters.", field, param)
	case "gt":
		return fmt.Sprintf("The %s must be greater than %s.", field, param)
	case "gte":
		return fmt.Sprintf("The %s must be greater than or equal to %s.", field, param)
	case "lt":
		return fmt.Sprintf("The %s must be less than %s.", field, param)
	case "lte":
		return fmt.Sprintf("The %s must be less than or equal to %s.", field, param)
	case "numeric", "number":
		return fmt.Sprintf("The %s must be a number.", field)
	case "datetime":
		return fmt.Sprintf("The %s is not a valid date.", field)
	}
	return fmt.Sprintf("The %s field is invalid.", field)
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
