package dto

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var maxPrice = decimal.NewFromInt(MaxPrice)

// NewValidator returns a validator that reports JSON field names and knows
// the "price" tag: a decimal in [0, MaxPrice] with at most two fraction digits.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// Decimals are validated through their canonical text.
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.String()
		}
		return nil
	}, decimal.Decimal{})

	_ = v.RegisterValidation("price", func(fl validator.FieldLevel) bool {
		d, err := decimal.NewFromString(fl.Field().String())
		if err != nil {
			return false
		}
		return !d.IsNegative() && d.LessThanOrEqual(maxPrice) && d.Exponent() >= -2
	})

	return v
}

// FieldErrors converts validator errors into API field errors. It returns
// nil if err is not a validation error.
func FieldErrors(err error) []FieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}

	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{
			Field:         fieldPath(fe),
			Message:       fieldMessage(fe),
			RejectedValue: rejectedValue(fe.Value()),
		})
	}
	return out
}

// fieldPath strips the struct name from the namespace.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Field() {
	case "premiumRooms", "economyRooms":
		return fmt.Sprintf("%s must be between 0 and %d", fe.Field(), MaxRooms)
	case "potentialGuests":
		if fe.Tag() == "required" {
			return "potentialGuests must not be null"
		}
		return fmt.Sprintf("potentialGuests size must be between 0 and %d", MaxGuests)
	}

	switch fe.Tag() {
	case "required":
		return "potential guest prices must not be null"
	case "price":
		return fmt.Sprintf("potential guest prices must be between 0 and %d with at most 2 fractional digits", MaxPrice)
	default:
		return "invalid value"
	}
}

func rejectedValue(v any) any {
	switch val := v.(type) {
	case *int:
		if val == nil {
			return nil
		}
		return *val
	case *decimal.Decimal:
		if val == nil {
			return nil
		}
		return Number(*val)
	case decimal.Decimal:
		return Number(val)
	case string:
		// decimals arrive here as canonical text
		if _, err := decimal.NewFromString(val); err == nil {
			return json.Number(val)
		}
		return val
	case []*decimal.Decimal:
		if val == nil {
			return nil
		}
		return len(val)
	default:
		return v
	}
}
