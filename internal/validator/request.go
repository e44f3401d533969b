package validator

import (
	"errors"
	"reflect"
	"strings"

	"bankoffice/internal/apperr"

	playground "github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var requests = newRequestValidator()

func newRequestValidator() *playground.Validate {
	v := playground.New(playground.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// decimals are checked as their float value so gt/gte tags work on amounts
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		d, ok := field.Interface().(decimal.Decimal)
		if !ok {
			return nil
		}
		f, _ := d.Float64()
		return f
	}, decimal.Decimal{})
	return v
}

// Struct runs the `validate` tags of a decoded request payload and reports the
// failures as an *apperr.InvalidInputError keyed by JSON field name.
func Struct(payload any) error {
	err := requests.Struct(payload)
	if err == nil {
		return nil
	}
	var failures playground.ValidationErrors
	if !errors.As(err, &failures) {
		return err
	}
	fields := make(map[string]string, len(failures))
	for _, fe := range failures {
		fields[fieldPath(fe)] = describe(fe)
	}
	return &apperr.InvalidInputError{Fields: fields}
}

func fieldPath(fe playground.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func describe(fe playground.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "oneof":
		return "must be one of " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "datetime":
		return "must match " + fe.Param()
	default:
		return "failed " + fe.Tag()
	}
}
