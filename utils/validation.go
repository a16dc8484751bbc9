package utils

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	blaaizErrors "github.com/blaaiz/blaaiz-go/services/errors"
	"github.com/blaaiz/blaaiz-go/types"
	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func payloadValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.SetTagName("binding")
		validate.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return field.Name
			}
			return name
		})
		validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
			if amount, ok := field.Interface().(types.Amount); ok {
				return amount.InexactFloat64()
			}
			return nil
		}, types.Amount{})
	})
	return validate
}

// ValidatePayload checks the binding tags of a request payload and reports
// the first failure as an ErrValidation naming the JSON field
func ValidatePayload(payload interface{}) error {
	if payload == nil {
		return blaaizErrors.NewValidation("payload", "payload is required")
	}
	value := reflect.ValueOf(payload)
	if value.Kind() == reflect.Ptr && value.IsNil() {
		return blaaizErrors.NewValidation("payload", "payload is required")
	}

	err := payloadValidator().Struct(payload)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return blaaizErrors.NewValidation("payload", err.Error())
	}

	fieldErr := validationErrors[0]
	field := fieldErr.Field()
	switch fieldErr.Tag() {
	case "required":
		return blaaizErrors.Required(field)
	case "required_if":
		params := strings.Fields(fieldErr.Param())
		if len(params) == 2 && params[0] == "Method" {
			return blaaizErrors.NewValidation(field, fmt.Sprintf("%s is required for %s method", field, params[1]))
		}
		if len(params) == 2 {
			return blaaizErrors.NewValidation(field, fmt.Sprintf("%s is required when %s is %s", field, strings.ToLower(params[0]), params[1]))
		}
		return blaaizErrors.Required(field)
	default:
		return blaaizErrors.NewValidation(field, fmt.Sprintf("%s is invalid", field))
	}
}
