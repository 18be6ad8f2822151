package rpc

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/xuanhoa/backend/internal/domain/shared"
)

var validate = newValidator()

// newValidator builds the request validator, reporting fields by their
// JSON names so error messages match what the client sent.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// checkRequest validates a decoded request struct and converts the first
// field error to a localized input error.
func checkRequest(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	if fieldErrs, ok := err.(validator.ValidationErrors); ok && len(fieldErrs) > 0 {
		return shared.NewDomainError("INVALID_INPUT", "Thiếu hoặc sai trường "+fieldErrs[0].Field())
	}
	return shared.NewDomainError("INVALID_INPUT", "Dữ liệu gửi lên không hợp lệ")
}
