// Package validation valida DTOs de entrada con tags `validate`.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	// Los mensajes usan el nombre JSON del campo.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// Struct valida s y retorna un error legible con el primer campo inválido.
func Struct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("invalid validation: %w", err)
	}

	fe := verrs[0]
	field, param := fe.Field(), fe.Param()
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("field '%s' is required", field)
	case "email":
		return fmt.Errorf("field '%s' must be a valid email address", field)
	case "min":
		return fmt.Errorf("field '%s' must be at least %s characters long", field, param)
	case "max":
		return fmt.Errorf("field '%s' must be at most %s characters long", field, param)
	case "uuid":
		return fmt.Errorf("field '%s' must be a valid UUID", field)
	case "oneof":
		return fmt.Errorf("field '%s' must be one of [%s]", field, param)
	case "len":
		return fmt.Errorf("field '%s' must be exactly %s characters long", field, param)
	case "numeric":
		return fmt.Errorf("field '%s' must be numeric", field)
	case "gte", "lte":
		return fmt.Errorf("field '%s' is out of range", field)
	default:
		return fmt.Errorf("field '%s' validation failed on tag '%s'", field, fe.Tag())
	}
}
