package listmanager

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Violation is one broken rule of a form draft.
type Violation struct {
	Field   string
	Rule    string
	Param   string
	Message string
}

// Validate checks a draft against the `validate` tags of its type. In edit
// mode the rules of optionalOnEdit fields are skipped, so a blank password
// keeps the stored one.
func Validate(draft any, mode Mode, optionalOnEdit []string) []Violation {
	err := validate.Struct(draft)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return []Violation{{Rule: "invalid", Message: err.Error()}}
	}

	var out []Violation
	for _, fe := range ve {
		if mode == ModeEdit && slices.Contains(optionalOnEdit, fe.Field()) {
			continue
		}
		out = append(out, Violation{
			Field:   fe.Field(),
			Rule:    fe.Tag(),
			Param:   fe.Param(),
			Message: FieldErrorMessage(fe),
		})
	}
	return out
}

// FieldErrorMessage renders one validator failure as the Spanish text shown
// to operators.
func FieldErrorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("El campo '%s' es obligatorio", fe.Field())
	case "email":
		return fmt.Sprintf("El campo '%s' debe ser un correo válido", fe.Field())
	case "min":
		return fmt.Sprintf("El campo '%s' debe ser al menos %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("El campo '%s' debe ser como máximo %s", fe.Field(), fe.Param())
	case "numeric":
		return fmt.Sprintf("El campo '%s' debe ser numérico", fe.Field())
	case "len":
		return fmt.Sprintf("El campo '%s' debe tener longitud %s", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("El campo '%s' debe ser uno de: %s", fe.Field(), fe.Param())
	}
	return fmt.Sprintf("El campo '%s' no es válido (%s)", fe.Field(), fe.Tag())
}
