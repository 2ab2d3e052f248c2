package common

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"maxloyalty.com/backoffice/listmanager"
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
			}
			return name
		})
	}
}

func FormatBindingError(err error) string {
	if err == nil {
		return ""
	}

	if errors.Is(err, io.EOF) {
		return "El cuerpo de la solicitud está vacío"
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return fmt.Sprintf("JSON inválido en el byte %d", syntaxErr.Offset)
	}

	// e.g. a string where a number was expected
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return fmt.Sprintf("El campo '%s' debe ser de tipo %s", typeErr.Field, typeErr.Type.String())
	}

	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		var out []string
		for _, fe := range ve {
			out = append(out, listmanager.FieldErrorMessage(fe))
		}
		return strings.Join(out, ", ")
	}

	return err.Error()
}

// FormatViolations joins the messages of a failed form validation.
func FormatViolations(violations []listmanager.Violation) string {
	out := make([]string, 0, len(violations))
	for _, v := range violations {
		out = append(out, v.Message)
	}
	return strings.Join(out, ", ")
}
