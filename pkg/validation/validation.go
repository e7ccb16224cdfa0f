package validation

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"travelbooking/pkg/apperror"
)

var (
	once     sync.Once
	validate *validator.Validate
)

// Validator returns the shared instance. Field names in errors follow the
// json tag so messages match the wire format.
func Validator() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return fld.Name
			}
			return name
		})
	})
	return validate
}

// Struct validates v and converts failures into a VALIDATION_ERROR listing
// the offending fields.
func Struct(v any, message string) error {
	err := Validator().Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperror.Validation(message).WithErr(err)
	}
	return apperror.Validation(message).WithDetail(Fields(verrs))
}

// Fields renders "path(tag)" pairs, e.g. "travelers[0].dateOfBirth(required)".
func Fields(verrs validator.ValidationErrors) string {
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		ns := fe.Namespace()
		if i := strings.IndexByte(ns, '.'); i >= 0 {
			ns = ns[i+1:]
		}
		parts = append(parts, ns+"("+fe.Tag()+")")
	}
	return strings.Join(parts, ", ")
}
