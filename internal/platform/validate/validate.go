// Package validate wraps a go-playground validator singleton with english
// messages keyed by env names
package validate

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	perr "plannedobs/internal/platform/errors"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// Svc holds a singleton validator and translator
type Svc struct {
	Validator  *validator.Validate
	Translator ut.Translator
}

var (
	vOnce sync.Once
	vSvc  *Svc
)

// Get returns the validator singleton, initializing on first use
func Get() *Svc {
	vOnce.Do(func() {
		enLoc := en.New()
		uni := ut.New(enLoc, enLoc)
		trans, _ := uni.GetTranslator("en")

		v := validator.New(validator.WithRequiredStructEnabled())

		// messages name the env key the operator would set
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			if tag := fld.Tag.Get("env"); tag != "" && tag != "-" {
				return tag
			}
			return fld.Name
		})

		_ = en_translations.RegisterDefaultTranslations(v, trans)
		registerColumnSpec(v, trans)

		vSvc = &Svc{Validator: v, Translator: trans}
	})
	return vSvc
}

// Struct validates s and maps failures to a Validation error listing every message
func Struct(s any) error {
	err := Get().Validator.Struct(s)
	if err == nil {
		return nil
	}
	var inv *validator.InvalidValidationError
	if errors.As(err, &inv) {
		return perr.Wrap(inv, perr.ErrorCodeInvalidArgument, "validator misuse")
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return perr.Wrap(err, perr.ErrorCodeValidation, "invalid configuration")
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fe.Translate(Get().Translator))
	}
	return perr.Newf(perr.ErrorCodeValidation, "invalid configuration: %s", strings.Join(msgs, "; "))
}

// ValidColumnSpec reports whether s names one column or a pair written "a+b"
func ValidColumnSpec(s string) bool {
	a, b, paired := strings.Cut(s, "+")
	if strings.TrimSpace(a) == "" {
		return false
	}
	if !paired {
		return true
	}
	return strings.TrimSpace(b) != "" && !strings.Contains(b, "+")
}

func registerColumnSpec(v *validator.Validate, trans ut.Translator) {
	_ = v.RegisterValidation("column_spec", func(fl validator.FieldLevel) bool {
		return ValidColumnSpec(fl.Field().String())
	})
	_ = v.RegisterTranslation("column_spec", trans,
		func(ut ut.Translator) error {
			return ut.Add("column_spec", "{0} must be a column name or a pair written a+b", true)
		},
		func(ut ut.Translator, fe validator.FieldError) string {
			msg, _ := ut.T("column_spec", fe.Field())
			return msg
		},
	)
}
