package validators

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/MKhiriev/go-quote-keeper/models"
)

const (
	FieldID         = "id"
	FieldText       = "text"
	FieldCategory   = "category"
	FieldModifiedAt = "modifiedAt"

	// MaxTextLength and MaxCategoryLength bound records coming from outside
	// the process (remote snapshots, pushes, imports).
	MaxTextLength     = 2000
	MaxCategoryLength = 100
)

// structFields maps JSON field names to the struct field names expected by
// validator's partial validation.
var structFields = map[string]string{
	FieldID:         "ID",
	FieldText:       "Text",
	FieldCategory:   "Category",
	FieldModifiedAt: "ModifiedAt",
}

// QuoteValidator validates quote-shaped records received from the remote
// endpoint, sent to it, or read from an import file. It relies on the
// `validate` struct tags of the models plus a "notblank" rule.
type QuoteValidator struct {
	v *validator.Validate
}

// NewQuoteValidator returns a ready [QuoteValidator].
func NewQuoteValidator() Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})

	return &QuoteValidator{v: v}
}

// Validate implements [Validator]. fields restricts the check to the named
// JSON fields.
func (q *QuoteValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	partial := make([]string, 0, len(fields))
	for _, f := range fields {
		name, ok := structFields[f]
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownField, f)
		}
		partial = append(partial, name)
	}

	switch value := obj.(type) {
	case models.RemoteQuote, *models.RemoteQuote,
		models.PushRecord, *models.PushRecord,
		models.ImportRecord, *models.ImportRecord:
		return q.validateStruct(value, partial...)
	case []models.PushRecord:
		if len(value) == 0 {
			return ErrEmptyBatch
		}
		for i, rec := range value {
			if err := q.validateStruct(rec, partial...); err != nil {
				return fmt.Errorf("record #%d: %w", i, err)
			}
		}
		return nil
	default:
		return fmt.Errorf("%w: %T", ErrUnsupportedType, obj)
	}
}

func (q *QuoteValidator) validateStruct(obj any, fields ...string) error {
	var err error
	if len(fields) > 0 {
		err = q.v.StructPartial(obj, fields...)
	} else {
		err = q.v.Struct(obj)
	}
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fe.Field()+": "+message(fe))
	}
	sort.Strings(msgs)

	return fmt.Errorf("%w: %s", ErrInvalidRecord, strings.Join(msgs, "; "))
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return "must not be empty"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	default:
		return "failed validation: " + fe.Tag()
	}
}
