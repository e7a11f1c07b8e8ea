package validation

import (
	"fmt"
	"log/slog"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"salesetl/pkg/contracts/domain"
)

// RecordValidator validates rows loaded from the source workbook against the
// `validate` struct tags on the domain types.
type RecordValidator struct {
	validate *validator.Validate
	logger   *slog.Logger
}

// FieldError is one failed rule on one field.
type FieldError struct {
	Field string
	Tag   string
	Value interface{}
}

// RecordError lists every rule a record broke.
type RecordError struct {
	Fields []FieldError
}

func (e *RecordError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s=%v fails %s", f.Field, f.Value, f.Tag))
	}
	return "invalid record: " + strings.Join(parts, "; ")
}

// NewRecordValidator creates a validator with the identifier and money rules
// registered.
func NewRecordValidator(logger *slog.Logger) *RecordValidator {
	if logger == nil {
		logger = slog.Default()
	}

	v := validator.New()

	v.RegisterValidation("client_id", identifierRule(KindClient))
	v.RegisterValidation("product_id", identifierRule(KindProduct))
	v.RegisterValidation("sale_id", identifierRule(KindSale))
	v.RegisterValidation("nonneg_money", isNonNegativeMoney)

	// Money is validated through its exact string form
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if m, ok := field.Interface().(domain.Money); ok {
			return m.String()
		}
		return nil
	}, domain.Money{})

	// Use JSON tag names in error messages so they match the sheet columns
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &RecordValidator{
		validate: v,
		logger:   logger.With(slog.String("component", "record_validator")),
	}
}

// Validate checks a single record. It returns a *RecordError listing every
// broken rule, or nil.
func (r *RecordValidator) Validate(record interface{}) error {
	err := r.validate.Struct(record)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	recErr := &RecordError{Fields: make([]FieldError, 0, len(validationErrors))}
	for _, fe := range validationErrors {
		recErr.Fields = append(recErr.Fields, FieldError{
			Field: fe.Field(),
			Tag:   fe.Tag(),
			Value: fe.Value(),
		})
	}
	r.logger.Debug("record rejected", slog.String("reason", recErr.Error()))
	return recErr
}

func identifierRule(kind IdentifierKind) validator.Func {
	return func(fl validator.FieldLevel) bool {
		ok, err := ValidateIdentifier(Identifier{Kind: kind, Value: fl.Field().String()})
		return err == nil && ok
	}
}

func isNonNegativeMoney(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	return s != "" && !strings.HasPrefix(s, "-")
}
