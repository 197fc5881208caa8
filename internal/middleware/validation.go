package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// maxBodyBytes caps decoded request bodies
const maxBodyBytes = 1 << 20

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// report fields by their JSON names
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return field.Name
		}
		return name
	})

	// lets numeric tags (gte, lte) apply to money fields
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.InexactFloat64()
		}
		return nil
	}, decimal.Decimal{})

	return v
}

// ValidateRequest validates a struct against its validate tags
func ValidateRequest(v any) error {
	return validate.Struct(v)
}

// DecodeAndValidate decodes a JSON request body and validates it.
// Unknown fields are rejected.
func DecodeAndValidate(r *http.Request, v any) error {
	decoder := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return ValidateRequest(v)
}

// ValidationError represents a field validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FormatValidationErrors converts validator errors to a readable format
func FormatValidationErrors(err error) []ValidationError {
	var errs []ValidationError

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, e := range validationErrors {
			errs = append(errs, ValidationError{
				Field:   fieldPath(e),
				Message: getErrorMessage(e),
			})
		}
	}

	return errs
}

// HandleDecodeError writes a 400 with field details for validation failures
// and a plain message for malformed JSON.
func HandleDecodeError(w http.ResponseWriter, err error) {
	if errs := FormatValidationErrors(err); len(errs) > 0 {
		RespondWithValidationErrors(w, errs)
		return
	}
	RespondWithError(w, http.StatusBadRequest, err.Error())
}

// fieldPath drops the root struct name from the namespace
func fieldPath(e validator.FieldError) string {
	if _, rest, ok := strings.Cut(e.Namespace(), "."); ok {
		return rest
	}
	return e.Field()
}

func getErrorMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required"
	case "min":
		return "Value is too short"
	case "max":
		return "Value is too long"
	case "gte":
		return "Value must be greater than or equal to " + e.Param()
	case "lte":
		return "Value must be less than or equal to " + e.Param()
	case "gt":
		return "Value must be greater than " + e.Param()
	case "lt":
		return "Value must be less than " + e.Param()
	case "oneof":
		return "Value must be one of: " + e.Param()
	case "url":
		return "Invalid URL"
	case "e164":
		return "Invalid phone number, expected E.164 format"
	case "iso3166_1_alpha2":
		return "Invalid country code"
	default:
		return "Invalid value"
	}
}
