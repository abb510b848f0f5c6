package schemas

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// ErrorCode classifies a single field validation failure
type ErrorCode string

const (
	CodeRequired      ErrorCode = "required"
	CodeTooShort      ErrorCode = "too_short"
	CodeTooLong       ErrorCode = "too_long"
	CodeInvalidFormat ErrorCode = "invalid_format"
	CodeWeakPassword  ErrorCode = "weak_password"
	CodeOutOfRange    ErrorCode = "out_of_range"
	CodeInvalidEnum   ErrorCode = "invalid_enum"
	CodeTooMany       ErrorCode = "too_many"
	CodeUnknownField  ErrorCode = "unknown_field"
)

// FieldError describes one violated rule on one field
type FieldError struct {
	Field   string    `json:"field"`
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// ValidationErrors is the full list of violations for one request.
// Every failing field is reported; parsing never stops at the first error.
type ValidationErrors struct {
	Errors []FieldError `json:"errors"`
}

func (ve *ValidationErrors) Error() string {
	return fmt.Sprintf("validation failed: %d errors", len(ve.Errors))
}

// AsValidationErrors unwraps err into a *ValidationErrors if it is one
func AsValidationErrors(err error) (*ValidationErrors, bool) {
	var ve *ValidationErrors
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

var (
	validate *validator.Validate

	lowerPattern = regexp.MustCompile(`[a-z]`)
	upperPattern = regexp.MustCompile(`[A-Z]`)
	digitPattern = regexp.MustCompile(`[0-9]`)
)

func init() {
	validate = validator.New()

	// report fields by their wire names
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	validate.RegisterValidation("password_strength", validatePasswordStrength)
	validate.RegisterValidation("iso8601", validateISO8601)
}

// validatePasswordStrength requires at least one lowercase letter, one
// uppercase letter and one digit anywhere in the string.
func validatePasswordStrength(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return lowerPattern.MatchString(value) &&
		upperPattern.MatchString(value) &&
		digitPattern.MatchString(value)
}

func validateISO8601(fl validator.FieldLevel) bool {
	_, err := time.Parse(time.RFC3339, fl.Field().String())
	return err == nil
}

// NormalizeEmail lowercases and trims an email address. Applying it twice
// yields the same value, so re-validating normalized output always succeeds.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// checkStruct validates a normalized request struct and converts the
// accumulated validator errors into our error taxonomy.
func checkStruct(s interface{}) *ValidationErrors {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &ValidationErrors{Errors: []FieldError{{
			Field:   "body",
			Code:    CodeInvalidFormat,
			Message: "request could not be validated",
		}}}
	}

	fieldErrors := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fieldErrors = append(fieldErrors, FieldError{
			Field:   fieldPath(fe.Namespace()),
			Code:    codeForTag(fe),
			Message: messageForTag(fe),
		})
	}
	return &ValidationErrors{Errors: fieldErrors}
}

// fieldPath strips the root struct name from a validator namespace,
// e.g. "createArticleRequest.tags[3]" -> "tags[3]"
func fieldPath(namespace string) string {
	if i := strings.Index(namespace, "."); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

func codeForTag(fe validator.FieldError) ErrorCode {
	switch fe.Tag() {
	case "required":
		return CodeRequired
	case "min":
		if fe.Kind() == reflect.String {
			return CodeTooShort
		}
		return CodeOutOfRange
	case "max":
		if fe.Kind() == reflect.Slice {
			return CodeTooMany
		}
		if fe.Kind() == reflect.String {
			return CodeTooLong
		}
		return CodeOutOfRange
	case "email", "uuid", "url", "iso8601":
		return CodeInvalidFormat
	case "oneof":
		return CodeInvalidEnum
	case "password_strength":
		return CodeWeakPassword
	default:
		return CodeInvalidFormat
	}
}

func messageForTag(fe validator.FieldError) string {
	field := fieldPath(fe.Namespace())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s must have at most %s items", field, fe.Param())
		}
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "uuid":
		return fmt.Sprintf("%s must be a valid UUID", field)
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "iso8601":
		return fmt.Sprintf("%s must be an ISO-8601 datetime", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "password_strength":
		return fmt.Sprintf("%s must contain an uppercase letter, a lowercase letter and a digit", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

var unknownFieldPattern = regexp.MustCompile(`json: unknown field "(.*)"`)

// decodeJSON decodes a request body into dst. With strict set, undeclared
// keys are rejected instead of silently dropped; that mode is reserved for
// the credential-bearing schemas.
func decodeJSON(r io.Reader, dst interface{}, strict bool) *ValidationErrors {
	dec := json.NewDecoder(r)
	if strict {
		dec.DisallowUnknownFields()
	}

	if err := dec.Decode(dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return &ValidationErrors{Errors: []FieldError{{
				Field:   typeErr.Field,
				Code:    CodeInvalidFormat,
				Message: fmt.Sprintf("%s must be a %s", typeErr.Field, typeErr.Type.Kind()),
			}}}
		}
		if m := unknownFieldPattern.FindStringSubmatch(err.Error()); m != nil {
			return &ValidationErrors{Errors: []FieldError{{
				Field:   m[1],
				Code:    CodeUnknownField,
				Message: fmt.Sprintf("%s is not an accepted field", m[1]),
			}}}
		}
		return &ValidationErrors{Errors: []FieldError{{
			Field:   "body",
			Code:    CodeInvalidFormat,
			Message: "request body is not valid JSON",
		}}}
	}
	return nil
}

// Pagination holds normalized list window parameters
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

// ParsePagination coerces page/limit query parameters. Absent parameters
// take their defaults; a non-numeric value is rejected, never defaulted.
func ParsePagination(values url.Values) (Pagination, error) {
	p := Pagination{Page: defaultPage, Limit: defaultLimit}
	var fieldErrors []FieldError

	if raw := values.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		switch {
		case err != nil:
			fieldErrors = append(fieldErrors, FieldError{
				Field:   "page",
				Code:    CodeInvalidFormat,
				Message: "page must be an integer",
			})
		case page < 1:
			fieldErrors = append(fieldErrors, FieldError{
				Field:   "page",
				Code:    CodeOutOfRange,
				Message: "page must be at least 1",
			})
		default:
			p.Page = page
		}
	}

	if raw := values.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		switch {
		case err != nil:
			fieldErrors = append(fieldErrors, FieldError{
				Field:   "limit",
				Code:    CodeInvalidFormat,
				Message: "limit must be an integer",
			})
		case limit < 1 || limit > maxLimit:
			fieldErrors = append(fieldErrors, FieldError{
				Field:   "limit",
				Code:    CodeOutOfRange,
				Message: fmt.Sprintf("limit must be between 1 and %d", maxLimit),
			})
		default:
			p.Limit = limit
		}
	}

	if len(fieldErrors) > 0 {
		return p, &ValidationErrors{Errors: fieldErrors}
	}
	return p, nil
}
