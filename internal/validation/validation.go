// Package validation performs schema-checked parsing of untrusted input.
// Every state-changing handler runs its payload through Check before any
// persistence operation. Violations are collected wholesale so a single
// submission reports every problem at once.
package validation

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Issue describes a single field violation in client-facing form.
type Issue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Issues is the full set of violations for one payload. A nil/empty value
// means the payload passed.
type Issues []Issue

func (issues Issues) Error() string {
	if len(issues) == 0 {
		return "validation failed"
	}
	messages := make([]string, len(issues))
	for i, issue := range issues {
		messages[i] = issue.Message
	}
	return strings.Join(messages, "; ")
}

// messageOverrides supplies domain wording for specific schema fields,
// keyed by "<StructName>.<Field>".
var messageOverrides = map[string]string{
	"OrderRequest.Items": "At least one order item is required",
}

// Check validates a tagged request struct and returns all violations.
func Check(payload interface{}) Issues {
	err := instance().Struct(payload)
	if err == nil {
		return nil
	}

	fieldErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return Issues{{Field: "", Message: "invalid payload"}}
	}

	issues := make(Issues, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		issues = append(issues, Issue{
			Field:   fieldPath(fe),
			Message: message(fe),
		})
	}
	return issues
}

func instance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		// Report fields under their wire names.
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
	})
	return validate
}

// fieldPath strips the top-level struct name from the namespace so clients
// see "items[0].quantity"-style paths.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if idx := strings.Index(ns, "."); idx >= 0 {
		return ns[idx+1:]
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	key := fmt.Sprintf("%s.%s", structName(fe), fe.StructField())
	if override, ok := messageOverrides[key]; ok {
		return override
	}

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fieldPath(fe))
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fieldPath(fe))
	case "min":
		if fe.Kind().String() == "string" {
			return fmt.Sprintf("%s must be at least %s characters", fieldPath(fe), fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", fieldPath(fe), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", fieldPath(fe), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fieldPath(fe), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fieldPath(fe))
	}
}

func structName(fe validator.FieldError) string {
	ns := fe.StructNamespace()
	if idx := strings.Index(ns, "."); idx >= 0 {
		return ns[:idx]
	}
	return ns
}
