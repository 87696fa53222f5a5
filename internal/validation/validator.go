// Package validation checks inventory records returned by the service.
//
// The service is loosely typed and occasionally returns records that break
// assumptions the rest of labops relies on: hosts without an asset ID,
// malformed console addresses, two racks claiming the same position. This
// package reports such problems without rejecting the data, so callers can
// log them and carry on.
//
// It uses go-playground/validator for field-level checks declared as
// `validate` tags on the models, plus collection-level checks for
// uniqueness.
//
// # Usage Example
//
//	v := validation.New()
//	result := v.ValidateHosts(hosts)
//	if !result.Valid {
//	    for _, err := range result.Errors {
//	        fmt.Printf("%s: %s\n", err.Field, err.Message)
//	    }
//	}
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"evalgo.org/labops/models"
)

// Validator validates inventory records.
type Validator struct {
	// structValidator validates Go struct constraints and tags
	structValidator *validator.Validate
}

// ValidationError represents a single validation error with field-level details.
type ValidationError struct {
	// Field locates the problem, e.g. hosts[3].con_ip
	Field string `json:"field"`

	// Message describes why the validation failed
	Message string `json:"message"`

	// Value is the invalid value that caused the error (optional)
	Value interface{} `json:"value,omitempty"`
}

// ValidationResult represents the complete result of a validation operation.
type ValidationResult struct {
	// Valid is true if validation passed, false otherwise
	Valid bool `json:"valid"`

	// Errors contains all validation errors found (empty if Valid is true)
	Errors []ValidationError `json:"errors,omitempty"`
}

func newResult(errs []ValidationError) *ValidationResult {
	return &ValidationResult{Valid: len(errs) == 0, Errors: errs}
}

// New creates a Validator that names fields by their JSON keys.
func New() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{structValidator: v}
}

// ValidateHosts checks every host and that asset IDs are unique.
func (v *Validator) ValidateHosts(hosts []models.Host) *ValidationResult {
	var errs []ValidationError
	seen := make(map[string]int)
	for i, h := range hosts {
		prefix := fmt.Sprintf("hosts[%d]", i)
		errs = append(errs, v.structErrors(prefix, h)...)

		if h.AssetID == "" {
			continue
		}
		if first, dup := seen[h.AssetID]; dup {
			errs = append(errs, ValidationError{
				Field:   prefix + ".assetid",
				Message: fmt.Sprintf("Duplicate asset ID (first seen at hosts[%d])", first),
				Value:   h.AssetID,
			})
			continue
		}
		seen[h.AssetID] = i
	}
	return newResult(errs)
}

// ValidateRacks checks every rack and that positions are unique.
func (v *Validator) ValidateRacks(racks []models.Rack) *ValidationResult {
	var errs []ValidationError
	seen := make(map[string]int)
	for i, r := range racks {
		prefix := fmt.Sprintf("racks[%d]", i)
		errs = append(errs, v.structErrors(prefix, r)...)

		if r.Position == "" {
			continue
		}
		if first, dup := seen[r.Position]; dup {
			errs = append(errs, ValidationError{
				Field:   prefix + ".position",
				Message: fmt.Sprintf("Duplicate rack position (first seen at racks[%d])", first),
				Value:   r.Position,
			})
			continue
		}
		seen[r.Position] = i
	}
	return newResult(errs)
}

// ValidateSwitches checks every switch.
func (v *Validator) ValidateSwitches(switches []models.Switch) *ValidationResult {
	var errs []ValidationError
	for i, s := range switches {
		errs = append(errs, v.structErrors(fmt.Sprintf("switches[%d]", i), s)...)
	}
	return newResult(errs)
}

// structErrors runs the tag-based checks on one record.
func (v *Validator) structErrors(prefix string, record interface{}) []ValidationError {
	err := v.structValidator.Struct(record)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []ValidationError{{Field: prefix, Message: err.Error()}}
	}

	out := make([]ValidationError, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Namespace()
		if i := strings.IndexByte(field, '.'); i >= 0 {
			field = field[i+1:]
		}
		out = append(out, ValidationError{
			Field:   prefix + "." + field,
			Message: message(fe),
			Value:   fe.Value(),
		})
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Field is required"
	case "ip":
		return "Invalid IP address format"
	case "gte":
		return "Value must be at least " + fe.Param()
	default:
		return fmt.Sprintf("Failed %q validation", fe.Tag())
	}
}
