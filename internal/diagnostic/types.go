package diagnostic

import (
	"errors"
	"fmt"
	"strings"

	"targetrules/internal/common"
)

// Field names used in diagnostics, matching the descriptor file keys.
const (
	FieldName                = "name"
	FieldKind                = "kind"
	FieldSettingsVersion     = "settings_version"
	FieldIncludeOrderVersion = "include_order_version"
	FieldModules             = "modules"
	FieldEntryModule         = "entry_module"
	FieldOverrides           = "overrides"
	FieldState               = "state"
)

// Diagnostics holds all diagnostic information from resolution.
type Diagnostics struct {
	Errors   []Diagnostic
	Warnings []Diagnostic
}

// Diagnostic represents a single diagnostic message.
type Diagnostic struct {
	// Severity of the diagnostic.
	Severity Severity
	// Code is a unique identifier for this type of diagnostic.
	Code Code
	// Field is the descriptor field the diagnostic relates to.
	Field string
	// Subject is the offending value (kind, version tag, module or option name).
	Subject string
	// Participants lists every module involved in a dependency cycle.
	Participants []string
	// Message is the human-readable description.
	Message string
}

// Severity represents the severity level of a diagnostic.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

// String returns a human-readable severity name.
func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return common.UnknownStr
	}
}

// New returns an error-severity diagnostic.
func New(code Code, field, subject, message string) *Diagnostic {
	return &Diagnostic{
		Severity: SeverityError,
		Code:     code,
		Field:    field,
		Subject:  subject,
		Message:  message,
	}
}

// Newf is New with a formatted message.
func Newf(code Code, field, subject, format string, args ...any) *Diagnostic {
	return New(code, field, subject, fmt.Sprintf(format, args...))
}

// Error implements error.
func (d *Diagnostic) Error() string {
	return d.String()
}

// Unwrap returns the sentinel error for the diagnostic code.
func (d *Diagnostic) Unwrap() error {
	return d.Code.Err()
}

// String returns a formatted diagnostic string.
func (d Diagnostic) String() string {
	var prefix []string
	if d.Field != "" {
		prefix = append(prefix, d.Field)
	}

	if d.Subject != "" {
		prefix = append(prefix, fmt.Sprintf("%q", d.Subject))
	}

	msg := d.Message
	if msg == "" {
		if err := d.Code.Err(); err != nil {
			msg = err.Error()
		}
	}

	if len(d.Participants) > 0 {
		msg = fmt.Sprintf("%s [%s]", msg, strings.Join(d.Participants, ", "))
	}

	if d.Code != "" {
		msg = fmt.Sprintf("[%s] %s", d.Code, msg)
	}

	if len(prefix) > 0 {
		return strings.Join(prefix, " ") + ": " + msg
	}

	return msg
}

// Add appends a diagnostic to the list matching its severity.
func (d *Diagnostics) Add(diag Diagnostic) {
	if diag.Severity == SeverityWarning {
		d.Warnings = append(d.Warnings, diag)
		return
	}

	d.Errors = append(d.Errors, diag)
}

// AddError adds an error diagnostic.
func (d *Diagnostics) AddError(code Code, field, subject, message string) {
	d.Add(*New(code, field, subject, message))
}

// AddWarning adds a warning diagnostic.
func (d *Diagnostics) AddWarning(code Code, field, subject, message string) {
	d.Warnings = append(d.Warnings, Diagnostic{
		Severity: SeverityWarning,
		Code:     code,
		Field:    field,
		Subject:  subject,
		Message:  message,
	})
}

// AddErr records err. Diagnostics and ValidationErrors keep their structure;
// any other error is recorded under field without a code.
func (d *Diagnostics) AddErr(field string, err error) {
	if err == nil {
		return
	}

	var verr *ValidationError
	if errors.As(err, &verr) {
		d.Merge(verr.Diagnostics)
		return
	}

	var diag *Diagnostic
	if errors.As(err, &diag) {
		d.Add(*diag)
		return
	}

	d.Errors = append(d.Errors, Diagnostic{Severity: SeverityError, Field: field, Message: err.Error()})
}

// HasErrors returns true if there are any error diagnostics.
func (d *Diagnostics) HasErrors() bool {
	return len(d.Errors) > 0
}

// Merge merges another Diagnostics instance into this one.
func (d *Diagnostics) Merge(other Diagnostics) {
	d.Errors = append(d.Errors, other.Errors...)
	d.Warnings = append(d.Warnings, other.Warnings...)
}

// IsValid returns true if there are no errors.
func (d *Diagnostics) IsValid() bool {
	return len(d.Errors) == 0
}

// Err returns a *ValidationError holding all diagnostics, or nil if valid.
func (d *Diagnostics) Err() error {
	if d.IsValid() {
		return nil
	}

	return &ValidationError{Diagnostics: *d}
}

// ValidationError is the aggregated failure of one validation pass.
type ValidationError struct {
	Diagnostics Diagnostics
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Diagnostics.Errors))
	for _, d := range e.Diagnostics.Errors {
		parts = append(parts, d.String())
	}

	return "validation failed: " + strings.Join(parts, "; ")
}

// Unwrap exposes every error diagnostic to errors.Is and errors.As.
func (e *ValidationError) Unwrap() []error {
	errs := make([]error, 0, len(e.Diagnostics.Errors))
	for i := range e.Diagnostics.Errors {
		errs = append(errs, &e.Diagnostics.Errors[i])
	}

	return errs
}

// Find returns the first error diagnostic with the given code.
func (e *ValidationError) Find(code Code) (Diagnostic, bool) {
	return common.FirstFunc(e.Diagnostics.Errors, func(d Diagnostic) bool { return d.Code == code })
}
