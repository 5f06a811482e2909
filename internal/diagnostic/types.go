package diagnostic

import (
	"errors"
	"fmt"
	"strings"

	"gsr-report/internal/common"
)

// Diagnostics holds all findings from one validation pass.
type Diagnostics struct {
	Errors   []Diagnostic
	Warnings []Diagnostic
	Infos    []Diagnostic
}

// Diagnostic represents a single finding.
type Diagnostic struct {
	// Severity of the diagnostic.
	Severity Severity
	// Code is a unique identifier for this type of diagnostic.
	Code string
	// Message is the human-readable description.
	Message string
	// Role identifies which mapping block this relates to (if any).
	Role string
	// Field identifies which field this relates to (if any).
	Field string
}

// Severity represents the severity level of a diagnostic.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

// String returns a human-readable severity name.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return common.UnknownStr
	}
}

// AddError records a finding that makes the mapping unusable.
func (d *Diagnostics) AddError(code, message, role, field string) {
	d.add(SeverityError, code, message, role, field)
}

// AddWarning records a tolerated deviation.
func (d *Diagnostics) AddWarning(code, message, role, field string) {
	d.add(SeverityWarning, code, message, role, field)
}

// AddInfo records drift worth surfacing to an editor.
func (d *Diagnostics) AddInfo(code, message, role, field string) {
	d.add(SeverityInfo, code, message, role, field)
}

func (d *Diagnostics) add(sev Severity, code, message, role, field string) {
	entry := Diagnostic{Severity: sev, Code: code, Message: message, Role: role, Field: field}

	switch sev {
	case SeverityError:
		d.Errors = append(d.Errors, entry)
	case SeverityWarning:
		d.Warnings = append(d.Warnings, entry)
	default:
		d.Infos = append(d.Infos, entry)
	}
}

// HasErrors reports whether any error was recorded.
func (d *Diagnostics) HasErrors() bool { return len(d.Errors) > 0 }

// IsValid is the negation of HasErrors.
func (d *Diagnostics) IsValid() bool { return !d.HasErrors() }

// All returns every diagnostic, errors first.
func (d *Diagnostics) All() []Diagnostic {
	out := make([]Diagnostic, 0, len(d.Errors)+len(d.Warnings)+len(d.Infos))
	out = append(out, d.Errors...)
	out = append(out, d.Warnings...)

	return append(out, d.Infos...)
}

// Error returns a combined error from all error diagnostics, or nil if valid.
func (d *Diagnostics) Error() error {
	if d.IsValid() {
		return nil
	}

	parts := make([]string, len(d.Errors))
	for i, e := range d.Errors {
		parts[i] = e.String()
	}

	return errors.New(strings.Join(parts, "; "))
}

// String returns a formatted diagnostic string.
func (d Diagnostic) String() string {
	var prefix []string
	if d.Role != "" {
		prefix = append(prefix, "["+d.Role+"]")
	}

	if d.Field != "" {
		prefix = append(prefix, d.Field)
	}

	msg := d.Message
	if d.Code != "" {
		msg = fmt.Sprintf("[%s] %s", d.Code, msg)
	}

	if len(prefix) > 0 {
		return strings.Join(prefix, " ") + ": " + msg
	}

	return msg
}
