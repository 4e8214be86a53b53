package diagnostic

import (
	"cmp"
	"errors"
	"slices"

	"usdtgen/internal/dsl"
)

// Diagnostic codes.
const (
	CodeSyntax            = "syntax_error"
	CodeDuplicateName     = "duplicate_name"
	CodeInvalidIdentifier = "invalid_identifier"
	CodeArityTooLarge     = "arity_too_large"
	CodeUnknownType       = "unknown_type"
	CodeArityMismatch     = "arity_mismatch"
	CodeTypeMismatch      = "type_mismatch"
	CodeInvalidThunk      = "invalid_thunk"
	CodeEmptyProvider     = "empty_provider"
	CodeEmptyFile         = "empty_file"
	CodeTraceName         = "trace_name"
)

// Diagnostics holds all diagnostic information from one check.
type Diagnostics struct {
	Errors   []Diagnostic
	Warnings []Diagnostic
	Infos    []Diagnostic
}

// Diagnostic represents a single diagnostic message.
type Diagnostic struct {
	// Severity of the diagnostic.
	Severity DiagnosticSeverity
	// Code is a unique identifier for this type of diagnostic.
	Code string
	// Message is the human-readable description.
	Message string
	// Pos is where the problem was found. It may be the zero Pos.
	Pos dsl.Pos
	// Err is the typed error behind an error diagnostic.
	Err error
}

// DiagnosticSeverity represents the severity level of a diagnostic.
type DiagnosticSeverity int

const (
	DiagnosticInfo DiagnosticSeverity = iota
	DiagnosticWarning
	DiagnosticError
)

// String returns a human-readable severity name.
func (s DiagnosticSeverity) String() string {
	switch s {
	case DiagnosticInfo:
		return "info"
	case DiagnosticWarning:
		return "warning"
	case DiagnosticError:
		return "error"
	default:
		return "unknown"
	}
}

// AddError adds an error diagnostic. The message is taken from err.
func (d *Diagnostics) AddError(code string, pos dsl.Pos, err error) {
	d.Errors = append(d.Errors, Diagnostic{
		Severity: DiagnosticError,
		Code:     code,
		Message:  err.Error(),
		Pos:      pos,
		Err:      err,
	})
}

// AddWarning adds a warning diagnostic.
func (d *Diagnostics) AddWarning(code string, pos dsl.Pos, message string) {
	d.Warnings = append(d.Warnings, Diagnostic{
		Severity: DiagnosticWarning,
		Code:     code,
		Message:  message,
		Pos:      pos,
	})
}

// AddInfo adds an info diagnostic.
func (d *Diagnostics) AddInfo(code string, pos dsl.Pos, message string) {
	d.Infos = append(d.Infos, Diagnostic{
		Severity: DiagnosticInfo,
		Code:     code,
		Message:  message,
		Pos:      pos,
	})
}

// HasErrors returns true if there are any error diagnostics.
func (d *Diagnostics) HasErrors() bool {
	return len(d.Errors) > 0
}

// Merge merges another Diagnostics instance into this one.
func (d *Diagnostics) Merge(other Diagnostics) {
	d.Errors = append(d.Errors, other.Errors...)
	d.Warnings = append(d.Warnings, other.Warnings...)
	d.Infos = append(d.Infos, other.Infos...)
}

// IsValid returns true if there are no errors.
func (d *Diagnostics) IsValid() bool {
	return len(d.Errors) == 0
}

// Err joins the errors of all error diagnostics, or returns nil if valid.
func (d *Diagnostics) Err() error {
	if d.IsValid() {
		return nil
	}

	errs := make([]error, 0, len(d.Errors))
	for _, e := range d.Errors {
		errs = append(errs, e.Err)
	}

	return errors.Join(errs...)
}

// All returns every diagnostic ordered by position. Diagnostics on the same
// position keep severity order: errors, warnings, infos.
func (d *Diagnostics) All() []Diagnostic {
	all := make([]Diagnostic, 0, len(d.Errors)+len(d.Warnings)+len(d.Infos))
	all = append(all, d.Errors...)
	all = append(all, d.Warnings...)
	all = append(all, d.Infos...)

	slices.SortStableFunc(all, func(a, b Diagnostic) int {
		return cmp.Or(
			cmp.Compare(a.Pos.Filename, b.Pos.Filename),
			cmp.Compare(a.Pos.Line, b.Pos.Line),
			cmp.Compare(a.Pos.Column, b.Pos.Column),
		)
	})

	return all
}

// String returns a formatted diagnostic string. Errors render as their
// error text, which already carries the position.
func (d Diagnostic) String() string {
	msg := d.Message
	if d.Err == nil && d.Pos.IsValid() {
		msg = d.Pos.String() + ": " + msg
	}

	if d.Severity == DiagnosticWarning {
		msg = "warning: " + msg
	}

	if d.Code != "" {
		msg += " [" + d.Code + "]"
	}

	return msg
}
