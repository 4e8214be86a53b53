package validate

import (
	"fmt"

	"usdtgen/internal/dsl"
)

// Kinds of names checked for uniqueness.
const (
	KindProvider = "provider"
	KindProbe    = "probe"
	KindArgument = "argument"
	KindSymbol   = "symbol"
	KindBinding  = "binding"
)

// DuplicateNameError reports a name declared twice, or two declarations
// that generate the same symbol or Go identifier.
type DuplicateNameError struct {
	Kind     string
	Name     string
	Pos      dsl.Pos
	Previous dsl.Pos
}

func (e *DuplicateNameError) Error() string {
	msg := fmt.Sprintf("%s: duplicate %s %q", e.Pos, e.Kind, e.Name)
	if e.Previous.IsValid() {
		msg += fmt.Sprintf(" (previous declaration at %s)", e.Previous)
	}

	return msg
}

// Position returns the second declaration.
func (e *DuplicateNameError) Position() dsl.Pos { return e.Pos }

// InvalidIdentifierError reports a name that cannot be used in generated
// code.
type InvalidIdentifierError struct {
	Name   string
	Pos    dsl.Pos
	Reason string
}

func (e *InvalidIdentifierError) Error() string {
	return fmt.Sprintf("%s: invalid identifier %q: %s", e.Pos, e.Name, e.Reason)
}

// Position returns where the identifier was declared.
func (e *InvalidIdentifierError) Position() dsl.Pos { return e.Pos }

// ArityTooLargeError reports a probe with more arguments than the
// trampolines support.
type ArityTooLargeError struct {
	Provider string
	Probe    string
	Count    int
	Max      int
	Pos      dsl.Pos
}

func (e *ArityTooLargeError) Error() string {
	return fmt.Sprintf("%s: probe %s:%s has %d arguments, at most %d are supported",
		e.Pos, e.Provider, e.Probe, e.Count, e.Max)
}

// Position returns the probe declaration.
func (e *ArityTooLargeError) Position() dsl.Pos { return e.Pos }
