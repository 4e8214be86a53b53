package invoke

import (
	"errors"
	"fmt"
	"strings"

	"usdtgen/internal/typemap"
)

// Signature is the declared argument list of a probe.
type Signature struct {
	Provider string
	Probe    string
	Params   []typemap.Type
}

// Name returns "provider:probe".
func (s Signature) Name() string {
	return s.Provider + ":" + s.Probe
}

// Site is the position of a fire call.
type Site struct {
	File   string
	Line   int
	Column int
}

func (s Site) String() string {
	if s.File == "" {
		return fmt.Sprintf("%d:%d", s.Line, s.Column)
	}

	return fmt.Sprintf("%s:%d:%d", s.File, s.Line, s.Column)
}

// Value is one value a thunk supplies.
type Value struct {
	// Type is the Go spelling of the value's type.
	Type string
	// Tag is the table type whose host type the value has, or the zero Type
	// when no table row uses it.
	Tag typemap.Type
}

// ValueOf returns the Value of a predeclared Go type name. Names outside
// the table, including defined types, get the zero Tag.
func ValueOf(goType string) Value {
	tag, _ := typemap.FromGoName(goType)
	return Value{Type: goType, Tag: tag}
}

// ArityMismatchError reports a thunk supplying the wrong number of values.
type ArityMismatchError struct {
	Probe    string
	Expected int
	Actual   int
	Site     Site
}

func (e *ArityMismatchError) Error() string {
	return fmt.Sprintf("%s: probe %s expects %d argument(s), the thunk supplies %d",
		e.Site, e.Probe, e.Expected, e.Actual)
}

// TypeMismatchError reports a supplied value whose type is not the declared
// host type.
type TypeMismatchError struct {
	Probe    string
	Position int
	Expected string
	Actual   string
	Site     Site
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("%s: probe %s argument %d must be %s, the thunk supplies %s",
		e.Site, e.Probe, e.Position, e.Expected, e.Actual)
}

// Check validates the values supplied at site against sig and returns the
// first violation. Arity is checked before types.
func Check(sig Signature, site Site, supplied []Value) error {
	errs := check(sig, site, supplied, true)
	if len(errs) == 0 {
		return nil
	}

	return errs[0]
}

// CheckAll is Check reporting every mismatching position. An arity
// mismatch is reported alone.
func CheckAll(sig Signature, site Site, supplied []Value) error {
	return errors.Join(check(sig, site, supplied, false)...)
}

func check(sig Signature, site Site, supplied []Value, first bool) []error {
	if len(supplied) != len(sig.Params) {
		return []error{&ArityMismatchError{
			Probe:    sig.Name(),
			Expected: len(sig.Params),
			Actual:   len(supplied),
			Site:     site,
		}}
	}

	var errs []error

	for i, want := range sig.Params {
		got := supplied[i]
		if typemap.AssignableTo(got.Tag, want) {
			continue
		}

		errs = append(errs, &TypeMismatchError{
			Probe:    sig.Name(),
			Position: i,
			Expected: want.Info().GoType,
			Actual:   describe(got),
			Site:     site,
		})

		if first {
			break
		}
	}

	return errs
}

func describe(v Value) string {
	if strings.TrimSpace(v.Type) == "" {
		return "a value of unknown type"
	}

	return v.Type
}
