package dsl

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSyntax is matched by every malformed-input error of the parser.
var ErrSyntax = errors.New("syntax error")

// PositionedError is an error tied to a place in a provider file.
type PositionedError interface {
	error
	Position() Pos
}

// UnexpectedTokenError reports a token the grammar does not allow.
type UnexpectedTokenError struct {
	Pos      Pos
	Found    string
	Expected []string
}

func (e *UnexpectedTokenError) Error() string {
	msg := fmt.Sprintf("%s: unexpected %s", e.Pos, e.Found)
	if len(e.Expected) > 0 {
		msg += ", expected " + strings.Join(e.Expected, " or ")
	}

	return msg
}

// Position returns where the token starts.
func (e *UnexpectedTokenError) Position() Pos { return e.Pos }

// Unwrap lets errors.Is match ErrSyntax.
func (e *UnexpectedTokenError) Unwrap() error { return ErrSyntax }

// UnterminatedBlockError reports end of input inside a provider block or a
// parameter list. Pos is the opening brace or parenthesis.
type UnterminatedBlockError struct {
	Pos  Pos
	What string
}

func (e *UnterminatedBlockError) Error() string {
	return fmt.Sprintf("%s: unterminated %s", e.Pos, e.What)
}

// Position returns the opening delimiter.
func (e *UnterminatedBlockError) Position() Pos { return e.Pos }

// Unwrap lets errors.Is match ErrSyntax.
func (e *UnterminatedBlockError) Unwrap() error { return ErrSyntax }

// UnknownTypeError reports a type spelling outside the closed type table.
type UnknownTypeError struct {
	Name string
	Pos  Pos
	// Suggestion is the closest known spelling, if any is close.
	Suggestion string
}

func (e *UnknownTypeError) Error() string {
	msg := fmt.Sprintf("%s: unknown type %q", e.Pos, e.Name)
	if e.Suggestion != "" {
		msg += fmt.Sprintf(" (did you mean %q?)", e.Suggestion)
	}

	return msg
}

// Position returns where the type starts.
func (e *UnknownTypeError) Position() Pos { return e.Pos }
