package dsl

import (
	"fmt"

	"usdtgen/internal/typemap"
)

// Pos is a position in a provider file. Line and Column are 1-based.
type Pos struct {
	Filename string
	Line     int
	Column   int
}

// String renders the position as "file:line:col", omitting an empty file name.
func (p Pos) String() string {
	if p.Filename == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Column)
	}

	return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
}

// IsValid reports whether the position was set.
func (p Pos) IsValid() bool {
	return p.Line > 0
}

// File is a parsed provider file. Providers keep their source order.
type File struct {
	Name      string
	Providers []Provider
}

// Provider is a named group of probes.
type Provider struct {
	Name   string
	Pos    Pos
	Probes []Probe
}

// Probe is a single instrumentation point.
type Probe struct {
	Name string
	Pos  Pos
	Args []Argument
}

// Argument is one probe parameter.
type Argument struct {
	// Index is the 0-based position in the probe's parameter list.
	Index int
	// Name is the optional parameter name; empty when the file omits it.
	Name string
	// Type is the resolved type tag.
	Type typemap.Type
	// Spelling is the normalized type as written.
	Spelling string
	Pos      Pos
}

// ProbeCount returns the number of probes across all providers.
func (f *File) ProbeCount() int {
	n := 0
	for i := range f.Providers {
		n += len(f.Providers[i].Probes)
	}

	return n
}
