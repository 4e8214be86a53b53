package typemap

import (
	"fmt"
	"strconv"
	"strings"
)

//go:generate go tool stringer -type=Class -trimprefix=Class -output=class_string.go

// Class describes how a value travels through a 64-bit ABI argument slot.
type Class int

const (
	_ Class = iota // zero value is not a valid class

	// ClassUnsigned values are zero extended.
	ClassUnsigned
	// ClassSigned values are sign extended.
	ClassSigned
	// ClassPointer values are pointer sized and opaque to the ABI.
	ClassPointer
)

// Type is a provider argument type tag.
type Type int

const (
	_ Type = iota // zero value is "no type"

	Uint8
	Uint16
	Uint32
	Uint64
	Int8
	Int16
	Int32
	Int64
	Uintptr
	CharPtr
	String

	// typeCount is one past the last valid Type.
	typeCount
)

// PointerWidth is the byte width of pointer-class types on the build target.
const PointerWidth = strconv.IntSize / 8

// Info is one row of the type table.
type Info struct {
	// Type is the tag this row describes.
	Type Type
	// Spelling is the canonical provider-file spelling, e.g. "char *".
	Spelling string
	// CType is the C ABI parameter type.
	CType string
	// GoType is the Go type application code supplies.
	GoType string
	// CgoType is the cgo type the binding converts the Go value into.
	CgoType string
	// Width is the size in bytes of the ABI value.
	Width int
	// Class is the slot encoding of the value.
	Class Class
}

// IsString reports whether the value is passed as a borrowed C string.
func (i Info) IsString() bool {
	return i.GoType == "string"
}

// Bits returns the width in bits.
func (i Info) Bits() int {
	return i.Width * 8
}

var table = [typeCount]Info{
	Uint8:   {Uint8, "uint8_t", "uint8_t", "uint8", "C.uint8_t", 1, ClassUnsigned},
	Uint16:  {Uint16, "uint16_t", "uint16_t", "uint16", "C.uint16_t", 2, ClassUnsigned},
	Uint32:  {Uint32, "uint32_t", "uint32_t", "uint32", "C.uint32_t", 4, ClassUnsigned},
	Uint64:  {Uint64, "uint64_t", "uint64_t", "uint64", "C.uint64_t", 8, ClassUnsigned},
	Int8:    {Int8, "int8_t", "int8_t", "int8", "C.int8_t", 1, ClassSigned},
	Int16:   {Int16, "int16_t", "int16_t", "int16", "C.int16_t", 2, ClassSigned},
	Int32:   {Int32, "int32_t", "int32_t", "int32", "C.int32_t", 4, ClassSigned},
	Int64:   {Int64, "int64_t", "int64_t", "int64", "C.int64_t", 8, ClassSigned},
	Uintptr: {Uintptr, "uintptr_t", "uintptr_t", "uintptr", "C.uintptr_t", PointerWidth, ClassPointer},
	CharPtr: {CharPtr, "char *", "char *", "string", "*C.char", PointerWidth, ClassPointer},
	String:  {String, "string", "char *", "string", "*C.char", PointerWidth, ClassPointer},
}

// spellings indexes the table by normalized spelling.
var spellings = func() map[string]Type {
	m := make(map[string]Type, len(table))
	for _, info := range table[1:] {
		m[Normalize(info.Spelling)] = info.Type
	}

	return m
}()

// goNames indexes Go host types, including the predeclared aliases.
var goNames = map[string]Type{
	"uint8":   Uint8,
	"byte":    Uint8,
	"uint16":  Uint16,
	"uint32":  Uint32,
	"uint64":  Uint64,
	"int8":    Int8,
	"int16":   Int16,
	"int32":   Int32,
	"rune":    Int32,
	"int64":   Int64,
	"uintptr": Uintptr,
	"string":  String,
}

// Normalize canonicalizes a type spelling: words are separated by a single
// space and stars are attached without space ("char  *" -> "char*").
func Normalize(spelling string) string {
	var b strings.Builder

	for _, word := range strings.Fields(strings.ReplaceAll(spelling, "*", " * ")) {
		if word == "*" {
			b.WriteString(word)
			continue
		}

		if b.Len() > 0 {
			b.WriteByte(' ')
		}

		b.WriteString(word)
	}

	return b.String()
}

// Lookup resolves a provider-file spelling.
func Lookup(spelling string) (Info, bool) {
	t, ok := spellings[Normalize(spelling)]
	if !ok {
		return Info{}, false
	}

	return table[t], true
}

// FromGoName resolves the name of a predeclared Go type to the tag whose
// host type it denotes. "string" resolves to String.
func FromGoName(name string) (Type, bool) {
	t, ok := goNames[name]
	return t, ok
}

// Valid reports whether t is in the table.
func (t Type) Valid() bool {
	return t > 0 && t < typeCount
}

// Info returns the table row for t. It panics for invalid tags.
func (t Type) Info() Info {
	if !t.Valid() {
		panic(fmt.Sprintf("typemap: invalid type %d", int(t)))
	}

	return table[t]
}

// MustInfo returns the table row for t. It panics for invalid tags.
func MustInfo(t Type) Info {
	return t.Info()
}

// String returns the canonical provider-file spelling.
func (t Type) String() string {
	if !t.Valid() {
		return "Type(" + strconv.Itoa(int(t)) + ")"
	}

	return table[t].Spelling
}

// All returns every table row in table order.
func All() []Info {
	out := make([]Info, 0, len(table)-1)

	return append(out, table[1:]...)
}

// Spellings returns the canonical spellings in table order.
func Spellings() []string {
	out := make([]string, 0, len(table)-1)
	for _, info := range table[1:] {
		out = append(out, info.Spelling)
	}

	return out
}

// AssignableTo reports whether a Go value of host type from can be returned
// where the binding declares host type to. Function result types in Go are
// only assignable when identical, so two tags are compatible exactly when
// they share a Go host type.
func AssignableTo(from, to Type) bool {
	if !from.Valid() || !to.Valid() {
		return false
	}

	return table[from].GoType == table[to].GoType
}
