package validate

import (
	"strings"

	"usdtgen/internal/typemap"
)

var cKeywords = []string{
	"auto", "break", "case", "char", "const", "continue", "default", "do",
	"double", "else", "enum", "extern", "float", "for", "goto", "if",
	"inline", "int", "long", "register", "restrict", "return", "short",
	"signed", "sizeof", "static", "struct", "switch", "typedef", "union",
	"unsigned", "void", "volatile", "while",
}

var goKeywords = []string{
	"break", "case", "chan", "const", "continue", "default", "defer", "else",
	"fallthrough", "for", "func", "go", "goto", "if", "import", "interface",
	"map", "package", "range", "return", "select", "struct", "switch", "type",
	"var",
}

// reserved maps every keyword to the languages reserving it.
var reserved = func() map[string]string {
	m := make(map[string]string, len(cKeywords)+len(goKeywords))
	for _, kw := range cKeywords {
		m[kw] = "C"
	}

	for _, kw := range goKeywords {
		if _, ok := m[kw]; ok {
			m[kw] = "C and Go"
			continue
		}

		m[kw] = "Go"
	}

	return m
}()

// stdintTypes are the typedefs of <stdint.h>, which the generated C files
// include.
var stdintTypes = []string{
	"int8_t", "int16_t", "int32_t", "int64_t",
	"uint8_t", "uint16_t", "uint32_t", "uint64_t",
	"int_least8_t", "int_least16_t", "int_least32_t", "int_least64_t",
	"uint_least8_t", "uint_least16_t", "uint_least32_t", "uint_least64_t",
	"int_fast8_t", "int_fast16_t", "int_fast32_t", "int_fast64_t",
	"uint_fast8_t", "uint_fast16_t", "uint_fast32_t", "uint_fast64_t",
	"intptr_t", "uintptr_t", "intmax_t", "uintmax_t",
}

// typeNames holds the names a parameter must not take: as a C parameter
// name they would hide the typedef from later parameters.
var typeNames = func() map[string]bool {
	m := make(map[string]bool, len(stdintTypes))
	for _, name := range stdintTypes {
		m[name] = true
	}

	for _, spelling := range typemap.Spellings() {
		if !strings.ContainsAny(spelling, " *") {
			m[spelling] = true
		}
	}

	return m
}()
