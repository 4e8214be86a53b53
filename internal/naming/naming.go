// Package naming derives every generated name from provider and probe
// identifiers.
//
// The C symbol names are a binary contract with the DTrace toolchain and
// with previously built objects: they must never change for a given input.
//
//	Symbol("my_provider", "my_probe")        = "my_provider_my_probe"
//	EnabledSymbol("my_provider", "my_probe") = "my_provider_my_probe_enabled"
//	Macro("my_provider", "query__start")     = "MY_PROVIDER_QUERY_START"
//	ProbeName("query__start")                = "query-start"
//	GoName("my_provider")                    = "MyProvider"
//
// Symbol is injective over any file the validator accepts: the validator
// rejects files in which two (provider, probe) pairs produce the same
// symbol, e.g. ("a_b", "c") and ("a", "b_c").
package naming

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// enabledSuffix is appended to a probe symbol for its is-enabled trampoline.
const enabledSuffix = "_enabled"

// Symbol returns the C symbol of the fire trampoline of a probe.
func Symbol(provider, probe string) string {
	return provider + "_" + probe
}

// EnabledSymbol returns the C symbol of the is-enabled trampoline of a probe.
func EnabledSymbol(provider, probe string) string {
	return Symbol(provider, probe) + enabledSuffix
}

// Macro returns the name of the probe macro emitted by "dtrace -h".
// dtrace upper-cases both names and turns the "__" separator of probe names
// into a single underscore.
func Macro(provider, probe string) string {
	return strings.ToUpper(provider) + "_" + strings.ToUpper(strings.ReplaceAll(probe, "__", "_"))
}

// EnabledMacro returns the name of the is-enabled macro emitted by "dtrace -h".
func EnabledMacro(provider, probe string) string {
	return Macro(provider, probe) + "_ENABLED"
}

// ProbeName returns the probe name as tracing consumers see it: DTrace
// turns "__" in a declared probe name into "-".
func ProbeName(probe string) string {
	return strings.ReplaceAll(probe, "__", "-")
}

// GoName returns the exported Go identifier for a provider or probe name.
// Underscore separated words are capitalized and joined; a name without
// underscores only gets its first letter capitalized.
func GoName(ident string) string {
	var b strings.Builder

	for _, word := range strings.Split(ident, "_") {
		if word == "" {
			continue
		}

		r, size := utf8.DecodeRuneInString(word)
		b.WriteRune(unicode.ToUpper(r))
		b.WriteString(word[size:])
	}

	return b.String()
}

// HandleType returns the Go type name of a provider's handle.
func HandleType(provider string) string {
	return GoName(provider) + "Probes"
}

// EnabledMethod returns the Go method name of a probe's is-enabled query.
func EnabledMethod(probe string) string {
	return GoName(probe) + "Enabled"
}

// HeaderGuard returns an include guard macro for a header file name. A name
// that does not start with a letter or underscore gets a "USDTGEN_" prefix.
func HeaderGuard(filename string) string {
	var b strings.Builder

	if r, _ := utf8.DecodeRuneInString(filename); r != '_' && !(r >= 'a' && r <= 'z') && !(r >= 'A' && r <= 'Z') {
		b.WriteString("USDTGEN_")
	}

	for _, r := range filename {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(unicode.ToUpper(r))
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}

	return b.String()
}
