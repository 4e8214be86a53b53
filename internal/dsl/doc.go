// Package dsl parses provider definition files.
//
// The accepted language is the provider subset of the DTrace D language:
//
//	file      = { provider } EOF .
//	provider  = "provider" ident "{" { probe } "}" [ ";" ] .
//	probe     = "probe" ident "(" [ param { "," param } [ "," ] ] ")" ";" .
//	param     = type [ ident ] .
//	type      = word { word } { "*" } .
//	ident     = ( letter | "_" ) { letter | digit | "_" } .
//
// Whitespace is space, tab, CR and LF. Comments are "/* ... */" (not nested)
// and "//" up to the end of the line. "provider" and "probe" are reserved.
// There are no preprocessor lines, literals or pragmas; anything outside the
// grammar is a syntax error, never a guess.
//
// A param is the run of words and stars up to the next "," or ")". If the
// whole run spells a type of the closed type table it is unnamed; otherwise
// a known type followed by one word names the parameter. Anything else is
// an unknown type.
//
// Parsing stops at the first error. The lexer is built on
// github.com/timtadh/lexmachine.
package dsl
