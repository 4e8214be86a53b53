// Package validate checks a parsed provider file before any code is
// generated from it.
//
// Validation is exhaustive: every independent problem is reported, in
// source order, so a provider file can be fixed in one pass. Besides the
// rules of the language itself (unique names, legal identifiers, bounded
// arity, known types) the validator rejects files whose generated C
// symbols or Go identifiers would collide.
package validate
