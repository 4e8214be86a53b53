// Package invoke decides whether a probe fire call supplies the argument
// tuple its probe declares.
//
// The decision is pure: it compares a declared Signature with the types of
// the values a call site's thunk returns, and attributes any violation to
// that call site.
package invoke
