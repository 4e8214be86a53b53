// Package callsite finds probe fire calls in Go packages and checks each
// call's thunk against the declared probe signature.
//
// It uses golang.org/x/tools/go/packages with AST and go/types. A call is
// a fire call when the static type of its receiver is a provider handle
// type of the plan and the method is one of that provider's fire methods;
// the generated binding itself does not need to be up to date.
package callsite
