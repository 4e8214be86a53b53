// Package gen renders the artifacts of a resolved provider plan.
//
// Generation uses text/template; the Go binding is additionally passed
// through go/format. Every artifact is a pure function of the plan and the
// generator configuration, so regenerating an unchanged file yields
// byte-identical output.
//
// Artifacts:
//   - Declaration: C header with one prototype per trampoline
//   - Definition: C trampolines calling the "dtrace -h" probe macros
//   - Binding: cgo handles with Enabled queries and thunk-taking fire methods
//   - BuildScript: POSIX sh script that builds the probe library
package gen
