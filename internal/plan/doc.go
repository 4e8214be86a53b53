// Package plan resolves a validated provider file into the immutable model
// every generator reads.
//
// Resolution pipeline:
//  1. Parse the provider file (package dsl)
//  2. Validate it (package validate)
//  3. Resolve: attach type table rows and every generated name to each
//     provider, probe and argument
//
// A Plan is never modified after Resolve returns; generators and the
// call-site checker share it by pointer.
package plan
