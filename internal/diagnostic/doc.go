// Package diagnostic collects positioned errors, warnings and notes
// produced while checking provider files and probe call sites.
//
// Error diagnostics keep the typed error that caused them, so callers can
// use errors.As on the result of Diagnostics.Err.
package diagnostic
