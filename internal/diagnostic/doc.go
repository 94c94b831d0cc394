// Package diagnostic provides the structured validation errors and warnings
// produced while resolving a target descriptor.
//
// Every failure carries a Code, the descriptor Field it concerns and the
// offending Subject (a kind, version tag or module name). Failures of one
// resolution are aggregated into a single ValidationError; errors.Is matches
// each of the sentinel errors below against it.
package diagnostic
