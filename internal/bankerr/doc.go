// Package bankerr defines the sentinel error markers shared by the extraction
// pipeline.
//
// Errors are classified by scope: description and configuration problems abort
// the run, an unavailable bank zeroes that bank only, and entry-level markers
// never escape the bank they occurred in. Wrap tags an error with one of the
// markers so callers can branch with errors.Is instead of string matching.
package bankerr
