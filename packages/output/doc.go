// Package output renders HTTP responses for the terminal.
//
// A single formatter routine prints any ordered list of fields, so the
// single-request path (plain or include mode) and collection entries
// (print selectors) share the same code. Labels are bolded unless color
// is disabled.
package output
