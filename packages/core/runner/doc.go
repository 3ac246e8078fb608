// Package runner executes ax requests and collection files.
//
// RunRequest sends a single request built from command line flags and prints
// the response in include or plain mode. RunCollection loads a collection file
// and runs its entries strictly in file order, printing a "Collection: <name>"
// label before each entry's selected fields.
//
// Failures local to one entry, such as a malformed header or an unsupported
// method, are reported on stderr and never stop the batch. Watch re-runs a
// collection whenever its file changes.
package runner
