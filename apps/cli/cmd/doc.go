// Package cmd implements the ax CLI commands using Cobra.
//
// The root command sends a single request, or runs a collection file with
// --collection. Other commands:
//   - validate: Check collection files against the schema
//   - list: Show the entries of collection files
//   - init: Create an example collection and config file
//   - import curl: Convert curl commands to a collection
//   - version: Show ax version information
//   - completion: Generate shell completion scripts
//
// Problems limited to one request, such as an unsupported method, a
// malformed header or a missing collection file, are reported on stderr and
// still exit 0. A transport failure in single-request mode exits with ExitNetworkError;
// in collection mode it is reported and the run goes on, still exiting 0.
package cmd
