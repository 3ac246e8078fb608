package cmd

import "errors"

// Exit codes for the ax CLI
const (
	// ExitSuccess covers success and every reported but non-fatal problem,
	// such as an unsupported method or a missing collection file
	ExitSuccess = 0

	// ExitFailure indicates any error without a more specific code
	ExitFailure = 1

	// ExitParseError indicates an invalid collection file found by validate
	ExitParseError = 2

	// ExitConfigError indicates a config file that exists but cannot be read
	ExitConfigError = 3

	// ExitNetworkError indicates a transport or response body read failure
	ExitNetworkError = 4

	// ExitUsageError indicates invalid CLI usage
	ExitUsageError = 64
)

type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

func withExitCode(code int, err error) error {
	return &exitError{code: code, err: err}
}

func exitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return ExitFailure
}
