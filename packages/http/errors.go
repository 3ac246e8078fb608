package http

import "fmt"

// UnsupportedMethodError is returned by NewRequest for methods outside the
// supported set.
type UnsupportedMethodError struct {
	Method string
}

func (e *UnsupportedMethodError) Error() string {
	return fmt.Sprintf("Unsupported HTTP method: %s", e.Method)
}

// MalformedHeaderError reports a raw header that is not a single "Name: Value" pair.
type MalformedHeaderError struct {
	Header string
}

func (e *MalformedHeaderError) Error() string {
	return fmt.Sprintf("Invalid header format: %s", e.Header)
}

// TransportError wraps connection and I/O failures. HTTP error statuses are
// never reported this way.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// BodyReadError is returned when the response body cannot be read or decoded.
type BodyReadError struct {
	Err error
}

func (e *BodyReadError) Error() string {
	return fmt.Sprintf("reading response body: %v", e.Err)
}

func (e *BodyReadError) Unwrap() error {
	return e.Err
}
