// Package http builds and sends the single HTTP request behind every ax invocation.
//
// It covers the request side of the pipeline:
//   - Header merging with first-wins precedence and the JSON content-type override
//   - Method dispatch onto the transport's per-method calls
//   - Invoking the request with or without a payload
//   - Response capture, with the body read lazily and fully into memory
//
// The transport is a resty client. HTTP error statuses are returned as regular
// responses; only transport failures surface as errors.
package http
