package http

import (
	"net/http"

	"github.com/go-resty/resty/v2"
)

// Descriptor describes one request before it is built.
type Descriptor struct {
	Method      string
	URL         string
	Headers     []string
	Body        *string // nil sends a bodyless request
	JSONRequest bool
}

// StringPtr returns a pointer to s, for Descriptor.Body.
func StringPtr(s string) *string {
	return &s
}

type callFunc func(r *resty.Request, url string) (*resty.Response, error)

// methods is the closed set of supported methods.
var methods = map[string]callFunc{
	http.MethodGet:    (*resty.Request).Get,
	http.MethodPost:   (*resty.Request).Post,
	http.MethodPut:    (*resty.Request).Put,
	http.MethodDelete: (*resty.Request).Delete,
	http.MethodHead:   (*resty.Request).Head,
}

// SupportedMethods lists the methods NewRequest accepts.
func SupportedMethods() []string {
	return []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodHead}
}

// Request is a method-specific request handle ready to be sent by a Client.
type Request struct {
	Method  string
	URL     string
	Headers []Header
	call    callFunc
}

// NewRequest maps a method and URL to a request handle. The method is matched
// exactly; callers uppercase it first.
func NewRequest(method, url string) (*Request, error) {
	call, ok := methods[method]
	if !ok {
		return nil, &UnsupportedMethodError{Method: method}
	}
	return &Request{
		Method: method,
		URL:    url,
		call:   call,
	}, nil
}

// SetHeaders replaces the headers applied when the request is sent.
func (r *Request) SetHeaders(headers []Header) *Request {
	r.Headers = headers
	return r
}

// Build turns a Descriptor into a request with its merged headers applied.
// extraHeaders are merged after the descriptor's own so they never override them.
func Build(d *Descriptor, extraHeaders ...string) (*Request, error) {
	req, err := NewRequest(d.Method, d.URL)
	if err != nil {
		return nil, err
	}

	raw := make([]string, 0, len(d.Headers)+len(extraHeaders))
	raw = append(raw, d.Headers...)
	raw = append(raw, extraHeaders...)

	headers, err := MergeHeaders(raw, d.JSONRequest)
	if err != nil {
		return nil, err
	}
	return req.SetHeaders(headers), nil
}
