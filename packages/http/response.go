package http

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html/charset"
)

type Response struct {
	Proto      string
	StatusCode int
	Status     string // reason phrase only, e.g. "Not Found"
	Headers    []Header
	Duration   time.Duration

	body     io.ReadCloser
	bodyRead bool
	bodyData []byte
	bodyErr  error
}

// NewResponse wraps a transport response. The body is left unread until Body is called.
func NewResponse(raw *http.Response, duration time.Duration) *Response {
	return &Response{
		Proto:      raw.Proto,
		StatusCode: raw.StatusCode,
		Status:     reasonPhrase(raw),
		Headers:    flattenHeaders(raw.Header),
		Duration:   duration,
		body:       raw.Body,
	}
}

// Body reads the whole body on first use. A body whose Content-Type declares a
// charset other than UTF-8 is decoded to UTF-8; any other body is returned
// byte for byte. Later calls return the cached result.
func (r *Response) Body() ([]byte, error) {
	if r.bodyRead {
		return r.bodyData, r.bodyErr
	}
	r.bodyRead = true

	if r.body == nil {
		return nil, nil
	}
	defer r.body.Close()

	data, err := io.ReadAll(r.body)
	if err != nil {
		r.bodyErr = &BodyReadError{Err: err}
		return nil, r.bodyErr
	}

	data, err = decodeCharset(data, r.ContentType())
	if err != nil {
		r.bodyErr = &BodyReadError{Err: err}
		return nil, r.bodyErr
	}
	r.bodyData = data
	return data, nil
}

// decodeCharset transcodes data from the charset named in contentType. Nothing
// is guessed: without a charset parameter the bytes pass through unchanged.
func decodeCharset(data []byte, contentType string) ([]byte, error) {
	if len(data) == 0 || contentType == "" {
		return data, nil
	}

	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return data, nil
	}
	label, ok := params["charset"]
	if !ok {
		return data, nil
	}

	enc, name := charset.Lookup(label)
	if enc == nil {
		return nil, fmt.Errorf("unsupported charset %q", label)
	}
	if name == "utf-8" {
		return data, nil
	}

	decoded, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return nil, fmt.Errorf("decoding %s body: %w", name, err)
	}
	return decoded, nil
}

func (r *Response) BodyString() (string, error) {
	b, err := r.Body()
	return string(b), err
}

// Close releases an unread body.
func (r *Response) Close() error {
	if r.bodyRead || r.body == nil {
		return nil
	}
	r.bodyRead = true
	return r.body.Close()
}

func (r *Response) Header(key string) string {
	for _, h := range r.Headers {
		if strings.EqualFold(h.Name, key) {
			return h.Value
		}
	}
	return ""
}

func (r *Response) ContentType() string {
	return r.Header("Content-Type")
}

func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

func (r *Response) DurationMs() int64 {
	return r.Duration.Milliseconds()
}

// StatusLine renders the response status as "HTTP/1.1 404 Not Found".
func (r *Response) StatusLine() string {
	return strings.TrimSpace(r.Proto + " " + strconv.Itoa(r.StatusCode) + " " + r.Status)
}

func reasonPhrase(raw *http.Response) string {
	code := strconv.Itoa(raw.StatusCode)
	if reason, ok := strings.CutPrefix(raw.Status, code+" "); ok {
		return reason
	}
	if raw.Status != "" && raw.Status != code {
		return raw.Status
	}
	return http.StatusText(raw.StatusCode)
}

// flattenHeaders lists one entry per header value. net/http keeps headers in a
// map, so names are sorted to keep the output stable.
func flattenHeaders(h http.Header) []Header {
	names := make([]string, 0, len(h))
	for name := range h {
		names = append(names, name)
	}
	sort.Strings(names)

	headers := make([]Header, 0, len(names))
	for _, name := range names {
		for _, v := range h[name] {
			headers = append(headers, Header{Name: name, Value: v})
		}
	}
	return headers
}
