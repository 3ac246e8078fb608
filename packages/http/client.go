package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-resty/resty/v2"
)

// Client sends built requests through a resty client. It configures no
// timeout and no retries; transport defaults apply.
type Client struct {
	resty  *resty.Client
	logger *slog.Logger
}

type ClientOption func(*Client)

func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		resty:  resty.New().SetAllowGetMethodPayload(true),
		logger: slog.New(slog.DiscardHandler),
	}
	c.resty.SetPreRequestHook(stripDetectedContentType)

	for _, opt := range opts {
		opt(c)
	}

	return c
}

type noContentTypeKey struct{}

// stripDetectedContentType drops the Content-Type resty derives from a string
// payload when the caller sent none, so only merged headers go on the wire.
func stripDetectedContentType(_ *resty.Client, req *http.Request) error {
	if v, _ := req.Context().Value(noContentTypeKey{}).(bool); v {
		req.Header.Del(HeaderContentType)
	}
	return nil
}

// WithTransport replaces the underlying round tripper.
func WithTransport(rt http.RoundTripper) ClientOption {
	return func(c *Client) {
		c.resty.SetTransport(rt)
	}
}

func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Do sends req. A non-nil body is sent as the request payload; a nil body
// performs a bodyless call. Every HTTP status yields a Response; only
// transport failures return an error, as *TransportError.
func (c *Client) Do(ctx context.Context, req *Request, body *string) (*Response, error) {
	if body != nil && !hasHeader(req.Headers, HeaderContentType) {
		ctx = context.WithValue(ctx, noContentTypeKey{}, true)
	}

	r := c.resty.R().
		SetContext(ctx).
		SetDoNotParseResponse(true)

	for _, h := range req.Headers {
		r.SetHeader(h.Name, h.Value)
	}

	if body != nil {
		r.SetBody(*body)
	}

	c.logger.Debug("sending request",
		slog.String("method", req.Method),
		slog.String("url", req.URL),
		slog.Int("headers", len(req.Headers)),
		slog.Bool("payload", body != nil),
	)

	resp, err := req.call(r, req.URL)
	if err != nil {
		if resp != nil && resp.RawResponse != nil {
			_ = resp.RawBody().Close()
		}
		return nil, &TransportError{Method: req.Method, URL: req.URL, Err: err}
	}

	result := NewResponse(resp.RawResponse, resp.Time())

	c.logger.Debug("received response",
		slog.Int("status", result.StatusCode),
		slog.String("proto", result.Proto),
		slog.Int64("duration_ms", result.DurationMs()),
	)

	return result, nil
}
