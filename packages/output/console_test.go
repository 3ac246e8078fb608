package output

import (
	"bytes"
	"errors"
	"io"
	nethttp "net/http"
	"strings"
	"testing"

	"github.com/abdul-hamid-achik/ax/packages/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type brokenBody struct{}

func (brokenBody) Read([]byte) (int, error) { return 0, errors.New("boom") }

func newResponse(status int, reason, body string, header nethttp.Header) *http.Response {
	if header == nil {
		header = nethttp.Header{}
	}
	return http.NewResponse(&nethttp.Response{
		Proto:      "HTTP/1.1",
		StatusCode: status,
		Status:     reason,
		Header:     header,
		Body:       io.NopCloser(strings.NewReader(body)),
	}, 0)
}

func newFormatter(out, errOut *bytes.Buffer) *ConsoleFormatter {
	return NewConsoleFormatter(WithWriter(out), WithErrWriter(errOut), WithNoColor(true))
}

func TestFormatResponse_StatusCodeAndBody(t *testing.T) {
	var out, errOut bytes.Buffer
	f := newFormatter(&out, &errOut)

	resp := newResponse(404, "404 Not Found", "not found", nethttp.Header{"X-Id": []string{"1"}})
	err := f.FormatResponse(resp, []Field{FieldStatusCode, FieldBody})

	require.NoError(t, err)
	assert.Equal(t, "Status Code: 404\nBody: not found\n", out.String())
	assert.Empty(t, errOut.String())
}

func TestFormatResponse_AllSelectors(t *testing.T) {
	var out, errOut bytes.Buffer
	f := newFormatter(&out, &errOut)

	resp := newResponse(200, "200 OK", `{"ok":true}`, nethttp.Header{
		"Content-Type": []string{"application/json"},
		"X-Request-Id": []string{"abc"},
	})
	err := f.FormatResponse(resp, []Field{FieldStatusCode, FieldStatusText, FieldHeaders, FieldBody})

	require.NoError(t, err)
	assert.Equal(t, strings.Join([]string{
		"Status Code: 200",
		"Status Text: OK",
		"Content-Type: application/json",
		"X-Request-Id: abc",
		`Body: {"ok":true}`,
		"",
	}, "\n"), out.String())
}

func TestFormatResponse_SelectorOrderAndDuplicates(t *testing.T) {
	var out, errOut bytes.Buffer
	f := newFormatter(&out, &errOut)

	resp := newResponse(201, "201 Created", "", nil)
	err := f.FormatResponse(resp, []Field{FieldStatusText, FieldStatusCode, FieldStatusText})

	require.NoError(t, err)
	assert.Equal(t, "Status Text: Created\nStatus Code: 201\nStatus Text: Created\n", out.String())
}

func TestFormatResponse_IncludeMode(t *testing.T) {
	var out, errOut bytes.Buffer
	f := newFormatter(&out, &errOut)

	resp := newResponse(200, "200 OK", "hello", nethttp.Header{"Content-Type": []string{"text/plain"}})
	err := f.FormatResponse(resp, ResponseFields(true))

	require.NoError(t, err)
	assert.Equal(t, "HTTP/1.1 200 OK\nContent-Type: text/plain\n\nhello", out.String())
}

func TestFormatResponse_PlainBodyHasNoTrailingNewline(t *testing.T) {
	var out, errOut bytes.Buffer
	f := newFormatter(&out, &errOut)

	err := f.FormatResponse(newResponse(500, "500 Internal Server Error", "oops", nil), ResponseFields(false))

	require.NoError(t, err)
	assert.Equal(t, "oops", out.String())
}

func TestFormatResponse_BodyReadErrorPrintsNothing(t *testing.T) {
	var out, errOut bytes.Buffer
	f := newFormatter(&out, &errOut)

	resp := http.NewResponse(&nethttp.Response{
		Proto:      "HTTP/1.1",
		StatusCode: 200,
		Header:     nethttp.Header{},
		Body:       io.NopCloser(brokenBody{}),
	}, 0)
	err := f.FormatResponse(resp, []Field{FieldStatusCode, FieldBody})

	var readErr *http.BodyReadError
	require.ErrorAs(t, err, &readErr)
	assert.Empty(t, out.String())
}

func TestFormatResponse_BoldLabels(t *testing.T) {
	var out bytes.Buffer
	f := &ConsoleFormatter{writer: &out, errWriter: &out}

	assert.Contains(t, f.bold("Status Code:"), "Status Code:")
	f.noColor = true
	assert.Equal(t, "Status Code:", f.bold("Status Code:"))
}

func TestFormatCollectionHeaderAndSeparator(t *testing.T) {
	var out, errOut bytes.Buffer
	f := newFormatter(&out, &errOut)

	f.FormatCollectionHeader("users")
	f.FormatSeparator()

	assert.Equal(t, "Collection: users\n\n\n\n", out.String())
}

func TestFormatError(t *testing.T) {
	var out, errOut bytes.Buffer
	f := newFormatter(&out, &errOut)

	f.FormatError(&http.UnsupportedMethodError{Method: "PATCH"})
	f.FormatWarning("Cannot find collection file: %s", "missing.json")

	assert.Empty(t, out.String())
	assert.Equal(t, "Unsupported HTTP method: PATCH\nCannot find collection file: missing.json\n", errOut.String())
}

func TestParseFields(t *testing.T) {
	fields, err := ParseFields([]string{"body", "status_code", "body"})
	require.NoError(t, err)
	assert.Equal(t, []Field{FieldBody, FieldStatusCode, FieldBody}, fields)

	_, err = ParseFields([]string{"raw_body"})
	assert.Error(t, err)

	fields, err = ParseFields(nil)
	require.NoError(t, err)
	assert.Empty(t, fields)
}

func TestKnownFields(t *testing.T) {
	fields, unknown := KnownFields([]string{"cookies", "status_code", "raw_body", "body"})
	assert.Equal(t, []Field{FieldStatusCode, FieldBody}, fields)
	assert.Equal(t, []string{"cookies", "raw_body"}, unknown)

	fields, unknown = KnownFields(nil)
	assert.Empty(t, fields)
	assert.Empty(t, unknown)
}

func TestFormatResponse_EmptyBody(t *testing.T) {
	var out, errOut bytes.Buffer
	f := newFormatter(&out, &errOut)

	resp := newResponse(204, "204 No Content", "", nethttp.Header{"X-Id": []string{"1"}})
	err := f.FormatResponse(resp, ResponseFields(true))

	require.NoError(t, err)
	assert.Equal(t, "HTTP/1.1 204 No Content\nX-Id: 1\n\n", out.String())
	assert.Empty(t, errOut.String())
}
