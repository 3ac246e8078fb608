package runner

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	axhttp "github.com/abdul-hamid-achik/ax/packages/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingTransport struct{}

func (failingTransport) RoundTrip(*http.Request) (*http.Response, error) {
	return nil, errors.New("connection refused")
}

func newTestRunner(opts ...axhttp.ClientOption) (*Runner, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	r := NewRunner(&Config{
		NoColor:       true,
		Stdout:        &stdout,
		Stderr:        &stderr,
		ClientOptions: opts,
	})
	return r, &stdout, &stderr
}

func writeCollection(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "collection.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestNewRunner(t *testing.T) {
	t.Run("with nil config", func(t *testing.T) {
		r := NewRunner(nil)
		assert.NotNil(t, r)
		assert.NotNil(t, r.client)
		assert.NotNil(t, r.formatter)
		assert.Equal(t, os.Stdout, r.config.Stdout)
	})

	t.Run("with custom config", func(t *testing.T) {
		r := NewRunner(&Config{NoColor: true, DefaultHeaders: []string{"X-A: 1"}})
		assert.True(t, r.config.NoColor)
		assert.Equal(t, []string{"X-A: 1"}, r.config.DefaultHeaders)
	})
}

func TestRunner_RunCollection_SelectedFieldsOf404(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Hidden", "1")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("not found"))
	}))
	defer server.Close()

	path := writeCollection(t, `{
  "name": "missing",
  "url": "`+server.URL+`/nope",
  "method": "GET",
  "headers": [],
  "print": ["status_code", "body"]
}`)

	r, stdout, stderr := newTestRunner()
	result, err := r.RunCollection(context.Background(), path)

	require.NoError(t, err)
	assert.Equal(t, 1, result.Passed)
	assert.Equal(t, "Collection: missing\n\nStatus Code: 404\nBody: not found\n", stdout.String())
	assert.NotContains(t, stdout.String(), "X-Hidden")
	assert.NotContains(t, stdout.String(), "Status Text")
	assert.Empty(t, stderr.String())
}

func TestRunner_RunCollection_ContinuesAfterInvalidEntry(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte("second body"))
	}))
	defer server.Close()

	path := writeCollection(t, `[
  {"name": "first", "url": "`+server.URL+`", "method": "GET", "headers": ["broken header"], "print": ["body"]},
  {"name": "second", "url": "`+server.URL+`", "method": "get", "headers": [], "print": ["body"]}
]`)

	r, stdout, stderr := newTestRunner()
	result, err := r.RunCollection(context.Background(), path)

	require.NoError(t, err)
	assert.Equal(t, int32(1), hits.Load())
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, 1, result.Passed)
	require.Len(t, result.Results, 2)
	assert.Equal(t, "first", result.Results[0].Name)
	assert.True(t, result.Results[0].Skipped)

	assert.Equal(t, "Collection: first\n\n\n\nCollection: second\n\nBody: second body\n\n\n", stdout.String())
	assert.Equal(t, "Invalid header format: broken header\n", stderr.String())
}

func TestRunner_RunCollection_UnsupportedMethodSkipsEntry(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer server.Close()

	path := writeCollection(t, `[
  {"name": "patch", "url": "`+server.URL+`", "method": "PATCH", "headers": [], "print": ["status_code"]},
  {"name": "get", "url": "`+server.URL+`", "method": "GET", "headers": [], "print": ["status_code"]}
]`)

	r, stdout, stderr := newTestRunner()
	result, err := r.RunCollection(context.Background(), path)

	require.NoError(t, err)
	assert.Equal(t, int32(1), hits.Load())
	assert.Equal(t, 1, result.Skipped)
	assert.Contains(t, stdout.String(), "Collection: get\n\nStatus Code: 200\n")
	assert.Equal(t, "Unsupported HTTP method: PATCH\n", stderr.String())
}

func TestRunner_RunCollection_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.json")

	r, stdout, stderr := newTestRunner()
	result, err := r.RunCollection(context.Background(), path)

	require.NoError(t, err)
	assert.Error(t, result.LoadError)
	assert.Empty(t, result.Results)
	assert.Empty(t, stdout.String())
	assert.Equal(t, "Cannot find collection file: "+path+"\n", stderr.String())
}

func TestRunner_RunCollection_SchemaMismatchIsSoftFail(t *testing.T) {
	path := writeCollection(t, `{"name": "x"}`)

	r, _, stderr := newTestRunner()
	result, err := r.RunCollection(context.Background(), path)

	require.NoError(t, err)
	assert.Error(t, result.LoadError)
	assert.Equal(t, "Cannot find collection file: "+path+"\n", stderr.String())
}

func TestRunner_RunCollection_SendsDataAsCompactJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		b, _ := io.ReadAll(r.Body)
		_, _ = w.Write(b)
	}))
	defer server.Close()

	path := writeCollection(t, `{
  "name": "create",
  "url": "`+server.URL+`",
  "method": "POST",
  "headers": ["Content-Type: application/json"],
  "data": { "name": "widget", "count": 2 },
  "print": ["body"]
}`)

	r, stdout, _ := newTestRunner()
	_, err := r.RunCollection(context.Background(), path)

	require.NoError(t, err)
	assert.Equal(t, "Collection: create\n\nBody: {\"name\":\"widget\",\"count\":2}\n", stdout.String())
}

func TestRunner_RunCollection_TransportErrorContinues(t *testing.T) {
	path := writeCollection(t, `[
  {"name": "a", "url": "http://example.test/a", "method": "GET", "headers": [], "print": ["status_code"]},
  {"name": "b", "url": "http://example.test/b", "method": "GET", "headers": [], "print": ["status_code"]}
]`)

	r, stdout, stderr := newTestRunner(axhttp.WithTransport(failingTransport{}))
	result, err := r.RunCollection(context.Background(), path)

	require.NoError(t, err)
	assert.Equal(t, 2, result.Failed)
	var transportErr *axhttp.TransportError
	require.ErrorAs(t, result.Results[0].Error, &transportErr)
	assert.Contains(t, stdout.String(), "Collection: a")
	assert.Contains(t, stdout.String(), "Collection: b")
	assert.Equal(t, 2, strings.Count(stderr.String(), "connection refused"))
}

func TestRunner_RunCollection_StopsWhenCancelled(t *testing.T) {
	path := writeCollection(t, `[{"name": "a", "url": "http://example.test", "method": "GET", "headers": []}]`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r, stdout, _ := newTestRunner(axhttp.WithTransport(failingTransport{}))
	result, err := r.RunCollection(ctx, path)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, result.Results)
	assert.Empty(t, stdout.String())
}

func TestRunner_RunCollection_UnknownSelectorWarns(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte("queued"))
	}))
	defer server.Close()

	path := writeCollection(t, `{"name": "job", "url": "`+server.URL+`", "method": "POST", "headers": [], "print": ["cookies", "status_code", "body"]}`)

	r, stdout, stderr := newTestRunner()
	result, err := r.RunCollection(context.Background(), path)

	require.NoError(t, err)
	assert.Equal(t, 1, result.Passed)
	assert.Equal(t, "Collection: job\n\nStatus Code: 202\nBody: queued\n", stdout.String())
	assert.Equal(t, "Unknown print selector: cookies\n", stderr.String())
}

func TestRunner_RunCollection_EmptyBodies(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/gone" {
			w.WriteHeader(http.StatusNoContent)
		}
	}))
	defer server.Close()

	path := writeCollection(t, `[
  {"name": "head", "url": "`+server.URL+`", "method": "HEAD", "headers": [], "print": ["status_code", "body"]},
  {"name": "delete", "url": "`+server.URL+`/gone", "method": "DELETE", "headers": [], "print": ["status_code", "status_text", "body"]}
]`)

	r, stdout, stderr := newTestRunner()
	result, err := r.RunCollection(context.Background(), path)

	require.NoError(t, err)
	assert.Equal(t, 2, result.Passed)
	assert.Equal(t, "Collection: head\n\nStatus Code: 200\nBody: \n\n\n"+
		"Collection: delete\n\nStatus Code: 204\nStatus Text: No Content\nBody: \n\n\n", stdout.String())
	assert.Empty(t, stderr.String())
}

func TestRunner_RunCollection_DefaultHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "mine", r.Header.Get("X-Client"))
		assert.Equal(t, "yes", r.Header.Get("X-Default"))
	}))
	defer server.Close()

	path := writeCollection(t, `{"name": "h", "url": "`+server.URL+`", "method": "GET", "headers": ["X-Client: mine"], "print": []}`)

	var stdout, stderr bytes.Buffer
	r := NewRunner(&Config{
		NoColor:        true,
		Stdout:         &stdout,
		Stderr:         &stderr,
		DefaultHeaders: []string{"X-Client: config", "X-Default: yes"},
	})
	_, err := r.RunCollection(context.Background(), path)

	require.NoError(t, err)
	assert.Empty(t, stderr.String())
}

func TestRunner_RunRequest_Include(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Header().Set("Date", "Mon, 19 Oct 2026 10:00:00 GMT")
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	}))
	defer server.Close()

	r, stdout, _ := newTestRunner()
	err := r.RunRequest(context.Background(), &axhttp.Descriptor{Method: "GET", URL: server.URL}, true)

	require.NoError(t, err)
	assert.Equal(t, strings.Join([]string{
		"HTTP/1.1 418 I'm a teapot",
		"Content-Length: 15",
		"Content-Type: text/plain",
		"Date: Mon, 19 Oct 2026 10:00:00 GMT",
		"",
		"short and stout",
	}, "\n"), stdout.String())
}

func TestRunner_RunRequest_EmptyBodies(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Seen", r.Method)
		if r.Method == http.MethodDelete {
			w.WriteHeader(http.StatusNoContent)
		}
	}))
	defer server.Close()

	for _, method := range []string{"HEAD", "DELETE"} {
		t.Run(method, func(t *testing.T) {
			r, stdout, stderr := newTestRunner()
			err := r.RunRequest(context.Background(), &axhttp.Descriptor{Method: method, URL: server.URL}, true)

			require.NoError(t, err)
			assert.Contains(t, stdout.String(), "X-Seen: "+method+"\n")
			assert.True(t, strings.HasSuffix(stdout.String(), "\n\n"), stdout.String())
			assert.Empty(t, stderr.String())
		})
	}

	r, stdout, _ := newTestRunner()
	err := r.RunRequest(context.Background(), &axhttp.Descriptor{Method: "HEAD", URL: server.URL}, false)
	require.NoError(t, err)
	assert.Empty(t, stdout.String())
}

func TestRunner_RunRequest_PlainBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		_, _ = w.Write([]byte("echo:" + string(b)))
	}))
	defer server.Close()

	r, stdout, _ := newTestRunner()
	err := r.RunRequest(context.Background(), &axhttp.Descriptor{
		Method: "POST",
		URL:    server.URL,
		Body:   axhttp.StringPtr("hi"),
	}, false)

	require.NoError(t, err)
	assert.Equal(t, "echo:hi", stdout.String())
}

func TestRunner_RunRequest_SoftFailures(t *testing.T) {
	tests := map[string]*axhttp.Descriptor{
		"unsupported method": {Method: "PATCH", URL: "http://example.test"},
		"malformed header":   {Method: "GET", URL: "http://example.test", Headers: []string{"oops"}},
	}

	for name, d := range tests {
		t.Run(name, func(t *testing.T) {
			r, stdout, stderr := newTestRunner(axhttp.WithTransport(failingTransport{}))
			err := r.RunRequest(context.Background(), d, false)

			assert.NoError(t, err)
			assert.Empty(t, stdout.String())
			assert.NotEmpty(t, stderr.String())
		})
	}
}

func TestRunner_RunRequest_TransportErrorIsReturned(t *testing.T) {
	r, stdout, stderr := newTestRunner(axhttp.WithTransport(failingTransport{}))
	err := r.RunRequest(context.Background(), &axhttp.Descriptor{Method: "GET", URL: "http://example.test"}, true)

	var transportErr *axhttp.TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.Empty(t, stdout.String())
	assert.Empty(t, stderr.String())
}
