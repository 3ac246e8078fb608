package collection

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/abdul-hamid-achik/ax/packages/http"
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"
)

// Entry is one named request of a collection together with the response
// fields to print.
type Entry struct {
	Name    string          `json:"name"`
	URL     string          `json:"url"`
	Method  string          `json:"method"`
	Headers []string        `json:"headers"`
	Data    json.RawMessage `json:"data,omitempty"`
	JSON    bool            `json:"json,omitempty"`
	Print   []string        `json:"print"`
}

// Collection is a loaded collection file. Entries keep file order.
type Collection struct {
	Path    string
	Entries []*Entry
	// Multiple is set when the file holds an array of entries.
	Multiple bool
}

// LoadError reports a collection file that could not be read, parsed or validated.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return "Cannot find collection file: " + e.Path
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Load reads and validates the collection at path. Every failure is a *LoadError.
func Load(path string) (*Collection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: errors.Wrap(err, "read collection file")}
	}

	c, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	c.Path = path
	return c, nil
}

// Parse decodes collection content. ext selects the syntax: ".yaml" and ".yml"
// are read as YAML, anything else as JSON.
func Parse(data []byte, ext string) (*Collection, error) {
	if isYAML(ext) {
		converted, err := yamlToJSON(data)
		if err != nil {
			return nil, err
		}
		data = converted
	}

	if !gjson.ValidBytes(data) {
		return nil, errors.New("collection is not valid JSON")
	}

	if err := Validate(data); err != nil {
		return nil, err
	}

	c := &Collection{}
	if gjson.ParseBytes(data).IsArray() {
		c.Multiple = true
		if err := json.Unmarshal(data, &c.Entries); err != nil {
			return nil, errors.Wrap(err, "decode collection entries")
		}
		return c, nil
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, errors.Wrap(err, "decode collection entry")
	}
	c.Entries = []*Entry{&entry}
	return c, nil
}

func isYAML(ext string) bool {
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

func yamlToJSON(data []byte) ([]byte, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "parse yaml collection")
	}
	out, err := json.Marshal(doc)
	if err != nil {
		return nil, errors.Wrap(err, "convert yaml collection")
	}
	return out, nil
}

// Body returns the entry's data as compact JSON text, or nil when data is
// absent or null.
func (e *Entry) Body() (*string, error) {
	trimmed := bytes.TrimSpace(e.Data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, trimmed); err != nil {
		return nil, errors.Wrapf(err, "encode data of %q", e.Name)
	}
	return http.StringPtr(buf.String()), nil
}

// IsJSONRequest reports whether the entry forces a JSON content type, either
// through the json flag or a literal "Content-Type: application/json" header.
func (e *Entry) IsJSONRequest() bool {
	if e.JSON {
		return true
	}
	for _, h := range e.Headers {
		if http.IsJSONContentType(h) {
			return true
		}
	}
	return false
}

// Descriptor converts the entry into a request descriptor. The method is uppercased.
func (e *Entry) Descriptor() (*http.Descriptor, error) {
	body, err := e.Body()
	if err != nil {
		return nil, err
	}
	return &http.Descriptor{
		Method:      strings.ToUpper(e.Method),
		URL:         e.URL,
		Headers:     e.Headers,
		Body:        body,
		JSONRequest: e.IsJSONRequest(),
	}, nil
}
