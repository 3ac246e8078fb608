package http

import (
	"strings"
)

const (
	// HeaderContentType is the header forced by JSON request mode
	HeaderContentType = "Content-Type"
	// ContentTypeJSON is the value applied in JSON request mode
	ContentTypeJSON = "application/json"
)

// Header is a single resolved header assignment.
type Header struct {
	Name  string
	Value string
}

func (h Header) String() string {
	return h.Name + ": " + h.Value
}

// ParseHeader splits a raw "Name: Value" string. The string must contain
// exactly one colon; name and value are trimmed.
func ParseHeader(raw string) (Header, error) {
	parts := strings.Split(raw, ":")
	if len(parts) != 2 {
		return Header{}, &MalformedHeaderError{Header: raw}
	}
	return Header{
		Name:  strings.TrimSpace(parts[0]),
		Value: strings.TrimSpace(parts[1]),
	}, nil
}

// MergeHeaders resolves raw header strings into the ordered set of headers
// applied to a request.
//
// The first header for a given name wins (names compare case-insensitively).
// When jsonRequest is set, the first Content-Type carries application/json
// whatever the user supplied, and one is appended if none was given. Any
// malformed header fails the whole set.
func MergeHeaders(raw []string, jsonRequest bool) ([]Header, error) {
	headers := make([]Header, 0, len(raw)+1)

	for _, r := range raw {
		h, err := ParseHeader(r)
		if err != nil {
			return nil, err
		}
		if hasHeader(headers, h.Name) {
			continue
		}
		if jsonRequest && strings.EqualFold(h.Name, HeaderContentType) {
			h.Value = ContentTypeJSON
		}
		headers = append(headers, h)
	}

	if jsonRequest && !hasHeader(headers, HeaderContentType) {
		headers = append(headers, Header{Name: HeaderContentType, Value: ContentTypeJSON})
	}

	return headers, nil
}

// IsJSONContentType reports whether a raw header string declares a JSON body,
// ignoring case and whitespace (e.g. "content-type: Application/JSON").
func IsJSONContentType(raw string) bool {
	compact := strings.Join(strings.Fields(strings.ToLower(raw)), "")
	return compact == "content-type:application/json"
}

func hasHeader(headers []Header, name string) bool {
	for _, h := range headers {
		if strings.EqualFold(h.Name, name) {
			return true
		}
	}
	return false
}
