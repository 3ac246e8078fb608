package output

import "fmt"

// Field selects one part of a response for printing.
type Field string

const (
	FieldStatusCode Field = "status_code"
	FieldStatusText Field = "status_text"
	FieldHeaders    Field = "headers"
	FieldBody       Field = "body"

	// Layout fields used by the single-request path only.
	fieldStatusLine Field = "status_line"
	fieldSeparator  Field = "separator"
	fieldRawBody    Field = "raw_body"
)

var (
	// IncludeFields prints the status line, headers, a blank line and the body.
	IncludeFields = []Field{fieldStatusLine, FieldHeaders, fieldSeparator, fieldRawBody}
	// BodyFields prints only the body, as-is.
	BodyFields = []Field{fieldRawBody}
)

// Selectors lists the field names accepted in a collection's print list.
func Selectors() []string {
	return []string{
		string(FieldStatusCode),
		string(FieldStatusText),
		string(FieldHeaders),
		string(FieldBody),
	}
}

// ParseFields converts print selectors into fields, keeping order and duplicates.
func ParseFields(selectors []string) ([]Field, error) {
	fields := make([]Field, 0, len(selectors))
	for _, s := range selectors {
		switch f := Field(s); f {
		case FieldStatusCode, FieldStatusText, FieldHeaders, FieldBody:
			fields = append(fields, f)
		default:
			return nil, fmt.Errorf("unknown print selector %q", s)
		}
	}
	return fields, nil
}

// KnownFields keeps the recognized selectors, in order, and returns the rest
// separately.
func KnownFields(selectors []string) (fields []Field, unknown []string) {
	fields = make([]Field, 0, len(selectors))
	for _, s := range selectors {
		if f, err := ParseFields([]string{s}); err == nil {
			fields = append(fields, f...)
		} else {
			unknown = append(unknown, s)
		}
	}
	return fields, unknown
}

// ResponseFields returns the single-request layout for include mode.
func ResponseFields(include bool) []Field {
	if include {
		return IncludeFields
	}
	return BodyFields
}

func needsBody(fields []Field) bool {
	for _, f := range fields {
		if f == FieldBody || f == fieldRawBody {
			return true
		}
	}
	return false
}
