package collection

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema.json
var schemaJSON string

var schemaLoader = gojsonschema.NewStringLoader(schemaJSON)

// SchemaError lists every violation found in a collection document.
type SchemaError struct {
	Violations []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("invalid collection: %s", strings.Join(e.Violations, "; "))
}

// Schema returns the JSON Schema collections are validated against.
func Schema() string {
	return schemaJSON
}

// Validate checks a JSON collection document against the collection schema.
func Validate(data []byte) error {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return errors.Wrap(err, "validate collection")
	}
	if result.Valid() {
		return nil
	}

	violations := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		// oneOf reports one summary line on top of the branch errors
		if desc.Type() == "number_one_of" {
			continue
		}
		violations = append(violations, desc.String())
	}
	if len(violations) == 0 {
		violations = append(violations, "document must be an entry object or an array of entries")
	}
	return &SchemaError{Violations: violations}
}
