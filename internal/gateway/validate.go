package gateway

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// rootField is how gojsonschema names the document root.
const rootField = "(root)"

// ValidationError reports arguments that do not match an operation's schema.
type ValidationError struct {
	Operation string
	Field     string
	Reason    string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: invalid arguments: %s", e.Operation, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %s", e.Operation, e.Field, e.Reason)
}

// ValidateArgs checks args against op's JSON schema. The first violation is
// returned, naming the offending field.
func (op Operation) ValidateArgs(args map[string]any) error {
	if args == nil {
		args = map[string]any{}
	}
	schemaLoader := gojsonschema.NewStringLoader(op.SchemaJSON)
	documentLoader := gojsonschema.NewGoLoader(args)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	if result.Valid() {
		return nil
	}

	first := result.Errors()[0]
	if first.Type() == "required" {
		field, _ := first.Details()["property"].(string)
		return &ValidationError{Operation: op.Name, Field: field, Reason: "missing required field"}
	}
	field := first.Field()
	if field == rootField {
		field = ""
	}
	return &ValidationError{
		Operation: op.Name,
		Field:     strings.TrimPrefix(field, rootField+"."),
		Reason:    first.Description(),
	}
}
