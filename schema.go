package jsonfix

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonschema"
)

// ValidateSchema checks a JSON document against a JSON Schema. The
// document must already be valid JSON; run it through Repair first when
// it might not be.
//
// Example:
//
//	res, _ := jsonfix.Repair(input)
//	if err := jsonfix.ValidateSchema(res.Corrected, schemaBytes); err != nil {
//		// the repaired document does not match the schema
//	}
func ValidateSchema(jsonText string, schemaJSON []byte) error {
	compiler := jsonschema.NewCompiler()
	validator, err := compiler.Compile(schemaJSON)
	if err != nil {
		return fmt.Errorf("invalid schema: %w", err)
	}

	var doc any
	if err := json.Unmarshal([]byte(jsonText), &doc); err != nil {
		return fmt.Errorf("invalid JSON document: %w", err)
	}

	result := validator.Validate(doc)
	if !result.IsValid() {
		var errMsgs []string
		for field, validationErr := range result.Errors {
			errMsgs = append(errMsgs, fmt.Sprintf("%s: %s", field, validationErr.Message))
		}
		return fmt.Errorf("schema validation failed: %s", strings.Join(errMsgs, "; "))
	}
	return nil
}
