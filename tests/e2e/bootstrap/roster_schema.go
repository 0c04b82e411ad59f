package bootstrap

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

// Role values are checked after decoding so the error names the account.
const rosterSchema = `{
  "type": "object",
  "required": ["accounts"],
  "additionalProperties": false,
  "properties": {
    "accounts": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["email", "password"],
        "additionalProperties": false,
        "properties": {
          "email": {"type": "string", "minLength": 1},
          "password": {"type": "string", "minLength": 1},
          "full_name": {"type": "string"},
          "role": {"type": "string"}
        }
      }
    }
  }
}`

var rosterLoader = gojsonschema.NewStringLoader(rosterSchema)

// validateRoster checks the raw YAML document against rosterSchema.
func validateRoster(data []byte) error {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return err
	}
	docJSON, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal roster: %w", err)
	}
	result, err := gojsonschema.Validate(rosterLoader, gojsonschema.NewBytesLoader(docJSON))
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}
	if result.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("invalid roster: %s", strings.Join(msgs, "; "))
}
