package rules

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Schema is the JSON Schema (Draft 2020-12) for rules files. YAML documents
// are converted to their JSON data model before validation.
const Schema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "title": "Ingredient Scout Rule Catalog",
  "type": "object",
  "required": ["keywords", "families", "rules", "summaries"],
  "additionalProperties": false,
  "properties": {
    "version": {
      "type": ["string", "integer"]
    },
    "keywords": {
      "type": "array",
      "minItems": 1,
      "items": { "type": "string", "minLength": 1 }
    },
    "families": {
      "type": "array",
      "minItems": 1,
      "items": { "$ref": "#/$defs/Family" }
    },
    "rules": {
      "type": "array",
      "items": { "$ref": "#/$defs/Rule" }
    },
    "summaries": {
      "type": "object",
      "required": ["multiple_actives", "safe"],
      "additionalProperties": false,
      "properties": {
        "multiple_actives": { "type": "string", "minLength": 1 },
        "safe": { "type": "string", "minLength": 1 }
      }
    }
  },
  "$defs": {
    "Family": {
      "type": "object",
      "required": ["name", "triggers"],
      "additionalProperties": false,
      "properties": {
        "name": { "type": "string", "pattern": "^[a-z0-9_]+$" },
        "triggers": {
          "type": "array",
          "minItems": 1,
          "items": { "type": "string", "minLength": 1 }
        }
      }
    },
    "Rule": {
      "type": "object",
      "required": ["id", "priority", "families", "summary"],
      "additionalProperties": false,
      "properties": {
        "id": { "type": "string", "pattern": "^[a-z0-9_]+$" },
        "priority": { "type": "integer", "minimum": 0 },
        "families": {
          "type": "array",
          "minItems": 2,
          "maxItems": 2,
          "items": { "type": "string" }
        },
        "summary": { "type": "string", "minLength": 1 }
      }
    }
  }
}`

const schemaResource = "rules.schema.json"

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(Schema))
	if err != nil {
		return nil, fmt.Errorf("failed to parse rules schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaResource, doc); err != nil {
		return nil, fmt.Errorf("failed to add rules schema resource: %w", err)
	}

	return compiler.Compile(schemaResource)
})

// validateDocument checks a decoded YAML document against Schema.
func validateDocument(doc any) error {
	sch, err := compiledSchema()
	if err != nil {
		return err
	}

	// Round-trip through encoding/json so the validator sees json.Number
	// values and string-keyed objects only.
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to convert document to JSON: %w", err)
	}

	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("failed to decode document: %w", err)
	}

	return sch.Validate(inst)
}
