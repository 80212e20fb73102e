package api

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

const playerSchema = `{
  "type": "object",
  "properties": {
    "name":        {"type": "string", "minLength": 1, "maxLength": 120},
    "age":         {"type": "integer"},
    "rating":      {"type": "number"},
    "value":       {"type": "number"},
    "position":    {"type": "string", "minLength": 1, "maxLength": 3},
    "team":        {"type": "string", "maxLength": 120},
    "nationality": {"type": "string", "maxLength": 80},
    "number":      {"type": "integer"}
  },
  "required": ["name"],
  "dependencies": {"position": ["age", "rating"]},
  "additionalProperties": false
}`

const compareSchema = `{
  "type": "object",
  "properties": {
    "names": {
      "type": "array",
      "items": {"type": "string", "minLength": 1},
      "minItems": 1,
      "maxItems": 50
    }
  },
  "required": ["names"],
  "additionalProperties": false
}`

const candidateSchema = `{
  "type": "object",
  "definitions": {"player": ` + playerSchema + `},
  "properties": {
    "submission_id": {"type": "string", "minLength": 1, "maxLength": 128},
    "name":          {"type": "string", "minLength": 1, "maxLength": 120},
    "player":        {"$ref": "#/definitions/player"}
  },
  "oneOf": [
    {"required": ["name"]},
    {"required": ["player"]}
  ],
  "additionalProperties": false
}`

var (
	evaluateValidator  = mustSchema(playerSchema)
	compareValidator   = mustSchema(compareSchema)
	candidateValidator = mustSchema(candidateSchema)
)

func mustSchema(s string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(s))
	if err != nil {
		panic(fmt.Sprintf("compile schema: %v", err))
	}
	return schema
}

// validate checks body against schema and folds every violation into one
// error.
func validate(schema *gojsonschema.Schema, body []byte) error {
	res, err := schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return fmt.Errorf("malformed JSON: %w", err)
	}
	if res.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		msgs = append(msgs, e.String())
	}
	return errors.New(strings.Join(msgs, "; "))
}
