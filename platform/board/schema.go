package board

import (
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

type jsonSchema struct {
	compiled *jsonschema.Schema
}

func (s *jsonSchema) validate(data []byte) error {
	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("invalid json: %w", err)
	}
	if err := s.compiled.Validate(doc); err != nil {
		return fmt.Errorf("schema validation: %w", err)
	}
	return nil
}

func mustSchema(name, src string) *jsonSchema {
	return &jsonSchema{compiled: jsonschema.MustCompileString(name, src)}
}

var boardSchema = mustSchema("board.schema.json", `{
	"type": "array",
	"minItems": 1,
	"items": {
		"type": "object",
		"required": ["name", "type"],
		"properties": {
			"name": {"type": "string", "minLength": 1},
			"type": {"type": "string", "minLength": 1},
			"price": {"type": "integer", "minimum": 0},
			"amount": {"type": "integer", "minimum": 0},
			"is_coastal": {"type": "boolean"},
			"is_megacity": {"type": "boolean"}
		}
	}
}`)

var cardsSchema = mustSchema("chance_cards.schema.json", `{
	"type": "object",
	"additionalProperties": {
		"type": "object",
		"required": ["title", "description", "instruction"],
		"properties": {
			"title": {"type": "string"},
			"description": {"type": "string"},
			"instruction": {"type": "string"}
		}
	}
}`)

var constsSchema = mustSchema("consts.schema.json", `{
	"type": "object",
	"required": ["MAX_BUILDINGS"],
	"additionalProperties": {"type": "integer"}
}`)
