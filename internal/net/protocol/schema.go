package protocol

import "github.com/invopop/jsonschema"

// JSONSchema describes both accepted wire forms of a key set.
func (KeySet) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Description: "held movement keys",
		OneOf: []*jsonschema.Schema{
			{Type: "object", AdditionalProperties: &jsonschema.Schema{Type: "boolean"}},
			{Type: "array", Items: &jsonschema.Schema{Type: "string", Enum: []interface{}{"w", "a", "s", "d"}}},
		},
	}
}
