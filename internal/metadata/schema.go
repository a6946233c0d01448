package metadata

import "github.com/xeipuuv/gojsonschema"

// documentSchema is the shape off-chain descriptive documents must satisfy
// before their fields are merged into a catalog entry. Anything beyond the
// known keys is carried through untouched.
const documentSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"properties": {
		"name": { "type": "string", "minLength": 1 },
		"description": { "type": "string" },
		"image": { "type": "string" },
		"collection": { "type": "string" },
		"attributes": {
			"type": "array",
			"items": {
				"type": "object",
				"properties": {
					"trait_type": { "type": "string" },
					"value": {}
				},
				"required": ["trait_type"]
			}
		}
	},
	"required": ["name"]
}`

var schemaLoader = gojsonschema.NewStringLoader(documentSchema)

// validateDocument checks a parsed document against the metadata schema and
// returns the first violations found.
func validateDocument(doc map[string]any) error {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewGoLoader(doc))
	if err != nil {
		return ErrInvalidDocument.Err(err)
	}
	if !result.Valid() {
		msg := "document failed schema validation:"
		for _, desc := range result.Errors() {
			msg += " " + desc.String() + ";"
		}
		return ErrInvalidDocument.Msg(msg)
	}
	return nil
}
