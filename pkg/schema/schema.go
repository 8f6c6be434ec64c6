package schema

import (
	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go/v3"
)

type TrickResponse struct {
	Trick string `json:"trick"`
}

type GenerateRequest struct {
	Concept   string `json:"concept"`
	TrickType string `json:"trick_type"`
}

type GenerateResponse struct {
	Concept   string `json:"concept"`
	TrickType string `json:"trick_type"`
	Trick     string `json:"trick"`
}

// GeneratedTrick is the structured output requested from generation backends.
type GeneratedTrick struct {
	Trick    string   `json:"trick" jsonschema_description:"The memory trick itself, ready to show to a learner"`
	Keywords []string `json:"keywords" jsonschema_description:"Key words or letters the trick is built around"`
}

func generateSchema[T any]() any {
	r := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	return r.Reflect(v)
}

var GeneratedTrickSchema = generateSchema[GeneratedTrick]()

func StructuredOutputsResponseFormat() openai.ChatCompletionNewParamsResponseFormatUnion {
	p := openai.ResponseFormatJSONSchemaJSONSchemaParam{
		Name:        "memory_trick",
		Description: openai.String("A mnemonic, rhyme or association that helps remember a concept"),
		Schema:      GeneratedTrickSchema,
		Strict:      openai.Bool(true),
	}
	return openai.ChatCompletionNewParamsResponseFormatUnion{
		OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{JSONSchema: p},
	}
}
