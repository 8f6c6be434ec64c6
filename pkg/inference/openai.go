package inference

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/packages/param"
)

// Provider describes an OpenAI-compatible chat completion endpoint.
type Provider struct {
	Name         string
	BaseURL      string
	DefaultModel string
	// KeyRequired is false for local servers that accept any key.
	KeyRequired bool
}

var providers = map[string]Provider{
	"openai":      {Name: "openai", DefaultModel: "gpt-4o-mini", KeyRequired: true},
	"local":       {Name: "local", BaseURL: "http://localhost:1234/v1"},
	"grok":        {Name: "grok", BaseURL: "https://api.x.ai/v1", DefaultModel: "grok-4-fast-reasoning", KeyRequired: true},
	"kimi":        {Name: "kimi", BaseURL: "https://api.kimi.com/coding/v1", DefaultModel: "kimi-for-coding", KeyRequired: true},
	"moonshot":    {Name: "moonshot", BaseURL: "https://api.moonshot.ai/v1", DefaultModel: "kimi-k2-5", KeyRequired: true},
	"huggingface": {Name: "huggingface", BaseURL: "https://router.huggingface.co/v1", DefaultModel: "openai/gpt-oss-20b", KeyRequired: true},
}

// LookupProvider returns the preset with the given name.
func LookupProvider(name string) (Provider, bool) {
	p, ok := providers[strings.ToLower(name)]
	return p, ok
}

// ProviderNames lists the OpenAI-compatible presets, sorted.
func ProviderNames() []string {
	names := make([]string, 0, len(providers))
	for n := range providers {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// OpenAIInferencer implements Inferencer using OpenAI's official Go SDK. It
// serves every OpenAI-compatible provider.
type OpenAIInferencer struct {
	client *openai.Client
	name   string
	apiKey string
	model  string
}

// NewOpenAIInferencer creates a new inferencer instance using OpenAI client.
func NewOpenAIInferencer(apiKey string, model string) *OpenAIInferencer {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAIInferencer{
		client: &client,
		name:   "openai",
		apiKey: apiKey,
		model:  model,
	}
}

// NewProviderInferencer creates an inferencer for a preset. baseURL and
// model override the preset when non-empty.
func NewProviderInferencer(p Provider, apiKey, model, baseURL string) *OpenAIInferencer {
	o := NewOpenAIInferencer(apiKey, cmp.Or(model, p.DefaultModel))
	o.name = p.Name
	if u := cmp.Or(baseURL, p.BaseURL); u != "" {
		o.ChangeBaseURL(u)
	}
	return o
}

func (o *OpenAIInferencer) ChangeBaseURL(baseURL string) {
	client := openai.NewClient(
		option.WithAPIKey(o.apiKey),
		option.WithBaseURL(baseURL),
	)
	o.client = &client
}

func (o *OpenAIInferencer) SetModel(model string) {
	o.model = model
}

func (o *OpenAIInferencer) Name() string { return o.name }

// Infer sends text to the chat completion endpoint and returns the output.
func (o *OpenAIInferencer) Infer(ctx context.Context, params *openai.ChatCompletionNewParams, system, user string) (string, error) {
	var p openai.ChatCompletionNewParams
	if params != nil {
		p = *params
	}
	p.Model = cmp.Or(p.Model, o.model)
	p.Messages = []openai.ChatCompletionMessageParamUnion{
		{
			OfSystem: &openai.ChatCompletionSystemMessageParam{
				Role: "system",
				Content: openai.ChatCompletionSystemMessageParamContentUnion{
					OfString: param.Opt[string]{Value: system},
				},
			}},
		{
			OfUser: &openai.ChatCompletionUserMessageParam{
				Role: "user",
				Content: openai.ChatCompletionUserMessageParamContentUnion{
					OfString: param.Opt[string]{Value: user},
				},
			},
		},
	}

	p.MaxCompletionTokens = openai.Int(cmp.Or(p.MaxCompletionTokens.Value, 512))
	p.Temperature = openai.Float(cmp.Or(p.Temperature.Value, 0.8))
	p.TopP = openai.Float(cmp.Or(p.TopP.Value, 0.9))

	resp, err := o.client.Chat.Completions.New(ctx, p)
	if err != nil {
		return "", fmt.Errorf("%s inference error: %w", o.name, err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no choices returned")
	}
	if resp.Choices[0].Message.Content == "" {
		return "", errors.New("empty completion content")
	}

	return resp.Choices[0].Message.Content, nil
}

// Verify checks that the result is non-empty.
func (o *OpenAIInferencer) Verify(ctx context.Context, result string) (bool, error) {
	return verify(result)
}
