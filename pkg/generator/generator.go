// Package generator produces memory tricks from a text-generation backend.
package generator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/openai/openai-go/v3"

	"mnemo/pkg/inference"
	"mnemo/pkg/schema"
	"mnemo/pkg/utils"
)

var ErrNoBackend = errors.New("no generation backend configured")

const (
	DefaultMaxTokens = 512
	minTokens        = 128
)

type Options struct {
	// MaxTokens caps the completion budget.
	MaxTokens int
	// Structured requests JSON schema output. Backends without support fall
	// back to raw text, which is still accepted.
	Structured bool
	Logger     *log.Logger
}

type Generator struct {
	backend    inference.Inferencer
	maxTokens  int
	structured bool
	logger     *log.Logger
}

// New returns a Generator. A nil backend makes every call fail with
// ErrNoBackend.
func New(backend inference.Inferencer, opts Options) *Generator {
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = DefaultMaxTokens
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return &Generator{
		backend:    backend,
		maxTokens:  opts.MaxTokens,
		structured: opts.Structured,
		logger:     opts.Logger.With("component", "generator"),
	}
}

// Available reports whether a backend is configured.
func (g *Generator) Available() bool {
	return g != nil && g.backend != nil
}

// Generate asks the backend for a trick of trickType about concept.
func (g *Generator) Generate(ctx context.Context, concept, trickType string) (string, error) {
	if !g.Available() {
		return "", ErrNoBackend
	}

	prompt := Prompt(concept, trickType)
	params := &openai.ChatCompletionNewParams{
		MaxCompletionTokens: openai.Int(int64(g.budget(systemPrompt + "\n" + prompt))),
	}
	if g.structured {
		params.ResponseFormat = schema.StructuredOutputsResponseFormat()
	}

	g.logger.Debug("Generating trick", "trick_type", trickType, "concept", utils.Truncate(concept, 40))

	raw, err := g.backend.Infer(ctx, params, systemPrompt, prompt)
	if err != nil {
		return "", fmt.Errorf("generate %s: %w", trickType, err)
	}
	if ok, err := g.backend.Verify(ctx, raw); !ok {
		if err == nil {
			err = inference.ErrEmptyResult
		}
		return "", fmt.Errorf("generate %s: %w", trickType, err)
	}

	trick := Extract(prompt, raw)
	if trick == "" {
		return "", fmt.Errorf("generate %s: %w", trickType, inference.ErrEmptyResult)
	}
	return trick, nil
}

// budget sizes the completion from the prompt length: short prompts get
// proportionally short answers, bounded by the configured maximum.
func (g *Generator) budget(prompt string) int {
	n, err := utils.CountTokens(prompt)
	if err != nil {
		g.logger.Debug("Token count unavailable, estimating", "error", err)
		n = len(prompt) / 4
	}
	return max(minTokens, min(g.maxTokens, n*4))
}

// Extract pulls the trick out of a backend response: reasoning blocks and
// code fences are dropped, structured output is unwrapped, and a raw
// completion that starts by repeating the prompt has the echo removed.
func Extract(prompt, raw string) string {
	out := utils.CleanJSON(utils.StripThink(raw))

	var structured schema.GeneratedTrick
	if strings.HasPrefix(out, "{") && json.Unmarshal([]byte(out), &structured) == nil {
		if t := strings.TrimSpace(structured.Trick); t != "" {
			return t
		}
	}
	return utils.StripEcho(prompt, out)
}
