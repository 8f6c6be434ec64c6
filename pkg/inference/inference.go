package inference

import (
	"context"
	"errors"

	"github.com/openai/openai-go/v3"
)

// ErrEmptyResult is returned by Verify for blank completions.
var ErrEmptyResult = errors.New("empty result")

// Inferencer defines an interface for running model inference and verification.
type Inferencer interface {
	Infer(ctx context.Context, params *openai.ChatCompletionNewParams, system, user string) (string, error)
	Verify(ctx context.Context, result string) (bool, error)
}

func verify(result string) (bool, error) {
	if result == "" {
		return false, ErrEmptyResult
	}
	return true, nil
}
