package generator

import (
	"context"
	"errors"
	"testing"

	"github.com/openai/openai-go/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mnemo/pkg/inference"
)

type fakeBackend struct {
	out    string
	err    error
	params *openai.ChatCompletionNewParams
	user   string
}

func (f *fakeBackend) Infer(_ context.Context, params *openai.ChatCompletionNewParams, _, user string) (string, error) {
	f.params, f.user = params, user
	return f.out, f.err
}

func (f *fakeBackend) Verify(_ context.Context, result string) (bool, error) {
	if result == "" {
		return false, inference.ErrEmptyResult
	}
	return true, nil
}

func TestPrompt(t *testing.T) {
	assert.Equal(t, "Write a short, catchy rhyme or song lyrics to memorize: planets.", Prompt("planets", "Rhymes_Songs"))
	assert.Equal(t, "Generate a memory trick for: planets.", Prompt("planets", "interpretive_dance"))
	assert.Len(t, TrickTypes(), 8)
}

func TestGenerate_Structured(t *testing.T) {
	backend := &fakeBackend{out: "<think>hmm</think>\n```json\n{\"trick\": \"My Very Educated Mother Just Served Us Nachos\", \"keywords\": [\"M\", \"V\"]}\n```"}
	g := New(backend, Options{Structured: true})

	got, err := g.Generate(context.Background(), "planets", "acronym")
	require.NoError(t, err)
	assert.Equal(t, "My Very Educated Mother Just Served Us Nachos", got)

	require.NotNil(t, backend.params)
	assert.NotNil(t, backend.params.ResponseFormat.OfJSONSchema)
	assert.GreaterOrEqual(t, backend.params.MaxCompletionTokens.Value, int64(minTokens))
	assert.LessOrEqual(t, backend.params.MaxCompletionTokens.Value, int64(DefaultMaxTokens))
	assert.Equal(t, Prompt("planets", "acronym"), backend.user)
}

func TestGenerate_RawTextStripsEcho(t *testing.T) {
	prompt := Prompt("the rainbow colors", "rhymes_songs")
	backend := &fakeBackend{out: prompt + " Richard Of York Gave Battle In Vain."}
	g := New(backend, Options{})

	got, err := g.Generate(context.Background(), "the rainbow colors", "rhymes_songs")
	require.NoError(t, err)
	assert.Equal(t, "Richard Of York Gave Battle In Vain.", got)
	assert.Nil(t, backend.params.ResponseFormat.OfJSONSchema)
}

func TestGenerate_Errors(t *testing.T) {
	_, err := New(nil, Options{}).Generate(context.Background(), "x", "acronym")
	assert.ErrorIs(t, err, ErrNoBackend)

	var nilGen *Generator
	assert.False(t, nilGen.Available())

	boom := errors.New("backend down")
	_, err = New(&fakeBackend{err: boom}, Options{}).Generate(context.Background(), "x", "acronym")
	assert.ErrorIs(t, err, boom)

	_, err = New(&fakeBackend{out: ""}, Options{}).Generate(context.Background(), "x", "acronym")
	assert.ErrorIs(t, err, inference.ErrEmptyResult)

	_, err = New(&fakeBackend{out: "<think>only thoughts</think>"}, Options{}).Generate(context.Background(), "x", "acronym")
	assert.ErrorIs(t, err, inference.ErrEmptyResult)
}

func TestExtract(t *testing.T) {
	assert.Equal(t, "plain answer", Extract("unrelated prompt here", "plain answer"))
	assert.Equal(t, `{"keywords": []}`, Extract("p", `{"keywords": []}`))
}
