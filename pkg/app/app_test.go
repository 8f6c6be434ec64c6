package app

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mnemo/pkg/config"
	"mnemo/pkg/trick"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	data := filepath.Join(dir, "data")
	require.NoError(t, os.MkdirAll(data, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(data, "actors.json"), []byte(`["Aamir Khan", "Bobby Deol"]`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(data, "actors_lines.json"), []byte(`{"Bobby Deol": ["Bobby is back!"]}`), 0o644))

	return &config.Config{
		Server:     config.ServerConfig{Host: "127.0.0.1", Port: 8080},
		Data:       config.DataConfig{Dir: data, TTL: time.Minute},
		Cache:      config.CacheConfig{Backend: "json", Path: filepath.Join(dir, "cache", "abbr.json")},
		Generation: config.GenerationConfig{Backend: config.BackendNone, MaxTokens: 256},
		Trick:      config.TrickConfig{SentenceThreshold: 5},
		Log:        config.LogConfig{Level: "info", Format: "text"},
	}
}

func TestNew_WiresComponents(t *testing.T) {
	cfg := testConfig(t)
	a, err := New(context.Background(), cfg, log.New(&bytes.Buffer{}))
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })

	assert.False(t, a.Generator.Available())
	assert.Equal(t, "<b>Aamir</b>, <b>Bobby</b>: Bobby is back!", a.Tricks.Generate(context.Background(), "actors", "A,B", trick.Options{}))

	got := a.Resolver.Resolve(context.Background(), "xq")
	assert.Equal(t, "XQ", got.Abbr)
	all, err := a.Cache.All(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 1)

	srv := a.Server(context.Background())
	rec := httptest.NewRecorder()
	srv.Echo.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/generate_trick/", bytes.NewBufferString(`{"concept":"planets","trick_type":"acronym"}`)))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestNewInferencer(t *testing.T) {
	logger := log.New(&bytes.Buffer{})

	inf, err := NewInferencer(context.Background(), config.GenerationConfig{Backend: config.BackendNone}, logger)
	require.NoError(t, err)
	assert.Nil(t, inf)

	inf, err = NewInferencer(context.Background(), config.GenerationConfig{Backend: "local"}, logger)
	require.NoError(t, err)
	assert.NotNil(t, inf)

	_, err = NewInferencer(context.Background(), config.GenerationConfig{Backend: "skynet"}, logger)
	assert.Error(t, err)
}

func TestNew_UnknownCacheBackend(t *testing.T) {
	cfg := testConfig(t)
	cfg.Cache.Backend = "redis"
	_, err := New(context.Background(), cfg, log.New(&bytes.Buffer{}))
	assert.Error(t, err)
}
