package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/log"

	"mnemo/pkg/cache"
	"mnemo/pkg/inference"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535 (got %d)", c.Server.Port)
	}
	if c.Data.Dir == "" {
		return fmt.Errorf("data.dir must be set")
	}
	if err := c.Cache.validate(); err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	if err := c.Generation.validate(); err != nil {
		return fmt.Errorf("generation: %w", err)
	}
	if c.Trick.SentenceThreshold <= 0 {
		return fmt.Errorf("trick.sentence_threshold must be > 0 (got %d)", c.Trick.SentenceThreshold)
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if !slices.Contains([]string{"text", "json", "logfmt"}, strings.ToLower(c.Log.Format)) {
		return fmt.Errorf("log.format must be text, json or logfmt (got %q)", c.Log.Format)
	}
	return nil
}

func (c *CacheConfig) validate() error {
	switch strings.ToLower(c.Backend) {
	case cache.BackendJSON:
		if c.Path == "" {
			return fmt.Errorf("path is required for the json backend")
		}
	case cache.BackendSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("sqlite_path is required for the sqlite backend")
		}
	case cache.BackendPostgres:
		if c.PostgresDSN == "" {
			return fmt.Errorf("postgres_dsn is required for the postgres backend")
		}
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	return nil
}

func (g *GenerationConfig) validate() error {
	if g.MaxTokens <= 0 {
		return fmt.Errorf("max_tokens must be > 0 (got %d)", g.MaxTokens)
	}
	if g.QueueSize < 0 {
		return fmt.Errorf("queue_size must be >= 0 (got %d)", g.QueueSize)
	}

	backend := g.ResolvedBackend()
	switch backend {
	case BackendNone:
		return nil
	case BackendGemini:
		if g.GeminiKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required for the gemini backend")
		}
		return nil
	}

	p, ok := inference.LookupProvider(backend)
	if !ok {
		return fmt.Errorf("unknown backend %q", backend)
	}
	if p.KeyRequired && g.APIKey(backend) == "" {
		return fmt.Errorf("an API key is required for the %s backend", backend)
	}
	return nil
}
