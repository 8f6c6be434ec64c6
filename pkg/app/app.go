// Package app wires configuration into the running service.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"mnemo/pkg/abbr"
	"mnemo/pkg/cache"
	"mnemo/pkg/catalog"
	"mnemo/pkg/config"
	"mnemo/pkg/generator"
	"mnemo/pkg/inference"
	"mnemo/pkg/queue"
	"mnemo/pkg/selector"
	"mnemo/pkg/server"
	"mnemo/pkg/trick"
	"mnemo/pkg/wiki"
)

// App holds every long-lived component.
type App struct {
	Config *config.Config
	Logger *log.Logger

	Catalog   *catalog.Store
	Cache     cache.Store
	Resolver  *abbr.Resolver
	Tricks    *trick.Generator
	Generator *generator.Generator

	queue *queue.Queue
}

// New builds the application from cfg. Close releases what it opened.
func New(ctx context.Context, cfg *config.Config, logger *log.Logger) (*App, error) {
	if logger == nil {
		logger = log.Default()
	}
	a := &App{Config: cfg, Logger: logger}

	a.Catalog = catalog.NewDir(cfg.Data.Dir, cfg.Data.TTL, logger)

	store, err := openCache(ctx, cfg.Cache)
	if err != nil {
		return nil, err
	}
	a.Cache = store

	var lookup abbr.Lookup
	if cfg.Wiki.Enabled {
		lookup = wiki.NewClient(wiki.Options{
			BaseURL:   cfg.Wiki.BaseURL,
			UserAgent: cfg.Wiki.UserAgent,
			Timeout:   cfg.Wiki.Timeout,
			Logger:    logger,
		})
	}
	a.Resolver = abbr.New(store, lookup, a.Catalog, abbr.Options{Logger: logger})

	a.Tricks = trick.New(a.Catalog, selector.New(a.Catalog, selector.NewRotationState()), a.Resolver, trick.Config{
		SentenceThreshold: cfg.Trick.SentenceThreshold,
		Logger:            logger,
	})

	backend, err := NewInferencer(ctx, cfg.Generation, logger)
	if err != nil {
		store.Close()
		return nil, err
	}
	if backend != nil && cfg.Generation.QueueSize > 0 {
		a.queue = queue.New(backend, cfg.Generation.QueueSize, logger)
		a.queue.Start()
		backend = a.queue
	}
	a.Generator = generator.New(backend, generator.Options{
		MaxTokens:  cfg.Generation.MaxTokens,
		Structured: cfg.Generation.Structured,
		Logger:     logger,
	})

	logger.Info("Application ready",
		"data_dir", cfg.Data.Dir,
		"cache", cfg.Cache.Backend,
		"generation", cfg.Generation.ResolvedBackend(),
		"wiki", cfg.Wiki.Enabled,
	)
	return a, nil
}

// NewInferencer returns the configured generation backend, or nil when
// generation is disabled.
func NewInferencer(ctx context.Context, cfg config.GenerationConfig, logger *log.Logger) (inference.Inferencer, error) {
	backend := cfg.ResolvedBackend()
	switch backend {
	case config.BackendNone:
		logger.Warn("No generation backend configured; /generate_trick/ will answer 503")
		return nil, nil
	case config.BackendGemini:
		g, err := inference.NewGeminiInferencer(ctx, cfg.GeminiKey, cfg.ModelFor(backend))
		if err != nil {
			return nil, err
		}
		return g, nil
	}

	p, ok := inference.LookupProvider(backend)
	if !ok {
		return nil, fmt.Errorf("unknown generation backend %q", backend)
	}
	return inference.NewProviderInferencer(p, cfg.APIKey(backend), cfg.ModelFor(backend), cfg.BaseURL), nil
}

func openCache(ctx context.Context, cfg config.CacheConfig) (cache.Store, error) {
	opts := cache.Options{Backend: cfg.Backend, Path: cfg.Path, DSN: cfg.PostgresDSN}
	if cfg.Backend == cache.BackendSQLite {
		opts.Path = cfg.SQLitePath
	}
	store, err := cache.Open(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("open %s cache: %w", cfg.Backend, err)
	}
	return store, nil
}

// Server returns the HTTP surface over the application's components.
func (a *App) Server(ctx context.Context) *server.Server {
	srv := server.NewServer(ctx, server.Deps{
		Tricks:    a.Tricks,
		Abbr:      a.Resolver,
		Generator: a.Generator,
		Catalog:   a.Catalog,
		Logger:    a.Logger,
		Origins:   a.Config.Server.Origins(),
		Timeout:   a.Config.Server.RequestTimeout,
	})
	return srv
}

// Close stops the generation queue and closes the cache.
func (a *App) Close() error {
	if a.queue != nil {
		a.queue.Stop()
	}
	var errs []error
	if a.Cache != nil {
		errs = append(errs, a.Cache.Close())
	}
	return errors.Join(errs...)
}
