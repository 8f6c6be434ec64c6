package server

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"mnemo/pkg/entities"
	"mnemo/pkg/schema"
	"mnemo/pkg/trick"
)

// TrickGenerator builds letter and topic tricks.
type TrickGenerator interface {
	Generate(ctx context.Context, trickType, raw string, opts trick.Options) string
}

// AbbreviationResolver expands abbreviations.
type AbbreviationResolver interface {
	Resolve(ctx context.Context, query string) schema.Abbreviation
}

// ModelGenerator produces model-backed tricks.
type ModelGenerator interface {
	Generate(ctx context.Context, concept, trickType string) (string, error)
	Available() bool
}

// CatalogBrowser lists and searches entity catalogs.
type CatalogBrowser interface {
	Catalog(category string) ([]entities.Entity, error)
	SearchByLetter(category, letter string) ([]string, error)
	Search(category, query string) ([]string, error)
}

type Deps struct {
	Tricks    TrickGenerator
	Abbr      AbbreviationResolver
	Generator ModelGenerator
	Catalog   CatalogBrowser
	Logger    *log.Logger

	// Origins allowed by CORS; empty allows any.
	Origins []string
	// Timeout bounds each request; zero disables it.
	Timeout time.Duration
}

type Server struct {
	Echo *echo.Echo
	Ctx  context.Context

	tricks    TrickGenerator
	abbr      AbbreviationResolver
	generator ModelGenerator
	catalog   CatalogBrowser
	logger    *log.Logger
}

func NewServer(ctx context.Context, deps Deps) *Server {
	if deps.Logger == nil {
		deps.Logger = log.Default()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		Echo:      e,
		Ctx:       ctx,
		tricks:    deps.Tricks,
		abbr:      deps.Abbr,
		generator: deps.Generator,
		catalog:   deps.Catalog,
		logger:    deps.Logger.With("component", "http"),
	}

	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(requestID())
	e.Use(s.requestLogger())
	e.Use(middleware.Recover())
	e.Use(cors(deps.Origins))
	if deps.Timeout > 0 {
		e.Use(middleware.ContextTimeout(deps.Timeout))
	}

	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.Echo.GET("/", s.handleGetRoot)

	api := s.Echo.Group("/api")
	api.GET("/tricks", s.handleGetTricks)

	s.Echo.POST("/wiki", s.handlePostWiki)
	s.Echo.POST("/fetch-abbreviations", s.handlePostFetchAbbreviations)
	s.Echo.POST("/generate_trick", s.handlePostGenerateTrick)

	s.Echo.GET("/tricks/:category", s.handleGetCatalog)
	s.Echo.GET("/search/:category/:letter", s.handleGetSearchByLetter)
	s.Echo.GET("/search", s.handleGetSearch)
}

func (s *Server) Start(addr string) error {
	s.logger.Info("Server listening", "addr", addr)
	return s.Echo.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server...")
	return s.Echo.Shutdown(ctx)
}
