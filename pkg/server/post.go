package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"mnemo/pkg/generator"
	"mnemo/pkg/schema"
)

func (s *Server) handlePostWiki(c echo.Context) error {
	var req schema.TermsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid json")
	}

	out := make(map[string]schema.Abbreviation, len(req.Terms))
	for _, term := range req.Terms {
		out[term] = s.abbr.Resolve(c.Request().Context(), term)
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) handlePostFetchAbbreviations(c echo.Context) error {
	var req schema.TermsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid json")
	}

	ctx := c.Request().Context()
	if !wantsStream(c) {
		fetched := make([]schema.Abbreviation, 0, len(req.Terms))
		for _, term := range req.Terms {
			fetched = append(fetched, s.abbr.Resolve(ctx, term))
		}
		return c.JSON(http.StatusOK, schema.FetchedResponse{Fetched: fetched})
	}

	stream, ok := newEventStream(c)
	if !ok {
		return echo.NewHTTPError(http.StatusInternalServerError, "streaming unsupported")
	}
	defer stream.close()

	for _, term := range req.Terms {
		if ctx.Err() != nil {
			return nil
		}
		if err := stream.send("data", s.abbr.Resolve(ctx, term)); err != nil {
			s.logger.Warn("Stream write failed", "error", err)
			return nil
		}
	}
	_ = stream.send("done", map[string]int{"count": len(req.Terms)})
	return nil
}

func (s *Server) handlePostGenerateTrick(c echo.Context) error {
	var req schema.GenerateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid json")
	}
	if strings.TrimSpace(req.Concept) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "concept is required")
	}

	if s.generator == nil || !s.generator.Available() {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"detail": generator.ErrNoBackend.Error()})
	}

	out, err := s.generator.Generate(c.Request().Context(), req.Concept, req.TrickType)
	if err != nil {
		if errors.Is(err, generator.ErrNoBackend) {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"detail": err.Error()})
		}
		s.logger.Error("Generation failed", "concept", req.Concept, "trick_type", req.TrickType, "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"detail": err.Error()})
	}

	return c.JSON(http.StatusOK, schema.GenerateResponse{
		Concept:   req.Concept,
		TrickType: req.TrickType,
		Trick:     out,
	})
}

func wantsStream(c echo.Context) bool {
	return strings.Contains(c.Request().Header.Get(echo.HeaderAccept), "text/event-stream")
}
