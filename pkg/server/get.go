package server

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"mnemo/pkg/catalog"
	"mnemo/pkg/schema"
	"mnemo/pkg/trick"
)

const categoryNotFound = "Category not found"

func (s *Server) handleGetRoot(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"service":    "Mnemo Memory Trick API",
		"status":     "ok",
		"types":      trick.Types,
		"generation": s.generator != nil && s.generator.Available(),
	})
}

func (s *Server) handleGetTricks(c echo.Context) error {
	out := s.tricks.Generate(c.Request().Context(), c.QueryParam("type"), c.QueryParam("letters"), trick.Options{
		Lang: c.QueryParam("lang"),
	})
	return c.JSON(http.StatusOK, schema.TrickResponse{Trick: out})
}

func (s *Server) handleGetCatalog(c echo.Context) error {
	category := c.Param("category")
	list, err := s.catalog.Catalog(category)
	if err != nil {
		return s.catalogError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"category": category,
		"data":     list,
	})
}

func (s *Server) handleGetSearchByLetter(c echo.Context) error {
	letter := c.Param("letter")
	names, err := s.catalog.SearchByLetter(c.Param("category"), letter)
	if err != nil {
		return s.catalogError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"letter":  letter,
		"results": names,
	})
}

func (s *Server) handleGetSearch(c echo.Context) error {
	query := c.QueryParam("query")
	names, err := s.catalog.Search(c.QueryParam("category"), query)
	if err != nil {
		return s.catalogError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"query":   query,
		"results": names,
	})
}

func (s *Server) catalogError(c echo.Context, err error) error {
	if errors.Is(err, catalog.ErrUnknownCategory) {
		return c.JSON(http.StatusOK, map[string]string{"error": categoryNotFound})
	}
	s.logger.Error("Catalog lookup failed", "error", err)
	return echo.NewHTTPError(http.StatusInternalServerError, "catalog unavailable")
}
