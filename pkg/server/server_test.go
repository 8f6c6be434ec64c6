package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mnemo/pkg/catalog"
	"mnemo/pkg/entities"
	"mnemo/pkg/schema"
	"mnemo/pkg/trick"
)

type fakeTricks struct {
	gotType, gotRaw, gotLang string
}

func (f *fakeTricks) Generate(_ context.Context, trickType, raw string, opts trick.Options) string {
	f.gotType, f.gotRaw, f.gotLang = trickType, raw, opts.Lang
	if raw == "" {
		return trick.InvalidInput
	}
	return "<b>Aamir</b>: All is well!"
}

type fakeAbbr struct{}

func (fakeAbbr) Resolve(_ context.Context, query string) schema.Abbreviation {
	key := schema.NormalizeAbbr(query)
	return schema.Abbreviation{Abbr: key, FullForm: "Full " + key, Description: "About " + key + "."}
}

type fakeGenerator struct {
	available bool
	err       error
}

func (f fakeGenerator) Available() bool { return f.available }

func (f fakeGenerator) Generate(_ context.Context, concept, trickType string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return trickType + " for " + concept, nil
}

type fakeCatalog struct{}

func (fakeCatalog) Catalog(category string) ([]entities.Entity, error) {
	if category != entities.Actors {
		return nil, catalog.ErrUnknownCategory
	}
	return []entities.Entity{{Name: "Aamir", Surname: "Khan"}}, nil
}

func (c fakeCatalog) SearchByLetter(category, letter string) ([]string, error) {
	if _, err := c.Catalog(category); err != nil {
		return nil, err
	}
	if strings.EqualFold(letter, "a") {
		return []string{"Aamir Khan"}, nil
	}
	return []string{}, nil
}

func (c fakeCatalog) Search(category, query string) ([]string, error) {
	return c.SearchByLetter(category, query[:1])
}

func newTestServer(t *testing.T, gen ModelGenerator) (*Server, *fakeTricks) {
	t.Helper()
	tricks := &fakeTricks{}
	s := NewServer(context.Background(), Deps{
		Tricks:    tricks,
		Abbr:      fakeAbbr{},
		Generator: gen,
		Catalog:   fakeCatalog{},
		Logger:    log.New(io.Discard),
	})
	return s, tricks
}

func do(s *Server, method, target, body string, header ...string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	s.Echo.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestRoot(t *testing.T) {
	s, _ := newTestServer(t, fakeGenerator{available: true})

	rec := do(s, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]any](t, rec)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, true, body["generation"])
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
}

func TestGetTricks(t *testing.T) {
	s, tricks := newTestServer(t, nil)

	rec := do(s, http.MethodGet, "/api/tricks?type=actors&letters=A&lang=hinglish", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "<b>Aamir</b>: All is well!", decode[schema.TrickResponse](t, rec).Trick)
	assert.Equal(t, "actors", tricks.gotType)
	assert.Equal(t, "A", tricks.gotRaw)
	assert.Equal(t, "hinglish", tricks.gotLang)

	rec = do(s, http.MethodGet, "/api/tricks?type=actors", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, trick.InvalidInput, decode[schema.TrickResponse](t, rec).Trick)
}

func TestPostWiki(t *testing.T) {
	s, _ := newTestServer(t, nil)

	rec := do(s, http.MethodPost, "/wiki", `{"terms": ["nasa", "W.H.O"]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]schema.Abbreviation](t, rec)
	assert.Equal(t, "NASA", body["nasa"].Abbr)
	assert.Equal(t, "WHO", body["W.H.O"].Abbr)

	rec = do(s, http.MethodPost, "/wiki", `{"terms": `)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPostFetchAbbreviations(t *testing.T) {
	s, _ := newTestServer(t, nil)

	for _, target := range []string{"/fetch-abbreviations", "/fetch-abbreviations/"} {
		rec := do(s, http.MethodPost, target, `{"terms": ["nasa", "who"]}`)
		require.Equal(t, http.StatusOK, rec.Code, target)
		body := decode[schema.FetchedResponse](t, rec)
		require.Len(t, body.Fetched, 2)
		assert.Equal(t, "NASA", body.Fetched[0].Abbr)
		assert.Equal(t, "WHO", body.Fetched[1].Abbr)
	}
}

func TestPostFetchAbbreviations_Stream(t *testing.T) {
	s, _ := newTestServer(t, nil)

	rec := do(s, http.MethodPost, "/fetch-abbreviations/", `{"terms": ["nasa", "who"]}`,
		echo.HeaderAccept, "text/event-stream")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get(echo.HeaderContentType))

	out := rec.Body.String()
	assert.Equal(t, 2, strings.Count(out, "event: data\n"))
	assert.Contains(t, out, `"abbr":"NASA"`)
	assert.Less(t, strings.Index(out, `"abbr":"NASA"`), strings.Index(out, `"abbr":"WHO"`))
	assert.Less(t, strings.LastIndex(out, "event: data"), strings.Index(out, "event: done"))
}

func TestPostGenerateTrick(t *testing.T) {
	s, _ := newTestServer(t, fakeGenerator{available: true})

	rec := do(s, http.MethodPost, "/generate_trick/", `{"concept": "planets", "trick_type": "acronym"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, schema.GenerateResponse{
		Concept:   "planets",
		TrickType: "acronym",
		Trick:     "acronym for planets",
	}, decode[schema.GenerateResponse](t, rec))

	rec = do(s, http.MethodPost, "/generate_trick/", `{"trick_type": "acronym"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPostGenerateTrick_Failures(t *testing.T) {
	tests := []struct {
		name   string
		gen    ModelGenerator
		status int
	}{
		{"no generator", nil, http.StatusServiceUnavailable},
		{"unavailable", fakeGenerator{}, http.StatusServiceUnavailable},
		{"backend error", fakeGenerator{available: true, err: errors.New("upstream timeout")}, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestServer(t, tt.gen)
			rec := do(s, http.MethodPost, "/generate_trick", `{"concept": "planets", "trick_type": "acronym"}`)
			require.Equal(t, tt.status, rec.Code)
			assert.NotEmpty(t, decode[map[string]string](t, rec)["detail"])
		})
	}
}

func TestCatalogRoutes(t *testing.T) {
	s, _ := newTestServer(t, nil)

	rec := do(s, http.MethodGet, "/tricks/actors", "")
	require.Equal(t, http.StatusOK, rec.Code)
	listing := decode[struct {
		Category string            `json:"category"`
		Data     []entities.Entity `json:"data"`
	}](t, rec)
	assert.Equal(t, "actors", listing.Category)
	require.Len(t, listing.Data, 1)
	assert.Equal(t, "Aamir", listing.Data[0].Name)

	rec = do(s, http.MethodGet, "/search/actors/a", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{"letter": "a", "results": []any{"Aamir Khan"}}, decode[map[string]any](t, rec))

	rec = do(s, http.MethodGet, "/search/?category=actors&query=aam", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{"query": "aam", "results": []any{"Aamir Khan"}}, decode[map[string]any](t, rec))

	for _, target := range []string{"/tricks/spaceships", "/search/spaceships/a", "/search?category=spaceships&query=x"} {
		rec = do(s, http.MethodGet, target, "")
		require.Equal(t, http.StatusOK, rec.Code, target)
		assert.Equal(t, map[string]string{"error": categoryNotFound}, decode[map[string]string](t, rec), target)
	}
}
