// Package catalog loads the read-only data files of the service: entity
// catalogs, fixed lines, sentence templates and the wordbank.
//
// Files live in a single directory:
//
//	<category>.json        entity catalog
//	<category>_lines.json  name -> fixed lines
//	templates.json         category -> templates
//	wordbank.json          part of speech -> letter -> words
//
// A missing or malformed file is treated as empty and logged once per load.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"mnemo/pkg/entities"
	"mnemo/pkg/flight"
	"mnemo/pkg/utils"
	"mnemo/pkg/wordbank"
)

var ErrUnknownCategory = errors.New("category not found")

const (
	templatesFile = "templates.json"
	wordbankFile  = "wordbank.json"

	// DefaultTemplates is the category used for templates stored without one.
	DefaultTemplates = "default"
)

type Store struct {
	fsys   fs.FS
	logger *log.Logger

	entities  *flight.Cache[string, []entities.Entity]
	lines     *flight.Cache[string, map[string][]string]
	templates *flight.Cache[string, map[string][]string]
	wordbank  *flight.Cache[string, *wordbank.Wordbank]
}

// New reads data from fsys. Loaded files are kept for ttl; ttl <= 0 keeps
// them for the life of the process.
func New(fsys fs.FS, ttl time.Duration, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.Default()
	}
	s := &Store{fsys: fsys, logger: logger.With("component", "catalog")}

	s.entities = flight.NewCache(s.loadEntities)
	s.lines = flight.NewCache(s.loadLines)
	s.templates = flight.NewCache(s.loadTemplates)
	s.wordbank = flight.NewCache(s.loadWordbank)
	for _, c := range []interface{ Expiry(time.Duration) }{s.entities, s.lines, s.templates, s.wordbank} {
		c.Expiry(ttl)
	}
	return s
}

// NewDir reads data from a directory on disk.
func NewDir(dir string, ttl time.Duration, logger *log.Logger) *Store {
	return New(os.DirFS(dir), ttl, logger)
}

// Entities returns the normalized catalog of category, empty when the file
// is missing.
func (s *Store) Entities(category string) []entities.Entity {
	list, _ := s.entities.Get(category)
	return list
}

// Lines returns the fixed lines of category keyed by entity name.
func (s *Store) Lines(category string) map[string][]string {
	lines, _ := s.lines.Get(category)
	return lines
}

// Templates returns every template category.
func (s *Store) Templates() map[string][]string {
	t, _ := s.templates.Get(templatesFile)
	return t
}

// TemplatesFor returns the templates of the first category in names that has
// any.
func (s *Store) TemplatesFor(names ...string) []string {
	all := s.Templates()
	for _, n := range names {
		if t := all[strings.ToLower(n)]; len(t) > 0 {
			return t
		}
	}
	return nil
}

func (s *Store) Wordbank() *wordbank.Wordbank {
	wb, _ := s.wordbank.Get(wordbankFile)
	if wb == nil {
		return wordbank.New()
	}
	return wb
}

// Catalog returns the raw entity list of category. Unlike Entities it
// reports a missing file as ErrUnknownCategory.
func (s *Store) Catalog(category string) ([]entities.Entity, error) {
	if !s.exists(category + ".json") {
		return nil, fmt.Errorf("%s: %w", category, ErrUnknownCategory)
	}
	return s.Entities(category), nil
}

// SearchByLetter lists the full names in category starting with letter.
func (s *Store) SearchByLetter(category, letter string) ([]string, error) {
	list, err := s.Catalog(category)
	if err != nil {
		return nil, err
	}
	prefix := strings.ToLower(letter)
	out := []string{}
	for _, e := range list {
		name := e.FullName()
		if category == entities.Professions && e.Profession != "" {
			name = e.Profession
		}
		if strings.HasPrefix(strings.ToLower(name), prefix) {
			out = append(out, name)
		}
	}
	return out, nil
}

// Search lists the full names in category containing query, ignoring case.
func (s *Store) Search(category, query string) ([]string, error) {
	list, err := s.Catalog(category)
	if err != nil {
		return nil, err
	}
	query = strings.TrimSpace(query)
	out := []string{}
	for _, e := range list {
		name := e.FullName()
		if query == "" || utils.ContainsFold(name, query) || utils.ContainsFold(e.Profession, query) {
			out = append(out, name)
		}
	}
	return out, nil
}

// Reload drops every cached file.
func (s *Store) Reload(categories ...string) {
	for _, c := range categories {
		s.entities.Forget(c)
		s.lines.Forget(c)
	}
	s.templates.Forget(templatesFile)
	s.wordbank.Forget(wordbankFile)
}

func (s *Store) exists(name string) bool {
	_, err := fs.Stat(s.fsys, name)
	return err == nil
}

func (s *Store) loadEntities(category string) ([]entities.Entity, error) {
	list, err := load[[]entities.Entity](s, category+".json")
	return entities.Normalize(list), err
}

func (s *Store) loadLines(category string) (map[string][]string, error) {
	raw, err := load[map[string]json.RawMessage](s, category+"_lines.json")
	out := make(map[string][]string, len(raw))
	for name, msg := range raw {
		lines, ok := stringList(msg)
		if !ok {
			s.logger.Warn("Skipping malformed lines", "category", category, "name", name)
			continue
		}
		if len(lines) > 0 {
			out[strings.ToLower(strings.TrimSpace(name))] = lines
		}
	}
	return out, err
}

func (s *Store) loadTemplates(name string) (map[string][]string, error) {
	raw, err := load[json.RawMessage](s, name)
	out := make(map[string][]string)
	if len(raw) == 0 {
		return out, err
	}

	if list, ok := stringList(raw); ok {
		out[DefaultTemplates] = list
		return out, err
	}

	var groups map[string]json.RawMessage
	if err := json.Unmarshal(raw, &groups); err != nil {
		s.logger.Warn("Templates file is neither a list nor an object", "file", name, "error", err)
		return out, nil
	}
	for k, msg := range groups {
		key := strings.ToLower(strings.TrimSpace(k))
		if key == "templates" {
			key = DefaultTemplates
		}
		list, ok := stringList(msg)
		if !ok {
			s.logger.Warn("Skipping malformed template group", "group", k)
			continue
		}
		out[key] = append(out[key], list...)
	}
	return out, err
}

func (s *Store) loadWordbank(name string) (*wordbank.Wordbank, error) {
	wb, err := load[*wordbank.Wordbank](s, name)
	if wb == nil {
		wb = wordbank.New()
	}
	return wb, err
}

// load decodes name, logging and swallowing anything but success so callers
// always see an empty value for missing data. A nil error is returned in
// every case; the flight cache then keeps the empty value for its TTL.
func load[T any](s *Store, name string) (T, error) {
	v, err := utils.LoadFS[T](s.fsys, name)
	switch {
	case err == nil:
	case errors.Is(err, fs.ErrNotExist):
		s.logger.Debug("Data file missing", "file", name)
	default:
		s.logger.Warn("Failed to load data file", "file", name, "error", err)
	}
	return v, nil
}

func stringList(msg json.RawMessage) ([]string, bool) {
	var list []string
	if err := json.Unmarshal(msg, &list); err != nil {
		var single string
		if err := json.Unmarshal(msg, &single); err != nil {
			return nil, false
		}
		list = []string{single}
	}
	return slices.DeleteFunc(list, func(s string) bool { return strings.TrimSpace(s) == "" }), true
}
