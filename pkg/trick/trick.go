// Package trick composes selected entities, fixed lines and filled templates
// into the display string returned by the tricks endpoint.
package trick

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"

	"github.com/charmbracelet/log"

	"mnemo/pkg/entities"
	"mnemo/pkg/filler"
	"mnemo/pkg/schema"
	"mnemo/pkg/selector"
	"mnemo/pkg/wordbank"
)

// Trick types accepted by Generate besides the entity categories.
const (
	SimpleSentence = "simple_sentence"
	Abbreviations  = "abbreviations"
)

const (
	InvalidInput = "Invalid input."
	InvalidType  = "Invalid type selected."

	// DefaultSentenceThreshold is the entity count from which a group
	// template replaces the fixed line.
	DefaultSentenceThreshold = 5

	groupTemplates = "group"
)

// Types lists every trick type in display order.
var Types = []string{entities.Actors, entities.Cricketers, entities.Animals, entities.Professions, SimpleSentence, Abbreviations}

// Catalog is the read side of the data store.
type Catalog interface {
	Entities(category string) []entities.Entity
	Lines(category string) map[string][]string
	TemplatesFor(names ...string) []string
	Wordbank() *wordbank.Wordbank
}

// Resolver expands abbreviations.
type Resolver interface {
	Resolve(ctx context.Context, query string) schema.Abbreviation
}

type Options struct {
	// Lang selects the rule sentence language: "english" (default) or "hinglish".
	Lang string
}

type Config struct {
	SentenceThreshold int
	// Rand drives every random pick. A non-nil source must not be shared
	// between goroutines; nil uses the global source.
	Rand   *rand.Rand
	Logger *log.Logger
}

type Generator struct {
	catalog  Catalog
	selector *selector.Selector
	resolver Resolver
	filler   *filler.Filler

	threshold int
	rng       *rand.Rand
	logger    *log.Logger
}

func New(catalog Catalog, sel *selector.Selector, resolver Resolver, cfg Config) *Generator {
	if cfg.SentenceThreshold <= 0 {
		cfg.SentenceThreshold = DefaultSentenceThreshold
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if sel == nil {
		sel = selector.New(catalog, nil)
	}
	return &Generator{
		catalog:   catalog,
		selector:  sel,
		resolver:  resolver,
		filler:    filler.New(cfg.Rand),
		threshold: cfg.SentenceThreshold,
		rng:       cfg.Rand,
		logger:    cfg.Logger.With("component", "trick"),
	}
}

// Generate builds the trick for raw input. Invalid requests return a
// message rather than an error; a trick is always produced.
func (g *Generator) Generate(ctx context.Context, trickType, raw string, opts Options) string {
	trickType = strings.ToLower(strings.TrimSpace(trickType))
	if !slices.Contains(Types, trickType) {
		return InvalidType
	}

	in := Parse(raw)
	if len(in.Letters) == 0 {
		return InvalidInput
	}

	switch trickType {
	case SimpleSentence:
		return withTopic(in.Topic, g.simpleSentence(in.Letters, opts))
	case Abbreviations:
		return g.abbreviation(ctx, in)
	default:
		return withTopic(in.Topic, g.entityTrick(trickType, in.Letters))
	}
}

func (g *Generator) entityTrick(category string, letters []string) string {
	var picked []entities.Entity
	for _, l := range letters {
		e, err := g.selector.Select(category, l)
		if err != nil {
			if !errors.Is(err, selector.ErrNoCandidates) {
				g.logger.Warn("Selection failed", "category", category, "letter", l, "error", err)
			}
			continue
		}
		picked = append(picked, e)
	}
	if len(picked) == 0 {
		g.logger.Debug("No entities for letters", "category", category, "letters", letters)
		return g.defaultLine()
	}

	names := make([]string, len(picked))
	for i, e := range picked {
		names[i] = bold(e.Display(category, i == len(picked)-1))
	}

	if len(picked) >= g.threshold {
		if s, ok := g.groupSentence(category, letters, names); ok {
			return s
		}
	}

	last := picked[len(picked)-1]
	line := g.defaultLine()
	if lines, ok := findLine(g.catalog.Lines(category), last, last.Display(category, true)); ok {
		line = lines[g.intN(len(lines))]
	}
	return fmt.Sprintf("%s: %s", strings.Join(names, ", "), line)
}

func (g *Generator) groupSentence(category string, letters, names []string) (string, bool) {
	templates := g.catalog.TemplatesFor(category, groupTemplates)
	if len(templates) == 0 {
		return "", false
	}

	slots := map[string]string{"names": strings.Join(names, ", ")}
	for i, n := range names {
		slots[fmt.Sprintf("name%d", i+1)] = n
	}
	tmpl := templates[g.intN(len(templates))]
	return g.filler.FillSlots(tmpl, g.catalog.Wordbank(), letters, slots), true
}

func (g *Generator) simpleSentence(letters []string, opts Options) string {
	wb := g.catalog.Wordbank()
	templates := g.catalog.TemplatesFor(SimpleSentence, "default")
	if len(templates) == 0 {
		return ruleSentence(wb, letters, opts.Lang, g.intN)
	}

	filled := make([]string, len(templates))
	var matching []string
	for i, t := range templates {
		filled[i] = g.filler.Fill(t, wb, letters)
		for _, l := range letters {
			if strings.Contains(strings.ToLower(filled[i]), strings.ToLower(l)) {
				matching = append(matching, filled[i])
				break
			}
		}
	}
	if len(matching) > 0 {
		return matching[g.intN(len(matching))]
	}
	return filled[g.intN(len(filled))]
}

func (g *Generator) abbreviation(ctx context.Context, in Input) string {
	if g.resolver == nil {
		return InvalidType
	}
	a := g.resolver.Resolve(ctx, strings.Join(in.Letters, ""))
	return fmt.Sprintf("%s: %s - %s", bold(a.Abbr), a.FullForm, a.Description)
}

func (g *Generator) defaultLine() string {
	return defaultLines[g.intN(len(defaultLines))]
}

func (g *Generator) intN(n int) int {
	if g.rng == nil {
		return rand.IntN(n)
	}
	return g.rng.IntN(n)
}

func bold(s string) string {
	return "<b>" + s + "</b>"
}

func withTopic(topic, s string) string {
	if topic == "" {
		return s
	}
	return bold(topic) + ", " + s
}
