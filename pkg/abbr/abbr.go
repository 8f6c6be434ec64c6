// Package abbr expands abbreviations, consulting the cache first, then the
// encyclopedia lookup, and finally synthesizing an expansion from the
// wordbank.
package abbr

import (
	"context"
	"math/rand/v2"
	"slices"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/log"

	"mnemo/pkg/cache"
	"mnemo/pkg/flight"
	"mnemo/pkg/schema"
	"mnemo/pkg/wiki"
	"mnemo/pkg/wordbank"
)

// Lookup is the external summary source.
type Lookup interface {
	Summary(ctx context.Context, term string) (*wiki.Summary, error)
}

// Words supplies the wordbank used for synthesized expansions.
type Words interface {
	Wordbank() *wordbank.Wordbank
}

type Resolver struct {
	store  cache.Store
	lookup Lookup
	words  Words

	// inflight coalesces concurrent misses of one abbreviation.
	inflight *flight.Cache[string, schema.Abbreviation]
	timeout  time.Duration
	rng      *rand.Rand
	logger   *log.Logger
}

type Options struct {
	// Timeout bounds one miss: lookup plus persistence.
	Timeout time.Duration
	// Rand must not be shared with other goroutines; nil uses the global source.
	Rand    *rand.Rand
	Logger  *log.Logger
}

// New returns a Resolver. lookup may be nil, in which case every miss is
// synthesized.
func New(store cache.Store, lookup Lookup, words Words, opts Options) *Resolver {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	r := &Resolver{
		store:   store,
		lookup:  lookup,
		words:   words,
		timeout: opts.Timeout,
		rng:     opts.Rand,
		logger:  opts.Logger.With("component", "abbr"),
	}
	r.inflight = flight.NewCache(r.resolveMiss)
	r.inflight.Expiry(time.Second)
	return r
}

// Resolve returns the expansion of query. It never fails: lookup and storage
// errors are logged and degrade to a synthesized expansion.
func (r *Resolver) Resolve(ctx context.Context, query string) schema.Abbreviation {
	abbr := schema.NormalizeAbbr(query)
	if abbr == "" {
		return schema.Abbreviation{Description: schema.DescriptionUnavailable}
	}

	if e, ok := r.cached(ctx, abbr); ok {
		return e
	}

	e, err := r.inflight.Get(abbr)
	if err != nil {
		r.logger.Error("Resolve failed", "abbr", abbr, "error", err)
		return r.synthesize(abbr)
	}
	return e
}

func (r *Resolver) cached(ctx context.Context, abbr string) (schema.Abbreviation, bool) {
	e, ok, err := r.store.Get(ctx, abbr)
	if err != nil {
		r.logger.Warn("Cache read failed", "abbr", abbr, "error", err)
		return schema.Abbreviation{}, false
	}
	return e, ok
}

// resolveMiss runs detached from the request that triggered it, so callers
// coalesced onto it are not cut short by the first caller going away.
func (r *Resolver) resolveMiss(abbr string) (schema.Abbreviation, error) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	if e, ok := r.cached(ctx, abbr); ok {
		return e, nil
	}

	e, ok := r.fromLookup(ctx, abbr)
	if !ok {
		e = r.synthesize(abbr)
	}

	stored, err := r.store.Put(ctx, e)
	switch {
	case err != nil:
		r.logger.Warn("Cache write failed", "abbr", abbr, "error", err)
	case !stored:
		// Another writer got there first; its entry is the canonical one.
		if existing, ok := r.cached(ctx, abbr); ok {
			return existing, nil
		}
	default:
		r.logger.Info("Cached abbreviation", "abbr", abbr, "full_form", e.FullForm)
	}
	return e, nil
}

func (r *Resolver) fromLookup(ctx context.Context, abbr string) (schema.Abbreviation, bool) {
	if r.lookup == nil {
		return schema.Abbreviation{}, false
	}
	s, err := r.lookup.Summary(ctx, abbr)
	if err != nil {
		r.logger.Warn("Lookup failed, synthesizing", "abbr", abbr, "error", err)
		return schema.Abbreviation{}, false
	}
	if !s.Confident() {
		r.logger.Debug("No confident lookup result", "abbr", abbr)
		return schema.Abbreviation{}, false
	}
	return schema.Abbreviation{
		Abbr:        abbr,
		FullForm:    strings.TrimSpace(s.Title),
		Description: wiki.FirstSentence(s.Extract),
	}, true
}

// synthesize builds a full form from one noun or adjective per letter,
// keeping the bare letter where the wordbank has nothing.
func (r *Resolver) synthesize(abbr string) schema.Abbreviation {
	var wb *wordbank.Wordbank
	if r.words != nil {
		wb = r.words.Wordbank()
	}

	parts := make([]string, 0, len(abbr))
	for _, l := range abbr {
		letter := string(l)
		candidates := slices.Concat(wb.Words(wordbank.Noun, letter), wb.Words(wordbank.Adjective, letter))
		if len(candidates) == 0 {
			parts = append(parts, letter)
			continue
		}
		parts = append(parts, capitalize(candidates[r.intN(len(candidates))]))
	}
	return schema.Abbreviation{
		Abbr:        abbr,
		FullForm:    strings.Join(parts, " "),
		Description: schema.DescriptionUnavailable,
	}
}

func (r *Resolver) intN(n int) int {
	if r.rng == nil {
		return rand.IntN(n)
	}
	return r.rng.IntN(n)
}

func capitalize(s string) string {
	c, size := utf8.DecodeRuneInString(s)
	if c == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(c)) + s[size:]
}
