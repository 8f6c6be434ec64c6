// Package selector picks catalog entities by starting letter in rotation, so
// repeated requests for the same letter walk through every match before
// repeating.
package selector

import (
	"errors"
	"fmt"
	"sync"
	"unicode"
	"unicode/utf8"

	"mnemo/pkg/entities"
)

var ErrNoCandidates = errors.New("no candidates")

// Catalog supplies the entities of a category. A missing catalog is empty.
type Catalog interface {
	Entities(category string) []entities.Entity
}

type rotationKey struct {
	category string
	letter   rune
}

// RotationState is the process-wide cursor per (category, letter). Cursors
// start at zero on first use and only ever advance.
type RotationState struct {
	mu      sync.Mutex
	cursors map[rotationKey]int
}

func NewRotationState() *RotationState {
	return &RotationState{cursors: make(map[rotationKey]int)}
}

// Advance returns the cursor for the key and increments it in one step.
func (r *RotationState) Advance(category string, letter rune) int {
	k := rotationKey{category: category, letter: unicode.ToUpper(letter)}
	r.mu.Lock()
	defer r.mu.Unlock()
	cur := r.cursors[k]
	r.cursors[k] = cur + 1
	return cur
}

// Cursor reports the current cursor without advancing it.
func (r *RotationState) Cursor(category string, letter rune) int {
	k := rotationKey{category: category, letter: unicode.ToUpper(letter)}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cursors[k]
}

type Selector struct {
	catalog Catalog
	state   *RotationState
}

func New(catalog Catalog, state *RotationState) *Selector {
	if state == nil {
		state = NewRotationState()
	}
	return &Selector{catalog: catalog, state: state}
}

// Select returns the next entity of category whose match field starts with
// letter. The rotation cursor only advances when a candidate exists.
func (s *Selector) Select(category, letter string) (entities.Entity, error) {
	r, _ := utf8.DecodeRuneInString(letter)
	if r == utf8.RuneError {
		return entities.Entity{}, fmt.Errorf("select %s %q: %w", category, letter, ErrNoCandidates)
	}

	var filtered []entities.Entity
	for _, e := range s.catalog.Entities(category) {
		if e.StartsWith(category, r) {
			filtered = append(filtered, e)
		}
	}
	if len(filtered) == 0 {
		return entities.Entity{}, fmt.Errorf("select %s %q: %w", category, letter, ErrNoCandidates)
	}

	idx := s.state.Advance(category, r) % len(filtered)
	return filtered[idx], nil
}
