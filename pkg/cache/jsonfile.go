package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"sync"

	"mnemo/pkg/schema"
	"mnemo/pkg/utils"
)

// JSONStore keeps the whole cache in memory and rewrites the file on every
// insert.
type JSONStore struct {
	path string

	mu      sync.RWMutex
	entries []schema.Abbreviation
	index   map[string]int
}

// OpenJSON loads path. An empty path keeps the cache in memory only and a
// missing file starts empty. Both the list form and the older
// abbr -> entry object form are read.
func OpenJSON(path string) (*JSONStore, error) {
	s := &JSONStore{path: path, index: make(map[string]int)}
	if path == "" {
		return s, nil
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("read cache %s: %w", path, err)
	}

	var list []schema.Abbreviation
	if err := json.Unmarshal(data, &list); err != nil {
		var byKey map[string]schema.Abbreviation
		if err2 := json.Unmarshal(data, &byKey); err2 != nil {
			return nil, fmt.Errorf("decode cache %s: %w", path, err)
		}
		keys := make([]string, 0, len(byKey))
		for k := range byKey {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			e := byKey[k]
			if e.Abbr == "" {
				e.Abbr = k
			}
			list = append(list, e)
		}
	}

	for _, e := range list {
		k := e.Key()
		if k == "" {
			continue
		}
		if _, dup := s.index[k]; dup {
			continue
		}
		s.index[k] = len(s.entries)
		s.entries = append(s.entries, e)
	}
	return s, nil
}

func (s *JSONStore) Get(_ context.Context, k string) (schema.Abbreviation, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.index[key(k)]
	if !ok {
		return schema.Abbreviation{}, false, nil
	}
	return s.entries[i], true, nil
}

func (s *JSONStore) Put(_ context.Context, e schema.Abbreviation) (bool, error) {
	k := e.Key()
	if k == "" {
		return false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.index[k]; ok {
		return false, nil
	}

	entries := append(slices.Clip(s.entries), e)
	if s.path != "" {
		if err := utils.Save(s.path, entries); err != nil {
			return false, fmt.Errorf("write cache %s: %w", s.path, err)
		}
	}
	s.entries = entries
	s.index[k] = len(entries) - 1
	return true, nil
}

func (s *JSONStore) All(context.Context) ([]schema.Abbreviation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.entries), nil
}

func (s *JSONStore) Close() error { return nil }
