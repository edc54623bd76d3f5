// Package memory provides an in-memory content store.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/louisbranch/sheetkeeper/internal/services/sheet/domain/rules"
	"github.com/louisbranch/sheetkeeper/internal/services/sheet/storage"
)

// Store keeps nationality and class records in maps. It is safe for
// concurrent use.
type Store struct {
	mu            sync.RWMutex
	nationalities map[string]rules.Nationality
	classes       map[string]rules.Class
}

var _ storage.ContentStore = (*Store)(nil)

// New returns an empty store.
func New() *Store {
	return &Store{
		nationalities: map[string]rules.Nationality{},
		classes:       map[string]rules.Class{},
	}
}

// LookupNationality returns the nationality with id or storage.ErrNotFound.
func (s *Store) LookupNationality(ctx context.Context, id string) (rules.Nationality, error) {
	if err := ctx.Err(); err != nil {
		return rules.Nationality{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.nationalities[id]
	if !ok {
		return rules.Nationality{}, storage.ErrNotFound
	}
	return cloneNationality(record), nil
}

// LookupClass returns the class with id or storage.ErrNotFound.
func (s *Store) LookupClass(ctx context.Context, id string) (rules.Class, error) {
	if err := ctx.Err(); err != nil {
		return rules.Class{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.classes[id]
	if !ok {
		return rules.Class{}, storage.ErrNotFound
	}
	return cloneClass(record), nil
}

// PutNationality inserts or replaces a nationality.
func (s *Store) PutNationality(ctx context.Context, nationality rules.Nationality) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	id := strings.TrimSpace(nationality.ID)
	if id == "" {
		return fmt.Errorf("nationality id is required")
	}
	nationality.ID = id
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nationalities[id] = cloneNationality(nationality)
	return nil
}

// PutClass inserts or replaces a class.
func (s *Store) PutClass(ctx context.Context, class rules.Class) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	id := strings.TrimSpace(class.ID)
	if id == "" {
		return fmt.Errorf("class id is required")
	}
	class.ID = id
	s.mu.Lock()
	defer s.mu.Unlock()
	s.classes[id] = cloneClass(class)
	return nil
}

// PutCatalog stores every nationality and class, or none of them when any
// record lacks an id.
func (s *Store) PutCatalog(ctx context.Context, nationalities []rules.Nationality, classes []rules.Class) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	ns := make([]rules.Nationality, 0, len(nationalities))
	for _, n := range nationalities {
		n.ID = strings.TrimSpace(n.ID)
		if n.ID == "" {
			return fmt.Errorf("nationality id is required")
		}
		ns = append(ns, cloneNationality(n))
	}
	cs := make([]rules.Class, 0, len(classes))
	for _, c := range classes {
		c.ID = strings.TrimSpace(c.ID)
		if c.ID == "" {
			return fmt.Errorf("class id is required")
		}
		cs = append(cs, cloneClass(c))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range ns {
		s.nationalities[n.ID] = n
	}
	for _, c := range cs {
		s.classes[c.ID] = c
	}
	return nil
}

// ListNationalities returns every nationality sorted by id.
func (s *Store) ListNationalities(ctx context.Context) ([]rules.Nationality, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]rules.Nationality, 0, len(s.nationalities))
	for _, record := range s.nationalities {
		out = append(out, cloneNationality(record))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ListClasses returns every class sorted by id.
func (s *Store) ListClasses(ctx context.Context) ([]rules.Class, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]rules.Class, 0, len(s.classes))
	for _, record := range s.classes {
		out = append(out, cloneClass(record))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Records never share modifier slices with callers.
func cloneNationality(n rules.Nationality) rules.Nationality {
	n.CharacteristicModifiers = slices.Clone(n.CharacteristicModifiers)
	n.SkillBonuses = slices.Clone(n.SkillBonuses)
	return n
}

func cloneClass(c rules.Class) rules.Class {
	c.CharacteristicModifiers = slices.Clone(c.CharacteristicModifiers)
	c.SkillBonuses = slices.Clone(c.SkillBonuses)
	return c
}
