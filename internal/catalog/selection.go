// Package catalog holds the fetched workflow catalog and the single current
// selection made from it.
package catalog

import (
	"sync"

	"github.com/JohnEvansOkyere/vexaai-automation-website/internal/models"
)

// Selection is the in-memory catalog plus at most one selected item. The
// selection is stored by id and resolved against the catalog on every read,
// so a reload can never leave it pointing at an item that is gone.
type Selection struct {
	mu       sync.RWMutex
	items    []models.CatalogItem
	selected *int64
}

func NewSelection() *Selection {
	return &Selection{}
}

// Load replaces the whole catalog. A selection whose id is not in the new
// catalog is dropped.
func (s *Selection) Load(items []models.CatalogItem) {
	next := make([]models.CatalogItem, len(items))
	copy(next, items)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = next
	if s.selected != nil {
		if _, ok := find(next, *s.selected); !ok {
			s.selected = nil
		}
	}
}

// Items returns a copy of the loaded catalog.
func (s *Selection) Items() []models.CatalogItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.CatalogItem, len(s.items))
	copy(out, s.items)
	return out
}

// Filter returns a case-insensitive name predicate. An empty query matches
// everything.
func Filter(query string) func(models.CatalogItem) bool {
	return func(item models.CatalogItem) bool {
		return item.Matches(query)
	}
}

// Visible is the catalog narrowed by query. The stored catalog is untouched.
func (s *Selection) Visible(query string) []models.CatalogItem {
	match := Filter(query)

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.CatalogItem, 0, len(s.items))
	for _, item := range s.items {
		if match(item) {
			out = append(out, item)
		}
	}
	return out
}

// Select makes the item with id the current selection. An id that is not in
// the catalog leaves the selection as it was.
func (s *Selection) Select(id int64) (models.CatalogItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := find(s.items, id)
	if !ok {
		return models.CatalogItem{}, false
	}
	s.selected = &item.ID
	return item, true
}

func (s *Selection) Current() (models.CatalogItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.selected == nil {
		return models.CatalogItem{}, false
	}
	return find(s.items, *s.selected)
}

func (s *Selection) Clear() {
	s.mu.Lock()
	s.selected = nil
	s.mu.Unlock()
}

func (s *Selection) Lookup(id int64) (models.CatalogItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return find(s.items, id)
}

func find(items []models.CatalogItem, id int64) (models.CatalogItem, bool) {
	for _, item := range items {
		if item.ID == id {
			return item, true
		}
	}
	return models.CatalogItem{}, false
}
