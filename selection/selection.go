package selection

import (
	"cmp"
	"slices"
	"sync"
)

// Set tracks the asset ids chosen for the next bulk operation. Membership tests
// are O(1); SelectedIDs returns ids in the order they were selected.
type Set struct {
	mu  sync.RWMutex
	seq uint64
	ids map[string]uint64
}

func NewSet() *Set {
	return &Set{
		ids: make(map[string]uint64),
	}
}

func (s *Set) IsSelected(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, selected := s.ids[id]
	return selected
}

func (s *Set) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.ids)
}

// SelectedIDs returns a stable snapshot in selection order.
func (s *Set) SelectedIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, func(a, b string) int {
		return cmp.Compare(s.ids[a], s.ids[b])
	})

	return ids
}

// Toggle flips membership of id and returns whether it is now selected.
func (s *Set) Toggle(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, selected := s.ids[id]; selected {
		delete(s.ids, id)
		return false
	}

	s.add(id)
	return true
}

// Select adds ids that are not yet selected.
func (s *Set) Select(ids ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range ids {
		if _, selected := s.ids[id]; !selected {
			s.add(id)
		}
	}
}

// SelectAllIn deselects the whole group if every id in it is selected, otherwise it
// selects the union of the current selection and the group. Returns whether the
// group ended up selected.
func (s *Set) SelectAllIn(group []string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(group) == 0 {
		return false
	}

	if s.containsAll(group) {
		for _, id := range group {
			delete(s.ids, id)
		}
		return false
	}

	for _, id := range group {
		if _, ok := s.ids[id]; !ok {
			s.add(id)
		}
	}

	return true
}

// Remove deselects ids; unknown ids are ignored.
func (s *Set) Remove(ids ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range ids {
		delete(s.ids, id)
	}
}

// Prune drops every id for which exists reports false.
func (s *Set) Prune(exists func(id string) bool) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	pruned := 0
	for id := range s.ids {
		if !exists(id) {
			delete(s.ids, id)
			pruned++
		}
	}

	return pruned
}

func (s *Set) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	clear(s.ids)
}

func (s *Set) containsAll(group []string) bool {
	for _, id := range group {
		if _, ok := s.ids[id]; !ok {
			return false
		}
	}

	return true
}

func (s *Set) add(id string) {
	s.seq++
	s.ids[id] = s.seq
}
