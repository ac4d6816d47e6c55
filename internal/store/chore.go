package store

import "github.com/vinnybad/choremander/internal/model"

// Chores returns a copy of the chores collection in insertion order.
func (s *Store) Chores() []model.Chore {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Chore(nil), s.chores...)
}

// Chore looks up a chore by ID.
func (s *Store) Chore(id string) (model.Chore, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.chores {
		if c.ID == id {
			return c, true
		}
	}
	return model.Chore{}, false
}

// AddChore appends a chore to the collection.
func (s *Store) AddChore(chore model.Chore) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chores = append(s.chores, chore)
}

// UpdateChore replaces the stored chore with the same ID, or appends it if
// absent.
func (s *Store) UpdateChore(chore model.Chore) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.chores {
		if s.chores[i].ID == chore.ID {
			s.chores[i] = chore
			return
		}
	}
	s.chores = append(s.chores, chore)
}

// RemoveChore deletes a chore by ID.
func (s *Store) RemoveChore(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.chores[:0]
	for _, c := range s.chores {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	s.chores = kept
}
