package store

import "github.com/vinnybad/choremander/internal/model"

// Children returns a copy of the children collection in insertion order.
func (s *Store) Children() []model.Child {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Child(nil), s.children...)
}

// Child looks up a child by ID.
func (s *Store) Child(id string) (model.Child, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.children {
		if c.ID == id {
			return c, true
		}
	}
	return model.Child{}, false
}

// AddChild appends a child to the collection.
func (s *Store) AddChild(child model.Child) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.children = append(s.children, child)
}

// UpdateChild replaces the stored child with the same ID, or appends it if
// absent.
func (s *Store) UpdateChild(child model.Child) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.children {
		if s.children[i].ID == child.ID {
			s.children[i] = child
			return
		}
	}
	s.children = append(s.children, child)
}

// RemoveChild deletes a child by ID.
func (s *Store) RemoveChild(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.children[:0]
	for _, c := range s.children {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	s.children = kept
}
