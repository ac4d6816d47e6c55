package store

import "github.com/vinnybad/choremander/internal/model"

// Completions returns a copy of all chore completions.
func (s *Store) Completions() []model.ChoreCompletion {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.ChoreCompletion(nil), s.completions...)
}

// PendingCompletions returns completions awaiting approval.
func (s *Store) PendingCompletions() []model.ChoreCompletion {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var pending []model.ChoreCompletion
	for _, c := range s.completions {
		if !c.Approved {
			pending = append(pending, c)
		}
	}
	return pending
}

// Completion looks up a completion by ID.
func (s *Store) Completion(id string) (model.ChoreCompletion, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.completions {
		if c.ID == id {
			return c, true
		}
	}
	return model.ChoreCompletion{}, false
}

// AddCompletion appends a completion record.
func (s *Store) AddCompletion(completion model.ChoreCompletion) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.completions = append(s.completions, completion)
}

// UpdateCompletion replaces the stored completion with the same ID. Unlike
// the other collections, a missing completion is not inserted.
func (s *Store) UpdateCompletion(completion model.ChoreCompletion) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.completions {
		if s.completions[i].ID == completion.ID {
			s.completions[i] = completion
			return
		}
	}
}

// RemoveCompletion deletes a completion record by ID.
func (s *Store) RemoveCompletion(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.completions[:0]
	for _, c := range s.completions {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	s.completions = kept
}
