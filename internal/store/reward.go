package store

import "github.com/vinnybad/choremander/internal/model"

// Rewards returns a copy of the rewards collection in insertion order.
func (s *Store) Rewards() []model.Reward {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Reward(nil), s.rewards...)
}

// Reward looks up a reward by ID.
func (s *Store) Reward(id string) (model.Reward, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.rewards {
		if r.ID == id {
			return r, true
		}
	}
	return model.Reward{}, false
}

// AddReward appends a reward to the collection.
func (s *Store) AddReward(reward model.Reward) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rewards = append(s.rewards, reward)
}

// UpdateReward replaces the stored reward with the same ID, or appends it if
// absent.
func (s *Store) UpdateReward(reward model.Reward) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.rewards {
		if s.rewards[i].ID == reward.ID {
			s.rewards[i] = reward
			return
		}
	}
	s.rewards = append(s.rewards, reward)
}

// RemoveReward deletes a reward by ID.
func (s *Store) RemoveReward(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.rewards[:0]
	for _, r := range s.rewards {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	s.rewards = kept
}
