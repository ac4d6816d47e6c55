package store

import "github.com/vinnybad/choremander/internal/model"

// RewardClaims returns a copy of all reward claims.
func (s *Store) RewardClaims() []model.RewardClaim {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.RewardClaim(nil), s.rewardClaims...)
}

// PendingRewardClaims returns claims awaiting approval.
func (s *Store) PendingRewardClaims() []model.RewardClaim {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var pending []model.RewardClaim
	for _, c := range s.rewardClaims {
		if !c.Approved {
			pending = append(pending, c)
		}
	}
	return pending
}

// RewardClaim looks up a claim by ID.
func (s *Store) RewardClaim(id string) (model.RewardClaim, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.rewardClaims {
		if c.ID == id {
			return c, true
		}
	}
	return model.RewardClaim{}, false
}

// AddRewardClaim appends a claim record.
func (s *Store) AddRewardClaim(claim model.RewardClaim) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rewardClaims = append(s.rewardClaims, claim)
}

// UpdateRewardClaim replaces the stored claim with the same ID. A missing
// claim is not inserted.
func (s *Store) UpdateRewardClaim(claim model.RewardClaim) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.rewardClaims {
		if s.rewardClaims[i].ID == claim.ID {
			s.rewardClaims[i] = claim
			return
		}
	}
}

// RemoveRewardClaim deletes a claim record by ID.
func (s *Store) RemoveRewardClaim(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.rewardClaims[:0]
	for _, c := range s.rewardClaims {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	s.rewardClaims = kept
}
