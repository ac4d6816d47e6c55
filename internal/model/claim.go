package model

import (
	"encoding/json"
	"time"
)

// RewardClaim records one child redeeming one reward. The effective cost is
// deducted when the claim is created, not when it is approved.
type RewardClaim struct {
	RewardID   string   `json:"reward_id"`
	ChildID    string   `json:"child_id"`
	ClaimedAt  UTCTime  `json:"claimed_at"`
	Approved   bool     `json:"approved"`
	ApprovedAt *UTCTime `json:"approved_at"`
	ID         string   `json:"id"`
}

// NewRewardClaim creates an unapproved claim record.
func NewRewardClaim(rewardID, childID string, at time.Time) RewardClaim {
	return RewardClaim{
		RewardID:  rewardID,
		ChildID:   childID,
		ClaimedAt: NewUTCTime(at),
		ID:        NewID(),
	}
}

// ClaimFromJSON decodes a persisted claim record. A missing claim timestamp
// falls back to the current time.
func ClaimFromJSON(data []byte) RewardClaim {
	var c RewardClaim
	if err := json.Unmarshal(data, &c); err != nil {
		c = RewardClaim{}
	}
	if c.ClaimedAt.IsZero() {
		c.ClaimedAt = NewUTCTime(time.Now())
	}
	if c.ID == "" {
		c.ID = NewID()
	}
	return c
}
