package model

import "encoding/json"

// Reward defaults applied when a field is absent from a persisted record.
const (
	DefaultRewardCost = 50
	DefaultRewardIcon = "mdi:gift"
	DefaultDaysToGoal = 30
)

// Reward is a redeemable good priced in points, statically or dynamically.
type Reward struct {
	Name        string `json:"name"`
	Cost        int    `json:"cost"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	// AssignedTo holds child IDs; empty means every child is eligible.
	AssignedTo []string `json:"assigned_to"`
	// IsJackpot pools every eligible child's expected output into one
	// shared price.
	IsJackpot bool `json:"is_jackpot"`
	// OverridePointValue disables dynamic pricing and charges Cost as-is.
	OverridePointValue bool `json:"override_point_value"`
	// DaysToGoal is the earning horizon used by dynamic pricing.
	DaysToGoal int    `json:"days_to_goal"`
	ID         string `json:"id"`
}

// NewReward creates a reward with a fresh ID and defaults. Pricing is
// dynamic unless OverridePointValue is set afterwards.
func NewReward(name string) Reward {
	return Reward{
		Name:       name,
		Cost:       DefaultRewardCost,
		Icon:       DefaultRewardIcon,
		AssignedTo: []string{},
		DaysToGoal: DefaultDaysToGoal,
		ID:         NewID(),
	}
}

// RewardFromJSON decodes a persisted reward record with defaults for absent
// fields. Records written before the override_point_value field existed carry
// an is_dynamic boolean instead; its negation is the override flag.
func RewardFromJSON(data []byte) Reward {
	aux := struct {
		Reward
		OverridePointValue *bool `json:"override_point_value"`
		IsDynamic          bool  `json:"is_dynamic"`
	}{Reward: rewardDefaults()}
	if err := json.Unmarshal(data, &aux); err != nil {
		aux.Reward = rewardDefaults()
		aux.OverridePointValue = nil
		aux.IsDynamic = false
	}
	r := aux.Reward
	if aux.OverridePointValue != nil {
		r.OverridePointValue = *aux.OverridePointValue
	} else {
		r.OverridePointValue = !aux.IsDynamic
	}
	if r.AssignedTo == nil {
		r.AssignedTo = []string{}
	}
	if r.ID == "" {
		r.ID = NewID()
	}
	return r
}

func rewardDefaults() Reward {
	return Reward{
		Cost:       DefaultRewardCost,
		Icon:       DefaultRewardIcon,
		DaysToGoal: DefaultDaysToGoal,
	}
}

// AssignedToChild reports whether the reward is claimable by the given child.
func (r Reward) AssignedToChild(childID string) bool {
	if len(r.AssignedTo) == 0 {
		return true
	}
	for _, id := range r.AssignedTo {
		if id == childID {
			return true
		}
	}
	return false
}
