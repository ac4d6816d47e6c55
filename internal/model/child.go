package model

import "encoding/json"

// DefaultAvatar is used when a child has no avatar set.
const DefaultAvatar = "mdi:account-circle"

// Child is a participant earning and spending points.
type Child struct {
	Name                 string   `json:"name"`
	Avatar               string   `json:"avatar"`
	Points               int      `json:"points"`
	TotalPointsEarned    int      `json:"total_points_earned"`
	TotalChoresCompleted int      `json:"total_chores_completed"`
	CurrentStreak        int      `json:"current_streak"`
	BestStreak           int      `json:"best_streak"`
	PendingRewards       []string `json:"pending_rewards"`
	ChoreOrder           []string `json:"chore_order"`
	ID                   string   `json:"id"`
}

// NewChild creates a child with a fresh ID and defaults.
func NewChild(name, avatar string) Child {
	if avatar == "" {
		avatar = DefaultAvatar
	}
	return Child{
		Name:           name,
		Avatar:         avatar,
		PendingRewards: []string{},
		ChoreOrder:     []string{},
		ID:             NewID(),
	}
}

// ChildFromJSON decodes a persisted child record. Absent fields keep their
// defaults; a malformed record decodes to a defaulted child.
func ChildFromJSON(data []byte) Child {
	c := Child{Avatar: DefaultAvatar}
	if err := json.Unmarshal(data, &c); err != nil {
		c = Child{Avatar: DefaultAvatar}
	}
	if c.PendingRewards == nil {
		c.PendingRewards = []string{}
	}
	if c.ChoreOrder == nil {
		c.ChoreOrder = []string{}
	}
	if c.ID == "" {
		c.ID = NewID()
	}
	return c
}
