package model

import "encoding/json"

// Chore defaults applied when a field is absent from a persisted record.
const (
	DefaultChorePoints          = 10
	DefaultTimeCategory         = "anytime"
	DefaultDailyLimit           = 1
	DefaultCompletionSound      = "coin"
	DefaultCompletionPercentage = 100
)

// Chore is a task definition that can be completed for points.
type Chore struct {
	Name        string   `json:"name"`
	Points      int      `json:"points"`
	Description string   `json:"description"`
	DueDays     []string `json:"due_days"`
	// AssignedTo holds child IDs; empty means every child is eligible.
	AssignedTo       []string `json:"assigned_to"`
	RequiresApproval bool     `json:"requires_approval"`
	TimeCategory     string   `json:"time_category"`
	DailyLimit       int      `json:"daily_limit"`
	CompletionSound  string   `json:"completion_sound"`
	// CompletionPercentagePerMonth is the expected completion rate used by
	// dynamic reward pricing: 100 = every day, 50 = every other day.
	CompletionPercentagePerMonth int    `json:"completion_percentage_per_month"`
	ID                           string `json:"id"`
}

// NewChore creates a chore with a fresh ID and defaults.
func NewChore(name string) Chore {
	return Chore{
		Name:                         name,
		Points:                       DefaultChorePoints,
		DueDays:                      []string{},
		AssignedTo:                   []string{},
		RequiresApproval:             true,
		TimeCategory:                 DefaultTimeCategory,
		DailyLimit:                   DefaultDailyLimit,
		CompletionSound:              DefaultCompletionSound,
		CompletionPercentagePerMonth: DefaultCompletionPercentage,
		ID:                           NewID(),
	}
}

// ChoreFromJSON decodes a persisted chore record with defaults for absent
// fields.
func ChoreFromJSON(data []byte) Chore {
	c := choreDefaults()
	if err := json.Unmarshal(data, &c); err != nil {
		c = choreDefaults()
	}
	if c.DueDays == nil {
		c.DueDays = []string{}
	}
	if c.AssignedTo == nil {
		c.AssignedTo = []string{}
	}
	if c.ID == "" {
		c.ID = NewID()
	}
	return c
}

func choreDefaults() Chore {
	return Chore{
		Points:                       DefaultChorePoints,
		RequiresApproval:             true,
		TimeCategory:                 DefaultTimeCategory,
		DailyLimit:                   DefaultDailyLimit,
		CompletionSound:              DefaultCompletionSound,
		CompletionPercentagePerMonth: DefaultCompletionPercentage,
	}
}

// AssignedToChild reports whether the chore counts for the given child.
// An empty assignment set means all children are eligible.
func (c Chore) AssignedToChild(childID string) bool {
	if len(c.AssignedTo) == 0 {
		return true
	}
	for _, id := range c.AssignedTo {
		if id == childID {
			return true
		}
	}
	return false
}
