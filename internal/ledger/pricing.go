package ledger

import (
	"math"

	"github.com/vinnybad/choremander/internal/model"
)

// EffectiveCosts computes the price each eligible child pays for a reward.
//
// Rewards price dynamically by default: a child's cost is their expected
// daily point income times the reward's earning horizon, so goals stay
// proportionate across children with different chore loads. Jackpot rewards
// pool every eligible child's expected income into one shared price. When
// OverridePointValue is set the manual cost applies to everyone.
//
// The returned map is keyed by child ID; callers fall back to reward.Cost
// for children absent from it.
func EffectiveCosts(reward model.Reward, children []model.Child, chores []model.Chore) map[string]int {
	result := make(map[string]int)

	eligible := eligibleChildren(reward, children)
	if len(eligible) == 0 {
		return result
	}

	if reward.OverridePointValue {
		for _, child := range eligible {
			result[child.ID] = reward.Cost
		}
		return result
	}

	daysToGoal := reward.DaysToGoal
	if daysToGoal <= 0 {
		daysToGoal = model.DefaultDaysToGoal
	}

	if len(chores) == 0 {
		// Nothing to price against; fall back to the manual cost.
		for _, child := range eligible {
			result[child.ID] = reward.Cost
		}
		return result
	}

	daily := make(map[string]float64, len(eligible))
	for _, child := range eligible {
		daily[child.ID] = dailyPoints(child.ID, chores)
	}

	if reward.IsJackpot {
		var total float64
		for _, pts := range daily {
			total += pts
		}
		cost := priceOf(total, daysToGoal)
		for _, child := range eligible {
			result[child.ID] = cost
		}
		return result
	}

	for _, child := range eligible {
		if pts := daily[child.ID]; pts > 0 {
			result[child.ID] = priceOf(pts, daysToGoal)
		} else {
			// A child with no expected income would otherwise get a
			// zero-expectation price; charge the manual cost instead.
			result[child.ID] = reward.Cost
		}
	}
	return result
}

// EffectiveCost resolves the price a specific child pays for a reward,
// falling back to the manual cost when the child is not eligible.
func EffectiveCost(reward model.Reward, childID string, children []model.Child, chores []model.Chore) int {
	costs := EffectiveCosts(reward, children, chores)
	if cost, ok := costs[childID]; ok {
		return cost
	}
	return reward.Cost
}

// ChildDailyPoints returns each eligible child's expected daily point income
// for a reward, used to show weighted contributions toward jackpot goals.
func ChildDailyPoints(reward model.Reward, children []model.Child, chores []model.Chore) map[string]float64 {
	result := make(map[string]float64)

	eligible := eligibleChildren(reward, children)
	if len(eligible) == 0 || len(chores) == 0 {
		return result
	}
	for _, child := range eligible {
		result[child.ID] = dailyPoints(child.ID, chores)
	}
	return result
}

func eligibleChildren(reward model.Reward, children []model.Child) []model.Child {
	if len(reward.AssignedTo) == 0 {
		return children
	}
	var eligible []model.Child
	for _, child := range children {
		if reward.AssignedToChild(child.ID) {
			eligible = append(eligible, child)
		}
	}
	return eligible
}

// dailyPoints sums a child's expected daily income over every chore they are
// eligible for: points * (completion percentage / 100) per chore.
func dailyPoints(childID string, chores []model.Chore) float64 {
	var total float64
	for _, chore := range chores {
		if !chore.AssignedToChild(childID) {
			continue
		}
		total += float64(chore.Points) * (float64(chore.CompletionPercentagePerMonth) / 100)
	}
	return total
}

func priceOf(daily float64, daysToGoal int) int {
	cost := int(math.Round(daily * float64(daysToGoal)))
	if cost < 1 {
		return 1
	}
	return cost
}
