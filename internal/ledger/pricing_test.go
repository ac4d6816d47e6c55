package ledger

import (
	"testing"

	"github.com/vinnybad/choremander/internal/model"
)

func child(id string) model.Child {
	return model.Child{Name: id, ID: id}
}

func TestEffectiveCostsOverrideUsesManualCost(t *testing.T) {
	reward := model.Reward{ID: "r", Cost: 75, OverridePointValue: true, DaysToGoal: 10}
	children := []model.Child{child("a"), child("b")}
	chores := []model.Chore{{ID: "c", Points: 10, CompletionPercentagePerMonth: 100}}

	costs := EffectiveCosts(reward, children, chores)
	for _, id := range []string{"a", "b"} {
		if costs[id] != 75 {
			t.Errorf("cost[%s] = %d, want manual 75", id, costs[id])
		}
	}
}

func TestEffectiveCostsNoEligibleChildren(t *testing.T) {
	reward := model.Reward{ID: "r", Cost: 50, AssignedTo: []string{"nobody"}}
	costs := EffectiveCosts(reward, []model.Child{child("a")}, nil)
	if len(costs) != 0 {
		t.Errorf("costs = %v, want empty", costs)
	}
}

func TestEffectiveCostsNoChoresFallsBack(t *testing.T) {
	reward := model.Reward{ID: "r", Cost: 40, DaysToGoal: 10}
	costs := EffectiveCosts(reward, []model.Child{child("a")}, nil)
	if costs["a"] != 40 {
		t.Errorf("cost = %d, want fallback 40", costs["a"])
	}
}

func TestEffectiveCostsPerChild(t *testing.T) {
	// points=10 at 50% expected completion -> 5.0/day; 10-day horizon -> 50.
	reward := model.Reward{ID: "r", Cost: 99, DaysToGoal: 10}
	children := []model.Child{child("a")}
	chores := []model.Chore{{ID: "c", Points: 10, CompletionPercentagePerMonth: 50}}

	costs := EffectiveCosts(reward, children, chores)
	if costs["a"] != 50 {
		t.Errorf("cost = %d, want 50", costs["a"])
	}
}

func TestEffectiveCostsRespectsChoreAssignment(t *testing.T) {
	reward := model.Reward{ID: "r", Cost: 99, DaysToGoal: 10}
	children := []model.Child{child("a"), child("b")}
	chores := []model.Chore{
		{ID: "c1", Points: 10, CompletionPercentagePerMonth: 50, AssignedTo: []string{"a"}},
		{ID: "c2", Points: 6, CompletionPercentagePerMonth: 50}, // everyone
	}

	costs := EffectiveCosts(reward, children, chores)
	if costs["a"] != 80 { // (5.0 + 3.0) * 10
		t.Errorf("cost[a] = %d, want 80", costs["a"])
	}
	if costs["b"] != 30 { // 3.0 * 10
		t.Errorf("cost[b] = %d, want 30", costs["b"])
	}
}

func TestEffectiveCostsJackpotSharedPrice(t *testing.T) {
	// Daily points 5.0 and 3.0 pooled over a 10-day horizon -> 80 for both.
	reward := model.Reward{ID: "r", Cost: 99, IsJackpot: true, DaysToGoal: 10}
	children := []model.Child{child("a"), child("b")}
	chores := []model.Chore{
		{ID: "c1", Points: 10, CompletionPercentagePerMonth: 50, AssignedTo: []string{"a"}},
		{ID: "c2", Points: 6, CompletionPercentagePerMonth: 50, AssignedTo: []string{"b"}},
	}

	costs := EffectiveCosts(reward, children, chores)
	if costs["a"] != 80 || costs["b"] != 80 {
		t.Errorf("costs = %v, want identical 80", costs)
	}
}

func TestEffectiveCostsZeroDailyPointsFallsBack(t *testing.T) {
	reward := model.Reward{ID: "r", Cost: 25, DaysToGoal: 10}
	children := []model.Child{child("a"), child("b")}
	chores := []model.Chore{
		{ID: "c1", Points: 10, CompletionPercentagePerMonth: 50, AssignedTo: []string{"a"}},
	}

	costs := EffectiveCosts(reward, children, chores)
	if costs["a"] != 50 {
		t.Errorf("cost[a] = %d, want 50", costs["a"])
	}
	if costs["b"] != 25 {
		t.Errorf("cost[b] = %d, want manual fallback 25", costs["b"])
	}
}

func TestEffectiveCostsFloorAtOne(t *testing.T) {
	reward := model.Reward{ID: "r", Cost: 50, DaysToGoal: 1}
	children := []model.Child{child("a")}
	chores := []model.Chore{{ID: "c", Points: 1, CompletionPercentagePerMonth: 10}} // 0.1/day

	costs := EffectiveCosts(reward, children, chores)
	if costs["a"] != 1 {
		t.Errorf("cost = %d, want floor of 1", costs["a"])
	}
}

func TestEffectiveCostsDefaultsDaysToGoal(t *testing.T) {
	reward := model.Reward{ID: "r", Cost: 99, DaysToGoal: 0}
	children := []model.Child{child("a")}
	chores := []model.Chore{{ID: "c", Points: 10, CompletionPercentagePerMonth: 100}}

	costs := EffectiveCosts(reward, children, chores)
	if costs["a"] != 300 { // 10.0/day * default 30
		t.Errorf("cost = %d, want 300 with defaulted horizon", costs["a"])
	}
}

func TestEffectiveCostAbsentChildFallsBack(t *testing.T) {
	reward := model.Reward{ID: "r", Cost: 45, AssignedTo: []string{"a"}}
	cost := EffectiveCost(reward, "stranger", []model.Child{child("a")}, nil)
	if cost != 45 {
		t.Errorf("cost = %d, want manual 45", cost)
	}
}

func TestChildDailyPoints(t *testing.T) {
	reward := model.Reward{ID: "r"}
	children := []model.Child{child("a"), child("b")}
	chores := []model.Chore{
		{ID: "c1", Points: 10, CompletionPercentagePerMonth: 50, AssignedTo: []string{"a"}},
		{ID: "c2", Points: 4, CompletionPercentagePerMonth: 25},
	}

	daily := ChildDailyPoints(reward, children, chores)
	if daily["a"] != 6.0 {
		t.Errorf("daily[a] = %v, want 6.0", daily["a"])
	}
	if daily["b"] != 1.0 {
		t.Errorf("daily[b] = %v, want 1.0", daily["b"])
	}
}
