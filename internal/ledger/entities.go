package ledger

import (
	"context"

	"github.com/vinnybad/choremander/internal/model"
)

// Entity CRUD goes through the engine so every mutation is serialized,
// persisted and followed by a refresh signal.

// AddChild stores a new child.
func (e *Engine) AddChild(ctx context.Context, child model.Child) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.store.AddChild(child)
	if err := e.store.Save(ctx); err != nil {
		return err
	}
	e.signalRefresh()
	return nil
}

// UpdateChild replaces a stored child wholesale (inserting if absent).
func (e *Engine) UpdateChild(ctx context.Context, child model.Child) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.store.UpdateChild(child)
	if err := e.store.Save(ctx); err != nil {
		return err
	}
	e.signalRefresh()
	return nil
}

// RemoveChild deletes a child.
func (e *Engine) RemoveChild(ctx context.Context, childID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.store.RemoveChild(childID)
	if err := e.store.Save(ctx); err != nil {
		return err
	}
	e.signalRefresh()
	return nil
}

// AddChore stores a new chore.
func (e *Engine) AddChore(ctx context.Context, chore model.Chore) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.store.AddChore(chore)
	if err := e.store.Save(ctx); err != nil {
		return err
	}
	e.signalRefresh()
	return nil
}

// AddChoresBulk stores several chores in one persisted operation.
func (e *Engine) AddChoresBulk(ctx context.Context, chores []model.Chore) error {
	if len(chores) == 0 {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, chore := range chores {
		e.store.AddChore(chore)
	}
	if err := e.store.Save(ctx); err != nil {
		return err
	}
	e.signalRefresh()
	return nil
}

// UpdateChore replaces a stored chore wholesale (inserting if absent).
func (e *Engine) UpdateChore(ctx context.Context, chore model.Chore) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.store.UpdateChore(chore)
	if err := e.store.Save(ctx); err != nil {
		return err
	}
	e.signalRefresh()
	return nil
}

// RemoveChore deletes a chore.
func (e *Engine) RemoveChore(ctx context.Context, choreID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.store.RemoveChore(choreID)
	if err := e.store.Save(ctx); err != nil {
		return err
	}
	e.signalRefresh()
	return nil
}

// AddReward stores a new reward.
func (e *Engine) AddReward(ctx context.Context, reward model.Reward) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.store.AddReward(reward)
	if err := e.store.Save(ctx); err != nil {
		return err
	}
	e.signalRefresh()
	return nil
}

// UpdateReward replaces a stored reward wholesale (inserting if absent).
func (e *Engine) UpdateReward(ctx context.Context, reward model.Reward) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.store.UpdateReward(reward)
	if err := e.store.Save(ctx); err != nil {
		return err
	}
	e.signalRefresh()
	return nil
}

// RemoveReward deletes a reward.
func (e *Engine) RemoveReward(ctx context.Context, rewardID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.store.RemoveReward(rewardID)
	if err := e.store.Save(ctx); err != nil {
		return err
	}
	e.signalRefresh()
	return nil
}
