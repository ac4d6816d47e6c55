// Package ledger enforces the business rules of the chore/reward economy:
// completion workflows, daily limits, point accrual, dynamic reward pricing
// and refund-on-rejection. It operates over records fetched from the store
// and persists the full document after every operation.
package ledger

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/vinnybad/choremander/internal/model"
	"github.com/vinnybad/choremander/internal/store"
)

// Refresher receives a signal after every successful mutation so observers
// can rebuild their snapshot.
type Refresher interface {
	Refresh()
}

// Notifier is told when a record enters the pending-approval state.
type Notifier interface {
	CompletionPending(child model.Child, chore model.Chore)
	ClaimPending(child model.Child, reward model.Reward)
}

// Engine applies ledger operations. A single mutex serializes all mutating
// operations; without it two racing approvals could both read the same
// balance and lose an update.
type Engine struct {
	mu        sync.Mutex
	store     *store.Store
	refresher Refresher
	notifier  Notifier
	logger    *slog.Logger
	now       func() time.Time
}

// New creates an Engine. refresher and notifier may be nil.
func New(st *store.Store, refresher Refresher, notifier Notifier, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		store:     st,
		refresher: refresher,
		notifier:  notifier,
		logger:    logger,
		now:       time.Now,
	}
}

func (e *Engine) signalRefresh() {
	if e.refresher != nil {
		e.refresher.Refresh()
	}
}

// CompleteChore records a child completing a chore. Chores that do not
// require approval award their points immediately; otherwise an unapproved
// record is created and points wait for ApproveChore.
func (e *Engine) CompleteChore(ctx context.Context, choreID, childID string) (model.ChoreCompletion, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	chore, ok := e.store.Chore(choreID)
	if !ok {
		return model.ChoreCompletion{}, &NotFoundError{Kind: "chore", ID: choreID}
	}
	child, ok := e.store.Child(childID)
	if !ok {
		return model.ChoreCompletion{}, &NotFoundError{Kind: "child", ID: childID}
	}

	now := e.now()
	count := e.completionsToday(choreID, childID, now)
	if count >= chore.DailyLimit {
		return model.ChoreCompletion{}, &LimitExceededError{ChoreName: chore.Name, Count: count, Limit: chore.DailyLimit}
	}

	completion := model.NewCompletion(choreID, childID, now)
	if !chore.RequiresApproval {
		e.awardPoints(child, chore.Points)
		completion.Approved = true
		approvedAt := model.NewUTCTime(now)
		completion.ApprovedAt = &approvedAt
		completion.PointsAwarded = chore.Points
	}
	e.store.AddCompletion(completion)

	if err := e.store.Save(ctx); err != nil {
		return model.ChoreCompletion{}, err
	}
	e.signalRefresh()

	if chore.RequiresApproval && e.notifier != nil {
		e.notifier.CompletionPending(child, chore)
	}
	return completion, nil
}

// completionsToday counts this child's completions of this chore whose local
// calendar date matches now's. Pending and approved both count toward the
// daily limit.
func (e *Engine) completionsToday(choreID, childID string, now time.Time) int {
	y, m, d := now.Local().Date()
	count := 0
	for _, comp := range e.store.Completions() {
		if comp.ChoreID != choreID || comp.ChildID != childID {
			continue
		}
		cy, cm, cd := comp.CompletedAt.Local().Date()
		if cy == y && cm == m && cd == d {
			count++
		}
	}
	return count
}

// ApproveChore approves a pending completion, awarding the chore's points.
// A missing completion, chore or child is a silent no-op: approvals can race
// with rejections and double-clicks, and losing that race is not an error.
func (e *Engine) ApproveChore(ctx context.Context, completionID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	completion, ok := e.store.Completion(completionID)
	if !ok {
		return nil
	}
	chore, choreOK := e.store.Chore(completion.ChoreID)
	child, childOK := e.store.Child(completion.ChildID)
	if !choreOK || !childOK {
		return nil
	}

	completion.Approved = true
	approvedAt := model.NewUTCTime(e.now())
	completion.ApprovedAt = &approvedAt
	completion.PointsAwarded = chore.Points
	e.awardPoints(child, chore.Points)
	e.store.UpdateCompletion(completion)

	if err := e.store.Save(ctx); err != nil {
		return err
	}
	e.signalRefresh()
	return nil
}

// RejectChore deletes a completion record. If points had already been
// awarded they are reversed from the child's balance, clamped at zero.
func (e *Engine) RejectChore(ctx context.Context, completionID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if completion, ok := e.store.Completion(completionID); ok && completion.PointsAwarded > 0 {
		if child, ok := e.store.Child(completion.ChildID); ok {
			child.Points -= completion.PointsAwarded
			if child.Points < 0 {
				child.Points = 0
			}
			e.store.UpdateChild(child)
		}
	}
	e.store.RemoveCompletion(completionID)

	if err := e.store.Save(ctx); err != nil {
		return err
	}
	e.signalRefresh()
	return nil
}

// ClaimReward deducts the child's effective cost for the reward and records
// an unapproved claim. Deduction happens at claim time; approval moves no
// further points.
func (e *Engine) ClaimReward(ctx context.Context, rewardID, childID string) (model.RewardClaim, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	reward, ok := e.store.Reward(rewardID)
	if !ok {
		return model.RewardClaim{}, &NotFoundError{Kind: "reward", ID: rewardID}
	}
	child, ok := e.store.Child(childID)
	if !ok {
		return model.RewardClaim{}, &NotFoundError{Kind: "child", ID: childID}
	}

	cost := EffectiveCost(reward, childID, e.store.Children(), e.store.Chores())
	if child.Points < cost {
		return model.RewardClaim{}, &InsufficientPointsError{Needed: cost, Available: child.Points}
	}

	claim := model.NewRewardClaim(rewardID, childID, e.now())
	child.Points -= cost
	e.store.UpdateChild(child)
	e.store.AddRewardClaim(claim)

	if err := e.store.Save(ctx); err != nil {
		return model.RewardClaim{}, err
	}
	e.signalRefresh()

	if e.notifier != nil {
		e.notifier.ClaimPending(child, reward)
	}
	return claim, nil
}

// ApproveReward marks a claim approved. The cost was already deducted at
// claim time. A missing claim is a silent no-op.
func (e *Engine) ApproveReward(ctx context.Context, claimID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	claim, ok := e.store.RewardClaim(claimID)
	if !ok {
		return nil
	}
	claim.Approved = true
	approvedAt := model.NewUTCTime(e.now())
	claim.ApprovedAt = &approvedAt
	e.store.UpdateRewardClaim(claim)

	if err := e.store.Save(ctx); err != nil {
		return err
	}
	e.signalRefresh()
	return nil
}

// RejectReward refunds the claim and deletes it. The refund uses the
// effective cost recomputed now, not the cost charged at claim time, so
// refunds stay consistent with current reward settings.
func (e *Engine) RejectReward(ctx context.Context, claimID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	claim, ok := e.store.RewardClaim(claimID)
	if !ok {
		return nil
	}
	reward, rewardOK := e.store.Reward(claim.RewardID)
	child, childOK := e.store.Child(claim.ChildID)
	if rewardOK && childOK {
		cost := EffectiveCost(reward, claim.ChildID, e.store.Children(), e.store.Chores())
		child.Points += cost
		e.store.UpdateChild(child)
	}
	e.store.RemoveRewardClaim(claimID)

	if err := e.store.Save(ctx); err != nil {
		return err
	}
	e.signalRefresh()
	return nil
}

// AddPoints grants a manual bonus. The reason is logged for audit visibility
// but not persisted.
func (e *Engine) AddPoints(ctx context.Context, childID string, points int, reason string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	child, ok := e.store.Child(childID)
	if !ok {
		return &NotFoundError{Kind: "child", ID: childID}
	}
	e.logger.Info("manual points added", "child", child.Name, "points", points, "reason", reason)
	e.awardPoints(child, points)

	if err := e.store.Save(ctx); err != nil {
		return err
	}
	e.signalRefresh()
	return nil
}

// RemovePoints applies a manual penalty, clamping the balance at zero.
func (e *Engine) RemovePoints(ctx context.Context, childID string, points int, reason string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	child, ok := e.store.Child(childID)
	if !ok {
		return &NotFoundError{Kind: "child", ID: childID}
	}
	e.logger.Info("manual points removed", "child", child.Name, "points", points, "reason", reason)
	child.Points -= points
	if child.Points < 0 {
		child.Points = 0
	}
	e.store.UpdateChild(child)

	if err := e.store.Save(ctx); err != nil {
		return err
	}
	e.signalRefresh()
	return nil
}

// awardPoints credits a child's balance and lifetime counters. Caller holds
// the engine mutex and persists afterwards.
func (e *Engine) awardPoints(child model.Child, points int) {
	child.Points += points
	child.TotalPointsEarned += points
	child.TotalChoresCompleted++
	e.store.UpdateChild(child)
}

// SetChoreOrder overwrites a child's display-order list verbatim. The IDs
// are not validated; ordering falls back to insertion order for entries that
// no longer match a chore.
func (e *Engine) SetChoreOrder(ctx context.Context, childID string, choreOrder []string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	child, ok := e.store.Child(childID)
	if !ok {
		return &NotFoundError{Kind: "child", ID: childID}
	}
	child.ChoreOrder = choreOrder
	e.store.UpdateChild(child)

	if err := e.store.Save(ctx); err != nil {
		return err
	}
	e.signalRefresh()
	return nil
}

// SetPointsSettings updates the currency name and icon.
func (e *Engine) SetPointsSettings(ctx context.Context, name, icon string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.store.SetPointsName(name)
	e.store.SetPointsIcon(icon)

	if err := e.store.Save(ctx); err != nil {
		return err
	}
	e.signalRefresh()
	return nil
}
