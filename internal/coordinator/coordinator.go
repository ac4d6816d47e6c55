// Package coordinator maintains a periodically refreshed snapshot of the
// family state and fans updates out to subscribed consumers.
package coordinator

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vinnybad/choremander/internal/ledger"
	"github.com/vinnybad/choremander/internal/metrics"
	"github.com/vinnybad/choremander/internal/model"
	"github.com/vinnybad/choremander/internal/store"
	ws "github.com/vinnybad/choremander/internal/websocket"
)

const DefaultInterval = 30 * time.Second

// Snapshot is an immutable view of the whole family state at one point in
// time, with derived fields (pending queues, effective reward costs)
// precomputed so consumers never touch the store directly.
type Snapshot struct {
	GeneratedAt time.Time `json:"generated_at"`

	Children     []model.Child           `json:"children"`
	Chores       []model.Chore           `json:"chores"`
	Rewards      []model.Reward          `json:"rewards"`
	Completions  []model.ChoreCompletion `json:"completions"`
	RewardClaims []model.RewardClaim     `json:"reward_claims"`

	PendingCompletions  []model.ChoreCompletion `json:"pending_chore_approvals"`
	PendingRewardClaims []model.RewardClaim     `json:"pending_reward_approvals"`

	PointsName string `json:"points_name"`
	PointsIcon string `json:"points_icon"`

	// RewardCosts maps reward ID to the per-child effective cost of that
	// reward at snapshot time.
	RewardCosts map[string]map[string]int `json:"reward_costs"`
}

// Listener receives each new snapshot after it is published.
type Listener func(*Snapshot)

// Coordinator rebuilds the snapshot on demand and on a fixed interval, and
// notifies websocket clients and registered listeners after every rebuild.
type Coordinator struct {
	store    *store.Store
	hub      *ws.Hub
	interval time.Duration
	logger   *slog.Logger

	current atomic.Pointer[Snapshot]

	mu        sync.Mutex
	listeners []Listener
}

func New(st *store.Store, hub *ws.Hub, interval time.Duration, logger *slog.Logger) *Coordinator {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator{
		store:    st,
		hub:      hub,
		interval: interval,
		logger:   logger,
	}
}

// Subscribe registers a listener called after every refresh. Listeners run
// synchronously on the refreshing goroutine and must not block.
func (c *Coordinator) Subscribe(l Listener) {
	c.mu.Lock()
	c.listeners = append(c.listeners, l)
	c.mu.Unlock()
}

// Current returns the latest published snapshot, building one first if no
// refresh has run yet.
func (c *Coordinator) Current() *Snapshot {
	if snap := c.current.Load(); snap != nil {
		return snap
	}
	c.Refresh()
	return c.current.Load()
}

// Refresh rebuilds the snapshot from the store and publishes it.
func (c *Coordinator) Refresh() {
	snap := c.build()
	c.current.Store(snap)

	metrics.RecordSnapshot(snap.GeneratedAt.Unix(), len(snap.PendingCompletions), len(snap.PendingRewardClaims))

	if c.hub != nil {
		c.hub.Broadcast(ws.StateUpdated(snap.GeneratedAt))
	}

	c.mu.Lock()
	listeners := make([]Listener, len(c.listeners))
	copy(listeners, c.listeners)
	c.mu.Unlock()
	for _, l := range listeners {
		l(snap)
	}
}

// Run refreshes immediately, then on every tick until ctx is cancelled.
func (c *Coordinator) Run(ctx context.Context) {
	c.Refresh()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.Refresh()
		case <-ctx.Done():
			c.logger.Info("coordinator stopped")
			return
		}
	}
}

func (c *Coordinator) build() *Snapshot {
	children := c.store.Children()
	chores := c.store.Chores()
	rewards := c.store.Rewards()

	costs := make(map[string]map[string]int, len(rewards))
	for _, r := range rewards {
		costs[r.ID] = ledger.EffectiveCosts(r, children, chores)
	}

	return &Snapshot{
		GeneratedAt:         time.Now().UTC(),
		Children:            children,
		Chores:              chores,
		Rewards:             rewards,
		Completions:         c.store.Completions(),
		RewardClaims:        c.store.RewardClaims(),
		PendingCompletions:  c.store.PendingCompletions(),
		PendingRewardClaims: c.store.PendingRewardClaims(),
		PointsName:          c.store.PointsName(),
		PointsIcon:          c.store.PointsIcon(),
		RewardCosts:         costs,
	}
}
