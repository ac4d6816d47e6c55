// Package server wires the stores, engine, coordinator, and handlers into
// one HTTP surface.
package server

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/vinnybad/choremander/internal/backup"
	"github.com/vinnybad/choremander/internal/coordinator"
	"github.com/vinnybad/choremander/internal/handler"
	"github.com/vinnybad/choremander/internal/ledger"
	"github.com/vinnybad/choremander/internal/metrics"
	"github.com/vinnybad/choremander/internal/middleware"
	"github.com/vinnybad/choremander/internal/model"
	"github.com/vinnybad/choremander/internal/push"
	"github.com/vinnybad/choremander/internal/store"
	ws "github.com/vinnybad/choremander/internal/websocket"
)

// approvalNotifier mirrors pending-approval events onto the websocket hub
// and forwards them to the push notifier when one is configured.
type approvalNotifier struct {
	hub  *ws.Hub
	push ledger.Notifier
}

func (n *approvalNotifier) CompletionPending(child model.Child, chore model.Chore) {
	n.hub.Broadcast(ws.ApprovalPending(chore.Name))
	if n.push != nil {
		n.push.CompletionPending(child, chore)
	}
}

func (n *approvalNotifier) ClaimPending(child model.Child, reward model.Reward) {
	n.hub.Broadcast(ws.ApprovalPending(reward.Name))
	if n.push != nil {
		n.push.ClaimPending(child, reward)
	}
}

// Config carries the pieces the server assembles around the open database.
type Config struct {
	RefreshInterval time.Duration
	Backup          backup.Config
	Push            push.Config
}

type Server struct {
	hub         *ws.Hub
	coordinator *coordinator.Coordinator
	engine      *ledger.Engine
	backupMgr   *backup.Manager

	childH    *handler.ChildHandler
	choreH    *handler.ChoreHandler
	rewardH   *handler.RewardHandler
	stateH    *handler.StateHandler
	settingsH *handler.SettingsHandler
	backupH   *handler.BackupHandler
	pushH     *handler.PushHandler

	logger *slog.Logger
}

func New(db *sql.DB, st *store.Store, cfg Config, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))
	coord := coordinator.New(st, hub, cfg.RefreshInterval, logger.With("component", "coordinator"))

	pushStore := store.NewPushStore(db)
	var pushSvc *push.Service
	var pushNotifier ledger.Notifier
	if cfg.Push.VAPIDPublicKey != "" && cfg.Push.VAPIDPrivateKey != "" {
		pushSvc = push.NewService(cfg.Push.VAPIDPublicKey, cfg.Push.VAPIDPrivateKey)
		pushNotifier = push.NewNotifier(pushSvc, pushStore, logger.With("component", "push"))
	}
	notifier := &approvalNotifier{hub: hub, push: pushNotifier}

	engine := ledger.New(st, coord, notifier, logger.With("component", "ledger"))
	backupMgr := backup.NewManager(cfg.Backup, st, logger.With("component", "backup"))

	return &Server{
		hub:         hub,
		coordinator: coord,
		engine:      engine,
		backupMgr:   backupMgr,
		childH:      handler.NewChildHandler(engine, st),
		choreH:      handler.NewChoreHandler(engine, st),
		rewardH:     handler.NewRewardHandler(engine, st),
		stateH:      handler.NewStateHandler(coord),
		settingsH:   handler.NewSettingsHandler(engine, st),
		backupH:     handler.NewBackupHandler(backupMgr, coord),
		pushH:       handler.NewPushHandler(pushSvc, pushStore),
		logger:      logger,
	}
}

// Coordinator returns the refresh coordinator for the background loop.
func (s *Server) Coordinator() *coordinator.Coordinator {
	return s.coordinator
}

// BackupManager returns the backup manager for the background loop.
func (s *Server) BackupManager() *backup.Manager {
	return s.backupMgr
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	// Children
	mux.HandleFunc("GET /api/children", s.childH.List)
	mux.HandleFunc("POST /api/children", s.childH.Create)
	mux.HandleFunc("PUT /api/children/{id}", s.childH.Update)
	mux.HandleFunc("DELETE /api/children/{id}", s.childH.Delete)
	mux.HandleFunc("POST /api/children/{id}/points/add", s.childH.AddPoints)
	mux.HandleFunc("POST /api/children/{id}/points/remove", s.childH.RemovePoints)
	mux.HandleFunc("PUT /api/children/{id}/chore-order", s.childH.SetChoreOrder)

	// Chores and completions
	mux.HandleFunc("GET /api/chores", s.choreH.List)
	mux.HandleFunc("POST /api/chores", s.choreH.Create)
	mux.HandleFunc("POST /api/chores/bulk", s.choreH.CreateBulk)
	mux.HandleFunc("PUT /api/chores/{id}", s.choreH.Update)
	mux.HandleFunc("DELETE /api/chores/{id}", s.choreH.Delete)
	mux.HandleFunc("POST /api/chores/{id}/complete", s.choreH.Complete)
	mux.HandleFunc("POST /api/completions/{id}/approve", s.choreH.ApproveCompletion)
	mux.HandleFunc("POST /api/completions/{id}/reject", s.choreH.RejectCompletion)

	// Rewards and claims
	mux.HandleFunc("GET /api/rewards", s.rewardH.List)
	mux.HandleFunc("POST /api/rewards", s.rewardH.Create)
	mux.HandleFunc("PUT /api/rewards/{id}", s.rewardH.Update)
	mux.HandleFunc("DELETE /api/rewards/{id}", s.rewardH.Delete)
	mux.HandleFunc("POST /api/rewards/{id}/claim", s.rewardH.Claim)
	mux.HandleFunc("POST /api/claims/{id}/approve", s.rewardH.ApproveClaim)
	mux.HandleFunc("POST /api/claims/{id}/reject", s.rewardH.RejectClaim)

	// State and settings
	mux.HandleFunc("GET /api/state", s.stateH.State)
	mux.HandleFunc("GET /api/settings/points", s.settingsH.GetPoints)
	mux.HandleFunc("PUT /api/settings/points", s.settingsH.PutPoints)

	// Backups
	mux.HandleFunc("GET /api/backups", s.backupH.List)
	mux.HandleFunc("GET /api/backups/status", s.backupH.Status)
	mux.HandleFunc("POST /api/backups/run", s.backupH.Run)
	mux.HandleFunc("POST /api/backups/restore", s.backupH.Restore)

	// Push subscriptions
	mux.HandleFunc("GET /api/push/vapid-key", s.pushH.VAPIDKey)
	mux.HandleFunc("POST /api/push/subscribe", s.pushH.Subscribe)
	mux.HandleFunc("POST /api/push/unsubscribe", s.pushH.Unsubscribe)

	// WebSocket and operational endpoints
	mux.HandleFunc("GET /ws", ws.Handler(s.hub, s.logger.With("component", "websocket")))
	mux.HandleFunc("GET /health", handler.Health)
	mux.Handle("GET /metrics", metrics.Handler())

	return middleware.RequestLogger(s.logger.With("component", "http"))(mux)
}
