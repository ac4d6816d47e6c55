package handler

import (
	"net/http"
	"strings"

	"github.com/vinnybad/choremander/internal/ledger"
	"github.com/vinnybad/choremander/internal/model"
	"github.com/vinnybad/choremander/internal/store"
)

type RewardHandler struct {
	engine *ledger.Engine
	store  *store.Store
}

func NewRewardHandler(engine *ledger.Engine, st *store.Store) *RewardHandler {
	return &RewardHandler{engine: engine, store: st}
}

type rewardRequest struct {
	Name               *string   `json:"name"`
	Cost               *int      `json:"cost"`
	Description        *string   `json:"description"`
	Icon               *string   `json:"icon"`
	AssignedTo         *[]string `json:"assigned_to"`
	IsJackpot          *bool     `json:"is_jackpot"`
	OverridePointValue *bool     `json:"override_point_value"`
	DaysToGoal         *int      `json:"days_to_goal"`
}

func (req *rewardRequest) apply(rw *model.Reward) {
	if req.Name != nil {
		rw.Name = strings.TrimSpace(*req.Name)
	}
	if req.Cost != nil {
		rw.Cost = *req.Cost
	}
	if req.Description != nil {
		rw.Description = *req.Description
	}
	if req.Icon != nil {
		rw.Icon = *req.Icon
	}
	if req.AssignedTo != nil {
		rw.AssignedTo = *req.AssignedTo
	}
	if req.IsJackpot != nil {
		rw.IsJackpot = *req.IsJackpot
	}
	if req.OverridePointValue != nil {
		rw.OverridePointValue = *req.OverridePointValue
	}
	if req.DaysToGoal != nil {
		rw.DaysToGoal = *req.DaysToGoal
	}
}

// rewardView decorates a reward with its per-child effective costs and the
// expected daily point income behind them (shown as weighted contributions
// toward shared jackpot goals).
type rewardView struct {
	model.Reward
	EffectiveCosts map[string]int     `json:"effective_costs"`
	DailyPoints    map[string]float64 `json:"daily_points"`
}

func (h *RewardHandler) List(w http.ResponseWriter, r *http.Request) {
	children := h.store.Children()
	chores := h.store.Chores()

	views := []rewardView{}
	for _, rw := range h.store.Rewards() {
		views = append(views, rewardView{
			Reward:         rw,
			EffectiveCosts: ledger.EffectiveCosts(rw, children, chores),
			DailyPoints:    ledger.ChildDailyPoints(rw, children, chores),
		})
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *RewardHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req rewardRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Name == nil || strings.TrimSpace(*req.Name) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}

	reward := model.NewReward(strings.TrimSpace(*req.Name))
	req.apply(&reward)

	err := h.engine.AddReward(r.Context(), reward)
	recordCommand("add_reward", err)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, reward)
}

func (h *RewardHandler) Update(w http.ResponseWriter, r *http.Request) {
	reward, ok := h.store.Reward(r.PathValue("id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "reward not found"})
		return
	}

	var req rewardRequest
	if !decodeBody(w, r, &req) {
		return
	}
	req.apply(&reward)
	if reward.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}

	err := h.engine.UpdateReward(r.Context(), reward)
	recordCommand("update_reward", err)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reward)
}

func (h *RewardHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, ok := h.store.Reward(id); !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "reward not found"})
		return
	}

	err := h.engine.RemoveReward(r.Context(), id)
	recordCommand("remove_reward", err)
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *RewardHandler) Claim(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ChildID string `json:"child_id"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	claim, err := h.engine.ClaimReward(r.Context(), r.PathValue("id"), req.ChildID)
	recordCommand("claim_reward", err)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, claim)
}

func (h *RewardHandler) ApproveClaim(w http.ResponseWriter, r *http.Request) {
	err := h.engine.ApproveReward(r.Context(), r.PathValue("id"))
	recordCommand("approve_reward", err)
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *RewardHandler) RejectClaim(w http.ResponseWriter, r *http.Request) {
	err := h.engine.RejectReward(r.Context(), r.PathValue("id"))
	recordCommand("reject_reward", err)
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
