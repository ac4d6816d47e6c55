package handler

import (
	"net/http"
	"strings"

	"github.com/vinnybad/choremander/internal/ledger"
	"github.com/vinnybad/choremander/internal/model"
	"github.com/vinnybad/choremander/internal/store"
)

type ChoreHandler struct {
	engine *ledger.Engine
	store  *store.Store
}

func NewChoreHandler(engine *ledger.Engine, st *store.Store) *ChoreHandler {
	return &ChoreHandler{engine: engine, store: st}
}

// choreRequest uses pointers so updates can leave absent fields untouched.
type choreRequest struct {
	Name                         *string   `json:"name"`
	Points                       *int      `json:"points"`
	Description                  *string   `json:"description"`
	DueDays                      *[]string `json:"due_days"`
	AssignedTo                   *[]string `json:"assigned_to"`
	RequiresApproval             *bool     `json:"requires_approval"`
	TimeCategory                 *string   `json:"time_category"`
	DailyLimit                   *int      `json:"daily_limit"`
	CompletionSound              *string   `json:"completion_sound"`
	CompletionPercentagePerMonth *int      `json:"completion_percentage_per_month"`
}

func (req *choreRequest) apply(c *model.Chore) {
	if req.Name != nil {
		c.Name = strings.TrimSpace(*req.Name)
	}
	if req.Points != nil {
		c.Points = *req.Points
	}
	if req.Description != nil {
		c.Description = *req.Description
	}
	if req.DueDays != nil {
		c.DueDays = *req.DueDays
	}
	if req.AssignedTo != nil {
		c.AssignedTo = *req.AssignedTo
	}
	if req.RequiresApproval != nil {
		c.RequiresApproval = *req.RequiresApproval
	}
	if req.TimeCategory != nil {
		c.TimeCategory = *req.TimeCategory
	}
	if req.DailyLimit != nil {
		c.DailyLimit = *req.DailyLimit
	}
	if req.CompletionSound != nil {
		c.CompletionSound = *req.CompletionSound
	}
	if req.CompletionPercentagePerMonth != nil {
		c.CompletionPercentagePerMonth = *req.CompletionPercentagePerMonth
	}
}

func (h *ChoreHandler) List(w http.ResponseWriter, r *http.Request) {
	chores := h.store.Chores()
	if chores == nil {
		chores = []model.Chore{}
	}
	writeJSON(w, http.StatusOK, chores)
}

func (h *ChoreHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req choreRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Name == nil || strings.TrimSpace(*req.Name) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}

	chore := model.NewChore(strings.TrimSpace(*req.Name))
	req.apply(&chore)

	err := h.engine.AddChore(r.Context(), chore)
	recordCommand("add_chore", err)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, chore)
}

// CreateBulk creates several chores sharing one set of settings. Blank
// names are skipped; at least one usable name is required.
func (h *ChoreHandler) CreateBulk(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Names    []string     `json:"names"`
		Settings choreRequest `json:"settings"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	names := make([]string, 0, len(req.Names))
	for _, name := range req.Names {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "at least one name is required"})
		return
	}

	chores := make([]model.Chore, 0, len(names))
	for _, name := range names {
		chore := model.NewChore(name)
		req.Settings.apply(&chore)
		chore.Name = name
		chores = append(chores, chore)
	}

	err := h.engine.AddChoresBulk(r.Context(), chores)
	recordCommand("add_chores_bulk", err)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, chores)
}

func (h *ChoreHandler) Update(w http.ResponseWriter, r *http.Request) {
	chore, ok := h.store.Chore(r.PathValue("id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "chore not found"})
		return
	}

	var req choreRequest
	if !decodeBody(w, r, &req) {
		return
	}
	req.apply(&chore)
	if chore.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}

	err := h.engine.UpdateChore(r.Context(), chore)
	recordCommand("update_chore", err)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, chore)
}

func (h *ChoreHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, ok := h.store.Chore(id); !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "chore not found"})
		return
	}

	err := h.engine.RemoveChore(r.Context(), id)
	recordCommand("remove_chore", err)
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ChoreHandler) Complete(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ChildID string `json:"child_id"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	completion, err := h.engine.CompleteChore(r.Context(), r.PathValue("id"), req.ChildID)
	recordCommand("complete_chore", err)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, completion)
}

func (h *ChoreHandler) ApproveCompletion(w http.ResponseWriter, r *http.Request) {
	err := h.engine.ApproveChore(r.Context(), r.PathValue("id"))
	recordCommand("approve_chore", err)
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ChoreHandler) RejectCompletion(w http.ResponseWriter, r *http.Request) {
	err := h.engine.RejectChore(r.Context(), r.PathValue("id"))
	recordCommand("reject_chore", err)
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
