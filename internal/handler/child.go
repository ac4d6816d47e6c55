package handler

import (
	"net/http"
	"strings"

	"github.com/vinnybad/choremander/internal/ledger"
	"github.com/vinnybad/choremander/internal/model"
	"github.com/vinnybad/choremander/internal/store"
)

type ChildHandler struct {
	engine *ledger.Engine
	store  *store.Store
}

func NewChildHandler(engine *ledger.Engine, st *store.Store) *ChildHandler {
	return &ChildHandler{engine: engine, store: st}
}

type childRequest struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

func (h *ChildHandler) List(w http.ResponseWriter, r *http.Request) {
	children := h.store.Children()
	if children == nil {
		children = []model.Child{}
	}
	writeJSON(w, http.StatusOK, children)
}

func (h *ChildHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req childRequest
	if !decodeBody(w, r, &req) {
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}

	child := model.NewChild(req.Name, req.Avatar)
	err := h.engine.AddChild(r.Context(), child)
	recordCommand("add_child", err)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, child)
}

func (h *ChildHandler) Update(w http.ResponseWriter, r *http.Request) {
	child, ok := h.store.Child(r.PathValue("id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "child not found"})
		return
	}

	var req childRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if name := strings.TrimSpace(req.Name); name != "" {
		child.Name = name
	}
	if req.Avatar != "" {
		child.Avatar = req.Avatar
	}

	err := h.engine.UpdateChild(r.Context(), child)
	recordCommand("update_child", err)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, child)
}

func (h *ChildHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, ok := h.store.Child(id); !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "child not found"})
		return
	}

	err := h.engine.RemoveChild(r.Context(), id)
	recordCommand("remove_child", err)
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type pointsRequest struct {
	Points int    `json:"points"`
	Reason string `json:"reason"`
}

func (h *ChildHandler) AddPoints(w http.ResponseWriter, r *http.Request) {
	var req pointsRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Points <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "points must be positive"})
		return
	}

	err := h.engine.AddPoints(r.Context(), r.PathValue("id"), req.Points, req.Reason)
	recordCommand("add_points", err)
	if err != nil {
		writeError(w, err)
		return
	}
	child, _ := h.store.Child(r.PathValue("id"))
	writeJSON(w, http.StatusOK, child)
}

func (h *ChildHandler) RemovePoints(w http.ResponseWriter, r *http.Request) {
	var req pointsRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Points <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "points must be positive"})
		return
	}

	err := h.engine.RemovePoints(r.Context(), r.PathValue("id"), req.Points, req.Reason)
	recordCommand("remove_points", err)
	if err != nil {
		writeError(w, err)
		return
	}
	child, _ := h.store.Child(r.PathValue("id"))
	writeJSON(w, http.StatusOK, child)
}

func (h *ChildHandler) SetChoreOrder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ChoreOrder []string `json:"chore_order"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	err := h.engine.SetChoreOrder(r.Context(), r.PathValue("id"), req.ChoreOrder)
	recordCommand("set_chore_order", err)
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
