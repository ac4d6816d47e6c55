package handler

import (
	"net/http"

	"github.com/vinnybad/choremander/internal/coordinator"
	"github.com/vinnybad/choremander/internal/ledger"
	"github.com/vinnybad/choremander/internal/store"
)

type StateHandler struct {
	coord *coordinator.Coordinator
}

func NewStateHandler(coord *coordinator.Coordinator) *StateHandler {
	return &StateHandler{coord: coord}
}

// State returns the latest published snapshot.
func (h *StateHandler) State(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.coord.Current())
}

// Health is a liveness endpoint.
func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type SettingsHandler struct {
	engine *ledger.Engine
	store  *store.Store
}

func NewSettingsHandler(engine *ledger.Engine, st *store.Store) *SettingsHandler {
	return &SettingsHandler{engine: engine, store: st}
}

type pointsSettings struct {
	PointsName string `json:"points_name"`
	PointsIcon string `json:"points_icon"`
}

func (h *SettingsHandler) GetPoints(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, pointsSettings{
		PointsName: h.store.PointsName(),
		PointsIcon: h.store.PointsIcon(),
	})
}

func (h *SettingsHandler) PutPoints(w http.ResponseWriter, r *http.Request) {
	var req pointsSettings
	if !decodeBody(w, r, &req) {
		return
	}
	if req.PointsName == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "points_name is required"})
		return
	}

	err := h.engine.SetPointsSettings(r.Context(), req.PointsName, req.PointsIcon)
	recordCommand("set_points_settings", err)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pointsSettings{
		PointsName: h.store.PointsName(),
		PointsIcon: h.store.PointsIcon(),
	})
}
