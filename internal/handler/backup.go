package handler

import (
	"net/http"

	"github.com/vinnybad/choremander/internal/backup"
	"github.com/vinnybad/choremander/internal/coordinator"
)

type BackupHandler struct {
	manager *backup.Manager
	coord   *coordinator.Coordinator
}

func NewBackupHandler(manager *backup.Manager, coord *coordinator.Coordinator) *BackupHandler {
	return &BackupHandler{manager: manager, coord: coord}
}

func (h *BackupHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.manager.Status())
}

func (h *BackupHandler) List(w http.ResponseWriter, r *http.Request) {
	names, err := h.manager.List()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, names)
}

func (h *BackupHandler) Run(w http.ResponseWriter, r *http.Request) {
	if !h.manager.Enabled() {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "backups not configured"})
		return
	}
	filename, err := h.manager.RunNow(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"file": filename})
}

func (h *BackupHandler) Restore(w http.ResponseWriter, r *http.Request) {
	var req struct {
		File       string `json:"file"`
		Passphrase string `json:"passphrase"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.File == "" || req.Passphrase == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "file and passphrase are required"})
		return
	}

	if err := h.manager.Restore(r.Context(), req.File, req.Passphrase); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	// State changed wholesale; publish a fresh snapshot.
	h.coord.Refresh()
	w.WriteHeader(http.StatusNoContent)
}
