package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"

	"github.com/vinnybad/choremander/internal/database"
	"github.com/vinnybad/choremander/internal/store"
)

func setupRouter(t *testing.T) http.Handler {
	t.Helper()

	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	st := store.New(db, nil)
	if err := st.Load(context.Background()); err != nil {
		t.Fatalf("load store: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := New(db, st, Config{}, logger)
	return srv.Router()
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestHealth(t *testing.T) {
	router := setupRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]string
	decode(t, rec, &resp)
	if resp["status"] != "ok" {
		t.Errorf("expected status ok, got %q", resp["status"])
	}
}

func TestChildLifecycle(t *testing.T) {
	router := setupRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/children", map[string]string{"name": "Ada"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create child: expected 201, got %d (%s)", rec.Code, rec.Body)
	}
	var child struct {
		ID     string `json:"id"`
		Name   string `json:"name"`
		Points int    `json:"points"`
	}
	decode(t, rec, &child)
	if child.ID == "" || child.Name != "Ada" {
		t.Fatalf("unexpected created child: %+v", child)
	}

	rec = doJSON(t, router, http.MethodPut, "/api/children/"+child.ID, map[string]string{"name": "Ada L"})
	if rec.Code != http.StatusOK {
		t.Fatalf("update child: expected 200, got %d", rec.Code)
	}
	decode(t, rec, &child)
	if child.Name != "Ada L" {
		t.Errorf("expected renamed child, got %q", child.Name)
	}

	rec = doJSON(t, router, http.MethodPost, "/api/children/"+child.ID+"/points/add",
		map[string]any{"points": 5, "reason": "helping out"})
	if rec.Code != http.StatusOK {
		t.Fatalf("add points: expected 200, got %d", rec.Code)
	}
	decode(t, rec, &child)
	if child.Points != 5 {
		t.Errorf("expected 5 points, got %d", child.Points)
	}

	rec = doJSON(t, router, http.MethodPost, "/api/children/"+child.ID+"/points/remove",
		map[string]any{"points": 3})
	if rec.Code != http.StatusOK {
		t.Fatalf("remove points: expected 200, got %d", rec.Code)
	}
	decode(t, rec, &child)
	if child.Points != 2 {
		t.Errorf("expected 2 points, got %d", child.Points)
	}

	rec = doJSON(t, router, http.MethodDelete, "/api/children/"+child.ID, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete child: expected 204, got %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodGet, "/api/children", nil)
	var children []json.RawMessage
	decode(t, rec, &children)
	if len(children) != 0 {
		t.Errorf("expected empty list after delete, got %d children", len(children))
	}
}

func TestChildValidation(t *testing.T) {
	router := setupRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/children", map[string]string{"name": "  "})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("blank name: expected 400, got %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodPost, "/api/children/nope/points/add", map[string]any{"points": 5})
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing child: expected 404, got %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodPost, "/api/children/nope/points/add", map[string]any{"points": 0})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("zero points: expected 400, got %d", rec.Code)
	}
}

func createChild(t *testing.T, router http.Handler, name string) string {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/api/children", map[string]string{"name": name})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create child: got %d (%s)", rec.Code, rec.Body)
	}
	var child struct {
		ID string `json:"id"`
	}
	decode(t, rec, &child)
	return child.ID
}

func childPoints(t *testing.T, router http.Handler, id string) int {
	t.Helper()
	rec := doJSON(t, router, http.MethodGet, "/api/children", nil)
	var children []struct {
		ID     string `json:"id"`
		Points int    `json:"points"`
	}
	decode(t, rec, &children)
	for _, c := range children {
		if c.ID == id {
			return c.Points
		}
	}
	t.Fatalf("child %s not found", id)
	return 0
}

func TestChoreCompletionDirectAward(t *testing.T) {
	router := setupRouter(t)
	childID := createChild(t, router, "Ben")

	rec := doJSON(t, router, http.MethodPost, "/api/chores", map[string]any{
		"name":              "dishes",
		"points":            7,
		"requires_approval": false,
		"daily_limit":       2,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create chore: expected 201, got %d (%s)", rec.Code, rec.Body)
	}
	var chore struct {
		ID string `json:"id"`
	}
	decode(t, rec, &chore)

	completeURL := fmt.Sprintf("/api/chores/%s/complete", chore.ID)
	body := map[string]string{"child_id": childID}

	rec = doJSON(t, router, http.MethodPost, completeURL, body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("first completion: expected 201, got %d (%s)", rec.Code, rec.Body)
	}
	var completion struct {
		Approved      bool `json:"approved"`
		PointsAwarded int  `json:"points_awarded"`
	}
	decode(t, rec, &completion)
	if !completion.Approved || completion.PointsAwarded != 7 {
		t.Errorf("expected approved completion with 7 points, got %+v", completion)
	}
	if got := childPoints(t, router, childID); got != 7 {
		t.Errorf("expected balance 7, got %d", got)
	}

	if rec = doJSON(t, router, http.MethodPost, completeURL, body); rec.Code != http.StatusCreated {
		t.Fatalf("second completion: expected 201, got %d", rec.Code)
	}

	// Daily limit is 2, so the third completion today is rejected.
	if rec = doJSON(t, router, http.MethodPost, completeURL, body); rec.Code != http.StatusConflict {
		t.Errorf("third completion: expected 409, got %d", rec.Code)
	}
}

func TestChoreApprovalFlow(t *testing.T) {
	router := setupRouter(t)
	childID := createChild(t, router, "Cam")

	rec := doJSON(t, router, http.MethodPost, "/api/chores", map[string]any{
		"name":   "mow lawn",
		"points": 20,
	})
	var chore struct {
		ID string `json:"id"`
	}
	decode(t, rec, &chore)

	rec = doJSON(t, router, http.MethodPost, "/api/chores/"+chore.ID+"/complete",
		map[string]string{"child_id": childID})
	if rec.Code != http.StatusCreated {
		t.Fatalf("complete: expected 201, got %d (%s)", rec.Code, rec.Body)
	}
	var completion struct {
		ID            string `json:"id"`
		Approved      bool   `json:"approved"`
		PointsAwarded int    `json:"points_awarded"`
	}
	decode(t, rec, &completion)
	if completion.Approved || completion.PointsAwarded != 0 {
		t.Fatalf("expected pending zero-point completion, got %+v", completion)
	}
	if got := childPoints(t, router, childID); got != 0 {
		t.Errorf("expected no points before approval, got %d", got)
	}

	rec = doJSON(t, router, http.MethodPost, "/api/completions/"+completion.ID+"/approve", nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("approve: expected 204, got %d", rec.Code)
	}
	if got := childPoints(t, router, childID); got != 20 {
		t.Errorf("expected 20 points after approval, got %d", got)
	}
}

func TestRewardClaimFlow(t *testing.T) {
	router := setupRouter(t)
	childID := createChild(t, router, "Dee")

	doJSON(t, router, http.MethodPost, "/api/children/"+childID+"/points/add",
		map[string]any{"points": 100})

	rec := doJSON(t, router, http.MethodPost, "/api/rewards", map[string]any{
		"name":                 "movie night",
		"cost":                 40,
		"override_point_value": true,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create reward: expected 201, got %d (%s)", rec.Code, rec.Body)
	}
	var reward struct {
		ID string `json:"id"`
	}
	decode(t, rec, &reward)

	rec = doJSON(t, router, http.MethodPost, "/api/rewards/"+reward.ID+"/claim",
		map[string]string{"child_id": childID})
	if rec.Code != http.StatusCreated {
		t.Fatalf("claim: expected 201, got %d (%s)", rec.Code, rec.Body)
	}
	var claim struct {
		ID       string `json:"id"`
		Approved bool   `json:"approved"`
	}
	decode(t, rec, &claim)
	if claim.Approved {
		t.Error("expected pending claim")
	}
	if got := childPoints(t, router, childID); got != 60 {
		t.Errorf("expected 60 points after claim, got %d", got)
	}

	rec = doJSON(t, router, http.MethodPost, "/api/claims/"+claim.ID+"/approve", nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("approve claim: expected 204, got %d", rec.Code)
	}
	if got := childPoints(t, router, childID); got != 60 {
		t.Errorf("approval must not deduct again, got %d", got)
	}

	// Second claim exceeds the remaining balance.
	doJSON(t, router, http.MethodPost, "/api/rewards/"+reward.ID+"/claim",
		map[string]string{"child_id": childID})
	rec = doJSON(t, router, http.MethodPost, "/api/children/"+childID+"/points/remove",
		map[string]any{"points": 20})
	if rec.Code != http.StatusOK {
		t.Fatalf("remove points: got %d", rec.Code)
	}
	rec = doJSON(t, router, http.MethodPost, "/api/rewards/"+reward.ID+"/claim",
		map[string]string{"child_id": childID})
	if rec.Code != http.StatusConflict {
		t.Errorf("insufficient points: expected 409, got %d", rec.Code)
	}
}

func TestStateSnapshot(t *testing.T) {
	router := setupRouter(t)
	createChild(t, router, "Eve")

	rec := doJSON(t, router, http.MethodGet, "/api/state", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("state: expected 200, got %d", rec.Code)
	}
	var snap struct {
		Children    []json.RawMessage `json:"children"`
		RewardCosts map[string]any    `json:"reward_costs"`
	}
	decode(t, rec, &snap)
	if len(snap.Children) != 1 {
		t.Errorf("expected 1 child in snapshot, got %d", len(snap.Children))
	}
	if snap.RewardCosts == nil {
		t.Error("expected reward_costs map in snapshot")
	}
}

func TestPointsSettings(t *testing.T) {
	router := setupRouter(t)

	rec := doJSON(t, router, http.MethodPut, "/api/settings/points",
		map[string]string{"points_name": "stars", "points_icon": "star"})
	if rec.Code != http.StatusOK {
		t.Fatalf("put settings: expected 200, got %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodGet, "/api/settings/points", nil)
	var settings struct {
		PointsName string `json:"points_name"`
		PointsIcon string `json:"points_icon"`
	}
	decode(t, rec, &settings)
	if settings.PointsName != "stars" || settings.PointsIcon != "star" {
		t.Errorf("unexpected settings: %+v", settings)
	}

	rec = doJSON(t, router, http.MethodPut, "/api/settings/points", map[string]string{"points_name": ""})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("blank points_name: expected 400, got %d", rec.Code)
	}
}

func TestBackupsDisabled(t *testing.T) {
	router := setupRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/backups/status", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: expected 200, got %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodPost, "/api/backups/run", nil)
	if rec.Code != http.StatusConflict {
		t.Errorf("run without configuration: expected 409, got %d", rec.Code)
	}
}

func TestChoreBulkCreate(t *testing.T) {
	router := setupRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/chores/bulk", map[string]any{
		"names":    []string{"sweep", "   ", "dust shelves"},
		"settings": map[string]any{"points": 5, "requires_approval": false},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("bulk create: expected 201, got %d (%s)", rec.Code, rec.Body)
	}
	var chores []struct {
		ID               string `json:"id"`
		Name             string `json:"name"`
		Points           int    `json:"points"`
		RequiresApproval bool   `json:"requires_approval"`
	}
	decode(t, rec, &chores)
	if len(chores) != 2 {
		t.Fatalf("expected 2 chores (blank name skipped), got %d", len(chores))
	}
	if chores[0].Name != "sweep" || chores[1].Name != "dust shelves" {
		t.Errorf("unexpected names: %q, %q", chores[0].Name, chores[1].Name)
	}
	for _, c := range chores {
		if c.Points != 5 || c.RequiresApproval {
			t.Errorf("shared settings not applied to %q: %+v", c.Name, c)
		}
	}

	rec = doJSON(t, router, http.MethodGet, "/api/chores", nil)
	var stored []json.RawMessage
	decode(t, rec, &stored)
	if len(stored) != 2 {
		t.Errorf("expected 2 stored chores, got %d", len(stored))
	}

	rec = doJSON(t, router, http.MethodPost, "/api/chores/bulk", map[string]any{
		"names": []string{"  ", ""},
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("all-blank names: expected 400, got %d", rec.Code)
	}
}

func TestRewardDailyPoints(t *testing.T) {
	router := setupRouter(t)
	childID := createChild(t, router, "Gil")

	rec := doJSON(t, router, http.MethodPost, "/api/chores", map[string]any{
		"name":   "water plants",
		"points": 10,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create chore: got %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodPost, "/api/rewards", map[string]any{"name": "ice cream"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create reward: got %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodGet, "/api/rewards", nil)
	var views []struct {
		EffectiveCosts map[string]int     `json:"effective_costs"`
		DailyPoints    map[string]float64 `json:"daily_points"`
	}
	decode(t, rec, &views)
	if len(views) != 1 {
		t.Fatalf("expected 1 reward view, got %d", len(views))
	}
	// One 10-point chore at the default 100% expected completion.
	if got := views[0].DailyPoints[childID]; got != 10 {
		t.Errorf("daily points = %v, want 10", got)
	}
	if _, ok := views[0].EffectiveCosts[childID]; !ok {
		t.Error("expected an effective cost for the child")
	}
}

func TestPendingApprovalBroadcast(t *testing.T) {
	router := setupRouter(t)
	ts := httptest.NewServer(router)
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(ts.URL, "http")+"/ws", nil)
	if err != nil {
		t.Fatalf("dial websocket: %v", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	childID := createChild(t, router, "Fay")
	rec := doJSON(t, router, http.MethodPost, "/api/chores", map[string]any{"name": "fold laundry"})
	var chore struct {
		ID string `json:"id"`
	}
	decode(t, rec, &chore)

	rec = doJSON(t, router, http.MethodPost, "/api/chores/"+chore.ID+"/complete",
		map[string]string{"child_id": childID})
	if rec.Code != http.StatusCreated {
		t.Fatalf("complete: expected 201, got %d (%s)", rec.Code, rec.Body)
	}

	// Mutations also broadcast state_updated cues; scan until the pending
	// approval arrives.
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			t.Fatalf("read websocket: %v", err)
		}
		var msg struct {
			Type   string `json:"type"`
			Detail string `json:"detail"`
		}
		if err := json.Unmarshal(data, &msg); err != nil {
			t.Fatalf("decode message: %v", err)
		}
		if msg.Type == "approval_pending" {
			if msg.Detail != "fold laundry" {
				t.Errorf("detail = %q, want the chore name", msg.Detail)
			}
			return
		}
	}
}

func TestVAPIDKeyUnconfigured(t *testing.T) {
	router := setupRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/push/vapid-key", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 without VAPID keys, got %d", rec.Code)
	}
}
