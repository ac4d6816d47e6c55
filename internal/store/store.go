// Package store owns the persisted chore document: every collection plus the
// point-currency settings. All collections live in memory once loaded;
// mutations are persisted by an explicit Save that overwrites the whole
// document in one transaction. Callers drive persistence; there is no
// auto-save timer.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/vinnybad/choremander/internal/model"
)

// Store is the document store. The mutex guards the in-memory document;
// compound read-mutate-save sequences are serialized by the ledger engine
// on top of this.
type Store struct {
	db     *sql.DB
	logger *slog.Logger

	mu           sync.RWMutex
	children     []model.Child
	chores       []model.Chore
	rewards      []model.Reward
	completions  []model.ChoreCompletion
	rewardClaims []model.RewardClaim
	pointsName   string
	pointsIcon   string
}

// New creates a Store over an opened database. Call Load before use.
func New(db *sql.DB, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		db:         db,
		logger:     logger,
		pointsName: model.DefaultPointsName,
		pointsIcon: model.DefaultPointsIcon,
	}
}

// Load reads the full document from the database. Malformed records decode
// to defaulted values rather than failing the load. After loading, legacy
// name-based chore assignments are migrated to child IDs; if the migration
// changed anything the document is saved back immediately.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()

	var err error
	if s.children, err = loadCollection(ctx, s.db, "children", model.ChildFromJSON); err != nil {
		s.mu.Unlock()
		return err
	}
	if s.chores, err = loadCollection(ctx, s.db, "chores", model.ChoreFromJSON); err != nil {
		s.mu.Unlock()
		return err
	}
	if s.rewards, err = loadCollection(ctx, s.db, "rewards", model.RewardFromJSON); err != nil {
		s.mu.Unlock()
		return err
	}
	if s.completions, err = loadCollection(ctx, s.db, "completions", model.CompletionFromJSON); err != nil {
		s.mu.Unlock()
		return err
	}
	if s.rewardClaims, err = loadCollection(ctx, s.db, "reward_claims", model.ClaimFromJSON); err != nil {
		s.mu.Unlock()
		return err
	}

	s.pointsName = s.loadSetting(ctx, "points_name", model.DefaultPointsName)
	s.pointsIcon = s.loadSetting(ctx, "points_icon", model.DefaultPointsIcon)

	migrated := s.migrateAssignedTo()
	s.mu.Unlock()

	if migrated {
		s.logger.Info("assigned_to migration rewrote chore assignments, persisting")
		return s.Save(ctx)
	}
	return nil
}

func loadCollection[T any](ctx context.Context, db *sql.DB, table string, decode func([]byte) T) ([]T, error) {
	rows, err := db.QueryContext(ctx, `SELECT data FROM `+table+` ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", table, err)
	}
	defer rows.Close()

	var records []T
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		records = append(records, decode(data))
	}
	return records, rows.Err()
}

func (s *Store) loadSetting(ctx context.Context, key, fallback string) string {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return fallback
	}
	if err != nil {
		s.logger.Warn("load setting failed, using default", "key", key, "error", err)
		return fallback
	}
	return value
}

// Save overwrites the persisted document with the in-memory state.
func (s *Store) Save(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := saveCollection(ctx, tx, "children", s.children, func(c model.Child) string { return c.ID }); err != nil {
		return err
	}
	if err := saveCollection(ctx, tx, "chores", s.chores, func(c model.Chore) string { return c.ID }); err != nil {
		return err
	}
	if err := saveCollection(ctx, tx, "rewards", s.rewards, func(r model.Reward) string { return r.ID }); err != nil {
		return err
	}
	if err := saveCollection(ctx, tx, "completions", s.completions, func(c model.ChoreCompletion) string { return c.ID }); err != nil {
		return err
	}
	if err := saveCollection(ctx, tx, "reward_claims", s.rewardClaims, func(c model.RewardClaim) string { return c.ID }); err != nil {
		return err
	}

	for key, value := range map[string]string{
		"points_name": s.pointsName,
		"points_icon": s.pointsIcon,
	} {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO settings (key, value) VALUES (?, ?)
			 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
			key, value,
		); err != nil {
			return fmt.Errorf("save setting %q: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}
	return nil
}

func saveCollection[T any](ctx context.Context, tx *sql.Tx, table string, records []T, id func(T) string) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
		return fmt.Errorf("clear %s: %w", table, err)
	}
	for _, record := range records {
		data, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("marshal %s record: %w", table, err)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO `+table+` (id, data) VALUES (?, ?)`, id(record), data); err != nil {
			return fmt.Errorf("insert %s record: %w", table, err)
		}
	}
	return nil
}

// document is the serialized shape of the whole store, used by export and
// restore.
type document struct {
	Children     []model.Child           `json:"children"`
	Chores       []model.Chore           `json:"chores"`
	Rewards      []model.Reward          `json:"rewards"`
	Completions  []model.ChoreCompletion `json:"completions"`
	RewardClaims []model.RewardClaim     `json:"reward_claims"`
	PointsName   string                  `json:"points_name"`
	PointsIcon   string                  `json:"points_icon"`
}

// ExportJSON serializes the whole document for backup.
func (s *Store) ExportJSON() ([]byte, error) {
	s.mu.RLock()
	doc := document{
		Children:     append([]model.Child(nil), s.children...),
		Chores:       append([]model.Chore(nil), s.chores...),
		Rewards:      append([]model.Reward(nil), s.rewards...),
		Completions:  append([]model.ChoreCompletion(nil), s.completions...),
		RewardClaims: append([]model.RewardClaim(nil), s.rewardClaims...),
		PointsName:   s.pointsName,
		PointsIcon:   s.pointsIcon,
	}
	s.mu.RUnlock()
	return json.MarshalIndent(doc, "", "  ")
}

// ImportJSON replaces the document with a previously exported one and
// persists it. Individual records are decoded tolerantly.
func (s *Store) ImportJSON(ctx context.Context, data []byte) error {
	var raw struct {
		Children     []json.RawMessage `json:"children"`
		Chores       []json.RawMessage `json:"chores"`
		Rewards      []json.RawMessage `json:"rewards"`
		Completions  []json.RawMessage `json:"completions"`
		RewardClaims []json.RawMessage `json:"reward_claims"`
		PointsName   string            `json:"points_name"`
		PointsIcon   string            `json:"points_icon"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parse document: %w", err)
	}

	s.mu.Lock()
	s.children = decodeAll(raw.Children, model.ChildFromJSON)
	s.chores = decodeAll(raw.Chores, model.ChoreFromJSON)
	s.rewards = decodeAll(raw.Rewards, model.RewardFromJSON)
	s.completions = decodeAll(raw.Completions, model.CompletionFromJSON)
	s.rewardClaims = decodeAll(raw.RewardClaims, model.ClaimFromJSON)
	s.pointsName = raw.PointsName
	s.pointsIcon = raw.PointsIcon
	if s.pointsName == "" {
		s.pointsName = model.DefaultPointsName
	}
	if s.pointsIcon == "" {
		s.pointsIcon = model.DefaultPointsIcon
	}
	s.migrateAssignedTo()
	s.mu.Unlock()

	return s.Save(ctx)
}

func decodeAll[T any](raw []json.RawMessage, decode func([]byte) T) []T {
	records := make([]T, 0, len(raw))
	for _, r := range raw {
		records = append(records, decode(r))
	}
	return records
}
