package model

import (
	"encoding/json"
	"time"
)

// ChoreCompletion records one child performing one chore once.
// PointsAwarded stays zero until the completion is approved.
type ChoreCompletion struct {
	ChoreID       string   `json:"chore_id"`
	ChildID       string   `json:"child_id"`
	CompletedAt   UTCTime  `json:"completed_at"`
	Approved      bool     `json:"approved"`
	ApprovedAt    *UTCTime `json:"approved_at"`
	PointsAwarded int      `json:"points_awarded"`
	ID            string   `json:"id"`
}

// NewCompletion creates an unapproved completion record.
func NewCompletion(choreID, childID string, at time.Time) ChoreCompletion {
	return ChoreCompletion{
		ChoreID:     choreID,
		ChildID:     childID,
		CompletedAt: NewUTCTime(at),
		ID:          NewID(),
	}
}

// CompletionFromJSON decodes a persisted completion record. A missing
// completion timestamp falls back to the current time.
func CompletionFromJSON(data []byte) ChoreCompletion {
	var c ChoreCompletion
	if err := json.Unmarshal(data, &c); err != nil {
		c = ChoreCompletion{}
	}
	if c.CompletedAt.IsZero() {
		c.CompletedAt = NewUTCTime(time.Now())
	}
	if c.ID == "" {
		c.ID = NewID()
	}
	return c
}
