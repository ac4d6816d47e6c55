// Package model defines the records of the chore/reward economy and their
// persisted JSON shapes. Decoding is deliberately tolerant: absent fields
// fall back to defaults and malformed records decode to a defaulted value
// instead of failing a whole document load.
package model

import (
	"github.com/google/uuid"
)

// Default settings for the point currency.
const (
	DefaultPointsName = "Stars"
	DefaultPointsIcon = "mdi:star"
)

// DaysOfWeek lists the values accepted in a chore's due_days set.
var DaysOfWeek = []string{
	"monday",
	"tuesday",
	"wednesday",
	"thursday",
	"friday",
	"saturday",
	"sunday",
}

// TimeCategories lists the valid time-of-day buckets for a chore.
var TimeCategories = []string{
	"morning",
	"afternoon",
	"evening",
	"night",
	"anytime",
}

// NewID returns a fresh opaque record identifier.
func NewID() string {
	return uuid.NewString()[:8]
}
