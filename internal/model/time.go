package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// UTCTime is a timestamp that persists as an RFC 3339 string in UTC with an
// explicit "Z" marker. Legacy documents may contain naive timestamps (no
// offset); those are assumed to already be UTC.
type UTCTime struct {
	time.Time
}

// NewUTCTime converts t to UTC and wraps it.
func NewUTCTime(t time.Time) UTCTime {
	return UTCTime{t.UTC()}
}

func (t UTCTime) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.UTC().Format(time.RFC3339))
}

func (t *UTCTime) UnmarshalJSON(data []byte) error {
	var s *string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == nil || *s == "" {
		t.Time = time.Time{}
		return nil
	}
	parsed, err := parseTimestamp(*s)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05.999999999", // naive, assume UTC
	"2006-01-02T15:04:05",
}

func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}
