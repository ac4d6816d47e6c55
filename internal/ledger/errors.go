package ledger

import "fmt"

// NotFoundError reports that an operation referenced an entity that does not
// exist. Creation-side lookups fail with this error; approval-side lookups
// that miss are silent no-ops instead.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

// LimitExceededError reports that a chore's daily completion limit for a
// child has been reached.
type LimitExceededError struct {
	ChoreName string
	Count     int
	Limit     int
}

func (e *LimitExceededError) Error() string {
	return fmt.Sprintf("daily limit reached for chore %q: already completed %d time(s) today (limit: %d)",
		e.ChoreName, e.Count, e.Limit)
}

// InsufficientPointsError reports that a reward claim costs more than the
// child's current balance.
type InsufficientPointsError struct {
	Needed    int
	Available int
}

func (e *InsufficientPointsError) Error() string {
	return fmt.Sprintf("not enough points: need %d, have %d", e.Needed, e.Available)
}
