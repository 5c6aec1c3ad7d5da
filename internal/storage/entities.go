package storage

import "time"

type SessionKind string

const (
	KindCompleted SessionKind = "completed"
	KindAbandoned SessionKind = "abandoned"
)

func (k SessionKind) Valid() bool {
	return k == KindCompleted || k == KindAbandoned
}

// Session is one finished countdown. Number is the completed-session count
// at the time it was recorded.
type Session struct {
	ID          int64
	Number      int
	Kind        SessionKind
	DurationSec int
	ElapsedSec  int
	FinishedAt  time.Time
}

type SessionListFilter struct {
	Since  *time.Time
	Kind   SessionKind
	Limit  int
	Offset int
}

type Summary struct {
	Completed    int
	Abandoned    int
	FocusSeconds int
}
