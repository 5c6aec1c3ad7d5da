package storage

import (
	"context"
	"time"
)

type Repository interface {
	RecordSession(ctx context.Context, in Session) (int64, error)
	ListSessions(ctx context.Context, filter SessionListFilter) ([]Session, error)
	Summarize(ctx context.Context, since time.Time) (Summary, error)
}
