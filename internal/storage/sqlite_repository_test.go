package storage

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"
)

func setupRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := OpenSQLite(MemoryDSN)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func parseRFC3339(t *testing.T, value string) time.Time {
	t.Helper()
	out, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatalf("parse time: %v", err)
	}
	return out
}

func TestRecordAndListSession(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	finished := parseRFC3339(t, "2026-02-09T12:25:00Z")

	id, err := repo.RecordSession(ctx, Session{
		Number:      1,
		Kind:        KindCompleted,
		DurationSec: 1500,
		ElapsedSec:  1500,
		FinishedAt:  finished,
	})
	if err != nil {
		t.Fatalf("record session: %v", err)
	}

	got, err := repo.ListSessions(ctx, SessionListFilter{})
	if err != nil {
		t.Fatalf("list sessions: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected one session, got %d", len(got))
	}
	s := got[0]
	if s.ID != id || s.Kind != KindCompleted || s.Number != 1 || s.DurationSec != 1500 || !s.FinishedAt.Equal(finished) {
		t.Fatalf("unexpected session: %+v", s)
	}
}

func TestRecordSessionValidates(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	now := parseRFC3339(t, "2026-02-09T12:00:00Z")

	if _, err := repo.RecordSession(ctx, Session{Kind: "skipped", DurationSec: 60, FinishedAt: now}); err == nil {
		t.Fatal("expected error for unknown kind")
	}
	if _, err := repo.RecordSession(ctx, Session{Kind: KindCompleted, DurationSec: 0, FinishedAt: now}); err == nil {
		t.Fatal("expected error for zero duration")
	}
}

func TestListSessionsFiltersAndOrders(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	base := parseRFC3339(t, "2026-02-09T08:00:00Z")

	seed := []Session{
		{Number: 0, Kind: KindAbandoned, DurationSec: 1500, ElapsedSec: 300, FinishedAt: base.Add(-24 * time.Hour)},
		{Number: 1, Kind: KindCompleted, DurationSec: 1500, ElapsedSec: 1500, FinishedAt: base.Add(time.Hour)},
		{Number: 1, Kind: KindAbandoned, DurationSec: 2700, ElapsedSec: 60, FinishedAt: base.Add(2 * time.Hour)},
		{Number: 2, Kind: KindCompleted, DurationSec: 3600, ElapsedSec: 3600, FinishedAt: base.Add(90 * time.Minute)},
	}
	for _, s := range seed {
		if _, err := repo.RecordSession(ctx, s); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	all, err := repo.ListSessions(ctx, SessionListFilter{})
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("expected 4 sessions, got %d", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i].FinishedAt.Before(all[i-1].FinishedAt) {
			t.Fatalf("sessions not ordered by finish time: %+v", all)
		}
	}

	completed, err := repo.ListSessions(ctx, SessionListFilter{Since: &base, Kind: KindCompleted})
	if err != nil {
		t.Fatalf("list completed: %v", err)
	}
	if len(completed) != 2 || completed[0].Number != 1 || completed[1].Number != 2 {
		t.Fatalf("unexpected completed sessions: %+v", completed)
	}

	page, err := repo.ListSessions(ctx, SessionListFilter{Limit: 2, Offset: 1})
	if err != nil {
		t.Fatalf("list page: %v", err)
	}
	if len(page) != 2 || page[0].Number != 1 || page[0].Kind != KindCompleted {
		t.Fatalf("unexpected page: %+v", page)
	}

	tail, err := repo.ListSessions(ctx, SessionListFilter{Offset: 3})
	if err != nil {
		t.Fatalf("list offset only: %v", err)
	}
	if len(tail) != 1 || tail[0].Kind != KindAbandoned {
		t.Fatalf("unexpected offset-only page: %+v", tail)
	}
}

func TestSummarize(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	day := parseRFC3339(t, "2026-02-09T00:00:00Z")

	empty, err := repo.Summarize(ctx, day)
	if err != nil {
		t.Fatalf("summarize empty: %v", err)
	}
	if empty != (Summary{}) {
		t.Fatalf("expected zero summary, got %+v", empty)
	}

	for _, s := range []Session{
		{Number: 1, Kind: KindCompleted, DurationSec: 1500, ElapsedSec: 1500, FinishedAt: day.Add(9 * time.Hour)},
		{Number: 2, Kind: KindCompleted, DurationSec: 1500, ElapsedSec: 1500, FinishedAt: day.Add(10 * time.Hour)},
		{Number: 2, Kind: KindAbandoned, DurationSec: 1500, ElapsedSec: 120, FinishedAt: day.Add(11 * time.Hour)},
		{Number: 0, Kind: KindCompleted, DurationSec: 1500, ElapsedSec: 1500, FinishedAt: day.Add(-time.Hour)},
	} {
		if _, err := repo.RecordSession(ctx, s); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	got, err := repo.Summarize(ctx, day)
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	want := Summary{Completed: 2, Abandoned: 1, FocusSeconds: 3120}
	if got != want {
		t.Fatalf("summary = %+v, want %+v", got, want)
	}
}

func TestSubSecondTimestampsSortInOrder(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	whole := parseRFC3339(t, "2026-02-09T12:00:00Z")
	frac := whole.Add(500 * time.Millisecond)

	for _, at := range []time.Time{frac, whole} {
		if _, err := repo.RecordSession(ctx, Session{Kind: KindCompleted, DurationSec: 60, ElapsedSec: 60, FinishedAt: at}); err != nil {
			t.Fatalf("record: %v", err)
		}
	}
	since := whole.Add(100 * time.Millisecond)
	got, err := repo.ListSessions(ctx, SessionListFilter{Since: &since})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || !got[0].FinishedAt.Equal(frac) {
		t.Fatalf("expected only the fractional timestamp, got %+v", got)
	}
}

func TestMigrateUpOnFileDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "journal.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()

	for i := 0; i < 2; i++ {
		if err := MigrateUp(db); err != nil {
			t.Fatalf("migrate up #%d: %v", i+1, err)
		}
	}
	var applied int
	if err := db.QueryRow(`SELECT COUNT(*) FROM schema_migrations`).Scan(&applied); err != nil {
		t.Fatalf("count migrations: %v", err)
	}
	if applied != 1 {
		t.Fatalf("expected one recorded migration, got %d", applied)
	}

	repo, err := NewSQLiteRepository(db)
	if err != nil {
		t.Fatalf("new repo: %v", err)
	}
	now := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	if _, err := repo.RecordSession(t.Context(), Session{Number: 1, Kind: KindCompleted, DurationSec: 1500, ElapsedSec: 1500, FinishedAt: now}); err != nil {
		t.Fatalf("insert after migrate failed: %v", err)
	}
}

func TestMigrateUpIsIdempotent(t *testing.T) {
	repo := setupRepo(t)
	if _, err := repo.RecordSession(context.Background(), Session{Number: 1, Kind: KindCompleted, DurationSec: 60, ElapsedSec: 60, FinishedAt: time.Now()}); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := MigrateUp(repo.db); err != nil {
		t.Fatalf("second migrate up: %v", err)
	}
	got, err := repo.ListSessions(context.Background(), SessionListFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("re-running migrations must keep data, got %d sessions", len(got))
	}
}
