package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Fixed width so stored timestamps sort lexically.
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// MemoryDSN keeps the journal for the life of the process only.
const MemoryDSN = ":memory:"

type SQLiteRepository struct {
	db *sql.DB
}

var _ Repository = (*SQLiteRepository)(nil)

func NewSQLiteRepository(db *sql.DB) (*SQLiteRepository, error) {
	if db == nil {
		return nil, errors.New("storage: nil db")
	}
	return &SQLiteRepository{db: db}, nil
}

// OpenSQLite opens path and applies migrations. Every connection to
// ":memory:" is a separate database, so the pool is pinned to one.
func OpenSQLite(path string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)
	if err := MigrateUp(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	repo, err := NewSQLiteRepository(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepository) RecordSession(ctx context.Context, in Session) (int64, error) {
	if !in.Kind.Valid() {
		return 0, fmt.Errorf("storage: invalid session kind %q", in.Kind)
	}
	if in.DurationSec <= 0 {
		return 0, fmt.Errorf("storage: invalid duration %d", in.DurationSec)
	}
	if in.ElapsedSec < 0 {
		in.ElapsedSec = 0
	}
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO sessions (number, kind, duration_sec, elapsed_sec, finished_at)
		VALUES (?, ?, ?, ?, ?)`,
		in.Number, string(in.Kind), in.DurationSec, in.ElapsedSec, mustTime(in.FinishedAt),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *SQLiteRepository) ListSessions(ctx context.Context, filter SessionListFilter) ([]Session, error) {
	query := `SELECT id, number, kind, duration_sec, elapsed_sec, finished_at FROM sessions WHERE 1=1`
	args := []any{}
	if filter.Since != nil {
		query += ` AND finished_at >= ?`
		args = append(args, mustTime(*filter.Since))
	}
	if filter.Kind != "" {
		query += ` AND kind = ?`
		args = append(args, string(filter.Kind))
	}
	query += ` ORDER BY finished_at ASC, id ASC`
	query += applyPagination(&args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Session{}
	for rows.Next() {
		s, scanErr := scanSession(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Summarize counts sessions finished at or after since. FocusSeconds sums
// elapsed time across both kinds.
func (r *SQLiteRepository) Summarize(ctx context.Context, since time.Time) (Summary, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT
			COALESCE(SUM(CASE WHEN kind = 'completed' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN kind = 'abandoned' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(elapsed_sec), 0)
		FROM sessions WHERE finished_at >= ?`, mustTime(since))
	var out Summary
	if err := row.Scan(&out.Completed, &out.Abandoned, &out.FocusSeconds); err != nil {
		return Summary{}, err
	}
	return out, nil
}

func mustTime(v time.Time) string {
	return v.UTC().Format(sqliteTimeLayout)
}

func parseRequiredTime(v string) (time.Time, error) {
	return time.Parse(sqliteTimeLayout, v)
}

func applyPagination(args *[]any, limit, offset int) string {
	sql := ""
	if limit > 0 {
		sql += " LIMIT ?"
		*args = append(*args, limit)
	}
	if offset > 0 {
		if limit <= 0 {
			sql += " LIMIT -1"
		}
		sql += " OFFSET ?"
		*args = append(*args, offset)
	}
	return sql
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSession(s scanner) (Session, error) {
	var out Session
	var kind string
	var finished string
	if err := s.Scan(&out.ID, &out.Number, &kind, &out.DurationSec, &out.ElapsedSec, &finished); err != nil {
		return Session{}, err
	}
	out.Kind = SessionKind(kind)
	tm, err := parseRequiredTime(finished)
	if err != nil {
		return Session{}, err
	}
	out.FinishedAt = tm
	return out, nil
}
