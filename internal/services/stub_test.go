package services

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// stubStore satisfies database.DBTX with canned row scans, one per QueryRow
// call in order. An exhausted stub reports no rows, so validation paths that
// never reach the store can run against an empty stub.
type stubStore struct {
	scans []func(dest ...any) error
	execs int
}

func (s *stubStore) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	s.execs++
	return pgconn.CommandTag{}, nil
}

func (s *stubStore) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, pgx.ErrNoRows
}

func (s *stubStore) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if len(s.scans) == 0 {
		return stubRow{scan: func(...any) error { return pgx.ErrNoRows }}
	}
	next := s.scans[0]
	s.scans = s.scans[1:]
	return stubRow{scan: next}
}

type stubRow struct {
	scan func(dest ...any) error
}

func (r stubRow) Scan(dest ...any) error {
	return r.scan(dest...)
}
