package pgx

import (
	"context"
	"sync"

	pgxv5 "github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type pgxIConn interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, optionsAndArgs ...any) (pgxv5.Rows, error)
	QueryRow(ctx context.Context, sql string, optionsAndArgs ...any) pgxv5.Row
	SendBatch(ctx context.Context, b *pgxv5.Batch) pgxv5.BatchResults
}

// CitationDBStorage implements the CitationStorage interface on PostgreSQL.
// Reads run lock-free; the write path is serialized with a mutex because
// index runs fan out extraction across workers but must commit through a
// single writer to keep the edge uniqueness constraint cheap.
type CitationDBStorage struct {
	conn   pgxIConn
	dbLock sync.Mutex
}

// NewCitationDBStorage creates a CitationDBStorage on an existing
// connection or pool.
func NewCitationDBStorage(conn pgxIConn) *CitationDBStorage {
	return &CitationDBStorage{
		conn: conn,
	}
}

// Exists reports whether the citations table has been created. Migrations
// run in the index build path, not the API server, so a fresh database
// reads as "not built" until the first index run completes.
func (s *CitationDBStorage) Exists(ctx context.Context) (bool, error) {
	var exists bool
	err := s.conn.QueryRow(ctx, `SELECT to_regclass('public.citations') IS NOT NULL`).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}
