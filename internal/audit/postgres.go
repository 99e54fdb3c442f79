package audit

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// db is the subset of pgxpool.Pool the recorder needs. pgxmock satisfies
// it in tests.
type db interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Ping(ctx context.Context) error
	Close()
}

// PostgresRecorder persists audit entries in Postgres.
//
// Expected schema:
//
//	CREATE TABLE operation_audit (
//	    id BIGSERIAL PRIMARY KEY,
//	    operation TEXT NOT NULL,
//	    kind TEXT NOT NULL,
//	    resource_id TEXT,
//	    outcome TEXT NOT NULL,
//	    detail TEXT,
//	    recorded_at TIMESTAMPTZ NOT NULL
//	);
type PostgresRecorder struct {
	pool db
}

// NewPostgresRecorder connects a pool and pings it to fail fast on bad DSNs.
func NewPostgresRecorder(ctx context.Context, dsn string) (*PostgresRecorder, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create audit pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping audit database: %w", err)
	}
	return &PostgresRecorder{pool: pool}, nil
}

// Record inserts one entry.
func (r *PostgresRecorder) Record(ctx context.Context, e Entry) error {
	query := `
		INSERT INTO operation_audit (operation, kind, resource_id, outcome, detail, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	if _, err := r.pool.Exec(ctx, query, e.Operation, e.Kind, e.ResourceID, e.Outcome, e.Detail, e.At); err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

// Close releases the underlying pool.
func (r *PostgresRecorder) Close() {
	r.pool.Close()
}
