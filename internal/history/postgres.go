package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

const createRunsTable = `
CREATE TABLE IF NOT EXISTS nudge_runs (
	id               UUID PRIMARY KEY,
	file_name        TEXT NOT NULL,
	created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
	timestamp_policy TEXT NOT NULL,
	bytes            BIGINT NOT NULL DEFAULT 0,
	summary          JSONB NOT NULL,
	issues           JSONB,
	start_csv        BYTEA NOT NULL,
	stop_csv         BYTEA NOT NULL
);
CREATE INDEX IF NOT EXISTS nudge_runs_created_at_idx ON nudge_runs (created_at DESC);
`

const runColumns = `id, file_name, created_at, timestamp_policy, bytes, summary, issues`

// PostgresStore keeps runs in the nudge_runs table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore wraps an open pool. Call Migrate before first use.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Migrate creates the runs table if it does not exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, createRunsTable); err != nil {
		return fmt.Errorf("create nudge_runs: %w", err)
	}
	return nil
}

func (s *PostgresStore) Save(ctx context.Context, run *Run) error {
	id, err := toPgUUID(run.ID)
	if err != nil {
		return err
	}
	summary, err := json.Marshal(run.Summary)
	if err != nil {
		return fmt.Errorf("encode summary: %w", err)
	}
	var issues []byte
	if len(run.Issues) > 0 {
		if issues, err = json.Marshal(run.Issues); err != nil {
			return fmt.Errorf("encode issues: %w", err)
		}
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO nudge_runs (id, file_name, created_at, timestamp_policy, bytes, summary, issues, start_csv, stop_csv)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		id,
		run.FileName,
		pgtype.Timestamptz{Time: run.CreatedAt, Valid: true},
		run.TimestampPolicy,
		run.Bytes,
		summary,
		issues,
		run.StartCSV,
		run.StopCSV,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (*Run, error) {
	pgID, err := toPgUUID(id)
	if err != nil {
		return nil, ErrNotFound
	}

	row := s.pool.QueryRow(ctx,
		`SELECT `+runColumns+`, start_csv, stop_csv FROM nudge_runs WHERE id = $1`, pgID)

	run, err := scanRun(row, true)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	return run, nil
}

func (s *PostgresStore) List(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = DefaultCapacity
	}

	rows, err := s.pool.Query(ctx,
		`SELECT `+runColumns+` FROM nudge_runs ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		run, err := scanRun(rows, false)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		out = append(out, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return out, nil
}

func scanRun(row pgx.Row, withFiles bool) (*Run, error) {
	var (
		id        pgtype.UUID
		createdAt pgtype.Timestamptz
		summary   []byte
		issues    []byte
		run       Run
	)

	dest := []any{&id, &run.FileName, &createdAt, &run.TimestampPolicy, &run.Bytes, &summary, &issues}
	if withFiles {
		dest = append(dest, &run.StartCSV, &run.StopCSV)
	}
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	run.ID = uuidToString(id)
	run.CreatedAt = createdAt.Time
	if err := json.Unmarshal(summary, &run.Summary); err != nil {
		return nil, fmt.Errorf("decode summary: %w", err)
	}
	if len(issues) > 0 {
		if err := json.Unmarshal(issues, &run.Issues); err != nil {
			return nil, fmt.Errorf("decode issues: %w", err)
		}
	}
	return &run, nil
}

func toPgUUID(s string) (pgtype.UUID, error) {
	parsed, err := uuid.Parse(s)
	if err != nil {
		return pgtype.UUID{}, fmt.Errorf("invalid run id %q: %w", s, err)
	}
	return pgtype.UUID{Bytes: parsed, Valid: true}, nil
}

func uuidToString(u pgtype.UUID) string {
	if !u.Valid {
		return ""
	}
	return uuid.UUID(u.Bytes).String()
}
