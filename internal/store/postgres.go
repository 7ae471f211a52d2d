package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gardenplan/planner/internal/typeid"
)

const schema = `
CREATE TABLE IF NOT EXISTS plans (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS plan_snapshots (
	id         TEXT PRIMARY KEY,
	plan_id    TEXT NOT NULL REFERENCES plans(id) ON DELETE CASCADE,
	version    INTEGER NOT NULL,
	document   JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (plan_id, version)
);
`

// PostgresStore is the production store.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects, pings and creates the schema if missing.
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) CreatePlan(ctx context.Context, id, name string) (*Plan, error) {
	var p Plan
	err := s.pool.QueryRow(ctx,
		`INSERT INTO plans (id, name) VALUES ($1, $2)
		 RETURNING id, name, created_at, updated_at`,
		id, name,
	).Scan(&p.ID, &p.Name, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("create plan: %w", err)
	}
	return &p, nil
}

func (s *PostgresStore) GetPlan(ctx context.Context, id string) (*Plan, error) {
	var p Plan
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, created_at, updated_at FROM plans WHERE id = $1`, id,
	).Scan(&p.ID, &p.Name, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get plan: %w", err)
	}
	return &p, nil
}

func (s *PostgresStore) ListPlans(ctx context.Context) ([]Plan, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, created_at, updated_at FROM plans ORDER BY updated_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	plans, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Plan, error) {
		var p Plan
		err := row.Scan(&p.ID, &p.Name, &p.CreatedAt, &p.UpdatedAt)
		return p, err
	})
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	return plans, nil
}

func (s *PostgresStore) DeletePlan(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM plans WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete plan: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) SaveSnapshot(ctx context.Context, planID string, doc json.RawMessage) (*Snapshot, error) {
	snap := Snapshot{ID: typeid.NewSnapshotID(), PlanID: planID, Document: doc}
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		// Lock the plan row so concurrent saves get distinct versions.
		var locked string
		if err := tx.QueryRow(ctx, `SELECT id FROM plans WHERE id = $1 FOR UPDATE`, planID).Scan(&locked); err != nil {
			return err
		}
		if err := tx.QueryRow(ctx,
			`INSERT INTO plan_snapshots (id, plan_id, version, document)
			 SELECT $1, $2, COALESCE(MAX(version), 0) + 1, $3
			 FROM plan_snapshots WHERE plan_id = $2
			 RETURNING version, created_at`,
			snap.ID, planID, []byte(doc),
		).Scan(&snap.Version, &snap.CreatedAt); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, `UPDATE plans SET updated_at = $2 WHERE id = $1`, planID, snap.CreatedAt)
		return err
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.Is(err, pgx.ErrNoRows) || (errors.As(err, &pgErr) && pgErr.Code == "23503") {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("save snapshot: %w", err)
	}
	return &snap, nil
}

func (s *PostgresStore) LatestSnapshot(ctx context.Context, planID string) (*Snapshot, error) {
	var snap Snapshot
	err := s.pool.QueryRow(ctx,
		`SELECT id, plan_id, version, document, created_at FROM plan_snapshots
		 WHERE plan_id = $1 ORDER BY version DESC LIMIT 1`, planID,
	).Scan(&snap.ID, &snap.PlanID, &snap.Version, &snap.Document, &snap.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get snapshot: %w", err)
	}
	return &snap, nil
}

func (s *PostgresStore) Close() { s.pool.Close() }
