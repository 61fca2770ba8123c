package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/example/icecheck/internal/domain/facility"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Open connects to the directory database (the Supabase Postgres instance).
func Open(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse DATABASE_URL: %w", err)
	}
	cfg.MaxConns = 4
	cfg.MaxConnLifetime = 5 * time.Minute
	cfg.MaxConnIdleTime = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return pool, nil
}

// Querier is satisfied by *pgxpool.Pool, *pgxpool.Conn and pgx.Tx.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// FacilityRepo reads the "facilities" and "defaultFacilities" tables.
type FacilityRepo struct{ db Querier }

func NewFacilityRepo(db Querier) *FacilityRepo { return &FacilityRepo{db: db} }

func (r *FacilityRepo) Facilities(ctx context.Context) ([]facility.Facility, error) {
	rows, err := r.db.Query(ctx, `SELECT "ExtID"::bigint, "Description" FROM facilities ORDER BY "Description"`)
	if err != nil {
		return nil, fmt.Errorf("query facilities: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (facility.Facility, error) {
		var f facility.Facility
		err := row.Scan(&f.ExtID, &f.Description)
		return f, err
	})
}

func (r *FacilityRepo) DefaultIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.db.Query(ctx, `SELECT "ExtID"::bigint FROM "defaultFacilities"`)
	if err != nil {
		return nil, fmt.Errorf("query default facilities: %w", err)
	}
	return pgx.CollectRows(rows, pgx.RowTo[int64])
}
