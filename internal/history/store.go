// Package history persists finished calculations so operators can review
// what the planner recommended. The service runs without it when no
// database is configured.
package history

import (
	"context"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// NewPool opens a pgx pool with shopspring decimal support wired into
// every connection.
func NewPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}

	cfg.MaxConns = 5
	cfg.MinConns = 1
	cfg.MaxConnLifetime = 30 * time.Minute
	cfg.AfterConnect = func(_ context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}

	return pgxpool.NewWithConfig(ctx, cfg)
}

// Run is one stored calculation outcome.
type Run struct {
	ID              uuid.UUID
	CreatedAt       time.Time
	Principal       decimal.Decimal
	TotalDays       int
	StartDate       civil.Date
	MonthEnd        civil.Date
	BestStrategy    string
	TotalInterest   decimal.Decimal
	AverageRate     decimal.Decimal
	CrossesMonthEnd bool
	SegmentCount    int
}

type Store struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewStore(db *pgxpool.Pool, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{db: db, logger: logger.Named("History")}
}

func (s *Store) EnsureSchema(ctx context.Context) error {
	const q = `
CREATE TABLE IF NOT EXISTS plan_runs (
    id                UUID PRIMARY KEY,
    created_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
    principal         NUMERIC(24,2) NOT NULL,
    total_days        INT NOT NULL,
    start_date        DATE NOT NULL,
    month_end         DATE NOT NULL,
    best_strategy     TEXT NOT NULL,
    total_interest    NUMERIC(24,4) NOT NULL,
    average_rate      NUMERIC(8,4) NOT NULL,
    crosses_month_end BOOLEAN NOT NULL,
    segment_count     INT NOT NULL
);
CREATE INDEX IF NOT EXISTS plan_runs_created_at_idx ON plan_runs (created_at);
`
	if _, err := s.db.Exec(ctx, q); err != nil {
		return err
	}
	s.logger.Debug("plan_runs schema ready")
	return nil
}

// RecordRun inserts one run. A zero ID is replaced with a fresh UUID.
func (s *Store) RecordRun(ctx context.Context, r Run) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}

	const q = `
INSERT INTO plan_runs
  (id, principal, total_days, start_date, month_end, best_strategy,
   total_interest, average_rate, crosses_month_end, segment_count)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
`
	_, err := s.db.Exec(ctx, q,
		r.ID,
		r.Principal,
		r.TotalDays,
		r.StartDate.In(time.UTC),
		r.MonthEnd.In(time.UTC),
		r.BestStrategy,
		r.TotalInterest,
		r.AverageRate,
		r.CrossesMonthEnd,
		r.SegmentCount,
	)
	return err
}

// RecentRuns returns the newest runs first.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	const q = `
SELECT id, created_at, principal, total_days, start_date, month_end,
       best_strategy, total_interest, average_rate, crosses_month_end, segment_count
FROM plan_runs
ORDER BY created_at DESC, id
LIMIT $1
`
	rows, err := s.db.Query(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var (
			r         Run
			startDate time.Time
			monthEnd  time.Time
		)
		if err := rows.Scan(
			&r.ID,
			&r.CreatedAt,
			&r.Principal,
			&r.TotalDays,
			&startDate,
			&monthEnd,
			&r.BestStrategy,
			&r.TotalInterest,
			&r.AverageRate,
			&r.CrossesMonthEnd,
			&r.SegmentCount,
		); err != nil {
			return nil, err
		}
		r.StartDate = civil.DateOf(startDate)
		r.MonthEnd = civil.DateOf(monthEnd)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteRunsBefore removes runs older than cutoff and reports how many
// rows went away.
func (s *Store) DeleteRunsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	const q = `
DELETE FROM plan_runs
WHERE created_at < $1
`
	tag, err := s.db.Exec(ctx, q, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}
