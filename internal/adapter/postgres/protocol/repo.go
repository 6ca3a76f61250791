// Package protocol implements the daily protocol counter repository.
// Counter rows are keyed by calendar day and hold a strictly increasing
// counter starting at 1. The read-increment-write sequence runs under a
// row lock (SELECT ... FOR UPDATE), so it must be executed inside a
// transaction via postgres.TxManager to be atomic.
package protocol

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/imago-sys/occurrence-backend/internal/adapter/postgres"
)

// Repo provides protocol counter persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new protocol counter repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const (
	lockCounterSQL = `SELECT counter FROM protocol_counters WHERE date_key = $1 FOR UPDATE`

	// The insert upserts: two transactions racing on a day's first protocol
	// both miss the FOR UPDATE select, and the loser of the insert race must
	// increment instead of failing.
	insertCounterSQL = `INSERT INTO protocol_counters (date_key, counter) VALUES ($1, 1)
		ON CONFLICT (date_key) DO UPDATE SET counter = protocol_counters.counter + 1
		RETURNING counter`

	updateCounterSQL = `UPDATE protocol_counters SET counter = $2 WHERE date_key = $1`
)

// Next increments and returns the counter for the given date key, creating
// the row with value 1 on the day's first call. Counter rows are never
// deleted. The caller must run this inside TxManager.RunInTx: the FOR UPDATE
// lock is what serializes concurrent finalizations on the same day, and it
// only holds until that transaction commits.
func (r *Repo) Next(ctx context.Context, dateKey string) (int, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var counter int
	err := q.QueryRow(ctx, lockCounterSQL, dateKey).Scan(&counter)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		if err := q.QueryRow(ctx, insertCounterSQL, dateKey).Scan(&counter); err != nil {
			return 0, postgres.MapError(err, "protocol_counter", dateKey)
		}
		return counter, nil
	case err != nil:
		return 0, postgres.MapError(err, "protocol_counter", dateKey)
	}

	counter++
	if _, err := q.Exec(ctx, updateCounterSQL, dateKey, counter); err != nil {
		return 0, postgres.MapError(err, "protocol_counter", dateKey)
	}
	return counter, nil
}

// Current returns the counter value for the date key without incrementing,
// or 0 if no protocol has been issued that day.
func (r *Repo) Current(ctx context.Context, dateKey string) (int, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var counter int
	err := q.QueryRow(ctx, `SELECT counter FROM protocol_counters WHERE date_key = $1`, dateKey).Scan(&counter)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, postgres.MapError(err, "protocol_counter", dateKey)
	}
	return counter, nil
}
