// Package postgres stores arena characters in PostgreSQL using pgx v5.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/arena/internal/config"
)

const (
	applicationName = "arena"

	// healthTimeout bounds every readiness ping, including the one NewPool
	// issues before returning.
	healthTimeout = 2 * time.Second
)

// Pool owns the pgx connection pool shared by the character repository and
// answers the store's readiness checks.
type Pool struct {
	pool    *pgxpool.Pool
	timeout time.Duration
}

// NewPool connects to the database described by cfg and verifies it answers
// a ping.
//
// Precondition: cfg must describe a reachable database.
// Postcondition: Returns a connected Pool or a non-nil error; no connections
// are left open on error.
func NewPool(ctx context.Context, cfg config.DatabaseConfig) (*Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parsing database config: %w", err)
	}
	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	poolCfg.ConnConfig.RuntimeParams["application_name"] = applicationName

	db, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	p := &Pool{pool: db, timeout: healthTimeout}
	if err := p.Health(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return p, nil
}

// Health pings the database, giving up after the pool's health timeout.
func (p *Pool) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	return p.pool.Ping(ctx)
}

// Close releases every connection. It is safe to call more than once.
func (p *Pool) Close() {
	p.pool.Close()
}

// DB exposes the pgx pool for query execution.
func (p *Pool) DB() *pgxpool.Pool {
	return p.pool
}
