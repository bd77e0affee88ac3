// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package postgres provides the managed PostgreSQL connection pool that backs
// the post repository and the readiness probe.
package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/yomira-blog/internal/platform/constants"
)

const (
	// A list request holds two connections at once (page + count).
	defaultMaxConns = 20
	defaultMinConns = 2

	connLifetime = time.Hour
	connIdleTime = 10 * time.Minute
	healthPeriod = time.Minute

	connectTimeout = 5 * time.Second
	pingTimeout    = 2 * time.Second
)

// Options tunes the pool. Zero values keep the defaults.
type Options struct {
	MaxConns int32
	MinConns int32

	// ApplicationName is reported in pg_stat_activity.
	ApplicationName string
}

/*
NewPool creates and validates a PostgreSQL connection pool.

Description: Every physical connection gets a statement timeout equal to the
global request timeout and the blog schema first on its search_path.

Parameters:
  - ctx: Context for the initial connection attempt
  - dsn: A libpq-compatible connection string or postgres:// URL
  - logger: Structured logger for pool-level events
  - opts: Optional tuning; at most the first value is used

Returns:
  - *pgxpool.Pool: A pool that answered a ping
  - error: DSN, connect or ping failures
*/
func NewPool(ctx context.Context, dsn string, logger *slog.Logger, opts ...Options) (*pgxpool.Pool, error) {
	options := Options{MaxConns: defaultMaxConns, MinConns: defaultMinConns, ApplicationName: constants.AppName}
	if len(opts) > 0 {
		options = options.merge(opts[0])
	}

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: invalid DSN: %w", err)
	}

	poolConfig.MaxConns = options.MaxConns
	poolConfig.MinConns = options.MinConns
	poolConfig.MaxConnLifetime = connLifetime
	poolConfig.MaxConnIdleTime = connIdleTime
	poolConfig.HealthCheckPeriod = healthPeriod
	poolConfig.ConnConfig.ConnectTimeout = connectTimeout
	poolConfig.ConnConfig.RuntimeParams["application_name"] = options.ApplicationName

	statementTimeout := fmt.Sprintf("SET statement_timeout = '%ds'", int(constants.GlobalRequestTimeout.Seconds()))
	searchPath := fmt.Sprintf("SET search_path = %s, public", constants.SchemaBlog)

	poolConfig.AfterConnect = func(ctx context.Context, connection *pgx.Conn) error {
		batch := &pgx.Batch{}
		batch.Queue(statementTimeout)
		batch.Queue(searchPath)
		return connection.SendBatch(ctx, batch).Close()
	}

	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to create pool: %w", err)
	}

	if err := Ping(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	logger.Info("postgres pool connected",
		slog.Int("max_conns", int(options.MaxConns)),
		slog.Int("total_conns", int(pool.Stat().TotalConns())),
	)

	return pool, nil
}

func (o Options) merge(override Options) Options {
	if override.MaxConns > 0 {
		o.MaxConns = override.MaxConns
	}
	if override.MinConns > 0 {
		o.MinConns = override.MinConns
	}
	o.MinConns = min(o.MinConns, o.MaxConns)
	if override.ApplicationName != "" {
		o.ApplicationName = override.ApplicationName
	}
	return o
}

// Ping verifies that the PostgreSQL connection pool is healthy.
func Ping(ctx context.Context, pool *pgxpool.Pool) error {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		return fmt.Errorf("postgres: ping failed: %w", err)
	}
	return nil
}
