// Package database centralises sqlx connection helpers.  The driver is
// go-sql-driver/mysql, which also works with MariaDB and TiDB.
//
// Public entry points:
//
//	Open(ctx, dsn)                  – process-wide pool with default Options.
//	OpenWithOptions(ctx, dsn, opts) – fine-grained pool and retry control.
//	DSN(template, password)         – fills the password into a DSN template.
//
// Both helpers Ping the database before returning so callers can fail fast
// during bootstrap.  A cold database during a rolling deploy is common, so
// the ping is retried with linear backoff.  Callers should Close() the
// returned *sqlx.DB when no longer needed.
package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// Options tunes the pool.  Zero fields fall back to DefaultOptions.
type Options struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	Retries         int
	RetryBackoff    time.Duration
}

// DefaultOptions suits a read-mostly edge service: the engine issues short
// point lookups, so a small pool is enough.
var DefaultOptions = Options{
	MaxOpenConns:    15,
	MaxIdleConns:    5,
	ConnMaxLifetime: 30 * time.Minute,
	Retries:         3,
	RetryBackoff:    500 * time.Millisecond,
}

// Open returns a *sqlx.DB with DefaultOptions.
func Open(ctx context.Context, dsn string) (*sqlx.DB, error) {
	return OpenWithOptions(ctx, dsn, DefaultOptions)
}

// OpenWithOptions opens a pool and pings it, retrying up to opts.Retries
// extra times.
func OpenWithOptions(ctx context.Context, dsn string, opts Options) (*sqlx.DB, error) {
	opts = opts.withDefaults()

	db, err := sqlx.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(opts.MaxOpenConns)
	db.SetMaxIdleConns(opts.MaxIdleConns)
	db.SetConnMaxLifetime(opts.ConnMaxLifetime)

	var pingErr error
	for attempt := 0; attempt <= opts.Retries; attempt++ {
		if pingErr = db.PingContext(ctx); pingErr == nil {
			return db, nil
		}
		zap.S().Warnw("database ping failed", "attempt", attempt+1, "err", pingErr)

		select {
		case <-ctx.Done():
			_ = db.Close()
			return nil, ctx.Err()
		case <-time.After(opts.RetryBackoff * time.Duration(attempt+1)):
		}
	}
	_ = db.Close()
	return nil, fmt.Errorf("database: ping after %d attempts: %w", opts.Retries+1, pingErr)
}

func (o Options) withDefaults() Options {
	if o.MaxOpenConns <= 0 {
		o.MaxOpenConns = DefaultOptions.MaxOpenConns
	}
	if o.MaxIdleConns <= 0 {
		o.MaxIdleConns = DefaultOptions.MaxIdleConns
	}
	if o.ConnMaxLifetime <= 0 {
		o.ConnMaxLifetime = DefaultOptions.ConnMaxLifetime
	}
	if o.Retries < 0 {
		o.Retries = 0
	}
	if o.RetryBackoff <= 0 {
		o.RetryBackoff = DefaultOptions.RetryBackoff
	}
	return o
}

// DSN returns template with password filled in.  The template carries one
// `%s` placeholder where the password goes; the password is set on the
// parsed config rather than formatted into the string, so neither stray
// verbs nor escapes in the template can echo it elsewhere.  Errors never
// include the password.
func DSN(template, password string) (string, error) {
	if strings.Count(template, "%s") != 1 {
		return "", errors.New("database: dsn must contain exactly one %s placeholder")
	}
	cfg, err := mysql.ParseDSN(strings.Replace(template, "%s", "", 1))
	if err != nil {
		return "", fmt.Errorf("database: parse dsn: %w", err)
	}
	cfg.Passwd = password
	return cfg.FormatDSN(), nil
}
