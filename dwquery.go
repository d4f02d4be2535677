// Package dwquery connects report code to the mine data warehouses over
// ODBC and shapes query results as ordered frames.
package dwquery

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/alexbrainman/odbc" // ODBC driver
	"go.uber.org/zap"

	"github.com/minereport/dwquery/internal/core"
	"github.com/minereport/dwquery/pkg/cache"
	"github.com/minereport/dwquery/pkg/config"
	"github.com/minereport/dwquery/pkg/frame"
)

// Engine wraps a pooled database handle for one project. It is safe for
// concurrent use; pooling and per-connection state belong to database/sql.
type Engine struct {
	db      *sql.DB
	project string
	log     *zap.Logger
	cache   *cache.Cache
	close   sync.Once
}

// Option adjusts engine construction.
type Option func(*Engine)

// WithLogger routes the engine's logs somewhere other than the default Nop.
func WithLogger(log *zap.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// WithCache substitutes the result cache used by QueryFrameCached.
func WithCache(c *cache.Cache) Option {
	return func(e *Engine) { e.cache = c }
}

// Open builds the connection string for a project and opens a pooled handle.
// The connection itself is established lazily on first use; call Ping to
// probe eagerly. Failures are logged once and returned wrapped in *Error.
func Open(project string, p config.Project, opts ...Option) (*Engine, error) {
	e := newEngine(nil, project, opts)

	dsn, err := core.ConnString(p)
	if err != nil {
		e.log.Error("engine creation failed",
			zap.String("project", project), zap.Error(err))
		return nil, &Error{Op: "open", Err: err}
	}
	db, err := sql.Open("odbc", dsn)
	if err != nil {
		e.log.Error("engine creation failed",
			zap.String("project", project), zap.Error(err))
		return nil, &Error{Op: "open", Err: err}
	}
	e.db = db
	e.log.Info("engine created", zap.String("project", project))
	return e, nil
}

// NewEngine wraps an already-open handle; pass a configured *sql.DB from
// main, or a mock in tests.
func NewEngine(db *sql.DB, opts ...Option) *Engine {
	return newEngine(db, "", opts)
}

func newEngine(db *sql.DB, project string, opts []Option) *Engine {
	e := &Engine{
		db:      db,
		project: project,
		log:     zap.NewNop(),
		cache:   cache.New(cache.DefaultLimit),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SetPool applies pool sizing from config to the underlying handle.
func (e *Engine) SetPool(cfg *config.Config) {
	e.db.SetMaxIdleConns(cfg.PoolSize)
	e.db.SetMaxOpenConns(cfg.MaxOpenConns())
}

// DB exposes the underlying handle for code that needs raw access.
func (e *Engine) DB() *sql.DB {
	return e.db
}

// Ping verifies the warehouse is reachable.
func (e *Engine) Ping(ctx context.Context) error {
	if err := e.db.PingContext(ctx); err != nil {
		e.log.Error("ping failed",
			zap.String("project", e.project), zap.Error(err))
		return &Error{Op: "ping", Err: err}
	}
	return nil
}

// Close disposes the pooled connections. Closing a nil or already-closed
// engine is a silent no-op.
func (e *Engine) Close() error {
	if e == nil || e.db == nil {
		return nil
	}
	var err error
	ran := false
	e.close.Do(func() {
		ran = true
		err = e.db.Close()
	})
	if !ran {
		return nil
	}
	if err != nil {
		e.log.Error("engine dispose failed",
			zap.String("project", e.project), zap.Error(err))
		return &Error{Op: "close", Err: err}
	}
	e.log.Info("engine disposed", zap.String("project", e.project))
	return nil
}

// QueryFrame runs a query and materializes the full result.
func (e *Engine) QueryFrame(ctx context.Context, query string, args ...interface{}) (*frame.Frame, error) {
	rows, err := e.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, e.fail("query", query, args, err)
	}
	defer rows.Close()

	f, err := frame.Read(rows)
	if err != nil {
		return nil, e.fail("query", query, args, err)
	}
	e.log.Debug("query executed",
		zap.String("project", e.project),
		zap.String("query", query),
		zap.Int("rows", f.Len()))
	return f, nil
}

// QueryChunks runs a query and returns its result as a lazy sequence of
// frames of size rows each (the last may be shorter). The caller must drain
// or Close the iterator.
func (e *Engine) QueryChunks(ctx context.Context, query string, size int, args ...interface{}) (*frame.Chunks, error) {
	if size <= 0 {
		return nil, e.fail("query", query, args, fmt.Errorf("chunk size must be positive, got %d", size))
	}
	rows, err := e.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, e.fail("query", query, args, err)
	}
	chunks, err := frame.NewChunks(rows, size)
	if err != nil {
		rows.Close()
		return nil, e.fail("query", query, args, err)
	}
	e.log.Debug("chunked query started",
		zap.String("project", e.project),
		zap.String("query", query),
		zap.Int("chunksize", size))
	return chunks, nil
}

// QueryFrameCached is QueryFrame behind the engine's TTL cache. A maxAge of
// zero bypasses the cache entirely.
func (e *Engine) QueryFrameCached(ctx context.Context, maxAge time.Duration, query string, args ...interface{}) (*frame.Frame, error) {
	key := cache.Key(query, args)
	if maxAge > 0 {
		if f, ok := e.cache.Get(key, maxAge); ok {
			e.log.Debug("cache hit", zap.String("query", query))
			return f, nil
		}
	}
	f, err := e.QueryFrame(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	if maxAge > 0 {
		e.cache.Put(key, f)
	}
	return f, nil
}

// Exec runs a statement that returns no rows.
func (e *Engine) Exec(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	res, err := e.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, e.fail("exec", query, args, err)
	}
	return res, nil
}

// fail logs one error with full query context and wraps the cause.
func (e *Engine) fail(op, query string, args []interface{}, err error) error {
	e.log.Error(op+" failed",
		zap.String("project", e.project),
		zap.String("query", query),
		zap.Any("params", args),
		zap.Error(err))
	return &Error{Op: op, Query: query, Err: err}
}
