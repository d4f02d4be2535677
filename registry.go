package dwquery

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/minereport/dwquery/pkg/config"
)

// Registry opens at most one engine per configured project, on demand, and
// disposes all of them together. It replaces the old habit of a package-level
// engine: callers own a Registry value and pass it where it is needed.
type Registry struct {
	mu      sync.Mutex
	cfg     *config.Config
	opts    []Option
	log     *zap.Logger
	engines map[string]*Engine
}

func NewRegistry(cfg *config.Config, opts ...Option) *Registry {
	r := &Registry{
		cfg:     cfg,
		opts:    opts,
		log:     zap.NewNop(),
		engines: map[string]*Engine{},
	}
	// Peek at the options for a logger so registry-level messages land in
	// the same place as engine messages.
	probe := newEngine(nil, "", opts)
	r.log = probe.log
	return r
}

// Engine returns the engine for a project, opening it on first use.
func (r *Registry) Engine(project string) (*Engine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.engines[project]; ok {
		return e, nil
	}
	p, ok := r.cfg.Projects[project]
	if !ok {
		err := fmt.Errorf("project %s not configured", project)
		r.log.Error("engine lookup failed", zap.Error(err))
		return nil, &Error{Op: "open", Err: err}
	}
	e, err := Open(project, p, r.opts...)
	if err != nil {
		return nil, err
	}
	e.SetPool(r.cfg)
	r.engines[project] = e
	return e, nil
}

// Default returns the engine for the default project.
func (r *Registry) Default() (*Engine, error) {
	return r.Engine(config.DefaultProject)
}

// Close disposes every open engine. The first failure is returned but the
// remaining engines are still closed.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var first error
	for name, e := range r.engines {
		if err := e.Close(); err != nil && first == nil {
			first = err
		}
		delete(r.engines, name)
	}
	return first
}
