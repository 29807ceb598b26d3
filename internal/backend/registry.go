package backend

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/handiism/musichelper/internal/logging"
	"github.com/handiism/musichelper/internal/model"
)

// Status is the availability of a backend.
type Status int

const (
	NotConfigured Status = iota
	Configured
	InitFailed
)

func (s Status) String() string {
	switch s {
	case Configured:
		return "configured"
	case InitFailed:
		return "initialization-failed"
	default:
		return "not-configured"
	}
}

// Factory constructs a backend. It runs at most once per Registry.
type Factory func(ctx context.Context) (Backend, error)

type entry struct {
	factory  Factory
	status   Status
	instance Backend
	err      error
}

// Registry owns one shared instance per backend for the lifetime of the
// process. Construction is deduplicated, so concurrent first callers
// share a single Factory run; a failed construction marks the backend
// InitFailed permanently.
type Registry struct {
	mu      sync.RWMutex
	entries map[model.Backend]*entry
	group   singleflight.Group
	logger  *zap.Logger
}

// NewRegistry creates an empty Registry.
func NewRegistry(logger *zap.Logger) *Registry {
	return &Registry{
		entries: make(map[model.Backend]*entry),
		logger:  logging.OrNop(logger).Named("registry"),
	}
}

// Register adds a backend. A nil factory records the backend as
// NotConfigured, which is how missing credentials are expressed.
func (r *Registry) Register(name model.Backend, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e := &entry{factory: factory, status: NotConfigured}
	if factory != nil {
		e.status = Configured
	}
	r.entries[name] = e
}

// Start constructs every configured backend. Failures are logged and
// leave the backend InitFailed; Start itself never fails.
func (r *Registry) Start(ctx context.Context) {
	for _, name := range r.Names() {
		if r.Status(name) != Configured {
			r.logger.Info("Backend not configured", zap.String("backend", name.String()))
			continue
		}
		if _, err := r.Get(ctx, name); err != nil {
			r.logger.Warn("Backend initialization failed", zap.String("backend", name.String()), zap.Error(err))
			continue
		}
		r.logger.Debug("Backend ready", zap.String("backend", name.String()))
	}
}

// Names returns the registered backend names in sorted order.
func (r *Registry) Names() []model.Backend {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]model.Backend, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// Status returns the availability of name. Unknown names are NotConfigured.
func (r *Registry) Status(name model.Backend) Status {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if e, ok := r.entries[name]; ok {
		return e.status
	}
	return NotConfigured
}

// Statuses returns a snapshot of every registered backend's availability.
func (r *Registry) Statuses() map[model.Backend]Status {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[model.Backend]Status, len(r.entries))
	for name, e := range r.entries {
		out[name] = e.status
	}
	return out
}

// Get returns the shared instance of name, constructing it on first use.
// Unavailable backends yield a *model.ServiceUnavailableError.
func (r *Registry) Get(ctx context.Context, name model.Backend) (Backend, error) {
	r.mu.RLock()
	e, ok := r.entries[name]
	var (
		inst   Backend
		status Status
		err    error
	)
	if ok {
		inst, status, err = e.instance, e.status, e.err
	}
	r.mu.RUnlock()

	switch {
	case !ok || status == NotConfigured:
		return nil, &model.ServiceUnavailableError{Service: name.String()}
	case status == InitFailed:
		return nil, &model.ServiceUnavailableError{Service: name.String(), Err: err}
	case inst != nil:
		return inst, nil
	}

	v, err, _ := r.group.Do(string(name), func() (any, error) {
		r.mu.RLock()
		existing := e.instance
		r.mu.RUnlock()
		if existing != nil {
			return existing, nil
		}

		inst, err := e.factory(ctx)
		if err == nil && inst == nil {
			err = fmt.Errorf("factory for %s returned no backend", name)
		}

		r.mu.Lock()
		defer r.mu.Unlock()
		if err != nil {
			e.status = InitFailed
			e.err = err
			return nil, err
		}
		e.instance = inst
		return inst, nil
	})
	if err != nil {
		return nil, &model.ServiceUnavailableError{Service: name.String(), Err: err}
	}
	return v.(Backend), nil
}

// Searcher returns name as a Searcher.
func (r *Registry) Searcher(ctx context.Context, name model.Backend) (Searcher, error) {
	b, err := r.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	s, ok := b.(Searcher)
	if !ok {
		return nil, fmt.Errorf("%w: %s cannot search", model.ErrUnsupportedBackend, name)
	}
	return s, nil
}
