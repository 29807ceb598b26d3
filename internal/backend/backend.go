// Package backend defines the contracts implemented by every external
// service and the Registry that owns their shared instances.
//
// A Registry is built once at process start. Backends without
// credentials are registered as NotConfigured; the rest get a Factory
// that runs at most once:
//
//	reg := backend.NewRegistry(logger)
//	reg.Register(model.BackendSoundCloud, func(ctx context.Context) (backend.Backend, error) {
//	    c, err := soundcloud.New(cfg, logger)
//	    if err != nil {
//	        return nil, err
//	    }
//	    return c, nil
//	})
//	reg.Start(ctx)
//
//	searcher, err := reg.Searcher(ctx, model.BackendSoundCloud)
package backend

import (
	"context"

	"github.com/handiism/musichelper/internal/model"
)

// Backend is an initialized external service.
type Backend interface {
	Name() model.Backend
}

// Searcher finds raw results for a free-text query.
type Searcher interface {
	Backend
	Search(ctx context.Context, query string, limit int) ([]model.Result, error)
}

// Resolver turns a track identifier into a streamable source URL.
//
// A missing source is ("", nil). Transport failures are
// *model.TransportError and credential failures *model.AuthError.
type Resolver interface {
	Resolve(ctx context.Context, id string) (string, error)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(ctx context.Context, id string) (string, error)

// Resolve calls f.
func (f ResolverFunc) Resolve(ctx context.Context, id string) (string, error) {
	return f(ctx, id)
}
