// Package search fans a query out to one or more backends and turns the
// raw results into tracks.
//
//	agg := search.NewAggregator(registry, m, logger)
//	res, err := agg.Search(ctx, "one more time", 6, "soundcloud,yt", false)
//	for name, tracks := range res.ByBackend {
//	    fmt.Println(name, len(tracks))
//	}
package search

import (
	"context"
	"errors"
	"strings"

	"github.com/samber/lo"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/handiism/musichelper/internal/backend"
	"github.com/handiism/musichelper/internal/logging"
	"github.com/handiism/musichelper/internal/metrics"
	"github.com/handiism/musichelper/internal/model"
)

// SearcherSource hands out initialized searchers by backend name.
// *backend.Registry implements it.
type SearcherSource interface {
	Searcher(ctx context.Context, name model.Backend) (backend.Searcher, error)
}

// Result holds the tracks of one aggregated search.
//
// A single-backend search fills Tracks only. A multi-backend search
// fills ByBackend, and Tracks with the same tracks concatenated in the
// order the backends were requested.
type Result struct {
	Tracks    []*model.Track
	ByBackend map[model.Backend][]*model.Track
}

// Aggregator runs searches across backends.
type Aggregator struct {
	source  SearcherSource
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewAggregator creates an Aggregator. m may be nil.
func NewAggregator(source SearcherSource, m *metrics.Metrics, logger *zap.Logger) *Aggregator {
	return &Aggregator{
		source:  source,
		metrics: m,
		logger:  logging.OrNop(logger).Named("search"),
	}
}

// Search queries the comma-separated backends for query.
//
// Unknown and duplicate backend names are dropped; with none left the
// result is empty. limit <= 0 counts as 1. With several backends the
// limit is split evenly (at least one per backend) and the backends are
// queried concurrently, except that a limit of 1 only queries the first.
//
// With errorOnEmpty, an unavailable backend fails with
// *model.ServiceUnavailableError and a backend without results with
// *model.NoResultsError, aborting the whole search. Without it both
// contribute no tracks. Transport and credential errors always fail.
func (a *Aggregator) Search(ctx context.Context, query string, limit int, backends string, errorOnEmpty bool) (*Result, error) {
	names := ParseBackends(backends)
	if limit <= 0 {
		limit = 1
	}

	switch {
	case len(names) == 0:
		a.logger.Debug("No valid backends requested", zap.String("backends", backends))
		return &Result{}, nil
	case len(names) == 1 || limit == 1:
		tracks, err := a.searchOne(ctx, names[0], query, limit, errorOnEmpty)
		if err != nil {
			return nil, err
		}
		return &Result{Tracks: tracks}, nil
	}

	perBackend := max(limit/len(names), 1)
	lists := make([][]*model.Track, len(names))

	g, gctx := errgroup.WithContext(ctx)
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			tracks, err := a.searchOne(gctx, name, query, perBackend, errorOnEmpty)
			if err != nil {
				return err
			}
			lists[i] = tracks
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &Result{ByBackend: make(map[model.Backend][]*model.Track, len(names))}
	for i, name := range names {
		res.ByBackend[name] = lists[i]
		res.Tracks = append(res.Tracks, lists[i]...)
	}
	return res, nil
}

// ParseBackends splits a comma-separated list of backend names, keeping
// known names once in their first position.
func ParseBackends(list string) []model.Backend {
	names := lo.FilterMap(strings.Split(list, ","), func(s string, _ int) (model.Backend, bool) {
		return model.ParseBackend(s)
	})
	return lo.Uniq(names)
}

func (a *Aggregator) searchOne(ctx context.Context, name model.Backend, query string, limit int, errorOnEmpty bool) ([]*model.Track, error) {
	log := a.logger.With(zap.String("backend", name.String()), zap.String("query", query))

	results, err := a.fetch(ctx, name, query, limit)
	if errors.Is(err, model.ErrServiceUnavailable) {
		a.metrics.ObserveSearch(name.String(), metrics.OutcomeUnavailable)
		log.Debug("Backend unavailable", zap.Error(err))
		if errorOnEmpty {
			return nil, err
		}
		return nil, nil
	}
	if err != nil {
		a.metrics.ObserveSearch(name.String(), metrics.OutcomeError)
		return nil, err
	}

	if len(results) == 0 {
		a.metrics.ObserveSearch(name.String(), metrics.OutcomeEmpty)
		log.Debug("No results")
		if errorOnEmpty {
			return nil, &model.NoResultsError{Query: query, Service: name.String()}
		}
		return nil, nil
	}

	tracks := make([]*model.Track, 0, len(results))
	for _, raw := range results {
		t, err := model.Create(raw, name)
		if errors.Is(err, model.ErrNoTrack) {
			continue
		}
		if err != nil {
			a.metrics.ObserveSearch(name.String(), metrics.OutcomeError)
			return nil, err
		}
		tracks = append(tracks, t)
	}
	a.metrics.ObserveSearch(name.String(), metrics.OutcomeOK)
	log.Debug("Search finished", zap.Int("results", len(results)), zap.Int("tracks", len(tracks)))
	return tracks, nil
}

func (a *Aggregator) fetch(ctx context.Context, name model.Backend, query string, limit int) ([]model.Result, error) {
	s, err := a.source.Searcher(ctx, name)
	if err != nil {
		return nil, err
	}
	return s.Search(ctx, query, limit)
}
