package helper

import (
	"context"
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/handiism/musichelper/internal/backend"
	"github.com/handiism/musichelper/internal/config"
	"github.com/handiism/musichelper/internal/deezer"
	"github.com/handiism/musichelper/internal/direct"
	"github.com/handiism/musichelper/internal/download"
	httpclient "github.com/handiism/musichelper/internal/http"
	ioutils "github.com/handiism/musichelper/internal/io"
	"github.com/handiism/musichelper/internal/logging"
	"github.com/handiism/musichelper/internal/metrics"
	"github.com/handiism/musichelper/internal/model"
	"github.com/handiism/musichelper/internal/search"
	"github.com/handiism/musichelper/internal/soundcloud"
	"github.com/handiism/musichelper/internal/transcode"
	"github.com/handiism/musichelper/internal/workpool"
	"github.com/handiism/musichelper/internal/youtube"
)

// Helper is the music helper facade. It is safe for concurrent use.
type Helper struct {
	settings *config.Settings
	registry *backend.Registry
	search   *search.Aggregator
	pipeline *download.Pipeline
	direct   *direct.Resolver
	logger   *zap.Logger
}

// New builds every component from settings and initializes the
// configured backends. A backend that fails to initialize is marked as
// such; it does not make New fail. reg may be nil.
func New(ctx context.Context, settings *config.Settings, logger *zap.Logger, reg prometheus.Registerer, opts ...download.Option) (*Helper, error) {
	if settings == nil {
		settings = config.DefaultSettings()
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	logger = logging.OrNop(logger)
	pool := workpool.New(settings.MaxWorkers)

	registry := backend.NewRegistry(logger)
	registerBackends(registry, settings, pool, logger)
	registry.Start(ctx)

	return assemble(settings, registry, metrics.New(reg), pool, logger, opts...), nil
}

func registerBackends(registry *backend.Registry, s *config.Settings, pool *workpool.Pool, logger *zap.Logger) {
	var scFactory backend.Factory
	if s.SoundCloudClientID != "" {
		scFactory = func(ctx context.Context) (backend.Backend, error) {
			c, err := soundcloud.New(soundcloud.Config{
				ClientID:  s.SoundCloudClientID,
				AuthToken: s.SoundCloudAuthToken,
				Timeout:   s.HTTPTimeout,
				MinBytes:  s.SoundCloudMinBytes,
				MaxBytes:  s.SoundCloudMaxBytes,
			}, logger)
			if err != nil {
				return nil, err
			}
			return c, nil
		}
	}
	registry.Register(model.BackendSoundCloud, scFactory)

	var dzFactory backend.Factory
	if s.DeezerSessionToken != "" {
		dzFactory = func(ctx context.Context) (backend.Backend, error) {
			c, err := deezer.New(ctx, deezer.Config{
				ARL:          s.DeezerSessionToken,
				CacheEnabled: s.DeezerCache,
				CacheDir:     s.DeezerCacheDir,
				Timeout:      s.HTTPTimeout,
			}, logger)
			if err != nil {
				return nil, err
			}
			return c, nil
		}
	}
	registry.Register(model.BackendDeezer, dzFactory)

	registry.Register(model.BackendYouTube, func(ctx context.Context) (backend.Backend, error) {
		c, err := youtube.New(ctx, youtube.Config{
			APIKey:  s.YouTubeAPIKey,
			OAuth:   s.YouTubeOAuthEnabled,
			Timeout: s.HTTPTimeout,
		}, pool, logger)
		if err != nil {
			return nil, err
		}
		return c, nil
	})

	registry.Register(model.BackendYouTubeMusic, nil)
}

// assemble wires the aggregator and pipeline around an existing registry.
func assemble(s *config.Settings, registry *backend.Registry, m *metrics.Metrics, pool *workpool.Pool, logger *zap.Logger, opts ...download.Option) *Helper {
	logger = logging.OrNop(logger)
	directResolver := direct.New(s.HTTPTimeout, logger)
	resolvers := map[model.Kind]backend.Resolver{
		model.KindSoundCloud: registryResolver(registry, model.BackendSoundCloud),
		model.KindYouTube:    registryResolver(registry, model.BackendYouTube),
		model.KindDirect:     directResolver,
	}

	base := []download.Option{
		download.WithPool(pool),
		download.WithMetrics(m),
		download.WithLogger(logger),
		download.WithHTTPClient(httpclient.NewClient("cover", httpclient.WithTimeout(s.HTTPTimeout))),
		download.WithImageService(ioutils.NewImageService(s.CoverMaxSize, s.CoverConvertJPEG)),
	}
	pipeline := download.NewPipeline(download.Config{
		Dir:            s.DownloadsPath,
		FileNameFormat: s.FileNameFormat,
	}, resolvers, transcode.New(s.TranscoderBinary, s.TranscoderPath, logger), append(base, opts...)...)

	return &Helper{
		settings: s,
		registry: registry,
		search:   search.NewAggregator(registry, m, logger),
		pipeline: pipeline,
		direct:   directResolver,
		logger:   logger.Named("helper"),
	}
}

// registryResolver resolves through the shared instance of name.
func registryResolver(registry *backend.Registry, name model.Backend) backend.Resolver {
	return backend.ResolverFunc(func(ctx context.Context, id string) (string, error) {
		b, err := registry.Get(ctx, name)
		if err != nil {
			return "", err
		}
		r, ok := b.(backend.Resolver)
		if !ok {
			return "", fmt.Errorf("%w: %s cannot resolve streams", model.ErrUnsupportedBackend, name)
		}
		return r.Resolve(ctx, id)
	})
}

// Availability reports the status of every known backend.
func (h *Helper) Availability() map[model.Backend]backend.Status {
	return h.registry.Statuses()
}

// Search runs an aggregated search. An empty backends list uses the
// configured default.
func (h *Helper) Search(ctx context.Context, query string, limit int, backends string, errorOnEmpty bool) (*search.Result, error) {
	if strings.TrimSpace(backends) == "" {
		backends = h.settings.DefaultBackends
	}
	return h.search.Search(ctx, query, limit, backends, errorOnEmpty)
}

// Download writes track as a tagged MP3 and returns its path.
func (h *Helper) Download(ctx context.Context, track *model.Track, opts download.Options) (string, error) {
	return h.pipeline.Download(ctx, track, opts)
}

// DownloadAll downloads several tracks with the configured concurrency.
func (h *Helper) DownloadAll(ctx context.Context, tracks []*model.Track, opts download.Options) ([]string, error) {
	return h.pipeline.DownloadAll(ctx, tracks, opts, h.settings.MaxWorkers)
}
