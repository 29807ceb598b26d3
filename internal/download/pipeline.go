package download

import (
	"context"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/handiism/musichelper/internal/audio"
	"github.com/handiism/musichelper/internal/backend"
	httpclient "github.com/handiism/musichelper/internal/http"
	ioutils "github.com/handiism/musichelper/internal/io"
	"github.com/handiism/musichelper/internal/logging"
	"github.com/handiism/musichelper/internal/metrics"
	"github.com/handiism/musichelper/internal/model"
	"github.com/handiism/musichelper/internal/transcode"
	"github.com/handiism/musichelper/internal/workpool"
)

// DefaultFileNameFormat names output files when no explicit name is given.
const DefaultFileNameFormat = "{artist} - {title}.mp3"

// Config controls output naming and cover retries.
type Config struct {
	// Dir is the default output directory.
	Dir string
	// FileNameFormat may use {artist}, {title}, {album} and {year}.
	FileNameFormat string

	CoverRetries       int
	CoverRetryCooldown time.Duration
	CoverRetryExponent float64
}

// Options override Config for one download.
type Options struct {
	Dir      string
	Filename string
}

// Pipeline resolves, transcodes and tags single tracks.
type Pipeline struct {
	cfg        Config
	resolvers  map[model.Kind]backend.Resolver
	transcoder *transcode.Transcoder
	tagger     *audio.Tagger
	images     *ioutils.ImageService
	http       *httpclient.Client
	pool       *workpool.Pool
	metrics    *metrics.Metrics
	onProgress func(ProgressEvent)
	logger     *zap.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithImageService sets how cover art is resized before embedding.
func WithImageService(s *ioutils.ImageService) Option {
	return func(p *Pipeline) { p.images = s }
}

// WithPool shares a worker pool with other components.
func WithPool(pool *workpool.Pool) Option {
	return func(p *Pipeline) { p.pool = pool }
}

// WithMetrics records downloads and resolution times.
func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Pipeline) { p.metrics = m }
}

// WithProgress registers a progress callback.
func WithProgress(fn func(ProgressEvent)) Option {
	return func(p *Pipeline) { p.onProgress = fn }
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(p *Pipeline) { p.logger = logging.OrNop(logger).Named("download") }
}

// WithHTTPClient sets the client used to fetch cover art.
func WithHTTPClient(c *httpclient.Client) Option {
	return func(p *Pipeline) { p.http = c }
}

// NewPipeline creates a Pipeline. resolvers maps each track kind to the
// resolver of its backend.
func NewPipeline(cfg Config, resolvers map[model.Kind]backend.Resolver, transcoder *transcode.Transcoder, opts ...Option) *Pipeline {
	if cfg.Dir == "" {
		cfg.Dir = "."
	}
	if cfg.FileNameFormat == "" {
		cfg.FileNameFormat = DefaultFileNameFormat
	}
	if cfg.CoverRetries <= 0 {
		cfg.CoverRetries = 3
	}
	if cfg.CoverRetryCooldown <= 0 {
		cfg.CoverRetryCooldown = 500 * time.Millisecond
	}
	if cfg.CoverRetryExponent < 1 {
		cfg.CoverRetryExponent = 2
	}

	p := &Pipeline{
		cfg:        cfg,
		resolvers:  resolvers,
		transcoder: transcoder,
		tagger:     audio.NewTagger(),
		images:     ioutils.NewImageService(0, false),
		http:       httpclient.NewClient("cover"),
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.pool == nil {
		p.pool = workpool.New(0)
	}
	return p
}

// Download writes track as a tagged MP3 and returns its path.
//
// The transcoder is located before any network work. A track whose
// source cannot be found fails with *model.DownloadLinkNotFoundError
// without starting the transcoder. A failed conversion leaves no output
// file. Cover art failures only skip the picture.
func (p *Pipeline) Download(ctx context.Context, track *model.Track, opts Options) (string, error) {
	id := uuid.NewString()
	log := p.logger.With(zap.String("download_id", id), zap.Stringer("track", track))

	path, err := p.download(ctx, id, log, track, opts)
	kind := track.Kind().String()
	if err != nil {
		p.metrics.ObserveDownload(kind, metrics.OutcomeError)
		log.Warn("Download failed", zap.Error(err))
		p.progress(ProgressEvent{DownloadID: id, Message: fmt.Sprintf("Failed %s: %v", track.Metadata.Title, err), Level: LevelError})
		return "", err
	}

	p.metrics.ObserveDownload(kind, metrics.OutcomeOK)
	log.Info("Download finished", zap.String("path", path))
	p.progress(ProgressEvent{DownloadID: id, Message: fmt.Sprintf("Downloaded: %s", filepath.Base(path)), Level: LevelSuccess})
	return path, nil
}

// DownloadAll downloads tracks with at most limit in flight. Failures
// are reported through progress events and do not stop other tracks;
// the returned slice holds "" for them.
func (p *Pipeline) DownloadAll(ctx context.Context, tracks []*model.Track, opts Options, limit int) ([]string, error) {
	paths := make([]string, len(tracks))

	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, track := range tracks {
		i, track := i, track
		g.Go(func() error {
			path, err := p.Download(ctx, track, opts)
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			paths[i] = path
			return nil
		})
	}
	return paths, g.Wait()
}

func (p *Pipeline) download(ctx context.Context, id string, log *zap.Logger, track *model.Track, opts Options) (string, error) {
	if _, err := p.transcoder.Locate(); err != nil {
		return "", err
	}

	src, err := p.resolve(ctx, track)
	if err != nil {
		return "", err
	}
	track.MarkResolved(src)
	log.Debug("Resolved source", zap.String("source", src))
	p.progress(ProgressEvent{DownloadID: id, Message: fmt.Sprintf("Resolved %s", track.Metadata.Title), Level: LevelVerbose})

	dir, name := p.outputPath(track, opts)
	if err := ioutils.EnsureDir(dir); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}
	path := filepath.Join(dir, name)

	err = p.pool.Run(ctx, func(ctx context.Context) error {
		return p.transcoder.Convert(ctx, src, path)
	})
	if err != nil {
		if rmErr := ioutils.RemoveIfExists(path); rmErr != nil {
			log.Warn("Failed to remove partial output", zap.String("path", path), zap.Error(rmErr))
		}
		return "", err
	}
	p.progress(ProgressEvent{DownloadID: id, Message: fmt.Sprintf("Converted %s", name), Level: LevelVerbose})

	cover := p.cover(ctx, log, track.Metadata.CoverURL)
	if err := p.tagger.WriteTags(path, track.Metadata, cover); err != nil {
		return "", fmt.Errorf("tag %s: %w", path, err)
	}
	return path, nil
}

func (p *Pipeline) resolve(ctx context.Context, track *model.Track) (string, error) {
	r, ok := p.resolvers[track.Kind()]
	if !ok || r == nil {
		return "", fmt.Errorf("%w: no resolver for %s tracks", model.ErrUnsupportedBackend, track.Kind())
	}

	start := time.Now()
	src, err := r.Resolve(ctx, track.ID())
	p.metrics.ObserveResolve(track.Kind().String(), time.Since(start))
	if err != nil {
		return "", err
	}
	if src == "" {
		return "", &model.DownloadLinkNotFoundError{Service: track.Kind().String(), ID: track.ID()}
	}
	return src, nil
}

// outputPath returns the directory and sanitized file name for track.
func (p *Pipeline) outputPath(track *model.Track, opts Options) (string, string) {
	dir := opts.Dir
	if dir == "" {
		dir = p.cfg.Dir
	}

	name := opts.Filename
	if name == "" {
		md := track.Metadata
		year := ""
		if md.HasYear() {
			year = strconv.Itoa(md.ReleaseYear)
		}
		name = strings.NewReplacer(
			"{artist}", md.Artist,
			"{title}", md.Title,
			"{album}", md.Album,
			"{year}", year,
		).Replace(p.cfg.FileNameFormat)
	}
	return dir, ioutils.EnsureExt(ioutils.SanitizeFileName(name), ".mp3")
}

// cover downloads and prepares cover art, retrying with exponential
// backoff. Any failure yields nil.
func (p *Pipeline) cover(ctx context.Context, log *zap.Logger, coverURL string) []byte {
	if coverURL == "" {
		return nil
	}

	var (
		data []byte
		err  error
	)
	for tries := 0; tries < p.cfg.CoverRetries; tries++ {
		data, err = p.http.DownloadBytes(ctx, coverURL)
		if err == nil || model.IsNotFound(err) || ctx.Err() != nil {
			break
		}
		p.waitForRetry(ctx, tries)
	}
	if err != nil {
		log.Warn("Skipping cover art", zap.String("url", coverURL), zap.Error(err))
		return nil
	}

	prepared, err := p.images.Prepare(ctx, data)
	if err != nil {
		log.Warn("Skipping unreadable cover art", zap.String("url", coverURL), zap.Error(err))
		return nil
	}
	return prepared
}

func (p *Pipeline) waitForRetry(ctx context.Context, tries int) {
	cooldown := float64(p.cfg.CoverRetryCooldown) * math.Pow(p.cfg.CoverRetryExponent, float64(tries))
	select {
	case <-ctx.Done():
	case <-time.After(time.Duration(cooldown)):
	}
}

func (p *Pipeline) progress(event ProgressEvent) {
	if p.onProgress != nil {
		p.onProgress(event)
	}
}
