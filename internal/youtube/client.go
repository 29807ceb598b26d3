package youtube

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"time"

	kkdai "github.com/kkdai/youtube/v2"
	"go.uber.org/zap"
	"google.golang.org/api/option"
	ytapi "google.golang.org/api/youtube/v3"

	"github.com/handiism/musichelper/internal/logging"
	"github.com/handiism/musichelper/internal/model"
	"github.com/handiism/musichelper/internal/workpool"
)

var videoIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{11}$`)

// Config holds YouTube settings.
type Config struct {
	// APIKey enables Data API search.
	APIKey string
	// OAuth uses Application Default Credentials for search when no
	// API key is set.
	OAuth bool
	// Endpoint overrides the Data API base URL.
	Endpoint string
	Timeout  time.Duration
}

// videoClient is the part of the kkdai client used for stream extraction.
type videoClient interface {
	GetVideoContext(ctx context.Context, id string) (*kkdai.Video, error)
	GetStreamURLContext(ctx context.Context, video *kkdai.Video, format *kkdai.Format) (string, error)
}

// Client implements search, lookup and stream resolution.
type Client struct {
	search *ytapi.Service
	videos videoClient
	pool   *workpool.Pool
	logger *zap.Logger
}

// New creates a Client. A nil pool gets a private one.
func New(ctx context.Context, cfg Config, pool *workpool.Pool, logger *zap.Logger) (*Client, error) {
	if pool == nil {
		pool = workpool.New(0)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	c := &Client{
		videos: &kkdai.Client{HTTPClient: &http.Client{Timeout: timeout}},
		pool:   pool,
		logger: logging.OrNop(logger).Named("youtube"),
	}

	var opts []option.ClientOption
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint))
	}
	switch {
	case cfg.APIKey != "":
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	case cfg.OAuth:
		opts = append(opts, option.WithScopes(ytapi.YoutubeReadonlyScope))
	default:
		c.logger.Info("No YouTube API key, search disabled")
		return c, nil
	}

	svc, err := ytapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create YouTube service: %w", err)
	}
	c.search = svc
	return c, nil
}

// Name implements backend.Backend.
func (c *Client) Name() model.Backend { return model.BackendYouTube }

// ValidVideoID reports whether id has the shape of a YouTube video ID.
func ValidVideoID(id string) bool {
	return videoIDPattern.MatchString(id)
}

func watchURL(id string) string {
	return "https://www.youtube.com/watch?v=" + id
}
