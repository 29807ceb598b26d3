package soundcloud

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	httpclient "github.com/handiism/musichelper/internal/http"
	"github.com/handiism/musichelper/internal/logging"
	"github.com/handiism/musichelper/internal/model"
)

// DefaultBaseURL is the SoundCloud api-v2 root.
const DefaultBaseURL = "https://api-v2.soundcloud.com"

// Config holds SoundCloud credentials and resolution policy.
type Config struct {
	ClientID  string
	AuthToken string

	// BaseURL overrides DefaultBaseURL.
	BaseURL string
	Timeout time.Duration

	// MinBytes and MaxBytes bound the estimated size of a transcoding.
	// Zero disables the corresponding bound.
	MinBytes int64
	MaxBytes int64
}

// Client talks to the SoundCloud api-v2.
type Client struct {
	http      *httpclient.Client
	baseURL   string
	clientID  string
	authToken string
	minBytes  int64
	maxBytes  int64
	logger    *zap.Logger
}

// New creates a Client. A client ID is required.
func New(cfg Config, logger *zap.Logger) (*Client, error) {
	if cfg.ClientID == "" {
		return nil, &model.AuthError{Service: model.BackendSoundCloud.String(), Reason: "client ID is required"}
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	return &Client{
		http:      httpclient.NewClient(model.BackendSoundCloud.String(), httpclient.WithTimeout(cfg.Timeout)),
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		clientID:  cfg.ClientID,
		authToken: cfg.AuthToken,
		minBytes:  cfg.MinBytes,
		maxBytes:  cfg.MaxBytes,
		logger:    logging.OrNop(logger).Named("soundcloud"),
	}, nil
}

// Name implements backend.Backend.
func (c *Client) Name() model.Backend { return model.BackendSoundCloud }

// Search returns up to limit tracks matching query, in API order.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]model.Result, error) {
	c.logger.Debug("Searching tracks", zap.String("query", query), zap.Int("limit", limit))

	q := url.Values{"q": {query}, "limit": {strconv.Itoa(limit)}}
	var resp searchDTO
	if err := c.getJSON(ctx, c.baseURL+"/search/tracks", q, &resp); err != nil {
		return nil, err
	}

	results := make([]model.Result, 0, min(limit, len(resp.Collection)))
	for i := range resp.Collection {
		if len(results) == limit {
			break
		}
		if resp.Collection[i].Kind != "" && resp.Collection[i].Kind != "track" {
			continue
		}
		results = append(results, resp.Collection[i].toResult())
	}
	return results, nil
}

// Track fetches one track. A missing track returns (nil, nil).
func (c *Client) Track(ctx context.Context, id int64) (*model.SoundCloudResult, error) {
	t, err := c.track(ctx, id)
	if err != nil || t == nil {
		return nil, err
	}
	return t.toResult(), nil
}

// ResolveURL looks up a track by its permalink URL. Links to users,
// playlists or missing tracks return (nil, nil).
func (c *Client) ResolveURL(ctx context.Context, permalink string) (*model.SoundCloudResult, error) {
	var t trackDTO
	err := c.getJSON(ctx, c.baseURL+"/resolve", url.Values{"url": {permalink}}, &t)
	if model.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if t.Kind != "track" || t.ID == 0 {
		return nil, nil
	}
	return t.toResult(), nil
}

func (c *Client) track(ctx context.Context, id int64) (*trackDTO, error) {
	var t trackDTO
	err := c.getJSON(ctx, fmt.Sprintf("%s/tracks/%d", c.baseURL, id), nil, &t)
	if model.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *Client) getJSON(ctx context.Context, rawURL string, query url.Values, v any) error {
	return c.http.GetJSON(ctx, rawURL, c.query(query), c.header(), v)
}

func (c *Client) get(ctx context.Context, rawURL string, query url.Values) ([]byte, error) {
	return c.http.Get(ctx, rawURL, c.query(query), c.header())
}

func (c *Client) query(q url.Values) url.Values {
	if q == nil {
		q = url.Values{}
	}
	q.Set("client_id", c.clientID)
	return q
}

func (c *Client) header() http.Header {
	h := http.Header{"Accept": {"application/json"}}
	if c.authToken != "" {
		h.Set("Authorization", "OAuth "+c.authToken)
	}
	return h
}

// statusOf returns the HTTP status of a transport error, or 0.
func statusOf(err error) int {
	var te *model.TransportError
	if errors.As(err, &te) {
		return te.StatusCode
	}
	return 0
}
