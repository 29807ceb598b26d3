package deezer

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	httpclient "github.com/handiism/musichelper/internal/http"
	"github.com/handiism/musichelper/internal/logging"
	"github.com/handiism/musichelper/internal/model"
)

const (
	DefaultGatewayURL = "https://www.deezer.com/ajax/gw-light.php"
	DefaultAPIURL     = "https://api.deezer.com"

	// DefaultRate matches the public API quota of 50 requests per 5 seconds.
	DefaultRate = 10

	albumCacheSize = 256
)

// Gateway methods.
const (
	methodGetUserData = "deezer.getUserData"
	methodSongGetData = "song.getData"
)

// Gateway error keys that mean the api token or session is no longer valid.
var tokenErrors = []string{"VALID_TOKEN_REQUIRED", "NEED_API_AUTH_REQUIRED", "NEED_USER_AUTH_REQUIRED", "INVALID_TOKEN"}

var errTokenExpired = errors.New("deezer session token expired")

// Config holds Deezer credentials and limits.
type Config struct {
	// ARL is the session cookie of a logged-in Deezer account.
	ARL string

	CacheEnabled bool
	CacheDir     string

	GatewayURL string
	APIURL     string
	Timeout    time.Duration
	// Rate is the request rate limit per second shared by both APIs.
	Rate float64
}

type session struct {
	apiToken  string
	userID    int64
	userName  string
	createdAt time.Time
}

// Client is an authenticated Deezer metadata client.
type Client struct {
	http       *httpclient.Client
	gatewayURL *url.URL
	apiURL     string
	arl        string

	cache   *sessionCache
	limiter *rate.Limiter
	albums  *lru.Cache[int64, albumInfo]

	mu    sync.RWMutex
	sess  *session
	group singleflight.Group

	logger *zap.Logger
}

// New creates a Client and establishes the gateway session, from the
// cache when a valid entry exists.
func New(ctx context.Context, cfg Config, logger *zap.Logger) (*Client, error) {
	if cfg.ARL == "" {
		return nil, &model.AuthError{Service: model.BackendDeezer.String(), Reason: "ARL is required"}
	}
	if cfg.GatewayURL == "" {
		cfg.GatewayURL = DefaultGatewayURL
	}
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}
	if cfg.Rate <= 0 {
		cfg.Rate = DefaultRate
	}
	gw, err := url.Parse(cfg.GatewayURL)
	if err != nil {
		return nil, fmt.Errorf("parse gateway URL: %w", err)
	}
	albums, err := lru.New[int64, albumInfo](albumCacheSize)
	if err != nil {
		return nil, err
	}

	logger = logging.OrNop(logger).Named("deezer")
	c := &Client{
		http:       httpclient.NewClient(model.BackendDeezer.String(), httpclient.WithTimeout(cfg.Timeout), httpclient.WithCookieJar()),
		gatewayURL: gw,
		apiURL:     strings.TrimRight(cfg.APIURL, "/"),
		arl:        cfg.ARL,
		limiter:    rate.NewLimiter(rate.Limit(cfg.Rate), int(cfg.Rate)+1),
		albums:     albums,
		logger:     logger,
	}
	if cfg.CacheEnabled {
		c.cache = newSessionCache(cfg.CacheDir, logger)
	}

	if c.restore() {
		return c, nil
	}
	if _, err := c.login(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// Name implements backend.Backend.
func (c *Client) Name() model.Backend { return model.BackendDeezer }

// Resolve implements backend.Resolver. Deezer streams are not supported.
func (c *Client) Resolve(ctx context.Context, id string) (string, error) {
	return "", fmt.Errorf("%w: %s streaming", model.ErrUnsupportedBackend, model.BackendDeezer)
}

// User returns the ID and name of the logged-in account.
func (c *Client) User() (int64, string) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.sess == nil {
		return 0, ""
	}
	return c.sess.userID, c.sess.userName
}

func (c *Client) restore() bool {
	if c.cache == nil {
		return false
	}
	cached, ok := c.cache.load(c.arl)
	if !ok {
		return false
	}

	cookies := make([]*http.Cookie, 0, len(cached.SessionCookies))
	for name, value := range cached.SessionCookies {
		cookies = append(cookies, &http.Cookie{Name: name, Value: value})
	}
	c.http.SetCookies(c.gatewayURL, cookies)

	c.mu.Lock()
	c.sess = &session{
		apiToken:  cached.APIToken,
		userID:    cached.UserProfile.ID,
		userName:  cached.UserProfile.Name,
		createdAt: cached.CreatedAt,
	}
	c.mu.Unlock()
	c.logger.Info("Restored cached session", zap.Int64("user_id", cached.UserProfile.ID))
	return true
}

// login authenticates with the ARL cookie and replaces the session.
func (c *Client) login(ctx context.Context) (*session, error) {
	c.http.SetCookies(c.gatewayURL, []*http.Cookie{{Name: "arl", Value: c.arl}})

	res, err := c.call(ctx, "null", methodGetUserData, map[string]any{})
	if err != nil {
		return nil, err
	}
	s := &session{
		apiToken:  res.Get("checkForm").String(),
		userID:    res.Get("USER.USER_ID").Int(),
		userName:  res.Get("USER.BLOG_NAME").String(),
		createdAt: time.Now(),
	}
	if s.userID == 0 {
		return nil, &model.AuthError{Service: model.BackendDeezer.String(), Reason: "ARL was rejected"}
	}
	if s.apiToken == "" {
		return nil, &model.AuthError{Service: model.BackendDeezer.String(), Reason: "no api token in user data"}
	}

	c.mu.Lock()
	c.sess = s
	c.mu.Unlock()
	c.logger.Info("Logged in", zap.Int64("user_id", s.userID))

	if c.cache != nil {
		if err := c.cache.save(c.snapshot(s)); err != nil {
			c.logger.Warn("Failed to cache session", zap.Error(err))
		}
	}
	return s, nil
}

func (c *Client) snapshot(s *session) *cachedSession {
	cookies := map[string]string{}
	for _, ck := range c.http.Cookies(c.gatewayURL) {
		cookies[ck.Name] = ck.Value
	}
	cookies["arl"] = c.arl
	return &cachedSession{
		SessionCookies: cookies,
		Credential:     c.arl,
		UserProfile:    userProfile{ID: s.userID, Name: s.userName},
		APIToken:       s.apiToken,
		CreatedAt:      s.createdAt,
	}
}

func (c *Client) token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.sess == nil {
		return ""
	}
	return c.sess.apiToken
}

// refresh re-establishes the session unless another caller already
// replaced the stale token.
func (c *Client) refresh(ctx context.Context, stale string) error {
	if current := c.token(); current != "" && current != stale {
		return nil
	}
	_, err, _ := c.group.Do("login", func() (any, error) {
		c.logger.Info("Refreshing session")
		return c.login(ctx)
	})
	return err
}

// gateway calls a gw-light method, refreshing the session once if the
// token was rejected.
func (c *Client) gateway(ctx context.Context, method string, payload any) (gjson.Result, error) {
	tok := c.token()
	res, err := c.call(ctx, tok, method, payload)
	if !errors.Is(err, errTokenExpired) {
		return res, err
	}
	if err := c.refresh(ctx, tok); err != nil {
		return gjson.Result{}, err
	}
	return c.call(ctx, c.token(), method, payload)
}

func (c *Client) call(ctx context.Context, token, method string, payload any) (gjson.Result, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return gjson.Result{}, err
	}
	q := url.Values{
		"method":      {method},
		"input":       {"3"},
		"api_version": {"1.0"},
		"api_token":   {token},
	}
	body, err := c.http.PostJSON(ctx, c.gatewayURL.String(), q, nil, payload)
	if err != nil {
		return gjson.Result{}, err
	}
	if err := gatewayError(method, gjson.GetBytes(body, "error")); err != nil {
		return gjson.Result{}, err
	}
	return gjson.GetBytes(body, "results"), nil
}

// dataError reports a gateway lookup of something that does not exist.
type dataError struct {
	method string
	reason string
}

func (e *dataError) Error() string {
	return fmt.Sprintf("deezer %s: %s", e.method, e.reason)
}

// gatewayError converts the "error" member of a gateway response. An
// empty array or object means success.
func gatewayError(method string, errs gjson.Result) error {
	if !errs.IsObject() {
		return nil
	}
	var out error
	errs.ForEach(func(key, value gjson.Result) bool {
		k := key.String()
		for _, te := range tokenErrors {
			if k == te {
				out = errTokenExpired
				return false
			}
		}
		if k == "DATA_ERROR" {
			out = &dataError{method: method, reason: value.String()}
			return false
		}
		out = fmt.Errorf("deezer %s: %s: %s", method, k, value.String())
		return false
	})
	return out
}

// api performs a rate-limited GET against the public API and returns
// the body. Errors reported in the body with HTTP 200 are converted.
func (c *Client) api(ctx context.Context, path string, query url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	body, err := c.http.Get(ctx, c.apiURL+path, query, nil)
	if err != nil {
		return nil, err
	}
	if e := gjson.GetBytes(body, "error"); e.IsObject() {
		code := int(e.Get("code").Int())
		if code == 800 {
			return nil, &model.TransportError{Service: model.BackendDeezer.String(), URL: c.apiURL + path, StatusCode: http.StatusNotFound}
		}
		return nil, &model.TransportError{
			Service: model.BackendDeezer.String(),
			URL:     c.apiURL + path,
			Err:     fmt.Errorf("%s (code %d)", e.Get("message").String(), code),
		}
	}
	return body, nil
}
