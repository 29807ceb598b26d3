package deezer

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap"
)

const (
	// SessionCacheFile is the name of the session cache inside the cache directory.
	SessionCacheFile = ".deezer_session.toml"
	// SessionTTL is how long a cached session is trusted.
	SessionTTL = 10 * 24 * time.Hour
)

type userProfile struct {
	ID   int64  `toml:"id"`
	Name string `toml:"name"`
}

// cachedSession is the on-disk form of a gateway session.
type cachedSession struct {
	SessionCookies map[string]string `toml:"session_cookies"`
	Credential     string            `toml:"credential"`
	UserProfile    userProfile       `toml:"user_profile"`
	APIToken       string            `toml:"api_token"`
	CreatedAt      time.Time         `toml:"created_at"`
}

type sessionCache struct {
	path   string
	ttl    time.Duration
	now    func() time.Time
	logger *zap.Logger
}

func newSessionCache(dir string, logger *zap.Logger) *sessionCache {
	if dir == "" {
		dir = "."
	}
	return &sessionCache{
		path:   filepath.Join(dir, SessionCacheFile),
		ttl:    SessionTTL,
		now:    time.Now,
		logger: logger,
	}
}

// load returns the cached session for credential. Expired, corrupt or
// foreign entries are deleted and reported as a miss.
func (c *sessionCache) load(credential string) (*cachedSession, bool) {
	var s cachedSession
	if _, err := toml.DecodeFile(c.path, &s); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			c.logger.Warn("Discarding unreadable session cache", zap.String("path", c.path), zap.Error(err))
			c.remove()
		}
		return nil, false
	}

	switch {
	case s.APIToken == "" || s.CreatedAt.IsZero():
		c.logger.Warn("Discarding incomplete session cache", zap.String("path", c.path))
	case c.now().Sub(s.CreatedAt) > c.ttl:
		c.logger.Debug("Session cache expired", zap.Time("created_at", s.CreatedAt))
	case s.Credential != credential:
		c.logger.Debug("Session cache belongs to another credential")
	default:
		return &s, true
	}
	c.remove()
	return nil, false
}

func (c *sessionCache) save(s *cachedSession) error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("create session cache dir: %w", err)
	}
	f, err := os.OpenFile(c.path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("open session cache: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(s); err != nil {
		return fmt.Errorf("encode session cache: %w", err)
	}
	return nil
}

func (c *sessionCache) remove() {
	if err := os.Remove(c.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		c.logger.Warn("Failed to remove session cache", zap.String("path", c.path), zap.Error(err))
	}
}
