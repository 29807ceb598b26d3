package direct

import (
	"context"
	"html"
	"net/url"
	"path"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	httpclient "github.com/handiism/musichelper/internal/http"
	"github.com/handiism/musichelper/internal/logging"
	"github.com/handiism/musichelper/internal/model"
)

var (
	mp3LinkPattern  = regexp.MustCompile(`(?i)<a\s[^>]*href\s*=\s*["']([^"']+\.mp3(?:\?[^"']*)?)["']`)
	playBtnPattern  = regexp.MustCompile(`(?i)<(?:a|div)\s[^>]*class\s*=\s*["'][^"']*\bplay-btn\b[^"']*["'][^>]*href\s*=\s*["']([^"']+)["']`)
	playBtnPattern2 = regexp.MustCompile(`(?i)<(?:a|div)\s[^>]*href\s*=\s*["']([^"']+)["'][^>]*class\s*=\s*["'][^"']*\bplay-btn\b`)
	titlePattern    = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
)

// Resolver finds MP3 streams behind web URLs.
type Resolver struct {
	http   *httpclient.Client
	logger *zap.Logger
}

// New creates a Resolver.
func New(timeout time.Duration, logger *zap.Logger) *Resolver {
	return &Resolver{
		http:   httpclient.NewClient(model.BackendDirect.String(), httpclient.WithTimeout(timeout)),
		logger: logging.OrNop(logger).Named("direct"),
	}
}

// Name implements backend.Backend.
func (r *Resolver) Name() model.Backend { return model.BackendDirect }

// IsMP3 reports whether the URL path names an MP3 file.
func IsMP3(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return strings.EqualFold(path.Ext(u.Path), ".mp3")
}

// Resolve returns the MP3 URL for rawURL, or "" when the page links none.
func (r *Resolver) Resolve(ctx context.Context, rawURL string) (string, error) {
	base, err := url.Parse(rawURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return "", &model.InvalidIdentifierError{Service: model.BackendDirect.String(), ID: rawURL, Err: err}
	}
	if IsMP3(rawURL) {
		return rawURL, nil
	}

	page, err := r.http.GetString(ctx, rawURL)
	if model.IsNotFound(err) {
		return "", nil
	}
	if err != nil {
		return "", err
	}

	link := findStream(page)
	if link == "" {
		r.logger.Debug("No MP3 link on page", zap.String("url", rawURL))
		return "", nil
	}
	return absolute(base, link), nil
}

// Lookup fetches the page at rawURL and describes what it plays. MP3
// URLs are described from their file name without a request.
func (r *Resolver) Lookup(ctx context.Context, rawURL string) (*model.DirectResult, error) {
	if IsMP3(rawURL) {
		u, _ := url.Parse(rawURL)
		name := strings.TrimSuffix(path.Base(u.Path), path.Ext(u.Path))
		name, _ = url.PathUnescape(name)
		return &model.DirectResult{URL: rawURL, Title: name}, nil
	}

	page, err := r.http.GetString(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	res := &model.DirectResult{URL: rawURL}
	if pd, err := parsePlayerData(page); err == nil {
		res.Artist = pd.Artist
		res.Title, _ = pd.firstTrack()
	}
	if res.Title == "" {
		if m := titlePattern.FindStringSubmatch(page); m != nil {
			res.Title = html.UnescapeString(strings.TrimSpace(m[1]))
		}
	}
	return res, nil
}

// findStream applies the page heuristics in priority order.
func findStream(page string) string {
	if pd, err := parsePlayerData(page); err == nil {
		if _, file := pd.firstTrack(); file != "" {
			return file
		}
	}
	if m := mp3LinkPattern.FindStringSubmatch(page); m != nil {
		return m[1]
	}
	// Play buttons count only when they point at an MP3 file.
	for _, re := range []*regexp.Regexp{playBtnPattern, playBtnPattern2} {
		for _, m := range re.FindAllStringSubmatch(page, -1) {
			if IsMP3(strings.TrimSpace(m[1])) {
				return m[1]
			}
		}
	}
	return ""
}

func absolute(base *url.URL, link string) string {
	ref, err := url.Parse(strings.TrimSpace(link))
	if err != nil {
		return link
	}
	return base.ResolveReference(ref).String()
}
