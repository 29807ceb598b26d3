package helper

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/handiism/musichelper/internal/identify"
	"github.com/handiism/musichelper/internal/model"
)

type permalinkResolver interface {
	ResolveURL(ctx context.Context, permalink string) (*model.SoundCloudResult, error)
}

type videoLookup interface {
	Lookup(ctx context.Context, id string) (*model.YouTubeResult, error)
}

type tagFinder interface {
	FindTags(ctx context.Context, artist, title string) (*model.Metadata, error)
}

// Identify classifies a music service URL.
func (h *Helper) Identify(rawURL string) (*identify.Match, bool) {
	return identify.Identify(rawURL)
}

// TrackFromURL builds a Track for a YouTube, YouTube Music or SoundCloud
// link. Any other http(s) URL becomes a direct track described by the
// page it points to.
func (h *Helper) TrackFromURL(ctx context.Context, rawURL string) (*model.Track, error) {
	m, ok := identify.Identify(rawURL)
	if !ok {
		return h.directTrack(ctx, rawURL)
	}
	h.logger.Debug("Identified URL", zap.String("url", rawURL), zap.String("service", string(m.Service)))

	switch m.Service {
	case identify.YouTube, identify.YouTubeMusic:
		b, err := h.registry.Get(ctx, model.BackendYouTube)
		if err != nil {
			return nil, err
		}
		lookup, ok := b.(videoLookup)
		if !ok {
			return nil, fmt.Errorf("%w: %s lookup", model.ErrUnsupportedBackend, model.BackendYouTube)
		}
		res, err := lookup.Lookup(ctx, m.ID)
		if err != nil {
			return nil, err
		}
		return model.Create(res, model.BackendYouTube)

	case identify.SoundCloud:
		b, err := h.registry.Get(ctx, model.BackendSoundCloud)
		if err != nil {
			return nil, err
		}
		resolver, ok := b.(permalinkResolver)
		if !ok {
			return nil, fmt.Errorf("%w: %s permalinks", model.ErrUnsupportedBackend, model.BackendSoundCloud)
		}
		res, err := resolver.ResolveURL(ctx, rawURL)
		if err != nil {
			return nil, err
		}
		if res == nil {
			return nil, &model.NoResultsError{Query: rawURL, Service: model.BackendSoundCloud.String()}
		}
		return model.Create(res, model.BackendSoundCloud)

	default:
		return nil, fmt.Errorf("%w: %s", model.ErrUnsupportedBackend, m.Service)
	}
}

func (h *Helper) directTrack(ctx context.Context, rawURL string) (*model.Track, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, &model.InvalidIdentifierError{Service: model.BackendDirect.String(), ID: rawURL, Err: err}
	}

	res, err := h.direct.Lookup(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	artist := strings.TrimSpace(res.Artist)
	if artist == "" {
		artist = u.Hostname()
	}
	md := model.NewMetadata(artist, res.Title, "")
	if artist != "" {
		md.Fix()
	}
	return model.NewDirect(rawURL, md), nil
}

// Tags looks up the canonical tag set for artist and title on Deezer.
// It returns nil when Deezer knows no such track.
func (h *Helper) Tags(ctx context.Context, artist, title string) (*model.Metadata, error) {
	b, err := h.registry.Get(ctx, model.BackendDeezer)
	if err != nil {
		return nil, err
	}
	finder, ok := b.(tagFinder)
	if !ok {
		return nil, fmt.Errorf("%w: %s tags", model.ErrUnsupportedBackend, model.BackendDeezer)
	}
	return finder.FindTags(ctx, artist, title)
}

// Enrich replaces the metadata of track with the Deezer tag set for its
// artist and title, keeping the current value of any field Deezer
// leaves empty. It reports whether a match was found.
func (h *Helper) Enrich(ctx context.Context, track *model.Track) (bool, error) {
	tags, err := h.Tags(ctx, track.Metadata.Artist, track.Metadata.Title)
	if err != nil || tags == nil {
		return false, err
	}
	track.Metadata = merge(track.Metadata, *tags)
	return true, nil
}

func merge(base, tags model.Metadata) model.Metadata {
	str := func(dst *string, v string) {
		if v != "" && v != model.Unknown {
			*dst = v
		}
	}
	str(&base.Artist, tags.Artist)
	str(&base.Title, tags.Title)
	str(&base.Album, tags.Album)
	str(&base.CoverURL, tags.CoverURL)
	str(&base.Genres, tags.Genres)
	str(&base.ISRC, tags.ISRC)
	str(&base.Label, tags.Label)
	str(&base.Copyright, tags.Copyright)
	str(&base.ReleaseDate, tags.ReleaseDate)
	if tags.HasYear() {
		base.ReleaseYear = tags.ReleaseYear
	}
	if tags.TrackNumber > 0 {
		base.TrackNumber = tags.TrackNumber
	}
	if tags.DiscNumber > 0 {
		base.DiscNumber = tags.DiscNumber
	}
	return base
}
