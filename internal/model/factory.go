package model

import (
	"fmt"
	"strings"
)

// Create converts a raw search result from source into a Track.
//
// Create performs no I/O and never panics. It returns:
//   - a SoundCloud track for a *SoundCloudResult from BackendSoundCloud
//   - a YouTube track, with Metadata.Fix applied when the channel is
//     known, for a *YouTubeResult from BackendYouTube
//   - ErrUnsupportedBackend for Deezer, YouTube Music and direct sources,
//     which have no Track variant reachable from search
//   - ErrNoTrack for any other combination, a nil result, or a result
//     lacking its identifier
//
// Callers skip results that yield ErrNoTrack.
func Create(raw Result, source Backend) (*Track, error) {
	switch source {
	case BackendDeezer, BackendYouTubeMusic, BackendDirect:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedBackend, source)
	}

	switch r := raw.(type) {
	case *SoundCloudResult:
		if source != BackendSoundCloud || r == nil || r.ID <= 0 {
			return nil, ErrNoTrack
		}
		md := NewMetadata(r.Uploader, r.Title, r.Title)
		md.CoverURL = r.ArtworkURL
		md.ReleaseYear = r.ReleaseYear
		md.Genres = r.Genre
		return NewSoundCloud(r.ID, md), nil

	case *YouTubeResult:
		if source != BackendYouTube || r == nil || strings.TrimSpace(r.VideoID) == "" {
			return nil, ErrNoTrack
		}
		md := NewMetadata(r.Channel, r.Title, r.Title)
		md.CoverURL = r.LargestThumbnail()
		if strings.TrimSpace(r.Channel) != "" {
			md.Fix()
		}
		return NewYouTube(r.VideoID, md), nil
	}

	return nil, ErrNoTrack
}
