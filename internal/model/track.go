package model

import (
	"strconv"
)

// Kind identifies which resolver can turn a Track into a stream URL.
type Kind int

const (
	KindSoundCloud Kind = iota + 1
	KindYouTube
	KindDirect
)

func (k Kind) String() string {
	switch k {
	case KindSoundCloud:
		return "soundcloud"
	case KindYouTube:
		return "youtube"
	case KindDirect:
		return "direct"
	default:
		return "unknown"
	}
}

// Track represents a single song that can be downloaded.
//
// Track contains:
//   - The backend variant (Kind) and the backend identifier
//   - Descriptive Metadata used for tagging and file naming
//   - The resolution state set by the download pipeline
//
// The identifier never changes after construction. Downloadable and
// ResolvedSource stay unset until a download attempt resolves a stream.
//
// Example:
//
//	track := NewSoundCloud(1234567, NewMetadata("Uploader", "Title", "Title"))
//	id, _ := track.SoundCloudID() // 1234567
type Track struct {
	kind Kind
	id   string

	// Metadata holds the tags written to the output file.
	Metadata Metadata

	downloadable   bool
	resolvedSource string
}

// NewSoundCloud creates a SoundCloud track from its numeric ID.
func NewSoundCloud(id int64, md Metadata) *Track {
	return &Track{kind: KindSoundCloud, id: strconv.FormatInt(id, 10), Metadata: md}
}

// NewYouTube creates a YouTube track from an 11 character video ID.
func NewYouTube(videoID string, md Metadata) *Track {
	return &Track{kind: KindYouTube, id: videoID, Metadata: md}
}

// NewDirect creates a track whose identifier is a source URL, either a
// media file or a page linking to one.
func NewDirect(sourceURL string, md Metadata) *Track {
	return &Track{kind: KindDirect, id: sourceURL, Metadata: md}
}

// Kind returns the backend variant.
func (t *Track) Kind() Kind { return t.kind }

// ID returns the backend identifier.
func (t *Track) ID() string { return t.id }

// SoundCloudID returns the numeric identifier of a SoundCloud track.
func (t *Track) SoundCloudID() (int64, bool) {
	if t.kind != KindSoundCloud {
		return 0, false
	}
	id, err := strconv.ParseInt(t.id, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// Downloadable reports whether a download attempt validated a source.
func (t *Track) Downloadable() bool { return t.downloadable }

// ResolvedSource returns the stream URL found by the last resolution.
func (t *Track) ResolvedSource() string { return t.resolvedSource }

// MarkResolved records a successful resolution.
func (t *Track) MarkResolved(source string) {
	t.resolvedSource = source
	t.downloadable = source != ""
}

// Clone returns an independent copy of the track.
func (t *Track) Clone() *Track {
	c := *t
	return &c
}

func (t *Track) String() string {
	return t.kind.String() + ":" + t.id
}
