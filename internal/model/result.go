package model

// Result is a raw search result from one backend. The set of variants is
// closed: SoundCloudResult, YouTubeResult, DeezerResult and DirectResult.
type Result interface {
	isResult()
}

// SoundCloudResult is a track record from the SoundCloud API.
type SoundCloudResult struct {
	ID           int64
	Title        string
	Uploader     string
	ArtworkURL   string
	PermalinkURL string
	Genre        string
	ReleaseYear  int
	DurationMs   int64
	Downloadable bool
}

// Thumbnail is one rendition of a YouTube video thumbnail.
type Thumbnail struct {
	URL    string
	Width  int
	Height int
}

// YouTubeResult is a video record from YouTube search or lookup.
// Thumbnails are ordered from smallest to largest.
type YouTubeResult struct {
	VideoID    string
	Title      string
	Channel    string
	Thumbnails []Thumbnail
}

// DeezerResult is a track record from the Deezer public API.
type DeezerResult struct {
	ID       int64
	Title    string
	Artist   string
	Album    string
	AlbumID  int64
	CoverURL string
	ISRC     string
	Duration int
}

// DirectResult points at a media file or a page embedding one.
type DirectResult struct {
	URL    string
	Title  string
	Artist string
}

func (*SoundCloudResult) isResult() {}
func (*YouTubeResult) isResult()    {}
func (*DeezerResult) isResult()     {}
func (*DirectResult) isResult()     {}

// LargestThumbnail returns the URL of the thumbnail with the largest area.
// Thumbnails without dimensions rank by position, later being larger.
func (r *YouTubeResult) LargestThumbnail() string {
	best, bestArea := "", -1
	for _, th := range r.Thumbnails {
		if th.URL == "" {
			continue
		}
		if area := th.Width * th.Height; area >= bestArea {
			best, bestArea = th.URL, area
		}
	}
	return best
}
