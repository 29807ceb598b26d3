// Package identify classifies music service URLs and extracts their
// identifiers.
//
//	m, ok := identify.Identify("https://youtu.be/dQw4w9WgXcQ")
//	// m.Service == identify.YouTube, m.ID == "dQw4w9WgXcQ"
package identify

import "regexp"

// Service names a recognized music service.
type Service string

const (
	YouTube      Service = "youtube"
	YouTubeMusic Service = "youtube_music"
	SoundCloud   Service = "soundcloud"
	Spotify      Service = "spotify"
)

// Match is a recognized URL. ID is set for YouTube, YouTube Music and
// Spotify; User and Track are the permalink parts of a SoundCloud URL.
type Match struct {
	Service Service
	ID      string
	User    string
	Track   string
}

var (
	youtubeMusicPattern = regexp.MustCompile(`(?:https?://)?music\.youtube\.com/watch\?v=([a-zA-Z0-9_-]{11})(?:[^\w\-]|$)`)
	youtubePattern      = regexp.MustCompile(`(?:https?://)?(?:www\.)?youtu(?:\.be/|be\.com/\S*?[\?\&]v=)([a-zA-Z0-9_-]{11})(?:[^\w\-]|$)`)
	soundcloudPattern   = regexp.MustCompile(`(?:https?://)?(?:www\.)?soundcloud\.com/([\w-]+)/([\w-]+)`)
	spotifyPattern      = regexp.MustCompile(`(?:https?://)?(?:open\.spotify\.com/|spotify\.com/)(?:track|album)/([a-zA-Z0-9]+)`)
)

// Identify returns the service and identifiers of url. YouTube Music is
// checked before YouTube, whose pattern also matches music links.
func Identify(url string) (*Match, bool) {
	if m := youtubeMusicPattern.FindStringSubmatch(url); m != nil {
		return &Match{Service: YouTubeMusic, ID: m[1]}, true
	}
	if m := youtubePattern.FindStringSubmatch(url); m != nil {
		return &Match{Service: YouTube, ID: m[1]}, true
	}
	if m := soundcloudPattern.FindStringSubmatch(url); m != nil {
		return &Match{Service: SoundCloud, User: m[1], Track: m[2]}, true
	}
	if m := spotifyPattern.FindStringSubmatch(url); m != nil {
		return &Match{Service: Spotify, ID: m[1]}, true
	}
	return nil, false
}
