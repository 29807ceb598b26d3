package model

import "strings"

// Backend names one external service.
type Backend string

const (
	BackendSoundCloud   Backend = "soundcloud"
	BackendDeezer       Backend = "deezer"
	BackendYouTube      Backend = "yt"
	BackendYouTubeMusic Backend = "ytm"
	BackendDirect       Backend = "direct"
)

// SearchBackends lists the names accepted in a comma-separated backend list.
var SearchBackends = []Backend{
	BackendSoundCloud,
	BackendDeezer,
	BackendYouTube,
	BackendYouTubeMusic,
}

// ParseBackend returns the backend for a trimmed, case-insensitive name.
// Only searchable backends are recognized.
func ParseBackend(name string) (Backend, bool) {
	b := Backend(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range SearchBackends {
		if b == known {
			return b, true
		}
	}
	return "", false
}

func (b Backend) String() string {
	return string(b)
}
