package model

import (
	"strings"
	"unicode/utf8"
)

const (
	// UnknownYear marks a release year that is not known.
	UnknownYear = -1

	// Unknown is the placeholder for required text fields with no value.
	Unknown = "unknown"
)

// Metadata holds the descriptive tags of a track.
//
// Artist, Title and Album are always set, falling back to Unknown.
// ReleaseYear is UnknownYear and Genres is empty when not known; the
// tagger omits those frames rather than writing empty values.
//
// The remaining fields come from the Deezer tag set and are zero when
// the track was not enriched.
type Metadata struct {
	Artist      string
	Title       string
	Album       string
	CoverURL    string
	ReleaseYear int
	Genres      string

	TrackNumber int
	DiscNumber  int
	ISRC        string
	Label       string
	Copyright   string
	// ReleaseDate is YYYY-MM-DD when known.
	ReleaseDate string
}

// NewMetadata returns metadata with placeholders for empty fields and an
// unknown release year. An empty album defaults to the title.
func NewMetadata(artist, title, album string) Metadata {
	if artist = strings.TrimSpace(artist); artist == "" {
		artist = Unknown
	}
	if title = strings.TrimSpace(title); title == "" {
		title = Unknown
	}
	if album = strings.TrimSpace(album); album == "" {
		album = title
	}
	return Metadata{
		Artist:      artist,
		Title:       title,
		Album:       album,
		ReleaseYear: UnknownYear,
	}
}

// HasYear reports whether ReleaseYear holds a real value.
func (m Metadata) HasYear() bool {
	return m.ReleaseYear != UnknownYear && m.ReleaseYear > 0
}

// Fix removes the artist name from the title.
//
// The first case-insensitive occurrence of Artist in Title is removed
// together with the run of '-' and ' ' characters that follows it, and
// the result is trimmed. Separators before the occurrence stay, so
// "Uprising - Muse" becomes "Uprising -", and a title that is only the
// artist becomes empty. Album follows the title when it equalled the
// unstripped title. Fix is a no-op when Artist is empty or not found.
//
// Example:
//
//	md := Metadata{Artist: "Muse", Title: "MUSE - Uprising", Album: "MUSE - Uprising"}
//	md.Fix()
//	// md.Title == "Uprising", md.Album == "Uprising"
func (m *Metadata) Fix() {
	if m.Artist == "" {
		return
	}
	start, end := indexFold(m.Title, m.Artist)
	if start < 0 {
		return
	}
	for end < len(m.Title) && (m.Title[end] == '-' || m.Title[end] == ' ') {
		end++
	}

	fixed := strings.TrimSpace(m.Title[:start] + m.Title[end:])
	if m.Album == m.Title {
		m.Album = fixed
	}
	m.Title = fixed
}

// indexFold returns the byte range of the first occurrence of substr in s
// under Unicode simple case folding, or -1, -1.
func indexFold(s, substr string) (int, int) {
	if substr == "" {
		return -1, -1
	}
	for i := range s {
		j := i
		matched := true
		for _, want := range substr {
			if j >= len(s) {
				matched = false
				break
			}
			got, size := utf8.DecodeRuneInString(s[j:])
			if got != want && !strings.EqualFold(string(got), string(want)) {
				matched = false
				break
			}
			j += size
		}
		if matched {
			return i, j
		}
	}
	return -1, -1
}
