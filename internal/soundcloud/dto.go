package soundcloud

import (
	"strconv"
	"strings"

	"github.com/handiism/musichelper/internal/model"
)

type userDTO struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

type formatDTO struct {
	Protocol string `json:"protocol"`
	MimeType string `json:"mime_type"`
}

type transcodingDTO struct {
	URL      string    `json:"url"`
	Preset   string    `json:"preset"`
	Duration int64     `json:"duration"`
	Snipped  bool      `json:"snipped"`
	Format   formatDTO `json:"format"`
}

type mediaDTO struct {
	Transcodings []transcodingDTO `json:"transcodings"`
}

type trackDTO struct {
	Kind         string   `json:"kind"`
	ID           int64    `json:"id"`
	Title        string   `json:"title"`
	Genre        string   `json:"genre"`
	ArtworkURL   string   `json:"artwork_url"`
	PermalinkURL string   `json:"permalink_url"`
	ReleaseDate  string   `json:"release_date"`
	DisplayDate  string   `json:"display_date"`
	CreatedAt    string   `json:"created_at"`
	Duration     int64    `json:"duration"`
	Downloadable bool     `json:"downloadable"`
	SecretToken  string   `json:"secret_token"`
	User         userDTO  `json:"user"`
	Media        mediaDTO `json:"media"`
}

type searchDTO struct {
	Collection []trackDTO `json:"collection"`
	NextHref   string     `json:"next_href"`
}

func (t *trackDTO) toResult() *model.SoundCloudResult {
	return &model.SoundCloudResult{
		ID:           t.ID,
		Title:        t.Title,
		Uploader:     t.User.Username,
		ArtworkURL:   largeArtwork(t.ArtworkURL),
		PermalinkURL: t.PermalinkURL,
		Genre:        strings.TrimSpace(t.Genre),
		ReleaseYear:  t.releaseYear(),
		DurationMs:   t.Duration,
		Downloadable: t.Downloadable,
	}
}

// releaseYear reads the year from the first populated date field.
func (t *trackDTO) releaseYear() int {
	for _, date := range []string{t.ReleaseDate, t.DisplayDate, t.CreatedAt} {
		if len(date) < 4 {
			continue
		}
		if year, err := strconv.Atoi(date[:4]); err == nil && year > 0 {
			return year
		}
	}
	return model.UnknownYear
}

// largeArtwork swaps the default 100x100 artwork for the 500x500 rendition.
func largeArtwork(u string) string {
	return strings.Replace(u, "-large.", "-t500x500.", 1)
}
