package deezer

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/handiism/musichelper/internal/model"
)

const coverURLFormat = "https://e-cdns-images.dzcdn.net/images/cover/%s/1000x1000-000000-80-0-0.jpg"

var (
	featPattern   = regexp.MustCompile(`(?i)(?:\s+|\()(?:feat|ft)\.?\s+`)
	spacesPattern = regexp.MustCompile(`\s+`)
)

// albumInfo holds the album fields song.getData lacks.
type albumInfo struct {
	Genres      []string
	Label       string
	ReleaseDate string
}

// Search queries the public API for tracks.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]model.Result, error) {
	if limit <= 0 {
		limit = 1
	}
	query = cleanQuery(query)
	c.logger.Debug("Searching tracks", zap.String("query", query), zap.Int("limit", limit))

	body, err := c.api(ctx, "/search/track", url.Values{"q": {query}, "limit": {strconv.Itoa(limit)}})
	if model.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var results []model.Result
	gjson.GetBytes(body, "data").ForEach(func(_, t gjson.Result) bool {
		results = append(results, &model.DeezerResult{
			ID:       t.Get("id").Int(),
			Title:    t.Get("title").String(),
			Artist:   t.Get("artist.name").String(),
			Album:    t.Get("album.title").String(),
			AlbumID:  t.Get("album.id").Int(),
			CoverURL: coverURL(t.Get("album.md5_image").String()),
			ISRC:     t.Get("isrc").String(),
			Duration: int(t.Get("duration").Int()),
		})
		return len(results) < limit
	})
	return results, nil
}

// TrackTags builds the tag set of a track from song.getData and the
// album record. A missing track returns (nil, nil).
func (c *Client) TrackTags(ctx context.Context, id int64) (*model.Metadata, error) {
	song, err := c.gateway(ctx, methodSongGetData, map[string]any{"sng_id": id})
	var de *dataError
	if errors.As(err, &de) {
		c.logger.Debug("Track not found", zap.Int64("track_id", id), zap.String("reason", de.reason))
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	title := song.Get("SNG_TITLE").String()
	if v := song.Get("VERSION").String(); v != "" && !strings.Contains(title, v) {
		title += " " + v
	}
	md := model.NewMetadata(song.Get("ART_NAME").String(), title, song.Get("ALB_TITLE").String())
	md.CoverURL = coverURL(song.Get("ALB_PICTURE").String())
	md.TrackNumber = int(song.Get("TRACK_NUMBER").Int())
	md.DiscNumber = int(song.Get("DISK_NUMBER").Int())
	md.ISRC = song.Get("ISRC").String()
	md.Copyright = song.Get("COPYRIGHT").String()
	md.ReleaseDate = song.Get("PHYSICAL_RELEASE_DATE").String()

	if albumID := song.Get("ALB_ID").Int(); albumID > 0 {
		album, err := c.album(ctx, albumID)
		if err != nil {
			return nil, err
		}
		md.Label = album.Label
		md.Genres = strings.Join(album.Genres, ", ")
		if album.ReleaseDate != "" {
			md.ReleaseDate = album.ReleaseDate
		}
	}
	md.ReleaseYear = yearOf(md.ReleaseDate)
	return &md, nil
}

// FindTags searches for artist and title and returns the tags of the
// best match, or nil when nothing matches.
func (c *Client) FindTags(ctx context.Context, artist, title string) (*model.Metadata, error) {
	results, err := c.Search(ctx, artist+" "+title, 1)
	if err != nil || len(results) == 0 {
		return nil, err
	}
	return c.TrackTags(ctx, results[0].(*model.DeezerResult).ID)
}

func (c *Client) album(ctx context.Context, id int64) (albumInfo, error) {
	if a, ok := c.albums.Get(id); ok {
		return a, nil
	}
	body, err := c.api(ctx, fmt.Sprintf("/album/%d", id), nil)
	if model.IsNotFound(err) {
		return albumInfo{}, nil
	}
	if err != nil {
		return albumInfo{}, err
	}

	a := albumInfo{
		Label:       gjson.GetBytes(body, "label").String(),
		ReleaseDate: gjson.GetBytes(body, "release_date").String(),
	}
	for _, g := range gjson.GetBytes(body, "genres.data.#.name").Array() {
		a.Genres = append(a.Genres, g.String())
	}
	a.Genres = lo.Uniq(a.Genres)
	c.albums.Add(id, a)
	return a, nil
}

// cleanQuery drops featuring markers and ampersands that hurt search.
func cleanQuery(q string) string {
	q = featPattern.ReplaceAllString(q, " ")
	q = strings.ReplaceAll(q, "&", "")
	q = strings.ReplaceAll(q, "–", "-")
	return strings.TrimSpace(spacesPattern.ReplaceAllString(q, " "))
}

func coverURL(hash string) string {
	if hash == "" {
		return ""
	}
	return fmt.Sprintf(coverURLFormat, hash)
}

func yearOf(date string) int {
	if len(date) < 4 {
		return model.UnknownYear
	}
	y, err := strconv.Atoi(date[:4])
	if err != nil || y <= 0 {
		return model.UnknownYear
	}
	return y
}
