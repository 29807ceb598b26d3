package soundcloud

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/handiism/musichelper/internal/model"
)

// Estimated throughput of each transcoding codec, in kilobytes per second.
const (
	aacKBps = 256 / 8
	mp3KBps = 128 / 8
)

// Resolve returns a streamable URL for the track with the given numeric ID.
// A missing track, or one without a usable transcoding, resolves to "".
func (c *Client) Resolve(ctx context.Context, id string) (string, error) {
	trackID, err := strconv.ParseInt(id, 10, 64)
	if err != nil || trackID <= 0 {
		return "", &model.InvalidIdentifierError{Service: model.BackendSoundCloud.String(), ID: id, Err: err}
	}

	c.logger.Debug("Resolving stream", zap.Int64("track_id", trackID))
	t, err := c.track(ctx, trackID)
	if err != nil {
		return "", err
	}
	if t == nil {
		c.logger.Debug("Track not found", zap.Int64("track_id", trackID))
		return "", nil
	}

	if t.Downloadable {
		link, err := c.originalDownload(ctx, t)
		if err != nil {
			return "", err
		}
		if link != "" {
			return link, nil
		}
	}

	tc := pickTranscoding(t.Media.Transcodings)
	if tc == nil {
		c.logger.Debug("No HLS transcoding", zap.Int64("track_id", trackID))
		return "", nil
	}

	if size := estimateBytes(tc); !c.withinWindow(size) {
		c.logger.Debug("Transcoding outside size window",
			zap.Int64("track_id", trackID),
			zap.String("preset", tc.Preset),
			zap.Float64("estimated_bytes", size))
		return "", nil
	}

	return c.streamURL(ctx, tc)
}

// originalDownload fetches the original file link of a downloadable
// track. Client errors (the file was withdrawn, or the token may not
// download it) yield "" so that resolution falls back to transcodings.
func (c *Client) originalDownload(ctx context.Context, t *trackDTO) (string, error) {
	var q url.Values
	if t.SecretToken != "" {
		q = url.Values{"secret_token": {t.SecretToken}}
	}
	body, err := c.get(ctx, fmt.Sprintf("%s/tracks/%d/download", c.baseURL, t.ID), q)
	if status := statusOf(err); status >= 400 && status < 500 {
		c.logger.Debug("Original download unavailable", zap.Int64("track_id", t.ID), zap.Int("status", status))
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return gjson.GetBytes(body, "redirectUri").String(), nil
}

// streamURL exchanges a transcoding endpoint for a signed stream URL.
func (c *Client) streamURL(ctx context.Context, tc *transcodingDTO) (string, error) {
	if tc.URL == "" {
		return "", nil
	}
	body, err := c.get(ctx, tc.URL, nil)
	if model.IsNotFound(err) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	if u := gjson.GetBytes(body, "url"); u.Type == gjson.String {
		return u.String(), nil
	}
	return "", nil
}

// pickTranscoding prefers an AAC HLS stream and falls back to MP3 HLS.
// Within a codec the last listed transcoding wins.
func pickTranscoding(list []transcodingDTO) *transcodingDTO {
	var aac, mp3 *transcodingDTO
	for i := range list {
		tc := &list[i]
		if tc.Format.Protocol != "hls" {
			continue
		}
		switch {
		case strings.Contains(tc.Preset, "aac"):
			aac = tc
		case strings.Contains(tc.Preset, "mp3"):
			mp3 = tc
		}
	}
	if aac != nil {
		return aac
	}
	return mp3
}

// estimateBytes multiplies the codec rate by the duration in seconds.
func estimateBytes(tc *transcodingDTO) float64 {
	rate := float64(mp3KBps)
	if strings.Contains(tc.Preset, "aac") {
		rate = aacKBps
	}
	return rate * 1024 * float64(tc.Duration) / 1000
}

func (c *Client) withinWindow(size float64) bool {
	if c.minBytes > 0 && size < float64(c.minBytes) {
		return false
	}
	if c.maxBytes > 0 && size > float64(c.maxBytes) {
		return false
	}
	return true
}
