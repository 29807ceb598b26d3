package youtube

import (
	"context"
	"strings"

	kkdai "github.com/kkdai/youtube/v2"
	"go.uber.org/zap"

	"github.com/handiism/musichelper/internal/model"
	"github.com/handiism/musichelper/internal/workpool"
)

// Resolve returns the URL of the highest-bitrate audio-only stream of
// the video. A video without audio formats resolves to "".
func (c *Client) Resolve(ctx context.Context, id string) (string, error) {
	video, err := c.fetchVideo(ctx, id)
	if err != nil {
		return "", err
	}

	format := bestAudio(video.Formats)
	if format == nil {
		c.logger.Debug("No audio stream", zap.String("video_id", id))
		return "", nil
	}

	return workpool.Do(ctx, c.pool, func(ctx context.Context) (string, error) {
		u, err := c.videos.GetStreamURLContext(ctx, video, format)
		if err != nil {
			return "", c.streamError(ctx, id, err)
		}
		return u, nil
	})
}

// Lookup fetches the title, channel and thumbnails of a single video.
func (c *Client) Lookup(ctx context.Context, id string) (*model.YouTubeResult, error) {
	video, err := c.fetchVideo(ctx, id)
	if err != nil {
		return nil, err
	}

	res := &model.YouTubeResult{VideoID: video.ID, Title: video.Title, Channel: video.Author}
	if res.VideoID == "" {
		res.VideoID = id
	}
	for _, t := range video.Thumbnails {
		res.Thumbnails = append(res.Thumbnails, model.Thumbnail{URL: t.URL, Width: int(t.Width), Height: int(t.Height)})
	}
	return res, nil
}

func (c *Client) fetchVideo(ctx context.Context, id string) (*kkdai.Video, error) {
	if !ValidVideoID(id) {
		return nil, &model.InvalidIdentifierError{Service: model.BackendYouTube.String(), ID: id}
	}

	c.logger.Debug("Fetching video", zap.String("video_id", id))
	return workpool.Do(ctx, c.pool, func(ctx context.Context) (*kkdai.Video, error) {
		v, err := c.videos.GetVideoContext(ctx, id)
		if err != nil {
			return nil, c.streamError(ctx, id, err)
		}
		return v, nil
	})
}

func (c *Client) streamError(ctx context.Context, id string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return &model.TransportError{Service: model.BackendYouTube.String(), URL: watchURL(id), Err: err}
}

// bestAudio picks the audio-only format with the highest bitrate.
func bestAudio(formats kkdai.FormatList) *kkdai.Format {
	var best *kkdai.Format
	for i := range formats {
		f := &formats[i]
		if !strings.HasPrefix(f.MimeType, "audio/") {
			continue
		}
		if best == nil || f.Bitrate > best.Bitrate {
			best = f
		}
	}
	return best
}
