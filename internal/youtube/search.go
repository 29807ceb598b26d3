package youtube

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"
	"google.golang.org/api/googleapi"
	ytapi "google.golang.org/api/youtube/v3"

	"github.com/handiism/musichelper/internal/model"
)

// Search returns up to limit videos for query. The query is narrowed
// with a "music" suffix.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]model.Result, error) {
	if c.search == nil {
		return nil, &model.ServiceUnavailableError{
			Service: model.BackendYouTube.String(),
			Err:     errors.New("search needs an API key or OAuth"),
		}
	}
	if limit <= 0 {
		limit = 1
	}

	c.logger.Debug("Searching videos", zap.String("query", query), zap.Int("limit", limit))
	resp, err := c.search.Search.List([]string{"id", "snippet"}).
		Q(query + " music").
		Type("video").
		MaxResults(int64(limit)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, c.apiError(ctx, err)
	}

	results := make([]model.Result, 0, len(resp.Items))
	for _, item := range resp.Items {
		if len(results) == limit {
			break
		}
		if item.Id == nil || item.Id.VideoId == "" || item.Snippet == nil {
			continue
		}
		results = append(results, &model.YouTubeResult{
			VideoID:    item.Id.VideoId,
			Title:      item.Snippet.Title,
			Channel:    item.Snippet.ChannelTitle,
			Thumbnails: thumbnails(item.Snippet.Thumbnails),
		})
	}
	return results, nil
}

// thumbnails lists the available sizes from smallest to largest.
func thumbnails(d *ytapi.ThumbnailDetails) []model.Thumbnail {
	if d == nil {
		return nil
	}
	var out []model.Thumbnail
	for _, t := range []*ytapi.Thumbnail{d.Default, d.Medium, d.High, d.Standard, d.Maxres} {
		if t == nil || t.Url == "" {
			continue
		}
		out = append(out, model.Thumbnail{URL: t.Url, Width: int(t.Width), Height: int(t.Height)})
	}
	return out
}

func (c *Client) apiError(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		if gerr.Code == http.StatusUnauthorized {
			return &model.AuthError{Service: model.BackendYouTube.String(), Reason: gerr.Message}
		}
		return &model.TransportError{Service: model.BackendYouTube.String(), StatusCode: gerr.Code, Err: err}
	}
	return &model.TransportError{Service: model.BackendYouTube.String(), Err: err}
}
