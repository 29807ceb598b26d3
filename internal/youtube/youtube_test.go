package youtube

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	kkdai "github.com/kkdai/youtube/v2"

	"github.com/handiism/musichelper/internal/model"
	"github.com/handiism/musichelper/internal/workpool"
)

type fakeVideos struct {
	video     *kkdai.Video
	err       error
	streamFor string
	calls     int
}

func (f *fakeVideos) GetVideoContext(ctx context.Context, id string) (*kkdai.Video, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.video, nil
}

func (f *fakeVideos) GetStreamURLContext(ctx context.Context, video *kkdai.Video, format *kkdai.Format) (string, error) {
	f.streamFor = format.MimeType
	return "https://rr1.googlevideo.com/" + format.MimeType, nil
}

func newTestClient(t *testing.T, cfg Config, videos videoClient) *Client {
	t.Helper()
	c, err := New(context.Background(), cfg, workpool.New(1), nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if videos != nil {
		c.videos = videos
	}
	return c
}

func TestResolve_HighestBitrateAudio(t *testing.T) {
	videos := &fakeVideos{video: &kkdai.Video{
		ID: "dQw4w9WgXcQ",
		Formats: kkdai.FormatList{
			{MimeType: "video/mp4; codecs=\"avc1\"", Bitrate: 900000},
			{MimeType: "audio/mp4; codecs=\"mp4a.40.2\"", Bitrate: 128000},
			{MimeType: "audio/webm; codecs=\"opus\"", Bitrate: 160000},
		},
	}}
	c := newTestClient(t, Config{}, videos)

	got, err := c.Resolve(context.Background(), "dQw4w9WgXcQ")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if !strings.Contains(videos.streamFor, "opus") {
		t.Errorf("stream chosen for %q, want the opus format", videos.streamFor)
	}
	if got == "" {
		t.Error("Resolve() returned an empty URL")
	}
}

func TestResolve_NoAudio(t *testing.T) {
	videos := &fakeVideos{video: &kkdai.Video{Formats: kkdai.FormatList{{MimeType: "video/mp4", Bitrate: 1}}}}
	got, err := newTestClient(t, Config{}, videos).Resolve(context.Background(), "dQw4w9WgXcQ")
	if err != nil || got != "" {
		t.Errorf("Resolve() = %q, %v, want empty result", got, err)
	}
}

func TestResolve_InvalidID(t *testing.T) {
	videos := &fakeVideos{}
	c := newTestClient(t, Config{}, videos)

	for _, id := range []string{"", "short", "dQw4w9WgXcQ-too-long", "bad id!!!!!"} {
		_, err := c.Resolve(context.Background(), id)
		if !errors.Is(err, model.ErrInvalidIdentifier) {
			t.Errorf("Resolve(%q) error = %v, want ErrInvalidIdentifier", id, err)
		}
	}
	if videos.calls != 0 {
		t.Errorf("extractor called %d times for invalid IDs", videos.calls)
	}
}

func TestResolve_ExtractorError(t *testing.T) {
	videos := &fakeVideos{err: errors.New("video unavailable")}
	_, err := newTestClient(t, Config{}, videos).Resolve(context.Background(), "dQw4w9WgXcQ")
	var te *model.TransportError
	if !errors.As(err, &te) || !strings.Contains(te.URL, "dQw4w9WgXcQ") {
		t.Errorf("Resolve() error = %v, want transport error for the video", err)
	}
}

func TestLookup(t *testing.T) {
	videos := &fakeVideos{video: &kkdai.Video{
		ID:     "dQw4w9WgXcQ",
		Title:  "Never Gonna Give You Up",
		Author: "Rick Astley",
		Thumbnails: kkdai.Thumbnails{
			{URL: "small.jpg", Width: 120, Height: 90},
			{URL: "big.jpg", Width: 1280, Height: 720},
		},
	}}
	got, err := newTestClient(t, Config{}, videos).Lookup(context.Background(), "dQw4w9WgXcQ")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if got.Channel != "Rick Astley" || got.LargestThumbnail() != "big.jpg" {
		t.Errorf("Lookup() = %+v", got)
	}
}

func TestSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/search") {
			http.NotFound(w, r)
			return
		}
		q := r.URL.Query()
		if got := q.Get("q"); got != "daft punk music" {
			t.Errorf("q = %q, want %q", got, "daft punk music")
		}
		if got := q.Get("type"); got != "video" {
			t.Errorf("type = %q, want video", got)
		}
		if got := q.Get("key"); got != "k" {
			t.Errorf("key = %q, want k", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"items":[
			{"id":{"kind":"youtube#video","videoId":"FGBhQbmPwH8"},"snippet":{"title":"One More Time","channelTitle":"Daft Punk",
				"thumbnails":{"default":{"url":"d.jpg","width":120,"height":90},"high":{"url":"h.jpg","width":480,"height":360}}}},
			{"id":{"kind":"youtube#video","videoId":"a5uQMwRMHcs"},"snippet":{"title":"Da Funk","channelTitle":"Daft Punk"}}
		]}`))
	}))
	defer srv.Close()

	c := newTestClient(t, Config{APIKey: "k", Endpoint: srv.URL + "/"}, nil)
	results, err := c.Search(context.Background(), "daft punk", 2)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("Search() returned %d results, want 2", len(results))
	}
	first := results[0].(*model.YouTubeResult)
	if first.VideoID != "FGBhQbmPwH8" || first.Channel != "Daft Punk" || first.LargestThumbnail() != "h.jpg" {
		t.Errorf("first result = %+v", first)
	}
}

func TestSearch_Unavailable(t *testing.T) {
	_, err := newTestClient(t, Config{}, nil).Search(context.Background(), "x", 1)
	if !errors.Is(err, model.ErrServiceUnavailable) {
		t.Errorf("Search() error = %v, want ErrServiceUnavailable", err)
	}
}

func TestValidVideoID(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"dQw4w9WgXcQ", true},
		{"a5uQMwRM-c_", true},
		{"dQw4w9WgXc", false},
		{"dQw4w9WgXcQQ", false},
		{"dQw4w9WgXc!", false},
	}
	for _, tt := range tests {
		if got := ValidVideoID(tt.id); got != tt.want {
			t.Errorf("ValidVideoID(%q) = %v, want %v", tt.id, got, tt.want)
		}
	}
}
