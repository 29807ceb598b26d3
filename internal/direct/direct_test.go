package direct

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/handiism/musichelper/internal/model"
)

const playerPage = `<html><head><title>Ignored</title></head><body>
<script data-tralbum="{&quot;artist&quot;:&quot;Band&quot;,&quot;current&quot;:{&quot;title&quot;:&quot;Record&quot;},
&quot;trackinfo&quot;:[{&quot;title&quot;:&quot;Intro&quot;,&quot;file&quot;:null},
{&quot;title&quot;:&quot;Opener&quot;,&quot;file&quot;:{&quot;mp3-128&quot;:&quot;//t4.bcbits.com/stream/abc&quot;}}]}"></script>
</body></html>`

func TestResolve(t *testing.T) {
	pages := map[string]string{
		"/episode": `<html><body><p>Listen</p><a class="dl" href="media/ep1.mp3?dl=1">Download</a></body></html>`,
		"/absolute": `<a href="https://cdn.example.com/a.MP3">x</a>`,
		"/player":   `<div class="btn play-btn" href="/play/42.mp3">Play</div>`,
		"/player2":  `<div><a href="/play/43" class="play-btn">Info</a><div href="/play/43.mp3" class="play-btn big">Play</div></div>`,
		"/nonmp3":   `<div class="play-btn" href="/watch/44">Play</div>`,
		"/embedded": playerPage,
		"/empty":    `<html><body>nothing here</body></html>`,
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page, ok := pages[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(page))
	}))
	defer srv.Close()

	tests := []struct {
		name string
		url  string
		want string
	}{
		{"mp3 url", "https://cdn.example.com/song.mp3", "https://cdn.example.com/song.mp3"},
		{"relative anchor", srv.URL + "/episode", srv.URL + "/media/ep1.mp3?dl=1"},
		{"absolute anchor", srv.URL + "/absolute", "https://cdn.example.com/a.MP3"},
		{"play button div", srv.URL + "/player", srv.URL + "/play/42.mp3"},
		{"play button skips non mp3", srv.URL + "/player2", srv.URL + "/play/43.mp3"},
		{"play button without mp3", srv.URL + "/nonmp3", ""},
		{"embedded player", srv.URL + "/embedded", "https://t4.bcbits.com/stream/abc"},
		{"no link", srv.URL + "/empty", ""},
		{"missing page", srv.URL + "/gone", ""},
	}
	r := New(0, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Resolve(context.Background(), tt.url)
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Resolve() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolve_InvalidURL(t *testing.T) {
	_, err := New(0, nil).Resolve(context.Background(), "not a url")
	if !errors.Is(err, model.ErrInvalidIdentifier) {
		t.Errorf("Resolve() error = %v, want ErrInvalidIdentifier", err)
	}
}

func TestLookup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/embedded":
			w.Write([]byte(playerPage))
		default:
			w.Write([]byte(`<html><head><title> Tom &amp; Jerry </title></head></html>`))
		}
	}))
	defer srv.Close()

	r := New(0, nil)
	tests := []struct {
		url        string
		wantTitle  string
		wantArtist string
	}{
		{srv.URL + "/embedded", "Opener", "Band"},
		{srv.URL + "/page", "Tom & Jerry", ""},
		{"https://cdn.example.com/My%20Song.mp3", "My Song", ""},
	}
	for _, tt := range tests {
		got, err := r.Lookup(context.Background(), tt.url)
		if err != nil {
			t.Fatalf("Lookup(%q) error = %v", tt.url, err)
		}
		if got.Title != tt.wantTitle || got.Artist != tt.wantArtist || got.URL != tt.url {
			t.Errorf("Lookup(%q) = %+v", tt.url, got)
		}
	}
}

func TestIsMP3(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://a.example/x.mp3", true},
		{"https://a.example/x.MP3?token=1", true},
		{"https://a.example/x.mp3.html", false},
		{"https://a.example/mp3", false},
	}
	for _, tt := range tests {
		if got := IsMP3(tt.url); got != tt.want {
			t.Errorf("IsMP3(%q) = %v, want %v", tt.url, got, tt.want)
		}
	}
}
