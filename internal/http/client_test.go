package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/handiism/musichelper/internal/model"
)

func TestClient_GetJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("client_id"); got != "abc" {
			t.Errorf("client_id = %q, want %q", got, "abc")
		}
		if got := r.URL.Query().Get("keep"); got != "1" {
			t.Errorf("keep = %q, want original query preserved", got)
		}
		if got := r.Header.Get("Authorization"); got != "OAuth tok" {
			t.Errorf("Authorization = %q", got)
		}
		if r.Header.Get("User-Agent") == "" {
			t.Error("User-Agent header missing")
		}
		w.Write([]byte(`{"url":"https://cdn.example.com/a.m3u8","n":3}`))
	}))
	defer srv.Close()

	client := NewClient("soundcloud")
	var got struct {
		URL string `json:"url"`
		N   int    `json:"n"`
	}
	err := client.GetJSON(context.Background(), srv.URL+"/x?keep=1",
		url.Values{"client_id": {"abc"}},
		http.Header{"Authorization": {"OAuth tok"}},
		&got)
	if err != nil {
		t.Fatalf("GetJSON() error = %v", err)
	}
	if got.URL != "https://cdn.example.com/a.m3u8" || got.N != 3 {
		t.Errorf("GetJSON() = %+v", got)
	}
}

func TestClient_StatusErrors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		notFound bool
	}{
		{"not found", http.StatusNotFound, true},
		{"unauthorized", http.StatusUnauthorized, false},
		{"server error", http.StatusInternalServerError, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			_, err := NewClient("deezer").Get(context.Background(), srv.URL+"/?secret=1", nil, nil)
			var te *model.TransportError
			if !errors.As(err, &te) {
				t.Fatalf("Get() error = %v, want *model.TransportError", err)
			}
			if te.StatusCode != tt.status {
				t.Errorf("StatusCode = %d, want %d", te.StatusCode, tt.status)
			}
			if te.Service != "deezer" {
				t.Errorf("Service = %q, want deezer", te.Service)
			}
			if strings.Contains(te.URL, "secret") {
				t.Errorf("URL %q should not carry the query string", te.URL)
			}
			if model.IsNotFound(err) != tt.notFound {
				t.Errorf("IsNotFound() = %v, want %v", !tt.notFound, tt.notFound)
			}
		})
	}
}

func TestClient_PostJSONAndCookies(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		if c, err := r.Cookie("arl"); err != nil || c.Value != "secret" {
			t.Errorf("arl cookie = %v, %v", c, err)
		}
		http.SetCookie(w, &http.Cookie{Name: "sid", Value: "s1", Path: "/"})
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := NewClient("deezer", WithCookieJar())
	u, _ := url.Parse(srv.URL)
	client.SetCookies(u, []*http.Cookie{{Name: "arl", Value: "secret", Path: "/"}})

	if _, err := client.PostJSON(context.Background(), srv.URL, nil, nil, map[string]int{"a": 1}); err != nil {
		t.Fatalf("PostJSON() error = %v", err)
	}

	var sid string
	for _, c := range client.Cookies(u) {
		if c.Name == "sid" {
			sid = c.Value
		}
	}
	if sid != "s1" {
		t.Errorf("sid cookie = %q, want s1", sid)
	}
}

func TestClient_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewClient("yt").GetString(ctx, srv.URL)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("GetString() error = %v, want context.Canceled", err)
	}
}
