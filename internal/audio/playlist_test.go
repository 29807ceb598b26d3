package audio

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func testEntries(dir string) []PlaylistEntry {
	return []PlaylistEntry{
		{Path: filepath.Join(dir, "Daft Punk - One More Time.mp3"), Artist: "Daft Punk", Title: "One More Time"},
		{Path: "", Artist: "Failed", Title: "Download"},
		{Path: filepath.Join(dir, "sub", "Episode 12.mp3"), Title: "Episode 12"},
	}
}

func TestWritePlaylist_M3U(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "session.m3u")

	if err := WritePlaylist(path, testEntries(dir)); err != nil {
		t.Fatalf("WritePlaylist() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	want := "#EXTM3U\n" +
		"#EXTINF:-1,Daft Punk - One More Time\nDaft Punk - One More Time.mp3\n" +
		"#EXTINF:-1,Episode 12\nsub/Episode 12.mp3\n"
	if string(data) != want {
		t.Errorf("playlist = %q, want %q", data, want)
	}
}

func TestWritePlaylist_PLS(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lists", "session.PLS")

	if err := WritePlaylist(path, testEntries(dir)); err != nil {
		t.Fatalf("WritePlaylist() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	content := string(data)

	if !strings.HasPrefix(content, "[playlist]\n") {
		t.Error("PLS should start with [playlist]")
	}
	if !strings.Contains(content, "NumberOfEntries=2\n") {
		t.Errorf("PLS should count two entries:\n%s", content)
	}
	// Files outside the playlist directory keep absolute paths.
	if want := "File1=" + filepath.Join(dir, "Daft Punk - One More Time.mp3") + "\n"; !strings.Contains(content, want) {
		t.Errorf("PLS missing %q:\n%s", want, content)
	}
}

func TestPlaylistFormatFor(t *testing.T) {
	tests := []struct {
		path    string
		want    PlaylistFormat
		wantErr bool
	}{
		{"a.m3u", FormatM3U, false},
		{"a.M3U8", FormatM3U, false},
		{"a.pls", FormatPLS, false},
		{"a.wpl", 0, true},
		{"a", 0, true},
	}
	for _, tt := range tests {
		got, err := PlaylistFormatFor(tt.path)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("PlaylistFormatFor(%q) = %v, %v", tt.path, got, err)
		}
	}
}
