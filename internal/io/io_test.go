package ioutils

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"normal-file.mp3", "normal-file.mp3"},
		{"file:with:colons.mp3", "file_with_colons.mp3"},
		{"file<with>brackets.mp3", "file_with_brackets.mp3"},
		{"file/with\\slashes.mp3", "file_with_slashes.mp3"},
		{"file|with|pipes.mp3", "file_with_pipes.mp3"},
		{"file?with*wildcards.mp3", "file_with_wildcards.mp3"},
		{"file\"with\"quotes.mp3", "file_with_quotes.mp3"},
		{"trailing dots...", "trailing dots"},
		{"multiple   spaces", "multiple spaces"},
		{"  padded  ", "padded"},
		{"Beyoncé", "Beyoncé"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := SanitizeFileName(tt.input)
			if got != tt.want {
				t.Errorf("SanitizeFileName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestEnsureExt(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"song", "song.mp3"},
		{"song.mp3", "song.mp3"},
		{"song.MP3", "song.MP3"},
		{"song.flac", "song.flac.mp3"},
		{"my.song", "my.song.mp3"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := EnsureExt(tt.input, ".mp3"); got != tt.want {
				t.Errorf("EnsureExt(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestEnsureDirAndRemove(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	if err := EnsureDir(dir); err != nil {
		t.Fatalf("EnsureDir() error = %v", err)
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Fatalf("directory not created: %v", err)
	}

	path := filepath.Join(dir, "x.mp3")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := RemoveIfExists(path); err != nil {
		t.Fatalf("RemoveIfExists() error = %v", err)
	}
	if err := RemoveIfExists(path); err != nil {
		t.Errorf("RemoveIfExists() on missing file error = %v", err)
	}
}

func pngImage(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestImageService_Prepare(t *testing.T) {
	ctx := context.Background()
	src := pngImage(t, 200, 100)

	t.Run("disabled returns input", func(t *testing.T) {
		got, err := NewImageService(0, false).Prepare(ctx, src)
		if err != nil {
			t.Fatalf("Prepare() error = %v", err)
		}
		if !bytes.Equal(got, src) {
			t.Error("Prepare() should return input unchanged")
		}
	})

	t.Run("resize keeps aspect ratio", func(t *testing.T) {
		got, err := NewImageService(50, false).Prepare(ctx, src)
		if err != nil {
			t.Fatalf("Prepare() error = %v", err)
		}
		img, err := jpeg.Decode(bytes.NewReader(got))
		if err != nil {
			t.Fatalf("output is not JPEG: %v", err)
		}
		if b := img.Bounds(); b.Dx() != 50 || b.Dy() != 25 {
			t.Errorf("size = %dx%d, want 50x25", b.Dx(), b.Dy())
		}
	})

	t.Run("convert png to jpeg", func(t *testing.T) {
		got, err := NewImageService(0, true).Prepare(ctx, src)
		if err != nil {
			t.Fatalf("Prepare() error = %v", err)
		}
		if _, err := jpeg.Decode(bytes.NewReader(got)); err != nil {
			t.Errorf("output is not JPEG: %v", err)
		}
	})

	t.Run("garbage input", func(t *testing.T) {
		if _, err := NewImageService(10, true).Prepare(ctx, []byte("not an image")); err == nil {
			t.Error("Prepare() should fail on undecodable input")
		}
	})
}
