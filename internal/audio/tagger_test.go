package audio

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/bogem/id3v2"

	"github.com/handiism/musichelper/internal/model"
)

// fakeMP3 returns the path of a file holding bytes that stand in for
// transcoder output.
func fakeMP3(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "track.mp3")
	payload := bytes.Repeat([]byte{0xFF, 0xFB, 0x90, 0x64}, 64)
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func openTag(t *testing.T, path string) *id3v2.Tag {
	t.Helper()
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		t.Fatalf("id3v2.Open() error = %v", err)
	}
	t.Cleanup(func() { tag.Close() })
	return tag
}

func TestTagger_RoundTrip(t *testing.T) {
	path := fakeMP3(t)
	md := model.Metadata{
		Title:       "X",
		Artist:      "Y",
		Album:       "Z",
		ReleaseYear: 2020,
		Genres:      "Pop",
	}

	if err := NewTagger().WriteTags(path, md, nil); err != nil {
		t.Fatalf("WriteTags() error = %v", err)
	}

	tag := openTag(t, path)
	if got := tag.Title(); got != "X" {
		t.Errorf("Title() = %q, want %q", got, "X")
	}
	if got := tag.Artist(); got != "Y" {
		t.Errorf("Artist() = %q, want %q", got, "Y")
	}
	if got := tag.Album(); got != "Z" {
		t.Errorf("Album() = %q, want %q", got, "Z")
	}
	if got := tag.GetTextFrame("TDRC").Text; got != "2020" {
		t.Errorf("TDRC = %q, want %q", got, "2020")
	}
	if tag.Version() != 4 {
		t.Errorf("Version() = %d, want 4", tag.Version())
	}
	// TYER belongs to ID3v2.3; a v2.4 tag carries the year in TDRC only.
	if n := len(tag.GetFrames("TYER")); n != 0 {
		t.Errorf("TYER present %d times in a v2.4 tag", n)
	}
	if got := tag.Genre(); got != "Pop" {
		t.Errorf("Genre() = %q, want %q", got, "Pop")
	}
}

func TestTagger_UnknownFramesAbsent(t *testing.T) {
	path := fakeMP3(t)
	md := model.NewMetadata("Y", "X", "Z")

	if err := NewTagger().WriteTags(path, md, nil); err != nil {
		t.Fatalf("WriteTags() error = %v", err)
	}

	tag := openTag(t, path)
	for _, id := range []string{"TDRC", "TYER", "TCON", "TRCK", "TPOS", "TSRC", "APIC"} {
		if n := len(tag.GetFrames(id)); n != 0 {
			t.Errorf("frame %s present %d times, want absent", id, n)
		}
	}
}

func TestTagger_ClearsExistingTags(t *testing.T) {
	path := fakeMP3(t)

	first := model.Metadata{Title: "Old", Artist: "Old", Album: "Old", ReleaseYear: 1999, Genres: "Rock", ISRC: "USUM71703861"}
	if err := NewTagger().WriteTags(path, first, []byte{0xFF, 0xD8, 0xFF, 0xE0}); err != nil {
		t.Fatal(err)
	}
	second := model.NewMetadata("New", "New", "New")
	if err := NewTagger().WriteTags(path, second, nil); err != nil {
		t.Fatal(err)
	}

	tag := openTag(t, path)
	if tag.Title() != "New" {
		t.Errorf("Title() = %q, want New", tag.Title())
	}
	for _, id := range []string{"TDRC", "TCON", "TSRC", "APIC"} {
		if n := len(tag.GetFrames(id)); n != 0 {
			t.Errorf("frame %s survived re-tagging", id)
		}
	}
}

func TestTagger_ExtendedFramesAndCover(t *testing.T) {
	path := fakeMP3(t)
	cover := append([]byte{0xFF, 0xD8, 0xFF, 0xE0}, bytes.Repeat([]byte{1}, 32)...)
	md := model.Metadata{
		Title:       "Song",
		Artist:      "Artist",
		Album:       "Album",
		ReleaseYear: 2011,
		ReleaseDate: "2011-03-07",
		TrackNumber: 4,
		DiscNumber:  2,
		ISRC:        "GBAYE1100001",
		Label:       "Label",
		Copyright:   "(P) 2011 Label",
	}

	if err := NewTagger().WriteTags(path, md, cover); err != nil {
		t.Fatalf("WriteTags() error = %v", err)
	}

	tag := openTag(t, path)
	frames := map[string]string{
		"TDRC": "2011-03-07",
		"TRCK": "4",
		"TPOS": "2",
		"TSRC": "GBAYE1100001",
		"TPUB": "Label",
		"TCOP": "(P) 2011 Label",
	}
	for id, want := range frames {
		if got := tag.GetTextFrame(id).Text; got != want {
			t.Errorf("%s = %q, want %q", id, got, want)
		}
	}

	pics := tag.GetFrames(tag.CommonID("Attached picture"))
	if len(pics) != 1 {
		t.Fatalf("got %d pictures, want 1", len(pics))
	}
	pic, ok := pics[0].(id3v2.PictureFrame)
	if !ok {
		t.Fatalf("picture frame has type %T", pics[0])
	}
	if pic.PictureType != id3v2.PTFrontCover || pic.MimeType != "image/jpeg" || pic.Description != CoverDescription {
		t.Errorf("picture = %+v", pic)
	}
	if !bytes.Equal(pic.Picture, cover) {
		t.Error("picture bytes differ")
	}
}

func TestTagger_MissingFile(t *testing.T) {
	err := NewTagger().WriteTags(filepath.Join(t.TempDir(), "missing.mp3"), model.NewMetadata("a", "b", ""), nil)
	if err == nil {
		t.Error("WriteTags() should fail for a missing file")
	}
}
