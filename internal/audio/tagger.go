package audio

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/bogem/id3v2"

	"github.com/handiism/musichelper/internal/model"
)

// CoverDescription is the description of the embedded front cover frame.
const CoverDescription = "Cover Art"

// Tagger writes ID3v2.4 tags to MP3 files.
//
// Every call starts from an empty tag, so frames left by the transcoder
// or a previous run never survive. Text frames written:
//   - TIT2, TPE1, TALB always
//   - TDRC (ID3v2.4 recording time) only when the release year is known
//   - TCON only when genres are known
//   - TRCK, TPOS, TSRC, TPUB, TCOP when the Deezer tag set provided them
//
// Example:
//
//	tagger := NewTagger()
//	err := tagger.WriteTags("/music/Artist - Song.mp3", track.Metadata, coverJPEG)
type Tagger struct{}

// NewTagger creates a new Tagger.
func NewTagger() *Tagger {
	return &Tagger{}
}

// WriteTags replaces the tags of the file at path with md. cover is
// embedded as the front cover picture unless it is empty.
func (t *Tagger) WriteTags(path string, md model.Metadata, cover []byte) error {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("open tags of %s: %w", path, err)
	}
	defer tag.Close()

	tag.DeleteAllFrames()
	tag.SetVersion(4)
	tag.SetDefaultEncoding(id3v2.EncodingUTF8)

	tag.SetTitle(md.Title)
	tag.SetArtist(md.Artist)
	tag.SetAlbum(md.Album)

	if md.HasYear() {
		tag.AddTextFrame("TDRC", id3v2.EncodingUTF8, recordingTime(md))
	}
	if md.Genres != "" {
		tag.SetGenre(md.Genres)
	}

	if md.TrackNumber > 0 {
		tag.AddTextFrame("TRCK", id3v2.EncodingUTF8, strconv.Itoa(md.TrackNumber))
	}
	if md.DiscNumber > 0 {
		tag.AddTextFrame("TPOS", id3v2.EncodingUTF8, strconv.Itoa(md.DiscNumber))
	}
	if md.ISRC != "" {
		tag.AddTextFrame("TSRC", id3v2.EncodingUTF8, md.ISRC)
	}
	if md.Label != "" {
		tag.AddTextFrame("TPUB", id3v2.EncodingUTF8, md.Label)
	}
	if md.Copyright != "" {
		tag.AddTextFrame("TCOP", id3v2.EncodingUTF8, md.Copyright)
	}

	if len(cover) > 0 {
		tag.AddAttachedPicture(id3v2.PictureFrame{
			Encoding:    id3v2.EncodingUTF8,
			MimeType:    coverMimeType(cover),
			PictureType: id3v2.PTFrontCover,
			Description: CoverDescription,
			Picture:     cover,
		})
	}

	if err := tag.Save(); err != nil {
		return fmt.Errorf("save tags of %s: %w", path, err)
	}
	return nil
}

// recordingTime prefers the full release date when it agrees with the year.
func recordingTime(md model.Metadata) string {
	year := strconv.Itoa(md.ReleaseYear)
	if len(md.ReleaseDate) == len("2006-01-02") && md.ReleaseDate[:4] == year {
		return md.ReleaseDate
	}
	return year
}

func coverMimeType(data []byte) string {
	switch ct := http.DetectContentType(data); ct {
	case "image/png", "image/gif", "image/webp":
		return ct
	default:
		return "image/jpeg"
	}
}
