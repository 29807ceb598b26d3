// Package audio writes ID3 metadata to transcoded MP3 files and
// playlists of downloaded files.
//
// # ID3 Tagging
//
// Use the Tagger to replace the tags of an MP3 file:
//
//	tagger := audio.NewTagger()
//	err := tagger.WriteTags(path, track.Metadata, coverBytes)
//
// The tagger writes:
//   - Title, Artist, Album
//   - Recording time, only for a known release year
//   - Genre, only when known
//   - Track and disc number, ISRC, label and copyright when present
//   - Cover art as the front cover picture
//
// Frames for unknown values are left absent rather than written empty.
//
// # Playlists
//
// WritePlaylist writes an extended M3U or a PLS file listing a set of
// downloads, picking the format from the file extension.
package audio
