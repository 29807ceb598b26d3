package audio

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	ioutils "github.com/handiism/musichelper/internal/io"
)

// PlaylistFormat is the syntax of a playlist file.
//
//   - M3U: extended M3U with #EXTINF lines
//   - PLS: INI-style format used by Winamp and SHOUTcast
type PlaylistFormat int

const (
	FormatM3U PlaylistFormat = iota
	FormatPLS
)

// PlaylistFormatFor picks the format from the extension of path.
func PlaylistFormatFor(path string) (PlaylistFormat, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".m3u", ".m3u8":
		return FormatM3U, nil
	case ".pls":
		return FormatPLS, nil
	}
	return 0, fmt.Errorf("unsupported playlist extension %q", filepath.Ext(path))
}

// PlaylistEntry is one downloaded file.
type PlaylistEntry struct {
	Path   string
	Artist string
	Title  string
}

// WritePlaylist writes entries to path in the format given by its
// extension. Entry paths are written relative to the playlist's
// directory when they live under it. Entries without a path are skipped.
//
//	#EXTM3U
//	#EXTINF:-1,Daft Punk - One More Time
//	Daft Punk - One More Time.mp3
func WritePlaylist(path string, entries []PlaylistEntry) error {
	format, err := PlaylistFormatFor(path)
	if err != nil {
		return err
	}
	if err := ioutils.EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}

	base := filepath.Dir(path)
	kept := make([]PlaylistEntry, 0, len(entries))
	for _, e := range entries {
		if e.Path == "" {
			continue
		}
		e.Path = relativeTo(base, e.Path)
		kept = append(kept, e)
	}

	var content string
	switch format {
	case FormatPLS:
		content = renderPLS(kept)
	default:
		content = renderM3U(kept)
	}
	return os.WriteFile(path, []byte(content), 0o644)
}

// renderM3U uses -1 as the EXTINF length, which players read as unknown.
func renderM3U(entries []PlaylistEntry) string {
	var sb strings.Builder
	sb.WriteString("#EXTM3U\n")
	for _, e := range entries {
		fmt.Fprintf(&sb, "#EXTINF:-1,%s\n%s\n", entryTitle(e), e.Path)
	}
	return sb.String()
}

func renderPLS(entries []PlaylistEntry) string {
	var sb strings.Builder
	sb.WriteString("[playlist]\n")
	for i, e := range entries {
		n := i + 1
		fmt.Fprintf(&sb, "File%d=%s\nTitle%d=%s\nLength%d=-1\n", n, e.Path, n, entryTitle(e), n)
	}
	fmt.Fprintf(&sb, "NumberOfEntries=%d\nVersion=2\n", len(entries))
	return sb.String()
}

func entryTitle(e PlaylistEntry) string {
	if e.Artist == "" {
		return e.Title
	}
	return e.Artist + " - " + e.Title
}

func relativeTo(base, path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	absBase, err := filepath.Abs(base)
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(absBase, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return abs
	}
	return filepath.ToSlash(rel)
}
