package ioutils

import (
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	invalidChars  = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
	trailingDots  = regexp.MustCompile(`\.+$`)
	repeatedSpace = regexp.MustCompile(`\s+`)
)

// SanitizeFileName makes name safe to use as a single path element.
//
// The following transformations are applied:
//   - Unicode NFC normalization, so visually equal names map to one file
//   - Invalid characters (<>:"/\|?* and control chars 0x00-0x1f) → underscore
//   - Trailing dots → removed (Windows limitation)
//   - Runs of whitespace → single space, trimmed on both ends
//
// Example:
//
//	SanitizeFileName("AC/DC - Back In Black.mp3") // "AC_DC - Back In Black.mp3"
func SanitizeFileName(name string) string {
	name = norm.NFC.String(name)
	name = invalidChars.ReplaceAllString(name, "_")
	name = repeatedSpace.ReplaceAllString(name, " ")
	name = strings.TrimSpace(name)
	name = trailingDots.ReplaceAllString(name, "")
	return strings.TrimRight(name, " ")
}

// EnsureDir creates a directory and all parent directories if they don't exist.
// An empty path means the working directory.
func EnsureDir(path string) error {
	if path == "" || path == "." {
		return nil
	}
	return os.MkdirAll(path, 0o755)
}

// RemoveIfExists deletes path, ignoring a missing file.
func RemoveIfExists(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// EnsureExt appends ext to name unless it already ends with it,
// compared case-insensitively.
//
//	EnsureExt("song", ".mp3")     // "song.mp3"
//	EnsureExt("song.MP3", ".mp3") // "song.MP3"
func EnsureExt(name, ext string) string {
	if strings.EqualFold(filepath.Ext(name), ext) {
		return name
	}
	return name + ext
}
