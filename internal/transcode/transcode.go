// Package transcode runs the external ffmpeg executable that re-encodes a
// resolved stream into the output MP3.
//
// Every conversion uses the same argument contract:
//
//	ffmpeg -y -i <source> -vn -ar 44100 -ac 2 -b:a 192k <output>
//
// -y makes repeated downloads overwrite the previous output, so a failed
// attempt needs no cleanup before the next one.
package transcode

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/handiism/musichelper/internal/model"
)

// DefaultBinary is the executable name looked up when none is configured.
const DefaultBinary = "ffmpeg"

// Args returns the transcoder arguments for converting src into dst.
func Args(src, dst string) []string {
	return []string{
		"-y",
		"-i", src,
		"-vn",
		"-ar", "44100",
		"-ac", "2",
		"-b:a", "192k",
		dst,
	}
}

// Transcoder locates and invokes ffmpeg.
type Transcoder struct {
	binary     string
	searchPath string
	logger     *zap.Logger
}

// New creates a Transcoder. binary defaults to DefaultBinary. searchPath
// is a list of directories separated by os.PathListSeparator; when empty
// the process PATH is used.
func New(binary, searchPath string, logger *zap.Logger) *Transcoder {
	if binary == "" {
		binary = DefaultBinary
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Transcoder{binary: binary, searchPath: searchPath, logger: logger.Named("transcode")}
}

// Locate returns the absolute path of the transcoder executable, or a
// *model.MissingDependencyError.
func (t *Transcoder) Locate() (string, error) {
	missing := &model.MissingDependencyError{Name: t.binary, SearchPath: t.searchPath}

	if strings.ContainsRune(t.binary, filepath.Separator) {
		if isExecutable(t.binary) {
			return t.binary, nil
		}
		return "", missing
	}

	if t.searchPath == "" {
		path, err := exec.LookPath(t.binary)
		if err != nil {
			return "", missing
		}
		return path, nil
	}

	for _, dir := range filepath.SplitList(t.searchPath) {
		if dir == "" {
			continue
		}
		candidate := filepath.Join(dir, t.binary)
		if isExecutable(candidate) {
			return candidate, nil
		}
	}
	return "", missing
}

// Convert re-encodes src into dst. A non-zero exit returns a
// *model.ConversionError carrying ffmpeg's stderr. Cancelling ctx kills
// the subprocess.
func (t *Transcoder) Convert(ctx context.Context, src, dst string) error {
	bin, err := t.Locate()
	if err != nil {
		return err
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, Args(src, dst)...)
	cmd.Stderr = &stderr

	t.logger.Debug("Running transcoder", zap.String("binary", bin), zap.String("output", dst))
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return &model.ConversionError{Stderr: stderr.String(), Err: err}
	}
	return nil
}

func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return false
	}
	return info.Mode().Perm()&0o111 != 0
}
