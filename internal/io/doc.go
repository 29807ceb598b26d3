// Package ioutils provides file system and image helpers used when
// writing downloaded tracks.
//
// # File Names
//
// SanitizeFileName turns track metadata into a portable file name, and
// EnsureExt keeps the expected extension:
//
//	name := ioutils.EnsureExt(ioutils.SanitizeFileName("AC/DC - T.N.T."), ".mp3")
//	// "AC_DC - T.N.T.mp3"
//
// # Cover Art
//
// ImageService shrinks and re-encodes cover art before it is embedded:
//
//	svc := ioutils.NewImageService(1000, true)
//	cover, err := svc.Prepare(ctx, downloaded)
package ioutils
