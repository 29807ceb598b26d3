// Package direct resolves plain web URLs to MP3 files.
//
// A URL whose path ends in ".mp3" is already a stream. Any other URL is
// fetched as an HTML page and searched, in order, for:
//  1. embedded player data (a data-tralbum attribute) listing track files
//  2. the first anchor linking to an .mp3 file
//  3. the first "play-btn" anchor or div whose href names an MP3 file
//
// Relative links are resolved against the page URL.
//
//	r := direct.New(30*time.Second, logger)
//	streamURL, err := r.Resolve(ctx, "https://example.com/podcast/ep1")
package direct
