// Package deezer is a metadata source backed by Deezer.
//
// Deezer offers no stream resolution here; it enriches tracks found
// elsewhere with a canonical tag set (label, release date, disc and
// track number, ISRC, copyright, genres, cover).
//
// Two APIs are used:
//   - the public REST API (api.deezer.com) for search and album details
//   - the gw-light gateway, authenticated with an ARL cookie, for
//     song.getData
//
// The gateway session is established once in New. A call rejected for
// an expired token re-establishes the session and is retried once;
// concurrent callers share a single refresh. Sessions can be cached in
// a TOML file for ten days:
//
//	client, err := deezer.New(ctx, deezer.Config{ARL: arl, CacheEnabled: true}, logger)
//	tags, err := client.FindTags(ctx, "Daft Punk", "One More Time")
package deezer
