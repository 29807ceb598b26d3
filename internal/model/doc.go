// Package model defines the core data structures shared by every
// backend, the search aggregator and the download pipeline.
//
// # Track
//
// Track is a resolvable song from one backend. Its identity (SoundCloud
// numeric ID, YouTube video ID or a direct URL) is fixed at construction;
// only the download pipeline mutates it, via MarkResolved:
//
//	track := model.NewYouTube("dQw4w9WgXcQ", model.NewMetadata("Artist", "Song", ""))
//	fmt.Println(track.Kind(), track.ID()) // youtube dQw4w9WgXcQ
//
// # Metadata
//
// Metadata carries the tags written to the output file. ReleaseYear uses
// UnknownYear (-1) and Genres uses "" for unknown values, so the tagger
// can leave those frames absent:
//
//	md := model.NewMetadata("Daft Punk", "Daft Punk - One More Time", "")
//	md.Fix()
//	fmt.Println(md.Title) // One More Time
//
// # Search results
//
// Each backend converts its wire records into one variant of the sealed
// Result union (SoundCloudResult, YouTubeResult, DeezerResult,
// DirectResult). Create turns a result into a Track:
//
//	track, err := model.Create(&model.YouTubeResult{VideoID: id, Title: t}, model.BackendYouTube)
//	if errors.Is(err, model.ErrNoTrack) {
//	    // skip this result
//	}
//
// # Errors
//
// Every failure condition has a sentinel (ErrServiceUnavailable,
// ErrNoResults, ...) matched with errors.Is, and a typed error carrying
// context (query, backend, identifier, status code or transcoder output)
// reachable with errors.As.
package model
