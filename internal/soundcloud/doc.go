// Package soundcloud is a thin client for the SoundCloud api-v2 endpoints
// used by search and download.
//
// # Resolution
//
// Client.Resolve turns a numeric track ID into a streamable URL:
//
//  1. A downloadable track yields its original file link.
//  2. Otherwise the HLS transcodings are scanned, preferring AAC over MP3.
//  3. The estimated size of the chosen transcoding is checked against the
//     configured byte window (disabled by default).
//  4. The transcoding endpoint is fetched with the client ID and OAuth
//     token to obtain the signed stream URL.
//
// A track with no usable source resolves to "" without an error.
//
//	client, err := soundcloud.New(soundcloud.Config{ClientID: id, AuthToken: token}, logger)
//	streamURL, err := client.Resolve(ctx, "1234567")
package soundcloud
