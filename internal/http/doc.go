// Package http provides the HTTP client shared by the backend clients.
//
// The Client in this package handles:
//   - User-Agent headers
//   - Timeout handling
//   - Query string and header merging
//   - JSON request and response bodies (github.com/goccy/go-json)
//   - Mapping of failures to *model.TransportError with the status code
//
// # Basic Usage
//
//	client := http.NewClient("deezer", http.WithCookieJar())
//
//	// Fetch HTML page
//	html, err := client.GetString(ctx, "https://example.com/track")
//
//	// Download cover art
//	cover, err := client.DownloadBytes(ctx, coverURL)
//
// # Errors
//
// Any non-200 response becomes a *model.TransportError, so callers can
// tell "not found" apart from other failures:
//
//	if model.IsNotFound(err) {
//	    return "", nil
//	}
package http
