// Package youtube searches YouTube through the Data API v3 and resolves
// video IDs to audio stream URLs.
//
// Search needs an API key, or OAuth enabled with Application Default
// Credentials; without either it reports the service as unavailable.
// Stream resolution needs no credentials.
//
//	client, err := youtube.New(ctx, youtube.Config{APIKey: key}, pool, logger)
//	results, err := client.Search(ctx, "daft punk one more time", 5)
//	streamURL, err := client.Resolve(ctx, "FGBhQbmPwH8")
//
// Stream extraction blocks on several round trips, so it runs on the
// shared worker pool.
package youtube
