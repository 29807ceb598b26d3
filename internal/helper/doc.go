// Package helper is the single entry point that ties the backends, the
// search aggregator and the download pipeline together.
//
//	h, err := helper.New(ctx, settings, logger, prometheus.DefaultRegisterer)
//	res, err := h.Search(ctx, "one more time", 4, "soundcloud,yt", false)
//	path, err := h.Download(ctx, res.Tracks[0], download.Options{})
//
// Backends without credentials are reported as not configured by
// Availability and fail with *model.ServiceUnavailableError when used.
// YouTube stream resolution needs no credentials and is always
// registered; YouTube Music is known but never configured.
package helper
