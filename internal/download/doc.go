// Package download turns a Track into a tagged MP3 file on disk.
//
// # Pipeline
//
// Pipeline.Download runs these steps for one track:
//
//  1. Locate the transcoder, failing fast when it is missing
//  2. Resolve a source URL with the resolver for the track's kind
//  3. Transcode the source to MP3 (44.1 kHz, stereo, 192 kbps)
//  4. Fetch and prepare cover art, best effort
//  5. Write ID3 tags
//
// # Basic Usage
//
//	p := download.NewPipeline(download.Config{Dir: "music"}, resolvers, transcoder,
//	    download.WithProgress(func(e download.ProgressEvent) {
//	        fmt.Println(e.Message)
//	    }),
//	)
//	path, err := p.Download(ctx, track, download.Options{})
//
// # Concurrency
//
// Transcoder runs go through a shared worker pool, so any number of
// concurrent Download calls keeps at most pool-size ffmpeg processes
// alive. DownloadAll additionally bounds how many tracks are in flight.
//
// # Progress Tracking
//
// Progress is reported via a callback function that receives ProgressEvent:
//
//	type ProgressEvent struct {
//	    DownloadID string
//	    Message    string
//	    Level      ProgressLevel // Info, Verbose, Warning, Error, Success
//	}
//
// Every download gets a random ID that also appears in its log entries.
package download
