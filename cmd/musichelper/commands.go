package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/goccy/go-json"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/handiism/musichelper/internal/audio"
	"github.com/handiism/musichelper/internal/config"
	"github.com/handiism/musichelper/internal/download"
	"github.com/handiism/musichelper/internal/identify"
	"github.com/handiism/musichelper/internal/model"
	"github.com/handiism/musichelper/internal/search"
)

func searchCmd() *cobra.Command {
	var (
		limit    int
		backends string
		noError  bool
		asJSON   bool
	)
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search one or more backends",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext()
			defer cancel()

			h, err := newHelper(ctx)
			if err != nil {
				return err
			}
			res, err := h.Search(ctx, strings.Join(args, " "), limit, backends, !noError)
			if err != nil {
				return err
			}

			if asJSON {
				return printJSON(lo.Map(res.Tracks, func(t *model.Track, _ int) trackView { return viewOf(t) }))
			}
			for i, t := range res.Tracks {
				fmt.Printf("%2d. [%s] %s - %s (%s)\n", i+1, t.Kind(), t.Metadata.Artist, t.Metadata.Title, t.ID())
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 5, "maximum number of results")
	cmd.Flags().StringVarP(&backends, "backends", "b", "", "comma-separated backends (default from config)")
	cmd.Flags().BoolVar(&noError, "no-error", false, "return an empty list instead of failing")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print results as JSON")
	return cmd
}

func downloadCmd() *cobra.Command {
	var (
		dir      string
		name     string
		backends string
		enrich   bool
		playlist string
	)
	cmd := &cobra.Command{
		Use:   "download <url|query>...",
		Short: "Download tracks as tagged MP3 files",
		Long: `Each argument is either a link (YouTube, YouTube Music, SoundCloud or any
page embedding an MP3) or a search query whose first result is downloaded.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext()
			defer cancel()

			h, err := newHelper(ctx)
			if err != nil {
				return err
			}

			var tracks []*model.Track
			for _, arg := range args {
				var track *model.Track
				if strings.HasPrefix(arg, "http://") || strings.HasPrefix(arg, "https://") {
					track, err = h.TrackFromURL(ctx, arg)
				} else {
					track, err = firstResult(h.Search(ctx, arg, 1, backends, true))
				}
				if err != nil {
					return fmt.Errorf("%s: %w", arg, err)
				}
				if enrich {
					if _, err := h.Enrich(ctx, track); err != nil {
						fmt.Fprintf(os.Stderr, "[warn]  tags for %s: %v\n", arg, err)
					}
				}
				tracks = append(tracks, track)
			}

			if name != "" && len(tracks) > 1 {
				return fmt.Errorf("--name needs exactly one track, got %d", len(tracks))
			}
			paths, err := h.DownloadAll(ctx, tracks, download.Options{Dir: dir, Filename: name})
			for _, p := range paths {
				if p != "" {
					fmt.Println(p)
				}
			}
			if err != nil {
				return err
			}
			if playlist != "" {
				entries := lo.Map(tracks, func(t *model.Track, i int) audio.PlaylistEntry {
					return audio.PlaylistEntry{Path: paths[i], Artist: t.Metadata.Artist, Title: t.Metadata.Title}
				})
				if err := audio.WritePlaylist(playlist, entries); err != nil {
					return fmt.Errorf("write playlist: %w", err)
				}
			}
			if failed := lo.Count(paths, ""); failed > 0 {
				return fmt.Errorf("%d of %d downloads failed", failed, len(paths))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&dir, "dir", "d", "", "output directory (default from config)")
	cmd.Flags().StringVar(&name, "name", "", "output file name")
	cmd.Flags().StringVarP(&backends, "backends", "b", "", "backends used for query arguments")
	cmd.Flags().BoolVar(&enrich, "tags", false, "fill in tags from Deezer before downloading")
	cmd.Flags().StringVar(&playlist, "playlist", "", "also write an .m3u or .pls playlist of the downloads")
	return cmd
}

func identifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "identify <url>",
		Short: "Show which music service a link belongs to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, ok := identify.Identify(args[0])
			if !ok {
				return fmt.Errorf("%w: %s", model.ErrInvalidIdentifier, args[0])
			}
			switch m.Service {
			case identify.SoundCloud:
				fmt.Printf("%s user=%s track=%s\n", m.Service, m.User, m.Track)
			default:
				fmt.Printf("%s id=%s\n", m.Service, m.ID)
			}
			return nil
		},
	}
}

func tagsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tags <artist> <title>",
		Short: "Look up canonical tags on Deezer",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext()
			defer cancel()

			h, err := newHelper(ctx)
			if err != nil {
				return err
			}
			md, err := h.Tags(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			if md == nil {
				return &model.NoResultsError{Query: args[0] + " " + args[1], Service: model.BackendDeezer.String()}
			}
			return printJSON(md)
		},
	}
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show which backends are available",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext()
			defer cancel()

			h, err := newHelper(ctx)
			if err != nil {
				return err
			}
			statuses := h.Availability()
			names := lo.Keys(statuses)
			sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
			for _, name := range names {
				fmt.Printf("%-10s %s\n", name, statuses[name])
			}
			return nil
		},
	}
}

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "write <path>",
		Short: "Write the effective configuration to a TOML or JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := settings.Save(args[0]); err != nil {
				return err
			}
			fmt.Println("Wrote", args[0])
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printJSON(redacted(*settings))
		},
	})
	return cmd
}

// trackView is the JSON form of a search result.
type trackView struct {
	Kind   string `json:"kind"`
	ID     string `json:"id"`
	Artist string `json:"artist"`
	Title  string `json:"title"`
	Album  string `json:"album"`
	Year   int    `json:"year,omitempty"`
	Cover  string `json:"cover_url,omitempty"`
}

func viewOf(t *model.Track) trackView {
	v := trackView{
		Kind:   t.Kind().String(),
		ID:     t.ID(),
		Artist: t.Metadata.Artist,
		Title:  t.Metadata.Title,
		Album:  t.Metadata.Album,
		Cover:  t.Metadata.CoverURL,
	}
	if t.Metadata.HasYear() {
		v.Year = t.Metadata.ReleaseYear
	}
	return v
}

func firstResult(res *search.Result, err error) (*model.Track, error) {
	if err != nil {
		return nil, err
	}
	if len(res.Tracks) == 0 {
		return nil, model.ErrNoResults
	}
	return res.Tracks[0], nil
}

func redacted(s config.Settings) config.Settings {
	mask := func(v *string) {
		if *v != "" {
			*v = "********"
		}
	}
	mask(&s.SoundCloudAuthToken)
	mask(&s.DeezerSessionToken)
	mask(&s.YouTubeAPIKey)
	return s
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
