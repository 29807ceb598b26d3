// Package main provides the musichelper CLI entry point.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/handiism/musichelper/internal/config"
	"github.com/handiism/musichelper/internal/download"
	"github.com/handiism/musichelper/internal/helper"
	"github.com/handiism/musichelper/internal/logging"
)

var (
	cfgFile  string
	envFile  string
	verbose  bool
	settings *config.Settings
	logger   *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "musichelper",
	Short: "Search and download music from SoundCloud, YouTube and the web",
	Long: `musichelper searches SoundCloud and YouTube, downloads tracks as tagged MP3
files through ffmpeg, and fills in canonical tags from Deezer.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if settings == nil {
			return errors.New("configuration was not loaded")
		}
		return nil
	},
}

func main() {
	defer func() {
		if logger != nil {
			_ = logger.Sync()
		}
	}()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (TOML, JSON or YAML)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file with MUSICHELPER_* variables")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "show verbose progress messages")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().String("downloads-path", "", "directory downloads are written to")
	rootCmd.PersistentFlags().String("transcoder-path", "", "directory holding the ffmpeg binary")
	rootCmd.PersistentFlags().Int("max-workers", config.DefaultSettings().MaxWorkers, "maximum concurrent downloads and conversions")

	bindings := map[string]string{
		"debug_logging":   "debug",
		"downloads_path":  "downloads-path",
		"transcoder_path": "transcoder-path",
		"max_workers":     "max-workers",
	}
	for key, flag := range bindings {
		if err := viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to bind flag %s: %v\n", flag, err)
			os.Exit(1)
		}
	}

	rootCmd.AddCommand(searchCmd(), downloadCmd(), identifyCmd(), tagsCmd(), statusCmd(), configCmd())
}

func initConfig() {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Error loading %s: %v\n", envFile, err)
	}

	v := viper.GetViper()
	config.SetDefaults(v)
	config.BindEnv(v)
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			fmt.Fprintf(os.Stderr, "Error reading config %s: %v\n", cfgFile, err)
			os.Exit(1)
		}
	}

	var err error
	settings, err = config.FromViper(v)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err = logging.New(settings.DebugLogging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build logger: %v\n", err)
		os.Exit(1)
	}
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func newHelper(ctx context.Context) (*helper.Helper, error) {
	return helper.New(ctx, settings, logger, prometheus.DefaultRegisterer, download.WithProgress(printProgress))
}

func printProgress(event download.ProgressEvent) {
	if event.Level == download.LevelVerbose && !verbose {
		return
	}

	prefix := "   "
	switch event.Level {
	case download.LevelError:
		prefix = "[error] "
	case download.LevelWarning:
		prefix = "[warn]  "
	case download.LevelSuccess:
		prefix = "[done]  "
	case download.LevelInfo:
		prefix = "[info]  "
	}
	fmt.Println(prefix + event.Message)
}
