package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, as in MUSICHELPER_DEBUG_LOGGING.
const EnvPrefix = "MUSICHELPER"

// Settings holds all configuration options.
type Settings struct {
	// Backend credentials
	SoundCloudClientID  string `mapstructure:"soundcloud_client_id" toml:"soundcloud_client_id" json:"soundcloud_client_id"`
	SoundCloudAuthToken string `mapstructure:"soundcloud_auth_token" toml:"soundcloud_auth_token" json:"soundcloud_auth_token"`
	DeezerSessionToken  string `mapstructure:"deezer_session_token" toml:"deezer_session_token" json:"deezer_session_token"`
	DeezerCache         bool   `mapstructure:"deezer_cache" toml:"deezer_cache" json:"deezer_cache"`
	DeezerCacheDir      string `mapstructure:"deezer_cache_dir" toml:"deezer_cache_dir" json:"deezer_cache_dir"`
	YouTubeOAuthEnabled bool   `mapstructure:"youtube_oauth_enabled" toml:"youtube_oauth_enabled" json:"youtube_oauth_enabled"`
	YouTubeAPIKey       string `mapstructure:"youtube_api_key" toml:"youtube_api_key" json:"youtube_api_key"`

	DebugLogging bool `mapstructure:"debug_logging" toml:"debug_logging" json:"debug_logging"`

	// Transcoder
	TranscoderPath   string `mapstructure:"transcoder_path" toml:"transcoder_path" json:"transcoder_path"`
	TranscoderBinary string `mapstructure:"transcoder_binary" toml:"transcoder_binary" json:"transcoder_binary" validate:"required"`

	// Limits
	MaxWorkers         int           `mapstructure:"max_workers" toml:"max_workers" json:"max_workers" validate:"gte=1,lte=64"`
	HTTPTimeout        time.Duration `mapstructure:"http_timeout" toml:"http_timeout" json:"http_timeout" validate:"gt=0"`
	SoundCloudMinBytes int64         `mapstructure:"soundcloud_min_bytes" toml:"soundcloud_min_bytes" json:"soundcloud_min_bytes" validate:"gte=0"`
	SoundCloudMaxBytes int64         `mapstructure:"soundcloud_max_bytes" toml:"soundcloud_max_bytes" json:"soundcloud_max_bytes" validate:"gte=0"`

	// Cover art
	CoverMaxSize     int  `mapstructure:"cover_max_size" toml:"cover_max_size" json:"cover_max_size" validate:"gte=0"`
	CoverConvertJPEG bool `mapstructure:"cover_convert_jpeg" toml:"cover_convert_jpeg" json:"cover_convert_jpeg"`

	// Output
	DownloadsPath  string `mapstructure:"downloads_path" toml:"downloads_path" json:"downloads_path" validate:"required"`
	FileNameFormat string `mapstructure:"file_name_format" toml:"file_name_format" json:"file_name_format" validate:"required"`

	// DefaultBackends is the comma-separated backend list used by search.
	DefaultBackends string `mapstructure:"default_backends" toml:"default_backends" json:"default_backends"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	return &Settings{
		DeezerCache:      false,
		DeezerCacheDir:   ".",
		TranscoderBinary: "ffmpeg",
		MaxWorkers:       4,
		HTTPTimeout:      60 * time.Second,
		CoverMaxSize:     1000,
		CoverConvertJPEG: true,
		DownloadsPath:    ".",
		FileNameFormat:   "{artist} - {title}.mp3",
		DefaultBackends:  "soundcloud,yt",
	}
}

// SetDefaults registers every key with its default, which also makes
// each key visible to environment lookups.
func SetDefaults(v *viper.Viper) {
	d := DefaultSettings()
	v.SetDefault("soundcloud_client_id", d.SoundCloudClientID)
	v.SetDefault("soundcloud_auth_token", d.SoundCloudAuthToken)
	v.SetDefault("deezer_session_token", d.DeezerSessionToken)
	v.SetDefault("deezer_cache", d.DeezerCache)
	v.SetDefault("deezer_cache_dir", d.DeezerCacheDir)
	v.SetDefault("youtube_oauth_enabled", d.YouTubeOAuthEnabled)
	v.SetDefault("youtube_api_key", d.YouTubeAPIKey)
	v.SetDefault("debug_logging", d.DebugLogging)
	v.SetDefault("transcoder_path", d.TranscoderPath)
	v.SetDefault("transcoder_binary", d.TranscoderBinary)
	v.SetDefault("max_workers", d.MaxWorkers)
	v.SetDefault("http_timeout", d.HTTPTimeout)
	v.SetDefault("soundcloud_min_bytes", d.SoundCloudMinBytes)
	v.SetDefault("soundcloud_max_bytes", d.SoundCloudMaxBytes)
	v.SetDefault("cover_max_size", d.CoverMaxSize)
	v.SetDefault("cover_convert_jpeg", d.CoverConvertJPEG)
	v.SetDefault("downloads_path", d.DownloadsPath)
	v.SetDefault("file_name_format", d.FileNameFormat)
	v.SetDefault("default_backends", d.DefaultBackends)
}

// BindEnv enables MUSICHELPER_* overrides on v.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
}

// Load reads settings from path, which may be empty or missing, with
// environment overrides applied.
func Load(path string) (*Settings, error) {
	v := viper.New()
	SetDefaults(v)
	BindEnv(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil && !isNotFound(err) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	return FromViper(v)
}

// FromViper decodes and validates the settings held by v.
func FromViper(v *viper.Viper) (*Settings, error) {
	s := DefaultSettings()
	if err := v.Unmarshal(s); err != nil {
		return nil, fmt.Errorf("decode settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func isNotFound(err error) bool {
	var nf viper.ConfigFileNotFoundError
	return errors.Is(err, fs.ErrNotExist) || errors.As(err, &nf)
}

var validate = validator.New()

// Validate checks value ranges.
func (s *Settings) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	if s.SoundCloudMaxBytes > 0 && s.SoundCloudMaxBytes < s.SoundCloudMinBytes {
		return fmt.Errorf("invalid settings: soundcloud_max_bytes %d is below soundcloud_min_bytes %d",
			s.SoundCloudMaxBytes, s.SoundCloudMinBytes)
	}
	return nil
}

// Save writes settings to path, as JSON when the extension is .json and
// as TOML otherwise.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	var (
		data []byte
		err  error
	)
	if strings.EqualFold(filepath.Ext(path), ".json") {
		data, err = json.MarshalIndent(s, "", "  ")
	} else {
		var buf strings.Builder
		err = toml.NewEncoder(&buf).Encode(s)
		data = []byte(buf.String())
	}
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o600)
}
