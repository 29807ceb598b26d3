// Package config provides configuration management for musichelper.
//
// This package handles:
//   - Default configuration values
//   - Loading settings from a config file and MUSICHELPER_* environment variables
//   - Validation
//   - Saving settings as TOML or JSON
//
// # Default Settings
//
// Use DefaultSettings() to get sensible defaults:
//
//	settings := config.DefaultSettings()
//	// No backend credentials, so only YouTube stream resolution works
//	// ffmpeg looked up on $PATH
//	// Downloads to the working directory as "{artist} - {title}.mp3"
//
// # Loading
//
//	settings, err := config.Load("musichelper.toml")
//	if err != nil {
//	    // Missing files are not an error; invalid values are
//	}
//
// Every key can be overridden from the environment, for example
// MUSICHELPER_SOUNDCLOUD_CLIENT_ID. Commands that bind flags to a
// shared viper instance use FromViper instead.
//
// # Saving Settings
//
//	settings.DownloadsPath = "/music/inbox"
//	err := settings.Save("musichelper.toml")
//
// # Credentials
//
// A backend whose credential is empty is reported as not configured;
// it never makes loading fail.
package config
