// Package config provides configuration management for newbeach.
//
// This package handles:
//   - Loading and saving settings from JSON or YAML files
//   - Default configuration values
//   - Overrides from the environment and .env files
//   - Resolving the output directory of a run
//
// # Default Settings
//
// Use DefaultSettings() to get the stock behavior:
//
//	settings := config.DefaultSettings()
//	// Ten most recent submissions from https://www.newgrounds.com/audio
//	// Saved to ~/music/newbeach/MMDD
//	// Played with mpv
//
// # Loading from File
//
//	settings, err := config.Load("/path/to/newbeach.yaml")
//	if err != nil {
//	    // Uses defaults if file doesn't exist
//	}
//
// # Environment
//
//	config.LoadEnv()
//	err := settings.ApplyEnv()
//
// NEWBEACH_LISTING_URL, NEWBEACH_LIMIT, NEWBEACH_OUTPUT_ROOT,
// NEWBEACH_NAMESPACE, NEWBEACH_PLAYER and YTDLP_PATH override the
// matching settings.
//
// # Output Directory
//
//	dir, err := settings.OutputDir(time.Now())
//	// ~/music/newbeach/0108 with the default "date" namespace
package config
