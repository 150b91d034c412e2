// Package config provides configuration management for SpotiPlay.
//
// This package handles:
//   - Loading and saving settings from JSON files
//   - Default configuration values
//   - Validation of user supplied values
//   - Conversion to tool.Options for the process workers
//
// # Default Settings
//
//	settings := config.DefaultSettings()
//	// Downloads to ~/Downloads/SpotiPlay
//	// 3 parallel downloads, 320kbps mp3
//	// Unmatched text is searched on YouTube
//
// # Loading from File
//
//	settings, err := config.Load(config.DefaultPath())
//	if errors.Is(err, config.ErrCorrupt) {
//	    // settings holds defaults; warn and continue
//	}
//
// # Validation
//
//	if err := settings.Validate(); err != nil {
//	    var verr *config.ValidationError
//	    errors.As(err, &verr) // verr.Problems lists every issue
//	}
//
// # Saving Settings
//
//	settings.MaxParallelDownloads = 5
//	err := settings.Save(config.DefaultPath())
package config
