// Package ioutils provides file system and image helpers used around the
// external download tools.
//
// # Directories
//
//	// Create the output directory before launching a tool
//	err := ioutils.EnsureDir("/music/SpotiPlay")
//
//	// Validate a user supplied output directory
//	if err := ioutils.CheckWritableDir(path); err != nil {
//	    // relative path, cannot create, or no write permission
//	}
//
// # Filename Sanitization
//
//	safe := ioutils.SanitizeFileName("Song: Part 1/2") // "Song_ Part 1_2"
//
// # Cover Art
//
// FitJPEG scales an embedded picture to fit a square bounding box and
// re-encodes it as JPEG, for writing cover.jpg files next to downloads:
//
//	jpeg, err := ioutils.FitJPEG(picture, 1000)
package ioutils
