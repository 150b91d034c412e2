package ioutils

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	invalidNameChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
	trailingDots     = regexp.MustCompile(`\.+$`)
	repeatedSpace    = regexp.MustCompile(`\s+`)
)

// maxNameLength leaves room for an extension within common 255 byte limits.
const maxNameLength = 200

// ErrNotWritable is returned by CheckWritableDir when a marker file cannot
// be created.
var ErrNotWritable = errors.New("directory is not writable")

// SanitizeFileName removes or replaces characters that are invalid in file/folder names.
//
// The following transformations are applied:
//   - Invalid characters (<>:"/\|?* and control chars 0x00-0x1f) → underscore
//   - Trailing dots → removed (Windows limitation)
//   - Runs of whitespace → single space, trimmed at both ends
//   - Names longer than 200 bytes are cut on a rune boundary
//   - An empty result becomes "untitled"
//
// Example:
//
//	SanitizeFileName("Song: Part 1/2")      // "Song_ Part 1_2"
//	SanitizeFileName("Track...")            // "Track"
//	SanitizeFileName("  ")                  // "untitled"
func SanitizeFileName(name string) string {
	name = invalidNameChars.ReplaceAllString(name, "_")
	name = repeatedSpace.ReplaceAllString(name, " ")
	name = strings.TrimSpace(name)
	name = trailingDots.ReplaceAllString(name, "")
	name = strings.TrimRight(name, " ")

	if len(name) > maxNameLength {
		cut := maxNameLength
		for cut > 0 && !isRuneStart(name[cut]) {
			cut--
		}
		name = strings.TrimRight(name[:cut], " .")
	}

	if name == "" {
		return "untitled"
	}
	return name
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}

// EnsureDir creates a directory and all parent directories if they don't exist.
//
// Directories are created with mode 0755 (rwxr-xr-x).
// If the directory already exists, no error is returned.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}

// CheckWritableDir validates a directory chosen as download target.
//
// The path must be absolute. The directory is created if missing and a
// marker file is written and removed to confirm write permission.
func CheckWritableDir(path string) error {
	if path == "" {
		return errors.New("path cannot be empty")
	}
	if !filepath.IsAbs(path) {
		return fmt.Errorf("path must be absolute: %s", path)
	}
	if err := EnsureDir(path); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	marker := filepath.Join(path, ".spotiplay_test")
	f, err := os.Create(marker)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrNotWritable, path)
	}
	f.Close()
	return os.Remove(marker)
}

// FileExists reports whether a regular file exists at path.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
