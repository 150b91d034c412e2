package audio

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/royal-15/SpotiPlay-Desktop/internal/model"
)

// PlaylistFormat represents supported playlist file formats.
//
//   - M3U: Extended M3U, widely supported
//   - PLS: INI-style format, used by Winamp and most radio players
type PlaylistFormat int

const (
	// FormatM3U creates .m3u files with #EXTINF lines.
	FormatM3U PlaylistFormat = iota

	// FormatPLS creates .pls files.
	FormatPLS
)

// ParsePlaylistFormat maps "m3u" or "pls" to a format. Anything else is M3U.
func ParsePlaylistFormat(s string) PlaylistFormat {
	if strings.EqualFold(s, "pls") {
		return FormatPLS
	}
	return FormatM3U
}

// Extension returns the file extension including the dot.
func (f PlaylistFormat) Extension() string {
	if f == FormatPLS {
		return ".pls"
	}
	return ".m3u"
}

// PlaylistEntry is one file in a playlist.
type PlaylistEntry struct {
	Path  string
	Title string
}

// EntriesFromItems returns one entry per completed item with a known
// output file, in queue order.
func EntriesFromItems(items []model.Item) []PlaylistEntry {
	var entries []PlaylistEntry
	for _, item := range items {
		if item.Status != model.StatusCompleted || item.OutputPath == "" {
			continue
		}
		entries = append(entries, PlaylistEntry{
			Path:  item.OutputPath,
			Title: item.DisplayName(),
		})
	}
	return entries
}

// PlaylistCreator generates playlist files for a download session.
//
// Example:
//
//	creator := NewPlaylistCreator(FormatM3U)
//	n, err := creator.Write("/music/session.m3u", manager.Snapshot())
//
//	// Result:
//	// #EXTM3U
//	// #EXTINF:-1,Artist - Song Title
//	// Song Title.mp3
type PlaylistCreator struct {
	format PlaylistFormat
}

// NewPlaylistCreator creates a new PlaylistCreator.
func NewPlaylistCreator(format PlaylistFormat) *PlaylistCreator {
	return &PlaylistCreator{format: format}
}

// Create renders a playlist. Paths under baseDir are written relative to
// it so the playlist can live next to the files; others stay absolute.
func (p *PlaylistCreator) Create(entries []PlaylistEntry, baseDir string) string {
	switch p.format {
	case FormatPLS:
		return p.createPLS(entries, baseDir)
	default:
		return p.createM3U(entries, baseDir)
	}
}

// Write renders the completed items of a snapshot and writes the playlist
// to path. It returns the number of entries written.
func (p *PlaylistCreator) Write(path string, items []model.Item) (int, error) {
	entries := EntriesFromItems(items)
	if len(entries) == 0 {
		return 0, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return 0, err
	}
	content := p.Create(entries, filepath.Dir(path))
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return 0, err
	}
	return len(entries), nil
}

// createM3U generates an extended M3U playlist. Durations are unknown and
// written as -1.
func (p *PlaylistCreator) createM3U(entries []PlaylistEntry, baseDir string) string {
	var sb strings.Builder

	sb.WriteString("#EXTM3U\n")
	for _, e := range entries {
		sb.WriteString(fmt.Sprintf("#EXTINF:-1,%s\n", e.Title))
		sb.WriteString(relativeTo(baseDir, e.Path) + "\n")
	}

	return sb.String()
}

// createPLS generates a PLS playlist.
//
//	[playlist]
//	File1=Song.mp3
//	Title1=Artist - Song
//	Length1=-1
//	NumberOfEntries=1
//	Version=2
func (p *PlaylistCreator) createPLS(entries []PlaylistEntry, baseDir string) string {
	var sb strings.Builder

	sb.WriteString("[playlist]\n")
	for i, e := range entries {
		idx := i + 1
		sb.WriteString(fmt.Sprintf("File%d=%s\n", idx, relativeTo(baseDir, e.Path)))
		sb.WriteString(fmt.Sprintf("Title%d=%s\n", idx, e.Title))
		sb.WriteString(fmt.Sprintf("Length%d=-1\n", idx))
	}
	sb.WriteString(fmt.Sprintf("NumberOfEntries=%d\n", len(entries)))
	sb.WriteString("Version=2\n")

	return sb.String()
}

func relativeTo(baseDir, path string) string {
	if baseDir == "" {
		return path
	}
	rel, err := filepath.Rel(baseDir, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return filepath.ToSlash(rel)
}
