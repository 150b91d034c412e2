package audio

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"

	ioutils "github.com/royal-15/SpotiPlay-Desktop/internal/io"
)

// ErrNoPicture is returned by ExportCover when the file has no embedded artwork.
var ErrNoPicture = errors.New("no embedded picture")

// Metadata is the subset of tags shown for a finished download.
type Metadata struct {
	Title   string
	Artist  string
	Album   string
	Format  string
	Picture []byte
}

// ReadMetadata reads tags from an audio file. MP3 (ID3), M4A (MP4 atoms)
// and FLAC (Vorbis comments) are supported; WAV files usually carry none
// and yield tag.ErrNoTagsFound.
func ReadMetadata(path string) (Metadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return Metadata{}, err
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return Metadata{}, err
	}

	md := Metadata{
		Title:  strings.TrimSpace(m.Title()),
		Artist: strings.TrimSpace(m.Artist()),
		Album:  strings.TrimSpace(m.Album()),
		Format: string(m.FileType()),
	}
	if pic := m.Picture(); pic != nil {
		md.Picture = pic.Data
	}
	return md, nil
}

// CoverPath returns where ExportCover writes the artwork for an audio file.
func CoverPath(audioPath string) string {
	return strings.TrimSuffix(audioPath, filepath.Ext(audioPath)) + ".jpg"
}

// ExportCover writes the embedded artwork of an audio file next to it as
// JPEG, scaled to fit maxSize. It returns the written path.
func ExportCover(audioPath string, maxSize int) (string, error) {
	md, err := ReadMetadata(audioPath)
	if err != nil {
		return "", err
	}
	if len(md.Picture) == 0 {
		return "", ErrNoPicture
	}

	jpeg, err := ioutils.FitJPEG(md.Picture, maxSize)
	if err != nil {
		return "", fmt.Errorf("convert cover: %w", err)
	}

	out := CoverPath(audioPath)
	if err := os.WriteFile(out, jpeg, 0644); err != nil {
		return "", err
	}
	return out, nil
}
