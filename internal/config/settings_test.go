package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/royal-15/SpotiPlay-Desktop/internal/model"
)

func TestDefaultSettings_Valid(t *testing.T) {
	s := DefaultSettings()
	require.NoError(t, s.Validate())
	assert.Equal(t, 3, s.MaxParallelDownloads)
	assert.Equal(t, model.Quality320, s.DefaultQuality)
	assert.Equal(t, model.FormatMP3, s.DefaultFormat)
	assert.Equal(t, model.SourceYouTube, s.FallbackSource)
	assert.Equal(t, "SpotiPlay", filepath.Base(s.OutputDir))
}

func TestLoad_MissingFile(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), s)
}

func TestLoad_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	s, err := Load(path)
	assert.True(t, errors.Is(err, ErrCorrupt))
	require.NotNil(t, s)
	assert.Equal(t, DefaultSettings(), s)
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	s := DefaultSettings()
	s.OutputDir = "/music"
	s.MaxParallelDownloads = 7
	s.DefaultFormat = model.FormatFLAC
	s.UseProxy = true
	s.ProxyURL = "http://proxy:3128"
	require.NoError(t, s.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, s, loaded)
}

func TestSave_ReplacesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	s := DefaultSettings()
	s.MaxParallelDownloads = 4
	require.NoError(t, s.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 4, loaded.MaxParallelDownloads)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "no temp files left behind")
	info, err := entries[0].Info()
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0644), info.Mode().Perm())
}

func TestNormalize(t *testing.T) {
	s := DefaultSettings()
	s.DefaultQuality = "BEST"
	s.DefaultFormat = "M4A"
	s.FallbackSource = "Spotify"
	s.Normalize()
	assert.Equal(t, model.QualityBest, s.DefaultQuality)
	assert.Equal(t, model.FormatM4A, s.DefaultFormat)
	assert.Equal(t, model.SourceSpotify, s.FallbackSource)

	s.DefaultQuality = "64kbps"
	s.Normalize()
	assert.Equal(t, model.Quality("64kbps"), s.DefaultQuality, "unparseable values are left for Validate")
}

func TestLoad_PartialAndLooseValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	data := `{"default_quality": "256", "default_format": "FLAC", "max_parallel_downloads": 5}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, model.Quality256, s.DefaultQuality)
	assert.Equal(t, model.FormatFLAC, s.DefaultFormat)
	assert.Equal(t, 5, s.MaxParallelDownloads)
	assert.Equal(t, "spotdl", s.SpotDLPath, "unset keys keep defaults")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Settings)
		want   string
	}{
		{"empty output", func(s *Settings) { s.OutputDir = " " }, "Output directory cannot be empty"},
		{"parallel low", func(s *Settings) { s.MaxParallelDownloads = 0 }, "Max parallel downloads must be between 1 and 10"},
		{"parallel high", func(s *Settings) { s.MaxParallelDownloads = 11 }, "Max parallel downloads must be between 1 and 10"},
		{"retries", func(s *Settings) { s.RetryAttempts = 11 }, "Retry attempts must be between 0 and 10"},
		{"timeout", func(s *Settings) { s.TimeoutSeconds = 10 }, "Timeout must be between 30 and 3600 seconds"},
		{"quality", func(s *Settings) { s.DefaultQuality = "64kbps" }, `Unknown quality "64kbps"`},
		{"format", func(s *Settings) { s.DefaultFormat = "ogg" }, `Unknown format "ogg"`},
		{"fallback", func(s *Settings) { s.FallbackSource = "soundcloud" }, `Fallback source must be spotify or youtube, got "soundcloud"`},
		{"proxy missing", func(s *Settings) { s.UseProxy = true }, "Proxy URL is required when proxy is enabled"},
		{"proxy invalid", func(s *Settings) { s.UseProxy = true; s.ProxyURL = "proxy" }, `Invalid proxy URL "proxy"`},
		{"playlist", func(s *Settings) { s.PlaylistFormat = "wpl" }, `Unknown playlist format "wpl"`},
		{"log level", func(s *Settings) { s.LogLevel = "loud" }, `Unknown log level "loud"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.modify(s)

			err := s.Validate()
			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, []string{tt.want}, verr.Problems)
		})
	}
}

func TestValidate_CollectsAllProblems(t *testing.T) {
	s := DefaultSettings()
	s.OutputDir = ""
	s.MaxParallelDownloads = 20

	err := s.Validate()
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Len(t, verr.Problems, 2)
	assert.Contains(t, err.Error(), "invalid settings:")
}

func TestClampParallel(t *testing.T) {
	for in, want := range map[int]int{-1: 1, 0: 1, 1: 1, 5: 5, 10: 10, 42: 10} {
		s := &Settings{MaxParallelDownloads: in}
		s.ClampParallel()
		assert.Equal(t, want, s.MaxParallelDownloads, "clamp(%d)", in)
	}
}

func TestToolOptions(t *testing.T) {
	s := DefaultSettings()
	s.ProxyURL = "http://proxy:3128"

	opts := s.ToolOptions()
	assert.Empty(t, opts.Proxy, "proxy is ignored while disabled")
	assert.Equal(t, "spotdl", opts.SpotDLPath)
	assert.Equal(t, "yt-dlp", opts.YTDLPPath)
	assert.Equal(t, 3, opts.Retries)
	assert.Equal(t, 300, opts.SocketTimeout)
	assert.True(t, opts.EmbedMetadata)

	s.UseProxy = true
	assert.Equal(t, "http://proxy:3128", s.ToolOptions().Proxy)
}

func TestClone(t *testing.T) {
	s := DefaultSettings()
	c := s.Clone()
	c.MaxParallelDownloads = 9
	assert.Equal(t, 3, s.MaxParallelDownloads)
}
