package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/royal-15/SpotiPlay-Desktop/internal/logutils"
	"github.com/royal-15/SpotiPlay-Desktop/internal/model"
	"github.com/royal-15/SpotiPlay-Desktop/internal/tool"
)

// ErrCorrupt is wrapped by Load when the settings file cannot be decoded.
var ErrCorrupt = errors.New("settings file is corrupt")

// Limits on numeric settings.
const (
	MinParallel = 1
	MaxParallel = 10
	MinTimeout  = 30
	MaxTimeout  = 3600
	MaxRetries  = 10
)

// Settings holds all configuration options.
type Settings struct {
	// Download settings
	OutputDir            string        `json:"output_dir"`
	MaxParallelDownloads int           `json:"max_parallel_downloads"`
	DefaultQuality       model.Quality `json:"default_quality"`
	DefaultFormat        model.Format  `json:"default_format"`
	RetryAttempts        int           `json:"retry_attempts"`
	TimeoutSeconds       int           `json:"timeout_seconds"`
	FallbackSource       model.Source  `json:"fallback_source"`

	// Tool paths
	YTDLPPath  string `json:"yt_dlp_path"`
	SpotDLPath string `json:"spotdl_path"`
	FFmpegPath string `json:"ffmpeg_path"`

	// Proxy settings
	UseProxy bool   `json:"use_proxy"`
	ProxyURL string `json:"proxy_url"`

	// Metadata settings
	EmbedMetadata   bool `json:"embed_metadata"`
	EmbedThumbnail  bool `json:"embed_thumbnail"`
	TagSourceURL    bool `json:"tag_source_url"`
	SaveCoverArt    bool `json:"save_cover_art"`
	CoverArtMaxSize int  `json:"cover_art_max_size"`

	// Playlist settings
	PlaylistFormat string `json:"playlist_format"` // m3u, pls

	LogLevel string `json:"log_level"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	homeDir, _ := os.UserHomeDir()
	return &Settings{
		OutputDir:            filepath.Join(homeDir, "Downloads", "SpotiPlay"),
		MaxParallelDownloads: 3,
		DefaultQuality:       model.Quality320,
		DefaultFormat:        model.FormatMP3,
		RetryAttempts:        3,
		TimeoutSeconds:       300,
		FallbackSource:       model.SourceYouTube,

		YTDLPPath:  "yt-dlp",
		SpotDLPath: "spotdl",
		FFmpegPath: "ffmpeg",

		EmbedMetadata:   true,
		EmbedThumbnail:  true,
		TagSourceURL:    true,
		SaveCoverArt:    false,
		CoverArtMaxSize: 1000,

		PlaylistFormat: "m3u",
		LogLevel:       "info",
	}
}

// DefaultPath returns the settings file location under the user's
// configuration directory.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "spotiplay", "config.json")
}

// Load reads settings from a JSON file.
//
// A missing file yields defaults and no error. A corrupt file also yields
// defaults, together with an error wrapping ErrCorrupt so callers can warn.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, err
	}

	settings := DefaultSettings()
	if err := json.Unmarshal(data, settings); err != nil {
		return DefaultSettings(), fmt.Errorf("%w: %s: %v", ErrCorrupt, path, err)
	}
	settings.Normalize()

	return settings, nil
}

// Save writes settings to a JSON file. The file is replaced atomically, so
// a crash mid-write leaves the previous settings in place.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Clone returns an independent copy.
func (s *Settings) Clone() *Settings {
	c := *s
	return &c
}

// Normalize maps loose spellings such as "320" or "FLAC" to canonical values.
// Values it cannot parse are left for Validate to report.
func (s *Settings) Normalize() {
	if q, err := model.ParseQuality(string(s.DefaultQuality)); err == nil {
		s.DefaultQuality = q
	}
	if f, err := model.ParseFormat(string(s.DefaultFormat)); err == nil {
		s.DefaultFormat = f
	}
	s.FallbackSource = model.Source(strings.ToLower(string(s.FallbackSource)))
	s.PlaylistFormat = strings.ToLower(s.PlaylistFormat)
}

// ValidationError lists every problem found by Validate.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid settings: " + strings.Join(e.Problems, "; ")
}

// Validate checks every setting and returns a *ValidationError listing all
// problems, or nil.
func (s *Settings) Validate() error {
	var problems []string

	if strings.TrimSpace(s.OutputDir) == "" {
		problems = append(problems, "Output directory cannot be empty")
	}
	if s.MaxParallelDownloads < MinParallel || s.MaxParallelDownloads > MaxParallel {
		problems = append(problems, fmt.Sprintf("Max parallel downloads must be between %d and %d", MinParallel, MaxParallel))
	}
	if s.RetryAttempts < 0 || s.RetryAttempts > MaxRetries {
		problems = append(problems, fmt.Sprintf("Retry attempts must be between 0 and %d", MaxRetries))
	}
	if s.TimeoutSeconds < MinTimeout || s.TimeoutSeconds > MaxTimeout {
		problems = append(problems, fmt.Sprintf("Timeout must be between %d and %d seconds", MinTimeout, MaxTimeout))
	}
	if _, err := model.ParseQuality(string(s.DefaultQuality)); err != nil {
		problems = append(problems, fmt.Sprintf("Unknown quality %q", s.DefaultQuality))
	}
	if _, err := model.ParseFormat(string(s.DefaultFormat)); err != nil {
		problems = append(problems, fmt.Sprintf("Unknown format %q", s.DefaultFormat))
	}
	if _, ok := model.ParseSource(string(s.FallbackSource)); !ok {
		problems = append(problems, fmt.Sprintf("Fallback source must be spotify or youtube, got %q", s.FallbackSource))
	}
	if s.UseProxy {
		if s.ProxyURL == "" {
			problems = append(problems, "Proxy URL is required when proxy is enabled")
		} else if u, err := url.Parse(s.ProxyURL); err != nil || u.Scheme == "" || u.Host == "" {
			problems = append(problems, fmt.Sprintf("Invalid proxy URL %q", s.ProxyURL))
		}
	}
	if s.SaveCoverArt && s.CoverArtMaxSize < 0 {
		problems = append(problems, "Cover art size cannot be negative")
	}
	switch s.PlaylistFormat {
	case "", "m3u", "pls":
	default:
		problems = append(problems, fmt.Sprintf("Unknown playlist format %q", s.PlaylistFormat))
	}
	if _, err := logutils.ParseLevel(s.LogLevel); err != nil {
		problems = append(problems, fmt.Sprintf("Unknown log level %q", s.LogLevel))
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

// ClampParallel forces MaxParallelDownloads into the allowed range.
func (s *Settings) ClampParallel() {
	s.MaxParallelDownloads = min(max(s.MaxParallelDownloads, MinParallel), MaxParallel)
}

// ToolOptions converts settings to the options every tool job carries.
func (s *Settings) ToolOptions() tool.Options {
	opts := tool.Options{
		SpotDLPath:     s.SpotDLPath,
		YTDLPPath:      s.YTDLPPath,
		FFmpegPath:     s.FFmpegPath,
		EmbedMetadata:  s.EmbedMetadata,
		EmbedThumbnail: s.EmbedThumbnail,
		Retries:        s.RetryAttempts,
		SocketTimeout:  s.TimeoutSeconds,
	}
	if s.UseProxy {
		opts.Proxy = s.ProxyURL
	}
	return opts
}
