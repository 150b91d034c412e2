package tool

import (
	"path/filepath"
	"strconv"

	"github.com/royal-15/SpotiPlay-Desktop/internal/model"
)

// Kind identifies an external downloader.
type Kind int

const (
	SpotDL Kind = iota
	YTDLP
)

// ForSource returns the tool responsible for a source.
func ForSource(src model.Source) Kind {
	if src == model.SourceSpotify {
		return SpotDL
	}
	return YTDLP
}

// String returns the tool's conventional binary name.
func (k Kind) String() string {
	switch k {
	case SpotDL:
		return "spotdl"
	case YTDLP:
		return "yt-dlp"
	}
	return "unknown"
}

// Options holds tool-level settings shared by every job.
type Options struct {
	SpotDLPath     string
	YTDLPPath      string
	FFmpegPath     string
	EmbedMetadata  bool
	EmbedThumbnail bool
	Proxy          string
	Retries        int
	SocketTimeout  int // seconds, 0 leaves the tool default
}

// DefaultOptions returns options that rely on the tools being on PATH.
func DefaultOptions() Options {
	return Options{
		SpotDLPath:     "spotdl",
		YTDLPPath:      "yt-dlp",
		FFmpegPath:     "ffmpeg",
		EmbedMetadata:  true,
		EmbedThumbnail: true,
	}
}

// Job is one invocation of a tool.
type Job struct {
	Kind      Kind
	Target    string
	Quality   model.Quality
	Format    model.Format
	OutputDir string
	Options   Options
}

// Command returns the binary and arguments for the job.
func (j Job) Command() (string, []string) {
	switch j.Kind {
	case SpotDL:
		return orDefault(j.Options.SpotDLPath, "spotdl"), j.spotdlArgs()
	default:
		return orDefault(j.Options.YTDLPPath, "yt-dlp"), j.ytdlpArgs()
	}
}

func (j Job) format() model.Format {
	if j.Format == "" {
		return model.FormatMP3
	}
	return j.Format
}

func (j Job) spotdlArgs() []string {
	args := []string{"download", j.Target, "--output", j.OutputDir}

	if f := j.format(); f != model.FormatMP3 {
		args = append(args, "--format", string(f))
	}
	if bitrate := j.Quality.Bitrate(); bitrate != "" {
		args = append(args, "--bitrate", bitrate)
	}
	if ff := j.Options.FFmpegPath; ff != "" && ff != "ffmpeg" {
		args = append(args, "--ffmpeg", ff)
	}
	if j.Options.Proxy != "" {
		args = append(args, "--proxy", j.Options.Proxy)
	}

	return args
}

func (j Job) ytdlpArgs() []string {
	args := []string{
		"-f", "ba",
		"-x",
		"--audio-format", string(j.format()),
		"-o", filepath.Join(j.OutputDir, "%(title)s.%(ext)s"),
	}

	if bitrate := j.Quality.Bitrate(); bitrate != "" {
		args = append(args, "--audio-quality", bitrate)
	} else {
		// best VBR
		args = append(args, "--audio-quality", "0")
	}

	if j.Options.EmbedMetadata {
		args = append(args, "--add-metadata")
	}
	if j.Options.EmbedThumbnail {
		args = append(args, "--embed-thumbnail")
	}
	if ff := j.Options.FFmpegPath; ff != "" && ff != "ffmpeg" {
		args = append(args, "--ffmpeg-location", ff)
	}
	if j.Options.Proxy != "" {
		args = append(args, "--proxy", j.Options.Proxy)
	}
	if j.Options.Retries > 0 {
		args = append(args, "--retries", strconv.Itoa(j.Options.Retries))
	}
	if j.Options.SocketTimeout > 0 {
		args = append(args, "--socket-timeout", strconv.Itoa(j.Options.SocketTimeout))
	}

	return append(args, "--newline", j.Target)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
