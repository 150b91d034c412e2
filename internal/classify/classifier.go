package classify

import (
	"regexp"
	"strings"

	"github.com/royal-15/SpotiPlay-Desktop/internal/model"
)

// YouTubeSearchPrefix makes yt-dlp search and take the first result.
const YouTubeSearchPrefix = "ytsearch1:"

var (
	spotifyURLPattern = regexp.MustCompile(`(?i)^(https?://open\.spotify\.com/|spotify:)[^\s,;]*$`)
	youtubeURLPattern = regexp.MustCompile(`(?i)^https?://(www\.|m\.|music\.)?(youtube\.com|youtu\.be)/[^\s,;]*$`)
	anyURLPattern     = regexp.MustCompile(`(?i)^[a-z][a-z0-9+.-]*://`)
)

// Request is one classified line ready to be queued.
type Request struct {
	Input     string
	Target    string
	Source    model.Source
	Operation model.Operation
}

// Classifier resolves input lines to requests.
type Classifier struct {
	fallback model.Source
}

// New creates a Classifier. fallback picks the search source for text that
// is not a URL in ModeAuto; an unknown value means YouTube.
func New(fallback model.Source) *Classifier {
	if _, ok := model.ParseSource(string(fallback)); !ok {
		fallback = model.SourceYouTube
	}
	return &Classifier{fallback: fallback}
}

// IsSpotifyURL reports whether s has the shape of a Spotify link or URI.
func IsSpotifyURL(s string) bool {
	return spotifyURLPattern.MatchString(s)
}

// IsYouTubeURL reports whether s has the shape of a YouTube link.
func IsYouTubeURL(s string) bool {
	return youtubeURLPattern.MatchString(s)
}

// Classify resolves one line. The line must not be empty.
func (c *Classifier) Classify(line string, mode Mode) (Request, error) {
	line = strings.TrimSpace(line)
	reject := func(reason string) (Request, error) {
		return Request{}, &ValidationError{Mode: mode, Rejected: []Rejection{{Line: line, Reason: reason}}}
	}
	if line == "" {
		return reject("empty input")
	}

	switch mode {
	case ModeAuto:
		switch {
		case IsSpotifyURL(line):
			return download(line, model.SourceSpotify), nil
		case IsYouTubeURL(line):
			return download(line, model.SourceYouTube), nil
		default:
			return search(line, c.fallback), nil
		}

	case ModeSpotify:
		switch {
		case IsSpotifyURL(line):
			return download(line, model.SourceSpotify), nil
		case anyURLPattern.MatchString(line):
			return reject("not a Spotify URL")
		default:
			return search(line, model.SourceSpotify), nil
		}

	case ModeYouTube:
		if IsYouTubeURL(line) {
			return download(line, model.SourceYouTube), nil
		}
		return reject("not a YouTube URL")

	case ModeSearchYouTube:
		return search(line, model.SourceYouTube), nil

	case ModeSearchSpotify:
		return search(line, model.SourceSpotify), nil
	}

	return reject("unknown mode")
}

// ClassifyAll resolves every non-empty line of text. A line made only of
// URLs separated by commas, semicolons or spaces counts as one line per URL,
// except in the search modes. Lines rejected by the mode are collected into
// a single *ValidationError; the accepted requests are returned regardless.
func (c *Classifier) ClassifyAll(text string, mode Mode) ([]Request, error) {
	var requests []Request

	lines, rejected := c.lines(text, mode)
	for _, line := range lines {
		req, err := c.Classify(line, mode)
		if err != nil {
			if verr, ok := err.(*ValidationError); ok {
				rejected = append(rejected, verr.Rejected...)
				continue
			}
			return nil, err
		}
		requests = append(requests, req)
	}

	if len(rejected) > 0 {
		return requests, &ValidationError{Mode: mode, Rejected: rejected}
	}
	return requests, nil
}

// lines splits text into the inputs to classify. In ModeAuto a URL list
// keeps only its Spotify and YouTube URLs; the others are rejected.
func (c *Classifier) lines(text string, mode Mode) ([]string, []Rejection) {
	var (
		out      []string
		rejected []Rejection
	)
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if mode == ModeSearchYouTube || mode == ModeSearchSpotify {
			out = append(out, line)
			continue
		}
		urls, ok := urlList(line)
		if !ok {
			out = append(out, line)
			continue
		}
		if mode != ModeAuto || len(urls) == 1 {
			out = append(out, urls...)
			continue
		}
		for _, u := range urls {
			if IsSpotifyURL(u) || IsYouTubeURL(u) {
				out = append(out, u)
			} else {
				rejected = append(rejected, Rejection{Line: u, Reason: "not a Spotify or YouTube URL"})
			}
		}
	}
	return out, rejected
}

func download(url string, src model.Source) Request {
	return Request{Input: url, Target: url, Source: src, Operation: model.OperationDownload}
}

func search(text string, src model.Source) Request {
	target := text
	if src == model.SourceYouTube {
		target = YouTubeSearchPrefix + text
	}
	return Request{Input: text, Target: target, Source: src, Operation: model.OperationSearch}
}
