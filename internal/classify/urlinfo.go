package classify

import (
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/royal-15/SpotiPlay-Desktop/internal/model"
)

// URLKind is the kind of resource a URL points at.
type URLKind string

const (
	KindTrack    URLKind = "track"
	KindAlbum    URLKind = "album"
	KindPlaylist URLKind = "playlist"
	KindArtist   URLKind = "artist"
	KindVideo    URLKind = "video"
	KindChannel  URLKind = "channel"
	KindUnknown  URLKind = "unknown"
)

// URLInfo is what ParseURL extracts from a Spotify or YouTube URL.
type URLInfo struct {
	URL    string
	Source model.Source
	Kind   URLKind
	ID     string
}

type idPattern struct {
	kind URLKind
	re   *regexp.Regexp
}

var (
	spotifyPatterns = []idPattern{
		{KindTrack, regexp.MustCompile(`(?:open\.spotify\.com/(?:intl-[a-z]+/)?track/|spotify:track:)([a-zA-Z0-9]+)`)},
		{KindAlbum, regexp.MustCompile(`(?:open\.spotify\.com/(?:intl-[a-z]+/)?album/|spotify:album:)([a-zA-Z0-9]+)`)},
		{KindPlaylist, regexp.MustCompile(`(?:open\.spotify\.com/(?:intl-[a-z]+/)?playlist/|spotify:playlist:)([a-zA-Z0-9]+)`)},
		{KindArtist, regexp.MustCompile(`(?:open\.spotify\.com/(?:intl-[a-z]+/)?artist/|spotify:artist:)([a-zA-Z0-9]+)`)},
	}

	// Order matters: a watch URL inside a playlist is still a video.
	youtubePatterns = []idPattern{
		{KindVideo, regexp.MustCompile(`(?:youtube\.com/watch\?(?:.*&)?v=|youtu\.be/)([a-zA-Z0-9_-]+)`)},
		{KindVideo, regexp.MustCompile(`youtube\.com/(?:embed|shorts)/([a-zA-Z0-9_-]+)`)},
		{KindPlaylist, regexp.MustCompile(`[?&]list=([a-zA-Z0-9_-]+)`)},
		{KindChannel, regexp.MustCompile(`youtube\.com/(?:channel/|c/|@)([a-zA-Z0-9_.-]+)`)},
	}
)

// ParseURL extracts source, kind and identifier. ok is false when the URL
// belongs to neither source.
func ParseURL(raw string) (info URLInfo, ok bool) {
	raw = strings.TrimSpace(raw)
	var patterns []idPattern
	switch {
	case IsSpotifyURL(raw):
		info = URLInfo{URL: raw, Source: model.SourceSpotify, Kind: KindUnknown}
		patterns = spotifyPatterns
	case IsYouTubeURL(raw):
		info = URLInfo{URL: raw, Source: model.SourceYouTube, Kind: KindUnknown}
		patterns = youtubePatterns
	default:
		return URLInfo{}, false
	}

	for _, p := range patterns {
		if m := p.re.FindStringSubmatch(raw); m != nil {
			info.Kind = p.kind
			info.ID = m[1]
			break
		}
	}
	return info, true
}

// IsCollection reports whether the URL points at a playlist or album.
func IsCollection(raw string) bool {
	info, ok := ParseURL(raw)
	return ok && (info.Kind == KindPlaylist || info.Kind == KindAlbum)
}

// DisplayName returns labels like "Spotify Track" or "YouTube Playlist".
// Other input is returned as is, truncated to 50 characters.
func DisplayName(raw string) string {
	info, ok := ParseURL(raw)
	if !ok {
		if utf8.RuneCountInString(raw) > 50 {
			return string([]rune(raw)[:50]) + "..."
		}
		return raw
	}

	source := "Spotify"
	if info.Source == model.SourceYouTube {
		source = "YouTube"
	}
	return source + " " + strings.ToUpper(string(info.Kind[:1])) + string(info.Kind[1:])
}

// IsValidURL reports whether s is an absolute http(s) URL with a host.
func IsValidURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != "" && !strings.ContainsAny(s, " \t")
}

// SplitURLs extracts the URLs from text separated by newlines, commas,
// semicolons or spaces. Duplicates and non-URLs are dropped; order is kept.
func SplitURLs(text string) []string {
	fields := splitFields(text)

	seen := make(map[string]bool, len(fields))
	var urls []string
	for _, f := range fields {
		if !IsValidURL(f) || seen[f] {
			continue
		}
		seen[f] = true
		urls = append(urls, f)
	}
	return urls
}

func splitFields(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		switch r {
		case '\n', '\r', ',', ';', ' ', '\t':
			return true
		}
		return false
	})
}

// urlList returns the URLs of a line that holds nothing but URLs and
// separators. Spotify URIs count as URLs. Duplicates are dropped.
func urlList(line string) ([]string, bool) {
	fields := splitFields(line)
	if len(fields) == 0 {
		return nil, false
	}

	seen := make(map[string]bool, len(fields))
	var urls []string
	for _, f := range fields {
		if !IsValidURL(f) && !IsSpotifyURL(f) {
			return nil, false
		}
		if seen[f] {
			continue
		}
		seen[f] = true
		urls = append(urls, f)
	}
	return urls, true
}
