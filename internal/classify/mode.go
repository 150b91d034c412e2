package classify

import (
	"fmt"
	"strings"
)

// Mode selects how input lines are interpreted.
type Mode int

const (
	// ModeAuto detects Spotify and YouTube URLs and searches everything else.
	ModeAuto Mode = iota
	// ModeSpotify accepts Spotify URLs or plain search text for spotdl.
	ModeSpotify
	// ModeYouTube accepts YouTube URLs only.
	ModeYouTube
	// ModeSearchYouTube searches YouTube for every line.
	ModeSearchYouTube
	// ModeSearchSpotify hands every line to spotdl as a query.
	ModeSearchSpotify
)

// Modes lists every mode in display order.
var Modes = []Mode{ModeAuto, ModeSpotify, ModeYouTube, ModeSearchYouTube, ModeSearchSpotify}

var modeNames = map[Mode]string{
	ModeAuto:          "auto",
	ModeSpotify:       "spotify",
	ModeYouTube:       "youtube",
	ModeSearchYouTube: "search-youtube",
	ModeSearchSpotify: "search-spotify",
}

var modeLabels = map[Mode]string{
	ModeAuto:          "Auto",
	ModeSpotify:       "Spotify URL/Search",
	ModeYouTube:       "YouTube URL",
	ModeSearchYouTube: "Search on YouTube",
	ModeSearchSpotify: "Search on Spotify",
}

// String returns the mode's identifier as used in flags and JSON.
func (m Mode) String() string {
	if s, ok := modeNames[m]; ok {
		return s
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Label returns the human-readable name of the mode.
func (m Mode) Label() string {
	return modeLabels[m]
}

// ParseMode accepts an identifier ("search-youtube") or a label
// ("Search on YouTube"), case insensitive. Empty input means ModeAuto.
func ParseMode(s string) (Mode, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if v == "" {
		return ModeAuto, nil
	}
	for _, m := range Modes {
		if v == modeNames[m] || v == strings.ToLower(modeLabels[m]) {
			return m, nil
		}
	}
	return ModeAuto, fmt.Errorf("unknown mode %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(text []byte) error {
	parsed, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
