package model

import (
	"fmt"
	"strings"
)

// Quality is a requested audio quality preset.
type Quality string

const (
	QualityBest Quality = "Best"
	Quality320  Quality = "320kbps"
	Quality256  Quality = "256kbps"
	Quality192  Quality = "192kbps"
	Quality128  Quality = "128kbps"
)

// Qualities lists every preset in display order.
var Qualities = []Quality{QualityBest, Quality320, Quality256, Quality192, Quality128}

// ParseQuality accepts "best", "320kbps", "320k" or "320" in any case.
func ParseQuality(s string) (Quality, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if v == "best" {
		return QualityBest, nil
	}
	v = strings.TrimSuffix(strings.TrimSuffix(v, "kbps"), "k")
	for _, q := range Qualities[1:] {
		if strings.TrimSuffix(string(q), "kbps") == v {
			return q, nil
		}
	}
	return "", fmt.Errorf("unknown quality %q", s)
}

// Bitrate returns the tool flag value for q, e.g. "320k". Loose spellings
// such as "320" are canonicalized first. It is empty for QualityBest and
// for values ParseQuality rejects.
func (q Quality) Bitrate() string {
	c, err := ParseQuality(string(q))
	if err != nil || c == QualityBest {
		return ""
	}
	return strings.TrimSuffix(string(c), "kbps") + "k"
}

// Format is a requested audio container.
type Format string

const (
	FormatMP3  Format = "mp3"
	FormatM4A  Format = "m4a"
	FormatFLAC Format = "flac"
	FormatWAV  Format = "wav"
)

// Formats lists every supported format.
var Formats = []Format{FormatMP3, FormatM4A, FormatFLAC, FormatWAV}

// ParseFormat accepts a format name in any case.
func ParseFormat(s string) (Format, error) {
	v := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, f := range Formats {
		if f == v {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown format %q", s)
}
