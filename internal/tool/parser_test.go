package tool

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParser_YTDLPProgress(t *testing.T) {
	p := NewParser(YTDLP)

	ev, ok := p.Feed("[download]  45.2% of 3.24MiB at 1.23MiB/s ETA 00:02")
	assert.True(t, ok)
	assert.Equal(t, Event{Type: EventProgress, Percent: 45, Rate: "1.23MiB/s", ETA: "00:02"}, ev)

	ev, ok = p.Feed("[download]  99.9% of 3.24MiB at 2.00MiB/s ETA 00:00")
	assert.True(t, ok)
	assert.Equal(t, 99, ev.Percent)
	assert.Equal(t, "2.00MiB/s", ev.Rate)
}

func TestParser_NeverDecreases(t *testing.T) {
	p := NewParser(YTDLP)

	p.Feed("[download]  60.0% of 1MiB")
	ev, ok := p.Feed("[download]  10.0% of 1MiB")
	assert.False(t, ok, "a lower percentage with unchanged rate/eta is not an update")
	assert.Equal(t, Event{}, ev)
	assert.Equal(t, 60, p.Percent())

	ev, ok = p.Feed("[download]  10.0% of 1MiB at 5.00KiB/s ETA 01:00")
	assert.True(t, ok)
	assert.Equal(t, 60, ev.Percent)
}

func TestParser_CapsAt100(t *testing.T) {
	p := NewParser(YTDLP)
	ev, ok := p.Feed("[download] 150% weird")
	assert.True(t, ok)
	assert.Equal(t, 100, ev.Percent)
}

func TestParser_IgnoresUnrecognizedLines(t *testing.T) {
	p := NewParser(YTDLP)
	lines := []string{
		"[youtube] abc: Downloading webpage",
		"[download]  10.0% of 3.00MiB at 1.00MiB/s ETA 00:03",
		"random noise that matches nothing",
		"",
		"[download]  50.0% of 3.00MiB at 1.00MiB/s ETA 00:02",
		"WARNING: something harmless",
		"[download] 100.0% of 3.00MiB at 1.00MiB/s ETA 00:00",
	}

	var got []int
	for _, line := range lines {
		if ev, ok := p.Feed(line); ok {
			got = append(got, ev.Percent)
		}
	}

	assert.Equal(t, []int{10, 50, 100}, got)
	assert.Empty(t, p.Failure())
}

func TestParser_SpotDLStages(t *testing.T) {
	p := NewParser(SpotDL)

	var got []int
	for _, line := range []string{
		"Processing query: some song",
		"Downloading some song",
		"Converting some song",
		"Downloading again",
		`Downloaded "Artist - Song": https://music.youtube.com/watch?v=x`,
	} {
		if ev, ok := p.Feed(line); ok {
			got = append(got, ev.Percent)
		}
	}

	assert.Equal(t, []int{50, 80, 100}, got)
	assert.Equal(t, "Artist - Song", p.OutputPath())
}

func TestParser_StageWordsIgnoredForYTDLP(t *testing.T) {
	p := NewParser(YTDLP)
	_, ok := p.Feed("[youtube] abc: Downloading m3u8 information")
	assert.False(t, ok)
	assert.Equal(t, 0, p.Percent())
}

func TestParser_Destination(t *testing.T) {
	p := NewParser(YTDLP)
	p.Feed("[download] Destination: /music/Song.webm")
	assert.Equal(t, "/music/Song.webm", p.OutputPath())

	p.Feed("[ExtractAudio] Destination: /music/Song.mp3")
	assert.Equal(t, "/music/Song.mp3", p.OutputPath())

	q := NewParser(YTDLP)
	q.Feed("[download] /music/Old.mp3 has already been downloaded")
	assert.Equal(t, "/music/Old.mp3", q.OutputPath())
}

func TestParser_Failure(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"ERROR: [youtube] abc: Video unavailable", true},
		{"LookupError: No results found for song: nothing", true},
		{"AudioProviderError: YT-DLP download error", true},
		{"WARNING: falling back", false},
		{"no error here: really", false},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			p := NewParser(SpotDL)
			p.Feed(tt.line)
			assert.Equal(t, tt.want, p.Failure() != "")
		})
	}
}

func TestParser_Tail(t *testing.T) {
	p := NewParser(YTDLP)
	for i := 0; i < 30; i++ {
		p.Feed(fmt.Sprintf("line %d", i))
	}

	lines := strings.Split(p.Tail(), "\n")
	assert.Len(t, lines, tailSize)
	assert.Equal(t, "line 10", lines[0])
	assert.Equal(t, "line 29", lines[len(lines)-1])
}

func TestScanLines(t *testing.T) {
	data := []byte("a\rb\nc")
	var got []string
	for len(data) > 0 {
		adv, tok, err := scanLines(data, true)
		assert.NoError(t, err)
		got = append(got, string(tok))
		data = data[adv:]
	}
	assert.Equal(t, []string{"a", "b", "c"}, got)
}
