package classify

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/royal-15/SpotiPlay-Desktop/internal/model"
)

const (
	spotifyTrack = "https://open.spotify.com/track/4uLU6hMCjMI75M1A2tKUQC"
	spotifyURI   = "spotify:album:1DFixLWuPkv3KT3TnV35m3"
	youtubeVideo = "https://www.youtube.com/watch?v=dQw4w9WgXcQ"
	youtubeShort = "https://youtu.be/dQw4w9WgXcQ"
	otherURL     = "https://soundcloud.com/artist/track"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name       string
		mode       Mode
		input      string
		wantSource model.Source
		wantOp     model.Operation
		wantTarget string
	}{
		{"auto spotify url", ModeAuto, spotifyTrack, model.SourceSpotify, model.OperationDownload, spotifyTrack},
		{"auto spotify uri", ModeAuto, spotifyURI, model.SourceSpotify, model.OperationDownload, spotifyURI},
		{"auto youtube url", ModeAuto, youtubeVideo, model.SourceYouTube, model.OperationDownload, youtubeVideo},
		{"auto youtu.be", ModeAuto, youtubeShort, model.SourceYouTube, model.OperationDownload, youtubeShort},
		{"auto music.youtube", ModeAuto, "https://music.youtube.com/watch?v=abc", model.SourceYouTube, model.OperationDownload, "https://music.youtube.com/watch?v=abc"},
		{"auto text", ModeAuto, "daft punk one more time", model.SourceYouTube, model.OperationSearch, "ytsearch1:daft punk one more time"},
		{"auto other url", ModeAuto, otherURL, model.SourceYouTube, model.OperationSearch, "ytsearch1:" + otherURL},
		{"auto trims", ModeAuto, "  " + spotifyTrack + "  ", model.SourceSpotify, model.OperationDownload, spotifyTrack},
		{"spotify url", ModeSpotify, spotifyTrack, model.SourceSpotify, model.OperationDownload, spotifyTrack},
		{"spotify text", ModeSpotify, "one more time", model.SourceSpotify, model.OperationSearch, "one more time"},
		{"youtube url", ModeYouTube, youtubeShort, model.SourceYouTube, model.OperationDownload, youtubeShort},
		{"search youtube", ModeSearchYouTube, "one more time", model.SourceYouTube, model.OperationSearch, "ytsearch1:one more time"},
		{"search spotify", ModeSearchSpotify, "one more time", model.SourceSpotify, model.OperationSearch, "one more time"},
	}

	c := New(model.SourceYouTube)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := c.Classify(tt.input, tt.mode)
			require.NoError(t, err)
			assert.Equal(t, tt.wantSource, req.Source)
			assert.Equal(t, tt.wantOp, req.Operation)
			assert.Equal(t, tt.wantTarget, req.Target)
		})
	}
}

func TestClassify_Rejections(t *testing.T) {
	tests := []struct {
		name  string
		mode  Mode
		input string
	}{
		{"spotify mode youtube url", ModeSpotify, youtubeVideo},
		{"spotify mode other url", ModeSpotify, otherURL},
		{"youtube mode spotify url", ModeYouTube, spotifyTrack},
		{"youtube mode text", ModeYouTube, "just some words"},
		{"youtube mode other url", ModeYouTube, otherURL},
	}

	c := New(model.SourceYouTube)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Classify(tt.input, tt.mode)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidInput))

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.input, verr.Rejected[0].Line)
		})
	}
}

func TestClassify_FallbackSpotify(t *testing.T) {
	c := New(model.SourceSpotify)

	req, err := c.Classify("one more time", ModeAuto)
	require.NoError(t, err)
	assert.Equal(t, model.SourceSpotify, req.Source)
	assert.Equal(t, "one more time", req.Target)

	// explicit search modes ignore the fallback
	req, err = c.Classify("one more time", ModeSearchYouTube)
	require.NoError(t, err)
	assert.Equal(t, model.SourceYouTube, req.Source)
}

func TestNew_UnknownFallback(t *testing.T) {
	req, err := New("bandcamp").Classify("text", ModeAuto)
	require.NoError(t, err)
	assert.Equal(t, model.SourceYouTube, req.Source)
}

func TestClassifyAll(t *testing.T) {
	c := New(model.SourceYouTube)
	text := spotifyTrack + "\n\n   \n" + youtubeVideo + "\r\nsome song\n"

	reqs, err := c.ClassifyAll(text, ModeAuto)
	require.NoError(t, err)
	require.Len(t, reqs, 3)
	assert.Equal(t, model.SourceSpotify, reqs[0].Source)
	assert.Equal(t, model.SourceYouTube, reqs[1].Source)
	assert.Equal(t, youtubeVideo, reqs[1].Target)
	assert.Equal(t, "ytsearch1:some song", reqs[2].Target)
}

func TestClassifyAll_PartialRejection(t *testing.T) {
	c := New(model.SourceYouTube)
	text := youtubeVideo + "\nnot a url\n" + spotifyTrack

	reqs, err := c.ClassifyAll(text, ModeYouTube)
	require.Len(t, reqs, 1)
	assert.Equal(t, youtubeVideo, reqs[0].Target)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	require.Len(t, verr.Rejected, 2)
	assert.Equal(t, "not a url", verr.Rejected[0].Line)
	assert.Equal(t, spotifyTrack, verr.Rejected[1].Line)
	assert.Contains(t, err.Error(), "2 lines rejected")
}

func TestClassifyAll_URLList(t *testing.T) {
	c := New(model.SourceYouTube)

	reqs, err := c.ClassifyAll(youtubeShort+", "+spotifyTrack+"; "+spotifyURI+" "+youtubeShort, ModeAuto)
	require.NoError(t, err)
	require.Len(t, reqs, 3)
	assert.Equal(t, youtubeShort, reqs[0].Target)
	assert.Equal(t, model.SourceYouTube, reqs[0].Source)
	assert.Equal(t, spotifyTrack, reqs[1].Target)
	assert.Equal(t, spotifyURI, reqs[2].Target)
	for _, r := range reqs {
		assert.Equal(t, model.OperationDownload, r.Operation)
	}
}

func TestClassifyAll_URLListFiltersUnsupported(t *testing.T) {
	reqs, err := New(model.SourceYouTube).ClassifyAll(youtubeShort+","+otherURL, ModeAuto)
	require.Len(t, reqs, 1)
	assert.Equal(t, youtubeShort, reqs[0].Target)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	require.Len(t, verr.Rejected, 1)
	assert.Equal(t, otherURL, verr.Rejected[0].Line)
}

func TestClassifyAll_URLListPerMode(t *testing.T) {
	c := New(model.SourceYouTube)
	line := youtubeShort + ", " + spotifyTrack

	reqs, err := c.ClassifyAll(line, ModeYouTube)
	require.Len(t, reqs, 1)
	assert.Equal(t, youtubeShort, reqs[0].Target)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, spotifyTrack, verr.Rejected[0].Line)

	reqs, err = c.ClassifyAll(line, ModeSearchYouTube)
	require.NoError(t, err)
	require.Len(t, reqs, 1)
	assert.Equal(t, "ytsearch1:"+line, reqs[0].Target)
}

func TestClassifyAll_TrailingSeparator(t *testing.T) {
	reqs, err := New(model.SourceYouTube).ClassifyAll(youtubeShort+",", ModeYouTube)
	require.NoError(t, err)
	require.Len(t, reqs, 1)
	assert.Equal(t, youtubeShort, reqs[0].Target)
}

func TestIsURL_WholeToken(t *testing.T) {
	assert.True(t, IsYouTubeURL(youtubeVideo))
	assert.False(t, IsYouTubeURL(youtubeShort+", "+spotifyTrack))
	assert.False(t, IsYouTubeURL(youtubeShort+" and more"))
	assert.True(t, IsSpotifyURL(spotifyURI))
	assert.False(t, IsSpotifyURL(spotifyTrack+";"+youtubeShort))

	// a pasted pair is not one URL
	req, err := New(model.SourceYouTube).Classify(youtubeShort+", "+spotifyTrack, ModeYouTube)
	assert.Error(t, err)
	assert.Empty(t, req.Target)
}

func TestClassifyAll_OnlyBlankLines(t *testing.T) {
	reqs, err := New(model.SourceYouTube).ClassifyAll("\n  \n\t\n", ModeYouTube)
	assert.NoError(t, err)
	assert.Empty(t, reqs)
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		input   string
		want    Mode
		wantErr bool
	}{
		{"", ModeAuto, false},
		{"auto", ModeAuto, false},
		{"Spotify URL/Search", ModeSpotify, false},
		{"youtube", ModeYouTube, false},
		{"SEARCH-YOUTUBE", ModeSearchYouTube, false},
		{"Search on Spotify", ModeSearchSpotify, false},
		{"tidal", ModeAuto, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseMode(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantErr, err != nil)
		})
	}

	for _, m := range Modes {
		text, err := m.MarshalText()
		require.NoError(t, err)
		var back Mode
		require.NoError(t, back.UnmarshalText(text))
		assert.Equal(t, m, back)
	}
}

func TestParseURL(t *testing.T) {
	tests := []struct {
		url    string
		source model.Source
		kind   URLKind
		id     string
	}{
		{spotifyTrack, model.SourceSpotify, KindTrack, "4uLU6hMCjMI75M1A2tKUQC"},
		{spotifyURI, model.SourceSpotify, KindAlbum, "1DFixLWuPkv3KT3TnV35m3"},
		{"https://open.spotify.com/playlist/37i9dQZF1DXcBWIGoYBM5M?si=x", model.SourceSpotify, KindPlaylist, "37i9dQZF1DXcBWIGoYBM5M"},
		{"https://open.spotify.com/intl-de/artist/0OdUWJ0sBjDrqHygGUXeCF", model.SourceSpotify, KindArtist, "0OdUWJ0sBjDrqHygGUXeCF"},
		{"https://open.spotify.com/episode/abc", model.SourceSpotify, KindUnknown, ""},
		{youtubeVideo, model.SourceYouTube, KindVideo, "dQw4w9WgXcQ"},
		{youtubeShort, model.SourceYouTube, KindVideo, "dQw4w9WgXcQ"},
		{"https://www.youtube.com/watch?v=abc123&list=PL999", model.SourceYouTube, KindVideo, "abc123"},
		{"https://www.youtube.com/shorts/short1", model.SourceYouTube, KindVideo, "short1"},
		{"https://www.youtube.com/playlist?list=PLx0sYbCqOb8TBPRdmBHs5Iftvv9TPboYG", model.SourceYouTube, KindPlaylist, "PLx0sYbCqOb8TBPRdmBHs5Iftvv9TPboYG"},
		{"https://www.youtube.com/@someone", model.SourceYouTube, KindChannel, "someone"},
		{"https://www.youtube.com/channel/UC123", model.SourceYouTube, KindChannel, "UC123"},
		{"https://www.youtube.com/feed/trending", model.SourceYouTube, KindUnknown, ""},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			info, ok := ParseURL(tt.url)
			require.True(t, ok)
			assert.Equal(t, tt.source, info.Source)
			assert.Equal(t, tt.kind, info.Kind)
			assert.Equal(t, tt.id, info.ID)
		})
	}

	_, ok := ParseURL(otherURL)
	assert.False(t, ok)
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Spotify Track", DisplayName(spotifyTrack))
	assert.Equal(t, "YouTube Video", DisplayName(youtubeVideo))
	assert.Equal(t, "YouTube Playlist", DisplayName("https://www.youtube.com/playlist?list=PL1"))
	assert.Equal(t, "Spotify Unknown", DisplayName("https://open.spotify.com/episode/abc"))
	assert.Equal(t, "short text", DisplayName("short text"))

	long := "a very long piece of search text that goes on for more than fifty characters"
	got := DisplayName(long)
	assert.Equal(t, long[:50]+"...", got)
}

func TestIsCollection(t *testing.T) {
	assert.True(t, IsCollection(spotifyURI))
	assert.True(t, IsCollection("https://www.youtube.com/playlist?list=PL1"))
	assert.False(t, IsCollection(spotifyTrack))
	assert.False(t, IsCollection("text"))
}

func TestSplitURLs(t *testing.T) {
	text := youtubeVideo + ", " + spotifyTrack + ";not-a-url " + youtubeVideo + "\nhttps://example.com/x\tftp://files.example.com/a"
	got := SplitURLs(text)
	assert.Equal(t, []string{youtubeVideo, spotifyTrack, "https://example.com/x"}, got)

	assert.Empty(t, SplitURLs("just words here"))
}
