// Package classify turns user input into download requests.
//
// Each non-empty line of input is one request. The Mode decides how a line
// is interpreted:
//
//	c := classify.New(model.SourceYouTube)
//	reqs, err := c.ClassifyAll("https://open.spotify.com/track/abc\nsome song", classify.ModeAuto)
//	// reqs[0]: spotify download of the URL
//	// reqs[1]: youtube search "ytsearch1:some song"
//
// Restricted modes reject lines that do not fit them instead of
// reinterpreting them. ClassifyAll still returns the lines that did fit,
// along with a *ValidationError naming the rejected ones.
//
// # URL Details
//
// ParseURL and DisplayName give finer detail about a URL (track, album,
// playlist, video, channel) for display purposes:
//
//	classify.DisplayName("https://www.youtube.com/playlist?list=PL123") // "YouTube Playlist"
package classify
