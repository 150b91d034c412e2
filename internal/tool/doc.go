// Package tool runs the external command-line downloaders and turns their
// textual output into structured progress events.
//
// # Tools
//
// Kind is a closed set of supported tools:
//   - SpotDL: spotdl, used for Spotify URLs and Spotify searches
//   - YTDLP: yt-dlp, used for YouTube URLs and "ytsearch1:" queries
//
// Each kind knows its argument grammar:
//
//	job := tool.Job{
//	    Kind:      tool.SpotDL,
//	    Target:    "https://open.spotify.com/track/abc",
//	    Quality:   model.Quality320,
//	    Format:    model.FormatMP3,
//	    OutputDir: "/music",
//	    Options:   tool.DefaultOptions(),
//	}
//	name, args := job.Command()
//	// spotdl download https://open.spotify.com/track/abc --output /music --bitrate 320k
//
// # Worker
//
// Worker launches one process per job, merges stdout and stderr, and
// streams events on a channel that is closed after the terminal event:
//
//	w := tool.NewWorker()
//	for ev := range w.Start(ctx, job) {
//	    switch ev.Type {
//	    case tool.EventProgress:
//	        fmt.Printf("%d%% %s %s\n", ev.Percent, ev.Rate, ev.ETA)
//	    case tool.EventCompleted:
//	        fmt.Println("saved", ev.OutputPath)
//	    case tool.EventFailed:
//	        fmt.Println("failed:", ev.Message)
//	    case tool.EventCancelled:
//	        fmt.Println("cancelled")
//	    }
//	}
//
// Cancelling ctx interrupts the process and kills it after a grace period.
// The job then ends with EventCancelled whatever the exit status was.
//
// # Output Parsing
//
// All output patterns live in Parser. Lines that match nothing are
// ignored. Percentages never decrease and are capped at 100.
package tool
