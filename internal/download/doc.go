// Package download provides the queue that runs spotdl and yt-dlp jobs.
//
// # Manager
//
// The Manager accepts requests, keeps them in insertion order and starts
// them while fewer than MaxParallelDownloads are running:
//
//  1. Classify input lines (see package classify)
//  2. Queue one item per accepted line
//  3. Start a tool process per item when a slot is free
//  4. Fold progress events into the item
//  5. Tag the finished MP3 and read back its title and artist
//  6. Start the next queued item
//
// # Basic Usage
//
//	manager := download.NewManager(settings, presentation)
//	defer manager.Close()
//
//	items, err := manager.AddRequest("https://youtu.be/abc\nsome song", classify.ModeAuto)
//	var verr *classify.ValidationError
//	if errors.As(err, &verr) {
//	    for _, r := range verr.Rejected {
//	        fmt.Println("rejected:", r.Line, r.Reason)
//	    }
//	}
//
//	if err := manager.Wait(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// # Concurrency
//
// One coordinating goroutine owns the queue. Every public method is a
// message to it, and every running process has a goroutine that only reads
// the process output and forwards events. Presentation callbacks run on
// the coordinator and must not call the Manager synchronously.
//
// # Progress Tracking
//
// Status changes are always published. Progress-only updates are limited
// per item with a token bucket (DefaultProgressRate); the latest state is
// published once the bucket refills.
//
// # Cancellation
//
// Cancelling a queued item never starts its process. Cancelling a running
// item interrupts the process, kills it after tool.DefaultGracePeriod, and
// the item ends cancelled whatever the exit status was. There are no
// automatic retries.
package download
