// Package model defines the core data structures shared by the
// classifier, the process workers and the download manager.
//
// # Item
//
// Item is one user-requested unit of work tracked by the queue:
//
//	item := model.NewItem("never gonna give you up", "ytsearch1:never gonna give you up",
//	    model.SourceYouTube, model.OperationSearch, model.Quality320, model.FormatMP3, "/music")
//	fmt.Println(item.ID)     // UUID v7
//	fmt.Println(item.Status) // queued
//
// # Status
//
// Status moves along queued -> running -> {completed, failed, cancelled}.
// CanTransitionTo reports whether a move is allowed; terminal states never
// revert:
//
//	model.StatusQueued.CanTransitionTo(model.StatusRunning)    // true
//	model.StatusCompleted.CanTransitionTo(model.StatusRunning) // false
//
// # Quality and Format
//
// Quality presets serialize to the strings shown to users ("Best",
// "320kbps", ...). Bitrate returns the value the external tools expect:
//
//	model.Quality320.Bitrate() // "320k"
//	model.QualityBest.Bitrate() // ""
package model
