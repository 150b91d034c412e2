package model

import (
	"time"

	"github.com/google/uuid"
)

// Source identifies which external collaborator handles a request.
type Source string

const (
	SourceSpotify Source = "spotify"
	SourceYouTube Source = "youtube"
)

// ParseSource accepts "spotify" or "youtube".
func ParseSource(s string) (Source, bool) {
	switch Source(s) {
	case SourceSpotify:
		return SourceSpotify, true
	case SourceYouTube:
		return SourceYouTube, true
	}
	return "", false
}

// Operation is what the tool is asked to do with the target.
type Operation string

const (
	OperationDownload Operation = "download"
	OperationSearch   Operation = "search"
)

// Item represents one download request and its progress.
//
// Items are owned by the download manager. Values handed out to callers
// are copies and may be kept freely.
type Item struct {
	ID        string    `json:"id"`
	Input     string    `json:"input"`
	Target    string    `json:"target"`
	Source    Source    `json:"source"`
	Operation Operation `json:"operation"`
	Quality   Quality   `json:"quality"`
	Format    Format    `json:"format"`
	OutputDir string    `json:"outputDir"`

	Status     Status `json:"status"`
	Percent    int    `json:"percent"`
	Rate       string `json:"rate,omitempty"`
	ETA        string `json:"eta,omitempty"`
	OutputPath string `json:"outputPath,omitempty"`
	Error      string `json:"error,omitempty"`

	// Filled from the finished file's tags when available
	Title  string `json:"title,omitempty"`
	Artist string `json:"artist,omitempty"`

	AddedAt    time.Time `json:"addedAt"`
	StartedAt  time.Time `json:"startedAt,omitzero"`
	FinishedAt time.Time `json:"finishedAt,omitzero"`
}

// NewItem creates a queued item with a fresh identifier.
func NewItem(input, target string, source Source, op Operation, quality Quality, format Format, outputDir string) Item {
	return Item{
		ID:        newID(),
		Input:     input,
		Target:    target,
		Source:    source,
		Operation: op,
		Quality:   quality,
		Format:    format,
		OutputDir: outputDir,
		Status:    StatusQueued,
		AddedAt:   time.Now(),
	}
}

// DisplayName returns the best human-readable label for the item.
func (i Item) DisplayName() string {
	switch {
	case i.Title != "" && i.Artist != "":
		return i.Artist + " - " + i.Title
	case i.Title != "":
		return i.Title
	default:
		return i.Input
	}
}

func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Stats aggregates item counts by status.
type Stats struct {
	Total     int `json:"total"`
	Queued    int `json:"queued"`
	Running   int `json:"running"`
	Completed int `json:"completed"`
	Failed    int `json:"failed"`
	Cancelled int `json:"cancelled"`
}

// Add counts one item with the given status.
func (s *Stats) Add(status Status) {
	s.Total++
	switch status {
	case StatusQueued:
		s.Queued++
	case StatusRunning:
		s.Running++
	case StatusCompleted:
		s.Completed++
	case StatusFailed:
		s.Failed++
	case StatusCancelled:
		s.Cancelled++
	}
}

// ComputeStats counts items by status.
func ComputeStats(items []Item) Stats {
	var s Stats
	for _, item := range items {
		s.Add(item.Status)
	}
	return s
}
