package main

import (
	"fmt"
	"io"

	"github.com/schollz/progressbar/v3"

	"github.com/royal-15/SpotiPlay-Desktop/internal/classify"
	"github.com/royal-15/SpotiPlay-Desktop/internal/model"
)

// progressView draws one progress bar per running item. It is the
// manager's presentation, so every call comes from one goroutine.
type progressView struct {
	out     io.Writer
	verbose bool
	bars    map[string]*progressbar.ProgressBar
}

func newProgressView(out io.Writer, verbose bool) *progressView {
	return &progressView{
		out:     out,
		verbose: verbose,
		bars:    make(map[string]*progressbar.ProgressBar),
	}
}

func (v *progressView) OnItemAdded(item model.Item) {
	if !v.verbose {
		return
	}
	suffix := ""
	if classify.IsCollection(item.Input) {
		suffix = " (whole collection)"
	}
	fmt.Fprintf(v.out, "   Queued %s%s\n", classify.DisplayName(item.Input), suffix)
}

func (v *progressView) OnItemUpdated(item model.Item) {
	name := classify.DisplayName(item.DisplayName())

	switch item.Status {
	case model.StatusRunning:
		v.bar(item.ID, name).Set(item.Percent)

	case model.StatusCompleted:
		if bar, ok := v.bars[item.ID]; ok {
			bar.Set(100)
			bar.Finish()
		}
		delete(v.bars, item.ID)
		if item.OutputPath != "" {
			fmt.Fprintf(v.out, "✅ %s -> %s\n", name, item.OutputPath)
		} else {
			fmt.Fprintf(v.out, "✅ %s\n", name)
		}

	case model.StatusFailed:
		v.drop(item.ID)
		fmt.Fprintf(v.out, "❌ %s: %s\n", name, item.Error)

	case model.StatusCancelled:
		v.drop(item.ID)
		fmt.Fprintf(v.out, "⚠️  %s cancelled\n", name)
	}
}

func (v *progressView) OnItemRemoved(string) {}

func (v *progressView) OnStatsChanged(stats model.Stats) {
	if v.verbose {
		fmt.Fprintf(v.out, "   %d running, %d queued, %d done\n",
			stats.Running, stats.Queued, stats.Completed+stats.Failed+stats.Cancelled)
	}
}

func (v *progressView) bar(id, name string) *progressbar.ProgressBar {
	if bar, ok := v.bars[id]; ok {
		return bar
	}
	bar := progressbar.NewOptions(100,
		progressbar.OptionSetWriter(v.out),
		progressbar.OptionSetDescription(name),
		progressbar.OptionSetWidth(30),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
	v.bars[id] = bar
	return bar
}

func (v *progressView) drop(id string) {
	if bar, ok := v.bars[id]; ok {
		bar.Exit()
		fmt.Fprintln(v.out)
	}
	delete(v.bars, id)
}
