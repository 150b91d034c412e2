package download

import (
	"github.com/royal-15/SpotiPlay-Desktop/internal/classify"
	"github.com/royal-15/SpotiPlay-Desktop/internal/config"
	"github.com/royal-15/SpotiPlay-Desktop/internal/model"
)

// Presentation renders manager state.
//
// All callbacks run on the manager's coordinating goroutine, in the order
// the changes happened. Implementations must return quickly and must not
// call back into the Manager synchronously; hand the work to another
// goroutine instead.
type Presentation interface {
	OnItemAdded(item model.Item)
	OnItemUpdated(item model.Item)
	OnItemRemoved(id string)
	OnStatsChanged(stats model.Stats)
}

// Actions is what a presentation may ask the manager to do.
type Actions interface {
	AddRequest(text string, mode classify.Mode) ([]model.Item, error)
	CancelAll()
	ClearCompleted() int
	UpdateConfig(settings *config.Settings) error
}

var _ Actions = (*Manager)(nil)

// NopPresentation discards every notification.
type NopPresentation struct{}

func (NopPresentation) OnItemAdded(model.Item) {}

func (NopPresentation) OnItemUpdated(model.Item) {}

func (NopPresentation) OnItemRemoved(string) {}

func (NopPresentation) OnStatsChanged(model.Stats) {}

// Presentations fans notifications out to several presentations in order.
type Presentations []Presentation

func (ps Presentations) OnItemAdded(item model.Item) {
	for _, p := range ps {
		p.OnItemAdded(item)
	}
}

func (ps Presentations) OnItemUpdated(item model.Item) {
	for _, p := range ps {
		p.OnItemUpdated(item)
	}
}

func (ps Presentations) OnItemRemoved(id string) {
	for _, p := range ps {
		p.OnItemRemoved(id)
	}
}

func (ps Presentations) OnStatsChanged(stats model.Stats) {
	for _, p := range ps {
		p.OnStatsChanged(stats)
	}
}
