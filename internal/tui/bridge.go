package tui

import (
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/royal-15/SpotiPlay-Desktop/internal/model"
)

// Messages delivered from the download manager.
type (
	// ItemAddedMsg is sent when an item joins the queue.
	ItemAddedMsg struct{ Item model.Item }

	// ItemUpdatedMsg is sent on progress and status changes.
	ItemUpdatedMsg struct{ Item model.Item }

	// ItemRemovedMsg is sent when an item is cleared.
	ItemRemovedMsg struct{ ID string }

	// StatsMsg carries new queue counts.
	StatsMsg struct{ Stats model.Stats }
)

// Bridge is a download.Presentation that forwards notifications into a
// running Bubble Tea program. Notifications before Attach are dropped.
type Bridge struct {
	program atomic.Pointer[tea.Program]
}

// NewBridge creates a Bridge with no program attached.
func NewBridge() *Bridge {
	return &Bridge{}
}

// Attach sets the program that receives notifications.
func (b *Bridge) Attach(p *tea.Program) {
	b.program.Store(p)
}

func (b *Bridge) send(msg tea.Msg) {
	if p := b.program.Load(); p != nil {
		p.Send(msg)
	}
}

func (b *Bridge) OnItemAdded(item model.Item) {
	b.send(ItemAddedMsg{Item: item})
}

func (b *Bridge) OnItemUpdated(item model.Item) {
	b.send(ItemUpdatedMsg{Item: item})
}

func (b *Bridge) OnItemRemoved(id string) {
	b.send(ItemRemovedMsg{ID: id})
}

func (b *Bridge) OnStatsChanged(stats model.Stats) {
	b.send(StatsMsg{Stats: stats})
}
