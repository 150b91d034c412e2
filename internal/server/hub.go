package server

import (
	"context"
	"encoding/json"

	"github.com/sirupsen/logrus"

	"github.com/royal-15/SpotiPlay-Desktop/internal/download"
	"github.com/royal-15/SpotiPlay-Desktop/internal/logutils"
	"github.com/royal-15/SpotiPlay-Desktop/internal/model"
)

// Event types sent over the WebSocket.
const (
	EventSnapshot    = "snapshot"
	EventItemAdded   = "item_added"
	EventItemUpdated = "item_updated"
	EventItemRemoved = "item_removed"
	EventStats       = "stats"
)

// Event is one WebSocket message.
type Event struct {
	Type  string       `json:"type"`
	Item  *model.Item  `json:"item,omitempty"`
	Items []model.Item `json:"items,omitempty"`
	ID    string       `json:"id,omitempty"`
	Stats *model.Stats `json:"stats,omitempty"`
}

// Hub maintains the set of connected clients and broadcasts manager
// notifications to all of them. It implements download.Presentation.
type Hub struct {
	clients map[*Client]bool

	// Broadcast channel for encoded events and joining clients, in
	// publication order
	broadcast chan message

	unregister chan *Client
	done       chan struct{}

	log *logrus.Entry
}

var _ download.Presentation = (*Hub)(nil)

// message is either an event for every client or, when join is set, the
// snapshot that admits join.
type message struct {
	data []byte
	join *Client
}

// NewHub creates a new WebSocket hub. Call Run to start it.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan message, 256),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		log:        logutils.Component("hub"),
	}
}

// Run starts the hub's main event loop and returns when ctx is done.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.log.WithField("clients", len(h.clients)).Debug("WebSocket client disconnected")

		case msg := <-h.broadcast:
			if msg.join != nil {
				// the send buffer of a new client is empty
				msg.join.send <- msg.data
				h.clients[msg.join] = true
				h.log.WithField("clients", len(h.clients)).Debug("WebSocket client connected")
				continue
			}
			for client := range h.clients {
				select {
				case client.send <- msg.data:
				default:
					// slow client
					close(client.send)
					delete(h.clients, client)
				}
			}

		case <-ctx.Done():
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			return
		}
	}
}

// Join queues a snapshot for client and registers it in the same step, so
// the client sees exactly the events published after the snapshot. Call it
// from the publisher's goroutine (see download.Manager.Sync). It reports
// false once the hub stopped.
func (h *Hub) Join(client *Client, items []model.Item, stats model.Stats) bool {
	data, err := json.Marshal(Event{Type: EventSnapshot, Items: items, Stats: &stats})
	if err != nil {
		h.log.WithError(err).Error("Failed to encode snapshot")
		return false
	}

	select {
	case h.broadcast <- message{data: data, join: client}:
		return true
	case <-h.done:
		return false
	}
}

// UnregisterClient removes a client.
func (h *Hub) UnregisterClient(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) OnItemAdded(item model.Item) {
	h.publish(Event{Type: EventItemAdded, Item: &item})
}

func (h *Hub) OnItemUpdated(item model.Item) {
	h.publish(Event{Type: EventItemUpdated, Item: &item})
}

func (h *Hub) OnItemRemoved(id string) {
	h.publish(Event{Type: EventItemRemoved, ID: id})
}

func (h *Hub) OnStatsChanged(stats model.Stats) {
	h.publish(Event{Type: EventStats, Stats: &stats})
}

// publish never blocks the caller: the manager's coordinator runs it.
func (h *Hub) publish(ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		h.log.WithError(err).Error("Failed to encode event")
		return
	}

	select {
	case h.broadcast <- message{data: data}:
	default:
		h.log.WithField("type", ev.Type).Warn("WebSocket broadcast channel full, dropping event")
	}
}
