// Package server exposes the download queue over HTTP.
//
// # Routes
//
//	GET    /api/health              liveness
//	GET    /api/downloads           items and stats
//	POST   /api/downloads           {"text": "...", "mode": "auto"}
//	GET    /api/downloads/:id       one item
//	DELETE /api/downloads/:id       cancel one item
//	POST   /api/downloads/cancel    cancel everything
//	POST   /api/downloads/clear     remove finished items (?only=failed)
//	GET    /api/config              active settings
//	PUT    /api/config              update and save settings
//	GET    /api/ws                  event stream
//
// # Events
//
// The Hub is the manager's Presentation. Every notification becomes a JSON
// message broadcast to all WebSocket clients:
//
//	{"type": "item_updated", "item": {...}}
//	{"type": "item_removed", "id": "..."}
//	{"type": "stats", "stats": {...}}
//
// A client first receives a "snapshot" message with every item, taken on
// the manager's coordinator and queued in line with the notifications, so
// the events that follow it are exactly the later changes. Clients that
// fall behind are disconnected.
package server
