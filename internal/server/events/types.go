// Package events fans dataset change notifications out to the dashboard
// transports.
//
// Handlers publish to a Broker after a reload or a merge; every registered
// Subscriber (the websocket hub in production, recorders in tests) receives
// each event once.
package events

import "time"

// EventType names a dataset event.
type EventType string

// Event types.
const (
	// DatasetReloaded follows an explicit reload of the master dataset.
	DatasetReloaded EventType = "dataset.reloaded"
	// DatasetMerged follows a merge that was persisted to the master.
	DatasetMerged EventType = "dataset.merged"
	// ClientConnected is sent when a websocket client joins.
	ClientConnected EventType = "client.connected"
)

// Event is one notification with its publish time.
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

// Subscriber consumes events. Send must not block for long; the broker
// calls it from its own goroutine.
type Subscriber interface {
	Send(Event) error
	Close() error
}
