// file: websocket/messenger.go
package websocket

import "go-gym-classes/logger"

// DefaultMessenger broadcasts through the package hub.
var DefaultMessenger Messenger = &realMessenger{}

// Messenger notifies connected widgets that the class listing changed.
type Messenger interface {
	BroadcastRefresh()
}

type realMessenger struct{}

// BroadcastRefresh asks every widget to refetch its listing.
func (r *realMessenger) BroadcastRefresh() {
	BroadcastMessage(InboundMessage{Action: "refresh"})
	logger.Info.Println("realMessenger: BroadcastRefresh queued")
}

// NoopMessenger drops every notification.
type NoopMessenger struct{}

// BroadcastRefresh does nothing.
func (NoopMessenger) BroadcastRefresh() {}
