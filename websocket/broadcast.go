// file: websocket/broadcast.go
package websocket

import (
	"encoding/json"

	"go-gym-classes/logger"
)

// broadcast carries messages for every connected widget
var broadcast = make(chan []byte, 32)

// HandleMessages distributes broadcast messages to all connections.
// A "refresh" action makes each connection refetch its own listing, since
// colouring and weekly counts differ per viewer; anything else is forwarded as is.
func HandleMessages() {
	for msg := range broadcast {
		var in InboundMessage
		if err := json.Unmarshal(msg, &in); err != nil {
			logger.Warn.Printf("[HandleMessages] Dropping malformed broadcast: %v", err)
			continue
		}

		conns := activeConnections()
		logger.Debug.Printf("[HandleMessages] action=%s to %d connections", in.Action, len(conns))
		for _, c := range conns {
			if in.Action == "refresh" {
				go c.reload()
				continue
			}
			select {
			case c.send <- msg:
			default:
				logger.Warn.Printf("Dropping broadcast message for connection %v", c.conn.RemoteAddr())
			}
		}
	}
}

// BroadcastMessage marshals message and queues it for every connection.
func BroadcastMessage(message interface{}) {
	msg, err := json.Marshal(message)
	if err != nil {
		logger.Error.Printf("Error marshalling message: %v", err)
		return
	}
	select {
	case broadcast <- msg:
	default:
		logger.Warn.Println("[BroadcastMessage] Broadcast queue full, dropping message")
	}
}
