// file: websocket/test_helpers.go
package websocket

// InitTest drains the broadcast queue and forgets all connections.
func InitTest() {
	for len(broadcast) > 0 {
		<-broadcast
	}
	connectionsMu.Lock()
	connections = make(map[*Connection]bool)
	connectionsMu.Unlock()
}
