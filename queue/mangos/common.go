// Package mangos implements the queue interfaces over mangos PUB/SUB
// sockets, the transport relayed leads cross machine boundaries on.
package mangos

import "time"

const (
	// How big to make the queue buffers.
	channelSize = 64

	// Timeout is how long to wait to clean up PubSockets and SubSockets.
	Timeout = 1 * time.Second
)

// signal is a control signal for a close channel.
type signal struct{}
