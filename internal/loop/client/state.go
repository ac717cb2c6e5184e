package client

import (
	"time"

	"github.com/tomz197/meteors/internal/input"
	"github.com/tomz197/meteors/internal/object"
)

// ClientState holds the per-connection host state around a game: the
// last frame's input, which keys the game currently sees as held and the
// inactivity and shutdown timers.
type ClientState struct {
	Input         input.Input
	Running       bool          // Client loop running
	held          [4]bool       // Keys reported to the game as held, by object.Key
	delta         time.Duration // Host frame delta
	shuttingDown  bool          // Server is stopping; counting down
	shutdownTimer float64       // Seconds left before auto-disconnect on shutdown
	isInactive    bool          // Whether the client is in inactive warning state
}

// NewClientState creates a new initialized client state.
func NewClientState() *ClientState {
	return &ClientState{
		Running: true,
	}
}

// heldKeys maps the frame input onto the game's key bindings.
func heldKeys(in input.Input) [4]bool {
	var keys [4]bool
	keys[object.KeyLeft] = in.Left
	keys[object.KeyRight] = in.Right
	keys[object.KeyA] = in.A
	keys[object.KeyD] = in.D
	return keys
}
