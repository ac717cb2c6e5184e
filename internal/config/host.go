package config

import "time"

// Logical playfield - a fixed 9:16 portrait area in game units.
// Rendering scales it to whatever the terminal offers.
const (
	FieldWidth  = 450
	FieldHeight = 800
)

// Player sprite size in game units.
const (
	SpriteWidth  = 72
	SpriteHeight = 96
)

// Client rendering
const (
	ClientTargetFPS       = 60
	ClientTargetFrameTime = time.Second / ClientTargetFPS
)

// Inactivity
const (
	InactivityWarnUser       = 90  // Seconds
	InactivityDisconnectUser = 120 // Seconds
)

// Shutdown
const (
	ShutdownDisplaySeconds = 5.0 // Seconds to show shutdown message before auto-disconnect
)

// Persistence
const (
	DefaultBestSlot   = "best_score" // Slot used by the local game
	MaxUsernameLength = 16           // Longest username kept in per-user slots
)
