package object

// Key identifies one of the four directional bindings.
type Key int

const (
	KeyLeft  Key = iota // Left arrow
	KeyRight            // Right arrow
	KeyA                // Alternate left
	KeyD                // Alternate right
)

// Intent aggregates held keys and the optional pointer target into the
// directional signal the player follows.
type Intent struct {
	keys     [4]bool
	pointerX float64
	pointing bool
}

// Press marks a binding as held.
func (in *Intent) Press(k Key) {
	if k >= 0 && int(k) < len(in.keys) {
		in.keys[k] = true
	}
}

// Release marks a binding as released.
func (in *Intent) Release(k Key) {
	if k >= 0 && int(k) < len(in.keys) {
		in.keys[k] = false
	}
}

// Held reports whether a binding is held.
func (in Intent) Held(k Key) bool {
	return k >= 0 && int(k) < len(in.keys) && in.keys[k]
}

// Left reports leftward key intent from either binding.
func (in Intent) Left() bool {
	return in.keys[KeyLeft] || in.keys[KeyA]
}

// Right reports rightward key intent from either binding.
func (in Intent) Right() bool {
	return in.keys[KeyRight] || in.keys[KeyD]
}

// SetPointer sets the pointer target in playfield x units.
func (in *Intent) SetPointer(x float64) {
	in.pointerX = x
	in.pointing = true
}

// ClearPointer drops the pointer target.
func (in *Intent) ClearPointer() {
	in.pointerX = 0
	in.pointing = false
}

// Pointer returns the pointer target and whether one is active.
func (in Intent) Pointer() (float64, bool) {
	return in.pointerX, in.pointing
}
