// Package input turns raw terminal bytes into per-frame key and mouse state.
package input

import (
	"bufio"
	"strconv"
	"time"
)

// keyHoldDuration is how long a key is considered "held" after its last press.
// Terminals send no key-up events, only autorepeat, so holds are inferred.
const keyHoldDuration = 60 * time.Millisecond

// MouseAction is the kind of mouse report.
type MouseAction int

const (
	MousePress   MouseAction = iota // Primary button went down
	MouseDrag                       // Moved with the primary button held
	MouseRelease                    // Primary button went up
)

// MouseEvent is a single mouse report in 1-based terminal coordinates.
type MouseEvent struct {
	Action MouseAction
	Col    int
	Row    int
}

// Input represents the current frame's input state.
// Direction keys are held states; the rest fire once per press.
type Input struct {
	Left  bool // Left arrow
	Right bool // Right arrow
	A     bool
	D     bool

	Quit     bool
	Restart  bool
	Activate bool

	Mouse   []MouseEvent
	Pressed []byte
}

// keyState tracks the last time each held key was pressed.
type keyState struct {
	left  time.Time
	right time.Time
	a     time.Time
	d     time.Time
}

// Stream delivers input bytes via a channel and tracks key state for combinations.
type Stream struct {
	ch      chan byte
	state   keyState
	pending []byte // Incomplete escape sequence carried to the next read
	now     func() time.Time
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
func StartStream(r *bufio.Reader) *Stream {
	s := newStream()
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

func newStream() *Stream {
	return &Stream{
		ch:  make(chan byte, 256),
		now: time.Now,
	}
}

// ReadInput drains all available bytes from the stream (non-blocking).
// A closed stream reports Quit.
func ReadInput(s *Stream) Input {
	buf := s.pending
	carried := len(buf)
	s.pending = nil
	closed := false

drain:
	for {
		select {
		case b, ok := <-s.ch:
			if !ok {
				closed = true
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}

	in := s.parse(buf, s.now())
	// Bytes carried from the last read were already reported.
	in.Pressed = buf[carried:]
	if closed {
		in.Quit = true
	}
	return in
}

// parse updates key state from buf and builds the frame input.
func (s *Stream) parse(buf []byte, now time.Time) Input {
	var in Input

	for i := 0; i < len(buf); i++ {
		b := buf[i]
		if b != '\x1b' {
			applyByte(&s.state, &in, b, now)
			continue
		}

		n, complete := s.parseEscape(buf[i:], &in, now)
		if !complete {
			s.pending = append(s.pending[:0], buf[i:]...)
			break
		}
		i += n - 1
	}

	in.Left = now.Sub(s.state.left) < keyHoldDuration
	in.Right = now.Sub(s.state.right) < keyHoldDuration
	in.A = now.Sub(s.state.a) < keyHoldDuration
	in.D = now.Sub(s.state.d) < keyHoldDuration
	return in
}

// parseEscape handles a sequence starting with ESC. Returns the bytes consumed
// and false if the sequence is cut off at the end of seq.
func (s *Stream) parseEscape(seq []byte, in *Input, now time.Time) (int, bool) {
	if len(seq) == 1 {
		// Arrow keys arrive as ESC [ X and the read may end right after the
		// ESC. Nothing is bound to a bare ESC, so wait for the next byte.
		return 0, false
	}
	if seq[1] != '[' {
		return 1, true
	}
	if len(seq) < 3 {
		return 0, false
	}

	switch seq[2] {
	case 'C':
		s.state.right = now
		return 3, true
	case 'D':
		s.state.left = now
		return 3, true
	case 'A', 'B':
		return 3, true
	case '<':
		return parseSGRMouse(seq, in)
	}
	return 3, true
}

// parseSGRMouse decodes ESC [ < b ; col ; row (M|m).
func parseSGRMouse(seq []byte, in *Input) (int, bool) {
	end := -1
	for i := 3; i < len(seq); i++ {
		if seq[i] == 'M' || seq[i] == 'm' {
			end = i
			break
		}
		if (seq[i] < '0' || seq[i] > '9') && seq[i] != ';' {
			// Not a mouse report; skip the introducer.
			return 3, true
		}
	}
	if end < 0 {
		return 0, false
	}

	fields := splitFields(seq[3:end])
	if len(fields) != 3 {
		return end + 1, true
	}
	button, col, row := fields[0], fields[1], fields[2]

	// Only the primary button drives the pointer; wheel and other buttons are ignored.
	if button&0b11 != 0 || button&64 != 0 {
		return end + 1, true
	}

	ev := MouseEvent{Col: col, Row: row}
	switch {
	case seq[end] == 'm':
		ev.Action = MouseRelease
		in.Activate = true
	case button&32 != 0:
		ev.Action = MouseDrag
	default:
		ev.Action = MousePress
	}
	in.Mouse = append(in.Mouse, ev)
	return end + 1, true
}

func splitFields(b []byte) []int {
	var fields []int
	start := 0
	for i := 0; i <= len(b); i++ {
		if i == len(b) || b[i] == ';' {
			n, err := strconv.Atoi(string(b[start:i]))
			if err != nil {
				return nil
			}
			fields = append(fields, n)
			start = i + 1
		}
	}
	return fields
}

// applyByte updates held keys and one-shot actions for a plain byte.
func applyByte(state *keyState, in *Input, b byte, now time.Time) {
	switch b {
	case 'q', 'Q', '\x03':
		in.Quit = true
	case 'a', 'A':
		state.a = now
	case 'd', 'D':
		state.d = now
	case 'r', 'R':
		in.Restart = true
	case ' ', '\n', '\r':
		in.Activate = true
	}
}
