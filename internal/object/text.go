package object

import (
	"fmt"
	"io"
	"unicode/utf8"
)

// Align positions text relative to its X coordinate.
type Align int

const (
	AlignLeft   Align = iota // X is the first column
	AlignCenter              // X is the middle column
	AlignRight               // X is the last column
)

// Text is a HUD label. Coordinates are 1-based terminal positions.
type Text struct {
	X       int
	Y       int
	Value   string
	Align   Align
	Bold    bool
	Reverse bool
}

// Column returns the first column the text occupies.
func (t Text) Column() int {
	n := utf8.RuneCountInString(t.Value)
	switch t.Align {
	case AlignCenter:
		return t.X - n/2
	case AlignRight:
		return t.X - n + 1
	default:
		return t.X
	}
}

// Draw writes the text at its position using ANSI cursor movement.
func (t Text) Draw(w io.Writer) error {
	if t.Value == "" {
		return nil
	}
	x := max(t.Column(), 1)
	y := max(t.Y, 1)

	style := ""
	if t.Bold {
		style += "\033[1m"
	}
	if t.Reverse {
		style += "\033[7m"
	}
	reset := ""
	if style != "" {
		reset = "\033[0m"
	}

	if _, err := fmt.Fprintf(w, "\033[%d;%dH%s%s%s", y, x, style, t.Value, reset); err != nil {
		return err
	}
	return nil
}
