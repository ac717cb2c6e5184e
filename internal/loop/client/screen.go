package client

import (
	"fmt"
	"io"
	"slices"
	"time"
	"unicode/utf8"

	"github.com/tomz197/meteors/internal/config"
	"github.com/tomz197/meteors/internal/draw"
	"github.com/tomz197/meteors/internal/loop"
	"github.com/tomz197/meteors/internal/object"
)

// Horizontal jitter applied to the playfield while a shake is active,
// one step per shakeStep.
var shakePattern = [...]int{-1, 1, -1, 1, -1, 0, 1, 0}

const shakeStep = 40 * time.Millisecond

// Screen is the terminal render sink for one game. It keeps the last
// state the game published and draws it on every host tick, so effects
// and overlays keep animating after the game has stopped stepping.
type Screen struct {
	canvas   *draw.Canvas
	cw       *draw.ChunkWriter
	geometry object.Geometry

	player  object.Player
	meteors []*object.Meteor // Game-owned; only read during Draw
	score   int
	best    int
	overlay bool
	effects [3]time.Time // Expiry by loop.Effect

	baseCol, baseRow int      // Offset chosen by Fit
	banner           []string // Host message drawn over everything
	dirty            bool     // Terminal must be cleared before the next Draw
	now              func() time.Time
}

// NewScreen creates a screen writing to w. Call Resize before the first Draw.
func NewScreen(w io.Writer) *Screen {
	return &Screen{
		canvas: draw.NewScaledCanvas(1, 1, config.FieldWidth, config.FieldHeight),
		cw:     draw.NewChunkWriter(w),
		geometry: object.Geometry{
			Width:        config.FieldWidth,
			Height:       config.FieldHeight,
			SpriteWidth:  config.SpriteWidth,
			SpriteHeight: config.SpriteHeight,
		},
		dirty: true,
		now:   time.Now,
	}
}

// Resize fits the playfield into a termWidth x termHeight terminal, keeping
// one cell around it for the border and HUD. Reports whether the layout changed.
func (s *Screen) Resize(termWidth, termHeight int) bool {
	cols, rows, offCol, offRow := draw.Fit(termWidth, termHeight, 1, config.FieldWidth, config.FieldHeight)
	if cols == s.canvas.TerminalWidth() && rows == s.canvas.TerminalHeight() &&
		offCol == s.baseCol && offRow == s.baseRow {
		return false
	}
	s.canvas.Resize(cols, rows)
	s.baseCol, s.baseRow = offCol, offRow
	s.canvas.SetOffset(offCol, offRow)
	s.dirty = true
	return true
}

// Geometry implements loop.Sink. The playfield is a fixed logical area;
// only its scale on the terminal changes.
func (s *Screen) Geometry() object.Geometry {
	return s.geometry
}

func (s *Screen) DrawPlayer(p *object.Player) {
	s.player = *p
}

func (s *Screen) DrawMeteors(meteors []*object.Meteor) {
	s.meteors = meteors
}

func (s *Screen) SetScore(score int) {
	if score < s.score {
		// Shorter text would leave digits behind.
		s.dirty = true
	}
	s.score = score
}

func (s *Screen) SetBest(best int) {
	s.best = best
}

func (s *Screen) ShowOverlay(visible bool) {
	if visible != s.overlay {
		s.dirty = true
	}
	s.overlay = visible
}

// Trigger starts an effect; re-triggering extends it.
func (s *Screen) Trigger(e loop.Effect) {
	if int(e) < 0 || int(e) >= len(s.effects) {
		return
	}
	s.effects[e] = s.now().Add(e.Duration())
}

// active reports whether the effect is still running at now.
func (s *Screen) active(e loop.Effect, now time.Time) bool {
	return now.Before(s.effects[e])
}

// SetBanner replaces the host message. Nil removes it.
func (s *Screen) SetBanner(lines []string) {
	if !slices.Equal(lines, s.banner) {
		s.dirty = true
	}
	s.banner = lines
}

// PointerX converts a 1-based terminal column to a playfield x coordinate.
func (s *Screen) PointerX(col int) float64 {
	return s.canvas.TerminalToLogical(col)
}

// Draw writes one frame to the terminal.
func (s *Screen) Draw(now time.Time) error {
	col := s.baseCol
	if s.active(loop.EffectShake, now) {
		left := s.effects[loop.EffectShake].Sub(now)
		col += shakePattern[int(left/shakeStep)%len(shakePattern)]
	}
	if col != s.canvas.OffsetCol() {
		s.canvas.SetOffset(col, s.baseRow)
		s.dirty = true
	}

	if s.dirty {
		s.cw.ClearScreen()
		s.canvas.ForceRedraw()
		s.dirty = false
	}

	s.canvas.Clear()
	ctx := object.DrawContext{Canvas: s.canvas}
	for _, m := range s.meteors {
		m.Draw(ctx)
	}
	s.player.Draw(ctx)

	s.canvas.SetInverted(s.active(loop.EffectFlash, now))
	if err := s.canvas.Render(s.cw); err != nil {
		return err
	}
	s.canvas.RenderBorder(s.cw)

	if err := s.drawHUD(now); err != nil {
		return err
	}
	// The host banner replaces the overlay while it is up.
	lines := s.banner
	if len(lines) == 0 && s.overlay {
		lines = s.overlayLines()
	}
	if err := s.drawLines(lines, s.centerCol(), s.centerRow()); err != nil {
		return err
	}

	return s.cw.Flush()
}

// drawHUD puts the score and best on the border row above the playfield.
func (s *Screen) drawHUD(now time.Time) error {
	row := max(s.baseRow, 1)
	left := s.baseCol + 2
	right := s.baseCol + s.canvas.TerminalWidth() - 1

	score := object.Text{
		X:       left,
		Y:       row,
		Value:   fmt.Sprintf(" %d ", s.score),
		Bold:    true,
		Reverse: s.active(loop.EffectScorePop, now),
	}
	if err := score.Draw(s.cw); err != nil {
		return err
	}

	best := object.Text{
		X:     right,
		Y:     row,
		Value: fmt.Sprintf(" BEST %d ", s.best),
		Align: object.AlignRight,
	}
	// Narrow terminals: keep the score, drop the best.
	if best.Column() <= left+utf8.RuneCountInString(score.Value) {
		return nil
	}
	return best.Draw(s.cw)
}

func (s *Screen) overlayLines() []string {
	return []string{
		"GAME OVER",
		"",
		fmt.Sprintf("SCORE %d", s.score),
		fmt.Sprintf("BEST %d", s.best),
		"",
		"SPACE / click",
		"to play again",
	}
}

// drawLines writes a block of centered lines around (col, row).
func (s *Screen) drawLines(lines []string, col, row int) error {
	top := row - len(lines)/2
	for i, line := range lines {
		t := object.Text{
			X:     col,
			Y:     top + i,
			Value: line,
			Align: object.AlignCenter,
			Bold:  i == 0,
		}
		if err := t.Draw(s.cw); err != nil {
			return err
		}
	}
	return nil
}

func (s *Screen) centerCol() int {
	return s.baseCol + 1 + s.canvas.TerminalWidth()/2
}

func (s *Screen) centerRow() int {
	return s.baseRow + 1 + s.canvas.TerminalHeight()/2
}
