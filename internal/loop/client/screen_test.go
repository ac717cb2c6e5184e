package client

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/meteors/internal/loop"
	"github.com/tomz197/meteors/internal/object"
)

func newTestScreen(t *testing.T) (*Screen, *bytes.Buffer, time.Time) {
	t.Helper()
	var out bytes.Buffer
	now := time.Unix(500, 0)
	s := NewScreen(&out)
	s.now = func() time.Time { return now }
	require.True(t, s.Resize(80, 24))
	s.DrawPlayer(&object.Player{X: 189, Y: 672, W: 72, H: 96})
	return s, &out, now
}

func TestScreenResize(t *testing.T) {
	s, _, _ := newTestScreen(t)

	assert.False(t, s.Resize(80, 24), "same size")
	assert.Equal(t, 25, s.canvas.TerminalWidth())
	assert.Equal(t, 22, s.canvas.TerminalHeight())
	assert.True(t, s.Resize(120, 40))

	g := s.Geometry()
	assert.Equal(t, 450.0, g.Width)
	assert.Equal(t, 800.0, g.Height)
	assert.Equal(t, 72.0, g.SpriteWidth)
}

func TestScreenPointerX(t *testing.T) {
	s, _, _ := newTestScreen(t)

	// First playfield column of an 80x24 terminal is 28.
	assert.InDelta(t, 9.0, s.PointerX(28), 1e-9)
	assert.InDelta(t, 450-9.0, s.PointerX(52), 1e-9)
}

func TestScreenDrawsHUD(t *testing.T) {
	s, out, now := newTestScreen(t)
	s.SetScore(3)
	s.SetBest(7)

	require.NoError(t, s.Draw(now))

	frame := out.String()
	assert.True(t, strings.HasPrefix(frame, "\033[H\033[2J"), "first frame clears")
	assert.Contains(t, frame, " 3 ")
	assert.Contains(t, frame, " BEST 7 ")
	assert.NotContains(t, frame, "GAME OVER")
}

func TestScreenOverlayTogglesWithClear(t *testing.T) {
	s, out, now := newTestScreen(t)
	require.NoError(t, s.Draw(now))
	out.Reset()

	s.ShowOverlay(true)
	require.NoError(t, s.Draw(now))
	assert.Contains(t, out.String(), "\033[H\033[2J")
	assert.Contains(t, out.String(), "GAME OVER")

	out.Reset()
	require.NoError(t, s.Draw(now))
	assert.NotContains(t, out.String(), "\033[H\033[2J", "no clear without a change")

	out.Reset()
	s.ShowOverlay(false)
	require.NoError(t, s.Draw(now))
	assert.Contains(t, out.String(), "\033[H\033[2J")
	assert.NotContains(t, out.String(), "GAME OVER")
}

func TestScreenBannerReplacesOverlay(t *testing.T) {
	s, out, now := newTestScreen(t)
	s.ShowOverlay(true)
	s.SetBanner([]string{"STILL THERE?"})

	require.NoError(t, s.Draw(now))
	assert.Contains(t, out.String(), "STILL THERE?")
	assert.NotContains(t, out.String(), "GAME OVER")
}

func TestScreenEffectsExpire(t *testing.T) {
	s, _, now := newTestScreen(t)
	s.Trigger(loop.EffectFlash)
	s.Trigger(loop.EffectScorePop)

	assert.True(t, s.active(loop.EffectFlash, now.Add(300*time.Millisecond)))
	assert.False(t, s.active(loop.EffectFlash, now.Add(320*time.Millisecond)))
	assert.True(t, s.active(loop.EffectScorePop, now.Add(100*time.Millisecond)))
	assert.False(t, s.active(loop.EffectScorePop, now.Add(200*time.Millisecond)))
	assert.False(t, s.active(loop.EffectShake, now))
}

func TestScreenFlashInvertsPlayfield(t *testing.T) {
	s, out, now := newTestScreen(t)
	require.NoError(t, s.Draw(now))
	out.Reset()

	s.Trigger(loop.EffectFlash)
	require.NoError(t, s.Draw(now))

	// Most of the empty playfield turns solid.
	assert.Greater(t, strings.Count(out.String(), string('█')), 25*22/2)
}

func TestScreenScorePopIsReversed(t *testing.T) {
	s, out, now := newTestScreen(t)
	s.SetScore(4)
	s.Trigger(loop.EffectScorePop)

	require.NoError(t, s.Draw(now))
	assert.Contains(t, out.String(), "\033[1m\033[7m 4 \033[0m")

	out.Reset()
	require.NoError(t, s.Draw(now.Add(time.Second)))
	assert.Contains(t, out.String(), "\033[1m 4 \033[0m")
}

func TestScreenShakeMovesPlayfield(t *testing.T) {
	s, _, now := newTestScreen(t)
	base := s.canvas.OffsetCol()
	s.Trigger(loop.EffectShake)

	require.NoError(t, s.Draw(now))
	assert.Equal(t, base+1, s.canvas.OffsetCol())

	require.NoError(t, s.Draw(now.Add(time.Second)))
	assert.Equal(t, base, s.canvas.OffsetCol())
}

func TestScreenDrawsMeteors(t *testing.T) {
	s, out, now := newTestScreen(t)
	require.NoError(t, s.Draw(now))
	out.Reset()

	s.DrawMeteors([]*object.Meteor{{X: 100, Y: 100, Size: 80}})
	require.NoError(t, s.Draw(now))
	assert.NotEmpty(t, out.String())
}
