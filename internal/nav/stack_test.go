package nav

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemStack_PushTruncatesForward(t *testing.T) {
	s := NewMemStack("/")
	s.Push("/a", nil)
	s.Push("/b", nil)
	s.Go(-2)
	require.Equal(t, "/", s.Href())

	s.Push("/c", nil)

	assert.Equal(t, 2, s.Len(), "forward entries should be discarded")
	assert.Equal(t, "/c", s.Href())
	assert.False(t, s.CanGoForward())
}

func TestMemStack_ReplaceKeepsLengthAndPosition(t *testing.T) {
	s := NewMemStack("/")
	s.Push("/a", "one")

	s.Replace("/b", "two")

	assert.Equal(t, 2, s.Len())
	assert.Equal(t, "/b", s.Href())
	assert.Equal(t, "two", s.State())

	s.Go(-1)
	assert.Equal(t, "/", s.Href(), "the earlier entry should be untouched")
}

func TestMemStack_GoOutOfRangeIsNoOp(t *testing.T) {
	s := NewMemStack("/")
	s.Push("/a", nil)

	pops := 0
	s.OnPop(func() { pops++ })

	s.Go(-5)
	s.Go(1)

	assert.Equal(t, "/a", s.Href(), "out-of-range traversal should not move")
	assert.Zero(t, pops, "out-of-range traversal should not fire the pop callback")
}

func TestMemStack_GoFiresPopSynchronously(t *testing.T) {
	s := NewMemStack("/")
	s.Push("/a", nil)

	var seen string
	s.OnPop(func() { seen = s.Href() })

	s.Go(-1)

	assert.Equal(t, "/", seen, "pop callback should observe the new position")
}

func TestMemStack_GoZeroReloads(t *testing.T) {
	s := NewMemStack("/")

	s.Go(0)

	assert.Equal(t, 1, s.Reloads())
	assert.Equal(t, "/", s.Href())
}

func TestMemStack_SetStateKeepsHref(t *testing.T) {
	s := NewMemStack("/a")

	s.SetState("foreign")

	assert.Equal(t, "/a", s.Href())
	assert.Equal(t, "foreign", s.State())
}

func TestMemStack_OnReload(t *testing.T) {
	s := NewMemStack("/")
	s.Push("/a", nil)

	var reloaded string
	s.OnReload(func(href string) { reloaded = href })

	s.Reload()

	assert.Equal(t, "/a", reloaded)
	assert.Equal(t, 1, s.Reloads())
}

func TestMemStack_CanGoBackForward(t *testing.T) {
	s := NewMemStack("/")
	assert.False(t, s.CanGoBack())
	assert.False(t, s.CanGoForward())

	s.Push("/a", nil)
	assert.True(t, s.CanGoBack())
	assert.False(t, s.CanGoForward())

	s.Go(-1)
	assert.False(t, s.CanGoBack())
	assert.True(t, s.CanGoForward())
}
