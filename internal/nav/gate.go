package nav

import (
	"fmt"

	"github.com/containerd/errdefs"
)

// BlockerFunc derives the confirmation prompt for a navigation about to
// happen. It runs before the navigation takes effect.
type BlockerFunc func(Location, Action) string

// ConfirmFunc asks the user whether a guarded navigation may proceed. The
// answer callback is the only channel back: implementations may call it
// before returning or hold it until the user decides, and the engine never
// polls or blocks waiting. Answering anything but true abandons the
// navigation silently.
type ConfirmFunc func(message string, answer func(ok bool))

// gate holds the single block slot and arbitrates pending navigations
// against it.
type gate struct {
	block   any // nil, string, or BlockerFunc
	confirm ConfirmFunc
}

// set installs a block, replacing whatever block was there. The returned
// remover clears the slot unconditionally, even if a later block has taken
// it over in the meantime.
func (g *gate) set(v any) (func(), error) {
	switch b := v.(type) {
	case string:
		g.block = b
	case BlockerFunc:
		g.block = b
	case func(Location, Action) string:
		g.block = BlockerFunc(b)
	default:
		return nil, fmt.Errorf("block must be a string or a BlockerFunc, got %T: %w", v, errdefs.ErrInvalidArgument)
	}
	return g.clear, nil
}

func (g *gate) clear() {
	g.block = nil
}

// guard runs proceed if the navigation is allowed. With no block installed
// that happens synchronously before guard returns. With a block, the prompt
// is resolved and handed to the confirm function; proceed runs if and only
// if the answer comes back true. There is no timeout and no serialization:
// two guarded navigations in flight at once each wait on their own answer.
func (g *gate) guard(loc Location, action Action, proceed func()) {
	if g.block == nil {
		proceed()
		return
	}

	var message string
	switch b := g.block.(type) {
	case string:
		message = b
	case BlockerFunc:
		message = b(loc, action)
	}

	if g.confirm == nil {
		proceed()
		return
	}
	g.confirm(message, func(ok bool) {
		if ok {
			proceed()
		}
	})
}
