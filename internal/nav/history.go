package nav

import (
	"fmt"

	"github.com/containerd/errdefs"
)

// Options configure a History.
type Options struct {
	// Basename is a path prefix hidden from the app: it is stripped from
	// every canonical location and prepended again by CreateHref.
	Basename string
	// KeyLength is the length of minted entry keys. Zero means
	// DefaultKeyLength.
	KeyLength int
	// ForceRefresh reloads the platform entry after every committed push
	// or replace, after listeners have been notified.
	ForceRefresh bool
	// Confirm resolves guarded navigations. When nil, the stack's own
	// Confirm method is used if it implements Confirmer; otherwise guarded
	// navigations proceed unprompted.
	Confirm ConfirmFunc
}

// History normalizes a platform session stack behind one stable surface:
// it decides the canonical location after every navigation, notifies
// subscribers, and lets a single installed block hold a navigation for user
// confirmation. Construct one per stack and keep it for the life of the
// stack. It is not safe for concurrent use; drive it from a single
// goroutine, the same one the stack delivers pops on.
type History struct {
	stack    Stack
	basename string
	keyLen   int
	refresh  bool

	listeners listenerRegistry
	gate      gate

	action   Action
	location Location
}

// New wires a History to a stack. The initial action is ActionPop and the
// initial location is derived from whatever the stack currently holds, so
// an entry written by an earlier owner of the stack decodes like any other.
func New(stack Stack, opts Options) *History {
	h := &History{
		stack:    stack,
		basename: opts.Basename,
		keyLen:   opts.KeyLength,
		refresh:  opts.ForceRefresh,
	}
	if h.keyLen <= 0 {
		h.keyLen = DefaultKeyLength
	}

	h.gate.confirm = opts.Confirm
	if h.gate.confirm == nil {
		if c, ok := stack.(Confirmer); ok {
			h.gate.confirm = c.Confirm
		}
	}

	stack.OnPop(h.handlePop)

	h.action = ActionPop
	h.location = h.currentLocation()
	return h
}

// Action reports how the last committed navigation came about.
func (h *History) Action() Action {
	return h.action
}

// Location returns the canonical location of the last committed navigation.
func (h *History) Location() Location {
	return h.location
}

// Len reports the platform stack's entry count.
func (h *History) Len() int {
	return h.stack.Len()
}

// Push navigates to a new entry. The target is a composite path string or a
// Location; anything else fails before any state moves. When a block is
// installed the navigation waits on confirmation and is dropped silently on
// a denial.
func (h *History) Push(to any, state any) error {
	return h.navigate(ActionPush, to, state)
}

// Replace rewrites the current entry in place under the same rules as Push.
// The stack's length never changes.
func (h *History) Replace(to any, state any) error {
	return h.navigate(ActionReplace, to, state)
}

// Go asks the platform to move n entries through its stack. The movement, if
// any, comes back through the pop pipeline like a user-driven navigation.
func (h *History) Go(n int) {
	h.stack.Go(n)
}

// Back moves one entry back.
func (h *History) Back() {
	h.stack.Go(-1)
}

// Forward moves one entry forward.
func (h *History) Forward() {
	h.stack.Go(1)
}

// Listen subscribes fn to committed navigations. Subscribers are notified
// in subscription order. The returned remove is idempotent and safe to call
// from inside a notification.
func (h *History) Listen(fn Listener) (func(), error) {
	if fn == nil {
		return nil, fmt.Errorf("listener must not be nil: %w", errdefs.ErrInvalidArgument)
	}
	return h.listeners.add(fn), nil
}

// Block installs a navigation guard: a fixed prompt string, or a
// BlockerFunc that builds the prompt from the navigation being attempted.
// Only one block is active at a time; installing another replaces it. The
// returned unblock clears whichever block is installed.
func (h *History) Block(v any) (func(), error) {
	return h.gate.set(v)
}

// CreateHref renders the platform-facing href for a location, basename
// included, without navigating.
func (h *History) CreateHref(loc Location) string {
	return h.basename + CreatePath(loc)
}

// navigate runs the push/replace pipeline: normalize the target, mint a
// key, gate, and only then touch the platform. After the platform write the
// canonical location is read back from the stack rather than assumed, so
// whatever the platform actually stored is what subscribers see. Listeners
// are notified before Action and Location move, and a forced refresh comes
// after everything else.
func (h *History) navigate(action Action, to any, state any) error {
	loc, err := h.resolve(to, state)
	if err != nil {
		return err
	}

	h.gate.guard(loc, action, func() {
		href := h.basename + CreatePath(loc)
		slot := Entry{Key: loc.Key, State: loc.State}
		if action == ActionPush {
			h.stack.Push(href, slot)
		} else {
			h.stack.Replace(href, slot)
		}
		h.commit(action)
		if h.refresh {
			h.stack.Reload()
		}
	})
	return nil
}

// handlePop reacts to the platform's own navigations. The platform has
// already moved by the time this runs, so a denial cannot rewind it: denial
// only suppresses the broadcast and commit, leaving the stack's href ahead
// of Location until the next approved transition. That divergence is
// deliberate; the platform does not let anyone veto a finished navigation.
func (h *History) handlePop() {
	loc := h.currentLocation()
	h.gate.guard(loc, ActionPop, func() {
		h.listeners.broadcast(loc, ActionPop)
		h.action = ActionPop
		h.location = loc
	})
}

// commit finishes an approved push or replace: recompute the canonical
// location from the platform, broadcast it, then move the public fields.
func (h *History) commit(action Action) {
	loc := h.currentLocation()
	h.listeners.broadcast(loc, action)
	h.action = action
	h.location = loc
}

// currentLocation derives the canonical location from whatever the platform
// holds right now. Basename comes off the raw href before parsing, so a
// stripped path that ends up empty still normalizes to "/".
func (h *History) currentLocation() Location {
	state, key := DecodeState(h.stack.State())
	loc := ParsePath(stripBasename(h.stack.Href(), h.basename))
	loc.State = state
	loc.Key = key
	return loc
}

// resolve normalizes a navigation target into the prospective location the
// gate will see. String targets are split like any composite path; Location
// targets are recomposed so missing "?"/"#" prefixes and an empty pathname
// normalize the same way. A state carried inside a Location target wins
// over the state argument. Every resolved target gets a fresh key.
func (h *History) resolve(to any, state any) (Location, error) {
	var loc Location
	switch t := to.(type) {
	case string:
		loc = ParsePath(t)
	case Location:
		loc = ParsePath(CreatePath(t))
		if t.State != nil {
			state = t.State
		}
	default:
		return Location{}, fmt.Errorf("navigation target must be a string or Location, got %T: %w", to, errdefs.ErrInvalidArgument)
	}
	loc.State = state
	loc.Key = mintKey(h.keyLen)
	return loc, nil
}
