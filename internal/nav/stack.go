package nav

// Stack is the platform session history a History drives: an ordered set of
// entries with one current position, each entry carrying an href and an
// opaque state slot. Href and State always describe the current entry.
// Implementations fire the OnPop callback after every navigation they
// perform themselves (back, forward, traverse), never for Push or Replace.
type Stack interface {
	Push(href string, state any)
	Replace(href string, state any)
	Go(n int)
	Len() int
	Href() string
	State() any
	Reload()
	OnPop(fn func())
}

// Confirmer is implemented by stacks that own a user-facing confirmation
// surface. A History with no ConfirmFunc configured falls back to it.
type Confirmer interface {
	Confirm(message string, answer func(ok bool))
}

type memEntry struct {
	href  string
	state any
}

// MemStack is an in-memory Stack with browser session-history semantics:
// pushing while not at the end discards the forward entries, traversal is
// clamped to the stack bounds, and the pop callback fires synchronously
// from Go. It backs every tab in the app and stands in for the platform in
// tests.
type MemStack struct {
	entries  []memEntry
	pos      int
	onPop    func()
	onReload func(href string)
	reloads  int
}

// NewMemStack creates a stack holding a single current entry for href, with
// no state attached.
func NewMemStack(href string) *MemStack {
	return &MemStack{
		entries: []memEntry{{href: href}},
		pos:     0,
	}
}

// Push appends a new current entry, truncating any forward entries first.
func (s *MemStack) Push(href string, state any) {
	if s.pos < len(s.entries)-1 {
		s.entries = s.entries[:s.pos+1]
	}
	s.entries = append(s.entries, memEntry{href: href, state: state})
	s.pos = len(s.entries) - 1
}

// Replace overwrites the current entry in place. Position and length do not
// change.
func (s *MemStack) Replace(href string, state any) {
	s.entries[s.pos] = memEntry{href: href, state: state}
}

// Go moves the position by n entries and fires the pop callback. An offset
// that would leave the stack is ignored, and Go(0) reloads the current
// entry instead, both matching what browsers do.
func (s *MemStack) Go(n int) {
	if n == 0 {
		s.Reload()
		return
	}
	target := s.pos + n
	if target < 0 || target >= len(s.entries) {
		return
	}
	s.pos = target
	if s.onPop != nil {
		s.onPop()
	}
}

// Len returns the number of entries in the stack.
func (s *MemStack) Len() int {
	return len(s.entries)
}

// Href returns the current entry's path, or empty if the stack is empty.
func (s *MemStack) Href() string {
	if s.pos < 0 || s.pos >= len(s.entries) {
		return ""
	}
	return s.entries[s.pos].href
}

// State returns the current entry's raw state slot.
func (s *MemStack) State() any {
	if s.pos < 0 || s.pos >= len(s.entries) {
		return nil
	}
	return s.entries[s.pos].state
}

// SetState overwrites the current entry's state slot, leaving the href
// alone. This is the seam third-party code uses when it shares the stack,
// the way another library on a browser page writes history.state directly.
func (s *MemStack) SetState(state any) {
	s.entries[s.pos].state = state
}

// Reload re-activates the current entry and bumps the reload counter.
func (s *MemStack) Reload() {
	s.reloads++
	if s.onReload != nil {
		s.onReload(s.Href())
	}
}

// Reloads returns how many times Reload has run.
func (s *MemStack) Reloads() int {
	return s.reloads
}

// OnPop registers the callback fired after every stack-driven navigation.
func (s *MemStack) OnPop(fn func()) {
	s.onPop = fn
}

// OnReload registers a callback fired on every Reload with the current href.
func (s *MemStack) OnReload(fn func(href string)) {
	s.onReload = fn
}

// CanGoBack reports whether there is an entry before the current one.
func (s *MemStack) CanGoBack() bool {
	return s.pos > 0
}

// CanGoForward reports whether there is an entry after the current one.
func (s *MemStack) CanGoForward() bool {
	return s.pos < len(s.entries)-1
}
