package nav

import (
	"testing"

	"github.com/containerd/errdefs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestHistory wires a History to a fresh in-memory stack rooted at "/".
func newTestHistory(t *testing.T, opts Options) (*History, *MemStack) {
	t.Helper()
	s := NewMemStack("/")
	return New(s, opts), s
}

type navEvent struct {
	loc    Location
	action Action
}

// record subscribes a listener that appends every broadcast to a log.
func record(t *testing.T, h *History) *[]navEvent {
	t.Helper()
	events := &[]navEvent{}
	_, err := h.Listen(func(loc Location, action Action) {
		*events = append(*events, navEvent{loc: loc, action: action})
	})
	require.NoError(t, err)
	return events
}

// confirmStack is a MemStack that doubles as the platform confirmation
// surface, capturing prompts and their answer callbacks for tests to
// resolve whenever they choose.
type confirmStack struct {
	*MemStack
	prompts []string
	answers []func(bool)
}

func (s *confirmStack) Confirm(message string, answer func(ok bool)) {
	s.prompts = append(s.prompts, message)
	s.answers = append(s.answers, answer)
}

func TestHistory_InitialState(t *testing.T) {
	h, _ := newTestHistory(t, Options{})

	assert.Equal(t, ActionPop, h.Action())
	assert.Equal(t, "/", h.Location().Pathname)
	assert.Nil(t, h.Location().State)
	assert.Empty(t, h.Location().Key)
	assert.Equal(t, 1, h.Len())
}

func TestHistory_InitialState_ForeignSlot(t *testing.T) {
	s := NewMemStack("/app")
	s.SetState("legacy")

	h := New(s, Options{})

	assert.Equal(t, "legacy", h.Location().State, "a pre-existing foreign slot should decode verbatim")
	assert.Empty(t, h.Location().Key)
}

func TestHistory_Push_Commits(t *testing.T) {
	h, s := newTestHistory(t, Options{})
	events := record(t, h)

	err := h.Push("/a/b?x=1#frag", "payload")
	require.NoError(t, err)

	assert.Equal(t, ActionPush, h.Action())
	assert.Equal(t, "/a/b", h.Location().Pathname)
	assert.Equal(t, "?x=1", h.Location().Search)
	assert.Equal(t, "#frag", h.Location().Hash)
	assert.Equal(t, "payload", h.Location().State)
	assert.Len(t, h.Location().Key, DefaultKeyLength)
	assert.Equal(t, 2, h.Len())
	assert.Equal(t, "/a/b?x=1#frag", s.Href())
	assert.Equal(t, "/a/b?x=1#frag", h.Location().Path())

	require.Len(t, *events, 1)
	assert.Equal(t, ActionPush, (*events)[0].action)
	assert.Equal(t, "/a/b", (*events)[0].loc.Pathname)
}

func TestHistory_Push_WritesEnvelope(t *testing.T) {
	h, s := newTestHistory(t, Options{})

	require.NoError(t, h.Push("/a", "payload"))

	slot, ok := s.State().(Entry)
	require.True(t, ok, "platform slot should hold the key/state envelope")
	assert.Equal(t, "payload", slot.State)
	assert.Equal(t, h.Location().Key, slot.Key)
}

func TestHistory_Push_LocationTarget(t *testing.T) {
	h, s := newTestHistory(t, Options{})

	err := h.Push(Location{Pathname: "/a", Search: "x=1", Hash: "frag"}, nil)
	require.NoError(t, err)

	assert.Equal(t, "/a?x=1#frag", s.Href(), "missing separators should be inserted")
	assert.Equal(t, "?x=1", h.Location().Search)
}

func TestHistory_Push_LocationTargetStateWins(t *testing.T) {
	h, _ := newTestHistory(t, Options{})

	require.NoError(t, h.Push(Location{Pathname: "/a", State: "inner"}, "outer"))
	assert.Equal(t, "inner", h.Location().State)

	require.NoError(t, h.Push(Location{Pathname: "/b"}, "outer"))
	assert.Equal(t, "outer", h.Location().State, "the state argument should fill in when the target has none")
}

func TestHistory_Push_InvalidTarget(t *testing.T) {
	h, _ := newTestHistory(t, Options{})
	events := record(t, h)

	err := h.Push(42, nil)

	assert.ErrorIs(t, err, errdefs.ErrInvalidArgument)
	assert.Equal(t, ActionPop, h.Action(), "a rejected target should not move anything")
	assert.Equal(t, "/", h.Location().Pathname)
	assert.Equal(t, 1, h.Len())
	assert.Empty(t, *events)
}

func TestHistory_Push_MintsFreshKeys(t *testing.T) {
	h, _ := newTestHistory(t, Options{})

	require.NoError(t, h.Push("/a", nil))
	first := h.Location().Key

	require.NoError(t, h.Push("/b", nil))
	second := h.Location().Key

	assert.NotEmpty(t, first)
	assert.NotEqual(t, first, second)
}

func TestHistory_KeyLengthOption(t *testing.T) {
	h, _ := newTestHistory(t, Options{KeyLength: 10})

	require.NoError(t, h.Push("/a", nil))

	assert.Len(t, h.Location().Key, 10)
}

func TestHistory_Replace_KeepsLength(t *testing.T) {
	h, s := newTestHistory(t, Options{})
	require.NoError(t, h.Push("/a", "one"))
	require.Equal(t, 2, h.Len())
	pushed := h.Location().Key

	err := h.Replace("/b", "two")
	require.NoError(t, err)

	assert.Equal(t, ActionReplace, h.Action())
	assert.Equal(t, 2, h.Len(), "replace should never grow the stack")
	assert.Equal(t, "/b", s.Href())
	assert.Equal(t, "two", h.Location().State)
	assert.NotEqual(t, pushed, h.Location().Key, "replace should mint its own key")

	h.Back()
	assert.Equal(t, "/", h.Location().Pathname, "the entry before the replaced one should be intact")
}

func TestHistory_BroadcastPrecedesCommit(t *testing.T) {
	h, _ := newTestHistory(t, Options{})

	var sawAction Action
	var sawPathname string
	_, err := h.Listen(func(loc Location, action Action) {
		// The public fields still describe the previous navigation while
		// the arguments describe the new one.
		sawAction = h.Action()
		sawPathname = h.Location().Pathname
		assert.Equal(t, ActionPush, action)
		assert.Equal(t, "/next", loc.Pathname)
	})
	require.NoError(t, err)

	require.NoError(t, h.Push("/next", nil))

	assert.Equal(t, ActionPop, sawAction)
	assert.Equal(t, "/", sawPathname)
	assert.Equal(t, ActionPush, h.Action(), "commit should land once the broadcast is done")
}

func TestHistory_Listen_NilListener(t *testing.T) {
	h, _ := newTestHistory(t, Options{})

	_, err := h.Listen(nil)

	assert.ErrorIs(t, err, errdefs.ErrInvalidArgument)
}

func TestHistory_Listen_Order(t *testing.T) {
	h, _ := newTestHistory(t, Options{})

	var calls []string
	_, err := h.Listen(func(Location, Action) { calls = append(calls, "first") })
	require.NoError(t, err)
	_, err = h.Listen(func(Location, Action) { calls = append(calls, "second") })
	require.NoError(t, err)

	require.NoError(t, h.Push("/a", nil))

	assert.Equal(t, []string{"first", "second"}, calls)
}

func TestHistory_Listen_RemoveIsIdempotent(t *testing.T) {
	h, _ := newTestHistory(t, Options{})

	calls := 0
	remove, err := h.Listen(func(Location, Action) { calls++ })
	require.NoError(t, err)

	require.NoError(t, h.Push("/a", nil))
	remove()
	remove()
	require.NoError(t, h.Push("/b", nil))

	assert.Equal(t, 1, calls)
}

func TestHistory_Listen_RemoveDuringBroadcast(t *testing.T) {
	h, _ := newTestHistory(t, Options{})

	var calls []string
	var removeSecond func()
	_, err := h.Listen(func(Location, Action) {
		calls = append(calls, "first")
		removeSecond()
	})
	require.NoError(t, err)
	removeSecond, err = h.Listen(func(Location, Action) { calls = append(calls, "second") })
	require.NoError(t, err)

	require.NoError(t, h.Push("/a", nil))
	require.NoError(t, h.Push("/b", nil))

	assert.Equal(t, []string{"first", "first"}, calls,
		"a listener removed mid-broadcast should not run in that broadcast or later")
}

func TestHistory_Listen_AddDuringBroadcast(t *testing.T) {
	h, _ := newTestHistory(t, Options{})

	var first, late int
	_, err := h.Listen(func(Location, Action) {
		if first == 0 {
			_, lerr := h.Listen(func(Location, Action) { late++ })
			require.NoError(t, lerr)
		}
		first++
	})
	require.NoError(t, err)

	require.NoError(t, h.Push("/a", nil))
	assert.Equal(t, 1, first)
	assert.Zero(t, late, "a listener added mid-broadcast should wait for the next one")

	require.NoError(t, h.Push("/b", nil))
	assert.Equal(t, 2, first)
	assert.Equal(t, 1, late)
}

func TestHistory_Listen_PanicAbortsBroadcast(t *testing.T) {
	h, s := newTestHistory(t, Options{})

	reached := false
	_, err := h.Listen(func(Location, Action) { panic("listener failure") })
	require.NoError(t, err)
	_, err = h.Listen(func(Location, Action) { reached = true })
	require.NoError(t, err)

	assert.Panics(t, func() { _ = h.Push("/a", nil) })

	assert.False(t, reached, "listeners after the failing one should not run")
	assert.Equal(t, "/a", s.Href(), "the platform write precedes the broadcast")
	assert.Equal(t, "/", h.Location().Pathname, "the aborted broadcast should leave the commit undone")
}

func TestHistory_Basename(t *testing.T) {
	s := NewMemStack("/news/item?id=2")
	h := New(s, Options{Basename: "/news"})

	assert.Equal(t, "/item", h.Location().Pathname)
	assert.Equal(t, "?id=2", h.Location().Search)

	require.NoError(t, h.Push("/other", nil))
	assert.Equal(t, "/news/other", s.Href(), "the platform href should carry the basename")
	assert.Equal(t, "/other", h.Location().Pathname)
}

func TestHistory_Basename_CaseInsensitive(t *testing.T) {
	s := NewMemStack("/News/item")
	h := New(s, Options{Basename: "/news"})

	assert.Equal(t, "/item", h.Location().Pathname)
}

func TestHistory_Basename_BareHrefNormalizesToRoot(t *testing.T) {
	s := NewMemStack("/news")
	h := New(s, Options{Basename: "/news"})

	assert.Equal(t, "/", h.Location().Pathname)
}

func TestHistory_CreateHref(t *testing.T) {
	h, _ := newTestHistory(t, Options{Basename: "/news"})

	href := h.CreateHref(Location{Pathname: "/item", Search: "?id=2"})

	assert.Equal(t, "/news/item?id=2", href)
}

func TestHistory_BackForward_PopPipeline(t *testing.T) {
	h, _ := newTestHistory(t, Options{})
	require.NoError(t, h.Push("/a", "state-a"))
	require.NoError(t, h.Push("/b", nil))
	events := record(t, h)

	h.Back()

	assert.Equal(t, ActionPop, h.Action())
	assert.Equal(t, "/a", h.Location().Pathname)
	assert.Equal(t, "state-a", h.Location().State, "popping should recover the entry's own state")
	require.Len(t, *events, 1)
	assert.Equal(t, ActionPop, (*events)[0].action)

	h.Forward()

	assert.Equal(t, "/b", h.Location().Pathname)
	assert.Len(t, *events, 2)
}

func TestHistory_Go_Delegates(t *testing.T) {
	h, _ := newTestHistory(t, Options{})
	require.NoError(t, h.Push("/a", nil))
	require.NoError(t, h.Push("/b", nil))

	h.Go(-2)

	assert.Equal(t, ActionPop, h.Action())
	assert.Equal(t, "/", h.Location().Pathname)

	// Out of range goes nowhere and nothing is broadcast.
	events := record(t, h)
	h.Go(10)
	assert.Empty(t, *events)
	assert.Equal(t, "/", h.Location().Pathname)
}

func TestHistory_Pop_ForeignSlotRewrite(t *testing.T) {
	h, s := newTestHistory(t, Options{})
	require.NoError(t, h.Push("/a", "mine"))

	// Third-party code overwrites the current entry's slot behind our back.
	foreign := map[string]any{"foo": "bar"}
	s.SetState(foreign)

	h.Back()
	h.Forward()

	assert.Equal(t, foreign, h.Location().State, "a foreign slot should surface whole")
	assert.Empty(t, h.Location().Key)
}

func TestHistory_Block_InvalidType(t *testing.T) {
	h, _ := newTestHistory(t, Options{})

	_, err := h.Block(42)

	assert.ErrorIs(t, err, errdefs.ErrInvalidArgument)
}

func TestHistory_Block_DeniedLeavesEverything(t *testing.T) {
	denies := 0
	s := NewMemStack("/")
	h := New(s, Options{
		Confirm: func(message string, answer func(ok bool)) {
			denies++
			assert.Equal(t, "leave?", message)
			answer(false)
		},
	})
	events := record(t, h)

	_, err := h.Block("leave?")
	require.NoError(t, err)

	require.NoError(t, h.Push("/a", nil))

	assert.Equal(t, 1, denies)
	assert.Equal(t, ActionPop, h.Action())
	assert.Equal(t, "/", h.Location().Pathname)
	assert.Equal(t, 1, h.Len(), "a denied push should never reach the platform")
	assert.Equal(t, "/", s.Href())
	assert.Empty(t, *events, "a denied navigation should not broadcast")
}

func TestHistory_Block_ApprovedProceeds(t *testing.T) {
	h, _ := newTestHistory(t, Options{
		Confirm: func(message string, answer func(ok bool)) { answer(true) },
	})

	_, err := h.Block("leave?")
	require.NoError(t, err)

	require.NoError(t, h.Push("/a", nil))

	assert.Equal(t, ActionPush, h.Action())
	assert.Equal(t, "/a", h.Location().Pathname)
}

func TestHistory_Block_FuncSeesProspectiveNavigation(t *testing.T) {
	var gotLoc Location
	var gotAction Action
	h, _ := newTestHistory(t, Options{
		Confirm: func(message string, answer func(ok bool)) {
			assert.Equal(t, "sure?", message)
			answer(true)
		},
	})

	_, err := h.Block(func(loc Location, action Action) string {
		gotLoc = loc
		gotAction = action
		return "sure?"
	})
	require.NoError(t, err)

	require.NoError(t, h.Push("/danger?x=1", nil))

	assert.Equal(t, "/danger", gotLoc.Pathname)
	assert.Equal(t, "?x=1", gotLoc.Search)
	assert.NotEmpty(t, gotLoc.Key, "the blocker should see the key the entry would get")
	assert.Equal(t, ActionPush, gotAction)
}

func TestHistory_Block_BlockerFuncValue(t *testing.T) {
	h, _ := newTestHistory(t, Options{
		Confirm: func(message string, answer func(ok bool)) { answer(false) },
	})

	_, err := h.Block(BlockerFunc(func(Location, Action) string { return "stop" }))
	require.NoError(t, err)

	require.NoError(t, h.Push("/a", nil))
	assert.Equal(t, "/", h.Location().Pathname)
}

func TestHistory_Block_NoConfirmConfiguredAllows(t *testing.T) {
	// A plain MemStack has no confirmation surface and none was configured,
	// so blocked navigations pass.
	h, _ := newTestHistory(t, Options{})

	_, err := h.Block("ignored")
	require.NoError(t, err)

	require.NoError(t, h.Push("/a", nil))
	assert.Equal(t, "/a", h.Location().Pathname)
}

func TestHistory_Block_StackConfirmerFallback(t *testing.T) {
	cs := &confirmStack{MemStack: NewMemStack("/")}
	h := New(cs, Options{})

	_, err := h.Block("really?")
	require.NoError(t, err)

	require.NoError(t, h.Push("/a", nil))
	require.Len(t, cs.prompts, 1, "the stack's own confirmation surface should be consulted")
	assert.Equal(t, "really?", cs.prompts[0])
	assert.Equal(t, "/", h.Location().Pathname, "nothing should move until the answer arrives")

	cs.answers[0](true)
	assert.Equal(t, "/a", h.Location().Pathname)
}

func TestHistory_Block_AsyncAnswer(t *testing.T) {
	cs := &confirmStack{MemStack: NewMemStack("/")}
	h := New(cs, Options{})
	events := record(t, h)

	_, err := h.Block("leave?")
	require.NoError(t, err)

	require.NoError(t, h.Push("/a", "payload"))
	require.Len(t, cs.answers, 1)
	assert.Empty(t, *events)
	assert.Equal(t, 1, h.Len())

	cs.answers[0](true)

	assert.Equal(t, 2, h.Len())
	assert.Equal(t, "/a", h.Location().Pathname)
	require.Len(t, *events, 1)
	assert.Equal(t, ActionPush, (*events)[0].action)
}

func TestHistory_Block_OverlappingConfirmations(t *testing.T) {
	// Nothing serializes guarded navigations: two pushes awaiting answers
	// coexist, and each lands when its own answer arrives.
	cs := &confirmStack{MemStack: NewMemStack("/")}
	h := New(cs, Options{})

	_, err := h.Block("leave?")
	require.NoError(t, err)

	require.NoError(t, h.Push("/a", nil))
	require.NoError(t, h.Push("/b", nil))
	require.Len(t, cs.answers, 2)
	assert.Equal(t, 1, h.Len())

	cs.answers[0](true)
	assert.Equal(t, "/a", h.Location().Pathname)

	cs.answers[1](true)
	assert.Equal(t, "/b", h.Location().Pathname)
	assert.Equal(t, 3, h.Len())
}

func TestHistory_Unblock_ClearsSlot(t *testing.T) {
	prompts := 0
	h, _ := newTestHistory(t, Options{
		Confirm: func(message string, answer func(ok bool)) {
			prompts++
			answer(false)
		},
	})

	unblock, err := h.Block("leave?")
	require.NoError(t, err)
	unblock()

	require.NoError(t, h.Push("/a", nil))

	assert.Zero(t, prompts, "an unblocked history should not prompt")
	assert.Equal(t, "/a", h.Location().Pathname)
}

func TestHistory_Unblock_ClearsNewerBlock(t *testing.T) {
	// The slot holds one block; any unblock empties it, even one created
	// for an earlier block.
	prompts := 0
	h, _ := newTestHistory(t, Options{
		Confirm: func(message string, answer func(ok bool)) {
			prompts++
			answer(false)
		},
	})

	unblockOld, err := h.Block("old")
	require.NoError(t, err)
	_, err = h.Block("new")
	require.NoError(t, err)

	unblockOld()

	require.NoError(t, h.Push("/a", nil))
	assert.Zero(t, prompts)
	assert.Equal(t, "/a", h.Location().Pathname)
}

func TestHistory_Block_LastWriterWins(t *testing.T) {
	var prompts []string
	h, _ := newTestHistory(t, Options{
		Confirm: func(message string, answer func(ok bool)) {
			prompts = append(prompts, message)
			answer(false)
		},
	})

	_, err := h.Block("first")
	require.NoError(t, err)
	_, err = h.Block("second")
	require.NoError(t, err)

	require.NoError(t, h.Push("/a", nil))

	assert.Equal(t, []string{"second"}, prompts)
}

func TestHistory_DeniedPop_Diverges(t *testing.T) {
	// The platform cannot be vetoed once it has moved: a denied pop keeps
	// the committed location behind the platform href until the next
	// approved transition realigns them.
	s := NewMemStack("/")
	allow := true
	h := New(s, Options{
		Confirm: func(message string, answer func(ok bool)) { answer(allow) },
	})
	require.NoError(t, h.Push("/a", nil))

	_, err := h.Block("stay?")
	require.NoError(t, err)
	events := record(t, h)

	allow = false
	h.Back()

	assert.Equal(t, "/", s.Href(), "the platform has already moved")
	assert.Equal(t, "/a", h.Location().Pathname, "the denied pop must not commit")
	assert.Equal(t, ActionPush, h.Action())
	assert.Empty(t, *events)

	allow = true
	require.NoError(t, h.Push("/b", nil))

	assert.Equal(t, "/b", s.Href())
	assert.Equal(t, "/b", h.Location().Pathname, "the next approved transition realigns both sides")
}

func TestHistory_ForceRefresh_ReloadAfterBroadcast(t *testing.T) {
	s := NewMemStack("/")
	var order []string
	s.OnReload(func(string) { order = append(order, "reload") })

	h := New(s, Options{ForceRefresh: true})
	_, err := h.Listen(func(Location, Action) { order = append(order, "broadcast") })
	require.NoError(t, err)

	require.NoError(t, h.Push("/a", nil))

	assert.Equal(t, []string{"broadcast", "reload"}, order)
	assert.Equal(t, ActionPush, h.Action(), "the commit should land before the reload request")

	order = nil
	require.NoError(t, h.Replace("/b", nil))
	assert.Equal(t, []string{"broadcast", "reload"}, order)
}

func TestHistory_ForceRefresh_NotOnPop(t *testing.T) {
	s := NewMemStack("/")
	h := New(s, Options{ForceRefresh: true})
	require.NoError(t, h.Push("/a", nil))
	require.Equal(t, 1, s.Reloads())

	h.Back()

	assert.Equal(t, 1, s.Reloads(), "pops should not trigger refreshes")
}
