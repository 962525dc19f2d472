package nav

// Action identifies how a navigation change came about.
type Action int

const (
	// ActionPop is a change driven by the platform itself: back, forward,
	// or the initial entry. It is the action every History starts in.
	ActionPop Action = iota
	// ActionPush is an app-initiated navigation onto a new entry.
	ActionPush
	// ActionReplace is an app-initiated rewrite of the current entry.
	ActionReplace
)

// String returns the conventional upper-case name for the action.
func (a Action) String() string {
	switch a {
	case ActionPush:
		return "PUSH"
	case ActionReplace:
		return "REPLACE"
	default:
		return "POP"
	}
}
