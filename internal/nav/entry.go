package nav

import (
	"strings"

	"github.com/google/uuid"
)

// DefaultKeyLength is the length of minted entry keys when Options leaves
// KeyLength unset.
const DefaultKeyLength = 6

// Entry is the envelope this engine writes into a platform entry's state
// slot: the minted key plus the application's own payload. Other code
// sharing the stack may write anything else into the slot; DecodeState tells
// the two apart.
type Entry struct {
	Key   string
	State any
}

// DecodeState normalizes a raw platform state slot into the canonical
// (state, key) pair. A nil slot means no state was ever attached. An Entry,
// or a map carrying a string "key", is one of ours: the nested payload is
// surfaced and the key recovered. Anything else is foreign state and comes
// back verbatim with no key, so third-party writes to the slot survive
// untouched.
func DecodeState(v any) (state any, key string) {
	switch s := v.(type) {
	case nil:
		return nil, ""
	case Entry:
		return s.State, s.Key
	case *Entry:
		if s == nil {
			return nil, ""
		}
		return s.State, s.Key
	case map[string]any:
		if k, ok := s["key"].(string); ok {
			return s["state"], k
		}
		return s, ""
	default:
		return v, ""
	}
}

// mintKey creates a fresh random entry key of n characters.
func mintKey(n int) string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	if n >= len(id) {
		return id
	}
	return id[:n]
}
