package nav

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeState_Nil(t *testing.T) {
	state, key := DecodeState(nil)

	assert.Nil(t, state, "absent platform state should decode to nil")
	assert.Empty(t, key)
}

func TestDecodeState_ForeignPrimitive(t *testing.T) {
	state, key := DecodeState("foo")

	assert.Equal(t, "foo", state, "foreign primitive should come back verbatim")
	assert.Empty(t, key)

	// Decoding the decoded value changes nothing.
	again, key := DecodeState(state)
	assert.Equal(t, "foo", again)
	assert.Empty(t, key)
}

func TestDecodeState_OwnEnvelope(t *testing.T) {
	payload := map[string]any{"x": 1}

	state, key := DecodeState(Entry{Key: "abc123", State: payload})

	assert.Equal(t, "abc123", key)
	assert.Equal(t, payload, state, "nested payload should be surfaced, not the envelope")
}

func TestDecodeState_EnvelopePointer(t *testing.T) {
	state, key := DecodeState(&Entry{Key: "abc123", State: 7})

	assert.Equal(t, "abc123", key)
	assert.Equal(t, 7, state)

	state, key = DecodeState((*Entry)(nil))
	assert.Nil(t, state)
	assert.Empty(t, key)
}

func TestDecodeState_ForeignMapWithoutKey(t *testing.T) {
	foreign := map[string]any{"foo": "bar"}

	state, key := DecodeState(foreign)

	assert.Equal(t, foreign, state, "foreign object should come back whole")
	assert.Empty(t, key)
}

func TestDecodeState_MapWithStringKeyIsOwned(t *testing.T) {
	slot := map[string]any{"key": "k1", "state": "payload"}

	state, key := DecodeState(slot)

	assert.Equal(t, "k1", key)
	assert.Equal(t, "payload", state)
}

func TestDecodeState_MapWithNonStringKeyIsForeign(t *testing.T) {
	// Only keys this engine could have minted mark an entry as owned.
	slot := map[string]any{"key": 7, "state": "payload"}

	state, key := DecodeState(slot)

	assert.Equal(t, slot, state)
	assert.Empty(t, key)
}

func TestMintKey_Length(t *testing.T) {
	assert.Len(t, mintKey(6), 6)
	assert.Len(t, mintKey(12), 12)

	// Requests beyond the source id cap at its length.
	assert.Len(t, mintKey(64), 32)
}

func TestMintKey_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		key := mintKey(16)
		assert.False(t, seen[key], "minted keys should not repeat")
		seen[key] = true
	}
}
