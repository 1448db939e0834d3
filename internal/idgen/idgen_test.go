package idgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDIsDeterministic(t *testing.T) {
	assert.Equal(t, ID("stream_class"), ID("stream_class"))
	assert.NotEqual(t, ID("stream_class"), ID("event_class"))
}

func TestUUIDFromSeedIsDeterministicAndDistinct(t *testing.T) {
	a := UUIDFromSeed("trace:one")
	b := UUIDFromSeed("trace:one")
	c := UUIDFromSeed("trace:two")

	require.Equal(t, a, b)
	require.NotEqual(t, a, c)
}

func TestUUIDFromSeedFillsAllBytes(t *testing.T) {
	u := UUIDFromSeed("seed")
	var zero [16]byte
	assert.NotEqual(t, zero, u)
}
