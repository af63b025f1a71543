package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashVerify_RoundTrip(t *testing.T) {
	h, err := Hash("correct-horse-battery")
	require.NoError(t, err)
	assert.NotEqual(t, "correct-horse-battery", h)
	assert.True(t, Verify("correct-horse-battery", h))
	assert.False(t, Verify("wrong", h))
}

func TestHash_SaltedPerCall(t *testing.T) {
	a, err := Hash("123456")
	require.NoError(t, err)
	b, err := Hash("123456")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
	assert.True(t, Verify("123456", a))
	assert.True(t, Verify("123456", b))
}

func TestVerify_BadDigest(t *testing.T) {
	assert.False(t, Verify("anything", "not-a-bcrypt-digest"))
}
