package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testHasher() *PasswordHasher {
	// Low-cost parameters to keep the test fast.
	return NewPasswordHasher(8*1024, 1, 1, 16, 32)
}

func TestPasswordHasher_HashAndVerify(t *testing.T) {
	h := testHasher()

	encoded, err := h.Hash("DefaultPassw0rd!")
	require.NoError(t, err)
	assert.Contains(t, encoded, "$argon2id$")

	ok, err := h.Verify("DefaultPassw0rd!", encoded)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Verify("wrong-password", encoded)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPasswordHasher_UniqueSalts(t *testing.T) {
	h := testHasher()

	first, err := h.Hash("same-password")
	require.NoError(t, err)
	second, err := h.Hash("same-password")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestPasswordHasher_Verify_MalformedHash(t *testing.T) {
	h := testHasher()

	for _, encoded := range []string{
		"",
		"not-a-hash",
		"$argon2id$v=19$m=8192,t=1,p=1$onlyfoursections",
		"$bcrypt$v=19$m=8192,t=1,p=1$c2FsdA$aGFzaA",
	} {
		ok, err := h.Verify("password", encoded)
		assert.Error(t, err, "hash %q", encoded)
		assert.False(t, ok)
	}
}
