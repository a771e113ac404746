package password

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var cheap = Params{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}

func TestHashAndVerify(t *testing.T) {
	hash, err := HashWithParams("Avdhoot123", cheap)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$v=19$m=1024,t=1,p=1$"))

	ok, err := Verify("Avdhoot123", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Verify("avdhoot123", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHash_SaltsDiffer(t *testing.T) {
	a, err := HashWithParams("Test1234", cheap)
	require.NoError(t, err)
	b, err := HashWithParams("Test1234", cheap)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestVerify_Bcrypt(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("Test1234"), bcrypt.MinCost)
	require.NoError(t, err)

	ok, err := Verify("Test1234", string(hash))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Verify("wrong", string(hash))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerify_RejectsGarbage(t *testing.T) {
	_, err := Verify("x", "plaintext")
	assert.ErrorIs(t, err, ErrInvalidHash)

	_, err = Verify("x", "$argon2id$v=16$m=1024,t=1,p=1$c2FsdA$aGFzaA")
	assert.ErrorIs(t, err, ErrIncompatibleVersion)
}
