package cryptox

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var fastArgon2 = Argon2Params{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}

func TestHashers_RoundTrip(t *testing.T) {
	hashers := map[string]Hasher{
		"bcrypt": NewBcryptHasher(bcrypt.MinCost),
		"argon2": NewArgon2Hasher(fastArgon2),
	}

	for name, h := range hashers {
		t.Run(name, func(t *testing.T) {
			hashed, err := h.Hash("secret")
			require.NoError(t, err)
			assert.NotContains(t, hashed, "secret")

			ok, err := h.Verify("secret", hashed)
			require.NoError(t, err)
			assert.True(t, ok)

			ok, err = h.Verify("wrong", hashed)
			require.NoError(t, err)
			assert.False(t, ok)

			again, err := h.Hash("secret")
			require.NoError(t, err)
			assert.NotEqual(t, hashed, again, "hashes must be salted")

			_, err = h.Hash("")
			assert.ErrorIs(t, err, ErrEmptySecret)
		})
	}
}

func TestArgon2Hasher_Format(t *testing.T) {
	hashed, err := NewArgon2Hasher(fastArgon2).Hash("pw")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hashed, "$argon2id$v=19$m=1024,t=1,p=1$"))
}

func TestVerify_MalformedHash(t *testing.T) {
	_, err := NewBcryptHasher(bcrypt.MinCost).Verify("pw", "not-a-hash")
	assert.ErrorIs(t, err, ErrInvalidHash)

	_, err = NewArgon2Hasher(fastArgon2).Verify("pw", "$argon2id$v=19$broken")
	assert.ErrorIs(t, err, ErrInvalidHash)

	_, err = NewArgon2Hasher(fastArgon2).Verify("pw", "$argon2id$v=1$m=1,t=1,p=1$AAAA$AAAA")
	assert.ErrorIs(t, err, ErrIncompatibleVersion)
}

func TestArgon2Verify_ZeroParameters(t *testing.T) {
	h := NewArgon2Hasher(fastArgon2)
	for _, encoded := range []string{
		"$argon2id$v=19$m=1024,t=0,p=1$c2FsdHNhbHQ$a2V5a2V5",
		"$argon2id$v=19$m=1024,t=1,p=0$c2FsdHNhbHQ$a2V5a2V5",
		"$argon2id$v=19$m=0,t=1,p=1$c2FsdHNhbHQ$a2V5a2V5",
		"$argon2id$v=19$m=1024,t=1,p=1$c2FsdHNhbHQ$",
	} {
		assert.NotPanics(t, func() {
			ok, err := h.Verify("pw", encoded)
			assert.False(t, ok)
			assert.ErrorIs(t, err, ErrInvalidHash, encoded)
		})
	}
}

func TestNewHasher(t *testing.T) {
	h, err := NewHasher("bcrypt", 4)
	require.NoError(t, err)
	assert.IsType(t, &BcryptHasher{}, h)

	h, err = NewHasher("argon2", 0)
	require.NoError(t, err)
	assert.IsType(t, &Argon2Hasher{}, h)

	_, err = NewHasher("md5", 0)
	assert.ErrorIs(t, err, ErrUnknownHasher)
}

func TestNewBcryptHasher_ClampsCost(t *testing.T) {
	assert.Equal(t, bcrypt.DefaultCost, NewBcryptHasher(0).cost)
	assert.Equal(t, bcrypt.MaxCost, NewBcryptHasher(99).cost)
}
