package secret

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSealOpen(t *testing.T) {
	s, err := NewSealer("correct horse", "harbor")
	require.NoError(t, err)

	sealed, err := s.Seal("secret")
	require.NoError(t, err)
	assert.NotContains(t, sealed, "secret")

	again, err := s.Seal("secret")
	require.NoError(t, err)
	assert.NotEqual(t, sealed, again, "nonce must differ per seal")

	plain, err := s.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, "secret", plain)
}

func TestOpenWithWrongKey(t *testing.T) {
	a, err := NewSealer("one", "harbor")
	require.NoError(t, err)
	b, err := NewSealer("two", "harbor")
	require.NoError(t, err)

	sealed, err := a.Seal("secret")
	require.NoError(t, err)

	_, err = b.Open(sealed)
	assert.ErrorIs(t, err, ErrOpen)
}

func TestOpenGarbage(t *testing.T) {
	s, err := NewSealer("k", "harbor")
	require.NoError(t, err)

	_, err = s.Open("not base64!")
	assert.Error(t, err)

	_, err = s.Open("c2hvcnQ=")
	assert.ErrorIs(t, err, ErrOpen)
}

func TestEmptyPassphrase(t *testing.T) {
	_, err := NewSealer("", "harbor")
	assert.ErrorIs(t, err, ErrEmptyPassphrase)
}
