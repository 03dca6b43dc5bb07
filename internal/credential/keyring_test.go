package credential

import (
	"testing"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useMemoryKeyring(t *testing.T) {
	t.Helper()
	ring := keyring.NewArrayKeyring(nil)
	prev := open
	open = func() (keyring.Keyring, error) { return ring, nil }
	t.Cleanup(func() { open = prev })
}

func TestSetGetDelete(t *testing.T) {
	useMemoryKeyring(t)

	require.NoError(t, Set(PasswordKey, "segredo"))

	got, err := Get(PasswordKey)
	require.NoError(t, err)
	assert.Equal(t, "segredo", got)

	require.NoError(t, Delete(PasswordKey))

	_, err = Get(PasswordKey)
	assert.Error(t, err)
}

func TestGet_MissingKey(t *testing.T) {
	useMemoryKeyring(t)

	_, err := Get("nope")
	require.Error(t, err)
	assert.ErrorIs(t, err, keyring.ErrKeyNotFound)
}
