package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"github.com/tartampluch/life-in-weeks/internal/config"
	"github.com/tartampluch/life-in-weeks/internal/engine"
)

func TestLookupPassword_Keyring(t *testing.T) {
	keyring.MockInit()
	t.Setenv(config.EnvVCardPass, "from-env")

	require.NoError(t, engine.StorePassword("ada", "s3cret"))
	assert.Equal(t, "s3cret", engine.LookupPassword("ada"))
}

func TestLookupPassword_EnvFallback(t *testing.T) {
	keyring.MockInit()
	t.Setenv(config.EnvVCardPass, "from-env")

	assert.Equal(t, "from-env", engine.LookupPassword("grace"))
}

func TestLookupPassword_NoUser(t *testing.T) {
	keyring.MockInit()
	t.Setenv(config.EnvVCardPass, "from-env")

	assert.Empty(t, engine.LookupPassword(""))
}

func TestStorePassword_IgnoresEmpty(t *testing.T) {
	keyring.MockInit()

	require.NoError(t, engine.StorePassword("", "s3cret"))
	require.NoError(t, engine.StorePassword("ada", ""))

	_, err := keyring.Get(config.KeyringService, "ada")
	assert.ErrorIs(t, err, keyring.ErrNotFound)
}
