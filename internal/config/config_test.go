package config

import (
	"bytes"
	"testing"
	"time"

	"github.com/AlexZinkM/walletkeeper/internal/crypto"
	"github.com/AlexZinkM/walletkeeper/internal/store"
	"github.com/AlexZinkM/walletkeeper/internal/tier"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", c.Port)
	assert.Equal(t, store.KindFile, c.Store)
	assert.Equal(t, 15*time.Minute, c.SessionLifetime)
	assert.Equal(t, crypto.DefaultParams(), c.CodecParams())
	assert.Equal(t, tier.MediumLocal, c.StoreOptions().Medium)
	assert.Equal(t, "solana", c.Ledger)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("WALLET_STORE", "sqlite")
	t.Setenv("WALLET_SQLITE_PATH", "/tmp/w.db")
	t.Setenv("WALLET_MEDIUM", "hardware")
	t.Setenv("SESSION_LIFETIME", "2m")
	t.Setenv("KDF", "argon2id")
	t.Setenv("CIPHER", "xchacha20-poly1305")
	t.Setenv("ARGON2_THREADS", "2")
	t.Setenv("CONCEAL_MISSING_WALLET", "true")

	c, err := Load()
	require.NoError(t, err)

	opts := c.StoreOptions()
	assert.Equal(t, store.KindSQLite, opts.Kind)
	assert.Equal(t, "/tmp/w.db", opts.SQLitePath)
	assert.Equal(t, tier.MediumHardware, opts.Medium)
	assert.Equal(t, 2*time.Minute, c.SessionLifetime)
	assert.Equal(t, crypto.KDFArgon2id, c.CodecParams().KDF)
	assert.Equal(t, uint8(2), c.CodecParams().Argon2.Threads)
	assert.True(t, c.ConcealMissingWallet)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := map[string]string{
		"WALLET_STORE":     "redis",
		"WALLET_MEDIUM":    "cloud",
		"SESSION_LIFETIME": "0s",
		"SCRYPT_N":         "1000",
		"CIPHER":           "rot13",
		"LEDGER":           "ethereum",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestGetPanicsBeforeInit(t *testing.T) {
	cfg = nil
	assert.Panics(t, func() { Get() })

	require.NoError(t, Init())
	assert.NotNil(t, Get())
	cfg = nil
}

func TestReadPassword(t *testing.T) {
	var keys int
	onKey := func(byte) { keys++ }

	got, err := readPassword(bytes.NewReader([]byte("hunter2\r")), onKey)
	require.NoError(t, err)
	assert.Equal(t, "hunter2", string(got))
	assert.Equal(t, 8, keys)

	got, err = readPassword(bytes.NewReader([]byte("abx\x7fc\n")), nil)
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))

	_, err = readPassword(bytes.NewReader([]byte("ab\x03")), nil)
	assert.ErrorIs(t, err, errInterrupted)

	got, err = readPassword(bytes.NewReader([]byte("tail")), nil)
	require.NoError(t, err)
	assert.Equal(t, "tail", string(got))

	_, err = readPassword(bytes.NewReader(nil), nil)
	assert.Error(t, err)
}
