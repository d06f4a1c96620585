package store

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlexZinkM/walletkeeper/internal/crypto"
	"github.com/AlexZinkM/walletkeeper/internal/tier"
)

func testRecord(identity string) *Record {
	created := time.Date(2026, 3, 1, 12, 0, 0, 123456789, time.UTC)
	return &Record{
		Identity:      identity,
		PublicAddress: "9xQeWvG816bUx9EPjHmaT23yvVM2ZWbrrpZb9PusVFin",
		EncryptedKey: &crypto.EncryptedSecret{
			Version: crypto.FormatVersion, KDF: crypto.KDFScrypt, Cipher: crypto.CipherAESGCM,
			Scrypt: &crypto.ScryptParams{N: 1 << 10, R: 8, P: 1},
			Salt:   "c2FsdA==", Nonce: "bm9uY2U=", CipherText: "a2V5", Tag: "dGFn",
		},
		EncryptedMnemonic: &crypto.EncryptedSecret{
			Version: crypto.FormatVersion, KDF: crypto.KDFArgon2id, Cipher: crypto.CipherXChaCha20Poly1305,
			Argon2: &crypto.Argon2Params{Time: 1, MemoryKB: 8192, Threads: 1},
			Salt:   "c2FsdDI=", Nonce: "bm9uY2Uy", CipherText: "cGhyYXNl", Tag: "dGFnMg==",
		},
		SecurityTier: tier.Basic,
		WordCount:    24,
		CreatedAt:    created,
		UpdatedAt:    created.Add(time.Minute),
	}
}

func backends(t *testing.T) map[string]Store {
	t.Helper()
	fs, err := NewFileStore(t.TempDir(), "")
	require.NoError(t, err)
	sq, err := OpenSQLiteStore(filepath.Join(t.TempDir(), "wallets.db"), tier.MediumCompanion)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sq.Close() })

	return map[string]Store{
		"file":   fs,
		"sqlite": sq,
		"memory": NewMemoryStore(tier.MediumHardware),
	}
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			rec := testRecord("user-1")
			require.NoError(t, s.Save(ctx, rec))

			got, err := s.Load(ctx, "user-1")
			require.NoError(t, err)
			assert.Equal(t, rec, got)

			ok, err := s.Exists(ctx, "user-1")
			require.NoError(t, err)
			assert.True(t, ok)
		})
	}
}

func TestStoreSaveReplaces(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Save(ctx, testRecord("user-1")))

			next := testRecord("user-1")
			next.PublicAddress = "4Nd1mBQtrMJVYVfKf2PJy9NZUZdTAsp7D4xWLs4gDB4T"
			next.SecurityTier = tier.Enhanced
			next.WordCount = 12
			require.NoError(t, s.Save(ctx, next))

			got, err := s.Load(ctx, "user-1")
			require.NoError(t, err)
			assert.Equal(t, next, got)
		})
	}
}

func TestStoreClear(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Save(ctx, testRecord("user-1")))
			require.NoError(t, s.Save(ctx, testRecord("user-2")))
			require.NoError(t, s.Clear(ctx, "user-1"))

			ok, err := s.Exists(ctx, "user-1")
			require.NoError(t, err)
			assert.False(t, ok)

			_, err = s.Load(ctx, "user-1")
			assert.ErrorIs(t, err, ErrNotFound)

			// other identities are untouched
			_, err = s.Load(ctx, "user-2")
			assert.NoError(t, err)

			// clearing again is a no-op
			assert.NoError(t, s.Clear(ctx, "user-1"))
		})
	}
}

func TestStoreRejectsInvalid(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Load(ctx, "nobody")
			assert.ErrorIs(t, err, ErrNotFound)

			_, err = s.Load(ctx, " ")
			assert.ErrorIs(t, err, ErrInvalidIdentity)

			rec := testRecord("user-1")
			rec.EncryptedKey = nil
			assert.ErrorIs(t, s.Save(ctx, rec), ErrInvalidRecord)

			ok, err := s.Exists(ctx, "user-1")
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestStoreMedium(t *testing.T) {
	b := backends(t)
	assert.Equal(t, tier.MediumLocal, b["file"].Medium())
	assert.Equal(t, tier.MediumCompanion, b["sqlite"].Medium())
	assert.Equal(t, tier.MediumHardware, b["memory"].Medium())
}

func TestMemoryStoreCopiesRecords(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore("")
	rec := testRecord("user-1")
	require.NoError(t, s.Save(ctx, rec))

	rec.PublicAddress = "mutated"
	rec.EncryptedKey.Tag = "mutated"

	got, err := s.Load(ctx, "user-1")
	require.NoError(t, err)
	assert.NotEqual(t, "mutated", got.PublicAddress)
	assert.NotEqual(t, "mutated", got.EncryptedKey.Tag)
}

func TestFileStoreLayout(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := NewFileStore(dir, tier.MediumLocal)
	require.NoError(t, err)

	require.NoError(t, s.Save(ctx, testRecord("../../etc/passwd")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp file must not be left behind")

	name := entries[0].Name()
	assert.True(t, strings.HasSuffix(name, walletExt))
	assert.Len(t, strings.TrimSuffix(name, walletExt), 64)

	info, err := entries[0].Info()
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	data, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	assert.Equal(t, utf8BOM, data[:3])
	assert.NotContains(t, string(data), "abandon")
}

func TestFileStoreFailedWriteKeepsPrevious(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := NewFileStore(dir, "")
	require.NoError(t, err)

	require.NoError(t, s.Save(ctx, testRecord("user-1")))

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	next := testRecord("user-1")
	next.PublicAddress = "replaced"
	assert.Error(t, s.Save(canceled, next))

	got, err := s.Load(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, testRecord("user-1").PublicAddress, got.PublicAddress)
}

func TestFileStoreCorruptFile(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := NewFileStore(dir, "")
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(s.path("user-1"), []byte("{broken"), 0o600))
	_, err = s.Load(ctx, "user-1")
	assert.ErrorIs(t, err, ErrInvalidRecord)
}

func TestOpen(t *testing.T) {
	s, err := Open(Options{Kind: KindMemory})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	s, err = Open(Options{Kind: KindFile, Dir: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, s)

	_, err = Open(Options{Kind: "redis"})
	assert.Error(t, err)
}

func TestFileStoreEmptyFileExists(t *testing.T) {
	ctx := context.Background()
	s, err := NewFileStore(t.TempDir(), "")
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(s.path("user-1"), nil, 0o600))

	exists, err := s.Exists(ctx, "user-1")
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = s.Load(ctx, "user-1")
	assert.ErrorIs(t, err, ErrInvalidRecord)

	require.NoError(t, s.Clear(ctx, "user-1"))
	exists, err = s.Exists(ctx, "user-1")
	require.NoError(t, err)
	assert.False(t, exists)
}
