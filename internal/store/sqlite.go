package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/AlexZinkM/walletkeeper/internal/crypto"
	"github.com/AlexZinkM/walletkeeper/internal/tier"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps wallet records in a local SQLite database.
type SQLiteStore struct {
	db     *sql.DB
	medium tier.Medium
}

// OpenSQLiteStore opens/creates the database at path and runs migrations.
func OpenSQLiteStore(path string, medium tier.Medium) (*SQLiteStore, error) {
	if path == "" {
		return nil, errors.New("sqlite path cannot be empty")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}
	// A single connection keeps ":memory:" databases shared and serialises writers.
	db.SetMaxOpenConns(1)

	if medium == "" {
		medium = tier.MediumLocal
	}
	s := &SQLiteStore{db: db, medium: medium}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS wallets (
  identity TEXT PRIMARY KEY,
  public_address TEXT NOT NULL,
  encrypted_key TEXT NOT NULL,
  encrypted_mnemonic TEXT NOT NULL,
  security_tier TEXT NOT NULL,
  word_count INTEGER NOT NULL,
  created_at INTEGER NOT NULL,
  updated_at INTEGER NOT NULL
);
`)
	if err != nil {
		return fmt.Errorf("failed to migrate sqlite: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Save(ctx context.Context, rec *Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	key, err := rec.EncryptedKey.Marshal()
	if err != nil {
		return fmt.Errorf("failed to marshal encrypted key: %w", err)
	}
	phrase, err := rec.EncryptedMnemonic.Marshal()
	if err != nil {
		return fmt.Errorf("failed to marshal encrypted mnemonic: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	_, err = tx.ExecContext(ctx, `
INSERT INTO wallets(identity, public_address, encrypted_key, encrypted_mnemonic, security_tier, word_count, created_at, updated_at)
VALUES(?,?,?,?,?,?,?,?)
ON CONFLICT(identity) DO UPDATE SET
  public_address=excluded.public_address,
  encrypted_key=excluded.encrypted_key,
  encrypted_mnemonic=excluded.encrypted_mnemonic,
  security_tier=excluded.security_tier,
  word_count=excluded.word_count,
  created_at=excluded.created_at,
  updated_at=excluded.updated_at`,
		rec.Identity, rec.PublicAddress, string(key), string(phrase), rec.SecurityTier.String(), rec.WordCount,
		rec.CreatedAt.UnixNano(), rec.UpdatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to save wallet: %w", err)
	}
	return tx.Commit()
}

func (s *SQLiteStore) Load(ctx context.Context, identity string) (*Record, error) {
	if err := checkIdentity(identity); err != nil {
		return nil, err
	}

	var (
		rec              = Record{Identity: identity}
		key, phrase, tr  string
		created, updated int64
	)
	err := s.db.QueryRowContext(ctx, `
SELECT public_address, encrypted_key, encrypted_mnemonic, security_tier, word_count, created_at, updated_at
FROM wallets WHERE identity = ?`, identity).
		Scan(&rec.PublicAddress, &key, &phrase, &tr, &rec.WordCount, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load wallet: %w", err)
	}

	if rec.EncryptedKey, err = crypto.ParseEncryptedSecret([]byte(key)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	if rec.EncryptedMnemonic, err = crypto.ParseEncryptedSecret([]byte(phrase)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	if rec.SecurityTier, err = tier.Parse(tr); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	rec.CreatedAt = time.Unix(0, created).UTC()
	rec.UpdatedAt = time.Unix(0, updated).UTC()
	return &rec, nil
}

func (s *SQLiteStore) Exists(ctx context.Context, identity string) (bool, error) {
	if err := checkIdentity(identity); err != nil {
		return false, err
	}
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM wallets WHERE identity = ?`, identity).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to query wallet: %w", err)
	}
	return n > 0, nil
}

func (s *SQLiteStore) Clear(ctx context.Context, identity string) error {
	if err := checkIdentity(identity); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM wallets WHERE identity = ?`, identity); err != nil {
		return fmt.Errorf("failed to clear wallet: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Medium() tier.Medium { return s.medium }

// Close closes the underlying database handle.
func (s *SQLiteStore) Close() error { return s.db.Close() }
