// Package store persists encrypted wallet records, one per identity.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/AlexZinkM/walletkeeper/internal/crypto"
	"github.com/AlexZinkM/walletkeeper/internal/tier"
)

var (
	ErrNotFound        = errors.New("no wallet found")
	ErrInvalidIdentity = errors.New("identity cannot be empty")
	ErrInvalidRecord   = errors.New("invalid wallet record")
)

// Record is the persisted form of a wallet. Only the address is stored in
// plaintext.
type Record struct {
	Identity          string                  `json:"identity"`
	PublicAddress     string                  `json:"publicAddress"`
	EncryptedKey      *crypto.EncryptedSecret `json:"encryptedKey"`
	EncryptedMnemonic *crypto.EncryptedSecret `json:"encryptedMnemonic"`
	SecurityTier      tier.Tier               `json:"securityTier"`
	WordCount         int                     `json:"wordCount"`
	CreatedAt         time.Time               `json:"createdAt"`
	UpdatedAt         time.Time               `json:"updatedAt"`
}

// Validate checks the fields every backend requires.
func (r *Record) Validate() error {
	if r == nil {
		return fmt.Errorf("%w: nil record", ErrInvalidRecord)
	}
	if strings.TrimSpace(r.Identity) == "" {
		return ErrInvalidIdentity
	}
	if r.PublicAddress == "" {
		return fmt.Errorf("%w: missing public address", ErrInvalidRecord)
	}
	if r.EncryptedKey == nil || r.EncryptedMnemonic == nil {
		return fmt.Errorf("%w: missing encrypted secret", ErrInvalidRecord)
	}
	return nil
}

// Clone returns a deep copy.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	out := *r
	out.EncryptedKey = r.EncryptedKey.Clone()
	out.EncryptedMnemonic = r.EncryptedMnemonic.Clone()
	return &out
}

// Store is a wallet record backend. Save replaces any existing record for
// the identity; a failed Save leaves the previous record intact.
type Store interface {
	Save(ctx context.Context, rec *Record) error
	Load(ctx context.Context, identity string) (*Record, error)
	Exists(ctx context.Context, identity string) (bool, error)
	Clear(ctx context.Context, identity string) error
	Medium() tier.Medium
	Close() error
}

const (
	KindFile   = "file"
	KindSQLite = "sqlite"
	KindMemory = "memory"
)

// Options select and configure a backend for Open.
type Options struct {
	Kind       string
	Dir        string
	SQLitePath string
	Medium     tier.Medium
}

// Open returns the backend named by opts.Kind.
func Open(opts Options) (Store, error) {
	switch opts.Kind {
	case KindFile, "":
		return NewFileStore(opts.Dir, opts.Medium)
	case KindSQLite:
		return OpenSQLiteStore(opts.SQLitePath, opts.Medium)
	case KindMemory:
		return NewMemoryStore(opts.Medium), nil
	}
	return nil, fmt.Errorf("unknown store kind %q", opts.Kind)
}

func checkIdentity(identity string) error {
	if strings.TrimSpace(identity) == "" {
		return ErrInvalidIdentity
	}
	return nil
}
