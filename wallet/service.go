// Package wallet orchestrates wallet creation, restoration and unlocking
// for authenticated identities. The surrounding system authenticates the
// caller; every verb here takes the identity as given.
package wallet

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/AlexZinkM/walletkeeper/internal/crypto"
	"github.com/AlexZinkM/walletkeeper/internal/entropy"
	"github.com/AlexZinkM/walletkeeper/internal/ledger"
	"github.com/AlexZinkM/walletkeeper/internal/mnemonic"
	"github.com/AlexZinkM/walletkeeper/internal/session"
	"github.com/AlexZinkM/walletkeeper/internal/store"
	"github.com/AlexZinkM/walletkeeper/internal/tier"

	"github.com/gagliardetto/solana-go"
)

// Policy holds deployment choices that change observable behavior.
type Policy struct {
	// ConcealMissingWallet reports a missing wallet on unlock and password
	// change as a wrong password, after spending the same KDF time, so
	// those verbs do not reveal which identities hold a wallet.
	ConcealMissingWallet bool
	// MinPasswordLength rejects shorter passwords on create, restore and
	// password change. Zero disables the check.
	MinPasswordLength int
}

// Options wire a Service. Store and Codec are required.
type Options struct {
	Store    store.Store
	Codec    *crypto.Codec
	Sessions *session.Manager
	Entropy  *entropy.Source
	Deriver  mnemonic.Deriver
	Ledger   ledger.Ledger
	Price    ledger.PriceSource
	// Currency is the fiat currency for balance valuation, e.g. "usd".
	Currency string
	Policy   Policy
	Now      func() time.Time
}

// Service implements the wallet verbs. It is safe for concurrent use;
// verbs that modify a record are serialized per identity.
type Service struct {
	store    store.Store
	codec    *crypto.Codec
	sessions *session.Manager
	entropy  *entropy.Source
	deriver  mnemonic.Deriver
	ledger   ledger.Ledger
	price    ledger.PriceSource
	currency string
	policy   Policy
	now      func() time.Time
	locks    keyedMutex
}

// New builds a Service from opts, filling defaults for optional parts.
func New(opts Options) (*Service, error) {
	if opts.Store == nil {
		return nil, errors.New("wallet store is required")
	}
	if opts.Codec == nil {
		return nil, errors.New("secret codec is required")
	}
	s := &Service{
		store:    opts.Store,
		codec:    opts.Codec,
		sessions: opts.Sessions,
		entropy:  opts.Entropy,
		deriver:  opts.Deriver,
		ledger:   opts.Ledger,
		price:    opts.Price,
		currency: opts.Currency,
		policy:   opts.Policy,
		now:      opts.Now,
		locks:    keyedMutex{locks: make(map[string]*refLock)},
	}
	if s.sessions == nil {
		s.sessions = session.NewManager(session.DefaultLifetime)
	}
	if s.entropy == nil {
		s.entropy = entropy.New()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s, nil
}

// Sessions returns the session manager, for subscribing to session events.
func (s *Service) Sessions() *session.Manager { return s.sessions }

// Entropy returns the entropy source.
func (s *Service) Entropy() *entropy.Source { return s.entropy }

// Medium returns the storage medium of the configured store.
func (s *Service) Medium() tier.Medium { return s.store.Medium() }

// Result is returned by create, restore, unlock and reveal. Mnemonic is
// set only by Create and RevealMnemonic.
type Result struct {
	Address   string     `json:"publicAddress"`
	Tier      tier.Tier  `json:"tier"`
	WordCount int        `json:"wordCount"`
	Mnemonic  string     `json:"mnemonic,omitempty"`
	Warnings  []string   `json:"warnings,omitempty"`
	SessionID string     `json:"sessionId,omitempty"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

// Status describes a stored wallet without decrypting anything.
type Status struct {
	Address         string      `json:"publicAddress"`
	Tier            tier.Tier   `json:"tier"`
	Description     string      `json:"description"`
	Recommendations []string    `json:"recommendations"`
	Medium          tier.Medium `json:"medium"`
	WordCount       int         `json:"wordCount"`
	Unlocked        bool        `json:"unlocked"`
	ExpiresAt       *time.Time  `json:"expiresAt,omitempty"`
	CreatedAt       time.Time   `json:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt"`
}

type refLock struct {
	sync.Mutex
	refs int
}

// keyedMutex serializes work per key and forgets keys nobody holds.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*refLock
}

func (k *keyedMutex) lock(key string) (unlock func()) {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = &refLock{}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	l.Lock()
	return func() {
		l.Unlock()
		k.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}

func requireIdentity(op, identity string) error {
	if strings.TrimSpace(identity) == "" {
		return missingField(op, "identity")
	}
	return nil
}

// checkNewPassword validates a password that is about to protect a record.
func (s *Service) checkNewPassword(op, field string, password []byte) error {
	if len(password) == 0 {
		return missingField(op, field)
	}
	if n := s.policy.MinPasswordLength; n > 0 && utf8.RuneCount(password) < n {
		return invalidField(op, field, fmt.Sprintf("must be at least %d characters", n))
	}
	return nil
}

func (s *Service) load(ctx context.Context, op, identity string) (*store.Record, error) {
	rec, err := s.store.Load(ctx, identity)
	if errors.Is(err, store.ErrNotFound) {
		return nil, newError(op, CodeNotFound, "no wallet found", err)
	}
	if err != nil {
		return nil, internal(op, err)
	}
	return rec, nil
}

// concealMissing reports a missing wallet as a wrong password, after the
// same KDF work, when the policy asks for it. Only verbs that take the
// wallet password use it; the session gate already answers Locked for
// reveal, send and anchor whether or not a wallet exists.
func (s *Service) concealMissing(op string, err error, password []byte) error {
	if !s.policy.ConcealMissingWallet || CodeOf(err) != CodeNotFound {
		return err
	}
	s.codec.Burn(password)
	return newError(op, CodeInvalidPassword, "wrong password", ErrInvalidPassword)
}

// openKey decrypts the record's private key and checks it against the
// stored address. The caller must clear the returned key.
func (s *Service) openKey(op string, rec *store.Record, password []byte) (solana.PrivateKey, error) {
	raw, err := s.codec.Decrypt(rec.EncryptedKey, password)
	if errors.Is(err, crypto.ErrDecryptionFailed) {
		return nil, newError(op, CodeInvalidPassword, "wrong password", err)
	}
	if err != nil {
		return nil, internal(op, err)
	}
	// Verify private key length (we store the full 64-byte key)
	if len(raw) != 64 {
		clear(raw)
		return nil, internal(op, errors.New("invalid private key length"))
	}
	key := solana.PrivateKey(raw)
	if key.PublicKey().String() != rec.PublicAddress {
		clear(key)
		return nil, internal(op, ledger.ErrInvalidKey)
	}
	return key, nil
}

// openMnemonic decrypts the record's recovery phrase.
func (s *Service) openMnemonic(op string, rec *store.Record, password []byte) (mnemonic.Mnemonic, error) {
	raw, err := s.codec.Decrypt(rec.EncryptedMnemonic, password)
	if errors.Is(err, crypto.ErrDecryptionFailed) {
		return "", newError(op, CodeInvalidPassword, "wrong password", err)
	}
	if err != nil {
		return "", internal(op, err)
	}
	defer clear(raw)
	return mnemonic.Mnemonic(raw), nil
}

func (s *Service) requireSession(op, identity string) error {
	if !s.sessions.IsActive(identity) {
		return newError(op, CodeLocked, "wallet is locked: unlock it first", nil)
	}
	return nil
}
