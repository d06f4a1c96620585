package wallet

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/AlexZinkM/walletkeeper/internal/entropy"
	"github.com/AlexZinkM/walletkeeper/internal/mnemonic"
	"github.com/AlexZinkM/walletkeeper/internal/store"
	"github.com/AlexZinkM/walletkeeper/internal/tier"

	"github.com/rs/zerolog/log"
)

const (
	defaultWordCount = 12

	degradedEntropyWarning = "No cryptographic random number generator was available; " +
		"this wallet was generated with weak entropy. Move funds to a new wallet created on a healthy system."
)

// Create generates a new wallet for identity and stores it encrypted under
// password. A wordCount of 0 means 12. The new recovery phrase is returned
// once in Result.Mnemonic and never stored in plaintext.
// password must be []byte for security (caller should zero it after use).
func (s *Service) Create(ctx context.Context, identity string, wordCount int, password []byte) (*Result, error) {
	size, err := s.checkCreate(identity, wordCount, password)
	if err != nil {
		return nil, err
	}
	buf, err := s.entropy.Generate(size)
	if err != nil {
		return nil, internal(OpCreate, err)
	}
	defer buf.Release()
	return s.createFrom(ctx, identity, buf, password)
}

// CreateFrom is Create with an entropy buffer generated by the caller, so
// that interactive samples gathered while prompting can still be folded in
// before the phrase is derived. The buffer size selects the word count.
// CreateFrom does not release buf.
func (s *Service) CreateFrom(ctx context.Context, identity string, buf *entropy.Buffer, password []byte) (*Result, error) {
	if buf == nil {
		return nil, missingField(OpCreate, "entropy")
	}
	words := mnemonic.WordCountFor(buf.Len())
	if words == 0 {
		return nil, invalidField(OpCreate, "entropy", "must be 16 or 32 bytes")
	}
	if _, err := s.checkCreate(identity, words, password); err != nil {
		return nil, err
	}
	return s.createFrom(ctx, identity, buf, password)
}

func (s *Service) checkCreate(identity string, wordCount int, password []byte) (int, error) {
	if err := requireIdentity(OpCreate, identity); err != nil {
		return 0, err
	}
	if err := s.checkNewPassword(OpCreate, "password", password); err != nil {
		return 0, err
	}
	if wordCount == 0 {
		wordCount = defaultWordCount
	}
	size := mnemonic.EntropySize(wordCount)
	if size == 0 {
		return 0, invalidField(OpCreate, "wordCount", "must be 12 or 24")
	}
	return size, nil
}

func (s *Service) createFrom(ctx context.Context, identity string, buf *entropy.Buffer, password []byte) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, internal(OpCreate, err)
	}

	raw := buf.Bytes()
	m, err := mnemonic.EntropyToMnemonic(raw)
	clear(raw)
	if err != nil {
		return nil, internal(OpCreate, err)
	}

	var warnings []string
	if buf.Degraded() {
		warnings = append(warnings, degradedEntropyWarning)
	}

	unlock := s.locks.lock(identity)
	defer unlock()

	rec, err := s.persist(ctx, OpCreate, identity, m, password)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("identity", identity).
		Str("address", rec.PublicAddress).
		Int("words", rec.WordCount).
		Str("entropy_provider", buf.Provider()).
		Bool("entropy_degraded", buf.Degraded()).
		Msg("wallet created")

	return &Result{
		Address:   rec.PublicAddress,
		Tier:      rec.SecurityTier,
		WordCount: rec.WordCount,
		Mnemonic:  m.String(),
		Warnings:  warnings,
	}, nil
}

// Restore validates phrase, derives its keypair and stores it encrypted
// under password, replacing any existing wallet for identity. An invalid
// phrase is rejected before the store is touched.
// password must be []byte for security (caller should zero it after use).
func (s *Service) Restore(ctx context.Context, identity, phrase string, password []byte) (*Result, error) {
	if err := requireIdentity(OpRestore, identity); err != nil {
		return nil, err
	}
	if strings.TrimSpace(phrase) == "" {
		return nil, missingField(OpRestore, "mnemonic")
	}
	if err := s.checkNewPassword(OpRestore, "password", password); err != nil {
		return nil, err
	}
	m, err := mnemonic.Parse(phrase)
	if err != nil {
		return nil, newError(OpRestore, CodeInvalidMnemonic, err.Error(), err)
	}
	if err := ctx.Err(); err != nil {
		return nil, internal(OpRestore, err)
	}

	unlock := s.locks.lock(identity)
	defer unlock()

	rec, err := s.persist(ctx, OpRestore, identity, m, password)
	if err != nil {
		return nil, err
	}

	log.Info().Str("identity", identity).Str("address", rec.PublicAddress).Int("words", rec.WordCount).Msg("wallet restored")
	return &Result{
		Address:   rec.PublicAddress,
		Tier:      rec.SecurityTier,
		WordCount: rec.WordCount,
	}, nil
}

// Verify reports whether phrase is a valid 12 or 24 word recovery phrase.
// Nothing is stored.
func (s *Service) Verify(phrase string) bool {
	return mnemonic.Validate(phrase)
}

// CheckPhrase is Verify for request boundaries: a blank phrase is a
// missing field rather than an invalid phrase.
func (s *Service) CheckPhrase(phrase string) (bool, error) {
	if strings.TrimSpace(phrase) == "" {
		return false, missingField(OpVerify, "mnemonic")
	}
	return s.Verify(phrase), nil
}

// persist derives the keypair for m, encrypts key and phrase under
// password and saves the record. Any previous session for the identity
// is ended because it referred to the replaced wallet. Callers hold the
// identity lock.
func (s *Service) persist(ctx context.Context, op, identity string, m mnemonic.Mnemonic, password []byte) (*store.Record, error) {
	kp, err := s.deriver.DeriveKeypair(m)
	if err != nil {
		if errors.Is(err, mnemonic.ErrInvalidMnemonic) {
			return nil, newError(op, CodeInvalidMnemonic, err.Error(), err)
		}
		return nil, internal(op, err)
	}
	defer kp.Wipe()

	encKey, err := s.codec.Encrypt(kp.PrivateKey, password)
	if err != nil {
		return nil, internal(op, fmt.Errorf("failed to encrypt private key: %w", err))
	}
	phrase := []byte(m.String())
	encPhrase, err := s.codec.Encrypt(phrase, password)
	clear(phrase)
	if err != nil {
		return nil, internal(op, fmt.Errorf("failed to encrypt recovery phrase: %w", err))
	}

	now := s.now().UTC()
	rec := &store.Record{
		Identity:          identity,
		PublicAddress:     kp.Address,
		EncryptedKey:      encKey,
		EncryptedMnemonic: encPhrase,
		SecurityTier:      tier.ForMedium(s.store.Medium()),
		WordCount:         m.WordCount(),
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if prev, err := s.store.Exists(ctx, identity); err == nil && prev {
		log.Warn().Str("identity", identity).Str("op", op).Msg("replacing existing wallet")
	}
	if err := s.store.Save(ctx, rec); err != nil {
		return nil, internal(op, fmt.Errorf("failed to save wallet: %w", err))
	}
	s.sessions.End(identity)
	return rec, nil
}
