package wallet

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

const (
	outdatedParamsWarning = "This wallet is encrypted with outdated key-derivation settings; change its password to upgrade."
)

// Unlock decrypts the stored private key with password to prove the
// password is correct, then starts a session. The key itself is wiped
// before returning; the session never holds key material.
// password must be []byte for security (caller should zero it after use).
func (s *Service) Unlock(ctx context.Context, identity string, password []byte) (*Result, error) {
	if err := requireIdentity(OpUnlock, identity); err != nil {
		return nil, err
	}
	if len(password) == 0 {
		return nil, missingField(OpUnlock, "password")
	}
	if err := ctx.Err(); err != nil {
		return nil, internal(OpUnlock, err)
	}

	rec, err := s.load(ctx, OpUnlock, identity)
	if err != nil {
		if err = s.concealMissing(OpUnlock, err, password); CodeOf(err) == CodeInvalidPassword {
			log.Info().Str("identity", identity).Msg("unlock failed")
		}
		return nil, err
	}

	key, err := s.openKey(OpUnlock, rec, password)
	if err != nil {
		log.Info().Str("identity", identity).Str("code", string(CodeOf(err))).Msg("unlock failed")
		return nil, err
	}
	clear(key)

	sess := s.sessions.Start(identity, rec.PublicAddress)
	log.Info().Str("identity", identity).Str("address", rec.PublicAddress).Str("session", sess.ID).Msg("wallet unlocked")

	expires := sess.ExpiresAt
	res := &Result{
		Address:   rec.PublicAddress,
		Tier:      rec.SecurityTier,
		WordCount: rec.WordCount,
		SessionID: sess.ID,
		ExpiresAt: &expires,
	}
	if s.codec.NeedsUpgrade(rec.EncryptedKey) {
		res.Warnings = append(res.Warnings, outdatedParamsWarning)
	}
	return res, nil
}

// Lock ends the identity's session. It reports whether one was open.
func (s *Service) Lock(identity string) bool {
	ended := s.sessions.End(identity)
	if ended {
		log.Info().Str("identity", identity).Msg("wallet locked")
	}
	return ended
}

// RevealMnemonic returns the recovery phrase for backup. It requires an
// active session and the password.
func (s *Service) RevealMnemonic(ctx context.Context, identity string, password []byte) (*Result, error) {
	if err := requireIdentity(OpReveal, identity); err != nil {
		return nil, err
	}
	if len(password) == 0 {
		return nil, missingField(OpReveal, "password")
	}
	if err := s.requireSession(OpReveal, identity); err != nil {
		return nil, err
	}
	rec, err := s.load(ctx, OpReveal, identity)
	if err != nil {
		return nil, err
	}
	m, err := s.openMnemonic(OpReveal, rec, password)
	if err != nil {
		return nil, err
	}

	log.Warn().Str("identity", identity).Msg("recovery phrase revealed")
	return &Result{
		Address:   rec.PublicAddress,
		Tier:      rec.SecurityTier,
		WordCount: m.WordCount(),
		Mnemonic:  m.String(),
	}, nil
}

// ChangePassword re-encrypts both secrets under newPassword using the
// codec's current parameters. The session, if any, stays open.
func (s *Service) ChangePassword(ctx context.Context, identity string, oldPassword, newPassword []byte) (*Result, error) {
	if err := requireIdentity(OpPasswd, identity); err != nil {
		return nil, err
	}
	if len(oldPassword) == 0 {
		return nil, missingField(OpPasswd, "password")
	}
	if err := s.checkNewPassword(OpPasswd, "newPassword", newPassword); err != nil {
		return nil, err
	}

	unlock := s.locks.lock(identity)
	defer unlock()

	rec, err := s.load(ctx, OpPasswd, identity)
	if err != nil {
		return nil, s.concealMissing(OpPasswd, err, oldPassword)
	}
	key, err := s.openKey(OpPasswd, rec, oldPassword)
	if err != nil {
		return nil, err
	}
	defer clear(key)
	m, err := s.openMnemonic(OpPasswd, rec, oldPassword)
	if err != nil {
		return nil, err
	}

	encKey, err := s.codec.Encrypt(key, newPassword)
	if err != nil {
		return nil, internal(OpPasswd, fmt.Errorf("failed to encrypt private key: %w", err))
	}
	phrase := []byte(m.String())
	encPhrase, err := s.codec.Encrypt(phrase, newPassword)
	clear(phrase)
	if err != nil {
		return nil, internal(OpPasswd, fmt.Errorf("failed to encrypt recovery phrase: %w", err))
	}

	next := rec.Clone()
	next.EncryptedKey = encKey
	next.EncryptedMnemonic = encPhrase
	next.UpdatedAt = s.now().UTC()
	if err := ctx.Err(); err != nil {
		return nil, internal(OpPasswd, err)
	}
	if err := s.store.Save(ctx, next); err != nil {
		return nil, internal(OpPasswd, fmt.Errorf("failed to save wallet: %w", err))
	}

	log.Info().Str("identity", identity).Str("kdf", encKey.KDF).Str("cipher", encKey.Cipher).Msg("wallet password changed")
	return &Result{
		Address:   next.PublicAddress,
		Tier:      next.SecurityTier,
		WordCount: next.WordCount,
	}, nil
}

// IsUnlocked reports whether identity has an active session.
func (s *Service) IsUnlocked(identity string) bool {
	return s.sessions.IsActive(identity)
}
