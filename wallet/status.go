package wallet

import (
	"context"
	"fmt"
	"strings"

	"github.com/AlexZinkM/walletkeeper/internal/tier"

	"github.com/rs/zerolog/log"
	"github.com/skip2/go-qrcode"
)

const (
	opStatus = "status"
	opQR     = "qr"

	DefaultQRSize = 256
	minQRSize     = 64
	maxQRSize     = 1024
)

// Status reports the stored wallet's address, tier guidance and session
// state. Nothing is decrypted.
func (s *Service) Status(ctx context.Context, identity string) (*Status, error) {
	if err := requireIdentity(opStatus, identity); err != nil {
		return nil, err
	}
	rec, err := s.load(ctx, opStatus, identity)
	if err != nil {
		return nil, err
	}

	st := &Status{
		Address:         rec.PublicAddress,
		Tier:            rec.SecurityTier,
		Description:     tier.Describe(rec.SecurityTier),
		Recommendations: tier.Recommendations(rec.SecurityTier),
		Medium:          s.store.Medium(),
		WordCount:       rec.WordCount,
		CreatedAt:       rec.CreatedAt,
		UpdatedAt:       rec.UpdatedAt,
	}
	if sess, ok := s.sessions.Active(identity); ok && sess.Address == rec.PublicAddress {
		st.Unlocked = true
		expires := sess.ExpiresAt
		st.ExpiresAt = &expires
	}
	return st, nil
}

// ParseTier reads a tier name from a request. A blank name is a missing
// field; anything else unknown is invalid.
func ParseTier(name string) (tier.Tier, error) {
	if strings.TrimSpace(name) == "" {
		return "", missingField(OpSetTier, "tier")
	}
	t, err := tier.Parse(name)
	if err != nil {
		return "", invalidField(OpSetTier, "tier", "must be BASIC, ENHANCED or MAXIMUM")
	}
	return t, nil
}

// SetTier relabels the stored wallet. Tiers are advisory and never gate
// an operation.
func (s *Service) SetTier(ctx context.Context, identity string, t tier.Tier) (*Status, error) {
	if err := requireIdentity(OpSetTier, identity); err != nil {
		return nil, err
	}
	if t == "" {
		return nil, missingField(OpSetTier, "tier")
	}
	if !t.Valid() {
		return nil, invalidField(OpSetTier, "tier", "must be BASIC, ENHANCED or MAXIMUM")
	}

	unlock := s.locks.lock(identity)
	rec, err := s.load(ctx, OpSetTier, identity)
	if err != nil {
		unlock()
		return nil, err
	}
	if rec.SecurityTier != t {
		rec.SecurityTier = t
		rec.UpdatedAt = s.now().UTC()
		if err := s.store.Save(ctx, rec); err != nil {
			unlock()
			return nil, internal(OpSetTier, fmt.Errorf("failed to save wallet: %w", err))
		}
		log.Info().Str("identity", identity).Str("tier", t.String()).Msg("security tier changed")
	}
	unlock()

	return s.Status(ctx, identity)
}

// Clear deletes the stored wallet and ends its session.
func (s *Service) Clear(ctx context.Context, identity string) error {
	if err := requireIdentity(OpClear, identity); err != nil {
		return err
	}

	unlock := s.locks.lock(identity)
	defer unlock()

	exists, err := s.store.Exists(ctx, identity)
	if err != nil {
		return internal(OpClear, err)
	}
	if !exists {
		return newError(OpClear, CodeNotFound, "no wallet found", nil)
	}
	if err := s.store.Clear(ctx, identity); err != nil {
		return internal(OpClear, fmt.Errorf("failed to clear wallet: %w", err))
	}
	s.sessions.End(identity)

	log.Info().Str("identity", identity).Msg("wallet cleared")
	return nil
}

// AddressQR renders the public address as a size×size PNG QR code. A size
// of 0 means DefaultQRSize.
func (s *Service) AddressQR(ctx context.Context, identity string, size int) ([]byte, error) {
	if err := requireIdentity(opQR, identity); err != nil {
		return nil, err
	}
	if size == 0 {
		size = DefaultQRSize
	}
	if size < minQRSize || size > maxQRSize {
		return nil, invalidField(opQR, "size", fmt.Sprintf("must be between %d and %d", minQRSize, maxQRSize))
	}
	rec, err := s.load(ctx, opQR, identity)
	if err != nil {
		return nil, err
	}

	png, err := qrcode.Encode(rec.PublicAddress, qrcode.Medium, size)
	if err != nil {
		return nil, internal(opQR, fmt.Errorf("failed to generate QR code: %w", err))
	}
	return png, nil
}
