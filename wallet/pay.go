package wallet

import (
	"context"
	"fmt"
	"strings"

	"github.com/AlexZinkM/walletkeeper/internal/common"
	"github.com/AlexZinkM/walletkeeper/internal/ledger"

	"github.com/rs/zerolog/log"
)

const (
	opSend   = "send"
	opAnchor = "anchor"

	solFeeLamports = 5000 // Fee in lamports (0.000005 SOL)
)

// Send transfers amount SOL (decimal string) to address. It requires an
// active session and the password, since the session holds no key.
// password must be []byte for security (caller should zero it after use).
func (s *Service) Send(ctx context.Context, identity string, password []byte, to, amount string) (string, error) {
	if err := requireIdentity(opSend, identity); err != nil {
		return "", err
	}
	if len(password) == 0 {
		return "", missingField(opSend, "password")
	}
	if strings.TrimSpace(to) == "" {
		return "", missingField(opSend, "to")
	}
	if strings.TrimSpace(amount) == "" {
		return "", missingField(opSend, "amount")
	}
	if err := ledger.ValidateAddress(to); err != nil {
		return "", invalidField(opSend, "to", "not a valid address")
	}
	lamports, err := common.SOLToLamports(amount)
	if err != nil {
		return "", invalidField(opSend, "amount", err.Error())
	}
	if lamports == 0 {
		return "", invalidField(opSend, "amount", "must be greater than zero")
	}
	if err := s.requireLedger(opSend); err != nil {
		return "", err
	}
	if err := s.requireSession(opSend, identity); err != nil {
		return "", err
	}

	unlock := s.locks.lock(identity)
	defer unlock()

	rec, err := s.load(ctx, opSend, identity)
	if err != nil {
		return "", err
	}
	key, err := s.openKey(opSend, rec, password)
	if err != nil {
		return "", err
	}
	// Always clear private key from memory
	defer clear(key)

	bal, err := s.ledger.GetBalance(ctx, rec.PublicAddress)
	if err != nil {
		return "", s.ledgerError(opSend, err)
	}
	if required := lamports + solFeeLamports; bal.Lamports < required {
		var maxLamports uint64
		if bal.Lamports > solFeeLamports {
			maxLamports = bal.Lamports - solFeeLamports
		}
		return "", invalidField(opSend, "amount", fmt.Sprintf(
			"insufficient SOL balance. Transaction fee: %s SOL. Max you can send: %s SOL",
			common.LamportsToSOL(solFeeLamports), common.LamportsToSOL(maxLamports)))
	}

	txID, err := s.ledger.SendFunds(ctx, key, to, lamports)
	if err != nil {
		return "", s.ledgerError(opSend, err)
	}

	log.Info().Str("identity", identity).Str("to", to).Str("amount", common.LamportsToSOL(lamports)).Str("tx", txID).Msg("funds sent")
	return txID, nil
}

// Anchor records data on the ledger signed by the wallet key. It has the
// same session and password requirements as Send.
func (s *Service) Anchor(ctx context.Context, identity string, password, data []byte) (string, error) {
	if err := requireIdentity(opAnchor, identity); err != nil {
		return "", err
	}
	if len(password) == 0 {
		return "", missingField(opAnchor, "password")
	}
	if len(data) == 0 {
		return "", missingField(opAnchor, "data")
	}
	if len(data) > ledger.MaxAnchorSize {
		return "", invalidField(opAnchor, "data", fmt.Sprintf("must be at most %d bytes", ledger.MaxAnchorSize))
	}
	if err := s.requireLedger(opAnchor); err != nil {
		return "", err
	}
	if err := s.requireSession(opAnchor, identity); err != nil {
		return "", err
	}

	rec, err := s.load(ctx, opAnchor, identity)
	if err != nil {
		return "", err
	}
	key, err := s.openKey(opAnchor, rec, password)
	if err != nil {
		return "", err
	}
	defer clear(key)

	txID, err := s.ledger.AnchorData(ctx, key, data)
	if err != nil {
		return "", s.ledgerError(opAnchor, err)
	}
	log.Info().Str("identity", identity).Int("bytes", len(data)).Str("tx", txID).Msg("data anchored")
	return txID, nil
}
