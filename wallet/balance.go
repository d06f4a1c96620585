package wallet

import (
	"context"
	"errors"
	"fmt"

	"github.com/AlexZinkM/walletkeeper/internal/common"
	"github.com/AlexZinkM/walletkeeper/internal/ledger"

	"github.com/rs/zerolog/log"
)

const (
	opBalance      = "balance"
	opTransactions = "transactions"
)

// BalanceResult is the wallet's balance with an optional fiat valuation.
type BalanceResult struct {
	Address  string   `json:"address"`
	Lamports uint64   `json:"lamports"`
	SOL      string   `json:"sol"`
	Currency string   `json:"currency,omitempty"`
	Rate     string   `json:"rate,omitempty"`
	Value    string   `json:"value,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

func (s *Service) ledgerError(op string, err error) error {
	if errors.Is(err, ledger.ErrInvalidAddress) {
		return invalidField(op, "address", err.Error())
	}
	return newError(op, CodeLedger, "ledger unavailable, try again later", err)
}

func (s *Service) requireLedger(op string) error {
	if s.ledger == nil {
		return internal(op, errors.New("no ledger configured"))
	}
	return nil
}

// Balance looks up the wallet's balance. Ledger failures are returned to
// the caller without retrying; a failing price source only adds a warning.
func (s *Service) Balance(ctx context.Context, identity string) (*BalanceResult, error) {
	if err := requireIdentity(opBalance, identity); err != nil {
		return nil, err
	}
	if err := s.requireLedger(opBalance); err != nil {
		return nil, err
	}
	rec, err := s.load(ctx, opBalance, identity)
	if err != nil {
		return nil, err
	}

	bal, err := s.ledger.GetBalance(ctx, rec.PublicAddress)
	if err != nil {
		return nil, s.ledgerError(opBalance, err)
	}

	res := &BalanceResult{
		Address:  rec.PublicAddress,
		Lamports: bal.Lamports,
		SOL:      common.LamportsToSOL(bal.Lamports),
	}
	if s.price == nil || s.currency == "" {
		return res, nil
	}

	rate, err := s.price.Rate(ctx, s.currency)
	if err == nil {
		res.Value, err = common.FiatValue(bal.Lamports, rate)
	}
	if err != nil {
		log.Warn().Err(err).Str("currency", s.currency).Msg("failed to value balance")
		res.Warnings = append(res.Warnings, fmt.Sprintf("%s valuation unavailable", s.currency))
		res.Value = ""
		return res, nil
	}
	res.Currency = s.currency
	res.Rate = rate
	return res, nil
}

// Transactions lists recent native transfers touching the wallet.
func (s *Service) Transactions(ctx context.Context, identity string) ([]ledger.Transaction, error) {
	if err := requireIdentity(opTransactions, identity); err != nil {
		return nil, err
	}
	if err := s.requireLedger(opTransactions); err != nil {
		return nil, err
	}
	rec, err := s.load(ctx, opTransactions, identity)
	if err != nil {
		return nil, err
	}

	txs, err := s.ledger.GetTransactions(ctx, rec.PublicAddress)
	if err != nil {
		return nil, s.ledgerError(opTransactions, err)
	}
	if txs == nil {
		txs = []ledger.Transaction{}
	}
	return txs, nil
}
