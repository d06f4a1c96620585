// Package ledger defines the capability interface through which the wallet
// reaches the external ledger. The wallet treats the ledger as an opaque
// oracle: it never retries and never interprets consensus rules.
package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/gagliardetto/solana-go"
)

var (
	ErrInvalidAddress = errors.New("invalid address")
	ErrInvalidKey     = errors.New("private key does not match address")
	ErrDataTooLarge   = errors.New("anchor data too large")
)

// MaxAnchorSize is the largest payload AnchorData accepts.
const MaxAnchorSize = 512

// Direction is the flow of funds relative to the queried address.
type Direction string

const (
	Incoming Direction = "in"
	Outgoing Direction = "out"
)

// Balance is the native balance of an address in base units (lamports).
type Balance struct {
	Address  string `json:"address"`
	Lamports uint64 `json:"lamports"`
}

// Transaction is one native transfer touching an address.
type Transaction struct {
	ID            string    `json:"id"`
	Amount        uint64    `json:"amount"`
	Confirmations uint64    `json:"confirmations"`
	Timestamp     time.Time `json:"timestamp"`
	Direction     Direction `json:"direction"`
	Counterparty  string    `json:"counterparty,omitempty"`
	FeeLamports   uint64    `json:"feeLamports"`
	Failed        bool      `json:"failed,omitempty"`
}

// Ledger is the external balance/transaction oracle. Implementations may
// fail transiently; callers decide whether to retry.
type Ledger interface {
	GetBalance(ctx context.Context, address string) (*Balance, error)
	GetTransactions(ctx context.Context, address string) ([]Transaction, error)
	SendFunds(ctx context.Context, key solana.PrivateKey, to string, lamports uint64) (string, error)
	AnchorData(ctx context.Context, key solana.PrivateKey, data []byte) (string, error)
}

// PriceSource values native units in a fiat currency.
type PriceSource interface {
	// Rate returns the fiat price of one whole SOL as a decimal string.
	Rate(ctx context.Context, currency string) (string, error)
}

// ValidateAddress reports ErrInvalidAddress for anything that is not a
// base58 ed25519 public key.
func ValidateAddress(address string) error {
	if _, err := solana.PublicKeyFromBase58(address); err != nil {
		return ErrInvalidAddress
	}
	return nil
}
