package client

import (
	"context"
	"fmt"

	"github.com/AlexZinkM/walletkeeper/internal/ledger"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/rs/zerolog/log"
)

const (
	// memoProgramID is the SPL Memo program (v2).
	memoProgramID = "MemoSq4gqABAXKb96qnH8TyNbe5ZiJk3nPQUsR3KY5C"

	signatureLimit = 100
)

// SolanaLedger is a ledger.Ledger backed by a Solana JSON-RPC node.
type SolanaLedger struct {
	rpcClient *rpc.Client
	rpcURL    string
	memo      solana.PublicKey
}

var _ ledger.Ledger = (*SolanaLedger)(nil)

// NewSolanaLedger creates a client for the RPC node at rpcURL.
func NewSolanaLedger(rpcURL string) *SolanaLedger {
	return &SolanaLedger{
		rpcClient: rpc.New(rpcURL),
		rpcURL:    rpcURL,
		memo:      solana.MustPublicKeyFromBase58(memoProgramID),
	}
}

// GetBalance gets the SOL balance in lamports.
func (c *SolanaLedger) GetBalance(ctx context.Context, address string) (*ledger.Balance, error) {
	owner, err := solana.PublicKeyFromBase58(address)
	if err != nil {
		return nil, ledger.ErrInvalidAddress
	}

	balance, err := c.rpcClient.GetBalance(ctx, owner, rpc.CommitmentConfirmed)
	if err != nil {
		return nil, fmt.Errorf("failed to get SOL balance: %w", err)
	}
	return &ledger.Balance{Address: address, Lamports: balance.Value}, nil
}

// GetTransactions returns the native SOL transfers among the latest
// signatures for address, newest first. Confirmations are counted in
// slots since the transaction's slot.
func (c *SolanaLedger) GetTransactions(ctx context.Context, address string) ([]ledger.Transaction, error) {
	owner, err := solana.PublicKeyFromBase58(address)
	if err != nil {
		return nil, ledger.ErrInvalidAddress
	}

	limit := signatureLimit
	sigs, err := c.rpcClient.GetSignaturesForAddressWithOpts(ctx, owner, &rpc.GetSignaturesForAddressOpts{
		Limit:      &limit,
		Commitment: rpc.CommitmentConfirmed,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get signatures: %w", err)
	}

	currentSlot, err := c.rpcClient.GetSlot(ctx, rpc.CommitmentConfirmed)
	if err != nil {
		return nil, fmt.Errorf("failed to get slot: %w", err)
	}

	transactions := make([]ledger.Transaction, 0, len(sigs))
	for _, sig := range sigs {
		// maxVersion is hardcoded: new version support requires a library
		// update and rebuild anyway
		maxVersion := uint64(0)
		tx, err := c.rpcClient.GetTransaction(ctx, sig.Signature, &rpc.GetTransactionOpts{
			Encoding:                       solana.EncodingBase64,
			Commitment:                     rpc.CommitmentConfirmed,
			MaxSupportedTransactionVersion: &maxVersion,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to get transaction %s: %w", sig.Signature, err)
		}

		parsed, ok := parseTransfer(owner, tx)
		if !ok {
			continue
		}
		parsed.ID = sig.Signature.String()
		if currentSlot >= tx.Slot {
			parsed.Confirmations = currentSlot - tx.Slot + 1
		}
		transactions = append(transactions, parsed)
	}

	return transactions, nil
}

// parseTransfer extracts the owner's native SOL movement. The fee is
// separated out when the owner paid it; fee-only transactions are skipped.
func parseTransfer(owner solana.PublicKey, tx *rpc.GetTransactionResult) (ledger.Transaction, bool) {
	var out ledger.Transaction
	if tx == nil || tx.Meta == nil || tx.Transaction == nil {
		return out, false
	}
	decodedTx, err := tx.Transaction.GetTransaction()
	if err != nil {
		log.Debug().Err(err).Msg("skipping undecodable transaction")
		return out, false
	}

	accountKeys := decodedTx.Message.AccountKeys
	ownerIndex := -1
	for i, key := range accountKeys {
		if key.Equals(owner) {
			ownerIndex = i
			break
		}
	}
	if ownerIndex < 0 || ownerIndex >= len(tx.Meta.PreBalances) || ownerIndex >= len(tx.Meta.PostBalances) {
		return out, false
	}

	pre, post := tx.Meta.PreBalances[ownerIndex], tx.Meta.PostBalances[ownerIndex]
	delta := int64(post) - int64(pre)

	// Fee payer is index 0
	isFeePayer := ownerIndex == 0
	if isFeePayer {
		delta += int64(tx.Meta.Fee)
		out.FeeLamports = tx.Meta.Fee
	}
	if delta == 0 {
		return out, false
	}

	if tx.BlockTime != nil {
		out.Timestamp = tx.BlockTime.Time()
	}
	out.Failed = tx.Meta.Err != nil

	if delta > 0 {
		out.Direction = ledger.Incoming
		out.Amount = uint64(delta)
		out.FeeLamports = 0
		out.Counterparty = findCounterparty(accountKeys, tx.Meta, owner, func(pre, post uint64) bool { return pre > post })
	} else {
		out.Direction = ledger.Outgoing
		out.Amount = uint64(-delta)
		out.Counterparty = findCounterparty(accountKeys, tx.Meta, owner, func(pre, post uint64) bool { return post > pre })
	}
	return out, true
}

func findCounterparty(keys solana.PublicKeySlice, meta *rpc.TransactionMeta, owner solana.PublicKey, moved func(pre, post uint64) bool) string {
	for i, key := range keys {
		if i >= len(meta.PreBalances) || i >= len(meta.PostBalances) || key.Equals(owner) {
			continue
		}
		if moved(meta.PreBalances[i], meta.PostBalances[i]) {
			return key.String()
		}
	}
	return ""
}

// SendFunds signs and sends a SOL transfer.
// key must be the full 64-byte Solana private key (caller should zero it after use).
func (c *SolanaLedger) SendFunds(ctx context.Context, key solana.PrivateKey, to string, lamports uint64) (string, error) {
	toPubkey, err := solana.PublicKeyFromBase58(to)
	if err != nil {
		return "", ledger.ErrInvalidAddress
	}
	if len(key) != 64 {
		return "", fmt.Errorf("invalid private key length: expected 64 bytes")
	}
	from := key.PublicKey()

	transferInstruction := system.NewTransferInstruction(lamports, from, toPubkey).Build()
	return c.signAndSend(ctx, key, transferInstruction)
}

// AnchorData records data on-chain in a memo instruction signed by key.
func (c *SolanaLedger) AnchorData(ctx context.Context, key solana.PrivateKey, data []byte) (string, error) {
	if len(data) == 0 || len(data) > ledger.MaxAnchorSize {
		return "", fmt.Errorf("%w: %d bytes", ledger.ErrDataTooLarge, len(data))
	}
	if len(key) != 64 {
		return "", fmt.Errorf("invalid private key length: expected 64 bytes")
	}

	memoInstruction := solana.NewInstruction(
		c.memo,
		solana.AccountMetaSlice{solana.NewAccountMeta(key.PublicKey(), false, true)},
		data,
	)
	return c.signAndSend(ctx, key, memoInstruction)
}

func (c *SolanaLedger) signAndSend(ctx context.Context, key solana.PrivateKey, instruction solana.Instruction) (string, error) {
	payer := key.PublicKey()

	// GetRecentBlockhash is deprecated, use GetLatestBlockhash
	recent, err := c.rpcClient.GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
	if err != nil {
		return "", fmt.Errorf("failed to get recent blockhash: %w", err)
	}

	tx, err := solana.NewTransaction(
		[]solana.Instruction{instruction},
		recent.Value.Blockhash,
		solana.TransactionPayer(payer),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create transaction: %w", err)
	}

	_, err = tx.Sign(func(pub solana.PublicKey) *solana.PrivateKey {
		if payer.Equals(pub) {
			return &key
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to sign transaction: %w", err)
	}

	sig, err := c.rpcClient.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		SkipPreflight:       false,
		PreflightCommitment: rpc.CommitmentFinalized,
	})
	if err != nil {
		return "", fmt.Errorf("failed to send transaction: %w", err)
	}

	log.Info().Str("signature", sig.String()).Str("from", payer.String()).Msg("transaction sent")
	return sig.String(), nil
}
