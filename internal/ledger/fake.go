package ledger

import (
	"context"
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"
)

// Fake is a deterministic in-memory ledger. Transfers move lamports
// between addresses without fees unless FeeLamports is set.
type Fake struct {
	mu          sync.Mutex
	balances    map[string]uint64
	txs         map[string][]Transaction
	anchors     map[string][]byte
	seq         int
	FeeLamports uint64
	// Err, when set, is returned by every call.
	Err error
	// Now stamps transactions; defaults to a fixed instant.
	Now func() time.Time
}

// NewFake returns an empty fake ledger.
func NewFake() *Fake {
	return &Fake{
		balances: make(map[string]uint64),
		txs:      make(map[string][]Transaction),
		anchors:  make(map[string][]byte),
		Now:      func() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) },
	}
}

// Fund credits address with lamports as an incoming transaction.
func (f *Fake) Fund(address string, lamports uint64) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.nextIDLocked(address)
	f.balances[address] += lamports
	f.txs[address] = append(f.txs[address], Transaction{
		ID: id, Amount: lamports, Confirmations: 1, Timestamp: f.Now(), Direction: Incoming,
	})
	return id
}

// Anchored returns data previously anchored under txID.
func (f *Fake) Anchored(txID string) ([]byte, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.anchors[txID]
	return d, ok
}

func (f *Fake) GetBalance(ctx context.Context, address string) (*Balance, error) {
	if err := ValidateAddress(address); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	return &Balance{Address: address, Lamports: f.balances[address]}, nil
}

// GetTransactions returns newest first. Every later transaction adds one
// confirmation to the earlier ones.
func (f *Fake) GetTransactions(ctx context.Context, address string) ([]Transaction, error) {
	if err := ValidateAddress(address); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	list := f.txs[address]
	out := make([]Transaction, 0, len(list))
	for i := len(list) - 1; i >= 0; i-- {
		tx := list[i]
		tx.Confirmations = uint64(len(list) - i)
		out = append(out, tx)
	}
	return out, nil
}

func (f *Fake) SendFunds(ctx context.Context, key solana.PrivateKey, to string, lamports uint64) (string, error) {
	if err := ValidateAddress(to); err != nil {
		return "", err
	}
	from := key.PublicKey().String()

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return "", f.Err
	}
	if f.balances[from] < lamports+f.FeeLamports {
		return "", fmt.Errorf("insufficient funds: have %d, need %d", f.balances[from], lamports+f.FeeLamports)
	}
	id := f.nextIDLocked(from + to)
	f.balances[from] -= lamports + f.FeeLamports
	f.balances[to] += lamports
	now := f.Now()
	f.txs[from] = append(f.txs[from], Transaction{
		ID: id, Amount: lamports, Timestamp: now, Direction: Outgoing, Counterparty: to, FeeLamports: f.FeeLamports,
	})
	f.txs[to] = append(f.txs[to], Transaction{
		ID: id, Amount: lamports, Timestamp: now, Direction: Incoming, Counterparty: from,
	})
	return id, nil
}

func (f *Fake) AnchorData(ctx context.Context, key solana.PrivateKey, data []byte) (string, error) {
	if len(data) == 0 || len(data) > MaxAnchorSize {
		return "", fmt.Errorf("%w: %d bytes", ErrDataTooLarge, len(data))
	}
	from := key.PublicKey().String()

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return "", f.Err
	}
	id := f.nextIDLocked(from + string(data))
	f.anchors[id] = append([]byte(nil), data...)
	return id, nil
}

// nextIDLocked returns a signature-shaped base58 id unique within f.
func (f *Fake) nextIDLocked(salt string) string {
	f.seq++
	a := sha256.Sum256([]byte(fmt.Sprintf("%d:%s", f.seq, salt)))
	b := sha256.Sum256(a[:])
	return base58.Encode(append(a[:], b[:]...))
}
