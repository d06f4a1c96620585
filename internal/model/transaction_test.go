package model

import (
	"testing"
	"time"

	"github.com/AlexZinkM/walletkeeper/internal/ledger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func sampleTxs() []ledger.Transaction {
	day := func(d int) time.Time { return time.Date(2026, 3, d, 12, 0, 0, 0, time.UTC) }
	return []ledger.Transaction{
		{ID: "a", Amount: 2_000_000_000, Timestamp: day(1), Direction: ledger.Incoming, Confirmations: 30},
		{ID: "b", Amount: 500_000_000, Timestamp: day(3), Direction: ledger.Outgoing, FeeLamports: 5000, Confirmations: 10},
		{ID: "c", Amount: 100_000_000, Timestamp: day(2), Direction: ledger.Outgoing, Failed: true, Confirmations: 20},
	}
}

func TestLogRequestValidate(t *testing.T) {
	from := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	to := from.Add(-time.Hour)

	tests := []struct {
		name    string
		req     LogRequest
		wantErr bool
	}{
		{"empty", LogRequest{}, false},
		{"debit", LogRequest{Type: ptr(TransactionTypeDebit)}, false},
		{"unknown type", LogRequest{Type: ptr(TransactionType("REFUND"))}, true},
		{"dates reversed", LogRequest{From: &from, To: &to}, true},
		{"bad amount", LogRequest{MinAmount: ptr("1.2.3")}, true},
		{"min above max", LogRequest{MinAmount: ptr("2"), MaxAmount: ptr("1")}, true},
		{"range", LogRequest{MinAmount: ptr("1"), MaxAmount: ptr("2")}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewLogResponse(t *testing.T) {
	resp := NewLogResponse("addr", sampleTxs(), &LogRequest{})
	require.Len(t, resp.Transactions, 3)
	assert.Equal(t, []string{"b", "c", "a"}, []string{
		resp.Transactions[0].TxID, resp.Transactions[1].TxID, resp.Transactions[2].TxID,
	})
	assert.Equal(t, TransactionTypeCredit, resp.Transactions[0].Type)
	assert.Equal(t, "0.500000000", resp.Transactions[0].Amount)
	assert.Equal(t, "0.000005000", resp.Transactions[0].OurFeeSOL)
	assert.Equal(t, "failed", resp.Transactions[1].Status)
	assert.Equal(t, "2.000000000", resp.TotalIncomeSOL)
	assert.Equal(t, "0.500000000", resp.TotalSpentSOL)
}

func TestNewLogResponseFilters(t *testing.T) {
	from := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	resp := NewLogResponse("addr", sampleTxs(), &LogRequest{Type: ptr(TransactionTypeDebit)})
	require.Len(t, resp.Transactions, 1)
	assert.Equal(t, "a", resp.Transactions[0].TxID)

	resp = NewLogResponse("addr", sampleTxs(), &LogRequest{From: &from})
	assert.Len(t, resp.Transactions, 2)
	assert.Equal(t, "0.000000000", resp.TotalIncomeSOL)

	resp = NewLogResponse("addr", sampleTxs(), &LogRequest{MinAmount: ptr("0.2"), MaxAmount: ptr("1")})
	require.Len(t, resp.Transactions, 1)
	assert.Equal(t, "b", resp.Transactions[0].TxID)

	resp = NewLogResponse("addr", sampleTxs(), &LogRequest{TxID: ptr("c")})
	require.Len(t, resp.Transactions, 1)
	assert.Equal(t, "0.000000000", resp.TotalSpentSOL)
}
