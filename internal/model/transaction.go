package model

import (
	"fmt"
	"sort"
	"time"

	"github.com/AlexZinkM/walletkeeper/internal/common"
	"github.com/AlexZinkM/walletkeeper/internal/ledger"
)

// TransactionType transaction type
type TransactionType string

const (
	TransactionTypeDebit  TransactionType = "DEBIT"  // funds received
	TransactionTypeCredit TransactionType = "CREDIT" // funds sent
)

// Transaction represents a transaction
type Transaction struct {
	Type          TransactionType `json:"type"`
	TxID          string          `json:"txId"`
	Counterparty  string          `json:"counterparty,omitempty"`
	Amount        string          `json:"amount"`    // SOL
	OurFeeSOL     string          `json:"ourFeeSOL"` // SOL we paid as fee
	Timestamp     time.Time       `json:"timestamp"`
	Confirmations uint64          `json:"confirmations"`
	Status        string          `json:"status"`
}

// LogResponse represents response for GET /wallet/transactions
type LogResponse struct {
	Address        string        `json:"address"`
	TotalIncomeSOL string        `json:"total_income_SOL"`
	TotalSpentSOL  string        `json:"total_spent_SOL"`
	Transactions   []Transaction `json:"transactions"`
}

// LogRequest represents request parameters for GET /wallet/transactions
type LogRequest struct {
	Type      *TransactionType `form:"type"`
	TxID      *string          `form:"txId"`
	From      *time.Time       `form:"from"`
	To        *time.Time       `form:"to"`
	MinAmount *string          `form:"minAmount"`
	MaxAmount *string          `form:"maxAmount"`
}

// Validate validates LogRequest filter parameters.
func (r *LogRequest) Validate() error {
	if r.Type != nil && *r.Type != TransactionTypeDebit && *r.Type != TransactionTypeCredit {
		return fmt.Errorf("type must be DEBIT or CREDIT")
	}
	if r.From != nil && r.To != nil && r.To.Before(*r.From) {
		return fmt.Errorf("to date must be after or equal to from date")
	}
	if r.MinAmount != nil {
		if _, err := common.SOLToLamports(*r.MinAmount); err != nil {
			return fmt.Errorf("invalid minAmount: %w", err)
		}
	}
	if r.MaxAmount != nil {
		if _, err := common.SOLToLamports(*r.MaxAmount); err != nil {
			return fmt.Errorf("invalid maxAmount: %w", err)
		}
	}
	if r.MinAmount != nil && r.MaxAmount != nil {
		cmp, err := common.CompareSOLAmounts(*r.MinAmount, *r.MaxAmount)
		if err != nil {
			return fmt.Errorf("invalid amount: %w", err)
		}
		if cmp == 1 {
			return fmt.Errorf("minAmount must be less than or equal to maxAmount")
		}
	}
	return nil
}

// NewLogResponse filters txs by req (which must be valid) and totals the
// remaining successful transfers. Transactions are sorted newest first.
func NewLogResponse(address string, txs []ledger.Transaction, req *LogRequest) *LogResponse {
	var minLamports, maxLamports *uint64
	if req.MinAmount != nil {
		v, _ := common.SOLToLamports(*req.MinAmount)
		minLamports = &v
	}
	if req.MaxAmount != nil {
		v, _ := common.SOLToLamports(*req.MaxAmount)
		maxLamports = &v
	}

	result := make([]Transaction, 0, len(txs))
	var income, spent uint64
	for _, tx := range txs {
		txType := TransactionTypeDebit
		if tx.Direction == ledger.Outgoing {
			txType = TransactionTypeCredit
		}

		// Filter by type
		if req.Type != nil && *req.Type != txType {
			continue
		}
		// Filter by txId
		if req.TxID != nil && *req.TxID != tx.ID {
			continue
		}
		// Filter by dates
		if req.From != nil && tx.Timestamp.Before(*req.From) {
			continue
		}
		if req.To != nil && tx.Timestamp.After(*req.To) {
			continue
		}
		// Filter by amount (integer comparison, no float precision issues)
		if minLamports != nil && tx.Amount < *minLamports {
			continue
		}
		if maxLamports != nil && tx.Amount > *maxLamports {
			continue
		}

		status := "success"
		if tx.Failed {
			status = "failed"
		} else if txType == TransactionTypeDebit {
			income += tx.Amount
		} else {
			spent += tx.Amount
		}

		result = append(result, Transaction{
			Type:          txType,
			TxID:          tx.ID,
			Counterparty:  tx.Counterparty,
			Amount:        common.LamportsToSOL(tx.Amount),
			OurFeeSOL:     common.LamportsToSOL(tx.FeeLamports),
			Timestamp:     tx.Timestamp,
			Confirmations: tx.Confirmations,
			Status:        status,
		})
	}

	// Sort by time DESC (newest first)
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Timestamp.After(result[j].Timestamp)
	})

	return &LogResponse{
		Address:        address,
		TotalIncomeSOL: common.LamportsToSOL(income),
		TotalSpentSOL:  common.LamportsToSOL(spent),
		Transactions:   result,
	}
}
