package model

// PayRequest represents request for POST /wallet/send
type PayRequest struct {
	ToAddress string `json:"toAddress" binding:"required"`
	Amount    string `json:"amount" binding:"required"` // SOL, up to 9 decimals
	Password  string `json:"password" binding:"required"`
}

// PayResponse represents response for POST /wallet/send and /wallet/anchor
type PayResponse struct {
	TxID string `json:"txId"`
}

// AnchorRequest represents request for POST /wallet/anchor
type AnchorRequest struct {
	Data     string `json:"data" binding:"required"` // recorded as-is in a memo
	Password string `json:"password" binding:"required"`
}
