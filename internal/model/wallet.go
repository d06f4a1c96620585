package model

// CreateRequest represents request for POST /wallet/create
type CreateRequest struct {
	Password  string `json:"password" binding:"required"`
	WordCount int    `json:"wordCount,omitempty"` // 12 (default) or 24
}

// RestoreRequest represents request for POST /wallet/restore
type RestoreRequest struct {
	Mnemonic string `json:"mnemonic" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// VerifyRequest represents request for POST /wallet/verify
type VerifyRequest struct {
	Mnemonic string `json:"mnemonic" binding:"required"`
}

// VerifyResponse represents response for POST /wallet/verify
type VerifyResponse struct {
	IsValid bool `json:"isValid"`
}

// PasswordRequest carries the current password for unlock and reveal.
type PasswordRequest struct {
	Password string `json:"password" binding:"required"`
}

// ChangePasswordRequest represents request for POST /wallet/password
type ChangePasswordRequest struct {
	Password    string `json:"password" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

// TierRequest represents request for PUT /wallet/tier
type TierRequest struct {
	Tier string `json:"tier" binding:"required"` // BASIC, ENHANCED or MAXIMUM
}

// LockResponse represents response for POST /wallet/lock
type LockResponse struct {
	WasUnlocked bool `json:"wasUnlocked"`
}
