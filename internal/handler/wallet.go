package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/AlexZinkM/walletkeeper/internal/model"
	"github.com/AlexZinkM/walletkeeper/wallet"

	"github.com/rs/zerolog/log"
)

// IdentityHeader carries the caller identity set by the upstream
// authenticator. The handler trusts it as given.
const IdentityHeader = "X-Wallet-Identity"

const maxBodyBytes = 64 << 10

// WalletHandler exposes the wallet service over HTTP.
type WalletHandler struct {
	svc *wallet.Service
}

// NewWalletHandler creates a new WalletHandler
func NewWalletHandler(svc *wallet.Service) (*WalletHandler, error) {
	if svc == nil {
		return nil, errors.New("wallet service is required")
	}
	return &WalletHandler{svc: svc}, nil
}

// Create handles POST /wallet/create
// @Summary      Create wallet
// @Description  Generates a new wallet, stores it encrypted and returns the recovery phrase once
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Param        X-Wallet-Identity  header    string               true  "Caller identity"
// @Param        request            body      model.CreateRequest  true  "Password and word count"
// @Success      200                {object}  wallet.Result
// @Failure      400                {object}  model.ErrorResponse
// @Router       /wallet/create [post]
func (h *WalletHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	var req model.CreateRequest
	if !decode(w, r, &req) {
		return
	}
	password := []byte(req.Password)
	defer clear(password) // Always clear password from memory

	res, err := h.svc.Create(r.Context(), identity(r), req.WordCount, password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Restore handles POST /wallet/restore
// @Summary      Restore wallet
// @Description  Restores a wallet from its recovery phrase, replacing any stored wallet
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Param        X-Wallet-Identity  header    string                true  "Caller identity"
// @Param        request            body      model.RestoreRequest  true  "Recovery phrase and password"
// @Success      200                {object}  wallet.Result
// @Failure      400                {object}  model.ErrorResponse
// @Router       /wallet/restore [post]
func (h *WalletHandler) Restore(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	var req model.RestoreRequest
	if !decode(w, r, &req) {
		return
	}
	password := []byte(req.Password)
	defer clear(password)

	res, err := h.svc.Restore(r.Context(), identity(r), req.Mnemonic, password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Verify handles POST /wallet/verify
// @Summary      Verify recovery phrase
// @Description  Checks words and checksum of a recovery phrase; nothing is stored
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Param        request  body      model.VerifyRequest  true  "Recovery phrase"
// @Success      200      {object}  model.VerifyResponse
// @Failure      400      {object}  model.ErrorResponse
// @Router       /wallet/verify [post]
func (h *WalletHandler) Verify(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	var req model.VerifyRequest
	if !decode(w, r, &req) {
		return
	}
	valid, err := h.svc.CheckPhrase(req.Mnemonic)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, model.VerifyResponse{IsValid: valid})
}

// Unlock handles POST /wallet/unlock
// @Summary      Unlock wallet
// @Description  Checks the password and opens a time-limited session
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Param        X-Wallet-Identity  header    string                 true  "Caller identity"
// @Param        request            body      model.PasswordRequest  true  "Wallet password"
// @Success      200                {object}  wallet.Result
// @Failure      401                {object}  model.ErrorResponse
// @Failure      404                {object}  model.ErrorResponse
// @Router       /wallet/unlock [post]
func (h *WalletHandler) Unlock(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	var req model.PasswordRequest
	if !decode(w, r, &req) {
		return
	}
	password := []byte(req.Password)
	defer clear(password)

	res, err := h.svc.Unlock(r.Context(), identity(r), password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Lock handles POST /wallet/lock
// @Summary      Lock wallet
// @Description  Ends the caller's session
// @Tags         wallet
// @Produce      json
// @Param        X-Wallet-Identity  header    string  true  "Caller identity"
// @Success      200                {object}  model.LockResponse
// @Router       /wallet/lock [post]
func (h *WalletHandler) Lock(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	id := identity(r)
	if id == "" {
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Error: "identity is required", Code: string(wallet.CodeMissingField)})
		return
	}
	writeJSON(w, http.StatusOK, model.LockResponse{WasUnlocked: h.svc.Lock(id)})
}

// Clear handles DELETE /wallet
// @Summary      Clear wallet
// @Description  Deletes the stored wallet and ends its session
// @Tags         wallet
// @Param        X-Wallet-Identity  header  string  true  "Caller identity"
// @Success      204
// @Failure      404  {object}  model.ErrorResponse
// @Router       /wallet [delete]
func (h *WalletHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodDelete) {
		return
	}
	if err := h.svc.Clear(r.Context(), identity(r)); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Status handles GET /wallet/status
// @Summary      Wallet status
// @Description  Address, security tier guidance and session state; nothing is decrypted
// @Tags         wallet
// @Produce      json
// @Param        X-Wallet-Identity  header    string  true  "Caller identity"
// @Success      200                {object}  wallet.Status
// @Failure      404                {object}  model.ErrorResponse
// @Router       /wallet/status [get]
func (h *WalletHandler) Status(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	st, err := h.svc.Status(r.Context(), identity(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// SetTier handles PUT /wallet/tier
// @Summary      Set security tier
// @Description  Relabels the wallet's advisory security tier
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Param        X-Wallet-Identity  header    string             true  "Caller identity"
// @Param        request            body      model.TierRequest  true  "BASIC, ENHANCED or MAXIMUM"
// @Success      200                {object}  wallet.Status
// @Failure      400                {object}  model.ErrorResponse
// @Router       /wallet/tier [put]
func (h *WalletHandler) SetTier(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPut) {
		return
	}
	var req model.TierRequest
	if !decode(w, r, &req) {
		return
	}
	t, err := wallet.ParseTier(req.Tier)
	if err != nil {
		writeError(w, err)
		return
	}
	st, err := h.svc.SetTier(r.Context(), identity(r), t)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// ChangePassword handles POST /wallet/password
// @Summary      Change password
// @Description  Re-encrypts the wallet under a new password with current settings
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Param        X-Wallet-Identity  header    string                       true  "Caller identity"
// @Param        request            body      model.ChangePasswordRequest  true  "Current and new password"
// @Success      200                {object}  wallet.Result
// @Failure      401                {object}  model.ErrorResponse
// @Router       /wallet/password [post]
func (h *WalletHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	var req model.ChangePasswordRequest
	if !decode(w, r, &req) {
		return
	}
	password, newPassword := []byte(req.Password), []byte(req.NewPassword)
	defer clear(password)
	defer clear(newPassword)

	res, err := h.svc.ChangePassword(r.Context(), identity(r), password, newPassword)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Reveal handles POST /wallet/reveal
// @Summary      Reveal recovery phrase
// @Description  Returns the recovery phrase for backup; requires an unlocked wallet and the password
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Param        X-Wallet-Identity  header    string                 true  "Caller identity"
// @Param        request            body      model.PasswordRequest  true  "Wallet password"
// @Success      200                {object}  wallet.Result
// @Failure      423                {object}  model.ErrorResponse
// @Router       /wallet/reveal [post]
func (h *WalletHandler) Reveal(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	var req model.PasswordRequest
	if !decode(w, r, &req) {
		return
	}
	password := []byte(req.Password)
	defer clear(password)

	res, err := h.svc.RevealMnemonic(r.Context(), identity(r), password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// GetBalance handles GET /wallet/balance
// @Summary      Get wallet balance
// @Description  Gets the SOL balance with an optional fiat valuation
// @Tags         wallet
// @Produce      json
// @Param        X-Wallet-Identity  header    string  true  "Caller identity"
// @Success      200                {object}  wallet.BalanceResult
// @Failure      502                {object}  model.ErrorResponse
// @Router       /wallet/balance [get]
func (h *WalletHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	balance, err := h.svc.Balance(r.Context(), identity(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, balance)
}

// TransactionHistory handles GET /wallet/transactions
// @Summary      Get wallet transactions
// @Description  Gets recent SOL transfers with filtering capability
// @Tags         wallet
// @Produce      json
// @Param        X-Wallet-Identity  header    string  true   "Caller identity"
// @Param        type               query     string  false  "Transaction type: DEBIT or CREDIT"
// @Param        txId               query     string  false  "Transaction ID"
// @Param        from               query     string  false  "Start date (YYYY-MM-DD)"
// @Param        to                 query     string  false  "End date (YYYY-MM-DD)"
// @Param        minAmount          query     string  false  "Minimum amount (SOL)"
// @Param        maxAmount          query     string  false  "Maximum amount (SOL)"
// @Success      200                {object}  model.LogResponse
// @Router       /wallet/transactions [get]
func (h *WalletHandler) TransactionHistory(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	var req model.LogRequest
	q := r.URL.Query()

	// Parse date parameters (YYYY-MM-DD)
	const dateLayout = "2006-01-02"
	if fromStr := q.Get("from"); fromStr != "" {
		t, err := time.Parse(dateLayout, fromStr)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Error: "invalid from date: use YYYY-MM-DD (e.g. 2006-01-02)", Code: string(wallet.CodeInvalidField)})
			return
		}
		req.From = &t
	}
	if toStr := q.Get("to"); toStr != "" {
		t, err := time.Parse(dateLayout, toStr)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Error: "invalid to date: use YYYY-MM-DD (e.g. 2006-01-02)", Code: string(wallet.CodeInvalidField)})
			return
		}
		// End of day so filter is inclusive
		t = t.Add(24*time.Hour - time.Nanosecond)
		req.To = &t
	}
	if typeStr := q.Get("type"); typeStr != "" {
		txType := model.TransactionType(typeStr)
		req.Type = &txType
	}
	if txID := q.Get("txId"); txID != "" {
		req.TxID = &txID
	}
	if minAmount := q.Get("minAmount"); minAmount != "" {
		req.MinAmount = &minAmount
	}
	if maxAmount := q.Get("maxAmount"); maxAmount != "" {
		req.MaxAmount = &maxAmount
	}

	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Error: err.Error(), Code: string(wallet.CodeInvalidField)})
		return
	}

	id := identity(r)
	txs, err := h.svc.Transactions(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	st, err := h.svc.Status(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, model.NewLogResponse(st.Address, txs, &req))
}

// QR handles GET /wallet/qr
// @Summary      Address QR code
// @Description  PNG QR code of the public address
// @Tags         wallet
// @Produce      png
// @Param        X-Wallet-Identity  header  string  true   "Caller identity"
// @Param        size               query   int     false  "Image size in pixels (64-1024, default 256)"
// @Success      200
// @Failure      404  {object}  model.ErrorResponse
// @Router       /wallet/qr [get]
func (h *WalletHandler) QR(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	size := 0
	if s := r.URL.Query().Get("size"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Error: "size must be an integer", Code: string(wallet.CodeInvalidField)})
			return
		}
		size = n
	}
	png, err := h.svc.AddressQR(r.Context(), identity(r), size)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

// PaySOL handles POST /wallet/send
// @Summary      Send SOL
// @Description  Sends a SOL transaction to the specified address; requires an unlocked wallet
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Param        X-Wallet-Identity  header    string            true  "Caller identity"
// @Param        request            body      model.PayRequest  true  "Payment data"
// @Success      200                {object}  model.PayResponse
// @Failure      423                {object}  model.ErrorResponse
// @Router       /wallet/send [post]
func (h *WalletHandler) PaySOL(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	var req model.PayRequest
	if !decode(w, r, &req) {
		return
	}
	password := []byte(req.Password)
	defer clear(password)

	txID, err := h.svc.Send(r.Context(), identity(r), password, req.ToAddress, req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, model.PayResponse{TxID: txID})
}

// Anchor handles POST /wallet/anchor
// @Summary      Anchor data
// @Description  Records up to 512 bytes on the ledger signed by the wallet key
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Param        X-Wallet-Identity  header    string               true  "Caller identity"
// @Param        request            body      model.AnchorRequest  true  "Data and password"
// @Success      200                {object}  model.PayResponse
// @Router       /wallet/anchor [post]
func (h *WalletHandler) Anchor(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	var req model.AnchorRequest
	if !decode(w, r, &req) {
		return
	}
	password := []byte(req.Password)
	defer clear(password)

	txID, err := h.svc.Anchor(r.Context(), identity(r), password, []byte(req.Data))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, model.PayResponse{TxID: txID})
}

func identity(r *http.Request) string {
	return r.Header.Get(IdentityHeader)
}

func allowMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method == method {
		return true
	}
	w.Header().Set("Allow", method)
	http.Error(w, "Method not allowed. Should be "+method, http.StatusMethodNotAllowed)
	return false
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Error: "invalid request body: " + err.Error(), Code: string(wallet.CodeInvalidField)})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Debug().Err(err).Msg("failed to write response")
	}
}

// statusFor maps a wallet error code to an HTTP status.
func statusFor(code wallet.Code) int {
	switch code {
	case wallet.CodeMissingField, wallet.CodeInvalidField, wallet.CodeInvalidMnemonic:
		return http.StatusBadRequest
	case wallet.CodeInvalidPassword:
		return http.StatusUnauthorized
	case wallet.CodeNotFound:
		return http.StatusNotFound
	case wallet.CodeLocked:
		return http.StatusLocked
	case wallet.CodeLedger:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	code := wallet.CodeOf(err)
	msg := err.Error()
	var werr *wallet.Error
	if errors.As(err, &werr) {
		msg = werr.Msg
	}
	if code == wallet.CodeInternal {
		log.Error().Err(err).Msg("request failed")
		msg = "internal error"
	}
	writeJSON(w, statusFor(code), model.ErrorResponse{Error: msg, Code: string(code)})
}
