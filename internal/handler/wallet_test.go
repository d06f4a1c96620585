package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/AlexZinkM/walletkeeper/internal/crypto"
	"github.com/AlexZinkM/walletkeeper/internal/ledger"
	"github.com/AlexZinkM/walletkeeper/internal/model"
	"github.com/AlexZinkM/walletkeeper/internal/store"
	"github.com/AlexZinkM/walletkeeper/internal/tier"
	"github.com/AlexZinkM/walletkeeper/wallet"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testIdentity = "user-1"
	testPhrase   = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"
)

func newTestHandler(t *testing.T) (*WalletHandler, *ledger.Fake) {
	t.Helper()
	codec, err := crypto.NewCodec(crypto.TestParams())
	require.NoError(t, err)
	fake := ledger.NewFake()
	svc, err := wallet.New(wallet.Options{
		Store:  store.NewMemoryStore(tier.MediumLocal),
		Codec:  codec,
		Ledger: fake,
	})
	require.NoError(t, err)
	h, err := NewWalletHandler(svc)
	require.NoError(t, err)
	return h, fake
}

func do(t *testing.T, fn http.HandlerFunc, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set(IdentityHeader, testIdentity)
	rec := httptest.NewRecorder()
	fn(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

func TestNewWalletHandlerRequiresService(t *testing.T) {
	_, err := NewWalletHandler(nil)
	assert.Error(t, err)
}

func TestRestoreUnlockReveal(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := do(t, h.Restore, http.MethodPost, "/wallet/restore", model.RestoreRequest{Mnemonic: testPhrase, Password: "correct-horse"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	restored := decodeBody[wallet.Result](t, rec)
	assert.NotEmpty(t, restored.Address)
	assert.Empty(t, restored.Mnemonic)

	rec = do(t, h.Reveal, http.MethodPost, "/wallet/reveal", model.PasswordRequest{Password: "correct-horse"})
	assert.Equal(t, http.StatusLocked, rec.Code)
	assert.Equal(t, string(wallet.CodeLocked), decodeBody[model.ErrorResponse](t, rec).Code)

	rec = do(t, h.Unlock, http.MethodPost, "/wallet/unlock", model.PasswordRequest{Password: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	errResp := decodeBody[model.ErrorResponse](t, rec)
	assert.Equal(t, "wrong password", errResp.Error)
	assert.Equal(t, string(wallet.CodeInvalidPassword), errResp.Code)

	rec = do(t, h.Unlock, http.MethodPost, "/wallet/unlock", model.PasswordRequest{Password: "correct-horse"})
	require.Equal(t, http.StatusOK, rec.Code)
	unlocked := decodeBody[wallet.Result](t, rec)
	assert.Equal(t, restored.Address, unlocked.Address)
	assert.NotEmpty(t, unlocked.SessionID)

	rec = do(t, h.Reveal, http.MethodPost, "/wallet/reveal", model.PasswordRequest{Password: "correct-horse"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, testPhrase, decodeBody[wallet.Result](t, rec).Mnemonic)

	rec = do(t, h.Status, http.MethodGet, "/wallet/status", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	st := decodeBody[wallet.Status](t, rec)
	assert.True(t, st.Unlocked)
	assert.Equal(t, tier.Basic, st.Tier)

	rec = do(t, h.Lock, http.MethodPost, "/wallet/lock", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decodeBody[model.LockResponse](t, rec).WasUnlocked)
}

func TestCreateAndClear(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := do(t, h.Create, http.MethodPost, "/wallet/create", model.CreateRequest{Password: "correct-horse", WordCount: 24})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	created := decodeBody[wallet.Result](t, rec)
	assert.Equal(t, 24, created.WordCount)
	assert.NotEmpty(t, created.Mnemonic)

	rec = do(t, h.Clear, http.MethodDelete, "/wallet", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, h.Clear, http.MethodDelete, "/wallet", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h.Unlock, http.MethodPost, "/wallet/unlock", model.PasswordRequest{Password: "correct-horse"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRequestValidation(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := do(t, h.Create, http.MethodGet, "/wallet/create", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, http.MethodPost, rec.Header().Get("Allow"))

	req := httptest.NewRequest(http.MethodPost, "/wallet/create", bytes.NewBufferString("{"))
	req.Header.Set(IdentityHeader, testIdentity)
	rec = httptest.NewRecorder()
	h.Create(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h.Create, http.MethodPost, "/wallet/create", model.CreateRequest{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, string(wallet.CodeMissingField), decodeBody[model.ErrorResponse](t, rec).Code)

	rec = do(t, h.Restore, http.MethodPost, "/wallet/restore", model.RestoreRequest{Mnemonic: "abandon abandon", Password: "x"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, string(wallet.CodeInvalidMnemonic), decodeBody[model.ErrorResponse](t, rec).Code)

	req = httptest.NewRequest(http.MethodPost, "/wallet/unlock", bytes.NewBufferString(`{"password":"x"}`))
	rec = httptest.NewRecorder()
	h.Unlock(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestVerify(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := do(t, h.Verify, http.MethodPost, "/wallet/verify", model.VerifyRequest{Mnemonic: testPhrase})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decodeBody[model.VerifyResponse](t, rec).IsValid)

	rec = do(t, h.Verify, http.MethodPost, "/wallet/verify", model.VerifyRequest{Mnemonic: "zoo zoo zoo"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decodeBody[model.VerifyResponse](t, rec).IsValid)

	for _, phrase := range []string{"", " \t "} {
		rec = do(t, h.Verify, http.MethodPost, "/wallet/verify", model.VerifyRequest{Mnemonic: phrase})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, string(wallet.CodeMissingField), decodeBody[model.ErrorResponse](t, rec).Code)
	}
}

func TestSetTier(t *testing.T) {
	h, _ := newTestHandler(t)
	do(t, h.Restore, http.MethodPost, "/wallet/restore", model.RestoreRequest{Mnemonic: testPhrase, Password: "correct-horse"})

	rec := do(t, h.SetTier, http.MethodPut, "/wallet/tier", model.TierRequest{Tier: "maximum"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, tier.Maximum, decodeBody[wallet.Status](t, rec).Tier)

	rec = do(t, h.SetTier, http.MethodPut, "/wallet/tier", model.TierRequest{Tier: "gold"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	for _, name := range []string{"", "   "} {
		rec = do(t, h.SetTier, http.MethodPut, "/wallet/tier", model.TierRequest{Tier: name})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, string(wallet.CodeMissingField), decodeBody[model.ErrorResponse](t, rec).Code)
	}
}

func TestChangePassword(t *testing.T) {
	h, _ := newTestHandler(t)
	do(t, h.Restore, http.MethodPost, "/wallet/restore", model.RestoreRequest{Mnemonic: testPhrase, Password: "correct-horse"})

	rec := do(t, h.ChangePassword, http.MethodPost, "/wallet/password", model.ChangePasswordRequest{Password: "correct-horse", NewPassword: "battery-staple"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, h.Unlock, http.MethodPost, "/wallet/unlock", model.PasswordRequest{Password: "battery-staple"})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestQR(t *testing.T) {
	h, _ := newTestHandler(t)
	do(t, h.Restore, http.MethodPost, "/wallet/restore", model.RestoreRequest{Mnemonic: testPhrase, Password: "correct-horse"})

	rec := do(t, h.QR, http.MethodGet, "/wallet/qr?size=128", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")))

	rec = do(t, h.QR, http.MethodGet, "/wallet/qr?size=big", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = do(t, h.QR, http.MethodGet, "/wallet/qr?size=4096", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBalanceSendAndHistory(t *testing.T) {
	h, fake := newTestHandler(t)
	rec := do(t, h.Restore, http.MethodPost, "/wallet/restore", model.RestoreRequest{Mnemonic: testPhrase, Password: "correct-horse"})
	address := decodeBody[wallet.Result](t, rec).Address
	fake.Fund(address, 3_000_000_000)

	rec = do(t, h.GetBalance, http.MethodGet, "/wallet/balance", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "3.000000000", decodeBody[wallet.BalanceResult](t, rec).SOL)

	to := "11111111111111111111111111111112"
	pay := model.PayRequest{ToAddress: to, Amount: "1.25", Password: "correct-horse"}
	rec = do(t, h.PaySOL, http.MethodPost, "/wallet/send", pay)
	assert.Equal(t, http.StatusLocked, rec.Code)

	do(t, h.Unlock, http.MethodPost, "/wallet/unlock", model.PasswordRequest{Password: "correct-horse"})
	rec = do(t, h.PaySOL, http.MethodPost, "/wallet/send", pay)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	txID := decodeBody[model.PayResponse](t, rec).TxID
	assert.NotEmpty(t, txID)

	rec = do(t, h.TransactionHistory, http.MethodGet, "/wallet/transactions", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	log := decodeBody[model.LogResponse](t, rec)
	assert.Equal(t, address, log.Address)
	require.Len(t, log.Transactions, 2)
	assert.Equal(t, "3.000000000", log.TotalIncomeSOL)
	assert.Equal(t, "1.250000000", log.TotalSpentSOL)

	rec = do(t, h.TransactionHistory, http.MethodGet, "/wallet/transactions?type=CREDIT", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	log = decodeBody[model.LogResponse](t, rec)
	require.Len(t, log.Transactions, 1)
	assert.Equal(t, txID, log.Transactions[0].TxID)

	rec = do(t, h.TransactionHistory, http.MethodGet, "/wallet/transactions?from=yesterday", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = do(t, h.TransactionHistory, http.MethodGet, "/wallet/transactions?type=REFUND", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h.Anchor, http.MethodPost, "/wallet/anchor", model.AnchorRequest{Data: "receipt:42", Password: "correct-horse"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	data, ok := fake.Anchored(decodeBody[model.PayResponse](t, rec).TxID)
	require.True(t, ok)
	assert.Equal(t, "receipt:42", string(data))

	fake.Err = context.DeadlineExceeded
	rec = do(t, h.GetBalance, http.MethodGet, "/wallet/balance", nil)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, string(wallet.CodeLedger), decodeBody[model.ErrorResponse](t, rec).Code)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, statusFor(wallet.CodeInternal))
	assert.Equal(t, http.StatusInternalServerError, statusFor("Unknown"))
	assert.Equal(t, http.StatusBadRequest, statusFor(wallet.CodeInvalidMnemonic))
}
