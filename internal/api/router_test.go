package api

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/AlexZinkM/walletkeeper/internal/crypto"
	"github.com/AlexZinkM/walletkeeper/internal/handler"
	"github.com/AlexZinkM/walletkeeper/internal/ledger"
	"github.com/AlexZinkM/walletkeeper/internal/store"
	"github.com/AlexZinkM/walletkeeper/internal/tier"
	"github.com/AlexZinkM/walletkeeper/wallet"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupRouter(t *testing.T) {
	_, err := SetupRouter(nil)
	require.Error(t, err)

	codec, err := crypto.NewCodec(crypto.TestParams())
	require.NoError(t, err)
	svc, err := wallet.New(wallet.Options{
		Store:  store.NewMemoryStore(tier.MediumLocal),
		Codec:  codec,
		Ledger: ledger.NewFake(),
	})
	require.NoError(t, err)

	router, err := SetupRouter(svc)
	require.NoError(t, err)
	srv := httptest.NewServer(router)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/swagger/doc.json")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/wallet/status", nil)
	require.NoError(t, err)
	req.Header.Set(handler.IdentityHeader, "nobody")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = http.Post(srv.URL+"/wallet/verify", "application/json",
		bytes.NewBufferString(`{"mnemonic":"abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	req, err = http.NewRequest(http.MethodDelete, srv.URL+"/wallet", nil)
	require.NoError(t, err)
	req.Header.Set(handler.IdentityHeader, "nobody")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
