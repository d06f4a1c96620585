package api

import (
	"net/http"

	"github.com/AlexZinkM/walletkeeper/internal/handler"
	"github.com/AlexZinkM/walletkeeper/wallet"

	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/AlexZinkM/walletkeeper/docs"
)

// SetupRouter sets up router with handlers
func SetupRouter(svc *wallet.Service) (http.Handler, error) {
	walletHandler, err := handler.NewWalletHandler(svc)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()

	// Swagger UI
	mux.HandleFunc("/swagger/", httpSwagger.WrapHandler)

	// Wallet lifecycle
	mux.HandleFunc("/wallet", walletHandler.Clear)
	mux.HandleFunc("/wallet/create", walletHandler.Create)
	mux.HandleFunc("/wallet/restore", walletHandler.Restore)
	mux.HandleFunc("/wallet/verify", walletHandler.Verify)
	mux.HandleFunc("/wallet/unlock", walletHandler.Unlock)
	mux.HandleFunc("/wallet/lock", walletHandler.Lock)
	mux.HandleFunc("/wallet/status", walletHandler.Status)
	mux.HandleFunc("/wallet/tier", walletHandler.SetTier)
	mux.HandleFunc("/wallet/password", walletHandler.ChangePassword)
	mux.HandleFunc("/wallet/reveal", walletHandler.Reveal)
	mux.HandleFunc("/wallet/qr", walletHandler.QR)

	// Ledger
	mux.HandleFunc("/wallet/balance", walletHandler.GetBalance)
	mux.HandleFunc("/wallet/transactions", walletHandler.TransactionHistory)
	mux.HandleFunc("/wallet/send", walletHandler.PaySOL)
	mux.HandleFunc("/wallet/anchor", walletHandler.Anchor)

	return mux, nil
}
