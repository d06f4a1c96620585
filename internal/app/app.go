// Package app wires a wallet.Service from configuration for the binaries.
package app

import (
	"fmt"

	"github.com/AlexZinkM/walletkeeper/internal/client"
	"github.com/AlexZinkM/walletkeeper/internal/config"
	"github.com/AlexZinkM/walletkeeper/internal/crypto"
	"github.com/AlexZinkM/walletkeeper/internal/entropy"
	"github.com/AlexZinkM/walletkeeper/internal/ledger"
	"github.com/AlexZinkM/walletkeeper/internal/session"
	"github.com/AlexZinkM/walletkeeper/internal/store"
	"github.com/AlexZinkM/walletkeeper/wallet"

	"github.com/rs/zerolog/log"
)

// App holds the wired service and the resources it owns.
type App struct {
	Service *wallet.Service
	Store   store.Store

	unsubscribe func()
}

// New builds the service described by cfg.
func New(cfg *config.Config) (*App, error) {
	st, err := store.Open(cfg.StoreOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to open wallet store: %w", err)
	}

	codec, err := crypto.NewCodec(cfg.CodecParams())
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("failed to create secret codec: %w", err)
	}

	collector := entropy.NewCollector(cfg.EntropySampleCap, cfg.EntropySampleTimeout)
	collector.OnFolded(func(buffers int) {
		log.Debug().Int("buffers", buffers).Msg("interactive entropy folded")
	})

	var (
		l     ledger.Ledger
		price ledger.PriceSource
	)
	switch cfg.Ledger {
	case "fake":
		l = ledger.NewFake()
	default:
		l = client.NewSolanaLedger(cfg.SolanaRPCURL)
	}
	if cfg.PriceCurrency != "" {
		price = client.NewCoinGeckoClient(cfg.CoinGeckoURL)
	}

	sessions := session.NewManager(cfg.SessionLifetime)
	unsubscribe := sessions.Subscribe(func(ev session.Event) {
		log.Info().
			Str("event", string(ev.Kind)).
			Str("identity", ev.Session.Identity).
			Str("session", ev.Session.ID).
			Msg("session event")
	})

	svc, err := wallet.New(wallet.Options{
		Store:    st,
		Codec:    codec,
		Sessions: sessions,
		Entropy:  entropy.New(entropy.WithCollector(collector)),
		Ledger:   l,
		Price:    price,
		Currency: cfg.PriceCurrency,
		Policy: wallet.Policy{
			ConcealMissingWallet: cfg.ConcealMissingWallet,
			MinPasswordLength:    cfg.MinPasswordLength,
		},
	})
	if err != nil {
		unsubscribe()
		st.Close()
		return nil, err
	}

	log.Info().
		Str("store", cfg.Store).
		Str("medium", string(st.Medium())).
		Str("kdf", codec.Params().KDF).
		Str("cipher", codec.Params().Cipher).
		Str("ledger", cfg.Ledger).
		Dur("session_lifetime", cfg.SessionLifetime).
		Msg("wallet service ready")

	return &App{Service: svc, Store: st, unsubscribe: unsubscribe}, nil
}

// Close ends every session and releases the store.
func (a *App) Close() error {
	a.Service.Sessions().EndAll()
	a.unsubscribe()
	return a.Store.Close()
}
