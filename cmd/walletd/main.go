// Command walletd serves the wallet verbs over HTTP.
//
// @title			walletkeeper API
// @version		1.0
// @description	Local Solana wallet keeper.
// @BasePath		/
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AlexZinkM/walletkeeper/internal/api"
	"github.com/AlexZinkM/walletkeeper/internal/app"
	"github.com/AlexZinkM/walletkeeper/internal/config"
	"github.com/AlexZinkM/walletkeeper/internal/logging"

	"github.com/rs/zerolog/log"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		log.Error().Err(err).Msg("walletd stopped")
		os.Exit(1)
	}
}

func run() error {
	if err := config.Init(); err != nil {
		return err
	}
	cfg := config.Get()
	if err := logging.Setup(cfg.LogLevel, cfg.LogPretty); err != nil {
		return err
	}

	a, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	router, err := api.SetupRouter(a.Service)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Expiry is lazy; the sweep only makes expired events visible in the log.
	go sweepSessions(ctx, a, cfg.SessionLifetime/4)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func sweepSessions(ctx context.Context, a *app.App, every time.Duration) {
	if every < time.Second {
		every = time.Second
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := a.Service.Sessions().Sweep(); n > 0 {
				log.Debug().Int("expired", n).Msg("swept sessions")
			}
		}
	}
}
