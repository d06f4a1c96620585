// Command walletctl manages a local wallet from the terminal. Passwords
// and recovery phrases are always prompted, never taken from flags.
package main

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"os/user"
	"syscall"

	"github.com/AlexZinkM/walletkeeper/internal/app"
	"github.com/AlexZinkM/walletkeeper/internal/config"
	"github.com/AlexZinkM/walletkeeper/internal/logging"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	c := &cli{}
	err := newRoot(c).ExecuteContext(ctx)
	c.close()
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// cli carries state shared by all subcommands of one invocation.
type cli struct {
	identity string
	app      *app.App
	in       *bufio.Reader
	terminal bool
}

func newRoot(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:          "walletctl",
		Short:        "Create, unlock and spend from a local Solana wallet",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.open(cmd)
		},
	}
	root.PersistentFlags().StringVar(&c.identity, "identity", defaultIdentity(), "identity that owns the wallet")

	root.AddCommand(
		newCreate(c),
		newRestore(c),
		newVerify(c),
		newUnlock(c),
		newReveal(c),
		newPasswd(c),
		newClear(c),
		newStatus(c),
		newTier(c),
		newQR(c),
		newBalance(c),
		newHistory(c),
		newSend(c),
		newAnchor(c),
	)
	return root
}

func defaultIdentity() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return "local"
}

func (c *cli) open(cmd *cobra.Command) error {
	if err := config.Init(); err != nil {
		return err
	}
	cfg := config.Get()
	if err := logging.SetupWriter(cmd.ErrOrStderr(), cfg.LogLevel, true); err != nil {
		return err
	}

	a, err := app.New(cfg)
	if err != nil {
		return err
	}
	c.app = a

	in := cmd.InOrStdin()
	c.in = bufio.NewReader(in)
	c.terminal = in == io.Reader(os.Stdin) && term.IsTerminal(int(os.Stdin.Fd()))
	return nil
}

func (c *cli) close() {
	if c.app != nil {
		c.app.Close()
		c.app = nil
	}
}

// secret reads one hidden line. Without a terminal it reads a plain line
// from the command's input, so scripts can pipe secrets in.
func (c *cli) secret(prompt string, onKey func(byte)) ([]byte, error) {
	if c.terminal {
		return config.PromptPassword(prompt, onKey)
	}
	return c.line()
}

// newPassword asks for a new password twice on a terminal, once otherwise.
func (c *cli) newPassword(onKey func(byte)) ([]byte, error) {
	if c.terminal {
		return config.PromptNewPassword(onKey)
	}
	pw, err := c.line()
	if err != nil {
		return nil, err
	}
	if len(pw) == 0 {
		return nil, errors.New("password cannot be empty")
	}
	return pw, nil
}

func (c *cli) line() ([]byte, error) {
	raw, err := c.in.ReadBytes('\n')
	if err != nil && !(errors.Is(err, io.EOF) && len(raw) > 0) {
		clear(raw)
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	out := bytes.Clone(bytes.TrimRight(raw, "\r\n"))
	clear(raw)
	return out, nil
}

// confirm asks a yes/no question; without a terminal it answers no.
func (c *cli) confirm(cmd *cobra.Command, question string) bool {
	if !c.terminal {
		return false
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "%s [y/N]: ", question)
	answer, err := c.line()
	if err != nil {
		return false
	}
	return string(answer) == "y" || string(answer) == "yes"
}
