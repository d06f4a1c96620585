package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/AlexZinkM/walletkeeper/internal/mnemonic"
	"github.com/AlexZinkM/walletkeeper/wallet"

	"github.com/spf13/cobra"
)

func newCreate(c *cli) *cobra.Command {
	var (
		words int
		force bool
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Generate a new wallet and print its recovery phrase once",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			size := mnemonic.EntropySize(words)
			if size == 0 {
				return fmt.Errorf("--words must be 12 or 24, got %d", words)
			}
			if err := c.checkReplace(cmd, force); err != nil {
				return err
			}

			src := c.app.Service.Entropy()
			buf, err := src.Generate(size)
			if err != nil {
				return err
			}
			defer buf.Release()

			// Keystroke timing while the password is typed is folded into
			// the buffer before the phrase is derived.
			var onKey func(byte)
			col := src.Collector()
			if col != nil {
				onKey = func(byte) { col.Add(nil) }
			}
			password, err := c.newPassword(onKey)
			if err != nil {
				return err
			}
			defer clear(password)
			if col != nil {
				col.Flush()
			}

			res, err := c.app.Service.CreateFrom(cmd.Context(), c.identity, buf, password)
			if err != nil {
				return err
			}
			printResult(cmd.OutOrStdout(), res)
			return nil
		},
	}
	cmd.Flags().IntVar(&words, "words", 12, "recovery phrase length, 12 or 24")
	cmd.Flags().BoolVar(&force, "force", false, "replace an existing wallet without asking")
	return cmd
}

func newRestore(c *cli) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "restore",
		Short: "Restore a wallet from its recovery phrase",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.checkReplace(cmd, force); err != nil {
				return err
			}
			phrase, err := c.secret("Recovery phrase: ", nil)
			if err != nil {
				return err
			}
			defer clear(phrase)
			password, err := c.newPassword(nil)
			if err != nil {
				return err
			}
			defer clear(password)

			res, err := c.app.Service.Restore(cmd.Context(), c.identity, string(phrase), password)
			if err != nil {
				return err
			}
			printResult(cmd.OutOrStdout(), res)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "replace an existing wallet without asking")
	return cmd
}

func newVerify(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Check a recovery phrase without storing anything",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			phrase, err := c.secret("Recovery phrase: ", nil)
			if err != nil {
				return err
			}
			defer clear(phrase)
			valid, err := c.app.Service.CheckPhrase(string(phrase))
			if err != nil {
				return err
			}
			if !valid {
				return fmt.Errorf("recovery phrase is not valid")
			}
			fmt.Fprintln(cmd.OutOrStdout(), "recovery phrase is valid")
			return nil
		},
	}
}

func newUnlock(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "unlock",
		Short: "Check the wallet password",
		Long:  "Unlock opens a session that lasts only as long as this process; use it to confirm the password.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := c.unlock(cmd)
			if err != nil {
				return err
			}
			printResult(cmd.OutOrStdout(), res)
			return nil
		},
	}
}

func newReveal(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "reveal",
		Short: "Print the recovery phrase for backup",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withPassword(cmd, func(password []byte) error {
				res, err := c.app.Service.RevealMnemonic(cmd.Context(), c.identity, password)
				if err != nil {
					return err
				}
				printResult(cmd.OutOrStdout(), res)
				return nil
			})
		},
	}
}

func newPasswd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "passwd",
		Short: "Change the wallet password",
		Long:  "Passwd re-encrypts the wallet under the new password with the configured key derivation and cipher.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			old, err := c.secret("Current password: ", nil)
			if err != nil {
				return err
			}
			defer clear(old)
			password, err := c.newPassword(nil)
			if err != nil {
				return err
			}
			defer clear(password)

			res, err := c.app.Service.ChangePassword(cmd.Context(), c.identity, old, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "password changed for %s\n", res.Address)
			return nil
		},
	}
}

func newClear(c *cli) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete the stored wallet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes && !c.confirm(cmd, "Delete the wallet for "+c.identity+"? Funds are lost without the recovery phrase.") {
				return fmt.Errorf("not confirmed; pass --yes to delete")
			}
			if err := c.app.Service.Clear(cmd.Context(), c.identity); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "wallet deleted")
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "delete without asking")
	return cmd
}

// checkReplace refuses to overwrite an existing wallet unless forced or
// confirmed.
func (c *cli) checkReplace(cmd *cobra.Command, force bool) error {
	if force {
		return nil
	}
	st, err := c.app.Service.Status(cmd.Context(), c.identity)
	if wallet.CodeOf(err) == wallet.CodeNotFound {
		return nil
	}
	if err != nil {
		return err
	}
	if c.confirm(cmd, "Replace the existing wallet "+st.Address+"?") {
		return nil
	}
	return fmt.Errorf("a wallet already exists for %s; pass --force to replace it", c.identity)
}

func (c *cli) unlock(cmd *cobra.Command) (*wallet.Result, error) {
	password, err := c.secret("Password: ", nil)
	if err != nil {
		return nil, err
	}
	defer clear(password)
	return c.app.Service.Unlock(cmd.Context(), c.identity, password)
}

// withPassword unlocks with a prompted password and hands the same
// password to fn, for verbs that need both a session and the key.
func (c *cli) withPassword(cmd *cobra.Command, fn func(password []byte) error) error {
	password, err := c.secret("Password: ", nil)
	if err != nil {
		return err
	}
	defer clear(password)
	if _, err := c.app.Service.Unlock(cmd.Context(), c.identity, password); err != nil {
		return err
	}
	defer c.app.Service.Lock(c.identity)
	return fn(password)
}

func printResult(w io.Writer, res *wallet.Result) {
	fmt.Fprintf(w, "address: %s\n", res.Address)
	fmt.Fprintf(w, "tier:    %s\n", res.Tier)
	if res.WordCount > 0 {
		fmt.Fprintf(w, "words:   %d\n", res.WordCount)
	}
	if res.ExpiresAt != nil {
		fmt.Fprintf(w, "session: open until %s\n", res.ExpiresAt.Local().Format("15:04:05"))
	}
	for _, warning := range res.Warnings {
		fmt.Fprintf(w, "warning: %s\n", warning)
	}
	if res.Mnemonic != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Recovery phrase (keep it offline; anyone holding it controls the funds):")
		fmt.Fprintf(w, "  %s\n", strings.Join(strings.Fields(res.Mnemonic), " "))
	}
}
