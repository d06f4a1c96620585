package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/AlexZinkM/walletkeeper/internal/model"
	"github.com/AlexZinkM/walletkeeper/internal/tier"
	"github.com/AlexZinkM/walletkeeper/wallet"

	"github.com/spf13/cobra"
)

func newStatus(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the stored wallet and its security tier",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := c.app.Service.Status(cmd.Context(), c.identity)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "address: %s\n", st.Address)
			fmt.Fprintf(w, "tier:    %s (%s)\n", st.Tier, st.Description)
			fmt.Fprintf(w, "medium:  %s\n", st.Medium)
			fmt.Fprintf(w, "words:   %d\n", st.WordCount)
			fmt.Fprintf(w, "created: %s\n", st.CreatedAt.Local().Format(time.RFC3339))
			for _, r := range st.Recommendations {
				fmt.Fprintf(w, "  - %s\n", r)
			}
			return nil
		},
	}
}

func newTier(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:       "tier BASIC|ENHANCED|MAXIMUM",
		Short:     "Record the wallet's security tier",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(tier.Basic), string(tier.Enhanced), string(tier.Maximum)},
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := wallet.ParseTier(args[0])
			if err != nil {
				return err
			}
			st, err := c.app.Service.SetTier(cmd.Context(), c.identity, t)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "tier set to %s: %s\n", st.Tier, st.Description)
			return nil
		},
	}
}

func newQR(c *cli) *cobra.Command {
	var (
		out  string
		size int
	)
	cmd := &cobra.Command{
		Use:   "qr",
		Short: "Write the wallet address as a PNG QR code",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			png, err := c.app.Service.AddressQR(cmd.Context(), c.identity, size)
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, png, 0o644); err != nil {
				return fmt.Errorf("failed to write QR code: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "QR code written to %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "wallet-address.png", "output file")
	cmd.Flags().IntVar(&size, "size", 0, "image size in pixels, 0 selects the default")
	return cmd
}

func newBalance(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "balance",
		Short: "Show the wallet balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			bal, err := c.app.Service.Balance(cmd.Context(), c.identity)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%s SOL\n", bal.SOL)
			if bal.Value != "" {
				fmt.Fprintf(w, "%s %s (at %s)\n", bal.Value, bal.Currency, bal.Rate)
			}
			for _, warning := range bal.Warnings {
				fmt.Fprintf(w, "warning: %s\n", warning)
			}
			return nil
		},
	}
}

func newHistory(c *cli) *cobra.Command {
	var typ string
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent transfers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req := &model.LogRequest{}
			if typ != "" {
				t := model.TransactionType(typ)
				req.Type = &t
			}
			if err := req.Validate(); err != nil {
				return err
			}
			st, err := c.app.Service.Status(cmd.Context(), c.identity)
			if err != nil {
				return err
			}
			txs, err := c.app.Service.Transactions(cmd.Context(), c.identity)
			if err != nil {
				return err
			}
			hist := model.NewLogResponse(st.Address, txs, req)

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "TIME\tTYPE\tAMOUNT\tFEE\tSTATUS\tCOUNTERPARTY")
			for _, tx := range hist.Transactions {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
					tx.Timestamp.Local().Format(time.DateTime), tx.Type, tx.Amount, tx.OurFeeSOL, tx.Status, tx.Counterparty)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "received %s SOL, spent %s SOL\n", hist.TotalIncomeSOL, hist.TotalSpentSOL)
			return nil
		},
	}
	cmd.Flags().StringVar(&typ, "type", "", "only DEBIT (received) or CREDIT (sent)")
	return cmd
}

func newSend(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "send ADDRESS AMOUNT",
		Short: "Send SOL to an address",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withPassword(cmd, func(password []byte) error {
				txID, err := c.app.Service.Send(cmd.Context(), c.identity, password, args[0], args[1])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "sent %s SOL to %s\ntransaction: %s\n", args[1], args[0], txID)
				return nil
			})
		},
	}
}

func newAnchor(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "anchor DATA",
		Short: "Record a short memo on the ledger",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withPassword(cmd, func(password []byte) error {
				txID, err := c.app.Service.Anchor(cmd.Context(), c.identity, password, []byte(args[0]))
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "anchored in transaction %s\n", txID)
				return nil
			})
		},
	}
}
