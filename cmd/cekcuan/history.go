package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"cekcuan/internal/cli"
	"cekcuan/internal/model"
)

func historyCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show transaction history, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			led, store, err := initLedger(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			txns, err := led.Transactions(ctx)
			if err != nil {
				return fmt.Errorf("failed to list transactions: %w", err)
			}
			if limit > 0 && len(txns) > limit {
				txns = txns[:limit]
			}

			if len(txns) == 0 {
				fmt.Println(cli.SubtleStyle.Render("No transactions recorded yet."))
				return nil
			}

			currency := displayCurrency(ctx, store)
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer w.Flush()

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				cli.TableHeaderStyle.Render("Date"),
				cli.TableHeaderStyle.Render("Type"),
				cli.TableHeaderStyle.Render("Amount"),
				cli.TableHeaderStyle.Render("Category"),
				cli.TableHeaderStyle.Render("Description"))
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				strings.Repeat("-", 16), strings.Repeat("-", 10),
				strings.Repeat("-", 12), strings.Repeat("-", 12), strings.Repeat("-", 24))

			for _, txn := range txns {
				amount := cli.FormatMoney(txn.Amount, currency)
				switch txn.Type {
				case model.TypeExpense:
					amount = cli.ErrorStyle.Render("-" + amount)
				case model.TypeIncome:
					amount = cli.SuccessStyle.Render("+" + amount)
				case model.TypeAllocation:
					amount = cli.SubtleStyle.Render(amount)
				}

				categoryName := txn.CategoryName
				if categoryName == "" {
					categoryName = cli.SubtleStyle.Render("(none)")
				}

				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					txn.Date.Local().Format("2006-01-02 15:04"),
					txn.Type, amount, categoryName, txn.Description)
			}

			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "show at most this many entries (0 = all)")

	return cmd
}
