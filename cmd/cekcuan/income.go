package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cekcuan/internal/cli"
)

func incomeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "income <amount> <source>",
		Short: "Record income",
		Long:  `Add money to the tracked income pool, e.g. "cekcuan income 1000000 Salary".`,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			amount, err := parseAmount(args[0])
			if err != nil {
				return err
			}

			led, store, err := initLedger(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			id, err := led.RecordIncome(ctx, amount, args[1])
			if err != nil {
				return fmt.Errorf("failed to record income: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Recorded income of %s from %q (id %s)",
				cli.FormatMoney(amount, displayCurrency(ctx, store)), args[1], id)))
			return nil
		},
	}
}
