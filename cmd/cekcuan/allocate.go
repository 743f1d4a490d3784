package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"cekcuan/internal/cli"
	"cekcuan/internal/common"
)

func allocateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "allocate <amount>",
		Short: "Allocate funds to this month's budget",
		Long: `Move money from available funds into the current month's budget.
Fails when the amount exceeds what is available for allocation.`,
		Args: cobra.ExactArgs(1),
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

			if err := led.AllocateToBudget(ctx, amount); err != nil {
				if errors.Is(err, common.ErrInsufficientFunds) {
					return common.NewUserError("Not enough available funds for this allocation", err)
				}
				return fmt.Errorf("failed to allocate to budget: %w", err)
			}

			budget, err := led.MonthlyBudget(ctx)
			if err != nil {
				return err
			}

			currency := displayCurrency(ctx, store)
			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Allocated %s; monthly budget is now %s",
				cli.FormatMoney(amount, currency), cli.FormatMoney(budget, currency))))
			return nil
		},
	}
}
