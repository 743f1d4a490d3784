package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"cekcuan/internal/cli"
)

func summaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show balances and monthly totals",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			led, store, err := initLedger(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			balance, err := led.Balance(ctx)
			if err != nil {
				return err
			}
			available, err := led.AvailableFunds(ctx)
			if err != nil {
				return err
			}
			budget, err := led.MonthlyBudget(ctx)
			if err != nil {
				return err
			}
			monthlyIncome, err := led.MonthlyIncome(ctx)
			if err != nil {
				return err
			}
			monthlySpending, err := led.MonthlySpending(ctx)
			if err != nil {
				return err
			}
			dailySpending, err := led.DailySpending(ctx)
			if err != nil {
				return err
			}
			savingsContribution, err := led.MonthlySavingsContribution(ctx)
			if err != nil {
				return err
			}

			currency := displayCurrency(ctx, store)
			var sb strings.Builder
			row := func(label string, value string) {
				sb.WriteString(fmt.Sprintf("%-22s %s\n", label, value))
			}
			row("Balance", cli.FormatMoney(balance, currency))
			row("Available funds", cli.FormatMoney(available, currency))
			row("Monthly budget", cli.FormatMoney(budget, currency))
			row("Income this month", cli.FormatMoney(monthlyIncome, currency))
			row("Spent this month", cli.FormatMoney(monthlySpending, currency))
			row("Spent today", cli.FormatMoney(dailySpending, currency))
			row("Saved this month", cli.FormatMoney(savingsContribution, currency))

			overspent := monthlySpending.GreaterThan(budget) && budget.IsPositive()

			fmt.Println(cli.RenderBox("Summary", strings.TrimRight(sb.String(), "\n")))
			if overspent {
				fmt.Println(cli.FormatWarning("Spending this month exceeds the allocated budget"))
			}
			return nil
		},
	}
}
