package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cekcuan/internal/category"
	"cekcuan/internal/cli"
)

func expenseCmd() *cobra.Command {
	var (
		categoryName string
		details      string
	)

	cmd := &cobra.Command{
		Use:   "expense <amount> <description>",
		Short: "Record an expense",
		Long: `Record realized spending. Expenses may exceed the monthly budget;
overspend is reported, not rejected.`,
		Args: cobra.ExactArgs(2),
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

			registry := category.NewRegistry(store)
			cat, err := registry.Resolve(ctx, categoryName)
			if err != nil {
				return err
			}

			id, err := led.RecordExpense(ctx, amount, args[1], cat.ID, details)
			if err != nil {
				return fmt.Errorf("failed to record expense: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Recorded %s expense %q in %s (id %s)",
				cli.FormatMoney(amount, displayCurrency(ctx, store)), args[1], cat.Name, id)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&categoryName, "category", "c", "Expense", "category name for the expense")
	cmd.Flags().StringVarP(&details, "details", "d", "", "optional free-text details")

	return cmd
}
