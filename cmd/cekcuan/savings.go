package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"cekcuan/internal/cli"
	"cekcuan/internal/common"
	"cekcuan/internal/model"
)

func savingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "savings",
		Short: "Manage savings goals",
		Long:  `Create, fund, list and delete named savings goals.`,
	}

	cmd.AddCommand(listSavingsCmd())
	cmd.AddCommand(addSavingsCmd())
	cmd.AddCommand(fundSavingsCmd())
	cmd.AddCommand(deleteSavingsCmd())
	cmd.AddCommand(driftSavingsCmd())

	return cmd
}

func listSavingsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all savings goals",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			led, store, err := initLedger(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			goals, err := led.SavingsGoals(ctx)
			if err != nil {
				return fmt.Errorf("failed to list savings goals: %w", err)
			}

			if len(goals) == 0 {
				fmt.Println(cli.SubtleStyle.Render("No savings goals yet. Use 'cekcuan savings add' to create one."))
				return nil
			}

			currency := displayCurrency(ctx, store)
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer w.Flush()

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				cli.TableHeaderStyle.Render("ID"),
				cli.TableHeaderStyle.Render("Name"),
				cli.TableHeaderStyle.Render("Saved"),
				cli.TableHeaderStyle.Render("Target"),
				cli.TableHeaderStyle.Render("Remaining"))
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				strings.Repeat("-", 4), strings.Repeat("-", 16),
				strings.Repeat("-", 12), strings.Repeat("-", 12), strings.Repeat("-", 12))

			for _, goal := range goals {
				remaining := cli.FormatMoney(goal.Remaining(), currency)
				if goal.Funded() {
					remaining = cli.SuccessStyle.Render("funded")
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
					goal.ID, goal.Name,
					cli.FormatMoney(goal.Current, currency),
					cli.FormatMoney(goal.Target, currency),
					remaining)
			}

			return nil
		},
	}
}

func addSavingsCmd() *cobra.Command {
	var color string

	cmd := &cobra.Command{
		Use:   "add <name> <target>",
		Short: "Create a savings goal",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			target, err := parseAmount(args[1])
			if err != nil {
				return err
			}

			led, store, err := initLedger(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			id, err := led.CreateSavingsGoal(ctx, args[0], target, color)
			if err != nil {
				return fmt.Errorf("failed to create savings goal: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Created savings goal %q with target %s (id %d)",
				args[0], cli.FormatMoney(target, displayCurrency(ctx, store)), id)))
			return nil
		},
	}

	cmd.Flags().StringVar(&color, "color", "", "display color for the goal card")

	return cmd
}

func fundSavingsCmd() *cobra.Command {
	var source string

	cmd := &cobra.Command{
		Use:   "fund <goal-id> <amount>",
		Short: "Add funds to a savings goal",
		Long: `Contribute to a goal. Income-sourced contributions draw down available
funds; external contributions are money entering from outside the tracked
pool and skip the funds check.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			goalID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("%w: %q is not a goal id", common.ErrValidation, args[0])
			}
			amount, err := parseAmount(args[1])
			if err != nil {
				return err
			}

			led, store, err := initLedger(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			err = led.AllocateToSavings(ctx, goalID, amount, model.FundSource(source))
			switch {
			case errors.Is(err, common.ErrInsufficientFunds):
				return common.NewUserError("Not enough available funds for this contribution", err)
			case errors.Is(err, common.ErrExceedsTarget):
				return common.NewUserError("Contribution would overshoot the goal's target", err)
			case err != nil:
				return fmt.Errorf("failed to fund savings goal: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Added %s to goal %d",
				cli.FormatMoney(amount, displayCurrency(ctx, store)), goalID)))
			return nil
		},
	}

	cmd.Flags().StringVar(&source, "source", string(model.SourceIncome), "fund source (income or external)")

	return cmd
}

func deleteSavingsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <goal-id>",
		Short: "Delete a savings goal",
		Long: `Remove a goal. Historical transactions that funded it are kept; their
goal reference becomes display-only.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			goalID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("%w: %q is not a goal id", common.ErrValidation, args[0])
			}

			led, store, err := initLedger(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := led.DeleteSavingsGoal(ctx, goalID); err != nil {
				return fmt.Errorf("failed to delete savings goal: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Deleted savings goal %d", goalID)))
			return nil
		},
	}
}

func driftSavingsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "drift",
		Short: "Audit cached savings totals against transaction history",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			led, store, err := initLedger(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			drifts, err := led.VerifySavingsDrift(ctx)
			if err != nil {
				return fmt.Errorf("failed to verify savings drift: %w", err)
			}

			if len(drifts) == 0 {
				fmt.Println(cli.FormatSuccess("All savings counters match transaction history"))
				return nil
			}

			currency := displayCurrency(ctx, store)
			for _, d := range drifts {
				fmt.Println(cli.FormatWarning(fmt.Sprintf("goal %q (id %d): cached %s, history says %s",
					d.Name, d.GoalID,
					cli.FormatMoney(d.Cached, currency),
					cli.FormatMoney(d.Derived, currency))))
			}
			return nil
		},
	}
}
