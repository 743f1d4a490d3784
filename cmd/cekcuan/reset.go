package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cekcuan/internal/cli"
	"cekcuan/internal/common"
)

func resetCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Wipe all ledger data",
		Long: `Destructively delete every transaction, savings goal, budget and
category, then restore the default categories. This cannot be undone.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if !force {
				return common.NewUserError("Refusing to wipe the ledger without --force", nil)
			}

			led, store, err := initLedger(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := led.ResetAllData(ctx); err != nil {
				return fmt.Errorf("failed to reset ledger: %w", err)
			}

			fmt.Println(cli.FormatSuccess("Ledger wiped; default categories restored"))
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "confirm the destructive wipe")

	return cmd
}
