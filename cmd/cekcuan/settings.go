package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cekcuan/internal/cli"
)

func settingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Read and write persisted settings",
		Long: `Key/value configuration stored alongside the ledger, e.g.
display.currency or savings.overflow_policy (reject or clamp).`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get <key>",
		Short: "Print a setting value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			value, err := store.GetSetting(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to read setting: %w", err)
			}
			if value == "" {
				fmt.Println(cli.SubtleStyle.Render("(unset)"))
				return nil
			}
			fmt.Println(value)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Store a setting value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.SaveSetting(ctx, args[0], args[1]); err != nil {
				return fmt.Errorf("failed to save setting: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Saved %s = %s", args[0], args[1])))
			return nil
		},
	})

	return cmd
}
