package main

import (
	"encoding/json"
	"fmt"

	"github.com/Veraticus/evento/internal/cli"
	"github.com/Veraticus/evento/internal/config"
	"github.com/spf13/cobra"
)

func historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent predictions",
		Args:  cobra.NoArgs,
		RunE:  runHistory,
	}

	cmd.Flags().Int("limit", 20, "number of predictions to show (0 for all)")
	cmd.Flags().Bool("json", false, "print predictions as JSON lines")

	return cmd
}

func runHistory(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	store, err := initStorage(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	limit, _ := cmd.Flags().GetInt("limit")
	predictions, err := store.ListPredictions(cmd.Context(), limit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(out)
		for _, p := range predictions {
			if err := enc.Encode(predictionOutput{ID: p.ID, EventRecord: p.Record}); err != nil {
				return err
			}
		}
		return nil
	}

	total, err := store.CountPredictions(cmd.Context())
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, cli.RenderHistory(predictions, total))
	return err
}
