package main

import (
	"log/slog"

	"github.com/Veraticus/evento/internal/config"
	"github.com/Veraticus/evento/internal/extract"
	"github.com/Veraticus/evento/internal/tui"
	"github.com/spf13/cobra"
)

func interactiveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "interactive",
		Short: "Open the interactive prompt window",
		Long: `Open a terminal window with a text area for event descriptions. Press enter
to extract the record; it appears below the input.

The model file is watched while the window is open: retraining in another
terminal swaps the new model in without restarting.`,
		Args: cobra.NoArgs,
		RunE: runInteractive,
	}

	cmd.Flags().Bool("no-save", false, "do not record predictions in the history")
	cmd.Flags().Int("history", 5, "number of predictions kept on screen")

	return cmd
}

func runInteractive(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	extractor, err := loadExtractor(cfg)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	holder := extract.NewHolder(extractor)

	reloads := make(chan tui.ReloadEvent, 1)
	holder.OnReload = func(e *extract.Extractor, err error) {
		ev := tui.ReloadEvent{Err: err}
		if err == nil {
			ev.ModelID = e.ModelID()
		}
		select {
		case reloads <- ev:
		default:
			slog.Debug("Dropped reload notification", "model", ev.ModelID)
		}
	}
	if err := holder.Watch(ctx, cfg.ModelPath, extract.Load); err != nil {
		slog.Warn("Model hot reload disabled", "error", err)
	}

	historySize, _ := cmd.Flags().GetInt("history")
	opts := []tui.Option{tui.WithReloads(reloads), tui.WithHistory(historySize)}

	if noSave, _ := cmd.Flags().GetBool("no-save"); !noSave {
		store, err := initStorage(ctx, cfg)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()
		opts = append(opts, tui.WithSaver(store))
	}

	return tui.Run(ctx, holder, opts...)
}
