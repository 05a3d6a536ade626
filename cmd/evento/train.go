package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Veraticus/evento/internal/artifact"
	"github.com/Veraticus/evento/internal/cli"
	"github.com/Veraticus/evento/internal/common"
	"github.com/Veraticus/evento/internal/config"
	"github.com/Veraticus/evento/internal/dataset"
	"github.com/Veraticus/evento/internal/engine"
	"github.com/Veraticus/evento/internal/model"
	"github.com/spf13/cobra"
)

func trainCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train the extraction model",
		Long: `Train a new model on the built-in examples, any extra dataset files and,
optionally, the corrections recorded with 'evento correct'.

The model is written atomically: an interrupted or failed run leaves the
previous model in place.`,
		Args: cobra.NoArgs,
		RunE: runTrain,
	}

	cmd.Flags().StringSlice("dataset", nil, "additional YAML dataset files")
	cmd.Flags().Bool("with-corrections", false, "include stored corrections as training examples")
	cmd.Flags().Bool("no-builtin", false, "skip the built-in examples")
	cmd.Flags().Int("epochs", 0, "training epochs (default from config)")
	cmd.Flags().Int("batch-size", 0, "mini-batch size (default from config)")
	cmd.Flags().Float64("learning-rate", 0, "Adam learning rate (default from config)")
	cmd.Flags().Uint64("seed", 0, "random seed (default from config)")

	return cmd
}

func runTrain(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	applyTrainingFlags(cmd, &cfg.Training)
	if err := cfg.Validate(); err != nil {
		return err
	}

	examples, err := gatherExamples(cmd, cfg)
	if err != nil {
		return err
	}
	if len(examples) == 0 {
		return common.NewUserError("No training examples: add --dataset files or drop --no-builtin", nil)
	}

	handler := cli.NewInterruptHandler(cmd.ErrOrStderr())
	ctx := handler.HandleInterrupts(cmd.Context(), "Training", "The current model was left untouched.")

	trainer := engine.NewWithConfig(cfg.Training, cli.NewTrainingProgress(cmd.ErrOrStderr()))
	bundle, _, err := trainer.Train(ctx, examples)
	if err != nil {
		if errors.Is(err, context.Canceled) && handler.WasInterrupted() {
			return nil
		}
		return fmt.Errorf("training failed: %w", err)
	}

	if err := artifact.Save(cfg.ModelPath, bundle); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), cli.RenderTrainingSummary(bundle, cfg.ModelPath))
	return nil
}

func applyTrainingFlags(cmd *cobra.Command, t *engine.Config) {
	flags := cmd.Flags()
	if flags.Changed("epochs") {
		t.Epochs, _ = flags.GetInt("epochs")
	}
	if flags.Changed("batch-size") {
		t.BatchSize, _ = flags.GetInt("batch-size")
	}
	if flags.Changed("learning-rate") {
		t.LearningRate, _ = flags.GetFloat64("learning-rate")
	}
	if flags.Changed("seed") {
		t.Seed, _ = flags.GetUint64("seed")
	}
}

func gatherExamples(cmd *cobra.Command, cfg config.Config) ([]model.AnnotatedExample, error) {
	var examples []model.AnnotatedExample

	if noBuiltin, _ := cmd.Flags().GetBool("no-builtin"); !noBuiltin {
		examples = append(examples, dataset.Builtin()...)
	}

	files, _ := cmd.Flags().GetStringSlice("dataset")
	for _, path := range files {
		extra, err := dataset.LoadFile(config.ExpandPath(path))
		if err != nil {
			return nil, err
		}
		slog.Info("Loaded dataset", "path", path, "examples", len(extra))
		examples = append(examples, extra...)
	}

	if withCorrections, _ := cmd.Flags().GetBool("with-corrections"); withCorrections {
		store, err := initStorage(cmd.Context(), cfg)
		if err != nil {
			return nil, err
		}
		defer func() { _ = store.Close() }()

		corrections, err := store.GetCorrections(cmd.Context())
		if err != nil {
			return nil, err
		}
		for _, c := range corrections {
			examples = append(examples, c.AsExample())
		}
		slog.Info("Loaded corrections", "count", len(corrections))
	}

	return examples, nil
}
