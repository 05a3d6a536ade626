package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/Veraticus/evento/internal/cli"
	"github.com/Veraticus/evento/internal/common"
	"github.com/Veraticus/evento/internal/config"
	"github.com/Veraticus/evento/internal/extract"
	"github.com/Veraticus/evento/internal/model"
	"github.com/Veraticus/evento/internal/storage"
	"github.com/spf13/cobra"
)

// predictionOutput is the JSON form of a prediction on stdout.
type predictionOutput struct {
	ID string `json:"id"`
	model.EventRecord
}

func predictCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "predict [prompt]",
		Short: "Extract an event record from a prompt",
		Long: `Extract an event record from a free-text prompt.

With a prompt argument, extracts that prompt. Without one, reads prompts from
stdin, one per line, until end of input.`,
		Example: `  evento predict "Reunión con proveedor de sonido, 3PM en la oficina central, pendiente de pago."
  cat prompts.txt | evento predict --json`,
		RunE: runPredict,
	}

	cmd.Flags().Bool("json", false, "print records as JSON lines")
	cmd.Flags().Bool("no-save", false, "do not record predictions in the history")

	return cmd
}

func runPredict(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	extractor, err := loadExtractor(cfg)
	if err != nil {
		return err
	}

	var store *storage.SQLiteStorage
	if noSave, _ := cmd.Flags().GetBool("no-save"); !noSave {
		store, err = initStorage(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()
	}

	asJSON, _ := cmd.Flags().GetBool("json")
	out := cmd.OutOrStdout()
	handle := func(prompt string) error {
		return predictOne(cmd.Context(), extractor, store, out, prompt, asJSON)
	}

	if len(args) > 0 {
		return handle(strings.Join(args, " "))
	}

	reader := cli.NewNonBlockingReader(cmd.InOrStdin())
	return reader.EachLine(cmd.Context(), handle)
}

func predictOne(ctx context.Context, p extract.Predictor, store *storage.SQLiteStorage, out io.Writer, prompt string, asJSON bool) error {
	pred, err := p.Predict(ctx, prompt)
	if err != nil {
		return err
	}

	if store != nil {
		if err := store.SavePrediction(ctx, pred); err != nil {
			common.LogError(err, "Failed to record prediction", common.Fields{"id": pred.ID})
		}
	}

	if asJSON {
		return json.NewEncoder(out).Encode(predictionOutput{ID: pred.ID, EventRecord: pred.Record})
	}
	_, err = fmt.Fprintln(out, cli.RenderPrediction(pred))
	return err
}
