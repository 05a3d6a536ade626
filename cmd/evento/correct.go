package main

import (
	"errors"
	"fmt"

	"github.com/Veraticus/evento/internal/cli"
	"github.com/Veraticus/evento/internal/common"
	"github.com/Veraticus/evento/internal/config"
	"github.com/Veraticus/evento/internal/model"
	"github.com/spf13/cobra"
)

func correctCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "correct <prediction-id>",
		Short: "Record the right answer for a stored prediction",
		Long: `Record the correct activity type, payment status and entity fields for a
prediction listed by 'evento history'. Correcting the same prediction again
only changes the fields given; the others keep their earlier correction, or
the predicted activity type and payment status. Corrections are used as training examples by 'evento train --with-corrections'.`,
		Example: `  evento correct 3f1c2a4e-... --payment-status Pagado --provider "Jazz Company"`,
		Args:    cobra.ExactArgs(1),
		RunE:    runCorrect,
	}

	cmd.Flags().String("activity-type", "", "Eventual or Fijo")
	cmd.Flags().String("payment-status", "", "Pendiente or Pagado")
	cmd.Flags().String("provider", "", "event provider")
	cmd.Flags().String("location", "", "event location")
	cmd.Flags().String("description", "", "event description")

	return cmd
}

func runCorrect(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	if !flags.Changed("activity-type") && !flags.Changed("payment-status") &&
		!flags.Changed("provider") && !flags.Changed("location") && !flags.Changed("description") {
		return common.NewUserError("Nothing to correct: pass at least one field flag", nil)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	store, err := initStorage(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	pred, err := store.GetPrediction(cmd.Context(), args[0])
	if errors.Is(err, common.ErrNotFound) {
		return common.NewUserError(fmt.Sprintf("No prediction with ID %s", args[0]), err)
	}
	if err != nil {
		return err
	}

	c, err := store.GetCorrection(cmd.Context(), pred.ID)
	switch {
	case errors.Is(err, common.ErrNotFound):
		c = &model.Correction{
			PredictionID:  pred.ID,
			ActivityType:  pred.Record.ActivityType,
			PaymentStatus: pred.Record.PaymentStatus,
		}
	case err != nil:
		return err
	}

	if flags.Changed("activity-type") {
		raw, _ := flags.GetString("activity-type")
		if c.ActivityType, err = model.ParseActivityType(raw); err != nil {
			return common.NewUserError("Activity type must be Eventual or Fijo", err)
		}
	}
	if flags.Changed("payment-status") {
		raw, _ := flags.GetString("payment-status")
		if c.PaymentStatus, err = model.ParsePaymentStatus(raw); err != nil {
			return common.NewUserError("Payment status must be Pendiente or Pagado", err)
		}
	}
	if flags.Changed("provider") {
		c.Provider, _ = flags.GetString("provider")
	}
	if flags.Changed("location") {
		c.Location, _ = flags.GetString("location")
	}
	if flags.Changed("description") {
		c.Description, _ = flags.GetString("description")
	}

	if err := store.SaveCorrection(cmd.Context(), c); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Correction saved for %s (%s, %s)",
		c.PredictionID, c.ActivityType, c.PaymentStatus)))
	return nil
}
