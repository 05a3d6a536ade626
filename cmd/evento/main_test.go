package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Veraticus/evento/internal/common"
	"github.com/Veraticus/evento/internal/model"
	"github.com/Veraticus/evento/internal/normalize"
	"github.com/Veraticus/evento/internal/testutil"
	"github.com/Veraticus/evento/internal/testutil/predictions"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const meetingPrompt = "Reunión con proveedor de sonido, 3PM en la oficina central, pendiente de pago."

// writeTestConfig writes a config file with small layer sizes so that
// training runs quickly.
func writeTestConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	content := `
model:
  path: ` + filepath.Join(dir, "models", "event.model") + `
database:
  path: ` + filepath.Join(dir, "evento.db") + `
logging:
  level: error
training:
  epochs: 3
  embedding_dim: 8
  hidden1: 8
  hidden2: 4
  dense_units: 4
`
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// execute runs the CLI with args and returns what it printed on stdout.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)

	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func decodeLines(t *testing.T, s string) []predictionOutput {
	t.Helper()
	var outputs []predictionOutput
	scanner := bufio.NewScanner(strings.NewReader(s))
	for scanner.Scan() {
		var o predictionOutput
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &o))
		outputs = append(outputs, o)
	}
	return outputs
}

func TestTrainPredictCorrectFlow(t *testing.T) {
	cfgPath := writeTestConfig(t)

	out, err := execute(t, "", "train", "--config", cfgPath, "--epochs", "2", "--seed", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "Training complete")

	out, err = execute(t, "", "predict", "--config", cfgPath, "--json", meetingPrompt)
	require.NoError(t, err)
	preds := decodeLines(t, out)
	require.Len(t, preds, 1)

	got := preds[0]
	assert.NotEmpty(t, got.ID)
	assert.Equal(t, model.UnknownProvider, got.Provider)
	assert.Equal(t, model.UnknownLocation, got.Location)
	assert.Equal(t, model.PromptDescription, got.Description)
	assert.Equal(t, "15:00", got.Time)
	assert.Equal(t, normalize.DateSentinel, got.Date)
	assert.Equal(t, 0, got.Amount)
	assert.Contains(t, []model.ActivityType{model.ActivityEventual, model.ActivityFijo}, got.ActivityType)
	assert.Contains(t, []model.PaymentStatus{model.PaymentPendiente, model.PaymentPagado}, got.PaymentStatus)

	out, err = execute(t, "", "history", "--config", cfgPath, "--json")
	require.NoError(t, err)
	history := decodeLines(t, out)
	require.Len(t, history, 1)
	assert.Equal(t, got, history[0])

	out, err = execute(t, "", "correct", got.ID, "--config", cfgPath, "--payment-status", "Pendiente", "--activity-type", "Eventual")
	require.NoError(t, err)
	assert.Contains(t, out, "Correction saved")

	out, err = execute(t, "", "train", "--config", cfgPath, "--no-builtin", "--with-corrections", "--epochs", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Training complete")
}

func TestPredictReadsStdinLines(t *testing.T) {
	cfgPath := writeTestConfig(t)

	_, err := execute(t, "", "train", "--config", cfgPath, "--epochs", "1")
	require.NoError(t, err)

	stdin := "Concierto el viernes, 8PM, costo: 50USD\n\nCena 9:30pm 120 pesos"
	out, err := execute(t, stdin, "predict", "--config", cfgPath, "--json", "--no-save")
	require.NoError(t, err)

	preds := decodeLines(t, out)
	require.Len(t, preds, 2)
	assert.Equal(t, "20:00", preds[0].Time)
	assert.Equal(t, 50, preds[0].Amount)
	assert.NotEqual(t, normalize.DateSentinel, preds[0].Date)
	assert.Equal(t, "21:30", preds[1].Time)
	assert.Equal(t, 120, preds[1].Amount)

	out, err = execute(t, "", "history", "--config", cfgPath, "--json")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestHistoryLimit(t *testing.T) {
	cfgPath := writeTestConfig(t)
	preds := predictions.NewBuilder(t).
		WithFixture(predictions.FixtureMeeting).
		WithFixture(predictions.FixtureConcert).
		WithPrompt("Cena 9:30pm 120 pesos").
		Build()
	testutil.SetupTestDBAt(t, filepath.Join(filepath.Dir(cfgPath), "evento.db"), preds...).Close()

	out, err := execute(t, "", "history", "--config", cfgPath, "--json", "--limit", "2")
	require.NoError(t, err)
	history := decodeLines(t, out)
	require.Len(t, history, 2)
	assert.Equal(t, preds[2].ID, history[0].ID)
	assert.Equal(t, preds[1].ID, history[1].ID)
	assert.Equal(t, 50, history[1].Amount)

	out, err = execute(t, "", "history", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Predictions (3 of 3)")
	for _, p := range preds {
		assert.Contains(t, out, p.ID)
	}
}

func TestCorrectStoredPrediction(t *testing.T) {
	cfgPath := writeTestConfig(t)
	dbPath := filepath.Join(filepath.Dir(cfgPath), "evento.db")
	pred := predictions.NewBuilder(t).WithFixture(predictions.FixtureMeeting).BuildOne()
	testutil.SetupTestDBAt(t, dbPath, pred).Close()

	_, err := execute(t, "", "correct", pred.ID, "--config", cfgPath, "--activity-type", "Fijo", "--location", "Oficina central")
	require.NoError(t, err)

	db := testutil.SetupTestDBAt(t, dbPath)
	corrections, err := db.Storage.GetCorrections(context.Background())
	require.NoError(t, err)
	require.Len(t, corrections, 1)
	assert.Equal(t, model.ActivityFijo, corrections[0].ActivityType)
	assert.Equal(t, model.PaymentPendiente, corrections[0].PaymentStatus)
	assert.Equal(t, "Oficina central", corrections[0].Location)
	assert.Equal(t, pred.Prompt, corrections[0].Prompt)

	_, err = execute(t, "", "correct", pred.ID, "--config", cfgPath, "--payment-status", "Pagado")
	require.NoError(t, err)

	updated, err := db.Storage.GetCorrection(context.Background(), pred.ID)
	require.NoError(t, err)
	assert.Equal(t, corrections[0].ID, updated.ID)
	assert.Equal(t, model.ActivityFijo, updated.ActivityType)
	assert.Equal(t, model.PaymentPagado, updated.PaymentStatus)
	assert.Equal(t, "Oficina central", updated.Location)
	assert.Empty(t, updated.Provider)

	_, err = execute(t, "", "correct", pred.ID, "--config", cfgPath, "--payment-status", "Gratis")
	var userErr *common.UserError
	require.ErrorAs(t, err, &userErr)
	assert.Contains(t, userErr.UserMessage, "Pendiente or Pagado")
}

func TestPredictWithoutModel(t *testing.T) {
	cfgPath := writeTestConfig(t)

	_, err := execute(t, "", "predict", "--config", cfgPath, "hola")
	var userErr *common.UserError
	require.ErrorAs(t, err, &userErr)
	assert.Contains(t, userErr.UserMessage, "evento train")
}

func TestCorrectErrors(t *testing.T) {
	cfgPath := writeTestConfig(t)

	tests := []struct {
		name    string
		wantMsg string
		args    []string
	}{
		{name: "no fields", args: []string{"correct", "pred-1"}, wantMsg: "Nothing to correct"},
		{name: "unknown prediction", args: []string{"correct", "pred-1", "--payment-status", "Pagado"}, wantMsg: "No prediction with ID pred-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, "", append(tt.args, "--config", cfgPath)...)
			var userErr *common.UserError
			require.ErrorAs(t, err, &userErr)
			assert.Contains(t, userErr.UserMessage, tt.wantMsg)
		})
	}
}

func TestTrainRejectsInvalidFlags(t *testing.T) {
	cfgPath := writeTestConfig(t)

	_, err := execute(t, "", "train", "--config", cfgPath, "--epochs=-1")
	assert.ErrorIs(t, err, common.ErrInvalidConfig)

	_, err = execute(t, "", "train", "--config", cfgPath, "--no-builtin")
	var userErr *common.UserError
	assert.ErrorAs(t, err, &userErr)
}

func TestSetupLogging(t *testing.T) {
	tests := []struct {
		name    string
		level   string
		format  string
		wantErr bool
	}{
		{name: "defaults", level: "info", format: "console"},
		{name: "json debug", level: "debug", format: "json"},
		{name: "bad level", level: "verbose", format: "console", wantErr: true},
		{name: "bad format", level: "info", format: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := setupLogging(tt.level, tt.format)
			if tt.wantErr {
				assert.ErrorIs(t, err, common.ErrInvalidConfig)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFormatError(t *testing.T) {
	wrapped := fmt.Errorf("wrapped: %w", common.NewUserError("No model found", os.ErrNotExist))
	assert.Contains(t, formatError(wrapped), "No model found")
	assert.NotContains(t, formatError(wrapped), "wrapped")

	assert.Contains(t, formatError(errors.New("disk full")), "disk full")
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "", "version", "--config", writeTestConfig(t))
	require.NoError(t, err)
	assert.Equal(t, "evento dev\n", out)
}
