// Package config resolves the application configuration from Viper.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Veraticus/evento/internal/common"
	"github.com/Veraticus/evento/internal/engine"
	"github.com/spf13/viper"
)

// Default file locations.
const (
	DefaultModelPath    = "$HOME/.local/share/evento/event.model"
	DefaultDatabasePath = "$HOME/.local/share/evento/evento.db"
)

// Config is the resolved application configuration.
type Config struct {
	ModelPath    string
	DatabasePath string
	LogLevel     string
	LogFormat    string
	Training     engine.Config
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		ModelPath:    ExpandPath(DefaultModelPath),
		DatabasePath: ExpandPath(DefaultDatabasePath),
		LogLevel:     "info",
		LogFormat:    "console",
		Training:     engine.DefaultConfig(),
	}
}

// Load builds the configuration from Viper (config file, EVENTO_ env vars
// and bound flags) over the defaults, and validates the result.
func Load() (Config, error) {
	return LoadFrom(viper.GetViper())
}

// LoadFrom is Load with an explicit Viper instance.
func LoadFrom(v *viper.Viper) (Config, error) {
	cfg := DefaultConfig()

	if s := v.GetString("model.path"); s != "" {
		cfg.ModelPath = ExpandPath(s)
	}
	if s := v.GetString("database.path"); s != "" {
		cfg.DatabasePath = ExpandPath(s)
	}
	if s := v.GetString("logging.level"); s != "" {
		cfg.LogLevel = s
	}
	if s := v.GetString("logging.format"); s != "" {
		cfg.LogFormat = s
	}

	t := &cfg.Training
	if v.IsSet("training.epochs") {
		t.Epochs = v.GetInt("training.epochs")
	}
	if v.IsSet("training.batch_size") {
		t.BatchSize = v.GetInt("training.batch_size")
	}
	if v.IsSet("training.learning_rate") {
		t.LearningRate = v.GetFloat64("training.learning_rate")
	}
	if v.IsSet("training.seed") {
		t.Seed = v.GetUint64("training.seed")
	}
	if v.IsSet("training.max_vocab") {
		t.MaxVocab = v.GetInt("training.max_vocab")
	}
	if v.IsSet("training.sequence_length") {
		t.SeqLen = v.GetInt("training.sequence_length")
	}
	if v.IsSet("training.embedding_dim") {
		t.EmbeddingDim = v.GetInt("training.embedding_dim")
	}
	if v.IsSet("training.hidden1") {
		t.Hidden1 = v.GetInt("training.hidden1")
	}
	if v.IsSet("training.hidden2") {
		t.Hidden2 = v.GetInt("training.hidden2")
	}
	if v.IsSet("training.dense_units") {
		t.DenseUnits = v.GetInt("training.dense_units")
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that every setting is usable.
func (c Config) Validate() error {
	if c.ModelPath == "" {
		return fmt.Errorf("%w: model.path", common.ErrMissingConfig)
	}
	if c.DatabasePath == "" {
		return fmt.Errorf("%w: database.path", common.ErrMissingConfig)
	}
	if _, err := common.ParseLevel(c.LogLevel); err != nil {
		return err
	}

	t := c.Training
	positive := []struct {
		name  string
		value int
	}{
		{"training.epochs", t.Epochs},
		{"training.batch_size", t.BatchSize},
		{"training.sequence_length", t.SeqLen},
		{"training.embedding_dim", t.EmbeddingDim},
		{"training.hidden1", t.Hidden1},
		{"training.hidden2", t.Hidden2},
		{"training.dense_units", t.DenseUnits},
	}
	for _, p := range positive {
		if p.value <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %d", common.ErrInvalidConfig, p.name, p.value)
		}
	}
	if t.MaxVocab < 2 {
		return fmt.Errorf("%w: training.max_vocab must be at least 2, got %d", common.ErrInvalidConfig, t.MaxVocab)
	}
	if t.LearningRate <= 0 {
		return fmt.Errorf("%w: training.learning_rate must be positive, got %g", common.ErrInvalidConfig, t.LearningRate)
	}
	return nil
}

// ExpandPath resolves a leading ~ to the home directory and then expands
// $VAR references. An unresolvable home directory leaves ~ in place.
func ExpandPath(path string) string {
	if rest, ok := strings.CutPrefix(path, "~"); ok && (rest == "" || rest[0] == '/') {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, rest)
		}
	}
	return os.ExpandEnv(path)
}
