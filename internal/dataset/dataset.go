// Package dataset provides annotated training examples.
package dataset

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Veraticus/evento/internal/model"
	"gopkg.in/yaml.v3"
)

//go:embed builtin.yaml
var builtinYAML []byte

type file struct {
	Examples []model.AnnotatedExample `yaml:"examples"`
}

// Builtin returns the illustrative examples shipped with the binary.
func Builtin() []model.AnnotatedExample {
	examples, err := Decode(bytes.NewReader(builtinYAML))
	if err != nil {
		panic(fmt.Sprintf("builtin dataset is invalid: %v", err))
	}
	return examples
}

// LoadFile reads annotated examples from a YAML file.
func LoadFile(path string) ([]model.AnnotatedExample, error) {
	f, err := os.Open(path) // #nosec G304 -- path is supplied by the user
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer func() { _ = f.Close() }()

	examples, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("dataset %s: %w", path, err)
	}
	return examples, nil
}

// Decode parses a YAML document with a top-level examples list.
func Decode(r io.Reader) ([]model.AnnotatedExample, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f file
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to decode dataset: %w", err)
	}

	for i, ex := range f.Examples {
		if strings.TrimSpace(ex.Prompt) == "" {
			return nil, fmt.Errorf("example %d: empty prompt", i)
		}
	}
	return f.Examples, nil
}
