package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltin(t *testing.T) {
	examples := Builtin()
	require.Len(t, examples, 2)

	assert.Equal(t, "Jazz Company", examples[0].Provider)
	assert.Equal(t, "8PM", examples[0].TimeText)
	assert.Equal(t, "viernes", examples[0].DayText)
	assert.Equal(t, "Fijo", examples[0].ActivityType)

	assert.Equal(t, "Pendiente", examples[1].PaymentStatus)
	assert.Equal(t, "0", examples[1].AmountText)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "extra.yaml")
	content := `examples:
  - prompt: "Clase de yoga el martes 7pm, 20USD pagado"
    time: "7pm"
    day: "martes"
    amount: "20USD"
    activity_type: "Fijo"
    payment_status: "Pagado"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	examples, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, examples, 1)
	assert.Equal(t, "martes", examples[0].DayText)
	assert.Empty(t, examples[0].Provider)
}

func TestDecodeErrors(t *testing.T) {
	_, err := Decode(strings.NewReader("examples:\n  - prompt: \"\"\n"))
	assert.ErrorContains(t, err, "empty prompt")

	_, err = Decode(strings.NewReader("examples:\n  - prompt: hola\n    colour: red\n"))
	assert.Error(t, err)

	examples, err := Decode(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, examples)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
