package model

import (
	"testing"

	"github.com/Veraticus/evento/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActivityTypeRoundTrip(t *testing.T) {
	for _, label := range []string{"Eventual", "Fijo"} {
		at, err := ParseActivityType(label)
		require.NoError(t, err)

		code, err := at.Code()
		require.NoError(t, err)

		back, err := ActivityTypeFromCode(code)
		require.NoError(t, err)
		assert.Equal(t, label, string(back))
	}
}

func TestPaymentStatusRoundTrip(t *testing.T) {
	for _, label := range []string{"Pendiente", "Pagado"} {
		ps, err := ParsePaymentStatus(label)
		require.NoError(t, err)

		code, err := ps.Code()
		require.NoError(t, err)

		back, err := PaymentStatusFromCode(code)
		require.NoError(t, err)
		assert.Equal(t, label, string(back))
	}
}

func TestCategoricalCodes(t *testing.T) {
	code, _ := ActivityEventual.Code()
	assert.Equal(t, 0, code)
	code, _ = ActivityFijo.Code()
	assert.Equal(t, 1, code)
	code, _ = PaymentPendiente.Code()
	assert.Equal(t, 0, code)
	code, _ = PaymentPagado.Code()
	assert.Equal(t, 1, code)
}

func TestUnknownCategory(t *testing.T) {
	_, err := ParseActivityType("Mensual")
	assert.ErrorIs(t, err, common.ErrUnknownCategory)

	_, err = ParsePaymentStatus("pagado")
	assert.ErrorIs(t, err, common.ErrUnknownCategory)

	_, err = ActivityTypeFromCode(2)
	assert.ErrorIs(t, err, common.ErrUnknownCategory)

	_, err = PaymentStatusFromCode(-1)
	assert.ErrorIs(t, err, common.ErrUnknownCategory)

	_, err = ActivityType("").Code()
	assert.ErrorIs(t, err, common.ErrUnknownCategory)
}
