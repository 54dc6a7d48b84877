package utils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatMoney(t *testing.T) {
	amount, _ := decimal.NewFromString("60.25")

	assert.Equal(t, "$60.25", FormatMoney(amount, "CAD"))
	assert.Equal(t, "€60.25", FormatMoney(amount, "EUR"))

	// Unknown currencies fall back to CAD formatting.
	assert.Equal(t, "$60.25", FormatMoney(amount, "XYZ"))
}
