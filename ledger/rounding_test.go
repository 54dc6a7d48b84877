package ledger

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRoundCents(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"already exact", "60.25", "60.25"},
		{"rounds down below half", "10.124", "10.12"},
		{"rounds up above half", "10.126", "10.13"},
		{"half to even keeps even cent", "0.125", "0.12"},
		{"half to even bumps odd cent", "0.135", "0.14"},
		{"half to even on larger amount", "60.255", "60.26"},
		{"negative half to even", "-0.125", "-0.12"},
		{"zero", "0", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RoundCents(dec(tt.in))
			assert.True(t, got.Equal(dec(tt.want)), "RoundCents(%s) = %s, want %s", tt.in, got, tt.want)
		})
	}
}

// Every exact half-cent must land on an even cent, whichever way it rounds.
func TestRoundCentsHalfAlwaysLandsEven(t *testing.T) {
	half := decimal.New(5, -1)
	for cents := int64(0); cents < 100; cents++ {
		in := decimal.NewFromInt(cents).Add(half).Div(hundred)
		got := RoundCents(in).Mul(hundred).IntPart()
		assert.Zerof(t, got%2, "RoundCents(%s) landed on odd cent %d", in, got)
	}
}

func TestRoundCentsStringFixed(t *testing.T) {
	got := RoundCents(dec("33.333333"))
	assert.Equal(t, "33.33", got.StringFixed(2))
}
