package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	t.Run("valid amount", func(t *testing.T) {
		d, err := ParseAmount("120.51")
		require.NoError(t, err)
		assert.Equal(t, "120.51", d.StringFixed(2))
	})

	t.Run("rejects zero", func(t *testing.T) {
		_, err := ParseAmount("0")
		assert.Error(t, err)
	})

	t.Run("rejects negative", func(t *testing.T) {
		_, err := ParseAmount("-5.00")
		assert.Error(t, err)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := ParseAmount("12,50")
		assert.Error(t, err)
	})
}

func TestParsePercent(t *testing.T) {
	t.Run("bounds are inclusive", func(t *testing.T) {
		for _, s := range []string{"0", "100", "66.67"} {
			_, err := ParsePercent(s)
			assert.NoErrorf(t, err, "ParsePercent(%q)", s)
		}
	})

	t.Run("out of range", func(t *testing.T) {
		for _, s := range []string{"-1", "100.01", "150"} {
			_, err := ParsePercent(s)
			assert.Errorf(t, err, "ParsePercent(%q)", s)
		}
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := ParsePercent("half")
		assert.Error(t, err)
	})
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-03-10")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC), d)

	_, err = ParseDate("10/03/2025")
	assert.Error(t, err)
}

func TestPaginationOffset(t *testing.T) {
	p := PaginationQuery{Page: 3, Limit: 20}
	assert.Equal(t, 40, p.Offset())
}
