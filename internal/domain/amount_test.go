package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/pmarczak/zloty-bank-go/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name  string
		input string
		zloty uint64
		grosz uint64
	}{
		{"bare zloty", "36", 36, 0},
		{"zloty and grosz", "36,41", 36, 41},
		{"with currency", "36,41 zl", 36, 41},
		{"currency without space", "36,41zl", 36, 41},
		{"whole with currency", "36 zl", 36, 0},
		{"zero", "0", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := domain.ParseAmount(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.zloty, got.Zloty())
			assert.Equal(t, tt.grosz, got.Grosz())
		})
	}
}

func TestParseAmount_Invalid(t *testing.T) {
	for _, input := range []string{"", "abc", "-5", "36,4", "36,411", "36.41", "36,41 gbp", "zl"} {
		t.Run(input, func(t *testing.T) {
			_, err := domain.ParseAmount(input)
			var invalid *domain.ErrInvalidAmount
			require.ErrorAs(t, err, &invalid)
		})
	}
}

func TestNewAmount_CarriesGrosz(t *testing.T) {
	a := domain.NewAmount(1, 250)
	assert.Equal(t, uint64(3), a.Zloty())
	assert.Equal(t, uint64(50), a.Grosz())
}

func TestAmountFromFloat_Truncates(t *testing.T) {
	a := domain.AmountFromFloat(12.999)
	assert.Equal(t, uint64(12), a.Zloty())
	assert.Equal(t, uint64(99), a.Grosz())

	assert.True(t, domain.AmountFromFloat(-3.5).IsZero())
}

func TestAmountAdd(t *testing.T) {
	sum := domain.NewAmount(1, 70).Add(domain.NewAmount(2, 40))
	assert.Equal(t, "4,10 zl", sum.String())
}

func TestAmountSub(t *testing.T) {
	t.Run("borrows grosz", func(t *testing.T) {
		diff, err := domain.NewAmount(5, 10).Sub(domain.NewAmount(2, 30))
		require.NoError(t, err)
		assert.Equal(t, "2,80 zl", diff.String())
	})

	t.Run("exact", func(t *testing.T) {
		diff, err := domain.NewAmount(5, 10).Sub(domain.NewAmount(5, 10))
		require.NoError(t, err)
		assert.True(t, diff.IsZero())
	})

	t.Run("fails below zero", func(t *testing.T) {
		_, err := domain.NewAmount(2, 0).Sub(domain.NewAmount(2, 1))
		var invalid *domain.ErrInvalidAmount
		require.ErrorAs(t, err, &invalid)
	})
}

func TestAmountComparisons(t *testing.T) {
	small := domain.NewAmount(3, 99)
	big := domain.NewAmount(4, 0)

	assert.True(t, small.Less(big))
	assert.True(t, big.Greater(small))
	assert.True(t, small.LessOrEqual(small))
	assert.False(t, big.LessOrEqual(small))
}

func TestAmountString(t *testing.T) {
	assert.Equal(t, "0,05 zl", domain.NewAmount(0, 5).String())
	assert.Equal(t, "1250,00 zl", domain.NewAmount(1250, 0).String())
}

func TestAmountJSON(t *testing.T) {
	data, err := json.Marshal(domain.NewAmount(36, 41))
	require.NoError(t, err)
	assert.Equal(t, `"36,41 zl"`, string(data))

	var decoded domain.Amount
	require.NoError(t, json.Unmarshal([]byte(`"120,07 zl"`), &decoded))
	assert.Equal(t, uint64(120), decoded.Zloty())
	assert.Equal(t, uint64(7), decoded.Grosz())

	assert.Error(t, json.Unmarshal([]byte(`12.5`), &decoded))
}
