package domain_test

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/pmarczak/zloty-bank-go/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoldCoinsValue(t *testing.T) {
	purchase := time.Date(2024, time.May, 1, 12, 0, 0, 0, time.UTC)
	coins := domain.NewGoldCoins(3, purchase)

	t.Run("at purchase", func(t *testing.T) {
		assert.Equal(t, "3000,00 zl", coins.Value(purchase).String())
	})

	t.Run("gains one zloty per coin per day", func(t *testing.T) {
		assert.Equal(t, "3021,00 zl", coins.Value(purchase.AddDate(0, 0, 7)).String())
	})

	t.Run("partial day does not count", func(t *testing.T) {
		assert.Equal(t, "3000,00 zl", coins.Value(purchase.Add(23*time.Hour)).String())
	})

	t.Run("clock before purchase", func(t *testing.T) {
		assert.Equal(t, "3000,00 zl", coins.Value(purchase.AddDate(0, 0, -5)).String())
	})
}

func TestGoldCoinsJSON(t *testing.T) {
	purchase := time.Date(2024, time.May, 1, 12, 0, 0, 0, time.UTC)
	coins := domain.NewGoldCoins(5, purchase)

	data, err := json.Marshal(coins)
	require.NoError(t, err)
	assert.JSONEq(t, fmt.Sprintf(`{"count":5,"purchaseTime":%d}`, purchase.Unix()), string(data))

	var restored domain.GoldCoins
	require.NoError(t, json.Unmarshal(data, &restored))
	assert.Equal(t, 5, restored.Count())
	assert.Equal(t, purchase.Unix(), restored.PurchaseTime().Unix())
}
