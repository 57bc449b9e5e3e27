package domain_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/pmarczak/zloty-bank-go/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustCard(t *testing.T, cardType domain.CardType) domain.Card {
	t.Helper()
	card, err := domain.NewCard(cardType)
	require.NoError(t, err)
	return card
}

func TestTransferFees(t *testing.T) {
	assert.Equal(t, "0,00 zl", domain.NewMainAccount("PL1", "c1").TransferFee().String())
	assert.Equal(t, "10,00 zl", domain.NewSavingsAccount("PL2", "c1").TransferFee().String())
	assert.Equal(t, "5,00 zl", domain.NewInvestmentAccount("PL3", "c1").TransferFee().String())
	assert.Equal(t, "100,00 zl", domain.NewCryptoAccount("PL4", "c1").TransferFee().String())
}

func TestAddCard_DebitsPrice(t *testing.T) {
	account := domain.NewMainAccount("PL1", "c1")
	account.SetBalance(domain.NewAmount(150, 0))

	require.NoError(t, account.AddCard(mustCard(t, domain.CardGold)))
	assert.Equal(t, "50,00 zl", account.Balance().String())
	assert.Len(t, account.Cards(), 1)

	// Cannot afford a diamond card anymore.
	assert.Error(t, account.AddCard(mustCard(t, domain.CardDiamond)))
	assert.Len(t, account.Cards(), 1)
}

func TestRemoveCard_FirstOfType(t *testing.T) {
	account := domain.NewMainAccount("PL1", "c1")
	account.SetBalance(domain.NewAmount(1000, 0))
	require.NoError(t, account.AddCard(mustCard(t, domain.CardStandard)))
	require.NoError(t, account.AddCard(mustCard(t, domain.CardGold)))

	account.RemoveCard(mustCard(t, domain.CardStandard))
	require.Len(t, account.Cards(), 1)
	assert.Equal(t, domain.CardGold, account.Cards()[0].Type())
}

func TestTransaction_UsesBestCard(t *testing.T) {
	sender := domain.NewMainAccount("PL1", "c1")
	sender.SetBalance(domain.NewAmount(2000, 0))
	require.NoError(t, sender.AddCard(mustCard(t, domain.CardStandard)))
	require.NoError(t, sender.AddCard(mustCard(t, domain.CardDiamond)))

	recipient := domain.NewMainAccount("PL2", "c2")

	fee, ok := sender.Transaction(domain.NewAmount(100, 0), recipient)
	require.True(t, ok)

	// The diamond card wins over the standard one: a flat 2 zl fee.
	assert.Equal(t, "2,00 zl", fee.String())
	assert.Equal(t, "100,00 zl", recipient.Balance().String())
	assert.Equal(t, "1398,00 zl", sender.Balance().String())
}

func TestTransaction_Fails(t *testing.T) {
	recipient := domain.NewMainAccount("PL2", "c2")

	t.Run("without a card", func(t *testing.T) {
		sender := domain.NewMainAccount("PL1", "c1")
		sender.SetBalance(domain.NewAmount(1000, 0))

		_, ok := sender.Transaction(domain.NewAmount(10, 0), recipient)
		assert.False(t, ok)
		assert.Equal(t, "1000,00 zl", sender.Balance().String())
	})

	t.Run("insufficient funds for amount plus fee", func(t *testing.T) {
		sender := domain.NewMainAccount("PL1", "c1")
		sender.SetBalance(domain.NewAmount(100, 0))
		require.NoError(t, sender.AddCard(mustCard(t, domain.CardStandard)))

		_, ok := sender.Transaction(domain.NewAmount(100, 0), recipient)
		assert.False(t, ok)
		assert.Equal(t, "100,00 zl", sender.Balance().String())
	})
}

func TestAccountJSON_RoundTrip(t *testing.T) {
	begin := time.Date(2023, time.March, 15, 0, 0, 0, 0, time.UTC)

	savings := domain.NewSavingsAccount("PL61109010140000071219812874", "90010112345")
	savings.SetBalance(domain.NewAmount(800, 50))
	require.NoError(t, savings.AddCard(mustCard(t, domain.CardStandard)))
	require.True(t, savings.CreateDeposit(domain.NewAmount(500, 0), begin))

	data, err := json.Marshal(savings)
	require.NoError(t, err)

	restored, err := domain.AccountFromJSON(data)
	require.NoError(t, err)

	restoredSavings, ok := restored.(*domain.SavingsAccount)
	require.True(t, ok)
	assert.Equal(t, savings.Number(), restoredSavings.Number())
	assert.Equal(t, savings.OwnerID(), restoredSavings.OwnerID())
	assert.Equal(t, savings.Balance(), restoredSavings.Balance())
	require.Len(t, restoredSavings.Cards(), 1)
	require.NotNil(t, restoredSavings.Deposit())
	assert.Equal(t, "500,00 zl", restoredSavings.Deposit().Amount().String())
}

func TestAccountJSON_TypeDispatch(t *testing.T) {
	now := time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)

	accounts := []domain.Account{
		domain.NewMainAccount("PL10", "c1"),
		domain.NewSavingsAccount("PL11", "c1"),
		domain.NewInvestmentAccount("PL12", "c1"),
		domain.NewCryptoAccount("PL13", "c1"),
	}
	investment := accounts[2].(*domain.InvestmentAccount)
	investment.SetBalance(domain.NewAmount(100_000, 0))
	require.NoError(t, investment.BuyGold(3, now))

	for _, account := range accounts {
		data, err := json.Marshal(account)
		require.NoError(t, err)

		restored, err := domain.AccountFromJSON(data)
		require.NoError(t, err)
		assert.Equal(t, account.Type(), restored.Type())
		assert.Equal(t, account.Number(), restored.Number())
	}

	_, err := domain.AccountFromJSON([]byte(`{"type": 7}`))
	assert.Error(t, err)
}

func TestSavingsDeposit_Lifecycle(t *testing.T) {
	begin := time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC)
	account := domain.NewSavingsAccount("PL1", "c1")
	account.SetBalance(domain.NewAmount(1000, 0))

	require.True(t, account.CreateDeposit(domain.NewAmount(600, 0), begin))
	assert.Equal(t, "400,00 zl", account.Balance().String())

	// Only one deposit at a time.
	assert.False(t, account.CreateDeposit(domain.NewAmount(100, 0), begin))

	// Cannot deposit more than the balance holds.
	account.ClearDeposit()
	assert.False(t, account.CreateDeposit(domain.NewAmount(500, 0), begin))
}

func TestInvestmentGold_Lifecycle(t *testing.T) {
	now := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	account := domain.NewInvestmentAccount("PL1", "c1")
	account.SetBalance(domain.NewAmount(5000, 0))

	require.NoError(t, account.BuyGold(2, now))
	assert.Equal(t, "3000,00 zl", account.Balance().String())
	require.NotNil(t, account.GoldCoins())

	var gold *domain.ErrGold
	assert.ErrorAs(t, account.BuyGold(1, now), &gold)

	later := now.AddDate(0, 0, 10)
	earned, fee, err := account.SellGold(later)
	require.NoError(t, err)

	// Two coins at 1010 zl each, minus the 2% buyback fee.
	assert.Equal(t, "40,40 zl", fee.String())
	assert.Equal(t, "1979,60 zl", earned.String())
	assert.Equal(t, "4979,60 zl", account.Balance().String())
	assert.Nil(t, account.GoldCoins())

	_, _, err = account.SellGold(later)
	assert.ErrorAs(t, err, &gold)
}

func TestInvestmentGold_InsufficientFunds(t *testing.T) {
	now := time.Now()
	account := domain.NewInvestmentAccount("PL1", "c1")
	account.SetBalance(domain.NewAmount(500, 0))

	var notEnough *domain.ErrNotEnoughMoney
	assert.ErrorAs(t, account.BuyGold(1, now), &notEnough)
	assert.Equal(t, "500,00 zl", account.Balance().String())
}
