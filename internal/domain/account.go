package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// ============================================================
// Accounts
// ============================================================

// AccountType discriminates the account variants in JSON documents.
type AccountType int

const (
	AccountMain AccountType = iota
	AccountSavings
	AccountInvestment
	AccountCrypto
)

func (t AccountType) String() string {
	switch t {
	case AccountMain:
		return "main"
	case AccountSavings:
		return "savings"
	case AccountInvestment:
		return "investment"
	case AccountCrypto:
		return "crypto"
	}
	return fmt.Sprintf("account-type-%d", int(t))
}

// Account is the behavior shared by all account variants. An account is
// identified by its IBAN-shaped number, owned by exactly one client (by
// personal id) and owns its cards exclusively.
type Account interface {
	Entity
	Number() string
	OwnerID() string
	Balance() Amount
	SetBalance(Amount)
	Cards() []Card
	AddCard(Card) error
	RemoveCard(Card)
	Transaction(amount Amount, dest Account) (Amount, bool)
	TransferFee() Amount
	Type() AccountType
}

// baseAccount carries the state shared by every variant.
type baseAccount struct {
	number  string
	ownerID string
	balance Amount
	cards   []Card
}

func (a *baseAccount) ID() string      { return a.number }
func (a *baseAccount) Number() string  { return a.number }
func (a *baseAccount) OwnerID() string { return a.ownerID }
func (a *baseAccount) Balance() Amount { return a.balance }

func (a *baseAccount) SetBalance(value Amount) { a.balance = value }

func (a *baseAccount) Cards() []Card { return a.cards }

// AddCard deducts the card's price from the balance and attaches the card.
// The insufficiency error bubbles up unchanged; callers must guard.
func (a *baseAccount) AddCard(card Card) error {
	newBalance, err := a.balance.Sub(card.Price())
	if err != nil {
		return err
	}
	a.balance = newBalance
	a.cards = append(a.cards, card)
	return nil
}

// RemoveCard detaches the first card of the same variant without refund.
func (a *baseAccount) RemoveCard(card Card) {
	for i, c := range a.cards {
		if c.Type() == card.Type() {
			a.cards = append(a.cards[:i], a.cards[i+1:]...)
			return
		}
	}
}

// Transaction moves amount to dest using the account's best card, by fixed
// priority Diamond > Gold > Standard. The sender is debited amount plus the
// card fee, dest is credited the bare amount, and the fee is returned so the
// caller can credit the central balance. Returns false without mutating
// state when no card is present or the balance cannot cover amount+fee.
func (a *baseAccount) Transaction(amount Amount, dest Account) (Amount, bool) {
	card := a.pickCard()
	if card == nil {
		return Amount{}, false
	}

	fee := card.CalculateFee(amount)
	newBalance, err := a.balance.Sub(amount.Add(fee))
	if err != nil {
		return Amount{}, false
	}

	a.balance = newBalance
	dest.SetBalance(dest.Balance().Add(amount))
	return fee, true
}

func (a *baseAccount) pickCard() Card {
	for _, tier := range []CardType{CardDiamond, CardGold, CardStandard} {
		for _, c := range a.cards {
			if c.Type() == tier {
				return c
			}
		}
	}
	return nil
}

func (a *baseAccount) describe() string {
	return fmt.Sprintf(" Account number: %s Balance: %s", a.number, a.balance)
}

// ============================================================
// Variants
// ============================================================

// MainAccount is the everyday account; transfers from it carry no fee.
type MainAccount struct {
	baseAccount
}

// NewMainAccount opens a main account with a zero balance and no cards.
func NewMainAccount(number, ownerID string) *MainAccount {
	return &MainAccount{baseAccount{number: number, ownerID: ownerID}}
}

func (a *MainAccount) Type() AccountType   { return AccountMain }
func (a *MainAccount) TransferFee() Amount { return Amount{} }
func (a *MainAccount) String() string      { return "Main account" + a.describe() }

// SavingsAccount may hold at most one deposit; transfers cost 10 zl.
type SavingsAccount struct {
	baseAccount
	deposit *Deposit
}

// NewSavingsAccount opens a savings account with a zero balance.
func NewSavingsAccount(number, ownerID string) *SavingsAccount {
	return &SavingsAccount{baseAccount: baseAccount{number: number, ownerID: ownerID}}
}

func (a *SavingsAccount) Type() AccountType   { return AccountSavings }
func (a *SavingsAccount) TransferFee() Amount { return NewAmount(10, 0) }

// Deposit returns the current deposit, or nil when none exists.
func (a *SavingsAccount) Deposit() *Deposit { return a.deposit }

// CreateDeposit moves amount from the account balance into a new deposit.
// Returns false when a deposit already exists or the balance cannot cover
// the amount.
func (a *SavingsAccount) CreateDeposit(amount Amount, begin time.Time) bool {
	if a.deposit != nil {
		return false
	}

	newBalance, err := a.balance.Sub(amount)
	if err != nil {
		return false
	}

	a.balance = newBalance
	a.deposit = NewDeposit(amount, begin)
	return true
}

// ClearDeposit drops the deposit after its payout has been settled.
func (a *SavingsAccount) ClearDeposit() { a.deposit = nil }

func (a *SavingsAccount) String() string {
	s := "Savings account" + a.describe()
	if a.deposit != nil {
		s += " " + a.deposit.String()
	}
	return s
}

// InvestmentAccount may hold at most one gold position; transfers cost 5 zl.
type InvestmentAccount struct {
	baseAccount
	goldCoins *GoldCoins
}

// NewInvestmentAccount opens an investment account with a zero balance.
func NewInvestmentAccount(number, ownerID string) *InvestmentAccount {
	return &InvestmentAccount{baseAccount: baseAccount{number: number, ownerID: ownerID}}
}

func (a *InvestmentAccount) Type() AccountType   { return AccountInvestment }
func (a *InvestmentAccount) TransferFee() Amount { return NewAmount(5, 0) }

// GoldCoins returns the current holding, or nil when none exists.
func (a *InvestmentAccount) GoldCoins() *GoldCoins { return a.goldCoins }

// BuyGold purchases count coins at their current value, debiting the
// balance. Fails with ErrGold when coins are already held and with
// ErrNotEnoughMoney when the balance cannot cover the purchase.
func (a *InvestmentAccount) BuyGold(count int, now time.Time) error {
	if a.goldCoins != nil {
		return &ErrGold{Reason: "you must sell the coins you currently hold first"}
	}

	coins := NewGoldCoins(count, now)
	newBalance, err := a.balance.Sub(coins.Value(now))
	if err != nil {
		return &ErrNotEnoughMoney{Operation: "gold purchase"}
	}

	a.balance = newBalance
	a.goldCoins = coins
	return nil
}

// SellGold liquidates the holding at its current value. A 2% fee is returned
// for the caller to credit the central balance; the remainder is credited to
// the account. Fails with ErrGold when no coins are held.
func (a *InvestmentAccount) SellGold(now time.Time) (earned, fee Amount, err error) {
	if a.goldCoins == nil {
		return Amount{}, Amount{}, &ErrGold{Reason: "you do not hold gold coins on this account"}
	}

	value := a.goldCoins.Value(now)
	fee = value.MulFloat(0.02)
	earned, _ = value.Sub(fee)

	a.balance = a.balance.Add(earned)
	a.goldCoins = nil
	return earned, fee, nil
}

func (a *InvestmentAccount) String() string {
	s := "Investment account" + a.describe() + ". Gold coins: "
	if a.goldCoins != nil {
		return s + a.goldCoins.String()
	}
	return s + "none"
}

// CryptoAccount carries the highest transfer fee, 100 zl.
type CryptoAccount struct {
	baseAccount
}

// NewCryptoAccount opens a crypto account with a zero balance.
func NewCryptoAccount(number, ownerID string) *CryptoAccount {
	return &CryptoAccount{baseAccount{number: number, ownerID: ownerID}}
}

func (a *CryptoAccount) Type() AccountType   { return AccountCrypto }
func (a *CryptoAccount) TransferFee() Amount { return NewAmount(100, 0) }
func (a *CryptoAccount) String() string      { return "Crypto account" + a.describe() }

// ============================================================
// Polymorphic JSON codec
// ============================================================

// accountDocument is the shared on-disk form; deposit and goldCoins are
// present only on the variants that hold them.
type accountDocument struct {
	AccountNumber string         `json:"accountNumber"`
	OwnerID       string         `json:"ownerID"`
	Balance       Amount         `json:"balance"`
	Cards         []cardDocument `json:"cards"`
	Type          AccountType    `json:"type"`
	Deposit       *Deposit       `json:"deposit,omitempty"`
	GoldCoins     *GoldCoins     `json:"goldCoins,omitempty"`
}

func (a *baseAccount) document(t AccountType) accountDocument {
	cards := make([]cardDocument, 0, len(a.cards))
	for _, c := range a.cards {
		cards = append(cards, marshalCard(c))
	}
	return accountDocument{
		AccountNumber: a.number,
		OwnerID:       a.ownerID,
		Balance:       a.balance,
		Cards:         cards,
		Type:          t,
	}
}

func (a *baseAccount) restore(doc accountDocument) error {
	a.number = doc.AccountNumber
	a.ownerID = doc.OwnerID
	a.balance = doc.Balance
	a.cards = make([]Card, 0, len(doc.Cards))
	for _, cd := range doc.Cards {
		card, err := cd.card()
		if err != nil {
			return err
		}
		a.cards = append(a.cards, card)
	}
	return nil
}

func (a *MainAccount) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.document(AccountMain))
}

func (a *SavingsAccount) MarshalJSON() ([]byte, error) {
	doc := a.document(AccountSavings)
	doc.Deposit = a.deposit
	return json.Marshal(doc)
}

func (a *InvestmentAccount) MarshalJSON() ([]byte, error) {
	doc := a.document(AccountInvestment)
	doc.GoldCoins = a.goldCoins
	return json.Marshal(doc)
}

func (a *CryptoAccount) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.document(AccountCrypto))
}

// AccountFromJSON reconstructs the concrete account variant from a flat
// document, dispatching on the type discriminator.
func AccountFromJSON(data []byte) (Account, error) {
	var doc accountDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	switch doc.Type {
	case AccountMain:
		a := &MainAccount{}
		return a, a.restore(doc)
	case AccountSavings:
		a := &SavingsAccount{deposit: doc.Deposit}
		return a, a.restore(doc)
	case AccountInvestment:
		a := &InvestmentAccount{goldCoins: doc.GoldCoins}
		return a, a.restore(doc)
	case AccountCrypto:
		a := &CryptoAccount{}
		return a, a.restore(doc)
	}
	return nil, fmt.Errorf("unknown account type %d", doc.Type)
}
