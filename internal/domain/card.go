package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// ============================================================
// Cards
// ============================================================

// CardType discriminates the card variants in JSON documents.
type CardType int

const (
	CardStandard CardType = iota
	CardGold
	CardDiamond
)

func (t CardType) String() string {
	switch t {
	case CardStandard:
		return "standard"
	case CardGold:
		return "gold"
	case CardDiamond:
		return "diamond"
	}
	return fmt.Sprintf("card-type-%d", int(t))
}

// cardBaseFee is charged on every card transaction regardless of variant.
var cardBaseFee = NewAmount(2, 0)

// Card is stateless polymorphism over the fee formula and the fixed price of
// a card variant. A card is owned exclusively by one account.
type Card interface {
	CalculateFee(amount Amount) Amount
	Type() CardType
	Price() Amount
	fmt.Stringer
}

// NewCard constructs the variant for the given type tag.
func NewCard(t CardType) (Card, error) {
	switch t {
	case CardStandard:
		return StandardCard{}, nil
	case CardGold:
		return GoldCard{}, nil
	case CardDiamond:
		return DiamondCard{}, nil
	}
	return nil, fmt.Errorf("unknown card type %d", t)
}

// StandardCard is free to order and charges 5% of the amount plus the base
// fee on every transaction.
type StandardCard struct{}

func (StandardCard) CalculateFee(amount Amount) Amount {
	fee := NewAmount(
		uint64(float64(amount.Zloty())*0.05),
		uint64(float64(amount.Grosz())*0.05),
	)
	return fee.Add(cardBaseFee)
}

func (StandardCard) Type() CardType { return CardStandard }
func (StandardCard) Price() Amount  { return Amount{} }

func (StandardCard) String() string {
	return "Standard card - additional fee of 5% of the amount on every payment"
}

// GoldCard costs 100 zl and charges 3% of the amount plus the base fee.
type GoldCard struct{}

func (GoldCard) CalculateFee(amount Amount) Amount {
	fee := NewAmount(
		uint64(float64(amount.Zloty())*0.03),
		uint64(float64(amount.Grosz())*0.03),
	)
	return fee.Add(cardBaseFee)
}

func (GoldCard) Type() CardType { return CardGold }
func (GoldCard) Price() Amount  { return NewAmount(100, 0) }

func (GoldCard) String() string {
	return "Gold card - additional fee of 3% of the amount on every payment"
}

// DiamondCard costs 500 zl and charges only the base fee.
type DiamondCard struct{}

func (DiamondCard) CalculateFee(Amount) Amount {
	return cardBaseFee
}

func (DiamondCard) Type() CardType { return CardDiamond }
func (DiamondCard) Price() Amount  { return NewAmount(500, 0) }

func (DiamondCard) String() string {
	return "Diamond card - no additional fees"
}

// ============================================================
// JSON codec
// ============================================================

// cardDocument is the on-disk form of a card. The type tag is stored as a
// numeric string ("0"/"1"/"2"), not a bare number; persisted data depends on
// that exact shape.
type cardDocument struct {
	Type string `json:"type"`
}

func marshalCard(c Card) cardDocument {
	return cardDocument{Type: strconv.Itoa(int(c.Type()))}
}

func (d cardDocument) card() (Card, error) {
	tag, err := strconv.Atoi(d.Type)
	if err != nil {
		return nil, fmt.Errorf("card type %q is not numeric", d.Type)
	}
	return NewCard(CardType(tag))
}

// CardFromJSON reconstructs a card from its on-disk document.
func CardFromJSON(data []byte) (Card, error) {
	var doc cardDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc.card()
}

// CardToJSON renders a card as its on-disk document.
func CardToJSON(c Card) ([]byte, error) {
	return json.Marshal(marshalCard(c))
}
