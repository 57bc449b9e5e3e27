package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// GoldCoins is a synthetic gold holding owned by one investment account. A
// single coin is worth 1000 zl at purchase and gains 1 zl per whole day
// held.
type GoldCoins struct {
	count    int
	purchase time.Time
}

// NewGoldCoins records a purchase of count coins at the given time.
func NewGoldCoins(count int, purchase time.Time) *GoldCoins {
	return &GoldCoins{count: count, purchase: purchase}
}

// Count returns the number of coins held.
func (g *GoldCoins) Count() int { return g.count }

// PurchaseTime returns when the coins were bought.
func (g *GoldCoins) PurchaseTime() time.Time { return g.purchase }

// Value returns the holding's worth at now. Clock readings before the
// purchase count as zero elapsed days.
func (g *GoldCoins) Value(now time.Time) Amount {
	days := int(now.Sub(g.purchase).Hours()) / 24
	if days < 0 {
		days = 0
	}
	return NewAmount(uint64(g.count)*uint64(1000+days), 0)
}

func (g *GoldCoins) String() string {
	return fmt.Sprintf("%d gold coins, purchased %s", g.count, g.purchase.Format("02.01.2006"))
}

type goldDocument struct {
	Count        int   `json:"count"`
	PurchaseTime int64 `json:"purchaseTime"`
}

func (g *GoldCoins) MarshalJSON() ([]byte, error) {
	return json.Marshal(goldDocument{Count: g.count, PurchaseTime: g.purchase.Unix()})
}

func (g *GoldCoins) UnmarshalJSON(data []byte) error {
	var doc goldDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	g.count = doc.Count
	g.purchase = time.Unix(doc.PurchaseTime, 0)
	return nil
}
