package domain

import "fmt"

// Entity is implemented by every independently persisted aggregate. The
// identifier names the entity's file inside its storage directory; the JSON
// form comes from the type's own json.Marshaler.
type Entity interface {
	ID() string
	fmt.Stringer
}

// Ledger is the central bank balance seen from the domain: the fee sink for
// transfers, card transactions and gold sales, and the source of loan
// principals and deposit payouts. Decreasing below zero fails with
// ErrBankruptcy.
type Ledger interface {
	IncreaseBalance(Amount)
	DecreaseBalance(Amount) error
}
