package domain

import (
	"encoding/json"
	"fmt"
)

// ============================================================
// Transfers
// ============================================================

// TransferType classifies a transfer by the relation between its endpoints.
type TransferType int

const (
	// TransferOwn moves money between two accounts of the same client.
	TransferOwn TransferType = iota
	// TransferInternal moves money between two clients of this bank.
	TransferInternal
	// TransferOutcomingExternal leaves the bank for an external one.
	TransferOutcomingExternal
	// TransferIncomingExternal arrives from an external bank.
	TransferIncomingExternal
)

func (t TransferType) String() string {
	switch t {
	case TransferOwn:
		return "own"
	case TransferInternal:
		return "internal"
	case TransferOutcomingExternal:
		return "outcoming external"
	case TransferIncomingExternal:
		return "incoming external"
	}
	return fmt.Sprintf("transfer-type-%d", int(t))
}

// Transfer is an immutable record of a money movement between two account
// numbers. The additional fee is the sender account's flat transfer fee,
// captured at creation time.
type Transfer struct {
	id            string
	senderID      string
	recipientID   string
	amount        Amount
	additionalFee Amount
	transferType  TransferType
}

// NewTransfer records a transfer between the given account numbers.
func NewTransfer(id, senderID, recipientID string, amount, additionalFee Amount, transferType TransferType) *Transfer {
	return &Transfer{
		id:            id,
		senderID:      senderID,
		recipientID:   recipientID,
		amount:        amount,
		additionalFee: additionalFee,
		transferType:  transferType,
	}
}

func (t *Transfer) ID() string         { return t.id }
func (t *Transfer) SenderID() string   { return t.senderID }
func (t *Transfer) RecipientID() string { return t.recipientID }
func (t *Transfer) Amount() Amount     { return t.amount }
func (t *Transfer) Type() TransferType { return t.transferType }

// Fee is the total charge on top of the amount. Small transfers are
// subsidized: when the amount does not exceed the flat fee the transfer is
// free. Outgoing external transfers add a 0,12 zl clearing surcharge, again
// waived when the amount cannot cover the combined fee.
func (t *Transfer) Fee() Amount {
	if t.amount.LessOrEqual(t.additionalFee) {
		return Amount{}
	}
	if t.transferType != TransferOutcomingExternal {
		return t.additionalFee
	}

	total := t.additionalFee.Add(NewAmount(0, 12))
	if t.amount.LessOrEqual(total) {
		return t.additionalFee
	}
	return total
}

// SentAmount is the full debit on the sender: amount plus fee.
func (t *Transfer) SentAmount() Amount { return t.amount.Add(t.Fee()) }

// ReceivedAmount is the credit on the recipient, always the bare amount.
func (t *Transfer) ReceivedAmount() Amount { return t.amount }

// ConcernsAccount reports whether the account number is either endpoint.
func (t *Transfer) ConcernsAccount(number string) bool {
	return t.senderID == number || t.recipientID == number
}

func (t *Transfer) String() string {
	return fmt.Sprintf("Transfer %s: %s from %s to %s (%s), fee: %s",
		t.id, t.amount, t.senderID, t.recipientID, t.transferType, t.Fee())
}

// ============================================================
// JSON codec
// ============================================================

type transferDocument struct {
	ID            string       `json:"id"`
	SenderID      string       `json:"senderID"`
	RecipientID   string       `json:"recipientID"`
	Amount        Amount       `json:"amount"`
	AdditionalFee Amount       `json:"additionalFee"`
	Type          TransferType `json:"type"`
}

func (t *Transfer) MarshalJSON() ([]byte, error) {
	return json.Marshal(transferDocument{
		ID:            t.id,
		SenderID:      t.senderID,
		RecipientID:   t.recipientID,
		Amount:        t.amount,
		AdditionalFee: t.additionalFee,
		Type:          t.transferType,
	})
}

func (t *Transfer) UnmarshalJSON(data []byte) error {
	var doc transferDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	t.id = doc.ID
	t.senderID = doc.SenderID
	t.recipientID = doc.RecipientID
	t.amount = doc.Amount
	t.additionalFee = doc.AdditionalFee
	t.transferType = doc.Type
	return nil
}
